package ledger

import (
	"context"
	"earn-server/internal/kv"
	"earn-server/internal/observability"
	"time"
)

// Service opens per-user ledgers and guarantees that only one workflow
// mutates a given user's ledger at a time.
type Service struct {
	root   kv.Store
	rules  Rules
	locker *Locker
	now    func() time.Time
	logger *observability.Logger
}

func NewService(root kv.Store, rules Rules, logger *observability.Logger) *Service {
	return &Service{
		root:   root,
		rules:  rules,
		locker: NewLocker(),
		now:    time.Now,
		logger: logger,
	}
}

// WithClock overrides the time source. Used by tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Root returns the unscoped store used for cross-account keys.
func (s *Service) Root() kv.Store {
	return s.root
}

// Scope returns the store namespace of one user.
func (s *Service) Scope(userID string) kv.Store {
	return kv.Scoped(s.root, kv.UserScope(userID))
}

func (s *Service) Rules() Rules {
	return s.rules
}

// WithLedger locks userID, opens their ledger and runs fn. fn decides
// whether to Save.
func (s *Service) WithLedger(ctx context.Context, userID string, fn func(*Ledger) error) error {
	unlock := s.locker.Lock(userID)
	defer unlock()

	l, err := Open(ctx, s.Scope(userID), s.rules, s.now)
	if err != nil {
		ctx = observability.WithFields(ctx, observability.Field{Key: "user_id", Value: userID})
		s.logger.Error(ctx, "failed to open ledger", err)
		return err
	}
	return fn(l)
}

// View returns a snapshot of userID's records.
func (s *Service) View(ctx context.Context, userID string) (Snapshot, error) {
	var snap Snapshot
	err := s.WithLedger(ctx, userID, func(l *Ledger) error {
		snap = l.Snapshot()
		return nil
	})
	return snap, err
}
