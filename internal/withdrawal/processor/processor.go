package processor

import (
	"context"
	"earn-server/internal/bridge"
	"earn-server/internal/clients/adnetwork"
	"earn-server/internal/config"
	"earn-server/internal/ledger"
	"earn-server/internal/observability"
	"earn-server/internal/rewards/attempt"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrAdInFlight             = errors.New("withdrawal ad already in progress")
	ErrAdLoadFailed           = errors.New("withdrawal ad not completed")
	ErrConfirmationNotStarted = errors.New("withdrawal requires watching an ad first")
	ErrConfirmationExpired    = errors.New("withdrawal confirmation window expired")
)

const SurfaceWithdrawal = "withdrawal"

// BeginResult reports the mandatory ad view that opens a confirmation window.
type BeginResult struct {
	attempt.Outcome
	ConfirmBy time.Time `json:"confirmBy"`
}

// ConfirmResult is a completed withdrawal.
type ConfirmResult struct {
	Withdrawal ledger.Withdrawal `json:"withdrawal"`
	Balance    decimal.Decimal   `json:"balance"`
	Statistics ledger.Statistics `json:"statistics"`
	Message    string            `json:"message"`
}

type WithdrawalProcessor struct {
	ledger    LedgerService
	bridge    HostBridge
	runner    *attempt.Runner
	window    time.Duration
	threshold decimal.Decimal
	clock     attempt.Clock
	logger    *observability.Logger

	mu      sync.Mutex
	pending map[string]time.Time
}

func New(ledgerSvc LedgerService, ads AdCapability, hostBridge HostBridge, cfg config.RewardsConfig, logger *observability.Logger) *WithdrawalProcessor {
	runner := attempt.NewRunner(SurfaceWithdrawal, ads, attempt.Policy{
		MaxRetries: cfg.MaxRetries,
		Backoff:    cfg.RetryBackoff,
		StaleAfter: cfg.AdDuration,
	}, logger).WithMessages(attempt.Messages{
		Loading: "Loading withdrawal ad...",
		Retry:   "Withdrawal ad failed to load. Retrying in %d seconds (%d/%d)",
		Failed:  "Withdrawal canceled - ad not completed",
	})

	return &WithdrawalProcessor{
		ledger:    ledgerSvc,
		bridge:    hostBridge,
		runner:    runner,
		window:    cfg.ConfirmationWindow,
		threshold: cfg.WithdrawalThreshold,
		clock:     attempt.RealClock(),
		logger:    logger,
		pending:   make(map[string]time.Time),
	}
}

func (p *WithdrawalProcessor) WithClock(c attempt.Clock) *WithdrawalProcessor {
	p.clock = c
	p.runner.WithClock(c)
	return p
}

// Begin checks the balance, shows the mandatory ad and opens a confirmation
// window once it completes.
func (p *WithdrawalProcessor) Begin(ctx context.Context, userID string) (BeginResult, error) {
	ctx = observability.WithFields(ctx, observability.Field{Key: "user_id", Value: userID})

	snap, err := p.ledger.View(ctx, userID)
	if err != nil {
		return BeginResult{}, err
	}
	if snap.Account.Balance.LessThan(p.threshold) {
		observability.Withdrawals.WithLabelValues("insufficient_balance").Inc()
		return BeginResult{}, ledger.ErrInsufficientBalance
	}

	var result BeginResult
	out, err := p.runner.Run(ctx, userID, adnetwork.Request{UserID: userID, Kind: adnetwork.KindInterstitial},
		func(ctx context.Context, out *attempt.Outcome) error {
			result.ConfirmBy = p.openWindow(userID)
			out.Notices = append(out.Notices, attempt.Notice{
				Level:   attempt.NoticeInfo,
				Message: "Please enter your confirmation code",
			})
			return nil
		})
	result.Outcome = out

	switch {
	case err == nil:
		p.logger.Info(ctx, "withdrawal confirmation window opened")
		return result, nil
	case errors.Is(err, attempt.ErrInFlight):
		return result, ErrAdInFlight
	case errors.Is(err, attempt.ErrAdLoadFailed):
		observability.Withdrawals.WithLabelValues("ad_failed").Inc()
		return result, fmt.Errorf("%w: %w", ErrAdLoadFailed, err)
	default:
		return result, err
	}
}

// Confirm debits the threshold against code. The window is claimed before
// the ledger runs so one ad view backs at most one withdrawal; an invalid
// code hands it back so the user can retype it.
func (p *WithdrawalProcessor) Confirm(ctx context.Context, userID, code string) (ConfirmResult, error) {
	ctx = observability.WithFields(ctx, observability.Field{Key: "user_id", Value: userID})

	expires, err := p.claimWindow(userID)
	if err != nil {
		return ConfirmResult{}, err
	}

	var result ConfirmResult
	err = p.ledger.WithLedger(ctx, userID, func(l *ledger.Ledger) error {
		w, err := l.RequestWithdrawal(ctx, code)
		if err != nil {
			return err
		}
		result = ConfirmResult{
			Withdrawal: w,
			Balance:    l.Balance(),
			Statistics: l.Statistics(),
			Message:    fmt.Sprintf("Withdrawal of $%s processed successfully!", w.Amount.StringFixed(2)),
		}
		return nil
	})

	switch {
	case err == nil:
	case errors.Is(err, ledger.ErrInvalidConfirmationCode):
		p.restoreWindow(userID, expires)
		observability.Withdrawals.WithLabelValues("invalid_code").Inc()
		return ConfirmResult{}, err
	case errors.Is(err, ledger.ErrInsufficientBalance):
		observability.Withdrawals.WithLabelValues("insufficient_balance").Inc()
		return ConfirmResult{}, err
	default:
		p.restoreWindow(userID, expires)
		p.logger.Error(ctx, "withdrawal failed", err)
		observability.Withdrawals.WithLabelValues("error").Inc()
		return ConfirmResult{}, err
	}

	observability.Withdrawals.WithLabelValues("ok").Inc()
	p.logger.Info(ctx, fmt.Sprintf("withdrawal %s requested", result.Withdrawal.ID))
	p.bridge.SendData(ctx, userID, bridge.Withdrawal(result.Withdrawal, result.Statistics))
	return result, nil
}

// Cancel closes an open confirmation window.
func (p *WithdrawalProcessor) Cancel(ctx context.Context, userID string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.pending[userID]
	delete(p.pending, userID)
	return ok
}

// History lists the user's withdrawals, newest first.
func (p *WithdrawalProcessor) History(ctx context.Context, userID string) ([]ledger.Withdrawal, error) {
	snap, err := p.ledger.View(ctx, userID)
	if err != nil {
		return nil, err
	}
	if snap.Account.Withdrawals == nil {
		return []ledger.Withdrawal{}, nil
	}
	return snap.Account.Withdrawals, nil
}

// Sweep drops expired confirmation windows and idle attempt state.
func (p *WithdrawalProcessor) Sweep(now time.Time) int {
	p.mu.Lock()
	removed := 0
	for userID, expires := range p.pending {
		if !now.Before(expires) {
			delete(p.pending, userID)
			removed++
		}
	}
	p.mu.Unlock()

	return removed + p.runner.Surfaces().Prune(now.Add(-p.window))
}

func (p *WithdrawalProcessor) openWindow(userID string) time.Time {
	expires := p.clock.Now().Add(p.window)
	p.mu.Lock()
	p.pending[userID] = expires
	p.mu.Unlock()
	return expires
}

// claimWindow removes the user's open window and returns its deadline.
func (p *WithdrawalProcessor) claimWindow(userID string) (time.Time, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	expires, ok := p.pending[userID]
	if !ok {
		return time.Time{}, ErrConfirmationNotStarted
	}
	delete(p.pending, userID)
	if !p.clock.Now().Before(expires) {
		return time.Time{}, ErrConfirmationExpired
	}
	return expires, nil
}

// restoreWindow reopens a claimed window unless a newer one replaced it.
func (p *WithdrawalProcessor) restoreWindow(userID string, expires time.Time) {
	p.mu.Lock()
	if _, ok := p.pending[userID]; !ok {
		p.pending[userID] = expires
	}
	p.mu.Unlock()
}
