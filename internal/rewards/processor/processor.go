package processor

import (
	"context"
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
	ErrAdInFlight   = errors.New("an ad is already in progress")
	ErrAdLoadFailed = errors.New("ad failed to load")
	ErrPopupNotDue  = errors.New("popup ad is not due yet")
)

const (
	SurfaceWatch = "watch"
	SurfacePopup = "popup"
)

// WatchResult is what a finished display reports back to the webapp.
type WatchResult struct {
	attempt.Outcome
	Reward     decimal.Decimal    `json:"reward"`
	Balance    decimal.Decimal    `json:"balance"`
	Statistics *ledger.Statistics `json:"statistics,omitempty"`
	// NextPopupAt is set for popup displays.
	NextPopupAt *time.Time `json:"nextPopupAt,omitempty"`
}

type RewardProcessor struct {
	ledger        LedgerService
	watch         *attempt.Runner
	popup         *attempt.Runner
	popupInterval time.Duration
	inApp         adnetwork.InAppConfig
	clock         attempt.Clock
	logger        *observability.Logger

	mu        sync.Mutex
	lastPopup map[string]time.Time
}

func New(ledgerSvc LedgerService, ads AdCapability, cfg config.RewardsConfig, logger *observability.Logger) *RewardProcessor {
	watch := attempt.NewRunner(SurfaceWatch, ads, attempt.Policy{
		MaxRetries: cfg.MaxRetries,
		Backoff:    cfg.RetryBackoff,
		StaleAfter: cfg.AdDuration,
	}, logger)

	// popups never retry and fail silently
	popup := attempt.NewRunner(SurfacePopup, ads, attempt.Policy{}, logger).
		WithMessages(attempt.Messages{Loading: "Loading popup ad..."})

	return &RewardProcessor{
		ledger:        ledgerSvc,
		watch:         watch,
		popup:         popup,
		popupInterval: cfg.PopupInterval,
		inApp:         adnetwork.DefaultInAppConfig(),
		clock:         attempt.RealClock(),
		logger:        logger,
		lastPopup:     make(map[string]time.Time),
	}
}

// WithClock replaces the time source of the processor and its runners.
func (p *RewardProcessor) WithClock(c attempt.Clock) *RewardProcessor {
	p.clock = c
	p.watch.WithClock(c)
	p.popup.WithClock(c)
	return p
}

// InAppConfig returns the in-app interstitial settings the webapp should
// register with the ad unit.
func (p *RewardProcessor) InAppConfig() adnetwork.InAppConfig {
	return p.inApp
}

// Watch shows one rewarded interstitial with bounded retries and credits
// the per-ad reward on completion.
func (p *RewardProcessor) Watch(ctx context.Context, userID string) (WatchResult, error) {
	ctx = observability.WithFields(ctx, observability.Field{Key: "user_id", Value: userID})

	var result WatchResult
	out, err := p.watch.Run(ctx, userID, adnetwork.Request{UserID: userID, Kind: adnetwork.KindInterstitial},
		func(ctx context.Context, out *attempt.Outcome) error {
			return p.credit(ctx, userID, ledger.CreditAd, &result, out, "You earned $%s by watching an ad!")
		})
	result.Outcome = out

	if err != nil {
		return result, p.mapRunError(ctx, err)
	}

	p.logger.Info(ctx, fmt.Sprintf("ad reward credited: %s", result.Reward))
	return result, nil
}

// Popup shows the periodic popup ad when the interval has elapsed. The
// opportunity is consumed by the attempt: a failed popup is not retried
// and not reported as an error.
func (p *RewardProcessor) Popup(ctx context.Context, userID string) (WatchResult, error) {
	ctx = observability.WithFields(ctx, observability.Field{Key: "user_id", Value: userID})

	now := p.clock.Now()
	next, due := p.claimPopup(userID, now)
	if !due {
		return WatchResult{NextPopupAt: &next}, ErrPopupNotDue
	}

	var result WatchResult
	out, err := p.popup.Run(ctx, userID, adnetwork.Request{UserID: userID, Kind: adnetwork.KindPopup},
		func(ctx context.Context, out *attempt.Outcome) error {
			return p.credit(ctx, userID, ledger.CreditPopup, &result, out, "You earned $%s from popup ad!")
		})
	result.Outcome = out
	result.NextPopupAt = &next

	switch {
	case err == nil:
		return result, nil
	case errors.Is(err, attempt.ErrAdLoadFailed):
		p.logger.Warn(ctx, fmt.Sprintf("popup ad forfeited: %v", err))
		return result, nil
	default:
		return result, p.mapRunError(ctx, err)
	}
}

// claimPopup reserves the popup slot of userID when it is due and returns
// when the next one opens.
func (p *RewardProcessor) claimPopup(userID string, now time.Time) (time.Time, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	last, seen := p.lastPopup[userID]
	if seen && now.Sub(last) < p.popupInterval {
		return last.Add(p.popupInterval), false
	}
	p.lastPopup[userID] = now
	return now.Add(p.popupInterval), true
}

// Prune forgets per-user display state untouched since cutoff.
func (p *RewardProcessor) Prune(cutoff time.Time) int {
	removed := p.watch.Surfaces().Prune(cutoff) + p.popup.Surfaces().Prune(cutoff)

	p.mu.Lock()
	defer p.mu.Unlock()
	for userID, last := range p.lastPopup {
		if last.Before(cutoff) {
			delete(p.lastPopup, userID)
			removed++
		}
	}
	return removed
}

func (p *RewardProcessor) credit(ctx context.Context, userID string, kind ledger.CreditKind, result *WatchResult, out *attempt.Outcome, msg string) error {
	return p.ledger.WithLedger(ctx, userID, func(l *ledger.Ledger) error {
		amount, err := l.Credit(kind)
		if err != nil {
			return err
		}
		l.RecordWatch()
		if err := l.Save(ctx); err != nil {
			p.logger.Error(ctx, "failed to persist ad reward", err)
			return fmt.Errorf("%w: %w", ledger.ErrPersistenceFailure, err)
		}

		stats := l.Statistics()
		result.Reward = amount
		result.Balance = l.Balance()
		result.Statistics = &stats
		out.Notices = append(out.Notices, attempt.Notice{
			Level:   attempt.NoticeSuccess,
			Message: fmt.Sprintf(msg, amount.StringFixed(3)),
		})
		observability.RewardsCredited.WithLabelValues(string(kind)).Inc()
		return nil
	})
}

func (p *RewardProcessor) mapRunError(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, attempt.ErrInFlight):
		return ErrAdInFlight
	case errors.Is(err, attempt.ErrAdLoadFailed):
		p.logger.Warn(ctx, "ad retries exhausted, no reward given")
		return fmt.Errorf("%w: %w", ErrAdLoadFailed, err)
	default:
		return err
	}
}
