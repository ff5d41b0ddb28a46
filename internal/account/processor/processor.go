package processor

import (
	"context"
	"earn-server/internal/clients/adnetwork"
	"earn-server/internal/ledger"
	"earn-server/internal/observability"
	referral "earn-server/internal/referral/processor"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Economics are the fixed amounts the webapp displays.
type Economics struct {
	PerAdReward         decimal.Decimal `json:"perAdReward"`
	PopupReward         decimal.Decimal `json:"popupReward"`
	WithdrawalThreshold decimal.Decimal `json:"withdrawalThreshold"`
}

// LaunchResult is everything the webapp needs to render after launch.
type LaunchResult struct {
	ledger.Snapshot
	ReferralCode string                 `json:"referralCode"`
	Referral     *referral.AcceptResult `json:"referral,omitempty"`
	InApp        adnetwork.InAppConfig  `json:"inAppSettings"`
	Economics    Economics              `json:"economics"`
	CanWithdraw  bool                   `json:"canWithdraw"`
}

type AccountProcessor struct {
	ledger    LedgerService
	referrals Referrals
	inApp     InAppSource
	economics Economics
	logger    *observability.Logger
}

func New(ledgerSvc LedgerService, referrals Referrals, inApp InAppSource, rules ledger.Rules, logger *observability.Logger) *AccountProcessor {
	popup, _ := rules.Amount(ledger.CreditPopup)
	return &AccountProcessor{
		ledger:    ledgerSvc,
		referrals: referrals,
		inApp:     inApp,
		economics: Economics{
			PerAdReward:         rules.PerAdReward,
			PopupReward:         popup,
			WithdrawalThreshold: rules.WithdrawalThreshold,
		},
		logger: logger,
	}
}

// Launch applies the launch parameters and returns the user's state. A bad
// inbound referral code never fails the launch.
func (p *AccountProcessor) Launch(ctx context.Context, launch referral.Launch) (LaunchResult, error) {
	ctx = observability.WithFields(ctx, observability.Field{Key: "user_id", Value: launch.UserID})

	var result LaunchResult
	if launch.StartParam != "" {
		accepted, err := p.referrals.AcceptInbound(ctx, launch)
		switch {
		case err == nil:
			result.Referral = &accepted
		case errors.Is(err, ledger.ErrPersistenceFailure):
			return LaunchResult{}, err
		default:
			p.logger.Warn(ctx, "inbound referral ignored: "+err.Error())
		}
	}

	code, err := p.referrals.ReferralCode(ctx, launch.UserID)
	if err != nil {
		p.logger.Error(ctx, "failed to load referral code", err)
		return LaunchResult{}, err
	}

	snap, err := p.ledger.View(ctx, launch.UserID)
	if err != nil {
		return LaunchResult{}, err
	}

	result.Snapshot = snap
	result.ReferralCode = code
	result.InApp = p.inApp.InAppConfig()
	result.Economics = p.economics
	result.CanWithdraw = !snap.Account.Balance.LessThan(p.economics.WithdrawalThreshold)
	return result, nil
}

func (p *AccountProcessor) Settings(ctx context.Context, userID string) (ledger.Settings, error) {
	snap, err := p.ledger.View(ctx, userID)
	if err != nil {
		return ledger.Settings{}, err
	}
	return snap.Settings, nil
}

// UpdateSettings validates and saves patch.
func (p *AccountProcessor) UpdateSettings(ctx context.Context, userID string, patch ledger.SettingsPatch) (ledger.Settings, error) {
	ctx = observability.WithFields(ctx, observability.Field{Key: "user_id", Value: userID})

	var settings ledger.Settings
	err := p.ledger.WithLedger(ctx, userID, func(l *ledger.Ledger) error {
		if err := l.UpdateSettings(patch); err != nil {
			return err
		}
		if err := l.Save(ctx); err != nil {
			p.logger.Error(ctx, "failed to save settings", err)
			return fmt.Errorf("%w: %w", ledger.ErrPersistenceFailure, err)
		}
		settings = l.Snapshot().Settings
		return nil
	})
	return settings, err
}
