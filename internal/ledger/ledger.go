package ledger

import (
	"context"
	"earn-server/internal/config"
	"earn-server/internal/kv"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrInsufficientBalance     = errors.New("insufficient balance")
	ErrInvalidConfirmationCode = errors.New("invalid confirmation code")
	ErrPersistenceFailure      = errors.New("persistence failure")
	ErrInvalidCreditKind       = errors.New("invalid credit kind")
	ErrReferralLimitReached    = errors.New("referral limit reached")
	ErrAlreadyReferred         = errors.New("member already referred")
	ErrReferrerAlreadySet      = errors.New("referrer already set")
	ErrSelfReferral            = errors.New("cannot refer yourself")
	ErrInvalidReferralCode     = errors.New("invalid referral code")
	ErrInvalidSettings         = errors.New("invalid settings")
)

// CreditKind selects one of the fixed reward amounts.
type CreditKind string

const (
	CreditAd    CreditKind = "ad"
	CreditPopup CreditKind = "popup"
)

// Rules are the fixed economics a ledger enforces.
type Rules struct {
	PerAdReward         decimal.Decimal
	WithdrawalThreshold decimal.Decimal
	ReferralCap         int
	Location            *time.Location
}

// RulesFromConfig extracts ledger rules from the rewards configuration.
func RulesFromConfig(cfg config.RewardsConfig) Rules {
	return Rules{
		PerAdReward:         cfg.PerAdReward,
		WithdrawalThreshold: cfg.WithdrawalThreshold,
		ReferralCap:         cfg.ReferralCap,
		Location:            cfg.Location,
	}
}

// Amount returns the fixed reward for kind.
func (r Rules) Amount(kind CreditKind) (decimal.Decimal, error) {
	switch kind {
	case CreditAd:
		return r.PerAdReward, nil
	case CreditPopup:
		return r.PerAdReward.Div(decimal.NewFromInt(2)), nil
	default:
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidCreditKind, kind)
	}
}

// Ledger is the in-memory mirror of one user's account, settings and
// statistics. It is not safe for concurrent use; Service serializes access.
type Ledger struct {
	store    kv.Store
	rules    Rules
	now      func() time.Time
	account  Account
	settings Settings
	stats    Statistics
}

// Open loads the three records from store, creating defaults for absent ones.
func Open(ctx context.Context, store kv.Store, rules Rules, now func() time.Time) (*Ledger, error) {
	if now == nil {
		now = time.Now
	}
	ts := now().UTC()

	account, err := kv.Load(ctx, store, KeyAccount, defaultAccount(ts))
	if err != nil {
		return nil, err
	}
	settings, err := kv.Load(ctx, store, KeySettings, defaultSettings())
	if err != nil {
		return nil, err
	}
	stats, err := kv.Load(ctx, store, KeyStatistics, Statistics{})
	if err != nil {
		return nil, err
	}

	if account.Withdrawals == nil {
		account.Withdrawals = []Withdrawal{}
	}
	if account.ReferralMembers == nil {
		account.ReferralMembers = []Member{}
	}

	return &Ledger{
		store:    store,
		rules:    rules,
		now:      now,
		account:  account,
		settings: settings,
		stats:    stats,
	}, nil
}

// Credit adds the fixed amount for kind to balance and totalEarned.
func (l *Ledger) Credit(kind CreditKind) (decimal.Decimal, error) {
	amount, err := l.rules.Amount(kind)
	if err != nil {
		return decimal.Zero, err
	}
	l.account.Balance = l.account.Balance.Add(amount)
	l.account.TotalEarned = l.account.TotalEarned.Add(amount)
	return amount, nil
}

// RecordWatch applies one completed ad view to the statistics.
func (l *Ledger) RecordWatch() {
	l.stats = NextStatistics(l.stats, l.now(), l.rules.Location)
}

// RequestWithdrawal debits the threshold, records a pending withdrawal and
// saves. A failed save is compensated before ErrPersistenceFailure is returned.
func (l *Ledger) RequestWithdrawal(ctx context.Context, confirmationCode string) (Withdrawal, error) {
	threshold := l.rules.WithdrawalThreshold
	if l.account.Balance.LessThan(threshold) {
		return Withdrawal{}, ErrInsufficientBalance
	}
	code := strings.TrimSpace(confirmationCode)
	if code == "" {
		return Withdrawal{}, ErrInvalidConfirmationCode
	}

	prevBalance := l.account.Balance
	prevWithdrawals := l.account.Withdrawals
	prevTotal := l.stats.TotalWithdrawals
	prevActive := l.account.LastActiveAt

	w := Withdrawal{
		ID:               uuid.NewString(),
		Amount:           threshold,
		RequestedAt:      l.now().UTC(),
		ConfirmationCode: code,
		Status:           WithdrawalStatusPending,
	}

	l.account.Balance = l.account.Balance.Sub(threshold)
	l.account.Withdrawals = append([]Withdrawal{w}, prevWithdrawals...)
	l.stats.TotalWithdrawals++

	if err := l.Save(ctx); err != nil {
		l.account.Balance = prevBalance
		l.account.Withdrawals = prevWithdrawals
		l.stats.TotalWithdrawals = prevTotal
		l.account.LastActiveAt = prevActive
		return Withdrawal{}, fmt.Errorf("%w: %w", ErrPersistenceFailure, err)
	}
	return w, nil
}

// CreditReferral appends member and adds bonus to referral earnings and balance.
// totalEarned stays limited to ad earnings.
func (l *Ledger) CreditReferral(member Member, bonus decimal.Decimal) error {
	if l.account.ReferralCount >= l.rules.ReferralCap || len(l.account.ReferralMembers) >= l.rules.ReferralCap {
		return ErrReferralLimitReached
	}
	for _, m := range l.account.ReferralMembers {
		if m.ID == member.ID {
			return ErrAlreadyReferred
		}
	}

	l.account.ReferralMembers = append(l.account.ReferralMembers, member)
	l.account.ReferralCount = len(l.account.ReferralMembers)
	l.account.ReferralEarnings = l.account.ReferralEarnings.Add(bonus)
	l.account.Balance = l.account.Balance.Add(bonus)
	return nil
}

// SetReferralCode stores the account's own code once.
func (l *Ledger) SetReferralCode(code string) {
	if l.account.ReferralCode == "" {
		l.account.ReferralCode = code
	}
}

// SetReferrer records the code that brought this account in. It can be set
// only once and never to the account's own code.
func (l *Ledger) SetReferrer(code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return ErrInvalidReferralCode
	}
	if l.account.ReferredByCode != "" {
		return ErrReferrerAlreadySet
	}
	if code == l.account.ReferralCode {
		return ErrSelfReferral
	}
	l.account.ReferredByCode = code
	return nil
}

// ClearReferrer drops a referrer recorded with code. Any other referrer is
// left in place.
func (l *Ledger) ClearReferrer(code string) {
	if l.account.ReferredByCode == strings.TrimSpace(code) {
		l.account.ReferredByCode = ""
	}
}

// UpdateSettings applies patch after validating it.
func (l *Ledger) UpdateSettings(patch SettingsPatch) error {
	next := l.settings
	if patch.NotificationsEnabled != nil {
		next.NotificationsEnabled = *patch.NotificationsEnabled
	}
	if patch.AutoPlay != nil {
		next.AutoPlay = *patch.AutoPlay
	}
	if patch.Theme != nil {
		if *patch.Theme != "light" && *patch.Theme != "dark" {
			return fmt.Errorf("%w: theme must be light or dark", ErrInvalidSettings)
		}
		next.Theme = *patch.Theme
	}
	if patch.Language != nil {
		lang := strings.ToLower(strings.TrimSpace(*patch.Language))
		if !validLanguage(lang) {
			return fmt.Errorf("%w: language must be a 2-8 character tag", ErrInvalidSettings)
		}
		next.Language = lang
	}
	l.settings = next
	return nil
}

// validLanguage accepts tags such as "en" or "pt-br".
func validLanguage(lang string) bool {
	if len(lang) < 2 || len(lang) > 8 || lang[0] == '-' {
		return false
	}
	for _, r := range lang {
		if (r < 'a' || r > 'z') && r != '-' {
			return false
		}
	}
	return true
}

// Save writes account, settings and statistics in one atomic batch.
func (l *Ledger) Save(ctx context.Context) error {
	l.account.LastActiveAt = l.now().UTC()
	return kv.NewBatch().
		Set(KeyAccount, l.account).
		Set(KeySettings, l.settings).
		Set(KeyStatistics, l.stats).
		Commit(ctx, l.store)
}

// Snapshot returns a detached copy of the three records.
func (l *Ledger) Snapshot() Snapshot {
	return Snapshot{
		Account:    l.account.clone(),
		Settings:   l.settings,
		Statistics: l.stats,
	}
}

func (l *Ledger) Balance() decimal.Decimal {
	return l.account.Balance
}

func (l *Ledger) Statistics() Statistics {
	return l.stats
}

func (l *Ledger) ReferralCode() string {
	return l.account.ReferralCode
}

func (l *Ledger) ReferredByCode() string {
	return l.account.ReferredByCode
}

func (l *Ledger) Rules() Rules {
	return l.rules
}
