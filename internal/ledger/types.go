package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// Storage keys inside one user scope
const (
	KeyAccount    = "userData"
	KeySettings   = "appSettings"
	KeyStatistics = "userStats"
)

// WithdrawalStatusPending is the only status a withdrawal ever reaches here;
// settlement happens outside this service.
const WithdrawalStatusPending = "pending"

// Account mirrors the userData record.
type Account struct {
	Balance          decimal.Decimal `json:"balance"`
	TotalEarned      decimal.Decimal `json:"totalEarned"`
	Withdrawals      []Withdrawal    `json:"withdrawals"`
	LastActiveAt     time.Time       `json:"lastActiveAt"`
	JoinedAt         time.Time       `json:"joinedAt"`
	ReferralCode     string          `json:"referralCode,omitempty"`
	ReferredByCode   string          `json:"referredByCode,omitempty"`
	ReferralCount    int             `json:"referralCount"`
	ReferralEarnings decimal.Decimal `json:"referralEarnings"`
	ReferralMembers  []Member        `json:"referralMembers"`
}

// Withdrawal is a pending cash-out request.
type Withdrawal struct {
	ID               string          `json:"id"`
	Amount           decimal.Decimal `json:"amount"`
	RequestedAt      time.Time       `json:"requestedAt"`
	ConfirmationCode string          `json:"confirmationCode"`
	Status           string          `json:"status"`
}

// Member is a referred account as seen by its referrer.
type Member struct {
	ID           string          `json:"id"`
	DisplayName  string          `json:"displayName"`
	JoinedAt     time.Time       `json:"joinedAt"`
	LastActiveAt time.Time       `json:"lastActiveAt"`
	TotalEarned  decimal.Decimal `json:"totalEarned"`
}

// Statistics mirrors the userStats record. LastWatchDate is a calendar date
// (DateLayout) or empty when no ad was ever watched.
type Statistics struct {
	TotalAdsWatched  int    `json:"totalAdsWatched"`
	TotalWithdrawals int    `json:"totalWithdrawals"`
	DailyWatchCount  int    `json:"dailyWatchCount"`
	LastWatchDate    string `json:"lastWatchDate,omitempty"`
	StreakDays       int    `json:"streakDays"`
}

// Settings mirrors the appSettings record.
type Settings struct {
	NotificationsEnabled bool   `json:"notificationsEnabled"`
	AutoPlay             bool   `json:"autoPlay"`
	Theme                string `json:"theme"`
	Language             string `json:"language"`
}

// SettingsPatch carries the fields a client wants to change.
type SettingsPatch struct {
	NotificationsEnabled *bool   `json:"notificationsEnabled,omitempty"`
	AutoPlay             *bool   `json:"autoPlay,omitempty"`
	Theme                *string `json:"theme,omitempty"`
	Language             *string `json:"language,omitempty"`
}

// Snapshot is a detached copy of all three records.
type Snapshot struct {
	Account    Account    `json:"account"`
	Settings   Settings   `json:"settings"`
	Statistics Statistics `json:"statistics"`
}

func defaultAccount(now time.Time) Account {
	return Account{
		Balance:          decimal.Zero,
		TotalEarned:      decimal.Zero,
		Withdrawals:      []Withdrawal{},
		LastActiveAt:     now,
		JoinedAt:         now,
		ReferralEarnings: decimal.Zero,
		ReferralMembers:  []Member{},
	}
}

func defaultSettings() Settings {
	return Settings{
		NotificationsEnabled: true,
		AutoPlay:             false,
		Theme:                "light",
		Language:             "en",
	}
}

func (a Account) clone() Account {
	out := a
	out.Withdrawals = append([]Withdrawal{}, a.Withdrawals...)
	out.ReferralMembers = append([]Member{}, a.ReferralMembers...)
	return out
}
