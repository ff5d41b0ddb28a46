package processor

import (
	"context"
	"earn-server/internal/clients/adnetwork"
	"earn-server/internal/ledger"
	referral "earn-server/internal/referral/processor"
)

//go:generate go run go.uber.org/mock/mockgen@latest -source=interfaces.go -destination=mocks_test.go -package=processor

type LedgerService interface {
	WithLedger(ctx context.Context, userID string, fn func(*ledger.Ledger) error) error
	View(ctx context.Context, userID string) (ledger.Snapshot, error)
}

// Referrals applies inbound codes and hands out the user's own code.
type Referrals interface {
	AcceptInbound(ctx context.Context, launch referral.Launch) (referral.AcceptResult, error)
	ReferralCode(ctx context.Context, userID string) (string, error)
}

// InAppSource provides the in-app interstitial settings.
type InAppSource interface {
	InAppConfig() adnetwork.InAppConfig
}
