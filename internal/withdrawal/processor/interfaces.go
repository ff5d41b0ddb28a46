package processor

import (
	"context"
	"earn-server/internal/bridge"
	"earn-server/internal/clients/adnetwork"
	"earn-server/internal/ledger"
)

//go:generate go run go.uber.org/mock/mockgen@latest -source=interfaces.go -destination=mocks_test.go -package=processor

type LedgerService interface {
	WithLedger(ctx context.Context, userID string, fn func(*ledger.Ledger) error) error
	View(ctx context.Context, userID string) (ledger.Snapshot, error)
}

type AdCapability interface {
	RequestAd(ctx context.Context, req adnetwork.Request) error
}

// HostBridge receives completed withdrawals.
type HostBridge interface {
	SendData(ctx context.Context, userID string, payload bridge.Payload)
}
