package processor

import (
	"context"
	"earn-server/internal/bridge"
	"earn-server/internal/kv"
	"earn-server/internal/ledger"
)

//go:generate go run go.uber.org/mock/mockgen@latest -source=interfaces.go -destination=mocks_test.go -package=processor

// LedgerService opens user ledgers and exposes the stores behind them.
type LedgerService interface {
	WithLedger(ctx context.Context, userID string, fn func(*ledger.Ledger) error) error
	Scope(userID string) kv.Store
	Root() kv.Store
}

// HostBridge receives accepted referrals.
type HostBridge interface {
	SendData(ctx context.Context, userID string, payload bridge.Payload)
}
