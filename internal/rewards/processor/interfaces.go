package processor

import (
	"context"
	"earn-server/internal/clients/adnetwork"
	"earn-server/internal/ledger"
)

//go:generate go run go.uber.org/mock/mockgen@latest -source=interfaces.go -destination=mocks_test.go -package=processor

// LedgerService is the part of ledger.Service the reward workflow needs.
type LedgerService interface {
	WithLedger(ctx context.Context, userID string, fn func(*ledger.Ledger) error) error
}

// AdCapability shows ads through the ad network.
type AdCapability interface {
	RequestAd(ctx context.Context, req adnetwork.Request) error
}
