package bridge

import (
	"context"
	"earn-server/internal/ledger"
	"earn-server/internal/observability"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

//go:generate go run go.uber.org/mock/mockgen@latest -source=bridge.go -destination=mocks_test.go -package=bridge

// PayloadType names a bridge message.
type PayloadType string

const (
	TypeWithdrawal PayloadType = "withdrawal"
	TypeReferral   PayloadType = "referral"
)

// NewUser describes the account that joined through a referral code.
type NewUser struct {
	Code     string `json:"code"`
	DeviceID string `json:"deviceId"`
	Name     string `json:"name"`
	ID       string `json:"id"`
}

// Payload is one outbound completion event. Withdrawal payloads carry Data
// and Stats; referral payloads carry ReferralCode and NewUser.
type Payload struct {
	Type         PayloadType        `json:"type"`
	Data         *ledger.Withdrawal `json:"data,omitempty"`
	Stats        *ledger.Statistics `json:"stats,omitempty"`
	ReferralCode string             `json:"referralCode,omitempty"`
	NewUser      *NewUser           `json:"newUser,omitempty"`
}

// Withdrawal builds a withdrawal payload.
func Withdrawal(w ledger.Withdrawal, stats ledger.Statistics) Payload {
	return Payload{Type: TypeWithdrawal, Data: &w, Stats: &stats}
}

// ref identifies the payload in logs without exposing its contents.
func (p Payload) ref() string {
	switch {
	case p.Data != nil:
		return p.Data.ID
	case p.NewUser != nil:
		return p.NewUser.ID
	}
	return ""
}

// Referral builds a referral payload.
func Referral(code string, user NewUser) Payload {
	return Payload{Type: TypeReferral, ReferralCode: code, NewUser: &user}
}

// Sink delivers an encoded payload somewhere outside the service.
type Sink interface {
	Name() string
	Deliver(ctx context.Context, userID string, payload Payload, body []byte) error
}

// Bridge fans payloads out to its sinks in the background. A failing sink
// is logged and never reported to the caller.
type Bridge struct {
	sinks   []Sink
	timeout time.Duration
	logger  *observability.Logger
	wg      sync.WaitGroup
}

func New(logger *observability.Logger, sinks ...Sink) *Bridge {
	return &Bridge{
		sinks:   sinks,
		timeout: 5 * time.Second,
		logger:  logger,
	}
}

func (b *Bridge) WithTimeout(d time.Duration) *Bridge {
	b.timeout = d
	return b
}

// SendData queues payload for delivery on behalf of userID and returns
// immediately. Delivery outlives the caller's cancellation but not the
// bridge timeout.
func (b *Bridge) SendData(ctx context.Context, userID string, payload Payload) {
	ctx = observability.WithFields(context.WithoutCancel(ctx),
		observability.Field{Key: "user_id", Value: userID},
		observability.Field{Key: "payload_type", Value: string(payload.Type)},
		observability.Field{Key: "payload_id", Value: payload.ref()},
	)

	body, err := json.Marshal(payload)
	if err != nil {
		b.logger.Error(ctx, "failed to encode bridge payload", err)
		return
	}
	b.logger.Info(ctx, "sending bridge payload")

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		b.deliver(ctx, userID, payload, body)
	}()
}

func (b *Bridge) deliver(ctx context.Context, userID string, payload Payload, body []byte) {
	for _, sink := range b.sinks {
		sendCtx, cancel := context.WithTimeout(ctx, b.timeout)
		err := sink.Deliver(sendCtx, userID, payload, body)
		cancel()

		if err != nil {
			observability.BridgeDeliveries.WithLabelValues(sink.Name(), "error").Inc()
			b.logger.Error(ctx, fmt.Sprintf("bridge sink %s failed", sink.Name()), err)
			continue
		}
		observability.BridgeDeliveries.WithLabelValues(sink.Name(), "ok").Inc()
	}
}

// Close waits for in-flight deliveries.
func (b *Bridge) Close() error {
	b.wg.Wait()
	return nil
}
