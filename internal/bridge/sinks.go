package bridge

import (
	"context"
	"earn-server/internal/clients/kafka"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MessageSender posts a text message to a Telegram chat.
type MessageSender interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
}

// TelegramSink forwards payloads to the operator chat of the bot, the
// server side counterpart of the webapp handing data to its bot.
type TelegramSink struct {
	sender MessageSender
	chatID int64
}

func NewTelegramSink(sender MessageSender, operatorChatID int64) *TelegramSink {
	return &TelegramSink{sender: sender, chatID: operatorChatID}
}

func (s *TelegramSink) Name() string { return "telegram" }

func (s *TelegramSink) Deliver(ctx context.Context, userID string, payload Payload, body []byte) error {
	return s.sender.SendMessage(ctx, s.chatID, FormatMessage(userID, payload, body))
}

// FormatMessage renders payload for a human operator.
func FormatMessage(userID string, payload Payload, body []byte) string {
	var b strings.Builder
	switch payload.Type {
	case TypeWithdrawal:
		fmt.Fprintf(&b, "Withdrawal request from user %s\n", userID)
		if payload.Data != nil {
			fmt.Fprintf(&b, "Amount: $%s\nCode: %s\nRequested: %s\n",
				payload.Data.Amount.StringFixed(2),
				payload.Data.ConfirmationCode,
				payload.Data.RequestedAt.Format(time.RFC3339))
		}
		if payload.Stats != nil {
			fmt.Fprintf(&b, "Streak: %d days\nTotal watched: %d\n", payload.Stats.StreakDays, payload.Stats.TotalAdsWatched)
		}
	case TypeReferral:
		fmt.Fprintf(&b, "Referral code %s used", payload.ReferralCode)
		if payload.NewUser != nil {
			fmt.Fprintf(&b, " by %s (%s)", payload.NewUser.Name, payload.NewUser.ID)
		}
		b.WriteString("\n")
	}
	b.Write(body)
	return b.String()
}

// EventPublisher publishes one event envelope.
type EventPublisher interface {
	PublishEvent(ctx context.Context, event kafka.EventMessage) error
}

// KafkaSink publishes payloads as events keyed by user.
type KafkaSink struct {
	publisher EventPublisher
	now       func() time.Time
}

func NewKafkaSink(publisher EventPublisher) *KafkaSink {
	return &KafkaSink{publisher: publisher, now: time.Now}
}

func (s *KafkaSink) Name() string { return "kafka" }

func (s *KafkaSink) Deliver(ctx context.Context, userID string, payload Payload, body []byte) error {
	return s.publisher.PublishEvent(ctx, kafka.EventMessage{
		ID:        uuid.NewString(),
		Type:      "webapp." + string(payload.Type),
		UserID:    userID,
		Data:      body,
		Timestamp: s.now().UTC().Format(time.RFC3339),
	})
}
