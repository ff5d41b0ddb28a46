package telegram

import (
	"context"
	"earn-server/internal/observability"
	"fmt"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Client sends bot messages through the Telegram Bot API.
type Client struct {
	bot    *tgbotapi.BotAPI
	logger *observability.Logger
}

func NewClient(token string, logger *observability.Logger) (*Client, error) {
	return NewClientWithEndpoint(token, tgbotapi.APIEndpoint, &http.Client{}, logger)
}

// NewClientWithEndpoint points the client at another Bot API server.
func NewClientWithEndpoint(token, endpoint string, httpClient *http.Client, logger *observability.Logger) (*Client, error) {
	bot, err := tgbotapi.NewBotAPIWithClient(token, endpoint, httpClient)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to telegram bot api: %w", err)
	}
	logger.Info(context.Background(), fmt.Sprintf("authorized telegram bot %s", bot.Self.UserName))
	return &Client{bot: bot, logger: logger}, nil
}

// SendMessage posts text to chatID.
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := tgbotapi.NewMessage(chatID, text)
	msg.DisableWebPagePreview = true
	if _, err := c.bot.Send(msg); err != nil {
		c.logger.Error(ctx, "failed to send telegram message", err)
		return fmt.Errorf("failed to send telegram message: %w", err)
	}
	return nil
}

func (c *Client) Username() string {
	return c.bot.Self.UserName
}
