package telegram

import (
	"context"
	"fmt"

	"gopkg.in/telebot.v3"
)

// Client posts to a Telegram channel or chat through a bot.
type Client struct {
	bot    *telebot.Bot
	chatID int64
}

// NewClient builds an offline bot: no getMe round trip and no poller, the
// bot is only used to send.
func NewClient(token, apiURL string, chatID int64) (*Client, error) {
	b, err := telebot.NewBot(telebot.Settings{
		URL:     apiURL,
		Token:   token,
		Offline: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	return &Client{bot: b, chatID: chatID}, nil
}

// Publish sends text to the configured chat. telebot has no context
// support; ctx is only checked before sending.
func (c *Client) Publish(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := c.bot.Send(&telebot.Chat{ID: c.chatID}, text); err != nil {
		return fmt.Errorf("telegram send to %d: %w", c.chatID, err)
	}
	return nil
}
