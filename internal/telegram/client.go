// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package telegram wraps the Bot API for the approval loop: text messages,
// photos by URL or upload, webhook registration and decoding inbound
// updates.
package telegram

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	tgmodels "github.com/go-telegram/bot/models"

	"ecardfactory/internal/apperr"
)

// DefaultBaseURL is the public Bot API endpoint.
const DefaultBaseURL = "https://api.telegram.org"

// ParseModeHTML formats message text as Telegram HTML.
const ParseModeHTML = string(tgmodels.ParseModeHTML)

// AllowedUpdates are the update kinds the webhook subscribes to.
var AllowedUpdates = []string{"message", "edited_message", "channel_post"}

// Sent is the result of a successful send.
type Sent struct {
	MessageID int64 `json:"message_id"`
	Sent      bool  `json:"sent"`
}

// Client talks to the Bot API for one bot and one operator chat.
type Client struct {
	token  string
	chatID string
	bot    *bot.Bot
	err    error
}

// NewClient creates a client. An empty baseURL uses DefaultBaseURL. The
// bot is not contacted until the first call.
func NewClient(token, chatID, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{token: token, chatID: chatID}
	c.bot, c.err = bot.New(token,
		bot.WithServerURL(strings.TrimRight(baseURL, "/")),
		bot.WithHTTPClient(time.Minute, &http.Client{Timeout: 20 * time.Second}),
		bot.WithSkipGetMe(),
	)
	return c
}

// ChatID returns the operator chat every message goes to.
func (c *Client) ChatID() string { return c.chatID }

// SendMessage posts text to the operator chat. An empty parseMode sends
// plain text.
func (c *Client) SendMessage(ctx context.Context, text, parseMode string) (*Sent, error) {
	if c.err != nil {
		return nil, c.unavailable(c.err)
	}
	msg, err := c.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    c.chatID,
		Text:      text,
		ParseMode: tgmodels.ParseMode(parseMode),
	})
	return c.sent(msg, err)
}

// SendPhotoURL posts a photo the Bot API fetches itself.
func (c *Client) SendPhotoURL(ctx context.Context, photoURL, caption string) (*Sent, error) {
	return c.sendPhoto(ctx, &tgmodels.InputFileString{Data: photoURL}, caption)
}

// SendPhotoBytes uploads an image as multipart form data.
func (c *Client) SendPhotoBytes(ctx context.Context, filename string, data []byte, caption string) (*Sent, error) {
	return c.sendPhoto(ctx, &tgmodels.InputFileUpload{Filename: filename, Data: bytes.NewReader(data)}, caption)
}

func (c *Client) sendPhoto(ctx context.Context, photo tgmodels.InputFile, caption string) (*Sent, error) {
	if c.err != nil {
		return nil, c.unavailable(c.err)
	}
	msg, err := c.bot.SendPhoto(ctx, &bot.SendPhotoParams{
		ChatID:  c.chatID,
		Photo:   photo,
		Caption: caption,
	})
	return c.sent(msg, err)
}

// SetWebhook points the bot at webhookURL. A non-empty secret is echoed
// back by Telegram in the X-Telegram-Bot-Api-Secret-Token header.
func (c *Client) SetWebhook(ctx context.Context, webhookURL, secret string) error {
	if c.err != nil {
		return c.unavailable(c.err)
	}
	ok, err := c.bot.SetWebhook(ctx, &bot.SetWebhookParams{
		URL:            webhookURL,
		AllowedUpdates: AllowedUpdates,
		SecretToken:    secret,
	})
	if err != nil {
		return c.unavailable(err)
	}
	if !ok {
		return apperr.New(apperr.Unavailable, "Telegram API refused the webhook")
	}
	return nil
}

func (c *Client) sent(msg *tgmodels.Message, err error) (*Sent, error) {
	if err != nil {
		return nil, c.unavailable(err)
	}
	s := &Sent{Sent: true}
	if msg != nil {
		s.MessageID = int64(msg.ID)
	}
	return s, nil
}

// unavailable classifies a Bot API failure. Request URLs embed the bot
// token, so it is scrubbed from the message.
func (c *Client) unavailable(err error) error {
	msg := err.Error()
	if c.token != "" {
		msg = strings.ReplaceAll(msg, c.token, "<token>")
	}
	return apperr.Wrap(apperr.Unavailable, errors.New(msg), "Telegram API request failed")
}
