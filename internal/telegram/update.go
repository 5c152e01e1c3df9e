// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package telegram

import (
	"encoding/json"
	"strconv"
	"strings"

	tgmodels "github.com/go-telegram/bot/models"
)

// Update is an inbound webhook payload.
type Update = tgmodels.Update

// Message is a chat message carried by an update.
type Message = tgmodels.Message

// Primary returns the message the update carries, checking message,
// edited_message and channel_post in that order.
func Primary(u *Update) *Message {
	if u == nil {
		return nil
	}
	for _, m := range []*Message{u.Message, u.EditedMessage, u.ChannelPost} {
		if m != nil {
			return m
		}
	}
	return nil
}

// ChatID returns the chat id as the decimal string used in configuration,
// or "" when the message names no chat.
func ChatID(m *Message) string {
	if m == nil || m.Chat.ID == 0 {
		return ""
	}
	return strconv.FormatInt(m.Chat.ID, 10)
}

// Sender names who sent the message for audit logs.
func Sender(m *Message) string {
	if m == nil || m.From == nil {
		return "telegram:" + ChatID(m)
	}
	if m.From.Username != "" {
		return "telegram:@" + m.From.Username
	}
	return "telegram:" + strconv.FormatInt(m.From.ID, 10)
}

// ParseUpdate decodes a webhook body. Both a bare update and one wrapped
// in {"update": {...}} are accepted.
func ParseUpdate(body []byte) (*Update, error) {
	var wrapped struct {
		Update *Update `json:"update"`
	}
	if err := json.Unmarshal(body, &wrapped); err == nil && wrapped.Update != nil {
		return wrapped.Update, nil
	}

	var u Update
	if err := json.Unmarshal(body, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// CommandText trims the message text and drops a trailing @botname from
// the command word, so "/approve_image_4@CardBot" reads as "/approve_image_4".
func CommandText(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return text
	}
	word, rest, _ := strings.Cut(text, " ")
	if at := strings.IndexByte(word, '@'); at > 0 {
		word = word[:at]
	}
	if rest == "" {
		return word
	}
	return word + " " + strings.TrimSpace(rest)
}
