// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package approval turns operator chat commands into card transitions and
// sends the approval requests those commands answer.
package approval

import (
	"context"
	"log/slog"
	"strings"

	"ecardfactory/internal/apperr"
	"ecardfactory/internal/models"
	"ecardfactory/internal/telegram"
	"ecardfactory/internal/workflow"
)

// Reasons reported with ActionIgnored.
const (
	ReasonNoText          = "no_text"
	ReasonUnknownChat     = "unknown_chat"
	ReasonUnknownCommand  = "unknown_command"
	ReasonDuplicateUpdate = "duplicate_update"
)

// Cards is the card persistence the gateway needs.
type Cards interface {
	FindByID(ctx context.Context, id int64) (*models.Card, error)
	Update(ctx context.Context, id int64, fn func(c *models.Card) error) (*models.Card, error)
}

// Bot sends messages to the operator chat.
type Bot interface {
	SendMessage(ctx context.Context, text, parseMode string) (*telegram.Sent, error)
	SendPhotoURL(ctx context.Context, photoURL, caption string) (*telegram.Sent, error)
	SendPhotoBytes(ctx context.Context, filename string, data []byte, caption string) (*telegram.Sent, error)
	SetWebhook(ctx context.Context, webhookURL, secret string) error
}

// EventLog records transitions. Implementations must not fail the caller.
type EventLog interface {
	Log(ctx context.Context, cardID int64, ev workflow.Event, from, to workflow.Status, actor string)
}

// UpdateLog drops redelivered webhook updates.
type UpdateLog interface {
	Claim(ctx context.Context, updateID int64) bool
	Release(ctx context.Context, updateID int64)
}

// Outcome is the webhook's answer. Absent fields serialize as null.
type Outcome struct {
	Action      Action  `json:"action"`
	CardID      *int64  `json:"card_id"`
	PhraseIndex *int    `json:"phrase_index"`
	Reason      *string `json:"reason"`
}

func ignored(reason string) *Outcome {
	return &Outcome{Action: ActionIgnored, Reason: &reason}
}

// Gateway is the approval loop between the card store and the operator chat.
type Gateway struct {
	cards   Cards
	bot     Bot
	chatID  string
	events  EventLog
	updates UpdateLog
}

// Option configures optional Gateway collaborators.
type Option func(*Gateway)

// WithEventLog records every transition the gateway performs.
func WithEventLog(l EventLog) Option { return func(g *Gateway) { g.events = l } }

// WithUpdateLog enables duplicate update detection.
func WithUpdateLog(l UpdateLog) Option { return func(g *Gateway) { g.updates = l } }

// NewGateway creates a gateway that only accepts commands from chatID.
func NewGateway(cards Cards, bot Bot, chatID string, opts ...Option) *Gateway {
	g := &Gateway{cards: cards, bot: bot, chatID: strings.TrimSpace(chatID)}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// HandleUpdate processes one webhook update. Updates without text, from
// another chat or with an unknown command are ignored without error. A
// recognized command either commits exactly one transition and sends one
// confirmation, or returns an error and changes nothing.
func (g *Gateway) HandleUpdate(ctx context.Context, u *telegram.Update) (*Outcome, error) {
	msg := telegram.Primary(u)
	if msg == nil {
		return ignored(ReasonNoText), nil
	}
	text := telegram.CommandText(msg.Text)
	if text == "" {
		return ignored(ReasonNoText), nil
	}
	chat := telegram.ChatID(msg)
	if chat == "" || chat != g.chatID {
		slog.Warn("telegram command from unknown chat", "chat_id", chat)
		return ignored(ReasonUnknownChat), nil
	}

	cmd, ok := ParseCommand(text)
	if !ok {
		return ignored(ReasonUnknownCommand), nil
	}

	if g.updates != nil && u.ID != 0 && !g.updates.Claim(ctx, u.ID) {
		return ignored(ReasonDuplicateUpdate), nil
	}

	out, err := g.Execute(ctx, cmd, telegram.Sender(msg))
	if err != nil && g.updates != nil && u.ID != 0 {
		switch apperr.KindOf(err) {
		case apperr.Internal, apperr.Unavailable:
			g.updates.Release(ctx, u.ID)
		}
	}
	return out, err
}

// Execute applies cmd to its card inside one locked update, then records
// and announces the transition.
func (g *Gateway) Execute(ctx context.Context, cmd Command, actor string) (*Outcome, error) {
	var from, to workflow.Status
	_, err := g.cards.Update(ctx, cmd.CardID, func(c *models.Card) error {
		next, err := workflow.Transition(c.Status, cmd.Event)
		if err != nil {
			return err
		}
		if cmd.Event == workflow.ApprovePhrase {
			cand, ok := c.Candidate(cmd.PhraseIndex)
			if !ok {
				return apperr.New(apperr.Validation,
					"phrase index %d out of range (card %d has %d candidates)",
					cmd.PhraseIndex, c.ID, len(c.CandidatePhrases))
			}
			text := strings.TrimSpace(cand.Text)
			if text == "" {
				return apperr.New(apperr.Validation, "selected phrase is empty")
			}
			c.Phrase = text
		}
		from, to = c.Status, next
		c.Status = next
		return nil
	})
	if err != nil {
		slog.Warn("approval command failed",
			"action", cmd.Action,
			"card_id", cmd.CardID,
			"error", err,
		)
		return nil, err
	}

	slog.Info("card transition",
		"card_id", cmd.CardID,
		"event", cmd.Event,
		"from", from,
		"to", to,
		"actor", actor,
	)
	if g.events != nil {
		g.events.Log(ctx, cmd.CardID, cmd.Event, from, to, actor)
	}
	g.notify(ctx, notice(cmd))

	id := cmd.CardID
	out := &Outcome{Action: cmd.Action, CardID: &id}
	if cmd.Event == workflow.ApprovePhrase {
		n := cmd.PhraseIndex
		out.PhraseIndex = &n
	}
	return out, nil
}

// notify sends a confirmation. A failure is logged and never retried.
func (g *Gateway) notify(ctx context.Context, text string) {
	if g.bot == nil || text == "" {
		return
	}
	if _, err := g.bot.SendMessage(ctx, text, telegram.ParseModeHTML); err != nil {
		slog.Error("telegram notification failed", "error", err)
	}
}
