// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// card_event.go records every workflow transition a card goes through, with
// the actor that caused it (an API caller or a chat operator).
package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"ecardfactory/internal/workflow"
)

// CardEvent is one recorded status change.
type CardEvent struct {
	ID         uuid.UUID       `json:"id"`
	CardID     int64           `json:"card_id"`
	Event      workflow.Event  `json:"event"`
	FromStatus workflow.Status `json:"from_status"`
	ToStatus   workflow.Status `json:"to_status"`
	Actor      string          `json:"actor"`
	CreatedAt  time.Time       `json:"created_at"`
}

// CardEventStore handles the card transition log.
type CardEventStore struct {
	db *sql.DB
}

// NewCardEventStore creates a new CardEventStore.
func NewCardEventStore(db *sql.DB) *CardEventStore {
	return &CardEventStore{db: db}
}

// Log records a transition. It is best-effort: failures are logged and
// never reach the caller.
func (s *CardEventStore) Log(ctx context.Context, cardID int64, ev workflow.Event, from, to workflow.Status, actor string) {
	id := uuid.New()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO card_events (id, card_id, event, from_status, to_status, actor)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, id, cardID, ev, from, to, actor)
	if err != nil {
		slog.Warn("failed to log card event",
			"card_id", cardID,
			"event", ev,
			"error", err,
		)
		return
	}
	slog.Debug("card event logged",
		"card_id", cardID,
		"event", ev,
		"from", from,
		"to", to,
		"actor", actor,
	)
}

// ForCard returns the card's transitions, newest first.
func (s *CardEventStore) ForCard(ctx context.Context, cardID int64, limit int) ([]CardEvent, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, card_id, event, from_status, to_status, actor, created_at
		FROM card_events
		WHERE card_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, cardID, limit)
	if err != nil {
		return nil, fmt.Errorf("query card events: %w", err)
	}
	defer rows.Close()

	var events []CardEvent
	for rows.Next() {
		var e CardEvent
		if err := rows.Scan(&e.ID, &e.CardID, &e.Event, &e.FromStatus, &e.ToStatus, &e.Actor, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan card event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
