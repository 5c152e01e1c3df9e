// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"ecardfactory/internal/apperr"
	"ecardfactory/internal/models"
	"ecardfactory/internal/workflow"
)

// CardStore persists cards. Status changes go through Update so each one
// runs inside a row-locked transaction.
type CardStore struct {
	db *sql.DB
}

// NewCardStore creates a new CardStore.
func NewCardStore(db *sql.DB) *CardStore {
	return &CardStore{db: db}
}

const cardColumns = `id, event_id, theme_name, theme_source, phrase, candidate_phrases,
	dalle_prompt, image_url, canva_url, final_png_url, status, cost_llm, cost_image, created_at`

func scanCard(scanner interface{ Scan(...any) error }) (*models.Card, error) {
	c := &models.Card{}
	var eventID sql.NullInt64
	err := scanner.Scan(
		&c.ID, &eventID, &c.ThemeName, &c.ThemeSource, &c.Phrase, &c.CandidatePhrases,
		&c.DallePrompt, &c.ImageURL, &c.CanvaURL, &c.FinalPNGURL, &c.Status,
		&c.CostLLM, &c.CostImage, &c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	c.EventID = nullableID(eventID)
	return c, nil
}

// Create inserts a card in the initial workflow status. A missing event
// yields a not-found error.
func (s *CardStore) Create(ctx context.Context, c *models.Card) (*models.Card, error) {
	costImage := c.CostImage
	if costImage == 0 {
		costImage = models.DefaultImageCost
	}

	created, err := scanCard(s.db.QueryRowContext(ctx, `
		INSERT INTO cards (event_id, theme_name, theme_source, phrase, candidate_phrases,
			dalle_prompt, status, cost_llm, cost_image)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+cardColumns,
		idArg(c.EventID), c.ThemeName, c.ThemeSource, c.Phrase, c.CandidatePhrases,
		c.DallePrompt, workflow.Initial, c.CostLLM, costImage,
	))
	if isForeignKeyViolation(err) {
		return nil, apperr.New(apperr.NotFound, "event %d not found", *c.EventID)
	}
	if err != nil {
		return nil, fmt.Errorf("insert card: %w", err)
	}
	return created, nil
}

// FindByID returns the card, or nil if it does not exist.
func (s *CardStore) FindByID(ctx context.Context, id int64) (*models.Card, error) {
	c, err := scanCard(s.db.QueryRowContext(ctx, `SELECT `+cardColumns+` FROM cards WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find card %d: %w", id, err)
	}
	return c, nil
}

// Pending returns cards waiting on an operator or a pipeline stage,
// newest first.
func (s *CardStore) Pending(ctx context.Context, limit int) ([]models.Card, error) {
	var statuses []string
	for _, st := range workflow.Statuses {
		if st.Pending() {
			statuses = append(statuses, string(st))
		}
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+cardColumns+`
		FROM cards
		WHERE status = ANY($1)
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`, pq.Array(statuses), limit)
	if err != nil {
		return nil, fmt.Errorf("list pending cards: %w", err)
	}
	defer rows.Close()

	var out []models.Card
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			return nil, fmt.Errorf("scan card: %w", err)
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

// Update loads the card with a row lock, lets fn change it, and writes the
// mutable fields back in the same transaction. If fn returns an error
// nothing is written. A missing card is a not-found error.
func (s *CardStore) Update(ctx context.Context, id int64, fn func(c *models.Card) error) (*models.Card, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin card update: %w", err)
	}
	defer tx.Rollback()

	c, err := scanCard(tx.QueryRowContext(ctx, `SELECT `+cardColumns+` FROM cards WHERE id = $1 FOR UPDATE`, id))
	if err == sql.ErrNoRows {
		return nil, apperr.New(apperr.NotFound, "card %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("lock card %d: %w", id, err)
	}

	if err := fn(c); err != nil {
		return nil, err
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE cards SET
			phrase = $2, candidate_phrases = $3, dalle_prompt = $4,
			image_url = $5, canva_url = $6, final_png_url = $7,
			status = $8, cost_llm = $9, cost_image = $10
		WHERE id = $1
	`, c.ID, c.Phrase, c.CandidatePhrases, c.DallePrompt,
		c.ImageURL, c.CanvaURL, c.FinalPNGURL,
		c.Status, c.CostLLM, c.CostImage,
	)
	if err != nil {
		return nil, fmt.Errorf("update card %d: %w", id, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit card %d: %w", id, err)
	}
	return c, nil
}
