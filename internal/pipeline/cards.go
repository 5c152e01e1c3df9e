// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"ecardfactory/internal/apperr"
	"ecardfactory/internal/models"
	"ecardfactory/internal/workflow"
)

// NewCard is the input for creating a card.
type NewCard struct {
	EventID     *int64
	ThemeName   string
	ThemeSource models.ThemeSource
	Phrase      string
	DallePrompt string
}

// CreateCard stores a new card in the initial status and counts it against
// today's plan.
func (p *Pipeline) CreateCard(ctx context.Context, in NewCard) (*models.Card, error) {
	if strings.TrimSpace(in.ThemeName) == "" {
		return nil, apperr.New(apperr.Validation, "theme_name is required")
	}
	if !in.ThemeSource.Valid() {
		return nil, apperr.New(apperr.Validation, "unsupported theme_source %q", in.ThemeSource)
	}

	c, err := p.Cards.Create(ctx, &models.Card{
		EventID:     in.EventID,
		ThemeName:   in.ThemeName,
		ThemeSource: in.ThemeSource,
		Phrase:      in.Phrase,
		DallePrompt: in.DallePrompt,
	})
	if err != nil {
		return nil, err
	}

	if p.Plans != nil && p.Today != nil {
		day := p.Today()
		ok, err := p.Plans.IncrementCardsGenerated(ctx, day)
		switch {
		case err != nil:
			slog.Warn("failed to count card against plan", "card_id", c.ID, "plan_date", day, "error", err)
		case !ok:
			slog.Debug("no plan to count card against", "card_id", c.ID, "plan_date", day)
		}
	}

	slog.Info("card created", "card_id", c.ID, "theme", c.ThemeName, "source", c.ThemeSource)
	return c, nil
}

// Card returns one card or a not-found error.
func (p *Pipeline) Card(ctx context.Context, id int64) (*models.Card, error) {
	c, err := p.Cards.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find card: %w", err)
	}
	if c == nil {
		return nil, apperr.New(apperr.NotFound, "card %d not found", id)
	}
	return c, nil
}

// PendingCards lists cards waiting on a stage or an operator.
func (p *Pipeline) PendingCards(ctx context.Context, limit int) ([]models.Card, error) {
	return p.Cards.Pending(ctx, limit)
}

// SetStatus moves a card to status through the transition table. The
// event is inferred from the current and requested statuses.
func (p *Pipeline) SetStatus(ctx context.Context, id int64, status workflow.Status, actor string) (*models.Card, error) {
	var ev workflow.Event
	var from workflow.Status
	c, err := p.Cards.Update(ctx, id, func(c *models.Card) error {
		e, err := workflow.Advance(c.Status, status)
		if err != nil {
			return err
		}
		ev, from = e, c.Status
		c.Status = status
		return nil
	})
	if err != nil {
		return nil, err
	}
	slog.Info("card transition", "card_id", id, "event", ev, "from", from, "to", status, "actor", actor)
	if p.Events != nil {
		p.Events.Log(ctx, id, ev, from, status, actor)
	}
	return c, nil
}

// URLPatch sets asset URLs on a card. Nil fields are left unchanged.
type URLPatch struct {
	ImageURL    *string
	CanvaURL    *string
	FinalPNGURL *string
	DallePrompt *string
}

// UpdateURLs applies patch and returns the names of the fields it set.
func (p *Pipeline) UpdateURLs(ctx context.Context, id int64, patch URLPatch) ([]string, error) {
	var fields []string
	_, err := p.Cards.Update(ctx, id, func(c *models.Card) error {
		fields = fields[:0]
		set(&fields, "image_url", &c.ImageURL, patch.ImageURL)
		set(&fields, "canva_url", &c.CanvaURL, patch.CanvaURL)
		set(&fields, "final_png_url", &c.FinalPNGURL, patch.FinalPNGURL)
		set(&fields, "dalle_prompt", &c.DallePrompt, patch.DallePrompt)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return fields, nil
}

// ContentPatch sets generated content on a card. Nil fields are left
// unchanged; an all-nil patch is a validation error.
type ContentPatch struct {
	Phrase           *string
	DallePrompt      *string
	CandidatePhrases []models.CandidatePhrase
}

// Empty reports whether the patch sets nothing.
func (cp ContentPatch) Empty() bool {
	return cp.Phrase == nil && cp.DallePrompt == nil && cp.CandidatePhrases == nil
}

// UpdateContent applies patch and returns the names of the fields it set.
func (p *Pipeline) UpdateContent(ctx context.Context, id int64, patch ContentPatch) ([]string, error) {
	if patch.Empty() {
		return nil, apperr.New(apperr.Validation, "no content fields provided")
	}
	var fields []string
	_, err := p.Cards.Update(ctx, id, func(c *models.Card) error {
		fields = fields[:0]
		set(&fields, "phrase", &c.Phrase, patch.Phrase)
		set(&fields, "dalle_prompt", &c.DallePrompt, patch.DallePrompt)
		if patch.CandidatePhrases != nil {
			c.CandidatePhrases = models.CandidatePhrases(patch.CandidatePhrases)
			fields = append(fields, "candidate_phrases")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return fields, nil
}

func set(fields *[]string, name string, dst, v *string) {
	if v == nil {
		return
	}
	*dst = *v
	*fields = append(*fields, name)
}
