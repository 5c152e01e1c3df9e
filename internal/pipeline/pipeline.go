// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package pipeline runs the card production stages: phrase writing, image
// prompt writing, artwork generation, preview and final assembly. Each
// stage optionally records its result on a card, moving it through the
// workflow in the same locked update.
package pipeline

import (
	"context"
	"image"
	"log/slog"

	"ecardfactory/internal/ai"
	"ecardfactory/internal/apperr"
	"ecardfactory/internal/imaging"
	"ecardfactory/internal/models"
	"ecardfactory/internal/phrase"
	"ecardfactory/internal/storage"
	"ecardfactory/internal/workflow"
)

// Actor recorded on transitions made by pipeline stages.
const Actor = "pipeline"

// Cards is the card persistence the stages use.
type Cards interface {
	Create(ctx context.Context, c *models.Card) (*models.Card, error)
	FindByID(ctx context.Context, id int64) (*models.Card, error)
	Pending(ctx context.Context, limit int) ([]models.Card, error)
	Update(ctx context.Context, id int64, fn func(c *models.Card) error) (*models.Card, error)
}

// Plans counts cards against the day's content plan.
type Plans interface {
	IncrementCardsGenerated(ctx context.Context, d models.Date) (bool, error)
}

// EventLog records transitions. Implementations must not fail the caller.
type EventLog interface {
	Log(ctx context.Context, cardID int64, ev workflow.Event, from, to workflow.Status, actor string)
}

// TextModel completes chat prompts.
type TextModel interface {
	Complete(ctx context.Context, req ai.Request) (*ai.Completion, error)
}

// Artwork fetches and checks generated images.
type Artwork interface {
	Validate(ctx context.Context, url string) (*imaging.Report, []byte)
	Load(ctx context.Context, url string) (image.Image, error)
}

// Renderer composites cards.
type Renderer interface {
	Assemble(card imaging.Card) ([]byte, error)
	Preview(card imaging.Card) ([]byte, error)
}

// Assets stores rendered files and returns their URLs.
type Assets interface {
	PutCardAsset(ctx context.Context, cardID int64, kind storage.Asset, contentType string, data []byte) (string, error)
}

// Deps are the collaborators of a Pipeline. Events and Assets may be nil.
type Deps struct {
	Cards    Cards
	Plans    Plans
	Events   EventLog
	Text     TextModel
	Images   ai.ImageGenerator
	Artwork  Artwork
	Renderer Renderer
	Assets   Assets
	Parser   phrase.Parser
	Today    func() models.Date

	ImageSize    string
	ImageQuality string
}

// Pipeline runs the production stages.
type Pipeline struct {
	Deps
}

// New creates a Pipeline, filling the parser and image defaults.
func New(d Deps) *Pipeline {
	if d.Parser == nil {
		d.Parser = phrase.DefaultParser
	}
	if d.ImageSize == "" {
		d.ImageSize = ai.DefaultImageSize
	}
	if d.ImageQuality == "" {
		d.ImageQuality = ai.DefaultImageQuality
	}
	return &Pipeline{Deps: d}
}

// transition applies ev to the card and lets mutate change other fields in
// the same locked update.
func (p *Pipeline) transition(ctx context.Context, cardID int64, ev workflow.Event, actor string, mutate func(c *models.Card)) (*models.Card, error) {
	var from, to workflow.Status
	card, err := p.Cards.Update(ctx, cardID, func(c *models.Card) error {
		next, err := workflow.Transition(c.Status, ev)
		if err != nil {
			return err
		}
		from, to = c.Status, next
		if mutate != nil {
			mutate(c)
		}
		c.Status = next
		return nil
	})
	if err != nil {
		return nil, err
	}
	slog.Info("card transition", "card_id", cardID, "event", ev, "from", from, "to", to, "actor", actor)
	if p.Events != nil {
		p.Events.Log(ctx, cardID, ev, from, to, actor)
	}
	return card, nil
}

// precheck fails fast when a stage's result could not be recorded on the
// card, before any paid provider call is made.
func (p *Pipeline) precheck(ctx context.Context, cardID int64, ev workflow.Event) (*models.Card, error) {
	c, err := p.Cards.FindByID(ctx, cardID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, apperr.New(apperr.NotFound, "card %d not found", cardID)
	}
	if _, err := workflow.Transition(c.Status, ev); err != nil {
		return nil, err
	}
	return c, nil
}
