// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"net/http"

	"ecardfactory/internal/models"
	"ecardfactory/internal/pipeline"
	"ecardfactory/internal/store"
	"ecardfactory/internal/workflow"
)

// CardEvents reads a card's transition log.
type CardEvents interface {
	ForCard(ctx context.Context, cardID int64, limit int) ([]store.CardEvent, error)
}

// Cards serves card record endpoints.
type Cards struct {
	pipeline *pipeline.Pipeline
	events   CardEvents
}

// NewCards creates a new Cards handler. events may be nil.
func NewCards(p *pipeline.Pipeline, events CardEvents) *Cards {
	return &Cards{pipeline: p, events: events}
}

const (
	defaultPendingLimit = 100
	maxPendingLimit     = 500
	defaultEventLimit   = 50
	maxEventLimit       = 200
)

// apiActor is recorded on transitions made through the HTTP API.
const apiActor = "api"

type createCardRequest struct {
	Phrase      string             `json:"phrase"`
	ThemeName   string             `json:"theme_name" validate:"required,max=200"`
	ThemeSource models.ThemeSource `json:"theme_source" validate:"required,oneof=override weekly fallback"`
	EventID     *int64             `json:"event_id" validate:"omitempty,gt=0"`
	DallePrompt string             `json:"dalle_prompt"`
}

// Create stores a new card awaiting phrase approval.
func (h *Cards) Create(w http.ResponseWriter, r *http.Request) {
	var req createCardRequest
	if !decode(w, r, &req) {
		return
	}
	c, err := h.pipeline.CreateCard(r.Context(), pipeline.NewCard{
		EventID:     req.EventID,
		ThemeName:   req.ThemeName,
		ThemeSource: req.ThemeSource,
		Phrase:      req.Phrase,
		DallePrompt: req.DallePrompt,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"card_id":    c.ID,
		"status":     c.Status,
		"created_at": c.CreatedAt,
	})
}

// Pending lists cards still waiting on a stage or an operator, newest first.
func (h *Cards) Pending(w http.ResponseWriter, r *http.Request) {
	limit, ok := queryLimit(w, r, defaultPendingLimit, maxPendingLimit)
	if !ok {
		return
	}
	cards, err := h.pipeline.PendingCards(r.Context(), limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if cards == nil {
		cards = []models.Card{}
	}
	writeJSON(w, http.StatusOK, cards)
}

// Get returns one card.
func (h *Cards) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	c, err := h.pipeline.Card(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// Events returns the card's recorded transitions, newest first.
func (h *Cards) Events(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	limit, ok := queryLimit(w, r, defaultEventLimit, maxEventLimit)
	if !ok {
		return
	}
	if _, err := h.pipeline.Card(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	events := []store.CardEvent{}
	if h.events != nil {
		list, err := h.events.ForCard(r.Context(), id, limit)
		if err != nil {
			writeError(w, r, err)
			return
		}
		if list != nil {
			events = list
		}
	}
	writeJSON(w, http.StatusOK, events)
}

type statusRequest struct {
	Status string `json:"status" validate:"required"`
}

// SetStatus moves a card to the requested status through the transition
// table.
func (h *Cards) SetStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req statusRequest
	if !decode(w, r, &req) {
		return
	}
	status, err := workflow.ParseStatus(req.Status)
	if err != nil {
		writeError(w, r, err)
		return
	}
	c, err := h.pipeline.SetStatus(r.Context(), id, status, apiActor)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"card_id": c.ID, "status": c.Status})
}

type urlsRequest struct {
	ImageURL    *string `json:"image_url" validate:"omitempty,url"`
	CanvaURL    *string `json:"canva_url" validate:"omitempty,url"`
	FinalPNGURL *string `json:"final_png_url" validate:"omitempty,url"`
	DallePrompt *string `json:"dalle_prompt"`
}

// UpdateURLs sets asset URLs on a card.
func (h *Cards) UpdateURLs(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req urlsRequest
	if !decode(w, r, &req) {
		return
	}
	fields, err := h.pipeline.UpdateURLs(r.Context(), id, pipeline.URLPatch{
		ImageURL:    req.ImageURL,
		CanvaURL:    req.CanvaURL,
		FinalPNGURL: req.FinalPNGURL,
		DallePrompt: req.DallePrompt,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"card_id": id, "updated_fields": nonNilFields(fields)})
}

type contentRequest struct {
	Phrase           *string                  `json:"phrase"`
	DallePrompt      *string                  `json:"dalle_prompt"`
	CandidatePhrases []models.CandidatePhrase `json:"candidate_phrases"`
}

// UpdateContent sets generated content on a card. A body that sets
// nothing is a bad request.
func (h *Cards) UpdateContent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req contentRequest
	if !decode(w, r, &req) {
		return
	}
	patch := pipeline.ContentPatch{
		Phrase:           req.Phrase,
		DallePrompt:      req.DallePrompt,
		CandidatePhrases: req.CandidatePhrases,
	}
	if patch.Empty() {
		writeBadRequest(w, "no content fields provided")
		return
	}
	fields, err := h.pipeline.UpdateContent(r.Context(), id, patch)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"card_id": id, "updated_fields": nonNilFields(fields)})
}

func nonNilFields(fields []string) []string {
	if fields == nil {
		return []string{}
	}
	return fields
}
