// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"net/http"

	"ecardfactory/internal/apperr"
	"ecardfactory/internal/models"
)

// Resolver answers which theme applies today.
type Resolver interface {
	ResolveToday(ctx context.Context) (*models.ResolvedTheme, error)
}

// PlanHistory lists recorded daily plans.
type PlanHistory interface {
	History(ctx context.Context, limit int) ([]models.DailyContentPlan, error)
}

// ThemeCatalog manages overrides and lists the weekly rotation.
type ThemeCatalog interface {
	CreateOverride(ctx context.Context, o *models.ThemeOverride) (*models.ThemeOverride, error)
	DeactivateOverride(ctx context.Context, id int64) error
	ListOverrides(ctx context.Context, activeOnly bool) ([]models.ThemeOverride, error)
	ListWeekly(ctx context.Context) ([]models.WeeklyTheme, error)
}

// Theme serves the theme resolution endpoints.
type Theme struct {
	resolver Resolver
	plans    PlanHistory
	catalog  ThemeCatalog
}

// NewTheme creates a new Theme handler.
func NewTheme(resolver Resolver, plans PlanHistory, catalog ThemeCatalog) *Theme {
	return &Theme{resolver: resolver, plans: plans, catalog: catalog}
}

// Default and maximum number of plans returned by History.
const (
	defaultHistoryLimit = 7
	maxHistoryLimit     = 30
)

// Today resolves and returns today's theme, recording the plan row.
func (h *Theme) Today(w http.ResponseWriter, r *http.Request) {
	theme, err := h.resolver.ResolveToday(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, theme)
}

// History lists the most recent daily plans, newest first.
func (h *Theme) History(w http.ResponseWriter, r *http.Request) {
	limit, ok := queryLimit(w, r, defaultHistoryLimit, maxHistoryLimit)
	if !ok {
		return
	}
	plans, err := h.plans.History(r.Context(), limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if plans == nil {
		plans = []models.DailyContentPlan{}
	}
	writeJSON(w, http.StatusOK, plans)
}

type overrideRequest struct {
	OverrideType      string      `json:"override_type" validate:"required,max=30"`
	EventID           *int64      `json:"event_id" validate:"omitempty,gt=0"`
	ThemeName         string      `json:"theme_name" validate:"required,max=200"`
	ToneFunnyPct      int         `json:"tone_funny_pct" validate:"min=0,max=100"`
	ToneEmotionPct    int         `json:"tone_emotion_pct" validate:"min=0,max=100"`
	PromptKeywords    []string    `json:"prompt_keywords"`
	ColorPalette      []string    `json:"color_palette" validate:"dive,hexcolor"`
	VisualStyle       string      `json:"visual_style"`
	InstagramHashtags []string    `json:"instagram_hashtags"`
	StartDate         models.Date `json:"start_date"`
	EndDate           models.Date `json:"end_date"`
	Priority          *int        `json:"priority"`
	CreatedBy         string      `json:"created_by" validate:"max=100"`
}

// CreateOverride stores a new active override.
func (h *Theme) CreateOverride(w http.ResponseWriter, r *http.Request) {
	var req overrideRequest
	if !decode(w, r, &req) {
		return
	}
	if req.StartDate.IsZero() || req.EndDate.IsZero() {
		writeError(w, r, apperr.New(apperr.Validation, "start_date and end_date are required"))
		return
	}
	if req.EndDate.Before(req.StartDate.Time) {
		writeError(w, r, apperr.New(apperr.Validation, "end_date must not be before start_date"))
		return
	}

	o := &models.ThemeOverride{
		OverrideType:      req.OverrideType,
		EventID:           req.EventID,
		ThemeName:         req.ThemeName,
		ToneFunnyPct:      req.ToneFunnyPct,
		ToneEmotionPct:    req.ToneEmotionPct,
		PromptKeywords:    models.NonNil(req.PromptKeywords),
		ColorPalette:      models.NonNil(req.ColorPalette),
		VisualStyle:       req.VisualStyle,
		InstagramHashtags: models.NonNil(req.InstagramHashtags),
		StartDate:         req.StartDate,
		EndDate:           req.EndDate,
		Priority:          10,
		CreatedBy:         "system",
		Active:            true,
	}
	if req.Priority != nil {
		o.Priority = *req.Priority
	}
	if req.CreatedBy != "" {
		o.CreatedBy = req.CreatedBy
	}

	created, err := h.catalog.CreateOverride(r.Context(), o)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// DeactivateOverride turns an override off. Overrides are never deleted.
func (h *Theme) DeactivateOverride(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.catalog.DeactivateOverride(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": id, "active": false})
}

// Overrides lists overrides. ?active=true limits the list to active ones.
func (h *Theme) Overrides(w http.ResponseWriter, r *http.Request) {
	list, err := h.catalog.ListOverrides(r.Context(), r.URL.Query().Get("active") == "true")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if list == nil {
		list = []models.ThemeOverride{}
	}
	writeJSON(w, http.StatusOK, list)
}

// Weekly lists the weekly rotation.
func (h *Theme) Weekly(w http.ResponseWriter, r *http.Request) {
	list, err := h.catalog.ListWeekly(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if list == nil {
		list = []models.WeeklyTheme{}
	}
	writeJSON(w, http.StatusOK, list)
}
