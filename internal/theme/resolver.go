// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package theme decides the content theme for a calendar day. Sources are
// tried in order: an active override covering the day, then the weekly
// rotation entry for the day, then a fixed fallback. Every resolution is
// written to the daily plan with a single upsert.
package theme

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"ecardfactory/internal/models"
)

// Fallback theme used when neither an override nor a weekly entry applies.
const (
	FallbackName       = "Relatable / Everyday"
	FallbackFunnyPct   = 70
	FallbackEmotionPct = 30
)

// Catalog is the read side of theme storage.
type Catalog interface {
	// ActiveOverride returns the winning active override covering d, or nil.
	ActiveOverride(ctx context.Context, d models.Date) (*models.ThemeOverride, error)
	// WeeklyTheme returns the active entry for bucket whose day_of_week is
	// one of dayKeys, or nil.
	WeeklyTheme(ctx context.Context, bucket int, dayKeys []string) (*models.WeeklyTheme, error)
}

// PlanWriter records the resolution for a date.
type PlanWriter interface {
	UpsertPlan(ctx context.Context, p *models.DailyContentPlan) (*models.DailyContentPlan, error)
}

// Resolver resolves themes against one fixed timezone.
type Resolver struct {
	catalog Catalog
	plans   PlanWriter
	loc     *time.Location
	now     func() time.Time
}

// NewResolver creates a resolver whose "today" is evaluated in loc.
func NewResolver(catalog Catalog, plans PlanWriter, loc *time.Location) *Resolver {
	if loc == nil {
		loc = time.UTC
	}
	return &Resolver{catalog: catalog, plans: plans, loc: loc, now: time.Now}
}

// Location returns the timezone the resolver treats as local.
func (r *Resolver) Location() *time.Location { return r.loc }

// Today returns the current calendar date in the resolver's timezone. It is
// evaluated on every call, never cached.
func (r *Resolver) Today() models.Date {
	return models.DateOf(r.now().In(r.loc))
}

// ResolveToday resolves the theme for Today.
func (r *Resolver) ResolveToday(ctx context.Context) (*models.ResolvedTheme, error) {
	return r.Resolve(ctx, r.Today())
}

// Resolve picks the theme for d and upserts the day's plan. Missing data
// falls through to the next tier; only store failures are returned.
func (r *Resolver) Resolve(ctx context.Context, d models.Date) (*models.ResolvedTheme, error) {
	resolved, err := r.pick(ctx, d)
	if err != nil {
		return nil, err
	}

	if _, err := r.plans.UpsertPlan(ctx, resolved.Plan()); err != nil {
		return nil, fmt.Errorf("record plan for %s: %w", d, err)
	}

	slog.Info("theme resolved",
		"date", d.String(),
		"theme", resolved.ThemeName,
		"source", resolved.Source,
	)
	return resolved, nil
}

func (r *Resolver) pick(ctx context.Context, d models.Date) (*models.ResolvedTheme, error) {
	o, err := r.catalog.ActiveOverride(ctx, d)
	if err != nil {
		return nil, fmt.Errorf("lookup override for %s: %w", d, err)
	}
	if o != nil {
		id := o.ID
		return &models.ResolvedTheme{
			ThemeName:         o.ThemeName,
			Source:            models.SourceOverride,
			ToneFunnyPct:      o.ToneFunnyPct,
			ToneEmotionPct:    o.ToneEmotionPct,
			PromptKeywords:    models.NonNil(o.PromptKeywords),
			ColorPalette:      models.NonNil(o.ColorPalette),
			VisualStyle:       o.VisualStyle,
			InstagramHashtags: models.NonNil(o.InstagramHashtags),
			PlanDate:          d,
			OverrideID:        &id,
		}, nil
	}

	idx := WeekdayIndex(d)
	w, err := r.catalog.WeeklyTheme(ctx, RotationBucket(d.Month()), []string{WeekdayName(d), strconv.Itoa(idx)})
	if err != nil {
		return nil, fmt.Errorf("lookup weekly theme for %s: %w", d, err)
	}
	if w != nil {
		id := w.ID
		return &models.ResolvedTheme{
			ThemeName:         w.ThemeName,
			Source:            models.SourceWeekly,
			ToneFunnyPct:      w.ToneFunnyPct,
			ToneEmotionPct:    w.ToneEmotionPct,
			PromptKeywords:    models.NonNil(w.PromptKeywords),
			ColorPalette:      models.NonNil(w.ColorPalette),
			VisualStyle:       w.VisualStyle,
			InstagramHashtags: models.NonNil(w.InstagramHashtags),
			PlanDate:          d,
			WeeklyThemeID:     &id,
		}, nil
	}

	return Fallback(d), nil
}

// Fallback returns the fixed theme used when nothing else applies.
func Fallback(d models.Date) *models.ResolvedTheme {
	return &models.ResolvedTheme{
		ThemeName:         FallbackName,
		Source:            models.SourceFallback,
		ToneFunnyPct:      FallbackFunnyPct,
		ToneEmotionPct:    FallbackEmotionPct,
		PromptKeywords:    []string{},
		ColorPalette:      []string{},
		VisualStyle:       "",
		InstagramHashtags: []string{},
		PlanDate:          d,
	}
}
