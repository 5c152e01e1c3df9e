// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "time"

// ThemeSource records which tier of the resolver produced a theme.
type ThemeSource string

const (
	SourceOverride ThemeSource = "override"
	SourceWeekly   ThemeSource = "weekly"
	SourceFallback ThemeSource = "fallback"
)

// Valid reports whether s is one of the three known sources.
func (s ThemeSource) Valid() bool {
	return s == SourceOverride || s == SourceWeekly || s == SourceFallback
}

// ThemeOverride is an operator-created theme that supersedes the weekly
// rotation between StartDate and EndDate inclusive. Overrides are
// deactivated, never deleted.
type ThemeOverride struct {
	ID                int64     `json:"id"`
	OverrideType      string    `json:"override_type"`
	EventID           *int64    `json:"event_id,omitempty"`
	ThemeName         string    `json:"theme_name"`
	ToneFunnyPct      int       `json:"tone_funny_pct"`
	ToneEmotionPct    int       `json:"tone_emotion_pct"`
	PromptKeywords    []string  `json:"prompt_keywords"`
	ColorPalette      []string  `json:"color_palette"`
	VisualStyle       string    `json:"visual_style"`
	InstagramHashtags []string  `json:"instagram_hashtags"`
	StartDate         Date      `json:"start_date"`
	EndDate           Date      `json:"end_date"`
	Priority          int       `json:"priority"`
	CreatedBy         string    `json:"created_by"`
	Active            bool      `json:"active"`
	CreatedAt         time.Time `json:"created_at"`
}

// Covers reports whether the override is active on d.
func (o *ThemeOverride) Covers(d Date) bool {
	return o.Active && d.Contains(o.StartDate, o.EndDate)
}

// WeeklyTheme is the recurring theme for one (rotation bucket, weekday) pair.
type WeeklyTheme struct {
	ID                int64    `json:"id" yaml:"-"`
	RotationMonth     int      `json:"rotation_month" yaml:"rotation_month"`
	DayOfWeek         string   `json:"day_of_week" yaml:"day_of_week"`
	ThemeName         string   `json:"theme_name" yaml:"theme_name"`
	ToneFunnyPct      int      `json:"tone_funny_pct" yaml:"tone_funny_pct"`
	ToneEmotionPct    int      `json:"tone_emotion_pct" yaml:"tone_emotion_pct"`
	PromptKeywords    []string `json:"prompt_keywords" yaml:"prompt_keywords"`
	ColorPalette      []string `json:"color_palette" yaml:"color_palette"`
	VisualStyle       string   `json:"visual_style" yaml:"visual_style"`
	InstagramHashtags []string `json:"instagram_hashtags" yaml:"instagram_hashtags"`
	Active            bool     `json:"active" yaml:"active"`
}

// PlanStatusResolved marks a plan row written by the theme resolver.
const PlanStatusResolved = "resolved"

// DailyContentPlan is the single row per date recording the latest theme
// resolution. CardsGenerated is owned by card creation, not the resolver.
type DailyContentPlan struct {
	ID             int64       `json:"id"`
	PlanDate       Date        `json:"plan_date"`
	ThemeName      string      `json:"theme_name"`
	Source         ThemeSource `json:"source"`
	OverrideID     *int64      `json:"override_id,omitempty"`
	WeeklyThemeID  *int64      `json:"weekly_theme_id,omitempty"`
	ToneFunnyPct   int         `json:"tone_funny_pct"`
	ToneEmotionPct int         `json:"tone_emotion_pct"`
	PromptKeywords []string    `json:"prompt_keywords"`
	ColorPalette   []string    `json:"color_palette"`
	CardsGenerated int         `json:"cards_generated"`
	Status         string      `json:"status"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// ResolvedTheme is the resolver's answer for one date. List fields are
// never nil so the JSON form is stable across calls.
type ResolvedTheme struct {
	ThemeName         string      `json:"theme_name"`
	Source            ThemeSource `json:"source"`
	ToneFunnyPct      int         `json:"tone_funny_pct"`
	ToneEmotionPct    int         `json:"tone_emotion_pct"`
	PromptKeywords    []string    `json:"prompt_keywords"`
	ColorPalette      []string    `json:"color_palette"`
	VisualStyle       string      `json:"visual_style"`
	InstagramHashtags []string    `json:"instagram_hashtags"`
	PlanDate          Date        `json:"plan_date"`

	// Link ids recorded on the plan row; not part of the API shape.
	OverrideID    *int64 `json:"-"`
	WeeklyThemeID *int64 `json:"-"`
}

// Plan converts the resolution into the plan row the resolver upserts.
func (r *ResolvedTheme) Plan() *DailyContentPlan {
	return &DailyContentPlan{
		PlanDate:       r.PlanDate,
		ThemeName:      r.ThemeName,
		Source:         r.Source,
		OverrideID:     r.OverrideID,
		WeeklyThemeID:  r.WeeklyThemeID,
		ToneFunnyPct:   r.ToneFunnyPct,
		ToneEmotionPct: r.ToneEmotionPct,
		PromptKeywords: r.PromptKeywords,
		ColorPalette:   r.ColorPalette,
		Status:         PlanStatusResolved,
	}
}

// NonNil returns s, or an empty slice when s is nil.
func NonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
