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
)

// ThemeStore reads weekly themes and manages overrides.
type ThemeStore struct {
	db *sql.DB
}

// NewThemeStore creates a new ThemeStore.
func NewThemeStore(db *sql.DB) *ThemeStore {
	return &ThemeStore{db: db}
}

const overrideColumns = `id, override_type, event_id, theme_name, tone_funny_pct, tone_emotion_pct,
	prompt_keywords, color_palette, visual_style, instagram_hashtags,
	start_date, end_date, priority, created_by, active, created_at`

func scanOverride(scanner interface{ Scan(...any) error }) (*models.ThemeOverride, error) {
	o := &models.ThemeOverride{}
	var eventID sql.NullInt64
	err := scanner.Scan(
		&o.ID, &o.OverrideType, &eventID, &o.ThemeName, &o.ToneFunnyPct, &o.ToneEmotionPct,
		pq.Array(&o.PromptKeywords), pq.Array(&o.ColorPalette), &o.VisualStyle, pq.Array(&o.InstagramHashtags),
		&o.StartDate, &o.EndDate, &o.Priority, &o.CreatedBy, &o.Active, &o.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	o.EventID = nullableID(eventID)
	return o, nil
}

const weeklyColumns = `id, rotation_month, day_of_week, theme_name, tone_funny_pct, tone_emotion_pct,
	prompt_keywords, color_palette, visual_style, instagram_hashtags, active`

func scanWeekly(scanner interface{ Scan(...any) error }) (*models.WeeklyTheme, error) {
	w := &models.WeeklyTheme{}
	err := scanner.Scan(
		&w.ID, &w.RotationMonth, &w.DayOfWeek, &w.ThemeName, &w.ToneFunnyPct, &w.ToneEmotionPct,
		pq.Array(&w.PromptKeywords), pq.Array(&w.ColorPalette), &w.VisualStyle, pq.Array(&w.InstagramHashtags),
		&w.Active,
	)
	if err != nil {
		return nil, err
	}
	return w, nil
}

// ActiveOverride returns the active override covering d with the highest
// priority. Equal priorities go to the most recently created override.
// Returns nil if none applies.
func (s *ThemeStore) ActiveOverride(ctx context.Context, d models.Date) (*models.ThemeOverride, error) {
	o, err := scanOverride(s.db.QueryRowContext(ctx, `
		SELECT `+overrideColumns+`
		FROM theme_overrides
		WHERE active AND start_date <= $1 AND end_date >= $1
		ORDER BY priority DESC, created_at DESC, id DESC
		LIMIT 1
	`, d))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find active override: %w", err)
	}
	return o, nil
}

// WeeklyTheme returns the active weekly theme for bucket whose day_of_week
// matches one of dayKeys, case-insensitively. Returns nil if none matches.
func (s *ThemeStore) WeeklyTheme(ctx context.Context, bucket int, dayKeys []string) (*models.WeeklyTheme, error) {
	w, err := scanWeekly(s.db.QueryRowContext(ctx, `
		SELECT `+weeklyColumns+`
		FROM weekly_themes
		WHERE active AND rotation_month = $1 AND lower(day_of_week) = ANY($2)
		ORDER BY id
		LIMIT 1
	`, bucket, pq.Array(dayKeys)))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find weekly theme: %w", err)
	}
	return w, nil
}

// ListWeekly returns every weekly theme ordered by bucket and id.
func (s *ThemeStore) ListWeekly(ctx context.Context) ([]models.WeeklyTheme, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+weeklyColumns+` FROM weekly_themes ORDER BY rotation_month, id`)
	if err != nil {
		return nil, fmt.Errorf("list weekly themes: %w", err)
	}
	defer rows.Close()

	var out []models.WeeklyTheme
	for rows.Next() {
		w, err := scanWeekly(rows)
		if err != nil {
			return nil, fmt.Errorf("scan weekly theme: %w", err)
		}
		out = append(out, *w)
	}
	return out, rows.Err()
}

// CreateOverride inserts an override and returns it with its id and
// creation time. A missing event yields a not-found error.
func (s *ThemeStore) CreateOverride(ctx context.Context, o *models.ThemeOverride) (*models.ThemeOverride, error) {
	created, err := scanOverride(s.db.QueryRowContext(ctx, `
		INSERT INTO theme_overrides (override_type, event_id, theme_name, tone_funny_pct, tone_emotion_pct,
			prompt_keywords, color_palette, visual_style, instagram_hashtags,
			start_date, end_date, priority, created_by, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, TRUE)
		RETURNING `+overrideColumns,
		o.OverrideType, idArg(o.EventID), o.ThemeName, o.ToneFunnyPct, o.ToneEmotionPct,
		pq.Array(models.NonNil(o.PromptKeywords)), pq.Array(models.NonNil(o.ColorPalette)), o.VisualStyle,
		pq.Array(models.NonNil(o.InstagramHashtags)),
		o.StartDate, o.EndDate, o.Priority, o.CreatedBy,
	))
	if isForeignKeyViolation(err) {
		return nil, apperr.New(apperr.NotFound, "event %d not found", *o.EventID)
	}
	if err != nil {
		return nil, fmt.Errorf("insert override: %w", err)
	}
	return created, nil
}

// DeactivateOverride marks an override inactive. Overrides are never
// deleted so past plans keep a valid link.
func (s *ThemeStore) DeactivateOverride(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `UPDATE theme_overrides SET active = FALSE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deactivate override: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.New(apperr.NotFound, "override %d not found", id)
	}
	return nil
}

// ListOverrides returns overrides, newest first. With activeOnly set,
// deactivated overrides are skipped.
func (s *ThemeStore) ListOverrides(ctx context.Context, activeOnly bool) ([]models.ThemeOverride, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+overrideColumns+`
		FROM theme_overrides
		WHERE active OR NOT $1
		ORDER BY created_at DESC, id DESC
	`, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("list overrides: %w", err)
	}
	defer rows.Close()

	var out []models.ThemeOverride
	for rows.Next() {
		o, err := scanOverride(rows)
		if err != nil {
			return nil, fmt.Errorf("scan override: %w", err)
		}
		out = append(out, *o)
	}
	return out, rows.Err()
}
