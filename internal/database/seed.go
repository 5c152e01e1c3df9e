// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package database

import (
	"bytes"
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"log/slog"
	"strings"

	"github.com/lib/pq"
	"gopkg.in/yaml.v3"

	"ecardfactory/internal/models"
	"ecardfactory/internal/theme"
)

//go:embed weekly_themes.yaml
var weeklyThemesYAML []byte

type weeklySeed struct {
	Themes []models.WeeklyTheme `yaml:"themes"`
}

// ParseWeeklyThemes decodes and validates a weekly rotation document.
// Unknown keys are rejected so a typo cannot silently drop a column.
func ParseWeeklyThemes(b []byte) ([]models.WeeklyTheme, error) {
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)

	var doc weeklySeed
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode weekly themes: %w", err)
	}

	seen := make(map[string]bool, len(doc.Themes))
	for i := range doc.Themes {
		w := &doc.Themes[i]
		w.DayOfWeek = strings.ToLower(strings.TrimSpace(w.DayOfWeek))

		if w.RotationMonth < 1 || w.RotationMonth > theme.RotationBuckets {
			return nil, fmt.Errorf("weekly theme %q: rotation_month %d out of range", w.ThemeName, w.RotationMonth)
		}
		if _, ok := theme.ParseWeekday(w.DayOfWeek); !ok {
			return nil, fmt.Errorf("weekly theme %q: unknown day %q", w.ThemeName, w.DayOfWeek)
		}
		if w.ThemeName == "" {
			return nil, fmt.Errorf("weekly theme %d: missing theme_name", i)
		}
		if w.ToneFunnyPct < 0 || w.ToneFunnyPct > 100 || w.ToneEmotionPct < 0 || w.ToneEmotionPct > 100 {
			return nil, fmt.Errorf("weekly theme %q: tone out of range", w.ThemeName)
		}

		key := fmt.Sprintf("%d/%s", w.RotationMonth, w.DayOfWeek)
		if seen[key] {
			return nil, fmt.Errorf("weekly theme %q: duplicate slot %s", w.ThemeName, key)
		}
		seen[key] = true
	}
	return doc.Themes, nil
}

// Seed loads the embedded weekly rotation when the weekly_themes table is
// empty. Existing rows are never touched.
func Seed(db *sql.DB) error {
	ctx := context.Background()

	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM weekly_themes").Scan(&count); err != nil {
		return fmt.Errorf("seed check weekly themes: %w", err)
	}
	if count > 0 {
		slog.Info("weekly themes already seeded, skipping", "rows", count)
		return nil
	}

	themes, err := ParseWeeklyThemes(weeklyThemesYAML)
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed begin: %w", err)
	}
	defer tx.Rollback()

	for _, w := range themes {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO weekly_themes (rotation_month, day_of_week, theme_name, tone_funny_pct,
				tone_emotion_pct, prompt_keywords, color_palette, visual_style, instagram_hashtags, active)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			ON CONFLICT (rotation_month, day_of_week) DO NOTHING
		`, w.RotationMonth, w.DayOfWeek, w.ThemeName, w.ToneFunnyPct, w.ToneEmotionPct,
			pq.Array(models.NonNil(w.PromptKeywords)), pq.Array(models.NonNil(w.ColorPalette)),
			w.VisualStyle, pq.Array(models.NonNil(w.InstagramHashtags)), w.Active,
		)
		if err != nil {
			return fmt.Errorf("seed insert %q: %w", w.ThemeName, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed commit: %w", err)
	}

	slog.Info("database seeded with weekly themes", "rows", len(themes))
	return nil
}
