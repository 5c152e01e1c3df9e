// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"ecardfactory/internal/models"
)

// PlanStore manages the one-row-per-day content plan.
type PlanStore struct {
	db *sql.DB
}

// NewPlanStore creates a new PlanStore.
func NewPlanStore(db *sql.DB) *PlanStore {
	return &PlanStore{db: db}
}

const planColumns = `id, plan_date, theme_name, source, override_id, weekly_theme_id,
	tone_funny_pct, tone_emotion_pct, prompt_keywords, color_palette,
	cards_generated, status, created_at, updated_at`

func scanPlan(scanner interface{ Scan(...any) error }) (*models.DailyContentPlan, error) {
	p := &models.DailyContentPlan{}
	var overrideID, weeklyID sql.NullInt64
	err := scanner.Scan(
		&p.ID, &p.PlanDate, &p.ThemeName, &p.Source, &overrideID, &weeklyID,
		&p.ToneFunnyPct, &p.ToneEmotionPct, pq.Array(&p.PromptKeywords), pq.Array(&p.ColorPalette),
		&p.CardsGenerated, &p.Status, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.OverrideID = nullableID(overrideID)
	p.WeeklyThemeID = nullableID(weeklyID)
	return p, nil
}

// UpsertPlan writes the plan for p.PlanDate in one statement. An existing
// row takes the new resolution; its cards_generated count is kept.
func (s *PlanStore) UpsertPlan(ctx context.Context, p *models.DailyContentPlan) (*models.DailyContentPlan, error) {
	saved, err := scanPlan(s.db.QueryRowContext(ctx, `
		INSERT INTO daily_content_plan (plan_date, theme_name, source, override_id, weekly_theme_id,
			tone_funny_pct, tone_emotion_pct, prompt_keywords, color_palette, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (plan_date) DO UPDATE SET
			theme_name       = EXCLUDED.theme_name,
			source           = EXCLUDED.source,
			override_id      = EXCLUDED.override_id,
			weekly_theme_id  = EXCLUDED.weekly_theme_id,
			tone_funny_pct   = EXCLUDED.tone_funny_pct,
			tone_emotion_pct = EXCLUDED.tone_emotion_pct,
			prompt_keywords  = EXCLUDED.prompt_keywords,
			color_palette    = EXCLUDED.color_palette,
			status           = EXCLUDED.status,
			updated_at       = now()
		RETURNING `+planColumns,
		p.PlanDate, p.ThemeName, p.Source, idArg(p.OverrideID), idArg(p.WeeklyThemeID),
		p.ToneFunnyPct, p.ToneEmotionPct,
		pq.Array(models.NonNil(p.PromptKeywords)), pq.Array(models.NonNil(p.ColorPalette)), p.Status,
	))
	if err != nil {
		return nil, fmt.Errorf("upsert plan %s: %w", p.PlanDate, err)
	}
	return saved, nil
}

// FindByDate returns the plan for d, or nil if the day was never resolved.
func (s *PlanStore) FindByDate(ctx context.Context, d models.Date) (*models.DailyContentPlan, error) {
	p, err := scanPlan(s.db.QueryRowContext(ctx,
		`SELECT `+planColumns+` FROM daily_content_plan WHERE plan_date = $1`, d))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find plan %s: %w", d, err)
	}
	return p, nil
}

// History returns the most recent plans, newest first.
func (s *PlanStore) History(ctx context.Context, limit int) ([]models.DailyContentPlan, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+planColumns+`
		FROM daily_content_plan
		ORDER BY plan_date DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list plan history: %w", err)
	}
	defer rows.Close()

	var out []models.DailyContentPlan
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan plan: %w", err)
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

// IncrementCardsGenerated bumps the day's card counter. It reports false
// when no plan exists for d yet.
func (s *PlanStore) IncrementCardsGenerated(ctx context.Context, d models.Date) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE daily_content_plan
		SET cards_generated = cards_generated + 1, updated_at = now()
		WHERE plan_date = $1
	`, d)
	if err != nil {
		return false, fmt.Errorf("increment cards generated: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}
