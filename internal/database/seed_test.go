// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package database

import (
	"strings"
	"testing"
)

func TestEmbeddedWeeklyThemes(t *testing.T) {
	themes, err := ParseWeeklyThemes(weeklyThemesYAML)
	if err != nil {
		t.Fatalf("ParseWeeklyThemes: %v", err)
	}
	if len(themes) != 21 {
		t.Fatalf("expected 3 rotations x 7 days, got %d", len(themes))
	}

	var monday bool
	for _, w := range themes {
		if w.RotationMonth == 1 && w.DayOfWeek == "monday" {
			monday = true
			if w.ThemeName != "Motivation Monday" || w.ToneFunnyPct != 30 || w.ToneEmotionPct != 70 {
				t.Errorf("unexpected first-rotation monday: %+v", w)
			}
			if len(w.ColorPalette) == 0 || w.ColorPalette[0] != "#2F6BFF" {
				t.Errorf("palette: %v", w.ColorPalette)
			}
		}
		if !w.Active {
			t.Errorf("%q seeded inactive", w.ThemeName)
		}
	}
	if !monday {
		t.Error("rotation 1 monday missing")
	}
}

func TestParseWeeklyThemesRejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{
			name: "bucket out of range",
			doc:  "themes:\n  - {rotation_month: 4, day_of_week: monday, theme_name: X}\n",
			want: "out of range",
		},
		{
			name: "unknown day",
			doc:  "themes:\n  - {rotation_month: 1, day_of_week: funday, theme_name: X}\n",
			want: "unknown day",
		},
		{
			name: "duplicate slot",
			doc:  "themes:\n  - {rotation_month: 1, day_of_week: Monday, theme_name: X}\n  - {rotation_month: 1, day_of_week: monday, theme_name: Y}\n",
			want: "duplicate",
		},
		{
			name: "unknown key",
			doc:  "themes:\n  - {rotation_month: 1, day_of_week: monday, theme_name: X, colour: red}\n",
			want: "decode",
		},
		{
			name: "tone out of range",
			doc:  "themes:\n  - {rotation_month: 1, day_of_week: monday, theme_name: X, tone_funny_pct: 120}\n",
			want: "tone",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseWeeklyThemes([]byte(tt.doc))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestParseWeeklyThemesNumericDay(t *testing.T) {
	themes, err := ParseWeeklyThemes([]byte("themes:\n  - {rotation_month: 2, day_of_week: \"3\", theme_name: Thursday by index}\n"))
	if err != nil {
		t.Fatalf("ParseWeeklyThemes: %v", err)
	}
	if themes[0].DayOfWeek != "3" {
		t.Errorf("day: got %q", themes[0].DayOfWeek)
	}
}

func TestSeedWhenEmptyOnly(t *testing.T) {
	db, err := Connect(testDSN())
	if err != nil {
		t.Skipf("skipping: DB not available: %v", err)
	}
	defer db.Close()

	if err := Migrate(db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	if err := Seed(db); err != nil {
		t.Fatalf("Seed: %v", err)
	}

	var before int
	if err := db.QueryRow("SELECT COUNT(*) FROM weekly_themes").Scan(&before); err != nil {
		t.Fatalf("count: %v", err)
	}
	if before == 0 {
		t.Fatal("expected weekly themes after seeding")
	}

	if err := Seed(db); err != nil {
		t.Fatalf("second Seed: %v", err)
	}
	var after int
	if err := db.QueryRow("SELECT COUNT(*) FROM weekly_themes").Scan(&after); err != nil {
		t.Fatalf("count: %v", err)
	}
	if after != before {
		t.Errorf("second seed changed row count from %d to %d", before, after)
	}
}
