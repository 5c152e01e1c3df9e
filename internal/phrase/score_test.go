// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package phrase

import (
	"testing"

	"ecardfactory/internal/apperr"
	"ecardfactory/internal/models"
)

func TestExpectedTone(t *testing.T) {
	tests := []struct {
		funny, emotion int
		want           models.Tone
	}{
		{70, 30, models.ToneFunny},
		{60, 60, models.ToneFunny},
		{30, 70, models.ToneEmotional},
		{59, 60, models.ToneEmotional},
		{50, 50, models.ToneBalanced},
		{0, 0, models.ToneBalanced},
	}
	for _, tt := range tests {
		if got := ExpectedTone(tt.funny, tt.emotion); got != tt.want {
			t.Errorf("ExpectedTone(%d, %d) = %s, want %s", tt.funny, tt.emotion, got, tt.want)
		}
	}
}

func TestScoreChaiExample(t *testing.T) {
	c := models.CandidatePhrase{
		Text: "Ready for more laughter, lighter worries, and brighter chai breaks today?!",
		Tone: models.ToneFunny,
	}
	if got := Score(c, models.ToneFunny); got != 38 {
		t.Errorf("Score = %d, want 38", got)
	}
}

func TestScoreRubric(t *testing.T) {
	tests := []struct {
		name string
		c    models.CandidatePhrase
		want int
	}{
		{
			name: "short wrong tone",
			c:    models.CandidatePhrase{Text: "Happy Monday", Tone: models.ToneEmotional},
			want: -15,
		},
		{
			name: "short matching tone with exclamation",
			c:    models.CandidatePhrase{Text: "Happy Monday, friend!", Tone: models.ToneFunny},
			want: 20 + 3 - 15,
		},
		{
			name: "seven words neither bonus nor penalty",
			c:    models.CandidatePhrase{Text: "one two three four five six seven", Tone: models.ToneBalanced},
			want: 0,
		},
		{
			name: "too long",
			c: models.CandidatePhrase{
				Text: "a b c d e f g h i j k l m n o p q r s t u v w x y z",
				Tone: models.ToneFunny,
			},
			want: 20 - 10,
		},
		{
			name: "declared word count wins over literal",
			c:    models.CandidatePhrase{Text: "Hi", Tone: models.ToneFunny, WordCount: 10},
			want: 10 + 20,
		},
		{
			name: "missing tone defaults to expected",
			c:    models.CandidatePhrase{Text: "one two three four five six seven eight"},
			want: 10 + 20,
		},
		{
			name: "invalid tone defaults to expected",
			c:    models.CandidatePhrase{Text: "one two three four five six seven eight", Tone: "sarcastic"},
			want: 10 + 20,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Score(tt.c, models.ToneFunny); got != tt.want {
				t.Errorf("Score = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestSelectBest(t *testing.T) {
	cands := []models.CandidatePhrase{
		{Text: "Short one", Tone: models.ToneFunny},
		{Text: "May your week be as warm as your morning chai and twice as sweet", Tone: models.ToneEmotional},
		{Text: "Why does Monday always arrive before we finish enjoying Sunday, really?", Tone: models.ToneFunny},
	}

	best, idx, err := SelectBest(cands, models.ToneFunny)
	if err != nil {
		t.Fatalf("SelectBest: %v", err)
	}
	if idx != 2 || best.Text != cands[2].Text {
		t.Errorf("got index %d (%q), want 2", idx, best.Text)
	}

	// Deterministic across repeated calls.
	for i := 0; i < 10; i++ {
		_, again, _ := SelectBest(cands, models.ToneFunny)
		if again != idx {
			t.Fatalf("call %d picked %d, want %d", i, again, idx)
		}
	}
}

func TestSelectBestTieGoesToFirst(t *testing.T) {
	cands := []models.CandidatePhrase{
		{Text: "one two three four five six seven eight", Tone: models.ToneBalanced},
		{Text: "eight seven six five four three two one", Tone: models.ToneBalanced},
	}
	_, idx, err := SelectBest(cands, models.ToneBalanced)
	if err != nil {
		t.Fatalf("SelectBest: %v", err)
	}
	if idx != 0 {
		t.Errorf("tie: got index %d, want 0", idx)
	}
}

func TestSelectBestEmpty(t *testing.T) {
	_, _, err := SelectBest(nil, models.ToneFunny)
	if !apperr.Is(err, apperr.Validation) {
		t.Errorf("want validation error, got %v", err)
	}
}

func TestNormalize(t *testing.T) {
	got := Normalize(models.CandidatePhrase{Text: "  Hello warm world  ", Tone: " FUNNY "}, models.ToneBalanced, "diwali")
	if got.Text != "Hello warm world" || got.Tone != models.ToneFunny || got.Occasion != "diwali" || got.WordCount != 3 {
		t.Errorf("Normalize = %+v", got)
	}
}
