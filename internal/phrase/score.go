// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package phrase ranks and parses greeting card phrases. Scoring is a fixed
// integer rubric; parsing turns language-model output into candidates,
// trying structured JSON before falling back to line extraction.
package phrase

import (
	"strings"

	"ecardfactory/internal/apperr"
	"ecardfactory/internal/models"
)

// DefaultOccasion is used when a candidate names no occasion.
const DefaultOccasion = "general"

// ExpectedTone maps tone weights to the tone a phrase should hit. Funny
// wins at 60 or more, then emotional at 60 or more, else balanced.
func ExpectedTone(funnyPct, emotionPct int) models.Tone {
	if funnyPct >= 60 {
		return models.ToneFunny
	}
	if emotionPct >= 60 {
		return models.ToneEmotional
	}
	return models.ToneBalanced
}

// WordCount counts whitespace-separated words.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

// Normalize fills in a candidate's missing or invalid fields: tone falls
// back to expected, word count to the literal count, occasion to
// fallbackOccasion.
func Normalize(c models.CandidatePhrase, expected models.Tone, fallbackOccasion string) models.CandidatePhrase {
	c.Text = strings.TrimSpace(c.Text)
	c.Tone = models.Tone(strings.ToLower(strings.TrimSpace(string(c.Tone))))
	if !c.Tone.Valid() {
		c.Tone = expected
	}
	c.Occasion = strings.TrimSpace(c.Occasion)
	if c.Occasion == "" {
		c.Occasion = fallbackOccasion
	}
	if c.WordCount <= 0 {
		c.WordCount = WordCount(c.Text)
	}
	return c
}

// Score rates a candidate against the expected tone.
func Score(c models.CandidatePhrase, expected models.Tone) int {
	c = Normalize(c, expected, DefaultOccasion)

	score := 0
	if c.WordCount >= 8 && c.WordCount <= 20 {
		score += 10
	}
	if c.Tone == expected {
		score += 20
	}
	if strings.Contains(c.Text, "?") {
		score += 5
	}
	if strings.Contains(c.Text, "!") {
		score += 3
	}
	if c.WordCount < 6 {
		score -= 15
	}
	if c.WordCount > 25 {
		score -= 10
	}
	return score
}

// SelectBest returns the highest-scoring candidate and its 0-based index.
// Ties go to the earliest candidate. An empty list is a validation error.
func SelectBest(cands []models.CandidatePhrase, expected models.Tone) (models.CandidatePhrase, int, error) {
	if len(cands) == 0 {
		return models.CandidatePhrase{}, -1, apperr.New(apperr.Validation, "no phrase candidates to rank")
	}

	best, bestScore := 0, Score(cands[0], expected)
	for i := 1; i < len(cands); i++ {
		if s := Score(cands[i], expected); s > bestScore {
			best, bestScore = i, s
		}
	}
	return Normalize(cands[best], expected, DefaultOccasion), best, nil
}
