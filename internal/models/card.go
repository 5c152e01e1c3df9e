// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"ecardfactory/internal/workflow"
)

// Tone classifies the register of a phrase.
type Tone string

const (
	ToneFunny     Tone = "funny"
	ToneEmotional Tone = "emotional"
	ToneBalanced  Tone = "balanced"
)

// Valid reports whether t is one of the three tones.
func (t Tone) Valid() bool {
	return t == ToneFunny || t == ToneEmotional || t == ToneBalanced
}

// CandidatePhrase is one generated option for a card's text.
type CandidatePhrase struct {
	Text      string `json:"text"`
	Tone      Tone   `json:"tone"`
	Occasion  string `json:"occasion"`
	WordCount int    `json:"word_count"`
}

// CandidatePhrases is stored as a JSONB array, in generation order.
type CandidatePhrases []CandidatePhrase

// Scan implements sql.Scanner.
func (c *CandidatePhrases) Scan(src any) error {
	var b []byte
	switch v := src.(type) {
	case nil:
		*c = nil
		return nil
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return fmt.Errorf("scan candidate phrases: unsupported type %T", src)
	}
	return json.Unmarshal(b, (*[]CandidatePhrase)(c))
}

// Value implements driver.Valuer.
func (c CandidatePhrases) Value() (driver.Value, error) {
	if c == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]CandidatePhrase(c))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// DefaultImageCost is the stored image cost before generation reports one:
// a standard 1024x1024 render.
const DefaultImageCost Money = 400

// Card is one greeting card moving through the approval workflow.
type Card struct {
	ID               int64            `json:"id"`
	EventID          *int64           `json:"event_id,omitempty"`
	ThemeName        string           `json:"theme_name"`
	ThemeSource      ThemeSource      `json:"theme_source"`
	Phrase           string           `json:"phrase"`
	CandidatePhrases CandidatePhrases `json:"candidate_phrases"`
	DallePrompt      string           `json:"dalle_prompt"`
	ImageURL         string           `json:"image_url"`
	CanvaURL         string           `json:"canva_url"`
	FinalPNGURL      string           `json:"final_png_url"`
	Status           workflow.Status  `json:"status"`
	CostLLM          Money            `json:"cost_llm"`
	CostImage        Money            `json:"cost_image"`
	CreatedAt        time.Time        `json:"created_at"`
}

// TotalCost is the estimated spend on the card so far.
func (c *Card) TotalCost() Money {
	return c.CostLLM + c.CostImage
}

// Candidate returns the n-th candidate phrase, 1-based.
func (c *Card) Candidate(n int) (CandidatePhrase, bool) {
	if n < 1 || n > len(c.CandidatePhrases) {
		return CandidatePhrase{}, false
	}
	return c.CandidatePhrases[n-1], true
}
