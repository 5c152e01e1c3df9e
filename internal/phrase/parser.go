// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package phrase

import (
	"encoding/json"
	"math"
	"regexp"
	"strings"

	"ecardfactory/internal/models"
)

// ParseOptions tells a parser how to fill fields the model left out.
type ParseOptions struct {
	ExpectedTone models.Tone
	Occasion     string
	Count        int // maximum candidates to return; 0 means no limit
}

// Parser turns raw model output into candidate phrases.
type Parser interface {
	Parse(content string, opts ParseOptions) []models.CandidatePhrase
}

// JSONParser reads {"phrases": [...]} or a bare array. Items may be
// objects with a "text" field or plain strings.
type JSONParser struct{}

// TextParser extracts one phrase per non-empty line, stripping bullets and
// list numbering.
type TextParser struct{}

// TwoStage tries Strict and, when it yields nothing, Loose.
type TwoStage struct {
	Strict Parser
	Loose  Parser
}

// DefaultParser is the JSON-then-text parser used by the pipeline.
var DefaultParser Parser = TwoStage{Strict: JSONParser{}, Loose: TextParser{}}

// Parse implements Parser.
func (p TwoStage) Parse(content string, opts ParseOptions) []models.CandidatePhrase {
	if out := p.Strict.Parse(content, opts); len(out) > 0 {
		return out
	}
	return p.Loose.Parse(content, opts)
}

// Parse implements Parser.
func (JSONParser) Parse(content string, opts ParseOptions) []models.CandidatePhrase {
	payload, ok := decodeLenient(content)
	if !ok {
		return nil
	}

	var items []any
	switch v := payload.(type) {
	case map[string]any:
		items, _ = v["phrases"].([]any)
	case []any:
		items = v
	}

	var out []models.CandidatePhrase
	for _, item := range items {
		c, ok := candidateFromJSON(item)
		if !ok {
			continue
		}
		out = append(out, Normalize(c, opts.ExpectedTone, opts.occasion()))
		if opts.Count > 0 && len(out) >= opts.Count {
			break
		}
	}
	return out
}

// decodeLenient parses content as JSON, retrying on the span between the
// first '{' and the last '}' to cope with prose or code fences around it.
func decodeLenient(content string) (any, bool) {
	content = strings.TrimSpace(content)

	var v any
	if err := json.Unmarshal([]byte(content), &v); err == nil {
		return v, true
	}

	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start == -1 || end <= start {
		return nil, false
	}
	if err := json.Unmarshal([]byte(content[start:end+1]), &v); err != nil {
		return nil, false
	}
	return v, true
}

func candidateFromJSON(item any) (models.CandidatePhrase, bool) {
	switch v := item.(type) {
	case string:
		text := strings.TrimSpace(v)
		return models.CandidatePhrase{Text: text}, text != ""
	case map[string]any:
		text, _ := v["text"].(string)
		text = strings.TrimSpace(text)
		if text == "" {
			return models.CandidatePhrase{}, false
		}
		c := models.CandidatePhrase{Text: text}
		c.Tone = models.Tone(stringField(v, "tone"))
		c.Occasion = stringField(v, "occasion")
		// Only whole numbers count; anything else is recomputed.
		if n, ok := v["word_count"].(float64); ok && n == math.Trunc(n) && n > 0 {
			c.WordCount = int(n)
		}
		return c, true
	}
	return models.CandidatePhrase{}, false
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

var listMarker = regexp.MustCompile(`^\s*(?:[-*]|\d+[.)])\s*`)

// Parse implements Parser.
func (TextParser) Parse(content string, opts ParseOptions) []models.CandidatePhrase {
	var out []models.CandidatePhrase
	for _, line := range strings.Split(content, "\n") {
		cleaned := strings.TrimSpace(listMarker.ReplaceAllString(line, ""))
		cleaned = strings.Trim(cleaned, "\"' ")
		if cleaned == "" || strings.HasPrefix(strings.ToLower(cleaned), "phrases") {
			continue
		}
		// Structural JSON debris from a half-formed payload.
		if strings.ContainsAny(cleaned[:1], "{}[]") {
			continue
		}

		out = append(out, models.CandidatePhrase{
			Text:      cleaned,
			Tone:      opts.ExpectedTone,
			Occasion:  opts.occasion(),
			WordCount: WordCount(cleaned),
		})
		if opts.Count > 0 && len(out) >= opts.Count {
			break
		}
	}
	return out
}

func (o ParseOptions) occasion() string {
	if o.Occasion == "" {
		return DefaultOccasion
	}
	return o.Occasion
}
