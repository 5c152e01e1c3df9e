// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package phrase

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"ecardfactory/internal/models"
)

// Image prompt limits.
const (
	ImagePromptEnding   = "No text, no words, no letters in the image."
	MaxImagePromptRunes = 900
)

// Phrase count bounds for one generation request.
const (
	DefaultPhraseCount = 5
	MaxPhraseCount     = 10
)

// PhraseSystemPrompt sets up the model as the card copywriter.
const PhraseSystemPrompt = "You are the lead copywriter for a greeting card studio serving the Indian market. " +
	"You write short, warm, culturally aware lines that people want to forward to friends and family. " +
	"Always answer with valid JSON when asked for JSON."

// ImageSystemPrompt sets up the model as the art director.
const ImageSystemPrompt = "You are an art director writing prompts for an image generation model. " +
	"You describe scenes for greeting card backgrounds and never ask for text, lettering or typography."

// PhraseBrief is the theme input for phrase generation.
type PhraseBrief struct {
	ThemeName      string
	EventName      string
	ToneFunnyPct   int
	ToneEmotionPct int
	PromptKeywords []string
	VisualStyle    string
	Count          int
}

// UserPrompt renders the brief as the user message.
func (b PhraseBrief) UserPrompt() string {
	var sb strings.Builder

	switch ExpectedTone(b.ToneFunnyPct, b.ToneEmotionPct) {
	case models.ToneFunny:
		sb.WriteString("Lean into humor, wit and playful relatability.\n")
	case models.ToneEmotional:
		sb.WriteString("Lean into emotional depth, tenderness and sincerity.\n")
	default:
		sb.WriteString("Keep humor and heartfelt warmth in balance.\n")
	}

	fmt.Fprintf(&sb, "Theme: %s\n", b.ThemeName)
	if b.EventName != "" {
		fmt.Fprintf(&sb, "Occasion: %s\n", b.EventName)
	}
	fmt.Fprintf(&sb, "Keywords: %s\n", joinOr(b.PromptKeywords, "none"))
	fmt.Fprintf(&sb, "Visual style: %s\n", b.VisualStyle)
	fmt.Fprintf(&sb, "Write exactly %d greeting card phrases of 8 to 20 words each.\n", b.Count)
	sb.WriteString("Respond with JSON only, shaped as:\n")
	sb.WriteString(`{"phrases": [{"text": "...", "tone": "funny|emotional|balanced", "occasion": "...", "word_count": 12}]}`)
	return sb.String()
}

// ImageBrief is the input for writing an image prompt.
type ImageBrief struct {
	Phrase         string
	ThemeName      string
	ColorPalette   []string
	VisualStyle    string
	PromptKeywords []string
}

// UserPrompt renders the brief as the user message.
func (b ImageBrief) UserPrompt() string {
	var sb strings.Builder
	sb.WriteString("Write one prompt for a greeting card background image.\n")
	fmt.Fprintf(&sb, "Card phrase for context: %s\n", b.Phrase)
	fmt.Fprintf(&sb, "Theme: %s\n", b.ThemeName)
	fmt.Fprintf(&sb, "Palette: %s\n", joinOr(b.ColorPalette, "tasteful premium card colors"))
	fmt.Fprintf(&sb, "Visual style: %s\n", b.VisualStyle)
	fmt.Fprintf(&sb, "Keywords: %s\n", joinOr(b.PromptKeywords, "celebratory composition"))
	fmt.Fprintf(&sb, "Stay under %d characters. Work the palette in naturally. ", MaxImagePromptRunes)
	sb.WriteString("Do not describe any text or lettering. ")
	fmt.Fprintf(&sb, "End with exactly: %q", ImagePromptEnding)
	return sb.String()
}

func joinOr(items []string, fallback string) string {
	if len(items) == 0 {
		return fallback
	}
	return strings.Join(items, ", ")
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// ConstrainImagePrompt collapses whitespace, forces the no-text ending and
// caps the prompt at MaxImagePromptRunes.
func ConstrainImagePrompt(prompt string) string {
	cleaned := strings.TrimSpace(whitespaceRun.ReplaceAllString(prompt, " "))

	out := cleaned
	if !strings.HasSuffix(cleaned, ImagePromptEnding) {
		cleaned = strings.TrimRight(cleaned, " .")
		if cleaned == "" {
			out = ImagePromptEnding
		} else {
			out = cleaned + ". " + ImagePromptEnding
		}
	}

	if utf8.RuneCountInString(out) <= MaxImagePromptRunes {
		return out
	}

	keep := MaxImagePromptRunes - utf8.RuneCountInString(ImagePromptEnding) - 1
	prefix := strings.TrimRight(string([]rune(out)[:keep]), " ,.;:")
	return prefix + " " + ImagePromptEnding
}

// ClampCount bounds a requested phrase count, treating 0 as the default.
func ClampCount(n int) int {
	switch {
	case n <= 0:
		return DefaultPhraseCount
	case n > MaxPhraseCount:
		return MaxPhraseCount
	}
	return n
}
