// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package phrase

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestConstrainImagePrompt(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "adds ending",
			in:   "A sunrise over  tea fields.\n",
			want: "A sunrise over tea fields. " + ImagePromptEnding,
		},
		{
			name: "keeps existing ending",
			in:   "Soft lanterns. " + ImagePromptEnding,
			want: "Soft lanterns. " + ImagePromptEnding,
		},
		{
			name: "empty",
			in:   "   ",
			want: ImagePromptEnding,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ConstrainImagePrompt(tt.in); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestConstrainImagePromptLength(t *testing.T) {
	long := strings.Repeat("marigold garland, ", 100)
	got := ConstrainImagePrompt(long)

	if n := utf8.RuneCountInString(got); n > MaxImagePromptRunes {
		t.Errorf("length %d exceeds %d", n, MaxImagePromptRunes)
	}
	if !strings.HasSuffix(got, " "+ImagePromptEnding) {
		t.Errorf("missing ending: %q", got[len(got)-60:])
	}
	if strings.Contains(got, ", "+ImagePromptEnding) {
		t.Error("trailing punctuation should be trimmed before the ending")
	}
}

func TestPhraseBriefPrompt(t *testing.T) {
	p := PhraseBrief{
		ThemeName: "Motivation Monday", ToneFunnyPct: 30, ToneEmotionPct: 70,
		PromptKeywords: []string{"fresh start"}, Count: 5,
	}.UserPrompt()

	for _, want := range []string{"emotional depth", "Motivation Monday", "fresh start", "exactly 5", `"phrases"`} {
		if !strings.Contains(p, want) {
			t.Errorf("prompt missing %q:\n%s", want, p)
		}
	}
	if strings.Contains(p, "Occasion:") {
		t.Error("occasion line should be omitted without an event")
	}
}

func TestClampCount(t *testing.T) {
	for in, want := range map[int]int{0: 5, -3: 5, 1: 1, 7: 7, 10: 10, 50: 10} {
		if got := ClampCount(in); got != want {
			t.Errorf("ClampCount(%d) = %d, want %d", in, got, want)
		}
	}
}
