// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"ecardfactory/internal/pipeline"
)

// Generation serves the text and image generation endpoints.
type Generation struct {
	pipeline *pipeline.Pipeline
}

// NewGeneration creates a new Generation handler.
func NewGeneration(p *pipeline.Pipeline) *Generation {
	return &Generation{pipeline: p}
}

type phrasesRequest struct {
	ThemeName      string   `json:"theme_name" validate:"required"`
	ToneFunnyPct   int      `json:"tone_funny_pct" validate:"min=0,max=100"`
	ToneEmotionPct int      `json:"tone_emotion_pct" validate:"min=0,max=100"`
	PromptKeywords []string `json:"prompt_keywords"`
	VisualStyle    string   `json:"visual_style"`
	EventName      string   `json:"event_name"`
	Count          *int     `json:"count" validate:"omitempty,min=1,max=10"`
	CardID         *int64   `json:"card_id" validate:"omitempty,gt=0"`
}

// Phrases generates ranked candidate phrases for a theme.
func (h *Generation) Phrases(w http.ResponseWriter, r *http.Request) {
	var req phrasesRequest
	if !decode(w, r, &req) {
		return
	}
	in := pipeline.PhraseInput{
		ThemeName:      req.ThemeName,
		ToneFunnyPct:   req.ToneFunnyPct,
		ToneEmotionPct: req.ToneEmotionPct,
		PromptKeywords: req.PromptKeywords,
		VisualStyle:    req.VisualStyle,
		EventName:      req.EventName,
		CardID:         req.CardID,
	}
	if req.Count != nil {
		in.Count = *req.Count
	}

	res, err := h.pipeline.GeneratePhrases(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"phrases":     res.Phrases,
		"best_phrase": res.Best,
		"card_id":     res.CardID,
	})
}

type imagePromptRequest struct {
	Phrase         string   `json:"phrase" validate:"required"`
	ThemeName      string   `json:"theme_name" validate:"required"`
	ColorPalette   []string `json:"color_palette"`
	VisualStyle    string   `json:"visual_style"`
	PromptKeywords []string `json:"prompt_keywords"`
	CardID         *int64   `json:"card_id" validate:"omitempty,gt=0"`
}

// ImagePrompt writes an image-generation prompt for a phrase.
func (h *Generation) ImagePrompt(w http.ResponseWriter, r *http.Request) {
	var req imagePromptRequest
	if !decode(w, r, &req) {
		return
	}
	prompt, err := h.pipeline.GenerateImagePrompt(r.Context(), pipeline.ImagePromptInput{
		Phrase:         req.Phrase,
		ThemeName:      req.ThemeName,
		ColorPalette:   req.ColorPalette,
		VisualStyle:    req.VisualStyle,
		PromptKeywords: req.PromptKeywords,
		CardID:         req.CardID,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"dalle_prompt": prompt, "card_id": req.CardID})
}

type imageRequest struct {
	DallePrompt string `json:"dalle_prompt" validate:"required,max=4000"`
	CardID      *int64 `json:"card_id" validate:"omitempty,gt=0"`
	Size        string `json:"size" validate:"omitempty,oneof=1024x1024 1792x1024 1024x1792"`
	Quality     string `json:"quality" validate:"omitempty,oneof=standard hd"`
}

// Image renders artwork for a prompt. Artwork that fails validation is a
// 422 carrying the validation report.
func (h *Generation) Image(w http.ResponseWriter, r *http.Request) {
	var req imageRequest
	if !decode(w, r, &req) {
		return
	}
	res, err := h.pipeline.GenerateImage(r.Context(), pipeline.ImageInput{
		Prompt:  req.DallePrompt,
		Size:    req.Size,
		Quality: req.Quality,
		CardID:  req.CardID,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"image_url":      res.ImageURL,
		"revised_prompt": res.RevisedPrompt,
		"card_id":        res.CardID,
		"cost_estimate":  res.Cost,
		"validation":     res.Report,
	})
}

type validateImageRequest struct {
	ImageURL string `json:"image_url" validate:"required,url"`
}

// ValidateImage downloads an image and reports whether it is usable as
// card artwork. An unusable image is still a 200 with valid=false.
func (h *Generation) ValidateImage(w http.ResponseWriter, r *http.Request) {
	var req validateImageRequest
	if !decode(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, h.pipeline.ValidateImage(r.Context(), req.ImageURL))
}

