// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"ecardfactory/internal/pipeline"
)

// Headers carrying the stored location of a rendered card.
const (
	PreviewURLHeader = "X-Preview-URL"
	CardURLHeader    = "X-Card-URL"
)

// Assembly serves the card rendering endpoints.
type Assembly struct {
	pipeline *pipeline.Pipeline
}

// NewAssembly creates a new Assembly handler.
func NewAssembly(p *pipeline.Pipeline) *Assembly {
	return &Assembly{pipeline: p}
}

type previewRequest struct {
	ImageURL     string   `json:"image_url" validate:"required,url"`
	Phrase       string   `json:"phrase" validate:"required"`
	ColorPalette []string `json:"color_palette"`
	CardID       *int64   `json:"card_id" validate:"omitempty,gt=0"`
}

// Preview renders the JPEG preview.
func (h *Assembly) Preview(w http.ResponseWriter, r *http.Request) {
	var req previewRequest
	if !decode(w, r, &req) {
		return
	}
	out, err := h.pipeline.Preview(r.Context(), pipeline.RenderInput{
		ImageURL:     req.ImageURL,
		Phrase:       req.Phrase,
		ColorPalette: req.ColorPalette,
		CardID:       req.CardID,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeImage(w, out, PreviewURLHeader, "preview.jpg")
}

type cardRequest struct {
	ImageURL     string   `json:"image_url" validate:"required,url"`
	Phrase       string   `json:"phrase" validate:"required"`
	ThemeName    string   `json:"theme_name" validate:"required"`
	ColorPalette []string `json:"color_palette"`
	VisualStyle  string   `json:"visual_style"`
	CardID       int64    `json:"card_id" validate:"required,gt=0"`
}

// Card renders the production PNG for a card.
func (h *Assembly) Card(w http.ResponseWriter, r *http.Request) {
	var req cardRequest
	if !decode(w, r, &req) {
		return
	}
	cardID := req.CardID
	out, err := h.pipeline.Assemble(r.Context(), pipeline.RenderInput{
		ImageURL:     req.ImageURL,
		Phrase:       req.Phrase,
		ThemeName:    req.ThemeName,
		ColorPalette: req.ColorPalette,
		VisualStyle:  req.VisualStyle,
		CardID:       &cardID,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeImage(w, out, CardURLHeader, "card_"+strconv.FormatInt(cardID, 10)+".png")
}

func writeImage(w http.ResponseWriter, out *pipeline.Rendered, urlHeader, filename string) {
	w.Header().Set("Content-Type", out.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(out.Data)))
	w.Header().Set("Content-Disposition", `inline; filename="`+filename+`"`)
	if out.URL != "" {
		w.Header().Set(urlHeader, out.URL)
	}
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(out.Data); err != nil {
		slog.Warn("failed to write image response", "error", err)
	}
}
