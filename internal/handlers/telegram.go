// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/base64"
	"io"
	"net/http"
	"strings"

	"ecardfactory/internal/apperr"
	"ecardfactory/internal/approval"
	"ecardfactory/internal/models"
	"ecardfactory/internal/telegram"
)

// Telegram serves the approval request endpoints and the bot webhook.
type Telegram struct {
	gateway       *approval.Gateway
	publicBaseURL string
	webhookSecret string
}

// NewTelegram creates a new Telegram handler. publicBaseURL is the
// fallback for setup-webhook requests that do not name one.
func NewTelegram(g *approval.Gateway, publicBaseURL, webhookSecret string) *Telegram {
	return &Telegram{gateway: g, publicBaseURL: publicBaseURL, webhookSecret: webhookSecret}
}

type phraseApprovalRequest struct {
	CardID         int64                    `json:"card_id" validate:"required,gt=0"`
	Phrases        []models.CandidatePhrase `json:"phrases" validate:"required,min=1,max=10"`
	ThemeName      string                   `json:"theme_name" validate:"required"`
	PlanDate       string                   `json:"plan_date" validate:"required"`
	ToneFunnyPct   int                      `json:"tone_funny_pct" validate:"min=0,max=100"`
	ToneEmotionPct int                      `json:"tone_emotion_pct" validate:"min=0,max=100"`
}

// PhraseApproval sends a card's candidates to the operator.
func (h *Telegram) PhraseApproval(w http.ResponseWriter, r *http.Request) {
	var req phraseApprovalRequest
	if !decode(w, r, &req) {
		return
	}
	sent, err := h.gateway.RequestPhraseApproval(r.Context(), approval.PhraseRequest{
		CardID:         req.CardID,
		Phrases:        req.Phrases,
		ThemeName:      req.ThemeName,
		PlanDate:       req.PlanDate,
		TonePctFunny:   req.ToneFunnyPct,
		TonePctEmotion: req.ToneEmotionPct,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sent)
}

type imageApprovalRequest struct {
	CardID    int64  `json:"card_id" validate:"required,gt=0"`
	ImageURL  string `json:"image_url" validate:"required,url"`
	Phrase    string `json:"phrase" validate:"required"`
	ThemeName string `json:"theme_name" validate:"required"`
}

// ImageApproval sends a card's artwork to the operator.
func (h *Telegram) ImageApproval(w http.ResponseWriter, r *http.Request) {
	var req imageApprovalRequest
	if !decode(w, r, &req) {
		return
	}
	sent, err := h.gateway.RequestImageApproval(r.Context(), req.CardID, req.ImageURL, req.Phrase, req.ThemeName)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sent)
}

type finalApprovalRequest struct {
	CardID        int64         `json:"card_id" validate:"required,gt=0"`
	PreviewBase64 string        `json:"preview_base64" validate:"required"`
	Phrase        string        `json:"phrase"`
	ThemeName     string        `json:"theme_name"`
	EstimatedCost *models.Money `json:"estimated_cost"`
}

// FinalApproval sends the rendered preview to the operator.
func (h *Telegram) FinalApproval(w http.ResponseWriter, r *http.Request) {
	var req finalApprovalRequest
	if !decode(w, r, &req) {
		return
	}
	preview, err := decodeBase64(req.PreviewBase64)
	if err != nil {
		writeError(w, r, apperr.New(apperr.Validation, "preview_base64 is not valid base64"))
		return
	}
	sent, err := h.gateway.RequestFinalApproval(r.Context(), req.CardID, preview, req.Phrase, req.ThemeName, req.EstimatedCost)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sent)
}

// decodeBase64 accepts standard base64 with or without padding and an
// optional data URL prefix.
func decodeBase64(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "data:") {
		if _, rest, ok := strings.Cut(s, ","); ok {
			s = rest
		}
	}
	if data, err := base64.StdEncoding.DecodeString(s); err == nil {
		return data, nil
	}
	return base64.RawStdEncoding.DecodeString(strings.TrimRight(s, "="))
}

type notifyRequest struct {
	Message   string `json:"message" validate:"required,max=4096"`
	ParseMode string `json:"parse_mode" validate:"omitempty,oneof=HTML Markdown MarkdownV2 none"`
}

// Notify sends a free-form message to the operator chat.
func (h *Telegram) Notify(w http.ResponseWriter, r *http.Request) {
	var req notifyRequest
	if !decode(w, r, &req) {
		return
	}
	mode := req.ParseMode
	switch mode {
	case "":
		mode = telegram.ParseModeHTML
	case "none":
		mode = ""
	}
	sent, err := h.gateway.Notify(r.Context(), req.Message, mode)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sent)
}

type setupWebhookRequest struct {
	PublicBaseURL string `json:"public_base_url" validate:"omitempty,url"`
}

// SetupWebhook registers the bot webhook with Telegram. An empty body
// falls back to the configured public base URL.
func (h *Telegram) SetupWebhook(w http.ResponseWriter, r *http.Request) {
	var req setupWebhookRequest
	if r.ContentLength != 0 {
		if !decode(w, r, &req) {
			return
		}
	}
	base := req.PublicBaseURL
	if base == "" {
		base = h.publicBaseURL
	}
	hook, err := h.gateway.SetupWebhook(r.Context(), base, h.webhookSecret)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message_id": 0, "sent": true, "webhook_url": hook})
}

// Webhook receives bot updates and applies the operator's command. Updates
// that carry no usable command are answered 200 with action "ignored" so
// Telegram does not redeliver them.
func (h *Telegram) Webhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeBadRequest(w, "failed to read body")
		return
	}
	update, err := telegram.ParseUpdate(body)
	if err != nil {
		writeBadRequest(w, "invalid update payload")
		return
	}
	outcome, err := h.gateway.HandleUpdate(r.Context(), update)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, outcome)
}
