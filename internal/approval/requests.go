// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package approval

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"ecardfactory/internal/apperr"
	"ecardfactory/internal/models"
	"ecardfactory/internal/phrase"
	"ecardfactory/internal/telegram"
	"ecardfactory/internal/workflow"
)

// PhraseRequest asks the operator to pick one of a card's candidates.
type PhraseRequest struct {
	CardID         int64
	Phrases        []models.CandidatePhrase
	ThemeName      string
	PlanDate       string
	TonePctFunny   int
	TonePctEmotion int
}

// RequestPhraseApproval stores the candidates on the card and sends them to
// the operator with the ranked best one starred.
func (g *Gateway) RequestPhraseApproval(ctx context.Context, req PhraseRequest) (*telegram.Sent, error) {
	if len(req.Phrases) == 0 {
		return nil, apperr.New(apperr.Validation, "phrases must not be empty")
	}
	expected := phrase.ExpectedTone(req.TonePctFunny, req.TonePctEmotion)
	_, best, err := phrase.SelectBest(req.Phrases, expected)
	if err != nil {
		return nil, err
	}

	var from workflow.Status
	_, err = g.cards.Update(ctx, req.CardID, func(c *models.Card) error {
		next, err := workflow.Transition(c.Status, workflow.PhrasesGenerated)
		if err != nil {
			return err
		}
		from = c.Status
		c.CandidatePhrases = models.CandidatePhrases(req.Phrases)
		c.Status = next
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("store candidates: %w", err)
	}
	if g.events != nil {
		g.events.Log(ctx, req.CardID, workflow.PhrasesGenerated, from, workflow.PendingPhraseApproval, "pipeline")
	}

	text := telegram.PhraseApprovalText(req.CardID, req.Phrases, best, req.ThemeName, req.PlanDate)
	return g.bot.SendMessage(ctx, text, telegram.ParseModeHTML)
}

// RequestImageApproval sends the generated artwork for review.
func (g *Gateway) RequestImageApproval(ctx context.Context, cardID int64, imageURL, phraseText, themeName string) (*telegram.Sent, error) {
	if strings.TrimSpace(imageURL) == "" {
		return nil, apperr.New(apperr.Validation, "image_url is required")
	}
	if _, err := g.card(ctx, cardID); err != nil {
		return nil, err
	}
	return g.bot.SendPhotoURL(ctx, imageURL, telegram.ImageApprovalCaption(cardID, phraseText, themeName))
}

// RequestFinalApproval sends the assembled preview with the card's
// estimated cost. A nil cost uses the stored costs.
func (g *Gateway) RequestFinalApproval(ctx context.Context, cardID int64, preview []byte, phraseText, themeName string, cost *models.Money) (*telegram.Sent, error) {
	if len(preview) == 0 {
		return nil, apperr.New(apperr.Validation, "preview image is empty")
	}
	c, err := g.card(ctx, cardID)
	if err != nil {
		return nil, err
	}
	total := c.TotalCost()
	if cost != nil {
		total = *cost
	}
	if phraseText == "" {
		phraseText = c.Phrase
	}
	if themeName == "" {
		themeName = c.ThemeName
	}
	filename := fmt.Sprintf("card_%d_preview.jpg", cardID)
	return g.bot.SendPhotoBytes(ctx, filename, preview, telegram.FinalApprovalCaption(cardID, phraseText, themeName, total))
}

// Notify sends a free-form message to the operator chat.
func (g *Gateway) Notify(ctx context.Context, text, parseMode string) (*telegram.Sent, error) {
	if strings.TrimSpace(text) == "" {
		return nil, apperr.New(apperr.Validation, "message must not be empty")
	}
	return g.bot.SendMessage(ctx, text, parseMode)
}

// SetupWebhook registers publicBaseURL + "/telegram/webhook" with the bot
// API and returns the registered URL.
func (g *Gateway) SetupWebhook(ctx context.Context, publicBaseURL, secret string) (string, error) {
	base := strings.TrimRight(strings.TrimSpace(publicBaseURL), "/")
	if base == "" {
		return "", apperr.New(apperr.Validation, "public base url is not configured")
	}
	hook := base + "/telegram/webhook"
	if err := g.bot.SetWebhook(ctx, hook, secret); err != nil {
		return "", err
	}
	slog.Info("telegram webhook registered", "url", hook)
	return hook, nil
}

func (g *Gateway) card(ctx context.Context, id int64) (*models.Card, error) {
	c, err := g.cards.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find card: %w", err)
	}
	if c == nil {
		return nil, apperr.New(apperr.NotFound, "card %d not found", id)
	}
	return c, nil
}
