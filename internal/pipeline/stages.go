// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package pipeline

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"strings"

	"ecardfactory/internal/ai"
	"ecardfactory/internal/apperr"
	"ecardfactory/internal/imaging"
	"ecardfactory/internal/models"
	"ecardfactory/internal/phrase"
	"ecardfactory/internal/storage"
	"ecardfactory/internal/workflow"
)

// Sampling temperatures for the two text stages.
const (
	PhraseTemperature      = 0.9
	ImagePromptTemperature = 0.7
)

// PhraseInput describes the theme to write phrases for.
type PhraseInput struct {
	ThemeName      string
	ToneFunnyPct   int
	ToneEmotionPct int
	PromptKeywords []string
	VisualStyle    string
	EventName      string
	Count          int
	CardID         *int64
}

// PhraseResult is the generated candidates and the ranked best one.
type PhraseResult struct {
	Phrases []models.CandidatePhrase
	Best    models.CandidatePhrase
	BestIdx int
	CardID  *int64
	Cost    models.Money
}

// GeneratePhrases asks the text model for candidates and ranks them. With
// a card id the candidates and best phrase are stored and the card is
// re-affirmed as awaiting phrase approval.
func (p *Pipeline) GeneratePhrases(ctx context.Context, in PhraseInput) (*PhraseResult, error) {
	if in.CardID != nil {
		if _, err := p.precheck(ctx, *in.CardID, workflow.PhrasesGenerated); err != nil {
			return nil, err
		}
	}

	count := phrase.ClampCount(in.Count)
	brief := phrase.PhraseBrief{
		ThemeName:      in.ThemeName,
		EventName:      in.EventName,
		ToneFunnyPct:   in.ToneFunnyPct,
		ToneEmotionPct: in.ToneEmotionPct,
		PromptKeywords: in.PromptKeywords,
		VisualStyle:    in.VisualStyle,
		Count:          count,
	}
	comp, err := p.Text.Complete(ctx, ai.Request{
		System:      phrase.PhraseSystemPrompt,
		User:        brief.UserPrompt(),
		Temperature: PhraseTemperature,
		JSON:        true,
	})
	if err != nil {
		return nil, fmt.Errorf("generate phrases: %w", err)
	}

	expected := phrase.ExpectedTone(in.ToneFunnyPct, in.ToneEmotionPct)
	occasion := in.EventName
	if occasion == "" {
		occasion = in.ThemeName
	}
	cands := p.Parser.Parse(comp.Text, phrase.ParseOptions{
		ExpectedTone: expected,
		Occasion:     occasion,
		Count:        count,
	})
	if len(cands) == 0 {
		slog.Warn("language model returned no usable phrases", "model", comp.Model)
		return nil, apperr.New(apperr.Unavailable, "language model returned no usable phrases")
	}
	for i := range cands {
		cands[i] = phrase.Normalize(cands[i], expected, occasion)
	}

	best, idx, err := phrase.SelectBest(cands, expected)
	if err != nil {
		return nil, err
	}

	if in.CardID != nil {
		_, err := p.transition(ctx, *in.CardID, workflow.PhrasesGenerated, Actor, func(c *models.Card) {
			c.CandidatePhrases = models.CandidatePhrases(cands)
			c.Phrase = best.Text
			c.CostLLM += comp.Cost
		})
		if err != nil {
			return nil, fmt.Errorf("store phrases: %w", err)
		}
	}

	slog.Info("phrases generated", "count", len(cands), "best", idx, "model", comp.Model, "cost", comp.Cost)
	return &PhraseResult{Phrases: cands, Best: best, BestIdx: idx, CardID: in.CardID, Cost: comp.Cost}, nil
}

// ImagePromptInput describes the card an image prompt is written for.
type ImagePromptInput struct {
	Phrase         string
	ThemeName      string
	ColorPalette   []string
	VisualStyle    string
	PromptKeywords []string
	CardID         *int64
}

// GenerateImagePrompt asks the text model for an image prompt and
// constrains it. With a card id the prompt is stored on the card.
func (p *Pipeline) GenerateImagePrompt(ctx context.Context, in ImagePromptInput) (string, error) {
	if strings.TrimSpace(in.Phrase) == "" {
		return "", apperr.New(apperr.Validation, "phrase is required")
	}
	brief := phrase.ImageBrief{
		Phrase:         in.Phrase,
		ThemeName:      in.ThemeName,
		ColorPalette:   in.ColorPalette,
		VisualStyle:    in.VisualStyle,
		PromptKeywords: in.PromptKeywords,
	}
	comp, err := p.Text.Complete(ctx, ai.Request{
		System:      phrase.ImageSystemPrompt,
		User:        brief.UserPrompt(),
		Temperature: ImagePromptTemperature,
	})
	if err != nil {
		return "", fmt.Errorf("generate image prompt: %w", err)
	}
	prompt := phrase.ConstrainImagePrompt(comp.Text)

	if in.CardID != nil {
		_, err := p.Cards.Update(ctx, *in.CardID, func(c *models.Card) error {
			c.DallePrompt = prompt
			c.CostLLM += comp.Cost
			return nil
		})
		if err != nil {
			return "", fmt.Errorf("store image prompt: %w", err)
		}
	}
	return prompt, nil
}

// ImageInput asks for one piece of artwork.
type ImageInput struct {
	Prompt  string
	Size    string
	Quality string
	CardID  *int64
}

// ImageResult is validated artwork.
type ImageResult struct {
	ImageURL      string
	SourceURL     string
	RevisedPrompt string
	CardID        *int64
	Cost          models.Money
	Report        *imaging.Report
}

// AssetError reports artwork that failed validation. It unwraps to an
// asset-invalid apperr.
type AssetError struct {
	Report *imaging.Report
}

func (e *AssetError) Error() string { return "generated image failed validation: " + e.Report.Error }

func (e *AssetError) Unwrap() error {
	return apperr.New(apperr.AssetInvalid, "generated image failed validation: %s", e.Report.Error)
}

// GenerateImage renders artwork for a prompt and validates it. With a
// card id the artwork is stored on the card, which moves to awaiting image
// approval. When object storage is configured the artwork is copied there
// and the durable URL is stored, since provider URLs expire.
func (p *Pipeline) GenerateImage(ctx context.Context, in ImageInput) (*ImageResult, error) {
	if strings.TrimSpace(in.Prompt) == "" {
		return nil, apperr.New(apperr.Validation, "dalle_prompt is required")
	}
	if p.Images == nil {
		return nil, apperr.New(apperr.Unavailable, "no image provider configured")
	}
	if in.CardID != nil {
		if _, err := p.precheck(ctx, *in.CardID, workflow.ImageGenerated); err != nil {
			return nil, err
		}
	}

	size, quality := in.Size, in.Quality
	if size == "" {
		size = p.ImageSize
	}
	if quality == "" {
		quality = p.ImageQuality
	}
	gen, err := p.Images.GenerateImage(ctx, ai.ImageRequest{Prompt: in.Prompt, Size: size, Quality: quality})
	if err != nil {
		return nil, fmt.Errorf("generate image: %w", err)
	}

	report, body := p.Artwork.Validate(ctx, gen.URL)
	if !report.Valid {
		slog.Warn("generated image failed validation", "error", report.Error, "card_id", in.CardID)
		return nil, &AssetError{Report: report}
	}

	res := &ImageResult{
		ImageURL:      gen.URL,
		SourceURL:     gen.URL,
		RevisedPrompt: gen.RevisedPrompt,
		CardID:        in.CardID,
		Cost:          gen.Cost,
		Report:        report,
	}
	if in.CardID == nil {
		return res, nil
	}

	if p.Assets != nil {
		url, err := p.Assets.PutCardAsset(ctx, *in.CardID, storage.AssetArtwork, report.ContentType, body)
		if err != nil {
			slog.Warn("failed to copy artwork to storage", "card_id", *in.CardID, "error", err)
		} else {
			res.ImageURL = url
		}
	}

	_, err = p.transition(ctx, *in.CardID, workflow.ImageGenerated, Actor, func(c *models.Card) {
		c.ImageURL = res.ImageURL
		c.CostImage = gen.Cost
		if gen.RevisedPrompt != "" && gen.RevisedPrompt != in.Prompt {
			c.DallePrompt = gen.RevisedPrompt
		}
	})
	if err != nil {
		return nil, fmt.Errorf("store image: %w", err)
	}
	return res, nil
}

// ValidateImage checks a remote image against the artwork rules.
func (p *Pipeline) ValidateImage(ctx context.Context, url string) *imaging.Report {
	report, _ := p.Artwork.Validate(ctx, url)
	return report
}

// RenderInput is the artwork and text for a preview or final card.
type RenderInput struct {
	ImageURL     string
	Phrase       string
	ThemeName    string
	ColorPalette []string
	VisualStyle  string
	CardID       *int64
}

// Rendered is an encoded card image.
type Rendered struct {
	Data        []byte
	ContentType string
	// URL is where the file was stored, when it was.
	URL string
}

// Preview renders the 800px JPEG preview. With a card id the card moves
// to awaiting assembly and the preview is stored when storage is
// configured.
func (p *Pipeline) Preview(ctx context.Context, in RenderInput) (*Rendered, error) {
	if in.CardID != nil {
		if _, err := p.precheck(ctx, *in.CardID, workflow.PreviewCreated); err != nil {
			return nil, err
		}
	}
	src, err := p.load(ctx, in)
	if err != nil {
		return nil, err
	}
	data, err := p.Renderer.Preview(imaging.Card{Source: src, Phrase: in.Phrase, Palette: in.ColorPalette})
	if err != nil {
		return nil, fmt.Errorf("render preview: %w", err)
	}
	out := &Rendered{Data: data, ContentType: "image/jpeg"}
	if in.CardID == nil {
		return out, nil
	}

	if p.Assets != nil {
		url, err := p.Assets.PutCardAsset(ctx, *in.CardID, storage.AssetPreview, out.ContentType, data)
		if err != nil {
			slog.Warn("failed to store preview", "card_id", *in.CardID, "error", err)
		} else {
			out.URL = url
		}
	}
	if _, err := p.transition(ctx, *in.CardID, workflow.PreviewCreated, Actor, nil); err != nil {
		return nil, fmt.Errorf("record preview: %w", err)
	}
	return out, nil
}

// Assemble renders the 2100px production PNG. With a card id the file is
// uploaded when storage is configured, its URL stored as final_png_url,
// and the card moves to assembly approved. An upload failure fails the
// request.
func (p *Pipeline) Assemble(ctx context.Context, in RenderInput) (*Rendered, error) {
	if in.CardID != nil {
		if _, err := p.precheck(ctx, *in.CardID, workflow.AssemblyProduced); err != nil {
			return nil, err
		}
	}
	src, err := p.load(ctx, in)
	if err != nil {
		return nil, err
	}
	data, err := p.Renderer.Assemble(imaging.Card{
		Source:      src,
		Phrase:      in.Phrase,
		Palette:     in.ColorPalette,
		VisualStyle: in.VisualStyle,
	})
	if err != nil {
		return nil, fmt.Errorf("assemble card: %w", err)
	}
	out := &Rendered{Data: data, ContentType: "image/png"}
	if in.CardID == nil {
		return out, nil
	}

	if p.Assets != nil {
		url, err := p.Assets.PutCardAsset(ctx, *in.CardID, storage.AssetFinal, out.ContentType, data)
		if err != nil {
			return nil, fmt.Errorf("upload final card: %w", err)
		}
		out.URL = url
	}
	_, err = p.transition(ctx, *in.CardID, workflow.AssemblyProduced, Actor, func(c *models.Card) {
		if out.URL != "" {
			c.FinalPNGURL = out.URL
		}
	})
	if err != nil {
		return nil, fmt.Errorf("record assembly: %w", err)
	}
	slog.Info("card assembled", "card_id", *in.CardID, "bytes", len(data), "url", out.URL)
	return out, nil
}

func (p *Pipeline) load(ctx context.Context, in RenderInput) (image.Image, error) {
	if strings.TrimSpace(in.ImageURL) == "" {
		return nil, apperr.New(apperr.Validation, "image_url is required")
	}
	if strings.TrimSpace(in.Phrase) == "" {
		return nil, apperr.New(apperr.Validation, "phrase is required")
	}
	img, err := p.Artwork.Load(ctx, in.ImageURL)
	if err != nil {
		return nil, fmt.Errorf("load artwork: %w", err)
	}
	return img, nil
}
