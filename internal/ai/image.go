// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"ecardfactory/internal/apperr"
	"ecardfactory/internal/models"
)

const (
	DefaultImageSize    = "1024x1024"
	DefaultImageQuality = "standard"
)

// ImageRequest asks for one generated image. Empty Size and Quality use
// the provider's configured defaults.
type ImageRequest struct {
	Prompt  string
	Size    string
	Quality string
}

// GeneratedImage is a hosted image produced by the provider.
type GeneratedImage struct {
	URL           string
	RevisedPrompt string
	Size          string
	Quality       string
	Cost          models.Money
}

// ImageGenerator is an optional interface that providers can implement
// to support image generation. Groq is text-only.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, req ImageRequest) (*GeneratedImage, error)
}

// ImageCost returns the list price of one image for the size and quality.
func ImageCost(size, quality string) models.Money {
	square := size == DefaultImageSize
	if quality == "hd" {
		if square {
			return models.Dollars(0.08)
		}
		return models.Dollars(0.12)
	}
	if square {
		return models.Dollars(0.04)
	}
	return models.Dollars(0.08)
}

// GenerateImage creates one image with the images API. A content policy
// refusal is apperr.Rejected; any other failure is apperr.Unavailable.
func (p *openAIProvider) GenerateImage(ctx context.Context, req ImageRequest) (*GeneratedImage, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return nil, apperr.New(apperr.Validation, "image prompt is empty")
	}
	size := req.Size
	if size == "" {
		size = p.config.ImageSize
	}
	quality := req.Quality
	if quality == "" {
		quality = p.config.ImageQuality
	}

	payload, err := json.Marshal(imageRequest{
		Model:          p.config.ImageModel,
		Prompt:         req.Prompt,
		N:              1,
		Size:           size,
		Quality:        quality,
		ResponseFormat: "url",
	})
	if err != nil {
		return nil, fmt.Errorf("%s image marshal: %w", p.name, err)
	}

	respBody, status, err := p.post(ctx, "/images/generations", payload)
	if err != nil {
		return nil, err
	}

	if status >= 400 {
		var failure imageErrorResponse
		_ = json.Unmarshal(respBody, &failure)
		code := strings.ToLower(failure.Error.Code + " " + failure.Error.Type)
		if strings.Contains(code, "content_policy_violation") {
			msg := failure.Error.Message
			if msg == "" {
				msg = "prompt refused"
			}
			return nil, apperr.New(apperr.Rejected, "image provider rejected the prompt due to content policy: %s", msg)
		}
		return nil, apperr.Wrap(apperr.Unavailable,
			fmt.Errorf("status %d: %s", status, truncate(respBody, 300)),
			"image generation failed")
	}

	var result imageResponse
	if err := json.Unmarshal(respBody, &result); err != nil || len(result.Data) == 0 || result.Data[0].URL == "" {
		return nil, apperr.New(apperr.Unavailable, "image provider returned an unexpected response format")
	}

	revised := result.Data[0].RevisedPrompt
	if revised == "" {
		revised = req.Prompt
	}
	return &GeneratedImage{
		URL:           result.Data[0].URL,
		RevisedPrompt: revised,
		Size:          size,
		Quality:       quality,
		Cost:          ImageCost(size, quality),
	}, nil
}

// GenerateImage uses the first configured provider that can produce
// images, independent of the active text provider.
func (r *Registry) GenerateImage(ctx context.Context, req ImageRequest) (*GeneratedImage, error) {
	ig, err := r.imageGenerator()
	if err != nil {
		return nil, err
	}
	return ig.GenerateImage(ctx, req)
}

// SupportsImageGeneration reports whether any configured provider can
// generate images.
func (r *Registry) SupportsImageGeneration() bool {
	_, err := r.imageGenerator()
	return err == nil
}

func (r *Registry) imageGenerator() (ImageGenerator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if ig, ok := r.providers[r.active].(ImageGenerator); ok {
		return ig, nil
	}
	if ig, ok := r.providers["openai"].(ImageGenerator); ok {
		return ig, nil
	}
	return nil, apperr.New(apperr.Unavailable, "no image generation provider configured")
}

type imageRequest struct {
	Model          string `json:"model"`
	Prompt         string `json:"prompt"`
	N              int    `json:"n"`
	Size           string `json:"size"`
	Quality        string `json:"quality"`
	ResponseFormat string `json:"response_format"`
}

type imageResponse struct {
	Data []struct {
		URL           string `json:"url"`
		RevisedPrompt string `json:"revised_prompt"`
	} `json:"data"`
}

type imageErrorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}
