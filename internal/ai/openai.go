// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"ecardfactory/internal/apperr"
)

// openAIProvider implements Provider using the OpenAI chat completions API
// (POST /v1/chat/completions) and ImageGenerator using the images API.
type openAIProvider struct {
	name   string
	config ProviderConfig
	client *http.Client
}

// newOpenAI creates a new OpenAI provider.
func newOpenAI(cfg ProviderConfig) *openAIProvider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.ImageModel == "" {
		cfg.ImageModel = "dall-e-3"
	}
	if cfg.ImageSize == "" {
		cfg.ImageSize = DefaultImageSize
	}
	if cfg.ImageQuality == "" {
		cfg.ImageQuality = DefaultImageQuality
	}
	return &openAIProvider{
		name:   "openai",
		config: cfg,
		client: &http.Client{Timeout: 60 * time.Second},
	}
}

func (p *openAIProvider) Name() string { return p.name }

// Complete sends a chat completion request and returns the assistant's
// response text.
func (p *openAIProvider) Complete(ctx context.Context, req Request) (*Completion, error) {
	body := openAIRequest{
		Model: p.config.Model,
		Messages: []openAIMessage{
			{Role: "system", Content: req.System},
			{Role: "user", Content: req.User},
		},
		Temperature: req.Temperature,
	}
	if req.JSON {
		body.ResponseFormat = &openAIResponseFormat{Type: "json_object"}
	}
	return p.doChat(ctx, body)
}

// doChat performs the HTTP call to the chat completions endpoint.
// Shared with every OpenAI-compatible provider.
func (p *openAIProvider) doChat(ctx context.Context, body openAIRequest) (*Completion, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("%s marshal: %w", p.name, err)
	}

	respBody, status, err := p.post(ctx, "/chat/completions", payload)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, apperr.Wrap(apperr.Unavailable,
			fmt.Errorf("status %d: %s", status, truncate(respBody, 300)),
			fmt.Sprintf("%s API request failed", p.name))
	}

	var result openAIResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, apperr.Wrap(apperr.Unavailable, err,
			fmt.Sprintf("%s returned an unexpected response format", p.name))
	}
	if len(result.Choices) == 0 {
		return nil, apperr.New(apperr.Unavailable, "%s returned no choices", p.name)
	}

	model := result.Model
	if model == "" {
		model = body.Model
	}
	return &Completion{
		Text:  strings.TrimSpace(result.Choices[0].Message.Content),
		Model: model,
		Usage: result.Usage,
		Cost:  TextCost(model, result.Usage),
	}, nil
}

// post sends an authenticated JSON request and returns the raw response.
// Transport failures are classified as unavailable.
func (p *openAIProvider) post(ctx context.Context, path string, payload []byte) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.config.BaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, 0, fmt.Errorf("%s request: %w", p.name, err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.config.APIKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, 0, apperr.Wrap(apperr.Unavailable, err, fmt.Sprintf("%s API request failed", p.name))
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, apperr.Wrap(apperr.Unavailable, err, fmt.Sprintf("%s API read failed", p.name))
	}
	return respBody, resp.StatusCode, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}

// --- OpenAI-compatible request/response types ---

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIResponseFormat struct {
	Type string `json:"type"`
}

type openAIRequest struct {
	Model          string                `json:"model"`
	Messages       []openAIMessage       `json:"messages"`
	Temperature    float64               `json:"temperature"`
	ResponseFormat *openAIResponseFormat `json:"response_format,omitempty"`
}

type openAIResponse struct {
	Model   string         `json:"model"`
	Choices []openAIChoice `json:"choices"`
	Usage   Usage          `json:"usage"`
}

type openAIChoice struct {
	Message openAIMessage `json:"message"`
}
