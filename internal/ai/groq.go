// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"context"
	"net/http"
	"time"
)

// groqProvider implements the Provider interface using Groq's chat
// completions API, which is OpenAI-compatible.
type groqProvider struct {
	inner *openAIProvider
}

// newGroq creates a new Groq provider. Groq serves an OpenAI-compatible
// API under a different base URL.
func newGroq(cfg ProviderConfig) *groqProvider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.groq.com/openai/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "llama-3.3-70b-versatile"
	}
	return &groqProvider{
		inner: &openAIProvider{
			name:   "groq",
			config: cfg,
			client: &http.Client{Timeout: 30 * time.Second},
		},
	}
}

func (p *groqProvider) Name() string { return "groq" }

// Complete sends a chat completion request to Groq.
func (p *groqProvider) Complete(ctx context.Context, req Request) (*Completion, error) {
	return p.inner.Complete(ctx, req)
}
