// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package ai provides a unified interface for the text and image models the
// card pipeline calls. Text providers (Groq, OpenAI) implement Provider and
// the Registry selects the active one by name; OpenAI additionally
// implements ImageGenerator.
package ai

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"ecardfactory/internal/models"
)

// Request is one chat completion call.
type Request struct {
	System      string
	User        string
	Temperature float64
	// JSON asks the model for a single JSON object response.
	JSON bool
}

// Usage is the token accounting reported by the provider.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
}

// Completion is the provider's answer.
type Completion struct {
	Text  string
	Model string
	Usage Usage
	Cost  models.Money
}

// Provider defines the interface that all text providers must implement.
// Each provider handles its own HTTP communication and response parsing.
type Provider interface {
	// Complete sends one system+user exchange and returns the reply.
	// Transport failures are apperr.Unavailable; refusals apperr.Rejected.
	Complete(ctx context.Context, req Request) (*Completion, error)

	// Name returns the provider identifier (e.g., "groq", "openai").
	Name() string
}

// ProviderConfig holds the credentials and settings for a single provider.
type ProviderConfig struct {
	APIKey  string
	Model   string
	BaseURL string

	// Image settings; only read by providers that generate images.
	ImageModel   string
	ImageSize    string
	ImageQuality string
}

// Registry manages available providers and selects the active text one.
// All methods are safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	providers map[string]Provider
	active    string
}

// NewRegistry creates a registry and initialises providers for every config
// that has a non-empty API key. Providers without keys are silently skipped.
func NewRegistry(active string, configs map[string]ProviderConfig) *Registry {
	r := &Registry{
		providers: make(map[string]Provider),
		active:    active,
	}

	for name, cfg := range configs {
		if cfg.APIKey == "" {
			continue
		}
		switch name {
		case "openai":
			r.providers[name] = newOpenAI(cfg)
		case "groq":
			r.providers[name] = newGroq(cfg)
		}
	}

	return r
}

// Complete calls the active provider.
func (r *Registry) Complete(ctx context.Context, req Request) (*Completion, error) {
	p, err := r.Active()
	if err != nil {
		return nil, err
	}
	return p.Complete(ctx, req)
}

// Active returns the currently active provider.
func (r *Registry) Active() (Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.providers[r.active]
	if !ok {
		return nil, fmt.Errorf("ai: no provider configured for %q", r.active)
	}
	return p, nil
}

// SetActive switches the active provider at runtime. Returns an error if
// the named provider has no API key configured.
func (r *Registry) SetActive(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.providers[name]; !ok {
		return fmt.Errorf("ai: provider %q is not available (no API key?)", name)
	}
	r.active = name
	return nil
}

// ActiveName returns the name of the currently active provider.
func (r *Registry) ActiveName() string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.active
}

// Available returns the sorted names of all configured providers.
func (r *Registry) Available() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Register adds or replaces a provider in the registry.
func (r *Registry) Register(name string, p Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[name] = p
}

// HasProvider checks whether a named provider is configured and available.
func (r *Registry) HasProvider(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.providers[name]
	return ok
}
