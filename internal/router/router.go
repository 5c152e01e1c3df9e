// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up all HTTP routes and middleware chains for the
// card pipeline. Pipeline routes sit behind the API key; the bot webhook
// has its own secret and rate limit.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"ecardfactory/internal/handlers"
	"ecardfactory/internal/middleware"
)

// Handlers groups the route handlers.
type Handlers struct {
	Theme      *handlers.Theme
	Cards      *handlers.Cards
	Generation *handlers.Generation
	Assembly   *handlers.Assembly
	Telegram   *handlers.Telegram
}

// Options configures route protection. Empty secrets disable the check.
type Options struct {
	APIKey         string
	WebhookSecret  string
	WebhookLimiter *middleware.RateLimiter
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(h Handlers, opts Options) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)

	r.Get("/health", healthHandler)

	// Bot webhook: Telegram authenticates with the secret token header.
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireWebhookSecret(opts.WebhookSecret))
		if opts.WebhookLimiter != nil {
			r.Use(opts.WebhookLimiter.Middleware)
		}
		r.Post("/telegram/webhook", h.Telegram.Webhook)
	})

	// Pipeline API, called by the orchestrator.
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAPIKey(opts.APIKey))

		r.Route("/theme", func(r chi.Router) {
			r.Get("/today", h.Theme.Today)
			r.Get("/history", h.Theme.History)
			r.Get("/weekly", h.Theme.Weekly)
			r.Get("/overrides", h.Theme.Overrides)
			r.Post("/override", h.Theme.CreateOverride)
			r.Post("/override/{id}/deactivate", h.Theme.DeactivateOverride)
		})

		r.Route("/cards", func(r chi.Router) {
			r.Post("/create", h.Cards.Create)
			r.Get("/pending", h.Cards.Pending)
			r.Get("/{id}", h.Cards.Get)
			r.Get("/{id}/events", h.Cards.Events)
			r.Patch("/{id}/status", h.Cards.SetStatus)
			r.Patch("/{id}/urls", h.Cards.UpdateURLs)
			r.Patch("/{id}/content", h.Cards.UpdateContent)
		})

		r.Route("/generation", func(r chi.Router) {
			r.Post("/phrases", h.Generation.Phrases)
			r.Post("/dalle-prompt", h.Generation.ImagePrompt)
			r.Post("/image", h.Generation.Image)
			r.Post("/image/validate", h.Generation.ValidateImage)
		})

		r.Route("/assembly", func(r chi.Router) {
			r.Post("/preview", h.Assembly.Preview)
			r.Post("/card", h.Assembly.Card)
		})

		r.Route("/telegram", func(r chi.Router) {
			r.Post("/phrase-approval", h.Telegram.PhraseApproval)
			r.Post("/image-approval", h.Telegram.ImageApproval)
			r.Post("/final-approval", h.Telegram.FinalApproval)
			r.Post("/notify", h.Telegram.Notify)
			r.Post("/setup-webhook", h.Telegram.SetupWebhook)
		})
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
