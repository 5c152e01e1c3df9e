// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package main is the entry point for the eCard Factory server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"ecardfactory/internal/ai"
	"ecardfactory/internal/approval"
	"ecardfactory/internal/cache"
	"ecardfactory/internal/config"
	"ecardfactory/internal/database"
	"ecardfactory/internal/handlers"
	"ecardfactory/internal/imaging"
	"ecardfactory/internal/middleware"
	"ecardfactory/internal/pipeline"
	"ecardfactory/internal/router"
	"ecardfactory/internal/storage"
	"ecardfactory/internal/store"
	"ecardfactory/internal/telegram"
	"ecardfactory/internal/theme"
)

// Webhook deliveries allowed per client IP per minute.
const webhookRateLimit = 120

func main() {
	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Structured logger: JSON in production, text in development.
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)}
	var handler slog.Handler = slog.NewTextHandler(os.Stdout, opts)
	if !cfg.IsDev() {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"timezone", cfg.Timezone,
		"llm_provider", cfg.LLMProvider,
	)

	// Connect to PostgreSQL.
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Run pending migrations.
	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Seed the weekly rotation (no-op if it already exists).
	if err := database.Seed(db); err != nil {
		slog.Error("failed to seed database", "error", err)
		os.Exit(1)
	}

	// Connect to Valkey for webhook update de-duplication.
	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		slog.Error("failed to connect to valkey", "error", err)
		os.Exit(1)
	}
	defer valkeyClient.Close()
	updateLog := cache.NewUpdateLog(valkeyClient, cache.DefaultUpdateTTL)

	// Initialize data stores.
	cardStore := store.NewCardStore(db)
	eventStore := store.NewCardEventStore(db)
	planStore := store.NewPlanStore(db)
	themeStore := store.NewThemeStore(db)

	resolver := theme.NewResolver(themeStore, planStore, cfg.Location)

	// Connect to S3-compatible object storage (optional; cards are still
	// rendered and returned without it).
	var assets pipeline.Assets
	storageClient, err := storage.New(
		cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey,
		cfg.S3BucketPublic, cfg.S3BucketPrivate, cfg.S3PublicURL,
	)
	switch {
	case err != nil:
		slog.Error("failed to initialize S3 storage", "error", err)
		os.Exit(1)
	case storageClient != nil:
		assets = storageClient
		slog.Info("s3 storage connected",
			"endpoint", cfg.S3Endpoint,
			"public_bucket", cfg.S3BucketPublic,
			"private_bucket", cfg.S3BucketPrivate,
		)
	default:
		slog.Warn("s3 storage not configured, rendered cards will not be uploaded")
	}

	// Initialize the AI provider registry with all configured providers.
	aiRegistry := ai.NewRegistry(cfg.LLMProvider, map[string]ai.ProviderConfig{
		"groq": {APIKey: cfg.GroqKey, Model: cfg.GroqModel, BaseURL: cfg.GroqBaseURL},
		"openai": {
			APIKey:       cfg.OpenAIKey,
			Model:        cfg.OpenAIModel,
			BaseURL:      cfg.OpenAIBaseURL,
			ImageModel:   cfg.ImageModel,
			ImageSize:    cfg.ImageSize,
			ImageQuality: cfg.ImageQuality,
		},
	})
	slog.Info("ai providers initialized",
		"active", aiRegistry.ActiveName(),
		"available", aiRegistry.Available(),
		"images", aiRegistry.SupportsImageGeneration(),
	)

	compositor, err := imaging.NewCompositor(cfg.CardFont)
	if err != nil {
		slog.Error("failed to load card font", "path", cfg.CardFont, "error", err)
		os.Exit(1)
	}
	fetcher := imaging.NewFetcher(&http.Client{Timeout: 60 * time.Second})

	bot := telegram.NewClient(cfg.TelegramToken, cfg.TelegramChatID, cfg.TelegramBaseURL)
	if !cfg.TelegramEnabled() {
		slog.Warn("telegram not configured, approval requests will fail")
	}
	gateway := approval.NewGateway(cardStore, bot, cfg.TelegramChatID,
		approval.WithEventLog(eventStore),
		approval.WithUpdateLog(updateLog),
	)

	pipe := pipeline.New(pipeline.Deps{
		Cards:        cardStore,
		Plans:        planStore,
		Events:       eventStore,
		Text:         aiRegistry,
		Images:       aiRegistry,
		Artwork:      fetcher,
		Renderer:     compositor,
		Assets:       assets,
		Today:        resolver.Today,
		ImageSize:    cfg.ImageSize,
		ImageQuality: cfg.ImageQuality,
	})

	webhookLimiter := middleware.NewRateLimiter(webhookRateLimit, time.Minute)
	defer webhookLimiter.Stop()

	// Set up the Chi router with all middleware and routes.
	r := router.New(router.Handlers{
		Theme:      handlers.NewTheme(resolver, planStore, themeStore),
		Cards:      handlers.NewCards(pipe, eventStore),
		Generation: handlers.NewGeneration(pipe),
		Assembly:   handlers.NewAssembly(pipe),
		Telegram:   handlers.NewTelegram(gateway, cfg.PublicBaseURL, cfg.TelegramWebhookSecret),
	}, router.Options{
		APIKey:         cfg.PipelineAPIKey,
		WebhookSecret:  cfg.TelegramWebhookSecret,
		WebhookLimiter: webhookLimiter,
	})
	if cfg.PipelineAPIKey == "" {
		slog.Warn("PIPELINE_API_KEY not set, pipeline routes are unauthenticated")
	}

	// WriteTimeout must cover image generation plus artwork download and
	// compositing, which can take well over a minute.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 180 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}

// parseLevel maps LOG_LEVEL to a slog level, defaulting to info.
func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
