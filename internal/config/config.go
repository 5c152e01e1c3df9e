// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package config handles application configuration loading from environment
// variables. It provides a centralized Config struct used across the application.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host     string
	Port     string
	Env      string // "development", "production", "testing"
	LogLevel string

	// PostgreSQL connection
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Valkey (Redis-compatible cache)
	ValkeyHost     string
	ValkeyPort     string
	ValkeyPassword string

	// Calendar day boundaries for theme resolution.
	Timezone string
	Location *time.Location

	// Text generation
	LLMProvider   string // "groq", "openai"
	GroqKey       string
	GroqModel     string
	GroqBaseURL   string
	OpenAIKey     string
	OpenAIModel   string
	OpenAIBaseURL string

	// Image generation (OpenAI images API)
	ImageModel   string
	ImageSize    string
	ImageQuality string

	// Telegram approval bot
	TelegramToken         string
	TelegramChatID        string
	TelegramWebhookSecret string
	TelegramBaseURL       string
	PublicBaseURL         string

	// Shared key for pipeline HTTP callers; empty disables the check.
	PipelineAPIKey string

	// S3-compatible object storage for rendered cards
	S3Endpoint      string
	S3Region        string
	S3AccessKey     string
	S3SecretKey     string
	S3BucketPublic  string
	S3BucketPrivate string
	S3PublicURL     string

	// TrueType font for card text; empty uses the embedded Go Bold face.
	CardFont string
}

// Load reads configuration from environment variables, applying defaults
// for development where appropriate. A .env file in the working directory
// is read first; variables already set in the process win over it.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{
		Host:     envOrDefault("APP_HOST", "0.0.0.0"),
		Port:     envOrDefault("APP_PORT", "8080"),
		Env:      envOrDefault("APP_ENV", "development"),
		LogLevel: envOrDefault("LOG_LEVEL", "info"),

		DBHost:     envOrDefault("POSTGRES_HOST", "localhost"),
		DBPort:     envOrDefault("POSTGRES_PORT", "5432"),
		DBUser:     envOrDefault("POSTGRES_USER", "ecardfactory"),
		DBPassword: envOrDefault("POSTGRES_PASSWORD", "changeme"),
		DBName:     envOrDefault("POSTGRES_DB", "ecardfactory"),

		ValkeyHost:     envOrDefault("VALKEY_HOST", "localhost"),
		ValkeyPort:     envOrDefault("VALKEY_PORT", "6379"),
		ValkeyPassword: os.Getenv("VALKEY_PASSWORD"),

		Timezone: envOrDefault("TIMEZONE", "Asia/Kolkata"),

		LLMProvider:   strings.ToLower(envOrDefault("LLM_PROVIDER", "groq")),
		GroqKey:       os.Getenv("GROQ_API_KEY"),
		GroqModel:     envOrDefault("GROQ_MODEL", "llama-3.3-70b-versatile"),
		GroqBaseURL:   envOrDefault("GROQ_BASE_URL", "https://api.groq.com/openai/v1"),
		OpenAIKey:     os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:   envOrDefault("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAIBaseURL: envOrDefault("OPENAI_BASE_URL", "https://api.openai.com/v1"),

		ImageModel:   envOrDefault("OPENAI_IMAGE_MODEL", "dall-e-3"),
		ImageSize:    envOrDefault("OPENAI_IMAGE_SIZE", "1024x1024"),
		ImageQuality: envOrDefault("OPENAI_IMAGE_QUALITY", "standard"),

		TelegramToken:         os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramChatID:        os.Getenv("TELEGRAM_CHAT_ID"),
		TelegramWebhookSecret: os.Getenv("TELEGRAM_WEBHOOK_SECRET"),
		TelegramBaseURL:       envOrDefault("TELEGRAM_BASE_URL", "https://api.telegram.org"),
		PublicBaseURL:         os.Getenv("PUBLIC_BASE_URL"),

		PipelineAPIKey: os.Getenv("PIPELINE_API_KEY"),

		S3Endpoint:      os.Getenv("S3_ENDPOINT"),
		S3Region:        envOrDefault("S3_REGION", "fsn1"),
		S3AccessKey:     os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey:     os.Getenv("S3_SECRET_KEY"),
		S3BucketPublic:  envOrDefault("S3_BUCKET_PUBLIC", "ecardfactory-public"),
		S3BucketPrivate: envOrDefault("S3_BUCKET_PRIVATE", "ecardfactory-private"),
		S3PublicURL:     os.Getenv("S3_PUBLIC_URL"),

		CardFont: os.Getenv("CARD_FONT"),
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("TIMEZONE %q: %w", cfg.Timezone, err)
	}
	cfg.Location = loc

	if cfg.LLMProvider != "groq" && cfg.LLMProvider != "openai" {
		return nil, fmt.Errorf("LLM_PROVIDER must be groq or openai, got %q", cfg.LLMProvider)
	}

	if cfg.Env == "production" {
		if cfg.DBPassword == "changeme" {
			return nil, fmt.Errorf("POSTGRES_PASSWORD must be set in production")
		}
		if cfg.TelegramToken == "" || cfg.TelegramChatID == "" {
			return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN and TELEGRAM_CHAT_ID must be set in production")
		}
	}

	return cfg, nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName,
	)
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// S3Enabled reports whether object storage credentials are configured.
func (c *Config) S3Enabled() bool {
	return c.S3Endpoint != "" && c.S3AccessKey != "" && c.S3SecretKey != ""
}

// TelegramEnabled reports whether the approval bot can send messages.
func (c *Config) TelegramEnabled() bool {
	return c.TelegramToken != "" && c.TelegramChatID != ""
}

// envOrDefault reads an environment variable, returning a fallback if unset or empty.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
