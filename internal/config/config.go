// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package config handles application configuration loading from environment
// variables. It provides a centralized Config struct used across the application.
package config

import (
	"fmt"
	"os"
)

// AIProviderConfig holds per-provider credentials and model selection.
type AIProviderConfig struct {
	APIKey     string
	Model      string
	ModelImage string
	BaseURL    string
}

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host string
	Port string
	Env  string // "development", "production", "testing"

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

	// AI provider settings. AIProvider names the active one.
	AIProvider string // "openai", "gemini", "claude", "mistral"
	OpenAI     AIProviderConfig
	Gemini     AIProviderConfig
	Claude     AIProviderConfig
	Mistral    AIProviderConfig

	// Stock photo search for slide backgrounds.
	PexelsAPIKey string

	// S3-compatible object storage for uploaded assets (logos, images).
	S3Endpoint  string
	S3Region    string
	S3AccessKey string
	S3SecretKey string
	S3Bucket    string
	S3PublicURL string
}

// Load reads configuration from environment variables, applying defaults
// for development where appropriate. Returns an error if critical values
// are missing in production mode.
func Load() (*Config, error) {
	cfg := &Config{
		Host: envOrDefault("APP_HOST", "0.0.0.0"),
		Port: envOrDefault("APP_PORT", "8080"),
		Env:  envOrDefault("APP_ENV", "development"),

		DBHost:     envOrDefault("POSTGRES_HOST", "localhost"),
		DBPort:     envOrDefault("POSTGRES_PORT", "5432"),
		DBUser:     envOrDefault("POSTGRES_USER", "slideforge"),
		DBPassword: envOrDefault("POSTGRES_PASSWORD", "changeme"),
		DBName:     envOrDefault("POSTGRES_DB", "slideforge"),

		ValkeyHost:     envOrDefault("VALKEY_HOST", "localhost"),
		ValkeyPort:     envOrDefault("VALKEY_PORT", "6379"),
		ValkeyPassword: os.Getenv("VALKEY_PASSWORD"),

		AIProvider: envOrDefault("AI_PROVIDER", "openai"),
		OpenAI: AIProviderConfig{
			APIKey:     os.Getenv("OPENAI_API_KEY"),
			Model:      envOrDefault("OPENAI_MODEL", "gpt-4o"),
			ModelImage: envOrDefault("OPENAI_MODEL_IMAGE", "dall-e-3"),
			BaseURL:    os.Getenv("OPENAI_BASE_URL"),
		},
		Gemini: AIProviderConfig{
			APIKey:     os.Getenv("GEMINI_API_KEY"),
			Model:      envOrDefault("GEMINI_MODEL", "gemini-2.5-flash"),
			ModelImage: envOrDefault("GEMINI_MODEL_IMAGE", "gemini-2.5-flash-image"),
			BaseURL:    os.Getenv("GEMINI_BASE_URL"),
		},
		Claude: AIProviderConfig{
			APIKey:  os.Getenv("CLAUDE_API_KEY"),
			Model:   envOrDefault("CLAUDE_MODEL", "claude-sonnet-4-6"),
			BaseURL: os.Getenv("CLAUDE_BASE_URL"),
		},
		Mistral: AIProviderConfig{
			APIKey:  os.Getenv("MISTRAL_API_KEY"),
			Model:   envOrDefault("MISTRAL_MODEL", "mistral-large-latest"),
			BaseURL: os.Getenv("MISTRAL_BASE_URL"),
		},

		PexelsAPIKey: os.Getenv("PEXELS_API_KEY"),

		S3Endpoint:  os.Getenv("S3_ENDPOINT"),
		S3Region:    envOrDefault("S3_REGION", "us-east-1"),
		S3AccessKey: os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey: os.Getenv("S3_SECRET_KEY"),
		S3Bucket:    envOrDefault("S3_BUCKET", "slideforge-assets"),
		S3PublicURL: os.Getenv("S3_PUBLIC_URL"),
	}

	if cfg.Env == "production" {
		if cfg.DBPassword == "changeme" {
			return nil, fmt.Errorf("POSTGRES_PASSWORD must be set in production")
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

// envOrDefault reads an environment variable, returning a fallback if unset or empty.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
