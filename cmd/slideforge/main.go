// Package main is the entry point for the SlideForge server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"slideforge/internal/ai"
	"slideforge/internal/cache"
	"slideforge/internal/config"
	"slideforge/internal/database"
	"slideforge/internal/editor"
	"slideforge/internal/export"
	"slideforge/internal/handlers"
	"slideforge/internal/middleware"
	"slideforge/internal/router"
	"slideforge/internal/session"
	"slideforge/internal/storage"
	"slideforge/internal/store"
)

func main() {
	// Structured logger — outputs JSON in production, text in development.
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
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

	// Seed development data (no-op if data already exists).
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
	}

	// Connect to Valkey (Redis-compatible cache + session store).
	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		slog.Error("failed to connect to valkey", "error", err)
		os.Exit(1)
	}
	defer valkeyClient.Close()

	// Initialize session store backed by Valkey.
	// In non-development environments, mark session cookies as Secure (HTTPS-only).
	secureCookies := !cfg.IsDev()
	sessionStore := session.NewStore(valkeyClient, secureCookies)

	// Initialize data stores.
	userStore := store.NewUserStore(db)
	presStore := store.NewPresentationStore(db)

	// Connect to S3-compatible object storage (optional — app works without it).
	storageClient, err := storage.New(
		cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey,
		cfg.S3Bucket, cfg.S3PublicURL,
	)
	if err != nil {
		slog.Error("failed to initialize S3 storage", "error", err)
		os.Exit(1)
	}
	if storageClient != nil {
		slog.Info("s3 storage connected", "endpoint", cfg.S3Endpoint, "bucket", cfg.S3Bucket)
	} else {
		slog.Warn("s3 storage not configured — asset uploads disabled")
	}

	// Initialize the AI provider registry with all configured providers.
	aiRegistry := ai.NewRegistry(cfg.AIProvider, map[string]ai.ProviderConfig{
		"openai":  {APIKey: cfg.OpenAI.APIKey, Model: cfg.OpenAI.Model, ModelImage: cfg.OpenAI.ModelImage, BaseURL: cfg.OpenAI.BaseURL},
		"gemini":  {APIKey: cfg.Gemini.APIKey, Model: cfg.Gemini.Model, ModelImage: cfg.Gemini.ModelImage, BaseURL: cfg.Gemini.BaseURL},
		"claude":  {APIKey: cfg.Claude.APIKey, Model: cfg.Claude.Model, BaseURL: cfg.Claude.BaseURL},
		"mistral": {APIKey: cfg.Mistral.APIKey, Model: cfg.Mistral.Model, BaseURL: cfg.Mistral.BaseURL},
	})

	slog.Info("ai providers initialized",
		"active", aiRegistry.ActiveName(),
		"available", aiRegistry.Available(),
	)

	// Stock photo search (optional) with a Valkey result cache.
	var searcher ai.ImageSearcher
	var imageCache *cache.ImageCache
	if cfg.PexelsAPIKey != "" {
		searcher = ai.NewImageSearcher(cfg.PexelsAPIKey, "")
		imageCache = cache.NewImageCache(valkeyClient, cache.DefaultImageTTL)
	} else {
		slog.Warn("pexels not configured — image search disabled")
	}

	// Editor session registry with idle eviction.
	editorRegistry := editor.NewRegistry(editor.DefaultSessionTTL)
	defer editorRegistry.Stop()

	// Rate limiter for the image acquisition endpoints.
	aiLimiter := middleware.NewRateLimiter(30, time.Minute)
	defer aiLimiter.Stop()

	// Create handler groups with their dependencies.
	authHandlers := handlers.NewAuth(sessionStore, userStore)
	presHandlers := handlers.NewPresentations(presStore, aiRegistry)
	editorHandlers := handlers.NewEditor(editorRegistry, presStore, aiRegistry, export.New())
	aiHandlers := handlers.NewAI(aiRegistry, searcher, imageCache)
	themeHandlers := handlers.NewThemes()
	assetHandlers := handlers.NewAssets(storageClient)
	userHandlers := handlers.NewUsers(userStore)

	// Set up the Chi router with all middleware and routes.
	r := router.New(sessionStore, authHandlers, presHandlers, editorHandlers, aiHandlers, themeHandlers, assetHandlers, userHandlers, aiLimiter)

	// Create the HTTP server with sensible timeouts.
	// WriteTimeout must accommodate AI endpoints that wait on LLM responses
	// (typically 10-30s, up to 60s for outline and image generation).
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
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

	// Give active requests up to 30 seconds to complete.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
