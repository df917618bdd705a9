// Copyright (c) 2026 Companedia
// SPDX-License-Identifier: GPL-3.0-or-later

// Command companedia serves the content API backing the review directory's
// browser widgets.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/companedia/companedia/internal/airtable"
	"github.com/companedia/companedia/internal/cache"
	"github.com/companedia/companedia/internal/config"
	"github.com/companedia/companedia/internal/handler/api"
	"github.com/companedia/companedia/internal/locale"
	"github.com/companedia/companedia/internal/middleware"
	"github.com/companedia/companedia/internal/scheduler"
	"github.com/companedia/companedia/internal/service"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "companedia - review directory content API\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  COMPANEDIA_AIRTABLE_TOKEN  Record store API token (required)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  COMPANEDIA_AIRTABLE_BASE   Record store base ID (required)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  COMPANEDIA_SERVER_PORT     Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  COMPANEDIA_ENV             Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  COMPANEDIA_REDIS_URL       Redis URL for distributed caching (optional)\n")
	}

	flag.Parse()

	if *showVersion {
		_, _ = fmt.Printf("companedia %s (commit: %s, built: %s)\n", appVersion, appGitCommit, appBuildTime)
		os.Exit(0)
	}

	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logLevel := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	if err := locale.Init(logger); err != nil {
		return fmt.Errorf("initializing locales: %w", err)
	}
	slog.Info("locales initialized", "locales", locale.SiteLocales)

	store, err := airtable.New(airtable.Options{
		Token:      cfg.AirtableToken,
		BaseID:     cfg.AirtableBaseID,
		WriteDelay: cfg.WriteDelay(),
		Logger:     logger,
	})
	if err != nil {
		return fmt.Errorf("creating store client: %w", err)
	}

	var responseCache cache.Cache
	if cfg.UseRedisCache() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		responseCache, err = cache.NewRedis(ctx, cache.RedisOptions{
			URL:        cfg.RedisURL,
			Prefix:     cfg.CachePrefix,
			DefaultTTL: cfg.CacheTTLDuration(),
		})
		cancel()
		if err != nil {
			return fmt.Errorf("connecting to redis: %w", err)
		}
		slog.Info("using redis cache")
	} else {
		responseCache = cache.NewMemory(cfg.CacheTTLDuration())
		slog.Info("using in-memory cache")
	}
	defer func() {
		if err := responseCache.Close(); err != nil {
			slog.Error("error closing cache", "error", err)
		}
	}()

	svc := service.New(store, service.Tables{
		Companions:   cfg.CompanionsTable,
		Translations: cfg.TranslationsTable,
		Articles:     cfg.ArticlesTable,
	}, logger)

	sched := scheduler.New(svc, responseCache, cfg.CacheTTLDuration(), logger)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("starting scheduler: %w", err)
	}
	defer sched.Stop()

	h := api.NewHandler(svc, responseCache, logger)
	writeLimit := middleware.NewRateLimiter(1, 5, logger)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.CORS)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/status", h.Status)
		r.Get("/companions", h.ListCompanions)
		r.Get("/deals", h.ListDeals)
		r.Get("/translations", h.ListTranslations)
		r.Get("/articles", h.ListArticles)

		r.Group(func(r chi.Router) {
			r.Use(writeLimit.Middleware())
			r.Post("/companions", h.CreateCompanion)
			r.Patch("/companions", h.UpdateCompanion)
		})
	})

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", cfg.ServerAddr(), "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	slog.Info("server stopped")
	return nil
}
