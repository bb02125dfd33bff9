// Harborview - Jellyfin Analytics Dashboard
// Copyright 2026 Harborview contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/harborview/harborview

// Package main is the entry point for the Harborview server.
//
// Harborview is a self-hosted analytics dashboard for Jellyfin media
// servers. It pulls users, sessions, activity-log entries, and library
// items from the Jellyfin HTTP API, folds them into persisted
// aggregates in DuckDB, and serves dashboard queries and a settings
// store over a REST API.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: environment variables and config file (Koanf v2)
//  2. Database: DuckDB with the aggregate schema
//  3. Settings: catalog-backed store with encrypted secrets
//  4. Source: Jellyfin adapter with circuit breaker and mock fallback
//  5. Sync Manager: the aggregation pipeline
//  6. HTTP Server: chi REST API, Prometheus metrics, static dashboard
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest
// priority wins): environment variables, config.yaml, built-in
// defaults. Jellyfin credentials normally live in the settings store;
// JELLYFIN_URL and JELLYFIN_API_KEY work as a bootstrap fallback.
//
// # Signal Handling
//
// The server handles graceful shutdown on SIGINT and SIGTERM: it stops
// accepting new connections, waits up to 10s for in-flight requests,
// then closes the database.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/harborview/harborview/internal/analytics"
	"github.com/harborview/harborview/internal/api"
	"github.com/harborview/harborview/internal/config"
	"github.com/harborview/harborview/internal/database"
	"github.com/harborview/harborview/internal/logging"
	"github.com/harborview/harborview/internal/settings"
	"github.com/harborview/harborview/internal/sync"
)

func main() {
	// Load configuration first to get logging settings
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().Msg("Starting Harborview")

	db, err := database.New(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Failed to close database")
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	settingsService, err := settings.NewService(db, cfg.Security.EncryptionKey)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize settings service")
	}
	if err := settingsService.Init(ctx); err != nil {
		logging.Fatal().Err(err).Msg("Failed to seed default settings")
	}

	source := sync.NewSource(settingsService, cfg.Jellyfin.URL, cfg.Jellyfin.APIKey)
	source.Reload(ctx)

	manager := sync.NewManager(db, source)
	analyticsService := analytics.NewService(db, source, manager)

	handler := api.NewHandler(analyticsService, settingsService, source, manager, cfg)
	router := api.NewRouter(handler)

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	go runBackgroundSync(ctx, manager, settingsService)

	go func() {
		logging.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error().Err(err).Msg("HTTP server error")
			cancel()
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
	case <-ctx.Done():
	}
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("HTTP server shutdown error")
	}

	logging.Info().Msg("Application stopped gracefully")
}

// runBackgroundSync runs the pipeline at the configured interval. The
// interval is re-read from settings every pass, so a changed
// jellyfin.syncInterval takes effect on the next tick.
func runBackgroundSync(ctx context.Context, manager *sync.Manager, settingsService *settings.Service) {
	for {
		interval := time.Duration(settings.DefaultSyncIntervalMS) * time.Millisecond
		if cfg, err := settingsService.JellyfinConfig(ctx); err == nil {
			interval = time.Duration(cfg.SyncIntervalMS) * time.Millisecond
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(interval):
		}

		if err := manager.Sync(ctx); err != nil {
			logging.Error().Err(err).Msg("Background sync failed")
		}
	}
}
