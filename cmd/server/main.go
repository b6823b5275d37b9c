// Fieldtrace - Location Telemetry Ingestion and Presence Service
// Copyright 2026 The Fieldtrace Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fieldtrace/fieldtrace

// Package main is the entry point for the Fieldtrace server.
//
// Fieldtrace is a small location-telemetry service for field workforces:
// mobile clients periodically report their position, the server keeps the
// last-known position per user, and dashboards read the aggregate. Each
// client polls for its effective reporting interval, resolved through a
// user > team > global override chain.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: Koanf v2 layered load (defaults, config file, env)
//  2. Store: file, badger, or memory backend for the persisted document
//  3. Telemetry service: loads the document, owns all state mutations
//  4. Access guard: shared API key gate for mutating endpoints
//  5. Backup manager: on-demand and optional scheduled snapshots
//  6. HTTP server: Chi-routed REST API under a suture supervision tree
//
// # Configuration
//
// Everything is configurable through environment variables or an optional
// config.yaml; see internal/config. The common knobs:
//
//	export PORT=3000            # listen port
//	export DATA_FILE=data.json  # document location (file backend)
//	export STORE_BACKEND=file   # file | badger | memory
//	export API_KEY=secret       # overrides the persisted key
//	export BACKUP_DIR=backups
//	export BACKUP_INTERVAL=6h   # enables scheduled backups
//	export LOG_LEVEL=info
//
// # Signal Handling
//
// SIGINT and SIGTERM trigger a graceful shutdown: the HTTP server stops
// accepting connections, in-flight requests get 10 seconds to finish,
// then the store is closed.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fieldtrace/fieldtrace/internal/api"
	"github.com/fieldtrace/fieldtrace/internal/auth"
	"github.com/fieldtrace/fieldtrace/internal/backup"
	"github.com/fieldtrace/fieldtrace/internal/config"
	"github.com/fieldtrace/fieldtrace/internal/logging"
	"github.com/fieldtrace/fieldtrace/internal/store"
	"github.com/fieldtrace/fieldtrace/internal/supervisor"
	"github.com/fieldtrace/fieldtrace/internal/supervisor/services"
	"github.com/fieldtrace/fieldtrace/internal/telemetry"
)

func main() {
	// Load configuration first to get logging settings.
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("store_backend", cfg.Store.Backend).
		Str("store_path", cfg.Store.Path).
		Str("backup_dir", cfg.Backup.Dir).
		Bool("api_key_override", cfg.Security.APIKey != "").
		Msg("Configuration loaded")

	st, err := store.New(cfg.Store.Backend, cfg.Store.Path)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize store")
	}
	defer func() {
		if err := st.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing store")
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	svc := telemetry.NewService(ctx, st, cfg.Security.APIKey)
	guard := auth.NewGuard(svc)
	backups := backup.NewManager(cfg.Backup.Dir, cfg.Backup.MaxCount, svc)

	handler := api.NewHandler(svc, backups)
	router := api.NewRouter(handler, guard, api.NewChiMiddleware(&api.ChiMiddlewareConfig{
		CORSAllowedOrigins: cfg.Security.CORSOrigins,
		RateLimitRequests:  cfg.Security.RateLimitReqs,
		RateLimitWindow:    cfg.Security.RateLimitWindow,
		RateLimitDisabled:  cfg.Security.RateLimitDisabled,
	}))

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	// Bridge zerolog to slog for sutureslog.
	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())

	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	if cfg.Backup.Interval > 0 {
		tree.AddBackgroundService(services.NewBackupSchedulerService(backups, cfg.Backup.Interval))
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree")
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("Supervisor tree error")
	}

	logging.Info().Msg("Application stopped gracefully")
}
