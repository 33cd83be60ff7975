// Oneirolog - Dream Journal Engagement and Trending Analytics
// Copyright 2026 Oneirolog Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/oneirolog/oneirolog

// Package main is the entry point for the Oneirolog engagement server.
//
// Oneirolog records view, like, and dislike events against journaled dreams
// and serves the trending ranking computed from them. Views are idempotent
// per identity per UTC day; likes and dislikes form an exclusive toggling
// pair per user.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: Koanf v2 layered sources (defaults, YAML, environment)
//  2. Database: embedded DuckDB holding the event ledger and dream catalog
//  3. Authentication: optional JWT bearer validation (AUTH_MODE=jwt|none)
//  4. Engagement service: access rules, scoring, trending cache
//  5. Supervisor tree: HTTP server and retention sweeper under suture
//
// # Configuration
//
// Key environment variables:
//   - HTTP_PORT: listen port (default 8480)
//   - DUCKDB_PATH: database file path (":memory:" for ephemeral)
//   - AUTH_MODE: "jwt" (default) or "none" for development
//   - JWT_SECRET: 32+ character secret, required when AUTH_MODE=jwt
//   - LIKE_WEIGHT: score contribution per like (default 3)
//   - RETENTION_MAX_AGE_DAYS: view event lifetime (default 90, 0 disables)
//   - SEED_DEMO_DATA: insert demo dreams and events on startup
//
// # Signal Handling
//
// SIGINT and SIGTERM trigger graceful shutdown: the HTTP server drains
// in-flight requests, the retention sweeper stops, and the database is
// checkpointed on close.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/oneirolog/oneirolog/internal/api"
	"github.com/oneirolog/oneirolog/internal/auth"
	"github.com/oneirolog/oneirolog/internal/config"
	"github.com/oneirolog/oneirolog/internal/database"
	"github.com/oneirolog/oneirolog/internal/engagement"
	"github.com/oneirolog/oneirolog/internal/logging"
	"github.com/oneirolog/oneirolog/internal/retention"
	"github.com/oneirolog/oneirolog/internal/supervisor"
	"github.com/oneirolog/oneirolog/internal/supervisor/services"
)

func main() {
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
		Str("db_path", cfg.Database.Path).
		Str("auth_mode", cfg.Security.AuthMode).
		Int("like_weight", cfg.Engagement.LikeWeight).
		Msg("Configuration loaded")

	db, err := database.New(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()
	logging.Info().Msg("Database initialized")

	if cfg.Database.SeedDemo {
		if err := db.SeedDemo(context.Background()); err != nil {
			logging.Error().Err(err).Msg("Failed to seed demo data")
			return
		}
	}

	// JWT manager is nil in auth_mode=none; the middleware then treats
	// every caller as anonymous.
	var jwtMgr *auth.JWTManager
	if cfg.Security.AuthMode == "jwt" {
		jwtMgr, err = auth.NewJWTManager(&cfg.Security)
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to initialize JWT manager")
		}
		logging.Info().Msg("JWT authentication enabled")
	} else {
		logging.Warn().Msg("Running without authentication (AUTH_MODE=none)")
	}

	svc := engagement.New(db, db, cfg)
	handler := api.NewHandler(svc, cfg, db)
	router := api.NewRouter(handler, auth.NewMiddleware(jwtMgr), cfg)

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router.Setup(),
		ReadHeaderTimeout: cfg.Server.Timeout,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
	}

	treeCfg := supervisor.DefaultTreeConfig()
	tree := supervisor.NewTree(logging.NewSlogLogger(), treeCfg)
	tree.AddAPIService(services.NewHTTPServerService(server, treeCfg.ShutdownTimeout))

	if sweeper := retention.NewSweeper(db, &cfg.Retention); sweeper != nil {
		tree.AddMaintenanceService(sweeper)
		logging.Info().
			Int("max_age_days", cfg.Retention.MaxAgeDays).
			Dur("interval", cfg.Retention.Interval).
			Msg("Retention sweeper enabled")
	} else {
		logging.Info().Msg("Retention disabled (RETENTION_MAX_AGE_DAYS=0)")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Str("addr", server.Addr).Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("Application stopped gracefully")
}
