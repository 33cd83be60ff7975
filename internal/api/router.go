// Oneirolog - Dream Journal Engagement and Trending Analytics
// Copyright 2026 Oneirolog Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/oneirolog/oneirolog

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/oneirolog/oneirolog/internal/auth"
	"github.com/oneirolog/oneirolog/internal/config"
	"github.com/oneirolog/oneirolog/internal/middleware"
)

// Router wires the handler into a chi mux with the shared middleware stack.
type Router struct {
	handler *Handler
	auth    *auth.Middleware
	cfg     *config.Config
}

// NewRouter creates the router. authMW carries a nil JWT manager when
// auth_mode is none, which leaves every caller anonymous.
func NewRouter(handler *Handler, authMW *auth.Middleware, cfg *config.Config) *Router {
	return &Router{handler: handler, auth: authMW, cfg: cfg}
}

// rateLimit builds the IP-keyed limiter, or a no-op when disabled.
func (router *Router) rateLimit() func(http.Handler) http.Handler {
	if router.cfg.Security.RateLimitDisabled {
		return func(next http.Handler) http.Handler { return next }
	}
	return httprate.Limit(
		router.cfg.Security.RateLimitReqs,
		router.cfg.Security.RateLimitWindow,
		httprate.WithKeyFuncs(httprate.KeyByRealIP),
	)
}

// Setup configures all HTTP routes.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to every route in order. The browser client
	// calls this API cross-origin, so CORS sits ahead of everything else.
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   router.cfg.Security.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Health endpoints skip rate limiting so monitoring never gets throttled.
	r.Route("/api/v1/health", func(r chi.Router) {
		r.Get("/", router.handler.Health)
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
	})

	r.Route("/api/v1/dreams", func(r chi.Router) {
		r.Use(router.rateLimit())
		r.Use(middleware.Prometheus)
		r.Use(router.auth.Optional)

		// Static segment registered alongside the parameter route; chi
		// matches "popular" before the {dreamID} wildcard.
		r.Get("/popular", router.handler.Popular)
		r.Post("/{dreamID}/activity", router.handler.RecordActivity)
		r.Get("/{dreamID}/reactions", router.handler.Reactions)
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
