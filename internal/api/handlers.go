// Oneirolog - Dream Journal Engagement and Trending Analytics
// Copyright 2026 Oneirolog Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/oneirolog/oneirolog

// Package api provides the HTTP surface of the engagement service: activity
// recording, per-dream reaction state, and the trending ranking, all wrapped
// in the standard response envelope.
package api

import (
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/oneirolog/oneirolog/internal/auth"
	"github.com/oneirolog/oneirolog/internal/config"
	"github.com/oneirolog/oneirolog/internal/engagement"
	"github.com/oneirolog/oneirolog/internal/models"
)

// maxActivityBodyBytes bounds the activity request body; the payload is a
// single small JSON object.
const maxActivityBodyBytes = 1 << 10

// Handler serves the engagement endpoints.
type Handler struct {
	svc *engagement.Service
	cfg *config.Config
	db  Pinger
}

// NewHandler creates the API handler. db may be nil in tests that do not
// exercise readiness.
func NewHandler(svc *engagement.Service, cfg *config.Config, db Pinger) *Handler {
	return &Handler{svc: svc, cfg: cfg, db: db}
}

// actorFromRequest assembles the engagement actor from the authenticated
// identity (if any) and the client address left by the RealIP middleware.
func actorFromRequest(r *http.Request) engagement.Actor {
	actor := engagement.Actor{}
	if id := auth.IdentityFromContext(r.Context()); id != nil {
		actor.UserID = id.UserID
		actor.Admin = id.IsAdmin()
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	actor.IP = host
	return actor
}

// respondEngagementError maps service sentinels onto HTTP statuses.
func respondEngagementError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, engagement.ErrNotFound):
		respondError(w, http.StatusNotFound, "NOT_FOUND", "Dream not found", nil)
	case errors.Is(err, engagement.ErrForbidden):
		respondError(w, http.StatusForbidden, "FORBIDDEN", "Dream is not accessible", nil)
	case errors.Is(err, engagement.ErrAuthRequired):
		respondError(w, http.StatusUnauthorized, "AUTH_REQUIRED", "Authentication required for reactions", nil)
	default:
		respondError(w, http.StatusInternalServerError, "STORAGE_ERROR", "Failed to process engagement", err)
	}
}

// activityRequest is the body of POST /dreams/{id}/activity.
type activityRequest struct {
	Type string `json:"type" validate:"required,oneof=view like dislike"`
}

// RecordActivity handles POST /api/v1/dreams/{dreamID}/activity.
func (h *Handler) RecordActivity(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	dreamID := chi.URLParam(r, "dreamID")

	r.Body = http.MaxBytesReader(w, r.Body, maxActivityBodyBytes)
	var req activityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Request body must be JSON with a type field", nil)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondJSON(w, http.StatusBadRequest, &models.APIResponse{
			Status:   "error",
			Metadata: models.Metadata{Timestamp: time.Now()},
			Error:    apiErr,
		})
		return
	}

	result, err := h.svc.Record(r.Context(), dreamID, actorFromRequest(r), models.ActivityKind(req.Type))
	if err != nil {
		respondEngagementError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   result,
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: time.Since(start).Milliseconds(),
		},
	})
}

// Reactions handles GET /api/v1/dreams/{dreamID}/reactions.
func (h *Handler) Reactions(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	dreamID := chi.URLParam(r, "dreamID")

	state, err := h.svc.ReactionState(r.Context(), dreamID, actorFromRequest(r))
	if err != nil {
		respondEngagementError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   state,
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: time.Since(start).Milliseconds(),
		},
	})
}

// popularRequest carries the validated trending query parameters.
type popularRequest struct {
	WindowDays int `validate:"min=0,max=36500"`
	Limit      int `validate:"min=1,max=50"`
}

// Popular handles GET /api/v1/dreams/popular.
//
// Query parameters: window_days (0 = all-time), limit, series.
func (h *Handler) Popular(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	req := popularRequest{
		WindowDays: getIntParam(r, "window_days", h.cfg.API.DefaultWindowDays),
		Limit:      getIntParam(r, "limit", h.cfg.API.DefaultTrendingLimit),
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondJSON(w, http.StatusBadRequest, &models.APIResponse{
			Status:   "error",
			Metadata: models.Metadata{Timestamp: time.Now()},
			Error:    apiErr,
		})
		return
	}

	rows, cached, err := h.svc.Trending(r.Context(), engagement.TrendingParams{
		WindowDays: req.WindowDays,
		Limit:      req.Limit,
		Series:     getBoolParam(r, "series"),
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "STORAGE_ERROR", "Failed to compute trending", err)
		return
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   rows,
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: time.Since(start).Milliseconds(),
			Cached:      cached,
		},
	})
}
