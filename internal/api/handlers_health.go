// Oneirolog - Dream Journal Engagement and Trending Analytics
// Copyright 2026 Oneirolog Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/oneirolog/oneirolog

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/oneirolog/oneirolog/internal/models"
)

// Pinger reports storage liveness; *database.DB satisfies it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthLive handles GET /api/v1/health/live. Always 200 while the process
// responds; no dependencies are checked.
func (h *Handler) HealthLive(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status:   "success",
		Data:     map[string]string{"status": "alive"},
		Metadata: models.Metadata{Timestamp: time.Now()},
	})
}

// HealthReady handles GET /api/v1/health/ready. Ready means the event store
// answers a ping.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()
		if err := h.db.Ping(ctx); err != nil {
			respondError(w, http.StatusServiceUnavailable, "STORAGE_ERROR", "Event store is not reachable", err)
			return
		}
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status:   "success",
		Data:     map[string]string{"status": "ready"},
		Metadata: models.Metadata{Timestamp: time.Now()},
	})
}

// Health handles GET /api/v1/health with a combined summary.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	storage := "up"
	status := http.StatusOK
	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()
		if err := h.db.Ping(ctx); err != nil {
			storage = "down"
			status = http.StatusServiceUnavailable
		}
	}

	respondJSON(w, status, &models.APIResponse{
		Status: "success",
		Data: map[string]string{
			"service": "oneirolog",
			"storage": storage,
		},
		Metadata: models.Metadata{Timestamp: time.Now()},
	})
}
