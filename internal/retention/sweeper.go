// Oneirolog - Dream Journal Engagement and Trending Analytics
// Copyright 2026 Oneirolog Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/oneirolog/oneirolog

// Package retention ages out old view events on a fixed interval. Reactions
// are kept forever; only views expire.
package retention

import (
	"context"
	"time"

	"github.com/oneirolog/oneirolog/internal/config"
	"github.com/oneirolog/oneirolog/internal/logging"
	"github.com/oneirolog/oneirolog/internal/metrics"
)

// ViewDeleter is the storage dependency; *database.DB satisfies it.
type ViewDeleter interface {
	DeleteExpiredViews(ctx context.Context, cutoff time.Time) (int64, error)
}

// Sweeper periodically deletes view events older than the configured
// maximum age. It implements suture.Service and runs one sweep immediately
// on start so a long interval cannot postpone the first cleanup.
type Sweeper struct {
	store    ViewDeleter
	maxAge   time.Duration
	interval time.Duration
}

// NewSweeper builds a sweeper from the retention configuration. Returns nil
// when retention is disabled (max_age_days 0).
func NewSweeper(store ViewDeleter, cfg *config.RetentionConfig) *Sweeper {
	if cfg.MaxAgeDays <= 0 {
		return nil
	}
	return &Sweeper{
		store:    store,
		maxAge:   time.Duration(cfg.MaxAgeDays) * 24 * time.Hour,
		interval: cfg.Interval,
	}
}

// Serve implements suture.Service.
func (s *Sweeper) Serve(ctx context.Context) error {
	s.sweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	cutoff := time.Now().UTC().Add(-s.maxAge)

	deleted, err := s.store.DeleteExpiredViews(ctx, cutoff)
	if err != nil {
		if ctx.Err() == nil {
			logging.Error().Err(err).Msg("Retention sweep failed")
		}
		return
	}

	metrics.RetentionDeletedRows.Add(float64(deleted))
	if deleted > 0 {
		logging.Info().Int64("deleted", deleted).Time("cutoff", cutoff).
			Msg("Retention sweep removed expired views")
	}
}

// String implements fmt.Stringer for supervisor logging.
func (s *Sweeper) String() string {
	return "retention-sweeper"
}
