// Oneirolog - Dream Journal Engagement and Trending Analytics
// Copyright 2026 Oneirolog Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/oneirolog/oneirolog

package engagement

import (
	"sync"
	"time"

	"github.com/oneirolog/oneirolog/internal/metrics"
	"github.com/oneirolog/oneirolog/internal/models"
)

// trendingCache memoizes trending responses per parameter combination for a
// short TTL. The parameter space is tiny (bounded window and limit), so
// entries are only evicted by expiry on read.
type trendingCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[TrendingParams]trendingEntry
}

type trendingEntry struct {
	rows      []models.TrendingRow
	expiresAt time.Time
}

func newTrendingCache(ttl time.Duration) *trendingCache {
	return &trendingCache{
		ttl:     ttl,
		entries: make(map[TrendingParams]trendingEntry),
	}
}

func (c *trendingCache) get(params TrendingParams) ([]models.TrendingRow, bool) {
	if c.ttl <= 0 {
		return nil, false
	}

	c.mu.RLock()
	entry, ok := c.entries[params]
	c.mu.RUnlock()

	if !ok || time.Now().After(entry.expiresAt) {
		metrics.TrendingCacheMisses.Inc()
		return nil, false
	}
	metrics.TrendingCacheHits.Inc()
	return entry.rows, true
}

func (c *trendingCache) put(params TrendingParams, rows []models.TrendingRow) {
	if c.ttl <= 0 {
		return
	}

	c.mu.Lock()
	c.entries[params] = trendingEntry{rows: rows, expiresAt: time.Now().Add(c.ttl)}
	c.mu.Unlock()
}
