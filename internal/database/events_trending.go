// Oneirolog - Dream Journal Engagement and Trending Analytics
// Copyright 2026 Oneirolog Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/oneirolog/oneirolog

package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/oneirolog/oneirolog/internal/metrics"
	"github.com/oneirolog/oneirolog/internal/models"
)

// Window bounds an aggregate query to [From, To). Nil bounds mean all-time.
type Window struct {
	From *time.Time
	To   *time.Time
}

// buildWindowClause appends occurred_at bounds to a WHERE fragment. Bounds
// are half-open: From inclusive, To exclusive.
func buildWindowClause(w Window) (string, []any) {
	var sb strings.Builder
	var args []any
	if w.From != nil {
		sb.WriteString(" AND occurred_at >= ?")
		args = append(args, w.From.UTC())
	}
	if w.To != nil {
		sb.WriteString(" AND occurred_at < ?")
		args = append(args, w.To.UTC())
	}
	return sb.String(), args
}

// TopItems returns the highest-scoring items in the window, ordered by score
// descending with item ID ascending as the deterministic tie-break. Score is
// views + likeWeight*likes; dislikes never contribute.
func (db *DB) TopItems(ctx context.Context, w Window, likeWeight, limit int) ([]models.ItemAggregate, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var opErr error
	defer metrics.ObserveQuery("top_items", time.Now(), &opErr)

	windowClause, windowArgs := buildWindowClause(w)

	query := fmt.Sprintf(`
		SELECT item_id, views, likes, views + ? * likes AS score
		FROM (
			SELECT item_id,
				COUNT(*) FILTER (WHERE kind = ?) AS views,
				COUNT(*) FILTER (WHERE kind = ?) AS likes
			FROM engagement_events
			WHERE kind IN (?, ?)%s
			GROUP BY item_id
		)
		ORDER BY score DESC, item_id ASC
		LIMIT ?`, windowClause)

	args := []any{likeWeight,
		string(models.KindView), string(models.KindLike),
		string(models.KindView), string(models.KindLike)}
	args = append(args, windowArgs...)
	args = append(args, limit)

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		opErr = fmt.Errorf("failed to query top items: %w", err)
		return nil, opErr
	}
	defer rows.Close()

	var items []models.ItemAggregate
	for rows.Next() {
		var agg models.ItemAggregate
		if err := rows.Scan(&agg.ItemID, &agg.Views, &agg.Likes, &agg.Score); err != nil {
			opErr = fmt.Errorf("failed to scan top item row: %w", err)
			return nil, opErr
		}
		items = append(items, agg)
	}
	if err := rows.Err(); err != nil {
		opErr = fmt.Errorf("top items iteration failed: %w", err)
		return nil, opErr
	}
	return items, nil
}

// AggregatesFor returns per-item view/like totals for the given items within
// the window. Items with no events in the window are absent from the map.
func (db *DB) AggregatesFor(ctx context.Context, itemIDs []string, w Window, likeWeight int) (map[string]models.ItemAggregate, error) {
	if len(itemIDs) == 0 {
		return map[string]models.ItemAggregate{}, nil
	}

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var opErr error
	defer metrics.ObserveQuery("aggregates_for", time.Now(), &opErr)

	windowClause, windowArgs := buildWindowClause(w)

	query := fmt.Sprintf(`
		SELECT item_id,
			COUNT(*) FILTER (WHERE kind = ?) AS views,
			COUNT(*) FILTER (WHERE kind = ?) AS likes
		FROM engagement_events
		WHERE kind IN (?, ?) AND item_id IN (%s)%s
		GROUP BY item_id`,
		placeholders(len(itemIDs)), windowClause)

	args := []any{
		string(models.KindView), string(models.KindLike),
		string(models.KindView), string(models.KindLike)}
	for _, id := range itemIDs {
		args = append(args, id)
	}
	args = append(args, windowArgs...)

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		opErr = fmt.Errorf("failed to query aggregates: %w", err)
		return nil, opErr
	}
	defer rows.Close()

	result := make(map[string]models.ItemAggregate, len(itemIDs))
	for rows.Next() {
		var agg models.ItemAggregate
		if err := rows.Scan(&agg.ItemID, &agg.Views, &agg.Likes); err != nil {
			opErr = fmt.Errorf("failed to scan aggregate row: %w", err)
			return nil, opErr
		}
		agg.Score = agg.Views + likeWeight*agg.Likes
		result[agg.ItemID] = agg
	}
	if err := rows.Err(); err != nil {
		opErr = fmt.Errorf("aggregates iteration failed: %w", err)
		return nil, opErr
	}
	return result, nil
}

// DailySeries returns per-day view/like counts for the given items within
// the window, keyed by item ID and ordered by day ascending. Days with no
// events are omitted.
func (db *DB) DailySeries(ctx context.Context, itemIDs []string, w Window, likeWeight int) (map[string][]models.SeriesPoint, error) {
	if len(itemIDs) == 0 {
		return map[string][]models.SeriesPoint{}, nil
	}

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var opErr error
	defer metrics.ObserveQuery("daily_series", time.Now(), &opErr)

	windowClause, windowArgs := buildWindowClause(w)

	query := fmt.Sprintf(`
		SELECT item_id, day_bucket,
			COUNT(*) FILTER (WHERE kind = ?) AS views,
			COUNT(*) FILTER (WHERE kind = ?) AS likes
		FROM engagement_events
		WHERE kind IN (?, ?) AND item_id IN (%s)%s
		GROUP BY item_id, day_bucket
		ORDER BY item_id ASC, day_bucket ASC`,
		placeholders(len(itemIDs)), windowClause)

	args := []any{
		string(models.KindView), string(models.KindLike),
		string(models.KindView), string(models.KindLike)}
	for _, id := range itemIDs {
		args = append(args, id)
	}
	args = append(args, windowArgs...)

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		opErr = fmt.Errorf("failed to query daily series: %w", err)
		return nil, opErr
	}
	defer rows.Close()

	result := make(map[string][]models.SeriesPoint, len(itemIDs))
	for rows.Next() {
		var itemID string
		var point models.SeriesPoint
		if err := rows.Scan(&itemID, &point.Day, &point.Views, &point.Likes); err != nil {
			opErr = fmt.Errorf("failed to scan series row: %w", err)
			return nil, opErr
		}
		point.Score = point.Views + likeWeight*point.Likes
		result[itemID] = append(result[itemID], point)
	}
	if err := rows.Err(); err != nil {
		opErr = fmt.Errorf("daily series iteration failed: %w", err)
		return nil, opErr
	}
	return result, nil
}

// placeholders builds a "?, ?, ..." list of the given length for IN clauses.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
