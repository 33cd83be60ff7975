// Oneirolog - Dream Journal Engagement and Trending Analytics
// Copyright 2026 Oneirolog Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/oneirolog/oneirolog

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/oneirolog/oneirolog/internal/metrics"
	"github.com/oneirolog/oneirolog/internal/models"
)

// Dream is the catalog row for a journaled dream. Engagement counters on the
// row are denormalized conveniences; the event ledger is authoritative.
type Dream struct {
	ID       string
	OwnerID  string
	Title    string
	Shared   bool
	SharedAt *time.Time
}

// UpsertDream inserts or replaces a dream catalog row, preserving the
// denormalized counters of an existing row.
func (db *DB) UpsertDream(ctx context.Context, d Dream) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var opErr error
	defer metrics.ObserveQuery("upsert_dream", time.Now(), &opErr)

	var sharedAt any
	if d.SharedAt != nil {
		sharedAt = d.SharedAt.UTC()
	}

	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO dreams (id, owner_id, title, is_shared, shared_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			owner_id = EXCLUDED.owner_id,
			title = EXCLUDED.title,
			is_shared = EXCLUDED.is_shared,
			shared_at = EXCLUDED.shared_at`,
		d.ID, d.OwnerID, d.Title, d.Shared, sharedAt)
	if err != nil {
		opErr = fmt.Errorf("failed to upsert dream %s: %w", d.ID, err)
		return opErr
	}
	return nil
}

// GetItem looks up a dream's access-relevant fields. A missing row comes
// back with Exists=false rather than an error, so callers can map it to
// their own not-found handling.
func (db *DB) GetItem(ctx context.Context, itemID string) (models.ContentItem, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var opErr error
	defer metrics.ObserveQuery("get_item", time.Now(), &opErr)

	item := models.ContentItem{ID: itemID}
	err := db.conn.QueryRowContext(ctx, `
		SELECT owner_id, title, is_shared FROM dreams WHERE id = ?`,
		itemID,
	).Scan(&item.OwnerID, &item.Title, &item.Shared)
	if errors.Is(err, sql.ErrNoRows) {
		return item, nil
	}
	if err != nil {
		opErr = fmt.Errorf("failed to look up dream %s: %w", itemID, err)
		return item, opErr
	}
	item.Exists = true
	return item, nil
}

// GetItems looks up many dreams at once, keyed by ID. IDs without a catalog
// row are absent from the map.
func (db *DB) GetItems(ctx context.Context, itemIDs []string) (map[string]models.ContentItem, error) {
	if len(itemIDs) == 0 {
		return map[string]models.ContentItem{}, nil
	}

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var opErr error
	defer metrics.ObserveQuery("get_items", time.Now(), &opErr)

	query := fmt.Sprintf(`
		SELECT id, owner_id, title, is_shared FROM dreams WHERE id IN (%s)`,
		placeholders(len(itemIDs)))

	args := make([]any, 0, len(itemIDs))
	for _, id := range itemIDs {
		args = append(args, id)
	}

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		opErr = fmt.Errorf("failed to look up dreams: %w", err)
		return nil, opErr
	}
	defer rows.Close()

	result := make(map[string]models.ContentItem, len(itemIDs))
	for rows.Next() {
		item := models.ContentItem{Exists: true}
		if err := rows.Scan(&item.ID, &item.OwnerID, &item.Title, &item.Shared); err != nil {
			opErr = fmt.Errorf("failed to scan dream row: %w", err)
			return nil, opErr
		}
		result[item.ID] = item
	}
	if err := rows.Err(); err != nil {
		opErr = fmt.Errorf("dream lookup iteration failed: %w", err)
		return nil, opErr
	}
	return result, nil
}

// AdjustCounters applies deltas to a dream's denormalized engagement
// counters, clamping at zero. Best-effort: callers log failures and move on,
// since the ledger remains the source of truth.
func (db *DB) AdjustCounters(ctx context.Context, itemID string, dViews, dLikes, dDislikes int64) error {
	if dViews == 0 && dLikes == 0 && dDislikes == 0 {
		return nil
	}

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var opErr error
	defer metrics.ObserveQuery("adjust_counters", time.Now(), &opErr)

	_, err := db.conn.ExecContext(ctx, `
		UPDATE dreams SET
			views_total = GREATEST(views_total + ?, 0),
			likes_count = GREATEST(likes_count + ?, 0),
			dislikes_count = GREATEST(dislikes_count + ?, 0)
		WHERE id = ?`,
		dViews, dLikes, dDislikes, itemID)
	if err != nil {
		opErr = fmt.Errorf("failed to adjust counters for %s: %w", itemID, err)
		return opErr
	}
	return nil
}
