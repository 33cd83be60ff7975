// Oneirolog - Dream Journal Engagement and Trending Analytics
// Copyright 2026 Oneirolog Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/oneirolog/oneirolog

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/oneirolog/oneirolog/internal/metrics"
	"github.com/oneirolog/oneirolog/internal/models"
)

// DeleteExpiredViews removes view events older than the cutoff and returns
// the number of rows deleted. Reactions are never aged out; only views
// expire, which mirrors how the trending window treats old data.
func (db *DB) DeleteExpiredViews(ctx context.Context, cutoff time.Time) (int64, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var opErr error
	defer metrics.ObserveQuery("delete_expired_views", time.Now(), &opErr)

	res, err := db.conn.ExecContext(ctx, `
		DELETE FROM engagement_events WHERE kind = ? AND occurred_at < ?`,
		string(models.KindView), cutoff.UTC())
	if err != nil {
		opErr = fmt.Errorf("failed to delete expired views: %w", err)
		return 0, opErr
	}

	deleted, err := res.RowsAffected()
	if err != nil {
		opErr = fmt.Errorf("failed to read deleted row count: %w", err)
		return 0, opErr
	}
	return deleted, nil
}
