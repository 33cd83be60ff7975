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

// ReactionCounts returns the all-time like, dislike, and view totals for an
// item, computed from the event ledger.
func (db *DB) ReactionCounts(ctx context.Context, itemID string) (likes, dislikes, views int64, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var opErr error
	defer metrics.ObserveQuery("reaction_counts", time.Now(), &opErr)

	err = db.conn.QueryRowContext(ctx, `
		SELECT
			COUNT(*) FILTER (WHERE kind = ?),
			COUNT(*) FILTER (WHERE kind = ?),
			COUNT(*) FILTER (WHERE kind = ?)
		FROM engagement_events
		WHERE item_id = ?`,
		string(models.KindLike), string(models.KindDislike), string(models.KindView),
		itemID,
	).Scan(&likes, &dislikes, &views)
	if err != nil {
		opErr = fmt.Errorf("failed to count reactions: %w", err)
		return 0, 0, 0, opErr
	}
	return likes, dislikes, views, nil
}

// ActorReaction returns the actor's current reaction kind on an item, or the
// empty string when none exists.
func (db *DB) ActorReaction(ctx context.Context, itemID, actorID string) (string, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var opErr error
	defer metrics.ObserveQuery("actor_reaction", time.Now(), &opErr)

	var kind string
	err := db.conn.QueryRowContext(ctx, `
		SELECT kind FROM engagement_events
		WHERE item_id = ? AND actor_id = ? AND kind IN (?, ?)
		LIMIT 1`,
		itemID, actorID, string(models.KindLike), string(models.KindDislike),
	).Scan(&kind)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		opErr = fmt.Errorf("failed to look up actor reaction: %w", err)
		return "", opErr
	}
	return kind, nil
}
