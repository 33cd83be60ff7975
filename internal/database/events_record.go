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
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/oneirolog/oneirolog/internal/metrics"
	"github.com/oneirolog/oneirolog/internal/models"
)

// InsertViewOnce records a view event unless an identical one already exists
// for the same (item, identity, UTC day). Returns true when a new row was
// written. Safe under concurrency: duplicate attempts collapse on the
// table's UNIQUE constraint instead of racing a prior existence check.
func (db *DB) InsertViewOnce(ctx context.Context, ev models.EngagementEvent) (bool, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var opErr error
	defer metrics.ObserveQuery("insert_view", time.Now(), &opErr)

	res, err := db.conn.ExecContext(ctx, `
		INSERT INTO engagement_events (id, item_id, actor_id, identity, kind, day_bucket, occurred_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (item_id, identity, day_bucket, kind) DO NOTHING`,
		uuid.NewString(), ev.ItemID, nullableString(ev.ActorID), ev.Identity,
		string(models.KindView), ev.DayBucket, ev.OccurredAt.UTC())
	if err != nil {
		opErr = fmt.Errorf("failed to insert view event: %w", err)
		return false, opErr
	}

	affected, err := res.RowsAffected()
	if err != nil {
		opErr = fmt.Errorf("failed to read affected rows: %w", err)
		return false, opErr
	}
	return affected > 0, nil
}

// ApplyReaction toggles the actor's reaction on an item inside a transaction
// and reports what changed:
//
//   - no prior reaction            -> the new kind is inserted (ActionCreated)
//   - same kind already present    -> the row is deleted (ActionRemoved)
//   - opposite kind present        -> the row is flipped (ActionSwitched)
//
// At most one like-or-dislike row per (item, actor) survives any outcome.
func (db *DB) ApplyReaction(ctx context.Context, itemID, actorID string, kind models.ActivityKind, dayBucket string, now time.Time) (models.ReactionAction, error) {
	if !kind.IsReaction() {
		return "", fmt.Errorf("kind %q is not a reaction", kind)
	}

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	mu := db.acquireReactionLock(itemID + "\x00" + actorID)
	defer mu.Unlock()

	var opErr error
	defer metrics.ObserveQuery("apply_reaction", time.Now(), &opErr)

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		opErr = fmt.Errorf("failed to begin reaction transaction: %w", err)
		return "", opErr
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var existingID, existingKind string
	err = tx.QueryRowContext(ctx, `
		SELECT id, kind FROM engagement_events
		WHERE item_id = ? AND actor_id = ? AND kind IN (?, ?)`,
		itemID, actorID, string(models.KindLike), string(models.KindDislike),
	).Scan(&existingID, &existingKind)

	var action models.ReactionAction
	switch {
	case errors.Is(err, sql.ErrNoRows):
		_, err = tx.ExecContext(ctx, `
			INSERT INTO engagement_events (id, item_id, actor_id, identity, kind, day_bucket, occurred_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			uuid.NewString(), itemID, actorID, actorID, string(kind), dayBucket, now.UTC())
		action = models.ActionCreated

	case err != nil:
		opErr = fmt.Errorf("failed to look up existing reaction: %w", err)
		return "", opErr

	case existingKind == string(kind):
		_, err = tx.ExecContext(ctx, `DELETE FROM engagement_events WHERE id = ?`, existingID)
		action = models.ActionRemoved

	default:
		_, err = tx.ExecContext(ctx, `
			UPDATE engagement_events SET kind = ?, day_bucket = ?, occurred_at = ?
			WHERE id = ?`,
			string(kind), dayBucket, now.UTC(), existingID)
		action = models.ActionSwitched
	}
	if err != nil {
		opErr = fmt.Errorf("failed to apply reaction %q: %w", action, err)
		return "", opErr
	}

	if err = tx.Commit(); err != nil {
		opErr = fmt.Errorf("failed to commit reaction: %w", err)
		return "", opErr
	}
	return action, nil
}

// acquireReactionLock acquires the per-(item, actor) mutex.
func (db *DB) acquireReactionLock(key string) *sync.Mutex {
	muInterface, _ := db.reactionLocks.LoadOrStore(key, &sync.Mutex{})
	mu, ok := muInterface.(*sync.Mutex)
	if !ok {
		mu = &sync.Mutex{}
		db.reactionLocks.Store(key, mu)
	}
	mu.Lock()
	return mu
}

// nullableString maps an optional string to a driver-level NULL.
func nullableString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
