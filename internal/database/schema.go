// Oneirolog - Dream Journal Engagement and Trending Analytics
// Copyright 2026 Oneirolog Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/oneirolog/oneirolog

package database

import "fmt"

// createTables creates the engagement event ledger and the dreams catalog.
//
// The UNIQUE constraint on engagement_events is load-bearing: view
// idempotency is implemented as INSERT ... ON CONFLICT against it, one row
// per (item, identity, UTC day, kind).
func (db *DB) createTables() error {
	schemas := []string{
		`CREATE TABLE IF NOT EXISTS dreams (
			id TEXT PRIMARY KEY,
			owner_id TEXT NOT NULL,
			title TEXT NOT NULL DEFAULT '',
			is_shared BOOLEAN NOT NULL DEFAULT FALSE,
			shared_at TIMESTAMP,
			views_total BIGINT NOT NULL DEFAULT 0,
			likes_count BIGINT NOT NULL DEFAULT 0,
			dislikes_count BIGINT NOT NULL DEFAULT 0,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS engagement_events (
			id UUID PRIMARY KEY,
			item_id TEXT NOT NULL,
			actor_id TEXT,
			identity TEXT NOT NULL,
			kind TEXT NOT NULL,
			day_bucket TEXT NOT NULL,
			occurred_at TIMESTAMP NOT NULL,
			UNIQUE (item_id, identity, day_bucket, kind)
		)`,
	}

	for _, schema := range schemas {
		if _, err := db.conn.Exec(schema); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}
	return nil
}

func (db *DB) createIndexes() error {
	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_events_item ON engagement_events(item_id)`,
		`CREATE INDEX IF NOT EXISTS idx_events_occurred ON engagement_events(kind, occurred_at)`,
		`CREATE INDEX IF NOT EXISTS idx_events_actor ON engagement_events(item_id, actor_id)`,
	}

	for _, index := range indexes {
		if _, err := db.conn.Exec(index); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}
	return nil
}
