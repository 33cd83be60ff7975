// Oneirolog - Dream Journal Engagement and Trending Analytics
// Copyright 2026 Oneirolog Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/oneirolog/oneirolog

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/oneirolog/oneirolog/internal/logging"
	"github.com/oneirolog/oneirolog/internal/models"
)

// SeedDemo populates the catalog with a handful of shared dreams and a
// spread of recent engagement events so trending output is non-empty on a
// fresh install. No-op when the catalog already has rows.
func (db *DB) SeedDemo(ctx context.Context) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var count int64
	if err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM dreams`).Scan(&count); err != nil {
		return fmt.Errorf("failed to check for existing dreams: %w", err)
	}
	if count > 0 {
		logging.Debug().Int64("dreams", count).Msg("Skipping demo seed, catalog not empty")
		return nil
	}

	dreams := []Dream{
		{ID: "demo-falling-sky", OwnerID: "demo-user-1", Title: "Falling Through a Paper Sky", Shared: true},
		{ID: "demo-glass-ocean", OwnerID: "demo-user-1", Title: "The Glass Ocean", Shared: true},
		{ID: "demo-library", OwnerID: "demo-user-2", Title: "Library of Unwritten Books", Shared: true},
		{ID: "demo-clockwork", OwnerID: "demo-user-2", Title: "Clockwork Garden", Shared: true},
		{ID: "demo-private", OwnerID: "demo-user-3", Title: "Locked Door", Shared: false},
	}
	for _, d := range dreams {
		if err := db.UpsertDream(ctx, d); err != nil {
			return err
		}
	}

	// Spread views over the last two weeks so both halves of the default
	// trending comparison have data, with a deliberate skew toward the
	// first two dreams in the recent half.
	now := time.Now().UTC()
	viewers := []string{"demo-user-2", "demo-user-3", "demo-user-4", "demo-user-5"}
	for dayOffset := 0; dayOffset < 14; dayOffset++ {
		occurred := now.AddDate(0, 0, -dayOffset)
		bucket := occurred.Format("2006-01-02")
		for i, d := range dreams[:4] {
			if dayOffset >= 7 && i < 2 {
				continue
			}
			for _, viewer := range viewers[:2+i%2] {
				actor := viewer
				_, err := db.InsertViewOnce(ctx, models.EngagementEvent{
					ItemID:     d.ID,
					ActorID:    &actor,
					Identity:   actor,
					Kind:       models.KindView,
					DayBucket:  bucket,
					OccurredAt: occurred,
				})
				if err != nil {
					return err
				}
			}
		}
	}

	for _, like := range []struct{ item, actor string }{
		{"demo-falling-sky", "demo-user-2"},
		{"demo-falling-sky", "demo-user-4"},
		{"demo-glass-ocean", "demo-user-3"},
		{"demo-library", "demo-user-5"},
	} {
		if _, err := db.ApplyReaction(ctx, like.item, like.actor, models.KindLike,
			now.Format("2006-01-02"), now); err != nil {
			return err
		}
	}

	logging.Info().Int("dreams", len(dreams)).Msg("Seeded demo data")
	return nil
}
