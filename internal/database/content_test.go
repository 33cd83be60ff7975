// Oneirolog - Dream Journal Engagement and Trending Analytics
// Copyright 2026 Oneirolog Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/oneirolog/oneirolog

package database

import (
	"context"
	"testing"
	"time"
)

func TestUpsertAndGetItem(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()

	err := db.UpsertDream(ctx, Dream{
		ID:      "dream-1",
		OwnerID: "user-a",
		Title:   "Falling",
		Shared:  true,
	})
	if err != nil {
		t.Fatalf("UpsertDream failed: %v", err)
	}

	item, err := db.GetItem(ctx, "dream-1")
	if err != nil {
		t.Fatalf("GetItem failed: %v", err)
	}
	if !item.Exists {
		t.Fatal("expected item to exist")
	}
	if item.OwnerID != "user-a" || item.Title != "Falling" || !item.Shared {
		t.Errorf("unexpected item: %+v", item)
	}

	missing, err := db.GetItem(ctx, "nope")
	if err != nil {
		t.Fatalf("GetItem for missing row failed: %v", err)
	}
	if missing.Exists {
		t.Error("missing row must come back with Exists=false")
	}

	// Replacing flips visibility without erroring.
	err = db.UpsertDream(ctx, Dream{ID: "dream-1", OwnerID: "user-a", Title: "Falling", Shared: false})
	if err != nil {
		t.Fatalf("second UpsertDream failed: %v", err)
	}
	item, err = db.GetItem(ctx, "dream-1")
	if err != nil {
		t.Fatalf("GetItem after update failed: %v", err)
	}
	if item.Shared {
		t.Error("expected is_shared=false after update")
	}
}

func TestGetItems(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	for _, d := range []Dream{
		{ID: "dream-1", OwnerID: "user-a", Title: "One", Shared: true},
		{ID: "dream-2", OwnerID: "user-b", Title: "Two", Shared: false},
	} {
		if err := db.UpsertDream(ctx, d); err != nil {
			t.Fatalf("UpsertDream(%s) failed: %v", d.ID, err)
		}
	}

	items, err := db.GetItems(ctx, []string{"dream-1", "dream-2", "dream-3"})
	if err != nil {
		t.Fatalf("GetItems failed: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 found items, got %d", len(items))
	}
	if !items["dream-1"].Shared || items["dream-2"].Shared {
		t.Errorf("visibility mismatch: %+v", items)
	}
	if _, ok := items["dream-3"]; ok {
		t.Error("unknown ID must be absent")
	}
}

func TestAdjustCountersClampsAtZero(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	if err := db.UpsertDream(ctx, Dream{ID: "dream-1", OwnerID: "user-a", Title: "One"}); err != nil {
		t.Fatalf("UpsertDream failed: %v", err)
	}

	if err := db.AdjustCounters(ctx, "dream-1", 2, 1, 0); err != nil {
		t.Fatalf("AdjustCounters failed: %v", err)
	}
	if err := db.AdjustCounters(ctx, "dream-1", -5, -1, -1); err != nil {
		t.Fatalf("negative AdjustCounters failed: %v", err)
	}

	var views, likes, dislikes int64
	err := db.Conn().QueryRow(`
		SELECT views_total, likes_count, dislikes_count FROM dreams WHERE id = 'dream-1'`,
	).Scan(&views, &likes, &dislikes)
	if err != nil {
		t.Fatalf("counter query failed: %v", err)
	}
	if views != 0 || likes != 0 || dislikes != 0 {
		t.Errorf("expected counters clamped at zero, got views=%d likes=%d dislikes=%d",
			views, likes, dislikes)
	}
}

func TestDeleteExpiredViews(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	now := time.Now().UTC()
	old := now.AddDate(0, 0, -100)

	insertView(t, db, "dream-1", "user-a", old.Format("2006-01-02"), old)
	insertView(t, db, "dream-1", "user-b", now.Format("2006-01-02"), now)
	if _, err := db.ApplyReaction(ctx, "dream-1", "user-c", "like", old.Format("2006-01-02"), old); err != nil {
		t.Fatalf("seeding old like failed: %v", err)
	}

	deleted, err := db.DeleteExpiredViews(ctx, now.AddDate(0, 0, -90))
	if err != nil {
		t.Fatalf("DeleteExpiredViews failed: %v", err)
	}
	if deleted != 1 {
		t.Errorf("expected 1 expired view deleted, got %d", deleted)
	}

	likes, _, views, err := db.ReactionCounts(ctx, "dream-1")
	if err != nil {
		t.Fatalf("ReactionCounts failed: %v", err)
	}
	if views != 1 {
		t.Errorf("expected 1 remaining view, got %d", views)
	}
	if likes != 1 {
		t.Errorf("old reactions must survive retention, got %d likes", likes)
	}
}

func TestSeedDemoIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	if err := db.SeedDemo(ctx); err != nil {
		t.Fatalf("SeedDemo failed: %v", err)
	}

	var dreams, events int64
	if err := db.Conn().QueryRow(`SELECT COUNT(*) FROM dreams`).Scan(&dreams); err != nil {
		t.Fatalf("dream count failed: %v", err)
	}
	if err := db.Conn().QueryRow(`SELECT COUNT(*) FROM engagement_events`).Scan(&events); err != nil {
		t.Fatalf("event count failed: %v", err)
	}
	if dreams == 0 || events == 0 {
		t.Fatalf("expected seeded rows, got dreams=%d events=%d", dreams, events)
	}

	if err := db.SeedDemo(ctx); err != nil {
		t.Fatalf("second SeedDemo failed: %v", err)
	}
	var dreamsAfter int64
	if err := db.Conn().QueryRow(`SELECT COUNT(*) FROM dreams`).Scan(&dreamsAfter); err != nil {
		t.Fatalf("dream recount failed: %v", err)
	}
	if dreamsAfter != dreams {
		t.Errorf("second seed must be a no-op, dreams %d -> %d", dreams, dreamsAfter)
	}
}
