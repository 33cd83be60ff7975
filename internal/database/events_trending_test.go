// Oneirolog - Dream Journal Engagement and Trending Analytics
// Copyright 2026 Oneirolog Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/oneirolog/oneirolog

package database

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/oneirolog/oneirolog/internal/models"
)

// seedEngagement writes views and likes for an item at the given instant,
// using distinct identities so nothing collapses on the dedup constraint.
func seedEngagement(t *testing.T, db *DB, itemID string, views, likes int, at time.Time) {
	t.Helper()

	day := at.UTC().Format("2006-01-02")
	for i := 0; i < views; i++ {
		insertView(t, db, itemID, fmt.Sprintf("viewer-%s-%d", day, i), day, at)
	}
	for i := 0; i < likes; i++ {
		actor := fmt.Sprintf("liker-%s-%d", day, i)
		if _, err := db.ApplyReaction(context.Background(), itemID, actor, models.KindLike, day, at); err != nil {
			t.Fatalf("seeding like on %s failed: %v", itemID, err)
		}
	}
}

func TestTopItemsScoreAndOrder(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	now := time.Now().UTC()

	// dream-a: 2 views + 1 like = score 5 (weight 3)
	// dream-b: 6 views          = score 6
	// dream-c: 1 view  + 2 likes = score 7
	seedEngagement(t, db, "dream-a", 2, 1, now)
	seedEngagement(t, db, "dream-b", 6, 0, now)
	seedEngagement(t, db, "dream-c", 1, 2, now)

	items, err := db.TopItems(context.Background(), Window{}, 3, 10)
	if err != nil {
		t.Fatalf("TopItems failed: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}

	wantOrder := []string{"dream-c", "dream-b", "dream-a"}
	wantScores := []int{7, 6, 5}
	for i, want := range wantOrder {
		if items[i].ItemID != want {
			t.Errorf("position %d: expected %s, got %s", i, want, items[i].ItemID)
		}
		if items[i].Score != wantScores[i] {
			t.Errorf("%s: expected score %d, got %d", want, wantScores[i], items[i].Score)
		}
	}

	if items[2].Views != 2 || items[2].Likes != 1 {
		t.Errorf("dream-a: expected views=2 likes=1, got views=%d likes=%d",
			items[2].Views, items[2].Likes)
	}
}

func TestTopItemsTieBreaksByItemID(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	now := time.Now().UTC()
	seedEngagement(t, db, "dream-z", 3, 0, now)
	seedEngagement(t, db, "dream-a", 3, 0, now)
	seedEngagement(t, db, "dream-m", 3, 0, now)

	items, err := db.TopItems(context.Background(), Window{}, 3, 10)
	if err != nil {
		t.Fatalf("TopItems failed: %v", err)
	}

	wantOrder := []string{"dream-a", "dream-m", "dream-z"}
	for i, want := range wantOrder {
		if items[i].ItemID != want {
			t.Errorf("position %d: expected %s, got %s", i, want, items[i].ItemID)
		}
	}
}

func TestTopItemsRespectsLimitAndWindow(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	now := time.Now().UTC()
	old := now.AddDate(0, 0, -10)

	seedEngagement(t, db, "dream-recent", 5, 0, now)
	seedEngagement(t, db, "dream-old", 9, 0, old)

	from := now.AddDate(0, 0, -7)
	items, err := db.TopItems(context.Background(), Window{From: &from, To: &now}, 3, 10)
	if err != nil {
		t.Fatalf("TopItems failed: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected only the recent item inside the window, got %d items", len(items))
	}
	if items[0].ItemID != "dream-recent" {
		t.Errorf("expected dream-recent, got %s", items[0].ItemID)
	}

	// The To bound is exclusive: events exactly at To fall outside.
	boundary := now.Add(time.Hour)
	seedEngagement(t, db, "dream-boundary", 1, 0, boundary)
	items, err = db.TopItems(context.Background(), Window{From: &from, To: &boundary}, 3, 10)
	if err != nil {
		t.Fatalf("TopItems with boundary failed: %v", err)
	}
	for _, it := range items {
		if it.ItemID == "dream-boundary" {
			t.Error("event at the exclusive To bound must not count")
		}
	}

	// Limit truncation.
	items, err = db.TopItems(context.Background(), Window{}, 3, 1)
	if err != nil {
		t.Fatalf("TopItems with limit failed: %v", err)
	}
	if len(items) != 1 {
		t.Errorf("expected limit of 1, got %d items", len(items))
	}
}

func TestTopItemsIgnoresDislikes(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	now := time.Now().UTC()
	day := now.Format("2006-01-02")

	seedEngagement(t, db, "dream-a", 2, 0, now)
	for i := 0; i < 5; i++ {
		actor := fmt.Sprintf("hater-%d", i)
		if _, err := db.ApplyReaction(ctx, "dream-a", actor, models.KindDislike, day, now); err != nil {
			t.Fatalf("seeding dislike failed: %v", err)
		}
	}

	items, err := db.TopItems(ctx, Window{}, 3, 10)
	if err != nil {
		t.Fatalf("TopItems failed: %v", err)
	}
	if len(items) != 1 || items[0].Score != 2 {
		t.Fatalf("expected score 2 untouched by dislikes, got %+v", items)
	}
}

func TestAggregatesFor(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	now := time.Now().UTC()
	prev := now.AddDate(0, 0, -10)

	seedEngagement(t, db, "dream-a", 4, 1, now)
	seedEngagement(t, db, "dream-a", 2, 0, prev)
	seedEngagement(t, db, "dream-b", 1, 0, prev)

	from := now.AddDate(0, 0, -14)
	to := now.AddDate(0, 0, -7)
	aggs, err := db.AggregatesFor(context.Background(), []string{"dream-a", "dream-b", "dream-missing"},
		Window{From: &from, To: &to}, 3)
	if err != nil {
		t.Fatalf("AggregatesFor failed: %v", err)
	}

	if agg, ok := aggs["dream-a"]; !ok || agg.Views != 2 || agg.Score != 2 {
		t.Errorf("dream-a prior window: expected views=2 score=2, got %+v", agg)
	}
	if agg, ok := aggs["dream-b"]; !ok || agg.Views != 1 {
		t.Errorf("dream-b prior window: expected views=1, got %+v", agg)
	}
	if _, ok := aggs["dream-missing"]; ok {
		t.Error("item with no events must be absent from the map")
	}

	empty, err := db.AggregatesFor(context.Background(), nil, Window{}, 3)
	if err != nil {
		t.Fatalf("AggregatesFor with no IDs failed: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("expected empty map for no IDs, got %d entries", len(empty))
	}
}

func TestDailySeries(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	now := time.Now().UTC().Truncate(24 * time.Hour).Add(12 * time.Hour)
	yesterday := now.AddDate(0, 0, -1)

	seedEngagement(t, db, "dream-a", 2, 1, yesterday)
	seedEngagement(t, db, "dream-a", 3, 0, now)

	from := now.AddDate(0, 0, -7)
	to := now.Add(time.Hour)
	series, err := db.DailySeries(context.Background(), []string{"dream-a"},
		Window{From: &from, To: &to}, 3)
	if err != nil {
		t.Fatalf("DailySeries failed: %v", err)
	}

	points := series["dream-a"]
	if len(points) != 2 {
		t.Fatalf("expected 2 daily points, got %d", len(points))
	}
	if points[0].Day != yesterday.Format("2006-01-02") {
		t.Errorf("expected days ascending, first day %s", points[0].Day)
	}
	if points[0].Views != 2 || points[0].Likes != 1 || points[0].Score != 5 {
		t.Errorf("yesterday: expected views=2 likes=1 score=5, got %+v", points[0])
	}
	if points[1].Views != 3 || points[1].Score != 3 {
		t.Errorf("today: expected views=3 score=3, got %+v", points[1])
	}
}
