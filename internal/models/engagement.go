// Oneirolog - Dream Journal Engagement and Trending Analytics
// Copyright 2026 Oneirolog Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/oneirolog/oneirolog

// Package models defines the shared data types for the engagement engine:
// the persisted engagement event, the read-side aggregates, and the API
// response envelope.
package models

import "time"

// ActivityKind identifies the kind of engagement event.
type ActivityKind string

// Engagement event kinds. Views are deduplicated per identity per UTC day;
// likes and dislikes form an exclusive pair per (item, actor).
const (
	KindView    ActivityKind = "view"
	KindLike    ActivityKind = "like"
	KindDislike ActivityKind = "dislike"
)

// Valid reports whether k is one of the three known kinds.
func (k ActivityKind) Valid() bool {
	return k == KindView || k == KindLike || k == KindDislike
}

// IsReaction reports whether k is a like or dislike.
func (k ActivityKind) IsReaction() bool {
	return k == KindLike || k == KindDislike
}

// ReactionAction describes what a like/dislike request did to the caller's
// existing reaction state.
type ReactionAction string

const (
	// ActionCreated means no prior reaction existed and one was created.
	ActionCreated ReactionAction = "created"
	// ActionRemoved means the same reaction existed and was toggled off.
	ActionRemoved ReactionAction = "removed"
	// ActionSwitched means the opposite reaction existed and was flipped.
	ActionSwitched ReactionAction = "switched"
)

// EngagementEvent is a single recorded view/like/dislike occurrence.
// It is the only entity this service persists.
type EngagementEvent struct {
	ID         string       `json:"id"`
	ItemID     string       `json:"item_id"`
	ActorID    *string      `json:"actor_id,omitempty"`
	Identity   string       `json:"-"`
	Kind       ActivityKind `json:"kind"`
	DayBucket  string       `json:"day_bucket"`
	OccurredAt time.Time    `json:"occurred_at"`
}

// RecordResult reports the outcome of a successful record call.
//
// For views, IsNewView distinguishes a first view today from an idempotent
// repeat. For reactions, Action reports the state transition taken.
type RecordResult struct {
	OK        bool            `json:"ok"`
	Kind      ActivityKind    `json:"kind"`
	IsNewView *bool           `json:"is_new_view,omitempty"`
	Action    *ReactionAction `json:"action,omitempty"`
}

// ReactionState is the aggregated engagement state of a single item.
// MyReaction is nil for anonymous callers and callers with no reaction.
type ReactionState struct {
	Likes      int     `json:"likes"`
	Dislikes   int     `json:"dislikes"`
	TotalViews int     `json:"total_views"`
	MyReaction *string `json:"my_reaction"`
}

// ItemAggregate holds windowed per-item counts produced by the event store.
// Score is views + likeWeight*likes; dislikes never enter the score.
type ItemAggregate struct {
	ItemID string `json:"item_id"`
	Views  int    `json:"views"`
	Likes  int    `json:"likes"`
	Score  int    `json:"score"`
}

// SeriesPoint is one day of activity for one item in a trending series.
type SeriesPoint struct {
	Day   string `json:"day"`
	Views int    `json:"views"`
	Likes int    `json:"likes"`
	Score int    `json:"score"`
}

// TrendingRow is one ranked entry in a trending response. PercentChange is
// nil when there is no comparison baseline: all-time queries, and items
// whose prior-window score is zero.
type TrendingRow struct {
	Rank          int           `json:"rank"`
	ItemID        string        `json:"item_id"`
	Title         string        `json:"title"`
	IsVisible     bool          `json:"is_visible"`
	Views         int           `json:"views"`
	Likes         int           `json:"likes"`
	Score         int           `json:"score"`
	PercentChange *float64      `json:"percent_change"`
	Series        []SeriesPoint `json:"series,omitempty"`
}

// ContentItem is the read-only projection of a dream supplied by the content
// collaborator. Exists is false when the item is unknown; the remaining
// fields are then zero values.
type ContentItem struct {
	ID      string
	Exists  bool
	OwnerID string
	Title   string
	Shared  bool
}
