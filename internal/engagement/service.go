// Oneirolog - Dream Journal Engagement and Trending Analytics
// Copyright 2026 Oneirolog Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/oneirolog/oneirolog

// Package engagement implements the engagement rules on top of the event
// store: who may record what, how reactions toggle, and how the trending
// ranking is assembled from windowed aggregates.
package engagement

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/oneirolog/oneirolog/internal/config"
	"github.com/oneirolog/oneirolog/internal/database"
	"github.com/oneirolog/oneirolog/internal/logging"
	"github.com/oneirolog/oneirolog/internal/metrics"
	"github.com/oneirolog/oneirolog/internal/models"
)

// EventStore is the ledger the service writes to and aggregates from.
// *database.DB satisfies it; tests use in-memory fakes.
type EventStore interface {
	InsertViewOnce(ctx context.Context, ev models.EngagementEvent) (bool, error)
	ApplyReaction(ctx context.Context, itemID, actorID string, kind models.ActivityKind, dayBucket string, now time.Time) (models.ReactionAction, error)
	ReactionCounts(ctx context.Context, itemID string) (likes, dislikes, views int64, err error)
	ActorReaction(ctx context.Context, itemID, actorID string) (string, error)
	TopItems(ctx context.Context, w database.Window, likeWeight, limit int) ([]models.ItemAggregate, error)
	AggregatesFor(ctx context.Context, itemIDs []string, w database.Window, likeWeight int) (map[string]models.ItemAggregate, error)
	DailySeries(ctx context.Context, itemIDs []string, w database.Window, likeWeight int) (map[string][]models.SeriesPoint, error)
}

// ContentStore supplies the dream catalog: existence, ownership, visibility,
// and the best-effort denormalized counters.
type ContentStore interface {
	GetItem(ctx context.Context, itemID string) (models.ContentItem, error)
	GetItems(ctx context.Context, itemIDs []string) (map[string]models.ContentItem, error)
	AdjustCounters(ctx context.Context, itemID string, dViews, dLikes, dDislikes int64) error
}

// Actor describes the caller of an engagement operation. UserID is empty for
// anonymous callers; IP is only used to derive the anonymous view identity.
type Actor struct {
	UserID string
	Admin  bool
	IP     string
}

// Clock returns the current time; swapped in tests.
type Clock func() time.Time

// Service enforces the engagement rules and assembles trending output.
type Service struct {
	events     EventStore
	content    ContentStore
	likeWeight int
	anonSalt   string
	cache      *trendingCache
	now        Clock
}

// New builds a Service from the loaded configuration.
func New(events EventStore, content ContentStore, cfg *config.Config) *Service {
	return &Service{
		events:     events,
		content:    content,
		likeWeight: cfg.Engagement.LikeWeight,
		anonSalt:   cfg.Security.AnonSalt,
		cache:      newTrendingCache(cfg.API.TrendingCacheTTL),
		now:        time.Now,
	}
}

// WithClock overrides the time source. Test hook.
func (s *Service) WithClock(clock Clock) *Service {
	s.now = clock
	return s
}

// dayBucket formats an instant as its UTC calendar day, the dedup window
// for views.
func dayBucket(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// canEngage reports whether the actor may see (and therefore engage with)
// the item: the dream is shared, or the caller owns it, or is an admin.
func canEngage(item models.ContentItem, actor Actor) bool {
	if item.Shared || actor.Admin {
		return true
	}
	return actor.UserID != "" && actor.UserID == item.OwnerID
}

// Record applies one engagement event for the actor.
//
// Views are idempotent per identity per UTC day and are open to anonymous
// callers, whose identity is a salted hash of their address. Likes and
// dislikes require an authenticated user and toggle: same kind removes,
// opposite kind switches.
func (s *Service) Record(ctx context.Context, itemID string, actor Actor, kind models.ActivityKind) (models.RecordResult, error) {
	if !kind.Valid() {
		metrics.RecordRejections.WithLabelValues("invalid_kind").Inc()
		return models.RecordResult{}, fmt.Errorf("unknown activity kind %q", kind)
	}

	item, err := s.content.GetItem(ctx, itemID)
	if err != nil {
		return models.RecordResult{}, err
	}
	if !item.Exists {
		metrics.RecordRejections.WithLabelValues("not_found").Inc()
		return models.RecordResult{}, ErrNotFound
	}
	if !canEngage(item, actor) {
		metrics.RecordRejections.WithLabelValues("forbidden").Inc()
		return models.RecordResult{}, ErrForbidden
	}

	if kind == models.KindView {
		return s.recordView(ctx, itemID, actor)
	}
	return s.recordReaction(ctx, itemID, actor, kind)
}

func (s *Service) recordView(ctx context.Context, itemID string, actor Actor) (models.RecordResult, error) {
	now := s.now()

	identity := actor.UserID
	var actorID *string
	if identity == "" {
		identity = AnonymousIdentity(s.anonSalt, actor.IP)
	} else {
		actorID = &actor.UserID
	}

	isNew, err := s.events.InsertViewOnce(ctx, models.EngagementEvent{
		ItemID:     itemID,
		ActorID:    actorID,
		Identity:   identity,
		Kind:       models.KindView,
		DayBucket:  dayBucket(now),
		OccurredAt: now,
	})
	if err != nil {
		metrics.EventsRecorded.WithLabelValues("view", "error").Inc()
		return models.RecordResult{}, err
	}

	if isNew {
		metrics.EventsRecorded.WithLabelValues("view", "new").Inc()
		s.adjustCounters(ctx, itemID, 1, 0, 0)
	} else {
		metrics.EventsRecorded.WithLabelValues("view", "duplicate").Inc()
	}

	return models.RecordResult{OK: true, Kind: models.KindView, IsNewView: &isNew}, nil
}

func (s *Service) recordReaction(ctx context.Context, itemID string, actor Actor, kind models.ActivityKind) (models.RecordResult, error) {
	if actor.UserID == "" {
		metrics.RecordRejections.WithLabelValues("auth_required").Inc()
		return models.RecordResult{}, ErrAuthRequired
	}

	now := s.now()
	action, err := s.events.ApplyReaction(ctx, itemID, actor.UserID, kind, dayBucket(now), now)
	if err != nil {
		metrics.EventsRecorded.WithLabelValues(string(kind), "error").Inc()
		return models.RecordResult{}, err
	}
	metrics.EventsRecorded.WithLabelValues(string(kind), string(action)).Inc()

	dLikes, dDislikes := reactionCounterDeltas(kind, action)
	s.adjustCounters(ctx, itemID, 0, dLikes, dDislikes)

	return models.RecordResult{OK: true, Kind: kind, Action: &action}, nil
}

// reactionCounterDeltas maps a reaction transition onto denormalized counter
// deltas for the dream row.
func reactionCounterDeltas(kind models.ActivityKind, action models.ReactionAction) (dLikes, dDislikes int64) {
	toLike := kind == models.KindLike
	switch action {
	case models.ActionCreated:
		if toLike {
			return 1, 0
		}
		return 0, 1
	case models.ActionRemoved:
		if toLike {
			return -1, 0
		}
		return 0, -1
	case models.ActionSwitched:
		if toLike {
			return 1, -1
		}
		return -1, 1
	}
	return 0, 0
}

// adjustCounters updates the dream row's denormalized counters. Failures are
// logged and swallowed; the event ledger stays authoritative.
func (s *Service) adjustCounters(ctx context.Context, itemID string, dViews, dLikes, dDislikes int64) {
	if err := s.content.AdjustCounters(ctx, itemID, dViews, dLikes, dDislikes); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("item_id", itemID).
			Msg("Failed to update denormalized counters")
	}
}

// ReactionState returns the item's aggregate counts plus the caller's own
// reaction. It is a pure read over the ledger and does not enforce
// visibility: counts are low-risk aggregates, and callers have already
// decided whether to show the item at all. Only existence is checked.
func (s *Service) ReactionState(ctx context.Context, itemID string, actor Actor) (models.ReactionState, error) {
	item, err := s.content.GetItem(ctx, itemID)
	if err != nil {
		return models.ReactionState{}, err
	}
	if !item.Exists {
		return models.ReactionState{}, ErrNotFound
	}

	likes, dislikes, views, err := s.events.ReactionCounts(ctx, itemID)
	if err != nil {
		return models.ReactionState{}, err
	}

	state := models.ReactionState{
		Likes:      int(likes),
		Dislikes:   int(dislikes),
		TotalViews: int(views),
	}

	if actor.UserID != "" {
		mine, err := s.events.ActorReaction(ctx, itemID, actor.UserID)
		if err != nil {
			return models.ReactionState{}, err
		}
		if mine != "" {
			state.MyReaction = &mine
		}
	}
	return state, nil
}

// TrendingParams are the validated query parameters for Trending.
// WindowDays 0 means all-time.
type TrendingParams struct {
	WindowDays int
	Limit      int
	Series     bool
}

// Trending returns the ranked most-engaged shared dreams for the window,
// with a period-over-period score comparison and an optional per-day series.
// Results are cached briefly per parameter combination; the second return
// reports whether the response was served from cache.
func (s *Service) Trending(ctx context.Context, params TrendingParams) ([]models.TrendingRow, bool, error) {
	if rows, ok := s.cache.get(params); ok {
		return rows, true, nil
	}

	now := s.now().UTC()
	var current, prior database.Window
	if params.WindowDays > 0 {
		from := now.AddDate(0, 0, -params.WindowDays)
		priorFrom := now.AddDate(0, 0, -2*params.WindowDays)
		current = database.Window{From: &from, To: &now}
		prior = database.Window{From: &priorFrom, To: &from}
	}

	candidates, err := s.events.TopItems(ctx, current, s.likeWeight, params.Limit)
	if err != nil {
		return nil, false, err
	}
	if len(candidates) == 0 {
		s.cache.put(params, []models.TrendingRow{})
		return []models.TrendingRow{}, false, nil
	}

	ids := make([]string, 0, len(candidates))
	for _, c := range candidates {
		ids = append(ids, c.ItemID)
	}
	items, err := s.content.GetItems(ctx, ids)
	if err != nil {
		return nil, false, err
	}

	// Re-check visibility at read time: only shared dreams appear in the
	// public ranking, and ranks are renumbered after the filter. A non-shared
	// candidate shrinks the result; lower-ranked items never take its place.
	selected := make([]models.ItemAggregate, 0, len(candidates))
	for _, c := range candidates {
		item, ok := items[c.ItemID]
		if !ok || !item.Shared {
			continue
		}
		selected = append(selected, c)
	}

	rows, err := s.buildRows(ctx, selected, items, prior, params)
	if err != nil {
		return nil, false, err
	}

	s.cache.put(params, rows)
	return rows, false, nil
}

func (s *Service) buildRows(ctx context.Context, selected []models.ItemAggregate, items map[string]models.ContentItem, prior database.Window, params TrendingParams) ([]models.TrendingRow, error) {
	ids := make([]string, 0, len(selected))
	for _, agg := range selected {
		ids = append(ids, agg.ItemID)
	}

	// Prior-window scores only exist for bounded windows; an all-time query
	// has no baseline to compare against.
	var priorAggs map[string]models.ItemAggregate
	if prior.From != nil || prior.To != nil {
		var err error
		priorAggs, err = s.events.AggregatesFor(ctx, ids, prior, s.likeWeight)
		if err != nil {
			return nil, err
		}
	}

	// The daily series, like the comparison, only exists for bounded
	// windows; an all-time query returns rows without either.
	var series map[string][]models.SeriesPoint
	if params.Series && params.WindowDays > 0 {
		now := s.now().UTC()
		from := now.AddDate(0, 0, -params.WindowDays)
		current := database.Window{From: &from, To: &now}
		var err error
		series, err = s.events.DailySeries(ctx, ids, current, s.likeWeight)
		if err != nil {
			return nil, err
		}
	}

	rows := make([]models.TrendingRow, 0, len(selected))
	for i, agg := range selected {
		row := models.TrendingRow{
			Rank:      i + 1,
			ItemID:    agg.ItemID,
			Title:     items[agg.ItemID].Title,
			IsVisible: true,
			Views:     agg.Views,
			Likes:     agg.Likes,
			Score:     agg.Score,
		}
		if priorAggs != nil {
			if prev, ok := priorAggs[agg.ItemID]; ok && prev.Score > 0 {
				change := math.Round(float64(agg.Score-prev.Score)/float64(prev.Score)*1000) / 10
				row.PercentChange = &change
			}
		}
		if series != nil {
			row.Series = series[agg.ItemID]
		}
		rows = append(rows, row)
	}
	return rows, nil
}
