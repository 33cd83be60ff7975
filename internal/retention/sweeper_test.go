// Oneirolog - Dream Journal Engagement and Trending Analytics
// Copyright 2026 Oneirolog Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/oneirolog/oneirolog

package retention

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/oneirolog/oneirolog/internal/config"
)

type fakeDeleter struct {
	calls   atomic.Int64
	deleted int64
	err     error
	cutoffs chan time.Time
}

func (f *fakeDeleter) DeleteExpiredViews(_ context.Context, cutoff time.Time) (int64, error) {
	f.calls.Add(1)
	if f.cutoffs != nil {
		select {
		case f.cutoffs <- cutoff:
		default:
		}
	}
	return f.deleted, f.err
}

func TestNewSweeperDisabled(t *testing.T) {
	s := NewSweeper(&fakeDeleter{}, &config.RetentionConfig{MaxAgeDays: 0, Interval: time.Hour})
	if s != nil {
		t.Error("expected nil sweeper when retention is disabled")
	}
}

func TestSweeperRunsImmediatelyAndOnTicks(t *testing.T) {
	deleter := &fakeDeleter{deleted: 3}
	s := NewSweeper(deleter, &config.RetentionConfig{MaxAgeDays: 90, Interval: 10 * time.Millisecond})
	if s == nil {
		t.Fatal("expected sweeper")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	err := s.Serve(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline error from Serve, got %v", err)
	}

	// One immediate sweep plus several ticks.
	if got := deleter.calls.Load(); got < 2 {
		t.Errorf("expected at least 2 sweeps, got %d", got)
	}
}

func TestSweeperCutoff(t *testing.T) {
	deleter := &fakeDeleter{cutoffs: make(chan time.Time, 1)}
	s := NewSweeper(deleter, &config.RetentionConfig{MaxAgeDays: 90, Interval: time.Hour})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = s.Serve(ctx)
	}()

	var cutoff time.Time
	select {
	case cutoff = <-deleter.cutoffs:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for sweep")
	}
	cancel()
	<-done

	want := time.Now().UTC().AddDate(0, 0, -90)
	if diff := cutoff.Sub(want); diff < -time.Minute || diff > time.Minute {
		t.Errorf("cutoff %v not ~90 days ago (diff %v)", cutoff, diff)
	}
}

func TestSweeperSurvivesStoreError(t *testing.T) {
	deleter := &fakeDeleter{err: errors.New("boom")}
	s := NewSweeper(deleter, &config.RetentionConfig{MaxAgeDays: 90, Interval: 5 * time.Millisecond})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_ = s.Serve(ctx)
	if got := deleter.calls.Load(); got < 2 {
		t.Errorf("sweeper must keep running after errors, got %d calls", got)
	}
}

func TestSweeperString(t *testing.T) {
	s := NewSweeper(&fakeDeleter{}, &config.RetentionConfig{MaxAgeDays: 1, Interval: time.Hour})
	if s.String() != "retention-sweeper" {
		t.Errorf("unexpected name %q", s.String())
	}
}
