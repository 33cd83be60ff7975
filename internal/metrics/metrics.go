// Oneirolog - Dream Journal Engagement and Trending Analytics
// Copyright 2026 Oneirolog Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/oneirolog/oneirolog

// Package metrics provides Prometheus instrumentation for the engagement
// service: event write outcomes, storage query latency, trending cache
// efficiency, and HTTP request metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// EventsRecorded counts successful engagement writes by kind and
	// outcome. Outcomes: "new"/"duplicate" for views, "created"/"removed"/
	// "switched" for reactions.
	EventsRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engagement_events_recorded_total",
			Help: "Total engagement events recorded, by kind and outcome",
		},
		[]string{"kind", "outcome"},
	)

	// RecordRejections counts record calls refused by the access rules.
	RecordRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engagement_record_rejections_total",
			Help: "Total record calls rejected, by reason",
		},
		[]string{"reason"}, // "not_found", "forbidden", "auth_required"
	)

	// DBQueryDuration observes DuckDB query latency per logical operation.
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "duckdb_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	// DBQueryErrors counts storage-layer failures per logical operation.
	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duckdb_query_errors_total",
			Help: "Total DuckDB query errors",
		},
		[]string{"operation"},
	)

	// TrendingCacheHits counts trending responses served from cache.
	TrendingCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "trending_cache_hits_total",
			Help: "Total trending cache hits",
		},
	)

	// TrendingCacheMisses counts trending responses recomputed from events.
	TrendingCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "trending_cache_misses_total",
			Help: "Total trending cache misses",
		},
	)

	// RetentionDeletedRows counts view rows removed by the retention sweep.
	RetentionDeletedRows = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "retention_deleted_rows_total",
			Help: "Total view events removed by the retention sweeper",
		},
	)

	apiRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	apiRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	activeRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Number of HTTP requests currently being served",
		},
	)
)

// RecordAPIRequest records the outcome of one HTTP request.
func RecordAPIRequest(method, path, status string, duration time.Duration) {
	apiRequestsTotal.WithLabelValues(method, path, status).Inc()
	apiRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// TrackActiveRequest adjusts the in-flight request gauge.
func TrackActiveRequest(start bool) {
	if start {
		activeRequests.Inc()
	} else {
		activeRequests.Dec()
	}
}

// ObserveQuery records the duration and outcome of one storage operation.
// Intended usage:
//
//	defer metrics.ObserveQuery("record_view", time.Now(), &err)
func ObserveQuery(operation string, start time.Time, err *error) {
	DBQueryDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	if err != nil && *err != nil {
		DBQueryErrors.WithLabelValues(operation).Inc()
	}
}
