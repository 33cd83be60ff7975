// Oneirolog - Dream Journal Engagement and Trending Analytics
// Copyright 2026 Oneirolog Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/oneirolog/oneirolog

package models

import "time"

// APIResponse is the standard envelope for every HTTP response.
//
// Status is "success" or "error". Data carries the payload on success;
// Error is populated only on failure.
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata contains response metadata for observability.
// QueryTimeMS is the storage execution time; Cached marks responses served
// from the trending cache.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
	Cached      bool      `json:"cached,omitempty"`
}

// APIError carries a machine-readable error code alongside a human-readable
// message.
//
// Codes used by this service:
//   - VALIDATION_ERROR: invalid request parameters
//   - NOT_FOUND: the target item does not exist
//   - FORBIDDEN: private item, caller is neither owner nor admin
//   - AUTH_REQUIRED: anonymous caller attempted a reaction
//   - UNAUTHORIZED: malformed or expired bearer token
//   - STORAGE_ERROR: event store failure
type APIError struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}
