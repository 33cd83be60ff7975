// Oneirolog - Dream Journal Engagement and Trending Analytics
// Copyright 2026 Oneirolog Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/oneirolog/oneirolog

package engagement

import "errors"

// Sentinel errors the HTTP layer maps onto status codes.
var (
	// ErrNotFound means the dream does not exist.
	ErrNotFound = errors.New("dream not found")

	// ErrForbidden means the dream exists but the caller may not engage
	// with it (not shared and not the owner).
	ErrForbidden = errors.New("dream is not accessible")

	// ErrAuthRequired means the operation needs an authenticated user,
	// and the caller is anonymous.
	ErrAuthRequired = errors.New("authentication required")
)
