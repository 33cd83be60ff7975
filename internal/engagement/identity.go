// Oneirolog - Dream Journal Engagement and Trending Analytics
// Copyright 2026 Oneirolog Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/oneirolog/oneirolog

package engagement

import (
	"crypto/sha256"
	"encoding/hex"
)

// AnonymousIdentity derives a stable pseudonymous identity from a client IP.
// The salt keeps raw addresses out of the ledger while preserving per-day
// view dedup for logged-out readers. Two requests from the same address map
// to the same identity; the address itself is never stored.
func AnonymousIdentity(salt, ip string) string {
	sum := sha256.Sum256([]byte(salt + ip))
	return "anon:" + hex.EncodeToString(sum[:16])
}
