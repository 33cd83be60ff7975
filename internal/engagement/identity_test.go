// Oneirolog - Dream Journal Engagement and Trending Analytics
// Copyright 2026 Oneirolog Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/oneirolog/oneirolog

package engagement

import (
	"strings"
	"testing"
)

func TestAnonymousIdentity(t *testing.T) {
	a := AnonymousIdentity("salt", "203.0.113.9")
	b := AnonymousIdentity("salt", "203.0.113.9")
	c := AnonymousIdentity("salt", "203.0.113.10")
	d := AnonymousIdentity("other", "203.0.113.9")

	if a != b {
		t.Error("same salt and address must be stable")
	}
	if a == c {
		t.Error("different addresses must differ")
	}
	if a == d {
		t.Error("different salts must differ")
	}
	if !strings.HasPrefix(a, "anon:") {
		t.Errorf("expected anon: prefix, got %q", a)
	}
	if strings.Contains(a, "203.0.113.9") {
		t.Error("identity must not leak the raw address")
	}
}
