// Oneirolog - Dream Journal Engagement and Trending Analytics
// Copyright 2026 Oneirolog Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/oneirolog/oneirolog

package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestOptionalAnonymousPassesThrough(t *testing.T) {
	m, _ := NewJWTManager(testSecurityConfig())
	mw := NewMiddleware(m)

	var seen *Identity
	handler := mw.Optional(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = IdentityFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/activity", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if seen != nil {
		t.Errorf("identity = %+v, want nil for anonymous", seen)
	}
}

func TestOptionalValidToken(t *testing.T) {
	m, _ := NewJWTManager(testSecurityConfig())
	mw := NewMiddleware(m)
	token, _ := m.GenerateToken("user-7", AdminRole)

	var seen *Identity
	handler := mw.Optional(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = IdentityFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodPost, "/activity", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if seen == nil {
		t.Fatal("expected identity in context")
	}
	if seen.UserID != "user-7" {
		t.Errorf("UserID = %q, want user-7", seen.UserID)
	}
	if !seen.IsAdmin() {
		t.Error("expected admin identity")
	}
}

func TestOptionalInvalidTokenRejected(t *testing.T) {
	m, _ := NewJWTManager(testSecurityConfig())
	mw := NewMiddleware(m)

	called := false
	handler := mw.Optional(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	for _, header := range []string{"Bearer bogus", "Basic dXNlcg=="} {
		req := httptest.NewRequest(http.MethodPost, "/activity", nil)
		req.Header.Set("Authorization", header)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("header %q: status = %d, want 401", header, rec.Code)
		}
	}
	if called {
		t.Error("handler should not run for invalid tokens")
	}
}

func TestOptionalNilManagerStaysAnonymous(t *testing.T) {
	mw := NewMiddleware(nil)

	var seen *Identity
	handler := mw.Optional(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = IdentityFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/reactions", nil)
	req.Header.Set("Authorization", "Bearer anything")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if seen != nil {
		t.Errorf("identity = %+v, want nil when auth is disabled", seen)
	}
}

func TestIsAdminNil(t *testing.T) {
	var id *Identity
	if id.IsAdmin() {
		t.Error("nil identity must not be admin")
	}
}
