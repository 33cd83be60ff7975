// Oneirolog - Dream Journal Engagement and Trending Analytics
// Copyright 2026 Oneirolog Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/oneirolog/oneirolog

package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/oneirolog/oneirolog/internal/logging"
)

type contextKey string

const identityKey contextKey = "identity"

// Identity is the authenticated caller extracted from a bearer token.
// A nil *Identity in context means the caller is anonymous.
type Identity struct {
	UserID string
	Role   string
}

// IsAdmin reports whether the identity holds the admin role.
func (id *Identity) IsAdmin() bool {
	return id != nil && id.Role == AdminRole
}

// Middleware attaches caller identity to request contexts.
type Middleware struct {
	jwt *JWTManager
}

// NewMiddleware creates the auth middleware. A nil manager (auth_mode=none)
// leaves every request anonymous.
func NewMiddleware(jwt *JWTManager) *Middleware {
	return &Middleware{jwt: jwt}
}

// Optional authenticates the caller when an Authorization header is present
// and lets anonymous requests through untouched. A header that is present
// but invalid is rejected with 401 rather than silently downgraded to
// anonymous, so a client with an expired token learns about it.
//
// This mirrors the view-recording access model: anyone may view public
// content, but reactions need a real identity, which handlers check via
// IdentityFromContext.
func (m *Middleware) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" || m.jwt == nil {
			next.ServeHTTP(w, r)
			return
		}

		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			http.Error(w, "malformed authorization header", http.StatusUnauthorized)
			return
		}

		claims, err := m.jwt.ValidateToken(token)
		if err != nil {
			logging.Ctx(r.Context()).Debug().Err(err).Msg("Rejected bearer token")
			http.Error(w, "invalid or expired token", http.StatusUnauthorized)
			return
		}

		identity := &Identity{UserID: claims.UserID, Role: claims.Role}
		ctx := context.WithValue(r.Context(), identityKey, identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// IdentityFromContext returns the caller identity, or nil for anonymous.
func IdentityFromContext(ctx context.Context) *Identity {
	if id, ok := ctx.Value(identityKey).(*Identity); ok {
		return id
	}
	return nil
}

// ContextWithIdentity stores an identity in the context. Used by tests.
func ContextWithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}
