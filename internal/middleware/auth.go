// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides the HTTP middleware used by the site:
// admin gating, language selection, rate limiting and response headers.
package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gymflex/gymflex-go/internal/cache"
	"github.com/gymflex/gymflex-go/internal/session"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

const (
	ContextKeyAdmin    ContextKey = "admin"
	ContextKeyLanguage ContextKey = "language"
)

// LoginPath is where RequireAdmin sends anonymous visitors.
const LoginPath = "/admin-login"

// LoadAdmin puts the signed-in admin, if any, into the request context.
// Public pages use it to decide whether mutation controls are shown. Admin
// requests read past the cache so the page after a mutation shows the
// store as it is, whichever instance served the write.
func LoadAdmin(obs *session.Observer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if admin, ok := obs.Current(r.Context()); ok {
				ctx := context.WithValue(r.Context(), ContextKeyAdmin, admin)
				r = r.WithContext(cache.WithBypass(ctx))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin rejects requests without an admin session. GET requests are
// redirected to the login page; anything else gets 403 so a stale form
// cannot be replayed after sign-out.
func RequireAdmin(obs *session.Observer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			admin, ok := obs.Current(r.Context())
			if !ok {
				slog.Warn("admin route without session",
					"method", r.Method,
					"path", r.URL.Path,
					"remote_addr", r.RemoteAddr,
					"category", "auth",
				)
				if r.Method == http.MethodGet || r.Method == http.MethodHead {
					http.Redirect(w, r, LoginPath, http.StatusSeeOther)
					return
				}
				http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
				return
			}
			ctx := context.WithValue(r.Context(), ContextKeyAdmin, admin)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetAdmin returns the admin stored by LoadAdmin or RequireAdmin.
func GetAdmin(r *http.Request) (session.Admin, bool) {
	admin, ok := r.Context().Value(ContextKeyAdmin).(session.Admin)
	return admin, ok
}

// IsAdmin reports whether the request carries an admin session.
func IsAdmin(r *http.Request) bool {
	_, ok := GetAdmin(r)
	return ok
}

// GetAdminIDPtr returns the admin id for event logging, or nil.
func GetAdminIDPtr(r *http.Request) *int64 {
	if admin, ok := GetAdmin(r); ok {
		id := admin.ID
		return &id
	}
	return nil
}
