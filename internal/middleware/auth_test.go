// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alexedwards/scs/v2"

	"github.com/gymflex/gymflex-go/internal/cache"
	"github.com/gymflex/gymflex-go/internal/session"
)

// withSession runs next inside a loaded session, signing in first when admin
// is non-nil.
func withSession(obs *session.Observer, admin *session.Admin, next http.Handler) http.Handler {
	return obs.Manager().LoadAndSave(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if admin != nil {
			if err := obs.SignIn(r.Context(), *admin); err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
		}
		next.ServeHTTP(w, r)
	}))
}

func TestRequireAdmin(t *testing.T) {
	admin := &session.Admin{ID: 7, Email: "owner@gymflex.local"}

	tests := []struct {
		name         string
		method       string
		admin        *session.Admin
		wantStatus   int
		wantLocation string
	}{
		{"anonymous GET redirects", http.MethodGet, nil, http.StatusSeeOther, LoginPath},
		{"anonymous POST forbidden", http.MethodPost, nil, http.StatusForbidden, ""},
		{"admin GET passes", http.MethodGet, admin, http.StatusOK, ""},
		{"admin POST passes", http.MethodPost, admin, http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obs := session.NewObserver(scs.New())
			var seen session.Admin
			inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen, _ = GetAdmin(r)
				w.WriteHeader(http.StatusOK)
			})
			h := withSession(obs, tt.admin, RequireAdmin(obs)(inner))

			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, httptest.NewRequest(tt.method, "/trainers/new", nil))

			if rr.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rr.Code, tt.wantStatus)
			}
			if loc := rr.Header().Get("Location"); loc != tt.wantLocation {
				t.Errorf("Location = %q, want %q", loc, tt.wantLocation)
			}
			if tt.admin != nil && seen != *tt.admin {
				t.Errorf("admin in context = %+v", seen)
			}
		})
	}
}

func TestLoadAdmin(t *testing.T) {
	for _, signedIn := range []bool{false, true} {
		obs := session.NewObserver(scs.New())
		var admin *session.Admin
		if signedIn {
			admin = &session.Admin{ID: 1, Email: "owner@gymflex.local"}
		}

		var got, bypass bool
		var id *int64
		inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = IsAdmin(r)
			id = GetAdminIDPtr(r)
			bypass = cache.Bypassed(r.Context())
		})
		withSession(obs, admin, LoadAdmin(obs)(inner)).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/trainers", nil))

		if got != signedIn {
			t.Errorf("signedIn=%v: IsAdmin = %v", signedIn, got)
		}
		if bypass != signedIn {
			t.Errorf("signedIn=%v: cache bypass = %v", signedIn, bypass)
		}
		if signedIn && (id == nil || *id != 1) {
			t.Errorf("GetAdminIDPtr = %v, want 1", id)
		}
		if !signedIn && id != nil {
			t.Errorf("GetAdminIDPtr = %v, want nil", *id)
		}
	}
}
