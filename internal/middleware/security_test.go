// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func serveHeaders(t *testing.T, cfg SecurityHeadersConfig, path string) http.Header {
	t.Helper()
	handler := SecurityHeaders(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec.Header()
}

func TestSecurityHeaders(t *testing.T) {
	tests := []struct {
		name     string
		isDev    bool
		wantHSTS bool
	}{
		{"production enables HSTS", false, true},
		{"development disables HSTS", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := serveHeaders(t, DefaultSecurityHeadersConfig(tt.isDev), "/")

			if got := h.Get("Strict-Transport-Security") != ""; got != tt.wantHSTS {
				t.Errorf("HSTS present = %v, want %v", got, tt.wantHSTS)
			}
			if h.Get("X-Frame-Options") != "SAMEORIGIN" {
				t.Errorf("X-Frame-Options = %q", h.Get("X-Frame-Options"))
			}
			if h.Get("X-Content-Type-Options") != "nosniff" {
				t.Errorf("X-Content-Type-Options = %q", h.Get("X-Content-Type-Options"))
			}
			for _, name := range []string{"Content-Security-Policy", "Referrer-Policy", "Permissions-Policy"} {
				if h.Get(name) == "" {
					t.Errorf("missing %s", name)
				}
			}
		})
	}
}

func TestDefaultCSPAllowsSiteHosts(t *testing.T) {
	csp := DefaultSecurityHeadersConfig(false, "https://cdn.gymflex.kr").ContentSecurityPolicy

	for _, want := range []string{
		"default-src 'self'",
		"https://dapi.kakao.com",
		"https://*.daumcdn.net",
		"https://via.placeholder.com",
		"https://images.unsplash.com",
		"https://cdn.gymflex.kr",
		"object-src 'none'",
	} {
		if !strings.Contains(csp, want) {
			t.Errorf("CSP missing %q: %s", want, csp)
		}
	}
	if strings.Contains(csp, "unsafe-eval") {
		t.Error("production CSP should not allow unsafe-eval")
	}
	if !strings.HasPrefix(csp, "default-src") {
		t.Errorf("directive order changed: %s", csp)
	}
}

func TestSecurityHeadersExcludePaths(t *testing.T) {
	cfg := DefaultSecurityHeadersConfig(false)
	cfg.ExcludePaths = []string{"/metrics"}

	if h := serveHeaders(t, cfg, "/metrics"); h.Get("Content-Security-Policy") != "" {
		t.Error("excluded path should not get CSP")
	}
	if h := serveHeaders(t, cfg, "/trainers"); h.Get("Content-Security-Policy") == "" {
		t.Error("regular path should get CSP")
	}
}

func TestSecurityHeadersHSTSOptions(t *testing.T) {
	h := serveHeaders(t, SecurityHeadersConfig{
		HSTSMaxAge:            63072000,
		HSTSIncludeSubDomains: true,
		HSTSPreload:           true,
	}, "/")

	if got := h.Get("Strict-Transport-Security"); got != "max-age=63072000; includeSubDomains; preload" {
		t.Errorf("HSTS = %q", got)
	}
}
