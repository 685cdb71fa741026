// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRateLimiterPerIP(t *testing.T) {
	rl := NewRateLimiter(0.001, 1)
	h := rl.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	post := func(addr string) int {
		req := httptest.NewRequest(http.MethodPost, "/contact", nil)
		req.RemoteAddr = addr
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		return rr.Code
	}

	if code := post("198.51.100.1:1000"); code != http.StatusOK {
		t.Fatalf("first POST = %d", code)
	}
	if code := post("198.51.100.1:2000"); code != http.StatusTooManyRequests {
		t.Errorf("second POST from same IP = %d, want 429", code)
	}
	if code := post("198.51.100.2:1000"); code != http.StatusOK {
		t.Errorf("POST from other IP = %d, want 200", code)
	}
}

func TestLimiterCacheClear(t *testing.T) {
	lc := newLimiterCache(1, 1)
	lc.get("a")
	lc.get("b")
	if lc.clearIfExceeds(2) {
		t.Error("should not clear at limit")
	}
	lc.get("c")
	if !lc.clearIfExceeds(2) || len(lc.limiters) != 0 {
		t.Error("should clear above limit")
	}
}
