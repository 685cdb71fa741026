// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"
)

// redisURL skips the test unless GYMFLEX_TEST_REDIS_URL points at a server.
func redisURL(t *testing.T) string {
	t.Helper()
	url := os.Getenv("GYMFLEX_TEST_REDIS_URL")
	if url == "" {
		t.Skip("GYMFLEX_TEST_REDIS_URL not set")
	}
	return url
}

func TestRedisCacheRoundTrip(t *testing.T) {
	c, err := NewRedisCache(RedisOptions{URL: redisURL(t), Prefix: "gymflex-test:", DefaultTTL: time.Minute})
	if err != nil {
		t.Fatalf("NewRedisCache: %v", err)
	}
	defer func() { _ = c.Close() }()
	ctx := context.Background()
	_ = c.Clear(ctx)

	if err := c.Set(ctx, ScheduleKey(1), []byte("row"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err := c.Get(ctx, ScheduleKey(1))
	if err != nil || string(got) != "row" {
		t.Fatalf("Get = %q, %v", got, err)
	}

	if err := c.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, err := c.Get(ctx, ScheduleKey(1)); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Get after Clear = %v", err)
	}
	if err := c.Ping(ctx); err != nil {
		t.Errorf("Ping: %v", err)
	}
}

func TestNewRedisCacheRequiresURL(t *testing.T) {
	if _, err := NewRedisCache(RedisOptions{}); err == nil {
		t.Error("expected error for empty URL")
	}
	if _, err := NewRedisCache(RedisOptions{URL: "not a url"}); err == nil {
		t.Error("expected error for malformed URL")
	}
}
