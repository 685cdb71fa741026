// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"
)

// Typed wraps a Cache with JSON encoding for values of type T.
//
// A fill that started before a Forget of the same key is not written back,
// so a slow read can never re-cache rows older than the last mutation.
type Typed[T any] struct {
	c   Cache
	ttl time.Duration

	mu  sync.Mutex
	gen map[string]uint64
}

// NewTyped returns a typed view over c. A nil c disables caching.
func NewTyped[T any](c Cache, ttl time.Duration) *Typed[T] {
	return &Typed[T]{c: c, ttl: ttl, gen: make(map[string]uint64)}
}

type bypassKey struct{}

// WithBypass marks ctx so Load skips cached values and reads the source.
// The fresh value still refills the cache.
func WithBypass(ctx context.Context) context.Context {
	return context.WithValue(ctx, bypassKey{}, true)
}

// Bypassed reports whether ctx was marked by WithBypass.
func Bypassed(ctx context.Context) bool {
	v, _ := ctx.Value(bypassKey{}).(bool)
	return v
}

// Load returns the cached value for key, or calls fetch and caches its
// result. Cache failures are logged and never fail the call.
func (t *Typed[T]) Load(ctx context.Context, key string, fetch func(context.Context) (T, error)) (T, error) {
	if t == nil || t.c == nil {
		return fetch(ctx)
	}

	if !Bypassed(ctx) {
		if b, err := t.c.Get(ctx, key); err == nil {
			var v T
			if err := json.Unmarshal(b, &v); err == nil {
				return v, nil
			}
			slog.Warn("discarding undecodable cache entry", "key", key)
		}
	}

	t.mu.Lock()
	started := t.gen[key]
	t.mu.Unlock()

	v, err := fetch(ctx)
	if err != nil {
		return v, err
	}

	b, err := json.Marshal(v)
	if err != nil {
		slog.Warn("cache encode failed", "key", key, "error", err)
		return v, nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.gen[key] != started {
		slog.Debug("skipping cache fill invalidated during fetch", "key", key)
		return v, nil
	}
	if err := t.c.Set(ctx, key, b, t.ttl); err != nil {
		slog.Warn("cache set failed", "key", key, "error", err)
	}
	return v, nil
}

// Forget deletes keys, logging failures. Fills of these keys that are
// still in flight are discarded.
func (t *Typed[T]) Forget(ctx context.Context, keys ...string) {
	if t == nil || t.c == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, k := range keys {
		t.gen[k]++
		if err := t.c.Delete(ctx, k); err != nil {
			slog.Warn("cache delete failed", "key", k, "error", err)
		}
	}
}
