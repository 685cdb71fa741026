// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package cache holds read-through copies of the trainer directory and
// per-trainer schedules. Values are JSON bytes so the same code runs on the
// in-process map and on Redis.
package cache

import (
	"context"
	"fmt"
	"time"
)

// Cache is implemented by MemoryCache and RedisCache. Implementations are
// safe for concurrent use.
type Cache interface {
	// Get returns ErrCacheMiss for absent or expired keys.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set stores value; a zero ttl means the cache default.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	// Clear drops every entry, used at startup so rows cached by an older
	// release are never served.
	Clear(ctx context.Context) error
	Stats() Stats
	Close() error
}

// Stats are hit/miss counters since start.
type Stats struct {
	Hits    int64   `json:"hits"`
	Misses  int64   `json:"misses"`
	Sets    int64   `json:"sets"`
	HitRate float64 `json:"hit_rate"`
}

func newStats(hits, misses, sets int64) Stats {
	s := Stats{Hits: hits, Misses: misses, Sets: sets}
	if total := hits + misses; total > 0 {
		s.HitRate = float64(hits) / float64(total) * 100
	}
	return s
}

// Error is a cache sentinel error.
type Error string

func (e Error) Error() string { return string(e) }

const (
	ErrCacheMiss   Error = "cache miss"
	ErrCacheClosed Error = "cache closed"
)

// Keys used by the services.
const (
	TrainerListKey = "trainers:list"
	schedulePrefix = "schedules:trainer:"
	trainerPrefix  = "trainers:"
)

// ScheduleKey is the key for one trainer's schedule rows.
func ScheduleKey(trainerID int64) string {
	return fmt.Sprintf("%s%d", schedulePrefix, trainerID)
}

// TrainerKey is the key for a single trainer.
func TrainerKey(trainerID int64) string {
	return fmt.Sprintf("%sid:%d", trainerPrefix, trainerID)
}

// Options selects and tunes the backend.
type Options struct {
	RedisURL   string
	Prefix     string
	DefaultTTL time.Duration
}

// New returns a RedisCache when RedisURL is set, otherwise a MemoryCache.
func New(opts Options) (Cache, error) {
	if opts.RedisURL != "" {
		return NewRedisCache(RedisOptions{
			URL:        opts.RedisURL,
			Prefix:     opts.Prefix,
			DefaultTTL: opts.DefaultTTL,
		})
	}
	return NewMemoryCache(opts.DefaultTTL, time.Minute), nil
}
