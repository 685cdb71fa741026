// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"runtime"
	"syscall"
	"time"

	"github.com/gymflex/gymflex-go/internal/cache"
	"github.com/gymflex/gymflex-go/internal/middleware"
	"github.com/gymflex/gymflex-go/internal/version"
)

// HealthHandler handles health check requests.
type HealthHandler struct {
	db         *sql.DB
	cache      cache.Cache
	uploadsDir string
	startTime  time.Time
}

// NewHealthHandler creates a new health handler. c may be nil.
func NewHealthHandler(db *sql.DB, c cache.Cache, uploadsDir string) *HealthHandler {
	return &HealthHandler{db: db, cache: c, uploadsDir: uploadsDir, startTime: time.Now()}
}

// HealthStatus is the admin view of /health; anonymous callers only get Status.
type HealthStatus struct {
	Status    string           `json:"status"`
	Timestamp time.Time        `json:"timestamp,omitzero"`
	Uptime    string           `json:"uptime,omitempty"`
	Version   *version.Info    `json:"version,omitempty"`
	Checks    map[string]Check `json:"checks,omitempty"`
	Cache     *cache.Stats     `json:"cache,omitempty"`
	System    *SystemInfo      `json:"system,omitempty"`
}

// Check represents a single health check result.
type Check struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Latency string `json:"latency,omitempty"`
}

// SystemInfo contains process-level information.
type SystemInfo struct {
	GoVersion    string `json:"go_version"`
	NumGoroutine int    `json:"num_goroutines"`
	MemAlloc     string `json:"mem_alloc"`
}

// Health handles GET /health. The database must answer a ping; low disk
// space in the uploads directory degrades the status.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	dbCheck := h.checkDatabase(r.Context())
	diskCheck := h.checkDiskSpace()

	status := HealthStatus{Status: "healthy"}
	if dbCheck.Status != "healthy" || diskCheck.Status != "healthy" {
		status.Status = "degraded"
	}

	if middleware.IsAdmin(r) {
		info := version.Get()
		status.Timestamp = time.Now().UTC()
		status.Uptime = time.Since(h.startTime).Round(time.Second).String()
		status.Version = &info
		status.Checks = map[string]Check{"database": dbCheck, "disk": diskCheck}
		if h.cache != nil {
			// Reads fall back to the store, so the cache never degrades the status.
			status.Checks["cache"] = h.checkCache(r.Context())
			stats := h.cache.Stats()
			status.Cache = &stats
		}
		if r.URL.Query().Get("verbose") == "true" {
			var m runtime.MemStats
			runtime.ReadMemStats(&m)
			status.System = &SystemInfo{
				GoVersion:    runtime.Version(),
				NumGoroutine: runtime.NumGoroutine(),
				MemAlloc:     formatBytes(m.Alloc),
			}
		}
	}

	code := http.StatusOK
	if status.Status != "healthy" {
		code = http.StatusServiceUnavailable
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(status)
}

func (h *HealthHandler) checkDatabase(ctx context.Context) Check {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	start := time.Now()
	err := h.db.PingContext(ctx)
	latency := time.Since(start).String()
	if err != nil {
		return Check{Status: "unhealthy", Message: err.Error(), Latency: latency}
	}
	return Check{Status: "healthy", Latency: latency}
}

func (h *HealthHandler) checkCache(ctx context.Context) Check {
	p, ok := h.cache.(interface{ Ping(context.Context) error })
	if !ok {
		return Check{Status: "healthy", Message: "in-memory"}
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	start := time.Now()
	err := p.Ping(ctx)
	latency := time.Since(start).String()
	if err != nil {
		return Check{Status: "unhealthy", Message: err.Error(), Latency: latency}
	}
	return Check{Status: "healthy", Message: "redis", Latency: latency}
}

func (h *HealthHandler) checkDiskSpace() Check {
	if _, err := os.Stat(h.uploadsDir); os.IsNotExist(err) {
		return Check{Status: "healthy", Message: "uploads directory does not exist yet"}
	}

	var stat syscall.Statfs_t
	if err := syscall.Statfs(h.uploadsDir, &stat); err != nil {
		return Check{Status: "unhealthy", Message: "statfs: " + err.Error()}
	}
	available := stat.Bavail * uint64(stat.Bsize)

	const minSpace = 100 * 1024 * 1024
	if available < minSpace {
		return Check{Status: "degraded", Message: "low disk space: " + formatBytes(available)}
	}
	return Check{Status: "healthy", Message: formatBytes(available) + " available"}
}

func formatBytes(bytes uint64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)
	switch {
	case bytes >= GB:
		return fmt.Sprintf("%.2f GB", float64(bytes)/GB)
	case bytes >= MB:
		return fmt.Sprintf("%.2f MB", float64(bytes)/MB)
	case bytes >= KB:
		return fmt.Sprintf("%.2f KB", float64(bytes)/KB)
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
