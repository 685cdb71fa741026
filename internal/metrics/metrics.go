// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package metrics exposes Prometheus counters for HTTP traffic, admin
// mutations, contact submissions and session changes.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymflex_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gymflex_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gymflex_http_requests_in_flight",
			Help: "Current number of HTTP requests being served",
		},
	)

	// MutationsTotal counts admin writes by entity (trainer, schedule),
	// action (create, update, delete) and result (ok, error, cancelled).
	MutationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymflex_mutations_total",
			Help: "Admin create/update/delete operations",
		},
		[]string{"entity", "action", "result"},
	)

	UploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymflex_image_uploads_total",
			Help: "Trainer image uploads",
		},
		[]string{"result"},
	)

	ContactMessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymflex_contact_messages_total",
			Help: "Contact form submissions by delivery status",
		},
		[]string{"status"},
	)

	SessionEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymflex_session_events_total",
			Help: "Admin sign-ins and sign-outs",
		},
		[]string{"event"},
	)

	HiddenScheduleEntries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gymflex_timetable_hidden_entries_total",
			Help: "Schedule entries not shown because an earlier entry held the same cell",
		},
	)
)

// RecordMutation increments MutationsTotal.
func RecordMutation(entity, action string, err error) {
	MutationsTotal.WithLabelValues(entity, action, resultLabel(err)).Inc()
}

// RecordUpload increments UploadsTotal.
func RecordUpload(err error) {
	UploadsTotal.WithLabelValues(resultLabel(err)).Inc()
}

func resultLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware records request counts and latency keyed by the chi route
// pattern, so ids in paths do not explode label cardinality.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/metrics" {
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()
		HTTPRequestsInFlight.Inc()
		defer HTTPRequestsInFlight.Dec()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		HTTPRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		HTTPRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
