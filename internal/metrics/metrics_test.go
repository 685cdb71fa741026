// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMiddlewareUsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware)
	r.Get("/schedule/{trainerID}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	before := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/schedule/{trainerID}", "418"))
	for _, id := range []string{"1", "2", "3"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest("GET", "/schedule/"+id, nil))
	}
	after := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/schedule/{trainerID}", "418"))
	assert.Equal(t, before+3, after)
}

func TestMiddlewareDefaultsStatusOK(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware)
	r.Get("/about", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "about")
	})

	before := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/about", "200"))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/about", nil))
	assert.Equal(t, before+1, testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/about", "200")))
}

func TestRecordMutation(t *testing.T) {
	ok := MutationsTotal.WithLabelValues("trainer", "create", "ok")
	failed := MutationsTotal.WithLabelValues("trainer", "create", "error")
	okBefore, failedBefore := testutil.ToFloat64(ok), testutil.ToFloat64(failed)

	RecordMutation("trainer", "create", nil)
	RecordMutation("trainer", "create", errors.New("boom"))

	assert.Equal(t, okBefore+1, testutil.ToFloat64(ok))
	assert.Equal(t, failedBefore+1, testutil.ToFloat64(failed))
}

func TestHandlerExposesMetrics(t *testing.T) {
	RecordUpload(nil)
	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "gymflex_image_uploads_total"))
}
