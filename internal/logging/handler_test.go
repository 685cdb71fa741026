// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/gymflex/gymflex-go/internal/model"
	"github.com/gymflex/gymflex-go/internal/store"
	"github.com/gymflex/gymflex-go/internal/testutil"
)

// discardHandler is a slog.Handler that discards all logs.
type discardHandler struct{}

func (h discardHandler) Enabled(context.Context, slog.Level) bool  { return true }
func (h discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (h discardHandler) WithAttrs([]slog.Attr) slog.Handler        { return h }
func (h discardHandler) WithGroup(string) slog.Handler             { return h }

func recentEvents(t *testing.T, q *store.Queries) []store.Event {
	t.Helper()
	events, err := q.ListRecentEvents(context.Background(), 10)
	if err != nil {
		t.Fatalf("ListRecentEvents: %v", err)
	}
	return events
}

func TestEventLogHandler_Levels(t *testing.T) {
	q := store.New(testutil.TestDB(t))
	logger := slog.New(NewEventLogHandler(discardHandler{}, q))

	logger.Debug("debug detail")
	logger.Info("server started")
	logger.Warn("slow query detected", "duration_ms", 5000)
	logger.Error("database connection failed", "host", "localhost")

	events := recentEvents(t, q)
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	byMessage := map[string]string{}
	for _, e := range events {
		byMessage[e.Message] = e.Level
	}
	if byMessage["slow query detected"] != model.EventLevelWarning {
		t.Errorf("warn event level = %q", byMessage["slow query detected"])
	}
	if byMessage["database connection failed"] != model.EventLevelError {
		t.Errorf("error event level = %q", byMessage["database connection failed"])
	}
}

func TestEventLogHandler_CustomLevel(t *testing.T) {
	q := store.New(testutil.TestDB(t))
	logger := slog.New(NewEventLogHandlerWithLevel(discardHandler{}, q, slog.LevelInfo))

	logger.Info("trainer created", "trainer_id", 4)

	events := recentEvents(t, q)
	if len(events) != 1 || events[0].Level != model.EventLevelInfo {
		t.Fatalf("events = %+v", events)
	}
}

func TestEventLogHandler_Category(t *testing.T) {
	tests := []struct {
		message  string
		attrs    []any
		category string
	}{
		{"login failed", nil, model.EventCategoryAuth},
		{"password rehash not saved", nil, model.EventCategoryAuth},
		{"trainer insert failed after image upload", nil, model.EventCategoryTrainer},
		{"schedule entries with unknown day", nil, model.EventCategorySchedule},
		{"contact message not delivered", nil, model.EventCategoryContact},
		{"disk almost full", nil, model.EventCategorySystem},
		{"something odd", []any{"category", model.EventCategoryContact}, model.EventCategoryContact},
	}
	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			q := store.New(testutil.TestDB(t))
			slog.New(NewEventLogHandler(discardHandler{}, q)).Warn(tt.message, tt.attrs...)

			events := recentEvents(t, q)
			if len(events) != 1 {
				t.Fatalf("expected 1 event, got %d", len(events))
			}
			if events[0].Category != tt.category {
				t.Errorf("category = %q, want %q", events[0].Category, tt.category)
			}
		})
	}
}

func TestEventLogHandler_Metadata(t *testing.T) {
	db := testutil.TestDB(t)
	q := store.New(db)
	uid := testutil.CreateUser(t, db, "owner@gymflex.test").ID
	logger := slog.New(NewEventLogHandler(discardHandler{}, q)).With("request_id", "abc")

	logger.Warn("login failed", "user_id", uid, "email", `a"b@example.com`, "category", "auth")

	events := recentEvents(t, q)
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	e := events[0]
	if !e.UserID.Valid || e.UserID.Int64 != uid {
		t.Errorf("UserID = %+v, want %d", e.UserID, uid)
	}

	var meta map[string]string
	if err := json.Unmarshal([]byte(e.Metadata), &meta); err != nil {
		t.Fatalf("metadata is not JSON: %q: %v", e.Metadata, err)
	}
	if meta["request_id"] != "abc" || meta["email"] != `a"b@example.com` {
		t.Errorf("metadata = %v", meta)
	}
	if _, ok := meta["category"]; ok {
		t.Error("category should not be repeated in metadata")
	}
}

func TestEventLogHandler_ForwardsToInner(t *testing.T) {
	q := store.New(testutil.TestDB(t))
	var buf bytes.Buffer
	inner := slog.NewTextHandler(&buf, nil)
	logger := slog.New(NewEventLogHandler(inner, q)).WithGroup("http")

	logger.Error("request failed", "status", 500)

	if !strings.Contains(buf.String(), "request failed") || !strings.Contains(buf.String(), "http.status=500") {
		t.Errorf("inner handler output = %q", buf.String())
	}
	if len(recentEvents(t, q)) != 1 {
		t.Error("grouped logger should still write events")
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "warn", nil)
	logger.Info("hidden")
	logger.Warn("shown")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestEventLogHandler_UnknownUserKeepsEvent(t *testing.T) {
	q := store.New(testutil.TestDB(t))
	slog.New(NewEventLogHandler(discardHandler{}, q)).Warn("trainer delete failed", "user_id", int64(42))

	events := recentEvents(t, q)
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].UserID.Valid {
		t.Errorf("UserID = %+v, want NULL for a missing user", events[0].UserID)
	}
	if !strings.Contains(events[0].Metadata, `"user_id":"42"`) {
		t.Errorf("metadata = %q, want the user id kept", events[0].Metadata)
	}
}

type failingEvents struct{}

func (failingEvents) CreateEvent(context.Context, store.CreateEventParams) (store.Event, error) {
	return store.Event{}, errors.New("disk I/O error")
}

func TestEventLogHandler_ReportsWriteFailure(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewEventLogHandler(slog.NewTextHandler(&buf, nil), failingEvents{}))

	logger.Warn("contact message not delivered")

	out := buf.String()
	if !strings.Contains(out, "event log write failed") || !strings.Contains(out, "disk I/O error") {
		t.Errorf("inner handler output = %q", out)
	}
}
