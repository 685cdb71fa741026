// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package logging sets up slog for the application. EventLogHandler copies
// WARN and ERROR records into the events table so operational problems can
// be inspected after the fact.
package logging

import (
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/gymflex/gymflex-go/internal/model"
	"github.com/gymflex/gymflex-go/internal/store"
)

// EventWriter persists one event.
type EventWriter interface {
	CreateEvent(ctx context.Context, arg store.CreateEventParams) (store.Event, error)
}

// EventLogHandler wraps another handler and also writes records at or above
// its level to the event log.
type EventLogHandler struct {
	inner  slog.Handler
	events EventWriter
	level  slog.Level
	attrs  []slog.Attr
}

// NewEventLogHandler forwards WARN and above to events.
func NewEventLogHandler(inner slog.Handler, events EventWriter) *EventLogHandler {
	return NewEventLogHandlerWithLevel(inner, events, slog.LevelWarn)
}

func NewEventLogHandlerWithLevel(inner slog.Handler, events EventWriter, level slog.Level) *EventLogHandler {
	return &EventLogHandler{inner: inner, events: events, level: level}
}

// Enabled implements slog.Handler.
func (h *EventLogHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (h *EventLogHandler) Handle(ctx context.Context, r slog.Record) error {
	if err := h.inner.Handle(ctx, r); err != nil {
		return err
	}
	if r.Level >= h.level {
		h.writeEvent(r)
	}
	return nil
}

// WithAttrs implements slog.Handler.
func (h *EventLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &EventLogHandler{
		inner:  h.inner.WithAttrs(attrs),
		events: h.events,
		level:  h.level,
		attrs:  append(append([]slog.Attr(nil), h.attrs...), attrs...),
	}
}

// WithGroup implements slog.Handler.
func (h *EventLogHandler) WithGroup(name string) slog.Handler {
	return &EventLogHandler{
		inner:  h.inner.WithGroup(name),
		events: h.events,
		level:  h.level,
		attrs:  h.attrs,
	}
}

func (h *EventLogHandler) writeEvent(r slog.Record) {
	meta := make(map[string]string)
	var category string
	var userID sql.NullInt64

	collect := func(a slog.Attr) bool {
		switch a.Key {
		case "category":
			category = a.Value.String()
		case "user_id":
			if a.Value.Kind() == slog.KindInt64 && a.Value.Int64() > 0 {
				userID = sql.NullInt64{Int64: a.Value.Int64(), Valid: true}
			}
			meta[a.Key] = a.Value.String()
		default:
			meta[a.Key] = a.Value.String()
		}
		return true
	}
	for _, a := range h.attrs {
		collect(a)
	}
	r.Attrs(collect)

	if category == "" {
		category = inferCategory(r.Message)
	}
	metadata := "{}"
	if len(meta) > 0 {
		if b, err := json.Marshal(meta); err == nil {
			metadata = string(b)
		}
	}

	// The request context may already be cancelled; the event should still land.
	ctx := context.Background()
	ev := store.CreateEventParams{
		Level:     eventLevel(r.Level),
		Category:  category,
		Message:   r.Message,
		UserID:    userID,
		Metadata:  metadata,
		CreatedAt: r.Time,
	}
	_, err := h.events.CreateEvent(ctx, ev)
	if err != nil && ev.UserID.Valid {
		// The user may be gone; the id is still in the metadata.
		ev.UserID = sql.NullInt64{}
		_, err = h.events.CreateEvent(ctx, ev)
	}
	if err != nil {
		fail := slog.NewRecord(time.Now(), slog.LevelError, "event log write failed", 0)
		fail.AddAttrs(slog.String("event", r.Message), slog.Any("error", err))
		_ = h.inner.Handle(ctx, fail)
	}
}

func eventLevel(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return model.EventLevelError
	case level >= slog.LevelWarn:
		return model.EventLevelWarning
	default:
		return model.EventLevelInfo
	}
}

func inferCategory(message string) string {
	msg := strings.ToLower(message)
	switch {
	case strings.Contains(msg, "login") || strings.Contains(msg, "logout") ||
		strings.Contains(msg, "password") || strings.Contains(msg, "session") || strings.Contains(msg, "auth"):
		return model.EventCategoryAuth
	case strings.Contains(msg, "schedule"):
		return model.EventCategorySchedule
	case strings.Contains(msg, "trainer") || strings.Contains(msg, "image") || strings.Contains(msg, "upload"):
		return model.EventCategoryTrainer
	case strings.Contains(msg, "contact") || strings.Contains(msg, "mail"):
		return model.EventCategoryContact
	default:
		return model.EventCategorySystem
	}
}

// ParseLevel maps a config value to a slog level; unknown values mean info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// New builds the application logger: a text handler on w at level, wrapped
// with an EventLogHandler when events is non-nil.
func New(w io.Writer, level string, events EventWriter) *slog.Logger {
	var h slog.Handler = slog.NewTextHandler(w, &slog.HandlerOptions{Level: ParseLevel(level)})
	if events != nil {
		h = NewEventLogHandler(h, events)
	}
	return slog.New(h)
}
