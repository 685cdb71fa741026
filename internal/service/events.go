// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/gymflex/gymflex-go/internal/metrics"
	"github.com/gymflex/gymflex-go/internal/model"
	"github.com/gymflex/gymflex-go/internal/session"
	"github.com/gymflex/gymflex-go/internal/store"
)

// EventStore is the subset of store.Queries used for the event log.
type EventStore interface {
	CreateEvent(ctx context.Context, arg store.CreateEventParams) (store.Event, error)
}

// EventService writes the audit trail.
type EventService struct {
	store EventStore
	clock Clock
}

func NewEventService(st EventStore, clock Clock) *EventService {
	return &EventService{store: st, clock: clock}
}

// LogEvent creates an event log entry. userID may be nil.
func (s *EventService) LogEvent(ctx context.Context, level, category, message string, userID *int64, metadata map[string]any) error {
	var uid sql.NullInt64
	if userID != nil {
		uid = sql.NullInt64{Int64: *userID, Valid: true}
	}

	meta := "{}"
	if metadata != nil {
		if b, err := json.Marshal(metadata); err == nil {
			meta = string(b)
		}
	}

	_, err := s.store.CreateEvent(ctx, store.CreateEventParams{
		Level:     level,
		Category:  category,
		Message:   message,
		UserID:    uid,
		Metadata:  meta,
		CreatedAt: s.clock.now(),
	})
	if err != nil {
		slog.Error("failed to log event", "category", category, "error", err)
		return fmt.Errorf("logging event: %w", err)
	}
	return nil
}

func (s *EventService) LogInfo(ctx context.Context, category, message string, userID *int64, metadata map[string]any) error {
	return s.LogEvent(ctx, model.EventLevelInfo, category, message, userID, metadata)
}


// AuditSessions is a session.Observer subscriber recording sign-ins and
// sign-outs in the event log and in metrics.
func (s *EventService) AuditSessions(ev session.Event) {
	metrics.SessionEventsTotal.WithLabelValues(string(ev.Kind)).Inc()

	msg := "Admin signed in"
	if ev.Kind == session.SignedOut {
		msg = "Admin signed out"
	}
	id := ev.Admin.ID
	// LogEvent has already logged a failure.
	_ = s.LogInfo(context.Background(), model.EventCategoryAuth, msg, &id, map[string]any{"email": ev.Admin.Email})
}
