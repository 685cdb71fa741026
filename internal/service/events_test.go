// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/gymflex/gymflex-go/internal/model"
	"github.com/gymflex/gymflex-go/internal/session"
	"github.com/gymflex/gymflex-go/internal/store"
	"github.com/gymflex/gymflex-go/internal/testutil"
)

func TestLogEvent(t *testing.T) {
	db := testutil.TestDB(t)
	q := store.New(db)
	svc := NewEventService(q, fixedClock)
	ctx := context.Background()

	uid := testutil.CreateUser(t, db, "owner@gymflex.test").ID
	if err := svc.LogEvent(ctx, model.EventLevelWarning, model.EventCategoryTrainer, "Image upload failed", &uid, map[string]any{"trainer_id": 5}); err != nil {
		t.Fatalf("LogEvent: %v", err)
	}
	if err := svc.LogInfo(ctx, model.EventCategorySystem, "Started", nil, nil); err != nil {
		t.Fatalf("LogInfo: %v", err)
	}

	events, err := q.ListRecentEvents(ctx, 10)
	if err != nil {
		t.Fatalf("ListRecentEvents: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	// Same timestamp, so the higher id comes first.
	started, upload := events[0], events[1]
	if started.Metadata != "{}" || started.UserID.Valid {
		t.Errorf("system event = %+v", started)
	}
	if upload.Level != model.EventLevelWarning || upload.UserID.Int64 != uid {
		t.Errorf("warning event = %+v", upload)
	}
	var meta map[string]any
	if err := json.Unmarshal([]byte(upload.Metadata), &meta); err != nil || meta["trainer_id"] != float64(5) {
		t.Errorf("metadata = %q", upload.Metadata)
	}
}

func TestAuditSessions(t *testing.T) {
	db := testutil.TestDB(t)
	q := store.New(db)
	svc := NewEventService(q, fixedClock)
	admin := session.Admin{ID: testutil.CreateUser(t, db, "a@b.c").ID, Email: "a@b.c"}

	svc.AuditSessions(session.Event{Kind: session.SignedIn, Admin: admin})
	svc.AuditSessions(session.Event{Kind: session.SignedOut, Admin: admin})

	events, err := q.ListRecentEvents(context.Background(), 10)
	if err != nil {
		t.Fatalf("ListRecentEvents: %v", err)
	}
	if len(events) != 2 || events[0].Message != "Admin signed out" || events[1].Message != "Admin signed in" {
		t.Errorf("events = %+v", events)
	}
	for _, e := range events {
		if e.Category != model.EventCategoryAuth {
			t.Errorf("category = %q, want auth", e.Category)
		}
	}
}
