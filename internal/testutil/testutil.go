// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package testutil provides shared test helpers: migrated SQLite databases,
// quiet loggers and seed rows.
package testutil

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/gymflex/gymflex-go/internal/store"
)

// DiscardLogger drops everything.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// TestDB returns a migrated database in t's temp dir, closed on cleanup.
func TestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := store.NewDB(filepath.Join(t.TempDir(), "gymflex-test.db"))
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := store.Migrate(db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	return db
}

// CreateUser inserts an admin user with a placeholder password hash.
func CreateUser(t *testing.T, db *sql.DB, email string) store.User {
	t.Helper()
	now := time.Now().UTC()
	u, err := store.New(db).CreateUser(context.Background(), store.CreateUserParams{
		Email:        email,
		PasswordHash: "not-a-real-hash",
		Name:         "Admin",
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	return u
}

// CreateTrainer inserts a trainer created at the given time.
func CreateTrainer(t *testing.T, db *sql.DB, name string, at time.Time) store.Trainer {
	t.Helper()
	tr, err := store.New(db).CreateTrainer(context.Background(), store.CreateTrainerParams{
		Name:      name,
		Specialty: "Strength",
		Bio:       "Trains " + name,
		CreatedAt: at,
		UpdatedAt: at,
	})
	if err != nil {
		t.Fatalf("CreateTrainer: %v", err)
	}
	return tr
}

// CreateSchedule inserts one schedule entry.
func CreateSchedule(t *testing.T, db *sql.DB, trainerID int64, day, timeLabel, class string) store.Schedule {
	t.Helper()
	now := time.Now().UTC()
	s, err := store.New(db).CreateSchedule(context.Background(), store.CreateScheduleParams{
		TrainerID: trainerID,
		Day:       day,
		Time:      timeLabel,
		Class:     class,
		Duration:  "60 min",
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("CreateSchedule: %v", err)
	}
	return s
}
