// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gymflex/gymflex-go/internal/cache"
	"github.com/gymflex/gymflex-go/internal/metrics"
	"github.com/gymflex/gymflex-go/internal/model"
	"github.com/gymflex/gymflex-go/internal/store"
	"github.com/gymflex/gymflex-go/internal/timetable"
)

// DeleteScheduleKey is the translation key of the entry delete prompt.
const DeleteScheduleKey = "admin_schedule.confirm_delete"

// ScheduleStore is the subset of store.Queries used for schedule entries.
type ScheduleStore interface {
	GetTrainer(ctx context.Context, id int64) (store.Trainer, error)
	ListSchedulesByTrainer(ctx context.Context, trainerID int64) ([]store.Schedule, error)
	GetSchedule(ctx context.Context, id int64) (store.Schedule, error)
	CreateSchedule(ctx context.Context, arg store.CreateScheduleParams) (store.Schedule, error)
	UpdateSchedule(ctx context.Context, arg store.UpdateScheduleParams) (store.Schedule, error)
	DeleteSchedule(ctx context.Context, id int64) error
}

// Timetable is a trainer with their projected week.
type Timetable struct {
	Trainer store.Trainer
	Entries []store.Schedule
	Grid    timetable.Grid[store.Schedule]
}

// ScheduleService manages one trainer's weekly schedule.
type ScheduleService struct {
	store   ScheduleStore
	entries *cache.Typed[[]store.Schedule]
	clock   Clock
}

func NewScheduleService(st ScheduleStore, c cache.Cache, ttl time.Duration, clock Clock) *ScheduleService {
	return &ScheduleService{
		store:   st,
		entries: cache.NewTyped[[]store.Schedule](c, ttl),
		clock:   clock,
	}
}

// Entries returns the trainer's entries in insertion order.
func (s *ScheduleService) Entries(ctx context.Context, trainerID int64) ([]store.Schedule, error) {
	return s.entries.Load(ctx, cache.ScheduleKey(trainerID), func(ctx context.Context) ([]store.Schedule, error) {
		return s.store.ListSchedulesByTrainer(ctx, trainerID)
	})
}

// Timetable loads the trainer and projects their entries into the weekly grid.
func (s *ScheduleService) Timetable(ctx context.Context, trainerID int64) (*Timetable, error) {
	tr, err := s.store.GetTrainer(ctx, trainerID)
	if err != nil {
		return nil, notFound(err)
	}
	entries, err := s.Entries(ctx, trainerID)
	if err != nil {
		return nil, fmt.Errorf("listing schedule for trainer %d: %w", trainerID, err)
	}

	grid := timetable.Project(entries)
	if n := len(grid.Hidden); n > 0 {
		metrics.HiddenScheduleEntries.Add(float64(n))
		slog.Debug("schedule entries share a cell", "trainer_id", trainerID, "hidden", n)
	}
	if n := len(grid.Unplaced); n > 0 {
		slog.Warn("schedule entries with unknown day", "trainer_id", trainerID, "count", n)
	}
	return &Timetable{Trainer: tr, Entries: entries, Grid: grid}, nil
}

// Get returns one entry, which must belong to trainerID.
func (s *ScheduleService) Get(ctx context.Context, trainerID, id int64) (store.Schedule, error) {
	e, err := s.store.GetSchedule(ctx, id)
	if err != nil {
		return store.Schedule{}, notFound(err)
	}
	if e.TrainerID != trainerID {
		return store.Schedule{}, ErrNotFound
	}
	return e, nil
}

// Create adds an entry to the trainer's week.
func (s *ScheduleService) Create(ctx context.Context, trainerID int64, in model.ScheduleInput) (store.Schedule, error) {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return store.Schedule{}, err
	}
	if _, err := s.store.GetTrainer(ctx, trainerID); err != nil {
		return store.Schedule{}, notFound(err)
	}

	now := s.clock.now()
	e, err := s.store.CreateSchedule(ctx, store.CreateScheduleParams{
		TrainerID: trainerID,
		Day:       string(in.Day),
		Time:      in.TimeLabel(),
		Class:     in.Class,
		Duration:  in.Duration,
		CreatedAt: now,
		UpdatedAt: now,
	})
	s.invalidate(ctx, trainerID)
	metrics.RecordMutation("schedule", "create", err)
	if err != nil {
		return store.Schedule{}, fmt.Errorf("creating schedule entry: %w", err)
	}
	slog.Info("schedule entry created", "trainer_id", trainerID, "schedule_id", e.ID, "day", e.Day, "time", e.Time)
	return e, nil
}

// Update replaces every field of an entry.
func (s *ScheduleService) Update(ctx context.Context, trainerID, id int64, in model.ScheduleInput) (store.Schedule, error) {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return store.Schedule{}, err
	}
	if _, err := s.Get(ctx, trainerID, id); err != nil {
		return store.Schedule{}, err
	}

	e, err := s.store.UpdateSchedule(ctx, store.UpdateScheduleParams{
		ID:        id,
		TrainerID: trainerID,
		Day:       string(in.Day),
		Time:      in.TimeLabel(),
		Class:     in.Class,
		Duration:  in.Duration,
		UpdatedAt: s.clock.now(),
	})
	s.invalidate(ctx, trainerID)
	metrics.RecordMutation("schedule", "update", err)
	if err != nil {
		return store.Schedule{}, fmt.Errorf("updating schedule entry %d: %w", id, notFound(err))
	}
	slog.Info("schedule entry updated", "trainer_id", trainerID, "schedule_id", id)
	return e, nil
}

// Delete removes an entry after confirm approves.
func (s *ScheduleService) Delete(ctx context.Context, trainerID, id int64, confirm Confirmer) error {
	if confirm == nil || !confirm.Confirm(ctx, DeleteScheduleKey) {
		metrics.MutationsTotal.WithLabelValues("schedule", "delete", "cancelled").Inc()
		return ErrNotConfirmed
	}
	if _, err := s.Get(ctx, trainerID, id); err != nil {
		return err
	}
	err := s.store.DeleteSchedule(ctx, id)
	s.invalidate(ctx, trainerID)
	metrics.RecordMutation("schedule", "delete", err)
	if err != nil {
		return fmt.Errorf("deleting schedule entry %d: %w", id, err)
	}
	slog.Info("schedule entry deleted", "trainer_id", trainerID, "schedule_id", id)
	return nil
}

func (s *ScheduleService) invalidate(ctx context.Context, trainerID int64) {
	s.entries.Forget(ctx, cache.ScheduleKey(trainerID))
}
