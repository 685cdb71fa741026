// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

const scheduleColumns = `id, trainer_id, day, time, class, duration, created_at, updated_at`

func scanSchedule(row interface{ Scan(...any) error }) (Schedule, error) {
	var s Schedule
	err := row.Scan(
		&s.ID,
		&s.TrainerID,
		&s.Day,
		&s.Time,
		&s.Class,
		&s.Duration,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	return s, err
}

const listSchedulesByTrainer = `-- name: ListSchedulesByTrainer :many
SELECT ` + scheduleColumns + ` FROM schedules WHERE trainer_id = ? ORDER BY id ASC`

// ListSchedulesByTrainer returns a trainer's entries in insertion order.
func (q *Queries) ListSchedulesByTrainer(ctx context.Context, trainerID int64) ([]Schedule, error) {
	rows, err := q.db.QueryContext(ctx, listSchedulesByTrainer, trainerID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	items := []Schedule{}
	for rows.Next() {
		s, err := scanSchedule(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, s)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const getSchedule = `-- name: GetSchedule :one
SELECT ` + scheduleColumns + ` FROM schedules WHERE id = ?`

func (q *Queries) GetSchedule(ctx context.Context, id int64) (Schedule, error) {
	return scanSchedule(q.db.QueryRowContext(ctx, getSchedule, id))
}

const createSchedule = `-- name: CreateSchedule :one
INSERT INTO schedules (trainer_id, day, time, class, duration, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
RETURNING ` + scheduleColumns

type CreateScheduleParams struct {
	TrainerID int64     `json:"trainer_id"`
	Day       string    `json:"day"`
	Time      string    `json:"time"`
	Class     string    `json:"class"`
	Duration  string    `json:"duration"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (q *Queries) CreateSchedule(ctx context.Context, arg CreateScheduleParams) (Schedule, error) {
	row := q.db.QueryRowContext(ctx, createSchedule,
		arg.TrainerID,
		arg.Day,
		arg.Time,
		arg.Class,
		arg.Duration,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return scanSchedule(row)
}

const updateSchedule = `-- name: UpdateSchedule :one
UPDATE schedules
SET trainer_id = ?, day = ?, time = ?, class = ?, duration = ?, updated_at = ?
WHERE id = ?
RETURNING ` + scheduleColumns

type UpdateScheduleParams struct {
	TrainerID int64     `json:"trainer_id"`
	Day       string    `json:"day"`
	Time      string    `json:"time"`
	Class     string    `json:"class"`
	Duration  string    `json:"duration"`
	UpdatedAt time.Time `json:"updated_at"`
	ID        int64     `json:"id"`
}

func (q *Queries) UpdateSchedule(ctx context.Context, arg UpdateScheduleParams) (Schedule, error) {
	row := q.db.QueryRowContext(ctx, updateSchedule,
		arg.TrainerID,
		arg.Day,
		arg.Time,
		arg.Class,
		arg.Duration,
		arg.UpdatedAt,
		arg.ID,
	)
	return scanSchedule(row)
}

const deleteSchedule = `-- name: DeleteSchedule :exec
DELETE FROM schedules WHERE id = ?`

func (q *Queries) DeleteSchedule(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, deleteSchedule, id)
	return err
}
