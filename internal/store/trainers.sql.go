// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

const trainerColumns = `id, name, specialty, bio, image_url, created_at, updated_at`

func scanTrainer(row interface{ Scan(...any) error }) (Trainer, error) {
	var t Trainer
	err := row.Scan(
		&t.ID,
		&t.Name,
		&t.Specialty,
		&t.Bio,
		&t.ImageURL,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	return t, err
}

const listTrainers = `-- name: ListTrainers :many
SELECT ` + trainerColumns + ` FROM trainers ORDER BY created_at ASC, id ASC`

func (q *Queries) ListTrainers(ctx context.Context) ([]Trainer, error) {
	rows, err := q.db.QueryContext(ctx, listTrainers)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	items := []Trainer{}
	for rows.Next() {
		t, err := scanTrainer(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, t)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const getTrainer = `-- name: GetTrainer :one
SELECT ` + trainerColumns + ` FROM trainers WHERE id = ?`

func (q *Queries) GetTrainer(ctx context.Context, id int64) (Trainer, error) {
	return scanTrainer(q.db.QueryRowContext(ctx, getTrainer, id))
}

const createTrainer = `-- name: CreateTrainer :one
INSERT INTO trainers (name, specialty, bio, image_url, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?)
RETURNING ` + trainerColumns

type CreateTrainerParams struct {
	Name      string         `json:"name"`
	Specialty string         `json:"specialty"`
	Bio       string         `json:"bio"`
	ImageURL  sql.NullString `json:"image_url"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func (q *Queries) CreateTrainer(ctx context.Context, arg CreateTrainerParams) (Trainer, error) {
	row := q.db.QueryRowContext(ctx, createTrainer,
		arg.Name,
		arg.Specialty,
		arg.Bio,
		arg.ImageURL,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return scanTrainer(row)
}

const updateTrainer = `-- name: UpdateTrainer :one
UPDATE trainers
SET name = ?, specialty = ?, bio = ?, image_url = ?, updated_at = ?
WHERE id = ?
RETURNING ` + trainerColumns

type UpdateTrainerParams struct {
	Name      string         `json:"name"`
	Specialty string         `json:"specialty"`
	Bio       string         `json:"bio"`
	ImageURL  sql.NullString `json:"image_url"`
	UpdatedAt time.Time      `json:"updated_at"`
	ID        int64          `json:"id"`
}

func (q *Queries) UpdateTrainer(ctx context.Context, arg UpdateTrainerParams) (Trainer, error) {
	row := q.db.QueryRowContext(ctx, updateTrainer,
		arg.Name,
		arg.Specialty,
		arg.Bio,
		arg.ImageURL,
		arg.UpdatedAt,
		arg.ID,
	)
	return scanTrainer(row)
}

const deleteTrainer = `-- name: DeleteTrainer :exec
DELETE FROM trainers WHERE id = ?`

// DeleteTrainer removes the trainer; its schedule rows go with it via ON DELETE CASCADE.
func (q *Queries) DeleteTrainer(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, deleteTrainer, id)
	return err
}
