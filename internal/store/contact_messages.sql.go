// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

const contactColumns = `id, name, email, subject, message, language, ip_address, browser, os, device_type, status, provider_id, created_at, sent_at`

func scanContactMessage(row interface{ Scan(...any) error }) (ContactMessage, error) {
	var m ContactMessage
	err := row.Scan(
		&m.ID,
		&m.Name,
		&m.Email,
		&m.Subject,
		&m.Message,
		&m.Language,
		&m.IPAddress,
		&m.Browser,
		&m.OS,
		&m.DeviceType,
		&m.Status,
		&m.ProviderID,
		&m.CreatedAt,
		&m.SentAt,
	)
	return m, err
}

const createContactMessage = `-- name: CreateContactMessage :one
INSERT INTO contact_messages (name, email, subject, message, language, ip_address, browser, os, device_type, status, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING ` + contactColumns

type CreateContactMessageParams struct {
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Subject    string    `json:"subject"`
	Message    string    `json:"message"`
	Language   string    `json:"language"`
	IPAddress  string    `json:"ip_address"`
	Browser    string    `json:"browser"`
	OS         string    `json:"os"`
	DeviceType string    `json:"device_type"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

func (q *Queries) CreateContactMessage(ctx context.Context, arg CreateContactMessageParams) (ContactMessage, error) {
	row := q.db.QueryRowContext(ctx, createContactMessage,
		arg.Name,
		arg.Email,
		arg.Subject,
		arg.Message,
		arg.Language,
		arg.IPAddress,
		arg.Browser,
		arg.OS,
		arg.DeviceType,
		arg.Status,
		arg.CreatedAt,
	)
	return scanContactMessage(row)
}

const updateContactMessageStatus = `-- name: UpdateContactMessageStatus :exec
UPDATE contact_messages SET status = ?, provider_id = ?, sent_at = ? WHERE id = ?`

type UpdateContactMessageStatusParams struct {
	Status     string       `json:"status"`
	ProviderID string       `json:"provider_id"`
	SentAt     sql.NullTime `json:"sent_at"`
	ID         int64        `json:"id"`
}

func (q *Queries) UpdateContactMessageStatus(ctx context.Context, arg UpdateContactMessageStatusParams) error {
	_, err := q.db.ExecContext(ctx, updateContactMessageStatus, arg.Status, arg.ProviderID, arg.SentAt, arg.ID)
	return err
}

const getContactMessage = `-- name: GetContactMessage :one
SELECT ` + contactColumns + ` FROM contact_messages WHERE id = ?`

func (q *Queries) GetContactMessage(ctx context.Context, id int64) (ContactMessage, error) {
	return scanContactMessage(q.db.QueryRowContext(ctx, getContactMessage, id))
}

const countContactMessages = `-- name: CountContactMessages :one
SELECT COUNT(*) FROM contact_messages`

func (q *Queries) CountContactMessages(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, countContactMessages).Scan(&n)
	return n, err
}

const deleteContactMessagesBefore = `-- name: DeleteContactMessagesBefore :execrows
DELETE FROM contact_messages WHERE created_at < ?`

func (q *Queries) DeleteContactMessagesBefore(ctx context.Context, before time.Time) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteContactMessagesBefore, before)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
