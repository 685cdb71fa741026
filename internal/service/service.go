// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service holds the admin mutation workflow for trainers and
// schedule entries, contact-form delivery, admin authentication and the
// event log.
//
// Services depend on small interfaces for the table store, object store,
// image pipeline and confirmation prompt so that the workflow can be
// exercised without a browser or a disk.
package service

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"time"

	"github.com/gymflex/gymflex-go/internal/imaging"
)

var (
	// ErrNotFound is returned when a trainer or schedule entry does not exist.
	ErrNotFound = errors.New("not found")
	// ErrNotConfirmed is returned when a delete was not confirmed.
	ErrNotConfirmed = errors.New("deletion not confirmed")
	// ErrUpload wraps failures storing a trainer image.
	ErrUpload = errors.New("image upload failed")
)

// ObjectStore is the file storage used for trainer images.
type ObjectStore interface {
	Upload(ctx context.Context, key string, r io.Reader, contentType string) error
	PublicURL(key string) string
}

// ImageNormalizer prepares an image before upload. Optional.
type ImageNormalizer interface {
	Normalize(r io.Reader) (*imaging.Result, error)
}

// Confirmer asks the acting user to approve a destructive action.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) bool
}

// Confirmed is a Confirmer with a fixed answer, used when the answer was
// collected before the call (the confirm=yes form field).
type Confirmed bool

func (c Confirmed) Confirm(context.Context, string) bool { return bool(c) }

// Clock returns the current time; tests pin it.
type Clock func() time.Time

func (c Clock) now() time.Time {
	if c == nil {
		return time.Now().UTC()
	}
	return c()
}

// notFound maps sql.ErrNoRows to ErrNotFound.
func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
