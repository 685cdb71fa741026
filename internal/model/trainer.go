// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"errors"
	"io"
	"strings"
)

// ErrNameRequired is returned when a trainer is submitted without a name.
var ErrNameRequired = errors.New("trainer name is required")

// TrainerInput holds the submitted trainer fields.
type TrainerInput struct {
	Name      string
	Specialty string
	Bio       string

	// Image is nil when no new file was chosen.
	Image *ImageUpload
}

// ImageUpload is a file picked in the trainer form.
type ImageUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Normalize trims the text fields.
func (in *TrainerInput) Normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Specialty = strings.TrimSpace(in.Specialty)
	in.Bio = strings.TrimSpace(in.Bio)
}

func (in TrainerInput) Validate() error {
	if in.Name == "" {
		return ErrNameRequired
	}
	return nil
}
