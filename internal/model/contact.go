// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"errors"
	"net/mail"
	"strings"
)

// Contact message delivery states.
const (
	ContactPending = "pending"
	ContactSent    = "sent"
	ContactFailed  = "failed"
)

var (
	ErrContactIncomplete = errors.New("all contact fields are required")
	ErrInvalidEmail      = errors.New("invalid email address")
)

// ContactInput is a submitted contact form.
type ContactInput struct {
	Name    string
	Email   string
	Subject string
	Message string
}

func (in *ContactInput) Normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Subject = strings.TrimSpace(in.Subject)
	in.Message = strings.TrimSpace(in.Message)
}

// Validate requires every field and a parseable sender address.
func (in ContactInput) Validate() error {
	if in.Name == "" || in.Email == "" || in.Subject == "" || in.Message == "" {
		return ErrContactIncomplete
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return ErrInvalidEmail
	}
	return nil
}
