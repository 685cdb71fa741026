// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gymflex/gymflex-go/internal/auth"
)

const defaultAdminName = "GymFlex Admin"

// SeedAdmin creates the administrator account when the users table is empty.
// An empty password is replaced by a random one, which is logged once.
func SeedAdmin(ctx context.Context, db *sql.DB, email, password string) error {
	q := New(db)
	email = strings.ToLower(strings.TrimSpace(email))

	n, err := q.CountUsers(ctx)
	if err != nil {
		return fmt.Errorf("counting users: %w", err)
	}
	if n > 0 {
		slog.Debug("admin account exists, skipping seed")
		return nil
	}

	generated := password == ""
	if generated {
		password = uuid.NewString()
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hashing admin password: %w", err)
	}

	now := time.Now().UTC()
	user, err := q.CreateUser(ctx, CreateUserParams{
		Email:        email,
		PasswordHash: hash,
		Name:         defaultAdminName,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return fmt.Errorf("creating admin user: %w", err)
	}

	if generated {
		slog.Warn("created admin account with generated password; change it by setting GYMFLEX_ADMIN_PASSWORD",
			"id", user.ID, "email", user.Email, "password", password)
	} else {
		slog.Info("created admin account", "id", user.ID, "email", user.Email)
	}
	return nil
}
