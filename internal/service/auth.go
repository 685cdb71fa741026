// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gymflex/gymflex-go/internal/auth"
	"github.com/gymflex/gymflex-go/internal/store"
	"github.com/gymflex/gymflex-go/internal/util"
)

// ErrInvalidCredentials covers both an unknown email and a wrong password.
var ErrInvalidCredentials = errors.New("invalid email or password")

// UserStore is the subset of store.Queries used for sign-in.
type UserStore interface {
	GetUserByEmail(ctx context.Context, email string) (store.User, error)
	UpdateUserLastLogin(ctx context.Context, arg store.UpdateUserLastLoginParams) error
	UpdateUserPassword(ctx context.Context, arg store.UpdateUserPasswordParams) error
}

// AuthService checks admin credentials.
type AuthService struct {
	users UserStore
	clock Clock
	// dummy is checked when the email is unknown so both paths cost a hash.
	dummy string
}

func NewAuthService(users UserStore, clock Clock) *AuthService {
	dummy, err := auth.HashPassword("gymflex-timing-equaliser")
	if err != nil {
		slog.Warn("could not prepare dummy hash", "error", err)
	}
	return &AuthService{users: users, clock: clock, dummy: dummy}
}

// Authenticate returns the user for a matching email and password.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (store.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return store.User{}, ErrInvalidCredentials
	}

	u, err := s.users.GetUserByEmail(ctx, email)
	if errors.Is(err, sql.ErrNoRows) {
		if s.dummy != "" {
			_, _ = auth.CheckPassword(password, s.dummy)
		}
		return store.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return store.User{}, fmt.Errorf("looking up user: %w", err)
	}

	ok, err := auth.CheckPassword(password, u.PasswordHash)
	if err != nil {
		return store.User{}, fmt.Errorf("checking password for user %d: %w", u.ID, err)
	}
	if !ok {
		return store.User{}, ErrInvalidCredentials
	}

	now := s.clock.now()
	if auth.NeedsRehash(u.PasswordHash) {
		if hash, err := auth.HashPassword(password); err == nil {
			err = s.users.UpdateUserPassword(ctx, store.UpdateUserPasswordParams{ID: u.ID, PasswordHash: hash, UpdatedAt: now})
			if err != nil {
				slog.Warn("password rehash not saved", "user_id", u.ID, "error", err)
			}
		}
	}
	if err := s.users.UpdateUserLastLogin(ctx, store.UpdateUserLastLoginParams{
		ID:          u.ID,
		LastLoginAt: util.NullTimeFromValue(now),
	}); err != nil {
		slog.Warn("last login not recorded", "user_id", u.ID, "error", err)
	}
	u.LastLoginAt = util.NullTimeFromValue(now)
	return u, nil
}
