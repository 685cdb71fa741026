// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"errors"
	"testing"

	"github.com/gymflex/gymflex-go/internal/store"
	"github.com/gymflex/gymflex-go/internal/testutil"
)

func TestAuthenticate(t *testing.T) {
	db := testutil.TestDB(t)
	ctx := context.Background()
	if err := store.SeedAdmin(ctx, db, "Owner@GymFlex.local", "kettlebell-42"); err != nil {
		t.Fatalf("SeedAdmin: %v", err)
	}
	q := store.New(db)
	svc := NewAuthService(q, fixedClock)

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{"valid", "owner@gymflex.local", "kettlebell-42", nil},
		{"email case and spaces", "  OWNER@gymflex.local ", "kettlebell-42", nil},
		{"wrong password", "owner@gymflex.local", "dumbbell", ErrInvalidCredentials},
		{"unknown email", "nobody@gymflex.local", "kettlebell-42", ErrInvalidCredentials},
		{"empty", "", "", ErrInvalidCredentials},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := svc.Authenticate(ctx, tt.email, tt.password)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Authenticate error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr == nil && u.Email != "owner@gymflex.local" {
				t.Errorf("user email = %q", u.Email)
			}
		})
	}

	u, err := q.GetUserByEmail(ctx, "owner@gymflex.local")
	if err != nil {
		t.Fatalf("GetUserByEmail: %v", err)
	}
	if !u.LastLoginAt.Valid || !u.LastLoginAt.Time.Equal(fixedNow) {
		t.Errorf("last login = %+v, want %v", u.LastLoginAt, fixedNow)
	}
}
