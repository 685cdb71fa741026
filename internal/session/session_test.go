// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package session

import (
	"context"
	"net/http"
	"sync"
	"testing"

	"github.com/alexedwards/scs/v2"

	"github.com/gymflex/gymflex-go/internal/testutil"
)

// sessionContext loads a fresh session into a context.
func sessionContext(t *testing.T, sm *scs.SessionManager) context.Context {
	t.Helper()
	ctx, err := sm.Load(context.Background(), "")
	if err != nil {
		t.Fatalf("loading session: %v", err)
	}
	return ctx
}

func TestNewCookieSettings(t *testing.T) {
	db := testutil.TestDB(t)

	dev := New(db, true)
	if dev.Cookie.Secure {
		t.Error("development cookies should not be Secure")
	}
	prod := New(db, false)
	if !prod.Cookie.Secure {
		t.Error("production cookies should be Secure")
	}
	if !prod.Cookie.HttpOnly || prod.Cookie.SameSite != http.SameSiteLaxMode {
		t.Errorf("unexpected cookie settings: %+v", prod.Cookie)
	}
}

func TestSignInSignOut(t *testing.T) {
	o := NewObserver(New(testutil.TestDB(t), true))
	ctx := sessionContext(t, o.Manager())

	if o.IsAdmin(ctx) {
		t.Fatal("fresh session should not be admin")
	}

	if err := o.SignIn(ctx, Admin{ID: 7, Email: "owner@gymflex.local"}); err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	admin, ok := o.Current(ctx)
	if !ok || admin.ID != 7 || admin.Email != "owner@gymflex.local" {
		t.Errorf("Current = %+v, %v", admin, ok)
	}

	if err := o.SignOut(ctx); err != nil {
		t.Fatalf("SignOut: %v", err)
	}
	if o.IsAdmin(ctx) {
		t.Error("session should not be admin after sign-out")
	}
}

func TestSubscribersSeeEvents(t *testing.T) {
	o := NewObserver(New(testutil.TestDB(t), true))
	ctx := sessionContext(t, o.Manager())

	var mu sync.Mutex
	var got []EventKind
	unsubscribe := o.Subscribe(func(ev Event) {
		mu.Lock()
		got = append(got, ev.Kind)
		mu.Unlock()
	})

	_ = o.SignIn(ctx, Admin{ID: 1, Email: "a@b.c"})
	_ = o.SignOut(ctx)
	// Signing out again has no admin to report.
	ctx = sessionContext(t, o.Manager())
	_ = o.SignOut(ctx)

	unsubscribe()
	unsubscribe()
	ctx = sessionContext(t, o.Manager())
	_ = o.SignIn(ctx, Admin{ID: 2})

	mu.Lock()
	defer mu.Unlock()
	if len(got) != 2 || got[0] != SignedIn || got[1] != SignedOut {
		t.Errorf("events = %v, want [signed_in signed_out]", got)
	}
}
