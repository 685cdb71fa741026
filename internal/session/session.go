// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package session wraps an scs session manager with the notion of a
// signed-in administrator. A session carrying an admin id grants every
// mutation; there is no other role.
//
// Observer is the single place that changes sign-in state. Interested
// parties (metrics, the event log) Subscribe once at startup instead of
// inspecting sessions themselves.
package session

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
)

const (
	keyAdminID    = "admin_id"
	keyAdminEmail = "admin_email"
)

// New creates an scs manager persisted in the sessions table.
func New(db *sql.DB, isDev bool) *scs.SessionManager {
	sm := scs.New()
	sm.Store = sqlite3store.New(db)
	sm.Lifetime = 24 * time.Hour
	sm.IdleTimeout = 2 * time.Hour
	sm.Cookie.Name = "gymflex_session"
	sm.Cookie.HttpOnly = true
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Secure = !isDev
	return sm
}

// Admin identifies the signed-in administrator.
type Admin struct {
	ID    int64
	Email string
}

// EventKind distinguishes session changes.
type EventKind string

const (
	SignedIn  EventKind = "signed_in"
	SignedOut EventKind = "signed_out"
)

// Event is delivered to subscribers after a session change.
type Event struct {
	Kind  EventKind
	Admin Admin
	At    time.Time
}

// Observer reads and changes admin state on top of scs.
type Observer struct {
	sm *scs.SessionManager

	mu     sync.RWMutex
	nextID int
	subs   map[int]func(Event)
}

func NewObserver(sm *scs.SessionManager) *Observer {
	return &Observer{sm: sm, subs: make(map[int]func(Event))}
}

// Manager exposes the underlying scs manager for LoadAndSave and flashes.
func (o *Observer) Manager() *scs.SessionManager { return o.sm }

// Subscribe registers fn for future events and returns a function that
// removes it. fn runs synchronously on the request goroutine.
func (o *Observer) Subscribe(fn func(Event)) (unsubscribe func()) {
	o.mu.Lock()
	id := o.nextID
	o.nextID++
	o.subs[id] = fn
	o.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			o.mu.Lock()
			delete(o.subs, id)
			o.mu.Unlock()
		})
	}
}

func (o *Observer) publish(ev Event) {
	o.mu.RLock()
	fns := make([]func(Event), 0, len(o.subs))
	for _, fn := range o.subs {
		fns = append(fns, fn)
	}
	o.mu.RUnlock()

	for _, fn := range fns {
		fn(ev)
	}
}

// SignIn rotates the session token and records admin as signed in.
func (o *Observer) SignIn(ctx context.Context, admin Admin) error {
	if err := o.sm.RenewToken(ctx); err != nil {
		return fmt.Errorf("renewing session token: %w", err)
	}
	o.sm.Put(ctx, keyAdminID, admin.ID)
	o.sm.Put(ctx, keyAdminEmail, admin.Email)
	o.publish(Event{Kind: SignedIn, Admin: admin, At: time.Now()})
	return nil
}

// SignOut destroys the session. Signing out without a session is a no-op.
func (o *Observer) SignOut(ctx context.Context) error {
	admin, ok := o.Current(ctx)
	if err := o.sm.Destroy(ctx); err != nil {
		return fmt.Errorf("destroying session: %w", err)
	}
	if ok {
		o.publish(Event{Kind: SignedOut, Admin: admin, At: time.Now()})
	}
	return nil
}

// Current returns the signed-in admin, if any.
func (o *Observer) Current(ctx context.Context) (Admin, bool) {
	id := o.sm.GetInt64(ctx, keyAdminID)
	if id == 0 {
		return Admin{}, false
	}
	return Admin{ID: id, Email: o.sm.GetString(ctx, keyAdminEmail)}, true
}

// IsAdmin reports whether ctx carries an admin session.
func (o *Observer) IsAdmin(ctx context.Context) bool {
	_, ok := o.Current(ctx)
	return ok
}

// LogEvents is a subscriber that writes session changes to slog.
func LogEvents(ev Event) {
	slog.Info("admin session changed", "event", string(ev.Kind), "user_id", ev.Admin.ID, "email", ev.Admin.Email)
}
