// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gymflex/gymflex-go/internal/testutil"
)

type fakePurger struct {
	calls     int
	retention time.Duration
	err       error
}

func (f *fakePurger) Purge(ctx context.Context, retention time.Duration) (int64, error) {
	f.calls++
	f.retention = retention
	if _, ok := ctx.Deadline(); !ok {
		return 0, errors.New("purge called without a deadline")
	}
	return 3, f.err
}

func TestNew(t *testing.T) {
	s := New(testutil.DiscardLogger())
	if s.cron == nil {
		t.Fatal("New() scheduler has nil cron")
	}
	if s.Jobs() != 0 {
		t.Errorf("Jobs() = %d, want 0", s.Jobs())
	}
}

func TestAddPurge(t *testing.T) {
	s := New(testutil.DiscardLogger())
	p := &fakePurger{}

	if err := s.AddPurge("contact", DefaultPurgeSpec, 24*time.Hour, p); err != nil {
		t.Fatalf("AddPurge: %v", err)
	}
	if err := s.AddPurge("bad", "every tuesday", time.Hour, p); err == nil {
		t.Error("invalid cron expression should be rejected")
	}
	if err := s.AddPurge("zero", DefaultPurgeSpec, 0, p); err == nil {
		t.Error("zero retention should be rejected")
	}
	if s.Jobs() != 1 {
		t.Errorf("Jobs() = %d, want 1", s.Jobs())
	}
}

func TestRunPurge(t *testing.T) {
	s := New(testutil.DiscardLogger())
	p := &fakePurger{}

	s.runPurge("contact", 90*24*time.Hour, p)
	if p.calls != 1 || p.retention != 90*24*time.Hour {
		t.Errorf("calls = %d retention = %v", p.calls, p.retention)
	}

	p.err = errors.New("locked")
	s.runPurge("contact", time.Hour, p)
	if p.calls != 2 {
		t.Errorf("failed purge should still be attempted, calls = %d", p.calls)
	}
}

func TestScheduler_StartStop(t *testing.T) {
	s := New(testutil.DiscardLogger())
	s.Start()
	s.Stop()
}

func TestAddFunc(t *testing.T) {
	s := New(testutil.DiscardLogger())
	if err := s.AddFunc("cleanup", "*/10 * * * *", func() {}); err != nil {
		t.Fatalf("AddFunc: %v", err)
	}
	if err := s.AddFunc("broken", "every minute", func() {}); err == nil {
		t.Error("AddFunc accepted an invalid cron expression")
	}
	if s.Jobs() != 1 {
		t.Errorf("Jobs() = %d, want 1", s.Jobs())
	}
}
