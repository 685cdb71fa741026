// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler runs periodic maintenance jobs on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// DefaultPurgeSpec runs the retention purge daily at 03:15.
const DefaultPurgeSpec = "15 3 * * *"

// Purger deletes records older than a retention window.
type Purger interface {
	Purge(ctx context.Context, retention time.Duration) (int64, error)
}

// Scheduler wraps a cron runner.
type Scheduler struct {
	cron    *cron.Cron
	logger  *slog.Logger
	timeout time.Duration
}

// New creates a scheduler. Jobs run with a 5 minute deadline.
func New(logger *slog.Logger) *Scheduler {
	return &Scheduler{
		cron:    cron.New(),
		logger:  logger,
		timeout: 5 * time.Minute,
	}
}

// AddPurge registers a job calling p.Purge with retention on expr.
func (s *Scheduler) AddPurge(name, expr string, retention time.Duration, p Purger) error {
	if retention <= 0 {
		return fmt.Errorf("purge %s: retention must be positive", name)
	}
	if _, err := cron.ParseStandard(expr); err != nil {
		return fmt.Errorf("purge %s: invalid schedule %q: %w", name, expr, err)
	}
	_, err := s.cron.AddFunc(expr, func() { s.runPurge(name, retention, p) })
	return err
}

// AddFunc registers fn on expr. Used for in-memory housekeeping such as
// expiring login lockouts.
func (s *Scheduler) AddFunc(name, expr string, fn func()) error {
	if _, err := cron.ParseStandard(expr); err != nil {
		return fmt.Errorf("job %s: invalid schedule %q: %w", name, expr, err)
	}
	_, err := s.cron.AddFunc(expr, func() {
		fn()
		s.logger.Debug("scheduled job finished", "job", name)
	})
	return err
}

func (s *Scheduler) runPurge(name string, retention time.Duration, p Purger) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	n, err := p.Purge(ctx, retention)
	if err != nil {
		s.logger.Error("scheduled purge failed", "job", name, "error", err)
		return
	}
	s.logger.Info("scheduled purge finished", "job", name, "deleted", n, "retention", retention)
}

// Start begins running registered jobs.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()))
}

// Stop waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

// Jobs returns the number of registered jobs.
func (s *Scheduler) Jobs() int {
	return len(s.cron.Entries())
}
