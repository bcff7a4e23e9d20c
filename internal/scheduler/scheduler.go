// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler runs the periodic cache warm-up job.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// DefaultTimeout bounds a single warm-up run.
const DefaultTimeout = 30 * time.Second

// Warmer refreshes cached data. *service.Blog implements it.
type Warmer interface {
	Warm(ctx context.Context) error
}

// Scheduler runs a Warmer on a cron schedule.
type Scheduler struct {
	warmer   Warmer
	schedule string
	timeout  time.Duration
	cron     *cron.Cron
	logger   *slog.Logger
}

// New creates a scheduler. An empty schedule disables it; Start is then a
// no-op. A zero timeout uses DefaultTimeout.
func New(warmer Warmer, schedule string, timeout time.Duration, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	cl := cronLogger{logger: logger}
	return &Scheduler{
		warmer:   warmer,
		schedule: schedule,
		timeout:  timeout,
		cron:     cron.New(cron.WithLogger(cl), cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl))),
		logger:   logger,
	}
}

// Enabled reports whether a schedule is configured.
func (s *Scheduler) Enabled() bool {
	return s.schedule != ""
}

// Start registers the warm-up job and starts the cron loop.
func (s *Scheduler) Start() error {
	if !s.Enabled() {
		s.logger.Info("cache warmer disabled")
		return nil
	}
	if _, err := s.cron.AddFunc(s.schedule, s.run); err != nil {
		return fmt.Errorf("invalid warm schedule %q: %w", s.schedule, err)
	}

	s.cron.Start()
	s.logger.Info("scheduler started", "schedule", s.schedule, "jobs", len(s.cron.Entries()))
	return nil
}

// Stop gracefully stops the scheduler, waiting for a running job.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	if s.Enabled() {
		s.logger.Info("scheduler stopped")
	}
}

// RunNow performs one warm-up synchronously.
func (s *Scheduler) RunNow(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	if err := s.warmer.Warm(ctx); err != nil {
		return err
	}
	s.logger.Debug("cache warmed", "duration", time.Since(start))
	return nil
}

func (s *Scheduler) run() {
	if err := s.RunNow(context.Background()); err != nil {
		s.logger.Warn("cache warm-up failed", "error", err)
	}
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error("cron: "+msg, append([]any{"error", err}, keysAndValues...)...)
}
