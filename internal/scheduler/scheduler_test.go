// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package scheduler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingWarmer struct {
	calls atomic.Int32
	err   error
	// deadline records whether the last call had a context deadline.
	deadline atomic.Bool
}

func (w *countingWarmer) Warm(ctx context.Context) error {
	w.calls.Add(1)
	_, ok := ctx.Deadline()
	w.deadline.Store(ok)
	return w.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNew(t *testing.T) {
	s := New(&countingWarmer{}, "@every 1m", 0, testLogger())
	if s == nil {
		t.Fatal("New returned nil")
	}
	if s.timeout != DefaultTimeout {
		t.Errorf("timeout = %v, want %v", s.timeout, DefaultTimeout)
	}
	if !s.Enabled() {
		t.Error("scheduler with a schedule should be enabled")
	}
}

func TestScheduler_StartStop(t *testing.T) {
	w := &countingWarmer{}
	s := New(w, "@every 1h", time.Second, testLogger())

	require.NoError(t, s.Start())
	assert.Len(t, s.cron.Entries(), 1)
	s.Stop()
}

func TestScheduler_Disabled(t *testing.T) {
	s := New(&countingWarmer{}, "", 0, testLogger())

	assert.False(t, s.Enabled())
	require.NoError(t, s.Start())
	assert.Empty(t, s.cron.Entries())
	s.Stop()
}

func TestScheduler_InvalidSchedule(t *testing.T) {
	s := New(&countingWarmer{}, "every now and then", 0, testLogger())
	err := s.Start()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid warm schedule")
}

func TestScheduler_RunNow(t *testing.T) {
	w := &countingWarmer{}
	s := New(w, "", time.Second, testLogger())

	require.NoError(t, s.RunNow(context.Background()))
	assert.EqualValues(t, 1, w.calls.Load())
	assert.True(t, w.deadline.Load(), "warm-up runs with a timeout")

	w.err = errors.New("cms down")
	assert.ErrorContains(t, s.RunNow(context.Background()), "cms down")
}

func TestScheduler_RunsOnSchedule(t *testing.T) {
	w := &countingWarmer{}
	s := New(w, "@every 1s", time.Second, testLogger())
	require.NoError(t, s.Start())
	defer s.Stop()

	assert.Eventually(t, func() bool { return w.calls.Load() > 0 }, 3*time.Second, 50*time.Millisecond)
}
