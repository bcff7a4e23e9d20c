// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestMemory_BasicOperations(t *testing.T) {
	m := NewMemory(MemoryOptions{DefaultTTL: time.Hour})
	defer func() { _ = m.Close() }()
	ctx := context.Background()

	if err := m.Set(ctx, "key1", []byte("value1"), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	val, err := m.Get(ctx, "key1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(val) != "value1" {
		t.Errorf("expected value1, got %s", val)
	}

	if err := m.Delete(ctx, "key1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := m.Get(ctx, "key1"); !errors.Is(err, ErrMiss) {
		t.Errorf("expected ErrMiss, got %v", err)
	}
}

func TestMemory_ValueIsCopied(t *testing.T) {
	m := NewMemory(MemoryOptions{DefaultTTL: time.Hour})
	ctx := context.Background()

	in := []byte("abc")
	_ = m.Set(ctx, "k", in, 0)
	in[0] = 'X'

	out, _ := m.Get(ctx, "k")
	if string(out) != "abc" {
		t.Errorf("stored value mutated: %s", out)
	}
	out[1] = 'Y'
	again, _ := m.Get(ctx, "k")
	if string(again) != "abc" {
		t.Errorf("returned value aliases store: %s", again)
	}
}

func TestMemory_Expiration(t *testing.T) {
	m := NewMemory(MemoryOptions{DefaultTTL: time.Hour})
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }
	ctx := context.Background()

	_ = m.Set(ctx, "short", []byte("x"), time.Second)
	_ = m.Set(ctx, "long", []byte("y"), 0)

	now = now.Add(2 * time.Second)
	if _, err := m.Get(ctx, "short"); !errors.Is(err, ErrMiss) {
		t.Errorf("expected expired entry to miss, got %v", err)
	}
	if _, err := m.Get(ctx, "long"); err != nil {
		t.Errorf("expected default-TTL entry to hit, got %v", err)
	}

	m.removeExpired()
	if got := m.Stats().Items; got != 1 {
		t.Errorf("expected 1 item after cleanup, got %d", got)
	}
}

func TestMemory_EvictsSoonestExpiry(t *testing.T) {
	m := NewMemory(MemoryOptions{DefaultTTL: time.Hour, MaxEntries: 2})
	ctx := context.Background()

	_ = m.Set(ctx, "a", []byte("1"), 10*time.Minute)
	_ = m.Set(ctx, "b", []byte("2"), time.Minute)
	_ = m.Set(ctx, "c", []byte("3"), 20*time.Minute)

	if _, err := m.Get(ctx, "b"); !errors.Is(err, ErrMiss) {
		t.Errorf("expected b evicted, got %v", err)
	}
	for _, k := range []string{"a", "c"} {
		if _, err := m.Get(ctx, k); err != nil {
			t.Errorf("expected %s kept, got %v", k, err)
		}
	}

	// Overwriting an existing key never evicts.
	_ = m.Set(ctx, "a", []byte("1b"), time.Minute)
	if got := m.Stats().Items; got != 2 {
		t.Errorf("expected 2 items, got %d", got)
	}
}

func TestMemory_DeleteMultipleAndPrefix(t *testing.T) {
	m := NewMemory(MemoryOptions{})
	ctx := context.Background()
	for _, k := range []string{"article:a", "article:b", "popular:", "popular:go", "home"} {
		_ = m.Set(ctx, k, []byte("v"), 0)
	}

	_ = m.Delete(ctx, "article:a", "article:b", "missing")
	_ = m.DeletePrefix(ctx, "popular:")

	if got := m.Stats().Items; got != 1 {
		t.Errorf("expected only home to remain, got %d items", got)
	}
	if _, err := m.Get(ctx, "home"); err != nil {
		t.Errorf("home should remain: %v", err)
	}

	_ = m.Clear(ctx)
	if got := m.Stats().Items; got != 0 {
		t.Errorf("expected empty cache after Clear, got %d", got)
	}
}

func TestMemory_Stats(t *testing.T) {
	m := NewMemory(MemoryOptions{})
	ctx := context.Background()

	_ = m.Set(ctx, "k", []byte("v"), 0)
	_, _ = m.Get(ctx, "k")
	_, _ = m.Get(ctx, "k")
	_, _ = m.Get(ctx, "nope")

	s := m.Stats()
	if s.Hits != 2 || s.Misses != 1 || s.Sets != 1 {
		t.Errorf("unexpected stats: %+v", s)
	}
	if s.Backend != "memory" {
		t.Errorf("backend = %q", s.Backend)
	}
	if rate := s.HitRate(); rate < 66 || rate > 67 {
		t.Errorf("hit rate = %f", rate)
	}
}

func TestMemory_Closed(t *testing.T) {
	m := NewMemory(MemoryOptions{CleanupInterval: time.Millisecond})
	_ = m.Close()
	_ = m.Close()
	ctx := context.Background()

	if _, err := m.Get(ctx, "k"); !errors.Is(err, ErrClosed) {
		t.Errorf("Get after Close: %v", err)
	}
	if err := m.Set(ctx, "k", nil, 0); !errors.Is(err, ErrClosed) {
		t.Errorf("Set after Close: %v", err)
	}
}

func TestMemory_Concurrent(t *testing.T) {
	m := NewMemory(MemoryOptions{MaxEntries: 50})
	ctx := context.Background()

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				key := fmt.Sprintf("g%d-%d", g, i%60)
				_ = m.Set(ctx, key, []byte("v"), 0)
				_, _ = m.Get(ctx, key)
				if i%25 == 0 {
					_ = m.DeletePrefix(ctx, fmt.Sprintf("g%d-", g))
				}
			}
		}(g)
	}
	wg.Wait()

	if got := m.Stats().Items; got > 50 {
		t.Errorf("cache grew past MaxEntries: %d", got)
	}
}
