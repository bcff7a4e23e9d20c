// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"log/slog"
	"time"
)

// Config selects and sizes the cache backend.
type Config struct {
	RedisURL   string
	Prefix     string
	DefaultTTL time.Duration
	MaxEntries int
}

// Open returns a Redis store when RedisURL is set and reachable, and a
// Memory store otherwise.
func Open(ctx context.Context, cfg Config, logger *slog.Logger) Store {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.RedisURL != "" {
		r, err := NewRedis(ctx, RedisOptions{
			URL:        cfg.RedisURL,
			Prefix:     cfg.Prefix,
			DefaultTTL: cfg.DefaultTTL,
		})
		if err == nil {
			logger.Info("cache backend ready", "backend", "redis", "prefix", cfg.Prefix)
			return r
		}
		logger.Warn("redis unavailable, falling back to memory cache", "error", err)
	}

	logger.Info("cache backend ready", "backend", "memory", "max_entries", cfg.MaxEntries)
	return NewMemory(MemoryOptions{
		DefaultTTL:      cfg.DefaultTTL,
		MaxEntries:      cfg.MaxEntries,
		CleanupInterval: time.Minute,
	})
}
