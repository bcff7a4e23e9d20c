// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"encoding/json"
	"time"

	"golang.org/x/sync/singleflight"
)

// Typed stores JSON-encoded values of type T in a Store.
type Typed[T any] struct {
	store Store
	ttl   time.Duration
	group singleflight.Group
}

// NewTyped wraps store. A zero ttl uses the store default.
func NewTyped[T any](store Store, ttl time.Duration) *Typed[T] {
	return &Typed[T]{store: store, ttl: ttl}
}

// Get returns the cached value and whether it was found and decoded.
func (c *Typed[T]) Get(ctx context.Context, key string) (T, bool) {
	var v T
	data, err := c.store.Get(ctx, key)
	if err != nil {
		return v, false
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return v, false
	}
	return v, true
}

// Set encodes and stores v.
func (c *Typed[T]) Set(ctx context.Context, key string, v T) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.store.Set(ctx, key, data, c.ttl)
}

// GetOrLoad returns the cached value for key, or calls load and caches its
// result. Concurrent misses for the same key share one load. The shared load
// is not canceled with any one caller's context; a canceled caller returns
// ctx.Err() while the others keep waiting. Load errors are returned and
// nothing is cached; store errors are ignored.
func (c *Typed[T]) GetOrLoad(ctx context.Context, key string, load func(context.Context) (T, error)) (T, error) {
	if v, ok := c.Get(ctx, key); ok {
		return v, nil
	}
	ch := c.group.DoChan(key, func() (any, error) {
		lctx := context.WithoutCancel(ctx)
		v, err := load(lctx)
		if err != nil {
			return v, err
		}
		_ = c.Set(lctx, key, v)
		return v, nil
	})
	select {
	case res := <-ch:
		v, _ := res.Val.(T)
		return v, res.Err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Refresh calls load and overwrites the cached value.
func (c *Typed[T]) Refresh(ctx context.Context, key string, load func(context.Context) (T, error)) error {
	v, err := load(ctx)
	if err != nil {
		return err
	}
	return c.Set(ctx, key, v)
}
