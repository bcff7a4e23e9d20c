// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package views maintains per-article view counts in the CMS.
//
// Increments are a plain read followed by an unconditional write. Concurrent
// views of the same article may overwrite each other, so the stored count can
// lag the true number of views; it never drops below the count read plus one
// for a write that succeeds. An exact counter needs an atomic increment in the
// CMS itself.
package views

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mileusna/useragent"

	"github.com/olegiv/blogfront/internal/strapi"
)

var (
	// ErrNotFound is returned when no article has the requested slug.
	ErrNotFound = errors.New("article not found")

	// ErrWriteFailed is returned when the new count could not be stored.
	ErrWriteFailed = errors.New("failed to update views")
)

// Backend reads and writes article view counts.
type Backend interface {
	ArticleBySlug(ctx context.Context, slug string) (*strapi.Article, error)
	UpdateArticleViews(ctx context.Context, documentID string, views int) error
}

// Options configures a Counter.
type Options struct {
	// SkipBots makes crawler requests return the current count unchanged.
	SkipBots bool
	// OnIncrement runs after every successful write.
	OnIncrement func(ctx context.Context, slug string)
	Logger      *slog.Logger
}

// Counter increments article view counts.
type Counter struct {
	backend     Backend
	skipBots    bool
	onIncrement func(ctx context.Context, slug string)
	logger      *slog.Logger
}

// New creates a Counter.
func New(backend Backend, opts Options) *Counter {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Counter{
		backend:     backend,
		skipBots:    opts.SkipBots,
		onIncrement: opts.OnIncrement,
		logger:      logger,
	}
}

// Increment adds one view to the article with the given slug and returns
// the stored count.
func (c *Counter) Increment(ctx context.Context, slug string) (int, error) {
	return c.IncrementFor(ctx, slug, "")
}

// IncrementFor is Increment for a request with the given User-Agent. Bot
// traffic is not counted when the counter is configured to skip it.
func (c *Counter) IncrementFor(ctx context.Context, slug, userAgent string) (int, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return 0, fmt.Errorf("%w: empty slug", ErrNotFound)
	}

	article, err := c.backend.ArticleBySlug(ctx, slug)
	if errors.Is(err, strapi.ErrNotFound) {
		return 0, fmt.Errorf("%w: %s", ErrNotFound, slug)
	}
	if err != nil {
		return 0, fmt.Errorf("reading views of %s: %w", slug, err)
	}

	if c.skipBots && userAgent != "" && useragent.Parse(userAgent).Bot {
		c.logger.DebugContext(ctx, "view from bot not counted", "slug", slug)
		return article.Views, nil
	}

	if article.DocumentID == "" {
		c.logger.ErrorContext(ctx, "article has no document id", "slug", slug, "id", article.ID)
		return 0, fmt.Errorf("%w: article %s has no document id", ErrWriteFailed, slug)
	}

	next := article.Views + 1
	if err := c.backend.UpdateArticleViews(ctx, article.DocumentID, next); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrWriteFailed, err)
	}

	if c.onIncrement != nil {
		c.onIncrement(ctx, slug)
	}
	return next, nil
}
