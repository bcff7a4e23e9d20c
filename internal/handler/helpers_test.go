// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/olegiv/blogfront/internal/cache"
	"github.com/olegiv/blogfront/internal/seo"
	"github.com/olegiv/blogfront/internal/service"
	"github.com/olegiv/blogfront/internal/strapi"
	"github.com/olegiv/blogfront/internal/theme"
)

// stubSource is an in-memory content API.
type stubSource struct {
	articles   []strapi.Article
	categories []strapi.Category
	ads        map[string][]strapi.Advertisement
	err        error
}

func newStubSource() *stubSource {
	goCat := &strapi.Category{Slug: "go", Name: "Go"}
	return &stubSource{
		articles: []strapi.Article{
			{
				ID: 1, DocumentID: "doc-1", Slug: "go-generics", Title: "Go generics",
				Description: "Type parameters in practice",
				Content:     json.RawMessage(`"## Intro\n\nGenerics landed in Go 1.18."`),
				PublishedAt: strapi.Timestamp{Time: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
				Category:    goCat, Views: 12,
			},
			{ID: 2, DocumentID: "doc-2", Slug: "chi-routing", Title: "Chi routing", Category: goCat},
			{ID: 3, DocumentID: "doc-3", Slug: "neural-nets", Title: "Neural nets", Category: &strapi.Category{Slug: "machine-learning"}},
		},
		categories: []strapi.Category{{Slug: "go", Name: "Go", Description: "All about Go"}},
		ads: map[string][]strapi.Advertisement{
			strapi.FormatCard:   {{Name: "card", HTMLCode: `<div class="sponsor-card">Sponsor</div>`}},
			strapi.FormatBanner: {{Name: "top", HTMLCode: `<div class="sponsor-banner">Top banner</div>`}},
		},
	}
}

func (s *stubSource) ListArticles(_ context.Context, p strapi.ListParams) (*strapi.ArticleList, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &strapi.ArticleList{
		Articles:   s.articles,
		Pagination: strapi.Pagination{Page: max(p.Page, 1), PageSize: p.PageSize, PageCount: 1, Total: len(s.articles)},
	}, nil
}

func (s *stubSource) ArticlesByCategory(_ context.Context, slug string, _ strapi.ListParams) (*strapi.ArticleList, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := &strapi.ArticleList{}
	for _, a := range s.articles {
		if a.HasCategory() && a.Category.Slug == slug {
			out.Articles = append(out.Articles, a)
		}
	}
	return out, nil
}

func (s *stubSource) SearchArticles(_ context.Context, q string, _ strapi.ListParams) (*strapi.ArticleList, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := &strapi.ArticleList{}
	for _, a := range s.articles {
		if strings.Contains(strings.ToLower(a.Title), strings.ToLower(q)) {
			out.Articles = append(out.Articles, a)
		}
	}
	return out, nil
}

func (s *stubSource) PopularArticles(context.Context, string, int) ([]strapi.Article, error) {
	return s.articles[:1], nil
}

func (s *stubSource) ArticleBySlug(_ context.Context, slug string) (*strapi.Article, error) {
	if s.err != nil {
		return nil, s.err
	}
	for _, a := range s.articles {
		if a.Slug == slug {
			return &a, nil
		}
	}
	return nil, fmt.Errorf("article %q: %w", slug, strapi.ErrNotFound)
}

func (s *stubSource) CategoryBySlug(_ context.Context, slug string) (*strapi.Category, error) {
	if s.err != nil {
		return nil, s.err
	}
	for _, c := range s.categories {
		if c.Slug == slug {
			return &c, nil
		}
	}
	return nil, fmt.Errorf("category %q: %w", slug, strapi.ErrNotFound)
}

func (s *stubSource) ListCategories(context.Context) ([]strapi.Category, error) {
	return s.categories, nil
}

func (s *stubSource) Advertisements(_ context.Context, format string, _ int) ([]strapi.Advertisement, error) {
	return s.ads[format], nil
}

var testSite = seo.SiteConfig{
	SiteName:        "Test Blog",
	SiteURL:         "https://blog.example.com",
	SiteDescription: "A test blog",
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestBlog(t *testing.T, src service.Source) *service.Blog {
	t.Helper()
	store := cache.NewMemory(cache.MemoryOptions{DefaultTTL: time.Minute})
	t.Cleanup(func() { _ = store.Close() })
	return service.NewBlog(src, service.Options{Store: store, Logger: discardLogger()})
}

func newTestFrontend(t *testing.T, src service.Source) *FrontendHandler {
	t.Helper()
	media := strapi.NewMediaResolver("https://cms.example.com")
	th, err := theme.Load(theme.MediaFuncs(media))
	require.NoError(t, err)
	return NewFrontendHandler(FrontendOptions{
		Blog:   newTestBlog(t, src),
		Theme:  th,
		Media:  media,
		Site:   testSite,
		Logger: discardLogger(),
	})
}
