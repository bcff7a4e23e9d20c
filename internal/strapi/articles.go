// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package strapi

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Default page sizes used by the listing pages.
const (
	HomePageSize   = 20
	SearchPageSize = 50
	CardAdLimit    = 10
	BannerAdLimit  = 2
	PopularLimit   = 5
)

// ListParams controls paging for collection queries.
type ListParams struct {
	Page     int
	PageSize int
}

// ArticleList is one page of articles.
type ArticleList struct {
	Articles   []Article  `json:"articles"`
	Pagination Pagination `json:"pagination"`
}

func (c *Client) listArticles(ctx context.Context, q Query) (*ArticleList, error) {
	var resp Response[[]Article]
	if err := c.get(ctx, "/articles", q, &resp); err != nil {
		return nil, err
	}
	return &ArticleList{Articles: resp.Data, Pagination: resp.Meta.Pagination}, nil
}

// ListArticles returns the latest articles, newest display date first.
func (c *Client) ListArticles(ctx context.Context, p ListParams) (*ArticleList, error) {
	return c.listArticles(ctx, Query{
		"sort":       dateSort,
		"populate":   listPopulate(),
		"pagination": pagination(p.Page, p.PageSize),
	})
}

// ArticlesByCategory returns articles in the category with the given slug.
func (c *Client) ArticlesByCategory(ctx context.Context, categorySlug string, p ListParams) (*ArticleList, error) {
	return c.listArticles(ctx, Query{
		"sort":       dateSort,
		"filters":    Query{"category": Query{"slug": eq(categorySlug)}},
		"populate":   listPopulate(),
		"pagination": pagination(p.Page, p.PageSize),
	})
}

// SearchArticles returns articles whose title or description contains the
// query, case-insensitively.
func (c *Client) SearchArticles(ctx context.Context, query string, p ListParams) (*ArticleList, error) {
	if p.PageSize == 0 {
		p.PageSize = SearchPageSize
	}
	if p.Page == 0 {
		p.Page = 1
	}
	return c.listArticles(ctx, Query{
		"filters": Query{
			"$or": []Query{
				{"title": Query{"$containsi": query}},
				{"description": Query{"$containsi": query}},
			},
		},
		"sort":       dateSort,
		"populate":   listPopulate(),
		"pagination": pagination(p.Page, p.PageSize),
	})
}

// PopularArticles returns the most viewed articles, optionally restricted
// to a category.
func (c *Client) PopularArticles(ctx context.Context, categorySlug string, limit int) ([]Article, error) {
	if limit <= 0 {
		limit = PopularLimit
	}
	q := Query{
		"sort":       append([]string{"views:desc"}, dateSort...),
		"pagination": pagination(1, limit),
		"fields":     []string{"title", "slug", "views"},
	}
	if categorySlug != "" {
		q["filters"] = Query{"category": Query{"slug": eq(categorySlug)}}
	}
	list, err := c.listArticles(ctx, q)
	if err != nil {
		return nil, err
	}
	return list.Articles, nil
}

// ArticleBySlug returns the article with the given slug, or ErrNotFound.
func (c *Client) ArticleBySlug(ctx context.Context, slug string) (*Article, error) {
	list, err := c.listArticles(ctx, Query{
		"filters":  Query{"slug": eq(slug)},
		"populate": listPopulate(),
	})
	if err != nil {
		return nil, err
	}
	if len(list.Articles) == 0 {
		return nil, fmt.Errorf("article %q: %w", slug, ErrNotFound)
	}
	return &list.Articles[0], nil
}

// UpdateArticleViews overwrites the view count of an article.
func (c *Client) UpdateArticleViews(ctx context.Context, documentID string, views int) error {
	if strings.TrimSpace(documentID) == "" {
		return errors.New("document id is required")
	}
	body := map[string]any{"data": map[string]any{"views": views}}
	return c.put(ctx, "/articles/"+documentID, body, nil)
}

// CategoryBySlug returns the category with the given slug, or ErrNotFound.
func (c *Client) CategoryBySlug(ctx context.Context, slug string) (*Category, error) {
	var resp Response[[]Category]
	if err := c.get(ctx, "/categories", Query{"filters": Query{"slug": eq(slug)}}, &resp); err != nil {
		return nil, err
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("category %q: %w", slug, ErrNotFound)
	}
	return &resp.Data[0], nil
}

// ListCategories returns all categories sorted by name.
func (c *Client) ListCategories(ctx context.Context) ([]Category, error) {
	var resp Response[[]Category]
	q := Query{
		"sort":       []string{"name:asc"},
		"pagination": pagination(1, 100),
	}
	if err := c.get(ctx, "/categories", q, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// Advertisements returns ads of the given format ("card" or "banner").
func (c *Client) Advertisements(ctx context.Context, format string, limit int) ([]Advertisement, error) {
	var resp Response[[]Advertisement]
	q := Query{
		"filters":    Query{"format": eq(format)},
		"pagination": pagination(0, limit),
	}
	if err := c.get(ctx, "/advertisements", q, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}
