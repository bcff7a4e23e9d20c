// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package theme

import (
	"html/template"

	"github.com/olegiv/blogfront/internal/ads"
	"github.com/olegiv/blogfront/internal/content"
	"github.com/olegiv/blogfront/internal/seo"
	"github.com/olegiv/blogfront/internal/strapi"
)

// Site holds site-wide template data.
type Site struct {
	Name string
	URL  string
	Year int
}

// Layout contains the fields used by the base layout on every page.
type Layout struct {
	Site        Site
	Meta        seo.Meta
	JSONLD      []template.JS
	Categories  []strapi.Category
	Breadcrumbs []seo.Crumb
	// Error is shown in place of the page content when the CMS failed.
	Error string
	Query string
}

// HomeView is the home page.
type HomeView struct {
	Layout
	Entries []ads.Entry[strapi.Article]
	Popular []strapi.Article
}

// CategoryView is a category listing.
type CategoryView struct {
	Layout
	Name        string
	Description string
	Articles    []strapi.Article
	Popular     []strapi.Article
}

// ArticleView is a single article.
type ArticleView struct {
	Layout
	Article      *strapi.Article
	Content      template.HTML
	TOC          []content.TocItem
	TopBanner    *strapi.Advertisement
	BottomBanner *strapi.Advertisement
}

// SearchView is the search page. Query is empty on the prompt page.
type SearchView struct {
	Layout
	Articles []strapi.Article
	Popular  []strapi.Article
}

// NotFoundView is the themed 404 page.
type NotFoundView struct {
	Layout
	Message string
}
