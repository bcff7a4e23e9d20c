// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package handler provides the HTTP handlers of the blog front end.
package handler

import (
	"bytes"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/blogfront/internal/ads"
	"github.com/olegiv/blogfront/internal/content"
	"github.com/olegiv/blogfront/internal/seo"
	"github.com/olegiv/blogfront/internal/service"
	"github.com/olegiv/blogfront/internal/strapi"
	"github.com/olegiv/blogfront/internal/theme"
)

// UpstreamErrorMessage is shown in place of page content when the CMS fails.
const UpstreamErrorMessage = "An error occurred, please try again later"

// FrontendOptions configures a FrontendHandler.
type FrontendOptions struct {
	Blog     *service.Blog
	Theme    *theme.Theme
	Renderer *content.Renderer
	Media    strapi.MediaResolver
	Site     seo.SiteConfig
	Logger   *slog.Logger
}

// FrontendHandler serves the public HTML pages.
type FrontendHandler struct {
	blog     *service.Blog
	theme    *theme.Theme
	renderer *content.Renderer
	media    strapi.MediaResolver
	site     seo.SiteConfig
	logger   *slog.Logger
}

// NewFrontendHandler creates a new FrontendHandler.
func NewFrontendHandler(opts FrontendOptions) *FrontendHandler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	renderer := opts.Renderer
	if renderer == nil {
		renderer = content.NewRenderer(content.RendererOptions{Media: opts.Media, Sanitize: true, Logger: logger})
	}
	return &FrontendHandler{
		blog:     opts.Blog,
		theme:    opts.Theme,
		renderer: renderer,
		media:    opts.Media,
		site:     opts.Site,
		logger:   logger,
	}
}

// Home handles GET /.
func (h *FrontendHandler) Home(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	view := theme.HomeView{Layout: h.layout(r, nil, nil)}

	page, err := h.blog.Home(ctx, pageNum(r))
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to load home page", "error", err)
		view.Error = UpstreamErrorMessage
		h.render(w, r, http.StatusBadGateway, theme.PageHome, view)
		return
	}

	view.Entries = ads.Interleave(page.Articles, page.Ads)
	view.Popular = page.Popular
	h.render(w, r, http.StatusOK, theme.PageHome, view)
}

// Category handles GET /blog/{category}.
func (h *FrontendHandler) Category(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	slug := chi.URLParam(r, "category")

	page, err := h.blog.Category(ctx, slug)
	switch {
	case errors.Is(err, strapi.ErrNotFound):
		h.renderNotFound(w, r, "Category not found")
		return
	case err != nil:
		h.logger.ErrorContext(ctx, "failed to load category", "category", slug, "error", err)
		name := service.DisplayName(slug)
		view := theme.CategoryView{
			Layout: h.layout(r, &seo.PageData{Title: name, Path: "/blog/" + slug}, []seo.Crumb{{Label: name}}),
			Name:   name,
		}
		view.Error = UpstreamErrorMessage
		h.render(w, r, http.StatusBadGateway, theme.PageCategory, view)
		return
	}

	name := page.Name()
	var description string
	if page.Category != nil {
		description = page.Category.Description
	}
	meta := &seo.PageData{
		Title:       name,
		Description: description,
		Path:        "/blog/" + slug,
	}
	h.render(w, r, http.StatusOK, theme.PageCategory, theme.CategoryView{
		Layout:      h.layout(r, meta, []seo.Crumb{{Label: name}}),
		Name:        name,
		Description: description,
		Articles:    page.Articles,
		Popular:     page.Popular,
	})
}

// Article handles GET /article/{slug}.
func (h *FrontendHandler) Article(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	slug := chi.URLParam(r, "slug")

	page, err := h.blog.Article(ctx, slug)
	switch {
	case errors.Is(err, strapi.ErrNotFound):
		h.renderNotFound(w, r, "Article not found")
		return
	case err != nil:
		h.logger.ErrorContext(ctx, "failed to load article", "slug", slug, "error", err)
		view := theme.ArticleView{Layout: h.layout(r, &seo.PageData{Path: "/article/" + slug, NoIndex: true}, nil)}
		view.Error = UpstreamErrorMessage
		h.render(w, r, http.StatusBadGateway, theme.PageArticle, view)
		return
	}

	a := page.Article
	normalized := content.Normalize(a.Content)
	body := h.renderer.Render(ctx, normalized)

	meta := &seo.PageData{
		Title:       a.Title,
		Description: a.Description,
		Body:        string(body),
		Path:        "/article/" + a.Slug,
		Image:       h.media.ResolveMedia(a.Cover),
		Article:     true,
		PublishedAt: a.EffectiveDate(),
		ModifiedAt:  a.UpdatedAt.Time,
	}
	var crumbs []seo.Crumb
	if a.HasCategory() {
		catName := a.Category.Name
		if catName == "" {
			catName = service.DisplayName(a.Category.Slug)
		}
		meta.Section = catName
		crumbs = append(crumbs, seo.Crumb{Label: catName, Href: "/blog/" + a.Category.Slug})
	}
	crumbs = append(crumbs, seo.Crumb{Label: a.Title})

	layout := h.layout(r, meta, crumbs)
	layout.JSONLD = append([]template.JS{seo.BuildArticleSchema(meta, h.site)}, layout.JSONLD...)

	top, bottom := ads.Banners(page.Banners)
	h.render(w, r, http.StatusOK, theme.PageArticle, theme.ArticleView{
		Layout:       layout,
		Article:      a,
		Content:      body,
		TOC:          normalized.Headings,
		TopBanner:    top,
		BottomBanner: bottom,
	})
}

// Search handles GET /search?q=.
func (h *FrontendHandler) Search(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query().Get("q")

	page, err := h.blog.Search(ctx, query)
	meta := &seo.PageData{Title: "Search", Path: "/search", NoIndex: true}
	if err != nil {
		h.logger.ErrorContext(ctx, "search failed", "query", query, "error", err)
		view := theme.SearchView{Layout: h.layout(r, meta, []seo.Crumb{{Label: "Search"}})}
		view.Query = query
		view.Error = UpstreamErrorMessage
		h.render(w, r, http.StatusBadGateway, theme.PageSearch, view)
		return
	}

	view := theme.SearchView{
		Layout:   h.layout(r, meta, []seo.Crumb{{Label: "Search"}}),
		Articles: page.Articles,
		Popular:  page.Popular,
	}
	view.Query = page.Query
	h.render(w, r, http.StatusOK, theme.PageSearch, view)
}

// NotFound renders the themed 404 page for unknown routes.
func (h *FrontendHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.renderNotFound(w, r, "")
}

func (h *FrontendHandler) renderNotFound(w http.ResponseWriter, r *http.Request, message string) {
	view := theme.NotFoundView{
		Layout:  h.layout(r, &seo.PageData{Title: "Page Not Found", Path: r.URL.Path, NoIndex: true}, nil),
		Message: message,
	}
	h.render(w, r, http.StatusNotFound, theme.PageNotFound, view)
}

// layout builds the data shared by every page. Navigation categories are
// optional and only logged when they fail to load.
func (h *FrontendHandler) layout(r *http.Request, page *seo.PageData, crumbs []seo.Crumb) theme.Layout {
	ctx := r.Context()
	categories, err := h.blog.Categories(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "failed to load navigation categories", "error", err)
	}

	l := theme.Layout{
		Site: theme.Site{
			Name: h.site.SiteName,
			URL:  h.site.SiteURL,
			Year: time.Now().Year(),
		},
		Meta:        seo.BuildMeta(page, h.site),
		Categories:  categories,
		Breadcrumbs: crumbs,
	}
	if len(crumbs) > 0 {
		l.JSONLD = append(l.JSONLD, seo.BuildBreadcrumbSchema(crumbs, h.site))
	}
	return l
}

// render renders a page to a buffer first so template errors become a 500.
func (h *FrontendHandler) render(w http.ResponseWriter, r *http.Request, status int, page string, data any) {
	buf := new(bytes.Buffer)
	if err := h.theme.RenderPage(buf, page, data); err != nil {
		h.logger.ErrorContext(r.Context(), "failed to render template", "template", page, "error", err)
		http.Error(w, "Template rendering error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// pageNum reads the 1-based ?page= parameter.
func pageNum(r *http.Request) int {
	n, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || n < 1 {
		return 1
	}
	return n
}
