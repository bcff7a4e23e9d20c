// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/olegiv/blogfront/internal/config"
	"github.com/olegiv/blogfront/internal/handler"
	"github.com/olegiv/blogfront/internal/middleware"
)

// staticMaxAge is the Cache-Control max-age for theme assets, in seconds.
const staticMaxAge = 86400

type routerDeps struct {
	frontend *handler.FrontendHandler
	views    *handler.ViewsHandler
	health   *handler.HealthHandler
	seo      *handler.SEOHandler
	static   *handler.StaticHandler
	csrfKey  []byte
}

func newRouter(cfg *config.Config, h routerDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))                    // Gzip compression with level 5
	r.Use(chimw.GetHead)                        // Handle HEAD requests for uptime monitoring
	r.Use(middleware.Timeout(30 * time.Second)) // 30 second request timeout
	r.Use(middleware.StripTrailingSlash)        // Redirect /path/ to /path (301)
	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment())))
	r.Use(middleware.BasicAuth(middleware.DefaultBasicAuthConfig(cfg.BasicAuthUser, cfg.BasicAuthPassword)))

	r.Get("/", h.frontend.Home)
	r.Get("/blog/{category}", h.frontend.Category)
	r.Get("/article/{slug}", h.frontend.Article)
	r.Get("/search", h.frontend.Search)

	r.Get("/sitemap.xml", h.seo.Sitemap)
	r.Get("/robots.txt", h.seo.Robots)
	r.Get("/healthz", h.health.Health)
	r.Get("/favicon.ico", h.static.Favicon)
	r.With(middleware.StaticCache(staticMaxAge)).Get("/static/*", h.static.Files)

	viewsLimiter := middleware.NewRateLimiter(cfg.ViewsRate, cfg.ViewsBurst)
	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.NoStore)
		r.Use(viewsLimiter.Middleware())
		r.Use(middleware.CSRF(middleware.DefaultCSRFConfig(h.csrfKey, cfg.IsDevelopment())))
		r.Post("/views", h.views.Increment)
	})

	r.NotFound(h.frontend.NotFound)

	return r
}
