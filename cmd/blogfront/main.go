// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"crypto/rand"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/olegiv/blogfront/internal/cache"
	"github.com/olegiv/blogfront/internal/config"
	"github.com/olegiv/blogfront/internal/content"
	"github.com/olegiv/blogfront/internal/handler"
	"github.com/olegiv/blogfront/internal/logging"
	"github.com/olegiv/blogfront/internal/scheduler"
	"github.com/olegiv/blogfront/internal/seo"
	"github.com/olegiv/blogfront/internal/service"
	"github.com/olegiv/blogfront/internal/strapi"
	"github.com/olegiv/blogfront/internal/theme"
	"github.com/olegiv/blogfront/internal/version"
	"github.com/olegiv/blogfront/internal/views"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "blogfront - server-rendered front end for a Strapi blog\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  BLOG_STRAPI_URL           Strapi base URL (default: http://localhost:1337)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  BLOG_STRAPI_TOKEN         Strapi API token\n")
		_, _ = fmt.Fprintf(os.Stderr, "  BLOG_SERVER_PORT          Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  BLOG_ENV                  Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  BLOG_SITE_NAME            Site name (default: My Strapi Blog)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  BLOG_SITE_URL             Public site URL for canonical links and the sitemap\n")
		_, _ = fmt.Fprintf(os.Stderr, "  BLOG_BASIC_AUTH_USER      Gate the whole site behind basic auth (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  BLOG_BASIC_AUTH_PASSWORD  Basic auth password or bcrypt hash\n")
		_, _ = fmt.Fprintf(os.Stderr, "  BLOG_REDIS_URL            Redis URL for shared caching (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  BLOG_CACHE_TTL            Cache lifetime (default: 60s)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  BLOG_WARM_SCHEDULE        Cache warm-up cron schedule, empty disables (default: @every 1m)\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	info := version.Info{Version: appVersion, GitCommit: appGitCommit, BuildTime: appBuildTime}
	if *showVersion {
		_, _ = fmt.Println(info.String())
		os.Exit(0)
	}

	if err := run(info); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run(info version.Info) error {
	// Load .env file if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := logging.New(os.Stdout, cfg.LogLevel, cfg.Env)
	slog.SetDefault(logger)

	ctx := context.Background()

	store := cache.Open(ctx, cache.Config{
		RedisURL:   cfg.RedisURL,
		Prefix:     cfg.CachePrefix,
		DefaultTTL: cfg.CacheTTL,
		MaxEntries: cfg.CacheMaxSize,
	}, logger)
	defer func() {
		if err := store.Close(); err != nil {
			slog.Error("error closing cache", "error", err)
		}
	}()

	client := strapi.New(strapi.Options{
		BaseURL: cfg.StrapiURL,
		Token:   cfg.StrapiToken,
		Timeout: cfg.StrapiTimeout,
		Logger:  logger,
	})
	blog := service.NewBlog(client, service.Options{Store: store, TTL: cfg.CacheTTL, Logger: logger})
	counter := views.New(client, views.Options{
		SkipBots:    cfg.SkipBotViews,
		OnIncrement: blog.Invalidate,
		Logger:      logger,
	})

	th, err := theme.Load(theme.MediaFuncs(client.Media()))
	if err != nil {
		return fmt.Errorf("loading theme: %w", err)
	}

	// filippo.io/csrf ignores the key; it only checks fetch metadata.
	csrfKey := make([]byte, 32)
	if _, err := rand.Read(csrfKey); err != nil {
		return fmt.Errorf("generating csrf key: %w", err)
	}

	site := seo.SiteConfig{
		SiteName: cfg.SiteName,
		SiteURL:  cfg.SiteURL,
		NoIndex:  cfg.BasicAuthEnabled(),
	}
	r := newRouter(cfg, routerDeps{
		frontend: handler.NewFrontendHandler(handler.FrontendOptions{
			Blog:  blog,
			Theme: th,
			Renderer: content.NewRenderer(content.RendererOptions{
				Media:    client.Media(),
				Sanitize: cfg.SanitizeContent,
				Logger:   logger,
			}),
			Media:  client.Media(),
			Site:   site,
			Logger: logger,
		}),
		views:   handler.NewViewsHandler(counter, logger),
		health:  handler.NewHealthHandler(store, &info),
		seo:     handler.NewSEOHandler(blog, cfg.SiteURL, cfg.BasicAuthEnabled(), logger),
		static:  handler.NewStaticHandler(theme.Static()),
		csrfKey: csrfKey,
	})

	sched := scheduler.New(blog, cfg.WarmSchedule, scheduler.DefaultTimeout, logger)
	if sched.Enabled() {
		if err := sched.RunNow(ctx); err != nil {
			slog.Warn("initial cache warm-up failed", "error", err)
		}
	}
	if err := sched.Start(); err != nil {
		return fmt.Errorf("starting scheduler: %w", err)
	}
	defer sched.Stop()

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1MB max header size
	}

	go func() {
		slog.Info("starting server",
			"addr", cfg.ServerAddr(),
			"env", cfg.Env,
			"version", info.Version,
			"strapi", cfg.StrapiURL,
			"basic_auth", cfg.BasicAuthEnabled(),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
