// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package config loads blogfront settings from the environment.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	ServerHost string `env:"BLOG_SERVER_HOST" envDefault:"localhost"`
	ServerPort int    `env:"BLOG_SERVER_PORT" envDefault:"8080"`
	Env        string `env:"BLOG_ENV" envDefault:"development"`
	LogLevel   string `env:"BLOG_LOG_LEVEL" envDefault:"info"`

	SiteName string `env:"BLOG_SITE_NAME" envDefault:"My Strapi Blog"`
	SiteURL  string `env:"BLOG_SITE_URL" envDefault:"http://localhost:8080"`

	// Content API
	StrapiURL     string        `env:"BLOG_STRAPI_URL" envDefault:"http://localhost:1337"`
	StrapiToken   string        `env:"BLOG_STRAPI_TOKEN"`
	StrapiTimeout time.Duration `env:"BLOG_STRAPI_TIMEOUT" envDefault:"10s"`

	// Whole-site basic auth gate (disabled when user is empty)
	BasicAuthUser     string `env:"BLOG_BASIC_AUTH_USER"`
	BasicAuthPassword string `env:"BLOG_BASIC_AUTH_PASSWORD"`

	// Cache configuration
	RedisURL     string        `env:"BLOG_REDIS_URL"`                       // Optional Redis URL for shared caching
	CachePrefix  string        `env:"BLOG_CACHE_PREFIX" envDefault:"blog:"` // Redis key prefix
	CacheTTL     time.Duration `env:"BLOG_CACHE_TTL" envDefault:"60s"`
	CacheMaxSize int           `env:"BLOG_CACHE_MAX_SIZE" envDefault:"1000"`
	WarmSchedule string        `env:"BLOG_WARM_SCHEDULE" envDefault:"@every 1m"`

	SanitizeContent bool `env:"BLOG_SANITIZE_CONTENT" envDefault:"true"`

	// View counter
	SkipBotViews bool    `env:"BLOG_SKIP_BOT_VIEWS" envDefault:"false"`
	ViewsRate    float64 `env:"BLOG_VIEWS_RATE" envDefault:"2"`
	ViewsBurst   int     `env:"BLOG_VIEWS_BURST" envDefault:"5"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// BasicAuthEnabled returns true if the site is gated behind basic auth.
func (c Config) BasicAuthEnabled() bool {
	return c.BasicAuthUser != ""
}

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.StrapiURL = strings.TrimRight(cfg.StrapiURL, "/")
	cfg.SiteURL = strings.TrimRight(cfg.SiteURL, "/")
	return cfg, nil
}

func (c *Config) validate() error {
	u, err := url.Parse(c.StrapiURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("BLOG_STRAPI_URL must be an absolute http(s) URL, got %q", c.StrapiURL)
	}
	if c.ServerPort < 1 || c.ServerPort > 65535 {
		return fmt.Errorf("BLOG_SERVER_PORT out of range: %d", c.ServerPort)
	}
	if c.BasicAuthUser != "" && c.BasicAuthPassword == "" {
		return errors.New("BLOG_BASIC_AUTH_PASSWORD is required when BLOG_BASIC_AUTH_USER is set")
	}
	if c.StrapiTimeout <= 0 {
		return fmt.Errorf("BLOG_STRAPI_TIMEOUT must be positive, got %s", c.StrapiTimeout)
	}
	return nil
}
