// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"os"
	"testing"
	"time"
)

func setEnv(t *testing.T, key, value string) {
	t.Helper()
	if err := os.Setenv(key, value); err != nil {
		t.Fatalf("failed to set %s: %v", key, err)
	}
}

func TestLoad_Defaults(t *testing.T) {
	os.Clearenv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.ServerHost != "localhost" {
		t.Errorf("ServerHost = %q, want %q", cfg.ServerHost, "localhost")
	}
	if cfg.ServerPort != 8080 {
		t.Errorf("ServerPort = %d, want %d", cfg.ServerPort, 8080)
	}
	if cfg.StrapiURL != "http://localhost:1337" {
		t.Errorf("StrapiURL = %q, want %q", cfg.StrapiURL, "http://localhost:1337")
	}
	if cfg.StrapiTimeout != 10*time.Second {
		t.Errorf("StrapiTimeout = %s, want 10s", cfg.StrapiTimeout)
	}
	if cfg.CacheTTL != time.Minute {
		t.Errorf("CacheTTL = %s, want 1m", cfg.CacheTTL)
	}
	if !cfg.SanitizeContent {
		t.Error("SanitizeContent should default to true")
	}
	if cfg.BasicAuthEnabled() {
		t.Error("basic auth should be disabled by default")
	}
	if cfg.UseRedisCache() {
		t.Error("redis should be disabled by default")
	}
}

func TestLoad_CustomValues(t *testing.T) {
	os.Clearenv()
	setEnv(t, "BLOG_SERVER_HOST", "0.0.0.0")
	setEnv(t, "BLOG_SERVER_PORT", "3000")
	setEnv(t, "BLOG_ENV", "production")
	setEnv(t, "BLOG_STRAPI_URL", "https://cms.example.com/")
	setEnv(t, "BLOG_STRAPI_TOKEN", "tok")
	setEnv(t, "BLOG_BASIC_AUTH_USER", "admin")
	setEnv(t, "BLOG_BASIC_AUTH_PASSWORD", "secret")
	setEnv(t, "BLOG_REDIS_URL", "redis://localhost:6379/0")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.ServerAddr() != "0.0.0.0:3000" {
		t.Errorf("ServerAddr() = %q, want %q", cfg.ServerAddr(), "0.0.0.0:3000")
	}
	if cfg.IsDevelopment() {
		t.Error("IsDevelopment() = true for production")
	}
	if cfg.StrapiURL != "https://cms.example.com" {
		t.Errorf("StrapiURL = %q, trailing slash should be trimmed", cfg.StrapiURL)
	}
	if !cfg.BasicAuthEnabled() {
		t.Error("BasicAuthEnabled() = false with user set")
	}
	if !cfg.UseRedisCache() {
		t.Error("UseRedisCache() = false with URL set")
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"relative strapi url", map[string]string{"BLOG_STRAPI_URL": "/cms"}},
		{"ftp strapi url", map[string]string{"BLOG_STRAPI_URL": "ftp://cms"}},
		{"port out of range", map[string]string{"BLOG_SERVER_PORT": "70000"}},
		{"user without password", map[string]string{"BLOG_BASIC_AUTH_USER": "admin"}},
		{"zero timeout", map[string]string{"BLOG_STRAPI_TIMEOUT": "0s"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Clearenv()
			for k, v := range tt.env {
				setEnv(t, k, v)
			}
			if _, err := Load(); err == nil {
				t.Error("Load() expected error, got nil")
			}
		})
	}
}
