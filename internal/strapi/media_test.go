// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package strapi

import "testing"

func TestMediaResolver_Resolve(t *testing.T) {
	r := NewMediaResolver("http://cms.local:1337/")

	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"/uploads/a.png", "http://cms.local:1337/uploads/a.png"},
		{"uploads/a.png", "http://cms.local:1337/uploads/a.png"},
		{"https://cdn.example.com/a.png", "https://cdn.example.com/a.png"},
		{"http://cdn.example.com/a.png", "http://cdn.example.com/a.png"},
		{"//cdn.example.com/a.png", "//cdn.example.com/a.png"},
	}
	for _, tt := range tests {
		if got := r.Resolve(tt.in); got != tt.want {
			t.Errorf("Resolve(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMediaResolver_ResolveMedia(t *testing.T) {
	r := NewMediaResolver("http://cms")
	if got := r.ResolveMedia(nil); got != "" {
		t.Errorf("ResolveMedia(nil) = %q", got)
	}
	if got := r.ResolveMedia(&Media{URL: "/a.jpg"}); got != "http://cms/a.jpg" {
		t.Errorf("ResolveMedia = %q", got)
	}
}
