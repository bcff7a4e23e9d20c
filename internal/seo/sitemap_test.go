// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package seo

import (
	"bytes"
	"encoding/xml"
	"testing"
	"time"

	"github.com/olegiv/blogfront/internal/strapi"
)

func TestGenerateSitemap(t *testing.T) {
	updated := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	published := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

	articles := []strapi.Article{
		{Slug: "hello", UpdatedAt: strapi.Timestamp{Time: updated}},
		{Slug: "dated", DisplayDate: strapi.Timestamp{Time: published}},
		{Slug: ""},
		{Slug: "hello"},
	}
	categories := []strapi.Category{{Slug: "go"}, {Slug: ""}}

	data, err := GenerateSitemap("https://blog.example.com/", articles, categories)
	if err != nil {
		t.Fatalf("GenerateSitemap: %v", err)
	}

	var doc Sitemap
	if err := xml.Unmarshal(data, &doc); err != nil {
		t.Fatalf("invalid XML: %v", err)
	}
	if !bytes.Contains(data, []byte(`<urlset xmlns="`+XMLNamespace+`">`)) {
		t.Errorf("missing urlset namespace:\n%s", data)
	}

	want := []SitemapURL{
		{Loc: "https://blog.example.com/", ChangeFreq: ChangeFreqDaily, Priority: "1.0"},
		{Loc: "https://blog.example.com/blog/go", ChangeFreq: ChangeFreqWeekly, Priority: "0.6"},
		{Loc: "https://blog.example.com/article/hello", LastMod: "2025-06-01T12:00:00Z", ChangeFreq: ChangeFreqMonthly, Priority: "0.8"},
		{Loc: "https://blog.example.com/article/dated", LastMod: "2025-05-01T00:00:00Z", ChangeFreq: ChangeFreqMonthly, Priority: "0.8"},
	}
	if len(doc.URLs) != len(want) {
		t.Fatalf("got %d URLs, want %d: %+v", len(doc.URLs), len(want), doc.URLs)
	}
	for i := range want {
		if doc.URLs[i] != want[i] {
			t.Errorf("URL %d = %+v, want %+v", i, doc.URLs[i], want[i])
		}
	}
}

func TestSitemapBuilder_EscapesSlugs(t *testing.T) {
	b := NewSitemapBuilder("https://blog.example.com")
	b.AddArticles([]strapi.Article{{Slug: "a b"}})
	data, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}
	var doc Sitemap
	if err := xml.Unmarshal(data, &doc); err != nil {
		t.Fatal(err)
	}
	if doc.URLs[0].Loc != "https://blog.example.com/article/a%20b" {
		t.Errorf("Loc = %q", doc.URLs[0].Loc)
	}
}
