// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package seo

import (
	"encoding/xml"
	"net/url"
	"strings"
	"time"

	"github.com/olegiv/blogfront/internal/strapi"
)

// XMLNamespace is the sitemap XML namespace.
const XMLNamespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

// ChangeFreq is the change frequency of a URL.
type ChangeFreq string

// Change frequencies used by the blog.
const (
	ChangeFreqDaily   ChangeFreq = "daily"
	ChangeFreqWeekly  ChangeFreq = "weekly"
	ChangeFreqMonthly ChangeFreq = "monthly"
)

// SitemapURL is a single URL entry.
type SitemapURL struct {
	Loc        string     `xml:"loc"`
	LastMod    string     `xml:"lastmod,omitempty"`
	ChangeFreq ChangeFreq `xml:"changefreq,omitempty"`
	Priority   string     `xml:"priority,omitempty"`
}

// Sitemap is the complete sitemap document.
type Sitemap struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []SitemapURL `xml:"url"`
}

// SitemapBuilder collects blog URLs.
type SitemapBuilder struct {
	siteURL string
	urls    []SitemapURL
	seen    map[string]bool
}

// NewSitemapBuilder creates a builder for siteURL.
func NewSitemapBuilder(siteURL string) *SitemapBuilder {
	return &SitemapBuilder{
		siteURL: strings.TrimSuffix(siteURL, "/"),
		seen:    make(map[string]bool),
	}
}

func (b *SitemapBuilder) add(u SitemapURL) {
	if b.seen[u.Loc] {
		return
	}
	b.seen[u.Loc] = true
	b.urls = append(b.urls, u)
}

// AddHomepage adds the home page.
func (b *SitemapBuilder) AddHomepage() {
	b.add(SitemapURL{Loc: b.siteURL + "/", ChangeFreq: ChangeFreqDaily, Priority: "1.0"})
}

// AddArticles adds article pages. Articles without a slug are skipped.
func (b *SitemapBuilder) AddArticles(articles []strapi.Article) {
	for _, a := range articles {
		if a.Slug == "" {
			continue
		}
		u := SitemapURL{
			Loc:        b.siteURL + "/article/" + url.PathEscape(a.Slug),
			ChangeFreq: ChangeFreqMonthly,
			Priority:   "0.8",
		}
		if mod := lastModified(a); !mod.IsZero() {
			u.LastMod = mod.Format(time.RFC3339)
		}
		b.add(u)
	}
}

// AddCategories adds category listing pages.
func (b *SitemapBuilder) AddCategories(categories []strapi.Category) {
	for _, c := range categories {
		if c.Slug == "" {
			continue
		}
		b.add(SitemapURL{
			Loc:        b.siteURL + "/blog/" + url.PathEscape(c.Slug),
			ChangeFreq: ChangeFreqWeekly,
			Priority:   "0.6",
		})
	}
}

// Build generates the sitemap XML.
func (b *SitemapBuilder) Build() ([]byte, error) {
	doc := Sitemap{XMLNS: XMLNamespace, URLs: b.urls}
	data, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), data...), nil
}

// GenerateSitemap builds a sitemap of the home page, every article and every
// category.
func GenerateSitemap(siteURL string, articles []strapi.Article, categories []strapi.Category) ([]byte, error) {
	b := NewSitemapBuilder(siteURL)
	b.AddHomepage()
	b.AddCategories(categories)
	b.AddArticles(articles)
	return b.Build()
}

func lastModified(a strapi.Article) time.Time {
	if !a.UpdatedAt.IsZero() {
		return a.UpdatedAt.Time
	}
	return a.EffectiveDate()
}
