// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service assembles page data from the content API, caching
// listings and fetching independent parts of a page concurrently.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/olegiv/blogfront/internal/cache"
	"github.com/olegiv/blogfront/internal/seo"
	"github.com/olegiv/blogfront/internal/strapi"
)

// SitemapTTL is how long a generated sitemap is served from cache.
const SitemapTTL = time.Hour

// Source is the content API used by Blog. *strapi.Client implements it.
type Source interface {
	ListArticles(ctx context.Context, p strapi.ListParams) (*strapi.ArticleList, error)
	ArticlesByCategory(ctx context.Context, categorySlug string, p strapi.ListParams) (*strapi.ArticleList, error)
	SearchArticles(ctx context.Context, query string, p strapi.ListParams) (*strapi.ArticleList, error)
	PopularArticles(ctx context.Context, categorySlug string, limit int) ([]strapi.Article, error)
	ArticleBySlug(ctx context.Context, slug string) (*strapi.Article, error)
	CategoryBySlug(ctx context.Context, slug string) (*strapi.Category, error)
	ListCategories(ctx context.Context) ([]strapi.Category, error)
	Advertisements(ctx context.Context, format string, limit int) ([]strapi.Advertisement, error)
}

// Options configures a Blog.
type Options struct {
	Store  cache.Store
	TTL    time.Duration
	Logger *slog.Logger
}

// Blog serves page data for the front end.
type Blog struct {
	src    Source
	store  cache.Store
	logger *slog.Logger

	lists      *cache.Typed[strapi.ArticleList]
	articles   *cache.Typed[strapi.Article]
	popular    *cache.Typed[[]strapi.Article]
	ads        *cache.Typed[[]strapi.Advertisement]
	categories *cache.Typed[[]strapi.Category]
	category   *cache.Typed[strapi.Category]
	sitemaps   *cache.Typed[[]byte]
}

// NewBlog creates a Blog. A nil Store uses an in-process memory cache.
func NewBlog(src Source, opts Options) *Blog {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	store := opts.Store
	if store == nil {
		store = cache.NewMemory(cache.MemoryOptions{DefaultTTL: opts.TTL})
	}
	return &Blog{
		src:        src,
		store:      store,
		logger:     logger,
		lists:      cache.NewTyped[strapi.ArticleList](store, opts.TTL),
		articles:   cache.NewTyped[strapi.Article](store, opts.TTL),
		popular:    cache.NewTyped[[]strapi.Article](store, opts.TTL),
		ads:        cache.NewTyped[[]strapi.Advertisement](store, opts.TTL),
		categories: cache.NewTyped[[]strapi.Category](store, opts.TTL),
		category:   cache.NewTyped[strapi.Category](store, opts.TTL),
		sitemaps:   cache.NewTyped[[]byte](store, SitemapTTL),
	}
}

// Cache key layout.
const (
	keyCategories    = "categories"
	keySitemap       = "sitemap"
	prefixPopular    = "popular:"
	prefixArticle    = "article:"
	prefixHome       = "home:"
	prefixAds        = "ads:"
	prefixCategory   = "category:"
	prefixInCategory = "category-articles:"
)

func homeKey(page int) string { return prefixHome + strconv.Itoa(page) }

// HomePage is the data behind the home page.
type HomePage struct {
	Articles   []strapi.Article
	Pagination strapi.Pagination
	Ads        []strapi.Advertisement
	Popular    []strapi.Article
}

// CategoryPage is the data behind a category listing.
type CategoryPage struct {
	Slug string
	// Category is nil when the CMS has no category with this slug but
	// articles still reference it.
	Category *strapi.Category
	Articles []strapi.Article
	Popular  []strapi.Article
}

// Name returns the category name, falling back to the title-cased slug.
func (p *CategoryPage) Name() string {
	if p.Category != nil && p.Category.Name != "" {
		return p.Category.Name
	}
	return DisplayName(p.Slug)
}

// ArticlePage is the data behind an article page.
type ArticlePage struct {
	Article *strapi.Article
	Banners []strapi.Advertisement
}

// SearchPage is the data behind the search page. Articles is empty when
// Query is.
type SearchPage struct {
	Query    string
	Articles []strapi.Article
	Popular  []strapi.Article
}

// DisplayName turns a slug such as "machine-learning" into "Machine Learning".
func DisplayName(slug string) string {
	// Casers are stateful and cannot be shared between goroutines.
	return cases.Title(language.Und).String(strings.ReplaceAll(slug, "-", " "))
}

// Home loads the latest articles with card ads and the popular sidebar.
// Only a failure of the article listing is returned; ads and popular
// degrade to empty.
func (b *Blog) Home(ctx context.Context, page int) (*HomePage, error) {
	if page < 1 {
		page = 1
	}
	out := &HomePage{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		list, err := b.lists.GetOrLoad(gctx, homeKey(page), func(ctx context.Context) (strapi.ArticleList, error) {
			return deref(b.src.ListArticles(ctx, strapi.ListParams{Page: page, PageSize: strapi.HomePageSize}))
		})
		if err != nil {
			return fmt.Errorf("listing articles: %w", err)
		}
		out.Articles, out.Pagination = list.Articles, list.Pagination
		return nil
	})
	g.Go(func() error {
		out.Ads = optional(gctx, b.logger, "card ads", func(ctx context.Context) ([]strapi.Advertisement, error) {
			return b.Ads(ctx, strapi.FormatCard)
		})
		return nil
	})
	g.Go(func() error {
		out.Popular = optional(gctx, b.logger, "popular articles", func(ctx context.Context) ([]strapi.Article, error) {
			return b.Popular(ctx, "")
		})
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Category loads a category listing. strapi.ErrNotFound is returned when
// neither the category nor any article in it exists.
func (b *Blog) Category(ctx context.Context, slug string) (*CategoryPage, error) {
	out := &CategoryPage{Slug: slug}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		c, err := b.category.GetOrLoad(gctx, prefixCategory+slug, func(ctx context.Context) (strapi.Category, error) {
			return deref(b.src.CategoryBySlug(ctx, slug))
		})
		switch {
		case errors.Is(err, strapi.ErrNotFound):
			return nil
		case err != nil:
			return fmt.Errorf("loading category %s: %w", slug, err)
		}
		out.Category = &c
		return nil
	})
	g.Go(func() error {
		list, err := b.lists.GetOrLoad(gctx, prefixInCategory+slug, func(ctx context.Context) (strapi.ArticleList, error) {
			return deref(b.src.ArticlesByCategory(ctx, slug, strapi.ListParams{}))
		})
		if err != nil {
			return fmt.Errorf("listing category %s: %w", slug, err)
		}
		out.Articles = list.Articles
		return nil
	})
	g.Go(func() error {
		out.Popular = optional(gctx, b.logger, "popular articles", func(ctx context.Context) ([]strapi.Article, error) {
			return b.Popular(ctx, slug)
		})
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if out.Category == nil && len(out.Articles) == 0 {
		return nil, fmt.Errorf("category %q: %w", slug, strapi.ErrNotFound)
	}
	return out, nil
}

// Article loads an article and its banner ads.
func (b *Blog) Article(ctx context.Context, slug string) (*ArticlePage, error) {
	out := &ArticlePage{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a, err := b.articles.GetOrLoad(gctx, prefixArticle+slug, func(ctx context.Context) (strapi.Article, error) {
			return deref(b.src.ArticleBySlug(ctx, slug))
		})
		if err != nil {
			return err
		}
		out.Article = &a
		return nil
	})
	g.Go(func() error {
		out.Banners = optional(gctx, b.logger, "banner ads", func(ctx context.Context) ([]strapi.Advertisement, error) {
			return b.Ads(ctx, strapi.FormatBanner)
		})
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Search runs an uncached title/description search. An empty query only
// loads the popular sidebar.
func (b *Blog) Search(ctx context.Context, query string) (*SearchPage, error) {
	out := &SearchPage{Query: strings.TrimSpace(query)}
	g, gctx := errgroup.WithContext(ctx)

	if out.Query != "" {
		g.Go(func() error {
			list, err := b.src.SearchArticles(gctx, out.Query, strapi.ListParams{})
			if err != nil {
				return fmt.Errorf("searching %q: %w", out.Query, err)
			}
			out.Articles = list.Articles
			return nil
		})
	}
	g.Go(func() error {
		out.Popular = optional(gctx, b.logger, "popular articles", func(ctx context.Context) ([]strapi.Article, error) {
			return b.Popular(ctx, "")
		})
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Popular returns the most viewed articles, optionally within a category.
func (b *Blog) Popular(ctx context.Context, categorySlug string) ([]strapi.Article, error) {
	return b.popular.GetOrLoad(ctx, prefixPopular+categorySlug, func(ctx context.Context) ([]strapi.Article, error) {
		return b.src.PopularArticles(ctx, categorySlug, strapi.PopularLimit)
	})
}

// Ads returns the advertisements of one format.
func (b *Blog) Ads(ctx context.Context, format string) ([]strapi.Advertisement, error) {
	return b.ads.GetOrLoad(ctx, prefixAds+format, func(ctx context.Context) ([]strapi.Advertisement, error) {
		return b.src.Advertisements(ctx, format, adLimit(format))
	})
}

// Categories returns all categories for navigation.
func (b *Blog) Categories(ctx context.Context) ([]strapi.Category, error) {
	return b.categories.GetOrLoad(ctx, keyCategories, b.src.ListCategories)
}

// sitemapPageSize is the page size used to walk the whole article collection.
const sitemapPageSize = 100

// AllArticles walks every page of the article collection. The result is
// not cached; see Sitemap.
func (b *Blog) AllArticles(ctx context.Context) ([]strapi.Article, error) {
	var all []strapi.Article
	for page := 1; ; page++ {
		list, err := b.src.ListArticles(ctx, strapi.ListParams{Page: page, PageSize: sitemapPageSize})
		if err != nil {
			return nil, fmt.Errorf("listing articles page %d: %w", page, err)
		}
		all = append(all, list.Articles...)
		if len(list.Articles) < sitemapPageSize || page >= list.Pagination.PageCount {
			return all, nil
		}
	}
}

// Sitemap returns the sitemap XML for siteURL, cached for SitemapTTL. A
// category failure only drops categories from the sitemap.
func (b *Blog) Sitemap(ctx context.Context, siteURL string) ([]byte, error) {
	return b.sitemaps.GetOrLoad(ctx, keySitemap, func(ctx context.Context) ([]byte, error) {
		articles, err := b.AllArticles(ctx)
		if err != nil {
			return nil, err
		}
		categories := optional(ctx, b.logger, "sitemap categories", b.Categories)
		return seo.GenerateSitemap(siteURL, articles, categories)
	})
}

// Invalidate drops cached data that shows the view count of slug.
func (b *Blog) Invalidate(ctx context.Context, slug string) {
	if err := b.store.Delete(ctx, prefixArticle+slug); err != nil {
		b.logger.WarnContext(ctx, "cache invalidation failed", "key", prefixArticle+slug, "error", err)
	}
	if err := b.store.DeletePrefix(ctx, prefixPopular); err != nil {
		b.logger.WarnContext(ctx, "cache invalidation failed", "prefix", prefixPopular, "error", err)
	}
}

// Warm refreshes the home listing, card ads and the global popular list.
func (b *Blog) Warm(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return b.lists.Refresh(gctx, homeKey(1), func(ctx context.Context) (strapi.ArticleList, error) {
			return deref(b.src.ListArticles(ctx, strapi.ListParams{Page: 1, PageSize: strapi.HomePageSize}))
		})
	})
	g.Go(func() error {
		return b.ads.Refresh(gctx, prefixAds+strapi.FormatCard, func(ctx context.Context) ([]strapi.Advertisement, error) {
			return b.src.Advertisements(ctx, strapi.FormatCard, strapi.CardAdLimit)
		})
	})
	g.Go(func() error {
		return b.popular.Refresh(gctx, prefixPopular, func(ctx context.Context) ([]strapi.Article, error) {
			return b.src.PopularArticles(ctx, "", strapi.PopularLimit)
		})
	})
	return g.Wait()
}

// optional runs load and logs instead of failing the page.
func optional[T any](ctx context.Context, logger *slog.Logger, what string, load func(context.Context) ([]T, error)) []T {
	v, err := load(ctx)
	if err != nil {
		logger.WarnContext(ctx, "failed to load "+what, "error", err)
		return nil
	}
	return v
}

func adLimit(format string) int {
	if format == strapi.FormatBanner {
		return strapi.BannerAdLimit
	}
	return strapi.CardAdLimit
}

func deref[T any](v *T, err error) (T, error) {
	if err != nil || v == nil {
		var zero T
		return zero, err
	}
	return *v, nil
}
