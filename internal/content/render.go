// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package content

import (
	"context"
	"encoding/json"
	"html/template"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"

	"github.com/olegiv/blogfront/internal/strapi"
)

// RendererOptions configures a Renderer.
type RendererOptions struct {
	Media    strapi.MediaResolver
	Sanitize bool
	Logger   *slog.Logger
}

// Renderer turns normalized content into HTML.
type Renderer struct {
	media    strapi.MediaResolver
	markdown goldmark.Markdown
	policy   *bluemonday.Policy
	logger   *slog.Logger
}

// NewRenderer creates a Renderer. When opts.Sanitize is set, all output
// passes a UGC policy that keeps heading anchors.
func NewRenderer(opts RendererOptions) *Renderer {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	r := &Renderer{
		media:    opts.Media,
		markdown: newMarkdown(),
		logger:   logger,
	}
	if opts.Sanitize {
		r.policy = contentPolicy()
	}
	return r
}

func contentPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("id").Matching(regexp.MustCompile(`^[\p{L}\p{N}_:.-]+$`)).OnElements("h1", "h2", "h3", "h4", "h5", "h6")
	p.AllowAttrs("class").Matching(regexp.MustCompile(`^[\w -]+$`)).OnElements("figure", "div", "blockquote", "code", "cite")
	p.AllowAttrs("loading").Matching(regexp.MustCompile(`^lazy$`)).OnElements("img")
	p.AllowAttrs("target").Matching(regexp.MustCompile(`^_blank$`)).OnElements("a")
	p.AddTargetBlankToFullyQualifiedLinks(true)
	return p
}

// Render returns the HTML for res.
func (r *Renderer) Render(ctx context.Context, res Result) template.HTML {
	var out string
	switch res.Kind {
	case KindEmpty:
		return ""
	case KindHTML, KindMarkdown:
		var s string
		if err := json.Unmarshal(res.Content, &s); err != nil {
			r.logger.WarnContext(ctx, "content is not a string", "kind", res.Kind, "error", err)
			return ""
		}
		out = r.renderString(ctx, s, res.Kind)
	case KindBlocks:
		blocks, err := ParseBlocks(res.Content)
		if err != nil {
			r.logger.WarnContext(ctx, "malformed blocks content", "error", err)
			return ""
		}
		out = r.RenderBlocks(ctx, blocks)
	case KindZone:
		components, err := ParseZone(res.Content)
		if err != nil {
			r.logger.WarnContext(ctx, "malformed dynamic zone", "error", err)
			return ""
		}
		out = r.RenderZone(ctx, components)
	default:
		r.logger.WarnContext(ctx, "unknown content type", "raw", truncate(string(res.Content), 200))
		return ""
	}
	return r.sanitize(out)
}

// sanitize applies the content policy when one is configured.
func (r *Renderer) sanitize(s string) template.HTML {
	if r.policy != nil {
		s = r.policy.Sanitize(s)
	}
	return template.HTML(s) //nolint:gosec // sanitized above when enabled, CMS-authored otherwise
}

func (r *Renderer) renderString(ctx context.Context, s string, kind Kind) string {
	if kind != KindMarkdown {
		return s
	}
	out, err := renderMarkdown(r.markdown, s)
	if err != nil {
		r.logger.WarnContext(ctx, "rendering markdown", "error", err)
		return ""
	}
	return out
}

// RenderBlocks renders a blocks document. Unknown blocks are omitted.
func (r *Renderer) RenderBlocks(ctx context.Context, blocks []Block) string {
	var sb strings.Builder
	for _, b := range blocks {
		r.writeBlock(ctx, &sb, b)
	}
	return sb.String()
}

func (r *Renderer) writeBlock(ctx context.Context, sb *strings.Builder, b Block) {
	switch b := b.(type) {
	case Heading:
		tag := "h" + strconv.Itoa(b.Level)
		sb.WriteString("<" + tag)
		if b.ID != "" {
			sb.WriteString(` id="` + esc(b.ID) + `"`)
		}
		sb.WriteString(">")
		writeInlines(sb, b.Children)
		sb.WriteString("</" + tag + ">\n")
	case Paragraph:
		sb.WriteString("<p>")
		writeInlines(sb, b.Children)
		sb.WriteString("</p>\n")
	case List:
		writeList(sb, b.Ordered, b.Items)
	case Quote:
		sb.WriteString("<blockquote>")
		writeInlines(sb, b.Children)
		sb.WriteString("</blockquote>\n")
	case Code:
		sb.WriteString("<pre><code")
		if b.Language != "" {
			sb.WriteString(` class="language-` + esc(b.Language) + `"`)
		}
		sb.WriteString(">" + esc(plainText(b.Children)) + "</code></pre>\n")
	case Image:
		src := r.media.ResolveMedia(&b.Image)
		if src == "" {
			r.logger.WarnContext(ctx, "image block without url")
			return
		}
		sb.WriteString(`<figure class="block-image">`)
		writeImg(sb, src, b.Image, 800, 450)
		if b.Image.Caption != "" {
			sb.WriteString("<figcaption>" + esc(b.Image.Caption) + "</figcaption>")
		}
		sb.WriteString("</figure>\n")
	case UnknownBlock:
		r.logger.WarnContext(ctx, "unknown block type", "type", b.Type)
	}
}

func writeList(sb *strings.Builder, ordered bool, items []Inline) {
	tag := "ul"
	if ordered {
		tag = "ol"
	}
	sb.WriteString("<" + tag + ">")
	for _, item := range items {
		sb.WriteString("<li>")
		if item.Type == "list" {
			writeList(sb, item.Format == "ordered", item.Children)
		} else {
			writeInlines(sb, item.Children)
		}
		sb.WriteString("</li>")
	}
	sb.WriteString("</" + tag + ">\n")
}

func writeInlines(sb *strings.Builder, nodes []Inline) {
	for _, n := range nodes {
		switch n.Type {
		case "text":
			sb.WriteString(markText(n))
		case "link":
			sb.WriteString(`<a href="` + esc(n.URL) + `"`)
			if n.IsExternal() {
				sb.WriteString(` target="_blank"`)
			}
			sb.WriteString(` rel="noopener noreferrer">`)
			writeInlines(sb, n.Children)
			sb.WriteString("</a>")
		case "list":
			writeList(sb, n.Format == "ordered", n.Children)
		case "list-item":
			writeInlines(sb, n.Children)
		}
	}
}

// markText wraps a text leaf in its marks, innermost first.
func markText(n Inline) string {
	s := esc(n.Text)
	if n.Bold {
		s = "<strong>" + s + "</strong>"
	}
	if n.Italic {
		s = "<em>" + s + "</em>"
	}
	if n.Underline {
		s = "<u>" + s + "</u>"
	}
	if n.Strikethrough {
		s = "<s>" + s + "</s>"
	}
	if n.Code {
		s = "<code>" + s + "</code>"
	}
	return s
}

// RenderZone renders dynamic-zone components. Unknown components are omitted.
func (r *Renderer) RenderZone(ctx context.Context, components []Component) string {
	var sb strings.Builder
	for _, c := range components {
		switch c := c.(type) {
		case RichText:
			switch c.Kind {
			case KindBlocks:
				sb.WriteString(`<div class="rich-text">` + r.RenderBlocks(ctx, c.Blocks) + "</div>\n")
			case KindHTML, KindMarkdown:
				sb.WriteString(`<div class="rich-text">` + r.renderString(ctx, c.Text, c.Kind) + "</div>\n")
			}
		case MediaComponent:
			src := r.media.ResolveMedia(&c.File)
			if src == "" {
				r.logger.WarnContext(ctx, "media component without file", "component", c.Name)
				continue
			}
			sb.WriteString(`<figure class="media">`)
			writeImg(&sb, src, c.File, 1200, 675)
			if c.Caption != "" {
				sb.WriteString("<figcaption>" + esc(c.Caption) + "</figcaption>")
			}
			sb.WriteString("</figure>\n")
		case QuoteComponent:
			sb.WriteString(`<blockquote class="quote">`)
			if c.Body != "" {
				sb.WriteString("<p>&ldquo;" + esc(c.Body) + "&rdquo;</p>")
			}
			if c.Title != "" {
				sb.WriteString(`<cite>` + esc(c.Title) + "</cite>")
			}
			sb.WriteString("</blockquote>\n")
		case Slider:
			if len(c.Files) == 0 {
				continue
			}
			sb.WriteString(`<div class="slider">`)
			for _, f := range c.Files {
				writeImg(&sb, r.media.ResolveMedia(&f), f, 0, 0)
			}
			sb.WriteString("</div>\n")
		case UnknownComponent:
			r.logger.WarnContext(ctx, "unknown component type", "component", c.Name)
		}
	}
	return sb.String()
}

func writeImg(sb *strings.Builder, src string, m strapi.Media, defW, defH int) {
	w, h := m.Width, m.Height
	if w == 0 {
		w = defW
	}
	if h == 0 {
		h = defH
	}
	sb.WriteString(`<img src="` + esc(src) + `" alt="` + esc(m.AlternativeText) + `"`)
	if w > 0 && h > 0 {
		sb.WriteString(` width="` + strconv.Itoa(w) + `" height="` + strconv.Itoa(h) + `"`)
	}
	sb.WriteString(` loading="lazy">`)
}

func esc(s string) string {
	return template.HTMLEscapeString(s)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
