// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package theme renders the embedded blog theme.
package theme

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"regexp"
	"strings"
)

//go:embed templates
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Page names.
const (
	PageHome     = "home"
	PageCategory = "category"
	PageArticle  = "article"
	PageSearch   = "search"
	PageNotFound = "404"
)

// blankLinesRegex matches two or more consecutive newlines (with optional whitespace between).
var blankLinesRegex = regexp.MustCompile(`(\r?\n\s*){2,}`)

// Theme holds one fully composed template set per page.
type Theme struct {
	pages map[string]*template.Template
}

// Load parses the embedded templates. funcs extends the built-in template
// functions and may override them.
func Load(funcs template.FuncMap) (*Theme, error) {
	return load(templateFS, funcs)
}

func load(fsys fs.FS, funcs template.FuncMap) (*Theme, error) {
	fm := baseFuncs()
	for k, v := range funcs {
		fm[k] = v
	}
	root := template.New("").Funcs(fm)

	for _, dir := range []string{"templates/layouts", "templates/partials"} {
		if err := parseDir(root, fsys, dir, func(name string, src []byte) (string, string) {
			return name, string(src)
		}); err != nil {
			return nil, err
		}
	}

	// Each page's {{define "content"}} is renamed to content_<page> so all
	// pages can share one root set.
	var pageNames []string
	err := parseDir(root, fsys, "templates/pages", func(name string, src []byte) (string, string) {
		page := strings.TrimSuffix(name, ".html")
		pageNames = append(pageNames, page)
		return "pages/" + name, strings.Replace(string(src), `{{define "content"}}`, `{{define "content_`+page+`"}}`, 1)
	})
	if err != nil {
		return nil, err
	}
	if root.Lookup("base.html") == nil {
		return nil, fmt.Errorf("base layout not found")
	}

	t := &Theme{pages: make(map[string]*template.Template, len(pageNames))}
	for _, page := range pageNames {
		clone, err := root.Clone()
		if err != nil {
			return nil, fmt.Errorf("cloning templates for %s: %w", page, err)
		}
		if _, err := clone.Parse(`{{define "content"}}{{template "content_` + page + `" .}}{{end}}`); err != nil {
			return nil, fmt.Errorf("composing page %s: %w", page, err)
		}
		t.pages[page] = clone
	}
	return t, nil
}

func parseDir(root *template.Template, fsys fs.FS, dir string, prepare func(name string, src []byte) (string, string)) error {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return fmt.Errorf("reading %s: %w", dir, err)
	}
	for _, e := range entries {
		if e.IsDir() || path.Ext(e.Name()) != ".html" {
			continue
		}
		src, err := fs.ReadFile(fsys, path.Join(dir, e.Name()))
		if err != nil {
			return fmt.Errorf("reading %s: %w", e.Name(), err)
		}
		name, text := prepare(e.Name(), src)
		if _, err := root.New(name).Parse(text); err != nil {
			return fmt.Errorf("parsing %s: %w", name, err)
		}
	}
	return nil
}

// HasPage reports whether a page template exists.
func (t *Theme) HasPage(name string) bool {
	_, ok := t.pages[name]
	return ok
}

// RenderPage renders a page inside the base layout.
func (t *Theme) RenderPage(w io.Writer, page string, data any) error {
	tmpl, ok := t.pages[page]
	if !ok {
		return fmt.Errorf("content template not found: content_%s", page)
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base.html", data); err != nil {
		return err
	}
	_, err := w.Write(blankLinesRegex.ReplaceAll(buf.Bytes(), []byte("\n")))
	return err
}

// Static returns the embedded static assets rooted at the static directory.
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
