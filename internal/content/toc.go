// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package content normalizes and renders article bodies delivered by the CMS
// as HTML strings, markdown strings, rich-text block arrays or dynamic-zone
// component arrays.
package content

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"golang.org/x/net/html"
)

// TocItem is one table of contents entry.
type TocItem struct {
	ID    string `json:"id"`
	Text  string `json:"text"`
	Level int    `json:"level"`
}

// Result is an article body with anchors assigned to its level 2 and 3
// headings.
type Result struct {
	Content  json.RawMessage
	Kind     Kind
	Headings []TocItem
}

// Wrapper fields the CMS may nest the real body under, in priority order.
var unwrapKeys = []string{"content", "body", "data", "document", "blocks", "value"}

// tocAcc is threaded through every step of the fold. Each step returns the
// updated copy; nothing is shared between calls.
type tocAcc struct {
	count    int                 // level 2/3 headings seen so far
	reserved map[string]struct{} // ids present anywhere in the input
	seen     []string            // explicit ids encountered, in order
	headings []TocItem
}

func (acc tocAcc) used(id string) bool {
	for _, h := range acc.headings {
		if h.ID == id {
			return true
		}
	}
	return false
}

// assign returns the anchor for the next heading. An existing id is kept
// unless an earlier heading already claimed it; synthetic ids skip any id
// that appears elsewhere in the document.
func (acc tocAcc) assign(existing string) (string, tocAcc) {
	acc.count++
	if existing != "" {
		acc.seen = append(acc.seen, existing)
		if !acc.used(existing) {
			return existing, acc
		}
	}
	for n := acc.count; ; n++ {
		id := "heading-" + strconv.Itoa(n)
		if _, ok := acc.reserved[id]; ok {
			continue
		}
		if !acc.used(id) {
			return id, acc
		}
	}
}

func (acc tocAcc) add(item TocItem) tocAcc {
	acc.headings = append(acc.headings[:len(acc.headings):len(acc.headings)], item)
	return acc
}

// Normalize assigns anchors to the level 2 and 3 headings of raw and returns
// the unwrapped body together with its table of contents. Normalizing the
// returned content again yields the same ids and headings.
func Normalize(raw json.RawMessage) Result {
	v := unwrap(gjson.ParseBytes(raw))
	kind := detect(v)

	// A dry run collects the explicit ids so synthetic ones can avoid them.
	_, dry := fold(v, tocAcc{})
	reserved := make(map[string]struct{}, len(dry.seen))
	for _, id := range dry.seen {
		reserved[id] = struct{}{}
	}

	out, acc := fold(v, tocAcc{reserved: reserved})
	return Result{Content: out, Kind: kind, Headings: acc.headings}
}

// NormalizeString normalizes a bare HTML or markdown string.
func NormalizeString(s string) Result {
	return Normalize(marshalString(s))
}

func unwrap(v gjson.Result) gjson.Result {
	if v.IsObject() {
		if attrs := v.Get("attributes"); truthy(attrs) {
			switch {
			case truthy(attrs.Get("content")):
				v = attrs.Get("content")
			case truthy(attrs.Get("body")):
				v = attrs.Get("body")
			default:
				v = attrs
			}
		}
	}
	if v.IsObject() {
		for _, key := range unwrapKeys {
			c := v.Get(key)
			if (c.Type == gjson.String && c.Str != "") || c.IsArray() {
				return c
			}
		}
	}
	return v
}

// truthy mirrors the loose "has a value" check the CMS payloads rely on.
func truthy(v gjson.Result) bool {
	switch v.Type {
	case gjson.Null, gjson.False:
		return false
	case gjson.String:
		return v.Str != ""
	case gjson.Number:
		return v.Num != 0
	default:
		return v.Exists()
	}
}

func fold(v gjson.Result, acc tocAcc) (json.RawMessage, tocAcc) {
	switch detect(v) {
	case KindHTML:
		var s string
		s, acc = foldHTML(v.Str, acc)
		return marshalString(s), acc
	case KindMarkdown:
		var s string
		s, acc = foldMarkdown(v.Str, acc)
		return marshalString(s), acc
	case KindBlocks, KindZone:
		return foldArray(v, acc)
	}
	if !v.Exists() {
		return nil, acc
	}
	return json.RawMessage(v.Raw), acc
}

func foldArray(v gjson.Result, acc tocAcc) (json.RawMessage, tocAcc) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	i := 0
	v.ForEach(func(_, el gjson.Result) bool {
		if i > 0 {
			buf.WriteByte(',')
		}
		i++
		var raw string
		raw, acc = foldElement(el, acc)
		buf.WriteString(raw)
		return true
	})
	buf.WriteByte(']')
	return buf.Bytes(), acc
}

func foldElement(el gjson.Result, acc tocAcc) (string, tocAcc) {
	if comp := el.Get("__component"); comp.Exists() {
		if !IsRichText(comp.String()) {
			return el.Raw, acc
		}
		field := "body"
		if !truthy(el.Get(field)) {
			field = "content"
		}
		target := el.Get(field)
		if !truthy(target) {
			return el.Raw, acc
		}
		var sub json.RawMessage
		sub, acc = fold(unwrap(target), acc)
		patched, err := sjson.SetRaw(el.Raw, field, string(sub))
		if err != nil {
			return el.Raw, acc
		}
		return patched, acc
	}

	if el.Get("type").String() != "heading" {
		return el.Raw, acc
	}
	lvl := el.Get("level")
	if lvl.Type != gjson.Number || (lvl.Int() != 2 && lvl.Int() != 3) {
		return el.Raw, acc
	}
	existing := el.Get("id").String()
	var id string
	id, acc = acc.assign(existing)
	acc = acc.add(TocItem{ID: id, Text: blockText(el.Get("children")), Level: int(lvl.Int())})
	if id == existing {
		return el.Raw, acc
	}
	patched, err := sjson.Set(el.Raw, "id", id)
	if err != nil {
		return el.Raw, acc
	}
	return patched, acc
}

// blockText concatenates the text leaves of an inline children array.
func blockText(children gjson.Result) string {
	var sb strings.Builder
	children.ForEach(func(_, c gjson.Result) bool {
		switch c.Get("type").String() {
		case "text":
			sb.WriteString(c.Get("text").String())
		case "link":
			sb.WriteString(blockText(c.Get("children")))
		}
		return true
	})
	return sb.String()
}

func foldHTML(s string, acc tocAcc) (string, tocAcc) {
	z := html.NewTokenizer(strings.NewReader(s))
	var out strings.Builder
	out.Grow(len(s) + 64)

	var (
		open  string // heading tag being read, "" outside one
		level int
		id    string
		label strings.Builder
	)
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			break
		}
		// Accessors below rewrite the token buffer in place.
		raw := string(z.Raw())

		switch tt {
		case html.StartTagToken:
			name, hasAttr := z.TagName()
			tag := string(name)
			if tag != "h2" && tag != "h3" {
				break
			}
			if open != "" {
				acc = acc.add(TocItem{ID: id, Text: collapseSpace(label.String()), Level: level})
			}
			var attrs []html.Attribute
			existing, hadID := "", false
			for hasAttr {
				var key, val []byte
				key, val, hasAttr = z.TagAttr()
				a := html.Attribute{Key: string(key), Val: string(val)}
				if a.Key == "id" {
					existing, hadID = a.Val, true
				}
				attrs = append(attrs, a)
			}
			id, acc = acc.assign(existing)
			open, level = tag, int(tag[1]-'0')
			label.Reset()
			if id != existing {
				raw = withID(raw, tag, attrs, id, hadID)
			}
		case html.TextToken:
			if open != "" {
				label.Write(z.Text())
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			if tag := string(name); open != "" && (tag == "h2" || tag == "h3") {
				acc = acc.add(TocItem{ID: id, Text: collapseSpace(label.String()), Level: level})
				open = ""
			}
		}
		out.WriteString(raw)
	}
	if open != "" {
		acc = acc.add(TocItem{ID: id, Text: collapseSpace(label.String()), Level: level})
	}
	return out.String(), acc
}

// withID sets the id of a heading start tag. A tag without an id keeps its
// original bytes with the attribute spliced in after the tag name.
func withID(raw, tag string, attrs []html.Attribute, id string, hadID bool) string {
	if !hadID {
		n := len(tag) + 1
		return raw[:n] + ` id="` + html.EscapeString(id) + `"` + raw[n:]
	}
	for i := range attrs {
		if attrs[i].Key == "id" {
			attrs[i].Val = id
		}
	}
	return html.Token{Type: html.StartTagToken, Data: tag, Attr: attrs}.String()
}

// markdownParser parses markdown the same way the renderer does, so every
// heading it finds is one that renders as <h2> or <h3>.
var markdownParser = newMarkdown().Parser()

// attrID matches the id inside a "{...}" heading attribute block.
var attrID = regexp.MustCompile(`#[^\s{}#]+|\bid=("[^"]*"|'[^']*'|[^\s}]+)`)

type sourceEdit struct {
	at, end int
	text    string
}

// foldMarkdown assigns anchors through "{#id}" heading attributes. Both ATX
// and setext headings are handled; the attribute goes at the end of the
// heading's last source line.
func foldMarkdown(s string, acc tocAcc) (string, tocAcc) {
	src := []byte(s)
	doc := markdownParser.Parse(text.NewReader(src))

	var edits []sourceEdit
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		h, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}
		if h.Level != 2 && h.Level != 3 {
			return ast.WalkSkipChildren, nil
		}
		at, end, ok := headingTail(src, h)
		if !ok {
			return ast.WalkSkipChildren, nil
		}

		existing, hadID := headingID(h)
		var id string
		id, acc = acc.assign(existing)
		var sb strings.Builder
		inlineText(h, src, &sb)
		acc = acc.add(TocItem{ID: id, Text: collapseSpace(sb.String()), Level: h.Level})

		tail := s[at:end]
		i := strings.LastIndexByte(tail, '{')
		switch {
		case id == existing:
		case hadID && i >= 0:
			edits = append(edits, sourceEdit{at: at, end: end, text: tail[:i] + attrID.ReplaceAllLiteralString(tail[i:], "#"+id)})
		case len(h.Attributes()) > 0 && i >= 0:
			edits = append(edits, sourceEdit{at: at + i + 1, end: at + i + 1, text: "#" + id + " "})
		default:
			edits = append(edits, sourceEdit{at: end, end: end, text: " {#" + id + "}"})
		}
		return ast.WalkSkipChildren, nil
	})

	if len(edits) == 0 {
		return s, acc
	}
	var out strings.Builder
	out.Grow(len(s) + 16*len(edits))
	last := 0
	for _, e := range edits {
		out.WriteString(s[last:e.at])
		out.WriteString(e.text)
		last = e.end
	}
	out.WriteString(s[last:])
	return out.String(), acc
}

// headingTail returns the span between the end of a heading's text and the
// end of its last source line, without trailing whitespace. The span holds
// any closing hashes and attribute block.
func headingTail(src []byte, h *ast.Heading) (int, int, bool) {
	lines := h.Lines()
	if lines.Len() == 0 {
		return 0, 0, false
	}
	at := lines.At(lines.Len() - 1).Stop
	for at > 0 && (src[at-1] == '\n' || src[at-1] == '\r') {
		at--
	}
	end := at
	for end < len(src) && src[end] != '\n' {
		end++
	}
	for end > at && (src[end-1] == ' ' || src[end-1] == '\t' || src[end-1] == '\r') {
		end--
	}
	return at, end, true
}

func headingID(h *ast.Heading) (string, bool) {
	v, ok := h.AttributeString("id")
	if !ok {
		return "", false
	}
	switch v := v.(type) {
	case []byte:
		return string(v), true
	case string:
		return v, true
	}
	return "", false
}

// inlineText collects the visible text of an inline tree.
func inlineText(n ast.Node, src []byte, sb *strings.Builder) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch c := c.(type) {
		case *ast.Text:
			sb.Write(c.Segment.Value(src))
			if c.SoftLineBreak() || c.HardLineBreak() {
				sb.WriteByte(' ')
			}
		case *ast.String:
			sb.Write(c.Value)
		case *ast.AutoLink:
			sb.Write(c.Label(src))
		case *ast.RawHTML:
		default:
			inlineText(c, src, sb)
		}
	}
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func marshalString(s string) json.RawMessage {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s)
	return bytes.TrimRight(buf.Bytes(), "\n")
}
