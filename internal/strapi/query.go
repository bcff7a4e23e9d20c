// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package strapi

import (
	"fmt"
	"net/url"
	"strconv"
)

// Query is a nested set of Strapi REST parameters (filters, sort, populate,
// pagination, fields). It is serialized with bracket notation, e.g.
// filters[slug][$eq]=hello or sort[0]=publishedAt:desc.
type Query map[string]any

// Values flattens the query into url.Values.
func (q Query) Values() url.Values {
	v := url.Values{}
	for key, val := range q {
		encodeValue(v, key, val)
	}
	return v
}

// Encode returns the URL-encoded query string (without the leading "?").
func (q Query) Encode() string {
	if len(q) == 0 {
		return ""
	}
	return q.Values().Encode()
}

func encodeValue(v url.Values, key string, val any) {
	switch t := val.(type) {
	case nil:
		return
	case Query:
		for k, sub := range t {
			encodeValue(v, key+"["+k+"]", sub)
		}
	case map[string]any:
		for k, sub := range t {
			encodeValue(v, key+"["+k+"]", sub)
		}
	case []Query:
		for i, sub := range t {
			encodeValue(v, indexKey(key, i), sub)
		}
	case []any:
		for i, sub := range t {
			encodeValue(v, indexKey(key, i), sub)
		}
	case []string:
		for i, s := range t {
			v.Add(indexKey(key, i), s)
		}
	case string:
		v.Add(key, t)
	case int:
		v.Add(key, strconv.Itoa(t))
	case bool:
		v.Add(key, strconv.FormatBool(t))
	default:
		v.Add(key, fmt.Sprint(t))
	}
}

func indexKey(key string, i int) string {
	return key + "[" + strconv.Itoa(i) + "]"
}

// dateSort orders articles by display date override, then publish date.
var dateSort = []string{"display_date:desc", "publishedAt:desc"}

// listPopulate loads the relations needed by article cards.
func listPopulate() Query {
	return Query{
		"cover":    Query{"fields": []string{"url", "alternativeText", "width", "height"}},
		"category": Query{"populate": "*"},
	}
}

func pagination(page, pageSize int) Query {
	p := Query{}
	if page > 0 {
		p["page"] = page
	}
	if pageSize > 0 {
		p["pageSize"] = pageSize
	}
	return p
}

func eq(value string) Query {
	return Query{"$eq": value}
}
