// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package ads merges advertisements into content listings.
package ads

import (
	"slices"

	"github.com/olegiv/blogfront/internal/strapi"
)

// Threshold is the number of consecutive content items after which an auto
// ad is inserted.
const Threshold = 5

// Entry is one slot of a merged listing: either an item or an ad.
type Entry[T any] struct {
	Item T
	Ad   *strapi.Advertisement
}

// IsAd reports whether the entry holds an advertisement.
func (e Entry[T]) IsAd() bool {
	return e.Ad != nil
}

// Interleave places fixed ads at their 1-based slots, then inserts auto ads
// after every Threshold consecutive items. When no auto ad found a slot and
// items is non-empty, the first auto ad is appended. With no ads the result
// holds exactly the input items.
func Interleave[T any](items []T, ads []strapi.Advertisement) []Entry[T] {
	out := make([]Entry[T], 0, len(items)+len(ads))
	for _, it := range items {
		out = append(out, Entry[T]{Item: it})
	}
	if len(ads) == 0 {
		return out
	}

	var fixed, auto []strapi.Advertisement
	for _, ad := range ads {
		if ad.Placement() > 0 {
			fixed = append(fixed, ad)
		} else {
			auto = append(auto, ad)
		}
	}
	slices.SortStableFunc(fixed, func(a, b strapi.Advertisement) int {
		return a.Placement() - b.Placement()
	})

	for i := range fixed {
		pos := min(fixed[i].Placement()-1, len(out))
		out = slices.Insert(out, pos, Entry[T]{Ad: &fixed[i]})
	}

	nextAuto := 0
	run := 0
	for i := 0; i < len(out); i++ {
		if out[i].IsAd() {
			run = 0
			continue
		}
		run++
		if run >= Threshold && nextAuto < len(auto) {
			out = slices.Insert(out, i+1, Entry[T]{Ad: &auto[nextAuto]})
			nextAuto++
			run = 0
			i++
		}
	}

	if nextAuto == 0 && len(items) > 0 && len(auto) > 0 {
		out = append(out, Entry[T]{Ad: &auto[0]})
	}
	return out
}
