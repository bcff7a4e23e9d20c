// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package ads

import "github.com/olegiv/blogfront/internal/strapi"

// Banners picks the top and bottom banner of an article page. The bottom
// slot uses the second banner when there is one and repeats the first
// otherwise. Both are nil when there are no banners.
func Banners(banners []strapi.Advertisement) (top, bottom *strapi.Advertisement) {
	switch len(banners) {
	case 0:
		return nil, nil
	case 1:
		return &banners[0], &banners[0]
	default:
		return &banners[0], &banners[1]
	}
}
