// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package seo

import (
	"slices"
	"strings"
)

// RobotsConfig holds configuration for robots.txt generation.
type RobotsConfig struct {
	SiteURL       string   // Base URL for the sitemap reference
	DisallowAll   bool     // Block all crawlers, e.g. outside production
	DisallowPaths []string // Paths to disallow in addition to the admin ones
}

// defaultDisallow keeps crawlers off the sign-in page and the admin forms.
var defaultDisallow = []string{
	"/admin-login",
	"/logout",
	"/trainers/new",
	"/health",
	"/metrics",
}

// Robots generates the robots.txt content.
func Robots(cfg RobotsConfig) string {
	var sb strings.Builder
	sb.WriteString("User-agent: *\n")

	if cfg.DisallowAll {
		sb.WriteString("Disallow: /\n")
		return sb.String()
	}

	for _, p := range slices.Concat(defaultDisallow, cfg.DisallowPaths) {
		sb.WriteString("Disallow: " + p + "\n")
	}
	sb.WriteString("Allow: /\n")

	if cfg.SiteURL != "" {
		sb.WriteString("\nSitemap: " + strings.TrimSuffix(cfg.SiteURL, "/") + "/sitemap.xml\n")
	}
	return sb.String()
}
