// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package seo

import (
	"encoding/xml"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSitemapBuild(t *testing.T) {
	b := NewSitemapBuilder("https://gymflex.kr/", []string{"ko", "en"})
	b.Add(Entry{Path: "/", ChangeFreq: ChangeFreqWeekly, Priority: "1.0"})
	b.Add(Entry{
		Path:      "/schedule/7",
		UpdatedAt: time.Date(2026, 3, 1, 9, 0, 0, 0, time.FixedZone("KST", 9*3600)),
	})
	assert.Equal(t, 2, b.Len())

	out, err := b.Build()
	require.NoError(t, err)
	s := string(out)

	assert.True(t, strings.HasPrefix(s, xml.Header))
	assert.Contains(t, s, `xmlns="http://www.sitemaps.org/schemas/sitemap/0.9"`)
	assert.Contains(t, s, "<loc>https://gymflex.kr/</loc>")
	assert.Contains(t, s, "<loc>https://gymflex.kr/schedule/7</loc>")
	assert.Contains(t, s, "<lastmod>2026-03-01T00:00:00Z</lastmod>")
	assert.Contains(t, s, `hreflang="en" href="https://gymflex.kr/schedule/7?lng=en"`)
	assert.Equal(t, 1, strings.Count(s, "<lastmod>"))
}

func TestRobots(t *testing.T) {
	tests := []struct {
		name    string
		cfg     RobotsConfig
		want    []string
		notWant []string
	}{
		{
			name:    "production",
			cfg:     RobotsConfig{SiteURL: "https://gymflex.kr/"},
			want:    []string{"Disallow: /admin-login\n", "Allow: /\n", "Sitemap: https://gymflex.kr/sitemap.xml\n"},
			notWant: []string{"Disallow: /\n"},
		},
		{
			name:    "blocked",
			cfg:     RobotsConfig{SiteURL: "https://staging.gymflex.kr", DisallowAll: true},
			want:    []string{"Disallow: /\n"},
			notWant: []string{"Sitemap:", "Allow:"},
		},
		{
			name: "extra paths",
			cfg:  RobotsConfig{DisallowPaths: []string{"/uploads"}},
			want: []string{"Disallow: /uploads\n"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Robots(tt.cfg)
			assert.True(t, strings.HasPrefix(got, "User-agent: *\n"))
			for _, w := range tt.want {
				assert.Contains(t, got, w)
			}
			for _, w := range tt.notWant {
				assert.NotContains(t, got, w)
			}
		})
	}
}
