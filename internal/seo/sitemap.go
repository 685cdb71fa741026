// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package seo builds robots.txt and the XML sitemap of the public pages.
package seo

import (
	"encoding/xml"
	"net/url"
	"strings"
	"time"
)

const (
	XMLNamespace   = "http://www.sitemaps.org/schemas/sitemap/0.9"
	XHTMLNamespace = "http://www.w3.org/1999/xhtml"
)

// ChangeFreq represents the change frequency of a URL.
type ChangeFreq string

const (
	ChangeFreqDaily   ChangeFreq = "daily"
	ChangeFreqWeekly  ChangeFreq = "weekly"
	ChangeFreqMonthly ChangeFreq = "monthly"
)

// Alternate is one language version of a URL.
type Alternate struct {
	Rel      string `xml:"rel,attr"`
	HrefLang string `xml:"hreflang,attr"`
	Href     string `xml:"href,attr"`
}

// SitemapURL represents a single URL entry in the sitemap.
type SitemapURL struct {
	Loc        string      `xml:"loc"`
	LastMod    string      `xml:"lastmod,omitempty"`
	ChangeFreq ChangeFreq  `xml:"changefreq,omitempty"`
	Priority   string      `xml:"priority,omitempty"`
	Alternates []Alternate `xml:"xhtml:link"`
}

// Sitemap represents the complete sitemap document.
type Sitemap struct {
	XMLName    xml.Name     `xml:"urlset"`
	XMLNS      string       `xml:"xmlns,attr"`
	XMLNSXHTML string       `xml:"xmlns:xhtml,attr"`
	URLs       []SitemapURL `xml:"url"`
}

// Entry is a path to list. A zero UpdatedAt omits lastmod.
type Entry struct {
	Path       string
	UpdatedAt  time.Time
	ChangeFreq ChangeFreq
	Priority   string
}

// SitemapBuilder collects entries under one site URL. Every entry is
// listed with an alternate link per language, selected by the lng query
// parameter.
type SitemapBuilder struct {
	siteURL   string
	languages []string
	urls      []SitemapURL
}

func NewSitemapBuilder(siteURL string, languages []string) *SitemapBuilder {
	return &SitemapBuilder{
		siteURL:   strings.TrimSuffix(siteURL, "/"),
		languages: languages,
	}
}

// Add appends one entry.
func (b *SitemapBuilder) Add(e Entry) {
	loc := b.siteURL + e.Path
	u := SitemapURL{
		Loc:        loc,
		ChangeFreq: e.ChangeFreq,
		Priority:   e.Priority,
	}
	if !e.UpdatedAt.IsZero() {
		u.LastMod = e.UpdatedAt.UTC().Format(time.RFC3339)
	}
	for _, lang := range b.languages {
		u.Alternates = append(u.Alternates, Alternate{
			Rel:      "alternate",
			HrefLang: lang,
			Href:     loc + "?lng=" + url.QueryEscape(lang),
		})
	}
	b.urls = append(b.urls, u)
}

// Len returns the number of entries added so far.
func (b *SitemapBuilder) Len() int { return len(b.urls) }

// Build generates the sitemap XML.
func (b *SitemapBuilder) Build() ([]byte, error) {
	out, err := xml.MarshalIndent(Sitemap{
		XMLNS:      XMLNamespace,
		XMLNSXHTML: XHTMLNamespace,
		URLs:       b.urls,
	}, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), out...), nil
}
