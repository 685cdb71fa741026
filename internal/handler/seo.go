// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"

	"github.com/gymflex/gymflex-go/internal/i18n"
	"github.com/gymflex/gymflex-go/internal/seo"
	"github.com/gymflex/gymflex-go/internal/service"
)

// SEOHandler serves robots.txt and sitemap.xml.
type SEOHandler struct {
	trainers    *service.TrainerService
	siteURL     string
	disallowAll bool
}

// NewSEOHandler creates an SEOHandler. An empty siteURL is taken from the
// request; disallowAll blocks every crawler.
func NewSEOHandler(trainers *service.TrainerService, siteURL string, disallowAll bool) *SEOHandler {
	return &SEOHandler{trainers: trainers, siteURL: siteURL, disallowAll: disallowAll}
}

func (h *SEOHandler) baseURL(r *http.Request) string {
	if h.siteURL != "" {
		return h.siteURL
	}
	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}

// Robots handles GET /robots.txt.
func (h *SEOHandler) Robots(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(seo.Robots(seo.RobotsConfig{
		SiteURL:     h.baseURL(r),
		DisallowAll: h.disallowAll,
	})))
}

// Sitemap handles GET /sitemap.xml: the static pages plus one timetable
// per trainer.
func (h *SEOHandler) Sitemap(w http.ResponseWriter, r *http.Request) {
	b := seo.NewSitemapBuilder(h.baseURL(r), i18n.SupportedLanguages)
	b.Add(seo.Entry{Path: "/", ChangeFreq: seo.ChangeFreqWeekly, Priority: "1.0"})
	for _, p := range []string{"/about", "/programs", "/contact"} {
		b.Add(seo.Entry{Path: p, ChangeFreq: seo.ChangeFreqMonthly, Priority: "0.6"})
	}
	b.Add(seo.Entry{Path: trainersURL, ChangeFreq: seo.ChangeFreqWeekly, Priority: "0.8"})
	b.Add(seo.Entry{Path: scheduleURL, ChangeFreq: seo.ChangeFreqWeekly, Priority: "0.8"})

	trainers, err := h.trainers.List(r.Context())
	if err != nil {
		slog.Error("listing trainers for sitemap failed", "error", err)
	}
	for _, t := range trainers {
		b.Add(seo.Entry{
			Path:       scheduleTrainerURL(t.ID),
			UpdatedAt:  t.UpdatedAt,
			ChangeFreq: seo.ChangeFreqDaily,
			Priority:   "0.7",
		})
	}

	out, err := b.Build()
	if err != nil {
		logAndInternalError(w, "building sitemap failed", "error", err)
		return
	}
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	_, _ = w.Write(out)
}
