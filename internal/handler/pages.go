// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"

	"github.com/gymflex/gymflex-go/internal/render"
)

// PagesHandler serves the static informational pages. Their text comes
// from the locale files, so the handlers only pick the template.
type PagesHandler struct {
	renderer *render.Renderer
}

func NewPagesHandler(renderer *render.Renderer) *PagesHandler {
	return &PagesHandler{renderer: renderer}
}

// Home handles GET /.
func (h *PagesHandler) Home(w http.ResponseWriter, r *http.Request) {
	renderPage(w, r, h.renderer, http.StatusOK, "home", pageData(r, "meta.site_name", nil))
}

// About handles GET /about. The map container is rendered only when a
// Kakao app key is configured.
func (h *PagesHandler) About(w http.ResponseWriter, r *http.Request) {
	renderPage(w, r, h.renderer, http.StatusOK, "about", pageData(r, "about_page.header_title", nil))
}

// Programs handles GET /programs.
func (h *PagesHandler) Programs(w http.ResponseWriter, r *http.Request) {
	renderPage(w, r, h.renderer, http.StatusOK, "programs", pageData(r, "programs_page.header_title", nil))
}
