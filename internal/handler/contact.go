// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gymflex/gymflex-go/internal/i18n"
	"github.com/gymflex/gymflex-go/internal/middleware"
	"github.com/gymflex/gymflex-go/internal/model"
	"github.com/gymflex/gymflex-go/internal/render"
	"github.com/gymflex/gymflex-go/internal/service"
	"github.com/gymflex/gymflex-go/internal/util"
)

const contactURL = "/contact"

// ContactHandler serves the contact page and its form.
type ContactHandler struct {
	renderer *render.Renderer
	contact  *service.ContactService
}

func NewContactHandler(renderer *render.Renderer, contact *service.ContactService) *ContactHandler {
	return &ContactHandler{renderer: renderer, contact: contact}
}

// contactForm keeps the submitted values so a failed post can be corrected.
type contactForm struct {
	Input     model.ContactInput
	FormError string
}

// Form handles GET /contact.
func (h *ContactHandler) Form(w http.ResponseWriter, r *http.Request) {
	renderPage(w, r, h.renderer, http.StatusOK, "contact", pageData(r, "contact_page.header_title", contactForm{}))
}

// Submit handles POST /contact. A delivered message redirects back with a
// success flash; anything else re-renders the form with the values kept.
func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	lang := middleware.GetLanguage(r)
	form := contactForm{Input: model.ContactInput{
		Name:    r.PostFormValue("name"),
		Email:   r.PostFormValue("email"),
		Subject: r.PostFormValue("subject"),
		Message: r.PostFormValue("message"),
	}}

	msg, err := h.contact.Submit(r.Context(), form.Input, service.Visitor{
		Language:  lang,
		IP:        util.ClientIP(r),
		UserAgent: r.UserAgent(),
	})
	if err == nil {
		flashSuccess(w, r, h.renderer, contactURL, "contact_page.success")
		return
	}

	status := http.StatusBadRequest
	switch {
	case errors.Is(err, model.ErrContactIncomplete):
		form.FormError = i18n.T(lang, "contact_page.incomplete")
	case errors.Is(err, model.ErrInvalidEmail):
		form.FormError = i18n.T(lang, "contact_page.invalid_email")
	case errors.Is(err, service.ErrDelivery):
		slog.Warn("contact message not delivered", "id", msg.ID, "error", err)
		form.FormError = i18n.T(lang, "contact_page.failure")
		status = http.StatusBadGateway
	default:
		slog.Error("contact submission failed", "error", err)
		form.FormError = i18n.T(lang, "contact_page.failure")
		status = http.StatusInternalServerError
	}
	renderPage(w, r, h.renderer, status, "contact", pageData(r, "contact_page.header_title", form))
}
