// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package handler implements the HTTP handlers of the site. Every admin
// mutation answers with a 303 to the list view it belongs to, which then
// reads the store again.
package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/gymflex/gymflex-go/internal/i18n"
	"github.com/gymflex/gymflex-go/internal/middleware"
	"github.com/gymflex/gymflex-go/internal/model"
	"github.com/gymflex/gymflex-go/internal/render"
	"github.com/gymflex/gymflex-go/internal/service"
	"github.com/gymflex/gymflex-go/internal/util"
)

// Flash types understood by the flash partial.
const (
	flashTypeSuccess = "success"
	flashTypeInfo    = "info"
)

// pageData fills the layout fields shared by every page.
func pageData(r *http.Request, titleKey string, data any) render.TemplateData {
	lang := middleware.GetLanguage(r)
	td := render.TemplateData{
		Title: i18n.T(lang, titleKey),
		Lang:  lang,
		Data:  data,
	}
	if admin, ok := middleware.GetAdmin(r); ok {
		td.Admin = true
		td.AdminEmail = admin.Email
	}
	return td
}

// renderPage writes the page or, if the template fails, a bare 500.
func renderPage(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, status int, name string, data render.TemplateData) {
	if err := renderer.RenderStatus(w, r, status, name, data); err != nil {
		logAndInternalError(w, "render failed", "template", name, "error", err)
	}
}

// renderError shows msg in place of the page body.
func renderError(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, status int, msg string) {
	data := pageData(r, "meta.site_name", nil)
	data.Error = formatError(data.Lang, msg)
	renderPage(w, r, renderer, status, "error", data)
}

// flashAndRedirect sets a flash message and answers 303 to url.
func flashAndRedirect(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, url, message, messageType string) {
	renderer.SetFlash(r, message, messageType)
	http.Redirect(w, r, url, http.StatusSeeOther)
}

// flashSuccess translates key and redirects with it as a success flash.
func flashSuccess(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, url, key string) {
	flashAndRedirect(w, r, renderer, url, i18n.T(middleware.GetLanguage(r), key), flashTypeSuccess)
}

// failAndRedirect stores err as the view error of the next page and
// answers 303 to url.
func failAndRedirect(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, url string, err error) {
	lang := middleware.GetLanguage(r)
	renderer.SetViewError(r, formatError(lang, errorText(lang, err)))
	http.Redirect(w, r, url, http.StatusSeeOther)
}

func formatError(lang, msg string) string {
	return i18n.T(lang, "errors.prefix", "message", msg)
}

// errorKeys maps the errors a visitor can fix to their messages.
var errorKeys = []struct {
	err error
	key string
}{
	{service.ErrNotFound, "errors.not_found"},
	{service.ErrUpload, "errors.upload"},
	{model.ErrNameRequired, "errors.name_required"},
	{model.ErrClassRequired, "errors.class_required"},
	{model.ErrInvalidDay, "errors.invalid_day"},
	{model.ErrInvalidTime, "errors.invalid_time"},
}

// errorText turns err into the flat, translated message shown to the
// visitor. Anything unexpected, storage failures included, is generic.
func errorText(lang string, err error) string {
	for _, e := range errorKeys {
		if errors.Is(err, e.err) {
			return i18n.T(lang, e.key)
		}
	}
	return i18n.T(lang, "errors.generic")
}

// parseID reads a positive integer URL parameter.
func parseID(r *http.Request, name string) (int64, bool) {
	return util.ParseID(chi.URLParam(r, name))
}

// logAndInternalError logs an error and writes a 500 Internal Server Error response.
func logAndInternalError(w http.ResponseWriter, logMsg string, args ...any) {
	slog.Error(logMsg, args...)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

// confirmData drives the shared delete confirmation page.
type confirmData struct {
	PromptKey string
	Subject   string
	Action    string
	CancelURL string
}

// confirmed reports whether the confirmation form was approved.
func confirmed(r *http.Request) service.Confirmed {
	return service.Confirmed(r.PostFormValue("confirm") == "yes")
}

// NotFound renders the translated 404 page.
func NotFound(renderer *render.Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		renderError(w, r, renderer, http.StatusNotFound, i18n.T(middleware.GetLanguage(r), "errors.page_not_found"))
	}
}

// CSRFFailure renders the translated 403 shown when a cross-site form post
// is rejected.
func CSRFFailure(renderer *render.Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		renderError(w, r, renderer, http.StatusForbidden, i18n.T(middleware.GetLanguage(r), "errors.forbidden"))
	}
}
