// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"log/slog"
	"math"
	"net/http"

	"github.com/gymflex/gymflex-go/internal/i18n"
	"github.com/gymflex/gymflex-go/internal/middleware"
	"github.com/gymflex/gymflex-go/internal/render"
	"github.com/gymflex/gymflex-go/internal/service"
	"github.com/gymflex/gymflex-go/internal/session"
)

// AuthHandler handles the admin sign-in routes.
type AuthHandler struct {
	renderer        *render.Renderer
	auth            *service.AuthService
	observer        *session.Observer
	loginProtection *middleware.LoginProtection
}

// NewAuthHandler creates a new AuthHandler. lp may be nil.
func NewAuthHandler(renderer *render.Renderer, auth *service.AuthService, obs *session.Observer, lp *middleware.LoginProtection) *AuthHandler {
	return &AuthHandler{
		renderer:        renderer,
		auth:            auth,
		observer:        obs,
		loginProtection: lp,
	}
}

// loginData is the state of the login form.
type loginData struct {
	Email string
	Error string
}

// LoginForm handles GET /admin-login. A signed-in admin is sent home.
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	if middleware.IsAdmin(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	h.renderLogin(w, r, http.StatusOK, loginData{})
}

func (h *AuthHandler) renderLogin(w http.ResponseWriter, r *http.Request, status int, form loginData) {
	renderPage(w, r, h.renderer, status, "admin_login", pageData(r, "admin_login.header_title", form))
}

// Login handles POST /admin-login. Failures re-render the form in place
// with the message; success redirects home.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	lang := middleware.GetLanguage(r)
	email := r.PostFormValue("email")
	password := r.PostFormValue("password")
	form := loginData{Email: email}

	if h.loginProtection != nil {
		if locked, remaining := h.loginProtection.IsAccountLocked(email); locked {
			slog.Warn("login attempt on locked account", "email", email, "remote_addr", r.RemoteAddr)
			form.Error = lockedMessage(lang, remaining.Minutes())
			h.renderLogin(w, r, http.StatusTooManyRequests, form)
			return
		}
	}

	user, err := h.auth.Authenticate(r.Context(), email, password)
	if err != nil {
		if !errors.Is(err, service.ErrInvalidCredentials) {
			slog.Error("login failed", "error", err)
			form.Error = i18n.T(lang, "errors.generic")
			h.renderLogin(w, r, http.StatusInternalServerError, form)
			return
		}

		slog.Warn("login failed: invalid credentials", "email", email, "remote_addr", r.RemoteAddr)
		form.Error = i18n.T(lang, "admin_login.invalid_credentials")
		if h.loginProtection != nil {
			if locked, d := h.loginProtection.RecordFailedAttempt(email); locked {
				form.Error = lockedMessage(lang, d.Minutes())
			}
		}
		h.renderLogin(w, r, http.StatusUnauthorized, form)
		return
	}

	if h.loginProtection != nil {
		h.loginProtection.RecordSuccessfulLogin(email)
	}
	if err := h.observer.SignIn(r.Context(), session.Admin{ID: user.ID, Email: user.Email}); err != nil {
		slog.Error("sign-in failed", "user_id", user.ID, "error", err)
		form.Error = i18n.T(lang, "errors.generic")
		h.renderLogin(w, r, http.StatusInternalServerError, form)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Logout handles POST /logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.observer.SignOut(r.Context()); err != nil {
		logAndInternalError(w, "sign-out failed", "error", err)
		return
	}
	flashAndRedirect(w, r, h.renderer, "/", i18n.T(middleware.GetLanguage(r), "flash.signed_out"), flashTypeInfo)
}

func lockedMessage(lang string, minutes float64) string {
	return i18n.T(lang, "admin_login.locked", "minutes", int(math.Ceil(minutes)))
}
