// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gymflex/gymflex-go/internal/i18n"
)

// LanguageParam is both the query parameter and the cookie that carry an
// explicit language choice.
const LanguageParam = "lng"

// Language detects the display language for the request.
// Priority order:
//  1. Query parameter ?lng=XX (explicit switch, remembered in the cookie)
//  2. The lng cookie
//  3. Accept-Language header
//  4. The default language
func Language(defaultLang string) func(http.Handler) http.Handler {
	if !i18n.IsSupported(defaultLang) {
		defaultLang = i18n.DefaultLanguage
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			lang := detectLanguage(w, r, defaultLang)
			ctx := context.WithValue(r.Context(), ContextKeyLanguage, lang)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func detectLanguage(w http.ResponseWriter, r *http.Request, defaultLang string) string {
	if q := strings.ToLower(r.URL.Query().Get(LanguageParam)); q != "" && i18n.IsSupported(q) {
		SetLanguageCookie(w, q)
		return q
	}
	if c, err := r.Cookie(LanguageParam); err == nil {
		if code := strings.ToLower(c.Value); i18n.IsSupported(code) {
			return code
		}
	}
	if accept := r.Header.Get("Accept-Language"); accept != "" {
		return i18n.MatchLanguage(accept)
	}
	return defaultLang
}

// GetLanguage returns the language chosen by Language, or the default.
func GetLanguage(r *http.Request) string {
	if lang, ok := r.Context().Value(ContextKeyLanguage).(string); ok && lang != "" {
		return lang
	}
	return i18n.DefaultLanguage
}

// SetLanguageCookie remembers the language preference for a year.
func SetLanguageCookie(w http.ResponseWriter, lang string) {
	http.SetCookie(w, &http.Cookie{
		Name:     LanguageParam,
		Value:    lang,
		Path:     "/",
		MaxAge:   365 * 24 * 60 * 60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
