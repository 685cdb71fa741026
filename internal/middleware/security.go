// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"strconv"
	"strings"
)

// SecurityHeadersConfig holds configuration for security headers.
type SecurityHeadersConfig struct {
	// IsDevelopment disables HSTS.
	IsDevelopment bool

	ContentSecurityPolicy string

	// HSTSMaxAge in seconds; 0 disables HSTS.
	HSTSMaxAge            int
	HSTSIncludeSubDomains bool
	HSTSPreload           bool

	// FrameOptions is "DENY", "SAMEORIGIN" or empty to omit the header.
	FrameOptions      string
	ReferrerPolicy    string
	PermissionsPolicy string

	// ExcludePaths are path prefixes served without these headers.
	ExcludePaths []string
}

// Hosts the pages load from besides 'self': the Kakao map SDK and its
// tiles, placeholder portraits and the program photos.
var (
	kakaoScriptSources = []string{"https://dapi.kakao.com", "https://t1.daumcdn.net"}
	kakaoImageSources  = []string{"https://*.daumcdn.net", "https://*.kakao.com"}
	photoSources       = []string{"https://via.placeholder.com", "https://images.unsplash.com"}
)

// directive is one CSP entry; a slice keeps the output order stable.
type directive struct {
	name    string
	sources []string
}

// DefaultSecurityHeadersConfig returns the site policy. imageSources adds
// origins for trainer photos when they are served from another host.
func DefaultSecurityHeadersConfig(isDev bool, imageSources ...string) SecurityHeadersConfig {
	img := append([]string{"'self'", "data:", "blob:"}, photoSources...)
	img = append(img, kakaoImageSources...)
	img = append(img, imageSources...)

	script := append([]string{"'self'"}, kakaoScriptSources...)
	if isDev {
		script = append(script, "'unsafe-eval'")
	}

	cfg := SecurityHeadersConfig{
		IsDevelopment:  isDev,
		HSTSMaxAge:     31536000,
		FrameOptions:   "SAMEORIGIN",
		ReferrerPolicy: "strict-origin-when-cross-origin",
		ContentSecurityPolicy: buildCSP([]directive{
			{"default-src", []string{"'self'"}},
			{"script-src", script},
			// The map SDK positions tiles with inline styles.
			{"style-src", []string{"'self'", "'unsafe-inline'"}},
			{"img-src", img},
			{"font-src", []string{"'self'", "data:"}},
			{"connect-src", append([]string{"'self'"}, kakaoScriptSources...)},
			{"frame-src", []string{"'none'"}},
			{"object-src", []string{"'none'"}},
			{"base-uri", []string{"'self'"}},
			{"form-action", []string{"'self'"}},
		}),
		PermissionsPolicy: "accelerometer=(), browsing-topics=(), camera=(), geolocation=(), " +
			"gyroscope=(), magnetometer=(), microphone=(), payment=(), usb=()",
	}
	if !isDev {
		cfg.HSTSIncludeSubDomains = true
	}
	return cfg
}

func buildCSP(directives []directive) string {
	parts := make([]string, 0, len(directives))
	for _, d := range directives {
		parts = append(parts, d.name+" "+strings.Join(d.sources, " "))
	}
	return strings.Join(parts, "; ")
}

// SecurityHeaders returns a middleware that adds security headers to responses.
func SecurityHeaders(cfg SecurityHeadersConfig) func(http.Handler) http.Handler {
	var hsts string
	if !cfg.IsDevelopment && cfg.HSTSMaxAge > 0 {
		hsts = "max-age=" + strconv.Itoa(cfg.HSTSMaxAge)
		if cfg.HSTSIncludeSubDomains {
			hsts += "; includeSubDomains"
		}
		if cfg.HSTSPreload {
			hsts += "; preload"
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, prefix := range cfg.ExcludePaths {
				if strings.HasPrefix(r.URL.Path, prefix) {
					next.ServeHTTP(w, r)
					return
				}
			}

			h := w.Header()
			if cfg.ContentSecurityPolicy != "" {
				h.Set("Content-Security-Policy", cfg.ContentSecurityPolicy)
			}
			if hsts != "" {
				h.Set("Strict-Transport-Security", hsts)
			}
			if cfg.FrameOptions != "" {
				h.Set("X-Frame-Options", cfg.FrameOptions)
			}
			h.Set("X-Content-Type-Options", "nosniff")
			if cfg.ReferrerPolicy != "" {
				h.Set("Referrer-Policy", cfg.ReferrerPolicy)
			}
			if cfg.PermissionsPolicy != "" {
				h.Set("Permissions-Policy", cfg.PermissionsPolicy)
			}

			next.ServeHTTP(w, r)
		})
	}
}
