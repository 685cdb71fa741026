// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package markup renders trainer bios. Bios are Markdown written by the
// admin; the HTML is sanitized before it reaches a template.
package markup

import (
	"bytes"
	"html/template"
	"log/slog"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
)

var (
	md        = goldmark.New()
	sanitizer = bluemonday.UGCPolicy()
)

// Bio converts Markdown to sanitized HTML. Plain text comes back as a
// paragraph; on a conversion error the escaped text is returned.
func Bio(src string) template.HTML {
	src = strings.TrimSpace(src)
	if src == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		slog.Warn("bio markdown conversion failed", "error", err)
		return template.HTML(template.HTMLEscapeString(src))
	}
	return template.HTML(sanitizer.SanitizeBytes(buf.Bytes()))
}
