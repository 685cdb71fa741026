// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package util provides small helpers shared by handlers and services:
// slugs and object names, path containment checks, client IPs and
// nullable column conversions.
package util

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/mozillazg/go-unidecode"
)

var (
	nonSlugChars    = regexp.MustCompile(`[^a-z0-9-]+`)
	multipleHyphens = regexp.MustCompile(`-{2,}`)
)

// Slugify romanises s (Hangul included) and reduces it to [a-z0-9-].
func Slugify(s string) string {
	out := strings.ToLower(unidecode.Unidecode(s))
	out = strings.Join(strings.Fields(out), "-")
	out = nonSlugChars.ReplaceAllString(out, "")
	out = multipleHyphens.ReplaceAllString(out, "-")
	return strings.Trim(out, "-")
}

// SafeObjectName turns an uploaded file name into something safe to use in
// an object key: a slugified stem plus the lowercased extension.
// "../트레이너 사진.JPG" becomes "teureineo-sajin.jpg".
func SafeObjectName(filename string) string {
	base := filepath.Base(strings.ReplaceAll(filename, "\\", "/"))
	ext := strings.ToLower(filepath.Ext(base))
	stem := Slugify(strings.TrimSuffix(base, filepath.Ext(base)))
	if stem == "" {
		stem = "image"
	}
	ext = nonSlugChars.ReplaceAllString(strings.TrimPrefix(ext, "."), "")
	if ext == "" {
		return stem
	}
	return stem + "." + ext
}
