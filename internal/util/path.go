// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"errors"
	"path/filepath"
	"strings"
)

// ErrPathTraversal is returned when a joined path escapes its base.
var ErrPathTraversal = errors.New("path escapes base directory")

// SafeJoin joins key (slash separated) onto base and rejects results that
// leave base.
func SafeJoin(base, key string) (string, error) {
	if key == "" || filepath.IsAbs(key) || strings.HasPrefix(key, "/") {
		return "", ErrPathTraversal
	}
	absBase, err := filepath.Abs(filepath.Clean(base))
	if err != nil {
		return "", err
	}
	target := filepath.Join(absBase, filepath.FromSlash(key))

	rel, err := filepath.Rel(absBase, target)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", ErrPathTraversal
	}
	return target, nil
}
