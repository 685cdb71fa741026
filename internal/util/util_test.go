// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"errors"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Personal Training", "personal-training"},
		{"  HIIT -- Cardio!  ", "hiit-cardio"},
		{"Crème Brûlée", "creme-brulee"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Slugify(tt.in); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSlugifyHangulIsRomanised(t *testing.T) {
	got := Slugify("김민수 트레이너")
	if got == "" {
		t.Fatal("Hangul should romanise to a non-empty slug")
	}
	for _, r := range got {
		if !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '-') {
			t.Fatalf("slug %q contains %q", got, r)
		}
	}
}

func TestSafeObjectName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Portrait.JPG", "portrait.jpg"},
		{"../../etc/passwd", "passwd"},
		{`C:\Users\me\My Photo.png`, "my-photo.png"},
		{"???.webp", "image.webp"},
		{"noext", "noext"},
	}
	for _, tt := range tests {
		if got := SafeObjectName(tt.in); got != tt.want {
			t.Errorf("SafeObjectName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSafeJoin(t *testing.T) {
	base := t.TempDir()

	got, err := SafeJoin(base, "public/1-a.jpg")
	if err != nil {
		t.Fatalf("SafeJoin: %v", err)
	}
	if !strings.HasPrefix(got, base) || filepath.Base(got) != "1-a.jpg" {
		t.Errorf("SafeJoin = %q", got)
	}

	for _, bad := range []string{"", "../x", "public/../../x", "/etc/passwd", "."} {
		if _, err := SafeJoin(base, bad); !errors.Is(err, ErrPathTraversal) {
			t.Errorf("SafeJoin(%q) err = %v, want ErrPathTraversal", bad, err)
		}
	}
}

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "10.1.2.3:4567"
	if got := ClientIP(r); got != "10.1.2.3" {
		t.Errorf("RemoteAddr: got %q", got)
	}

	r.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	if got := ClientIP(r); got != "203.0.113.9" {
		t.Errorf("X-Forwarded-For: got %q", got)
	}

	r.Header.Set("X-Real-IP", "198.51.100.7")
	if got := ClientIP(r); got != "198.51.100.7" {
		t.Errorf("X-Real-IP: got %q", got)
	}
}

func TestParseID(t *testing.T) {
	if id, ok := ParseID("42"); !ok || id != 42 {
		t.Errorf("ParseID(42) = %d, %v", id, ok)
	}
	for _, bad := range []string{"", "0", "-3", "abc"} {
		if _, ok := ParseID(bad); ok {
			t.Errorf("ParseID(%q) should fail", bad)
		}
	}
}

func TestNullStringFromValue(t *testing.T) {
	if NullStringFromValue("").Valid {
		t.Error("empty string should be invalid")
	}
	if ns := NullStringFromValue("x"); !ns.Valid || ns.String != "x" {
		t.Errorf("got %+v", ns)
	}
}
