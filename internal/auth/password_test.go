// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import (
	"errors"
	"strings"
	"testing"
)

func TestHashPasswordFormat(t *testing.T) {
	hash, err := HashPassword("gymflex-admin")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$v=19$m=19456,t=2,p=1$") {
		t.Errorf("unexpected prefix: %s", hash)
	}

	other, err := HashPassword("gymflex-admin")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == other {
		t.Error("two hashes of the same password should use different salts")
	}
}

func TestCheckPassword(t *testing.T) {
	hash, err := HashPassword("squat-rack")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}

	tests := []struct {
		password string
		want     bool
	}{
		{"squat-rack", true},
		{"squat-Rack", false},
		{"", false},
	}
	for _, tt := range tests {
		ok, err := CheckPassword(tt.password, hash)
		if err != nil {
			t.Fatalf("CheckPassword(%q): %v", tt.password, err)
		}
		if ok != tt.want {
			t.Errorf("CheckPassword(%q) = %v, want %v", tt.password, ok, tt.want)
		}
	}
}

func TestCheckPasswordForeignParams(t *testing.T) {
	weak := Params{Memory: 8 * 1024, Time: 1, Threads: 2, KeyLen: 24, SaltLen: 8}
	hash, err := weak.Hash("bench-press")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}

	ok, err := CheckPassword("bench-press", hash)
	if err != nil {
		t.Fatalf("CheckPassword: %v", err)
	}
	if !ok {
		t.Error("hash with non-default parameters should still verify")
	}
	if !NeedsRehash(hash) {
		t.Error("NeedsRehash should flag non-default parameters")
	}
}

func TestNeedsRehashDefault(t *testing.T) {
	hash, err := HashPassword("deadlift")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if NeedsRehash(hash) {
		t.Error("fresh hash should not need rehash")
	}
	if !NeedsRehash("plaintext") {
		t.Error("garbage should need rehash")
	}
}

func TestCheckPasswordMalformed(t *testing.T) {
	cases := []string{
		"",
		"$bcrypt$v=19$m=1,t=1,p=1$c2FsdA$a2V5",
		"$argon2id$v=16$m=1,t=1,p=1$c2FsdA$a2V5",
		"$argon2id$v=19$garbage$c2FsdA$a2V5",
		"$argon2id$v=19$m=1,t=1,p=1$!!!$a2V5",
	}
	for _, c := range cases {
		if _, err := CheckPassword("x", c); !errors.Is(err, ErrInvalidHash) {
			t.Errorf("CheckPassword(%q) err = %v, want ErrInvalidHash", c, err)
		}
	}
}
