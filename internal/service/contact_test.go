// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/gymflex/gymflex-go/internal/model"
	"github.com/gymflex/gymflex-go/internal/store"
	"github.com/gymflex/gymflex-go/internal/testutil"
)

const iphoneUA = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1"

func validContact() model.ContactInput {
	return model.ContactInput{
		Name:    "Park Jisoo",
		Email:   "jisoo@example.com",
		Subject: "Trial class",
		Message: "Can I join a Saturday class?",
	}
}

func TestContactSubmitSends(t *testing.T) {
	db := testutil.TestDB(t)
	q := store.New(db)
	sender := &fakeSender{}
	svc := NewContactService(q, sender, "hello@gymflex.local", fixedClock)
	ctx := context.Background()

	msg, err := svc.Submit(ctx, validContact(), Visitor{Language: "ko", IP: "203.0.113.9", UserAgent: iphoneUA})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if len(sender.sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(sender.sent))
	}
	email := sender.sent[0]
	if email.To[0] != "hello@gymflex.local" || email.ReplyTo != "jisoo@example.com" {
		t.Errorf("email addressed to %v reply-to %q", email.To, email.ReplyTo)
	}
	if !strings.Contains(email.HTML, "Saturday") {
		t.Error("email body should contain the message")
	}

	stored, err := q.GetContactMessage(ctx, msg.ID)
	if err != nil {
		t.Fatalf("GetContactMessage: %v", err)
	}
	if stored.Status != model.ContactSent || stored.ProviderID != "msg-1" || !stored.SentAt.Valid {
		t.Errorf("stored = %+v, want sent with provider id", stored)
	}
	if stored.DeviceType != "mobile" || stored.IPAddress != "203.0.113.9" || stored.Language != "ko" {
		t.Errorf("visitor details = %q %q %q", stored.DeviceType, stored.IPAddress, stored.Language)
	}
}

func TestContactSubmitDeliveryFailure(t *testing.T) {
	db := testutil.TestDB(t)
	q := store.New(db)
	svc := NewContactService(q, &fakeSender{err: errBoom}, "hello@gymflex.local", fixedClock)
	ctx := context.Background()

	msg, err := svc.Submit(ctx, validContact(), Visitor{Language: "en"})
	if !errors.Is(err, ErrDelivery) || !errors.Is(err, errBoom) {
		t.Fatalf("Submit error = %v, want ErrDelivery wrapping boom", err)
	}
	stored, err := q.GetContactMessage(ctx, msg.ID)
	if err != nil {
		t.Fatalf("GetContactMessage: %v", err)
	}
	if stored.Status != model.ContactFailed {
		t.Errorf("status = %q, want failed", stored.Status)
	}
}

func TestContactSubmitValidation(t *testing.T) {
	db := testutil.TestDB(t)
	q := store.New(db)
	sender := &fakeSender{}
	svc := NewContactService(q, sender, "hello@gymflex.local", fixedClock)

	in := validContact()
	in.Email = "not-an-email"
	if _, err := svc.Submit(context.Background(), in, Visitor{}); !errors.Is(err, model.ErrInvalidEmail) {
		t.Errorf("error = %v, want ErrInvalidEmail", err)
	}
	n, _ := q.CountContactMessages(context.Background())
	if n != 0 || len(sender.sent) != 0 {
		t.Errorf("invalid input stored %d rows and sent %d emails", n, len(sender.sent))
	}
}

func TestContactPurge(t *testing.T) {
	db := testutil.TestDB(t)
	q := store.New(db)
	ctx := context.Background()

	old := NewContactService(q, &fakeSender{}, "hello@gymflex.local", func() time.Time { return fixedNow.AddDate(0, 0, -100) })
	if _, err := old.Submit(ctx, validContact(), Visitor{}); err != nil {
		t.Fatalf("Submit old: %v", err)
	}
	svc := NewContactService(q, &fakeSender{}, "hello@gymflex.local", fixedClock)
	if _, err := svc.Submit(ctx, validContact(), Visitor{}); err != nil {
		t.Fatalf("Submit recent: %v", err)
	}

	n, err := svc.Purge(ctx, 90*24*time.Hour)
	if err != nil {
		t.Fatalf("Purge: %v", err)
	}
	if n != 1 {
		t.Errorf("purged %d, want 1", n)
	}
}

func TestParseUserAgent(t *testing.T) {
	tests := []struct {
		ua     string
		device string
	}{
		{iphoneUA, "mobile"},
		{"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36", "desktop"},
		{"Googlebot/2.1 (+http://www.google.com/bot.html)", "bot"},
	}
	for _, tt := range tests {
		_, _, device := parseUserAgent(tt.ua)
		if device != tt.device {
			t.Errorf("parseUserAgent(%q) device = %q, want %q", tt.ua, device, tt.device)
		}
	}

	browser, osName, _ := parseUserAgent("")
	if browser != "Unknown" || osName != "Unknown" {
		t.Errorf("empty UA = %q/%q, want Unknown/Unknown", browser, osName)
	}
}
