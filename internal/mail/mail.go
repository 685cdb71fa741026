// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package mail delivers contact-form submissions to the gym's inbox.
package mail

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"time"
)

// Message is one outgoing email.
type Message struct {
	From    string // empty means the sender's default
	To      []string
	ReplyTo string
	Subject string
	HTML    string
}

// Result identifies an accepted message.
type Result struct {
	MessageID string
	SentAt    time.Time
}

// Sender delivers messages.
type Sender interface {
	Send(ctx context.Context, msg Message) (Result, error)
}

// NoopSender logs messages instead of sending them. Used when no API key
// is configured.
type NoopSender struct{}

func (NoopSender) Send(_ context.Context, msg Message) (Result, error) {
	slog.Info("mail delivery disabled, message logged only",
		"to", msg.To, "reply_to", msg.ReplyTo, "subject", msg.Subject)
	return Result{MessageID: "noop", SentAt: time.Now()}, nil
}

// ContactFields are the submitted contact form values.
type ContactFields struct {
	Name     string
	Email    string
	Subject  string
	Message  string
	Language string
}

var contactTmpl = template.Must(template.New("contact").Parse(`<h2>New message from the GymFlex website</h2>
<p><strong>Name:</strong> {{.Name}}</p>
<p><strong>Email:</strong> {{.Email}}</p>
<p><strong>Subject:</strong> {{.Subject}}</p>
<p><strong>Language:</strong> {{.Language}}</p>
<hr>
<p style="white-space: pre-wrap">{{.Message}}</p>
`))

// ContactMessage builds the email for a contact submission addressed to
// inbox, with Reply-To set to the visitor.
func ContactMessage(inbox string, f ContactFields) (Message, error) {
	var buf bytes.Buffer
	if err := contactTmpl.Execute(&buf, f); err != nil {
		return Message{}, fmt.Errorf("rendering contact email: %w", err)
	}
	return Message{
		To:      []string{inbox},
		ReplyTo: f.Email,
		Subject: "[GymFlex] " + f.Subject,
		HTML:    buf.String(),
	}, nil
}
