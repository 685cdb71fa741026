// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mileusna/useragent"

	"github.com/gymflex/gymflex-go/internal/mail"
	"github.com/gymflex/gymflex-go/internal/metrics"
	"github.com/gymflex/gymflex-go/internal/model"
	"github.com/gymflex/gymflex-go/internal/store"
	"github.com/gymflex/gymflex-go/internal/util"
)

// ErrDelivery is returned when a stored contact message could not be sent.
var ErrDelivery = errors.New("contact message delivery failed")

// ContactStore is the subset of store.Queries used for contact messages.
type ContactStore interface {
	CreateContactMessage(ctx context.Context, arg store.CreateContactMessageParams) (store.ContactMessage, error)
	UpdateContactMessageStatus(ctx context.Context, arg store.UpdateContactMessageStatusParams) error
	DeleteContactMessagesBefore(ctx context.Context, before time.Time) (int64, error)
}

// Visitor describes who submitted a form.
type Visitor struct {
	Language  string
	IP        string
	UserAgent string
}

// ContactService stores contact submissions and mails them to the gym.
type ContactService struct {
	store       ContactStore
	sender      mail.Sender
	inbox       string
	sendTimeout time.Duration
	clock       Clock
}

func NewContactService(st ContactStore, sender mail.Sender, inbox string, clock Clock) *ContactService {
	return &ContactService{
		store:       st,
		sender:      sender,
		inbox:       inbox,
		sendTimeout: 10 * time.Second,
		clock:       clock,
	}
}

// Submit validates and records the message, then hands it to the mail
// sender. The stored row ends up sent or failed; a failed send returns
// ErrDelivery.
func (s *ContactService) Submit(ctx context.Context, in model.ContactInput, v Visitor) (store.ContactMessage, error) {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return store.ContactMessage{}, err
	}

	browser, osName, device := parseUserAgent(v.UserAgent)
	msg, err := s.store.CreateContactMessage(ctx, store.CreateContactMessageParams{
		Name:       in.Name,
		Email:      in.Email,
		Subject:    in.Subject,
		Message:    in.Message,
		Language:   v.Language,
		IPAddress:  v.IP,
		Browser:    browser,
		OS:         osName,
		DeviceType: device,
		Status:     model.ContactPending,
		CreatedAt:  s.clock.now(),
	})
	if err != nil {
		return store.ContactMessage{}, fmt.Errorf("storing contact message: %w", err)
	}

	email, err := mail.ContactMessage(s.inbox, mail.ContactFields{
		Name:     in.Name,
		Email:    in.Email,
		Subject:  in.Subject,
		Message:  in.Message,
		Language: v.Language,
	})
	if err != nil {
		return msg, s.markFailed(ctx, msg, err)
	}

	sendCtx, cancel := context.WithTimeout(ctx, s.sendTimeout)
	defer cancel()
	res, err := s.sender.Send(sendCtx, email)
	if err != nil {
		return msg, s.markFailed(ctx, msg, err)
	}

	msg.Status = model.ContactSent
	msg.ProviderID = res.MessageID
	msg.SentAt = util.NullTimeFromValue(res.SentAt)
	if err := s.store.UpdateContactMessageStatus(ctx, store.UpdateContactMessageStatusParams{
		ID:         msg.ID,
		Status:     msg.Status,
		ProviderID: msg.ProviderID,
		SentAt:     msg.SentAt,
	}); err != nil {
		slog.Error("marking contact message sent", "id", msg.ID, "error", err)
	}
	metrics.ContactMessagesTotal.WithLabelValues(model.ContactSent).Inc()
	slog.Info("contact message sent", "id", msg.ID, "provider_id", res.MessageID, "language", v.Language)
	return msg, nil
}

func (s *ContactService) markFailed(ctx context.Context, msg store.ContactMessage, cause error) error {
	metrics.ContactMessagesTotal.WithLabelValues(model.ContactFailed).Inc()
	slog.Error("contact message not delivered", "id", msg.ID, "error", cause)
	if err := s.store.UpdateContactMessageStatus(ctx, store.UpdateContactMessageStatusParams{
		ID:     msg.ID,
		Status: model.ContactFailed,
	}); err != nil {
		slog.Error("marking contact message failed", "id", msg.ID, "error", err)
	}
	return fmt.Errorf("%w: %w", ErrDelivery, cause)
}

// Purge deletes contact messages created before now minus retention.
func (s *ContactService) Purge(ctx context.Context, retention time.Duration) (int64, error) {
	n, err := s.store.DeleteContactMessagesBefore(ctx, s.clock.now().Add(-retention))
	if err != nil {
		return 0, fmt.Errorf("purging contact messages: %w", err)
	}
	return n, nil
}

// parseUserAgent reduces a User-Agent header to browser, OS and device type.
func parseUserAgent(s string) (browser, osName, device string) {
	ua := useragent.Parse(s)
	browser, osName = ua.Name, ua.OS
	if browser == "" {
		browser = "Unknown"
	}
	if osName == "" {
		osName = "Unknown"
	}
	switch {
	case ua.Mobile:
		device = "mobile"
	case ua.Tablet:
		device = "tablet"
	case ua.Bot:
		device = "bot"
	default:
		device = "desktop"
	}
	return browser, osName, device
}
