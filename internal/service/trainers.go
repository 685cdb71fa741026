// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/gymflex/gymflex-go/internal/cache"
	"github.com/gymflex/gymflex-go/internal/metrics"
	"github.com/gymflex/gymflex-go/internal/model"
	"github.com/gymflex/gymflex-go/internal/objectstore"
	"github.com/gymflex/gymflex-go/internal/store"
	"github.com/gymflex/gymflex-go/internal/util"
)

// DeleteTrainerKey is the translation key of the trainer delete prompt.
const DeleteTrainerKey = "admin_trainers.confirm_delete"

// TrainerStore is the subset of store.Queries used for trainers.
type TrainerStore interface {
	ListTrainers(ctx context.Context) ([]store.Trainer, error)
	GetTrainer(ctx context.Context, id int64) (store.Trainer, error)
	CreateTrainer(ctx context.Context, arg store.CreateTrainerParams) (store.Trainer, error)
	UpdateTrainer(ctx context.Context, arg store.UpdateTrainerParams) (store.Trainer, error)
	DeleteTrainer(ctx context.Context, id int64) error
}

// TrainerService runs the trainer directory workflow.
type TrainerService struct {
	store   TrainerStore
	objects ObjectStore
	images  ImageNormalizer
	list    *cache.Typed[[]store.Trainer]
	one     *cache.Typed[store.Trainer]
	clock   Clock
}

// TrainerServiceOptions carries the optional collaborators.
type TrainerServiceOptions struct {
	Images   ImageNormalizer
	Cache    cache.Cache
	CacheTTL time.Duration
	Clock    Clock
}

func NewTrainerService(st TrainerStore, objects ObjectStore, opts TrainerServiceOptions) *TrainerService {
	return &TrainerService{
		store:   st,
		objects: objects,
		images:  opts.Images,
		list:    cache.NewTyped[[]store.Trainer](opts.Cache, opts.CacheTTL),
		one:     cache.NewTyped[store.Trainer](opts.Cache, opts.CacheTTL),
		clock:   opts.Clock,
	}
}

// List returns every trainer, oldest first.
func (s *TrainerService) List(ctx context.Context) ([]store.Trainer, error) {
	return s.list.Load(ctx, cache.TrainerListKey, s.store.ListTrainers)
}

// Get returns one trainer or ErrNotFound.
func (s *TrainerService) Get(ctx context.Context, id int64) (store.Trainer, error) {
	t, err := s.one.Load(ctx, cache.TrainerKey(id), func(ctx context.Context) (store.Trainer, error) {
		return s.store.GetTrainer(ctx, id)
	})
	return t, notFound(err)
}

// Create uploads the image, if any, and then inserts the trainer. A failed
// upload skips the insert. A failed insert leaves the uploaded object in
// place.
func (s *TrainerService) Create(ctx context.Context, in model.TrainerInput) (store.Trainer, error) {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return store.Trainer{}, err
	}

	var imageURL string
	if in.Image != nil {
		u, err := s.upload(ctx, in.Image)
		if err != nil {
			metrics.RecordMutation("trainer", "create", err)
			return store.Trainer{}, err
		}
		imageURL = u
	}

	now := s.clock.now()
	t, err := s.store.CreateTrainer(ctx, store.CreateTrainerParams{
		Name:      in.Name,
		Specialty: in.Specialty,
		Bio:       in.Bio,
		ImageURL:  util.NullStringFromValue(imageURL),
		CreatedAt: now,
		UpdatedAt: now,
	})
	s.invalidate(ctx, 0)
	metrics.RecordMutation("trainer", "create", err)
	if err != nil {
		if imageURL != "" {
			slog.Warn("trainer insert failed after image upload", "image_url", imageURL, "error", err)
		}
		return store.Trainer{}, fmt.Errorf("creating trainer: %w", err)
	}
	slog.Info("trainer created", "trainer_id", t.ID, "name", t.Name)
	return t, nil
}

// Update rewrites the trainer's fields. Without a new image the current
// image reference is kept.
func (s *TrainerService) Update(ctx context.Context, id int64, in model.TrainerInput) (store.Trainer, error) {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return store.Trainer{}, err
	}

	current, err := s.store.GetTrainer(ctx, id)
	if err != nil {
		return store.Trainer{}, notFound(err)
	}

	image := current.ImageURL
	if in.Image != nil {
		u, err := s.upload(ctx, in.Image)
		if err != nil {
			metrics.RecordMutation("trainer", "update", err)
			return store.Trainer{}, err
		}
		image = util.NullStringFromValue(u)
	}

	t, err := s.store.UpdateTrainer(ctx, store.UpdateTrainerParams{
		ID:        id,
		Name:      in.Name,
		Specialty: in.Specialty,
		Bio:       in.Bio,
		ImageURL:  image,
		UpdatedAt: s.clock.now(),
	})
	s.invalidate(ctx, id)
	metrics.RecordMutation("trainer", "update", err)
	if err != nil {
		return store.Trainer{}, fmt.Errorf("updating trainer %d: %w", id, notFound(err))
	}
	slog.Info("trainer updated", "trainer_id", id)
	return t, nil
}

// Delete removes the trainer and, through the foreign key, its schedule.
// Nothing is deleted unless confirm approves.
func (s *TrainerService) Delete(ctx context.Context, id int64, confirm Confirmer) error {
	if confirm == nil || !confirm.Confirm(ctx, DeleteTrainerKey) {
		metrics.MutationsTotal.WithLabelValues("trainer", "delete", "cancelled").Inc()
		return ErrNotConfirmed
	}
	err := s.store.DeleteTrainer(ctx, id)
	s.invalidate(ctx, id)
	metrics.RecordMutation("trainer", "delete", err)
	if err != nil {
		return fmt.Errorf("deleting trainer %d: %w", id, err)
	}
	slog.Info("trainer deleted", "trainer_id", id)
	return nil
}

func (s *TrainerService) upload(ctx context.Context, img *model.ImageUpload) (string, error) {
	body := img.Body
	contentType := img.ContentType
	filename := img.Filename

	if s.images != nil {
		res, err := s.images.Normalize(img.Body)
		if err != nil {
			metrics.RecordUpload(err)
			return "", fmt.Errorf("%w: %w", ErrUpload, err)
		}
		body = bytes.NewReader(res.Data)
		contentType = res.ContentType
		filename = strings.TrimSuffix(filename, filepath.Ext(filename)) + res.Ext
	} else if !strings.HasPrefix(contentType, "image/") {
		err := fmt.Errorf("%w: %q is not an image", ErrUpload, contentType)
		metrics.RecordUpload(err)
		return "", err
	}

	key := objectstore.Key(s.clock.now(), filename)
	if err := s.objects.Upload(ctx, key, body, contentType); err != nil {
		metrics.RecordUpload(err)
		return "", fmt.Errorf("%w: %w", ErrUpload, err)
	}
	metrics.RecordUpload(nil)
	return s.objects.PublicURL(key), nil
}

// invalidate drops the cached list, the trainer and its schedule.
func (s *TrainerService) invalidate(ctx context.Context, id int64) {
	s.list.Forget(ctx, cache.TrainerListKey)
	if id > 0 {
		s.one.Forget(ctx, cache.TrainerKey(id))
		// Timetable reads the trainer uncached first, so a deleted trainer
		// never reaches a stale schedule fill.
		s.list.Forget(ctx, cache.ScheduleKey(id))
	}
}
