// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/gymflex/gymflex-go/internal/mail"
	"github.com/gymflex/gymflex-go/internal/store"
)

var errBoom = errors.New("boom")

var fixedNow = time.Date(2026, time.March, 2, 9, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

// confirmFunc adapts a function to Confirmer so tests can see the prompt.
type confirmFunc func(ctx context.Context, prompt string) bool

func (f confirmFunc) Confirm(ctx context.Context, prompt string) bool { return f(ctx, prompt) }

// callLog records the order of collaborator calls across fakes.
type callLog struct {
	mu    sync.Mutex
	calls []string
}

func (l *callLog) add(c string) {
	l.mu.Lock()
	l.calls = append(l.calls, c)
	l.mu.Unlock()
}

func (l *callLog) list() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.calls...)
}

type fakeTrainerStore struct {
	log       *callLog
	trainers  map[int64]store.Trainer
	nextID    int64
	writeErr  error
	listCalls int
	deletes   []int64
}

func newFakeTrainerStore(log *callLog) *fakeTrainerStore {
	return &fakeTrainerStore{log: log, trainers: make(map[int64]store.Trainer), nextID: 1}
}

func (f *fakeTrainerStore) ListTrainers(context.Context) ([]store.Trainer, error) {
	f.listCalls++
	out := make([]store.Trainer, 0, len(f.trainers))
	for id := int64(1); id < f.nextID; id++ {
		if t, ok := f.trainers[id]; ok {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeTrainerStore) GetTrainer(_ context.Context, id int64) (store.Trainer, error) {
	t, ok := f.trainers[id]
	if !ok {
		return store.Trainer{}, sql.ErrNoRows
	}
	return t, nil
}

func (f *fakeTrainerStore) CreateTrainer(_ context.Context, arg store.CreateTrainerParams) (store.Trainer, error) {
	f.log.add("insert")
	if f.writeErr != nil {
		return store.Trainer{}, f.writeErr
	}
	t := store.Trainer{
		ID:        f.nextID,
		Name:      arg.Name,
		Specialty: arg.Specialty,
		Bio:       arg.Bio,
		ImageURL:  arg.ImageURL,
		CreatedAt: arg.CreatedAt,
		UpdatedAt: arg.UpdatedAt,
	}
	f.trainers[t.ID] = t
	f.nextID++
	return t, nil
}

func (f *fakeTrainerStore) UpdateTrainer(_ context.Context, arg store.UpdateTrainerParams) (store.Trainer, error) {
	f.log.add("update")
	if f.writeErr != nil {
		return store.Trainer{}, f.writeErr
	}
	t, ok := f.trainers[arg.ID]
	if !ok {
		return store.Trainer{}, sql.ErrNoRows
	}
	t.Name, t.Specialty, t.Bio, t.ImageURL, t.UpdatedAt = arg.Name, arg.Specialty, arg.Bio, arg.ImageURL, arg.UpdatedAt
	f.trainers[t.ID] = t
	return t, nil
}

func (f *fakeTrainerStore) DeleteTrainer(_ context.Context, id int64) error {
	f.log.add("delete")
	f.deletes = append(f.deletes, id)
	delete(f.trainers, id)
	return f.writeErr
}

type fakeObjects struct {
	log     *callLog
	err     error
	objects map[string][]byte
}

func newFakeObjects(log *callLog) *fakeObjects {
	return &fakeObjects{log: log, objects: make(map[string][]byte)}
}

func (f *fakeObjects) Upload(_ context.Context, key string, r io.Reader, _ string) error {
	f.log.add("upload")
	if f.err != nil {
		return f.err
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	f.objects[key] = b
	return nil
}

func (f *fakeObjects) PublicURL(key string) string {
	return "https://cdn.test/trainer-images/" + key
}

type fakeSender struct {
	err  error
	sent []mail.Message
}

func (f *fakeSender) Send(_ context.Context, msg mail.Message) (mail.Result, error) {
	if f.err != nil {
		return mail.Result{}, f.err
	}
	f.sent = append(f.sent, msg)
	return mail.Result{MessageID: "msg-1", SentAt: fixedNow}, nil
}
