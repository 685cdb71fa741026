// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gymflex/gymflex-go/internal/i18n"
	"github.com/gymflex/gymflex-go/internal/middleware"
	"github.com/gymflex/gymflex-go/internal/model"
	"github.com/gymflex/gymflex-go/internal/render"
	"github.com/gymflex/gymflex-go/internal/service"
	"github.com/gymflex/gymflex-go/internal/store"
)

const trainersURL = "/trainers"

// multipartMemory is how much of an upload ParseMultipartForm keeps in RAM.
const multipartMemory = 4 << 20

// TrainersHandler serves the trainer directory and its admin forms.
type TrainersHandler struct {
	renderer  *render.Renderer
	trainers  *service.TrainerService
	maxUpload int64
}

// NewTrainersHandler creates a TrainersHandler. maxUpload caps the image
// size in bytes.
func NewTrainersHandler(renderer *render.Renderer, trainers *service.TrainerService, maxUpload int64) *TrainersHandler {
	return &TrainersHandler{renderer: renderer, trainers: trainers, maxUpload: maxUpload}
}

type trainersPage struct {
	Trainers []store.Trainer
}

type trainerForm struct {
	Trainer *store.Trainer // nil when adding
	Action  string
}

// List handles GET /trainers. Edit and delete controls are rendered only
// for an admin session.
func (h *TrainersHandler) List(w http.ResponseWriter, r *http.Request) {
	data := pageData(r, "trainers_page.header_title", nil)

	trainers, err := h.trainers.List(r.Context())
	if err != nil {
		slog.Error("listing trainers failed", "error", err)
		data.Error = formatError(data.Lang, errorText(data.Lang, err))
		renderPage(w, r, h.renderer, http.StatusInternalServerError, "trainers", data)
		return
	}
	data.Data = trainersPage{Trainers: trainers}
	renderPage(w, r, h.renderer, http.StatusOK, "trainers", data)
}

// NewForm handles GET /trainers/new.
func (h *TrainersHandler) NewForm(w http.ResponseWriter, r *http.Request) {
	renderPage(w, r, h.renderer, http.StatusOK, "trainer_form",
		pageData(r, "admin_trainers.add_title", trainerForm{Action: trainersURL}))
}

// Create handles POST /trainers.
func (h *TrainersHandler) Create(w http.ResponseWriter, r *http.Request) {
	in, cleanup, err := h.readForm(w, r)
	defer cleanup()
	if err != nil {
		failAndRedirect(w, r, h.renderer, trainersURL, err)
		return
	}

	t, err := h.trainers.Create(r.Context(), in)
	if err != nil {
		slog.Warn("trainer create failed", "error", err, "user_id", adminID(r))
		failAndRedirect(w, r, h.renderer, trainersURL, err)
		return
	}
	slog.Info("trainer saved", "trainer_id", t.ID, "user_id", adminID(r))
	flashSuccess(w, r, h.renderer, trainersURL, "flash.trainer_saved")
}

// EditForm handles GET /trainers/{id}/edit.
func (h *TrainersHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	t, ok := h.loadTrainer(w, r)
	if !ok {
		return
	}
	renderPage(w, r, h.renderer, http.StatusOK, "trainer_form",
		pageData(r, "admin_trainers.edit_title", trainerForm{Trainer: &t, Action: trainerURL(t.ID)}))
}

// Update handles POST /trainers/{id}.
func (h *TrainersHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "id")
	if !ok {
		failAndRedirect(w, r, h.renderer, trainersURL, service.ErrNotFound)
		return
	}
	in, cleanup, err := h.readForm(w, r)
	defer cleanup()
	if err != nil {
		failAndRedirect(w, r, h.renderer, trainersURL, err)
		return
	}

	if _, err := h.trainers.Update(r.Context(), id, in); err != nil {
		slog.Warn("trainer update failed", "trainer_id", id, "error", err, "user_id", adminID(r))
		failAndRedirect(w, r, h.renderer, trainersURL, err)
		return
	}
	flashSuccess(w, r, h.renderer, trainersURL, "flash.trainer_saved")
}

// ConfirmDelete handles GET /trainers/{id}/delete.
func (h *TrainersHandler) ConfirmDelete(w http.ResponseWriter, r *http.Request) {
	t, ok := h.loadTrainer(w, r)
	if !ok {
		return
	}
	renderPage(w, r, h.renderer, http.StatusOK, "confirm", pageData(r, "confirm.title", confirmData{
		PromptKey: service.DeleteTrainerKey,
		Subject:   t.Name,
		Action:    trainerURL(t.ID) + "/delete",
		CancelURL: trainersURL,
	}))
}

// Delete handles POST /trainers/{id}/delete. Only confirm=yes deletes.
func (h *TrainersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "id")
	if !ok {
		failAndRedirect(w, r, h.renderer, trainersURL, service.ErrNotFound)
		return
	}

	err := h.trainers.Delete(r.Context(), id, confirmed(r))
	switch {
	case errors.Is(err, service.ErrNotConfirmed):
		flashAndRedirect(w, r, h.renderer, trainersURL, i18n.T(middleware.GetLanguage(r), "flash.cancelled"), flashTypeInfo)
	case err != nil:
		slog.Error("trainer delete failed", "trainer_id", id, "error", err, "user_id", adminID(r))
		failAndRedirect(w, r, h.renderer, trainersURL, err)
	default:
		slog.Info("trainer deleted via admin", "trainer_id", id, "user_id", adminID(r))
		flashSuccess(w, r, h.renderer, trainersURL, "flash.trainer_deleted")
	}
}

// loadTrainer fetches the {id} trainer or redirects to the list with the error.
func (h *TrainersHandler) loadTrainer(w http.ResponseWriter, r *http.Request) (store.Trainer, bool) {
	id, ok := parseID(r, "id")
	if !ok {
		failAndRedirect(w, r, h.renderer, trainersURL, service.ErrNotFound)
		return store.Trainer{}, false
	}
	t, err := h.trainers.Get(r.Context(), id)
	if err != nil {
		failAndRedirect(w, r, h.renderer, trainersURL, err)
		return store.Trainer{}, false
	}
	return t, true
}

// readForm parses the multipart trainer form. The returned cleanup removes
// any temp files and must always be called.
func (h *TrainersHandler) readForm(w http.ResponseWriter, r *http.Request) (model.TrainerInput, func(), error) {
	noop := func() {}
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload+(1<<20))
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		return model.TrainerInput{}, noop, fmt.Errorf("%w: %w", service.ErrUpload, err)
	}
	cleanup := func() { _ = r.MultipartForm.RemoveAll() }

	in := model.TrainerInput{
		Name:      r.FormValue("name"),
		Specialty: r.FormValue("specialty"),
		Bio:       r.FormValue("bio"),
	}

	file, header, err := r.FormFile("image")
	switch {
	case errors.Is(err, http.ErrMissingFile):
		return in, cleanup, nil
	case err != nil:
		return in, cleanup, fmt.Errorf("%w: %w", service.ErrUpload, err)
	}
	if header.Size > h.maxUpload {
		_ = file.Close()
		return in, cleanup, fmt.Errorf("%w: %d bytes exceeds limit of %d", service.ErrUpload, header.Size, h.maxUpload)
	}
	in.Image = imageUpload(header, file)
	return in, func() { _ = file.Close(); cleanup() }, nil
}

func imageUpload(header *multipart.FileHeader, file multipart.File) *model.ImageUpload {
	if header.Filename == "" {
		return nil
	}
	return &model.ImageUpload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
	}
}

func trainerURL(id int64) string {
	return trainersURL + "/" + strconv.FormatInt(id, 10)
}

// adminID is the signed-in admin id for log attributes, 0 when anonymous.
func adminID(r *http.Request) int64 {
	if admin, ok := middleware.GetAdmin(r); ok {
		return admin.ID
	}
	return 0
}
