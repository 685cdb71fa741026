// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gymflex/gymflex-go/internal/export"
	"github.com/gymflex/gymflex-go/internal/i18n"
	"github.com/gymflex/gymflex-go/internal/middleware"
	"github.com/gymflex/gymflex-go/internal/model"
	"github.com/gymflex/gymflex-go/internal/render"
	"github.com/gymflex/gymflex-go/internal/service"
	"github.com/gymflex/gymflex-go/internal/store"
	"github.com/gymflex/gymflex-go/internal/util"
)

const scheduleURL = "/schedule"

// ScheduleHandler serves the weekly timetables and the entry forms.
type ScheduleHandler struct {
	renderer  *render.Renderer
	trainers  *service.TrainerService
	schedules *service.ScheduleService
}

func NewScheduleHandler(renderer *render.Renderer, trainers *service.TrainerService, schedules *service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{renderer: renderer, trainers: trainers, schedules: schedules}
}

type scheduleIndexPage struct {
	Trainers []store.Trainer
}

type schedulePage struct {
	*service.Timetable
	HiddenCount int
	ExportURL   string
	NewEntryURL string
	BaseURL     string
}

type entryForm struct {
	Trainer store.Trainer
	Input   model.ScheduleInput
	Action  string
	Cancel  string
	Editing bool
}

// Index handles GET /schedule: a trainer picker.
func (h *ScheduleHandler) Index(w http.ResponseWriter, r *http.Request) {
	data := pageData(r, "nav.schedule", nil)
	trainers, err := h.trainers.List(r.Context())
	if err != nil {
		slog.Error("listing trainers for schedule failed", "error", err)
		data.Error = formatError(data.Lang, errorText(data.Lang, err))
		renderPage(w, r, h.renderer, http.StatusInternalServerError, "schedule_index", data)
		return
	}
	data.Data = scheduleIndexPage{Trainers: trainers}
	renderPage(w, r, h.renderer, http.StatusOK, "schedule_index", data)
}

// Show handles GET /schedule/{trainerID}.
func (h *ScheduleHandler) Show(w http.ResponseWriter, r *http.Request) {
	lang := middleware.GetLanguage(r)
	trainerID, ok := parseID(r, "trainerID")
	if !ok {
		renderError(w, r, h.renderer, http.StatusNotFound, i18n.T(lang, "errors.not_found"))
		return
	}

	tt, err := h.schedules.Timetable(r.Context(), trainerID)
	switch {
	case errors.Is(err, service.ErrNotFound):
		renderError(w, r, h.renderer, http.StatusNotFound, i18n.T(lang, "errors.not_found"))
		return
	case err != nil:
		slog.Error("loading timetable failed", "trainer_id", trainerID, "error", err)
		renderError(w, r, h.renderer, http.StatusInternalServerError, errorText(lang, err))
		return
	}

	base := scheduleTrainerURL(trainerID)
	data := pageData(r, "nav.schedule", schedulePage{
		Timetable:   tt,
		HiddenCount: len(tt.Grid.Hidden),
		ExportURL:   base + "/export.xlsx",
		NewEntryURL: base + "/entries/new",
		BaseURL:     base,
	})
	data.Title = i18n.T(lang, "schedule.schedule_for", "trainerName", tt.Trainer.Name)
	renderPage(w, r, h.renderer, http.StatusOK, "schedule", data)
}

// Export handles GET /schedule/{trainerID}/export.xlsx.
func (h *ScheduleHandler) Export(w http.ResponseWriter, r *http.Request) {
	lang := middleware.GetLanguage(r)
	trainerID, ok := parseID(r, "trainerID")
	if !ok {
		renderError(w, r, h.renderer, http.StatusNotFound, i18n.T(lang, "errors.not_found"))
		return
	}
	tt, err := h.schedules.Timetable(r.Context(), trainerID)
	switch {
	case errors.Is(err, service.ErrNotFound):
		renderError(w, r, h.renderer, http.StatusNotFound, i18n.T(lang, "errors.not_found"))
		return
	case err != nil:
		logAndInternalError(w, "loading timetable for export failed", "trainer_id", trainerID, "error", err)
		return
	}

	labels := export.Labels{
		Title:      i18n.T(lang, "schedule.schedule_for", "trainerName", tt.Trainer.Name),
		TimeHeader: i18n.T(lang, "schedule.time_header"),
	}
	for _, d := range tt.Grid.Days {
		labels.Days = append(labels.Days, i18n.T(lang, d.Key()))
	}

	var buf bytes.Buffer
	if err := export.Timetable(&buf, tt.Grid, labels); err != nil {
		logAndInternalError(w, "writing timetable workbook failed", "trainer_id", trainerID, "error", err)
		return
	}

	name := util.Slugify(tt.Trainer.Name)
	if name == "" {
		name = "trainer-" + strconv.FormatInt(trainerID, 10)
	}
	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="schedule-`+name+`.xlsx"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	_, _ = buf.WriteTo(w)
}

// NewEntryForm handles GET /schedule/{trainerID}/entries/new.
func (h *ScheduleHandler) NewEntryForm(w http.ResponseWriter, r *http.Request) {
	tr, ok := h.loadTrainer(w, r)
	if !ok {
		return
	}
	base := scheduleTrainerURL(tr.ID)
	renderPage(w, r, h.renderer, http.StatusOK, "schedule_entry_form", pageData(r, "admin_schedule.add_entry_title", entryForm{
		Trainer: tr,
		Input:   model.DefaultScheduleInput(),
		Action:  base + "/entries",
		Cancel:  base,
	}))
}

// CreateEntry handles POST /schedule/{trainerID}/entries.
func (h *ScheduleHandler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	trainerID, ok := parseID(r, "trainerID")
	if !ok {
		failAndRedirect(w, r, h.renderer, scheduleURL, service.ErrNotFound)
		return
	}
	back := scheduleTrainerURL(trainerID)

	e, err := h.schedules.Create(r.Context(), trainerID, readEntryForm(r))
	if err != nil {
		slog.Warn("schedule entry create failed", "trainer_id", trainerID, "error", err, "user_id", adminID(r))
		failAndRedirect(w, r, h.renderer, back, err)
		return
	}
	slog.Info("schedule entry saved", "trainer_id", trainerID, "schedule_id", e.ID, "user_id", adminID(r))
	flashSuccess(w, r, h.renderer, back, "flash.entry_saved")
}

// EditEntryForm handles GET /schedule/{trainerID}/entries/{id}/edit.
func (h *ScheduleHandler) EditEntryForm(w http.ResponseWriter, r *http.Request) {
	tr, e, ok := h.loadEntry(w, r)
	if !ok {
		return
	}
	clock, meridiem := model.SplitTimeLabel(e.Time)
	base := scheduleTrainerURL(tr.ID)
	renderPage(w, r, h.renderer, http.StatusOK, "schedule_entry_form", pageData(r, "admin_schedule.edit_entry_title", entryForm{
		Trainer: tr,
		Input: model.ScheduleInput{
			Day:      model.Day(e.Day),
			Clock:    clock,
			Meridiem: meridiem,
			Class:    e.Class,
			Duration: e.Duration,
		},
		Action:  entryURL(tr.ID, e.ID),
		Cancel:  base,
		Editing: true,
	}))
}

// UpdateEntry handles POST /schedule/{trainerID}/entries/{id}.
func (h *ScheduleHandler) UpdateEntry(w http.ResponseWriter, r *http.Request) {
	trainerID, id, back, ok := h.entryIDs(w, r)
	if !ok {
		return
	}
	if _, err := h.schedules.Update(r.Context(), trainerID, id, readEntryForm(r)); err != nil {
		slog.Warn("schedule entry update failed", "trainer_id", trainerID, "schedule_id", id, "error", err, "user_id", adminID(r))
		failAndRedirect(w, r, h.renderer, back, err)
		return
	}
	flashSuccess(w, r, h.renderer, back, "flash.entry_saved")
}

// ConfirmDeleteEntry handles GET /schedule/{trainerID}/entries/{id}/delete.
func (h *ScheduleHandler) ConfirmDeleteEntry(w http.ResponseWriter, r *http.Request) {
	tr, e, ok := h.loadEntry(w, r)
	if !ok {
		return
	}
	lang := middleware.GetLanguage(r)
	renderPage(w, r, h.renderer, http.StatusOK, "confirm", pageData(r, "confirm.title", confirmData{
		PromptKey: service.DeleteScheduleKey,
		Subject:   i18n.T(lang, model.Day(e.Day).Key()) + " " + e.Time + " · " + e.Class,
		Action:    entryURL(tr.ID, e.ID) + "/delete",
		CancelURL: scheduleTrainerURL(tr.ID),
	}))
}

// DeleteEntry handles POST /schedule/{trainerID}/entries/{id}/delete.
func (h *ScheduleHandler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	trainerID, id, back, ok := h.entryIDs(w, r)
	if !ok {
		return
	}

	err := h.schedules.Delete(r.Context(), trainerID, id, confirmed(r))
	switch {
	case errors.Is(err, service.ErrNotConfirmed):
		flashAndRedirect(w, r, h.renderer, back, i18n.T(middleware.GetLanguage(r), "flash.cancelled"), flashTypeInfo)
	case err != nil:
		slog.Error("schedule entry delete failed", "trainer_id", trainerID, "schedule_id", id, "error", err, "user_id", adminID(r))
		failAndRedirect(w, r, h.renderer, back, err)
	default:
		slog.Info("schedule entry deleted via admin", "trainer_id", trainerID, "schedule_id", id, "user_id", adminID(r))
		flashSuccess(w, r, h.renderer, back, "flash.entry_deleted")
	}
}

func (h *ScheduleHandler) loadTrainer(w http.ResponseWriter, r *http.Request) (store.Trainer, bool) {
	trainerID, ok := parseID(r, "trainerID")
	if !ok {
		failAndRedirect(w, r, h.renderer, scheduleURL, service.ErrNotFound)
		return store.Trainer{}, false
	}
	tr, err := h.trainers.Get(r.Context(), trainerID)
	if err != nil {
		failAndRedirect(w, r, h.renderer, scheduleURL, err)
		return store.Trainer{}, false
	}
	return tr, true
}

func (h *ScheduleHandler) loadEntry(w http.ResponseWriter, r *http.Request) (store.Trainer, store.Schedule, bool) {
	tr, ok := h.loadTrainer(w, r)
	if !ok {
		return store.Trainer{}, store.Schedule{}, false
	}
	back := scheduleTrainerURL(tr.ID)
	id, ok := parseID(r, "id")
	if !ok {
		failAndRedirect(w, r, h.renderer, back, service.ErrNotFound)
		return store.Trainer{}, store.Schedule{}, false
	}
	e, err := h.schedules.Get(r.Context(), tr.ID, id)
	if err != nil {
		failAndRedirect(w, r, h.renderer, back, err)
		return store.Trainer{}, store.Schedule{}, false
	}
	return tr, e, true
}

// entryIDs parses both URL ids, redirecting on a malformed one.
func (h *ScheduleHandler) entryIDs(w http.ResponseWriter, r *http.Request) (trainerID, id int64, back string, ok bool) {
	trainerID, ok = parseID(r, "trainerID")
	if !ok {
		failAndRedirect(w, r, h.renderer, scheduleURL, service.ErrNotFound)
		return 0, 0, "", false
	}
	back = scheduleTrainerURL(trainerID)
	id, ok = parseID(r, "id")
	if !ok {
		failAndRedirect(w, r, h.renderer, back, service.ErrNotFound)
		return 0, 0, "", false
	}
	return trainerID, id, back, true
}

func readEntryForm(r *http.Request) model.ScheduleInput {
	return model.ScheduleInput{
		Day:      model.Day(r.PostFormValue("day")),
		Clock:    r.PostFormValue("time"),
		Meridiem: r.PostFormValue("meridiem"),
		Class:    r.PostFormValue("class"),
		Duration: r.PostFormValue("duration"),
	}
}

func scheduleTrainerURL(trainerID int64) string {
	return scheduleURL + "/" + strconv.FormatInt(trainerID, 10)
}

func entryURL(trainerID, id int64) string {
	return scheduleTrainerURL(trainerID) + "/entries/" + strconv.FormatInt(id, 10)
}
