// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/gymflex/gymflex-go/internal/cache"
	"github.com/gymflex/gymflex-go/internal/metrics"
	"github.com/gymflex/gymflex-go/internal/middleware"
	"github.com/gymflex/gymflex-go/internal/render"
	"github.com/gymflex/gymflex-go/internal/service"
	"github.com/gymflex/gymflex-go/internal/session"
)

// Static asset cache lifetimes in seconds.
const (
	staticMaxAge  = 31536000
	uploadsMaxAge = 604800
)

// Services bundles the business services the handlers call.
type Services struct {
	Auth      *service.AuthService
	Trainers  *service.TrainerService
	Schedules *service.ScheduleService
	Contact   *service.ContactService
}

// RouterConfig holds everything NewRouter wires together.
type RouterConfig struct {
	DB              *sql.DB
	Cache           cache.Cache // reported by /health; may be nil
	Renderer        *render.Renderer
	Observer        *session.Observer
	Services        Services
	LoginProtection *middleware.LoginProtection
	ContactLimiter  *middleware.RateLimiter

	CSRF           middleware.CSRFConfig
	Security       middleware.SecurityHeadersConfig
	DefaultLang    string
	RequestTimeout time.Duration
	MaxUploadBytes int64
	SiteURL        string // base URL in sitemap.xml; the request host when empty
	BlockCrawlers  bool

	StaticFS   fs.FS  // served at /static
	UploadsDir string // served at UploadsURL
	UploadsURL string
}

// NewRouter builds the site's HTTP handler.
func NewRouter(cfg RouterConfig) http.Handler {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 30 * time.Second
	}
	if cfg.UploadsURL == "" {
		cfg.UploadsURL = "/uploads"
	}
	if cfg.CSRF.ErrorHandler == nil {
		cfg.CSRF.ErrorHandler = CSRFFailure(cfg.Renderer)
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(chimw.GetHead)
	r.Use(metrics.Middleware)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.StripTrailingSlash)
	r.Use(middleware.SecurityHeaders(cfg.Security))

	// Endpoints without sessions.
	r.Handle("/metrics", metrics.Handler())
	if cfg.StaticFS != nil {
		r.Group(func(r chi.Router) {
			r.Use(middleware.StaticCache(staticMaxAge))
			r.Handle("/static/*", http.StripPrefix("/static/", http.FileServerFS(cfg.StaticFS)))
		})
	}
	if cfg.UploadsDir != "" {
		r.Group(func(r chi.Router) {
			r.Use(middleware.StaticCache(uploadsMaxAge))
			r.Handle(cfg.UploadsURL+"/*", http.StripPrefix(cfg.UploadsURL+"/", http.FileServer(http.Dir(cfg.UploadsDir))))
		})
	}

	pages := NewPagesHandler(cfg.Renderer)
	auth := NewAuthHandler(cfg.Renderer, cfg.Services.Auth, cfg.Observer, cfg.LoginProtection)
	trainers := NewTrainersHandler(cfg.Renderer, cfg.Services.Trainers, cfg.MaxUploadBytes)
	schedule := NewScheduleHandler(cfg.Renderer, cfg.Services.Trainers, cfg.Services.Schedules)
	contact := NewContactHandler(cfg.Renderer, cfg.Services.Contact)
	health := NewHealthHandler(cfg.DB, cfg.Cache, cfg.UploadsDir)
	seoHandler := NewSEOHandler(cfg.Services.Trainers, cfg.SiteURL, cfg.BlockCrawlers)

	r.Get("/robots.txt", seoHandler.Robots)
	r.Get("/sitemap.xml", seoHandler.Sitemap)

	r.Group(func(r chi.Router) {
		r.Use(cfg.Observer.Manager().LoadAndSave)
		r.Use(middleware.Language(cfg.DefaultLang))
		r.Use(middleware.LoadAdmin(cfg.Observer))
		r.Use(middleware.CSRF(cfg.CSRF))

		r.NotFound(NotFound(cfg.Renderer))

		r.Get("/health", health.Health)

		r.Get("/", pages.Home)
		r.Get("/about", pages.About)
		r.Get("/programs", pages.Programs)

		r.Get(contactURL, contact.Form)
		r.Group(func(r chi.Router) {
			if cfg.ContactLimiter != nil {
				r.Use(cfg.ContactLimiter.Middleware())
			}
			r.Post(contactURL, contact.Submit)
		})

		r.Get(trainersURL, trainers.List)
		r.Get(scheduleURL, schedule.Index)
		r.Get(scheduleURL+"/{trainerID}", schedule.Show)
		r.Get(scheduleURL+"/{trainerID}/export.xlsx", schedule.Export)

		r.Group(func(r chi.Router) {
			if cfg.LoginProtection != nil {
				r.Use(cfg.LoginProtection.Middleware())
			}
			r.Get(middleware.LoginPath, auth.LoginForm)
			r.Post(middleware.LoginPath, auth.Login)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin(cfg.Observer))

			r.Post("/logout", auth.Logout)

			r.Get(trainersURL+"/new", trainers.NewForm)
			r.Post(trainersURL, trainers.Create)
			r.Get(trainersURL+"/{id}/edit", trainers.EditForm)
			r.Post(trainersURL+"/{id}", trainers.Update)
			r.Get(trainersURL+"/{id}/delete", trainers.ConfirmDelete)
			r.Post(trainersURL+"/{id}/delete", trainers.Delete)

			r.Route(scheduleURL+"/{trainerID}/entries", func(r chi.Router) {
				r.Get("/new", schedule.NewEntryForm)
				r.Post("/", schedule.CreateEntry)
				r.Get("/{id}/edit", schedule.EditEntryForm)
				r.Post("/{id}", schedule.UpdateEntry)
				r.Get("/{id}/delete", schedule.ConfirmDeleteEntry)
				r.Post("/{id}/delete", schedule.DeleteEntry)
			})
		})
	})

	return r
}
