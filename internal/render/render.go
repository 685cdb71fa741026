// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package render parses the site templates once and executes them per
// request with the common layout data (language, admin flag, flash).
package render

import (
	"bytes"
	"database/sql"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/gymflex/gymflex-go/internal/i18n"
	"github.com/gymflex/gymflex-go/internal/markup"
	"github.com/gymflex/gymflex-go/internal/model"
)

// Session keys used for one-shot messages.
const (
	keyFlash     = "flash"
	keyFlashType = "flash_type"
	keyViewError = "view_error"
)

// Placeholder portraits used when a trainer has no image.
const (
	PlaceholderLarge = "https://via.placeholder.com/300"
	PlaceholderSmall = "https://via.placeholder.com/150"
)

// Site holds values every page needs.
type Site struct {
	Name      string
	Languages []string
	Map       MapConfig
}

// MapConfig configures the Kakao map embed on the about page.
type MapConfig struct {
	AppKey    string
	Latitude  float64
	Longitude float64
	Level     int
}

// Enabled reports whether an app key was configured.
func (m MapConfig) Enabled() bool { return m.AppKey != "" }

// Renderer handles template rendering with caching.
type Renderer struct {
	templates      map[string]*template.Template
	sessionManager *scs.SessionManager
	site           Site
	isDev          bool
}

// Config holds renderer configuration.
type Config struct {
	TemplatesFS    fs.FS
	SessionManager *scs.SessionManager
	Site           Site
	IsDev          bool
}

// New creates a Renderer with every page template parsed.
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		templates:      make(map[string]*template.Template),
		sessionManager: cfg.SessionManager,
		site:           cfg.Site,
		isDev:          cfg.IsDev,
	}
	if r.site.Name == "" {
		r.site.Name = "GymFlex"
	}
	if len(r.site.Languages) == 0 {
		r.site.Languages = i18n.SupportedLanguages
	}

	if err := r.parseTemplates(cfg.TemplatesFS); err != nil {
		return nil, err
	}
	return r, nil
}

// parseTemplates parses each page together with the base layout and all
// partials.
func (r *Renderer) parseTemplates(templatesFS fs.FS) error {
	partials, err := templateFiles(templatesFS, "partials")
	if err != nil {
		return fmt.Errorf("getting partials: %w", err)
	}
	pages, err := templateFiles(templatesFS, "pages")
	if err != nil {
		return fmt.Errorf("getting pages: %w", err)
	}
	if len(pages) == 0 {
		return fmt.Errorf("no page templates found")
	}

	for _, pagePath := range pages {
		name := strings.TrimSuffix(path.Base(pagePath), ".html")

		files := []string{"layouts/base.html"}
		files = append(files, partials...)
		files = append(files, pagePath)

		tmpl, err := template.New("").Funcs(Funcs()).ParseFS(templatesFS, files...)
		if err != nil {
			return fmt.Errorf("parsing template %s: %w", name, err)
		}
		r.templates[name] = tmpl
	}
	return nil
}

func templateFiles(templatesFS fs.FS, dir string) ([]string, error) {
	entries, err := fs.ReadDir(templatesFS, dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".html") {
			files = append(files, path.Join(dir, entry.Name()))
		}
	}
	return files, nil
}

// Funcs returns the template function map.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"T":       i18n.T,
		"objects": i18n.Objects,
		"bio":     markup.Bio,
		"dayLabel": func(lang string, d model.Day) string {
			return i18n.T(lang, d.Key())
		},
		"trainerImage": TrainerImage,
		"langURL":      LangURL,
		"clockOptions": model.ClockOptions,
		"meridiems":    func() []string { return model.Meridiems },
		"days":         func() []model.Day { return model.Days[:] },
		"formatDateTime": func(t time.Time) string {
			return t.Format("2006-01-02 15:04")
		},
		"isActive": func(current, target string) bool {
			if target == "/" {
				return current == "/"
			}
			return current == target || strings.HasPrefix(current, target+"/")
		},
	}
}

// TrainerImage returns the stored image or a placeholder of the given size
// ("small" for headers, anything else for cards).
func TrainerImage(u sql.NullString, size string) string {
	if u.Valid && u.String != "" {
		return u.String
	}
	if size == "small" {
		return PlaceholderSmall
	}
	return PlaceholderLarge
}

// LangURL returns current with its lng query parameter set to lang.
func LangURL(current *url.URL, lang string) string {
	if current == nil {
		return "/?lng=" + url.QueryEscape(lang)
	}
	u := *current
	q := u.Query()
	q.Set("lng", lang)
	u.RawQuery = q.Encode()
	return u.RequestURI()
}

// TemplateData holds data passed to templates.
type TemplateData struct {
	Title       string
	Lang        string
	URL         *url.URL
	Path        string
	Admin       bool
	AdminEmail  string
	Site        Site
	Flash       string
	FlashType   string
	Error       string // replaces the page body when set
	CurrentYear int
	Data        any
}

// Render writes the named page with status 200.
func (r *Renderer) Render(w http.ResponseWriter, req *http.Request, name string, data TemplateData) error {
	return r.RenderStatus(w, req, http.StatusOK, name, data)
}

// RenderStatus writes the named page with the given status.
func (r *Renderer) RenderStatus(w http.ResponseWriter, req *http.Request, status int, name string, data TemplateData) error {
	tmpl, ok := r.templates[name]
	if !ok {
		return fmt.Errorf("template %s not found", name)
	}

	data.CurrentYear = time.Now().Year()
	data.Site = r.site
	if data.URL == nil {
		data.URL = req.URL
	}
	if data.Path == "" {
		data.Path = req.URL.Path
	}
	if data.Lang == "" {
		data.Lang = i18n.DefaultLanguage
	}

	if r.sessionManager != nil {
		ctx := req.Context()
		if flash := r.sessionManager.PopString(ctx, keyFlash); flash != "" {
			data.Flash = flash
			data.FlashType = r.sessionManager.PopString(ctx, keyFlashType)
			if data.FlashType == "" {
				data.FlashType = "info"
			}
		}
		if msg := r.sessionManager.PopString(ctx, keyViewError); msg != "" && data.Error == "" {
			data.Error = msg
		}
	}

	// Render to a buffer first so a template error does not send half a page.
	buf := new(bytes.Buffer)
	if err := tmpl.ExecuteTemplate(buf, "base", data); err != nil {
		return fmt.Errorf("executing template %s: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

// SetFlash stores a message shown once on the next rendered page.
func (r *Renderer) SetFlash(req *http.Request, message, flashType string) {
	if r.sessionManager != nil {
		r.sessionManager.Put(req.Context(), keyFlash, message)
		r.sessionManager.Put(req.Context(), keyFlashType, flashType)
	}
}

// SetViewError stores a message that replaces the body of the next page.
func (r *Renderer) SetViewError(req *http.Request, message string) {
	if r.sessionManager != nil {
		r.sessionManager.Put(req.Context(), keyViewError, message)
	}
}

// Has reports whether a page template exists.
func (r *Renderer) Has(name string) bool {
	_, ok := r.templates[name]
	return ok
}
