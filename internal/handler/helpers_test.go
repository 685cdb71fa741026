// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"bytes"
	"context"
	"database/sql"
	"io"
	"io/fs"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/gymflex/gymflex-go/internal/cache"
	"github.com/gymflex/gymflex-go/internal/i18n"
	"github.com/gymflex/gymflex-go/internal/mail"
	"github.com/gymflex/gymflex-go/internal/middleware"
	"github.com/gymflex/gymflex-go/internal/objectstore"
	"github.com/gymflex/gymflex-go/internal/render"
	"github.com/gymflex/gymflex-go/internal/service"
	"github.com/gymflex/gymflex-go/internal/session"
	"github.com/gymflex/gymflex-go/internal/store"
	"github.com/gymflex/gymflex-go/internal/testutil"
	"github.com/gymflex/gymflex-go/web"
)

const (
	testAdminEmail    = "admin@gymflex.test"
	testAdminPassword = "correct-horse-battery"
)

// testSite is a running router backed by a migrated temp database.
type testSite struct {
	t      *testing.T
	db     *sql.DB
	cache  *cache.MemoryCache
	server *httptest.Server
}

// newTestSite starts the full router. opts adjust the config before it is
// built.
func newTestSite(t *testing.T, opts ...func(*RouterConfig)) *testSite {
	t.Helper()

	if err := i18n.Init(testutil.DiscardLogger()); err != nil {
		t.Fatalf("i18n.Init: %v", err)
	}

	db := testutil.TestDB(t)
	if err := store.SeedAdmin(context.Background(), db, testAdminEmail, testAdminPassword); err != nil {
		t.Fatalf("SeedAdmin: %v", err)
	}

	templates, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		t.Fatalf("templates: %v", err)
	}
	static, err := fs.Sub(web.Static, "static/dist")
	if err != nil {
		t.Fatalf("static: %v", err)
	}

	obs := session.NewObserver(scs.New())
	renderer, err := render.New(render.Config{
		TemplatesFS:    templates,
		SessionManager: obs.Manager(),
		IsDev:          true,
	})
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}

	q := store.New(db)
	readCache := cache.NewMemoryCache(time.Minute, 0)
	t.Cleanup(func() { _ = readCache.Close() })
	uploads := t.TempDir()
	objects := objectstore.NewDisk(uploads, "trainer-images", "/uploads")

	cfg := RouterConfig{
		DB:       db,
		Cache:    readCache,
		Renderer: renderer,
		Observer: obs,
		Services: Services{
			Auth:      service.NewAuthService(q, nil),
			Trainers:  service.NewTrainerService(q, objects, service.TrainerServiceOptions{Cache: readCache, CacheTTL: time.Minute}),
			Schedules: service.NewScheduleService(q, readCache, time.Minute, nil),
			Contact:   service.NewContactService(q, mail.NoopSender{}, "inbox@gymflex.test", nil),
		},
		LoginProtection: middleware.NewLoginProtection(middleware.LoginProtectionConfig{IPRateLimit: 100, IPBurst: 100}),
		ContactLimiter:  middleware.NewRateLimiter(100, 100),
		CSRF:            middleware.DefaultCSRFConfig(nil, true, 8080),
		Security:        middleware.DefaultSecurityHeadersConfig(true),
		DefaultLang:     "en",
		MaxUploadBytes:  5 << 20,
		StaticFS:        static,
		UploadsDir:      filepath.Join(uploads, "missing"),
		UploadsURL:      "/uploads",
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	router := NewRouter(cfg)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return &testSite{t: t, db: db, cache: readCache, server: srv}
}

// client returns a cookie-keeping client that does not follow redirects.
func (s *testSite) client() *http.Client {
	s.t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		s.t.Fatalf("cookiejar: %v", err)
	}
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

// adminClient returns a client that has signed in.
func (s *testSite) adminClient() *http.Client {
	s.t.Helper()
	c := s.client()
	resp := s.postForm(c, "/admin-login", url.Values{
		"email":    {testAdminEmail},
		"password": {testAdminPassword},
	})
	if resp.code != http.StatusSeeOther {
		s.t.Fatalf("login status = %d, want 303; body: %s", resp.code, resp.body)
	}
	return c
}

type result struct {
	code     int
	header   http.Header
	body     string
	location string
}

func (s *testSite) do(c *http.Client, req *http.Request) result {
	s.t.Helper()
	req.AddCookie(&http.Cookie{Name: "lng", Value: "en"})
	resp, err := c.Do(req)
	if err != nil {
		s.t.Fatalf("%s %s: %v", req.Method, req.URL, err)
	}
	defer func() { _ = resp.Body.Close() }()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		s.t.Fatalf("reading body: %v", err)
	}
	return result{
		code:     resp.StatusCode,
		header:   resp.Header,
		body:     string(b),
		location: resp.Header.Get("Location"),
	}
}

func (s *testSite) get(c *http.Client, path string) result {
	s.t.Helper()
	req, err := http.NewRequest(http.MethodGet, s.server.URL+path, nil)
	if err != nil {
		s.t.Fatalf("NewRequest: %v", err)
	}
	return s.do(c, req)
}

func (s *testSite) postForm(c *http.Client, path string, form url.Values) result {
	s.t.Helper()
	req, err := http.NewRequest(http.MethodPost, s.server.URL+path, strings.NewReader(form.Encode()))
	if err != nil {
		s.t.Fatalf("NewRequest: %v", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return s.do(c, req)
}

// postMultipart submits fields plus an optional file under "image".
func (s *testSite) postMultipart(c *http.Client, path string, fields map[string]string, filename string, file []byte) result {
	s.t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			s.t.Fatalf("WriteField: %v", err)
		}
	}
	if filename != "" {
		fw, err := mw.CreateFormFile("image", filename)
		if err != nil {
			s.t.Fatalf("CreateFormFile: %v", err)
		}
		_, _ = fw.Write(file)
	}
	if err := mw.Close(); err != nil {
		s.t.Fatalf("multipart close: %v", err)
	}

	req, err := http.NewRequest(http.MethodPost, s.server.URL+path, &buf)
	if err != nil {
		s.t.Fatalf("NewRequest: %v", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return s.do(c, req)
}

func (s *testSite) countTrainers() int {
	s.t.Helper()
	trainers, err := store.New(s.db).ListTrainers(context.Background())
	if err != nil {
		s.t.Fatalf("ListTrainers: %v", err)
	}
	return len(trainers)
}
