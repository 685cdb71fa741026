// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/gymflex/gymflex-go/internal/cache"
	"github.com/gymflex/gymflex-go/internal/config"
	"github.com/gymflex/gymflex-go/internal/handler"
	"github.com/gymflex/gymflex-go/internal/i18n"
	"github.com/gymflex/gymflex-go/internal/imaging"
	"github.com/gymflex/gymflex-go/internal/logging"
	"github.com/gymflex/gymflex-go/internal/mail"
	"github.com/gymflex/gymflex-go/internal/middleware"
	"github.com/gymflex/gymflex-go/internal/objectstore"
	"github.com/gymflex/gymflex-go/internal/render"
	"github.com/gymflex/gymflex-go/internal/scheduler"
	"github.com/gymflex/gymflex-go/internal/service"
	"github.com/gymflex/gymflex-go/internal/session"
	"github.com/gymflex/gymflex-go/internal/store"
	"github.com/gymflex/gymflex-go/internal/version"
	"github.com/gymflex/gymflex-go/web"
)

// loginCleanupSpec expires stale login attempts every ten minutes.
const loginCleanupSpec = "*/10 * * * *"

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "GymFlex - fitness center website\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  GYMFLEX_SESSION_SECRET    Session encryption key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  GYMFLEX_DB_PATH           SQLite database path (default: ./data/gymflex.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  GYMFLEX_SERVER_PORT       Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  GYMFLEX_ENV               Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  GYMFLEX_ADMIN_EMAIL       Administrator seeded on first start\n")
		_, _ = fmt.Fprintf(os.Stderr, "  GYMFLEX_RESEND_API_KEY    Resend key for contact mail (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  GYMFLEX_KAKAO_MAP_KEY     Kakao Maps JavaScript key (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  GYMFLEX_REDIS_URL         Redis URL for the read cache (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "\nSee .env.example for the full list.\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}
	if *showVersion {
		_, _ = fmt.Println("gymflex " + version.Get().String())
		os.Exit(0)
	}

	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := logging.New(os.Stdout, cfg.LogLevel, nil)
	slog.SetDefault(logger)

	if err := i18n.Init(logger); err != nil {
		return fmt.Errorf("initializing i18n: %w", err)
	}
	slog.Info("i18n system initialized", "languages", i18n.SupportedLanguages, "default", cfg.DefaultLocale)

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	slog.Info("initializing database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}(db)

	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database ready")

	queries := store.New(db)

	// From here on WARN and ERROR records also land in the events table.
	logger = logging.New(os.Stdout, cfg.LogLevel, queries)
	slog.SetDefault(logger)

	ctx := context.Background()
	if err := store.SeedAdmin(ctx, db, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		return fmt.Errorf("seeding admin: %w", err)
	}

	readCache, err := cache.New(cache.Options{
		RedisURL:   cfg.RedisURL,
		Prefix:     cfg.CachePrefix,
		DefaultTTL: time.Duration(cfg.CacheTTL) * time.Second,
	})
	if err != nil {
		return fmt.Errorf("initializing cache: %w", err)
	}
	defer func() { _ = readCache.Close() }()
	if err := readCache.Clear(ctx); err != nil {
		slog.Warn("clearing read cache failed", "error", err)
	}
	if cfg.UseRedisCache() {
		slog.Info("read cache initialized", "backend", "redis")
	} else {
		slog.Info("read cache initialized", "backend", "memory")
	}
	cacheTTL := time.Duration(cfg.CacheTTL) * time.Second

	var sender mail.Sender = mail.NoopSender{}
	if cfg.MailEnabled() {
		sender = mail.NewResendSender(cfg.ResendAPIKey, cfg.MailFrom)
		slog.Info("contact mail enabled", "to", cfg.MailTo)
	} else {
		slog.Warn("GYMFLEX_RESEND_API_KEY not set, contact messages are stored but not mailed")
	}

	objects := objectstore.NewDisk(cfg.UploadsDir, cfg.ImageBucket, cfg.UploadsURL)
	services := handler.Services{
		Auth: service.NewAuthService(queries, nil),
		Trainers: service.NewTrainerService(queries, objects, service.TrainerServiceOptions{
			Images:   imaging.NewProcessor(cfg.ImageMaxWidth),
			Cache:    readCache,
			CacheTTL: cacheTTL,
		}),
		Schedules: service.NewScheduleService(queries, readCache, cacheTTL, nil),
		Contact:   service.NewContactService(queries, sender, cfg.MailTo, nil),
	}
	events := service.NewEventService(queries, nil)

	sessionManager := session.New(db, cfg.IsDevelopment())
	observer := session.NewObserver(sessionManager)
	observer.Subscribe(session.LogEvents)
	observer.Subscribe(events.AuditSessions)

	loginProtection := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())

	jobs := scheduler.New(logger)
	if err := jobs.AddPurge("contact_messages", scheduler.DefaultPurgeSpec, cfg.ContactRetention(), services.Contact); err != nil {
		return fmt.Errorf("scheduling contact purge: %w", err)
	}
	if err := jobs.AddFunc("login_protection_cleanup", loginCleanupSpec, loginProtection.Cleanup); err != nil {
		return fmt.Errorf("scheduling login cleanup: %w", err)
	}
	jobs.Start()
	defer jobs.Stop()

	templatesFS, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		return fmt.Errorf("getting templates fs: %w", err)
	}
	staticFS, err := fs.Sub(web.Static, "static/dist")
	if err != nil {
		return fmt.Errorf("getting static fs: %w", err)
	}

	renderer, err := render.New(render.Config{
		TemplatesFS:    templatesFS,
		SessionManager: sessionManager,
		Site: render.Site{
			Name:      "GymFlex",
			Languages: i18n.SupportedLanguages,
			Map: render.MapConfig{
				AppKey:    cfg.KakaoMapKey,
				Latitude:  cfg.MapLatitude,
				Longitude: cfg.MapLongitude,
				Level:     cfg.MapZoomLevel,
			},
		},
		IsDev: cfg.IsDevelopment(),
	})
	if err != nil {
		return fmt.Errorf("initializing renderer: %w", err)
	}
	if !cfg.MapEnabled() {
		slog.Info("GYMFLEX_KAKAO_MAP_KEY not set, the about page renders without a map")
	}

	router := handler.NewRouter(handler.RouterConfig{
		DB:              db,
		Cache:           readCache,
		Renderer:        renderer,
		Observer:        observer,
		Services:        services,
		LoginProtection: loginProtection,
		ContactLimiter:  middleware.NewRateLimiter(1, 5),
		CSRF:            middleware.DefaultCSRFConfig([]byte(cfg.SessionSecret), cfg.IsDevelopment(), cfg.ServerPort),
		Security:        middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment()),
		DefaultLang:     cfg.DefaultLocale,
		RequestTimeout:  cfg.RequestTimeout,
		MaxUploadBytes:  cfg.MaxUploadMB << 20,
		SiteURL:         cfg.SiteURL,
		BlockCrawlers:   cfg.IsDevelopment(),
		StaticFS:        staticFS,
		UploadsDir:      cfg.UploadsDir,
		UploadsURL:      cfg.UploadsURL,
	})

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second, // image uploads on slow connections
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env, "version", version.Get().String())
	return serve(srv, quit, 30*time.Second)
}

// serve runs srv until a signal arrives on quit, then shuts it down within
// shutdownTimeout. A listener that fails to start ends serve with its error.
func serve(srv *http.Server, quit <-chan os.Signal, shutdownTimeout time.Duration) error {
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case sig := <-quit:
		slog.Info("shutting down server...", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
