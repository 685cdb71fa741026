// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package config loads GymFlex settings from the environment.
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// weakSecrets are sample values from .env.example and the README.
var weakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"gymflex-development-secret-key-32",
}

// MinSessionSecretLength is the minimum session secret length in bytes.
const MinSessionSecretLength = 32

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath        string `env:"GYMFLEX_DB_PATH" envDefault:"./data/gymflex.db"`
	SessionSecret string `env:"GYMFLEX_SESSION_SECRET,required"`
	ServerHost    string `env:"GYMFLEX_SERVER_HOST" envDefault:"localhost"`
	ServerPort    int    `env:"GYMFLEX_SERVER_PORT" envDefault:"8080"`
	Env           string `env:"GYMFLEX_ENV" envDefault:"development"`
	LogLevel      string `env:"GYMFLEX_LOG_LEVEL" envDefault:"info"`
	SiteURL       string `env:"GYMFLEX_SITE_URL"` // public base URL for sitemap.xml; the request host when empty

	// Request handling
	RequestTimeout time.Duration `env:"GYMFLEX_REQUEST_TIMEOUT" envDefault:"30s"`
	MaxUploadMB    int64         `env:"GYMFLEX_MAX_UPLOAD_MB" envDefault:"10"`

	// Trainer images
	UploadsDir    string `env:"GYMFLEX_UPLOADS_DIR" envDefault:"./uploads"`
	UploadsURL    string `env:"GYMFLEX_UPLOADS_URL" envDefault:"/uploads"`
	ImageBucket   string `env:"GYMFLEX_IMAGE_BUCKET" envDefault:"trainer-images"`
	ImageMaxWidth int    `env:"GYMFLEX_IMAGE_MAX_WIDTH" envDefault:"1200"`

	// Cache
	RedisURL    string `env:"GYMFLEX_REDIS_URL"`
	CachePrefix string `env:"GYMFLEX_CACHE_PREFIX" envDefault:"gymflex:"`
	CacheTTL    int    `env:"GYMFLEX_CACHE_TTL" envDefault:"300"` // seconds

	// Admin account created on first start
	AdminEmail    string `env:"GYMFLEX_ADMIN_EMAIL" envDefault:"admin@gymflex.local"`
	AdminPassword string `env:"GYMFLEX_ADMIN_PASSWORD"`

	// Contact form delivery
	ResendAPIKey string `env:"GYMFLEX_RESEND_API_KEY"`
	MailFrom     string `env:"GYMFLEX_MAIL_FROM" envDefault:"GymFlex <noreply@gymflex.local>"`
	MailTo       string `env:"GYMFLEX_MAIL_TO" envDefault:"contact@gymflex.local"`

	// Contact messages older than this are purged by the nightly job
	ContactRetentionDays int `env:"GYMFLEX_CONTACT_RETENTION_DAYS" envDefault:"90"`

	// Kakao map on the about page
	KakaoMapKey   string  `env:"GYMFLEX_KAKAO_MAP_KEY"`
	MapLatitude   float64 `env:"GYMFLEX_MAP_LATITUDE" envDefault:"37.551299479"`
	MapLongitude  float64 `env:"GYMFLEX_MAP_LONGITUDE" envDefault:"127.143145274"`
	MapZoomLevel  int     `env:"GYMFLEX_MAP_LEVEL" envDefault:"3"`
	DefaultLocale string  `env:"GYMFLEX_DEFAULT_LOCALE" envDefault:"ko"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// MailEnabled reports whether contact messages are delivered through Resend.
func (c Config) MailEnabled() bool {
	return c.ResendAPIKey != ""
}

// MapEnabled reports whether the Kakao map script can be loaded.
func (c Config) MapEnabled() bool {
	return c.KakaoMapKey != ""
}

// ContactRetention returns the retention window for stored contact messages.
func (c Config) ContactRetention() time.Duration {
	return time.Duration(c.ContactRetentionDays) * 24 * time.Hour
}

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if len(cfg.SessionSecret) < MinSessionSecretLength {
		return nil, fmt.Errorf("GYMFLEX_SESSION_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSessionSecretLength, len(cfg.SessionSecret))
	}

	for _, weak := range weakSecrets {
		if cfg.SessionSecret == weak {
			return nil, fmt.Errorf("GYMFLEX_SESSION_SECRET is a known sample value and must not be used")
		}
	}

	if !hasMinimumEntropy(cfg.SessionSecret) {
		slog.Warn("GYMFLEX_SESSION_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}

	switch cfg.DefaultLocale {
	case "ko", "en":
	default:
		return nil, fmt.Errorf("GYMFLEX_DEFAULT_LOCALE must be ko or en, got %q", cfg.DefaultLocale)
	}

	if cfg.ContactRetentionDays < 1 {
		return nil, fmt.Errorf("GYMFLEX_CONTACT_RETENTION_DAYS must be positive, got %d", cfg.ContactRetentionDays)
	}

	cfg.UploadsURL = "/" + strings.Trim(cfg.UploadsURL, "/")

	return cfg, nil
}

// hasMinimumEntropy checks that a secret mixes at least three character classes.
func hasMinimumEntropy(s string) bool {
	classes := []string{
		"abcdefghijklmnopqrstuvwxyz",
		"ABCDEFGHIJKLMNOPQRSTUVWXYZ",
		"0123456789",
		"!@#$%^&*()-_=+[]{}|;:,.<>?/~`'\"\\",
	}
	n := 0
	for _, class := range classes {
		if strings.ContainsAny(s, class) {
			n++
		}
	}
	return n >= 3
}
