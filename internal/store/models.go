// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"database/sql"
	"time"
)

type User struct {
	ID           int64        `json:"id"`
	Email        string       `json:"email"`
	PasswordHash string       `json:"-"`
	Name         string       `json:"name"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
	LastLoginAt  sql.NullTime `json:"last_login_at"`
}

type Trainer struct {
	ID        int64          `json:"id"`
	Name      string         `json:"name"`
	Specialty string         `json:"specialty"`
	Bio       string         `json:"bio"`
	ImageURL  sql.NullString `json:"image_url"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

type Schedule struct {
	ID        int64     `json:"id"`
	TrainerID int64     `json:"trainer_id"`
	Day       string    `json:"day"`
	Time      string    `json:"time"`
	Class     string    `json:"class"`
	Duration  string    `json:"duration"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DayKey and TimeLabel let schedule rows feed the timetable projection.
func (s Schedule) DayKey() string    { return s.Day }
func (s Schedule) TimeLabel() string { return s.Time }

type ContactMessage struct {
	ID         int64        `json:"id"`
	Name       string       `json:"name"`
	Email      string       `json:"email"`
	Subject    string       `json:"subject"`
	Message    string       `json:"message"`
	Language   string       `json:"language"`
	IPAddress  string       `json:"ip_address"`
	Browser    string       `json:"browser"`
	OS         string       `json:"os"`
	DeviceType string       `json:"device_type"`
	Status     string       `json:"status"`
	ProviderID string       `json:"provider_id"`
	CreatedAt  time.Time    `json:"created_at"`
	SentAt     sql.NullTime `json:"sent_at"`
}

type Event struct {
	ID        int64         `json:"id"`
	Level     string        `json:"level"`
	Category  string        `json:"category"`
	Message   string        `json:"message"`
	UserID    sql.NullInt64 `json:"user_id"`
	Metadata  string        `json:"metadata"`
	CreatedAt time.Time     `json:"created_at"`
}
