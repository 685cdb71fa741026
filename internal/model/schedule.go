// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrClassRequired = errors.New("class name is required")
	ErrInvalidTime   = errors.New("invalid time of day")
)

// Meridiems are the AM/PM choices offered by the entry form.
var Meridiems = []string{"AM", "PM"}

// ClockOptions returns the entry form's clock values: 12:00, 12:30, 01:00 … 11:30.
func ClockOptions() []string {
	opts := make([]string, 0, 24)
	for i := range 12 {
		h := i
		if h == 0 {
			h = 12
		}
		opts = append(opts, fmt.Sprintf("%02d:00", h), fmt.Sprintf("%02d:30", h))
	}
	return opts
}

// ScheduleInput holds the submitted fields of one schedule entry.
type ScheduleInput struct {
	Day      Day
	Clock    string // "09:00"
	Meridiem string // "AM" or "PM"
	Class    string
	Duration string
}

// DefaultScheduleInput pre-fills the add-entry form.
func DefaultScheduleInput() ScheduleInput {
	return ScheduleInput{Day: Monday, Clock: "09:00", Meridiem: "AM"}
}

// TimeLabel joins clock and meridiem, e.g. "09:00 AM".
func (in ScheduleInput) TimeLabel() string {
	return in.Clock + " " + in.Meridiem
}

// SplitTimeLabel is the inverse of TimeLabel, used to pre-fill the edit form.
// Labels without a meridiem come back with an empty one.
func SplitTimeLabel(label string) (clock, meridiem string) {
	clock, meridiem, _ = strings.Cut(strings.TrimSpace(label), " ")
	return clock, strings.ToUpper(meridiem)
}

// Normalize trims every field.
func (in *ScheduleInput) Normalize() {
	in.Day = Day(strings.ToLower(strings.TrimSpace(string(in.Day))))
	in.Clock = strings.TrimSpace(in.Clock)
	in.Meridiem = strings.ToUpper(strings.TrimSpace(in.Meridiem))
	in.Class = strings.TrimSpace(in.Class)
	in.Duration = strings.TrimSpace(in.Duration)
}

// Validate checks the day, the clock value and the class name.
func (in ScheduleInput) Validate() error {
	if in.Day.Index() < 0 {
		return ErrInvalidDay
	}
	if !validClock(in.Clock) {
		return fmt.Errorf("%w: %q", ErrInvalidTime, in.Clock)
	}
	if in.Meridiem != "AM" && in.Meridiem != "PM" {
		return fmt.Errorf("%w: %q", ErrInvalidTime, in.Meridiem)
	}
	if in.Class == "" {
		return ErrClassRequired
	}
	return nil
}

func validClock(c string) bool {
	for _, opt := range ClockOptions() {
		if opt == c {
			return true
		}
	}
	return false
}
