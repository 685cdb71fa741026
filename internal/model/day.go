// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines the GymFlex domain types: weekdays, trainer and
// schedule-entry inputs, contact submissions and event constants.
package model

import (
	"errors"
	"strings"
)

// ErrInvalidDay is returned for a day symbol outside Monday..Sunday.
var ErrInvalidDay = errors.New("invalid day of week")

// Day is a lowercase weekday symbol as stored in schedules.day.
type Day string

const (
	Monday    Day = "monday"
	Tuesday   Day = "tuesday"
	Wednesday Day = "wednesday"
	Thursday  Day = "thursday"
	Friday    Day = "friday"
	Saturday  Day = "saturday"
	Sunday    Day = "sunday"
)

// Days lists the timetable columns in display order.
var Days = [7]Day{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// ParseDay normalises s and checks it is a known weekday.
func ParseDay(s string) (Day, error) {
	d := Day(strings.ToLower(strings.TrimSpace(s)))
	if d.Index() < 0 {
		return "", ErrInvalidDay
	}
	return d, nil
}

// Index returns the column of d, or -1.
func (d Day) Index() int {
	for i, v := range Days {
		if v == d {
			return i
		}
	}
	return -1
}

// Key is the translation key for the day name.
func (d Day) Key() string {
	return "schedule.day_" + string(d)
}
