// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package timetable projects a trainer's flat list of schedule entries into
// a weekly grid: one column per weekday, one row per distinct time label.
//
// Rows are ordered chronologically even though labels are display strings
// such as "09:00 AM". When several entries share a (day, time) cell the
// first one in input order is shown and the rest are reported as hidden.
package timetable

import (
	"slices"
	"strings"
	"time"

	"github.com/gymflex/gymflex-go/internal/model"
)

// Slotted is anything that can be placed on the grid.
type Slotted interface {
	DayKey() string
	TimeLabel() string
}

// Cell is one (time, day) position. Filled is false for an empty slot.
type Cell[E Slotted] struct {
	Entry  E
	Filled bool
}

// Row holds the cells for a single time label, Monday first.
type Row[E Slotted] struct {
	Time  string
	Cells [len(model.Days)]Cell[E]
}

// Grid is the projected timetable.
type Grid[E Slotted] struct {
	Days [len(model.Days)]model.Day
	Rows []Row[E]

	// Hidden lists entries that lost a cell to an earlier entry.
	Hidden []E
	// Unplaced lists entries whose day is not a known weekday.
	Unplaced []E
}

// Empty reports whether the grid has no rows.
func (g Grid[E]) Empty() bool { return len(g.Rows) == 0 }

// Project builds the grid for entries. It never fails; the empty input
// yields zero rows and seven empty columns.
func Project[E Slotted](entries []E) Grid[E] {
	g := Grid[E]{Days: model.Days}

	byDay := make(map[model.Day][]E, len(model.Days))
	var labels []string
	seen := make(map[string]bool)

	for _, e := range entries {
		label := e.TimeLabel()
		if !seen[label] {
			seen[label] = true
			labels = append(labels, label)
		}
		day := model.Day(e.DayKey())
		if day.Index() < 0 {
			g.Unplaced = append(g.Unplaced, e)
			continue
		}
		byDay[day] = append(byDay[day], e)
	}

	labels = SortLabels(labels)
	g.Rows = make([]Row[E], 0, len(labels))
	for _, label := range labels {
		row := Row[E]{Time: label}
		for col, day := range model.Days {
			taken := false
			for _, e := range byDay[day] {
				if e.TimeLabel() != label {
					continue
				}
				if taken {
					g.Hidden = append(g.Hidden, e)
					continue
				}
				row.Cells[col] = Cell[E]{Entry: e, Filled: true}
				taken = true
			}
		}
		g.Rows = append(g.Rows, row)
	}
	return g
}

// referenceDate anchors label parsing; only the clock part matters.
var referenceDate = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

var labelLayouts = []string{"03:04 PM", "3:04 PM", "15:04"}

// ParseLabel reads a label like "09:00 AM" as a time on a fixed date.
func ParseLabel(label string) (time.Time, bool) {
	s := strings.ToUpper(strings.TrimSpace(label))
	for _, layout := range labelLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return referenceDate.Add(time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute), true
		}
	}
	return time.Time{}, false
}

// SortLabels orders labels chronologically. Labels that do not parse keep
// their relative order and go after all parseable ones.
func SortLabels(labels []string) []string {
	type keyed struct {
		label string
		at    time.Time
		ok    bool
	}
	ks := make([]keyed, len(labels))
	for i, l := range labels {
		at, ok := ParseLabel(l)
		ks[i] = keyed{label: l, at: at, ok: ok}
	}
	slices.SortStableFunc(ks, func(a, b keyed) int {
		switch {
		case a.ok && !b.ok:
			return -1
		case !a.ok && b.ok:
			return 1
		case !a.ok && !b.ok:
			return 0
		}
		return a.at.Compare(b.at)
	})

	out := make([]string, len(ks))
	for i, k := range ks {
		out[i] = k.label
	}
	return out
}
