// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package export writes a trainer's weekly timetable as an Excel workbook.
package export

import (
	"bytes"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/gymflex/gymflex-go/internal/store"
	"github.com/gymflex/gymflex-go/internal/timetable"
)

// ContentType is the MIME type of the workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Labels are the translated strings used in the sheet.
type Labels struct {
	Title      string   // e.g. "Weekly schedule for Kim"
	TimeHeader string   // "Time"
	Days       []string // seven day names, Monday first
}

// Timetable writes grid to w as a single-sheet workbook. Each filled cell
// shows the class name and, on a second line, its duration.
func Timetable(w io.Writer, grid timetable.Grid[store.Schedule], labels Labels) error {
	if len(labels.Days) != len(grid.Days) {
		return fmt.Errorf("export: need %d day labels, got %d", len(grid.Days), len(labels.Days))
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	const sheet = "Schedule"
	idx, err := f.NewSheet(sheet)
	if err != nil {
		return fmt.Errorf("export: creating sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("export: removing default sheet: %w", err)
	}

	lastCol := colName(len(grid.Days) + 1)
	_ = f.SetColWidth(sheet, "A", "A", 12)
	_ = f.SetColWidth(sheet, "B", lastCol, 20)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#E4572E"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("export: header style: %w", err)
	}
	cellStyle, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
	})
	if err != nil {
		return fmt.Errorf("export: cell style: %w", err)
	}

	_ = f.SetCellValue(sheet, "A1", labels.Title)
	_ = f.MergeCell(sheet, "A1", lastCol+"1")
	_ = f.SetCellStyle(sheet, "A1", "A1", headerStyle)

	_ = f.SetCellValue(sheet, "A2", labels.TimeHeader)
	for i, day := range labels.Days {
		_ = f.SetCellValue(sheet, cell(colName(i+2), 2), day)
	}
	_ = f.SetCellStyle(sheet, "A2", cell(lastCol, 2), headerStyle)

	for r, row := range grid.Rows {
		n := r + 3
		_ = f.SetCellValue(sheet, cell("A", n), row.Time)
		for c, slot := range row.Cells {
			text := "-"
			if slot.Filled {
				text = slot.Entry.Class
				if slot.Entry.Duration != "" {
					text += "\n" + slot.Entry.Duration
				}
			}
			_ = f.SetCellValue(sheet, cell(colName(c+2), n), text)
		}
	}
	if len(grid.Rows) > 0 {
		_ = f.SetCellStyle(sheet, "A3", cell(lastCol, len(grid.Rows)+2), cellStyle)
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return fmt.Errorf("export: writing workbook: %w", err)
	}
	_, err = buf.WriteTo(w)
	return err
}

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
