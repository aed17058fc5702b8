package views

import (
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"sensor-combine/models"
)

const (
	defaultSheet  = "Sheet1"
	maxSheetName  = 31
	maxExactFloat = 1 << 53
)

// WriteActivityXLSX writes t to a workbook with one sheet named after the
// activity. Numeric cells are stored as numbers; timestamps too large for
// a float64 to hold exactly stay text.
func WriteActivityXLSX(path string, t *models.ActivityTable, order []string) (int, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := sheetName(t.Activity)
	if strings.EqualFold(sheet, defaultSheet) {
		sheet = defaultSheet
	} else {
		if _, err := f.NewSheet(sheet); err != nil {
			return 0, err
		}
		if err := f.DeleteSheet(defaultSheet); err != nil {
			return 0, err
		}
	}

	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return 0, err
	}

	cols := t.Columns(order)
	header := make([]interface{}, len(cols))
	for i, c := range cols {
		header[i] = c
	}
	if err := sw.SetRow("A1", header); err != nil {
		return 0, err
	}

	for i := range t.Rows {
		r := &t.Rows[i]
		values := make([]interface{}, len(cols))
		for j, c := range cols {
			values[j] = cellValue(c, r)
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return 0, err
		}
		if err := sw.SetRow(cell, values); err != nil {
			return 0, err
		}
	}
	if err := sw.Flush(); err != nil {
		return 0, err
	}
	if err := f.SaveAs(path); err != nil {
		os.Remove(path)
		return 0, &models.IOError{Op: "write", Path: path, Err: err}
	}
	return len(t.Rows), nil
}

func cellValue(col string, r *models.MergedRow) interface{} {
	if col == models.ColTimestamp {
		ts := r.Timestamp
		switch {
		case ts.Kind == models.TimestampInt && ts.Int > -maxExactFloat && ts.Int < maxExactFloat:
			return ts.Int
		case ts.Kind == models.TimestampFloat && !math.IsInf(ts.Float, 0):
			return ts.Float
		}
		return ts.Raw
	}
	v, _ := r.Field(col)
	if col == models.ColSession {
		return v
	}
	if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return f
	}
	return v
}

// sheetName fits an activity name to Excel's sheet-name rules.
func sheetName(activity string) string {
	name := strings.Map(func(r rune) rune {
		if strings.ContainsRune(`[]:*?/\`, r) {
			return '_'
		}
		return r
	}, activity)
	if runes := []rune(name); len(runes) > maxSheetName {
		name = string(runes[:maxSheetName])
	}
	if strings.TrimSpace(name) == "" {
		return defaultSheet
	}
	return name
}
