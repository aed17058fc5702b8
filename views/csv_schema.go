package views

import (
	"fmt"
	"strings"

	"sensor-combine/models"
)

// Output schema of combined activity files. Column order comes from the
// configured list (models.CanonicalColumns by default) via
// models.ActivityTable.Columns; this file owns the file formats.

// Format identifies an output file format.
type Format int

const (
	FormatCSV Format = iota
	FormatXLSX
)

var formatNames = map[Format]string{
	FormatCSV:  "csv",
	FormatXLSX: "xlsx",
}

func (f Format) String() string {
	if n, ok := formatNames[f]; ok {
		return n
	}
	return "unknown"
}

// Ext returns the file extension including the dot.
func (f Format) Ext() string { return "." + f.String() }

// ParseFormat accepts "csv" or "xlsx", case-insensitively.
func ParseFormat(s string) (Format, error) {
	for f, n := range formatNames {
		if strings.EqualFold(s, n) {
			return f, nil
		}
	}
	return 0, fmt.Errorf("unknown output format %q", s)
}

// WriteActivity writes t to path in format f and returns the number of
// data rows written.
func WriteActivity(path string, f Format, t *models.ActivityTable, order []string) (int, error) {
	switch f {
	case FormatCSV:
		return WriteActivityCSV(path, t, order)
	case FormatXLSX:
		return WriteActivityXLSX(path, t, order)
	}
	return 0, fmt.Errorf("unknown output format %v", f)
}
