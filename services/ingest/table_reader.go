// Package ingest reads session sensor tables from disk and discovers the
// activity/session directory layout.
package ingest

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"sensor-combine/models"
)

const utf8BOM = "\ufeff"

// ReadTable parses one sensor CSV. The first record is the header; short
// rows are tolerated and read as empty cells.
func ReadTable(path string) (*models.SensorTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &models.IOError{Op: "open", Path: path, Err: err}
	}
	defer f.Close()

	t, err := ParseTable(bufio.NewReader(f))
	if err != nil {
		var se *models.SchemaError
		if errors.As(err, &se) {
			se.Path = path
			return nil, se
		}
		return nil, &models.IOError{Op: "read", Path: path, Err: err}
	}
	t.Path = path
	return t, nil
}

// ParseTable reads a header plus data rows from r.
func ParseTable(r io.Reader) (*models.SensorTable, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, &models.SchemaError{Reason: "no columns to parse"}
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	header[0] = strings.TrimPrefix(header[0], utf8BOM)

	t := &models.SensorTable{Columns: header}
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", len(t.Rows)+1, err)
		}
		t.Rows = append(t.Rows, rec)
	}
	return t, nil
}
