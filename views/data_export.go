package views

import (
	"bufio"
	"encoding/csv"
	"os"

	"sensor-combine/models"
)

const csvBufferSize = 256 * 1024

// CSVWriter streams merged rows to a CSV file under a fixed header.
// Write errors from csv.Writer are sticky and reported by Close.
type CSVWriter struct {
	path    string
	file    *os.File
	buf     *bufio.Writer
	csv     *csv.Writer
	columns []string
	rows    int
}

// NewCSVWriter creates (or truncates) path and writes columns as the
// header row. bufSize <= 0 picks a 256 KB buffer.
func NewCSVWriter(path string, bufSize int, columns []string) (*CSVWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, &models.IOError{Op: "create", Path: path, Err: err}
	}
	if bufSize <= 0 {
		bufSize = csvBufferSize
	}
	bw := bufio.NewWriterSize(f, bufSize)
	w := &CSVWriter{
		path:    path,
		file:    f,
		buf:     bw,
		csv:     csv.NewWriter(bw),
		columns: columns,
	}
	if err := w.csv.Write(columns); err != nil {
		f.Close()
		return nil, &models.IOError{Op: "write", Path: path, Err: err}
	}
	return w, nil
}

// Write appends r projected onto the writer's columns.
func (w *CSVWriter) Write(r *models.MergedRow) error {
	if err := w.csv.Write(models.Project(w.columns, r)); err != nil {
		return &models.IOError{Op: "write", Path: w.path, Err: err}
	}
	w.rows++
	return nil
}

// Rows is the number of data rows written so far.
func (w *CSVWriter) Rows() int { return w.rows }

// Close flushes everything to disk and closes the file.
func (w *CSVWriter) Close() error {
	w.csv.Flush()
	err := w.csv.Error()
	if err == nil {
		err = w.buf.Flush()
	}
	if cerr := w.file.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return &models.IOError{Op: "write", Path: w.path, Err: err}
	}
	return nil
}

// WriteActivityCSV writes t as UTF-8 CSV with a header row.
func WriteActivityCSV(path string, t *models.ActivityTable, order []string) (int, error) {
	w, err := NewCSVWriter(path, 0, t.Columns(order))
	if err != nil {
		return 0, err
	}
	return writeRows(w, t.Rows)
}

// writeRows writes rows and closes w. On failure the partial file is
// removed.
func writeRows(w *CSVWriter, rows []models.MergedRow) (int, error) {
	for i := range rows {
		if err := w.Write(&rows[i]); err != nil {
			w.Close()
			os.Remove(w.path)
			return 0, err
		}
	}
	if err := w.Close(); err != nil {
		os.Remove(w.path)
		return 0, err
	}
	return w.Rows(), nil
}
