package models

// SensorTable is one parsed sensor CSV before its schema is known.
// Columns keep the source spelling and order; Rows are indexed by column
// position. A table is never mutated after it has been read.
type SensorTable struct {
	Path    string     `json:"path"`
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"-"`
}

// Len returns the number of data rows.
func (t *SensorTable) Len() int { return len(t.Rows) }

// Cell returns the value at (row, col), or "" for cells missing from a
// short row.
func (t *SensorTable) Cell(row, col int) string {
	r := t.Rows[row]
	if col < 0 || col >= len(r) {
		return ""
	}
	return r[col]
}
