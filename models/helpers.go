package models

// ─── shared row helpers ─────────────────────────────────────────────────

// FieldRow is the interface every exportable row must satisfy.
type FieldRow interface {
	Field(col string) (string, bool)
}

// PresentColumns keeps the columns of want that r carries, in want's order.
func PresentColumns(want []string, r FieldRow) []string {
	out := make([]string, 0, len(want))
	for _, c := range want {
		if _, ok := r.Field(c); ok {
			out = append(out, c)
		}
	}
	return out
}

// Project returns r's values for cols, in order. Unknown columns yield "".
func Project(cols []string, r FieldRow) []string {
	row := make([]string, len(cols))
	for i, c := range cols {
		row[i], _ = r.Field(c)
	}
	return row
}
