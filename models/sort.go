package models

import "slices"

// Orderable reports whether every row's timestamp can be compared with
// every other: all numeric, or all text.
func Orderable(rows []MergedRow) bool {
	var numeric, text bool
	for i := range rows {
		switch rows[i].Timestamp.Kind {
		case TimestampInt, TimestampFloat:
			numeric = true
		case TimestampText:
			text = true
		default:
			return false
		}
	}
	return !(numeric && text)
}

// SortByTimestamp stable-sorts rows ascending by timestamp. It leaves rows
// untouched and returns false when they are not Orderable.
func SortByTimestamp(rows []MergedRow) bool {
	if !Orderable(rows) {
		return false
	}
	slices.SortStableFunc(rows, func(a, b MergedRow) int {
		c, _ := CompareTimestamps(a.Timestamp, b.Timestamp)
		return c
	})
	return true
}
