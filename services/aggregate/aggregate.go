// Package aggregate combines the merged sessions of one activity into a
// single table.
package aggregate

import (
	"path/filepath"

	"sensor-combine/models"
	"sensor-combine/utils"
)

// Concat appends the rows of every non-empty session in the given order,
// optionally tagging each row with its session name, then stable-sorts by
// timestamp. When timestamps are not mutually orderable the concatenation
// order is kept and Sorted is false.
func Concat(activity string, sessions []*models.MergedSession, addSession bool) *models.ActivityTable {
	t := &models.ActivityTable{Activity: activity, WithSession: addSession}
	n := 0
	for _, s := range sessions {
		n += len(s.Rows)
	}
	t.Rows = make([]models.MergedRow, 0, n)

	for _, s := range sessions {
		if s.Empty() {
			continue
		}
		t.Sessions = append(t.Sessions, s.Name)
		for _, r := range s.Rows {
			if addSession {
				r.Session = s.Name
			}
			t.Rows = append(t.Rows, r)
		}
	}
	t.Sorted = models.SortByTimestamp(t.Rows)
	return t
}

// OutputPath names an activity's output file inside outDir, avoiding
// existing files unless overwrite is set.
func OutputPath(outDir, prefix, activity, suffix, ext string, overwrite bool) string {
	name := utils.OutputName(prefix, activity, suffix, ext)
	return utils.UniquePath(filepath.Join(outDir, name), overwrite)
}
