package models

// MergedSession is the timestamp inner join of one session's accelerometer
// and gyroscope tables. Every row's timestamp occurs in both inputs; rows
// are in ascending timestamp order.
type MergedSession struct {
	Name string `json:"name"` // session directory basename

	// Detected source columns, kept for diagnostics.
	AccelTimestamp string      `json:"accel_timestamp"`
	GyroTimestamp  string      `json:"gyro_timestamp"`
	JoinColumn     string      `json:"join_column"`
	AccelAxes      AxisMapping `json:"accel_axes"`
	GyroAxes       AxisMapping `json:"gyro_axes"`

	Rows []MergedRow `json:"rows"`
}

// Empty reports whether the join produced no rows.
func (s *MergedSession) Empty() bool { return len(s.Rows) == 0 }

// ActivityTable is every merged session of one activity, concatenated in
// discovery order and, when Sorted, ordered by timestamp.
type ActivityTable struct {
	Activity    string      `json:"activity"`
	Sessions    []string    `json:"sessions"`
	WithSession bool        `json:"with_session"`
	Sorted      bool        `json:"sorted"`
	Rows        []MergedRow `json:"rows"`
}

// Columns returns the output header for the given column order: the
// columns rows actually carry, with "session" first when requested.
func (t *ActivityTable) Columns(order []string) []string {
	var cols []string
	if t.WithSession {
		cols = append(cols, ColSession)
	}
	for _, c := range PresentColumns(order, &MergedRow{}) {
		if c == ColSession {
			continue
		}
		cols = append(cols, c)
	}
	return cols
}
