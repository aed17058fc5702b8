package aggregate

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"sensor-combine/models"
)

// Summary describes the timing of an activity's merged rows. Interval
// statistics are computed within each session, since sessions overlap in
// time once concatenated.
type Summary struct {
	Rows         int
	Sessions     int
	First        float64 // smallest numeric timestamp
	Last         float64 // largest numeric timestamp
	MeanInterval float64
	StdInterval  float64
	Numeric      bool // false when no row had a numeric timestamp
}

// Summarize computes a Summary over non-empty sessions.
func Summarize(sessions []*models.MergedSession) Summary {
	var (
		sum    Summary
		values []float64
		deltas []float64
	)
	for _, s := range sessions {
		if s.Empty() {
			continue
		}
		sum.Sessions++
		sum.Rows += len(s.Rows)

		prev, havePrev := 0.0, false
		for _, r := range s.Rows {
			if !r.Timestamp.Numeric() {
				havePrev = false
				continue
			}
			v := r.Timestamp.Value()
			values = append(values, v)
			if havePrev {
				deltas = append(deltas, v-prev)
			}
			prev, havePrev = v, true
		}
	}

	if len(values) > 0 {
		sum.Numeric = true
		sum.First = floats.Min(values)
		sum.Last = floats.Max(values)
	}
	switch {
	case len(deltas) == 1:
		sum.MeanInterval = deltas[0]
	case len(deltas) > 1:
		sum.MeanInterval, sum.StdInterval = stat.MeanStdDev(deltas, nil)
	}
	return sum
}
