// Package merge aligns one session's accelerometer and gyroscope tables
// on their timestamp column.
package merge

import (
	"errors"
	"fmt"
	"slices"

	"sensor-combine/models"
	"sensor-combine/services/detect"
)

// Options tunes the merge.
type Options struct {
	// KeepTextTimestamps keeps non-numeric timestamps as text keys instead
	// of nulling them out of the join.
	KeepTextTimestamps bool
}

// Merger joins accelerometer and gyroscope tables. It holds no per-session
// state and is safe for concurrent use.
type Merger struct {
	det  *detect.Detector
	opts Options
}

func New(det *detect.Detector, opts Options) *Merger {
	return &Merger{det: det, opts: opts}
}

// sideColumns are the resolved column positions of one input table.
type sideColumns struct {
	ts   int
	axes models.AxisMapping
	x    int
	y    int
	z    int
}

// Merge inner-joins accel and gyro on timestamp and returns rows in
// ascending timestamp order. Duplicate timestamps yield every accel×gyro
// pairing for that value. No overlap is an empty session, not an error;
// undetectable columns are a *models.SchemaError.
func (m *Merger) Merge(accel, gyro *models.SensorTable) (*models.MergedSession, error) {
	aTs, aName := m.det.Timestamp(accel.Columns)
	gTs, gName := m.det.Timestamp(gyro.Columns)
	if aTs < 0 {
		return nil, noColumns("accelerometer", accel)
	}
	if gTs < 0 {
		return nil, noColumns("gyroscope", gyro)
	}

	join := aName
	if aName != gName {
		join = models.ColTimestamp
	}

	a, err := m.resolve(accel, aTs, join)
	if err != nil {
		return nil, fmt.Errorf("accelerometer: %w", err)
	}
	g, err := m.resolve(gyro, gTs, join)
	if err != nil {
		return nil, fmt.Errorf("gyroscope: %w", err)
	}

	index := make(map[models.TimestampKey][]int, gyro.Len())
	for i := range gyro.Rows {
		ts := models.ParseTimestamp(gyro.Cell(i, g.ts), m.opts.KeepTextTimestamps)
		if key, ok := ts.Key(); ok {
			index[key] = append(index[key], i)
		}
	}

	var rows []models.MergedRow
	for i := range accel.Rows {
		ts := models.ParseTimestamp(accel.Cell(i, a.ts), m.opts.KeepTextTimestamps)
		key, ok := ts.Key()
		if !ok {
			continue
		}
		for _, j := range index[key] {
			rows = append(rows, models.MergedRow{
				Timestamp: ts,
				AccelX:    accel.Cell(i, a.x),
				AccelY:    accel.Cell(i, a.y),
				AccelZ:    accel.Cell(i, a.z),
				GyroX:     gyro.Cell(j, g.x),
				GyroY:     gyro.Cell(j, g.y),
				GyroZ:     gyro.Cell(j, g.z),
			})
		}
	}
	models.SortByTimestamp(rows)

	return &models.MergedSession{
		AccelTimestamp: aName,
		GyroTimestamp:  gName,
		JoinColumn:     join,
		AccelAxes:      a.axes,
		GyroAxes:       g.axes,
		Rows:           rows,
	}, nil
}

// resolve relabels the timestamp column to join, then detects the axes on
// the relabelled header.
func (m *Merger) resolve(t *models.SensorTable, tsIdx int, join string) (sideColumns, error) {
	cols := append([]string(nil), t.Columns...)
	cols[tsIdx] = join

	axes, err := m.det.Axes(cols)
	if err != nil {
		var se *models.SchemaError
		if errors.As(err, &se) {
			se.Path = t.Path
		}
		return sideColumns{}, err
	}
	return sideColumns{
		ts:   tsIdx,
		axes: axes,
		x:    slices.Index(cols, axes[models.AxisX]),
		y:    slices.Index(cols, axes[models.AxisY]),
		z:    slices.Index(cols, axes[models.AxisZ]),
	}, nil
}

func noColumns(side string, t *models.SensorTable) error {
	return fmt.Errorf("%s: %w", side, &models.SchemaError{
		Path:    t.Path,
		Columns: t.Columns,
		Reason:  "no timestamp column",
	})
}
