// Package detect finds the timestamp column and the x/y/z axis columns of
// a sensor table from its column names alone.
package detect

import (
	"slices"
	"strings"

	"sensor-combine/models"
	"sensor-combine/utils"
)

// Pattern is one named column-name check. Match receives the column name
// as read from the source.
type Pattern struct {
	Name  string
	Match func(col string) bool
}

// Contains builds a case-insensitive substring pattern.
func Contains(sub string) Pattern {
	lower := strings.ToLower(sub)
	return Pattern{
		Name: sub,
		Match: func(col string) bool {
			return strings.Contains(strings.ToLower(col), lower)
		},
	}
}

// DefaultTimestampPatterns is the timestamp priority list: time, timestamp,
// ts, seconds, sec, elapsed. "time" precedes "timestamp", so a "datetime"
// column beats a "timestamp" column.
func DefaultTimestampPatterns() []Pattern {
	return patterns(utils.DefaultConfig().Detect.TimestampPatterns)
}

// DefaultExcludePatterns marks columns the axis token pass never considers.
func DefaultExcludePatterns() []Pattern {
	return patterns(utils.DefaultConfig().Detect.ExcludePatterns)
}

func patterns(subs []string) []Pattern {
	out := make([]Pattern, len(subs))
	for i, s := range subs {
		out[i] = Contains(s)
	}
	return out
}

// Detector applies ordered pattern lists to column names.
type Detector struct {
	timestamp []Pattern
	exclude   []Pattern
}

// New returns a detector with explicit pattern lists.
func New(timestamp, exclude []Pattern) *Detector {
	return &Detector{timestamp: timestamp, exclude: exclude}
}

// NewFromConfig builds a detector from configured substrings.
func NewFromConfig(cfg utils.DetectConfig) *Detector {
	return New(patterns(cfg.TimestampPatterns), patterns(cfg.ExcludePatterns))
}

// Timestamp returns the index and name of the timestamp column. Patterns
// are tried in order; the first pattern matching any column decides, and
// among its matches the earliest column wins. With no match at all the
// first column is used. idx is -1 only for a table without columns.
func (d *Detector) Timestamp(columns []string) (idx int, name string) {
	if len(columns) == 0 {
		return -1, ""
	}
	for _, p := range d.timestamp {
		for i, c := range columns {
			if p.Match(c) {
				return i, c
			}
		}
	}
	return 0, columns[0]
}

// Axes maps x, y and z to columns in three passes, each filling only axes
// still unassigned and scanning columns in declared order:
//
//  1. a token of the lowercased name (split on non-alphanumerics) equals
//     the axis letter; timestamp-like columns are skipped here
//  2. the lowercased name ends with the axis letter
//  3. the trimmed lowercased name is exactly the axis letter
//
// A mapping with fewer than three axes is a *models.SchemaError.
func (d *Detector) Axes(columns []string) (models.AxisMapping, error) {
	mapping := models.AxisMapping{}

	for _, col := range columns {
		if d.excluded(col) {
			continue
		}
		tokens := tokenize(strings.ToLower(col))
		for _, axis := range models.Axes() {
			if _, done := mapping[axis]; done {
				continue
			}
			if slices.Contains(tokens, string(axis)) {
				mapping[axis] = col
			}
		}
	}

	for _, axis := range models.Axes() {
		if _, done := mapping[axis]; done {
			continue
		}
		for _, col := range columns {
			if strings.HasSuffix(strings.ToLower(col), string(axis)) {
				mapping[axis] = col
				break
			}
		}
	}

	for _, axis := range models.Axes() {
		if _, done := mapping[axis]; done {
			continue
		}
		for _, col := range columns {
			if strings.ToLower(strings.TrimSpace(col)) == string(axis) {
				mapping[axis] = col
				break
			}
		}
	}

	if !mapping.Complete() {
		return nil, &models.SchemaError{
			Columns: append([]string(nil), columns...),
			Found:   mapping,
			Reason:  "couldn't detect all axes",
		}
	}
	return mapping, nil
}

func (d *Detector) excluded(col string) bool {
	for _, p := range d.exclude {
		if p.Match(col) {
			return true
		}
	}
	return false
}

// tokenize splits s on every run of characters outside [a-z0-9].
func tokenize(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	})
}
