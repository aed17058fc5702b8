package models

import (
	"math"
	"strconv"
	"strings"
)

// TimestampKind tells how a timestamp cell was coerced.
type TimestampKind uint8

const (
	TimestampNull TimestampKind = iota // empty or not numeric; never joins
	TimestampInt
	TimestampFloat
	TimestampText // non-numeric text kept verbatim
)

// Timestamp is a coerced timestamp cell. Raw keeps the trimmed source
// text so output never loses digits to float formatting.
type Timestamp struct {
	Kind  TimestampKind `json:"kind"`
	Int   int64         `json:"int,omitempty"`
	Float float64       `json:"float,omitempty"`
	Raw   string        `json:"raw"`
}

// ParseTimestamp coerces raw to a number: an exact int64 first, then a
// float64. Integral floats collapse to the int form so "2" and "2.0" join.
// Anything else is null unless keepText is set, in which case the text is
// kept and joins only with identical text.
func ParseTimestamp(raw string, keepText bool) Timestamp {
	s := strings.TrimSpace(raw)
	ts := Timestamp{Raw: s}
	if s == "" {
		return ts
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		ts.Kind, ts.Int = TimestampInt, i
		return ts
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		switch {
		case math.IsNaN(f):
			return ts
		case f == math.Trunc(f) && math.Abs(f) < math.MaxInt64:
			ts.Kind, ts.Int = TimestampInt, int64(f)
		default:
			ts.Kind, ts.Float = TimestampFloat, f
		}
		return ts
	}
	if keepText {
		ts.Kind = TimestampText
	}
	return ts
}

// Null reports whether the timestamp can take part in a join.
func (t Timestamp) Null() bool { return t.Kind == TimestampNull }

// Numeric reports whether the timestamp was coerced to a number.
func (t Timestamp) Numeric() bool {
	return t.Kind == TimestampInt || t.Kind == TimestampFloat
}

// Value returns the numeric value as a float64.
func (t Timestamp) Value() float64 {
	if t.Kind == TimestampInt {
		return float64(t.Int)
	}
	return t.Float
}

func (t Timestamp) String() string { return t.Raw }

// TimestampKey is the comparable join key of a non-null timestamp.
type TimestampKey struct {
	kind TimestampKind
	i    int64
	f    float64
	s    string
}

// Key returns the join key; ok is false for null timestamps.
func (t Timestamp) Key() (key TimestampKey, ok bool) {
	switch t.Kind {
	case TimestampInt:
		return TimestampKey{kind: t.Kind, i: t.Int}, true
	case TimestampFloat:
		return TimestampKey{kind: t.Kind, f: t.Float}, true
	case TimestampText:
		return TimestampKey{kind: t.Kind, s: t.Raw}, true
	}
	return TimestampKey{}, false
}

// CompareTimestamps orders a and b. ok is false when the pair has no
// order: either side null, or a number against text.
func CompareTimestamps(a, b Timestamp) (cmp int, ok bool) {
	switch {
	case a.Null() || b.Null():
		return 0, false
	case a.Kind == TimestampText && b.Kind == TimestampText:
		return strings.Compare(a.Raw, b.Raw), true
	case a.Kind == TimestampText || b.Kind == TimestampText:
		return 0, false
	case a.Kind == TimestampInt && b.Kind == TimestampInt:
		switch {
		case a.Int < b.Int:
			return -1, true
		case a.Int > b.Int:
			return 1, true
		}
		return 0, true
	}
	av, bv := a.Value(), b.Value()
	switch {
	case av < bv:
		return -1, true
	case av > bv:
		return 1, true
	}
	return 0, true
}
