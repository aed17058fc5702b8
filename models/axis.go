package models

import "strings"

// Axis names one measurement axis.
type Axis string

const (
	AxisX Axis = "x"
	AxisY Axis = "y"
	AxisZ Axis = "z"
)

// Axes returns the three axes in detection order.
func Axes() []Axis { return []Axis{AxisX, AxisY, AxisZ} }

// AxisMapping associates each axis with the source column carrying it.
// A usable mapping has exactly one entry per axis.
type AxisMapping map[Axis]string

// Complete reports whether every axis has a column.
func (m AxisMapping) Complete() bool {
	for _, a := range Axes() {
		if _, ok := m[a]; !ok {
			return false
		}
	}
	return true
}

// String renders the mapping in x, y, z order, e.g. {x:ax, y:ay}.
func (m AxisMapping) String() string {
	parts := make([]string, 0, len(m))
	for _, a := range Axes() {
		if col, ok := m[a]; ok {
			parts = append(parts, string(a)+":"+col)
		}
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
