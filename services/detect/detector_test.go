package detect

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sensor-combine/models"
	"sensor-combine/utils"
)

func defaultDetector() *Detector {
	return New(DefaultTimestampPatterns(), DefaultExcludePatterns())
}

func TestTimestamp(t *testing.T) {
	tests := []struct {
		name    string
		columns []string
		wantIdx int
		want    string
	}{
		{"literal timestamp", []string{"x", "y", "timestamp", "z"}, 2, "timestamp"},
		{"sensor logger export", []string{"time", "seconds_elapsed", "z", "y", "x"}, 0, "time"},
		{"case insensitive", []string{"AccX", "TIME (ns)"}, 1, "TIME (ns)"},
		{"time beats timestamp by pattern order", []string{"timestamp", "datetime"}, 0, "timestamp"},
		{"datetime wins over later timestamp", []string{"ax", "datetime", "timestamp"}, 1, "datetime"},
		{"ts before seconds", []string{"seconds", "ts_ms"}, 1, "ts_ms"},
		{"seconds", []string{"a", "seconds_elapsed"}, 1, "seconds_elapsed"},
		{"elapsed", []string{"x", "elapsed"}, 1, "elapsed"},
		{"fallback to first column", []string{"t", "x", "y", "z"}, 0, "t"},
	}
	d := defaultDetector()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx, name := d.Timestamp(tt.columns)
			assert.Equal(t, tt.wantIdx, idx)
			assert.Equal(t, tt.want, name)
		})
	}
}

func TestTimestampNoColumns(t *testing.T) {
	idx, name := defaultDetector().Timestamp(nil)
	assert.Equal(t, -1, idx)
	assert.Empty(t, name)
}

func TestAxes(t *testing.T) {
	tests := []struct {
		name    string
		columns []string
		want    models.AxisMapping
	}{
		{
			name:    "bare letters",
			columns: []string{"time", "seconds_elapsed", "z", "y", "x"},
			want:    models.AxisMapping{"x": "x", "y": "y", "z": "z"},
		},
		{
			name:    "short suffixed names",
			columns: []string{"timestamp", "ax", "ay", "az"},
			want:    models.AxisMapping{"x": "ax", "y": "ay", "z": "az"},
		},
		{
			name:    "tokens split on punctuation",
			columns: []string{"Timestamp", "Accel-X (g)", "Accel-Y (g)", "Accel-Z (g)"},
			want:    models.AxisMapping{"x": "Accel-X (g)", "y": "Accel-Y (g)", "z": "Accel-Z (g)"},
		},
		{
			name:    "first token match wins",
			columns: []string{"t", "x_raw", "x_filtered", "y", "z"},
			want:    models.AxisMapping{"x": "x_raw", "y": "y", "z": "z"},
		},
		{
			name:    "timestamp-like columns skipped by token pass",
			columns: []string{"time_x", "time_y", "time_z", "x", "y", "z"},
			want:    models.AxisMapping{"x": "x", "y": "y", "z": "z"},
		},
		{
			name:    "token pass before suffix pass",
			columns: []string{"ts", "max", "x", "y", "z"},
			want:    models.AxisMapping{"x": "x", "y": "y", "z": "z"},
		},
		{
			name:    "suffix pass scans timestamp-like columns too",
			columns: []string{"time", "sec_x", "y", "z"},
			want:    models.AxisMapping{"x": "sec_x", "y": "y", "z": "z"},
		},
		{
			name:    "one column may fill two axes",
			columns: []string{"t", "x/y", "vz"},
			want:    models.AxisMapping{"x": "x/y", "y": "x/y", "z": "vz"},
		},
	}
	d := defaultDetector()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := d.Axes(tt.columns)
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Axes() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestAxesMissingAxis(t *testing.T) {
	_, err := defaultDetector().Axes([]string{"timestamp", "ax", "ay"})
	require.Error(t, err)

	var se *models.SchemaError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, []string{"timestamp", "ax", "ay"}, se.Columns)
	assert.Equal(t, models.AxisMapping{"x": "ax", "y": "ay"}, se.Found)
	assert.Contains(t, err.Error(), "{x:ax, y:ay}")
}

func TestCustomPatterns(t *testing.T) {
	d := New([]Pattern{Contains("epoch")}, nil)
	idx, name := d.Timestamp([]string{"time", "Epoch_ms", "x"})
	assert.Equal(t, 1, idx)
	assert.Equal(t, "Epoch_ms", name)

	// With no exclusions the token pass sees every column.
	axes, err := d.Axes([]string{"time_x", "time_y", "time_z"})
	require.NoError(t, err)
	assert.Equal(t, "time_x", axes[models.AxisX])
}

func TestNewFromConfig(t *testing.T) {
	cfg := utils.DefaultConfig().Detect
	cfg.TimestampPatterns = []string{"sec"}
	idx, _ := NewFromConfig(cfg).Timestamp([]string{"time", "seconds"})
	assert.Equal(t, 1, idx)
}
