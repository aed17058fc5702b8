package models

// Canonical column names of merged output.
const (
	ColSession   = "session"
	ColTimestamp = "timestamp"
	ColAccelX    = "accel_x"
	ColAccelY    = "accel_y"
	ColAccelZ    = "accel_z"
	ColGyroX     = "gyro_x"
	ColGyroY     = "gyro_y"
	ColGyroZ     = "gyro_z"
)

// CanonicalColumns returns a fresh copy of the default output column order.
func CanonicalColumns() []string {
	return []string{
		ColTimestamp,
		ColAccelX, ColAccelY, ColAccelZ,
		ColGyroX, ColGyroY, ColGyroZ,
	}
}

// MergedRow is one timestamp-aligned accelerometer + gyroscope reading.
// Axis values keep the source text.
type MergedRow struct {
	Session   string    `json:"session,omitempty"`
	Timestamp Timestamp `json:"timestamp"`
	AccelX    string    `json:"accel_x"` // m/s²
	AccelY    string    `json:"accel_y"`
	AccelZ    string    `json:"accel_z"`
	GyroX     string    `json:"gyro_x"` // rad/s
	GyroY     string    `json:"gyro_y"`
	GyroZ     string    `json:"gyro_z"`
}

// Field returns the value of a canonical column; ok is false for names the
// row does not carry.
func (r *MergedRow) Field(col string) (string, bool) {
	switch col {
	case ColSession:
		return r.Session, true
	case ColTimestamp:
		return r.Timestamp.Raw, true
	case ColAccelX:
		return r.AccelX, true
	case ColAccelY:
		return r.AccelY, true
	case ColAccelZ:
		return r.AccelZ, true
	case ColGyroX:
		return r.GyroX, true
	case ColGyroY:
		return r.GyroY, true
	case ColGyroZ:
		return r.GyroZ, true
	}
	return "", false
}
