package ingest

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"sensor-combine/models"
	"sensor-combine/utils"
)

// Keywords decide which files of a session are sensor tables.
type Keywords struct {
	Accel []string
	Gyro  []string
	Ext   string
}

// KeywordsFromConfig copies the discovery settings.
func KeywordsFromConfig(cfg utils.DiscoverConfig) Keywords {
	return Keywords{Accel: cfg.AccelKeywords, Gyro: cfg.GyroKeywords, Ext: cfg.TableExt}
}

// SensorFiles are the accelerometer and gyroscope tables of one session.
// Accel and Gyro are the chosen paths ("" when absent); the Matches slices
// list every candidate in name order.
type SensorFiles struct {
	Accel        string
	Gyro         string
	AccelMatches []string
	GyroMatches  []string
}

// Complete reports whether both tables were found.
func (s SensorFiles) Complete() bool { return s.Accel != "" && s.Gyro != "" }

// FindActivities returns the directories directly under root, sorted.
func FindActivities(root string) ([]string, error) {
	return subdirs(root)
}

// FindSessions lists the session directories of an activity. Without
// recursion these are the directories directly under
// <activity>/<extracted>, and none when that folder is missing. With
// recursion every directory below <activity>/<extracted> (or below the
// activity itself when there is no extracted folder), the start included,
// that holds an accelerometer or gyroscope table is a session.
func FindSessions(activityDir, extracted string, recursive bool, kw Keywords) ([]string, error) {
	base := filepath.Join(activityDir, extracted)
	if !recursive {
		if !isDir(base) {
			return nil, nil
		}
		return subdirs(base)
	}

	if !isDir(base) {
		base = activityDir
	}
	var sessions []string
	err := filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return skipUnreadable(base, path, d, err)
		}
		if !d.IsDir() {
			return nil
		}
		files, err := FindSensorFiles(path, kw)
		if err != nil {
			return skipUnreadable(base, path, d, err)
		}
		if files.Accel != "" || files.Gyro != "" {
			sessions = append(sessions, path)
		}
		return nil
	})
	if err != nil {
		return nil, &models.IOError{Op: "walk", Path: base, Err: err}
	}
	return sessions, nil
}

// skipUnreadable lets a walk continue past a folder below base that
// cannot be read. Failures on base itself end the walk.
func skipUnreadable(base, path string, d fs.DirEntry, err error) error {
	if path == base {
		return err
	}
	utils.L().Warn("Skipping unreadable folder %s: %v", path, err)
	if d != nil && d.IsDir() {
		return fs.SkipDir
	}
	return nil
}

// FindSensorFiles looks for tables whose lowercased name ends in kw.Ext and
// contains one of the keywords. When several files match, the last in name
// order is chosen.
func FindSensorFiles(sessionDir string, kw Keywords) (SensorFiles, error) {
	var out SensorFiles
	entries, err := os.ReadDir(sessionDir)
	if err != nil {
		return out, &models.IOError{Op: "list", Path: sessionDir, Err: err}
	}
	ext := strings.ToLower(kw.Ext)
	for _, e := range entries {
		full := filepath.Join(sessionDir, e.Name())
		if !isFile(full) {
			continue
		}
		low := strings.ToLower(e.Name())
		if !strings.HasSuffix(low, ext) {
			continue
		}
		if containsAny(low, kw.Accel) {
			out.Accel = full
			out.AccelMatches = append(out.AccelMatches, full)
		}
		if containsAny(low, kw.Gyro) {
			out.Gyro = full
			out.GyroMatches = append(out.GyroMatches, full)
		}
	}
	return out, nil
}

func subdirs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &models.IOError{Op: "list", Path: dir, Err: err}
	}
	var out []string
	for _, e := range entries {
		full := filepath.Join(dir, e.Name())
		if isDir(full) {
			out = append(out, full)
		}
	}
	return out, nil
}

func containsAny(s string, subs []string) bool {
	for _, k := range subs {
		if strings.Contains(s, strings.ToLower(k)) {
			return true
		}
	}
	return false
}

func isDir(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.IsDir()
}

func isFile(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.Mode().IsRegular()
}
