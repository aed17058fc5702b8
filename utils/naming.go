package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var (
	unsafeRun  = regexp.MustCompile(`[^a-z0-9_-]+`)
	underscore = regexp.MustCompile(`_+`)
)

// SanitizeName turns free text into a lowercase filename token made of
// letters, digits, underscore and dash. Empty input gives "".
func SanitizeName(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = unsafeRun.ReplaceAllString(s, "_")
	s = underscore.ReplaceAllString(s, "_")
	return strings.Trim(s, "_")
}

// OutputName returns "<prefix>_<activity><suffix><ext>", dropping the
// prefix part when prefix is empty.
func OutputName(prefix, activity, suffix, ext string) string {
	if prefix == "" {
		return activity + suffix + ext
	}
	return fmt.Sprintf("%s_%s%s%s", prefix, activity, suffix, ext)
}

// UniquePath returns path itself when overwrite is set or nothing exists
// there; otherwise the first free "<base>_N<ext>" with N counting from 1.
func UniquePath(path string, overwrite bool) string {
	if overwrite || !exists(path) {
		return path
	}
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s_%d%s", base, i, ext)
		if !exists(candidate) {
			return candidate
		}
	}
}

// BaseName returns the last element of a directory path, ignoring
// trailing separators.
func BaseName(dir string) string {
	return filepath.Base(filepath.Clean(dir))
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
