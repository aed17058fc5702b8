// Package archive pulls sensor tables out of zipped capture sessions.
package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"sensor-combine/models"
	"sensor-combine/utils"
)

// ListArchives returns the files under dir whose name ends in ext
// (case-insensitive), sorted by path. Only dir itself is scanned unless
// recursive is set.
func ListArchives(dir, ext string, recursive bool) ([]string, error) {
	ext = strings.ToLower(ext)
	match := func(name string) bool { return strings.HasSuffix(strings.ToLower(name), ext) }

	var out []string
	if !recursive {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, &models.IOError{Op: "list", Path: dir, Err: err}
		}
		for _, e := range entries {
			full := filepath.Join(dir, e.Name())
			if fi, err := os.Stat(full); err == nil && fi.Mode().IsRegular() && match(e.Name()) {
				out = append(out, full)
			}
		}
		return out, nil
	}

	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && match(d.Name()) {
			out = append(out, p)
		}
		return nil
	})
	if err != nil {
		return nil, &models.IOError{Op: "walk", Path: dir, Err: err}
	}
	return out, nil
}

// entryBase is the lowercased, trimmed base name of a zip entry, ignoring
// its internal directory path.
func entryBase(name string) string {
	name = strings.ReplaceAll(name, `\`, "/")
	return strings.ToLower(strings.TrimSpace(path.Base(name)))
}

// FindSensorEntries lists the non-directory entries of the archive whose
// base name is one of targets (case-insensitive). A corrupt or unreadable
// archive yields a *models.BadArchiveError.
func FindSensorEntries(archivePath string, targets []string) ([]string, error) {
	want := make(map[string]bool, len(targets))
	for _, t := range targets {
		want[strings.ToLower(strings.TrimSpace(t))] = true
	}

	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, &models.BadArchiveError{Path: archivePath, Err: err}
	}
	defer zr.Close()

	var out []string
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		if want[entryBase(f.Name)] {
			out = append(out, f.Name)
		}
	}
	return out, nil
}

// DestDir returns <base>/<archive name without extension>.
func DestDir(base, archivePath string) string {
	name := filepath.Base(archivePath)
	return filepath.Join(base, strings.TrimSuffix(name, filepath.Ext(name)))
}

// ExtractEntries copies the named entries into destDir under their base
// names and returns the written paths. Existing files get a numeric suffix
// unless overwrite is set, which also keeps same-named entries from
// different folders apart.
func ExtractEntries(archivePath string, entries []string, destDir string, overwrite bool) ([]string, error) {
	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, &models.BadArchiveError{Path: archivePath, Err: err}
	}
	defer zr.Close()

	byName := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		byName[f.Name] = f
	}

	if err := os.MkdirAll(destDir, 0755); err != nil {
		return nil, &models.IOError{Op: "mkdir", Path: destDir, Err: err}
	}

	var written []string
	for _, name := range entries {
		f, ok := byName[name]
		if !ok {
			return written, fmt.Errorf("entry %q not found in %s", name, archivePath)
		}
		base := path.Base(strings.ReplaceAll(name, `\`, "/"))
		target := utils.UniquePath(filepath.Join(destDir, base), overwrite)
		if err := copyEntry(f, target); err != nil {
			return written, fmt.Errorf("failed to extract %q from %s: %w", name, archivePath, err)
		}
		written = append(written, target)
	}
	return written, nil
}

func copyEntry(f *zip.File, target string) error {
	src, err := f.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.Create(target)
	if err != nil {
		return &models.IOError{Op: "create", Path: target, Err: err}
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(target)
		return err
	}
	if err := dst.Close(); err != nil {
		os.Remove(target)
		return &models.IOError{Op: "write", Path: target, Err: err}
	}
	return nil
}
