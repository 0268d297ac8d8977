package phfile

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"holiday-yaml-sync/internal/holidays"
)

const (
	fileExt     = ".yaml"
	placeholder = "PH: []\n"
)

// PathFor returns the country file path for country inside dir.
func PathFor(dir, country string) string {
	return filepath.Join(dir, strings.ToLower(country)+fileExt)
}

// CountryFromPath derives the upper-case country code from a country file name.
func CountryFromPath(path string) string {
	return strings.ToUpper(strings.TrimSuffix(filepath.Base(path), fileExt))
}

// Discover lists the country files in dir, sorted by name.
func Discover(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if e.Type().IsRegular() && strings.HasSuffix(e.Name(), fileExt) {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	return files, nil
}

// CreatePlaceholder writes a country file holding only an empty holiday list.
// An existing file is left alone.
func CreatePlaceholder(path string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, os.ErrExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if _, err := f.WriteString(placeholder); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Update merges records into the country file at path. It reports whether the
// content changed; unchanged files and dry runs are not written.
func Update(path string, records []holidays.Record, dryRun bool) (bool, error) {
	current, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}
	merged, err := Merge(current, records)
	if err != nil {
		return false, fmt.Errorf("%s: %w", path, err)
	}
	if bytes.Equal(current, merged) {
		return false, nil
	}
	if dryRun {
		return true, nil
	}
	return true, writeAtomic(path, merged)
}

// writeAtomic replaces path with data through a temp file in the same directory,
// so an interrupted run never leaves a half-written file.
func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
