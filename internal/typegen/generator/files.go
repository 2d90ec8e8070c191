package generator

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing/fstest"
)

// Files maps slash-separated paths, relative to the output directory, to file contents
type Files map[string][]byte

// Paths returns the file paths in sorted order
func (f Files) Paths() []string {
	paths := make([]string, 0, len(f))
	for p := range f {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// FS exposes the files as a read-only file system without touching disk
func (f Files) FS() fs.FS {
	fsys := make(fstest.MapFS, len(f))
	for name, data := range f {
		fsys[name] = &fstest.MapFile{Data: data, Mode: 0644}
	}
	return fsys
}

// Write writes every file below dir, skipping files whose content is already current.
// It returns the paths that were written.
func (f Files) Write(dir string) ([]string, error) {
	var written []string

	for _, name := range f.Paths() {
		target := filepath.Join(dir, filepath.FromSlash(name))

		existing, err := os.ReadFile(target)
		if err == nil && bytes.Equal(existing, f[name]) {
			continue
		}

		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return written, fmt.Errorf("failed to create directory for %s: %w", name, err)
		}
		if err := os.WriteFile(target, f[name], 0644); err != nil {
			return written, fmt.Errorf("failed to write %s: %w", name, err)
		}
		written = append(written, name)
	}

	return written, nil
}

// Check compares the files against dir without writing anything.
// It returns a *StaleFilesError when any file is missing or differs.
func (f Files) Check(dir string) error {
	stale := &StaleFilesError{Dir: dir}

	for _, name := range f.Paths() {
		existing, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(name)))
		switch {
		case errors.Is(err, fs.ErrNotExist):
			stale.Missing = append(stale.Missing, name)
		case err != nil:
			return fmt.Errorf("failed to read %s: %w", name, err)
		case !bytes.Equal(existing, f[name]):
			stale.Changed = append(stale.Changed, name)
		}
	}

	if len(stale.Missing) > 0 || len(stale.Changed) > 0 {
		return stale
	}
	return nil
}

// StaleFilesError lists generated files that do not match what is on disk
type StaleFilesError struct {
	Dir     string
	Missing []string
	Changed []string
}

func (e *StaleFilesError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, fmt.Sprintf("missing: %s", strings.Join(e.Missing, ", ")))
	}
	if len(e.Changed) > 0 {
		parts = append(parts, fmt.Sprintf("changed: %s", strings.Join(e.Changed, ", ")))
	}
	return fmt.Sprintf("generated files in %s are out of date (%s)", e.Dir, strings.Join(parts, "; "))
}

// Paths returns every stale path, missing first
func (e *StaleFilesError) Paths() []string {
	return append(append([]string{}, e.Missing...), e.Changed...)
}
