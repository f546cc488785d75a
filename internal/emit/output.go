package emit

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

var (
	// ErrOutputWrite indicates the output tree could not be cleared, created
	// or written. Fatal for the affected target's build only.
	ErrOutputWrite = errors.New("output write failed")
)

// Result summarizes one emitter run.
type Result struct {
	Written  int
	Warnings []string
}

func (r *Result) warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// resetDir clears the target's entire output tree and recreates it empty.
// Every emitter run starts here so a changed manifest never leaves orphaned
// files from a previous build.
func resetDir(dir string) error {
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("%w: clear %s: %w", ErrOutputWrite, dir, err)
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("%w: create %s: %w", ErrOutputWrite, dir, err)
	}
	return nil
}

func writeFile(dir, name string, content []byte) error {
	path := filepath.Join(dir, name)
	// #nosec G306 -- emitted documentation is public content
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrOutputWrite, path, err)
	}
	return nil
}
