package staleness

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"git.home.luguber.info/inful/docsplit/internal/logfields"
	"git.home.luguber.info/inful/docsplit/internal/source"
)

// Check reports whether the output tree is stale relative to the source tree.
//
// It compares the newest markdown modification timestamp in each tree: stale
// if the source maximum strictly exceeds the output maximum, or if the output
// tree contains no markdown files while the source tree contains at least
// one. Force bypasses the comparison entirely.
//
// The check is advisory; callers may rebuild unconditionally.
func Check(sourceRoot, outputRoot string, force bool) (bool, error) {
	if force {
		slog.Debug("Staleness check bypassed by force flag")
		return true, nil
	}

	srcMax, srcCount, err := newestMarkdown(sourceRoot)
	if err != nil {
		return false, err
	}
	outMax, outCount, err := newestMarkdown(outputRoot)
	if err != nil {
		return false, err
	}

	if outCount == 0 {
		return srcCount > 0, nil
	}

	stale := srcMax.After(outMax)
	slog.Debug("Staleness evaluated",
		logfields.Path(outputRoot),
		slog.Time("source_max", srcMax),
		slog.Time("output_max", outMax),
		slog.Bool("stale", stale))
	return stale, nil
}

// newestMarkdown walks a tree recursively and returns the maximum mtime over
// markdown files plus how many were seen. A missing root counts as empty.
func newestMarkdown(root string) (time.Time, int, error) {
	var max time.Time
	count := 0

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) && path == root {
				return filepath.SkipAll
			}
			return err
		}
		if d.IsDir() || !source.IsMarkdownFile(path) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		count++
		if info.ModTime().After(max) {
			max = info.ModTime()
		}
		return nil
	})
	if err != nil {
		return time.Time{}, 0, err
	}
	return max, count, nil
}
