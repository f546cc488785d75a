package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/docsplit/internal/logfields"
	"git.home.luguber.info/inful/docsplit/internal/source"
)

// Watcher feeds qualifying filesystem events from the source tree and the
// configuration files into a Trigger.
type Watcher struct {
	watcher     *fsnotify.Watcher
	trigger     *Trigger
	sourceRoot  string
	configFiles map[string]struct{} // absolute paths of watched config documents
}

// NewWatcher creates a watcher over the source root and the given
// configuration files. The directories containing the config files are
// watched, which is more reliable than watching the files directly.
func NewWatcher(sourceRoot string, configFiles []string, trigger *Trigger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	absRoot, err := filepath.Abs(sourceRoot)
	if err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("failed to resolve source root: %w", err)
	}

	w := &Watcher{
		watcher:     fsw,
		trigger:     trigger,
		sourceRoot:  absRoot,
		configFiles: make(map[string]struct{}, len(configFiles)),
	}

	if err := addDirsRecursive(fsw, absRoot); err != nil {
		_ = fsw.Close()
		return nil, err
	}
	for _, cf := range configFiles {
		abs, err := filepath.Abs(cf)
		if err != nil {
			_ = fsw.Close()
			return nil, fmt.Errorf("failed to resolve config path: %w", err)
		}
		w.configFiles[abs] = struct{}{}
		if err := fsw.Add(filepath.Dir(abs)); err != nil {
			_ = fsw.Close()
			return nil, fmt.Errorf("failed to watch config directory %s: %w", filepath.Dir(abs), err)
		}
	}

	return w, nil
}

// Run processes filesystem events until ctx is canceled.
func (w *Watcher) Run(ctx context.Context) {
	defer func() { _ = w.watcher.Close() }()

	slog.Info("Watching for changes",
		logfields.Path(w.sourceRoot),
		slog.Int("config_files", len(w.configFiles)))

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(ev)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.Warn("Watcher error", logfields.Error(err))
		}
	}
}

func (w *Watcher) handleEvent(ev fsnotify.Event) {
	if shouldIgnoreEvent(ev.Name) {
		return
	}

	// New directories under the source root join the watch so files created
	// inside them keep triggering rebuilds.
	if ev.Op&fsnotify.Create == fsnotify.Create {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			if strings.HasPrefix(ev.Name, w.sourceRoot+string(os.PathSeparator)) {
				_ = addDirsRecursive(w.watcher, ev.Name)
			}
			return
		}
	}

	if !w.qualifies(ev.Name) {
		return
	}

	slog.Debug("File change detected", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
	w.trigger.Notify()
}

// qualifies reports whether a changed path should schedule a rebuild: a
// markdown file under the source tree, or one of the configuration files.
func (w *Watcher) qualifies(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	if _, ok := w.configFiles[abs]; ok {
		return true
	}
	if !strings.HasPrefix(abs, w.sourceRoot+string(os.PathSeparator)) {
		return false
	}
	return source.IsMarkdownFile(abs)
}

func addDirsRecursive(fsw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if err := fsw.Add(path); err != nil {
				slog.Warn("Watch add failed", logfields.Path(path), logfields.Error(err))
			}
		}
		return nil
	})
}

// shouldIgnoreEvent returns true for filesystem events that should not
// trigger rebuilds.
func shouldIgnoreEvent(path string) bool {
	base := filepath.Base(path)

	// Hidden files.
	if strings.HasPrefix(base, ".") {
		return true
	}

	// Editor temp/swap files.
	if strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, ".swx") ||
		strings.HasPrefix(base, ".#") ||
		(strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#")) {
		return true
	}

	if base == ".DS_Store" || base == "Thumbs.db" {
		return true
	}

	return false
}
