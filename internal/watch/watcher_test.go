package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestShouldIgnoreEvent(t *testing.T) {
	ignored := []string{
		"/docs/.hidden.md",
		"/docs/notes.md.swp",
		"/docs/notes.md~",
		"/docs/.#notes.md",
		"/docs/#notes.md#",
		"/docs/.DS_Store",
	}
	for _, path := range ignored {
		require.True(t, shouldIgnoreEvent(path), "expected %s to be ignored", path)
	}

	require.False(t, shouldIgnoreEvent("/docs/shared/notes.md"))
	require.False(t, shouldIgnoreEvent("/docs/gitbook.yaml"))
}

func TestWatcher_QualifyingPaths(t *testing.T) {
	dir := t.TempDir()
	sourceRoot := filepath.Join(dir, "docs")
	require.NoError(t, os.MkdirAll(filepath.Join(sourceRoot, "shared"), 0o750))
	gitbookCfg := filepath.Join(dir, "gitbook.yaml")
	require.NoError(t, os.WriteFile(gitbookCfg, []byte("title: x\n"), 0o644))

	w, err := NewWatcher(sourceRoot, []string{gitbookCfg}, NewTrigger(time.Second, nil, nil))
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.watcher.Close() })

	require.True(t, w.qualifies(filepath.Join(sourceRoot, "shared", "a.md")))
	require.True(t, w.qualifies(filepath.Join(sourceRoot, "mcp-only", "b.MD")))
	require.True(t, w.qualifies(filepath.Join(sourceRoot, "shared", "notes.markdown")))
	require.True(t, w.qualifies(gitbookCfg))

	require.False(t, w.qualifies(filepath.Join(sourceRoot, "shared", "image.png")))
	require.False(t, w.qualifies(filepath.Join(dir, "elsewhere.md")))
	require.False(t, w.qualifies(sourceRoot))
}
