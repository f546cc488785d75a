package source

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeSourceTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

func TestParseCategory_RejectsUnknown(t *testing.T) {
	for _, valid := range []string{"shared", "gitbook-only", "mcp-only"} {
		cat, err := ParseCategory(valid)
		require.NoError(t, err)
		require.Equal(t, Category(valid), cat)
	}

	_, err := ParseCategory("assets")
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrUnknownCategory))
}

func TestList_MissingDirectory_ReturnsEmptyWithoutError(t *testing.T) {
	scanner := NewScanner(t.TempDir())

	files, err := scanner.List(CategoryShared)
	require.NoError(t, err)
	require.Empty(t, files)
}

func TestList_OnlyDirectMarkdownFiles(t *testing.T) {
	root := writeSourceTree(t, map[string]string{
		"shared/architecture.md":  "# Architecture\n",
		"shared/notes.txt":        "not markdown",
		"shared/.draft.md":        "hidden",
		"shared/deep/nested.md":   "# Nested\n",
		"gitbook-only/intro.md":   "# Intro\n",
		"mcp-only/llm-context.md": "# Context\n",
	})

	scanner := NewScanner(root)
	files, err := scanner.List(CategoryShared)
	require.NoError(t, err)
	require.Len(t, files, 1)
	require.Equal(t, "architecture.md", files[0].RelPath)
	require.Equal(t, CategoryShared, files[0].Category)
	require.Equal(t, []byte("# Architecture\n"), files[0].Content)
	require.False(t, files[0].ModTime.IsZero())
}

func TestScan_AssignsEachFileToExactlyOneCategory(t *testing.T) {
	root := writeSourceTree(t, map[string]string{
		"shared/a.md":       "# A\n",
		"shared/b.md":       "# B\n",
		"gitbook-only/c.md": "# C\n",
		"mcp-only/d.md":     "# D\n",
	})

	set, err := NewScanner(root).Scan()
	require.NoError(t, err)
	require.Equal(t, 4, set.Len())

	seen := map[string]Category{}
	for _, cat := range Categories {
		for _, f := range set.Category(cat) {
			prev, dup := seen[f.RelPath+"|"+string(f.Category)]
			require.False(t, dup, "file %s already classified as %s", f.RelPath, prev)
			seen[f.RelPath+"|"+string(f.Category)] = cat
			require.Equal(t, cat, f.Category)
		}
	}

	require.Len(t, set.Category(CategoryShared), 2)
	require.Len(t, set.Category(CategoryGitBookOnly), 1)
	require.Len(t, set.Category(CategoryMCPOnly), 1)
}

func TestSet_Find(t *testing.T) {
	root := writeSourceTree(t, map[string]string{
		"shared/api.md": "# API\n",
	})

	set, err := NewScanner(root).Scan()
	require.NoError(t, err)

	f, ok := set.Find(CategoryShared, "api.md")
	require.True(t, ok)
	require.Equal(t, "shared/api.md", f.Key())

	_, ok = set.Find(CategoryShared, "missing.md")
	require.False(t, ok)
	_, ok = set.Find(CategoryGitBookOnly, "api.md")
	require.False(t, ok)
}

func TestIsMarkdownFile(t *testing.T) {
	accepted := []string{"a.md", "A.MD", "b.markdown", "c.mdown", "d.mkd", "/abs/path/e.md"}
	for _, name := range accepted {
		require.True(t, IsMarkdownFile(name), "expected %s to be markdown", name)
	}

	rejected := []string{"a.txt", "b.md.bak", "c", "d.html"}
	for _, name := range rejected {
		require.False(t, IsMarkdownFile(name), "expected %s to be rejected", name)
	}
}

func TestList_SortedByName(t *testing.T) {
	root := writeSourceTree(t, map[string]string{
		"mcp-only/zeta.md":  "z",
		"mcp-only/alpha.md": "a",
		"mcp-only/mid.md":   "m",
	})

	files, err := NewScanner(root).List(CategoryMCPOnly)
	require.NoError(t, err)
	require.Len(t, files, 3)
	require.Equal(t, "alpha.md", files[0].RelPath)
	require.Equal(t, "mid.md", files[1].RelPath)
	require.Equal(t, "zeta.md", files[2].RelPath)
}
