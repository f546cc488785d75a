package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docsplit/internal/config"
	"git.home.luguber.info/inful/docsplit/internal/metrics"
)

// fixture builds a complete working directory: source tree, both config
// documents, and empty output roots.
func fixture(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()

	files := map[string]string{
		"docs/shared/architecture.md": "# Architecture\n\nOverview.\n",
		"docs/shared/api.md":          "# API\n\nEndpoints.\n",
		"docs/gitbook-only/intro.md":  "# Introduction\n",
		"docs/mcp-only/context.md":    "# Context\n",
	}
	for rel, content := range files {
		path := filepath.Join(dir, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}

	gitbook := `
title: Docs
structure:
  - title: Introduction
    file: intro.md
    source: gitbook-only
  - title: Architecture
    file: architecture.md
    source: shared
  - title: API
    file: api.md
    source: shared
readme:
  title: Docs
  content: Welcome.
`
	mcp := `
frontmatterTemplates:
  shared/api.md:
    description: API reference
    alwaysApply: true
defaultFrontmatter:
  description: general
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "gitbook.yaml"), []byte(gitbook), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "mcp.yaml"), []byte(mcp), 0o644))

	return &config.Config{
		Source: config.SourceConfig{Root: filepath.Join(dir, "docs")},
		Output: config.OutputConfig{
			GitBookDir: filepath.Join(dir, "out", "gitbook"),
			MCPDir:     filepath.Join(dir, "out", "mcp"),
		},
		GitBookConfig: filepath.Join(dir, "gitbook.yaml"),
		MCPConfig:     filepath.Join(dir, "mcp.yaml"),
	}
}

func snapshotTree(t *testing.T, root string) map[string]string {
	t.Helper()
	out := map[string]string{}
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		rel, _ := filepath.Rel(root, path)
		out[rel] = string(data)
		return nil
	})
	require.NoError(t, err)
	return out
}

func TestRun_BuildsBothTargets(t *testing.T) {
	cfg := fixture(t)

	report, err := New(cfg, nil).Run(context.Background(), Options{Force: true})
	require.NoError(t, err)
	require.Equal(t, metrics.ResultSuccess, report.Outcome)
	require.NotEmpty(t, report.ID)
	require.Len(t, report.Targets, 2)

	gitbook := snapshotTree(t, cfg.Output.GitBookDir)
	require.Contains(t, gitbook, "README.md")
	require.Contains(t, gitbook, "SUMMARY.md")
	require.Contains(t, gitbook, "intro.md")
	require.Contains(t, gitbook, "architecture.md")
	require.Contains(t, gitbook, "api.md")
	require.NotContains(t, gitbook, "context.md")

	mcp := snapshotTree(t, cfg.Output.MCPDir)
	require.Contains(t, mcp, "architecture.md")
	require.Contains(t, mcp, "api.md")
	require.Contains(t, mcp, "context.md")
	require.Contains(t, mcp, "markdown-rules.md")
	require.NotContains(t, mcp, "intro.md")

	// Frontmatter precedence across the full pipeline.
	require.Contains(t, mcp["architecture.md"], "description: general")
	require.Contains(t, mcp["api.md"], "description: API reference")
}

func TestRun_Idempotent(t *testing.T) {
	cfg := fixture(t)
	p := New(cfg, nil)

	_, err := p.Run(context.Background(), Options{Force: true})
	require.NoError(t, err)
	first := snapshotTree(t, cfg.Output.GitBookDir)
	firstMCP := snapshotTree(t, cfg.Output.MCPDir)

	_, err = p.Run(context.Background(), Options{Force: true})
	require.NoError(t, err)
	require.Equal(t, first, snapshotTree(t, cfg.Output.GitBookDir))
	require.Equal(t, firstMCP, snapshotTree(t, cfg.Output.MCPDir))
}

func TestRun_StalenessGateSkipsFreshOutput(t *testing.T) {
	cfg := fixture(t)
	p := New(cfg, nil)

	_, err := p.Run(context.Background(), Options{Force: true})
	require.NoError(t, err)

	report, err := p.Run(context.Background(), Options{})
	require.NoError(t, err)
	require.Equal(t, metrics.ResultSkipped, report.Outcome)
	for _, tr := range report.Targets {
		require.True(t, tr.Skipped)
	}
}

func TestRun_ForcedRebuildDropsDeletedSource(t *testing.T) {
	cfg := fixture(t)
	p := New(cfg, nil)

	_, err := p.Run(context.Background(), Options{Force: true})
	require.NoError(t, err)
	require.Contains(t, snapshotTree(t, cfg.Output.MCPDir), "context.md")

	// Deleting a source file leaves every remaining mtime untouched, so only
	// a forced pass (the watch trigger's mode) can clear the stale copy.
	require.NoError(t, os.Remove(filepath.Join(cfg.Source.Root, "mcp-only", "context.md")))

	report, err := p.Run(context.Background(), Options{Force: true})
	require.NoError(t, err)
	require.Equal(t, metrics.ResultSuccess, report.Outcome)
	require.NotContains(t, snapshotTree(t, cfg.Output.MCPDir), "context.md")
}

func TestRun_TargetsBuildIndependently(t *testing.T) {
	cfg := fixture(t)
	// Break only the MCP target's configuration.
	cfg.MCPConfig = filepath.Join(t.TempDir(), "missing-mcp.yaml")

	report, err := New(cfg, nil).Run(context.Background(), Options{Force: true})
	require.Error(t, err)
	require.Equal(t, metrics.ResultFailed, report.Outcome)

	// The GitBook tree was still produced in full.
	gitbook := snapshotTree(t, cfg.Output.GitBookDir)
	require.Contains(t, gitbook, "README.md")
	require.Contains(t, gitbook, "api.md")
}

func TestRun_SingleTarget(t *testing.T) {
	cfg := fixture(t)

	report, err := New(cfg, nil).Run(context.Background(), Options{
		Force:   true,
		Targets: []Target{TargetMCP},
	})
	require.NoError(t, err)
	require.Len(t, report.Targets, 1)

	_, statErr := os.Stat(cfg.Output.GitBookDir)
	require.True(t, os.IsNotExist(statErr))
}

func TestRun_MissingManifestEntryWarns(t *testing.T) {
	cfg := fixture(t)
	manifest := `
title: Docs
structure:
  - title: Ghost
    file: ghost.md
    source: shared
readme:
  title: Docs
`
	require.NoError(t, os.WriteFile(cfg.GitBookConfig, []byte(manifest), 0o644))

	report, err := New(cfg, nil).Run(context.Background(), Options{
		Force:   true,
		Targets: []Target{TargetGitBook},
	})
	require.NoError(t, err)
	require.Equal(t, metrics.ResultWarning, report.Outcome)
	require.NotEmpty(t, report.Warnings())
}
