package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "docsplit.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_MissingFile_ReturnsConfigNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrConfigNotFound))
}

func TestLoad_InvalidYAML_ReturnsConfigInvalid(t *testing.T) {
	path := writeTempConfig(t, ": not yaml")
	_, err := Load(path)
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrConfigInvalid))
}

func TestLoad_EmptyFile_AppliesDefaults(t *testing.T) {
	path := writeTempConfig(t, "")
	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, "./docs", cfg.Source.Root)
	require.Equal(t, "./out/gitbook", cfg.Output.GitBookDir)
	require.Equal(t, "./out/mcp", cfg.Output.MCPDir)
	require.Equal(t, "gitbook.yaml", cfg.GitBookConfig)
	require.Equal(t, "mcp.yaml", cfg.MCPConfig)
	require.Equal(t, Duration(2*time.Second), cfg.Watch.QuietPeriod)
}

func TestLoad_ParsesHumanReadableDurations(t *testing.T) {
	path := writeTempConfig(t, "watch:\n  quiet_period: 500ms\n  rebuild_interval: 15m\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, Duration(500*time.Millisecond), cfg.Watch.QuietPeriod)
	require.Equal(t, Duration(15*time.Minute), cfg.Watch.RebuildInterval)
}

func TestLoad_ExpandsEnvironmentVariables(t *testing.T) {
	t.Setenv("DOCSPLIT_TEST_ROOT", "/srv/docs")
	path := writeTempConfig(t, "source:\n  root: ${DOCSPLIT_TEST_ROOT}\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "/srv/docs", cfg.Source.Root)
}

func TestInit_RefusesExistingWithoutForce(t *testing.T) {
	path := writeTempConfig(t, "source:\n  root: ./docs\n")

	require.Error(t, Init(path, false))
	require.NoError(t, Init(path, true))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "./docs", cfg.Source.Root)
}

func TestLoadGitBook_ParsesManifest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gitbook.yaml")
	content := `
title: Project Docs
structure:
  - title: API
    file: api.md
    source: shared
  - file: setup.md
readme:
  title: Welcome
  content: Start here.
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadGitBook(path)
	require.NoError(t, err)
	require.Equal(t, "Project Docs", cfg.Title)
	require.Len(t, cfg.Structure, 2)
	require.Equal(t, "API", cfg.Structure[0].Title)
	// Entries without an explicit source default to shared.
	require.Equal(t, "shared", cfg.Structure[1].Source)
	require.Equal(t, "Welcome", cfg.Readme.Title)
}

func TestLoadGitBook_Missing_ReturnsConfigNotFound(t *testing.T) {
	_, err := LoadGitBook(filepath.Join(t.TempDir(), "gitbook.yaml"))
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrConfigNotFound))
}

func TestLoadMCP_ParsesTemplates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mcp.yaml")
	content := `
frontmatterTemplates:
  shared/api.md:
    description: API reference
    alwaysApply: true
defaultFrontmatter:
  description: general
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadMCP(path)
	require.NoError(t, err)
	require.Equal(t, "API reference", cfg.FrontmatterTemplates["shared/api.md"]["description"])
	require.Equal(t, true, cfg.FrontmatterTemplates["shared/api.md"]["alwaysApply"])
	require.Equal(t, "general", cfg.DefaultFrontmatter["description"])
}

func TestLoadMCP_EmptyDocument_InitializesMaps(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mcp.yaml")
	require.NoError(t, os.WriteFile(path, []byte(""), 0o644))

	cfg, err := LoadMCP(path)
	require.NoError(t, err)
	require.NotNil(t, cfg.FrontmatterTemplates)
	require.NotNil(t, cfg.DefaultFrontmatter)
}
