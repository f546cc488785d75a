package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// MCPConfig is the metadata-template document for the MCP target.
//
// FrontmatterTemplates is keyed by "<category>/<filename>"; files without an
// entry receive DefaultFrontmatter. Both maps are read-only during a build.
type MCPConfig struct {
	FrontmatterTemplates map[string]map[string]any `yaml:"frontmatterTemplates"`
	DefaultFrontmatter   map[string]any            `yaml:"defaultFrontmatter"`
}

// LoadMCP loads the metadata-template document. It is required for the MCP
// target; a missing or unparsable file is fatal for that target.
func LoadMCP(path string) (*MCPConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("failed to read mcp config: %w", err)
	}

	var cfg MCPConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrConfigInvalid, path, err)
	}

	if cfg.FrontmatterTemplates == nil {
		cfg.FrontmatterTemplates = map[string]map[string]any{}
	}
	if cfg.DefaultFrontmatter == nil {
		cfg.DefaultFrontmatter = map[string]any{}
	}

	return &cfg, nil
}
