package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// GitBookConfig is the publishing manifest for the GitBook target.
//
// Structure is an ordered list: README.md and SUMMARY.md reproduce it in
// manifest order, and output files are copied in the same order.
type GitBookConfig struct {
	Title     string           `yaml:"title"`
	Structure []StructureEntry `yaml:"structure"`
	Readme    ReadmeConfig     `yaml:"readme"`
}

// StructureEntry maps one manifest position to a source file.
type StructureEntry struct {
	Title  string `yaml:"title"`
	File   string `yaml:"file"`
	Source string `yaml:"source"` // source category: "shared" or "gitbook-only"
}

// ReadmeConfig holds the synthesized README front section.
type ReadmeConfig struct {
	Title   string `yaml:"title"`
	Content string `yaml:"content"`
}

// LoadGitBook loads the publishing manifest. The manifest is required for the
// GitBook target; a missing or unparsable file is fatal for that target.
func LoadGitBook(path string) (*GitBookConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("failed to read gitbook config: %w", err)
	}

	var cfg GitBookConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrConfigInvalid, path, err)
	}

	if cfg.Title == "" {
		cfg.Title = "Documentation"
	}
	if cfg.Readme.Title == "" {
		cfg.Readme.Title = cfg.Title
	}
	for i := range cfg.Structure {
		if cfg.Structure[i].Source == "" {
			cfg.Structure[i].Source = "shared"
		}
	}

	return &cfg, nil
}
