package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	Source SourceConfig `yaml:"source"`
	Output OutputConfig `yaml:"output"`
	Watch  WatchConfig  `yaml:"watch"`

	// Paths to the per-target configuration documents, relative to the
	// working directory unless absolute.
	GitBookConfig string `yaml:"gitbook_config"`
	MCPConfig     string `yaml:"mcp_config"`
}

// SourceConfig locates the markdown source tree.
type SourceConfig struct {
	Root string `yaml:"root"`
}

// OutputConfig locates the two output trees.
type OutputConfig struct {
	GitBookDir string `yaml:"gitbook_dir"`
	MCPDir     string `yaml:"mcp_dir"`
}

// WatchConfig configures watch mode.
type WatchConfig struct {
	QuietPeriod     Duration `yaml:"quiet_period"`
	MetricsAddr     string   `yaml:"metrics_addr"`     // empty disables the /metrics listener
	RebuildInterval Duration `yaml:"rebuild_interval"` // zero disables the periodic rebuild
	HistoryPath     string   `yaml:"history_path"`     // empty disables build history persistence
}

// Duration wraps time.Duration so YAML carries human-readable values ("2s").
// Bare integers are accepted as nanoseconds.
type Duration time.Duration

func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	if value.Tag == "!!int" {
		var n int64
		if err := value.Decode(&n); err != nil {
			return fmt.Errorf("invalid duration value: %w", err)
		}
		*d = Duration(n)
		return nil
	}
	var s string
	if err := value.Decode(&s); err != nil {
		return fmt.Errorf("invalid duration value: %w", err)
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Load loads configuration from the specified file.
func Load(configPath string) (*Config, error) {
	// Load .env if present; absence is not an error.
	_ = godotenv.Load()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand environment variables in the YAML content.
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrConfigInvalid, configPath, err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Source.Root == "" {
		c.Source.Root = "./docs"
	}
	if c.Output.GitBookDir == "" {
		c.Output.GitBookDir = "./out/gitbook"
	}
	if c.Output.MCPDir == "" {
		c.Output.MCPDir = "./out/mcp"
	}
	if c.GitBookConfig == "" {
		c.GitBookConfig = "gitbook.yaml"
	}
	if c.MCPConfig == "" {
		c.MCPConfig = "mcp.yaml"
	}
	if c.Watch.QuietPeriod <= 0 {
		c.Watch.QuietPeriod = Duration(2 * time.Second)
	}
}

// Init creates a new configuration file with example content.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configPath)
	}

	example := Config{
		Source: SourceConfig{Root: "./docs"},
		Output: OutputConfig{
			GitBookDir: "./out/gitbook",
			MCPDir:     "./out/mcp",
		},
		Watch: WatchConfig{
			QuietPeriod: Duration(2 * time.Second),
			MetricsAddr: "",
		},
		GitBookConfig: "gitbook.yaml",
		MCPConfig:     "mcp.yaml",
	}

	data, err := yaml.Marshal(&example)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
