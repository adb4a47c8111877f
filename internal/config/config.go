package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (FLOWDOC_*).
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Start from defaults.
	cfg := DefaultConfig()

	// Load YAML file if it exists.
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	// Overlay environment variables: FLOWDOC_FORMAT -> format, etc.
	if err := k.Load(env.Provider("FLOWDOC_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "FLOWDOC_"))
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// validFormats is the set of recognized output formats.
var validFormats = map[string]bool{
	"mermaid": true,
	"dot":     true,
	"html":    true,
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.Format == "" {
		return fmt.Errorf("format is required")
	}
	if !validFormats[c.Format] {
		return fmt.Errorf("invalid format %q: must be one of mermaid, dot, html", c.Format)
	}

	if c.Direction != "TB" && c.Direction != "LR" {
		return fmt.Errorf("invalid direction %q: must be TB or LR", c.Direction)
	}

	if c.OutputDir == "" {
		return fmt.Errorf("output_dir is required")
	}

	if c.MaxConcurrency < 0 {
		return fmt.Errorf("max_concurrency must be non-negative")
	}

	if c.Serve.Port < 0 || c.Serve.Port > 65535 {
		return fmt.Errorf("invalid serve port %d", c.Serve.Port)
	}

	return nil
}
