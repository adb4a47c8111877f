package config

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Format:         "mermaid",
		Direction:      "TB",
		OutputDir:      ".",
		MaxConcurrency: 4,
		Serve: ServeConfig{
			Port:    8787,
			DataDir: ".flowdoc",
		},
	}
}
