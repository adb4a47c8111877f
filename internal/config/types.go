package config

// Config is the top-level flowdoc configuration, corresponding to
// .flowdoc.yml.
type Config struct {
	// Format selects the diagram output: mermaid, dot, or html.
	Format string `yaml:"format" koanf:"format"`
	// Direction is the diagram layout direction, TB or LR.
	Direction string `yaml:"direction" koanf:"direction"`
	// OutputDir is where generated diagrams are written.
	OutputDir string `yaml:"output_dir" koanf:"output_dir"`
	// SrcRoot is the root used for module path resolution. Empty means
	// the analyzed directory itself.
	SrcRoot string `yaml:"src_root" koanf:"src_root"`
	// Include and Exclude are glob patterns applied to discovered files.
	Include []string `yaml:"include" koanf:"include"`
	Exclude []string `yaml:"exclude" koanf:"exclude"`
	// ExcludeNames are additional directory names skipped during
	// discovery, on top of the built-in exclusions.
	ExcludeNames []string `yaml:"exclude_names" koanf:"exclude_names"`
	// IncludeDocstrings embeds step docstrings in the output.
	IncludeDocstrings bool `yaml:"include_docstrings" koanf:"include_docstrings"`
	// MaxConcurrency bounds per-file parallelism during extraction.
	MaxConcurrency int `yaml:"max_concurrency" koanf:"max_concurrency"`
	// Serve holds settings for the flow browser server.
	Serve ServeConfig `yaml:"serve" koanf:"serve"`
}

// ServeConfig holds settings for `flowdoc serve`.
type ServeConfig struct {
	Port    int    `yaml:"port" koanf:"port"`
	DataDir string `yaml:"data_dir" koanf:"data_dir"`
}
