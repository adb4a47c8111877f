package config

import (
	"fmt"
	"strconv"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to .flowdoc.yml.
func RunWizard() (*Config, error) {
	fmt.Println("Welcome to flowdoc! Let's configure your project.")
	fmt.Println()

	cfg := DefaultConfig()

	formatPrompt := promptui.Select{
		Label: "Select diagram format",
		Items: []string{"mermaid", "dot", "html"},
	}
	_, format, err := formatPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("format selection: %w", err)
	}
	cfg.Format = format

	directionPrompt := promptui.Select{
		Label: "Diagram direction",
		Items: []string{"TB", "LR"},
	}
	_, direction, err := directionPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("direction selection: %w", err)
	}
	cfg.Direction = direction

	outputPrompt := promptui.Prompt{
		Label:   "Output directory",
		Default: cfg.OutputDir,
	}
	outputDir, err := outputPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("output directory: %w", err)
	}
	cfg.OutputDir = outputDir

	srcRootPrompt := promptui.Prompt{
		Label:   "Source root for module resolution (empty = analyzed directory)",
		Default: cfg.SrcRoot,
	}
	srcRoot, err := srcRootPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("source root: %w", err)
	}
	cfg.SrcRoot = srcRoot

	docstringsPrompt := promptui.Select{
		Label: "Include docstrings in diagrams",
		Items: []string{"no", "yes"},
	}
	_, docstrings, err := docstringsPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("docstrings selection: %w", err)
	}
	cfg.IncludeDocstrings = docstrings == "yes"

	concurrencyPrompt := promptui.Prompt{
		Label:   "Max concurrency",
		Default: strconv.Itoa(cfg.MaxConcurrency),
		Validate: func(s string) error {
			n, err := strconv.Atoi(s)
			if err != nil || n < 0 {
				return fmt.Errorf("must be a non-negative number")
			}
			return nil
		},
	}
	concurrency, err := concurrencyPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("max concurrency: %w", err)
	}
	cfg.MaxConcurrency, _ = strconv.Atoi(concurrency)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if err := cfg.Save(".flowdoc.yml"); err != nil {
		return nil, err
	}
	fmt.Println("\nConfiguration saved to .flowdoc.yml")

	return cfg, nil
}
