package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ziadkadry99/flowdoc/internal/config"
	"github.com/ziadkadry99/flowdoc/internal/extract"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `flowdoc init` to create a config file", err)
	}
	return cfg, nil
}

// resolveSrcRoot picks the root for dotted module paths: the configured
// src_root, or the analyzed directory (the file's directory for a single
// file target).
func resolveSrcRoot(cfg *config.Config, target string) (string, error) {
	srcRoot := cfg.SrcRoot
	if srcRoot == "" {
		srcRoot = target
		if info, err := os.Stat(target); err == nil && !info.IsDir() {
			srcRoot = filepath.Dir(target)
		}
	}
	abs, err := filepath.Abs(srcRoot)
	if err != nil {
		return "", fmt.Errorf("resolving source root: %w", err)
	}
	return abs, nil
}

// printDiagnostics writes extraction diagnostics to stderr and reports
// whether any of them were errors.
func printDiagnostics(diags []extract.Diagnostic) bool {
	hadErrors := false
	for _, d := range diags {
		if d.Severity == extract.SeverityError {
			hadErrors = true
		}
		loc := d.File
		if d.Line > 0 {
			loc = fmt.Sprintf("%s:%d", d.File, d.Line)
		}
		if loc != "" {
			fmt.Fprintf(os.Stderr, "%s: %s: %s\n", d.Severity, loc, d.Message)
		} else {
			fmt.Fprintf(os.Stderr, "%s: %s\n", d.Severity, d.Message)
		}
	}
	return hadErrors
}
