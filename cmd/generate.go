package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/flowdoc/internal/db"
	"github.com/ziadkadry99/flowdoc/internal/extract"
	"github.com/ziadkadry99/flowdoc/internal/flowstore"
	"github.com/ziadkadry99/flowdoc/internal/progress"
	"github.com/ziadkadry99/flowdoc/internal/render"
	"github.com/ziadkadry99/flowdoc/internal/walker"
)

var generateCmd = &cobra.Command{
	Use:   "generate [path]",
	Short: "Extract flows from Python source and render diagrams",
	Long: `Scans a Python file or directory for flow and step decorators,
assembles the call graph between tagged steps, and writes one diagram
per discovered flow to the output directory.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringP("format", "f", "", "output format: mermaid, dot, html (overrides config)")
	generateCmd.Flags().StringP("output", "o", "", "explicit output file path (default: slugified flow name)")
	generateCmd.Flags().String("output-dir", "", "directory for generated diagrams (overrides config)")
	generateCmd.Flags().StringP("direction", "d", "", "diagram direction: TB or LR (overrides config)")
	generateCmd.Flags().String("src-root", "", "root for dotted module paths (defaults to the analyzed directory)")
	generateCmd.Flags().StringSlice("exclude", nil, "additional directory names to exclude (can be repeated)")
	generateCmd.Flags().Bool("docstrings", false, "include step docstrings in diagrams")
	generateCmd.Flags().Int("concurrency", 0, "max parallel file analysis (overrides config)")
	generateCmd.Flags().Bool("save", false, "also save flows to the local flow database for `flowdoc serve`")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	start := time.Now()
	ctx := context.Background()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// Flag overrides.
	if format, _ := cmd.Flags().GetString("format"); format != "" {
		cfg.Format = format
	}
	if outputDir, _ := cmd.Flags().GetString("output-dir"); outputDir != "" {
		cfg.OutputDir = outputDir
	}
	if direction, _ := cmd.Flags().GetString("direction"); direction != "" {
		cfg.Direction = direction
	}
	if srcRoot, _ := cmd.Flags().GetString("src-root"); srcRoot != "" {
		cfg.SrcRoot = srcRoot
	}
	if exclude, _ := cmd.Flags().GetStringSlice("exclude"); len(exclude) > 0 {
		cfg.ExcludeNames = append(cfg.ExcludeNames, exclude...)
	}
	if docstrings, _ := cmd.Flags().GetBool("docstrings"); docstrings {
		cfg.IncludeDocstrings = true
	}
	if concurrency, _ := cmd.Flags().GetInt("concurrency"); concurrency > 0 {
		cfg.MaxConcurrency = concurrency
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	target := "."
	if len(args) > 0 {
		target = args[0]
	}

	// Discover Python files.
	if verbose {
		fmt.Fprintf(os.Stderr, "Scanning %s for Python files...\n", target)
	}
	files, err := walker.Discover(walker.Config{
		Root:         target,
		Include:      cfg.Include,
		Exclude:      cfg.Exclude,
		ExcludeNames: cfg.ExcludeNames,
	})
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}
	if len(files) == 0 {
		fmt.Fprintln(os.Stderr, "No flows found in the specified source.")
		os.Exit(1)
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "Found %d files to analyze\n", len(files))
	}

	// The source root anchors dotted module paths for cross-module calls.
	srcRoot, err := resolveSrcRoot(cfg, target)
	if err != nil {
		return err
	}

	// Extract flows.
	reporter := progress.NewReporter()
	reporter.Start(len(files) * 2)
	extractor := extract.New(extract.Options{
		SrcRoot:        srcRoot,
		MaxConcurrency: cfg.MaxConcurrency,
		Progress: func(done, total int, path string) {
			reporter.Update(done, filepath.Base(path))
		},
	})
	result, err := extractor.Extract(ctx, files)
	reporter.Finish()
	if err != nil {
		return fmt.Errorf("extracting flows: %w", err)
	}

	printDiagnostics(result.Diagnostics)

	if len(result.Flows) == 0 {
		fmt.Fprintln(os.Stderr, "No flows found in the specified source.")
		os.Exit(1)
	}

	// Render each flow.
	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	renderer, err := render.New(cfg.Format, render.Options{
		Direction:         cfg.Direction,
		IncludeDocstrings: cfg.IncludeDocstrings,
	})
	if err != nil {
		return err
	}

	save, _ := cmd.Flags().GetBool("save")
	var store *flowstore.Store
	if save {
		store, err = openFlowStore(cfg.Serve.DataDir)
		if err != nil {
			return err
		}
	}

	explicitOut, _ := cmd.Flags().GetString("output")

	seen := make(map[string]int)
	var written []string
	for _, flow := range result.Flows {
		outPath := explicitOut
		if outPath == "" {
			slug := render.Slugify(flow.Name)
			if slug == "" {
				slug = "flow"
			}
			// Distinct flows may share a display name; number the collisions.
			seen[slug]++
			if n := seen[slug]; n > 1 {
				slug = fmt.Sprintf("%s_%d", slug, n)
			}
			outPath = filepath.Join(cfg.OutputDir, slug)
		}
		path, err := renderer.Render(flow, outPath)
		if err != nil {
			return fmt.Errorf("rendering %s: %w", flow.Name, err)
		}
		written = append(written, path)

		if store != nil {
			mermaid := render.MermaidSource(flow, render.Options{Direction: cfg.Direction})
			if _, err := store.Save(ctx, flow, mermaid, target); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: could not save flow %q: %v\n", flow.Name, err)
			}
		}
	}

	fmt.Printf("Generated %d diagram(s) in %s\n", len(written), time.Since(start).Round(time.Millisecond))
	for _, p := range written {
		fmt.Printf("  %s\n", p)
	}
	return nil
}

// openFlowStore opens (creating if needed) the flow database under dataDir.
func openFlowStore(dataDir string) (*flowstore.Store, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	d, err := db.Open(filepath.Join(dataDir, "flows.db"))
	if err != nil {
		return nil, fmt.Errorf("opening flow database: %w", err)
	}
	return flowstore.NewStore(d), nil
}
