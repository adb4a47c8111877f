package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/flowdoc/internal/extract"
	"github.com/ziadkadry99/flowdoc/internal/validate"
	"github.com/ziadkadry99/flowdoc/internal/walker"
)

var validateCmd = &cobra.Command{
	Use:   "validate [path]",
	Short: "Check annotated flows for structural problems without rendering",
	Long: `Extracts flows like generate does, then checks each one for
structural problems: edges referencing missing steps, unreachable
steps, and duplicate step names. Nothing is written to disk.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().Bool("strict", false, "exit with error code on warnings")
	validateCmd.Flags().StringSlice("exclude", nil, "additional directory names to exclude (can be repeated)")
	validateCmd.Flags().String("src-root", "", "root for dotted module paths (defaults to the analyzed directory)")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	target := "."
	if len(args) > 0 {
		target = args[0]
	}

	if srcRootFlag, _ := cmd.Flags().GetString("src-root"); srcRootFlag != "" {
		cfg.SrcRoot = srcRootFlag
	}
	if exclude, _ := cmd.Flags().GetStringSlice("exclude"); len(exclude) > 0 {
		cfg.ExcludeNames = append(cfg.ExcludeNames, exclude...)
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

	srcRoot, err := resolveSrcRoot(cfg, target)
	if err != nil {
		return err
	}

	extractor := extract.New(extract.Options{
		SrcRoot:        srcRoot,
		MaxConcurrency: cfg.MaxConcurrency,
	})
	result, err := extractor.Extract(ctx, files)
	if err != nil {
		return fmt.Errorf("extracting flows: %w", err)
	}

	hadErrors := printDiagnostics(result.Diagnostics)
	if len(result.Flows) == 0 {
		fmt.Fprintln(os.Stderr, "No flows found in the specified source.")
		os.Exit(1)
	}
	strict, _ := cmd.Flags().GetBool("strict")

	var warnings, errors int
	v := &validate.Validator{}
	for _, flow := range result.Flows {
		for _, msg := range v.Check(flow) {
			fmt.Fprintf(os.Stderr, "%s: %s: %s\n", msg.Severity, flow.Name, msg.Text)
			if msg.Severity == extract.SeverityError {
				errors++
			} else {
				warnings++
			}
		}
	}

	fmt.Printf("Validated %d flow(s): %d error(s), %d warning(s)\n", len(result.Flows), errors, warnings)

	if hadErrors || errors > 0 || (strict && warnings > 0) {
		os.Exit(1)
	}
	return nil
}
