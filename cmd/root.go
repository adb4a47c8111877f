package cmd

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "flowdoc",
	Short: "Extract business-process flow diagrams from annotated Python code",
	Long: `Flowdoc statically analyzes Python source trees for functions and
classes tagged with flow and step decorators, reconstructs the call
graph between tagged steps, and renders each flow as a diagram. The
analyzed code is never imported or executed.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".flowdoc.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
