package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/flowdoc/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize flowdoc configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to configure flowdoc for your project and generates a .flowdoc.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard()
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
