// Package cli provides the command-line interface for mdxgen.
package cli

import (
	"github.com/spf13/cobra"
)

// Execute creates and runs the root command.
func Execute() error {
	return newRootCommand().Execute()
}

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "mdxgen",
		Short:        "Generate MDX reference documentation from JSDoc comments",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		newGenerateCommand(),
		newCheckCommand(),
		newWatchCommand(),
		newPackagesCommand(),
	)

	return rootCmd
}
