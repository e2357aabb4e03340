package commands

import (
	"github.com/spf13/cobra"
)

var configPath string

// NewRootCmd creates the root command, grounded on
// cmd/commands/root.go's "build root, AddCommand every subcommand" shape.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "lookupctl",
		Short: "Inspect and exercise the lookup dispatcher from the command line",
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "conf", "", "path to config file (default: search path)")

	rootCmd.AddCommand(
		NewParseCommand(),
		NewFindCommand(),
		NewVersionCommand(),
	)

	return rootCmd
}
