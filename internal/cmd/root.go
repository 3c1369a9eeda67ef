// Package cmd implements the twinaxd command tree, grounded on
// dcosson-h2/internal/cmd's cobra.Command tree (NewRootCmd plus one
// newXxxCmd() constructor per subcommand).
package cmd

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root cobra command with all subcommands.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "twinaxd",
		Short: "Twinax display station controller",
		Long:  "twinaxd bridges twinax-attached 5250-family display stations to locally spawned shells over a USB-to-twinax converter.",
	}

	rootCmd.AddCommand(
		newRunCmd(),
		newStatusCmd(),
		newVersionCmd(),
	)

	return rootCmd
}
