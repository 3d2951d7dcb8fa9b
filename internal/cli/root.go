package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"quintro/internal/version"
)

// RootCmd returns the quintro command with every subcommand attached
func RootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "quintro",
		Short:         "Quintro - connect five marbles on a grid",
		Version:       version.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
		Long: `Quintro serves multiplayer connect-five games over a JSON API and
analyses boards from the command line.`,
	}

	root.AddCommand(ServeCmd())
	root.AddCommand(CheckCmd())
	root.AddCommand(VersionCmd())
	return root
}

// VersionCmd prints the build version
func VersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	}
}
