package commands

import (
	"fmt"
	"runtime"

	"pixbatch/config"

	"github.com/spf13/cobra"
)

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Args:  cobra.NoArgs,
		Short: "Print build information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "pixbatch %s (commit %s, built %s, %s)\n",
				config.Version, config.GitCommit, config.BuildTime, runtime.Version())
		},
	}
}
