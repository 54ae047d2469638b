package commands

import (
	"pixbatch/config"
	"pixbatch/logger"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	var logLevel string

	rootCmd := &cobra.Command{
		Use:           "pixbatch",
		Short:         "Batch image transcoder: resize and re-encode to PNG, JPEG or WebP",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging(logLevel)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			logger.Close()
		},
	}
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error); overrides PIXBATCH_LOG_LEVEL")

	rootCmd.AddCommand(
		NewServeCommand(),
		NewRunCommand(),
		NewTokenCommand(),
		NewCredentialsCommand(),
		NewVersionCommand(),
	)

	return rootCmd
}

func setupLogging(flagLevel string) error {
	name := flagLevel
	if name == "" {
		name = config.GetLogLevel()
	}
	level, err := logger.ParseLevel(name)
	if err != nil {
		return err
	}

	if file := config.GetLogFile(); file != "" {
		if err := logger.Init(file, true); err != nil {
			return err
		}
	}
	logger.SetLevel(level)
	return nil
}
