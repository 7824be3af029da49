package main

import (
	"log/slog"

	"github.com/spf13/cobra"
)

var version = "dev"

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "blizzard",
		Short: "Blizzard - snow day prediction engine",
		Long: `Blizzard predicts whether school will be called off tomorrow.

It runs a panel of weather and district analysts through a structured
conversation, validates the resulting probability, and publishes the verdict
alongside a historical accuracy log.`,
		Version:      version,
		SilenceUsage: true,
	}

	debugLogging := cmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	cmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if *debugLogging {
			slog.SetLogLoggerLevel(slog.LevelDebug)
		}
	}

	// Add subcommands
	cmd.AddCommand(newPredictCommand())
	cmd.AddCommand(newServeCommand())
	cmd.AddCommand(newHistoryCommand())
	cmd.AddCommand(newBackfillCommand())
	cmd.AddCommand(newInitCommand())

	return cmd
}

func execute() error {
	rootCmd := newRootCommand()
	return rootCmd.Execute()
}
