package commands

import (
	"github.com/spf13/cobra"
)

// workers is shared by every subcommand: each one boots its own System
// with this many scheduler workers.
var workers int

// rootCmd is the base command for the CLI.
var rootCmd = &cobra.Command{
	Use:   "actorsh",
	Short: "Walk through actorkit's spawn/tell/ask/identify surface",
	Long: `actorsh is a small demonstration harness for actorkit.

Each subcommand boots its own actor system, exercises one part of the
runtime (spawning, telling/asking, or name resolution), prints what
happened, and shuts the system down.`,
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().IntVar(
		&workers, "workers", 2,
		"number of scheduler worker goroutines",
	)

	rootCmd.AddCommand(spawnCmd)
	rootCmd.AddCommand(tellCmd)
	rootCmd.AddCommand(inspectCmd)
}
