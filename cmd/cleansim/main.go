package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	_ "cleansim/internal/sims/cleaning"
)

var version = "0.1.0-dev"

// Set by the build via -ldflags.
var (
	commit = "none"
	date   = "unknown"
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "cleansim",
		Short: "Multi-agent cleaning robot simulation",
		Long: `cleansim simulates a crew of cleaning robots on a rectangular grid with a
fraction of cells initially dirty. Robots clean the cell they stand on or
wander to a random neighboring cell, and the simulation measures how many
steps a crew needs to clean the whole room and how much it moves doing so.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON")
	rootCmd.PersistentFlags().String("log-level", "info", "Log verbosity: debug, info, warn, or error")

	rootCmd.AddCommand(
		newRunCmd(),
		newSweepCmd(),
		newVersionCmd(),
	)
	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
