package main

import (
	"drylog/internal/version"

	"github.com/spf13/cobra"
)

var (
	// rootFlag is the CLI --root flag value, the directory holding the
	// .drylog data directory
	rootFlag string
	// verboseFlag raises log verbosity
	verboseFlag bool
)

var rootCmd = &cobra.Command{
	Use:   "drylog",
	Short: "drylog - dryer measurement record manager",
	Long: `drylog manages industrial dryer measurement sessions: air volume and
temperature records per dryer model, with filtering, comparison,
CSV/JSON import-export and golden batch tracking.`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.SetVersionTemplate("drylog version {{.Version}}\n")
	rootCmd.PersistentFlags().StringVar(&rootFlag, "root", ".",
		"Directory containing the .drylog data directory")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false,
		"Enable debug logging")
}
