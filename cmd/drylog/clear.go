package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"drylog/internal/notify"
)

var clearYes bool

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every stored record",
	Long:  `Delete all records in the local store. Requires --yes.`,
	RunE:  runClear,
}

func init() {
	clearCmd.Flags().BoolVar(&clearYes, "yes", false, "Confirm deletion")
	rootCmd.AddCommand(clearCmd)
}

func runClear(cmd *cobra.Command, args []string) error {
	env, err := openEnv()
	if err != nil {
		return err
	}
	defer env.Close()

	if !clearYes {
		return fmt.Errorf("refusing to delete %d records without --yes", env.store.Len())
	}

	if err := env.store.ClearAll(); err != nil {
		printNotification(notify.FromError(err))
		return err
	}
	for _, model := range env.schemas.SupportedModels() {
		if err := env.golden.Clear(model); err != nil {
			printNotification(notify.FromError(err))
			return err
		}
	}
	printNotification(notify.AllCleared())
	return nil
}
