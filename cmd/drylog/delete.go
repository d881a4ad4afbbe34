package main

import (
	"github.com/spf13/cobra"

	"drylog/internal/notify"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a record",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
	env, err := openEnv()
	if err != nil {
		return err
	}
	defer env.Close()

	if err := env.store.Delete(args[0]); err != nil {
		printNotification(notify.FromError(err))
		return err
	}
	printNotification(notify.RecordDeleted())
	return nil
}
