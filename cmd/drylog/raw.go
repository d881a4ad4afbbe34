package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"drylog/internal/errors"
	"drylog/internal/notify"
)

var rawCmd = &cobra.Command{
	Use:   "raw <id>",
	Short: "Print a record's raw chart data",
	Long: `Print the raw measurement chart payload attached to a record, if it
was imported with one. Manually entered records usually have none.`,
	Args: cobra.ExactArgs(1),
	RunE: runRaw,
}

func init() {
	rootCmd.AddCommand(rawCmd)
}

func runRaw(cmd *cobra.Command, args []string) error {
	env, err := openEnv()
	if err != nil {
		return err
	}
	defer env.Close()

	r, ok := env.store.Get(args[0])
	if !ok {
		err := errors.New(errors.RecordNotFound, "record not found")
		printNotification(notify.FromError(err))
		return err
	}
	if !r.HasRawChartData() {
		err := errors.New(errors.RawDataMissing, "record has no raw chart data")
		printNotification(notify.FromError(err))
		return err
	}

	fmt.Println(string(r.RawChartData))
	return nil
}
