package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"drylog/internal/compare"
	"drylog/internal/notify"
)

var compareCmd = &cobra.Command{
	Use:   "compare <id> <id>",
	Short: "Compare two records side by side",
	Long: `Build the side-by-side comparison of two records: grouped air volume
bars per measurement point and the probe-line temperature grid. The
payload is printed as JSON for charting.`,
	Args: cobra.ExactArgs(2),
	RunE: runCompare,
}

func init() {
	rootCmd.AddCommand(compareCmd)
}

func runCompare(cmd *cobra.Command, args []string) error {
	env, err := openEnv()
	if err != nil {
		return err
	}
	defer env.Close()

	payload, err := compare.Build(env.store, args, env.schemas)
	if err != nil {
		printNotification(notify.FromError(err))
		return err
	}

	out, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
