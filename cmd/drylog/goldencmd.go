package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"drylog/internal/notify"
)

var goldenClear bool

var goldenCmd = &cobra.Command{
	Use:   "golden <model> [id]",
	Short: "Show or toggle a model's golden batch",
	Long: `Each dryer model can mark one record as its golden batch, the
reference other sessions are judged against. With only a model the
current golden record is shown; with an id the designation toggles on
that record (toggling the current golden record clears it).

Examples:
  drylog golden vt8
  drylog golden vt8 3f1c...
  drylog golden vt8 --clear`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runGolden,
}

func init() {
	goldenCmd.Flags().BoolVar(&goldenClear, "clear", false, "Clear the model's golden batch")
	rootCmd.AddCommand(goldenCmd)
}

func runGolden(cmd *cobra.Command, args []string) error {
	env, err := openEnv()
	if err != nil {
		return err
	}
	defer env.Close()

	model := args[0]
	if !env.schemas.Supported(model) {
		return fmt.Errorf("unsupported dryer model %q", model)
	}

	if goldenClear {
		if err := env.golden.Clear(model); err != nil {
			printNotification(notify.FromError(err))
			return err
		}
		printNotification(notify.GoldenUnset())
		return nil
	}

	if len(args) == 1 {
		r, err := env.golden.Resolve(model, env.store)
		if err != nil {
			printNotification(notify.FromError(err))
			return err
		}
		if r == nil {
			fmt.Println("此機台尚未設定黃金批次")
			return nil
		}
		fmt.Printf("%s\t%s\n", r.ID, r.DateTime)
		return nil
	}

	on, err := env.golden.Toggle(model, args[1])
	if err != nil {
		printNotification(notify.FromError(err))
		return err
	}
	if on {
		printNotification(notify.GoldenSet())
	} else {
		printNotification(notify.GoldenUnset())
	}
	return nil
}
