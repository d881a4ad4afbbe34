package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var fieldsModel string

var fieldsCmd = &cobra.Command{
	Use:   "fields",
	Short: "List the field keys of a dryer model",
	Long: `List every field key a model's records carry, with its display label
and CSV column. The keys are what --set and --field expect.`,
	RunE: runFields,
}

func init() {
	fieldsCmd.Flags().StringVar(&fieldsModel, "model", "", "Dryer model")
	rootCmd.AddCommand(fieldsCmd)
}

func runFields(cmd *cobra.Command, args []string) error {
	env, err := openEnv()
	if err != nil {
		return err
	}
	defer env.Close()

	_, model, err := env.resolveScope("", fieldsModel)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "KEY\tLABEL\tCSV COLUMN\tKIND")
	for _, d := range env.schemas.Fields(model) {
		kind := string(d.Kind)
		if d.Calculated {
			kind += " (derived)"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", d.Key, d.Label, d.CSVHeader, kind)
	}
	return w.Flush()
}
