package main

import (
	"github.com/spf13/cobra"

	"drylog/internal/errors"
	"drylog/internal/notify"
	"drylog/internal/record"
	"drylog/internal/schema"
)

var (
	updateTime   string
	updateRTO    string
	updateHeat   string
	updateRemark string
	updateSets   []string
)

var updateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update an existing record",
	Long: `Update fields of a record by id. Only the supplied fields change;
derived values (air volume, temperature spread) are recomputed and the
record is marked unsynced.

Examples:
  drylog update 3f1c... --remark="re-measured after filter change"
  drylog update 3f1c... --set airVolumes.supply_front.speed=4.8`,
	Args: cobra.ExactArgs(1),
	RunE: runUpdate,
}

func init() {
	updateCmd.Flags().StringVar(&updateTime, "time", "", "Measurement time (2006-01-02T15:04)")
	updateCmd.Flags().StringVar(&updateRTO, "rto", "", "RTO status (有 or 無)")
	updateCmd.Flags().StringVar(&updateHeat, "heating", "", "Heating status (有 or 無)")
	updateCmd.Flags().StringVar(&updateRemark, "remark", "", "Free-form remark")
	updateCmd.Flags().StringArrayVar(&updateSets, "set", nil, "Field assignment key=value (repeatable)")
	rootCmd.AddCommand(updateCmd)
}

func runUpdate(cmd *cobra.Command, args []string) error {
	env, err := openEnv()
	if err != nil {
		return err
	}
	defer env.Close()

	current, ok := env.store.Get(args[0])
	if !ok {
		err := errors.New(errors.RecordNotFound, "record not found").
			WithDetails(map[string]any{"id": args[0]})
		printNotification(notify.FromError(err))
		return err
	}

	patch, err := buildUpdatePatch(current, updateTime, updateRTO, updateHeat, updateRemark, updateSets, env.schemas)
	if err != nil {
		return err
	}

	if err := env.store.Update(patch); err != nil {
		printNotification(notify.FromError(err))
		return err
	}
	printNotification(notify.RecordUpdated())
	return nil
}

// buildUpdatePatch assembles the shallow-merge patch for one update.
// Reading maps replace wholesale when present in a patch, so --set
// assignments land on a copy of the record's current maps; a --set for
// one point never drops the readings of its siblings.
func buildUpdatePatch(current *record.Record, dateTime, rto, heating, remark string, sets []string, schemas *schema.Provider) (*record.Record, error) {
	patch := &record.Record{
		ID:            current.ID,
		DateTime:      dateTime,
		RTOStatus:     record.ParseTriState(rto),
		HeatingStatus: record.ParseTriState(heating),
		Remark:        remark,
	}
	if len(sets) > 0 {
		seed := current.Clone()
		patch.AirVolumes = seed.AirVolumes
		patch.ActualTemps = seed.ActualTemps
		if err := applySets(patch, sets, current.DryerModel, schemas); err != nil {
			return nil, err
		}
	}
	return patch, nil
}
