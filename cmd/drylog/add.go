package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"drylog/internal/notify"
	"drylog/internal/record"
	"drylog/internal/schema"
)

var (
	addType   string
	addModel  string
	addTime   string
	addRTO    string
	addHeat   string
	addRemark string
	addSets   []string
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a new record",
	Long: `Add a measurement record. Readings are supplied as --set key=value
pairs using the field keys shown by 'drylog fields'.

Examples:
  drylog add --time=2025-03-01T08:30 --rto=有
  drylog add --set airVolumes.supply_front.speed=5.2 \
             --set airVolumes.supply_front.temp=80
  drylog add --type=條件設定 --set actualTemps.zone1.val1=85.5`,
	RunE: runAdd,
}

func init() {
	addCmd.Flags().StringVar(&addType, "type", "", "Record type (評價 or 條件設定)")
	addCmd.Flags().StringVar(&addModel, "model", "", "Dryer model")
	addCmd.Flags().StringVar(&addTime, "time", "", "Measurement time (2006-01-02T15:04, default now)")
	addCmd.Flags().StringVar(&addRTO, "rto", "", "RTO status (有 or 無)")
	addCmd.Flags().StringVar(&addHeat, "heating", "", "Heating status (有 or 無)")
	addCmd.Flags().StringVar(&addRemark, "remark", "", "Free-form remark")
	addCmd.Flags().StringArrayVar(&addSets, "set", nil, "Field assignment key=value (repeatable)")
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	env, err := openEnv()
	if err != nil {
		return err
	}
	defer env.Close()

	recType, model, err := env.resolveScope(addType, addModel)
	if err != nil {
		return err
	}

	r := &record.Record{
		RecordType:    recType,
		DryerModel:    model,
		DateTime:      addTime,
		RTOStatus:     record.ParseTriState(addRTO),
		HeatingStatus: record.ParseTriState(addHeat),
		Remark:        addRemark,
	}
	if r.DateTime == "" {
		r.DateTime = time.Now().Format("2006-01-02T15:04")
	}

	if err := applySets(r, addSets, model, env.schemas); err != nil {
		return err
	}

	if err := env.store.Add(r); err != nil {
		printNotification(notify.FromError(err))
		return err
	}
	printNotification(notify.RecordSaved())
	fmt.Println(r.ID)
	return nil
}

// applySets applies --set key=value pairs through the model's field
// descriptors, so readings land in the right slot with the right type.
func applySets(r *record.Record, sets []string, model string, schemas *schema.Provider) error {
	for _, s := range sets {
		key, value, ok := strings.Cut(s, "=")
		if !ok {
			return fmt.Errorf("invalid --set %q, expected key=value", s)
		}
		d, found := schemas.FieldByKey(model, key)
		if !found {
			return fmt.Errorf("unknown field %q for model %s", key, model)
		}
		if d.Calculated {
			return fmt.Errorf("field %q is derived and cannot be set", key)
		}
		switch d.Kind {
		case schema.KindNumber:
			f, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return fmt.Errorf("field %q needs a number, got %q", key, value)
			}
			d.SetNumber(r, &f)
		default:
			d.SetString(r, value)
		}
	}
	return nil
}
