package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"drylog/internal/csvio"
	"drylog/internal/export"
	"drylog/internal/notify"
	"drylog/internal/record"
)

var (
	exportType   string
	exportModel  string
	exportFormat string
	exportOut    string
	exportUnion  bool
	exportGzip   bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export records to CSV or JSON",
	Long: `Export the records of the current scope. CSV output carries a UTF-8
BOM and the source text column forms so it round-trips through import;
--union emits one sheet covering every model's columns.

Examples:
  drylog export --format=csv --out=records.csv
  drylog export --format=json --out=backup.json
  drylog export --format=json --gzip --out=backup.json.gz
  drylog export --format=csv --union --out=all_models.csv`,
	RunE: runExport,
}

var dailyCmd = &cobra.Command{
	Use:   "daily [date]",
	Short: "Export the day's unsynced records and mark them synced",
	Long: `Export the records of one day (default today) that have not been
synced yet, then mark them synced. The artifact is the JSON snapshot
the master archive is built from.

Examples:
  drylog daily
  drylog daily 2025-03-01 --out=exports/2025-03-01.json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDaily,
}

var dailyOut string

func init() {
	exportCmd.Flags().StringVar(&exportType, "type", "", "Record type (評價 or 條件設定)")
	exportCmd.Flags().StringVar(&exportModel, "model", "", "Dryer model")
	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "Output format (csv, json)")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "Output file (default under the export dir)")
	exportCmd.Flags().BoolVar(&exportUnion, "union", false, "CSV only: union of every model's columns")
	exportCmd.Flags().BoolVar(&exportGzip, "gzip", false, "JSON only: gzip-compress the output")
	rootCmd.AddCommand(exportCmd)

	dailyCmd.Flags().StringVar(&dailyOut, "out", "", "Output file (default under the export dir)")
	rootCmd.AddCommand(dailyCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	env, err := openEnv()
	if err != nil {
		return err
	}
	defer env.Close()

	recType, model, err := env.resolveScope(exportType, exportModel)
	if err != nil {
		return err
	}

	out := exportOut
	if out == "" {
		name := fmt.Sprintf("%s_%s_%s.%s", model, recType, time.Now().Format("20060102"), exportFormat)
		out = filepath.Join(env.cfg.Export.Dir, name)
	}
	if err := os.MkdirAll(filepath.Dir(out), 0755); err != nil {
		return err
	}
	f, err := os.Create(out)
	if err != nil {
		return err
	}
	defer f.Close()

	switch exportFormat {
	case "csv":
		if exportUnion {
			headers, rows := export.UnionRows(env.store.All(), recType, env.schemas)
			err = csvio.Write(f, headers, rows)
		} else {
			err = export.CSV(f, env.store.All(), recType, model, env.schemas)
		}
	case "json":
		records := scopedRecords(env, recType, model)
		if exportGzip || env.cfg.Export.CompressJSON {
			err = export.WriteJSONGzip(f, records)
		} else {
			err = export.WriteJSON(f, records)
		}
	default:
		return fmt.Errorf("unsupported format %q", exportFormat)
	}
	if err != nil {
		printNotification(notify.FromError(err))
		return err
	}

	printNotification(notify.Exported(out))
	return nil
}

func runDaily(cmd *cobra.Command, args []string) error {
	env, err := openEnv()
	if err != nil {
		return err
	}
	defer env.Close()

	date := time.Now().Format("2006-01-02")
	if len(args) == 1 {
		date = args[0]
	}

	records := env.store.DailyUnsynced(date)
	if len(records) == 0 {
		fmt.Println("沒有可處理的資料")
		return nil
	}

	out := dailyOut
	if out == "" {
		out = filepath.Join(env.cfg.Export.Dir, date+".json")
	}
	if err := os.MkdirAll(filepath.Dir(out), 0755); err != nil {
		return err
	}
	f, err := os.Create(out)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := export.WriteJSON(f, records); err != nil {
		printNotification(notify.FromError(err))
		return err
	}

	ids := make([]string, len(records))
	for i, r := range records {
		ids[i] = r.ID
	}
	if err := env.store.MarkSynced(ids); err != nil {
		printNotification(notify.FromError(err))
		return err
	}

	printNotification(notify.Exported(out))
	printNotification(notify.Infof("%d 筆紀錄已標記為已同步", len(ids)))
	return nil
}

func scopedRecords(env *appEnv, recType record.Type, model string) []*record.Record {
	var out []*record.Record
	for _, r := range env.store.All() {
		if r.RecordType == recType && r.DryerModel == model {
			out = append(out, r)
		}
	}
	return out
}

