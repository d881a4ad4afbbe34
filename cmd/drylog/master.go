package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"drylog/internal/export"
	"drylog/internal/merge"
	"drylog/internal/notify"
)

var (
	masterOut  string
	masterGzip bool
)

var masterCmd = &cobra.Command{
	Use:   "master <file>...",
	Short: "Build the master archive from snapshot and CSV files",
	Long: `Reconcile batch files (daily JSON exports, a previous master, raw CSV
sheets) into one master archive. Later files win id collisions, so
pass the old master first and the newer batches after it. A file that
cannot be parsed is skipped; the other batches still build. The result
is an artifact on disk; the local store is not touched.

Examples:
  drylog master exports/master.json exports/2025-03-01.json
  drylog master line1.csv line2.csv line3.csv
  drylog master exports/*.json --gzip --out=exports/master.json.gz`,
	Args: cobra.MinimumNArgs(1),
	RunE: runMaster,
}

func init() {
	masterCmd.Flags().StringVar(&masterOut, "out", "", "Output file (default exports/master.json)")
	masterCmd.Flags().BoolVar(&masterGzip, "gzip", false, "Gzip-compress the archive")
	rootCmd.AddCommand(masterCmd)
}

func runMaster(cmd *cobra.Command, args []string) error {
	env, err := openEnv()
	if err != nil {
		return err
	}
	defer env.Close()

	batches, skipped := loadBatches(args, env.schemas, env.logger)
	if skipped.rows > 0 {
		printNotification(notify.Skipped(skipped.rows))
	}
	if skipped.files > 0 {
		printNotification(notify.Infof("已略過 %d 個無法解析的檔案", skipped.files))
	}

	master := merge.BuildMaster(env.schemas, batches...)

	out := masterOut
	if out == "" {
		name := "master.json"
		if masterGzip {
			name += ".gz"
		}
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

	if masterGzip || strings.HasSuffix(out, ".gz") {
		err = export.WriteJSONGzip(f, master)
	} else {
		err = export.WriteJSON(f, master)
	}
	if err != nil {
		printNotification(notify.FromError(err))
		return err
	}

	printNotification(notify.Exported(out))
	printNotification(notify.Infof("主檔共 %d 筆紀錄", len(master)))
	return nil
}
