package main

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"drylog/internal/csvio"
	"drylog/internal/errors"
	"drylog/internal/export"
	"drylog/internal/merge"
	"drylog/internal/notify"
	"drylog/internal/record"
	"drylog/internal/schema"
)

var importReplace bool

var importCmd = &cobra.Command{
	Use:   "import <file>...",
	Short: "Import records from CSV or JSON files",
	Long: `Import record batches. CSV files go through the header projection
(unrecognized row types and unsupported models are skipped with a
warning); .json and .json.gz files are parsed as record snapshots.
A file that cannot be parsed is skipped; the other files still import.

Imported records get fresh ids on collision and are marked unsynced.
With --replace the snapshot replaces the whole store instead of
merging.

Examples:
  drylog import measurements.csv
  drylog import backup.json --replace
  drylog import master.json.gz`,
	Args: cobra.MinimumNArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().BoolVar(&importReplace, "replace", false,
		"Replace all stored records instead of merging")
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
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

	var incoming []*record.Record
	for _, batch := range batches {
		incoming = append(incoming, batch...)
	}

	if importReplace {
		if err := env.store.ReplaceAll(incoming); err != nil {
			printNotification(notify.FromError(err))
			return err
		}
		printNotification(notify.Imported(env.store.Len()))
		return nil
	}

	added, err := env.store.Merge(incoming)
	n, err := importOutcome(added, err)
	printNotification(n)
	return err
}

// importOutcome maps a merge result to user feedback. An empty batch
// is a no-op, not a failure.
func importOutcome(added int, err error) (notify.Notification, error) {
	if err != nil {
		if errors.HasCode(err, errors.EmptyResult) {
			return notify.NoData(), nil
		}
		return notify.FromError(err), err
	}
	return notify.Imported(added), nil
}

// skipCounts tracks what a multi-file load dropped: whole files that
// did not parse, and individual rows the CSV projection rejected.
type skipCounts struct {
	files int
	rows  int
}

// loadBatches reads each file into a record batch. A malformed file is
// skipped with a warning and the remaining batches still load.
func loadBatches(paths []string, schemas *schema.Provider, logger *slog.Logger) ([][]*record.Record, skipCounts) {
	var batches [][]*record.Record
	var skipped skipCounts
	for _, path := range paths {
		records, rowSkips, err := readBatch(path, schemas, logger)
		if err != nil {
			logger.Warn("skipping unparseable batch", "file", path, "error", err)
			skipped.files++
			continue
		}
		batches = append(batches, records)
		skipped.rows += rowSkips
	}
	return batches, skipped
}

func readBatch(path string, schemas *schema.Provider, logger *slog.Logger) ([]*record.Record, int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, fmt.Errorf("reading %s: %w", path, err)
	}

	switch {
	case strings.HasSuffix(path, ".csv"):
		table, err := csvio.ParseBytes(data)
		if err != nil {
			return nil, 0, err
		}
		records, rep := merge.FromTable(table, schemas, logger)
		return records, rep.SkippedType + rep.SkippedModel, nil
	case strings.HasSuffix(path, ".json.gz"):
		raw, err := export.ReadJSONGzip(bytes.NewReader(data))
		if err != nil {
			return nil, 0, err
		}
		records, err := merge.FromJSON(raw)
		return records, 0, err
	case strings.HasSuffix(path, ".json"):
		records, err := merge.FromJSON(data)
		return records, 0, err
	}
	return nil, 0, fmt.Errorf("unsupported file type %s", filepath.Ext(path))
}
