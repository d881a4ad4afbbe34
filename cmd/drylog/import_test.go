package main

import (
	"os"
	"path/filepath"
	"testing"

	"drylog/internal/errors"
	"drylog/internal/notify"
	"drylog/internal/slogutil"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadBatchesSkipsMalformedFiles(t *testing.T) {
	schemas := mustSchemas(t)
	dir := t.TempDir()

	good := writeFile(t, dir, "good.json",
		`[{"id":"r1","recordType":"evaluationTeam","dryerModel":"vt8","dateTime":"2025-03-01T08:00"}]`)
	bad := writeFile(t, dir, "bad.json", `{not json at all`)
	csv := writeFile(t, dir, "sheet.csv", "類型,機台型號\n評價,vt8\n測試用,vt8\n")
	missing := filepath.Join(dir, "does-not-exist.json")

	batches, skipped := loadBatches([]string{good, bad, csv, missing},
		schemas, slogutil.NewDiscardLogger())

	// The malformed and missing files drop; the batches before and
	// after them survive.
	if len(batches) != 2 {
		t.Fatalf("batches = %d, want 2", len(batches))
	}
	if len(batches[0]) != 1 || batches[0][0].ID != "r1" {
		t.Errorf("json batch = %v", batches[0])
	}
	if len(batches[1]) != 1 {
		t.Errorf("csv batch = %v", batches[1])
	}
	if skipped.files != 2 {
		t.Errorf("skipped files = %d, want 2", skipped.files)
	}
	if skipped.rows != 1 {
		t.Errorf("skipped rows = %d, want the unrecognized-type row", skipped.rows)
	}
}

func TestImportOutcomeEmptyBatchIsNoOp(t *testing.T) {
	n, err := importOutcome(0, errors.New(errors.EmptyResult, "nothing to merge"))
	if err != nil {
		t.Fatalf("empty batch should not fail the command, got %v", err)
	}
	if n.Level != notify.Info {
		t.Errorf("level = %v, want info", n.Level)
	}
}

func TestImportOutcome(t *testing.T) {
	n, err := importOutcome(5, nil)
	if err != nil || n.Level != notify.Success {
		t.Errorf("success outcome = %+v, %v", n, err)
	}

	persistErr := errors.New(errors.PersistenceFailed, "write failed")
	n, err = importOutcome(0, persistErr)
	if err == nil || n.Level != notify.Error {
		t.Errorf("persistence failure outcome = %+v, %v", n, err)
	}
}
