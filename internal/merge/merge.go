// Package merge projects external batches (CSV tables, JSON exports)
// into records and reconciles snapshot sets into a master list.
package merge

import (
	"encoding/json"
	"log/slog"
	"strconv"
	"strings"

	"drylog/internal/csvio"
	"drylog/internal/errors"
	"drylog/internal/record"
	"drylog/internal/schema"
)

// Report summarizes one batch projection. Skips are per-row and never
// abort the batch; a batch where every row was skipped is still a
// valid (empty) projection and the caller decides what to tell the
// user.
type Report struct {
	Projected    int
	SkippedType  int
	SkippedModel int
}

// FromTable projects a parsed CSV table into records. Row projection
// rules:
//   - 類型 must resolve to a known record type, otherwise the row is
//     skipped with a warning.
//   - 機台型號 defaults to vt8 when blank; unsupported models skip the
//     row.
//   - every other cell binds by header through the model's field
//     descriptors; unmatched headers are ignored.
//   - blank cells and the literal text "null" project to absent, and a
//     numeric cell that fails to parse projects to absent rather than
//     zero.
func FromTable(t *csvio.Table, schemas *schema.Provider, logger *slog.Logger) ([]*record.Record, *Report) {
	rep := &Report{}
	var out []*record.Record

	for i, row := range t.Rows {
		recType, ok := record.ParseType(row["類型"])
		if !ok {
			rep.SkippedType++
			logger.Warn("skipping row with unrecognized type",
				"row", i+2, "type", row["類型"])
			continue
		}

		model := strings.ToLower(strings.TrimSpace(row["機台型號"]))
		if model == "" {
			model = schema.DefaultModel
		}
		if !schemas.Supported(model) {
			rep.SkippedModel++
			logger.Warn("skipping row with unsupported dryer model",
				"row", i+2, "model", row["機台型號"])
			continue
		}

		r := &record.Record{RecordType: recType, DryerModel: model}
		for _, h := range t.Headers {
			d, ok := schemas.FieldByCSVHeader(model, h)
			if !ok || d.Calculated || !d.AppliesTo(recType) {
				continue
			}
			switch d.Key {
			case "recordType", "dryerModel":
				continue
			}
			applyCell(r, d, row[h])
		}
		out = append(out, r)
		rep.Projected++
	}
	return out, rep
}

func applyCell(r *record.Record, d *schema.FieldDescriptor, raw string) {
	val, ok := cleanCell(raw)
	if !ok {
		return
	}
	switch d.Kind {
	case schema.KindNumber:
		if d.SetNumber == nil {
			return
		}
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			d.SetNumber(r, &f)
		}
	default:
		if d.SetString != nil {
			d.SetString(r, val)
		}
	}
}

// cleanCell trims a raw cell and reports whether it holds a value.
// Blank cells and the literal "null" mean the reading was absent.
func cleanCell(raw string) (string, bool) {
	v := strings.TrimSpace(raw)
	if v == "" || strings.EqualFold(v, "null") {
		return "", false
	}
	return v, true
}

// FromJSON parses a JSON export (an array of records, as produced by
// the export package) into records ready for reconciliation.
func FromJSON(data []byte) ([]*record.Record, error) {
	var records []*record.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, errors.Wrap(errors.BatchUnparseable, "malformed json export", err)
	}
	out := records[:0]
	for _, r := range records {
		if r != nil {
			out = append(out, r)
		}
	}
	return out, nil
}

// BuildMaster flattens snapshot batches into one master list. Later
// batches win id collisions, so passing the previous master first and
// daily exports after lets the dailies supersede stale copies. The
// result is sorted newest first and normalized, but not written to any
// store; the caller exports it as an artifact.
func BuildMaster(schemas *schema.Provider, batches ...[]*record.Record) []*record.Record {
	byID := make(map[string]int)
	var master []*record.Record

	for _, batch := range batches {
		for _, r := range batch {
			if r == nil {
				continue
			}
			c := r.Clone()
			c.Normalize()
			c.RecomputeDerived(schemas.AirPointSpecs(c.DryerModel))
			c.IsSynced = true
			if idx, ok := byID[c.ID]; ok {
				master[idx] = c
				continue
			}
			byID[c.ID] = len(master)
			master = append(master, c)
		}
	}

	record.SortByDateTimeDesc(master)
	return master
}
