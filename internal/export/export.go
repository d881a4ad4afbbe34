// Package export renders record sets into their outbound formats: the
// Excel-friendly CSV projection, JSON snapshot artifacts, and the
// gzip-compressed master archive.
package export

import (
	"encoding/json"
	"io"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"

	"drylog/internal/csvio"
	"drylog/internal/errors"
	"drylog/internal/record"
	"drylog/internal/schema"
)

// Rows projects records of one type and model into CSV-shaped rows.
// Every field descriptor that applies to the record type contributes a
// column, in declaration order; canonical enum values render back to
// their source text forms (評價TEAM用, 有/無) so a round trip through
// import reproduces the record.
func Rows(records []*record.Record, recType record.Type, model string, schemas *schema.Provider) ([]string, []map[string]string) {
	var headers []string
	var descs []*schema.FieldDescriptor
	for _, d := range schemas.Fields(model) {
		if !d.AppliesTo(recType) {
			continue
		}
		headers = append(headers, d.CSVHeader)
		descs = append(descs, d)
	}

	rows := make([]map[string]string, 0, len(records))
	for _, r := range records {
		if r.RecordType != recType || r.DryerModel != model {
			continue
		}
		row := make(map[string]string, len(descs))
		for _, d := range descs {
			row[d.CSVHeader] = cellText(d, r)
		}
		rows = append(rows, row)
	}
	return headers, rows
}

// TableRows is Rows restricted to the columns the list view shows.
func TableRows(records []*record.Record, recType record.Type, model string, schemas *schema.Provider) ([]string, []map[string]string) {
	var headers []string
	var descs []*schema.FieldDescriptor
	for _, d := range schemas.Fields(model) {
		if !d.InTable || !d.AppliesTo(recType) {
			continue
		}
		headers = append(headers, d.Label)
		descs = append(descs, d)
	}

	rows := make([]map[string]string, 0, len(records))
	for _, r := range records {
		if r.RecordType != recType || r.DryerModel != model {
			continue
		}
		row := make(map[string]string, len(descs))
		for _, d := range descs {
			row[d.Label] = cellText(d, r)
		}
		rows = append(rows, row)
	}
	return headers, rows
}

// UnionRows projects a mixed-model record set against the union of
// every model's columns, the shape downstream analysis tools expect.
// Columns keep first-seen declaration order across models; cells for
// fields a record's model lacks stay empty.
func UnionRows(records []*record.Record, recType record.Type, schemas *schema.Provider) ([]string, []map[string]string) {
	var headers []string
	seen := make(map[string]bool)
	for _, model := range schemas.SupportedModels() {
		for _, d := range schemas.Fields(model) {
			if !d.AppliesTo(recType) || seen[d.CSVHeader] {
				continue
			}
			seen[d.CSVHeader] = true
			headers = append(headers, d.CSVHeader)
		}
	}

	rows := make([]map[string]string, 0, len(records))
	for _, r := range records {
		if r.RecordType != recType {
			continue
		}
		row := make(map[string]string, len(headers))
		for _, d := range schemas.Fields(r.DryerModel) {
			if !d.AppliesTo(recType) {
				continue
			}
			row[d.CSVHeader] = cellText(d, r)
		}
		rows = append(rows, row)
	}
	return headers, rows
}

func cellText(d *schema.FieldDescriptor, r *record.Record) string {
	switch d.Key {
	case "recordType":
		return record.TypeLabel(r.RecordType)
	case "dryerModel":
		return strings.ToUpper(r.DryerModel)
	case "rtoStatus":
		return record.TriStateLabel(r.RTOStatus)
	case "heatingStatus":
		return record.TriStateLabel(r.HeatingStatus)
	}
	switch v := d.Get(r).(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}

// CSV writes the projection of Rows as a BOM-prefixed CSV document.
func CSV(w io.Writer, records []*record.Record, recType record.Type, model string, schemas *schema.Provider) error {
	headers, rows := Rows(records, recType, model, schemas)
	return csvio.Write(w, headers, rows)
}

// JSON renders records as the indented array snapshot format shared by
// daily exports and the master archive. An empty set renders as [].
func JSON(records []*record.Record) ([]byte, error) {
	if records == nil {
		records = []*record.Record{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, errors.Wrap(errors.InternalError, "encoding record snapshot", err)
	}
	return data, nil
}

// WriteJSON writes the JSON snapshot to w.
func WriteJSON(w io.Writer, records []*record.Record) error {
	data, err := JSON(records)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return errors.Wrap(errors.PersistenceFailed, "writing snapshot", err)
	}
	return nil
}

// WriteJSONGzip writes the gzip-compressed JSON snapshot, the format
// the master archive ships in.
func WriteJSONGzip(w io.Writer, records []*record.Record) error {
	gz, err := gzip.NewWriterLevel(w, gzip.BestCompression)
	if err != nil {
		return errors.Wrap(errors.InternalError, "initializing gzip writer", err)
	}
	if err := WriteJSON(gz, records); err != nil {
		gz.Close()
		return err
	}
	if err := gz.Close(); err != nil {
		return errors.Wrap(errors.PersistenceFailed, "finalizing gzip snapshot", err)
	}
	return nil
}

// ReadJSONGzip reads back a gzip-compressed JSON snapshot.
func ReadJSONGzip(r io.Reader) ([]byte, error) {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return nil, errors.Wrap(errors.BatchUnparseable, "opening gzip snapshot", err)
	}
	defer gz.Close()
	data, err := io.ReadAll(gz)
	if err != nil {
		return nil, errors.Wrap(errors.BatchUnparseable, "reading gzip snapshot", err)
	}
	return data, nil
}
