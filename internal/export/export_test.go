package export

import (
	"bytes"
	"encoding/json"
	"testing"

	"drylog/internal/record"
	"drylog/internal/schema"
)

func mustSchemas(t *testing.T) *schema.Provider {
	t.Helper()
	p, err := schema.Load()
	if err != nil {
		t.Fatalf("schema.Load() error = %v", err)
	}
	return p
}

func sampleRecord() *record.Record {
	return &record.Record{
		ID:         "r1",
		RecordType: record.EvaluationTeam,
		DryerModel: "vt8",
		DateTime:   "2025-03-01T08:30",
		RTOStatus:  record.Yes,
		Remark:     "shakedown",
		AirVolumes: map[string]*record.AirVolume{
			"supply_front": {
				Speed:  record.Float(5.2),
				Temp:   record.Float(80),
				Volume: record.Float(50.7),
			},
		},
	}
}

func TestRowsRendersSourceTextForms(t *testing.T) {
	schemas := mustSchemas(t)
	headers, rows := Rows([]*record.Record{sampleRecord()}, record.EvaluationTeam, "vt8", schemas)

	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rows))
	}
	row := rows[0]
	if row["類型"] != "評價TEAM用" {
		t.Errorf("類型 = %q", row["類型"])
	}
	if row["RTO啟用狀態"] != "有" {
		t.Errorf("RTO啟用狀態 = %q", row["RTO啟用狀態"])
	}
	if row["機台型號"] != "VT8" {
		t.Errorf("機台型號 = %q, want upper-case source form", row["機台型號"])
	}
	if row["供風_前段_風速(m/s)"] != "5.2" {
		t.Errorf("speed cell = %q", row["供風_前段_風速(m/s)"])
	}
	if row["供風_前段_風量(CMM)"] != "50.7" {
		t.Errorf("volume cell = %q", row["供風_前段_風量(CMM)"])
	}
	// Unmeasured points render empty, not zero.
	if row["排風_前段_風速(m/s)"] != "" {
		t.Errorf("absent cell = %q, want empty", row["排風_前段_風速(m/s)"])
	}
	if headers[0] != "日期時間" {
		t.Errorf("first header = %q", headers[0])
	}
}

func TestRowsFiltersScope(t *testing.T) {
	schemas := mustSchemas(t)
	other := sampleRecord()
	other.ID = "r2"
	other.RecordType = record.ConditionSetting

	_, rows := Rows([]*record.Record{sampleRecord(), other}, record.EvaluationTeam, "vt8", schemas)
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want only the evaluation record", len(rows))
	}
}

func TestRowsConditionSettingOmitsAirColumns(t *testing.T) {
	schemas := mustSchemas(t)
	headers, _ := Rows(nil, record.ConditionSetting, "vt8", schemas)
	for _, h := range headers {
		if h == "供風_前段_風速(m/s)" {
			t.Fatalf("condition-setting export should not carry air columns, got %v", headers)
		}
	}
}

func TestTableRowsUsesDisplayColumns(t *testing.T) {
	schemas := mustSchemas(t)
	headers, rows := TableRows([]*record.Record{sampleRecord()}, record.EvaluationTeam, "vt8", schemas)

	// Table columns use display labels, not the CSV export headers.
	seen := make(map[string]bool)
	for _, h := range headers {
		seen[h] = true
	}
	if !seen["供風_前段 風速"] || seen["供風_前段_風速(m/s)"] {
		t.Fatalf("headers = %v, want display labels", headers)
	}
	if rows[0]["日期時間"] != "2025-03-01T08:30" {
		t.Errorf("dateTime cell = %q", rows[0]["日期時間"])
	}
}

func TestUnionRowsCoversAllModels(t *testing.T) {
	schemas := mustSchemas(t)
	vt8 := sampleRecord()
	vt5 := sampleRecord()
	vt5.ID = "r2"
	vt5.DryerModel = "vt5"

	headers, rows := UnionRows([]*record.Record{vt8, vt5}, record.EvaluationTeam, schemas)

	seen := make(map[string]bool)
	for _, h := range headers {
		if seen[h] {
			t.Fatalf("duplicate header %q", h)
		}
		seen[h] = true
	}
	if !seen["供風_前段_風速(m/s)"] {
		t.Errorf("union headers missing vt8 column: %v", headers)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
}

func TestJSONSnapshot(t *testing.T) {
	data, err := JSON(nil)
	if err != nil {
		t.Fatalf("JSON(nil) error = %v", err)
	}
	if string(data) != "[]" {
		t.Errorf("empty snapshot = %q, want []", data)
	}

	data, err = JSON([]*record.Record{sampleRecord()})
	if err != nil {
		t.Fatalf("JSON() error = %v", err)
	}
	var back []*record.Record
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("snapshot does not parse: %v", err)
	}
	if back[0].ID != "r1" || back[0].RecordType != record.EvaluationTeam {
		t.Errorf("round trip lost fields: %+v", back[0])
	}
}

func TestGzipRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSONGzip(&buf, []*record.Record{sampleRecord()}); err != nil {
		t.Fatalf("WriteJSONGzip() error = %v", err)
	}

	data, err := ReadJSONGzip(&buf)
	if err != nil {
		t.Fatalf("ReadJSONGzip() error = %v", err)
	}
	var back []*record.Record
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("payload does not parse: %v", err)
	}
	if len(back) != 1 || back[0].Remark != "shakedown" {
		t.Errorf("round trip = %+v", back)
	}
}

func TestCSVIncludesBOM(t *testing.T) {
	schemas := mustSchemas(t)
	var buf bytes.Buffer
	if err := CSV(&buf, []*record.Record{sampleRecord()}, record.EvaluationTeam, "vt8", schemas); err != nil {
		t.Fatalf("CSV() error = %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte{0xEF, 0xBB, 0xBF}) {
		t.Error("csv output missing UTF-8 BOM")
	}
}
