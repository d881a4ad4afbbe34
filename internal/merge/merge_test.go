package merge

import (
	"testing"

	"drylog/internal/csvio"
	"drylog/internal/errors"
	"drylog/internal/record"
	"drylog/internal/schema"
	"drylog/internal/slogutil"
)

func mustSchemas(t *testing.T) *schema.Provider {
	t.Helper()
	p, err := schema.Load()
	if err != nil {
		t.Fatalf("schema.Load() error = %v", err)
	}
	return p
}

func parseCSV(t *testing.T, doc string) *csvio.Table {
	t.Helper()
	table, err := csvio.ParseBytes([]byte(doc))
	if err != nil {
		t.Fatalf("ParseBytes() error = %v", err)
	}
	return table
}

func TestFromTableProjectsRow(t *testing.T) {
	schemas := mustSchemas(t)
	table := parseCSV(t, "類型,機台型號,日期時間,RTO啟用狀態,供風_前段_風速(m/s),供風_前段_溫度(℃),備註\n"+
		"評價,VT8,2025-03-01T08:30,有,5.2,80,first run\n")

	records, rep := FromTable(table, schemas, slogutil.NewDiscardLogger())
	if rep.Projected != 1 || len(records) != 1 {
		t.Fatalf("report = %+v, records = %d", rep, len(records))
	}

	r := records[0]
	if r.RecordType != record.EvaluationTeam {
		t.Errorf("RecordType = %q, want evaluationTeam", r.RecordType)
	}
	if r.DryerModel != "vt8" {
		t.Errorf("DryerModel = %q, want vt8", r.DryerModel)
	}
	if r.RTOStatus != record.Yes {
		t.Errorf("RTOStatus = %q, want yes", r.RTOStatus)
	}
	av := r.AirVolumes["supply_front"]
	if av == nil || av.Speed == nil || *av.Speed != 5.2 {
		t.Fatalf("supply_front = %+v, want speed 5.2", av)
	}
	if r.Remark != "first run" {
		t.Errorf("Remark = %q", r.Remark)
	}
}

func TestFromTableBlankModelDefaultsToVT8(t *testing.T) {
	schemas := mustSchemas(t)
	table := parseCSV(t, "類型,機台型號\n條件設定,\n")

	records, rep := FromTable(table, schemas, slogutil.NewDiscardLogger())
	if rep.Projected != 1 {
		t.Fatalf("report = %+v", rep)
	}
	if records[0].DryerModel != "vt8" {
		t.Errorf("DryerModel = %q, want vt8", records[0].DryerModel)
	}
	if records[0].RecordType != record.ConditionSetting {
		t.Errorf("RecordType = %q, want conditionSetting", records[0].RecordType)
	}
}

func TestFromTableSkipsBadRows(t *testing.T) {
	schemas := mustSchemas(t)
	table := parseCSV(t, "類型,機台型號\n"+
		"評價,vt8\n"+
		"測試用,vt8\n"+ // unrecognized type
		"評價,vt99\n") // unsupported model

	records, rep := FromTable(table, schemas, slogutil.NewDiscardLogger())
	if len(records) != 1 {
		t.Fatalf("records = %d, want 1", len(records))
	}
	if rep.SkippedType != 1 || rep.SkippedModel != 1 {
		t.Errorf("report = %+v, want one type skip and one model skip", rep)
	}
}

func TestFromTableAbsentCells(t *testing.T) {
	schemas := mustSchemas(t)
	table := parseCSV(t, "類型,供風_前段_風速(m/s),供風_前段_溫度(℃),排風_前段_風速(m/s),RTO啟用狀態\n"+
		"評價,null,  ,not-a-number,無\n")

	records, _ := FromTable(table, schemas, slogutil.NewDiscardLogger())
	r := records[0]

	if av := r.AirVolumes["supply_front"]; av != nil && (av.Speed != nil || av.Temp != nil) {
		t.Errorf("null/blank cells should stay absent, got %+v", av)
	}
	if av := r.AirVolumes["exhaust_front"]; av != nil && av.Speed != nil {
		t.Errorf("unparseable number should stay absent, got %v", *av.Speed)
	}
	if r.RTOStatus != record.No {
		t.Errorf("RTOStatus = %q, want no", r.RTOStatus)
	}
}

func TestFromTableIgnoresUnknownHeaders(t *testing.T) {
	schemas := mustSchemas(t)
	table := parseCSV(t, "類型,完全未知的欄位\n評價,whatever\n")

	records, rep := FromTable(table, schemas, slogutil.NewDiscardLogger())
	if rep.Projected != 1 || len(records) != 1 {
		t.Fatalf("report = %+v", rep)
	}
}

func TestFromJSON(t *testing.T) {
	data := []byte(`[{"id":"r1","recordType":"evaluationTeam","dryerModel":"vt8","dateTime":"2025-03-01T08:00"}]`)
	records, err := FromJSON(data)
	if err != nil {
		t.Fatalf("FromJSON() error = %v", err)
	}
	if len(records) != 1 || records[0].ID != "r1" {
		t.Fatalf("records = %v", records)
	}

	if _, err := FromJSON([]byte("{not json")); !errors.HasCode(err, errors.BatchUnparseable) {
		t.Errorf("malformed input error = %v, want BATCH_UNPARSEABLE", err)
	}
}

func TestBuildMasterLaterBatchesWin(t *testing.T) {
	schemas := mustSchemas(t)
	stale := &record.Record{
		ID: "r1", RecordType: record.EvaluationTeam, DryerModel: "vt8",
		DateTime: "2025-03-01T08:00", Remark: "stale",
	}
	fresh := &record.Record{
		ID: "r1", RecordType: record.EvaluationTeam, DryerModel: "vt8",
		DateTime: "2025-03-01T08:00", Remark: "fresh",
	}
	other := &record.Record{
		ID: "r2", RecordType: record.EvaluationTeam, DryerModel: "vt8",
		DateTime: "2025-03-02T08:00",
	}

	master := BuildMaster(schemas,
		[]*record.Record{stale, other},
		[]*record.Record{fresh},
	)

	if len(master) != 2 {
		t.Fatalf("master has %d records, want 2", len(master))
	}
	// Newest first.
	if master[0].ID != "r2" || master[1].ID != "r1" {
		t.Fatalf("order = [%s %s], want [r2 r1]", master[0].ID, master[1].ID)
	}
	if master[1].Remark != "fresh" {
		t.Errorf("Remark = %q, daily batch should supersede the stale copy", master[1].Remark)
	}
	for _, r := range master {
		if !r.IsSynced {
			t.Errorf("master record %s not marked synced", r.ID)
		}
	}
	if stale.Remark != "stale" {
		t.Errorf("input batch mutated")
	}
}

func TestBuildMasterRecomputesDerived(t *testing.T) {
	schemas := mustSchemas(t)
	r := &record.Record{
		ID: "r1", RecordType: record.EvaluationTeam, DryerModel: "vt8",
		DateTime: "2025-03-01T08:00",
		AirVolumes: map[string]*record.AirVolume{
			"supply_front": {
				Speed:  record.Float(5),
				Temp:   record.Float(20),
				Volume: record.Float(999), // imported value is untrusted
			},
		},
	}

	// supply_front duct area is 0.196 m²: 5 m/s at 20 ℃ gives 58.8 CMM.
	master := BuildMaster(schemas, []*record.Record{r})
	got := master[0].AirVolumes["supply_front"].Volume
	if got == nil || *got != 58.8 {
		t.Fatalf("Volume = %v, want recomputed 58.8", got)
	}
}
