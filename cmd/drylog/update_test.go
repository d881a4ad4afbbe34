package main

import (
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

func seededRecord() *record.Record {
	zone1 := &record.ActualTemp{}
	zone1.SetVal(1, record.Float(85.5))
	zone1.SetVal(3, record.Float(86.0))
	return &record.Record{
		ID:         "r1",
		RecordType: record.EvaluationTeam,
		DryerModel: "vt8",
		DateTime:   "2025-03-01T08:30",
		AirVolumes: map[string]*record.AirVolume{
			"supply_front": {Speed: record.Float(5.2), Temp: record.Float(80)},
			"supply_rear":  {Speed: record.Float(4.9), Temp: record.Float(78)},
		},
		ActualTemps: map[string]*record.ActualTemp{"zone1": zone1},
	}
}

func TestBuildUpdatePatchKeepsSiblingAirPoints(t *testing.T) {
	schemas := mustSchemas(t)
	current := seededRecord()

	patch, err := buildUpdatePatch(current, "", "", "", "",
		[]string{"airVolumes.supply_front.speed=4.8"}, schemas)
	if err != nil {
		t.Fatalf("buildUpdatePatch() error = %v", err)
	}

	front := patch.AirVolumes["supply_front"]
	if front == nil || front.Speed == nil || *front.Speed != 4.8 {
		t.Fatalf("supply_front = %+v, want speed 4.8", front)
	}
	rear := patch.AirVolumes["supply_rear"]
	if rear == nil || rear.Speed == nil || *rear.Speed != 4.9 {
		t.Fatalf("supply_rear = %+v, one-point set must not drop its siblings", rear)
	}
	if patch.ActualTemps["zone1"].Val(1) == nil {
		t.Error("temperature readings dropped by an air-point set")
	}

	// The seed is a copy; the stored record only changes through Update.
	if *current.AirVolumes["supply_front"].Speed != 5.2 {
		t.Error("building a patch mutated the current record")
	}
}

func TestBuildUpdatePatchKeepsSiblingTempPoints(t *testing.T) {
	schemas := mustSchemas(t)
	current := seededRecord()

	patch, err := buildUpdatePatch(current, "", "", "", "",
		[]string{"actualTemps.zone1.val2=84.0"}, schemas)
	if err != nil {
		t.Fatalf("buildUpdatePatch() error = %v", err)
	}

	zone1 := patch.ActualTemps["zone1"]
	if zone1.Val(2) == nil || *zone1.Val(2) != 84.0 {
		t.Fatalf("zone1 val2 = %v, want 84.0", zone1.Val(2))
	}
	if zone1.Val(1) == nil || *zone1.Val(1) != 85.5 {
		t.Errorf("zone1 val1 = %v, sibling probe reading lost", zone1.Val(1))
	}
	if patch.AirVolumes["supply_rear"] == nil {
		t.Error("air readings dropped by a temperature set")
	}
}

func TestBuildUpdatePatchWithoutSetsLeavesMapsNil(t *testing.T) {
	schemas := mustSchemas(t)

	patch, err := buildUpdatePatch(seededRecord(), "", "", "", "touched up", nil, schemas)
	if err != nil {
		t.Fatalf("buildUpdatePatch() error = %v", err)
	}
	// Nil maps mean "keep what is stored" in a shallow-merge patch.
	if patch.AirVolumes != nil || patch.ActualTemps != nil {
		t.Errorf("patch maps = %v / %v, want nil when no readings change",
			patch.AirVolumes, patch.ActualTemps)
	}
	if patch.Remark != "touched up" {
		t.Errorf("Remark = %q", patch.Remark)
	}
}

func TestBuildUpdatePatchRejectsBadSet(t *testing.T) {
	schemas := mustSchemas(t)

	if _, err := buildUpdatePatch(seededRecord(), "", "", "", "",
		[]string{"airVolumes.supply_front.volume=99"}, schemas); err == nil {
		t.Error("derived field assignment accepted")
	}
	if _, err := buildUpdatePatch(seededRecord(), "", "", "", "",
		[]string{"no-equals-sign"}, schemas); err == nil {
		t.Error("malformed assignment accepted")
	}
}
