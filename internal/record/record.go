// Package record defines the canonical measurement-session model and the
// single normalization pass applied at every ingestion boundary.
package record

import (
	"encoding/json"
	"math"
)

// Type identifies which field subset and table columns apply to a record.
type Type string

const (
	// EvaluationTeam records are taken by the evaluation team
	EvaluationTeam Type = "evaluationTeam"
	// ConditionSetting records document condition-setting runs
	ConditionSetting Type = "conditionSetting"
)

// TriState is an optional yes/no flag. The zero value means unset.
type TriState string

const (
	// Yes means the flag is set affirmatively
	Yes TriState = "yes"
	// No means the flag is set negatively
	No TriState = "no"
	// Unset means the flag carries no value
	Unset TriState = ""
)

// PointStatus describes whether an air measurement point can be read.
type PointStatus string

const (
	// StatusNormal points carry numeric readings
	StatusNormal PointStatus = "normal"
	// StatusDangerous points are physically unsafe to measure
	StatusDangerous PointStatus = "dangerous"
	// StatusUnmeasurable points cannot be measured at all
	StatusUnmeasurable PointStatus = "unmeasurable"
)

// AirVolume holds the readings at one air measurement point.
// Volume is derived from Speed, Temp and the point's fixed
// cross-sectional area; it is recomputed, never independently authored.
type AirVolume struct {
	Speed  *float64    `json:"speed,omitempty"`
	Temp   *float64    `json:"temp,omitempty"`
	Volume *float64    `json:"volume"`
	Status PointStatus `json:"status,omitempty"`
}

// ActualTemp holds the five probe readings at one temperature point.
// Diff is always re-derivable as max-min over the non-nil values.
type ActualTemp struct {
	Val1 *float64 `json:"val1"`
	Val2 *float64 `json:"val2"`
	Val3 *float64 `json:"val3"`
	Val4 *float64 `json:"val4"`
	Val5 *float64 `json:"val5"`
	Diff *float64 `json:"diff"`
}

// Vals returns the five probe values in order.
func (a *ActualTemp) Vals() [5]*float64 {
	return [5]*float64{a.Val1, a.Val2, a.Val3, a.Val4, a.Val5}
}

// SetVal sets probe value i (1-based).
func (a *ActualTemp) SetVal(i int, v *float64) {
	switch i {
	case 1:
		a.Val1 = v
	case 2:
		a.Val2 = v
	case 3:
		a.Val3 = v
	case 4:
		a.Val4 = v
	case 5:
		a.Val5 = v
	}
}

// Val returns probe value i (1-based), or nil for an out-of-range index.
func (a *ActualTemp) Val(i int) *float64 {
	if a == nil || i < 1 || i > 5 {
		return nil
	}
	return a.Vals()[i-1]
}

// Record is one dryer measurement session.
type Record struct {
	ID            string                 `json:"id"`
	RecordType    Type                   `json:"recordType"`
	DryerModel    string                 `json:"dryerModel"`
	DateTime      string                 `json:"dateTime,omitempty"` // local, minute precision: 2006-01-02T15:04
	RTOStatus     TriState               `json:"rtoStatus,omitempty"`
	HeatingStatus TriState               `json:"heatingStatus,omitempty"`
	Remark        string                 `json:"remark,omitempty"`
	AirVolumes    map[string]*AirVolume  `json:"airVolumes,omitempty"`
	ActualTemps   map[string]*ActualTemp `json:"actualTemps,omitempty"`
	RawChartData  json.RawMessage        `json:"rawChartData,omitempty"`
	IsSynced      bool                   `json:"isSynced"`
}

// HasRawChartData reports whether the record embeds a raw time-series
// import. The payload itself is opaque to the core.
func (r *Record) HasRawChartData() bool {
	return len(r.RawChartData) > 0 && string(r.RawChartData) != "null"
}

// Clone returns a deep copy of the record. Store operations mutate
// clones and swap them in so failures never leave a half-applied record.
func (r *Record) Clone() *Record {
	c := *r
	if r.AirVolumes != nil {
		c.AirVolumes = make(map[string]*AirVolume, len(r.AirVolumes))
		for k, v := range r.AirVolumes {
			av := *v
			c.AirVolumes[k] = &av
		}
	}
	if r.ActualTemps != nil {
		c.ActualTemps = make(map[string]*ActualTemp, len(r.ActualTemps))
		for k, v := range r.ActualTemps {
			at := *v
			c.ActualTemps[k] = &at
		}
	}
	if r.RawChartData != nil {
		c.RawChartData = append(json.RawMessage(nil), r.RawChartData...)
	}
	return &c
}

// ApplyPatch shallow-merges patch into the record the way the edit form
// resubmits: scalar fields present in the patch override, absent ones
// are preserved; a non-nil airVolumes or actualTemps map replaces the
// stored map wholesale.
func (r *Record) ApplyPatch(patch *Record) {
	if patch.RecordType != "" {
		r.RecordType = patch.RecordType
	}
	if patch.DryerModel != "" {
		r.DryerModel = patch.DryerModel
	}
	if patch.DateTime != "" {
		r.DateTime = patch.DateTime
	}
	if patch.RTOStatus != Unset {
		r.RTOStatus = patch.RTOStatus
	}
	if patch.HeatingStatus != Unset {
		r.HeatingStatus = patch.HeatingStatus
	}
	if patch.Remark != "" {
		r.Remark = patch.Remark
	}
	if patch.AirVolumes != nil {
		r.AirVolumes = patch.AirVolumes
	}
	if patch.ActualTemps != nil {
		r.ActualTemps = patch.ActualTemps
	}
	if patch.RawChartData != nil {
		r.RawChartData = patch.RawChartData
	}
}

// Float returns a pointer to v.
func Float(v float64) *float64 {
	return &v
}

func round(v float64, decimals int) float64 {
	scale := math.Pow10(decimals)
	return math.Round(v*scale) / scale
}
