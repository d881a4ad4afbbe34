package record

import (
	"strings"

	"github.com/google/uuid"
)

// The two textual type labels that appear in externally-sourced data.
// Type inference is a substring match against these phrases; rows
// matching neither are handled by the caller (kept lowercased at the
// snapshot boundary, skipped with a warning at the CSV boundary).
const (
	evaluationPhrase = "評價"
	conditionPhrase  = "條件設定"
)

// ParseType canonicalizes a free-form type label. It accepts the two
// known source phrases by substring and the canonical enum values
// case-insensitively. ok is false when the label matches neither.
func ParseType(s string) (Type, bool) {
	switch {
	case strings.Contains(s, evaluationPhrase):
		return EvaluationTeam, true
	case strings.Contains(s, conditionPhrase):
		return ConditionSetting, true
	}
	switch strings.ToLower(strings.TrimSpace(s)) {
	case strings.ToLower(string(EvaluationTeam)):
		return EvaluationTeam, true
	case strings.ToLower(string(ConditionSetting)):
		return ConditionSetting, true
	}
	return "", false
}

// TypeLabel renders a canonical type back to its source text form.
func TypeLabel(t Type) string {
	if t == EvaluationTeam {
		return "評價TEAM用"
	}
	return "條件設定用"
}

// ParseTriState maps the source text forms 有/無 (and the canonical
// yes/no) to a TriState. Anything else is Unset.
func ParseTriState(s string) TriState {
	switch strings.TrimSpace(s) {
	case "有", string(Yes):
		return Yes
	case "無", string(No):
		return No
	}
	return Unset
}

// TriStateLabel renders a TriState back to its source text form.
func TriStateLabel(t TriState) string {
	switch t {
	case Yes:
		return "有"
	case No:
		return "無"
	}
	return ""
}

// NewID returns a fresh opaque record identifier.
func NewID() string {
	return uuid.New().String()
}

// EnsureID assigns a fresh id if the record has none.
func (r *Record) EnsureID() {
	if r.ID == "" {
		r.ID = NewID()
	}
}

// Normalize applies the canonical ingestion-time invariants in place:
// an id is assigned if absent, dryerModel is lowercased and recordType
// is canonicalized from its known textual variants. Unrecognized type
// labels are kept lowercased rather than dropped; strict skipping is
// the CSV projection's policy, not the snapshot boundary's.
func (r *Record) Normalize() {
	r.EnsureID()
	r.DryerModel = strings.ToLower(strings.TrimSpace(r.DryerModel))
	if t, ok := ParseType(string(r.RecordType)); ok {
		r.RecordType = t
	} else {
		r.RecordType = Type(strings.ToLower(string(r.RecordType)))
	}
}

// AirPointSpec is the slice of schema data derived-field recomputation
// needs: the point's fixed cross-sectional area and whether it carries
// numeric readings at all.
type AirPointSpec struct {
	Area       float64
	Status     PointStatus
	Measurable bool
}

// CMM conversion: duct speed is measured in m/s, volume reported in
// m³/min, normalized to 20 °C against the measured air temperature.
const (
	secondsPerMinute = 60.0
	kelvinOffset     = 273.15
	referenceKelvin  = kelvinOffset + 20.0
)

// AirVolumeFor applies the fixed physical formula to one point reading.
// Returns nil when speed or temperature is missing.
func AirVolumeFor(speed, temp *float64, area float64) *float64 {
	if speed == nil || temp == nil {
		return nil
	}
	v := *speed * area * secondsPerMinute * referenceKelvin / (kelvinOffset + *temp)
	return Float(round(v, 1))
}

// TempDiffFor derives max-min over the non-nil probe values, rounded to
// two decimals. Returns nil when no values are present.
func TempDiffFor(vals [5]*float64) *float64 {
	var lo, hi float64
	seen := false
	for _, v := range vals {
		if v == nil {
			continue
		}
		if !seen {
			lo, hi = *v, *v
			seen = true
			continue
		}
		if *v < lo {
			lo = *v
		}
		if *v > hi {
			hi = *v
		}
	}
	if !seen {
		return nil
	}
	return Float(round(hi-lo, 2))
}

// RecomputeDerived re-derives every calculated field from its inputs:
// each temperature point's diff and, for points the schema marks
// measurable, each air point's volume. Points absent from the spec map
// keep their readings but have their volume cleared rather than
// trusting an imported value.
func (r *Record) RecomputeDerived(points map[string]AirPointSpec) {
	for key, av := range r.AirVolumes {
		if av == nil {
			continue
		}
		spec, ok := points[key]
		if !ok || !spec.Measurable {
			av.Volume = nil
			if ok {
				av.Status = spec.Status
			}
			continue
		}
		av.Status = spec.Status
		av.Volume = AirVolumeFor(av.Speed, av.Temp, spec.Area)
	}
	for _, at := range r.ActualTemps {
		if at == nil {
			continue
		}
		at.Diff = TempDiffFor(at.Vals())
	}
}
