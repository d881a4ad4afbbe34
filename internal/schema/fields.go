package schema

import (
	"fmt"
	"strconv"

	"drylog/internal/errors"
	"drylog/internal/record"
)

// Kind classifies a field's value space.
type Kind string

const (
	// KindString fields hold free or formatted text
	KindString Kind = "string"
	// KindNumber fields hold optional numeric readings
	KindNumber Kind = "number"
	// KindTriState fields hold yes/no/unset flags
	KindTriState Kind = "tristate"
)

// FieldDescriptor maps one logical field to a strongly-typed accessor
// pair. Descriptors replace dotted-path lookups: they are built and
// validated when the schema loads, and every downstream read or write
// goes through the closures.
type FieldDescriptor struct {
	Key        string // logical key path, e.g. "airVolumes.supply_front.speed"
	Label      string
	CSVHeader  string
	Kind       Kind
	Calculated bool
	InTable    bool
	Types      []record.Type
	Order      int

	Get       func(*record.Record) any // string, float64 or nil
	SetString func(*record.Record, string)
	SetNumber func(*record.Record, *float64)
}

// AppliesTo reports whether the field is valid for a record type.
func (d *FieldDescriptor) AppliesTo(t record.Type) bool {
	for _, rt := range d.Types {
		if rt == t {
			return true
		}
	}
	return false
}

// Number coerces the field's current value to a float, mirroring how
// filters treat stored values: numeric strings count, anything else is
// absent.
func (d *FieldDescriptor) Number(r *record.Record) *float64 {
	switch v := d.Get(r).(type) {
	case float64:
		return &v
	case string:
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return &f
		}
	}
	return nil
}

var bothTypes = []record.Type{record.EvaluationTeam, record.ConditionSetting}
var evalOnly = []record.Type{record.EvaluationTeam}

func buildDescriptors(m *Model, temps []TempPoint) []*FieldDescriptor {
	order := 0
	next := func() int { order++; return order }

	descs := []*FieldDescriptor{
		{
			Key: "dateTime", Label: "日期時間", CSVHeader: "日期時間",
			Kind: KindString, InTable: true, Types: bothTypes, Order: next(),
			Get:       func(r *record.Record) any { return stringOrNil(r.DateTime) },
			SetString: func(r *record.Record, s string) { r.DateTime = s },
		},
		{
			Key: "recordType", Label: "類型", CSVHeader: "類型",
			Kind: KindString, InTable: true, Types: bothTypes, Order: next(),
			Get:       func(r *record.Record) any { return stringOrNil(string(r.RecordType)) },
			SetString: func(r *record.Record, s string) { r.RecordType = record.Type(s) },
		},
		{
			Key: "dryerModel", Label: "機台型號", CSVHeader: "機台型號",
			Kind: KindString, InTable: true, Types: bothTypes, Order: next(),
			Get:       func(r *record.Record) any { return stringOrNil(r.DryerModel) },
			SetString: func(r *record.Record, s string) { r.DryerModel = s },
		},
		{
			Key: "rtoStatus", Label: "RTO啟用狀態", CSVHeader: "RTO啟用狀態",
			Kind: KindTriState, InTable: true, Types: bothTypes, Order: next(),
			Get:       func(r *record.Record) any { return stringOrNil(string(r.RTOStatus)) },
			SetString: func(r *record.Record, s string) { r.RTOStatus = record.ParseTriState(s) },
		},
		{
			Key: "heatingStatus", Label: "升溫狀態", CSVHeader: "升溫狀態",
			Kind: KindTriState, InTable: true, Types: bothTypes, Order: next(),
			Get:       func(r *record.Record) any { return stringOrNil(string(r.HeatingStatus)) },
			SetString: func(r *record.Record, s string) { r.HeatingStatus = record.ParseTriState(s) },
		},
	}

	for _, ap := range m.AirPoints {
		if !ap.Measurable() {
			continue
		}
		pointID := ap.ID
		descs = append(descs,
			&FieldDescriptor{
				Key:   "airVolumes." + pointID + ".speed",
				Label: ap.Label + " 風速", CSVHeader: ap.Label + "_風速(m/s)",
				Kind: KindNumber, InTable: true, Types: evalOnly, Order: next(),
				Get:       airGetter(pointID, func(av *record.AirVolume) *float64 { return av.Speed }),
				SetNumber: airSetter(pointID, func(av *record.AirVolume, v *float64) { av.Speed = v }),
			},
			&FieldDescriptor{
				Key:   "airVolumes." + pointID + ".temp",
				Label: ap.Label + " 溫度", CSVHeader: ap.Label + "_溫度(℃)",
				Kind: KindNumber, InTable: true, Types: evalOnly, Order: next(),
				Get:       airGetter(pointID, func(av *record.AirVolume) *float64 { return av.Temp }),
				SetNumber: airSetter(pointID, func(av *record.AirVolume, v *float64) { av.Temp = v }),
			},
			&FieldDescriptor{
				Key:   "airVolumes." + pointID + ".volume",
				Label: ap.Label + " 風量", CSVHeader: ap.Label + "_風量(CMM)",
				Kind: KindNumber, Calculated: true, InTable: true, Types: evalOnly, Order: next(),
				Get:       airGetter(pointID, func(av *record.AirVolume) *float64 { return av.Volume }),
				SetNumber: airSetter(pointID, func(av *record.AirVolume, v *float64) { av.Volume = v }),
			},
		)
	}

	for _, tp := range temps {
		pointID := tp.ID
		short := tp.ShortLabel()
		for i := 1; i <= 5; i++ {
			probe := i
			descs = append(descs, &FieldDescriptor{
				Key:   fmt.Sprintf("actualTemps.%s.val%d", pointID, probe),
				Label: fmt.Sprintf("%s 實溫%d", short, probe), CSVHeader: fmt.Sprintf("%s_實溫%d(℃)", short, probe),
				Kind: KindNumber, InTable: true, Types: bothTypes, Order: next(),
				Get:       tempGetter(pointID, probe),
				SetNumber: tempSetter(pointID, probe),
			})
		}
		descs = append(descs, &FieldDescriptor{
			Key:   "actualTemps." + pointID + ".diff",
			Label: short + " 溫差", CSVHeader: short + "_溫差(℃)",
			Kind: KindNumber, Calculated: true, InTable: true, Types: bothTypes, Order: next(),
			Get: func(r *record.Record) any {
				if at := r.ActualTemps[pointID]; at != nil && at.Diff != nil {
					return *at.Diff
				}
				return nil
			},
			SetNumber: func(r *record.Record, v *float64) {
				ensureTemp(r, pointID).Diff = v
			},
		})
	}

	descs = append(descs, &FieldDescriptor{
		Key: "remark", Label: "備註", CSVHeader: "備註",
		Kind: KindString, InTable: true, Types: bothTypes, Order: next(),
		Get:       func(r *record.Record) any { return stringOrNil(r.Remark) },
		SetString: func(r *record.Record, s string) { r.Remark = s },
	})

	return descs
}

func validateDescriptors(model string, descs []*FieldDescriptor) error {
	keys := make(map[string]bool, len(descs))
	headers := make(map[string]bool, len(descs))
	for _, d := range descs {
		if d.Key == "" || d.CSVHeader == "" {
			return errors.New(errors.SchemaInvalid, fmt.Sprintf("model %s declares a field without key or header", model))
		}
		if keys[d.Key] {
			return errors.New(errors.SchemaInvalid, fmt.Sprintf("model %s declares duplicate field key %s", model, d.Key))
		}
		if headers[d.CSVHeader] {
			return errors.New(errors.SchemaInvalid, fmt.Sprintf("model %s declares duplicate CSV header %s", model, d.CSVHeader))
		}
		keys[d.Key] = true
		headers[d.CSVHeader] = true
		if d.Get == nil {
			return errors.New(errors.SchemaInvalid, fmt.Sprintf("model %s field %s has no getter", model, d.Key))
		}
		switch d.Kind {
		case KindNumber:
			if d.SetNumber == nil {
				return errors.New(errors.SchemaInvalid, fmt.Sprintf("model %s numeric field %s has no setter", model, d.Key))
			}
		case KindString, KindTriState:
			if d.SetString == nil {
				return errors.New(errors.SchemaInvalid, fmt.Sprintf("model %s text field %s has no setter", model, d.Key))
			}
		default:
			return errors.New(errors.SchemaInvalid, fmt.Sprintf("model %s field %s has unknown kind %q", model, d.Key, d.Kind))
		}
	}
	return nil
}

func stringOrNil(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func ensureAir(r *record.Record, pointID string) *record.AirVolume {
	if r.AirVolumes == nil {
		r.AirVolumes = make(map[string]*record.AirVolume)
	}
	av := r.AirVolumes[pointID]
	if av == nil {
		av = &record.AirVolume{}
		r.AirVolumes[pointID] = av
	}
	return av
}

func ensureTemp(r *record.Record, pointID string) *record.ActualTemp {
	if r.ActualTemps == nil {
		r.ActualTemps = make(map[string]*record.ActualTemp)
	}
	at := r.ActualTemps[pointID]
	if at == nil {
		at = &record.ActualTemp{}
		r.ActualTemps[pointID] = at
	}
	return at
}

func airGetter(pointID string, pick func(*record.AirVolume) *float64) func(*record.Record) any {
	return func(r *record.Record) any {
		if av := r.AirVolumes[pointID]; av != nil {
			if v := pick(av); v != nil {
				return *v
			}
		}
		return nil
	}
}

func airSetter(pointID string, assign func(*record.AirVolume, *float64)) func(*record.Record, *float64) {
	return func(r *record.Record, v *float64) {
		assign(ensureAir(r, pointID), v)
	}
}

func tempGetter(pointID string, probe int) func(*record.Record) any {
	return func(r *record.Record) any {
		if v := r.ActualTemps[pointID].Val(probe); v != nil {
			return *v
		}
		return nil
	}
}

func tempSetter(pointID string, probe int) func(*record.Record, *float64) {
	return func(r *record.Record, v *float64) {
		ensureTemp(r, pointID).SetVal(probe, v)
	}
}
