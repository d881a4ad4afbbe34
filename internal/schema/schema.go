// Package schema provides the per-model field and measurement-point
// topology. Declarations live in embedded TOML files and are compiled
// at load time into a typed field-descriptor table, so key-path access
// is validated once here instead of at every use site.
package schema

import (
	"embed"
	"fmt"
	"sort"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"drylog/internal/errors"
	"drylog/internal/record"
)

//go:embed schemas/*.toml
var schemaFS embed.FS

// DefaultModel is assumed when an import row leaves the model blank.
const DefaultModel = "vt8"

// AirPoint is one schema-defined air measurement location.
type AirPoint struct {
	ID     string             `toml:"id"`
	Label  string             `toml:"label"`
	Duct   string             `toml:"duct"`
	Area   float64            `toml:"area"` // cross-section, m²
	Status record.PointStatus `toml:"status"`
}

// Measurable reports whether the point carries numeric readings.
func (p AirPoint) Measurable() bool {
	return p.Status == record.StatusNormal
}

// TempPoint is one schema-defined temperature measurement location.
type TempPoint struct {
	ID    string `toml:"id"`
	Label string `toml:"label"`
}

// ShortLabel strips the shared label prefix for chart axes.
func (p TempPoint) ShortLabel() string {
	return strings.TrimPrefix(p.Label, "技術溫測實溫_")
}

// Model is the topology of one dryer model.
type Model struct {
	Code      string     `toml:"code"`
	Label     string     `toml:"label"`
	AirPoints []AirPoint `toml:"air_points"`
}

type tempsFile struct {
	ProbeLines []string    `toml:"probe_lines"`
	Points     []TempPoint `toml:"points"`
}

// Provider serves model topologies and compiled field descriptors.
type Provider struct {
	models     map[string]*Model
	modelOrder []string
	tempPoints []TempPoint
	probeLines []string
	fields     map[string][]*FieldDescriptor
	byHeader   map[string]map[string]*FieldDescriptor
	byKey      map[string]map[string]*FieldDescriptor
}

// Load parses and validates the embedded schema declarations.
func Load() (*Provider, error) {
	entries, err := schemaFS.ReadDir("schemas")
	if err != nil {
		return nil, errors.Wrap(errors.SchemaInvalid, "failed to read embedded schemas", err)
	}

	p := &Provider{
		models:   make(map[string]*Model),
		fields:   make(map[string][]*FieldDescriptor),
		byHeader: make(map[string]map[string]*FieldDescriptor),
		byKey:    make(map[string]map[string]*FieldDescriptor),
	}

	for _, entry := range entries {
		data, err := schemaFS.ReadFile("schemas/" + entry.Name())
		if err != nil {
			return nil, errors.Wrap(errors.SchemaInvalid, "failed to read "+entry.Name(), err)
		}

		if entry.Name() == "temps.toml" {
			var tf tempsFile
			if err := toml.Unmarshal(data, &tf); err != nil {
				return nil, errors.Wrap(errors.SchemaInvalid, "failed to parse temps.toml", err)
			}
			p.tempPoints = tf.Points
			p.probeLines = tf.ProbeLines
			continue
		}

		var m Model
		if err := toml.Unmarshal(data, &m); err != nil {
			return nil, errors.Wrap(errors.SchemaInvalid, "failed to parse "+entry.Name(), err)
		}
		if err := validateModel(&m); err != nil {
			return nil, err
		}
		p.models[m.Code] = &m
		p.modelOrder = append(p.modelOrder, m.Code)
	}
	sort.Strings(p.modelOrder)

	if err := validateTemps(p.tempPoints, p.probeLines); err != nil {
		return nil, err
	}
	if _, ok := p.models[DefaultModel]; !ok {
		return nil, errors.New(errors.SchemaInvalid, "default model "+DefaultModel+" is not declared")
	}

	// Compile and validate the descriptor tables up front so key-path
	// access cannot fail later.
	for code, m := range p.models {
		descs := buildDescriptors(m, p.tempPoints)
		if err := validateDescriptors(code, descs); err != nil {
			return nil, err
		}
		p.fields[code] = descs
		p.byHeader[code] = make(map[string]*FieldDescriptor, len(descs))
		p.byKey[code] = make(map[string]*FieldDescriptor, len(descs))
		for _, d := range descs {
			p.byHeader[code][d.CSVHeader] = d
			p.byKey[code][d.Key] = d
		}
	}

	return p, nil
}

func validateModel(m *Model) error {
	if m.Code == "" || m.Code != strings.ToLower(m.Code) {
		return errors.New(errors.SchemaInvalid, fmt.Sprintf("model code %q must be non-empty lowercase", m.Code))
	}
	seen := make(map[string]bool, len(m.AirPoints))
	for _, ap := range m.AirPoints {
		if ap.ID == "" {
			return errors.New(errors.SchemaInvalid, "air point without id in model "+m.Code)
		}
		if seen[ap.ID] {
			return errors.New(errors.SchemaInvalid, fmt.Sprintf("duplicate air point %q in model %s", ap.ID, m.Code))
		}
		seen[ap.ID] = true
		switch ap.Status {
		case record.StatusNormal:
			if ap.Area <= 0 {
				return errors.New(errors.SchemaInvalid, fmt.Sprintf("air point %q in model %s needs a positive area", ap.ID, m.Code))
			}
		case record.StatusDangerous, record.StatusUnmeasurable:
		default:
			return errors.New(errors.SchemaInvalid, fmt.Sprintf("air point %q in model %s has unknown status %q", ap.ID, m.Code, ap.Status))
		}
	}
	return nil
}

func validateTemps(points []TempPoint, lines []string) error {
	if len(points) == 0 {
		return errors.New(errors.SchemaInvalid, "no temperature points declared")
	}
	if len(lines) != 5 {
		return errors.New(errors.SchemaInvalid, fmt.Sprintf("expected 5 probe lines, got %d", len(lines)))
	}
	seen := make(map[string]bool, len(points))
	for _, tp := range points {
		if tp.ID == "" || seen[tp.ID] {
			return errors.New(errors.SchemaInvalid, "temperature points must have unique non-empty ids")
		}
		seen[tp.ID] = true
	}
	return nil
}

// Supported reports whether code names a declared dryer model.
func (p *Provider) Supported(code string) bool {
	_, ok := p.models[strings.ToLower(code)]
	return ok
}

// SupportedModels returns the declared model codes in stable order.
func (p *Provider) SupportedModels() []string {
	return append([]string(nil), p.modelOrder...)
}

// Model returns the topology for a model code.
func (p *Provider) Model(code string) (*Model, bool) {
	m, ok := p.models[strings.ToLower(code)]
	return m, ok
}

// TempPoints returns the canonical temperature points.
func (p *Provider) TempPoints() []TempPoint {
	return p.tempPoints
}

// ProbeLines returns the five probe line display names.
func (p *Provider) ProbeLines() []string {
	return p.probeLines
}

// AirPointLabel resolves a point id to its display label for a model.
// ok is false when the model or point is unknown; callers fall back to
// the raw key (models may legitimately diverge between two records).
func (p *Provider) AirPointLabel(model, pointID string) (string, bool) {
	m, ok := p.models[strings.ToLower(model)]
	if !ok {
		return "", false
	}
	for _, ap := range m.AirPoints {
		if ap.ID == pointID {
			return ap.Label, true
		}
	}
	return "", false
}

// AirPointSpecs returns the derived-field inputs for a model keyed by
// point id. Unknown models yield an empty map, which clears any
// imported volumes rather than trusting them.
func (p *Provider) AirPointSpecs(model string) map[string]record.AirPointSpec {
	specs := make(map[string]record.AirPointSpec)
	m, ok := p.models[strings.ToLower(model)]
	if !ok {
		return specs
	}
	for _, ap := range m.AirPoints {
		specs[ap.ID] = record.AirPointSpec{
			Area:       ap.Area,
			Status:     ap.Status,
			Measurable: ap.Measurable(),
		}
	}
	return specs
}

// Fields returns the ordered field descriptors for a model.
func (p *Provider) Fields(model string) []*FieldDescriptor {
	return p.fields[strings.ToLower(model)]
}

// FieldByCSVHeader resolves a CSV header to a descriptor for a model.
func (p *Provider) FieldByCSVHeader(model, header string) (*FieldDescriptor, bool) {
	d, ok := p.byHeader[strings.ToLower(model)][strings.TrimSpace(header)]
	return d, ok
}

// FieldByKey resolves a logical key path to a descriptor for a model.
func (p *Provider) FieldByKey(model, key string) (*FieldDescriptor, bool) {
	d, ok := p.byKey[strings.ToLower(model)][key]
	return d, ok
}
