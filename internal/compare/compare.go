// Package compare builds chart-ready payloads for a side-by-side view
// of two records.
package compare

import (
	"fmt"
	"sort"
	"strings"

	"drylog/internal/errors"
	"drylog/internal/record"
	"drylog/internal/schema"
)

// Getter resolves record ids. *store.Store satisfies it.
type Getter interface {
	Get(id string) (*record.Record, bool)
}

// Summary is the per-record header line of the comparison view.
type Summary struct {
	ID        string          `json:"id"`
	Label     string          `json:"label"`
	Model     string          `json:"dryerModel"`
	RTOStatus record.TriState `json:"rtoStatus"`
}

// AirPoint is one grouped bar: the volume of both records at a
// measurement point. A record with no reading at the point contributes
// zero, so both bars always render.
type AirPoint struct {
	Label   string     `json:"label"`
	Volumes [2]float64 `json:"volumes"`
}

// TempCell holds both records' readings for one probe line at one
// temperature point. Absent readings stay nil so the chart shows a gap
// instead of a fake zero.
type TempCell struct {
	Point  string      `json:"point"`
	Values [2]*float64 `json:"values"`
}

// TempLine is one probe line's cells across all temperature points.
type TempLine struct {
	Probe string     `json:"probe"`
	Cells []TempCell `json:"cells"`
}

// Payload is everything the comparison view needs.
type Payload struct {
	Records [2]Summary `json:"records"`
	Air     []AirPoint `json:"air"`
	Temps   []TempLine `json:"temps"`
}

// Build resolves the two ids and assembles the comparison payload.
// Exactly two resolvable ids are required; anything else is a caller
// error, not an empty result.
func Build(g Getter, ids []string, schemas *schema.Provider) (*Payload, error) {
	if len(ids) != 2 {
		return nil, errors.New(errors.CompareInvalid, "comparison requires exactly two records").
			WithDetails(map[string]any{"selected": len(ids)})
	}

	var recs [2]*record.Record
	for i, id := range ids {
		r, ok := g.Get(id)
		if !ok {
			return nil, errors.New(errors.RecordNotFound, "record not found").
				WithDetails(map[string]any{"id": id})
		}
		recs[i] = r
	}

	p := &Payload{}
	for i, r := range recs {
		p.Records[i] = Summary{
			ID:        r.ID,
			Label:     recordLabel(i+1, r),
			Model:     r.DryerModel,
			RTOStatus: r.RTOStatus,
		}
	}
	p.Air = airSeries(recs, schemas)
	p.Temps = tempSeries(recs, schemas)
	return p, nil
}

func recordLabel(n int, r *record.Record) string {
	if r.DateTime == "" {
		return fmt.Sprintf("紀錄 %d: 無時間", n)
	}
	return fmt.Sprintf("紀錄 %d: %s", n, strings.Replace(r.DateTime, "T", " ", 1))
}

// airSeries takes the union of measurement points that carry a volume
// on either side. Point order follows each record's model declaration,
// first side then second, with raw keys last for points neither schema
// knows.
func airSeries(recs [2]*record.Record, schemas *schema.Provider) []AirPoint {
	present := make(map[string]bool)
	for _, r := range recs {
		for id, av := range r.AirVolumes {
			if av != nil && av.Volume != nil {
				present[id] = true
			}
		}
	}

	var order []string
	seen := make(map[string]bool)
	for _, r := range recs {
		m, ok := schemas.Model(r.DryerModel)
		if !ok {
			continue
		}
		for _, ap := range m.AirPoints {
			if present[ap.ID] && !seen[ap.ID] {
				order = append(order, ap.ID)
				seen[ap.ID] = true
			}
		}
	}
	var extras []string
	for id := range present {
		if !seen[id] {
			extras = append(extras, id)
		}
	}
	sort.Strings(extras)
	order = append(order, extras...)

	series := make([]AirPoint, 0, len(order))
	for _, id := range order {
		pt := AirPoint{Label: pointLabel(recs, id, schemas)}
		for i, r := range recs {
			if av := r.AirVolumes[id]; av != nil && av.Volume != nil {
				pt.Volumes[i] = *av.Volume
			}
		}
		series = append(series, pt)
	}
	return series
}

func pointLabel(recs [2]*record.Record, pointID string, schemas *schema.Provider) string {
	for _, r := range recs {
		if label, ok := schemas.AirPointLabel(r.DryerModel, pointID); ok {
			return label
		}
	}
	return pointID
}

// tempSeries crosses every probe line with every temperature point.
// The grid shape is fixed by the shared probe topology, not by what
// either record happens to contain.
func tempSeries(recs [2]*record.Record, schemas *schema.Provider) []TempLine {
	points := schemas.TempPoints()
	probes := schemas.ProbeLines()

	lines := make([]TempLine, 0, len(probes))
	for probeIdx, probe := range probes {
		line := TempLine{Probe: probe, Cells: make([]TempCell, 0, len(points))}
		for _, tp := range points {
			cell := TempCell{Point: tp.ShortLabel()}
			for i, r := range recs {
				if at := r.ActualTemps[tp.ID]; at != nil {
					cell.Values[i] = at.Val(probeIdx + 1)
				}
			}
			line.Cells = append(line.Cells, cell)
		}
		lines = append(lines, line)
	}
	return lines
}
