// Package query turns the full record list plus the active view state
// into the currently visible page. Everything here is pure: no store,
// no storage backend, no globals.
package query

import (
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"drylog/internal/record"
	"drylog/internal/schema"
)

// PageSize is the fixed number of records per page.
const PageSize = 20

// Scope is the hard partition every query runs under. Records outside
// the scope are excluded entirely, not softly filtered.
type Scope struct {
	RecordType record.Type
	DryerModel string
}

// Filters are the optional AND-conjunction criteria. Zero values mean
// inactive.
type Filters struct {
	StartDate     string // 2006-01-02, inclusive prefix compare
	EndDate       string
	RTOStatus     record.TriState
	HeatingStatus record.TriState
	Remark        string // case-insensitive substring

	// Single numeric range on one field, selected by logical key path.
	Field string
	Min   *float64
	Max   *float64
}

// Sort specifies the active sort key and direction.
type Sort struct {
	Key        string
	Descending bool
}

// DefaultSort is the view's initial sort state.
func DefaultSort() Sort {
	return Sort{Key: "dateTime", Descending: true}
}

// Result is the visible page plus the relocated edit session.
type Result struct {
	PageRecords []*record.Record
	CurrentPage int
	TotalPages  int

	// EditingID is the record under active edit, or "". EditingPage and
	// EditingRow say where it now falls in the visible view (-1 when it
	// is filtered out), so an edit session survives filter/sort/page
	// changes without pointing at the wrong row.
	EditingID   string
	EditingPage int
	EditingRow  int
}

// Run executes the full pipeline: scope partition, filters, sort,
// pagination, edit relocation.
func Run(records []*record.Record, scope Scope, f Filters, s Sort, currentPage int, editingID string, schemas *schema.Provider) Result {
	visible := Visible(records, scope, f, s, schemas)
	res := paginate(visible, currentPage)

	res.EditingID = editingID
	res.EditingPage = -1
	res.EditingRow = -1
	if editingID != "" {
		for i, r := range visible {
			if r.ID == editingID {
				res.EditingPage = i/PageSize + 1
				res.EditingRow = i % PageSize
				break
			}
		}
	}
	return res
}

// Visible returns the scoped, filtered, sorted record list.
func Visible(records []*record.Record, scope Scope, f Filters, s Sort, schemas *schema.Provider) []*record.Record {
	var out []*record.Record
	for _, r := range records {
		if r.RecordType != scope.RecordType || r.DryerModel != scope.DryerModel {
			continue
		}
		if !passesFilters(r, f, scope, schemas) {
			continue
		}
		out = append(out, r)
	}
	if s.Key != "" {
		sortRecords(out, s, scope, schemas)
	}
	return out
}

func passesFilters(r *record.Record, f Filters, scope Scope, schemas *schema.Provider) bool {
	if f.RTOStatus != record.Unset && r.RTOStatus != f.RTOStatus {
		return false
	}
	if f.HeatingStatus != record.Unset && r.HeatingStatus != f.HeatingStatus {
		return false
	}
	if f.Remark != "" {
		if !strings.Contains(strings.ToLower(r.Remark), strings.ToLower(f.Remark)) {
			return false
		}
	}
	if f.StartDate != "" {
		if r.DateTime == "" || datePrefix(r.DateTime) < f.StartDate {
			return false
		}
	}
	if f.EndDate != "" {
		if r.DateTime == "" || datePrefix(r.DateTime) > f.EndDate {
			return false
		}
	}
	if f.Field != "" && (f.Min != nil || f.Max != nil) {
		d, ok := schemas.FieldByKey(scope.DryerModel, f.Field)
		if !ok {
			return false
		}
		// A missing or non-numeric stored value fails the range test;
		// that is an exclusion, not an error.
		v := d.Number(r)
		if v == nil {
			return false
		}
		if f.Min != nil && *v < *f.Min {
			return false
		}
		if f.Max != nil && *v > *f.Max {
			return false
		}
	}
	return true
}

func datePrefix(dateTime string) string {
	if len(dateTime) < 10 {
		return dateTime
	}
	return dateTime[:10]
}

// sortValue is the coerced sort key for one record: either a number,
// a non-numeric string, or absent.
type sortValue struct {
	num   float64
	isNum bool
	str   string
	isNil bool
}

func sortValueOf(r *record.Record, d *schema.FieldDescriptor) sortValue {
	switch v := d.Get(r).(type) {
	case float64:
		return sortValue{num: v, isNum: true}
	case string:
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return sortValue{num: f, isNum: true}
		}
		return sortValue{str: v}
	default:
		return sortValue{isNil: true}
	}
}

func sortRecords(records []*record.Record, s Sort, scope Scope, schemas *schema.Provider) {
	d, ok := schemas.FieldByKey(scope.DryerModel, s.Key)
	if !ok {
		return
	}

	values := make([]sortValue, len(records))
	for i, r := range records {
		values[i] = sortValueOf(r, d)
	}
	idx := make([]int, len(records))
	for i := range idx {
		idx[i] = i
	}

	coll := collate.New(language.Chinese)
	sort.SliceStable(idx, func(a, b int) bool {
		va, vb := values[idx[a]], values[idx[b]]
		// Records with a missing sort value always land at the end,
		// regardless of direction.
		if va.isNil || vb.isNil {
			return !va.isNil && vb.isNil
		}

		var cmp int
		switch {
		case va.isNum && vb.isNum:
			switch {
			case va.num < vb.num:
				cmp = -1
			case va.num > vb.num:
				cmp = 1
			}
		case !va.isNum && !vb.isNum:
			cmp = coll.CompareString(va.str, vb.str)
		case va.isNum:
			// Numbers sort before non-numeric strings.
			cmp = -1
		default:
			cmp = 1
		}
		if s.Descending {
			return cmp > 0
		}
		return cmp < 0
	})

	sorted := make([]*record.Record, len(records))
	for i, j := range idx {
		sorted[i] = records[j]
	}
	copy(records, sorted)
}

// paginate slices the visible list into the current page. An empty
// list still has one (empty) page, and a current page beyond the new
// total snaps back to page 1.
func paginate(visible []*record.Record, currentPage int) Result {
	totalPages := (len(visible) + PageSize - 1) / PageSize
	if totalPages == 0 {
		totalPages = 1
	}
	if currentPage < 1 || currentPage > totalPages {
		currentPage = 1
	}

	start := (currentPage - 1) * PageSize
	end := start + PageSize
	if end > len(visible) {
		end = len(visible)
	}
	page := visible[start:end]

	return Result{
		PageRecords: page,
		CurrentPage: currentPage,
		TotalPages:  totalPages,
	}
}
