// Package store holds the authoritative in-memory record list and
// mediates all durable reads and writes. Persistence failures are
// reported, never fatal: the in-memory list stays the operative truth
// for the rest of the session.
package store

import (
	"encoding/json"
	"log/slog"
	"strings"

	"drylog/internal/errors"
	"drylog/internal/record"
	"drylog/internal/schema"
)

// RecordsSlot is the durable slot key holding the record snapshot.
const RecordsSlot = "records"

// Slot is the durable key-value slot the store persists into.
type Slot interface {
	Read() (value []byte, found bool, err error)
	Write(value []byte) error
	Clear() error
}

// Store owns the record list. All mutation goes through its methods;
// no other component mutates records in place.
type Store struct {
	slot    Slot
	schemas *schema.Provider
	logger  *slog.Logger

	records   []*record.Record
	editingID string
}

// New creates a store over the given slot. Call Load before use.
func New(slot Slot, schemas *schema.Provider, logger *slog.Logger) *Store {
	return &Store{slot: slot, schemas: schemas, logger: logger}
}

// Load reads the persisted snapshot. A missing slot yields an empty
// list. A snapshot that fails to parse as a record array is discarded:
// the slot is cleared, the store resets to empty, and a recoverable
// SnapshotCorrupt error is returned so the caller can tell the user
// the prior data is gone. Load never panics on bad data.
func (s *Store) Load() error {
	s.records = nil
	s.editingID = ""

	data, found, err := s.slot.Read()
	if err != nil {
		return errors.Wrap(errors.PersistenceFailed, "failed to read snapshot", err)
	}
	if !found {
		return nil
	}

	var loaded []*record.Record
	if err := json.Unmarshal(data, &loaded); err != nil {
		s.logger.Error("snapshot is corrupt, resetting to empty", "error", err)
		if clearErr := s.slot.Clear(); clearErr != nil {
			s.logger.Error("failed to clear corrupt snapshot", "error", clearErr)
		}
		return errors.Wrap(errors.SnapshotCorrupt, "snapshot is not a record array", err)
	}

	for _, r := range loaded {
		if r == nil {
			continue
		}
		r.EnsureID()
		s.records = append(s.records, r)
	}
	s.logger.Debug("snapshot loaded", "records", len(s.records))
	return nil
}

// Save serializes the full current list to the slot. On failure the
// in-memory state is left intact and a persistence error is returned.
func (s *Store) Save() error {
	data, err := json.Marshal(s.recordsOrEmpty())
	if err != nil {
		return errors.Wrap(errors.PersistenceFailed, "failed to serialize snapshot", err)
	}
	if err := s.slot.Write(data); err != nil {
		return errors.Wrap(errors.PersistenceFailed, "failed to save snapshot", err)
	}
	return nil
}

func (s *Store) recordsOrEmpty() []*record.Record {
	if s.records == nil {
		return []*record.Record{}
	}
	return s.records
}

// Add normalizes the record, marks it unsynced, prepends it (insertion
// order is most-recent-first) and persists. The record is in the store
// even when the returned error reports a failed save.
func (s *Store) Add(r *record.Record) error {
	s.normalize(r)
	r.IsSynced = false
	s.records = append([]*record.Record{r}, s.records...)
	return s.Save()
}

// Update locates the stored record by the patch's id, shallow-merges
// the patch into it (fields absent from the patch are preserved),
// recomputes derived fields, flips isSynced to false and persists.
// The stored record is only swapped once the merge succeeds, so a
// failure never leaves a half-applied record.
func (s *Store) Update(patch *record.Record) error {
	idx := s.indexOf(patch.ID)
	if idx < 0 {
		return errors.New(errors.RecordNotFound, "no record with id "+patch.ID)
	}

	merged := s.records[idx].Clone()
	merged.ApplyPatch(patch)
	merged.Normalize()
	merged.RecomputeDerived(s.schemas.AirPointSpecs(merged.DryerModel))
	merged.IsSynced = false

	s.records[idx] = merged
	return s.Save()
}

// Delete removes the record by id and persists. If the deleted record
// was under edit, the edit session is implicitly cancelled.
func (s *Store) Delete(id string) error {
	idx := s.indexOf(id)
	if idx < 0 {
		return errors.New(errors.RecordNotFound, "no record with id "+id)
	}
	if s.editingID == id {
		s.editingID = ""
	}
	s.records = append(s.records[:idx], s.records[idx+1:]...)
	return s.Save()
}

// ReplaceAll normalizes every incoming record, forces isSynced=true on
// all of them (they came from a canonical snapshot), replaces the
// in-memory list wholesale and persists.
func (s *Store) ReplaceAll(records []*record.Record) error {
	replacement := make([]*record.Record, 0, len(records))
	for _, r := range records {
		if r == nil {
			continue
		}
		s.normalize(r)
		r.IsSynced = true
		replacement = append(replacement, r)
	}
	s.records = replacement
	s.editingID = ""
	return s.Save()
}

// Merge folds externally-sourced records into the store: records
// without an id, or whose id collides with a stored one, get a fresh
// id (collisions never overwrite); isSynced is forced false on every
// merged-in record; the combined set is re-sorted newest first.
// Returns how many records were merged in.
func (s *Store) Merge(incoming []*record.Record) (int, error) {
	if len(incoming) == 0 {
		return 0, errors.New(errors.EmptyResult, "nothing to merge")
	}

	existing := make(map[string]bool, len(s.records))
	for _, r := range s.records {
		existing[r.ID] = true
	}

	added := 0
	for _, r := range incoming {
		if r == nil {
			continue
		}
		if r.ID == "" || existing[r.ID] {
			r.ID = record.NewID()
		}
		s.normalize(r)
		r.IsSynced = false
		existing[r.ID] = true
		s.records = append([]*record.Record{r}, s.records...)
		added++
	}
	if added == 0 {
		return 0, errors.New(errors.EmptyResult, "nothing to merge")
	}

	record.SortByDateTimeDesc(s.records)
	return added, s.Save()
}

// ClearAll wipes the record list and persists the empty snapshot.
func (s *Store) ClearAll() error {
	s.records = nil
	s.editingID = ""
	return s.Save()
}

// Get returns the stored record with the given id.
func (s *Store) Get(id string) (*record.Record, bool) {
	idx := s.indexOf(id)
	if idx < 0 {
		return nil, false
	}
	return s.records[idx], true
}

// All returns the record list in storage order. The slice is a copy;
// the records are the store's own (callers must not mutate them).
func (s *Store) All() []*record.Record {
	return append([]*record.Record(nil), s.records...)
}

// Len returns the number of stored records.
func (s *Store) Len() int {
	return len(s.records)
}

// BeginEdit marks the record with the given id as under edit and
// returns it for form population.
func (s *Store) BeginEdit(id string) (*record.Record, error) {
	r, ok := s.Get(id)
	if !ok {
		return nil, errors.New(errors.RecordNotFound, "no record with id "+id)
	}
	s.editingID = id
	return r, nil
}

// CancelEdit ends the active edit session, if any.
func (s *Store) CancelEdit() {
	s.editingID = ""
}

// EditingID returns the id of the record under edit, or "".
func (s *Store) EditingID() string {
	return s.editingID
}

// DailyUnsynced returns the records created on the given day (date in
// 2006-01-02 form) that have not been reconciled against a canonical
// snapshot. This is the incremental-export selection.
func (s *Store) DailyUnsynced(date string) []*record.Record {
	var out []*record.Record
	for _, r := range s.records {
		if !r.IsSynced && r.DateTime != "" && strings.HasPrefix(r.DateTime, date) {
			out = append(out, r)
		}
	}
	return out
}

// MarkSynced flips isSynced on the given ids and persists. Used after
// a successful daily export so the same records are not exported twice.
func (s *Store) MarkSynced(ids []string) error {
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	changed := false
	for _, r := range s.records {
		if want[r.ID] && !r.IsSynced {
			r.IsSynced = true
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return s.Save()
}

func (s *Store) indexOf(id string) int {
	for i, r := range s.records {
		if r.ID == id {
			return i
		}
	}
	return -1
}

// normalize applies the ingestion-time invariants plus derived-field
// recomputation against the record's model schema.
func (s *Store) normalize(r *record.Record) {
	r.Normalize()
	r.RecomputeDerived(s.schemas.AirPointSpecs(r.DryerModel))
}
