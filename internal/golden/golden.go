// Package golden tracks the per-model golden batch: the one reference
// record each dryer model's charts overlay against.
package golden

import (
	"fmt"

	"drylog/internal/errors"
	"drylog/internal/record"
)

// KV is the slot access the registry needs. *storage.DB satisfies it.
type KV interface {
	GetSlot(key string) ([]byte, bool, error)
	SetSlot(key string, value []byte) error
	DeleteSlot(key string) error
}

// Getter resolves record ids, typically *store.Store.
type Getter interface {
	Get(id string) (*record.Record, bool)
}

// Registry stores at most one golden record id per dryer model. Only
// ids are stored; the designation survives record edits and even
// record deletion (a dangling id simply resolves to nothing until a
// new golden record is chosen).
type Registry struct {
	kv KV
}

func New(kv KV) *Registry {
	return &Registry{kv: kv}
}

func slotKey(model string) string {
	return fmt.Sprintf("goldenBatchId_%s", model)
}

// ID returns the golden record id for a model, or "" when none is set.
func (g *Registry) ID(model string) (string, error) {
	value, found, err := g.kv.GetSlot(slotKey(model))
	if err != nil {
		return "", errors.Wrap(errors.PersistenceFailed, "reading golden batch id", err)
	}
	if !found {
		return "", nil
	}
	return string(value), nil
}

// Toggle sets id as the model's golden record, or clears the
// designation when id is already golden. Returns whether the record is
// golden after the call.
func (g *Registry) Toggle(model, id string) (bool, error) {
	current, err := g.ID(model)
	if err != nil {
		return false, err
	}
	if current == id {
		if err := g.kv.DeleteSlot(slotKey(model)); err != nil {
			return false, errors.Wrap(errors.PersistenceFailed, "clearing golden batch id", err)
		}
		return false, nil
	}
	if err := g.kv.SetSlot(slotKey(model), []byte(id)); err != nil {
		return false, errors.Wrap(errors.PersistenceFailed, "setting golden batch id", err)
	}
	return true, nil
}

// Clear removes the model's golden designation if any.
func (g *Registry) Clear(model string) error {
	if err := g.kv.DeleteSlot(slotKey(model)); err != nil {
		return errors.Wrap(errors.PersistenceFailed, "clearing golden batch id", err)
	}
	return nil
}

// IsGolden reports whether the id is the model's current golden record.
func (g *Registry) IsGolden(model, id string) (bool, error) {
	current, err := g.ID(model)
	if err != nil {
		return false, err
	}
	return current != "" && current == id, nil
}

// Resolve looks up the model's golden record. A dangling id (the
// record was deleted since designation) resolves to nil without error;
// resolution is lazy and the stale id stays in place.
func (g *Registry) Resolve(model string, records Getter) (*record.Record, error) {
	id, err := g.ID(model)
	if err != nil {
		return nil, err
	}
	if id == "" {
		return nil, nil
	}
	r, ok := records.Get(id)
	if !ok {
		return nil, nil
	}
	return r, nil
}
