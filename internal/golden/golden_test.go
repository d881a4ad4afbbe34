package golden

import (
	"testing"

	"drylog/internal/record"
)

type memKV map[string][]byte

func (m memKV) GetSlot(key string) ([]byte, bool, error) {
	v, ok := m[key]
	return v, ok, nil
}

func (m memKV) SetSlot(key string, value []byte) error {
	m[key] = value
	return nil
}

func (m memKV) DeleteSlot(key string) error {
	delete(m, key)
	return nil
}

type mapGetter map[string]*record.Record

func (m mapGetter) Get(id string) (*record.Record, bool) {
	r, ok := m[id]
	return r, ok
}

func TestToggleSetAndUnset(t *testing.T) {
	g := New(memKV{})

	on, err := g.Toggle("vt8", "r1")
	if err != nil || !on {
		t.Fatalf("first toggle = %v, %v, want golden", on, err)
	}
	if golden, _ := g.IsGolden("vt8", "r1"); !golden {
		t.Error("r1 should be golden after toggle")
	}

	// Toggling the same id again clears the designation.
	on, err = g.Toggle("vt8", "r1")
	if err != nil || on {
		t.Fatalf("second toggle = %v, %v, want cleared", on, err)
	}
	if id, _ := g.ID("vt8"); id != "" {
		t.Errorf("ID = %q, want empty after unset", id)
	}
}

func TestToggleReplacesPreviousGolden(t *testing.T) {
	g := New(memKV{})

	g.Toggle("vt8", "r1")
	on, err := g.Toggle("vt8", "r2")
	if err != nil || !on {
		t.Fatalf("toggle r2 = %v, %v", on, err)
	}
	if golden, _ := g.IsGolden("vt8", "r1"); golden {
		t.Error("r1 should have lost the designation")
	}
	if golden, _ := g.IsGolden("vt8", "r2"); !golden {
		t.Error("r2 should be golden")
	}
}

func TestModelsAreIndependent(t *testing.T) {
	g := New(memKV{})

	g.Toggle("vt8", "r1")
	g.Toggle("vt5", "r2")

	if id, _ := g.ID("vt8"); id != "r1" {
		t.Errorf("vt8 golden = %q, want r1", id)
	}
	if id, _ := g.ID("vt5"); id != "r2" {
		t.Errorf("vt5 golden = %q, want r2", id)
	}

	g.Clear("vt8")
	if id, _ := g.ID("vt5"); id != "r2" {
		t.Errorf("clearing vt8 touched vt5: %q", id)
	}
}

func TestResolveDanglingID(t *testing.T) {
	g := New(memKV{})
	g.Toggle("vt8", "deleted-record")

	r, err := g.Resolve("vt8", mapGetter{})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if r != nil {
		t.Fatalf("Resolve() = %v, want nil for dangling id", r)
	}

	// The stale id stays until explicitly replaced.
	if id, _ := g.ID("vt8"); id != "deleted-record" {
		t.Errorf("dangling id was removed: %q", id)
	}
}

func TestResolve(t *testing.T) {
	g := New(memKV{})
	g.Toggle("vt8", "r1")

	want := &record.Record{ID: "r1"}
	r, err := g.Resolve("vt8", mapGetter{"r1": want})
	if err != nil || r != want {
		t.Fatalf("Resolve() = %v, %v", r, err)
	}

	r, err = g.Resolve("vt5", mapGetter{"r1": want})
	if err != nil || r != nil {
		t.Fatalf("Resolve() on model with no golden = %v, %v", r, err)
	}
}
