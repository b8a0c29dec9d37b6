package records

import (
	"errors"
	"reflect"
	"testing"

	"github.com/auralis/elysia/internal/kvstore"
)

type item struct {
	ID    string `json:"id"`
	Label string `json:"label,omitempty"`
	Count int    `json:"count"`
}

func TestRoundTrip(t *testing.T) {
	kv := kvstore.NewMemory()
	l := NewList[item](kv, "test:items")

	want := []item{
		{ID: "a", Label: "first", Count: 3},
		{ID: "b", Count: 0},
	}
	if err := l.WriteAll(want); err != nil {
		t.Fatalf("WriteAll: %v", err)
	}
	got := l.ReadAll()
	if !reflect.DeepEqual(got, want) {
		t.Errorf("round-trip mismatch:\ngot  %+v\nwant %+v", got, want)
	}
}

func TestReadAllAbsentKey(t *testing.T) {
	l := NewList[item](kvstore.NewMemory(), "test:items")
	if got := l.ReadAll(); len(got) != 0 {
		t.Errorf("expected empty list, got %+v", got)
	}
}

func TestReadAllCorruptData(t *testing.T) {
	cases := map[string]string{
		"not json":      "oops{",
		"json object":   `{"id":"a"}`,
		"json string":   `"hello"`,
		"json number":   "42",
		"truncated":     `[{"id":"a"`,
		"empty":         "",
		"wrong element": `[{"id":{"nested":true}}]`,
	}
	for name, raw := range cases {
		kv := kvstore.NewMemory()
		_ = kv.Set("test:items", raw)
		l := NewList[item](kv, "test:items")
		if got := l.ReadAll(); len(got) != 0 {
			t.Errorf("%s: expected empty list, got %+v", name, got)
		}
	}
}

func TestWriteAllNilStoresEmptyArray(t *testing.T) {
	kv := kvstore.NewMemory()
	l := NewList[item](kv, "test:items")
	if err := l.WriteAll(nil); err != nil {
		t.Fatalf("WriteAll: %v", err)
	}
	raw, ok := kv.Get("test:items")
	if !ok || raw != "[]" {
		t.Errorf("stored document = %q, want []", raw)
	}
}

func TestPrependKeepsExistingOrder(t *testing.T) {
	l := NewList[item](kvstore.NewMemory(), "test:items")
	_ = l.Prepend(item{ID: "a"})
	_ = l.Prepend(item{ID: "b"})
	_ = l.Prepend(item{ID: "c"})

	got := l.ReadAll()
	want := []string{"c", "b", "a"}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i, id := range want {
		if got[i].ID != id {
			t.Errorf("got[%d].ID = %q, want %q", i, got[i].ID, id)
		}
	}
}

// failingKV rejects writes to exercise error propagation.
type failingKV struct {
	kvstore.Store
}

func (f failingKV) Set(string, string) error {
	return errors.New("quota exceeded")
}

func TestWriteAllPropagatesBackendError(t *testing.T) {
	l := NewList[item](failingKV{kvstore.NewMemory()}, "test:items")
	if err := l.WriteAll([]item{{ID: "a"}}); err == nil {
		t.Fatal("expected write error to propagate")
	}
}

func TestNewIDUnique(t *testing.T) {
	const n = 1000
	seen := make(map[string]struct{}, n)
	for i := 0; i < n; i++ {
		id := NewID()
		if id == "" {
			t.Fatal("empty id")
		}
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = struct{}{}
	}
}
