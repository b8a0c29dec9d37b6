// Package records provides the generic list-under-one-key primitives every
// content store is built on: read-all, write-all, prepend, and id generation.
package records

import (
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/auralis/elysia/internal/kvstore"
)

// List manages a JSON array of T persisted whole under one storage key.
//
// Reads never fail: an absent key, invalid JSON, or a non-array document all
// decode to an empty list — a corrupt cache degrades to "no data" instead of
// crashing the app. Writes replace the entire document and propagate backend
// errors.
type List[T any] struct {
	kv  kvstore.Store
	key string
}

// NewList creates a List over key.
func NewList[T any](kv kvstore.Store, key string) *List[T] {
	return &List[T]{kv: kv, key: key}
}

// Key returns the storage key this list owns.
func (l *List[T]) Key() string { return l.key }

// ReadAll decodes the stored array. Malformed or missing data yields an
// empty list.
func (l *List[T]) ReadAll() []T {
	raw, ok := l.kv.Get(l.key)
	if !ok {
		return nil
	}
	var items []T
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil
	}
	return items
}

// WriteAll replaces the stored array with items. A nil slice is stored as an
// empty array so the document always round-trips as a JSON array.
func (l *List[T]) WriteAll(items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("records: encode %s: %w", l.key, err)
	}
	if err := l.kv.Set(l.key, string(data)); err != nil {
		return fmt.Errorf("records: write %s: %w", l.key, err)
	}
	return nil
}

// Prepend inserts item at the head of the list, leaving the relative order of
// existing records untouched.
func (l *List[T]) Prepend(item T) error {
	items := l.ReadAll()
	return l.WriteAll(append([]T{item}, items...))
}

var fallbackSeq atomic.Int64

// NewID returns a random UUID string. If the runtime's random source fails it
// falls back to a timestamp-plus-counter string, which stays unique within
// the process.
func NewID() string {
	id, err := uuid.NewRandom()
	if err != nil {
		return fmt.Sprintf("id-%d-%d", time.Now().UnixNano(), fallbackSeq.Add(1))
	}
	return id.String()
}
