// Package testutil provides shared test helpers for setting up stores and
// catalog fixtures.
package testutil

import (
	"os"
	"testing"

	"github.com/auralis/elysia/internal/catalog"
	"github.com/auralis/elysia/internal/kvstore"
)

// TestKV returns an empty in-memory key-value store.
func TestKV(t *testing.T) kvstore.Store {
	t.Helper()
	return kvstore.NewMemory()
}

// TestSQLite creates a temporary SQLite-backed store that is automatically
// cleaned up.
func TestSQLite(t *testing.T) *kvstore.SQLite {
	t.Helper()
	dbFile, err := os.CreateTemp("", "elysia-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	kv, err := kvstore.OpenSQLite(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { kv.Close() })
	return kv
}

// TestCatalog returns a small fixture catalog in a fixed iteration order.
func TestCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	return catalog.New([]catalog.Album{
		{
			Slug:        "dawn-chorus",
			Title:       "Dawn Chorus",
			CatalogueNo: "AUR-001",
			Links:       catalog.Links{Youtube: "https://youtube.com/watch?v=dawn-chorus"},
		},
		{
			Slug:  "aurora-veil",
			Title: "Aurora Veil",
		},
		{
			Slug:        "resonance-after-the-first-suite",
			Title:       "Resonance: After the First Suite",
			CatalogueNo: "AUR-004",
			Links:       catalog.Links{Youtube: "https://youtube.com/watch?v=resonance"},
		},
	})
}
