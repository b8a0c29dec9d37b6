package catalog

import (
	"os"
	"path/filepath"
	"testing"
)

func writeCatalogFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeCatalogFile(t, `
albums:
  - slug: dawn-chorus
    title: Dawn Chorus
    catalogueNo: AUR-001
    links:
      youtube: https://youtube.com/watch?v=x
  - slug: aurora-veil
    title: Aurora Veil
`)
	cat, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cat.Len() != 2 {
		t.Fatalf("Len = %d, want 2", cat.Len())
	}
	a, ok := cat.BySlug("dawn-chorus")
	if !ok {
		t.Fatal("BySlug missed dawn-chorus")
	}
	if a.CatalogueNo != "AUR-001" || a.Links.Youtube == "" {
		t.Errorf("album = %+v", a)
	}
}

func TestLoadRejectsEntryWithoutSlug(t *testing.T) {
	path := writeCatalogFile(t, `
albums:
  - title: No Slug Here
`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestByTitleCaseInsensitive(t *testing.T) {
	cat := New([]Album{{Slug: "aurora-veil", Title: "Aurora Veil"}})
	if _, ok := cat.ByTitle("AURORA veil"); !ok {
		t.Error("case-insensitive title lookup failed")
	}
	if _, ok := cat.ByTitle("Aurora"); ok {
		t.Error("partial title must not match")
	}
}

func TestAlbumsPreservesOrder(t *testing.T) {
	cat := New([]Album{
		{Slug: "b", Title: "B"},
		{Slug: "a", Title: "A"},
	})
	albums := cat.Albums()
	if albums[0].Slug != "b" || albums[1].Slug != "a" {
		t.Errorf("order changed: %+v", albums)
	}
}
