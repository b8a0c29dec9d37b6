package kvstore

import (
	"os"
	"path/filepath"
	"testing"
)

func tempFileStore(t *testing.T) *File {
	t.Helper()
	f, err := NewFile(t.TempDir())
	if err != nil {
		t.Fatalf("NewFile: %v", err)
	}
	return f
}

func TestFileSetGet(t *testing.T) {
	f := tempFileStore(t)
	if err := f.Set("elysia:notes", `[{"id":"a"}]`); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, ok := f.Get("elysia:notes")
	if !ok {
		t.Fatal("expected key to exist")
	}
	if got != `[{"id":"a"}]` {
		t.Errorf("value = %q", got)
	}
}

func TestFileGetAbsent(t *testing.T) {
	f := tempFileStore(t)
	if _, ok := f.Get("nope"); ok {
		t.Error("absent key should report ok=false")
	}
}

func TestFileOverwrite(t *testing.T) {
	f := tempFileStore(t)
	_ = f.Set("k", "one")
	if err := f.Set("k", "two"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, _ := f.Get("k")
	if got != "two" {
		t.Errorf("value = %q, want two", got)
	}
}

func TestFileDelete(t *testing.T) {
	f := tempFileStore(t)
	_ = f.Set("k", "v")
	if err := f.Delete("k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok := f.Get("k"); ok {
		t.Error("deleted key should be absent")
	}
	// Deleting again is not an error.
	if err := f.Delete("k"); err != nil {
		t.Errorf("second Delete: %v", err)
	}
}

func TestFileLeavesNoTempFiles(t *testing.T) {
	f := tempFileStore(t)
	_ = f.Set("a", "1")
	_ = f.Set("b", "2")
	entries, err := os.ReadDir(f.Root())
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if IsTempFile(e.Name()) {
			t.Errorf("leftover temp file %s", e.Name())
		}
	}
}

func TestEncodeDecodeKey(t *testing.T) {
	keys := []string{
		"elysia:notes",
		"auralis_readers_notes_v1",
		"auralis-collab-threads-v4",
		"weird key/with%stuff",
	}
	for _, key := range keys {
		name := EncodeKey(key)
		if filepath.Base(name) != name {
			t.Errorf("EncodeKey(%q) = %q contains a separator", key, name)
		}
		got, ok := DecodeKey(name)
		if !ok {
			t.Errorf("DecodeKey(%q) not ok", name)
			continue
		}
		if got != key {
			t.Errorf("round-trip %q -> %q -> %q", key, name, got)
		}
	}
}

func TestDecodeKeyRejectsForeignFiles(t *testing.T) {
	if _, ok := DecodeKey(".elysia-tmp-12345"); ok {
		t.Error("temp file should not decode")
	}
	if _, ok := DecodeKey("readme.txt"); ok {
		t.Error("foreign file should not decode")
	}
}
