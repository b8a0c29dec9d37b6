package kvstore

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// File implements Store with one document file per key inside a data
// directory. Values are written atomically (tmp file → fsync → rename), so a
// crash mid-write never leaves a torn document behind — readers see either
// the old value or the new one.
type File struct {
	root string // absolute path to the data directory
}

// NewFile creates a File store rooted at dir, creating the directory if needed.
func NewFile(dir string) (*File, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("kvstore: resolve root: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("kvstore: create root: %w", err)
	}
	return &File{root: abs}, nil
}

// Root returns the absolute data directory path.
func (f *File) Root() string { return f.root }

// Get returns the value stored under key. Any read failure reports absent.
func (f *File) Get(key string) (string, bool) {
	data, err := os.ReadFile(filepath.Join(f.root, EncodeKey(key)))
	if err != nil {
		return "", false
	}
	return string(data), true
}

// Set atomically replaces the document for key.
func (f *File) Set(key, value string) error {
	target := filepath.Join(f.root, EncodeKey(key))

	tmp, err := os.CreateTemp(f.root, tmpPrefix+"*")
	if err != nil {
		return fmt.Errorf("kvstore: create temp: %w", err)
	}
	tmpName := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.WriteString(value); err != nil {
		return fmt.Errorf("kvstore: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("kvstore: fsync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("kvstore: close temp: %w", err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		return fmt.Errorf("kvstore: rename: %w", err)
	}
	success = true
	return nil
}

// Delete removes the document for key.
func (f *File) Delete(key string) error {
	err := os.Remove(filepath.Join(f.root, EncodeKey(key)))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("kvstore: delete %s: %w", key, err)
	}
	return nil
}

// Close is a no-op for the file backend.
func (f *File) Close() error { return nil }

// tmpPrefix marks in-flight writes so the watcher can skip them.
const tmpPrefix = ".elysia-tmp-"

const fileSuffix = ".json"

// IsTempFile reports whether name is an in-flight write artifact.
func IsTempFile(name string) bool {
	return strings.HasPrefix(filepath.Base(name), tmpPrefix)
}

// EncodeKey maps a store key to a portable file name. Bytes outside
// [A-Za-z0-9._-] are percent-encoded so keys like "elysia:notes" stay legal
// on every file system.
func EncodeKey(key string) string {
	var b strings.Builder
	for i := 0; i < len(key); i++ {
		c := key[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9',
			c == '-', c == '_', c == '.':
			b.WriteByte(c)
		default:
			fmt.Fprintf(&b, "%%%02X", c)
		}
	}
	return b.String() + fileSuffix
}

// DecodeKey reverses EncodeKey. It reports ok=false for names that are not
// encoded store documents (temp files, foreign files).
func DecodeKey(name string) (string, bool) {
	name = filepath.Base(name)
	if IsTempFile(name) || !strings.HasSuffix(name, fileSuffix) {
		return "", false
	}
	name = strings.TrimSuffix(name, fileSuffix)
	var b strings.Builder
	for i := 0; i < len(name); i++ {
		if name[i] != '%' {
			b.WriteByte(name[i])
			continue
		}
		if i+2 >= len(name) {
			return "", false
		}
		n, err := strconv.ParseUint(name[i+1:i+3], 16, 8)
		if err != nil {
			return "", false
		}
		b.WriteByte(byte(n))
		i += 2
	}
	return b.String(), true
}
