// Package kvstore provides the string key-value persistence the content
// stores are built on: a synchronous store with whole-value reads and writes,
// no transactions, and one of three interchangeable backends (memory, file,
// SQLite).
package kvstore

// Store is the persistence contract shared by all backends.
//
// Reads are total: a missing key and a failed backend read both report
// ok=false rather than an error. Writes surface backend failures (full disk,
// locked database) to the caller — silently dropping a write would lose user
// content.
//
// Concurrent read-modify-write cycles against the same key are last-write-wins.
// There is no compare-and-swap primitive; this is a documented limitation, not
// an oversight.
type Store interface {
	// Get returns the value stored under key, or ok=false if absent.
	Get(key string) (value string, ok bool)
	// Set stores value under key, replacing any previous value.
	Set(key, value string) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(key string) error
	// Close releases backend resources.
	Close() error
}
