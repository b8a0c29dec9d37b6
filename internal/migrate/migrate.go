// Package migrate implements the one-shot repair pass that links old-format
// reflections to the album catalog. It runs at bootstrap, before anything
// reads the notes, and is idempotent: a second run over repaired data updates
// nothing.
package migrate

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/auralis/elysia/internal/catalog"
	"github.com/auralis/elysia/internal/kvstore"
)

// LegacyNotesKey is the key the pre-meta notes list lives under. The
// migration repairs this list in place.
const LegacyNotesKey = "auralis_readers_notes_v1"

// Report summarizes a migration run.
type Report struct {
	Updated int `json:"updated"`
	Total   int `json:"total"`
}

// Run scans the legacy notes list and resolves a meta cross-reference for
// every record that lacks one, using an ordered fallback chain:
//
//  1. meta.albumKey and meta.sourceTitle already set → untouched.
//  2. legacy musicUrl → final path segment looked up as a catalog slug.
//  3. legacy musicTitle → case-insensitive exact title match.
//  4. note body or title contains a catalog title as a substring;
//     first match in catalog order wins.
//
// A resolved record gets its meta rebuilt from the catalog entry and its
// legacy fields removed; unresolved records are left exactly as they were.
// The full list is written back even when nothing changed. If the stored
// document does not decode, Run returns the error and writes nothing — the
// store is never left partially migrated.
//
// Records are handled as raw JSON objects so fields this codebase does not
// model survive the rewrite verbatim.
func Run(kv kvstore.Store, cat *catalog.Catalog) (Report, error) {
	var recs []map[string]any
	if raw, ok := kv.Get(LegacyNotesKey); ok && strings.TrimSpace(raw) != "" {
		if err := json.Unmarshal([]byte(raw), &recs); err != nil {
			return Report{}, fmt.Errorf("migrate: decode legacy notes: %w", err)
		}
	}
	if recs == nil {
		recs = []map[string]any{}
	}

	updated := 0
	for _, rec := range recs {
		if hasResolvedMeta(rec) {
			continue
		}
		album, ok := guessAlbum(rec, cat)
		if !ok {
			continue
		}
		applyMeta(rec, album)
		updated++
	}

	data, err := json.Marshal(recs)
	if err != nil {
		return Report{}, fmt.Errorf("migrate: encode legacy notes: %w", err)
	}
	if err := kv.Set(LegacyNotesKey, string(data)); err != nil {
		return Report{}, fmt.Errorf("migrate: write legacy notes: %w", err)
	}
	return Report{Updated: updated, Total: len(recs)}, nil
}

// hasResolvedMeta reports whether the record already carries both
// meta.albumKey and meta.sourceTitle.
func hasResolvedMeta(rec map[string]any) bool {
	meta, ok := rec["meta"].(map[string]any)
	if !ok {
		return false
	}
	key, _ := meta["albumKey"].(string)
	title, _ := meta["sourceTitle"].(string)
	return key != "" && title != ""
}

func guessAlbum(rec map[string]any, cat *catalog.Catalog) (catalog.Album, bool) {
	if u, _ := rec["musicUrl"].(string); u != "" {
		if a, ok := cat.BySlug(lastPathSegment(u)); ok {
			return a, true
		}
	}
	if title, _ := rec["musicTitle"].(string); title != "" {
		if a, ok := cat.ByTitle(title); ok {
			return a, true
		}
	}

	body, _ := rec["body"].(string)
	title, _ := rec["title"].(string)
	body = strings.ToLower(body)
	title = strings.ToLower(title)
	for _, a := range cat.Albums() {
		needle := strings.ToLower(a.Title)
		if needle == "" {
			continue
		}
		if strings.Contains(body, needle) || strings.Contains(title, needle) {
			return a, true
		}
	}
	return catalog.Album{}, false
}

// applyMeta rebuilds the record's meta from the catalog entry and drops the
// legacy fields. Optional fields absent from the catalog entry are removed
// rather than preserved, matching how the original records were written.
func applyMeta(rec map[string]any, a catalog.Album) {
	meta, ok := rec["meta"].(map[string]any)
	if !ok {
		meta = map[string]any{}
	}
	meta["albumKey"] = a.Slug
	meta["sourceTitle"] = a.Title
	meta["slug"] = a.Slug
	if a.Links.Youtube != "" {
		meta["youtube"] = a.Links.Youtube
	} else {
		delete(meta, "youtube")
	}
	if a.CatalogueNo != "" {
		meta["catalogNo"] = a.CatalogueNo
	} else {
		delete(meta, "catalogNo")
	}
	rec["meta"] = meta
	delete(rec, "musicTitle")
	delete(rec, "musicUrl")
}

// lastPathSegment extracts the final path segment of a URL-ish string,
// ignoring any query or fragment and a trailing slash.
func lastPathSegment(u string) string {
	if i := strings.IndexAny(u, "?#"); i >= 0 {
		u = u[:i]
	}
	u = strings.TrimRight(u, "/")
	if i := strings.LastIndex(u, "/"); i >= 0 {
		u = u[i+1:]
	}
	return u
}
