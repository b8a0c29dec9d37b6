// Package notes implements the Elysia reflections store: community posts
// with bilingual content, like counters, and an optional album
// cross-reference.
package notes

import (
	"encoding/json"
	"time"

	"github.com/auralis/elysia/internal/apperr"
	"github.com/auralis/elysia/internal/kvstore"
	"github.com/auralis/elysia/internal/records"
)

// StorageKey is the key the notes list lives under.
const StorageKey = "elysia:notes"

// Meta is the resolved album cross-reference attached to a note.
type Meta struct {
	AlbumKey    string `json:"albumKey,omitempty"`
	SourceTitle string `json:"sourceTitle,omitempty"`
	Youtube     string `json:"youtube,omitempty"`
	Slug        string `json:"slug,omitempty"`
	CatalogNo   string `json:"catalogNo,omitempty"`
}

// Note is one reflection. Field names follow the stored wire format, which is
// fixed by records written by earlier versions of the site. Sections are
// opaque structured content carried verbatim.
type Note struct {
	ID         string          `json:"id"`
	Title      string          `json:"title"`
	Body       string          `json:"body"`
	TitleKR    string          `json:"titleKR,omitempty"`
	BodyKR     string          `json:"bodyKR,omitempty"`
	Sections   json.RawMessage `json:"sections,omitempty"`
	SectionsKR json.RawMessage `json:"sectionsKR,omitempty"`
	CreatedAt  time.Time       `json:"createdAt"`
	Likes      int             `json:"likes"`
	Featured   bool            `json:"featured"`
	Author     string          `json:"author,omitempty"`
	Cover      string          `json:"cover,omitempty"`
	AlbumSlug  string          `json:"albumSlug,omitempty"`
	Catalogue  string          `json:"catalogue,omitempty"`
	Meta       *Meta           `json:"meta,omitempty"`

	// Legacy fields, present only on records written before the meta schema
	// existed. The startup migration folds them into Meta and removes them.
	MusicTitle string `json:"musicTitle,omitempty"`
	MusicURL   string `json:"musicUrl,omitempty"`
}

// Draft holds the caller-supplied fields of a new note. The store assigns
// id, creation time, like count, and the featured flag.
type Draft struct {
	Title      string          `json:"title"`
	Body       string          `json:"body"`
	TitleKR    string          `json:"titleKR,omitempty"`
	BodyKR     string          `json:"bodyKR,omitempty"`
	Sections   json.RawMessage `json:"sections,omitempty"`
	SectionsKR json.RawMessage `json:"sectionsKR,omitempty"`
	Author     string          `json:"author,omitempty"`
	Cover      string          `json:"cover,omitempty"`
	AlbumSlug  string          `json:"albumSlug,omitempty"`
	Catalogue  string          `json:"catalogue,omitempty"`
	Meta       *Meta           `json:"meta,omitempty"`
}

// Patch is a shallow merge applied to an existing note; nil fields keep the
// current value. There are deliberately no id/createdAt fields — those are
// immutable, and a patch document carrying them is ignored by construction.
type Patch struct {
	Title      *string         `json:"title,omitempty"`
	Body       *string         `json:"body,omitempty"`
	TitleKR    *string         `json:"titleKR,omitempty"`
	BodyKR     *string         `json:"bodyKR,omitempty"`
	Sections   json.RawMessage `json:"sections,omitempty"`
	SectionsKR json.RawMessage `json:"sectionsKR,omitempty"`
	Likes      *int            `json:"likes,omitempty"`
	Featured   *bool           `json:"featured,omitempty"`
	Author     *string         `json:"author,omitempty"`
	Cover      *string         `json:"cover,omitempty"`
	AlbumSlug  *string         `json:"albumSlug,omitempty"`
	Catalogue  *string         `json:"catalogue,omitempty"`
	Meta       *Meta           `json:"meta,omitempty"`
}

// Store provides the note operations over one kvstore key.
type Store struct {
	list *records.List[Note]
	now  func() time.Time
}

// NewStore creates a note store over kv.
func NewStore(kv kvstore.Store) *Store {
	return &Store{
		list: records.NewList[Note](kv, StorageKey),
		now:  time.Now,
	}
}

// All returns every note, newest first.
func (s *Store) All() []Note {
	return s.list.ReadAll()
}

// Get returns the note with the given id, or apperr.ErrNotFound.
func (s *Store) Get(id string) (*Note, error) {
	for _, n := range s.list.ReadAll() {
		if n.ID == id {
			note := n
			return &note, nil
		}
	}
	return nil, apperr.ErrNotFound
}

// Save creates a note from d and prepends it to the list, so the newest note
// is always first and existing records keep their relative order. Returns the
// assigned id.
func (s *Store) Save(d Draft) (string, error) {
	n := Note{
		ID:         records.NewID(),
		Title:      d.Title,
		Body:       d.Body,
		TitleKR:    d.TitleKR,
		BodyKR:     d.BodyKR,
		Sections:   d.Sections,
		SectionsKR: d.SectionsKR,
		CreatedAt:  s.now().UTC(),
		Likes:      0,
		Featured:   false,
		Author:     d.Author,
		Cover:      d.Cover,
		AlbumSlug:  d.AlbumSlug,
		Catalogue:  d.Catalogue,
		Meta:       d.Meta,
	}
	if err := s.list.Prepend(n); err != nil {
		return "", err
	}
	return n.ID, nil
}

// Like increments the like counter and returns the new count. The store does
// no per-identity deduplication — preventing duplicate likes is the caller's
// concern. A missing id reports count 0 with apperr.ErrNotFound and writes
// nothing.
func (s *Store) Like(id string) (int, error) {
	items := s.list.ReadAll()
	for i := range items {
		if items[i].ID != id {
			continue
		}
		items[i].Likes++
		if err := s.list.WriteAll(items); err != nil {
			return 0, err
		}
		return items[i].Likes, nil
	}
	return 0, apperr.ErrNotFound
}

// Update shallow-merges p into the note with the given id and returns the
// updated note. Id and creation time cannot change. A missing id reports
// apperr.ErrNotFound and writes nothing.
func (s *Store) Update(id string, p Patch) (*Note, error) {
	items := s.list.ReadAll()
	for i := range items {
		if items[i].ID != id {
			continue
		}
		applyPatch(&items[i], p)
		if err := s.list.WriteAll(items); err != nil {
			return nil, err
		}
		note := items[i]
		return &note, nil
	}
	return nil, apperr.ErrNotFound
}

func applyPatch(n *Note, p Patch) {
	if p.Title != nil {
		n.Title = *p.Title
	}
	if p.Body != nil {
		n.Body = *p.Body
	}
	if p.TitleKR != nil {
		n.TitleKR = *p.TitleKR
	}
	if p.BodyKR != nil {
		n.BodyKR = *p.BodyKR
	}
	if p.Sections != nil {
		n.Sections = p.Sections
	}
	if p.SectionsKR != nil {
		n.SectionsKR = p.SectionsKR
	}
	if p.Likes != nil {
		n.Likes = *p.Likes
	}
	if p.Featured != nil {
		n.Featured = *p.Featured
	}
	if p.Author != nil {
		n.Author = *p.Author
	}
	if p.Cover != nil {
		n.Cover = *p.Cover
	}
	if p.AlbumSlug != nil {
		n.AlbumSlug = *p.AlbumSlug
	}
	if p.Catalogue != nil {
		n.Catalogue = *p.Catalogue
	}
	if p.Meta != nil {
		n.Meta = p.Meta
	}
}
