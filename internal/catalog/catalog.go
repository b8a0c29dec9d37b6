// Package catalog exposes the read-only album catalog the migration and the
// Studio tools query. The catalog is static content loaded once from a YAML
// file; the store never writes to it.
package catalog

import (
	"fmt"
	"os"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"
)

// Links holds external links for an album.
type Links struct {
	Youtube string `yaml:"youtube" json:"youtube,omitempty"`
}

// Album is one release in the catalog.
type Album struct {
	Slug        string `yaml:"slug" json:"slug"`
	Title       string `yaml:"title" json:"title"`
	CatalogueNo string `yaml:"catalogueNo" json:"catalogueNo,omitempty"`
	Links       Links  `yaml:"links" json:"links"`
}

// Validate checks the fields every catalog entry must carry.
func (a Album) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.Slug, validation.Required),
		validation.Field(&a.Title, validation.Required),
	)
}

// Catalog supports the three lookup shapes consumers need: exact slug,
// case-insensitive title equality, and substring scans over Albums in file
// order.
type Catalog struct {
	albums []Album
	bySlug map[string]int
}

// New builds a catalog from albums, preserving their order.
func New(albums []Album) *Catalog {
	c := &Catalog{albums: albums, bySlug: make(map[string]int, len(albums))}
	for i, a := range albums {
		if _, dup := c.bySlug[a.Slug]; !dup {
			c.bySlug[a.Slug] = i
		}
	}
	return c
}

// Load reads the catalog from a YAML file of the form:
//
//	albums:
//	  - slug: dawn-chorus
//	    title: Dawn Chorus
//	    catalogueNo: AUR-001
//	    links:
//	      youtube: https://youtube.com/...
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", path, err)
	}
	var doc struct {
		Albums []Album `yaml:"albums"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("catalog: parse %s: %w", path, err)
	}
	for _, a := range doc.Albums {
		if err := a.Validate(); err != nil {
			return nil, fmt.Errorf("catalog: entry %q: %w", a.Slug, err)
		}
	}
	return New(doc.Albums), nil
}

// BySlug looks up an album by exact slug.
func (c *Catalog) BySlug(slug string) (Album, bool) {
	i, ok := c.bySlug[slug]
	if !ok {
		return Album{}, false
	}
	return c.albums[i], true
}

// ByTitle looks up an album by case-insensitive exact title.
func (c *Catalog) ByTitle(title string) (Album, bool) {
	for _, a := range c.albums {
		if strings.EqualFold(a.Title, title) {
			return a, true
		}
	}
	return Album{}, false
}

// Albums returns all entries in catalog order. Callers must treat the slice
// as read-only.
func (c *Catalog) Albums() []Album { return c.albums }

// Len returns the number of entries.
func (c *Catalog) Len() int { return len(c.albums) }
