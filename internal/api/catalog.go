package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/auralis/elysia/internal/catalog"
)

// CatalogHandler serves read-only album catalog lookups.
type CatalogHandler struct {
	cat *catalog.Catalog
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(cat *catalog.Catalog) *CatalogHandler {
	return &CatalogHandler{cat: cat}
}

// ListAlbums handles GET /catalog.
func (h *CatalogHandler) ListAlbums(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"albums": h.cat.Albums(),
		"total":  h.cat.Len(),
	})
}

// GetAlbum handles GET /catalog/{slug}.
func (h *CatalogHandler) GetAlbum(w http.ResponseWriter, r *http.Request) {
	album, ok := h.cat.BySlug(chi.URLParam(r, "slug"))
	if !ok {
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
		return
	}
	writeJSON(w, http.StatusOK, album)
}
