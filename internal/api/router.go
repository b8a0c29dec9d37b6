package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/auralis/elysia/internal/catalog"
	"github.com/auralis/elysia/internal/collab"
	"github.com/auralis/elysia/internal/notes"
	"github.com/auralis/elysia/internal/sse"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// broker, if non-nil, receives change events and serves GET /events.
func NewRouter(noteStore *notes.Store, threadStore *collab.Store, cat *catalog.Catalog, broker *sse.Broker, authEnabled bool, token string) chi.Router {
	nh := NewHandler(noteStore, broker)
	th := NewThreadHandler(threadStore, broker)
	ch := NewCatalogHandler(cat)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Elysia reflections.
	r.Get("/notes", nh.ListNotes)
	r.Post("/notes", nh.CreateNote)
	r.Get("/notes/{id}", nh.GetNote)
	r.Patch("/notes/{id}", nh.UpdateNote)
	r.Post("/notes/{id}/like", nh.LikeNote)

	// Collaboration board.
	r.Get("/threads", th.ListThreads)
	r.Post("/threads", th.CreateThread)
	r.Get("/threads/{id}", th.GetThread)
	r.Put("/threads/{id}", th.EditThread)
	r.Delete("/threads/{id}", th.DeleteThread)
	r.Post("/threads/{id}/like", th.LikeThread)
	r.Post("/threads/{id}/comments", th.AddComment)
	r.Post("/threads/{id}/requests", th.RequestCollaboration)
	r.Post("/threads/{id}/requests/{requestID}/resolve", th.ResolveRequest)

	// Album catalog (read-only).
	r.Get("/catalog", ch.ListAlbums)
	r.Get("/catalog/{slug}", ch.GetAlbum)

	// SSE endpoint (protected by same auth middleware).
	if broker != nil {
		r.Get("/events", broker.ServeHTTP)
	}

	return r
}
