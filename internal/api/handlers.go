package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/auralis/elysia/internal/notes"
	"github.com/auralis/elysia/internal/sse"
)

// Handler holds API route handlers for the reflections feed.
type Handler struct {
	notes  *notes.Store
	broker *sse.Broker
}

// NewHandler creates a new Handler. broker may be nil (no event publishing).
func NewHandler(store *notes.Store, broker *sse.Broker) *Handler {
	return &Handler{notes: store, broker: broker}
}

func (h *Handler) publish(kind, id string) {
	if h.broker != nil {
		h.broker.PublishChange("note", kind, id)
	}
}

// ListNotes handles GET /notes. The feed is newest-first by store contract.
func (h *Handler) ListNotes(w http.ResponseWriter, _ *http.Request) {
	items := h.notes.All()
	if items == nil {
		items = []notes.Note{}
	}
	writeJSON(w, http.StatusOK, NoteListResponse{Notes: items, Total: len(items)})
}

// GetNote handles GET /notes/{id}.
func (h *Handler) GetNote(w http.ResponseWriter, r *http.Request) {
	note, err := h.notes.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, "get note", err)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

// CreateNote handles POST /notes.
func (h *Handler) CreateNote(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req CreateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := validation.ValidateStruct(&req,
		validation.Field(&req.Title, validation.Required),
		validation.Field(&req.Body, validation.Required),
	); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}

	id, err := h.notes.Save(req)
	if err != nil {
		writeStoreError(w, "save note", err)
		return
	}
	h.publish("created", id)
	writeJSON(w, http.StatusCreated, SaveNoteResponse{ID: id})
}

// LikeNote handles POST /notes/{id}/like. The store does no per-identity
// deduplication; clients keep their own liked set.
func (h *Handler) LikeNote(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	count, err := h.notes.Like(id)
	if err != nil {
		writeStoreError(w, "like note", err)
		return
	}
	h.publish("updated", id)
	writeJSON(w, http.StatusOK, LikeResponse{Likes: count})
}

// UpdateNote handles PATCH /notes/{id}.
func (h *Handler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	id := chi.URLParam(r, "id")
	var patch NotePatchRequest
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	note, err := h.notes.Update(id, patch)
	if err != nil {
		writeStoreError(w, "update note", err)
		return
	}
	h.publish("updated", id)
	writeJSON(w, http.StatusOK, note)
}
