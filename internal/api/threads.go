package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/auralis/elysia/internal/collab"
	"github.com/auralis/elysia/internal/sse"
)

// ThreadHandler holds API route handlers for the collaboration board.
//
// Mutations that are permission-checked (delete, edit) take the caller's
// identity from the X-Identity header and pass it into the store, which is
// where the rules are enforced.
type ThreadHandler struct {
	threads *collab.Store
	broker  *sse.Broker
}

// NewThreadHandler creates a new ThreadHandler. broker may be nil.
func NewThreadHandler(store *collab.Store, broker *sse.Broker) *ThreadHandler {
	return &ThreadHandler{threads: store, broker: broker}
}

func (h *ThreadHandler) publish(kind, id string) {
	if h.broker != nil {
		h.broker.PublishChange("thread", kind, id)
	}
}

// ListThreads handles GET /threads.
func (h *ThreadHandler) ListThreads(w http.ResponseWriter, _ *http.Request) {
	items := h.threads.All()
	if items == nil {
		items = []collab.Thread{}
	}
	writeJSON(w, http.StatusOK, ThreadListResponse{Threads: items, Total: len(items)})
}

// GetThread handles GET /threads/{id}.
func (h *ThreadHandler) GetThread(w http.ResponseWriter, r *http.Request) {
	thread, err := h.threads.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, "get thread", err)
		return
	}
	writeJSON(w, http.StatusOK, thread)
}

// CreateThread handles POST /threads.
func (h *ThreadHandler) CreateThread(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req CreateThreadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	thread, err := h.threads.Create(req)
	if err != nil {
		writeStoreError(w, "create thread", err)
		return
	}
	h.publish("created", thread.ID)
	writeJSON(w, http.StatusCreated, thread)
}

// DeleteThread handles DELETE /threads/{id}. Author-only.
func (h *ThreadHandler) DeleteThread(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	who := identity(r)
	if who == "" {
		writeJSON(w, http.StatusBadRequest, errorBody(IdentityHeader+" header is required"))
		return
	}
	if err := h.threads.Delete(id, who); err != nil {
		writeStoreError(w, "delete thread", err)
		return
	}
	h.publish("deleted", id)
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// LikeThread handles POST /threads/{id}/like.
func (h *ThreadHandler) LikeThread(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	count, err := h.threads.Like(id)
	if err != nil {
		writeStoreError(w, "like thread", err)
		return
	}
	h.publish("updated", id)
	writeJSON(w, http.StatusOK, LikeResponse{Likes: count})
}

// AddComment handles POST /threads/{id}/comments.
func (h *ThreadHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	id := chi.URLParam(r, "id")
	var req CommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	comment, err := h.threads.AddComment(id, req.User, req.Text)
	if err != nil {
		writeStoreError(w, "add comment", err)
		return
	}
	h.publish("updated", id)
	writeJSON(w, http.StatusCreated, comment)
}

// RequestCollaboration handles POST /threads/{id}/requests.
func (h *ThreadHandler) RequestCollaboration(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	id := chi.URLParam(r, "id")
	var req CollabRequestBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	collabReq, err := h.threads.RequestCollaboration(id, req.User, req.Message)
	if err != nil {
		writeStoreError(w, "request collaboration", err)
		return
	}
	h.publish("updated", id)
	writeJSON(w, http.StatusCreated, collabReq)
}

// ResolveRequest handles POST /threads/{id}/requests/{requestID}/resolve.
func (h *ThreadHandler) ResolveRequest(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	id := chi.URLParam(r, "id")
	requestID := chi.URLParam(r, "requestID")
	var req ResolveRequestBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	thread, err := h.threads.ResolveRequest(id, requestID, collab.RequestStatus(req.Decision))
	if err != nil {
		writeStoreError(w, "resolve request", err)
		return
	}
	h.publish("updated", id)
	writeJSON(w, http.StatusOK, thread)
}

// EditThread handles PUT /threads/{id}: a versioned edit by the caller
// identified in X-Identity.
func (h *ThreadHandler) EditThread(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	id := chi.URLParam(r, "id")
	who := identity(r)
	if who == "" {
		writeJSON(w, http.StatusBadRequest, errorBody(IdentityHeader+" header is required"))
		return
	}
	var req EditThreadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	thread, err := h.threads.Edit(id, who, req)
	if err != nil {
		writeStoreError(w, "edit thread", err)
		return
	}
	h.publish("updated", id)
	writeJSON(w, http.StatusOK, thread)
}
