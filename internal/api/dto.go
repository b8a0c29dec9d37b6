package api

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/auralis/elysia/internal/collab"
	"github.com/auralis/elysia/internal/notes"
)

// CreateNoteRequest is the request body for creating a reflection. It is the
// caller-supplied subset of a note; the store assigns the rest.
type CreateNoteRequest = notes.Draft

// NotePatchRequest is the request body for patching a reflection. Id and
// createdAt are not patchable fields; sending them has no effect.
type NotePatchRequest = notes.Patch

// NoteListResponse wraps the reflections feed.
type NoteListResponse struct {
	Notes []notes.Note `json:"notes"`
	Total int          `json:"total"`
}

// SaveNoteResponse is returned after a successful note creation.
type SaveNoteResponse struct {
	ID string `json:"id"`
}

// LikeResponse is returned by the like endpoints.
type LikeResponse struct {
	Likes int `json:"likes"`
}

// CreateThreadRequest is the request body for creating a thread.
type CreateThreadRequest = collab.NewThread

// EditThreadRequest is the request body for a versioned edit; omitted fields
// keep their current values.
type EditThreadRequest = collab.Edit

// ThreadListResponse wraps the collaboration board listing.
type ThreadListResponse struct {
	Threads []collab.Thread `json:"threads"`
	Total   int             `json:"total"`
}

// CommentRequest is the request body for adding a comment.
type CommentRequest struct {
	User string `json:"user"`
	Text string `json:"text"`
}

// Validate checks the comment fields.
func (r CommentRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.User, validation.Required),
		validation.Field(&r.Text, validation.Required),
	)
}

// CollabRequestBody is the request body for requesting collaboration.
type CollabRequestBody struct {
	User    string `json:"user"`
	Message string `json:"message"`
}

// Validate checks the collaboration request fields.
func (r CollabRequestBody) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.User, validation.Required),
		validation.Field(&r.Message, validation.Required),
	)
}

// ResolveRequestBody carries the author's decision on a collaboration
// request.
type ResolveRequestBody struct {
	Decision string `json:"decision"`
}

// Validate checks that the decision is one of the terminal states.
func (r ResolveRequestBody) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Decision, validation.Required,
			validation.In(string(collab.StatusAccepted), string(collab.StatusRejected))),
	)
}
