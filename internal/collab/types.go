// Package collab implements the collaboration board: versioned multi-author
// threads with comments, collaboration requests, and per-field edit
// permissions.
package collab

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// StorageKey is the key the threads list lives under. The version suffix is
// the schema-migration strategy for threads: a breaking change bumps the
// suffix and abandons the old data rather than migrating it.
const StorageKey = "auralis-collab-threads-v4"

// RequestStatus is the lifecycle state of a collaboration request.
type RequestStatus string

const (
	StatusPending  RequestStatus = "pending"
	StatusAccepted RequestStatus = "accepted"
	StatusRejected RequestStatus = "rejected"
)

// Terminal reports whether the status permits no further transition.
func (s RequestStatus) Terminal() bool {
	return s == StatusAccepted || s == StatusRejected
}

// Version is one immutable snapshot in a thread's edit history.
type Version struct {
	Version int       `json:"version"`
	Editor  string    `json:"editor"`
	Date    time.Time `json:"date"`
	Title   string    `json:"title"`
	Topic   string    `json:"topic"`
	Body    string    `json:"body"`
}

// Comment is an append-only thread comment. Comments cannot be edited or
// deleted.
type Comment struct {
	ID        string    `json:"id"`
	User      string    `json:"user"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

// Request is a proposal by a non-author to gain edit rights on a thread.
type Request struct {
	ID        string        `json:"id"`
	User      string        `json:"user"`
	Message   string        `json:"message"`
	CreatedAt time.Time     `json:"createdAt"`
	Status    RequestStatus `json:"status"`
}

// Thread is a collaborative creative-idea post.
//
// Invariants maintained by the store: len(Versions) == Version at all times,
// snapshot i carries version i+1, CanEdit always contains Author, and
// Versions/Comments are append-only.
type Thread struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Topic          string    `json:"topic"`
	Author         string    `json:"author"`
	Body           string    `json:"body"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
	Version        int       `json:"version"`
	Likes          int       `json:"likes"`
	CanEdit        []string  `json:"canEdit"`
	Versions       []Version `json:"versions"`
	Comments       []Comment `json:"comments"`
	CollabRequests []Request `json:"collabRequests"`
}

// MayEdit reports whether identity holds edit rights on the thread.
func (t *Thread) MayEdit(identity string) bool {
	for _, id := range t.CanEdit {
		if id == identity {
			return true
		}
	}
	return false
}

// NewThread holds the fields required to create a thread.
type NewThread struct {
	Title  string `json:"title"`
	Topic  string `json:"topic"`
	Body   string `json:"body"`
	Author string `json:"author"`
}

// Validate checks that all creation fields are present.
func (in NewThread) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Title, validation.Required),
		validation.Field(&in.Topic, validation.Required),
		validation.Field(&in.Body, validation.Required),
		validation.Field(&in.Author, validation.Required),
	)
}

// Edit is a requested change to a thread; nil fields keep the current value.
// Title and Topic only apply when the editor is the thread author.
type Edit struct {
	Title *string `json:"title,omitempty"`
	Topic *string `json:"topic,omitempty"`
	Body  *string `json:"body,omitempty"`
}
