package collab

import (
	"fmt"
	"strings"
	"time"

	"github.com/auralis/elysia/internal/apperr"
	"github.com/auralis/elysia/internal/kvstore"
	"github.com/auralis/elysia/internal/records"
)

// Store provides the thread operations over one kvstore key.
//
// Permission rules are enforced here, not in consumers: only the author may
// delete a thread or change its title/topic, and only identities in canEdit
// may edit at all. Rejected calls never modify stored state.
type Store struct {
	list *records.List[Thread]
	now  func() time.Time
}

// NewStore creates a thread store over kv.
func NewStore(kv kvstore.Store) *Store {
	return &Store{
		list: records.NewList[Thread](kv, StorageKey),
		now:  time.Now,
	}
}

// All returns every thread, newest first.
func (s *Store) All() []Thread {
	return s.list.ReadAll()
}

// Get returns the thread with the given id, or apperr.ErrNotFound.
func (s *Store) Get(id string) (*Thread, error) {
	for _, t := range s.list.ReadAll() {
		if t.ID == id {
			thread := t
			return &thread, nil
		}
	}
	return nil, apperr.ErrNotFound
}

// Create validates in, builds a version-1 thread whose first snapshot is the
// creation state, and prepends it to the list.
func (s *Store) Create(in NewThread) (*Thread, error) {
	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrInvalid, err)
	}
	now := s.now().UTC()
	t := Thread{
		ID:        records.NewID(),
		Title:     in.Title,
		Topic:     in.Topic,
		Author:    in.Author,
		Body:      in.Body,
		CreatedAt: now,
		UpdatedAt: now,
		Version:   1,
		Likes:     0,
		CanEdit:   []string{in.Author},
		Versions: []Version{{
			Version: 1,
			Editor:  in.Author,
			Date:    now,
			Title:   in.Title,
			Topic:   in.Topic,
			Body:    in.Body,
		}},
		Comments:       []Comment{},
		CollabRequests: []Request{},
	}
	if err := s.list.Prepend(t); err != nil {
		return nil, err
	}
	return &t, nil
}

// Delete removes the thread. Only the author may delete;
// apperr.ErrForbidden otherwise.
func (s *Store) Delete(id, identity string) error {
	items := s.list.ReadAll()
	for i := range items {
		if items[i].ID != id {
			continue
		}
		if items[i].Author != identity {
			return apperr.ErrForbidden
		}
		return s.list.WriteAll(append(items[:i], items[i+1:]...))
	}
	return apperr.ErrNotFound
}

// Like increments the like counter and returns the new count. As with notes,
// per-identity deduplication is the caller's concern.
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

// AddComment appends a comment. Empty or whitespace-only text is rejected
// with apperr.ErrInvalid.
func (s *Store) AddComment(id, user, text string) (*Comment, error) {
	if isBlank(text) {
		return nil, fmt.Errorf("%w: comment text is empty", apperr.ErrInvalid)
	}
	items := s.list.ReadAll()
	for i := range items {
		if items[i].ID != id {
			continue
		}
		c := Comment{
			ID:        records.NewID(),
			User:      user,
			Text:      text,
			CreatedAt: s.now().UTC(),
		}
		items[i].Comments = append(items[i].Comments, c)
		if err := s.list.WriteAll(items); err != nil {
			return nil, err
		}
		return &c, nil
	}
	return nil, apperr.ErrNotFound
}

// RequestCollaboration appends a pending collaboration request. Empty or
// whitespace-only messages are rejected with apperr.ErrInvalid.
func (s *Store) RequestCollaboration(id, user, message string) (*Request, error) {
	if isBlank(message) {
		return nil, fmt.Errorf("%w: request message is empty", apperr.ErrInvalid)
	}
	items := s.list.ReadAll()
	for i := range items {
		if items[i].ID != id {
			continue
		}
		r := Request{
			ID:        records.NewID(),
			User:      user,
			Message:   message,
			CreatedAt: s.now().UTC(),
			Status:    StatusPending,
		}
		items[i].CollabRequests = append(items[i].CollabRequests, r)
		if err := s.list.WriteAll(items); err != nil {
			return nil, err
		}
		return &r, nil
	}
	return nil, apperr.ErrNotFound
}

// ResolveRequest transitions a pending request to accepted or rejected.
// A request in a terminal state stays there: resolving it again returns
// apperr.ErrConflict and changes nothing. Accepting grants the requester edit
// rights, idempotently.
func (s *Store) ResolveRequest(threadID, requestID string, decision RequestStatus) (*Thread, error) {
	if !decision.Terminal() {
		return nil, fmt.Errorf("%w: decision must be %q or %q", apperr.ErrInvalid, StatusAccepted, StatusRejected)
	}
	items := s.list.ReadAll()
	for i := range items {
		if items[i].ID != threadID {
			continue
		}
		t := &items[i]
		for j := range t.CollabRequests {
			req := &t.CollabRequests[j]
			if req.ID != requestID {
				continue
			}
			if req.Status != StatusPending {
				return nil, apperr.ErrConflict
			}
			req.Status = decision
			if decision == StatusAccepted && !t.MayEdit(req.User) {
				t.CanEdit = append(t.CanEdit, req.User)
			}
			if err := s.list.WriteAll(items); err != nil {
				return nil, err
			}
			thread := *t
			return &thread, nil
		}
		return nil, apperr.ErrNotFound
	}
	return nil, apperr.ErrNotFound
}

// Edit applies e as a new version. Editors outside canEdit are rejected with
// apperr.ErrForbidden and no version is consumed. A non-author editor may
// only change the body; supplied title/topic changes are dropped, not
// rejected, and the body change still applies. Every accepted edit appends
// exactly one snapshot and bumps the version by exactly one.
func (s *Store) Edit(threadID, editor string, e Edit) (*Thread, error) {
	items := s.list.ReadAll()
	for i := range items {
		t := &items[i]
		if t.ID != threadID {
			continue
		}
		if !t.MayEdit(editor) {
			return nil, apperr.ErrForbidden
		}

		title, topic, body := t.Title, t.Topic, t.Body
		if editor == t.Author {
			if e.Title != nil {
				title = *e.Title
			}
			if e.Topic != nil {
				topic = *e.Topic
			}
		}
		if e.Body != nil {
			body = *e.Body
		}

		now := s.now().UTC()
		t.Version++
		t.Versions = append(t.Versions, Version{
			Version: t.Version,
			Editor:  editor,
			Date:    now,
			Title:   title,
			Topic:   topic,
			Body:    body,
		})
		t.Title, t.Topic, t.Body = title, topic, body
		t.UpdatedAt = now

		if err := s.list.WriteAll(items); err != nil {
			return nil, err
		}
		thread := *t
		return &thread, nil
	}
	return nil, apperr.ErrNotFound
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
