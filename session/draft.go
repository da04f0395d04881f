// Package session holds the transient buffers accumulated while a user
// assembles an inspection over several steps: staged photos, a staged form
// PDF and the PDF preview page cursor. Drafts belong to one interactive
// session, live only in memory, and are cleared on submit or abandon.
package session

import (
	"fmt"
	"sync"
)

// PendingPhoto is a photo staged on a draft before the final save.
type PendingPhoto struct {
	Data        []byte `json:"-"`
	Caption     string `json:"caption"`
	CaptureDate string `json:"capture_date"`
}

// Draft is the session-scoped buffer for one in-progress inspection.
type Draft struct {
	Photos  []PendingPhoto `json:"photos"`
	PDF     []byte         `json:"-"`
	PDFName string         `json:"pdf_name,omitempty"`
	Page    int            `json:"page"` // PDF preview pagination cursor
}

// DraftStore keys drafts by session id. It is safe for concurrent sessions;
// each session still sees the strictly sequential request/response model.
type DraftStore struct {
	mu     sync.Mutex
	drafts map[string]*Draft
}

func NewDraftStore() *DraftStore {
	return &DraftStore{drafts: make(map[string]*Draft)}
}

// Get returns the draft for a session, creating an empty one on first use.
func (s *DraftStore) Get(sessionID string) *Draft {
	s.mu.Lock()
	defer s.mu.Unlock()
	draft, ok := s.drafts[sessionID]
	if !ok {
		draft = &Draft{}
		s.drafts[sessionID] = draft
	}
	return draft
}

// AddPhoto stages a photo on the session's draft and returns its index.
func (s *DraftStore) AddPhoto(sessionID string, photo PendingPhoto) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	draft, ok := s.drafts[sessionID]
	if !ok {
		draft = &Draft{}
		s.drafts[sessionID] = draft
	}
	draft.Photos = append(draft.Photos, photo)
	return len(draft.Photos) - 1
}

// RemovePhoto drops one staged photo by index.
func (s *DraftStore) RemovePhoto(sessionID string, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	draft, ok := s.drafts[sessionID]
	if !ok || index < 0 || index >= len(draft.Photos) {
		return fmt.Errorf("no staged photo at index %d", index)
	}
	draft.Photos = append(draft.Photos[:index], draft.Photos[index+1:]...)
	return nil
}

// SetPDF stages the uploaded inspection form PDF and resets the preview
// page cursor.
func (s *DraftStore) SetPDF(sessionID, name string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	draft, ok := s.drafts[sessionID]
	if !ok {
		draft = &Draft{}
		s.drafts[sessionID] = draft
	}
	draft.PDF = data
	draft.PDFName = name
	draft.Page = 0
}

// SetPage moves the PDF preview pagination cursor.
func (s *DraftStore) SetPage(sessionID string, page int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if draft, ok := s.drafts[sessionID]; ok && page >= 0 {
		draft.Page = page
	}
}

// Clear discards the session's draft. Called on successful submit and on
// navigation away.
func (s *DraftStore) Clear(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, sessionID)
}
