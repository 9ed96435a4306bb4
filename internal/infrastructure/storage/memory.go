// Package storage holds interactive dispatch sessions in memory.
//
// A session wraps one allocation pass so API callers can apply overrides and
// re-read summaries between requests. Nothing here is ever persisted: sessions
// exist only for the lifetime of the process, matching the engine's
// one-snapshot lifecycle.
package storage

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/prg-tools/dispatch-backend/internal/application/service"
	"github.com/prg-tools/dispatch-backend/internal/domain/dispatch"
)

// Session is one live dispatch pass. Its mutex serializes overrides and reads
// so interactive edits from concurrent requests stay consistent.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu  sync.Mutex
	svc *service.DispatchService
}

// Records returns the session's current allocation records.
func (s *Session) Records() []dispatch.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.svc.Records()
}

// Override applies a clamped manual edit to one line.
func (s *Session) Override(lineID string, newQty int) (dispatch.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.svc.Override(lineID, newQty)
}

// Summary re-derives the aggregate views for the session's current state.
func (s *Session) Summary() service.Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.svc.Summary()
}

// SessionStore is an in-memory session registry keyed by generated IDs.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewSessionStore creates an empty store.
func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*Session),
	}
}

// Create registers a completed pass and returns its session.
func (s *SessionStore) Create(svc *service.DispatchService) *Session {
	session := &Session{
		ID:        uuid.NewString(),
		CreatedAt: time.Now(),
		svc:       svc,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = session
	return session
}

// Get looks up a session by ID.
func (s *SessionStore) Get(id string) (*Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	return session, ok
}

// Delete removes a session; deleting an unknown ID is a no-op.
func (s *SessionStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// Len returns the number of live sessions.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
