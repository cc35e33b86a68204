// Package memory provides in-process implementations of the session store,
// the per-user advisory lock table and the notification dedupe cache. All
// state is bounded by the number of distinct users (or open rows) and is
// fully recoverable from persistent storage after a restart.
package memory

import (
	"sync"

	"github.com/dmitryusaty7/MSCShiftBot-sub000/internal/ports/secondary"
)

// SessionStore keeps one ShiftSession per user in a mutex-guarded map.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[int64]*secondary.ShiftSession
}

// NewSessionStore creates an empty session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[int64]*secondary.ShiftSession)}
}

func (s *SessionStore) Get(userID int64) (*secondary.ShiftSession, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[userID]
	return session, ok
}

func (s *SessionStore) Put(userID int64, session *secondary.ShiftSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[userID] = session
}

func (s *SessionStore) Delete(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
}

// Ensure SessionStore implements the interface
var _ secondary.SessionStore = (*SessionStore)(nil)
