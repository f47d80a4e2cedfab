package memory

import (
	"context"
	"sync"

	"survival-quiz/internal/app"
	"survival-quiz/internal/domain"
)

// SessionStore is an in-memory implementation of app.SessionRepository. A player
// name can back at most one live session.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*app.Session
	names    map[string]string
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*app.Session),
		names:    make(map[string]string),
	}
}

func (s *SessionStore) Register(_ context.Context, session *app.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.names[session.Player]; ok {
		return domain.ErrPlayerNameTaken
	}
	s.sessions[session.ID] = session
	s.names[session.Player] = session.ID
	return nil
}

func (s *SessionStore) Get(id string) (*app.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	return session, ok
}

// Touch reports whether the session is still registered; local reservations never expire.
func (s *SessionStore) Touch(_ context.Context, id string) error {
	if _, ok := s.Get(id); !ok {
		return domain.ErrSessionNotFound
	}
	return nil
}

func (s *SessionStore) Remove(_ context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	if !ok {
		return
	}
	delete(s.sessions, id)
	if s.names[session.Player] == id {
		delete(s.names, session.Player)
	}
}

// Len reports the number of live sessions.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
