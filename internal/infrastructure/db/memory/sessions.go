package memory

import (
	"context"
	"sync"
	"time"

	"github.com/tasktrack/tasktrack/internal/core/ports"
)

type sessionEntry struct {
	userID  string
	expires time.Time
}

// SessionStore keeps sessions in a map. Expired entries are dropped on
// lookup.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]sessionEntry
	now      func() time.Time
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]sessionEntry), now: time.Now}
}

var _ ports.SessionStore = (*SessionStore)(nil)

func (s *SessionStore) Save(_ context.Context, sessionID, userID string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sessionID] = sessionEntry{userID: userID, expires: s.now().Add(ttl)}
	return nil
}

func (s *SessionStore) Lookup(_ context.Context, sessionID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[sessionID]
	if !ok {
		return "", ports.ErrSessionNotFound
	}
	if !s.now().Before(e.expires) {
		delete(s.sessions, sessionID)
		return "", ports.ErrSessionNotFound
	}
	return e.userID, nil
}

func (s *SessionStore) Revoke(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}

func (s *SessionStore) Ping(context.Context) error { return nil }
