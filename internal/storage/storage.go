package storage

import (
	"sync"
	"time"

	"github.com/lehigh-university-libraries/coverscan/internal/session"
)

type SessionStore struct {
	sessions map[string]*session.Session
	mu       sync.RWMutex
}

func New() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*session.Session),
	}
}

func (s *SessionStore) Get(sessionID string) (*session.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, exists := s.sessions[sessionID]
	return sess, exists
}

func (s *SessionStore) Set(sessionID string, sess *session.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sessionID] = sess
}

func (s *SessionStore) GetAll() map[string]*session.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make(map[string]*session.Session, len(s.sessions))
	for k, v := range s.sessions {
		result[k] = v
	}
	return result
}

func (s *SessionStore) Delete(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}

// Prune removes sessions idle for longer than ttl and returns how many were removed
func (s *SessionStore) Prune(ttl time.Duration) int {
	cutoff := time.Now().Add(-ttl)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, sess := range s.sessions {
		if sess.LastSeen().Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of live sessions
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
