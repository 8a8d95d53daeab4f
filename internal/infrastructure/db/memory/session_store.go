// Package memory holds process-local adapters used when no external store
// is configured.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/ledgerbook/finance-tracker/internal/core/ports"
)

type session struct {
	username  string
	expiresAt time.Time
}

// SessionStore is a mutex-guarded map of sessions. Sessions do not survive
// a restart.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]session
	now      func() time.Time
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]session), now: time.Now}
}

func (s *SessionStore) Save(_ context.Context, sessionID, username string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweepLocked()
	s.sessions[sessionID] = session{username: username, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *SessionStore) Lookup(_ context.Context, sessionID string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[sessionID]
	if !ok || !s.now().Before(sess.expiresAt) {
		return "", ports.ErrSessionNotFound
	}
	return sess.username, nil
}

func (s *SessionStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}

// sweepLocked drops expired sessions. Called on every Save so the map stays
// bounded by the number of live sessions.
func (s *SessionStore) sweepLocked() {
	now := s.now()
	for id, sess := range s.sessions {
		if !now.Before(sess.expiresAt) {
			delete(s.sessions, id)
		}
	}
}
