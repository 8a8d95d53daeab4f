package ports

import (
	"context"
	"errors"
	"time"
)

var ErrSessionNotFound = errors.New("session not found")

// SessionStore keeps the server-side half of a session: the mapping from
// session id to username, bounded by an absolute lifetime.
type SessionStore interface {
	Save(ctx context.Context, sessionID, username string, ttl time.Duration) error
	// Lookup returns ErrSessionNotFound for unknown or expired ids.
	Lookup(ctx context.Context, sessionID string) (string, error)
	Delete(ctx context.Context, sessionID string) error
}
