package ports

import (
	"context"
	"errors"
	"time"
)

// ErrSessionNotFound is returned for unknown, expired or revoked sessions.
var ErrSessionNotFound = errors.New("session not found")

// SessionStore keeps the server-side registry of live login sessions.
type SessionStore interface {
	Save(ctx context.Context, sessionID, userID string, ttl time.Duration) error
	Lookup(ctx context.Context, sessionID string) (userID string, err error)
	Revoke(ctx context.Context, sessionID string) error
	Ping(ctx context.Context) error
}
