package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tasktrack/tasktrack/internal/core/ports"
)

const sessionPrefix = "tasktrack:session:"

var errNoExpiry = errors.New("session ttl must be positive")

// sessionCmds is the part of the go-redis client the store uses.
type sessionCmds interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Ping(ctx context.Context) *redis.StatusCmd
}

// SessionStore keeps live login sessions in Redis.
// Key format: tasktrack:session:<session_id> -> user id, expiring with the session.
type SessionStore struct {
	client sessionCmds
}

// NewSessionStore creates a SessionStore wrapping the given Redis client.
func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client}
}

var _ ports.SessionStore = (*SessionStore)(nil)

// Save stores the session. The TTL is rounded up to whole seconds; a
// session without expiry is refused.
func (s *SessionStore) Save(ctx context.Context, sessionID, userID string, ttl time.Duration) error {
	if ttl <= 0 {
		return fmt.Errorf("save session: %w", errNoExpiry)
	}
	if err := s.client.Set(ctx, sessionKey(sessionID), userID, expiry(ttl)).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *SessionStore) Lookup(ctx context.Context, sessionID string) (string, error) {
	userID, err := s.client.Get(ctx, sessionKey(sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ports.ErrSessionNotFound
	}
	if err != nil {
		return "", fmt.Errorf("lookup session: %w", err)
	}
	return userID, nil
}

func (s *SessionStore) Revoke(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, sessionKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

func (s *SessionStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func sessionKey(sessionID string) string {
	return sessionPrefix + sessionID
}

func expiry(ttl time.Duration) time.Duration {
	if r := ttl.Truncate(time.Second); r != ttl {
		return r + time.Second
	}
	return ttl
}
