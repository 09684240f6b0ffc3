// Package session issues and resolves the signed cookie tokens that identify
// a login session.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/tasktrack/tasktrack/internal/core/domain"
	"github.com/tasktrack/tasktrack/internal/core/ports"
)

const issuerName = "tasktrack"

// Issuer signs an HS256 token carrying the session id (jti) and the user id
// (sub). The session must also be present in the store, so a revoked session
// stops working before its token expires.
type Issuer struct {
	store  ports.SessionStore
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewIssuer(store ports.SessionStore, secret string, ttl time.Duration) *Issuer {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Issuer{store: store, secret: []byte(secret), ttl: ttl, now: time.Now}
}

var _ ports.SessionIssuer = (*Issuer)(nil)

// TTL is the lifetime of issued sessions.
func (i *Issuer) TTL() time.Duration { return i.ttl }

func (i *Issuer) Issue(ctx context.Context, userID string) (string, error) {
	sessionID := uuid.NewString()
	if err := i.store.Save(ctx, sessionID, userID, i.ttl); err != nil {
		return "", err
	}

	now := i.now()
	claims := jwt.RegisteredClaims{
		ID:        sessionID,
		Subject:   userID,
		Issuer:    issuerName,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return token, nil
}

// Resolve verifies the token and the stored session. Every failure is
// reported as domain.ErrNotAuthenticated, wrapped with the cause.
func (i *Issuer) Resolve(ctx context.Context, token string) (string, string, error) {
	if token == "" {
		return "", "", domain.ErrNotAuthenticated
	}

	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuerName),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil || !parsed.Valid {
		return "", "", fmt.Errorf("%w: %v", domain.ErrNotAuthenticated, err)
	}

	userID, err := i.store.Lookup(ctx, claims.ID)
	if errors.Is(err, ports.ErrSessionNotFound) {
		return "", "", fmt.Errorf("%w: session revoked or expired", domain.ErrNotAuthenticated)
	}
	if err != nil {
		return "", "", err
	}
	if userID != claims.Subject {
		return "", "", fmt.Errorf("%w: session does not match token", domain.ErrNotAuthenticated)
	}
	return userID, claims.ID, nil
}

func (i *Issuer) Revoke(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return i.store.Revoke(ctx, sessionID)
}
