package ports

import (
	"context"

	"github.com/tasktrack/tasktrack/internal/core/domain"
)

// RegisterInput carries the fields of a new account.
type RegisterInput struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// ProfileInput is a full replacement of the editable profile fields.
type ProfileInput struct {
	FirstName string
	LastName  string
	Email     string
}

// AccountService defines the account use cases of the server.
type AccountService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	Authenticate(ctx context.Context, usernameOrEmail, password string) (*domain.User, error)
	Get(ctx context.Context, userID string) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID string, in ProfileInput) (*domain.User, error)
	ChangePassword(ctx context.Context, userID, current, next string) error
	UsernameAvailable(ctx context.Context, username string) (bool, error)
	EmailAvailable(ctx context.Context, email string) (bool, error)
}

// SessionIssuer creates, resolves and revokes login sessions. Tokens are the
// opaque values handed to the browser in the session cookie.
type SessionIssuer interface {
	Issue(ctx context.Context, userID string) (token string, err error)
	Resolve(ctx context.Context, token string) (userID, sessionID string, err error)
	Revoke(ctx context.Context, sessionID string) error
}
