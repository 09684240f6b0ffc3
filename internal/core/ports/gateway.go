package ports

import (
	"context"

	"github.com/tasktrack/tasktrack/internal/core/domain"
)

// AuthReply is the decoded envelope of an auth endpoint. A transport-level
// failure is reported as an error instead; a reply always means the server
// answered.
type AuthReply struct {
	StatusCode int
	Success    bool
	Message    string
	User       *domain.UserProfile
}

// OK reports a 2xx reply carrying a success flag and a user.
func (r *AuthReply) OK() bool {
	return r != nil && r.StatusCode >= 200 && r.StatusCode < 300 && r.Success && r.User != nil
}

// AuthGateway is the client's view of the auth service.
type AuthGateway interface {
	Login(ctx context.Context, usernameOrEmail, password string) (*AuthReply, error)
	Register(ctx context.Context, in RegisterInput) (*AuthReply, error)
	Logout(ctx context.Context) error
	CurrentSession(ctx context.Context) (*AuthReply, error)
	UpdateProfile(ctx context.Context, in ProfileInput) (*AuthReply, error)
	ChangePassword(ctx context.Context, current, next string) (*AuthReply, error)
	CheckUsername(ctx context.Context, username string) (bool, error)
	CheckEmail(ctx context.Context, email string) (bool, error)
}

// TaskGateway is the client's view of the task service. Tasks crossing it are
// already normalised.
type TaskGateway interface {
	List(ctx context.Context) ([]domain.Task, error)
	Create(ctx context.Context, task domain.Task) (*domain.Task, error)
	Update(ctx context.Context, id domain.TaskID, task domain.Task) error
	Delete(ctx context.Context, id domain.TaskID) error
	Toggle(ctx context.Context, id domain.TaskID) error
}

// AvailabilityChecker probes username and email uniqueness. Unlike the
// session store's fail-closed helpers, it reports probe failures as errors.
type AvailabilityChecker interface {
	CheckUsername(ctx context.Context, username string) (bool, error)
	CheckEmail(ctx context.Context, email string) (bool, error)
}
