package ports

import (
	"context"

	"github.com/tasktrack/tasktrack/internal/core/domain"
)

// UserRepository defines the persistence operations for accounts.
// Lookups return domain.ErrUserNotFound when nothing matches; Create returns
// domain.ErrUserExists or domain.ErrEmailExists on a uniqueness conflict.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
}
