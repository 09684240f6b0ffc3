package ports

import (
	"context"

	"github.com/tasktrack/tasktrack/internal/core/domain"
)

// TodoRepository defines persistence operations for todos. Every lookup is
// scoped to the owning user; a todo owned by someone else is reported as
// domain.ErrTodoNotFound.
type TodoRepository interface {
	Create(ctx context.Context, todo *domain.Todo) (*domain.Todo, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Todo, error)
	FindByIDAndUser(ctx context.Context, id, userID string) (*domain.Todo, error)
	Update(ctx context.Context, todo *domain.Todo) error
	Delete(ctx context.Context, id, userID string) error
}
