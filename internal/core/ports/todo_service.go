package ports

import (
	"context"

	"github.com/tasktrack/tasktrack/internal/core/domain"
)

// TodoInput carries the user-editable todo fields. Priority and Status are
// optional; empty strings mean "not supplied".
type TodoInput struct {
	Title       string
	Description string
	Date        string
	Priority    string
	Status      string
	Completed   bool
}

// TodoService defines the todo use cases, always scoped to one user.
type TodoService interface {
	List(ctx context.Context, userID string) ([]*domain.Todo, error)
	Create(ctx context.Context, userID string, in TodoInput) (*domain.Todo, error)
	Update(ctx context.Context, userID, id string, in TodoInput) (*domain.Todo, error)
	Delete(ctx context.Context, userID, id string) error
	Toggle(ctx context.Context, userID, id string) (*domain.Todo, error)
}
