package memory

import (
	"cmp"
	"context"
	"slices"
	"strconv"
	"sync"

	"github.com/tasktrack/tasktrack/internal/core/domain"
	"github.com/tasktrack/tasktrack/internal/core/ports"
)

// TodoRepository numbers todos sequentially.
type TodoRepository struct {
	mu    sync.RWMutex
	seq   int64
	todos map[string]*domain.Todo
}

func NewTodoRepository() *TodoRepository {
	return &TodoRepository{todos: make(map[string]*domain.Todo)}
}

var _ ports.TodoRepository = (*TodoRepository)(nil)

func (r *TodoRepository) Create(_ context.Context, t *domain.Todo) (*domain.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	c := *t
	c.ID = domain.FormatID(r.seq).String()
	stored := c
	r.todos[c.ID] = &stored
	return &c, nil
}

// ListByUser returns the user's todos, newest first.
func (r *TodoRepository) ListByUser(_ context.Context, userID string) ([]*domain.Todo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Todo, 0)
	for _, t := range r.todos {
		if t.UserID == userID {
			c := *t
			out = append(out, &c)
		}
	}
	slices.SortFunc(out, func(a, b *domain.Todo) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(idNumber(b.ID), idNumber(a.ID))
	})
	return out, nil
}

func (r *TodoRepository) FindByIDAndUser(_ context.Context, id, userID string) (*domain.Todo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.todos[id]
	if !ok || t.UserID != userID {
		return nil, domain.ErrTodoNotFound
	}
	c := *t
	return &c, nil
}

func (r *TodoRepository) Update(_ context.Context, t *domain.Todo) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.todos[t.ID]
	if !ok || cur.UserID != t.UserID {
		return domain.ErrTodoNotFound
	}
	c := *t
	r.todos[t.ID] = &c
	return nil
}

func (r *TodoRepository) Delete(_ context.Context, id, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.todos[id]
	if !ok || t.UserID != userID {
		return domain.ErrTodoNotFound
	}
	delete(r.todos, id)
	return nil
}

func idNumber(id string) int64 {
	n, _ := strconv.ParseInt(id, 10, 64)
	return n
}
