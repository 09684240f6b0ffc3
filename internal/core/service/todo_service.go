package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/tasktrack/tasktrack/internal/core/domain"
	"github.com/tasktrack/tasktrack/internal/core/ports"
)

type todoService struct {
	repo ports.TodoRepository
	log  zerolog.Logger
}

// NewTodoService returns a TodoService implementation.
func NewTodoService(repo ports.TodoRepository, log zerolog.Logger) ports.TodoService {
	return &todoService{repo: repo, log: log}
}

// List returns the user's todos, newest first.
func (s *todoService) List(ctx context.Context, userID string) ([]*domain.Todo, error) {
	todos, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	return todos, nil
}

// Create stores a new todo. Priority defaults to medium and status to
// pending; the completed flag follows the status.
func (s *todoService) Create(ctx context.Context, userID string, in ports.TodoInput) (*domain.Todo, error) {
	priority, err := parsePriority(in.Priority, domain.PriorityMedium)
	if err != nil {
		return nil, err
	}
	status, err := parseStatus(in.Status, domain.StatusPending)
	if err != nil {
		return nil, err
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", domain.ErrInvalidTodo)
	}

	now := time.Now().UTC()
	todo := &domain.Todo{
		UserID:      userID,
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		Date:        strings.TrimSpace(in.Date),
		Priority:    priority,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	todo.SetStatus(status)

	created, err := s.repo.Create(ctx, todo)
	if err != nil {
		s.log.Error().Err(err).Str("user_id", userID).Msg("failed to create todo")
		return nil, err
	}
	s.log.Info().Str("todo_id", created.ID).Str("user_id", userID).Msg("todo created")
	return created, nil
}

// Update replaces the editable fields. Priority and status are kept when not
// supplied; a supplied status overrides the completed flag.
func (s *todoService) Update(ctx context.Context, userID, id string, in ports.TodoInput) (*domain.Todo, error) {
	todo, err := s.repo.FindByIDAndUser(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	priority, err := parsePriority(in.Priority, todo.Priority)
	if err != nil {
		return nil, err
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", domain.ErrInvalidTodo)
	}

	todo.Title = title
	todo.Description = strings.TrimSpace(in.Description)
	todo.Date = strings.TrimSpace(in.Date)
	todo.Priority = priority
	todo.Completed = in.Completed
	if in.Status != "" {
		status, err := parseStatus(in.Status, todo.Status)
		if err != nil {
			return nil, err
		}
		todo.SetStatus(status)
	}
	todo.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, todo); err != nil {
		return nil, err
	}
	s.log.Info().Str("todo_id", id).Str("status", string(todo.Status)).Msg("todo updated")
	return todo, nil
}

// Toggle flips the completed flag. The status moves to completed, or back to
// pending when a completed todo is reopened.
func (s *todoService) Toggle(ctx context.Context, userID, id string) (*domain.Todo, error) {
	todo, err := s.repo.FindByIDAndUser(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	switch {
	case !todo.Completed:
		todo.SetStatus(domain.StatusCompleted)
	case todo.Status == domain.StatusCompleted:
		todo.SetStatus(domain.StatusPending)
	default:
		todo.Completed = false
	}
	todo.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, todo); err != nil {
		return nil, err
	}
	return todo, nil
}

func (s *todoService) Delete(ctx context.Context, userID, id string) error {
	if err := s.repo.Delete(ctx, id, userID); err != nil {
		return err
	}
	s.log.Info().Str("todo_id", id).Str("user_id", userID).Msg("todo deleted")
	return nil
}

func parsePriority(raw string, def domain.Priority) (domain.Priority, error) {
	if strings.TrimSpace(raw) == "" {
		return def, nil
	}
	p := domain.ParsePriority(raw)
	if !p.Known() {
		return "", fmt.Errorf("%w: unknown priority %q", domain.ErrInvalidTodo, raw)
	}
	return p, nil
}

func parseStatus(raw string, def domain.Status) (domain.Status, error) {
	if strings.TrimSpace(raw) == "" {
		return def, nil
	}
	st := domain.ParseStatus(raw)
	if !st.Known() {
		st = domain.ParseStatus(strings.ReplaceAll(strings.ToUpper(strings.TrimSpace(raw)), " ", "_"))
	}
	if !st.Known() {
		return "", fmt.Errorf("%w: unknown status %q", domain.ErrInvalidTodo, raw)
	}
	return st, nil
}
