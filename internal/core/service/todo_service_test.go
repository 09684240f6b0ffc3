package service

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tasktrack/tasktrack/internal/core/domain"
	"github.com/tasktrack/tasktrack/internal/core/ports"
)

type stubTodoRepo struct {
	todos     map[string]*domain.Todo
	seq       int
	createErr error
}

func newStubTodoRepo() *stubTodoRepo {
	return &stubTodoRepo{todos: make(map[string]*domain.Todo)}
}

func (r *stubTodoRepo) Create(_ context.Context, t *domain.Todo) (*domain.Todo, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	r.seq++
	clone := *t
	clone.ID = strconv.Itoa(r.seq)
	stored := clone
	r.todos[clone.ID] = &stored
	return &clone, nil
}

func (r *stubTodoRepo) ListByUser(_ context.Context, userID string) ([]*domain.Todo, error) {
	var out []*domain.Todo
	for _, t := range r.todos {
		if t.UserID == userID {
			clone := *t
			out = append(out, &clone)
		}
	}
	return out, nil
}

// FindByIDAndUser mirrors the ownership filter of the real repositories.
func (r *stubTodoRepo) FindByIDAndUser(_ context.Context, id, userID string) (*domain.Todo, error) {
	t, ok := r.todos[id]
	if !ok || t.UserID != userID {
		return nil, domain.ErrTodoNotFound
	}
	clone := *t
	return &clone, nil
}

func (r *stubTodoRepo) Update(_ context.Context, t *domain.Todo) error {
	if _, ok := r.todos[t.ID]; !ok {
		return domain.ErrTodoNotFound
	}
	clone := *t
	r.todos[t.ID] = &clone
	return nil
}

func (r *stubTodoRepo) Delete(_ context.Context, id, userID string) error {
	t, ok := r.todos[id]
	if !ok || t.UserID != userID {
		return domain.ErrTodoNotFound
	}
	delete(r.todos, id)
	return nil
}

func TestTodoService_Create_Defaults(t *testing.T) {
	svc := NewTodoService(newStubTodoRepo(), zerolog.Nop())

	todo, err := svc.Create(context.Background(), "u1", ports.TodoInput{Title: " Buy milk ", Date: "2026-01-01"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if todo.ID == "" || todo.Title != "Buy milk" || todo.UserID != "u1" {
		t.Fatalf("unexpected todo %+v", todo)
	}
	if todo.Priority != domain.PriorityMedium || todo.Status != domain.StatusPending || todo.Completed {
		t.Fatalf("unexpected defaults %+v", todo)
	}
}

func TestTodoService_Create_AcceptsAnyCase(t *testing.T) {
	svc := NewTodoService(newStubTodoRepo(), zerolog.Nop())
	ctx := context.Background()

	cases := []struct {
		priority, status string
		wantP            domain.Priority
		wantS            domain.Status
	}{
		{"High", "Completed", domain.PriorityHigh, domain.StatusCompleted},
		{"LOW", "IN_PROGRESS", domain.PriorityLow, domain.StatusInProgress},
		{"medium", "in progress", domain.PriorityMedium, domain.StatusInProgress},
		{"Medium", "pending", domain.PriorityMedium, domain.StatusPending},
	}
	for _, tc := range cases {
		todo, err := svc.Create(ctx, "u1", ports.TodoInput{Title: "t", Priority: tc.priority, Status: tc.status})
		if err != nil {
			t.Fatalf("Create(%s, %s): %v", tc.priority, tc.status, err)
		}
		if todo.Priority != tc.wantP || todo.Status != tc.wantS {
			t.Fatalf("got %s/%s, want %s/%s", todo.Priority, todo.Status, tc.wantP, tc.wantS)
		}
		if todo.Completed != (tc.wantS == domain.StatusCompleted) {
			t.Fatalf("completed flag out of sync for %s", tc.status)
		}
	}
}

func TestTodoService_Create_Invalid(t *testing.T) {
	svc := NewTodoService(newStubTodoRepo(), zerolog.Nop())
	ctx := context.Background()

	for _, in := range []ports.TodoInput{
		{Title: "  "},
		{Title: "t", Priority: "urgent"},
		{Title: "t", Status: "archived"},
	} {
		if _, err := svc.Create(ctx, "u1", in); !errors.Is(err, domain.ErrInvalidTodo) {
			t.Fatalf("expected ErrInvalidTodo for %+v, got %v", in, err)
		}
	}
}

func TestTodoService_Create_RepoError(t *testing.T) {
	repo := newStubTodoRepo()
	repo.createErr = errors.New("db down")
	svc := NewTodoService(repo, zerolog.Nop())

	if _, err := svc.Create(context.Background(), "u1", ports.TodoInput{Title: "t"}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestTodoService_Update(t *testing.T) {
	svc := NewTodoService(newStubTodoRepo(), zerolog.Nop())
	ctx := context.Background()
	todo, _ := svc.Create(ctx, "u1", ports.TodoInput{Title: "t", Priority: "High"})

	updated, err := svc.Update(ctx, "u1", todo.ID, ports.TodoInput{Title: "t2", Completed: true})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Title != "t2" || updated.Priority != domain.PriorityHigh || !updated.Completed || updated.Status != domain.StatusPending {
		t.Fatalf("priority and status must be kept when omitted: %+v", updated)
	}

	updated, err = svc.Update(ctx, "u1", todo.ID, ports.TodoInput{Title: "t2", Status: "COMPLETED"})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if !updated.Completed || updated.Status != domain.StatusCompleted {
		t.Fatalf("supplied status must drive completed: %+v", updated)
	}
}

func TestTodoService_OtherUsersTodoIsNotFound(t *testing.T) {
	svc := NewTodoService(newStubTodoRepo(), zerolog.Nop())
	ctx := context.Background()
	todo, _ := svc.Create(ctx, "owner", ports.TodoInput{Title: "mine"})

	if _, err := svc.Update(ctx, "intruder", todo.ID, ports.TodoInput{Title: "x"}); !errors.Is(err, domain.ErrTodoNotFound) {
		t.Fatalf("update: expected ErrTodoNotFound, got %v", err)
	}
	if _, err := svc.Toggle(ctx, "intruder", todo.ID); !errors.Is(err, domain.ErrTodoNotFound) {
		t.Fatalf("toggle: expected ErrTodoNotFound, got %v", err)
	}
	if err := svc.Delete(ctx, "intruder", todo.ID); !errors.Is(err, domain.ErrTodoNotFound) {
		t.Fatalf("delete: expected ErrTodoNotFound, got %v", err)
	}
	list, _ := svc.List(ctx, "intruder")
	if len(list) != 0 {
		t.Fatalf("intruder sees %d todos", len(list))
	}
}

func TestTodoService_Toggle(t *testing.T) {
	svc := NewTodoService(newStubTodoRepo(), zerolog.Nop())
	ctx := context.Background()
	todo, _ := svc.Create(ctx, "u1", ports.TodoInput{Title: "t", Status: "IN_PROGRESS"})

	got, err := svc.Toggle(ctx, "u1", todo.ID)
	if err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	if !got.Completed || got.Status != domain.StatusCompleted {
		t.Fatalf("expected completed todo, got %+v", got)
	}

	got, _ = svc.Toggle(ctx, "u1", todo.ID)
	if got.Completed || got.Status != domain.StatusPending {
		t.Fatalf("expected reopened todo, got %+v", got)
	}
}

func TestTodoService_Delete(t *testing.T) {
	svc := NewTodoService(newStubTodoRepo(), zerolog.Nop())
	ctx := context.Background()
	todo, _ := svc.Create(ctx, "u1", ports.TodoInput{Title: "t"})

	if err := svc.Delete(ctx, "u1", todo.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if list, _ := svc.List(ctx, "u1"); len(list) != 0 {
		t.Fatalf("expected empty list, got %d", len(list))
	}
}
