package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/tasktrack/tasktrack/internal/core/domain"
	"github.com/tasktrack/tasktrack/internal/core/service"
	"github.com/tasktrack/tasktrack/internal/infrastructure/db/memory"
)

func newTodoHandler() *TodoHandler {
	return NewTodoHandler(service.NewTodoService(memory.NewTodoRepository(), zerolog.Nop()), zerolog.Nop())
}

func todoContext(method, body, owner, id string) (echo.Context, *httptest.ResponseRecorder) {
	c, rec := newTestContext(method, "/api/todos", body)
	if owner != "" {
		signIn(c, &domain.User{ID: owner}, "sid-"+owner)
	}
	if id != "" {
		c.SetParamNames("id")
		c.SetParamValues(id)
	}
	return c, rec
}

func createTodo(t *testing.T, h *TodoHandler, owner, body string) map[string]any {
	t.Helper()
	c, rec := todoContext(http.MethodPost, body, owner, "")
	if err := h.Create(c); err != nil {
		t.Fatalf("create: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	return decode(t, rec)["todo"].(map[string]any)
}

func TestTodoHandler_RequiresSession(t *testing.T) {
	h := newTodoHandler()
	c, _ := todoContext(http.MethodGet, "", "", "")
	if err := h.List(c); !errors.Is(err, domain.ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}
}

func TestTodoHandler_CreateAndList(t *testing.T) {
	h := newTodoHandler()

	todo := createTodo(t, h, "u1", `{"title":"Buy milk","date":"2026-03-01","priority":"High"}`)
	if todo["priority"] != "HIGH" || todo["status"] != "PENDING" || todo["completed"] != false {
		t.Fatalf("unexpected todo %v", todo)
	}
	if todo["id"] == "" || todo["id"] == nil {
		t.Fatalf("expected an id, got %v", todo)
	}

	c, rec := todoContext(http.MethodGet, "", "u1", "")
	if err := h.List(c); err != nil {
		t.Fatalf("list: %v", err)
	}
	todos, _ := decode(t, rec)["todos"].([]any)
	if len(todos) != 1 {
		t.Fatalf("expected 1 todo, got %d", len(todos))
	}

	c, rec = todoContext(http.MethodGet, "", "u2", "")
	if err := h.List(c); err != nil {
		t.Fatalf("list: %v", err)
	}
	if todos, ok := decode(t, rec)["todos"].([]any); !ok || len(todos) != 0 {
		t.Fatalf("other users must see an empty list, got %v", todos)
	}
}

func TestTodoHandler_Create_Invalid(t *testing.T) {
	h := newTodoHandler()

	for _, body := range []string{
		`{"title":""}`,
		`{"title":"t","date":"03/01/2026"}`,
	} {
		c, _ := todoContext(http.MethodPost, body, "u1", "")
		var he *echo.HTTPError
		if err := h.Create(c); !errors.As(err, &he) || he.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for %s, got %v", body, err)
		}
	}

	c, _ := todoContext(http.MethodPost, `{"title":"t","priority":"urgent"}`, "u1", "")
	if err := h.Create(c); !errors.Is(err, domain.ErrInvalidTodo) {
		t.Fatalf("expected ErrInvalidTodo, got %v", err)
	}
}

func TestTodoHandler_UpdateToggleDelete(t *testing.T) {
	h := newTodoHandler()
	id := createTodo(t, h, "u1", `{"title":"Write report","priority":"Low"}`)["id"].(string)

	c, rec := todoContext(http.MethodPut, `{"title":"Write final report","priority":"Low","status":"In Progress"}`, "u1", id)
	if err := h.Update(c); err != nil {
		t.Fatalf("update: %v", err)
	}
	if got := decode(t, rec)["todo"].(map[string]any); got["title"] != "Write final report" || got["status"] != "IN_PROGRESS" {
		t.Fatalf("unexpected todo %v", got)
	}

	c, rec = todoContext(http.MethodPut, "", "u1", id)
	if err := h.Toggle(c); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if got := decode(t, rec)["todo"].(map[string]any); got["completed"] != true || got["status"] != "COMPLETED" {
		t.Fatalf("unexpected toggled todo %v", got)
	}

	c, _ = todoContext(http.MethodDelete, "", "intruder", id)
	if err := h.Delete(c); !errors.Is(err, domain.ErrTodoNotFound) {
		t.Fatalf("expected ErrTodoNotFound for another user, got %v", err)
	}

	c, rec = todoContext(http.MethodDelete, "", "u1", id)
	if err := h.Delete(c); err != nil || rec.Code != http.StatusOK {
		t.Fatalf("delete: %v %d", err, rec.Code)
	}
}
