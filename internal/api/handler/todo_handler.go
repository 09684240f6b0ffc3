package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/tasktrack/tasktrack/internal/api/metrics"
	"github.com/tasktrack/tasktrack/internal/core/domain"
	"github.com/tasktrack/tasktrack/internal/core/ports"
)

type TodoHandler struct {
	todos ports.TodoService
	log   zerolog.Logger
}

func NewTodoHandler(todos ports.TodoService, log zerolog.Logger) *TodoHandler {
	return &TodoHandler{todos: todos, log: log}
}

type todoRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"max=2000"`
	Date        string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Priority    string `json:"priority"`
	Status      string `json:"status"`
	Completed   bool   `json:"completed"`
}

func (r *todoRequest) input() ports.TodoInput {
	return ports.TodoInput{
		Title:       r.Title,
		Description: r.Description,
		Date:        r.Date,
		Priority:    r.Priority,
		Status:      r.Status,
		Completed:   r.Completed,
	}
}

type todoResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message,omitempty"`
	Todo    *domain.Task `json:"todo,omitempty"`
}

type todoListResponse struct {
	Success bool          `json:"success"`
	Todos   []domain.Task `json:"todos"`
}

func todoBody(t *domain.Todo, msg string) todoResponse {
	task := t.Task()
	return todoResponse{Success: true, Message: msg, Todo: &task}
}

// List returns the session user's todos, newest first.
//
// @Summary      List todos
// @Tags         todos
// @Produce      json
// @Success      200  {object}  todoListResponse
// @Failure      401  {object}  messageResponse
// @Router       /todos [get]
func (h *TodoHandler) List(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	todos, err := h.todos.List(c.Request().Context(), userID)
	if err != nil {
		h.log.Error().Err(err).Str("user_id", userID).Msg("failed to list todos")
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch todos")
	}

	out := make([]domain.Task, 0, len(todos))
	for _, t := range todos {
		out = append(out, t.Task())
	}
	return c.JSON(http.StatusOK, todoListResponse{Success: true, Todos: out})
}

// Create adds a todo. Priority defaults to MEDIUM and status to PENDING.
//
// @Summary      Create todo
// @Tags         todos
// @Accept       json
// @Produce      json
// @Param        body  body      todoRequest  true  "Todo"
// @Success      201   {object}  todoResponse
// @Failure      400   {object}  messageResponse
// @Failure      401   {object}  messageResponse
// @Router       /todos [post]
func (h *TodoHandler) Create(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}
	var req todoRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	todo, err := h.todos.Create(c.Request().Context(), userID, req.input())
	metrics.TodoMutationsTotal.WithLabelValues("create", metrics.Result(err)).Inc()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, todoBody(todo, "Todo created successfully"))
}

// Update replaces a todo's fields.
//
// @Summary      Update todo
// @Tags         todos
// @Accept       json
// @Produce      json
// @Param        id    path      string       true  "Todo ID"
// @Param        body  body      todoRequest  true  "Todo"
// @Success      200   {object}  todoResponse
// @Failure      400   {object}  messageResponse
// @Failure      404   {object}  messageResponse
// @Router       /todos/{id} [put]
func (h *TodoHandler) Update(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}
	var req todoRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	todo, err := h.todos.Update(c.Request().Context(), userID, pathParam(c, "id"), req.input())
	metrics.TodoMutationsTotal.WithLabelValues("update", metrics.Result(err)).Inc()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, todoBody(todo, "Todo updated successfully"))
}

// Toggle flips a todo's completion.
//
// @Summary      Toggle todo
// @Tags         todos
// @Produce      json
// @Param        id   path      string  true  "Todo ID"
// @Success      200  {object}  todoResponse
// @Failure      404  {object}  messageResponse
// @Router       /todos/{id}/toggle [put]
func (h *TodoHandler) Toggle(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	todo, err := h.todos.Toggle(c.Request().Context(), userID, pathParam(c, "id"))
	metrics.TodoMutationsTotal.WithLabelValues("toggle", metrics.Result(err)).Inc()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, todoBody(todo, "Todo status updated successfully"))
}

// Delete removes a todo.
//
// @Summary      Delete todo
// @Tags         todos
// @Produce      json
// @Param        id   path      string  true  "Todo ID"
// @Success      200  {object}  messageResponse
// @Failure      404  {object}  messageResponse
// @Router       /todos/{id} [delete]
func (h *TodoHandler) Delete(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	err = h.todos.Delete(c.Request().Context(), userID, pathParam(c, "id"))
	metrics.TodoMutationsTotal.WithLabelValues("delete", metrics.Result(err)).Inc()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Success: true, Message: "Todo deleted successfully"})
}
