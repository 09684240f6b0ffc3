package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/tasktrack/tasktrack/internal/core/domain"
	"github.com/tasktrack/tasktrack/internal/core/ports"
)

var errEmptyTask = errors.New("response carries no task")

// taskRequest is the body of create and update. The id travels in the path.
type taskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        string `json:"date"`
	Priority    string `json:"priority"`
	Status      string `json:"status"`
	Completed   bool   `json:"completed"`
}

func newTaskRequest(t domain.Task) taskRequest {
	t = t.Normalize()
	return taskRequest{
		Title:       t.Title,
		Description: t.Description,
		Date:        t.Date,
		Priority:    string(t.Priority),
		Status:      string(t.Status),
		Completed:   t.Completed,
	}
}

var _ ports.TaskGateway = (*Client)(nil)

// List fetches the user's tasks. A reply without a todos field is an empty
// list.
func (c *Client) List(ctx context.Context) ([]domain.Task, error) {
	r, err := c.do(ctx, http.MethodGet, nil, "todos")
	if err != nil {
		return nil, err
	}
	if !r.ok() || r.env.rejected() {
		return nil, statusErr(r)
	}

	tasks := r.env.Todos
	if len(r.body) > 0 && r.body[0] == '[' {
		if err := json.Unmarshal(r.body, &tasks); err != nil {
			return nil, fmt.Errorf("decode todos: %w", err)
		}
	}

	out := make([]domain.Task, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.Normalize())
	}
	return out, nil
}

// Create posts a new task and returns the record the server stored. Both
// {todo: ...} and a bare task are accepted.
func (c *Client) Create(ctx context.Context, task domain.Task) (*domain.Task, error) {
	r, err := c.do(ctx, http.MethodPost, newTaskRequest(task), "todos")
	if err != nil {
		return nil, err
	}
	if !r.ok() || r.env.rejected() {
		return nil, statusErr(r)
	}

	created := r.env.Todo
	if created == nil {
		var bare domain.Task
		if err := json.Unmarshal(r.body, &bare); err != nil {
			return nil, fmt.Errorf("decode created todo: %w", err)
		}
		if bare.ID == "" && bare.Title == "" {
			return nil, errEmptyTask
		}
		created = &bare
	}
	normalized := created.Normalize()
	return &normalized, nil
}

// Update replaces the task identified by id.
func (c *Client) Update(ctx context.Context, id domain.TaskID, task domain.Task) error {
	return c.mutate(ctx, http.MethodPut, newTaskRequest(task), "todos", url.PathEscape(id.String()))
}

// Toggle flips the completion flag of the task.
func (c *Client) Toggle(ctx context.Context, id domain.TaskID) error {
	return c.mutate(ctx, http.MethodPut, nil, "todos", url.PathEscape(id.String()), "toggle")
}

// Delete removes the task. Only the HTTP status decides success.
func (c *Client) Delete(ctx context.Context, id domain.TaskID) error {
	r, err := c.do(ctx, http.MethodDelete, nil, "todos", url.PathEscape(id.String()))
	if err != nil {
		return err
	}
	if !r.ok() {
		return statusErr(r)
	}
	return nil
}

func (c *Client) mutate(ctx context.Context, method string, body any, segments ...string) error {
	r, err := c.do(ctx, method, body, segments...)
	if err != nil {
		return err
	}
	if !r.ok() || r.env.rejected() {
		return statusErr(r)
	}
	return nil
}
