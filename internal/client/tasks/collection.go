// Package tasks holds the client's list of tasks. The server is the source
// of truth: every mutation is sent first and the list is refreshed from the
// reply, never patched ahead of it.
package tasks

import (
	"context"
	"slices"
	"sync"

	"github.com/rs/zerolog"

	"github.com/tasktrack/tasktrack/internal/core/domain"
	"github.com/tasktrack/tasktrack/internal/core/ports"
)

// Collection is the local task list. Methods return whether the server
// confirmed the operation; failures are logged, not returned.
type Collection struct {
	gw  ports.TaskGateway
	log zerolog.Logger

	mu    sync.Mutex
	tasks []domain.Task
	gen   uint64 // bumped by every reload and clear
	epoch uint64 // bumped by clear only
}

// NewCollection returns an empty collection backed by gw.
func NewCollection(gw ports.TaskGateway, log zerolog.Logger) *Collection {
	return &Collection{
		gw:  gw,
		log: log.With().Str("component", "tasks").Logger(),
	}
}

// Snapshot returns a copy of the current list.
func (c *Collection) Snapshot() []domain.Task {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.tasks)
}

// Len returns the number of tasks held.
func (c *Collection) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.tasks)
}

// Find returns the task with the given id.
func (c *Collection) Find(id domain.TaskID) (domain.Task, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := slices.IndexFunc(c.tasks, func(t domain.Task) bool { return t.ID == id })
	if i < 0 {
		return domain.Task{}, false
	}
	return c.tasks[i], true
}

// Clear empties the list and invalidates any reload still in flight.
func (c *Collection) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.epoch++
	c.tasks = nil
}

// Reload replaces the list with the server's. A response that arrives after
// a newer reload or a Clear is discarded. On failure the previous list is
// kept.
func (c *Collection) Reload(ctx context.Context) bool {
	c.mu.Lock()
	c.gen++
	token := c.gen
	c.mu.Unlock()

	fetched, err := c.gw.List(ctx)
	if err != nil {
		c.log.Error().Err(err).Msg("error fetching todos")
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if token != c.gen {
		c.log.Debug().Uint64("generation", token).Msg("dropping superseded todo list")
		return false
	}
	c.tasks = fetched
	return true
}

// Create sends a new task. Status defaults to pending when omitted and the
// task starts uncompleted. The stored record is appended without a reload.
func (c *Collection) Create(ctx context.Context, task domain.Task) bool {
	task.ID = ""
	if task.Status == "" {
		task.Status = domain.StatusPending
	}
	task.Completed = false

	c.mu.Lock()
	epoch := c.epoch
	c.mu.Unlock()

	created, err := c.gw.Create(ctx, task)
	if err != nil {
		c.log.Error().Err(err).Str("title", task.Title).Msg("error creating todo")
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if epoch != c.epoch {
		c.log.Debug().Str("id", created.ID.String()).Msg("list cleared while creating; not appending")
		return true
	}
	c.tasks = append(c.tasks, *created)
	return true
}

// Update replaces a task and reloads the list.
func (c *Collection) Update(ctx context.Context, id domain.TaskID, task domain.Task) bool {
	if err := c.gw.Update(ctx, id, task); err != nil {
		c.log.Error().Err(err).Str("id", id.String()).Msg("error updating todo")
		return false
	}
	c.Reload(ctx)
	return true
}

// Complete marks a known task completed through Update.
func (c *Collection) Complete(ctx context.Context, id domain.TaskID) bool {
	task, ok := c.Find(id)
	if !ok {
		c.log.Error().Str("id", id.String()).Msg("cannot complete unknown todo")
		return false
	}
	task.Status = domain.StatusCompleted
	task.Completed = true
	return c.Update(ctx, id, task)
}

// Toggle flips the completion flag on the server and reloads the list.
func (c *Collection) Toggle(ctx context.Context, id domain.TaskID) bool {
	if err := c.gw.Toggle(ctx, id); err != nil {
		c.log.Error().Err(err).Str("id", id.String()).Msg("error toggling todo")
		return false
	}
	c.Reload(ctx)
	return true
}

// Delete removes a task and reloads the list.
func (c *Collection) Delete(ctx context.Context, id domain.TaskID) bool {
	if err := c.gw.Delete(ctx, id); err != nil {
		c.log.Error().Err(err).Str("id", id.String()).Msg("error deleting todo")
		return false
	}
	c.Reload(ctx)
	return true
}
