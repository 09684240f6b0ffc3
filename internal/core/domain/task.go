package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"time"
)

// DateLayout is the calendar date format tasks are exchanged in.
const DateLayout = "2006-01-02"

var (
	ErrTodoNotFound = errors.New("todo not found")
	ErrInvalidTodo  = errors.New("invalid todo")
)

// TaskID is the backend-assigned identifier of a task. It is opaque to the
// client; numeric and string JSON encodings are both accepted.
type TaskID string

// UnmarshalJSON accepts `"abc"`, `42` and `null`.
func (id *TaskID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = TaskID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*id = TaskID(n.String())
	return nil
}

// String returns the identifier as used in request paths.
func (id TaskID) String() string { return string(id) }

// Task is a single todo item as seen by the client.
type Task struct {
	ID          TaskID   `json:"id,omitempty"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Date        string   `json:"date"`
	Priority    Priority `json:"priority"`
	Status      Status   `json:"status"`
	Completed   bool     `json:"completed"`
}

// Normalize returns a copy of t with status and priority in canonical form.
// It is applied once at the transport boundary in each direction.
func (t Task) Normalize() Task {
	t.Status = ParseStatus(string(t.Status))
	t.Priority = ParsePriority(string(t.Priority))
	return t
}

// Due parses Date. The boolean is false when the date is missing or malformed.
func (t Task) Due() (time.Time, bool) {
	d, err := time.Parse(DateLayout, t.Date)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// IsCompleted reports whether the task is in the completed status.
func (t Task) IsCompleted() bool {
	return t.Status.Is(StatusCompleted)
}

// FormatID renders a numeric identifier, used by stores with integer keys.
func FormatID(n int64) TaskID {
	return TaskID(strconv.FormatInt(n, 10))
}
