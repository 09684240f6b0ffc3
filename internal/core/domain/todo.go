package domain

import "time"

// Todo is a task as persisted by the server, owned by a single user.
type Todo struct {
	ID          string
	UserID      string
	Title       string
	Description string
	Date        string
	Priority    Priority
	Status      Status
	Completed   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Task renders the wire view of t. Status and priority go out as upper-case
// tokens; clients normalise them on receipt.
func (t *Todo) Task() Task {
	return Task{
		ID:          TaskID(t.ID),
		Title:       t.Title,
		Description: t.Description,
		Date:        t.Date,
		Priority:    Priority(t.Priority.Token()),
		Status:      ParseStatus(string(t.Status)),
		Completed:   t.Completed,
	}
}

// SetStatus updates the status and keeps the completed flag consistent with it.
func (t *Todo) SetStatus(s Status) {
	t.Status = ParseStatus(string(s))
	t.Completed = t.Status == StatusCompleted
}
