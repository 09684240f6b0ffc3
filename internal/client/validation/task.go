package validation

import (
	"strings"
	"sync"

	"github.com/tasktrack/tasktrack/internal/core/domain"
)

type taskInput struct {
	Title       string `form:"title"       validate:"required"`
	Description string `form:"description" validate:"required"`
	Date        string `form:"date"        validate:"required"`
}

// ValidateTask checks the required text fields of t after trimming.
// Priority and status are never invalid.
func ValidateTask(t domain.Task) Errors {
	return checkStruct(taskInput{
		Title:       strings.TrimSpace(t.Title),
		Description: strings.TrimSpace(t.Description),
		Date:        strings.TrimSpace(t.Date),
	})
}

// TaskForm is the add/edit form for a single task.
type TaskForm struct {
	mu   sync.Mutex
	task domain.Task
	errs Errors
}

// NewTaskForm returns a blank form with the default priority and status.
func NewTaskForm() *TaskForm {
	return &TaskForm{
		task: domain.Task{Priority: domain.PriorityMedium, Status: domain.StatusPending},
		errs: Errors{},
	}
}

// EditTaskForm returns a form pre-filled from an existing task.
func EditTaskForm(t domain.Task) *TaskForm {
	return &TaskForm{task: t.Normalize(), errs: Errors{}}
}

// Set updates one field and clears its inline error. Unknown fields are ignored.
func (f *TaskForm) Set(field Field, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch field {
	case FieldTitle:
		f.task.Title = value
	case FieldDescription:
		f.task.Description = value
	case FieldDate:
		f.task.Date = value
	case FieldPriority:
		f.task.Priority = domain.ParsePriority(value)
	case FieldStatus:
		f.task.Status = domain.ParseStatus(value)
	default:
		return
	}
	delete(f.errs, field)
}

// Validate records inline errors and reports whether the form may be submitted.
func (f *TaskForm) Validate() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs = ValidateTask(f.task)
	return len(f.errs) == 0
}

// Errors returns a copy of the inline errors from the last Validate.
func (f *TaskForm) Errors() Errors {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.errs.clone()
}

// Task returns the task described by the form, text fields trimmed.
func (f *TaskForm) Task() domain.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := f.task
	t.Title = strings.TrimSpace(t.Title)
	t.Description = strings.TrimSpace(t.Description)
	t.Date = strings.TrimSpace(t.Date)
	return t
}

// Reset restores the blank form, as after a successful add.
func (f *TaskForm) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.task = domain.Task{Priority: domain.PriorityMedium, Status: domain.StatusPending}
	f.errs = Errors{}
}
