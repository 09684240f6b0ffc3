// Package client assembles the session store and the task collection into
// the state engine a front end drives.
package client

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/tasktrack/tasktrack/internal/client/session"
	"github.com/tasktrack/tasktrack/internal/client/tasks"
	"github.com/tasktrack/tasktrack/internal/client/validation"
	"github.com/tasktrack/tasktrack/internal/client/view"
	"github.com/tasktrack/tasktrack/internal/core/domain"
	"github.com/tasktrack/tasktrack/internal/core/ports"
)

// ErrNotConfirmed is returned when the server did not confirm a task change.
// The reason has already been logged.
var ErrNotConfirmed = errors.New("the server did not confirm the change")

// Gateway is everything the engine needs from the backend.
type Gateway interface {
	ports.AuthGateway
	ports.TaskGateway
}

// App is the client state engine. Task operations require a signed-in user;
// the task list is emptied whenever the user changes.
type App struct {
	Session *session.Store
	Tasks   *tasks.Collection

	checker ports.AvailabilityChecker
	log     zerolog.Logger

	mu     sync.Mutex
	userID string
	unsub  func()
}

// New builds an App on top of gw.
func New(gw Gateway, log zerolog.Logger) *App {
	a := &App{
		Session: session.NewStore(gw, log),
		Tasks:   tasks.NewCollection(gw, log),
		checker: gw,
		log:     log.With().Str("component", "app").Logger(),
	}
	a.unsub = a.Session.Subscribe(a.onSessionChange)
	return a
}

// Close detaches the app from the session store.
func (a *App) Close() {
	if a.unsub != nil {
		a.unsub()
	}
}

func (a *App) onSessionChange(st session.State) {
	a.mu.Lock()
	changed := st.UserID() != a.userID
	a.userID = st.UserID()
	a.mu.Unlock()

	if changed {
		a.log.Debug().Str("user", st.UserID()).Msg("session user changed")
		a.Tasks.Clear()
	}
}

// Start resolves the initial session and loads the user's tasks.
func (a *App) Start(ctx context.Context) session.State {
	st := a.Session.CheckStatus(ctx)
	if st.IsAuthenticated {
		a.Tasks.Reload(ctx)
	}
	return st
}

// Login signs in and loads the user's tasks.
func (a *App) Login(ctx context.Context, usernameOrEmail, password string) (session.Result, validation.Errors) {
	if errs := validation.ValidateLogin(usernameOrEmail, password); len(errs) > 0 {
		return session.Result{}, errs
	}
	res := a.Session.Login(ctx, usernameOrEmail, password)
	if res.Success {
		a.Tasks.Reload(ctx)
	}
	return res, nil
}

// SignupForm returns a registration form probing availability against the
// backend.
func (a *App) SignupForm() *validation.SignupForm {
	return validation.NewSignupForm(a.checker)
}

// Register submits a validated signup form and loads the new user's tasks.
func (a *App) Register(ctx context.Context, form *validation.SignupForm) (session.Result, validation.Errors) {
	if !form.Validate() {
		return session.Result{}, form.Errors()
	}
	res := a.Session.Register(ctx, form.Input())
	if res.Success {
		a.Tasks.Reload(ctx)
	}
	return res, nil
}

// Logout ends the session; the task list is cleared with it.
func (a *App) Logout(ctx context.Context) {
	a.Session.Logout(ctx)
	a.Tasks.Clear()
}

// View projects the current tasks.
func (a *App) View(filter view.Filter, key view.SortKey) view.Projection {
	if !a.Session.IsAuthenticated() {
		return view.Project(nil, filter, key)
	}
	return view.Project(a.Tasks.Snapshot(), filter, key)
}

// Refresh reloads the task list from the server.
func (a *App) Refresh(ctx context.Context) error {
	if err := a.gate(); err != nil {
		return err
	}
	return confirmed(a.Tasks.Reload(ctx))
}

// AddTask validates and creates a task.
func (a *App) AddTask(ctx context.Context, t domain.Task) error {
	if err := a.gate(); err != nil {
		return err
	}
	if err := validation.ValidateTask(t).Err(); err != nil {
		return err
	}
	return confirmed(a.Tasks.Create(ctx, trimmed(t)))
}

// EditTask validates and replaces a task.
func (a *App) EditTask(ctx context.Context, id domain.TaskID, t domain.Task) error {
	if err := a.gate(); err != nil {
		return err
	}
	if err := validation.ValidateTask(t).Err(); err != nil {
		return err
	}
	return confirmed(a.Tasks.Update(ctx, id, trimmed(t)))
}

// CompleteTask marks a task completed.
func (a *App) CompleteTask(ctx context.Context, id domain.TaskID) error {
	if err := a.gate(); err != nil {
		return err
	}
	return confirmed(a.Tasks.Complete(ctx, id))
}

// ToggleTask flips a task's completion.
func (a *App) ToggleTask(ctx context.Context, id domain.TaskID) error {
	if err := a.gate(); err != nil {
		return err
	}
	return confirmed(a.Tasks.Toggle(ctx, id))
}

// DeleteTask removes a task.
func (a *App) DeleteTask(ctx context.Context, id domain.TaskID) error {
	if err := a.gate(); err != nil {
		return err
	}
	return confirmed(a.Tasks.Delete(ctx, id))
}

func (a *App) gate() error {
	if !a.Session.IsAuthenticated() {
		return domain.ErrNotAuthenticated
	}
	return nil
}

func confirmed(ok bool) error {
	if !ok {
		return ErrNotConfirmed
	}
	return nil
}

func trimmed(t domain.Task) domain.Task {
	return validation.EditTaskForm(t).Task()
}
