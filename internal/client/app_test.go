package client

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tasktrack/tasktrack/internal/client/transport"
	"github.com/tasktrack/tasktrack/internal/client/validation"
	"github.com/tasktrack/tasktrack/internal/client/view"
	"github.com/tasktrack/tasktrack/internal/core/domain"
	"github.com/tasktrack/tasktrack/internal/testutil"
)

func newTestApp(t *testing.T, srv *testutil.APIServer) *App {
	t.Helper()
	gw, err := transport.New(transport.Options{BaseURL: srv.BaseURL, Logger: zerolog.Nop()})
	if err != nil {
		t.Fatalf("transport.New: %v", err)
	}
	app := New(gw, zerolog.Nop())
	t.Cleanup(app.Close)
	return app
}

func register(t *testing.T, ctx context.Context, app *App, username string) {
	t.Helper()
	form := app.SignupForm()
	form.Set(ctx, validation.FieldUsername, username)
	form.Set(ctx, validation.FieldEmail, username+"@example.com")
	form.Set(ctx, validation.FieldPassword, "Secret1")
	form.Set(ctx, validation.FieldConfirmPassword, "Secret1")
	form.Set(ctx, validation.FieldFirstName, "Test")

	res, errs := app.Register(ctx, form)
	if len(errs) > 0 {
		t.Fatalf("register %s: form errors %v", username, errs)
	}
	if !res.Success {
		t.Fatalf("register %s: %s", username, res.Message)
	}
}

func TestApp_EndToEnd(t *testing.T) {
	srv := testutil.NewAPIServer(t)
	ctx := context.Background()
	app := newTestApp(t, srv)

	if st := app.Start(ctx); st.IsAuthenticated {
		t.Fatalf("fresh client must start anonymous")
	}
	if err := app.AddTask(ctx, domain.Task{Title: "early", Description: "too soon", Date: "2026-01-01"}); !errors.Is(err, domain.ErrNotAuthenticated) {
		t.Fatalf("expected gate error before login, got %v", err)
	}

	register(t, ctx, app, "alice")
	if !app.Session.IsAuthenticated() {
		t.Fatalf("register must sign in")
	}

	for _, task := range []domain.Task{
		{Title: "  write report ", Description: "for the board", Date: "2026-03-01", Priority: domain.PriorityHigh},
		{Title: "buy milk", Description: "two litres", Date: "2026-01-15", Priority: domain.PriorityLow, Status: domain.StatusInProgress},
	} {
		if err := app.AddTask(ctx, task); err != nil {
			t.Fatalf("AddTask(%s): %v", task.Title, err)
		}
	}

	p := app.View(view.FilterAll, view.SortDate)
	if len(p.Visible) != 2 || p.Stats.Total != 2 || p.Stats.Pending != 1 || p.Stats.InProgress != 1 {
		t.Fatalf("unexpected projection %+v", p)
	}
	if got := app.View(view.FilterInProgress, view.SortDate); len(got.Visible) != 1 || got.Visible[0].Title != "buy milk" {
		t.Fatalf("supplied status must survive create: %+v", got.Visible)
	}
	if p.Visible[0].Title != "buy milk" || p.Visible[1].Title != "write report" {
		t.Fatalf("expected date order, got %q then %q", p.Visible[0].Title, p.Visible[1].Title)
	}
	report := p.Visible[1]

	edited := report
	edited.Description = "quarterly"
	if err := app.EditTask(ctx, report.ID, edited); err != nil {
		t.Fatalf("EditTask: %v", err)
	}
	if got, _ := app.Tasks.Find(report.ID); got.Description != "quarterly" {
		t.Fatalf("edit not applied: %+v", got)
	}

	if err := app.CompleteTask(ctx, report.ID); err != nil {
		t.Fatalf("CompleteTask: %v", err)
	}
	if got := app.View(view.FilterCompleted, view.SortDate); len(got.Visible) != 1 || got.Stats.Progress != 50 {
		t.Fatalf("unexpected completed view %+v", got)
	}

	if err := app.ToggleTask(ctx, report.ID); err != nil {
		t.Fatalf("ToggleTask: %v", err)
	}
	if got, _ := app.Tasks.Find(report.ID); got.IsCompleted() {
		t.Fatalf("toggle must reopen the task: %+v", got)
	}

	if err := app.DeleteTask(ctx, report.ID); err != nil {
		t.Fatalf("DeleteTask: %v", err)
	}
	if app.Tasks.Len() != 1 {
		t.Fatalf("expected one task after delete, got %d", app.Tasks.Len())
	}

	if err := app.Refresh(ctx); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if app.Tasks.Len() != 1 {
		t.Fatalf("server and client disagree after refresh: %d", app.Tasks.Len())
	}

	app.Logout(ctx)
	if app.Session.IsAuthenticated() || app.Tasks.Len() != 0 {
		t.Fatalf("logout must clear the session and the tasks")
	}
	if got := app.View(view.FilterAll, view.SortDate); len(got.Visible) != 0 {
		t.Fatalf("anonymous view must be empty")
	}
	if err := app.Refresh(ctx); !errors.Is(err, domain.ErrNotAuthenticated) {
		t.Fatalf("expected gate error after logout, got %v", err)
	}

	res, errs := app.Login(ctx, "alice@example.com", "Secret1")
	if len(errs) > 0 || !res.Success {
		t.Fatalf("login by email failed: %v %s", errs, res.Message)
	}
	if app.Tasks.Len() != 1 {
		t.Fatalf("login must load the remaining task, got %d", app.Tasks.Len())
	}
}

func TestApp_TasksAreIsolatedPerUser(t *testing.T) {
	srv := testutil.NewAPIServer(t)
	ctx := context.Background()

	owner := newTestApp(t, srv)
	register(t, ctx, owner, "owner")
	if err := owner.AddTask(ctx, domain.Task{Title: "private", Description: "mine", Date: "2026-05-01"}); err != nil {
		t.Fatalf("AddTask: %v", err)
	}
	id := owner.Tasks.Snapshot()[0].ID

	other := newTestApp(t, srv)
	register(t, ctx, other, "other")
	if other.Tasks.Len() != 0 {
		t.Fatalf("other user sees %d tasks", other.Tasks.Len())
	}
	if err := other.DeleteTask(ctx, id); !errors.Is(err, ErrNotConfirmed) {
		t.Fatalf("expected ErrNotConfirmed deleting another user's task, got %v", err)
	}
	if err := owner.Refresh(ctx); err != nil || owner.Tasks.Len() != 1 {
		t.Fatalf("owner lost the task: %v len=%d", err, owner.Tasks.Len())
	}
}

func TestApp_LoginValidationAndFailure(t *testing.T) {
	srv := testutil.NewAPIServer(t)
	ctx := context.Background()
	app := newTestApp(t, srv)

	if _, errs := app.Login(ctx, "", ""); !errs.Has(validation.FieldIdentifier) || !errs.Has(validation.FieldPassword) {
		t.Fatalf("expected field errors, got %v", errs)
	}

	res, errs := app.Login(ctx, "nobody", "Secret1")
	if len(errs) > 0 || res.Success {
		t.Fatalf("unknown user must fail: %+v %v", res, errs)
	}
	if res.Message != "Invalid credentials" {
		t.Fatalf("expected server message, got %q", res.Message)
	}
}

func TestApp_SignupFormReportsTakenUsername(t *testing.T) {
	srv := testutil.NewAPIServer(t)
	ctx := context.Background()

	first := newTestApp(t, srv)
	register(t, ctx, first, "taken")

	form := newTestApp(t, srv).SignupForm()
	if st := form.Set(ctx, validation.FieldUsername, "taken"); st != validation.StatusTaken {
		t.Fatalf("expected taken, got %q", st)
	}
	if st := form.Set(ctx, validation.FieldUsername, "fresh"); st != validation.StatusValid {
		t.Fatalf("expected valid, got %q", st)
	}
}
