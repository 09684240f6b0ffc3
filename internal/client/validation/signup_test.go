package validation

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/tasktrack/tasktrack/internal/core/domain"
)

type stubChecker struct {
	usernameFn func(ctx context.Context, username string) (bool, error)
	emailFn    func(ctx context.Context, email string) (bool, error)
}

func (s *stubChecker) CheckUsername(ctx context.Context, username string) (bool, error) {
	return s.usernameFn(ctx, username)
}

func (s *stubChecker) CheckEmail(ctx context.Context, email string) (bool, error) {
	return s.emailFn(ctx, email)
}

func availableExcept(taken string) func(context.Context, string) (bool, error) {
	return func(_ context.Context, v string) (bool, error) { return v != taken, nil }
}

func failingProbe(context.Context, string) (bool, error) {
	return false, errors.New("connection refused")
}

func TestSignupForm_Username_Statuses(t *testing.T) {
	calls := 0
	checker := &stubChecker{usernameFn: func(ctx context.Context, v string) (bool, error) {
		calls++
		return v != "alice", nil
	}}
	form := NewSignupForm(checker)
	ctx := context.Background()

	if got := form.Set(ctx, FieldUsername, "ab"); got != StatusIdle {
		t.Fatalf("short username: got %q", got)
	}
	if got := form.Set(ctx, FieldUsername, "bad name"); got != StatusInvalid {
		t.Fatalf("bad charset: got %q", got)
	}
	if calls != 0 {
		t.Fatalf("no probe expected before the local rules pass, got %d", calls)
	}
	if got := form.Set(ctx, FieldUsername, "alice"); got != StatusTaken {
		t.Fatalf("taken username: got %q", got)
	}
	if got := form.Set(ctx, FieldUsername, "bob_1"); got != StatusValid {
		t.Fatalf("free username: got %q", got)
	}
}

func TestSignupForm_ProbeFailureIsErrorNotTaken(t *testing.T) {
	form := NewSignupForm(&stubChecker{usernameFn: failingProbe, emailFn: failingProbe})
	ctx := context.Background()

	if got := form.Set(ctx, FieldUsername, "carol"); got != StatusError {
		t.Fatalf("username probe failure: got %q", got)
	}
	if got := form.Set(ctx, FieldEmail, "carol@example.com"); got != StatusError {
		t.Fatalf("email probe failure: got %q", got)
	}
}

func TestSignupForm_Email_Statuses(t *testing.T) {
	form := NewSignupForm(&stubChecker{emailFn: availableExcept("used@example.com")})
	ctx := context.Background()

	if got := form.Set(ctx, FieldEmail, ""); got != StatusIdle {
		t.Fatalf("empty email: got %q", got)
	}
	if got := form.Set(ctx, FieldEmail, "not-an-email"); got != StatusInvalid {
		t.Fatalf("malformed email: got %q", got)
	}
	if got := form.Set(ctx, FieldEmail, "used@example.com"); got != StatusTaken {
		t.Fatalf("taken email: got %q", got)
	}
	if got := form.Set(ctx, FieldEmail, "new@example.com"); got != StatusValid {
		t.Fatalf("free email: got %q", got)
	}
}

func TestSignupForm_StaleProbeIsDropped(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	checker := &stubChecker{usernameFn: func(ctx context.Context, v string) (bool, error) {
		if v == "slowname" {
			close(started)
			<-release
			return true, nil
		}
		return false, nil
	}}
	form := NewSignupForm(checker)
	ctx := context.Background()

	var wg sync.WaitGroup
	wg.Add(1)
	var stale Status
	go func() {
		defer wg.Done()
		stale = form.Set(ctx, FieldUsername, "slowname")
	}()

	<-started
	if got := form.Set(ctx, FieldUsername, "taken"); got != StatusTaken {
		t.Fatalf("newer probe: got %q", got)
	}
	close(release)
	wg.Wait()

	if stale != StatusTaken {
		t.Fatalf("stale probe should report the newer status, got %q", stale)
	}
	if got := form.Status(FieldUsername); got != StatusTaken {
		t.Fatalf("stale probe overwrote newer status: %q", got)
	}
}

func TestSignupForm_ConfirmTracksPassword(t *testing.T) {
	form := NewSignupForm(&stubChecker{})
	ctx := context.Background()

	if got := form.Set(ctx, FieldPassword, "weak"); got != StatusWeak {
		t.Fatalf("weak password: got %q", got)
	}
	if got := form.Set(ctx, FieldConfirmPassword, "Abcdef1"); got != StatusMismatch {
		t.Fatalf("confirm before password matches: got %q", got)
	}
	form.Set(ctx, FieldPassword, "Abcdef1")
	if got := form.Status(FieldConfirmPassword); got != StatusValid {
		t.Fatalf("confirm should be recomputed on password change, got %q", got)
	}
	form.Set(ctx, FieldPassword, "Abcdef12")
	if got := form.Status(FieldConfirmPassword); got != StatusMismatch {
		t.Fatalf("confirm should mismatch after password change, got %q", got)
	}
}

func TestSignupForm_Validate(t *testing.T) {
	form := NewSignupForm(&stubChecker{
		usernameFn: availableExcept(""),
		emailFn:    availableExcept(""),
	})
	ctx := context.Background()

	if form.Validate() {
		t.Fatalf("empty form must not validate")
	}
	errs := form.Errors()
	for _, f := range []Field{FieldUsername, FieldEmail, FieldPassword, FieldConfirmPassword, FieldFirstName} {
		if !errs.Has(f) {
			t.Fatalf("expected error for %s, got %v", f, errs)
		}
	}
	if errs.Has(FieldLastName) {
		t.Fatalf("last name is optional")
	}

	form.Set(ctx, FieldUsername, "dave")
	if form.Errors().Has(FieldUsername) {
		t.Fatalf("changing a field must clear its message")
	}

	form.Set(ctx, FieldEmail, "dave@example.com")
	form.Set(ctx, FieldPassword, "Abcdef1")
	form.Set(ctx, FieldConfirmPassword, "Abcdef2")
	form.Set(ctx, FieldFirstName, "Dave")
	if form.Validate() {
		t.Fatalf("mismatched confirmation must not validate")
	}
	if got := form.Errors()[FieldConfirmPassword]; got != "Passwords do not match" {
		t.Fatalf("unexpected confirm message %q", got)
	}

	form.Set(ctx, FieldConfirmPassword, "Abcdef1")
	if !form.Validate() {
		t.Fatalf("expected valid form, got %v", form.Errors())
	}
	in := form.Input()
	if in.Username != "dave" || in.Email != "dave@example.com" || in.FirstName != "Dave" || in.Password != "Abcdef1" {
		t.Fatalf("unexpected input %+v", in)
	}
}

func TestTaskForm_RequiredFieldsAndDefaults(t *testing.T) {
	form := NewTaskForm()
	if form.Validate() {
		t.Fatalf("blank task must not validate")
	}
	errs := form.Errors()
	if errs[FieldTitle] != "Title is required" || errs[FieldDescription] != "Description is required" || errs[FieldDate] != "Due date is required" {
		t.Fatalf("unexpected errors %v", errs)
	}

	form.Set(FieldTitle, "   ")
	if form.Errors().Has(FieldTitle) {
		t.Fatalf("typing must clear the inline message")
	}
	form.Set(FieldDescription, " buy milk ")
	form.Set(FieldDate, "2026-10-20")
	if form.Validate() {
		t.Fatalf("whitespace title must not validate")
	}

	form.Set(FieldTitle, " Groceries ")
	if !form.Validate() {
		t.Fatalf("expected valid form, got %v", form.Errors())
	}
	task := form.Task()
	if task.Title != "Groceries" || task.Description != "buy milk" {
		t.Fatalf("expected trimmed text, got %+v", task)
	}
	if task.Priority != domain.PriorityMedium || task.Status != domain.StatusPending {
		t.Fatalf("unexpected defaults %+v", task)
	}

	form.Set(FieldStatus, "In Progress")
	form.Set(FieldPriority, "HIGH")
	task = form.Task()
	if task.Status != domain.StatusInProgress || task.Priority != domain.PriorityHigh {
		t.Fatalf("expected normalised enums, got %+v", task)
	}

	form.Reset()
	if form.Task().Title != "" {
		t.Fatalf("reset should clear the form")
	}
}

func TestEditTaskForm_Prefilled(t *testing.T) {
	form := EditTaskForm(domain.Task{ID: "7", Title: "x", Description: "y", Date: "2026-01-01", Priority: "LOW", Status: "Completed"})
	task := form.Task()
	if task.ID != "7" || task.Priority != domain.PriorityLow || task.Status != domain.StatusCompleted {
		t.Fatalf("unexpected prefill %+v", task)
	}
}
