package tasks

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tasktrack/tasktrack/internal/core/domain"
)

var errBoom = errors.New("server returned 500")

type stubGateway struct {
	listFn   func(ctx context.Context) ([]domain.Task, error)
	createFn func(ctx context.Context, t domain.Task) (*domain.Task, error)
	updateFn func(ctx context.Context, id domain.TaskID, t domain.Task) error
	deleteFn func(ctx context.Context, id domain.TaskID) error
	toggleFn func(ctx context.Context, id domain.TaskID) error

	listCalls int
}

func (s *stubGateway) List(ctx context.Context) ([]domain.Task, error) {
	s.listCalls++
	return s.listFn(ctx)
}

func (s *stubGateway) Create(ctx context.Context, t domain.Task) (*domain.Task, error) {
	return s.createFn(ctx, t)
}

func (s *stubGateway) Update(ctx context.Context, id domain.TaskID, t domain.Task) error {
	return s.updateFn(ctx, id, t)
}

func (s *stubGateway) Delete(ctx context.Context, id domain.TaskID) error {
	return s.deleteFn(ctx, id)
}

func (s *stubGateway) Toggle(ctx context.Context, id domain.TaskID) error {
	return s.toggleFn(ctx, id)
}

func listOf(tasks ...domain.Task) func(context.Context) ([]domain.Task, error) {
	return func(context.Context) ([]domain.Task, error) { return tasks, nil }
}

func TestCollection_Reload(t *testing.T) {
	gw := &stubGateway{listFn: listOf(domain.Task{ID: "1"}, domain.Task{ID: "2"})}
	c := NewCollection(gw, zerolog.Nop())

	if !c.Reload(context.Background()) || c.Len() != 2 {
		t.Fatalf("expected 2 tasks after reload, got %d", c.Len())
	}

	gw.listFn = func(context.Context) ([]domain.Task, error) { return nil, errBoom }
	if c.Reload(context.Background()) {
		t.Fatalf("failed reload must report false")
	}
	if c.Len() != 2 {
		t.Fatalf("failed reload must keep the previous list")
	}
}

func TestCollection_Create_DefaultsAndAppendsWithoutReload(t *testing.T) {
	var sent domain.Task
	gw := &stubGateway{
		listFn: listOf(domain.Task{ID: "1"}),
		createFn: func(_ context.Context, task domain.Task) (*domain.Task, error) {
			sent = task
			task.ID = "99"
			return &task, nil
		},
	}
	c := NewCollection(gw, zerolog.Nop())
	ctx := context.Background()
	c.Reload(ctx)

	ok := c.Create(ctx, domain.Task{ID: "ignored", Title: "t", Completed: true, Priority: domain.PriorityHigh})
	if !ok {
		t.Fatalf("create should succeed")
	}
	if sent.Status != domain.StatusPending || sent.Completed || sent.ID != "" {
		t.Fatalf("unexpected outgoing task %+v", sent)
	}
	if gw.listCalls != 1 {
		t.Fatalf("create must not reload, got %d list calls", gw.listCalls)
	}
	got := c.Snapshot()
	if len(got) != 2 || got[1].ID != "99" {
		t.Fatalf("expected appended record, got %+v", got)
	}
}

func TestCollection_Create_KeepsSuppliedStatus(t *testing.T) {
	for _, status := range []domain.Status{domain.StatusInProgress, domain.StatusCompleted} {
		var sent domain.Task
		gw := &stubGateway{
			listFn: listOf(),
			createFn: func(_ context.Context, task domain.Task) (*domain.Task, error) {
				sent = task
				task.ID = "7"
				return &task, nil
			},
		}
		c := NewCollection(gw, zerolog.Nop())

		if !c.Create(context.Background(), domain.Task{Title: "t", Status: status, Completed: true}) {
			t.Fatalf("create should succeed")
		}
		if sent.Status != status || sent.Completed {
			t.Fatalf("status %s: unexpected outgoing task %+v", status, sent)
		}
		if got, _ := c.Find("7"); got.Status != status {
			t.Fatalf("status %s: stored record has %s", status, got.Status)
		}
	}
}

func TestCollection_Create_FailureLeavesList(t *testing.T) {
	gw := &stubGateway{createFn: func(context.Context, domain.Task) (*domain.Task, error) { return nil, errBoom }}
	c := NewCollection(gw, zerolog.Nop())
	if c.Create(context.Background(), domain.Task{Title: "t"}) || c.Len() != 0 {
		t.Fatalf("failed create must not touch the list")
	}
}

func TestCollection_UpdateDeleteToggle_ReloadOnSuccessOnly(t *testing.T) {
	gw := &stubGateway{
		listFn:   listOf(domain.Task{ID: "1", Status: domain.StatusCompleted}),
		updateFn: func(context.Context, domain.TaskID, domain.Task) error { return nil },
		deleteFn: func(context.Context, domain.TaskID) error { return nil },
		toggleFn: func(context.Context, domain.TaskID) error { return nil },
	}
	c := NewCollection(gw, zerolog.Nop())
	ctx := context.Background()

	if !c.Update(ctx, "1", domain.Task{Title: "x"}) || gw.listCalls != 1 {
		t.Fatalf("update should reload once, got %d", gw.listCalls)
	}
	if !c.Toggle(ctx, "1") || gw.listCalls != 2 {
		t.Fatalf("toggle should reload, got %d", gw.listCalls)
	}
	if !c.Delete(ctx, "1") || gw.listCalls != 3 {
		t.Fatalf("delete should reload, got %d", gw.listCalls)
	}

	gw.updateFn = func(context.Context, domain.TaskID, domain.Task) error { return errBoom }
	gw.deleteFn = func(context.Context, domain.TaskID) error { return errBoom }
	gw.toggleFn = func(context.Context, domain.TaskID) error { return errBoom }
	if c.Update(ctx, "1", domain.Task{}) || c.Delete(ctx, "1") || c.Toggle(ctx, "1") {
		t.Fatalf("failures must report false")
	}
	if gw.listCalls != 3 {
		t.Fatalf("failures must not reload, got %d", gw.listCalls)
	}
}

func TestCollection_Complete(t *testing.T) {
	var sent domain.Task
	gw := &stubGateway{
		listFn: listOf(domain.Task{ID: "1", Title: "keep", Status: domain.StatusInProgress}),
		updateFn: func(_ context.Context, id domain.TaskID, task domain.Task) error {
			sent = task
			return nil
		},
	}
	c := NewCollection(gw, zerolog.Nop())
	ctx := context.Background()
	c.Reload(ctx)

	if !c.Complete(ctx, "1") {
		t.Fatalf("complete should succeed")
	}
	if sent.Title != "keep" || sent.Status != domain.StatusCompleted || !sent.Completed {
		t.Fatalf("unexpected update payload %+v", sent)
	}
	if c.Complete(ctx, "missing") {
		t.Fatalf("unknown id must fail")
	}
}

func TestCollection_StaleReloadDropped(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	calls := 0
	gw := &stubGateway{listFn: func(context.Context) ([]domain.Task, error) {
		calls++
		if calls == 1 {
			close(started)
			<-release
			return []domain.Task{{ID: "old"}}, nil
		}
		return []domain.Task{{ID: "new"}}, nil
	}}
	c := NewCollection(gw, zerolog.Nop())
	ctx := context.Background()

	done := make(chan bool)
	go func() { done <- c.Reload(ctx) }()
	<-started
	if !c.Reload(ctx) {
		t.Fatalf("newer reload should apply")
	}
	close(release)
	if <-done {
		t.Fatalf("stale reload should report false")
	}
	if got, ok := c.Find("new"); !ok || got.ID != "new" || c.Len() != 1 {
		t.Fatalf("stale list overwrote newer one: %+v", c.Snapshot())
	}
}

func TestCollection_ClearDropsInFlightReload(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	gw := &stubGateway{listFn: func(context.Context) ([]domain.Task, error) {
		close(started)
		<-release
		return []domain.Task{{ID: "1"}}, nil
	}}
	c := NewCollection(gw, zerolog.Nop())

	done := make(chan struct{})
	go func() {
		defer close(done)
		c.Reload(context.Background())
	}()
	<-started
	c.Clear()
	close(release)
	<-done

	if c.Len() != 0 {
		t.Fatalf("reload finishing after clear must be dropped")
	}
}

func TestCollection_SnapshotIsACopy(t *testing.T) {
	c := NewCollection(&stubGateway{listFn: listOf(domain.Task{ID: "1", Title: "a"})}, zerolog.Nop())
	c.Reload(context.Background())

	snap := c.Snapshot()
	snap[0].Title = "changed"
	if got, _ := c.Find("1"); got.Title != "a" {
		t.Fatalf("snapshot aliases internal state")
	}
}
