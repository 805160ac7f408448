package usecase

import (
	"context"
	"testing"

	"github.com/fileclerk/fileclerkai/internal/core/domain"
)

type cancellerFake struct {
	cancelled []string
}

func (f *cancellerFake) CancelPending(taskID string) bool {
	f.cancelled = append(f.cancelled, taskID)
	return true
}

func TestCancelTransitionsAndDropsPendingCompletion(t *testing.T) {
	tasks := newTaskRepoFake()
	tasks.tasks["t1"] = domain.Task{ID: "t1", Status: domain.TaskStatusProcessing}
	canceller := &cancellerFake{}
	uc := NewTasksUseCase(tasks, canceller)

	task, err := uc.Cancel(context.Background(), "t1")
	if err != nil {
		t.Fatalf("Cancel() error = %v", err)
	}
	if task.Status != domain.TaskStatusCancelled {
		t.Fatalf("expected cancelled, got %s", task.Status)
	}
	if tasks.tasks["t1"].Status != domain.TaskStatusCancelled {
		t.Fatalf("cancellation must be persisted")
	}
	if len(canceller.cancelled) != 1 || canceller.cancelled[0] != "t1" {
		t.Fatalf("expected pending completion dropped, got %v", canceller.cancelled)
	}
}

func TestCancelTerminalTaskIsRejected(t *testing.T) {
	tasks := newTaskRepoFake()
	tasks.tasks["t1"] = domain.Task{ID: "t1", Status: domain.TaskStatusCompleted}
	uc := NewTasksUseCase(tasks, nil)

	_, err := uc.Cancel(context.Background(), "t1")
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input kind, got %v", err)
	}
	if tasks.tasks["t1"].Status != domain.TaskStatusCompleted {
		t.Fatalf("terminal task must stay completed")
	}
}

func TestCancelLosesRaceToCompletion(t *testing.T) {
	store := newTaskRepoFake()
	completed := domain.Task{
		ID:     "t1",
		Status: domain.TaskStatusCompleted,
		Result: &domain.TaskResult{Action: "merge", Message: "done", Documents: 1},
	}
	store.tasks["t1"] = completed
	tasks := &staleReadTaskRepo{
		taskRepoFake: store,
		stale:        domain.Task{ID: "t1", Status: domain.TaskStatusProcessing},
	}
	uc := NewTasksUseCase(tasks, nil)

	_, err := uc.Cancel(context.Background(), "t1")
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input kind, got %v", err)
	}
	got := store.tasks["t1"]
	if got.Status != domain.TaskStatusCompleted || got.Result == nil {
		t.Fatalf("completed task must survive the racing cancel, got %+v", got)
	}
}

func TestCancelWorksWithoutCanceller(t *testing.T) {
	tasks := newTaskRepoFake()
	tasks.tasks["t1"] = domain.Task{ID: "t1", Status: domain.TaskStatusPending}
	uc := NewTasksUseCase(tasks, nil)

	task, err := uc.Cancel(context.Background(), "t1")
	if err != nil {
		t.Fatalf("Cancel() error = %v", err)
	}
	if task.Status != domain.TaskStatusCancelled {
		t.Fatalf("expected cancelled, got %s", task.Status)
	}
}

func TestCancelUnknownTask(t *testing.T) {
	uc := NewTasksUseCase(newTaskRepoFake(), nil)

	_, err := uc.Cancel(context.Background(), "missing")
	if !domain.IsKind(err, domain.ErrNotFound) {
		t.Fatalf("expected not found kind, got %v", err)
	}
}
