package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/fileclerk/fileclerkai/internal/core/domain"
)

type taskRepoFake struct {
	tasks map[string]domain.Task
}

func newTaskRepoFake() *taskRepoFake {
	return &taskRepoFake{tasks: map[string]domain.Task{}}
}

func (f *taskRepoFake) Create(_ context.Context, task *domain.Task) error {
	f.tasks[task.ID] = *task
	return nil
}

func (f *taskRepoFake) List(_ context.Context, limit int, status domain.TaskStatus) ([]domain.Task, error) {
	out := make([]domain.Task, 0, len(f.tasks))
	for _, task := range f.tasks {
		if status != "" && task.Status != status {
			continue
		}
		out = append(out, task)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *taskRepoFake) GetByID(_ context.Context, id string) (*domain.Task, error) {
	task, ok := f.tasks[id]
	if !ok {
		return nil, domain.WrapError(domain.ErrNotFound, "get task", domain.ErrNotFound)
	}
	return &task, nil
}

func (f *taskRepoFake) UpdateIfActive(_ context.Context, task *domain.Task) error {
	current, ok := f.tasks[task.ID]
	if !ok {
		return domain.WrapError(domain.ErrNotFound, "update task", domain.ErrNotFound)
	}
	if current.Status.Terminal() {
		return domain.WrapError(domain.ErrInvalidInput, "update task", errors.New("task already terminal"))
	}
	f.tasks[task.ID] = *task
	return nil
}

type queueFake struct {
	published []string
	err       error
}

func (f *queueFake) PublishTaskCreated(_ context.Context, taskID string) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, taskID)
	return nil
}

func (f *queueFake) SubscribeTaskCreated(context.Context, func(context.Context, string) error) error {
	return errors.New("not implemented")
}

func TestPerformActionCreatesTaskAndPublishes(t *testing.T) {
	docs := &docRepoFake{docs: []domain.Document{
		{ID: "d1", OriginalFilename: "a.pdf"},
		{ID: "d2", OriginalFilename: "b.pdf"},
	}}
	tasks := newTaskRepoFake()
	activities := &activityRepoFake{}
	queue := &queueFake{}
	uc := NewActionsUseCase(docs, tasks, activities, queue)

	receipt, err := uc.PerformAction(context.Background(), " Summarize ", []string{"d1", "d2"}, nil)
	if err != nil {
		t.Fatalf("PerformAction() error = %v", err)
	}
	if receipt.Status != domain.TaskStatusProcessing {
		t.Fatalf("expected processing receipt, got %s", receipt.Status)
	}

	task, ok := tasks.tasks[receipt.TaskID]
	if !ok {
		t.Fatalf("expected task persisted")
	}
	if task.TaskType != "document_summarize" {
		t.Fatalf("expected normalized task type, got %q", task.TaskType)
	}
	if len(task.DocumentIDs) != 2 {
		t.Fatalf("expected document ids on task, got %v", task.DocumentIDs)
	}

	if len(queue.published) != 1 || queue.published[0] != receipt.TaskID {
		t.Fatalf("expected task id published, got %v", queue.published)
	}
	if len(activities.appended) != 1 {
		t.Fatalf("expected start activity, got %d", len(activities.appended))
	}
	activity := activities.appended[0]
	if activity.Actor != domain.ActorAI || len(activity.Files) != 2 {
		t.Fatalf("unexpected activity %+v", activity)
	}
}

func TestPerformActionRequiresAction(t *testing.T) {
	uc := NewActionsUseCase(&docRepoFake{}, newTaskRepoFake(), &activityRepoFake{}, &queueFake{})

	_, err := uc.PerformAction(context.Background(), "  ", []string{"d1"}, nil)
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input kind, got %v", err)
	}
}

func TestPerformActionUnknownDocuments(t *testing.T) {
	uc := NewActionsUseCase(&docRepoFake{}, newTaskRepoFake(), &activityRepoFake{}, &queueFake{})

	_, err := uc.PerformAction(context.Background(), "merge", []string{"missing"}, nil)
	if !domain.IsKind(err, domain.ErrDocumentsNotFound) {
		t.Fatalf("expected documents-not-found kind, got %v", err)
	}
}

func TestPerformActionQueueFailure(t *testing.T) {
	docs := &docRepoFake{docs: []domain.Document{{ID: "d1", OriginalFilename: "a.pdf"}}}
	queue := &queueFake{err: errors.New("broker down")}
	uc := NewActionsUseCase(docs, newTaskRepoFake(), &activityRepoFake{}, queue)

	_, err := uc.PerformAction(context.Background(), "merge", []string{"d1"}, nil)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "publish task event") {
		t.Fatalf("expected publish error, got %v", err)
	}
}
