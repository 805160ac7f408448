package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/fileclerk/fileclerkai/internal/core/domain"
	"github.com/fileclerk/fileclerkai/internal/core/ports"
)

type TasksUseCase struct {
	tasks     ports.TaskRepository
	canceller ports.CompletionCanceller
}

// NewTasksUseCase wires the task read model. canceller may be nil when the
// queue driver cannot drop scheduled completions (the worker re-checks
// status at fire time either way).
func NewTasksUseCase(tasks ports.TaskRepository, canceller ports.CompletionCanceller) *TasksUseCase {
	return &TasksUseCase{tasks: tasks, canceller: canceller}
}

func (uc *TasksUseCase) List(ctx context.Context, limit int, status domain.TaskStatus) ([]domain.Task, error) {
	tasks, err := uc.tasks.List(ctx, limit, status)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

func (uc *TasksUseCase) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	task, err := uc.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	return task, nil
}

// Cancel transitions a non-terminal task to cancelled and drops any
// still-pending scheduled completion. Terminal tasks are final.
func (uc *TasksUseCase) Cancel(ctx context.Context, id string) (*domain.Task, error) {
	task, err := uc.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	if task.Status.Terminal() {
		return nil, domain.WrapError(domain.ErrInvalidInput, "cancel task", fmt.Errorf("task already %s", task.Status))
	}

	if uc.canceller != nil {
		uc.canceller.CancelPending(id)
	}

	task.Status = domain.TaskStatusCancelled
	task.UpdatedAt = time.Now().UTC()
	// Conditional write: a completion landing after the read above makes
	// the task terminal, and the store rejects the cancellation.
	if err := uc.tasks.UpdateIfActive(ctx, task); err != nil {
		return nil, fmt.Errorf("cancel task: %w", err)
	}
	return task, nil
}
