package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/fileclerk/fileclerkai/internal/core/domain"
	"github.com/fileclerk/fileclerkai/internal/core/ports"
)

// ProcessTaskUseCase completes a started task after the simulated
// processing delay. It always re-reads persisted state at fire time, so a
// task cancelled while the delay was running stays cancelled.
type ProcessTaskUseCase struct {
	tasks ports.TaskRepository
	delay time.Duration

	// pick selects a canned response index. Overridable in tests.
	pick func(n int) int
}

func NewProcessTaskUseCase(tasks ports.TaskRepository, delay time.Duration) *ProcessTaskUseCase {
	return &ProcessTaskUseCase{
		tasks: tasks,
		delay: delay,
		pick:  rand.IntN,
	}
}

func (uc *ProcessTaskUseCase) ProcessByID(ctx context.Context, taskID string) error {
	if uc.delay > 0 {
		timer := time.NewTimer(uc.delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	task, err := uc.tasks.GetByID(ctx, taskID)
	if err != nil {
		return fmt.Errorf("load task: %w", err)
	}
	if task.Status.Terminal() {
		slog.Info("task_completion_skipped", "task_id", taskID, "status", string(task.Status))
		return nil
	}

	action := strings.TrimPrefix(task.TaskType, "document_")
	task.Status = domain.TaskStatusCompleted
	task.Progress = 100
	task.Result = &domain.TaskResult{
		Action:    action,
		Message:   uc.completionMessage(action),
		Documents: len(task.DocumentIDs),
	}
	task.UpdatedAt = time.Now().UTC()

	// The store rejects the write when a cancellation won the race after
	// the read above.
	if err := uc.tasks.UpdateIfActive(ctx, task); err != nil {
		if domain.IsKind(err, domain.ErrInvalidInput) {
			slog.Info("task_completion_skipped", "task_id", taskID, "status", "terminal")
			return nil
		}
		return fmt.Errorf("complete task: %w", err)
	}
	return nil
}

func (uc *ProcessTaskUseCase) completionMessage(action string) string {
	responses, ok := actionResponses[action]
	if !ok || len(responses) == 0 {
		return fmt.Sprintf("%s completed successfully", action)
	}
	return responses[uc.pick(len(responses))]
}
