// Package inline runs task completions in process. It is the queue driver
// for single-binary deployments: publishing schedules a goroutine, and
// pending completions can be cancelled before they fire.
package inline

import (
	"context"
	"log/slog"
	"sync"

	"github.com/fileclerk/fileclerkai/internal/core/ports"
)

type Scheduler struct {
	mu        sync.Mutex
	processor ports.TaskProcessor
	pending   map[string]context.CancelFunc
	wg        sync.WaitGroup
}

func NewScheduler() *Scheduler {
	return &Scheduler{pending: make(map[string]context.CancelFunc)}
}

// Bind attaches the processor that completes published tasks. Must be
// called before the first publish.
func (s *Scheduler) Bind(processor ports.TaskProcessor) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.processor = processor
}

// PublishTaskCreated schedules the completion on a fresh goroutine. The
// run context is detached from the request context so an early client
// disconnect does not abort the completion.
func (s *Scheduler) PublishTaskCreated(_ context.Context, taskID string) error {
	s.mu.Lock()
	processor := s.processor
	if processor == nil {
		s.mu.Unlock()
		slog.Error("inline_scheduler_unbound", "task_id", taskID)
		return nil
	}
	runCtx, cancel := context.WithCancel(context.Background())
	s.pending[taskID] = cancel
	s.wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.wg.Done()
		defer s.forget(taskID)
		if err := processor.ProcessByID(runCtx, taskID); err != nil {
			slog.Error("task_completion_failed", "task_id", taskID, "error", err)
		}
	}()
	return nil
}

// SubscribeTaskCreated blocks until ctx is cancelled. Inline delivery
// happens at publish time, so there is nothing to consume here.
func (s *Scheduler) SubscribeTaskCreated(ctx context.Context, _ func(context.Context, string) error) error {
	<-ctx.Done()
	return nil
}

// CancelPending aborts a scheduled completion. Returns false when the
// completion already fired or was never scheduled here.
func (s *Scheduler) CancelPending(taskID string) bool {
	s.mu.Lock()
	cancel, ok := s.pending[taskID]
	delete(s.pending, taskID)
	s.mu.Unlock()

	if !ok {
		return false
	}
	cancel()
	return true
}

// Shutdown cancels everything still pending and waits for the completion
// goroutines to exit.
func (s *Scheduler) Shutdown() {
	s.mu.Lock()
	for id, cancel := range s.pending {
		cancel()
		delete(s.pending, id)
	}
	s.mu.Unlock()
	s.wg.Wait()
}

func (s *Scheduler) forget(taskID string) {
	s.mu.Lock()
	if cancel, ok := s.pending[taskID]; ok {
		cancel()
		delete(s.pending, taskID)
	}
	s.mu.Unlock()
}
