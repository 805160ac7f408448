package inline

import (
	"context"
	"sync"
	"testing"
	"time"
)

type recordingProcessor struct {
	mu        sync.Mutex
	processed []string
	cancelled []string
	delay     time.Duration
}

func (p *recordingProcessor) ProcessByID(ctx context.Context, taskID string) error {
	if p.delay > 0 {
		timer := time.NewTimer(p.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			p.mu.Lock()
			p.cancelled = append(p.cancelled, taskID)
			p.mu.Unlock()
			return ctx.Err()
		case <-timer.C:
		}
	}
	p.mu.Lock()
	p.processed = append(p.processed, taskID)
	p.mu.Unlock()
	return nil
}

func (p *recordingProcessor) snapshot() ([]string, []string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.processed...), append([]string(nil), p.cancelled...)
}

func TestPublishRunsProcessor(t *testing.T) {
	processor := &recordingProcessor{}
	scheduler := NewScheduler()
	scheduler.Bind(processor)

	if err := scheduler.PublishTaskCreated(context.Background(), "task-1"); err != nil {
		t.Fatalf("publish: %v", err)
	}
	scheduler.Shutdown()

	processed, _ := processor.snapshot()
	if len(processed) != 1 || processed[0] != "task-1" {
		t.Fatalf("expected task-1 processed, got %v", processed)
	}
}

func TestCancelPendingStopsCompletion(t *testing.T) {
	processor := &recordingProcessor{delay: time.Minute}
	scheduler := NewScheduler()
	scheduler.Bind(processor)

	if err := scheduler.PublishTaskCreated(context.Background(), "task-1"); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if !scheduler.CancelPending("task-1") {
		t.Fatal("expected pending completion to cancel")
	}
	scheduler.Shutdown()

	processed, cancelled := processor.snapshot()
	if len(processed) != 0 {
		t.Errorf("cancelled completion still ran: %v", processed)
	}
	if len(cancelled) != 1 {
		t.Errorf("expected 1 cancelled run, got %v", cancelled)
	}
}

func TestCancelPendingAfterCompletionReturnsFalse(t *testing.T) {
	processor := &recordingProcessor{}
	scheduler := NewScheduler()
	scheduler.Bind(processor)

	if err := scheduler.PublishTaskCreated(context.Background(), "task-1"); err != nil {
		t.Fatalf("publish: %v", err)
	}
	scheduler.Shutdown()

	if scheduler.CancelPending("task-1") {
		t.Error("expected false for already-completed task")
	}
	if scheduler.CancelPending("task-unknown") {
		t.Error("expected false for unknown task")
	}
}

func TestSubscribeBlocksUntilContextDone(t *testing.T) {
	scheduler := NewScheduler()
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- scheduler.SubscribeTaskCreated(ctx, nil)
	}()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("subscribe: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("subscribe did not return after cancel")
	}
}
