package nats

import (
	"context"
	"errors"

	"github.com/nats-io/nats.go"

	"github.com/fileclerk/fileclerkai/internal/core/domain"
	"github.com/fileclerk/fileclerkai/internal/infrastructure/resilience"
)

// classifyPublishError drives the retry and breaker policy for task-event
// publishes. Connection-level failures are retryable, everything else is
// final.
func classifyPublishError(err error) (retryable, recordFailure bool) {
	switch {
	case err == nil:
		return false, false
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return false, false
	case resilience.IsCircuitOpen(err):
		return true, true
	case errors.Is(err, nats.ErrNoServers),
		errors.Is(err, nats.ErrTimeout),
		errors.Is(err, nats.ErrConnectionClosed),
		errors.Is(err, nats.ErrDisconnected):
		return true, true
	default:
		return false, true
	}
}

// wrapTemporaryIfNeeded marks retryable publish failures with the
// temporary kind so the HTTP layer answers 503.
func wrapTemporaryIfNeeded(err error) error {
	if err == nil {
		return nil
	}
	if domain.IsKind(err, domain.ErrTemporary) {
		return err
	}
	retryable, _ := classifyPublishError(err)
	if retryable || resilience.IsCircuitOpen(err) {
		return domain.WrapError(domain.ErrTemporary, "publish task event", err)
	}
	return err
}
