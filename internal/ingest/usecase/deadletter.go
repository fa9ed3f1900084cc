package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/pitchside/matchpipe/internal/broker"
	"github.com/pitchside/matchpipe/internal/ingest/domain"
)

// deadLetterRouter implements the DeadLetterRouter interface over the
// broker's quarantine stream.
type deadLetterRouter struct {
	queue      Queue
	logger     *slog.Logger
	maxRetries int
	retryDelay time.Duration
}

// NewDeadLetterRouter creates a router that retries quarantine writes a few
// times with short backoff before declaring the delivery undeadletterable.
func NewDeadLetterRouter(queue Queue, logger *slog.Logger) DeadLetterRouter {
	return &deadLetterRouter{
		queue:      queue,
		logger:     logger,
		maxRetries: 3,
		retryDelay: 100 * time.Millisecond,
	}
}

// Quarantine moves the delivery to the quarantine stream. Losing a message
// silently is worse than processing it twice, so on persistent failure it
// returns a *domain.QuarantineError and the caller leaves the original
// delivery unacked for redelivery.
func (r *deadLetterRouter) Quarantine(
	ctx context.Context,
	delivery broker.Delivery,
	key, reason, lastError string,
) (string, error) {
	var lastErr error
	delay := r.retryDelay

	for attempt := 0; attempt < r.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", &domain.QuarantineError{Err: ctx.Err()}
			case <-time.After(delay):
			}
			delay *= 2
		}

		id, err := r.queue.Quarantine(ctx, delivery, key, reason, lastError)
		if err == nil {
			return id, nil
		}
		lastErr = err
		r.logger.Warn("quarantine write failed",
			slog.String("delivery_id", delivery.ID),
			slog.String("idempotency_key", key),
			slog.Int("attempt", attempt+1),
			slog.Any("error", err),
		)
	}

	return "", &domain.QuarantineError{Err: lastErr}
}
