package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/pitchside/matchpipe/internal/broker"
	apperrors "github.com/pitchside/matchpipe/internal/errors"
	"github.com/pitchside/matchpipe/internal/metrics"
	"github.com/pitchside/matchpipe/internal/status"
)

// ConsumerConfig holds the worker pool knobs.
type ConsumerConfig struct {
	// Workers is the number of concurrent workers draining the delivery
	// channel.
	Workers int
	// ProcessTimeout bounds one processing attempt (validation +
	// persistence). Exceeding it classifies as transient.
	ProcessTimeout time.Duration
	// RateLimit caps messages processed per second across all workers.
	// Zero disables the limiter.
	RateLimit rate.Limit
	// RateBurst is the limiter burst size when RateLimit is set.
	RateBurst int
}

// Consumer runs a pool of identical stateless workers over the broker's
// delivery channel. Each worker drives a delivery through the processor,
// asks the retry policy for the next action and settles the delivery with
// the broker. A delivery is only ever acked after a successful persist,
// requeue or quarantine.
type Consumer struct {
	processor      MatchProcessor
	queue          Queue
	router         DeadLetterRouter
	policy         *RetryPolicy
	reporter       StatusReporter
	metrics        metrics.BusinessMetrics
	logger         *slog.Logger
	workers        int
	processTimeout time.Duration
	limiter        *rate.Limiter
}

// NewConsumer creates a consumer with the given pipeline stages.
func NewConsumer(
	processor MatchProcessor,
	queue Queue,
	router DeadLetterRouter,
	policy *RetryPolicy,
	reporter StatusReporter,
	businessMetrics metrics.BusinessMetrics,
	logger *slog.Logger,
	config ConsumerConfig,
) *Consumer {
	if config.Workers <= 0 {
		config.Workers = 4
	}
	if config.ProcessTimeout <= 0 {
		config.ProcessTimeout = 10 * time.Second
	}
	var limiter *rate.Limiter
	if config.RateLimit > 0 {
		burst := config.RateBurst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(config.RateLimit, burst)
	}
	return &Consumer{
		processor:      processor,
		queue:          queue,
		router:         router,
		policy:         policy,
		reporter:       reporter,
		metrics:        businessMetrics,
		logger:         logger,
		workers:        config.Workers,
		processTimeout: config.ProcessTimeout,
		limiter:        limiter,
	}
}

// Run consumes deliveries until ctx is cancelled or the channel closes.
// Workers finish the delivery they hold and stop without acking anything
// else; unsettled deliveries are redelivered by the broker.
func (c *Consumer) Run(ctx context.Context, deliveries <-chan broker.Delivery) error {
	c.logger.Info("consumer started", slog.Int("workers", c.workers))

	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < c.workers; i++ {
		logger := c.logger.With(slog.Int("worker", i))
		g.Go(func() error {
			for {
				select {
				case <-ctx.Done():
					return nil
				case delivery, ok := <-deliveries:
					if !ok {
						return nil
					}
					if c.limiter != nil {
						if err := c.limiter.Wait(ctx); err != nil {
							return nil
						}
					}
					c.handle(ctx, logger, delivery)
				}
			}
		})
	}

	err := g.Wait()
	c.logger.Info("consumer stopped")
	return err
}

// handle settles one delivery. When settling itself fails the delivery is
// deliberately left pending so the broker redelivers it; the idempotent
// upsert makes the replay safe.
func (c *Consumer) handle(ctx context.Context, logger *slog.Logger, delivery broker.Delivery) {
	attemptCtx, cancel := context.WithTimeout(ctx, c.processTimeout)
	result, err := c.process(attemptCtx, logger, delivery)
	cancel()

	key := result.Key
	if key == "" {
		// Undecodable payloads have no derivable key; the delivery ID
		// stands in so diagnostics still have a handle.
		key = delivery.ID
	}
	logger = logger.With(
		slog.String("delivery_id", delivery.ID),
		slog.String("idempotency_key", key),
		slog.Int("attempt", delivery.Attempt),
	)

	decision := c.policy.Decide(delivery.Attempt, err)
	switch decision.Action {
	case ActionAck:
		c.ack(ctx, logger, delivery, key)
	case ActionRequeue:
		c.requeue(ctx, logger, delivery, key, decision, err)
	case ActionDeadLetter:
		c.deadLetter(ctx, logger, delivery, key, decision, err)
	}
}

// process invokes the processor with panic recovery. A panicking handler
// must not take the worker down; the failure classifies as transient and
// follows the normal retry path.
func (c *Consumer) process(
	ctx context.Context,
	logger *slog.Logger,
	delivery broker.Delivery,
) (result ProcessResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("recovered from panic while processing message",
				slog.String("delivery_id", delivery.ID),
				slog.Any("panic", r),
				slog.String("stack", string(debug.Stack())),
			)
			err = apperrors.New(fmt.Sprintf("panic while processing message: %v", r))
		}
	}()
	return c.processor.Process(ctx, delivery)
}

func (c *Consumer) ack(ctx context.Context, logger *slog.Logger, delivery broker.Delivery, key string) {
	if err := c.queue.Ack(ctx, delivery); err != nil {
		logger.Error("ack failed, delivery stays pending", slog.Any("error", err))
		c.metrics.RecordOperation(ctx, "ingest", "message_processed", "error")
		return
	}
	c.report(ctx, logger, key, status.StatePersisted, delivery.Attempt, "")
	c.metrics.RecordOperation(ctx, "ingest", "message_processed", "success")
}

func (c *Consumer) requeue(
	ctx context.Context,
	logger *slog.Logger,
	delivery broker.Delivery,
	key string,
	decision Decision,
	procErr error,
) {
	logger.Info("retry scheduled",
		slog.Duration("delay", decision.Delay),
		slog.String("reason", decision.Reason),
		slog.Any("error", procErr),
	)
	if err := c.queue.Requeue(ctx, delivery, decision.Delay); err != nil {
		logger.Error("requeue failed, delivery stays pending", slog.Any("error", err))
		c.metrics.RecordOperation(ctx, "ingest", "message_retried", "error")
		return
	}
	c.report(ctx, logger, key, status.StateRetryScheduled, delivery.Attempt+1, procErr.Error())
	c.metrics.RecordOperation(ctx, "ingest", "message_retried", "success")
}

func (c *Consumer) deadLetter(
	ctx context.Context,
	logger *slog.Logger,
	delivery broker.Delivery,
	key string,
	decision Decision,
	procErr error,
) {
	if apperrors.Is(procErr, apperrors.ErrInvalidInput) {
		c.report(ctx, logger, key, status.StateInvalid, delivery.Attempt, procErr.Error())
	}

	id, err := c.router.Quarantine(ctx, delivery, key, decision.Reason, procErr.Error())
	if err != nil {
		// Pipeline-fatal for this delivery: without a quarantine record the
		// message would be lost, so it stays unacked and comes back.
		logger.Error("quarantine failed, delivery stays pending", slog.Any("error", err))
		c.metrics.RecordOperation(ctx, "ingest", "message_quarantined", "error")
		return
	}

	logger.Warn("message dead-lettered",
		slog.String("quarantine_id", id),
		slog.String("reason", decision.Reason),
		slog.Any("error", procErr),
	)
	c.report(ctx, logger, key, status.StateDeadLettered, delivery.Attempt, procErr.Error())
	c.metrics.RecordOperation(ctx, "ingest", "message_quarantined", "success")
}

// report writes a status transition, logging failures only. Status writes
// never fail the message.
func (c *Consumer) report(
	ctx context.Context,
	logger *slog.Logger,
	key string,
	state status.State,
	attempts int,
	lastErr string,
) {
	if err := c.reporter.Report(ctx, key, state, attempts, lastErr); err != nil {
		logger.Warn("status report failed", slog.String("state", string(state)), slog.Any("error", err))
	}
}
