package usecase

import (
	"context"
	"log/slog"

	"github.com/pitchside/matchpipe/internal/broker"
	"github.com/pitchside/matchpipe/internal/ingest/domain"
	"github.com/pitchside/matchpipe/internal/status"
)

// ProcessResult carries what the pipeline learned about a delivery. Key is
// set as soon as the payload decoded, even when a later stage failed, so
// status records and quarantine entries can reference it. Outcome is set
// only on success.
type ProcessResult struct {
	Key     string
	Outcome domain.UpsertOutcome
}

// matchProcessor implements the MatchProcessor interface.
type matchProcessor struct {
	deriver   *domain.KeyDeriver
	validator *MatchValidator
	matchRepo MatchRepository
	reporter  StatusReporter
	logger    *slog.Logger
}

// NewMatchProcessor creates the processing pipeline for one delivery:
// decode, derive the idempotency key, validate, persist.
func NewMatchProcessor(
	deriver *domain.KeyDeriver,
	validator *MatchValidator,
	matchRepo MatchRepository,
	reporter StatusReporter,
	logger *slog.Logger,
) MatchProcessor {
	return &matchProcessor{
		deriver:   deriver,
		validator: validator,
		matchRepo: matchRepo,
		reporter:  reporter,
		logger:    logger,
	}
}

// Process runs one delivery through the pipeline stages. The returned error
// carries its own retry classification; the caller decides what to do with
// the delivery.
func (p *matchProcessor) Process(ctx context.Context, delivery broker.Delivery) (ProcessResult, error) {
	msg, err := domain.DecodeMatchMessage(delivery.Payload)
	if err != nil {
		return ProcessResult{}, err
	}

	key := p.deriver.Derive(msg)
	p.report(ctx, key, status.StateReceived, delivery.Attempt, "")
	p.report(ctx, key, status.StateValidating, delivery.Attempt, "")

	if err := p.validator.Validate(ctx, msg); err != nil {
		return ProcessResult{Key: key}, err
	}

	p.report(ctx, key, status.StatePersisting, delivery.Attempt, "")
	outcome, err := p.matchRepo.Upsert(ctx, key, msg)
	if err != nil {
		return ProcessResult{Key: key}, err
	}

	p.logger.Info("match persisted",
		slog.String("idempotency_key", key),
		slog.String("outcome", string(outcome)),
		slog.String("status", string(msg.Status)),
		slog.Int("attempt", delivery.Attempt),
	)
	return ProcessResult{Key: key, Outcome: outcome}, nil
}

// report writes a status transition and logs when the write fails. Status
// is a side channel; it never fails the message.
func (p *matchProcessor) report(ctx context.Context, key string, state status.State, attempts int, lastErr string) {
	if err := p.reporter.Report(ctx, key, state, attempts, lastErr); err != nil {
		p.logger.Warn("status report failed",
			slog.String("idempotency_key", key),
			slog.String("state", string(state)),
			slog.Any("error", err),
		)
	}
}
