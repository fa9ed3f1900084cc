// Package usecase implements the match ingestion pipeline: decode, key
// derivation, validation, idempotent persistence, retry scheduling and
// dead-lettering. The consumer drives deliveries through these stages and
// settles each one with the broker only after a terminal outcome.
package usecase

import (
	"context"
	"time"

	"github.com/pitchside/matchpipe/internal/broker"
	"github.com/pitchside/matchpipe/internal/ingest/domain"
	"github.com/pitchside/matchpipe/internal/status"
)

// MatchRepository defines the interface for match persistence operations.
type MatchRepository interface {
	Upsert(ctx context.Context, key string, msg *domain.MatchMessage) (domain.UpsertOutcome, error)
	GetByKey(ctx context.Context, key string) (*domain.Match, error)
}

// ReferenceRepository resolves league context identifiers against the
// reference tables. Resolve returns the entity kinds that are unknown; an
// empty result means all identifiers resolved.
type ReferenceRepository interface {
	Resolve(ctx context.Context, competition, season, ageGroup, division string) ([]string, error)
}

// Queue is the broker surface the pipeline settles deliveries against.
// Requeue and Quarantine acknowledge the delivery themselves once the
// message is safely stored elsewhere.
type Queue interface {
	Ack(ctx context.Context, delivery broker.Delivery) error
	Requeue(ctx context.Context, delivery broker.Delivery, delay time.Duration) error
	Quarantine(ctx context.Context, delivery broker.Delivery, key, reason, lastError string) (string, error)
}

// StatusReporter records per-message processing states. Calls are best
// effort; the pipeline logs failures and moves on.
type StatusReporter interface {
	Report(ctx context.Context, key string, state status.State, attempts int, lastErr string) error
}

// MatchProcessor runs one delivery through decode, key derivation,
// validation and persistence.
type MatchProcessor interface {
	Process(ctx context.Context, delivery broker.Delivery) (ProcessResult, error)
}

// DeadLetterRouter moves a failed delivery to quarantine with its
// diagnostics. A returned *domain.QuarantineError means the message could
// not be quarantined and must stay unacked.
type DeadLetterRouter interface {
	Quarantine(ctx context.Context, delivery broker.Delivery, key, reason, lastError string) (string, error)
}
