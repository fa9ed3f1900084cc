// Package status publishes per-message processing states to a key-value
// store so operators can follow a match result through the pipeline.
// Reporting is best effort: callers bound every write with a short timeout
// and a failed write never fails the message itself.
package status

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pitchside/matchpipe/internal/errors"
)

// State is a processing state of a message.
type State string

const (
	StateReceived       State = "received"
	StateValidating     State = "validating"
	StateInvalid        State = "invalid"
	StatePersisting     State = "persisting"
	StatePersisted      State = "persisted"
	StateRetryScheduled State = "retry_scheduled"
	StateDeadLettered   State = "dead_lettered"
)

// Record is the stored status of a message keyed by its idempotency key.
// FirstSeenAt and UpdatedAt are maintained by the reporter. LastError keeps
// the most recent failure and survives later successful states.
type Record struct {
	Key         string    `json:"key"`
	State       State     `json:"state"`
	Attempts    int       `json:"attempts"`
	LastError   string    `json:"last_error,omitempty"`
	FirstSeenAt time.Time `json:"first_seen_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

const (
	fieldState       = "state"
	fieldAttempts    = "attempts"
	fieldLastError   = "last_error"
	fieldFirstSeenAt = "first_seen_at"
	fieldUpdatedAt   = "updated_at"
)

// RedisClient is the subset of redis commands the reporter uses.
type RedisClient interface {
	HSet(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
	HSetNX(ctx context.Context, key, field string, value interface{}) *redis.BoolCmd
	HGetAll(ctx context.Context, key string) *redis.MapStringStringCmd
}

// RedisReporter stores one hash per message under the configured key
// prefix.
type RedisReporter struct {
	client       RedisClient
	prefix       string
	writeTimeout time.Duration
}

// NewRedisReporter returns a reporter writing under prefix with every write
// bounded by writeTimeout.
func NewRedisReporter(client RedisClient, prefix string, writeTimeout time.Duration) *RedisReporter {
	if prefix == "" {
		prefix = "matchpipe:status"
	}
	if writeTimeout <= 0 {
		writeTimeout = 2 * time.Second
	}
	return &RedisReporter{
		client:       client,
		prefix:       prefix,
		writeTimeout: writeTimeout,
	}
}

func (r *RedisReporter) recordKey(key string) string {
	return r.prefix + ":" + key
}

// Report upserts the status record for key. The first write sets
// first_seen_at; lastErr is only written when non-empty, so the record
// keeps the most recent failure across later states.
func (r *RedisReporter) Report(ctx context.Context, key string, state State, attempts int, lastErr string) error {
	ctx, cancel := context.WithTimeout(ctx, r.writeTimeout)
	defer cancel()

	now := time.Now().UTC().Format(time.RFC3339Nano)
	recordKey := r.recordKey(key)
	if err := r.client.HSetNX(ctx, recordKey, fieldFirstSeenAt, now).Err(); err != nil {
		return errors.Wrap(err, "report status for key "+key)
	}

	values := []interface{}{
		fieldState, string(state),
		fieldAttempts, strconv.Itoa(attempts),
		fieldUpdatedAt, now,
	}
	if lastErr != "" {
		values = append(values, fieldLastError, lastErr)
	}
	if err := r.client.HSet(ctx, recordKey, values...).Err(); err != nil {
		return errors.Wrap(err, "report status for key "+key)
	}
	return nil
}

// Get reads the status record for key.
func (r *RedisReporter) Get(ctx context.Context, key string) (*Record, error) {
	values, err := r.client.HGetAll(ctx, r.recordKey(key)).Result()
	if err != nil {
		return nil, errors.Wrap(err, "get status for key "+key)
	}
	if len(values) == 0 {
		return nil, errors.Wrap(errors.ErrNotFound, "status for key "+key)
	}

	record := &Record{
		Key:       key,
		State:     State(values[fieldState]),
		LastError: values[fieldLastError],
	}
	if attempts, err := strconv.Atoi(values[fieldAttempts]); err == nil {
		record.Attempts = attempts
	}
	if ts, err := time.Parse(time.RFC3339Nano, values[fieldFirstSeenAt]); err == nil {
		record.FirstSeenAt = ts
	}
	if ts, err := time.Parse(time.RFC3339Nano, values[fieldUpdatedAt]); err == nil {
		record.UpdatedAt = ts
	}
	return record, nil
}

// NoopReporter discards all reports. It stands in for the redis reporter
// in one-shot tooling and tests that do not track status.
type NoopReporter struct{}

// NewNoopReporter returns a reporter that does nothing.
func NewNoopReporter() *NoopReporter {
	return &NoopReporter{}
}

// Report discards the status update.
func (r *NoopReporter) Report(ctx context.Context, key string, state State, attempts int, lastErr string) error {
	return nil
}
