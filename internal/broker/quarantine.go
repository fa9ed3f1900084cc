package broker

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pitchside/matchpipe/internal/errors"
)

// QuarantinedMessage is a dead-lettered message with its diagnostics. The
// quarantine stream entry ID doubles as the quarantine ID.
type QuarantinedMessage struct {
	ID            string
	Key           string
	Payload       []byte
	Reason        string
	LastError     string
	Attempts      int
	EnqueuedAt    time.Time
	QuarantinedAt time.Time
}

// Quarantine moves a delivery to the quarantine stream with its diagnostics
// and acknowledges it. The original payload is preserved verbatim so the
// message can be inspected and replayed.
func (s *Stream) Quarantine(ctx context.Context, delivery Delivery, key, reason, lastError string) (string, error) {
	id, err := s.client.XAdd(ctx, &redis.XAddArgs{
		Stream: s.config.QuarantineStream,
		Values: map[string]interface{}{
			fieldPayload:       string(delivery.Payload),
			fieldKey:           key,
			fieldReason:        reason,
			fieldLastError:     lastError,
			fieldAttempts:      strconv.Itoa(delivery.Attempt),
			fieldEnqueuedAt:    delivery.EnqueuedAt.UTC().Format(time.RFC3339Nano),
			fieldQuarantinedAt: time.Now().UTC().Format(time.RFC3339Nano),
		},
	}).Result()
	if err != nil {
		return "", errors.Wrap(err, "quarantine message")
	}
	if err := s.Ack(ctx, delivery); err != nil {
		return "", err
	}
	return id, nil
}

// ListQuarantined returns quarantined messages newest first.
func (s *Stream) ListQuarantined(ctx context.Context, limit, offset int) ([]QuarantinedMessage, error) {
	messages, err := s.client.XRevRangeN(ctx, s.config.QuarantineStream, "+", "-", int64(limit+offset)).Result()
	if err != nil {
		return nil, errors.Wrap(err, "list quarantined messages")
	}
	if offset >= len(messages) {
		return []QuarantinedMessage{}, nil
	}
	messages = messages[offset:]

	result := make([]QuarantinedMessage, 0, len(messages))
	for _, message := range messages {
		result = append(result, parseQuarantined(message))
	}
	return result, nil
}

// GetQuarantined returns a single quarantined message by ID.
func (s *Stream) GetQuarantined(ctx context.Context, id string) (*QuarantinedMessage, error) {
	messages, err := s.client.XRange(ctx, s.config.QuarantineStream, id, id).Result()
	if err != nil {
		return nil, errors.Wrap(err, "get quarantined message")
	}
	if len(messages) == 0 {
		return nil, errors.Wrap(errors.ErrNotFound, "quarantined message "+id)
	}
	message := parseQuarantined(messages[0])
	return &message, nil
}

// CountQuarantined returns the number of quarantined messages.
func (s *Stream) CountQuarantined(ctx context.Context) (int64, error) {
	count, err := s.client.XLen(ctx, s.config.QuarantineStream).Result()
	if err != nil {
		return 0, errors.Wrap(err, "count quarantined messages")
	}
	return count, nil
}

// ReplayQuarantined publishes a quarantined message back onto the
// processing stream with its attempt counter reset, then removes it from
// quarantine.
func (s *Stream) ReplayQuarantined(ctx context.Context, id string) (*QuarantinedMessage, error) {
	message, err := s.GetQuarantined(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.publish(ctx, message.Payload, 0, time.Now()); err != nil {
		return nil, err
	}
	if err := s.client.XDel(ctx, s.config.QuarantineStream, id).Err(); err != nil {
		return nil, errors.Wrap(err, "remove quarantined message")
	}
	return message, nil
}

// DeleteQuarantined discards a quarantined message.
func (s *Stream) DeleteQuarantined(ctx context.Context, id string) error {
	if _, err := s.GetQuarantined(ctx, id); err != nil {
		return err
	}
	if err := s.client.XDel(ctx, s.config.QuarantineStream, id).Err(); err != nil {
		return errors.Wrap(err, "remove quarantined message")
	}
	return nil
}

func parseQuarantined(message redis.XMessage) QuarantinedMessage {
	q := QuarantinedMessage{ID: message.ID}
	if payload, ok := message.Values[fieldPayload].(string); ok {
		q.Payload = []byte(payload)
	}
	if key, ok := message.Values[fieldKey].(string); ok {
		q.Key = key
	}
	if reason, ok := message.Values[fieldReason].(string); ok {
		q.Reason = reason
	}
	if lastError, ok := message.Values[fieldLastError].(string); ok {
		q.LastError = lastError
	}
	if raw, ok := message.Values[fieldAttempts].(string); ok {
		if attempts, err := strconv.Atoi(raw); err == nil {
			q.Attempts = attempts
		}
	}
	if raw, ok := message.Values[fieldEnqueuedAt].(string); ok {
		if ts, err := time.Parse(time.RFC3339Nano, raw); err == nil {
			q.EnqueuedAt = ts
		}
	}
	if raw, ok := message.Values[fieldQuarantinedAt].(string); ok {
		if ts, err := time.Parse(time.RFC3339Nano, raw); err == nil {
			q.QuarantinedAt = ts
		}
	}
	return q
}
