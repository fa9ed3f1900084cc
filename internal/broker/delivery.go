// Package broker implements the message transport on Redis Streams: a
// processing stream consumed through a consumer group with manual ack, a
// sorted-set delay index for broker-level delayed redelivery, and a
// quarantine stream for dead-lettered messages.
package broker

import (
	"strconv"
	"time"
)

// Stream entry field names.
const (
	fieldPayload       = "payload"
	fieldAttempt       = "attempt"
	fieldEnqueuedAt    = "enqueued_at"
	fieldKey           = "key"
	fieldReason        = "reason"
	fieldLastError     = "last_error"
	fieldAttempts      = "attempts"
	fieldQuarantinedAt = "quarantined_at"
)

// Delivery is one in-flight message leased from the processing stream. It
// stays pending in the consumer group until it is acked, requeued or
// quarantined.
type Delivery struct {
	// ID is the stream entry ID of this delivery.
	ID string
	// Payload is the raw message payload as published.
	Payload []byte
	// Attempt is the processing attempt number. The first delivery is 0;
	// it increments only on explicit requeue, not on crash redelivery.
	Attempt int
	// EnqueuedAt is when the message was first published.
	EnqueuedAt time.Time
	// DeliveredAt is when this delivery was read from the stream.
	DeliveredAt time.Time
}

// deliveryValues encodes a delivery's payload fields for XADD.
func deliveryValues(payload []byte, attempt int, enqueuedAt time.Time) map[string]interface{} {
	return map[string]interface{}{
		fieldPayload:    string(payload),
		fieldAttempt:    strconv.Itoa(attempt),
		fieldEnqueuedAt: enqueuedAt.UTC().Format(time.RFC3339Nano),
	}
}

// parseDelivery decodes stream entry values back into a Delivery.
func parseDelivery(id string, values map[string]interface{}, deliveredAt time.Time) Delivery {
	d := Delivery{
		ID:          id,
		DeliveredAt: deliveredAt,
	}
	if payload, ok := values[fieldPayload].(string); ok {
		d.Payload = []byte(payload)
	}
	if raw, ok := values[fieldAttempt].(string); ok {
		if attempt, err := strconv.Atoi(raw); err == nil {
			d.Attempt = attempt
		}
	}
	if raw, ok := values[fieldEnqueuedAt].(string); ok {
		if ts, err := time.Parse(time.RFC3339Nano, raw); err == nil {
			d.EnqueuedAt = ts
		}
	}
	return d
}
