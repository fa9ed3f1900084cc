package usecase

import (
	"math/rand"
	"time"

	"github.com/pitchside/matchpipe/internal/ingest/domain"
)

// Action is what the consumer does with a delivery after an attempt.
type Action string

const (
	// ActionAck settles the delivery as successfully processed.
	ActionAck Action = "ack"
	// ActionRequeue schedules the delivery for redelivery after a delay.
	ActionRequeue Action = "requeue"
	// ActionDeadLetter moves the delivery to quarantine.
	ActionDeadLetter Action = "dead_letter"
)

// ReasonMaxRetries is recorded when transient retries are exhausted.
const ReasonMaxRetries = "max_retries_exceeded"

// Decision is the scheduler's verdict for one attempt. Delay is set for
// requeues; Reason is set for requeues and dead-letters.
type Decision struct {
	Action Action
	Delay  time.Duration
	Reason string
}

// RetryPolicy decides between ack, delayed requeue and dead-letter from the
// attempt count and the failure classification alone.
type RetryPolicy struct {
	baseDelay   time.Duration
	maxDelay    time.Duration
	maxAttempts int
}

// NewRetryPolicy creates a policy with exponential backoff between
// baseDelay and maxDelay and at most maxAttempts processing attempts per
// message.
func NewRetryPolicy(baseDelay, maxDelay time.Duration, maxAttempts int) *RetryPolicy {
	if baseDelay <= 0 {
		baseDelay = 2 * time.Second
	}
	if maxDelay < baseDelay {
		maxDelay = 5 * time.Minute
	}
	if maxAttempts <= 0 {
		maxAttempts = 5
	}
	return &RetryPolicy{
		baseDelay:   baseDelay,
		maxDelay:    maxDelay,
		maxAttempts: maxAttempts,
	}
}

// Decide maps the outcome of an attempt to the next action. Terminal
// failures dead-letter immediately regardless of attempt count; transient
// failures requeue with backoff until maxAttempts is exhausted.
func (p *RetryPolicy) Decide(attempt int, err error) Decision {
	if err == nil {
		return Decision{Action: ActionAck}
	}
	if domain.IsTerminal(err) {
		return Decision{Action: ActionDeadLetter, Reason: domain.FailureReason(err)}
	}
	if attempt+1 >= p.maxAttempts {
		return Decision{Action: ActionDeadLetter, Reason: ReasonMaxRetries}
	}
	return Decision{
		Action: ActionRequeue,
		Delay:  p.Delay(attempt),
		Reason: domain.FailureReason(err),
	}
}

// Delay computes the backoff for an attempt: the base delay doubled per
// attempt up to the cap, plus jitter of at most half the capped delay.
// Keeping jitter under half the delay makes successive delays
// non-decreasing until the cap is reached.
func (p *RetryPolicy) Delay(attempt int) time.Duration {
	delay := p.baseDelay
	for i := 0; i < attempt && delay < p.maxDelay; i++ {
		delay *= 2
	}
	if delay > p.maxDelay {
		delay = p.maxDelay
	}
	return delay + time.Duration(rand.Int63n(int64(delay/2)+1))
}

// MaxAttempts returns the configured attempt limit.
func (p *RetryPolicy) MaxAttempts() int {
	return p.maxAttempts
}
