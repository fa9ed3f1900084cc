package domain

import (
	"fmt"
	"strings"

	apperrors "github.com/pitchside/matchpipe/internal/errors"
)

// Classification separates failures that will never succeed on retry from
// failures that may. The retry scheduler branches on nothing else.
type Classification string

const (
	// ClassTerminal marks failures where redelivery cannot help.
	ClassTerminal Classification = "terminal"
	// ClassTransient marks failures worth retrying with backoff.
	ClassTransient Classification = "transient"
)

// Validation rule names, in evaluation order.
const (
	RuleTeamsDistinct   = "teams_distinct"
	RuleMatchDateWindow = "match_date_window"
	RuleCompletedScores = "completed_scores"
	RuleStatusKnown     = "status_known"
	RuleReferenceData   = "reference_data"
)

// DecodeError reports a payload that could not be turned into a MatchMessage.
// Always terminal: redelivering the same bytes cannot fix them.
type DecodeError struct {
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("decode error: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("decode error: %s", e.Reason)
}

func (e *DecodeError) Unwrap() error {
	return apperrors.ErrInvalidInput
}

// ValidationError reports a business-rule failure. Rules over message content
// are terminal; the reference-data rule is transient because reference rows
// may arrive after the message.
type ValidationError struct {
	Rule      string
	Reason    string
	Transient bool
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s: %s", e.Rule, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return apperrors.ErrInvalidInput
}

// ConflictError reports an incoming message whose idempotency key matched an
// existing row while its identity fields did not. Terminal: the feed and the
// store disagree about what the key refers to, and overwriting would corrupt
// the stored fixture.
type ConflictError struct {
	Key    string
	Fields []string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("identity conflict for key %q on %s", e.Key, strings.Join(e.Fields, ", "))
}

func (e *ConflictError) Unwrap() error {
	return apperrors.ErrConflict
}

// QuarantineError reports that dead-lettering itself failed after retries.
// The worker must not ack the original message when it sees this.
type QuarantineError struct {
	Err error
}

func (e *QuarantineError) Error() string {
	return fmt.Sprintf("quarantine failed: %v", e.Err)
}

func (e *QuarantineError) Unwrap() error {
	return e.Err
}

// Classify maps a processing failure to its retry classification. Anything
// not explicitly terminal (infrastructure errors, timeouts, transient
// validation) is transient.
func Classify(err error) Classification {
	var (
		decodeErr     *DecodeError
		validationErr *ValidationError
		conflictErr   *ConflictError
	)
	switch {
	case apperrors.As(err, &decodeErr):
		return ClassTerminal
	case apperrors.As(err, &validationErr):
		if validationErr.Transient {
			return ClassTransient
		}
		return ClassTerminal
	case apperrors.As(err, &conflictErr):
		return ClassTerminal
	}
	return ClassTransient
}

// IsTerminal reports whether the failure can never succeed on retry.
func IsTerminal(err error) bool {
	return Classify(err) == ClassTerminal
}

// FailureReason returns the short machine-readable reason recorded on status
// records and quarantined messages.
func FailureReason(err error) string {
	var (
		decodeErr     *DecodeError
		validationErr *ValidationError
		conflictErr   *ConflictError
	)
	switch {
	case apperrors.As(err, &decodeErr):
		return "decode_error"
	case apperrors.As(err, &validationErr):
		return validationErr.Rule
	case apperrors.As(err, &conflictErr):
		return "identity_conflict"
	}
	return "transient_error"
}
