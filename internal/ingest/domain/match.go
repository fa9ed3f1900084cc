// Package domain defines the core domain models for match-result ingestion.
// Messages arrive from the broker as JSON envelopes, are normalized into
// MatchMessage values, and are persisted as Match rows keyed by an
// idempotency key so redelivered messages converge on the same row.
package domain

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	appValidation "github.com/pitchside/matchpipe/internal/validation"
)

// Status is the life-cycle state of a fixture as reported by the publisher.
type Status string

// Fixture statuses accepted on the wire.
const (
	StatusScheduled Status = "scheduled"
	StatusLive      Status = "live"
	StatusCompleted Status = "completed"
	StatusPostponed Status = "postponed"
	StatusCancelled Status = "cancelled"
)

// Valid reports whether the status is a member of the accepted set.
func (s Status) Valid() bool {
	switch s {
	case StatusScheduled, StatusLive, StatusCompleted, StatusPostponed, StatusCancelled:
		return true
	}
	return false
}

// matchDateLayout is the wire format for calendar dates.
const matchDateLayout = "2006-01-02"

// MatchDate is a calendar date without a time component ("2006-01-02" on the wire).
type MatchDate struct {
	time.Time
}

// NewMatchDate builds a MatchDate from year, month and day in UTC.
func NewMatchDate(year int, month time.Month, day int) MatchDate {
	return MatchDate{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseMatchDate parses a "2006-01-02" string into a MatchDate.
func ParseMatchDate(value string) (MatchDate, error) {
	t, err := time.Parse(matchDateLayout, value)
	if err != nil {
		return MatchDate{}, err
	}
	return MatchDate{Time: t}, nil
}

// String returns the date in wire format.
func (d MatchDate) String() string {
	return d.Format(matchDateLayout)
}

// Equal compares two dates by calendar day.
func (d MatchDate) Equal(other MatchDate) bool {
	return d.Year() == other.Year() && d.YearDay() == other.YearDay()
}

// MarshalJSON encodes the date as a "2006-01-02" JSON string.
func (d MatchDate) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON decodes a "2006-01-02" JSON string. null leaves the date zero
// so the required-field check can report it as missing.
func (d *MatchDate) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseMatchDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MatchMessage is a single match-result message as published on the broker.
type MatchMessage struct {
	// SourceID is the publisher's stable fixture identifier, if it has one.
	SourceID string `json:"source_id"`
	// HomeTeam and AwayTeam are display names; comparisons are case/space insensitive.
	HomeTeam string `json:"home_team"`
	AwayTeam string `json:"away_team"`
	// Competition, Season, AgeGroup and Division reference known entities
	// in the system of record (e.g. "Spring League", "2025", "U13", "Division 2").
	Competition string `json:"competition"`
	Season      string `json:"season"`
	AgeGroup    string `json:"age_group"`
	Division    string `json:"division"`
	// MatchDate is the scheduled calendar date of the fixture.
	MatchDate MatchDate `json:"match_date"`
	// HomeScore and AwayScore are only required once the fixture is completed.
	HomeScore *int `json:"home_score"`
	AwayScore *int `json:"away_score"`
	// Status is the fixture state claimed by the publisher.
	Status Status `json:"status"`
	// PublishedAt is the publisher-side timestamp of this message.
	PublishedAt *time.Time `json:"published_at"`
}

// Validate checks the envelope shape: required fields present and well formed.
// Business rules (team distinctness, date window, score consistency, status
// membership, reference lookups) are applied later by the validator.
func (m *MatchMessage) Validate() error {
	return validation.ValidateStruct(m,
		validation.Field(&m.HomeTeam, validation.Required, appValidation.NotBlank),
		validation.Field(&m.AwayTeam, validation.Required, appValidation.NotBlank),
		validation.Field(&m.Competition, validation.Required, appValidation.NotBlank),
		validation.Field(&m.Season, validation.Required, appValidation.NotBlank),
		validation.Field(&m.AgeGroup, validation.Required, appValidation.NotBlank),
		validation.Field(&m.Division, validation.Required, appValidation.NotBlank),
		validation.Field(&m.MatchDate, validation.By(requiredMatchDate)),
		validation.Field(&m.Status, validation.By(requiredStatus)),
	)
}

// requiredMatchDate rejects the zero date (absent or null on the wire).
func requiredMatchDate(value interface{}) error {
	d, ok := value.(MatchDate)
	if !ok || d.IsZero() {
		return validation.NewError("validation_required", "cannot be blank")
	}
	return nil
}

// requiredStatus rejects an absent status. Membership in the accepted set is
// a business rule, not an envelope rule.
func requiredStatus(value interface{}) error {
	s, ok := value.(Status)
	if !ok || strings.TrimSpace(string(s)) == "" {
		return validation.NewError("validation_required", "cannot be blank")
	}
	return nil
}

// DecodeMatchMessage decodes a broker payload into a MatchMessage. Unknown
// fields are ignored; malformed JSON, wrong-typed fields and missing required
// fields all yield a *DecodeError, which is always terminal.
func DecodeMatchMessage(raw []byte) (*MatchMessage, error) {
	var msg MatchMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		return nil, &DecodeError{Reason: "malformed payload", Err: err}
	}
	if err := msg.Validate(); err != nil {
		return nil, &DecodeError{Reason: "incomplete envelope", Err: err}
	}
	return &msg, nil
}

// Normalize lowercases and trims an identity field for key derivation and
// conflict comparison. Stored values keep their original casing.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// UpsertOutcome distinguishes the successful results of an idempotent upsert.
type UpsertOutcome string

const (
	// OutcomeCreated means the key was seen for the first time and a row was inserted.
	OutcomeCreated UpsertOutcome = "created"
	// OutcomeUpdated means an existing row had its mutable fields updated.
	OutcomeUpdated UpsertOutcome = "updated"
	// OutcomeUnchanged means the message matched the stored row and nothing was written.
	OutcomeUnchanged UpsertOutcome = "unchanged"
)

// Match is a persisted fixture row in the system of record.
type Match struct {
	// ID is the row identifier.
	ID uuid.UUID
	// IdempotencyKey is the stable key that redeliveries and corrections share.
	IdempotencyKey string
	// SourceID is the publisher's fixture identifier, when one was provided.
	SourceID string
	// Identity fields. Never overwritten after the first insert.
	HomeTeam    string
	AwayTeam    string
	Competition string
	Season      string
	AgeGroup    string
	Division    string
	// MatchDate may move while the fixture is still scheduled or postponed.
	MatchDate MatchDate
	// HomeScore and AwayScore are nil until reported.
	HomeScore *int
	AwayScore *int
	// Status is the current fixture state.
	Status Status
	// PublishedAt is the publisher timestamp of the message that last updated the row.
	PublishedAt *time.Time
	// CreatedAt and UpdatedAt are UTC row timestamps.
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CanReschedule reports whether the stored fixture may still move to a new
// date. Completed, live and cancelled fixtures keep their date; a differing
// date on those is an identity conflict, not a correction.
func (m *Match) CanReschedule() bool {
	return m.Status == StatusScheduled || m.Status == StatusPostponed
}

// ConflictingFields compares the stored row's identity against an incoming
// message that mapped to the same idempotency key. It returns the names of
// fields that differ in a way that cannot be a correction; a non-empty result
// means the message is in conflict with the stored row.
func (m *Match) ConflictingFields(msg *MatchMessage) []string {
	var fields []string
	if Normalize(m.HomeTeam) != Normalize(msg.HomeTeam) {
		fields = append(fields, "home_team")
	}
	if Normalize(m.AwayTeam) != Normalize(msg.AwayTeam) {
		fields = append(fields, "away_team")
	}
	if Normalize(m.Competition) != Normalize(msg.Competition) {
		fields = append(fields, "competition")
	}
	if !m.MatchDate.Equal(msg.MatchDate) && !m.CanReschedule() {
		fields = append(fields, "match_date")
	}
	return fields
}

// Unchanged reports whether applying the message would leave the row as is,
// which makes the upsert a no-op rather than an update.
func (m *Match) Unchanged(msg *MatchMessage) bool {
	return m.Status == msg.Status &&
		intPtrEqual(m.HomeScore, msg.HomeScore) &&
		intPtrEqual(m.AwayScore, msg.AwayScore) &&
		m.MatchDate.Equal(msg.MatchDate)
}

func intPtrEqual(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
