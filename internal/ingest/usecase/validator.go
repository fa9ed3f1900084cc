package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pitchside/matchpipe/internal/ingest/domain"
)

// Date window accepted for fixtures, relative to today. Anything outside is
// treated as a scraper parsing bug, not a plausible fixture.
const (
	matchDateYearsBack    = 5
	matchDateYearsForward = 1
)

// MatchValidator applies the business rules to a decoded message. Rules run
// in a fixed order and short-circuit on the first failure; rules over the
// message content are terminal, the reference-data rule is transient.
type MatchValidator struct {
	references ReferenceRepository
	now        func() time.Time
}

// NewMatchValidator creates a validator resolving reference data through
// the given repository.
func NewMatchValidator(references ReferenceRepository) *MatchValidator {
	return &MatchValidator{
		references: references,
		now:        time.Now,
	}
}

// Validate checks the message against the business rules. It returns a
// *domain.ValidationError naming the failed rule, or a wrapped repository
// error when the reference lookup itself failed.
func (v *MatchValidator) Validate(ctx context.Context, msg *domain.MatchMessage) error {
	if domain.Normalize(msg.HomeTeam) == domain.Normalize(msg.AwayTeam) {
		return &domain.ValidationError{
			Rule:   domain.RuleTeamsDistinct,
			Reason: fmt.Sprintf("home and away team are both %q", msg.HomeTeam),
		}
	}

	if err := v.validateMatchDate(msg); err != nil {
		return err
	}

	if err := validateScores(msg); err != nil {
		return err
	}

	if !msg.Status.Valid() {
		return &domain.ValidationError{
			Rule:   domain.RuleStatusKnown,
			Reason: fmt.Sprintf("unknown status %q", msg.Status),
		}
	}

	return v.validateReferences(ctx, msg)
}

// validateMatchDate bounds the fixture date to a plausible window around
// today, compared by calendar date.
func (v *MatchValidator) validateMatchDate(msg *domain.MatchMessage) error {
	now := v.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	earliest := today.AddDate(-matchDateYearsBack, 0, 0)
	latest := today.AddDate(matchDateYearsForward, 0, 0)

	if msg.MatchDate.Before(earliest) || msg.MatchDate.After(latest) {
		return &domain.ValidationError{
			Rule: domain.RuleMatchDateWindow,
			Reason: fmt.Sprintf(
				"match date %s is outside [%s, %s]",
				msg.MatchDate,
				earliest.Format("2006-01-02"),
				latest.Format("2006-01-02"),
			),
		}
	}
	return nil
}

// validateScores requires both scores on a completed fixture and rejects
// negative scores on any fixture.
func validateScores(msg *domain.MatchMessage) error {
	if msg.Status == domain.StatusCompleted && (msg.HomeScore == nil || msg.AwayScore == nil) {
		return &domain.ValidationError{
			Rule:   domain.RuleCompletedScores,
			Reason: "completed match is missing scores",
		}
	}
	if (msg.HomeScore != nil && *msg.HomeScore < 0) || (msg.AwayScore != nil && *msg.AwayScore < 0) {
		return &domain.ValidationError{
			Rule:   domain.RuleCompletedScores,
			Reason: "scores must not be negative",
		}
	}
	return nil
}

// validateReferences resolves the league context against the system of
// record. Unknown entities are transient: reference data sync can lag
// behind the feed, so the message is retried before giving up.
func (v *MatchValidator) validateReferences(ctx context.Context, msg *domain.MatchMessage) error {
	missing, err := v.references.Resolve(ctx, msg.Competition, msg.Season, msg.AgeGroup, msg.Division)
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		return &domain.ValidationError{
			Rule:      domain.RuleReferenceData,
			Reason:    "unknown " + strings.Join(missing, ", "),
			Transient: true,
		}
	}
	return nil
}
