package domain

import (
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/blake2b"
)

// Field names accepted in the idempotency key field list.
const (
	KeyFieldHomeTeam    = "home_team"
	KeyFieldAwayTeam    = "away_team"
	KeyFieldMatchDate   = "match_date"
	KeyFieldCompetition = "competition"
	KeyFieldSeason      = "season"
	KeyFieldAgeGroup    = "age_group"
	KeyFieldDivision    = "division"
)

// DefaultKeyFields is the fallback field set hashed when a message carries no
// source_id. age_group and division are excluded: the same two teams do not
// meet twice on one date within a competition and season, and feeds are more
// likely to disagree on grouping labels than on the fixture itself.
func DefaultKeyFields() []string {
	return []string{
		KeyFieldHomeTeam,
		KeyFieldAwayTeam,
		KeyFieldMatchDate,
		KeyFieldCompetition,
		KeyFieldSeason,
	}
}

// KeyDeriver derives the idempotency key for incoming messages. A non-blank
// source_id is used directly; otherwise a deterministic digest over the
// configured field set is computed, so redeliveries and cosmetic variants of
// the same fixture map to the same key.
type KeyDeriver struct {
	fields []string
}

// NewKeyDeriver builds a deriver for the given field list (comma-separated
// config form is split by the caller). An empty list selects DefaultKeyFields.
// Unknown field names are rejected.
func NewKeyDeriver(fields []string) (*KeyDeriver, error) {
	if len(fields) == 0 {
		fields = DefaultKeyFields()
	}
	for _, f := range fields {
		switch f {
		case KeyFieldHomeTeam, KeyFieldAwayTeam, KeyFieldMatchDate,
			KeyFieldCompetition, KeyFieldSeason, KeyFieldAgeGroup, KeyFieldDivision:
		default:
			return nil, fmt.Errorf("unknown idempotency key field: %q", f)
		}
	}
	return &KeyDeriver{fields: fields}, nil
}

// ParseKeyFields splits a comma-separated field list, trimming blanks.
func ParseKeyFields(list string) []string {
	var fields []string
	for _, f := range strings.Split(list, ",") {
		if f = strings.TrimSpace(f); f != "" {
			fields = append(fields, f)
		}
	}
	return fields
}

// Derive returns the idempotency key for the message.
func (d *KeyDeriver) Derive(msg *MatchMessage) string {
	if sourceID := strings.TrimSpace(msg.SourceID); sourceID != "" {
		return sourceID
	}

	h, _ := blake2b.New256(nil)
	for _, f := range d.fields {
		h.Write([]byte(d.fieldValue(msg, f)))
		h.Write([]byte{'\n'})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// fieldValue maps a field name to its normalized value. Dates use the wire
// layout, which is already canonical.
func (d *KeyDeriver) fieldValue(msg *MatchMessage, field string) string {
	switch field {
	case KeyFieldHomeTeam:
		return Normalize(msg.HomeTeam)
	case KeyFieldAwayTeam:
		return Normalize(msg.AwayTeam)
	case KeyFieldMatchDate:
		return msg.MatchDate.String()
	case KeyFieldCompetition:
		return Normalize(msg.Competition)
	case KeyFieldSeason:
		return Normalize(msg.Season)
	case KeyFieldAgeGroup:
		return Normalize(msg.AgeGroup)
	case KeyFieldDivision:
		return Normalize(msg.Division)
	}
	return ""
}
