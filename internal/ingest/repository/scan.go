package repository

import (
	"database/sql"
	"time"

	"github.com/pitchside/matchpipe/internal/ingest/domain"
)

// rowScanner covers *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanMatch reads one match row in matchColumns order.
func scanMatch(row rowScanner) (*domain.Match, error) {
	var (
		match       domain.Match
		sourceID    sql.NullString
		matchDate   time.Time
		homeScore   sql.NullInt64
		awayScore   sql.NullInt64
		status      string
		publishedAt sql.NullTime
	)

	err := row.Scan(
		&match.ID,
		&match.IdempotencyKey,
		&sourceID,
		&match.HomeTeam,
		&match.AwayTeam,
		&match.Competition,
		&match.Season,
		&match.AgeGroup,
		&match.Division,
		&matchDate,
		&homeScore,
		&awayScore,
		&status,
		&publishedAt,
		&match.CreatedAt,
		&match.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	match.SourceID = sourceID.String
	match.MatchDate = domain.MatchDate{Time: matchDate}
	match.Status = domain.Status(status)
	if homeScore.Valid {
		v := int(homeScore.Int64)
		match.HomeScore = &v
	}
	if awayScore.Valid {
		v := int(awayScore.Int64)
		match.AwayScore = &v
	}
	if publishedAt.Valid {
		t := publishedAt.Time
		match.PublishedAt = &t
	}

	return &match, nil
}

// nullString maps an empty string to NULL.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// nullInt maps a nil pointer to NULL.
func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

// nullTime maps a nil pointer to NULL.
func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}
