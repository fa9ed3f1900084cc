// Package repository implements persistence for ingested matches and the
// reference data they are validated against. Repositories support both
// PostgreSQL and MySQL; the upsert keyed by idempotency key is the single
// serialization point of the pipeline.
package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/pitchside/matchpipe/internal/database"
	apperrors "github.com/pitchside/matchpipe/internal/errors"
	"github.com/pitchside/matchpipe/internal/ingest/domain"
)

// pqUniqueViolation is the PostgreSQL error code for unique constraint violations.
const pqUniqueViolation = "23505"

// matchColumns is the scan order shared by all match queries.
const matchColumns = `id, idempotency_key, source_id, home_team, away_team, competition, season,
		  age_group, division, match_date, home_score, away_score, status, published_at,
		  created_at, updated_at`

// PostgreSQLMatchRepository implements Match persistence for PostgreSQL databases.
type PostgreSQLMatchRepository struct {
	db        *sql.DB
	txManager database.TxManager
}

// Upsert inserts or updates the match row for the given idempotency key
// inside a single transaction. The row is locked while the incoming message
// is compared against it, so concurrent deliveries of the same key serialize
// here. Identity mismatches return a *domain.ConflictError; a duplicate
// message returns OutcomeUnchanged without touching the row.
func (p *PostgreSQLMatchRepository) Upsert(
	ctx context.Context,
	key string,
	msg *domain.MatchMessage,
) (domain.UpsertOutcome, error) {
	var outcome domain.UpsertOutcome

	err := p.txManager.WithTx(ctx, func(ctx context.Context) error {
		existing, err := p.getByKeyForUpdate(ctx, key)
		if err != nil {
			if !apperrors.Is(err, apperrors.ErrNotFound) {
				return err
			}
			if err := p.insert(ctx, key, msg); err != nil {
				return err
			}
			outcome = domain.OutcomeCreated
			return nil
		}

		if fields := existing.ConflictingFields(msg); len(fields) > 0 {
			return &domain.ConflictError{Key: key, Fields: fields}
		}

		if existing.Unchanged(msg) {
			outcome = domain.OutcomeUnchanged
			return nil
		}

		if err := p.update(ctx, key, msg); err != nil {
			return err
		}
		outcome = domain.OutcomeUpdated
		return nil
	})
	if err != nil {
		return "", err
	}

	return outcome, nil
}

// GetByKey retrieves a match row by its idempotency key.
func (p *PostgreSQLMatchRepository) GetByKey(ctx context.Context, key string) (*domain.Match, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + matchColumns + `
			  FROM matches
			  WHERE idempotency_key = $1`

	match, err := scanMatch(querier.QueryRowContext(ctx, query, key))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get match by key")
	}

	return match, nil
}

// getByKeyForUpdate retrieves a match row and locks it for the transaction.
func (p *PostgreSQLMatchRepository) getByKeyForUpdate(ctx context.Context, key string) (*domain.Match, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + matchColumns + `
			  FROM matches
			  WHERE idempotency_key = $1
			  FOR UPDATE`

	match, err := scanMatch(querier.QueryRowContext(ctx, query, key))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.Wrap(err, "failed to lock match by key")
	}

	return match, nil
}

// insert creates the initial row for a key. A unique violation here means
// another worker inserted the key between our lock attempt and the insert;
// that race is left transient so the redelivery takes the update path.
func (p *PostgreSQLMatchRepository) insert(ctx context.Context, key string, msg *domain.MatchMessage) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO matches (id, idempotency_key, source_id, home_team, away_team, competition,
				  season, age_group, division, match_date, home_score, away_score, status, published_at,
				  created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`

	now := time.Now().UTC()
	_, err := querier.ExecContext(
		ctx,
		query,
		uuid.Must(uuid.NewV7()),
		key,
		nullString(msg.SourceID),
		msg.HomeTeam,
		msg.AwayTeam,
		msg.Competition,
		msg.Season,
		msg.AgeGroup,
		msg.Division,
		msg.MatchDate.Time,
		nullInt(msg.HomeScore),
		nullInt(msg.AwayScore),
		string(msg.Status),
		nullTime(msg.PublishedAt),
		now,
		now,
	)
	if err != nil {
		var pqErr *pq.Error
		if apperrors.As(err, &pqErr) && string(pqErr.Code) == pqUniqueViolation {
			return apperrors.Wrap(err, "concurrent insert for key "+key)
		}
		return apperrors.Wrap(err, "failed to insert match")
	}
	return nil
}

// update applies the mutable fields to an existing row. Identity fields are
// never written here.
func (p *PostgreSQLMatchRepository) update(ctx context.Context, key string, msg *domain.MatchMessage) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE matches
			  SET status = $1, home_score = $2, away_score = $3, match_date = $4,
				  published_at = $5, updated_at = $6
			  WHERE idempotency_key = $7`

	_, err := querier.ExecContext(
		ctx,
		query,
		string(msg.Status),
		nullInt(msg.HomeScore),
		nullInt(msg.AwayScore),
		msg.MatchDate.Time,
		nullTime(msg.PublishedAt),
		time.Now().UTC(),
		key,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update match")
	}
	return nil
}

// NewPostgreSQLMatchRepository creates a new PostgreSQL Match repository instance.
func NewPostgreSQLMatchRepository(db *sql.DB, txManager database.TxManager) *PostgreSQLMatchRepository {
	return &PostgreSQLMatchRepository{db: db, txManager: txManager}
}
