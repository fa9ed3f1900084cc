package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"

	"github.com/pitchside/matchpipe/internal/database"
	apperrors "github.com/pitchside/matchpipe/internal/errors"
	"github.com/pitchside/matchpipe/internal/ingest/domain"
)

// mysqlDuplicateEntry is the MySQL error number for duplicate key violations.
const mysqlDuplicateEntry = 1062

// MySQLMatchRepository implements Match persistence for MySQL databases.
type MySQLMatchRepository struct {
	db        *sql.DB
	txManager database.TxManager
}

// Upsert inserts or updates the match row for the given idempotency key
// inside a single transaction. Semantics match the PostgreSQL implementation.
func (m *MySQLMatchRepository) Upsert(
	ctx context.Context,
	key string,
	msg *domain.MatchMessage,
) (domain.UpsertOutcome, error) {
	var outcome domain.UpsertOutcome

	err := m.txManager.WithTx(ctx, func(ctx context.Context) error {
		existing, err := m.getByKeyForUpdate(ctx, key)
		if err != nil {
			if !apperrors.Is(err, apperrors.ErrNotFound) {
				return err
			}
			if err := m.insert(ctx, key, msg); err != nil {
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

		if err := m.update(ctx, key, msg); err != nil {
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
func (m *MySQLMatchRepository) GetByKey(ctx context.Context, key string) (*domain.Match, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT ` + matchColumns + `
			  FROM matches
			  WHERE idempotency_key = ?`

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
func (m *MySQLMatchRepository) getByKeyForUpdate(ctx context.Context, key string) (*domain.Match, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT ` + matchColumns + `
			  FROM matches
			  WHERE idempotency_key = ?
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

// insert creates the initial row for a key. Duplicate-entry races stay
// transient so the redelivery takes the update path.
func (m *MySQLMatchRepository) insert(ctx context.Context, key string, msg *domain.MatchMessage) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO matches (id, idempotency_key, source_id, home_team, away_team, competition,
				  season, age_group, division, match_date, home_score, away_score, status, published_at,
				  created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	id, err := uuid.Must(uuid.NewV7()).MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal match id")
	}

	now := time.Now().UTC()
	_, err = querier.ExecContext(
		ctx,
		query,
		id,
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
		var mysqlErr *mysql.MySQLError
		if apperrors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry {
			return apperrors.Wrap(err, "concurrent insert for key "+key)
		}
		return apperrors.Wrap(err, "failed to insert match")
	}
	return nil
}

// update applies the mutable fields to an existing row.
func (m *MySQLMatchRepository) update(ctx context.Context, key string, msg *domain.MatchMessage) error {
	querier := database.GetTx(ctx, m.db)

	query := `UPDATE matches
			  SET status = ?, home_score = ?, away_score = ?, match_date = ?,
				  published_at = ?, updated_at = ?
			  WHERE idempotency_key = ?`

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

// NewMySQLMatchRepository creates a new MySQL Match repository instance.
func NewMySQLMatchRepository(db *sql.DB, txManager database.TxManager) *MySQLMatchRepository {
	return &MySQLMatchRepository{db: db, txManager: txManager}
}
