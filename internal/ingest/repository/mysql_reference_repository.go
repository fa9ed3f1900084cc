package repository

import (
	"context"
	"database/sql"

	"github.com/pitchside/matchpipe/internal/database"
	apperrors "github.com/pitchside/matchpipe/internal/errors"
	"github.com/pitchside/matchpipe/internal/ingest/domain"
)

// MySQLReferenceRepository resolves competition, season, age-group and
// division identifiers against the reference tables.
type MySQLReferenceRepository struct {
	db *sql.DB
}

// Resolve returns the names of the entity kinds that could not be found.
// An empty result means every identifier is known.
func (m *MySQLReferenceRepository) Resolve(
	ctx context.Context,
	competition, season, ageGroup, division string,
) ([]string, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT
				  EXISTS(SELECT 1 FROM competitions WHERE name = ?),
				  EXISTS(SELECT 1 FROM seasons WHERE name = ?),
				  EXISTS(SELECT 1 FROM age_groups WHERE name = ?),
				  EXISTS(SELECT 1 FROM divisions WHERE name = ?)`

	var haveCompetition, haveSeason, haveAgeGroup, haveDivision bool
	err := querier.QueryRowContext(
		ctx,
		query,
		domain.Normalize(competition),
		domain.Normalize(season),
		domain.Normalize(ageGroup),
		domain.Normalize(division),
	).Scan(&haveCompetition, &haveSeason, &haveAgeGroup, &haveDivision)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to resolve reference data")
	}

	return missingEntities(haveCompetition, haveSeason, haveAgeGroup, haveDivision), nil
}

// NewMySQLReferenceRepository creates a new MySQL reference repository instance.
func NewMySQLReferenceRepository(db *sql.DB) *MySQLReferenceRepository {
	return &MySQLReferenceRepository{db: db}
}
