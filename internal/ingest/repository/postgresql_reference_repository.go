package repository

import (
	"context"
	"database/sql"

	"github.com/pitchside/matchpipe/internal/database"
	apperrors "github.com/pitchside/matchpipe/internal/errors"
	"github.com/pitchside/matchpipe/internal/ingest/domain"
)

// PostgreSQLReferenceRepository resolves competition, season, age-group and
// division identifiers against the reference tables. Reference names are
// stored lowercase, so lookups normalize first.
type PostgreSQLReferenceRepository struct {
	db *sql.DB
}

// Resolve returns the names of the entity kinds that could not be found.
// An empty result means every identifier is known.
func (p *PostgreSQLReferenceRepository) Resolve(
	ctx context.Context,
	competition, season, ageGroup, division string,
) ([]string, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT
				  EXISTS(SELECT 1 FROM competitions WHERE name = $1),
				  EXISTS(SELECT 1 FROM seasons WHERE name = $2),
				  EXISTS(SELECT 1 FROM age_groups WHERE name = $3),
				  EXISTS(SELECT 1 FROM divisions WHERE name = $4)`

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

// NewPostgreSQLReferenceRepository creates a new PostgreSQL reference repository instance.
func NewPostgreSQLReferenceRepository(db *sql.DB) *PostgreSQLReferenceRepository {
	return &PostgreSQLReferenceRepository{db: db}
}

// missingEntities maps the four existence flags to entity kind names.
func missingEntities(haveCompetition, haveSeason, haveAgeGroup, haveDivision bool) []string {
	var missing []string
	if !haveCompetition {
		missing = append(missing, "competition")
	}
	if !haveSeason {
		missing = append(missing, "season")
	}
	if !haveAgeGroup {
		missing = append(missing, "age_group")
	}
	if !haveDivision {
		missing = append(missing, "division")
	}
	return missing
}
