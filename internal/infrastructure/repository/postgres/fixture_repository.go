package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/sportfeeds/fixtures-daily/internal/domain/fixture"
)

// FixtureRepository is the sqlx-backed fixture store. One instance owns one
// database handle; Close releases it.
type FixtureRepository struct {
	db *sqlx.DB
}

func NewFixtureRepository(db *sqlx.DB) *FixtureRepository {
	return &FixtureRepository{db: db}
}

func (r *FixtureRepository) ExistsByMatchID(ctx context.Context, matchID string) (bool, error) {
	var count int
	query := `SELECT count(*) FROM fixtures WHERE match_id = $1`
	if err := r.db.GetContext(ctx, &count, query, matchID); err != nil {
		return false, fmt.Errorf("count fixtures by match_id: %w", err)
	}
	return count > 0, nil
}

func (r *FixtureRepository) Insert(ctx context.Context, fx fixture.Fixture) (string, error) {
	query := `
		INSERT INTO fixtures (match_id, sport_type, fixture_data, status, date_time)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	var id string
	err := r.db.GetContext(ctx, &id, query, fx.MatchID, fx.SportType, fx.Data, fx.Status, fx.DateTime)
	if err != nil {
		if isUniqueViolation(err) {
			return "", fmt.Errorf("insert fixture match_id=%s: %w", fx.MatchID, fixture.ErrDuplicateMatchID)
		}
		return "", fmt.Errorf("insert fixture match_id=%s: %w", fx.MatchID, err)
	}

	return id, nil
}

func (r *FixtureRepository) ListBySport(ctx context.Context, sportType string) ([]fixture.Fixture, error) {
	query := `
		SELECT id, match_id, sport_type, fixture_data, status, processed,
		       date_processed, date_time, date_created, date_updated, date_deleted
		FROM fixtures
		WHERE sport_type = $1 AND date_deleted IS NULL
		ORDER BY date_time NULLS LAST, match_id`

	var rows []fixtureTableModel
	if err := r.db.SelectContext(ctx, &rows, query, sportType); err != nil {
		return nil, fmt.Errorf("select fixtures by sport: %w", err)
	}

	out := make([]fixture.Fixture, 0, len(rows))
	for _, row := range rows {
		out = append(out, fixture.Fixture{
			ID:            row.ID,
			MatchID:       row.MatchID,
			SportType:     row.SportType,
			Data:          row.FixtureData,
			Status:        row.Status.String,
			DateTime:      row.DateTime,
			Processed:     row.Processed,
			DateProcessed: row.DateProcessed,
			DateCreated:   row.DateCreated,
			DateUpdated:   row.DateUpdated,
			DateDeleted:   row.DateDeleted,
		})
	}

	return out, nil
}

func (r *FixtureRepository) Close() error {
	return r.db.Close()
}
