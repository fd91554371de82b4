package postgres

import (
	"database/sql"
	"time"
)

type fixtureTableModel struct {
	ID            string         `db:"id"`
	MatchID       string         `db:"match_id"`
	SportType     string         `db:"sport_type"`
	FixtureData   string         `db:"fixture_data"`
	Status        sql.NullString `db:"status"`
	Processed     bool           `db:"processed"`
	DateProcessed *time.Time     `db:"date_processed"`
	DateTime      *time.Time     `db:"date_time"`
	DateCreated   time.Time      `db:"date_created"`
	DateUpdated   time.Time      `db:"date_updated"`
	DateDeleted   *time.Time     `db:"date_deleted"`
}
