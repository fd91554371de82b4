package postgres

import (
	"context"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
)

// Connect opens and pings a traced database handle. The caller owns the
// returned repository and must Close it.
func Connect(ctx context.Context, dbURL, dbName string) (*FixtureRepository, error) {
	db, err := otelsqlx.Open("postgres", dbURL, otelsql.WithDBName(dbName))
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return NewFixtureRepository(db), nil
}
