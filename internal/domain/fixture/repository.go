package fixture

import (
	"context"
	"errors"
)

// ErrDuplicateMatchID reports that the store already holds a fixture with the
// same match id, either found proactively or surfaced by the unique
// constraint when two runs race on the same record.
var ErrDuplicateMatchID = errors.New("match id already exists")

// Repository exposes the store operations the ingestion pipeline and the read
// API need. Insert returns the store-assigned row id.
type Repository interface {
	ExistsByMatchID(ctx context.Context, matchID string) (bool, error)
	Insert(ctx context.Context, fx Fixture) (string, error)
	ListBySport(ctx context.Context, sportType string) ([]Fixture, error)
}
