package usecase

import "context"

// FixtureProvider fetches one raw batch of fixtures for a season/league pair.
// Implementations wrap a concrete upstream API; the pipeline only sees the
// decoded records.
type FixtureProvider interface {
	FetchFixtures(ctx context.Context, season, league string) ([]RawFixture, error)
}

// RawFixture mirrors the provider's nested response shape. Sub-structures are
// carried through to the stored payload untouched, so unknown upstream fields
// survive in fixture_data.
type RawFixture struct {
	Fixture RawFixtureInfo `json:"fixture"`
	League  RawLeague      `json:"league"`
	Teams   RawTeams       `json:"teams"`
}

type RawFixtureInfo struct {
	ID        int64      `json:"id"`
	Referee   *string    `json:"referee"`
	Timezone  string     `json:"timezone"`
	Date      string     `json:"date"`
	Timestamp int64      `json:"timestamp"`
	Periods   RawPeriods `json:"periods"`
	Venue     RawVenue   `json:"venue"`
	Status    RawStatus  `json:"status"`
}

type RawPeriods struct {
	First  *int64 `json:"first"`
	Second *int64 `json:"second"`
}

type RawVenue struct {
	ID   *int64 `json:"id"`
	Name string `json:"name"`
	City string `json:"city"`
}

type RawStatus struct {
	Long    string `json:"long"`
	Short   string `json:"short"`
	Elapsed *int   `json:"elapsed"`
}

type RawLeague struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Country string `json:"country"`
	Logo    string `json:"logo"`
	Flag    string `json:"flag"`
	Season  int    `json:"season"`
	Round   string `json:"round"`
}

type RawTeams struct {
	Home RawTeam `json:"home"`
	Away RawTeam `json:"away"`
}

type RawTeam struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Logo   string `json:"logo"`
	Winner *bool  `json:"winner"`
}
