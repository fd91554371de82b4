package usecase

import (
	"fmt"
	"strconv"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/valyala/bytebufferpool"

	"github.com/sportfeeds/fixtures-daily/internal/domain/fixture"
	"github.com/sportfeeds/fixtures-daily/internal/platform/timeutil"
)

const unknownVenue = "Unknown"

// Normalizer turns one raw provider record into the canonical fixture shape.
// It is pure: no I/O, deterministic for a given input and sport type.
type Normalizer struct {
	sportType string
}

func NewNormalizer(sportType string) *Normalizer {
	return &Normalizer{sportType: strings.ToLower(strings.TrimSpace(sportType))}
}

func (n *Normalizer) Normalize(raw RawFixture) (fixture.Fixture, error) {
	homeTeam := strings.TrimSpace(raw.Teams.Home.Name)
	awayTeam := strings.TrimSpace(raw.Teams.Away.Name)
	leagueName := strings.TrimSpace(raw.League.Name)
	if homeTeam == "" || awayTeam == "" {
		return fixture.Fixture{}, fmt.Errorf("%w: missing team names", ErrUnprocessable)
	}
	if leagueName == "" {
		return fixture.Fixture{}, fmt.Errorf("%w: missing league name", ErrUnprocessable)
	}

	venue := strings.TrimSpace(raw.Fixture.Venue.Name)
	if venue == "" {
		venue = unknownVenue
	}

	normalized, err := timeutil.Parse(raw.Fixture.Date)
	if err != nil {
		return fixture.Fixture{}, fmt.Errorf("%w: %v", ErrUnprocessable, err)
	}

	matchID := fixture.MatchID(n.sportType, homeTeam, awayTeam, normalized.Date)
	status := fixture.MapStatus(raw.Fixture.Status.Long)

	// The blob keeps both the normalized fields and the untouched provider
	// sub-structures so downstream consumers can read fields this pipeline
	// does not model yet.
	blob := map[string]any{
		"sport_type":     n.sportType,
		"league":         leagueName,
		"home_team":      homeTeam,
		"away_team":      awayTeam,
		"venue":          venue,
		"date":           normalized.Date,
		"time":           normalized.Time,
		"date_time":      normalized.DateTime,
		"api_fixture_id": strconv.FormatInt(raw.Fixture.ID, 10),
		"referee":        raw.Fixture.Referee,
		"timezone":       raw.Fixture.Timezone,
		"timestamp":      raw.Fixture.Timestamp,
		"periods":        raw.Fixture.Periods,
		"venue_details":  raw.Fixture.Venue,
		"status_details": raw.Fixture.Status,
		"teams_details":  raw.Teams,
		"league_details": raw.League,
	}

	data, err := marshalBlob(blob)
	if err != nil {
		return fixture.Fixture{}, fmt.Errorf("%w: encode fixture data: %v", ErrUnprocessable, err)
	}

	at := normalized.At
	return fixture.Fixture{
		MatchID:   matchID,
		SportType: n.sportType,
		Data:      data,
		Status:    status,
		DateTime:  &at,
	}, nil
}

func marshalBlob(payload map[string]any) (string, error) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if err := sonic.ConfigDefault.NewEncoder(buf).Encode(payload); err != nil {
		return "", err
	}

	return strings.TrimSuffix(buf.String(), "\n"), nil
}
