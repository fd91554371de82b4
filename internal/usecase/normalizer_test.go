package usecase

import (
	"errors"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/stretchr/testify/require"

	"github.com/sportfeeds/fixtures-daily/internal/domain/fixture"
)

func sampleRawFixture() RawFixture {
	referee := "M. Oliver"
	return RawFixture{
		Fixture: RawFixtureInfo{
			ID:        1208021,
			Referee:   &referee,
			Timezone:  "UTC",
			Date:      "2024-08-10T15:00:00+00:00",
			Timestamp: 1723302000,
			Venue:     RawVenue{Name: "Old Trafford", City: "Manchester"},
			Status:    RawStatus{Long: "Not Started", Short: "NS"},
		},
		League: RawLeague{ID: 39, Name: "Premier League", Country: "England", Season: 2024},
		Teams: RawTeams{
			Home: RawTeam{ID: 33, Name: "Manchester United"},
			Away: RawTeam{ID: 49, Name: "Chelsea"},
		},
	}
}

func TestNormalizeHappyPath(t *testing.T) {
	t.Parallel()

	fx, err := NewNormalizer("soccer").Normalize(sampleRawFixture())
	require.NoError(t, err)

	require.Equal(t, "soc-2024-08-10-Man-Che", fx.MatchID)
	require.Equal(t, "soccer", fx.SportType)
	require.Equal(t, fixture.StatusPending, fx.Status)
	require.NotNil(t, fx.DateTime)
	require.True(t, fx.DateTime.Equal(time.Date(2024, 8, 10, 15, 0, 0, 0, time.UTC)))

	var blob map[string]any
	require.NoError(t, sonic.Unmarshal([]byte(fx.Data), &blob))
	require.Equal(t, "Premier League", blob["league"])
	require.Equal(t, "Manchester United", blob["home_team"])
	require.Equal(t, "Chelsea", blob["away_team"])
	require.Equal(t, "Old Trafford", blob["venue"])
	require.Equal(t, "2024-08-10", blob["date"])
	require.Equal(t, "15:00:00", blob["time"])
	require.Equal(t, "2024-08-10T15:00:00Z", blob["date_time"])
	require.Equal(t, "1208021", blob["api_fixture_id"])
	require.Contains(t, blob, "status_details")
	require.Contains(t, blob, "teams_details")
	require.Contains(t, blob, "league_details")
	require.Contains(t, blob, "venue_details")
	require.Contains(t, blob, "periods")
}

func TestNormalizeDefaultsMissingVenue(t *testing.T) {
	t.Parallel()

	raw := sampleRawFixture()
	raw.Fixture.Venue = RawVenue{}

	fx, err := NewNormalizer("soccer").Normalize(raw)
	require.NoError(t, err)

	var blob map[string]any
	require.NoError(t, sonic.Unmarshal([]byte(fx.Data), &blob))
	require.Equal(t, "Unknown", blob["venue"])
}

func TestNormalizeMapsFinishedStatus(t *testing.T) {
	t.Parallel()

	raw := sampleRawFixture()
	raw.Fixture.Status.Long = "Match Finished"

	fx, err := NewNormalizer("soccer").Normalize(raw)
	require.NoError(t, err)
	require.Equal(t, fixture.StatusCompleted, fx.Status)
}

func TestNormalizeRejectsBadDate(t *testing.T) {
	t.Parallel()

	raw := sampleRawFixture()
	raw.Fixture.Date = "not a date"

	_, err := NewNormalizer("soccer").Normalize(raw)
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrUnprocessable))
}

func TestNormalizeRejectsMissingTeams(t *testing.T) {
	t.Parallel()

	raw := sampleRawFixture()
	raw.Teams.Home.Name = ""

	_, err := NewNormalizer("soccer").Normalize(raw)
	require.True(t, errors.Is(err, ErrUnprocessable))
}

func TestNormalizeRejectsMissingLeague(t *testing.T) {
	t.Parallel()

	raw := sampleRawFixture()
	raw.League.Name = "   "

	_, err := NewNormalizer("soccer").Normalize(raw)
	require.True(t, errors.Is(err, ErrUnprocessable))
}

func TestNormalizeUsesInjectedSportType(t *testing.T) {
	t.Parallel()

	fx, err := NewNormalizer("Rugby").Normalize(sampleRawFixture())
	require.NoError(t, err)
	require.Equal(t, "rugby", fx.SportType)
	require.Equal(t, "rug-2024-08-10-Man-Che", fx.MatchID)
}
