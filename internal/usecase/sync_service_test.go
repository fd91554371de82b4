package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/stretchr/testify/require"

	"github.com/sportfeeds/fixtures-daily/internal/domain/fixture"
	"github.com/sportfeeds/fixtures-daily/internal/platform/logging"
	"github.com/sportfeeds/fixtures-daily/internal/platform/retry"
)

type stubProvider struct {
	mu       sync.Mutex
	fixtures []RawFixture
	err      error
	delay    time.Duration
	calls    int
}

func (p *stubProvider) FetchFixtures(ctx context.Context, season, league string) ([]RawFixture, error) {
	p.mu.Lock()
	p.calls++
	p.mu.Unlock()
	if p.delay > 0 {
		time.Sleep(p.delay)
	}
	if p.err != nil {
		return nil, p.err
	}
	return p.fixtures, nil
}

// memStore is an in-memory FixtureStore enforcing match_id uniqueness the way
// the fixtures table's constraint does.
type memStore struct {
	mu        sync.Mutex
	rows      map[string]fixture.Fixture
	nextID    int
	insertErr map[string]error
	closed    int
}

func newMemStore() *memStore {
	return &memStore{rows: make(map[string]fixture.Fixture)}
}

func (s *memStore) ExistsByMatchID(ctx context.Context, matchID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.rows[matchID]
	return ok, nil
}

func (s *memStore) Insert(ctx context.Context, fx fixture.Fixture) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.insertErr[fx.MatchID]; err != nil {
		return "", err
	}
	if _, ok := s.rows[fx.MatchID]; ok {
		return "", fixture.ErrDuplicateMatchID
	}
	s.nextID++
	fx.ID = fmt.Sprintf("fix_%06d", s.nextID)
	s.rows[fx.MatchID] = fx
	return fx.ID, nil
}

func (s *memStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed++
	return nil
}

type stubConnector struct {
	mu       sync.Mutex
	store    *memStore
	failures int
	attempts int
}

func (c *stubConnector) Connect(ctx context.Context) (FixtureStore, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.attempts++
	if c.attempts <= c.failures {
		return nil, errors.New("connection refused")
	}
	return c.store, nil
}

func fastPolicy() retry.Policy {
	return retry.Policy{MaxAttempts: 3, Backoff: time.Millisecond}
}

var batchHomeNames = []string{"Arsenal", "Brentford", "Crystal Palace", "Everton", "Fulham"}
var batchAwayNames = []string{"Liverpool", "Newcastle", "Sunderland", "Tottenham", "Wolves"}

// rawBatch builds up to five valid records with distinct match-id prefixes.
func rawBatch(n int) []RawFixture {
	out := make([]RawFixture, 0, n)
	for i := 0; i < n; i++ {
		raw := sampleRawFixture()
		raw.Fixture.ID = int64(1000 + i)
		raw.Teams.Home.Name = batchHomeNames[i%len(batchHomeNames)]
		raw.Teams.Away.Name = batchAwayNames[i%len(batchAwayNames)]
		out = append(out, raw)
	}
	return out
}

func newTestService(provider FixtureProvider, connector StoreConnector) *SyncService {
	return NewSyncService(provider, connector, NewNormalizer("soccer"), fastPolicy(), logging.NewNop())
}

func TestRunInsertsWholeBatch(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	provider := &stubProvider{fixtures: rawBatch(4)}
	svc := newTestService(provider, &stubConnector{store: store})

	summary, err := svc.Run(context.Background(), SyncTarget{Season: "2025", League: "15"})
	require.NoError(t, err)
	require.Equal(t, 4, summary.Fetched)
	require.Equal(t, 4, summary.Inserted)
	require.Equal(t, 0, summary.Skipped)
	require.Equal(t, 0, summary.Failed)
	require.Len(t, store.rows, 4)
	require.Equal(t, 1, store.closed)
}

func TestRunIsIdempotent(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	provider := &stubProvider{fixtures: rawBatch(3)}
	connector := &stubConnector{store: store}
	svc := newTestService(provider, connector)
	target := SyncTarget{Season: "2025", League: "15"}

	first, err := svc.Run(context.Background(), target)
	require.NoError(t, err)
	require.Equal(t, 3, first.Inserted)

	second, err := svc.Run(context.Background(), target)
	require.NoError(t, err)
	require.Equal(t, 0, second.Inserted)
	require.Equal(t, 3, second.Skipped)
	require.Len(t, store.rows, 3)
}

func TestRunIsolatesMalformedRecord(t *testing.T) {
	t.Parallel()

	batch := rawBatch(5)
	batch[2].Fixture.Date = "garbage"
	store := newMemStore()
	svc := newTestService(&stubProvider{fixtures: batch}, &stubConnector{store: store})

	summary, err := svc.Run(context.Background(), SyncTarget{Season: "2025", League: "15"})
	require.NoError(t, err)
	require.Equal(t, 5, summary.Fetched)
	require.Equal(t, 4, summary.Inserted)
	require.Equal(t, 1, summary.Skipped)
	require.Equal(t, 0, summary.Failed)
}

func TestRunCountsInsertFailureAndContinues(t *testing.T) {
	t.Parallel()

	batch := rawBatch(3)
	store := newMemStore()
	svc := newTestService(&stubProvider{fixtures: batch}, &stubConnector{store: store})

	// Make only the second record's insert blow up.
	fx, err := NewNormalizer("soccer").Normalize(batch[1])
	require.NoError(t, err)
	store.insertErr = map[string]error{fx.MatchID: errors.New("disk full")}

	summary, runErr := svc.Run(context.Background(), SyncTarget{Season: "2025", League: "15"})
	require.NoError(t, runErr)
	require.Equal(t, 2, summary.Inserted)
	require.Equal(t, 1, summary.Failed)
}

func TestRunDowngradesDuplicateInsertToSkip(t *testing.T) {
	t.Parallel()

	batch := rawBatch(2)
	store := newMemStore()
	svc := newTestService(&stubProvider{fixtures: batch}, &stubConnector{store: store})

	fx, err := NewNormalizer("soccer").Normalize(batch[0])
	require.NoError(t, err)
	store.insertErr = map[string]error{fx.MatchID: fixture.ErrDuplicateMatchID}

	summary, runErr := svc.Run(context.Background(), SyncTarget{Season: "2025", League: "15"})
	require.NoError(t, runErr)
	require.Equal(t, 1, summary.Inserted)
	require.Equal(t, 1, summary.Skipped)
	require.Equal(t, 0, summary.Failed)
}

func TestRunTreatsFetchFailureAsEmptyBatch(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	svc := newTestService(&stubProvider{err: errors.New("upstream 500")}, &stubConnector{store: store})

	summary, err := svc.Run(context.Background(), SyncTarget{Season: "2025", League: "15"})
	require.NoError(t, err)
	require.Equal(t, 0, summary.Fetched)
	require.Equal(t, 0, summary.Inserted)
	require.Equal(t, 1, store.closed)
}

func TestRunConnectsOnThirdAttempt(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	connector := &stubConnector{store: store, failures: 2}
	svc := newTestService(&stubProvider{fixtures: rawBatch(1)}, connector)

	summary, err := svc.Run(context.Background(), SyncTarget{Season: "2025", League: "15"})
	require.NoError(t, err)
	require.Equal(t, 3, connector.attempts)
	require.Equal(t, 1, summary.Inserted)
}

func TestRunAbortsWhenStoreStaysDown(t *testing.T) {
	t.Parallel()

	provider := &stubProvider{fixtures: rawBatch(1)}
	connector := &stubConnector{store: newMemStore(), failures: 99}
	svc := newTestService(provider, connector)

	summary, err := svc.Run(context.Background(), SyncTarget{Season: "2025", League: "15"})
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrStoreUnavailable))
	require.ErrorContains(t, err, "connect store")
	require.Equal(t, 3, connector.attempts)
	require.Equal(t, 0, summary.Fetched)
	require.Equal(t, 0, provider.calls, "no fetch should be attempted after connect failure")
}

func TestRunAllAggregatesPerLeague(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	svc := newTestService(&stubProvider{fixtures: rawBatch(2)}, &stubConnector{store: store})

	results, err := svc.RunAll(context.Background(), []SyncTarget{
		{Season: "2025", League: "39"},
		{Season: "2025", League: "15"},
	}, 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	require.Equal(t, "15", results[0].Summary.League)
	require.Equal(t, "39", results[1].Summary.League)

	// Both targets share the same store here, so the second run to arrive
	// sees the first run's rows as duplicates.
	totalInserted := results[0].Summary.Inserted + results[1].Summary.Inserted
	totalSkipped := results[0].Summary.Skipped + results[1].Summary.Skipped
	require.Equal(t, 2, totalInserted)
	require.Equal(t, 2, totalSkipped)
	require.Len(t, store.rows, 2)
}

func TestRunAllRequiresTargets(t *testing.T) {
	t.Parallel()

	svc := newTestService(&stubProvider{}, &stubConnector{store: newMemStore()})
	_, err := svc.RunAll(context.Background(), nil, 2)
	require.True(t, errors.Is(err, ErrInvalidInput))
}

func TestRunAllKeepsFinishedRunsOnSubmitFailure(t *testing.T) {
	// Mutates the pool constructor seam; must not run in parallel.
	origPool := newWorkerPool
	t.Cleanup(func() { newWorkerPool = origPool })

	// A single nonblocking worker: the first target occupies it long enough
	// for the second submission to be rejected instead of queued.
	newWorkerPool = func(int) (*ants.Pool, error) {
		return ants.NewPool(1, ants.WithNonblocking(true))
	}

	store := newMemStore()
	provider := &stubProvider{fixtures: rawBatch(1), delay: 100 * time.Millisecond}
	svc := newTestService(provider, &stubConnector{store: store})

	results, err := svc.RunAll(context.Background(), []SyncTarget{
		{Season: "2025", League: "39"},
		{Season: "2025", League: "15"},
	}, 2)
	require.Error(t, err)
	require.ErrorContains(t, err, "submit sync run to worker pool")

	// The run that made it onto the pool still completes and reports.
	require.Len(t, results, 1)
	require.Equal(t, 1, results[0].Summary.Inserted)
	require.Len(t, store.rows, 1)
}
