package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/sportfeeds/fixtures-daily/internal/domain/fixture"
	"github.com/sportfeeds/fixtures-daily/internal/platform/logging"
	"github.com/sportfeeds/fixtures-daily/internal/platform/retry"
)

// FixtureStore is the per-run store handle. A run acquires it once at start
// and releases it exactly once at the end, whatever happened in between.
type FixtureStore interface {
	ExistsByMatchID(ctx context.Context, matchID string) (bool, error)
	Insert(ctx context.Context, fx fixture.Fixture) (string, error)
	Close() error
}

// StoreConnector opens a fresh store handle for one pipeline run.
type StoreConnector interface {
	Connect(ctx context.Context) (FixtureStore, error)
}

// SyncTarget identifies one upstream batch to pull.
type SyncTarget struct {
	Season string
	League string
}

// Summary counts what one run did with its batch.
type Summary struct {
	Season   string
	League   string
	Fetched  int
	Inserted int
	Skipped  int
	Failed   int
}

// RunResult pairs a run's summary with its terminal error, if any. Only a
// store-connection failure produces an error; everything else is absorbed
// into the counters.
type RunResult struct {
	Summary Summary
	Err     error
}

type SyncService struct {
	provider      FixtureProvider
	connector     StoreConnector
	normalizer    *Normalizer
	connectPolicy retry.Policy
	logger        *logging.Logger
}

func NewSyncService(
	provider FixtureProvider,
	connector StoreConnector,
	normalizer *Normalizer,
	connectPolicy retry.Policy,
	logger *logging.Logger,
) *SyncService {
	if logger == nil {
		logger = logging.Default()
	}
	return &SyncService{
		provider:      provider,
		connector:     connector,
		normalizer:    normalizer,
		connectPolicy: connectPolicy,
		logger:        logger,
	}
}

// Run executes one full sync for the target: connect (with bounded retry),
// fetch, normalize and insert record by record, then release the store.
// Per-record problems become skip/failed counts; only an unreachable store
// aborts the run.
func (s *SyncService) Run(ctx context.Context, target SyncTarget) (Summary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.Run")
	defer span.End()

	summary := Summary{Season: target.Season, League: target.League}

	var store FixtureStore
	err := s.connectPolicy.Do(ctx, func(ctx context.Context, attempt int) error {
		s.logger.InfoContext(ctx, "connecting to store",
			"attempt", attempt,
			"max_attempts", s.connectPolicy.MaxAttempts,
		)
		opened, connectErr := s.connector.Connect(ctx)
		if connectErr != nil {
			s.logger.WarnContext(ctx, "store connection attempt failed", "attempt", attempt, "error", connectErr)
			return connectErr
		}
		store = opened
		return nil
	})
	if err != nil {
		return summary, fmt.Errorf("%w: connect store: %v", ErrStoreUnavailable, err)
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			s.logger.WarnContext(ctx, "close store failed", "error", closeErr)
		}
	}()

	raws, err := s.provider.FetchFixtures(ctx, target.Season, target.League)
	if err != nil {
		s.logger.WarnContext(ctx, "fetch fixtures failed, continuing with empty batch",
			"season", target.Season,
			"league", target.League,
			"error", err,
		)
		raws = nil
	}
	summary.Fetched = len(raws)

	for _, raw := range raws {
		s.processRecord(ctx, store, raw, &summary)
	}

	s.logger.InfoContext(ctx, "sync run finished",
		"season", target.Season,
		"league", target.League,
		"fetched", summary.Fetched,
		"inserted", summary.Inserted,
		"skipped", summary.Skipped,
		"failed", summary.Failed,
	)

	return summary, nil
}

func (s *SyncService) processRecord(ctx context.Context, store FixtureStore, raw RawFixture, summary *Summary) {
	fx, err := s.normalizer.Normalize(raw)
	if err != nil {
		summary.Skipped++
		s.logger.WarnContext(ctx, "skipping unprocessable fixture",
			"api_fixture_id", raw.Fixture.ID,
			"error", err,
		)
		return
	}

	exists, err := store.ExistsByMatchID(ctx, fx.MatchID)
	if err != nil {
		summary.Failed++
		s.logger.ErrorContext(ctx, "existence check failed", "match_id", fx.MatchID, "error", err)
		return
	}
	if exists {
		summary.Skipped++
		s.logger.DebugContext(ctx, "fixture already stored, skipping", "match_id", fx.MatchID)
		return
	}

	id, err := store.Insert(ctx, fx)
	if err != nil {
		if errors.Is(err, fixture.ErrDuplicateMatchID) {
			// Lost the race against a concurrent run; the constraint did its job.
			summary.Skipped++
			s.logger.DebugContext(ctx, "fixture inserted by concurrent run, skipping", "match_id", fx.MatchID)
			return
		}
		summary.Failed++
		s.logger.ErrorContext(ctx, "insert fixture failed", "match_id", fx.MatchID, "error", err)
		return
	}

	summary.Inserted++
	s.logger.InfoContext(ctx, "inserted fixture", "id", id, "match_id", fx.MatchID)
}

// RunAll fans out one run per target on a worker pool. Each run owns its own
// store connection; duplicate races between overlapping runs resolve to skips.
func (s *SyncService) RunAll(ctx context.Context, targets []SyncTarget, workers int) ([]RunResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.RunAll")
	defer span.End()

	if len(targets) == 0 {
		return nil, fmt.Errorf("%w: at least one sync target is required", ErrInvalidInput)
	}
	if workers <= 0 {
		workers = 1
	}
	if workers > len(targets) {
		workers = len(targets)
	}

	pool, err := newWorkerPool(workers)
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	results := make(chan RunResult, len(targets))
	var wg sync.WaitGroup
	var submitErr error
	for _, target := range targets {
		target := target
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			summary, runErr := s.Run(ctx, target)
			results <- RunResult{Summary: summary, Err: runErr}
		}); err != nil {
			wg.Done()
			submitErr = fmt.Errorf("submit sync run to worker pool: %w", err)
			break
		}
	}

	// In-flight runs finish into the buffered channel either way; their
	// summaries are kept even when a later submission failed.
	wg.Wait()
	close(results)

	out := make([]RunResult, 0, len(targets))
	for result := range results {
		out = append(out, result)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Summary.League != out[j].Summary.League {
			return out[i].Summary.League < out[j].Summary.League
		}
		return out[i].Summary.Season < out[j].Summary.Season
	})

	if submitErr != nil {
		return out, submitErr
	}
	return out, nil
}

var newWorkerPool = func(size int) (*ants.Pool, error) {
	return ants.NewPool(size)
}
