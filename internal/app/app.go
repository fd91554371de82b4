package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sportfeeds/fixtures-daily/external/apifootball"
	"github.com/sportfeeds/fixtures-daily/internal/config"
	"github.com/sportfeeds/fixtures-daily/internal/infrastructure/repository/postgres"
	"github.com/sportfeeds/fixtures-daily/internal/interfaces/httpapi"
	"github.com/sportfeeds/fixtures-daily/internal/platform/logging"
	"github.com/sportfeeds/fixtures-daily/internal/platform/retry"
	"github.com/sportfeeds/fixtures-daily/internal/usecase"
)

// storeConnector opens a fresh Postgres-backed store for each sync run.
type storeConnector struct {
	dbURL  string
	dbName string
}

func (c storeConnector) Connect(ctx context.Context) (usecase.FixtureStore, error) {
	repo, err := postgres.Connect(ctx, c.dbURL, c.dbName)
	if err != nil {
		return nil, err
	}
	return repo, nil
}

// Targets expands the configured season and league list into sync targets.
func Targets(cfg config.Config) []usecase.SyncTarget {
	targets := make([]usecase.SyncTarget, 0, len(cfg.LeagueIDs))
	for _, league := range cfg.LeagueIDs {
		targets = append(targets, usecase.SyncTarget{Season: cfg.Season, League: league})
	}
	return targets
}

// BuildSyncService wires the upstream client, normalizer and store connector
// into a ready-to-run pipeline.
func BuildSyncService(cfg config.Config, logger *logging.Logger) (*usecase.SyncService, error) {
	dbURL, err := normalizeDBURL(cfg.AppEnv, cfg.DBURL)
	if err != nil {
		return nil, err
	}

	provider := apifootball.NewClient(apifootball.ClientConfig{
		BaseURL:    cfg.APIFootballBaseURL,
		Token:      cfg.APIFootballToken,
		Timeout:    cfg.APIFootballTimeout,
		MaxRetries: cfg.APIFootballMaxRetries,
		Logger:     logger,
	})

	return usecase.NewSyncService(
		provider,
		storeConnector{dbURL: dbURL, dbName: dbNameFromURL(cfg.DBURL)},
		usecase.NewNormalizer(cfg.SportType),
		retry.Policy{MaxAttempts: cfg.DBConnectMaxAttempts, Backoff: cfg.DBConnectBackoff},
		logger,
	), nil
}

// NewHTTPServer assembles the full API server. The returned cleanup releases
// the read-side store connection.
func NewHTTPServer(ctx context.Context, cfg config.Config, logger *logging.Logger) (*http.Server, func() error, error) {
	syncService, err := BuildSyncService(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	dbURL, err := normalizeDBURL(cfg.AppEnv, cfg.DBURL)
	if err != nil {
		return nil, nil, err
	}
	readRepo, err := postgres.Connect(ctx, dbURL, dbNameFromURL(cfg.DBURL))
	if err != nil {
		return nil, nil, fmt.Errorf("connect read store: %w", err)
	}

	handler := httpapi.NewHandler(
		syncService,
		usecase.NewFixtureService(readRepo),
		Targets(cfg),
		cfg.SyncWorkers,
		logger,
	)
	router := httpapi.NewRouter(handler, logger, cfg.InternalJobToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	if server.Addr == "" {
		_ = readRepo.Close()
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, readRepo.Close, nil
}
