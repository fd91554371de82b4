package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sportfeeds/fixtures-daily/internal/app"
	"github.com/sportfeeds/fixtures-daily/internal/config"
	"github.com/sportfeeds/fixtures-daily/internal/observability"
	"github.com/sportfeeds/fixtures-daily/internal/platform/logging"
)

// One-shot entry point: pulls the configured fixture batches once and exits.
// Meant to run from cron or a scheduled job runner.
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := logging.NewJSON(cfg.LogLevel)
	logging.SetDefault(logger)

	code := run(cfg, logger)
	_ = logger.Sync()
	os.Exit(code)
}

func run(cfg config.Config, logger *logging.Logger) int {
	shutdownUptrace, err := observability.InitUptrace(cfg, logger)
	if err != nil {
		logger.Error("init uptrace", "error", err)
		return 1
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownUptrace(ctx); err != nil {
			logger.Warn("uptrace shutdown failed", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	syncService, err := app.BuildSyncService(cfg, logger)
	if err != nil {
		logger.Error("build sync service", "error", err)
		return 1
	}

	targets := app.Targets(cfg)
	started := time.Now()
	results, err := syncService.RunAll(ctx, targets, cfg.SyncWorkers)
	if err != nil {
		logger.Error("fixture sync failed", "error", err)
		return 1
	}

	aborted := false
	for _, result := range results {
		if result.Err != nil {
			aborted = true
			logger.Error("fixture sync run aborted",
				"season", result.Summary.Season,
				"league", result.Summary.League,
				"error", result.Err,
			)
			continue
		}
		logger.Info("fixture sync run finished",
			"season", result.Summary.Season,
			"league", result.Summary.League,
			"fetched", result.Summary.Fetched,
			"inserted", result.Summary.Inserted,
			"skipped", result.Summary.Skipped,
			"failed", result.Summary.Failed,
		)
	}

	logger.Info("fixture sync done",
		"targets", len(targets),
		"duration_ms", time.Since(started).Milliseconds(),
	)
	if aborted {
		return 1
	}
	return 0
}
