package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	jsoniter "github.com/json-iterator/go"
	"github.com/sportfeeds/fixtures-daily/internal/platform/logging"
	"github.com/sportfeeds/fixtures-daily/internal/usecase"
)

type Handler struct {
	syncService    *usecase.SyncService
	fixtureService *usecase.FixtureService
	syncTargets    []usecase.SyncTarget
	syncWorkers    int
	logger         *logging.Logger
	validator      *validator.Validate
}

func NewHandler(
	syncService *usecase.SyncService,
	fixtureService *usecase.FixtureService,
	syncTargets []usecase.SyncTarget,
	syncWorkers int,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	if syncWorkers <= 0 {
		syncWorkers = 1
	}

	return &Handler{
		syncService:    syncService,
		fixtureService: fixtureService,
		syncTargets:    syncTargets,
		syncWorkers:    syncWorkers,
		logger:         logger,
		validator:      validator.New(),
	}
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

type runFixtureSyncRequest struct {
	Season string `json:"season" validate:"omitempty,numeric"`
	League string `json:"league" validate:"omitempty,numeric"`
}

type syncRunDTO struct {
	Season   string `json:"season"`
	League   string `json:"league"`
	Fetched  int    `json:"fetched"`
	Inserted int    `json:"inserted"`
	Skipped  int    `json:"skipped"`
	Failed   int    `json:"failed"`
}

type runFixtureSyncResponse struct {
	Runs []syncRunDTO `json:"runs"`
}

// RunFixtureSyncJob triggers a fixture pull. Without a body it syncs every
// configured target; a body narrows the run to one season and league.
func (h *Handler) RunFixtureSyncJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunFixtureSyncJob")
	defer span.End()

	if h.syncService == nil {
		writeError(ctx, w, fmt.Errorf("%w: sync service is not configured", usecase.ErrStoreUnavailable))
		return
	}

	req, err := decodeRunFixtureSyncRequest(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	targets, err := h.resolveSyncTargets(req)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	started := time.Now()
	results, err := h.syncService.RunAll(ctx, targets, h.syncWorkers)
	if err != nil {
		h.logger.WarnContext(ctx, "run fixture sync job failed", "season", req.Season, "league", req.League, "error", err)
		writeError(ctx, w, err)
		return
	}

	resp := runFixtureSyncResponse{Runs: make([]syncRunDTO, 0, len(results))}
	for _, result := range results {
		if result.Err != nil {
			h.logger.WarnContext(ctx, "fixture sync run aborted",
				"season", result.Summary.Season,
				"league", result.Summary.League,
				"error", result.Err,
			)
			writeError(ctx, w, result.Err)
			return
		}
		resp.Runs = append(resp.Runs, syncRunDTO{
			Season:   result.Summary.Season,
			League:   result.Summary.League,
			Fetched:  result.Summary.Fetched,
			Inserted: result.Summary.Inserted,
			Skipped:  result.Summary.Skipped,
			Failed:   result.Summary.Failed,
		})
	}

	h.logger.InfoContext(ctx, "fixture sync job finished",
		"targets", len(targets),
		"duration_ms", time.Since(started).Milliseconds(),
	)
	writeSuccess(ctx, w, http.StatusOK, resp)
}

func decodeRunFixtureSyncRequest(r *http.Request) (runFixtureSyncRequest, error) {
	decoder := jsoniter.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	var req runFixtureSyncRequest
	if err := decoder.Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			return runFixtureSyncRequest{}, nil
		}
		return runFixtureSyncRequest{}, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}

	return req, nil
}

func (h *Handler) resolveSyncTargets(req runFixtureSyncRequest) ([]usecase.SyncTarget, error) {
	if req.Season == "" && req.League == "" {
		return h.syncTargets, nil
	}
	if req.Season == "" || req.League == "" {
		return nil, fmt.Errorf("%w: season and league must be provided together", usecase.ErrInvalidInput)
	}
	return []usecase.SyncTarget{{Season: req.Season, League: req.League}}, nil
}
