package httpapi

import (
	"encoding/json"
	"net/http"
	"time"
)

type fixtureDTO struct {
	ID        string          `json:"id"`
	MatchID   string          `json:"match_id"`
	SportType string          `json:"sport_type"`
	Status    string          `json:"status"`
	DateTime  *time.Time      `json:"date_time,omitempty"`
	Processed bool            `json:"processed"`
	Data      json.RawMessage `json:"fixture_data"`
}

func (h *Handler) ListFixturesBySport(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListFixturesBySport")
	defer span.End()

	sportType := r.PathValue("sportType")

	fixtures, err := h.fixtureService.ListBySport(ctx, sportType)
	if err != nil {
		h.logger.WarnContext(ctx, "list fixtures by sport failed", "sport_type", sportType, "error", err)
		writeError(ctx, w, err)
		return
	}

	dtos := make([]fixtureDTO, 0, len(fixtures))
	for _, fx := range fixtures {
		dtos = append(dtos, fixtureDTO{
			ID:        fx.ID,
			MatchID:   fx.MatchID,
			SportType: fx.SportType,
			Status:    fx.Status,
			DateTime:  fx.DateTime,
			Processed: fx.Processed,
			Data:      json.RawMessage(fx.Data),
		})
	}

	writeSuccess(ctx, w, http.StatusOK, dtos)
}
