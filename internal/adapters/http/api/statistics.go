// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/xkazm04/nenet/internal/domain/model"
)

// StatisticsDependencies defines the interface for item statistics reads.
type StatisticsDependencies interface {
	GetStatistics(ctx context.Context, itemID uuid.UUID) (model.ItemStatistics, error)
	RecomputeStatistics(ctx context.Context, itemID uuid.UUID) (model.ItemStatistics, error)
}

// StatisticsHandler handles item statistics requests.
type StatisticsHandler struct {
	deps StatisticsDependencies
}

// NewStatisticsHandler creates a new statistics handler.
func NewStatisticsHandler(deps StatisticsDependencies) *StatisticsHandler {
	return &StatisticsHandler{deps: deps}
}

// HandleGetStatistics handles GET /items/{id}/statistics requests. The row
// may lag recent mutations; recompute synchronously to force freshness.
func (h *StatisticsHandler) HandleGetStatistics(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_statistics"
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err)
		return
	}
	stats, err := h.deps.GetStatistics(r.Context(), id)
	if err != nil {
		writeDomainError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// HandleRecompute handles POST /items/{id}/statistics/recompute requests,
// rebuilding the row inline and returning the fresh aggregates.
func (h *StatisticsHandler) HandleRecompute(w http.ResponseWriter, r *http.Request) {
	const op = "api.recompute_statistics"
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err)
		return
	}
	stats, err := h.deps.RecomputeStatistics(r.Context(), id)
	if err != nil {
		writeDomainError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
