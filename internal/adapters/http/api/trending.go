// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/xkazm04/nenet/internal/domain/model"
)

// TrendingDependencies defines the interface for the trending feed.
type TrendingDependencies interface {
	// Trending returns the cached feed, truncated to limit when positive.
	Trending(ctx context.Context, limit int) model.TrendingFeed

	// RefreshTrending rebuilds the feed over the given window; a
	// non-positive window selects the configured default.
	RefreshTrending(ctx context.Context, window time.Duration) (model.TrendingFeed, error)
}

// TrendingHandler handles trending feed requests.
type TrendingHandler struct {
	deps     TrendingDependencies
	maxLimit int
}

// NewTrendingHandler creates a new trending handler.
func NewTrendingHandler(deps TrendingDependencies, maxLimit int) *TrendingHandler {
	return &TrendingHandler{deps: deps, maxLimit: maxLimit}
}

// refreshTrendingRequest mirrors the OpenAPI schema for POST /trending/refresh.
type refreshTrendingRequest struct {
	WindowDays int `json:"window_days"`
}

// HandleGetTrending handles GET /trending?limit=N requests. Reads are served
// from the cache built by the last refresh and never touch the store.
func (h *TrendingHandler) HandleGetTrending(w http.ResponseWriter, r *http.Request) {
	limit, err := queryLimit(r, h.maxLimit)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeLimitExceeded, err)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Trending(r.Context(), limit))
}

// HandleRefresh handles POST /trending/refresh requests. The body is
// optional; window_days 0 selects the configured default window.
func (h *TrendingHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	const op = "api.refresh_trending"
	var req refreshTrendingRequest
	if r.ContentLength != 0 {
		if err := decodeBody(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, codeBadRequest, err)
			return
		}
	}
	if req.WindowDays < 0 {
		writeError(w, http.StatusBadRequest, codeBadRequest, NewKind(op, ErrBadRequest))
		return
	}
	feed, err := h.deps.RefreshTrending(r.Context(), time.Duration(req.WindowDays)*24*time.Hour)
	if err != nil {
		writeDomainError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, feed)
}
