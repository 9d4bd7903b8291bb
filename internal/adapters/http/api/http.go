// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/xkazm04/nenet/internal/adapters/repository"
	"github.com/xkazm04/nenet/internal/validation"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	ItemDependencies
	ListDependencies
	MemberDependencies
	VersionDependencies
	VoteDependencies
	StatisticsDependencies
	TrendingDependencies
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler     *HealthHandler
	statsHandler      *StatsHandler
	itemsHandler      *ItemsHandler
	listsHandler      *ListsHandler
	membersHandler    *MembersHandler
	versionsHandler   *VersionsHandler
	votesHandler      *VotesHandler
	statisticsHandler *StatisticsHandler
	trendingHandler   *TrendingHandler
	dashboardHandler  *dashboardHandler
}

// NewServer creates a new API server with all handlers. maxLimit caps the
// ?limit query parameter on collection reads.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxLimit int) *Server {
	return &Server{
		healthHandler:     NewHealthHandler(),
		statsHandler:      NewStatsHandler(statsProvider),
		itemsHandler:      NewItemsHandler(deps, maxLimit),
		listsHandler:      NewListsHandler(deps, maxLimit),
		membersHandler:    NewMembersHandler(deps),
		versionsHandler:   NewVersionsHandler(deps),
		votesHandler:      NewVotesHandler(deps),
		statisticsHandler: NewStatisticsHandler(deps),
		trendingHandler:   NewTrendingHandler(deps, maxLimit),
		dashboardHandler:  newDashboardHandler(),
	}
}

// Register attaches all HTTP routes to mux. Patterns carry the method so
// the mux rejects mismatched verbs with 405 before any handler runs.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /dashboard", s.dashboardHandler.HandleDashboard)
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	mux.HandleFunc("POST /items", MetricsMiddleware(s.itemsHandler.HandleCreateItem, "items"))
	mux.HandleFunc("GET /items", MetricsMiddleware(s.itemsHandler.HandleListItems, "items"))
	mux.HandleFunc("GET /items/{id}", MetricsMiddleware(s.itemsHandler.HandleGetItem, "items"))
	mux.HandleFunc("DELETE /items/{id}", MetricsMiddleware(s.itemsHandler.HandleDeleteItem, "items"))
	mux.HandleFunc("POST /items/{id}/accolades", MetricsMiddleware(s.itemsHandler.HandleAddAccolade, "accolades"))
	mux.HandleFunc("GET /items/{id}/accolades", MetricsMiddleware(s.itemsHandler.HandleListAccolades, "accolades"))
	mux.HandleFunc("POST /items/{id}/views", MetricsMiddleware(s.itemsHandler.HandleRecordView, "views"))
	mux.HandleFunc("POST /items/{id}/selections", MetricsMiddleware(s.itemsHandler.HandleRecordSelection, "selections"))
	mux.HandleFunc("GET /items/{id}/statistics", MetricsMiddleware(s.statisticsHandler.HandleGetStatistics, "statistics"))
	mux.HandleFunc("POST /items/{id}/statistics/recompute", MetricsMiddleware(s.statisticsHandler.HandleRecompute, "statistics"))

	mux.HandleFunc("POST /lists", MetricsMiddleware(s.listsHandler.HandleCreateList, "lists"))
	mux.HandleFunc("GET /lists", MetricsMiddleware(s.listsHandler.HandleListLists, "lists"))
	mux.HandleFunc("GET /lists/{id}", MetricsMiddleware(s.listsHandler.HandleGetList, "lists"))
	mux.HandleFunc("DELETE /lists/{id}", MetricsMiddleware(s.listsHandler.HandleDeleteList, "lists"))
	mux.HandleFunc("GET /lists/{id}/members", MetricsMiddleware(s.membersHandler.HandleListMembers, "members"))
	mux.HandleFunc("POST /lists/{id}/members", MetricsMiddleware(s.membersHandler.HandleAddMember, "members"))
	mux.HandleFunc("PATCH /lists/{id}/members/{itemID}", MetricsMiddleware(s.membersHandler.HandleUpdateRank, "members"))
	mux.HandleFunc("DELETE /lists/{id}/members/{itemID}", MetricsMiddleware(s.membersHandler.HandleRemoveMember, "members"))
	mux.HandleFunc("POST /lists/{id}/compact", MetricsMiddleware(s.membersHandler.HandleCompact, "members"))
	mux.HandleFunc("POST /lists/{id}/versions", MetricsMiddleware(s.versionsHandler.HandleCreateSnapshot, "versions"))
	mux.HandleFunc("GET /lists/{id}/versions", MetricsMiddleware(s.versionsHandler.HandleListVersions, "versions"))
	mux.HandleFunc("GET /lists/{id}/versions/{version}", MetricsMiddleware(s.versionsHandler.HandleGetVersion, "versions"))

	mux.HandleFunc("POST /votes", MetricsMiddleware(s.votesHandler.HandleCastVote, "votes"))
	mux.HandleFunc("DELETE /votes", MetricsMiddleware(s.votesHandler.HandleRemoveVote, "votes"))

	mux.HandleFunc("GET /trending", MetricsMiddleware(s.trendingHandler.HandleGetTrending, "trending"))
	mux.HandleFunc("POST /trending/refresh", MetricsMiddleware(s.trendingHandler.HandleRefresh, "trending"))
}

// Error response codes returned in the body alongside the HTTP status.
const (
	codeNotFound       = "not_found"
	codeBadRequest     = "bad_request"
	codeLimitExceeded  = "limit_exceeded"
	codeDuplicate      = "duplicate_membership"
	codeRankOutOfRange = "rank_out_of_range"
	codeCapacity       = "capacity_exceeded"
	codeValidation     = "validation_failed"
	codeConflict       = "conflict"
	codeInternal       = "internal_error"
)

type errorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg, Retryable: code == codeConflict})
}

// writeDomainError translates an upstream error into the API error contract.
func writeDomainError(w http.ResponseWriter, op string, err error) {
	status, code := statusFor(err)
	writeError(w, status, code, Wrap(op, err))
}

// statusFor maps domain error kinds onto HTTP status codes and body codes.
// A conflict is the only retryable kind: the mutation had no effect and the
// caller may repeat it verbatim.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, repository.ErrItemNotFound),
		errors.Is(err, repository.ErrListNotFound),
		errors.Is(err, repository.ErrMembershipNotFound),
		errors.Is(err, repository.ErrVersionNotFound),
		errors.Is(err, repository.ErrVoteNotFound),
		errors.Is(err, repository.ErrStatisticsNotFound):
		return http.StatusNotFound, codeNotFound
	case errors.Is(err, repository.ErrDuplicateMembership):
		return http.StatusConflict, codeDuplicate
	case errors.Is(err, repository.ErrConflict):
		return http.StatusConflict, codeConflict
	case errors.Is(err, repository.ErrRankOutOfRange):
		return http.StatusBadRequest, codeRankOutOfRange
	case errors.Is(err, repository.ErrCapacityExceeded):
		return http.StatusBadRequest, codeCapacity
	case errors.Is(err, validation.ErrYearRange):
		return http.StatusBadRequest, codeValidation
	}
	var verrs *validation.Errors
	if errors.As(err, &verrs) {
		return http.StatusBadRequest, codeValidation
	}
	return http.StatusInternalServerError, codeInternal
}

