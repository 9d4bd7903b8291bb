// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/xkazm04/nenet/internal/domain/model"
)

// VoteDependencies defines the interface for vote operations.
type VoteDependencies interface {
	CastVote(ctx context.Context, vote *model.Vote) error
	RemoveVote(ctx context.Context, userID, listID, itemID uuid.UUID) error
}

// VotesHandler handles vote requests.
type VotesHandler struct {
	deps VoteDependencies
}

// NewVotesHandler creates a new votes handler.
func NewVotesHandler(deps VoteDependencies) *VotesHandler {
	return &VotesHandler{deps: deps}
}

// castVoteRequest mirrors the OpenAPI schema for POST /votes.
type castVoteRequest struct {
	UserID uuid.UUID `json:"user_id"`
	ListID uuid.UUID `json:"list_id"`
	ItemID uuid.UUID `json:"item_id"`
	Value  int       `json:"value"`
}

// HandleCastVote handles POST /votes requests. Re-casting with the same
// (user, list, item) replaces the previous value.
func (h *VotesHandler) HandleCastVote(w http.ResponseWriter, r *http.Request) {
	const op = "api.cast_vote"
	var req castVoteRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err)
		return
	}
	vote := model.Vote{
		UserID: req.UserID,
		ListID: req.ListID,
		ItemID: req.ItemID,
		Value:  req.Value,
	}
	if err := h.deps.CastVote(r.Context(), &vote); err != nil {
		writeDomainError(w, op, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleRemoveVote handles DELETE /votes?user_id=&list_id=&item_id= requests.
func (h *VotesHandler) HandleRemoveVote(w http.ResponseWriter, r *http.Request) {
	const op = "api.remove_vote"
	userID, err := queryUUID(r, "user_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err)
		return
	}
	listID, err := queryUUID(r, "list_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err)
		return
	}
	itemID, err := queryUUID(r, "item_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err)
		return
	}
	if err := h.deps.RemoveVote(r.Context(), userID, listID, itemID); err != nil {
		writeDomainError(w, op, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
