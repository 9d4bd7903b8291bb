// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/xkazm04/nenet/internal/domain/model"
)

// MemberDependencies defines the interface for membership mutations.
type MemberDependencies interface {
	AddMember(ctx context.Context, listID, itemID uuid.UUID, rank int) (model.Membership, error)
	UpdateRank(ctx context.Context, listID, itemID uuid.UUID, newRank int) (model.Membership, error)
	RemoveMember(ctx context.Context, listID, itemID uuid.UUID) error
	ListMembers(ctx context.Context, listID uuid.UUID) ([]model.Member, error)
	CompactRanks(ctx context.Context, listID uuid.UUID) (int, error)
}

// MembersHandler handles list membership requests.
type MembersHandler struct {
	deps MemberDependencies
}

// NewMembersHandler creates a new members handler.
func NewMembersHandler(deps MemberDependencies) *MembersHandler {
	return &MembersHandler{deps: deps}
}

// addMemberRequest mirrors the OpenAPI schema for POST /lists/{id}/members.
type addMemberRequest struct {
	ItemID uuid.UUID `json:"item_id"`
	Rank   int       `json:"rank"`
}

// updateRankRequest mirrors the OpenAPI schema for PATCH /lists/{id}/members/{itemID}.
type updateRankRequest struct {
	Rank int `json:"rank"`
}

// compactResponse reports how many members a compaction renumbered.
type compactResponse struct {
	Changed int `json:"changed"`
}

// HandleListMembers handles GET /lists/{id}/members requests. Members come
// back in rank order; gaps left by removals and demotions are visible.
func (h *MembersHandler) HandleListMembers(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_members"
	listID, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err)
		return
	}
	members, err := h.deps.ListMembers(r.Context(), listID)
	if err != nil {
		writeDomainError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, members)
}

// HandleAddMember handles POST /lists/{id}/members requests. Inserting at
// an occupied rank pushes that member and everyone below it down one place.
func (h *MembersHandler) HandleAddMember(w http.ResponseWriter, r *http.Request) {
	const op = "api.add_member"
	listID, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err)
		return
	}
	var req addMemberRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err)
		return
	}
	if req.ItemID == uuid.Nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, NewKind(op, ErrBadRequest))
		return
	}
	m, err := h.deps.AddMember(r.Context(), listID, req.ItemID, req.Rank)
	if err != nil {
		writeDomainError(w, op, err)
		return
	}
	writeJSON(w, http.StatusCreated, m)
}

// HandleUpdateRank handles PATCH /lists/{id}/members/{itemID} requests.
func (h *MembersHandler) HandleUpdateRank(w http.ResponseWriter, r *http.Request) {
	const op = "api.update_rank"
	listID, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err)
		return
	}
	itemID, err := pathUUID(r, "itemID")
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err)
		return
	}
	var req updateRankRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err)
		return
	}
	m, err := h.deps.UpdateRank(r.Context(), listID, itemID, req.Rank)
	if err != nil {
		writeDomainError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// HandleRemoveMember handles DELETE /lists/{id}/members/{itemID} requests.
// The vacated rank stays empty until a compaction runs.
func (h *MembersHandler) HandleRemoveMember(w http.ResponseWriter, r *http.Request) {
	const op = "api.remove_member"
	listID, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err)
		return
	}
	itemID, err := pathUUID(r, "itemID")
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err)
		return
	}
	if err := h.deps.RemoveMember(r.Context(), listID, itemID); err != nil {
		writeDomainError(w, op, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleCompact handles POST /lists/{id}/compact requests, renumbering the
// list to dense 1..n ranks.
func (h *MembersHandler) HandleCompact(w http.ResponseWriter, r *http.Request) {
	const op = "api.compact"
	listID, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err)
		return
	}
	changed, err := h.deps.CompactRanks(r.Context(), listID)
	if err != nil {
		writeDomainError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, compactResponse{Changed: changed})
}
