// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/xkazm04/nenet/internal/domain/model"
)

// ListDependencies defines the interface for ranked list operations.
type ListDependencies interface {
	CreateList(ctx context.Context, list *model.List) error
	GetList(ctx context.Context, id uuid.UUID) (model.List, error)
	ListLists(ctx context.Context, category string, ownerID *uuid.UUID, limit int) ([]model.List, error)
	DeleteList(ctx context.Context, id uuid.UUID) error
}

// ListsHandler handles ranked list requests.
type ListsHandler struct {
	deps     ListDependencies
	maxLimit int
}

// NewListsHandler creates a new lists handler.
func NewListsHandler(deps ListDependencies, maxLimit int) *ListsHandler {
	return &ListsHandler{deps: deps, maxLimit: maxLimit}
}

// createListRequest mirrors the OpenAPI schema for POST /lists.
type createListRequest struct {
	Title       string     `json:"title"`
	Category    string     `json:"category"`
	Subcategory string     `json:"subcategory"`
	OwnerID     *uuid.UUID `json:"owner_id"`
	MaxSize     int        `json:"max_size"`
	ParentID    *uuid.UUID `json:"parent_id"`
}

// HandleCreateList handles POST /lists requests.
func (h *ListsHandler) HandleCreateList(w http.ResponseWriter, r *http.Request) {
	const op = "api.create_list"
	var req createListRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err)
		return
	}
	list := model.List{
		Title:       req.Title,
		Category:    model.Category(req.Category),
		Subcategory: req.Subcategory,
		OwnerID:     req.OwnerID,
		MaxSize:     req.MaxSize,
		ParentID:    req.ParentID,
	}
	if err := h.deps.CreateList(r.Context(), &list); err != nil {
		writeDomainError(w, op, err)
		return
	}
	writeJSON(w, http.StatusCreated, list)
}

// HandleGetList handles GET /lists/{id} requests.
func (h *ListsHandler) HandleGetList(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_list"
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err)
		return
	}
	list, err := h.deps.GetList(r.Context(), id)
	if err != nil {
		writeDomainError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// HandleListLists handles GET /lists?category=&owner_id=&limit= requests.
func (h *ListsHandler) HandleListLists(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_lists"
	limit, err := queryLimit(r, h.maxLimit)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeLimitExceeded, err)
		return
	}
	var ownerID *uuid.UUID
	if r.URL.Query().Get("owner_id") != "" {
		id, err := queryUUID(r, "owner_id")
		if err != nil {
			writeError(w, http.StatusBadRequest, codeBadRequest, err)
			return
		}
		ownerID = &id
	}
	lists, err := h.deps.ListLists(r.Context(), r.URL.Query().Get("category"), ownerID, limit)
	if err != nil {
		writeDomainError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, lists)
}

// HandleDeleteList handles DELETE /lists/{id} requests. Memberships, votes
// and versions of the list go with it.
func (h *ListsHandler) HandleDeleteList(w http.ResponseWriter, r *http.Request) {
	const op = "api.delete_list"
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err)
		return
	}
	if err := h.deps.DeleteList(r.Context(), id); err != nil {
		writeDomainError(w, op, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
