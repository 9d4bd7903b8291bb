// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/xkazm04/nenet/internal/domain/model"
)

// ItemDependencies defines the interface for catalog item operations.
type ItemDependencies interface {
	CreateItem(ctx context.Context, item *model.Item) error
	GetItem(ctx context.Context, id uuid.UUID) (model.Item, error)
	ListItems(ctx context.Context, category, subcategory string, limit int) ([]model.Item, error)
	DeleteItem(ctx context.Context, id uuid.UUID) error
	RecordView(ctx context.Context, id uuid.UUID) error
	RecordSelection(ctx context.Context, id uuid.UUID) error
	AddAccolade(ctx context.Context, accolade *model.Accolade) error
	ListAccolades(ctx context.Context, itemID uuid.UUID) ([]model.Accolade, error)
}

// ItemsHandler handles catalog item requests.
type ItemsHandler struct {
	deps     ItemDependencies
	maxLimit int
}

// NewItemsHandler creates a new items handler.
func NewItemsHandler(deps ItemDependencies, maxLimit int) *ItemsHandler {
	return &ItemsHandler{deps: deps, maxLimit: maxLimit}
}

// createItemRequest mirrors the OpenAPI schema for POST /items.
type createItemRequest struct {
	Name         string `json:"name"`
	Category     string `json:"category"`
	Subcategory  string `json:"subcategory"`
	Description  string `json:"description"`
	ReferenceURL string `json:"reference_url"`
	ImageURL     string `json:"image_url"`
	YearFrom     *int   `json:"year_from"`
	YearTo       *int   `json:"year_to"`
}

// addAccoladeRequest mirrors the OpenAPI schema for POST /items/{id}/accolades.
type addAccoladeRequest struct {
	Type  string `json:"type"`
	Name  string `json:"name"`
	Value string `json:"value"`
}

// HandleCreateItem handles POST /items requests.
func (h *ItemsHandler) HandleCreateItem(w http.ResponseWriter, r *http.Request) {
	const op = "api.create_item"
	var req createItemRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err)
		return
	}
	item := model.Item{
		Name:         req.Name,
		Category:     model.Category(req.Category),
		Subcategory:  req.Subcategory,
		Description:  req.Description,
		ReferenceURL: req.ReferenceURL,
		ImageURL:     req.ImageURL,
		YearFrom:     req.YearFrom,
		YearTo:       req.YearTo,
	}
	if err := h.deps.CreateItem(r.Context(), &item); err != nil {
		writeDomainError(w, op, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

// HandleGetItem handles GET /items/{id} requests.
func (h *ItemsHandler) HandleGetItem(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_item"
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err)
		return
	}
	item, err := h.deps.GetItem(r.Context(), id)
	if err != nil {
		writeDomainError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// HandleListItems handles GET /items?category=&subcategory=&limit= requests.
func (h *ItemsHandler) HandleListItems(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_items"
	limit, err := queryLimit(r, h.maxLimit)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeLimitExceeded, err)
		return
	}
	items, err := h.deps.ListItems(r.Context(), r.URL.Query().Get("category"), r.URL.Query().Get("subcategory"), limit)
	if err != nil {
		writeDomainError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// HandleDeleteItem handles DELETE /items/{id} requests.
func (h *ItemsHandler) HandleDeleteItem(w http.ResponseWriter, r *http.Request) {
	const op = "api.delete_item"
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err)
		return
	}
	if err := h.deps.DeleteItem(r.Context(), id); err != nil {
		writeDomainError(w, op, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleAddAccolade handles POST /items/{id}/accolades requests.
func (h *ItemsHandler) HandleAddAccolade(w http.ResponseWriter, r *http.Request) {
	const op = "api.add_accolade"
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err)
		return
	}
	var req addAccoladeRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err)
		return
	}
	accolade := model.Accolade{
		ItemID: id,
		Type:   model.AccoladeType(req.Type),
		Name:   req.Name,
		Value:  req.Value,
	}
	if err := h.deps.AddAccolade(r.Context(), &accolade); err != nil {
		writeDomainError(w, op, err)
		return
	}
	writeJSON(w, http.StatusCreated, accolade)
}

// HandleListAccolades handles GET /items/{id}/accolades requests.
func (h *ItemsHandler) HandleListAccolades(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_accolades"
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err)
		return
	}
	accolades, err := h.deps.ListAccolades(r.Context(), id)
	if err != nil {
		writeDomainError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, accolades)
}

// HandleRecordView handles POST /items/{id}/views requests.
func (h *ItemsHandler) HandleRecordView(w http.ResponseWriter, r *http.Request) {
	const op = "api.record_view"
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err)
		return
	}
	if err := h.deps.RecordView(r.Context(), id); err != nil {
		writeDomainError(w, op, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleRecordSelection handles POST /items/{id}/selections requests.
func (h *ItemsHandler) HandleRecordSelection(w http.ResponseWriter, r *http.Request) {
	const op = "api.record_selection"
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err)
		return
	}
	if err := h.deps.RecordSelection(r.Context(), id); err != nil {
		writeDomainError(w, op, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
