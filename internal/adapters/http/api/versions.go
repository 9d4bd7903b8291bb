// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/xkazm04/nenet/internal/domain/model"
)

// VersionDependencies defines the interface for list snapshot operations.
type VersionDependencies interface {
	CreateSnapshot(ctx context.Context, listID uuid.UUID, authorID *uuid.UUID, description string) (model.ListVersion, error)
	GetVersion(ctx context.Context, listID uuid.UUID, version int) (model.ListVersion, error)
	ListVersions(ctx context.Context, listID uuid.UUID) ([]model.ListVersion, error)
}

// VersionsHandler handles list version requests.
type VersionsHandler struct {
	deps VersionDependencies
}

// NewVersionsHandler creates a new versions handler.
func NewVersionsHandler(deps VersionDependencies) *VersionsHandler {
	return &VersionsHandler{deps: deps}
}

// createSnapshotRequest mirrors the OpenAPI schema for POST /lists/{id}/versions.
type createSnapshotRequest struct {
	AuthorID    *uuid.UUID `json:"author_id"`
	Description string     `json:"description"`
}

// versionResponse is a list version with the snapshot payload inlined as
// JSON rather than base64-encoded bytes.
type versionResponse struct {
	ListID      uuid.UUID       `json:"list_id"`
	Version     int             `json:"version"`
	Description string          `json:"description,omitempty"`
	AuthorID    *uuid.UUID      `json:"author_id,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	Snapshot    json.RawMessage `json:"snapshot,omitempty"`
}

func toVersionResponse(v model.ListVersion) versionResponse {
	return versionResponse{
		ListID:      v.ListID,
		Version:     v.Version,
		Description: v.Description,
		AuthorID:    v.AuthorID,
		CreatedAt:   v.CreatedAt,
		Snapshot:    json.RawMessage(v.Snapshot),
	}
}

// HandleCreateSnapshot handles POST /lists/{id}/versions requests. The body
// is optional; an empty body snapshots with no author or description.
func (h *VersionsHandler) HandleCreateSnapshot(w http.ResponseWriter, r *http.Request) {
	const op = "api.create_snapshot"
	listID, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err)
		return
	}
	var req createSnapshotRequest
	if r.ContentLength != 0 {
		if err := decodeBody(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, codeBadRequest, err)
			return
		}
	}
	v, err := h.deps.CreateSnapshot(r.Context(), listID, req.AuthorID, req.Description)
	if err != nil {
		writeDomainError(w, op, err)
		return
	}
	writeJSON(w, http.StatusCreated, toVersionResponse(v))
}

// HandleListVersions handles GET /lists/{id}/versions requests. Returns
// metadata only, newest first; fetch one version for the full snapshot.
func (h *VersionsHandler) HandleListVersions(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_versions"
	listID, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err)
		return
	}
	versions, err := h.deps.ListVersions(r.Context(), listID)
	if err != nil {
		writeDomainError(w, op, err)
		return
	}
	out := make([]versionResponse, len(versions))
	for i, v := range versions {
		out[i] = toVersionResponse(v)
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleGetVersion handles GET /lists/{id}/versions/{version} requests.
func (h *VersionsHandler) HandleGetVersion(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_version"
	listID, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err)
		return
	}
	version, err := strconv.Atoi(r.PathValue("version"))
	if err != nil || version < 1 {
		writeError(w, http.StatusBadRequest, codeBadRequest, NewKind(op, ErrBadRequest))
		return
	}
	v, err := h.deps.GetVersion(r.Context(), listID, version)
	if err != nil {
		writeDomainError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, toVersionResponse(v))
}
