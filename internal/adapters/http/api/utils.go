// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// pathUUID parses the named path parameter as a UUID.
func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		return uuid.Nil, WrapKind("api.path", ErrBadRequest, err)
	}
	return id, nil
}

// queryUUID parses the named query parameter as a UUID.
func queryUUID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(r.URL.Query().Get(name))
	if err != nil {
		return uuid.Nil, WrapKind("api.query", ErrBadRequest, err)
	}
	return id, nil
}

// queryLimit parses the optional ?limit parameter. An absent limit defaults
// to maxLimit; an explicit limit outside [1, maxLimit] is rejected.
func queryLimit(r *http.Request, maxLimit int) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return maxLimit, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, NewKind("api.query", ErrBadRequest)
	}
	if n > maxLimit {
		return 0, NewKind("api.query", ErrBadRequest)
	}
	return n, nil
}

// decodeBody decodes a JSON request body into v.
func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return WrapKind("api.decode", ErrBadRequest, err)
	}
	return nil
}
