package model

import (
	"time"

	"github.com/google/uuid"
)

// Vote is one user's up or down vote on an item within a list.
// At most one vote exists per (user, list, item); re-casting replaces the
// value.
type Vote struct {
	UserID    uuid.UUID `json:"user_id" validate:"required"`
	ListID    uuid.UUID `json:"list_id" validate:"required"`
	ItemID    uuid.UUID `json:"item_id" validate:"required"`
	Value     int       `json:"value" validate:"required,oneof=-1 1"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
