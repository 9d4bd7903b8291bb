package model

import (
	"time"

	"github.com/google/uuid"
)

// List is a ranked collection of items with a fixed capacity.
// OwnerID is nil for predefined lists; ParentID links a user copy back to
// the predefined list it forked.
type List struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title" validate:"required,min=1,max=255"`
	Category    Category   `json:"category" validate:"required,oneof=music sports games"`
	Subcategory string     `json:"subcategory" validate:"required,min=1,max=100"`
	OwnerID     *uuid.UUID `json:"owner_id,omitempty"`
	MaxSize     int        `json:"max_size" validate:"required,min=1,max=100"`
	ParentID    *uuid.UUID `json:"parent_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Membership places one item at a rank within one list.
// Ranks are 1-based and unique within a list; removals and demotions can
// leave gaps that persist until a compaction runs.
type Membership struct {
	ListID    uuid.UUID `json:"list_id"`
	ItemID    uuid.UUID `json:"item_id"`
	Rank      int       `json:"rank"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Member is a membership joined with its item, as returned by member reads.
type Member struct {
	Rank      int       `json:"rank"`
	Item      Item      `json:"item"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
