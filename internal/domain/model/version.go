package model

import (
	"time"

	"github.com/google/uuid"
)

// ListVersion is an immutable point-in-time snapshot of a list.
// Versions are numbered from 1 and strictly increase per list; rows are
// never updated or deleted.
type ListVersion struct {
	ListID      uuid.UUID  `json:"list_id"`
	Version     int        `json:"version"`
	Snapshot    []byte     `json:"snapshot,omitempty"`
	Description string     `json:"description,omitempty" validate:"max=500"`
	AuthorID    *uuid.UUID `json:"author_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// SnapshotDocument is the decoded snapshot payload.
type SnapshotDocument struct {
	ListMetadata SnapshotListMetadata `json:"list_metadata"`
	Members      []SnapshotMember     `json:"members"`
}

// SnapshotListMetadata captures the list header at snapshot time.
type SnapshotListMetadata struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Category    Category   `json:"category"`
	Subcategory string     `json:"subcategory"`
	OwnerID     *uuid.UUID `json:"owner_id,omitempty"`
	MaxSize     int        `json:"max_size"`
	MemberCount int        `json:"member_count"`
	TakenAt     time.Time  `json:"taken_at"`
}

// SnapshotMember is one ranked entry in a snapshot, with the item's
// accolades as they stood at snapshot time.
type SnapshotMember struct {
	Rank      int        `json:"rank"`
	Item      Item       `json:"item"`
	Accolades []Accolade `json:"accolades"`
}
