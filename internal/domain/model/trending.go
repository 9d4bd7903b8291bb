package model

import (
	"time"

	"github.com/google/uuid"
)

// TrendingItem is one entry of the derived trending feed. Entries are
// ephemeral: the feed is rebuilt wholesale on every refresh and never
// persisted.
type TrendingItem struct {
	ItemID          uuid.UUID `json:"item_id"`
	Name            string    `json:"name"`
	Category        Category  `json:"category"`
	Subcategory     string    `json:"subcategory"`
	ViewCount       int64     `json:"view_count"`
	SelectionCount  int64     `json:"selection_count"`
	ListAppearances int       `json:"list_appearances"`
	RecentVotes     int       `json:"recent_votes"`
	AverageRank     *float64  `json:"average_rank,omitempty"`
}

// TrendingFeed is the published result of one trending refresh.
type TrendingFeed struct {
	Items       []TrendingItem `json:"items"`
	Window      time.Duration  `json:"-"`
	GeneratedAt time.Time      `json:"generated_at"`
}
