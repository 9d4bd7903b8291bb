package model

import (
	"time"

	"github.com/google/uuid"
)

// ItemStatistics aggregates an item's standing across every list it
// appears in. Rank-derived fields are nil when the item has no
// appearances; averages and variance are rounded to two decimals.
type ItemStatistics struct {
	ItemID           uuid.UUID `json:"item_id"`
	TotalAppearances int       `json:"total_appearances"`
	AverageRank      *float64  `json:"average_rank,omitempty"`
	BestRank         *int      `json:"best_rank,omitempty"`
	WorstRank        *int      `json:"worst_rank,omitempty"`
	RankVariance     *float64  `json:"rank_variance,omitempty"`
	Top10Count       int       `json:"top10_count"`
	Top3Count        int       `json:"top3_count"`
	FirstPlaceCount  int       `json:"first_place_count"`
	LastCalculated   time.Time `json:"last_calculated"`
}
