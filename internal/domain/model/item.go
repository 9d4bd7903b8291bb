// Package model contains domain records passed between layers.
package model

import (
	"time"

	"github.com/google/uuid"
)

// Category is the closed set of catalog categories.
type Category string

// Supported categories.
const (
	CategoryMusic  Category = "music"
	CategorySports Category = "sports"
	CategoryGames  Category = "games"
)

// AccoladeType classifies an accolade attached to an item.
type AccoladeType string

// Supported accolade types.
const (
	AccoladeAward             AccoladeType = "award"
	AccoladeAchievement       AccoladeType = "achievement"
	AccoladeRecord            AccoladeType = "record"
	AccoladeChampionship      AccoladeType = "championship"
	AccoladeCertification     AccoladeType = "certification"
	AccoladeChartPosition     AccoladeType = "chart_position"
	AccoladeGOTY              AccoladeType = "goty"
	AccoladeMetacriticUsers   AccoladeType = "metacritic_users"
	AccoladeMetacriticCritics AccoladeType = "metacritic_critics"
	AccoladeHonor             AccoladeType = "honor"
	AccoladeNomination        AccoladeType = "nomination"
)

// Item is a rankable catalog entry (an album, a player, a game, ...).
type Item struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name" validate:"required,min=1,max=255"`
	Category     Category  `json:"category" validate:"required,oneof=music sports games"`
	Subcategory  string    `json:"subcategory" validate:"required,min=1,max=100"`
	Description  string    `json:"description,omitempty" validate:"max=2000"`
	ReferenceURL string    `json:"reference_url,omitempty" validate:"omitempty,url,max=500"`
	ImageURL     string    `json:"image_url,omitempty" validate:"omitempty,url,max=500"`
	// YearFrom/YearTo bound the item's era; YearTo must not precede YearFrom.
	YearFrom       *int      `json:"year_from,omitempty" validate:"omitempty,min=1,max=9999"`
	YearTo         *int      `json:"year_to,omitempty" validate:"omitempty,min=1,max=9999"`
	ViewCount      int64     `json:"view_count"`
	SelectionCount int64     `json:"selection_count"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// YearRangeValid reports whether the era bounds are ordered. Unset bounds
// are always valid; the cross-field rule applies only when both are present.
func (i Item) YearRangeValid() bool {
	if i.YearFrom == nil || i.YearTo == nil {
		return true
	}
	return *i.YearTo >= *i.YearFrom
}

// Accolade is a notable recognition attached to an item.
type Accolade struct {
	ID        uuid.UUID    `json:"id"`
	ItemID    uuid.UUID    `json:"item_id" validate:"required"`
	Type      AccoladeType `json:"type" validate:"required,oneof=award achievement record championship certification chart_position goty metacritic_users metacritic_critics honor nomination"`
	Name      string       `json:"name" validate:"required,min=1,max=255"`
	Value     string       `json:"value,omitempty" validate:"max=255"`
	CreatedAt time.Time    `json:"created_at"`
}
