package seedtool

import (
	"context"
	"crypto/rand"
	"math/big"
	"strconv"

	"github.com/xkazm04/nenet/pkg/logger"
)

// Constants for random generation.
const (
	randomFloatDivisor = 1000000
	minListCapacity    = 5
	listCapacityRange  = 16 // capacities land in [5, 20]
	minYear            = 1960
	yearRange          = 60
	maxEraSpan         = 10
)

// Catalog vocabulary the generator draws from. Categories match the
// engine's closed set; subcategories and name stems keep the data readable
// in dashboards and logs.
var (
	categories = []string{"music", "sports", "games"}

	subcategories = map[string][]string{
		"music":  {"rock", "jazz", "hip-hop", "electronic", "classical"},
		"sports": {"football", "basketball", "tennis", "hockey", "athletics"},
		"games":  {"rpg", "strategy", "platformer", "shooter", "puzzle"},
	}

	nameStems = map[string][]string{
		"music":  {"Album", "Record", "Session", "Symphony", "Mixtape"},
		"sports": {"Player", "Striker", "Keeper", "Champion", "Rookie"},
		"games":  {"Quest", "Saga", "Chronicles", "Legends", "Arena"},
	}

	listTitleStems = []string{"Top Picks", "All-Time Greats", "Editors' Choice", "Community Favorites", "Hall of Fame"}
)

// getRandomFloat returns a random float64 between 0.0 and 1.0 using crypto/rand.
func getRandomFloat() float64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(randomFloatDivisor))
	return float64(n.Int64()) / float64(randomFloatDivisor)
}

// randomIndex returns a random index in [0, n) using crypto/rand.
func randomIndex(n int) int {
	if n <= 0 {
		return 0
	}
	v, _ := rand.Int(rand.Reader, big.NewInt(int64(n)))
	return int(v.Int64())
}

// generateItems creates the specified number of catalog items spread across
// the supported categories.
func generateItems(ctx context.Context, config *Config) []Item {
	logger.Get().Info(ctx, "generating catalog items", logger.Int("numItems", config.NumItems))

	items := make([]Item, config.NumItems)
	for i := 0; i < config.NumItems; i++ {
		items[i] = generateSingleItem(i)
	}

	logger.Get().Info(ctx, "generated items successfully", logger.Int("count", len(items)))
	return items
}

// generateSingleItem creates one item with a plausible category, name and
// era. Roughly half of the items carry a year range.
func generateSingleItem(index int) Item {
	category := categories[randomIndex(len(categories))]
	subs := subcategories[category]
	stems := nameStems[category]

	item := Item{
		Name:        stems[randomIndex(len(stems))] + " #" + strconv.Itoa(index+1),
		Category:    category,
		Subcategory: subs[randomIndex(len(subs))],
		Description: "seeded " + category + " item",
	}

	// Half of the catalog gets an era so the year-range validation path is
	// exercised too.
	if getRandomFloat() < 0.5 {
		from := minYear + randomIndex(yearRange)
		to := from + randomIndex(maxEraSpan)
		item.YearFrom = &from
		item.YearTo = &to
	}

	return item
}

// generateLists creates the specified number of ranked lists. Every list
// gets a category so it can be filled with matching items.
func generateLists(ctx context.Context, config *Config) []List {
	logger.Get().Info(ctx, "generating ranked lists", logger.Int("numLists", config.NumLists))

	lists := make([]List, config.NumLists)
	for i := 0; i < config.NumLists; i++ {
		category := categories[i%len(categories)]
		subs := subcategories[category]
		lists[i] = List{
			Title:       listTitleStems[randomIndex(len(listTitleStems))] + " " + strconv.Itoa(i+1),
			Category:    category,
			Subcategory: subs[randomIndex(len(subs))],
			MaxSize:     minListCapacity + randomIndex(listCapacityRange),
		}
	}

	logger.Get().Info(ctx, "generated lists successfully", logger.Int("count", len(lists)))
	return lists
}
