// Package trend orders the derived trending feed. The feed itself is
// assembled by persistence; this package owns only the ranking rule.
package trend

import (
	"bytes"
	"sort"

	"github.com/xkazm04/nenet/internal/domain/model"
)

// Order sorts entries in place by trending precedence: recent votes
// descending, then list appearances descending. Remaining ties break on
// item id so repeated refreshes over identical data publish identical
// feeds.
func Order(items []model.TrendingItem) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].RecentVotes != items[j].RecentVotes {
			return items[i].RecentVotes > items[j].RecentVotes
		}
		if items[i].ListAppearances != items[j].ListAppearances {
			return items[i].ListAppearances > items[j].ListAppearances
		}
		return bytes.Compare(items[i].ItemID[:], items[j].ItemID[:]) < 0
	})
}

// Truncate caps the feed at limit entries. A non-positive limit leaves the
// feed untouched.
func Truncate(items []model.TrendingItem, limit int) []model.TrendingItem {
	if limit <= 0 || len(items) <= limit {
		return items
	}
	return items[:limit]
}
