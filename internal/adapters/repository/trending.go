package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/xkazm04/nenet/internal/domain/model"
)

type trendingRow struct {
	ItemID          uuid.UUID       `db:"item_id"`
	Name            string          `db:"name"`
	Category        string          `db:"category"`
	Subcategory     string          `db:"subcategory"`
	ViewCount       int64           `db:"view_count"`
	SelectionCount  int64           `db:"selection_count"`
	ListAppearances int             `db:"list_appearances"`
	RecentVotes     int             `db:"recent_votes"`
	AverageRank     sql.NullFloat64 `db:"average_rank"`
}

func (r trendingRow) toModel() model.TrendingItem {
	return model.TrendingItem{
		ItemID:          r.ItemID,
		Name:            r.Name,
		Category:        model.Category(r.Category),
		Subcategory:     r.Subcategory,
		ViewCount:       r.ViewCount,
		SelectionCount:  r.SelectionCount,
		ListAppearances: r.ListAppearances,
		RecentVotes:     r.RecentVotes,
		AverageRank:     floatPtr(r.AverageRank),
	}
}

// TrendingAggregates returns one unordered row per item that currently
// appears in a list or collected a vote inside the window. Items with
// neither are left out rather than padding the feed.
func (s *SQLiteStore) TrendingAggregates(ctx context.Context, window time.Duration) ([]model.TrendingItem, error) {
	defer observeQuery(time.Now())

	cutoff := now().Add(-window)

	var rows []trendingRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT i.id AS item_id, i.name, i.category, i.subcategory,
		       i.view_count, i.selection_count,
		       COUNT(DISTINCT m.list_id) AS list_appearances,
		       (SELECT COUNT(*) FROM votes v
		        WHERE v.item_id = i.id AND v.created_at >= ?) AS recent_votes,
		       ROUND(AVG(m.ranking), 2) AS average_rank
		FROM items i
		LEFT JOIN list_members m ON m.item_id = i.id
		GROUP BY i.id
		HAVING list_appearances > 0 OR recent_votes > 0`,
		cutoff)
	if err != nil {
		return nil, fmt.Errorf("select trending aggregates: %w", err)
	}

	items := make([]model.TrendingItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toModel())
	}
	return items, nil
}
