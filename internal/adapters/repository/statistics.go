package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/xkazm04/nenet/internal/domain/model"
	"github.com/xkazm04/nenet/pkg/metrics"
)

type statisticsRow struct {
	ItemID           uuid.UUID       `db:"item_id"`
	TotalAppearances int             `db:"total_appearances"`
	AverageRank      sql.NullFloat64 `db:"average_rank"`
	RankVariance     sql.NullFloat64 `db:"rank_variance"`
	BestRank         sql.NullInt64   `db:"best_rank"`
	WorstRank        sql.NullInt64   `db:"worst_rank"`
	Top10Count       int             `db:"top10_count"`
	Top3Count        int             `db:"top3_count"`
	FirstPlaceCount  int             `db:"first_place_count"`
	LastCalculated   time.Time       `db:"last_calculated"`
}

func (r statisticsRow) toModel() model.ItemStatistics {
	return model.ItemStatistics{
		ItemID:           r.ItemID,
		TotalAppearances: r.TotalAppearances,
		AverageRank:      floatPtr(r.AverageRank),
		RankVariance:     floatPtr(r.RankVariance),
		BestRank:         intPtr(r.BestRank),
		WorstRank:        intPtr(r.WorstRank),
		Top10Count:       r.Top10Count,
		Top3Count:        r.Top3Count,
		FirstPlaceCount:  r.FirstPlaceCount,
		LastCalculated:   r.LastCalculated,
	}
}

// ItemRanks returns the item's current rank in every list containing it.
func (s *SQLiteStore) ItemRanks(ctx context.Context, itemID uuid.UUID) ([]int, error) {
	defer observeQuery(time.Now())

	exists, err := itemExists(ctx, s.db, itemID)
	if err != nil {
		return nil, err
	}
	if !exists {
		metrics.RecordErrorByComponent("repository", "not_found")
		return nil, ErrItemNotFound
	}

	var ranks []int
	err = s.db.SelectContext(ctx, &ranks,
		`SELECT ranking FROM list_members WHERE item_id = ?`, itemID)
	if err != nil {
		return nil, fmt.Errorf("select ranks: %w", err)
	}
	return ranks, nil
}

// UpsertStatistics stores the derived statistics row for an item,
// replacing any previous row.
func (s *SQLiteStore) UpsertStatistics(ctx context.Context, stats *model.ItemStatistics) error {
	defer observeQuery(time.Now())

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO item_statistics (item_id, total_appearances, average_rank, rank_variance,
		                             best_rank, worst_rank, top10_count, top3_count,
		                             first_place_count, last_calculated)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(item_id) DO UPDATE SET
		    total_appearances = excluded.total_appearances,
		    average_rank      = excluded.average_rank,
		    rank_variance     = excluded.rank_variance,
		    best_rank         = excluded.best_rank,
		    worst_rank        = excluded.worst_rank,
		    top10_count       = excluded.top10_count,
		    top3_count        = excluded.top3_count,
		    first_place_count = excluded.first_place_count,
		    last_calculated   = excluded.last_calculated`,
		stats.ItemID, stats.TotalAppearances, nullFloat(stats.AverageRank), nullFloat(stats.RankVariance),
		nullInt(stats.BestRank), nullInt(stats.WorstRank), stats.Top10Count, stats.Top3Count,
		stats.FirstPlaceCount, stats.LastCalculated)
	if err != nil {
		return mapSQLiteErr(fmt.Errorf("upsert statistics: %w", err))
	}
	return nil
}

// GetStatistics returns the stored statistics row. An item that exists
// but was never aggregated reports ErrStatisticsNotFound.
func (s *SQLiteStore) GetStatistics(ctx context.Context, itemID uuid.UUID) (model.ItemStatistics, error) {
	defer observeQuery(time.Now())

	exists, err := itemExists(ctx, s.db, itemID)
	if err != nil {
		return model.ItemStatistics{}, err
	}
	if !exists {
		metrics.RecordErrorByComponent("repository", "not_found")
		return model.ItemStatistics{}, ErrItemNotFound
	}

	var row statisticsRow
	err = s.db.GetContext(ctx, &row,
		`SELECT * FROM item_statistics WHERE item_id = ?`, itemID)
	if errors.Is(err, sql.ErrNoRows) {
		metrics.RecordErrorByComponent("repository", "not_found")
		return model.ItemStatistics{}, ErrStatisticsNotFound
	}
	if err != nil {
		return model.ItemStatistics{}, fmt.Errorf("select statistics: %w", err)
	}
	return row.toModel(), nil
}
