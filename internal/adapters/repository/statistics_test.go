package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/xkazm04/nenet/internal/domain/model"
)

// fillList appends n freshly seeded items to the tail of the list.
func fillList(t *testing.T, store *SQLiteStore, listID uuid.UUID, n int, prefix string) {
	t.Helper()
	for i := 0; i < n; i++ {
		item := seedItem(t, store, fmt.Sprintf("%s-%02d", prefix, i))
		addMember(t, store, listID, item.ID, i+1)
	}
}

func TestSQLiteStore_ItemRanks_AcrossLists(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	item := seedItem(t, store, "The Wall")

	first := seedList(t, store, "List one", 20)
	addMember(t, store, first.ID, item.ID, 1)

	second := seedList(t, store, "List two", 20)
	fillList(t, store, second.ID, 4, "second")
	addMember(t, store, second.ID, item.ID, 5)

	third := seedList(t, store, "List three", 20)
	fillList(t, store, third.ID, 9, "third")
	addMember(t, store, third.ID, item.ID, 10)

	ranks, err := store.ItemRanks(ctx, item.ID)
	if err != nil {
		t.Fatalf("item ranks: %v", err)
	}
	sort.Ints(ranks)
	want := []int{1, 5, 10}
	if len(ranks) != len(want) {
		t.Fatalf("expected %d ranks, got %d", len(want), len(ranks))
	}
	for i := range want {
		if ranks[i] != want[i] {
			t.Errorf("rank %d: expected %d, got %d", i, want[i], ranks[i])
		}
	}

	if _, err := store.ItemRanks(ctx, uuid.New()); !errors.Is(err, ErrItemNotFound) {
		t.Errorf("expected ErrItemNotFound, got %v", err)
	}
}

func TestSQLiteStore_Statistics_UpsertAndGet(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	item := seedItem(t, store, "Abbey Road")

	if _, err := store.GetStatistics(ctx, item.ID); !errors.Is(err, ErrStatisticsNotFound) {
		t.Errorf("expected ErrStatisticsNotFound before first aggregation, got %v", err)
	}
	if _, err := store.GetStatistics(ctx, uuid.New()); !errors.Is(err, ErrItemNotFound) {
		t.Errorf("expected ErrItemNotFound, got %v", err)
	}

	avg, variance := 5.33, 13.56
	best, worst := 1, 10
	stats := model.ItemStatistics{
		ItemID:           item.ID,
		TotalAppearances: 3,
		AverageRank:      &avg,
		RankVariance:     &variance,
		BestRank:         &best,
		WorstRank:        &worst,
		Top10Count:       3,
		Top3Count:        1,
		FirstPlaceCount:  1,
		LastCalculated:   time.Now().UTC(),
	}
	if err := store.UpsertStatistics(ctx, &stats); err != nil {
		t.Fatalf("upsert statistics: %v", err)
	}

	got, err := store.GetStatistics(ctx, item.ID)
	if err != nil {
		t.Fatalf("get statistics: %v", err)
	}
	if got.TotalAppearances != 3 || got.Top10Count != 3 || got.Top3Count != 1 || got.FirstPlaceCount != 1 {
		t.Errorf("unexpected counts: %+v", got)
	}
	if got.AverageRank == nil || *got.AverageRank != 5.33 {
		t.Errorf("expected average 5.33, got %v", got.AverageRank)
	}
	if got.BestRank == nil || *got.BestRank != 1 || got.WorstRank == nil || *got.WorstRank != 10 {
		t.Errorf("unexpected best/worst: %v/%v", got.BestRank, got.WorstRank)
	}

	// A later aggregation replaces the row wholesale, including clearing
	// aggregates when the item no longer appears anywhere.
	empty := model.ItemStatistics{ItemID: item.ID, LastCalculated: time.Now().UTC()}
	if err := store.UpsertStatistics(ctx, &empty); err != nil {
		t.Fatalf("upsert empty statistics: %v", err)
	}
	got, err = store.GetStatistics(ctx, item.ID)
	if err != nil {
		t.Fatalf("get statistics: %v", err)
	}
	if got.TotalAppearances != 0 || got.AverageRank != nil || got.BestRank != nil {
		t.Errorf("expected cleared statistics, got %+v", got)
	}
}

func TestSQLiteStore_TrendingAggregates(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	window := 7 * 24 * time.Hour

	x := seedItem(t, store, "X")
	y := seedItem(t, store, "Y")
	seedItem(t, store, "Z") // no membership, no votes

	l1 := seedList(t, store, "L1", 10)
	addMember(t, store, l1.ID, x.ID, 1)
	addMember(t, store, l1.ID, y.ID, 2)

	l2 := seedList(t, store, "L2", 10)
	addMember(t, store, l2.ID, y.ID, 1)
	addMember(t, store, l2.ID, x.ID, 2)

	userA, userB, userC := uuid.New(), uuid.New(), uuid.New()
	for _, v := range []model.Vote{
		{UserID: userA, ListID: l1.ID, ItemID: x.ID, Value: 1},
		{UserID: userB, ListID: l1.ID, ItemID: y.ID, Value: 1},
		{UserID: userC, ListID: l2.ID, ItemID: y.ID, Value: -1},
	} {
		vote := v
		if err := store.CastVote(ctx, &vote); err != nil {
			t.Fatalf("cast vote: %v", err)
		}
	}
	// Age one of Y's votes out of the window.
	stale := time.Now().UTC().Add(-8 * 24 * time.Hour)
	if _, err := store.db.ExecContext(ctx,
		`UPDATE votes SET created_at = ? WHERE user_id = ?`, stale, userC); err != nil {
		t.Fatalf("backdate vote: %v", err)
	}

	// An item voted on and later removed from its list still surfaces
	// with zero appearances.
	w := seedItem(t, store, "W")
	l3 := seedList(t, store, "L3", 10)
	addMember(t, store, l3.ID, w.ID, 1)
	vote := model.Vote{UserID: uuid.New(), ListID: l3.ID, ItemID: w.ID, Value: 1}
	if err := store.CastVote(ctx, &vote); err != nil {
		t.Fatalf("cast vote: %v", err)
	}
	if err := store.RemoveMember(ctx, l3.ID, w.ID); err != nil {
		t.Fatalf("remove member: %v", err)
	}

	rows, err := store.TrendingAggregates(ctx, window)
	if err != nil {
		t.Fatalf("trending aggregates: %v", err)
	}

	byID := make(map[uuid.UUID]model.TrendingItem, len(rows))
	for _, row := range rows {
		byID[row.ItemID] = row
	}
	if len(byID) != 3 {
		t.Fatalf("expected 3 trending rows, got %d: %+v", len(byID), rows)
	}

	gotX := byID[x.ID]
	if gotX.ListAppearances != 2 || gotX.RecentVotes != 1 {
		t.Errorf("X: expected 2 appearances and 1 recent vote, got %d/%d",
			gotX.ListAppearances, gotX.RecentVotes)
	}
	if gotX.AverageRank == nil || *gotX.AverageRank != 1.5 {
		t.Errorf("X: expected average rank 1.5, got %v", gotX.AverageRank)
	}

	gotY := byID[y.ID]
	if gotY.ListAppearances != 2 || gotY.RecentVotes != 1 {
		t.Errorf("Y: expected 2 appearances and 1 in-window vote, got %d/%d",
			gotY.ListAppearances, gotY.RecentVotes)
	}

	gotW := byID[w.ID]
	if gotW.ListAppearances != 0 || gotW.RecentVotes != 1 {
		t.Errorf("W: expected 0 appearances and 1 recent vote, got %d/%d",
			gotW.ListAppearances, gotW.RecentVotes)
	}
	if gotW.AverageRank != nil {
		t.Errorf("W: expected no average rank, got %v", *gotW.AverageRank)
	}
}
