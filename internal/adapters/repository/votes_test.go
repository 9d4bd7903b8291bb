package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/xkazm04/nenet/internal/domain/model"
)

func TestSQLiteStore_CastVote_UpsertKeepsCastTime(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	list := seedList(t, store, "Voting", 5)
	item := seedItem(t, store, "Starcraft")
	addMember(t, store, list.ID, item.ID, 1)

	user := uuid.New()
	up := model.Vote{UserID: user, ListID: list.ID, ItemID: item.ID, Value: 1}
	if err := store.CastVote(ctx, &up); err != nil {
		t.Fatalf("cast vote: %v", err)
	}

	var first struct {
		Value     int       `db:"value"`
		CreatedAt time.Time `db:"created_at"`
		UpdatedAt time.Time `db:"updated_at"`
	}
	voteQuery := `SELECT value, created_at, updated_at FROM votes WHERE user_id = ? AND list_id = ? AND item_id = ?`
	if err := store.db.GetContext(ctx, &first, voteQuery, user, list.ID, item.ID); err != nil {
		t.Fatalf("read vote row: %v", err)
	}
	if first.Value != 1 {
		t.Errorf("expected value 1, got %d", first.Value)
	}

	// Re-casting flips the value but keeps the original cast time.
	time.Sleep(5 * time.Millisecond)
	down := model.Vote{UserID: user, ListID: list.ID, ItemID: item.ID, Value: -1}
	if err := store.CastVote(ctx, &down); err != nil {
		t.Fatalf("re-cast vote: %v", err)
	}

	var second struct {
		Value     int       `db:"value"`
		CreatedAt time.Time `db:"created_at"`
		UpdatedAt time.Time `db:"updated_at"`
	}
	if err := store.db.GetContext(ctx, &second, voteQuery, user, list.ID, item.ID); err != nil {
		t.Fatalf("read vote row: %v", err)
	}
	if second.Value != -1 {
		t.Errorf("expected value -1, got %d", second.Value)
	}
	if !second.CreatedAt.Equal(first.CreatedAt) {
		t.Errorf("re-cast changed created_at: %v -> %v", first.CreatedAt, second.CreatedAt)
	}
	if !second.UpdatedAt.After(first.UpdatedAt) {
		t.Errorf("expected updated_at to advance: %v -> %v", first.UpdatedAt, second.UpdatedAt)
	}

	// Still one row per (user, list, item).
	counts, err := store.Counts(ctx)
	if err != nil {
		t.Fatalf("counts: %v", err)
	}
	if counts.Votes != 1 {
		t.Errorf("expected 1 vote row, got %d", counts.Votes)
	}
}

func TestSQLiteStore_CastVote_Validation(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	list := seedList(t, store, "Voting", 5)
	member := seedItem(t, store, "Member")
	outsider := seedItem(t, store, "Outsider")
	addMember(t, store, list.ID, member.ID, 1)

	vote := model.Vote{UserID: uuid.New(), ListID: uuid.New(), ItemID: member.ID, Value: 1}
	if err := store.CastVote(ctx, &vote); !errors.Is(err, ErrListNotFound) {
		t.Errorf("expected ErrListNotFound, got %v", err)
	}

	// Votes attach to memberships, not bare items.
	vote = model.Vote{UserID: uuid.New(), ListID: list.ID, ItemID: outsider.ID, Value: 1}
	if err := store.CastVote(ctx, &vote); !errors.Is(err, ErrMembershipNotFound) {
		t.Errorf("expected ErrMembershipNotFound, got %v", err)
	}
}

func TestSQLiteStore_RemoveVote(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	list := seedList(t, store, "Voting", 5)
	item := seedItem(t, store, "Tetris")
	addMember(t, store, list.ID, item.ID, 1)

	user := uuid.New()
	vote := model.Vote{UserID: user, ListID: list.ID, ItemID: item.ID, Value: 1}
	if err := store.CastVote(ctx, &vote); err != nil {
		t.Fatalf("cast vote: %v", err)
	}

	if err := store.RemoveVote(ctx, user, list.ID, item.ID); err != nil {
		t.Fatalf("remove vote: %v", err)
	}
	if err := store.RemoveVote(ctx, user, list.ID, item.ID); !errors.Is(err, ErrVoteNotFound) {
		t.Errorf("expected ErrVoteNotFound, got %v", err)
	}
}

func TestSQLiteStore_Votes_SurviveMemberRemoval(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	list := seedList(t, store, "Voting", 5)
	item := seedItem(t, store, "Myst")
	addMember(t, store, list.ID, item.ID, 1)

	vote := model.Vote{UserID: uuid.New(), ListID: list.ID, ItemID: item.ID, Value: 1}
	if err := store.CastVote(ctx, &vote); err != nil {
		t.Fatalf("cast vote: %v", err)
	}
	if err := store.RemoveMember(ctx, list.ID, item.ID); err != nil {
		t.Fatalf("remove member: %v", err)
	}

	// The vote is historical engagement; removing the membership does
	// not erase it. Deleting the list does.
	counts, err := store.Counts(ctx)
	if err != nil {
		t.Fatalf("counts: %v", err)
	}
	if counts.Votes != 1 {
		t.Errorf("expected vote to survive member removal, got %d rows", counts.Votes)
	}

	if err := store.DeleteList(ctx, list.ID); err != nil {
		t.Fatalf("delete list: %v", err)
	}
	counts, err = store.Counts(ctx)
	if err != nil {
		t.Fatalf("counts: %v", err)
	}
	if counts.Votes != 0 {
		t.Errorf("expected votes to cascade with list delete, got %d rows", counts.Votes)
	}
}
