// Package repository persists items, ranked lists, votes, versions and
// derived aggregates in SQLite and enforces the ranking invariants on
// every mutation.
package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/xkazm04/nenet/internal/domain/model"
)

// ItemStore manages catalog items and their accolades.
type ItemStore interface {
	// CreateItem inserts a new item and fills in its generated fields.
	CreateItem(ctx context.Context, item *model.Item) error

	// GetItem returns the item with the given id or ErrItemNotFound.
	GetItem(ctx context.Context, id uuid.UUID) (model.Item, error)

	// ListItems returns items filtered by category and subcategory when
	// non-empty, ordered by name, at most limit rows.
	ListItems(ctx context.Context, category, subcategory string, limit int) ([]model.Item, error)

	// DeleteItem removes the item together with its accolades,
	// memberships, votes and statistics.
	DeleteItem(ctx context.Context, id uuid.UUID) error

	// IncrementViewCount bumps the lifetime view counter by one.
	IncrementViewCount(ctx context.Context, id uuid.UUID) error

	// IncrementSelectionCount bumps the lifetime selection counter by one.
	IncrementSelectionCount(ctx context.Context, id uuid.UUID) error

	// AddAccolade attaches an accolade to an existing item.
	AddAccolade(ctx context.Context, accolade *model.Accolade) error

	// ListAccolades returns the item's accolades ordered by creation time.
	ListAccolades(ctx context.Context, itemID uuid.UUID) ([]model.Accolade, error)
}

// ListStore manages ranked list containers.
type ListStore interface {
	// CreateList inserts a new list and fills in its generated fields.
	CreateList(ctx context.Context, list *model.List) error

	// GetList returns the list with the given id or ErrListNotFound.
	GetList(ctx context.Context, id uuid.UUID) (model.List, error)

	// ListLists returns lists filtered by category and owner when set,
	// newest first, at most limit rows.
	ListLists(ctx context.Context, category string, ownerID *uuid.UUID, limit int) ([]model.List, error)

	// DeleteList removes the list together with its memberships,
	// votes and versions.
	DeleteList(ctx context.Context, id uuid.UUID) error
}

// RankingStore mutates and reads list memberships. All mutations on the
// same list are serialized and keep ranks unique within the list.
type RankingStore interface {
	// AddMember inserts the item at the desired rank, shifting members
	// at or below that rank down by one position. The rank must lie in
	// [1, size+1] where size is the member count before the insert.
	AddMember(ctx context.Context, listID, itemID uuid.UUID, rank int) (model.Membership, error)

	// UpdateRank moves an existing member to newRank in [1, size].
	// Every other member ranked at or below newRank is shifted down by
	// one position before the move. Moving an item away from rank one
	// leaves a gap at its old position until CompactRanks runs.
	UpdateRank(ctx context.Context, listID, itemID uuid.UUID, newRank int) (model.Membership, error)

	// RemoveMember deletes the membership without renumbering the
	// remaining members.
	RemoveMember(ctx context.Context, listID, itemID uuid.UUID) error

	// ListMembers returns the list's members with their items, ordered
	// by rank ascending.
	ListMembers(ctx context.Context, listID uuid.UUID) ([]model.Member, error)

	// CompactRanks renumbers the members to the dense sequence 1..N,
	// preserving rank order and breaking ties by membership age. It
	// returns the number of members whose rank changed.
	CompactRanks(ctx context.Context, listID uuid.UUID) (int, error)
}

// VersionStore creates and reads immutable list snapshots.
type VersionStore interface {
	// CreateSnapshot captures the list's current members in a single
	// consistent view and stores it under the next version number.
	CreateSnapshot(ctx context.Context, listID uuid.UUID, authorID *uuid.UUID, description string) (model.ListVersion, error)

	// GetVersion returns one stored snapshot including its payload.
	GetVersion(ctx context.Context, listID uuid.UUID, version int) (model.ListVersion, error)

	// ListVersions returns the list's snapshot metadata without
	// payloads, newest version first.
	ListVersions(ctx context.Context, listID uuid.UUID) ([]model.ListVersion, error)
}

// VoteStore records per-user votes on list members.
type VoteStore interface {
	// CastVote inserts the vote or, when the user already voted on the
	// same member, replaces its value. The original cast time survives
	// a re-cast.
	CastVote(ctx context.Context, vote *model.Vote) error

	// RemoveVote deletes the user's vote or returns ErrVoteNotFound.
	RemoveVote(ctx context.Context, userID, listID, itemID uuid.UUID) error
}

// StatisticsStore reads ranking facts and stores derived statistics.
type StatisticsStore interface {
	// ItemRanks returns the item's current rank in every list that
	// contains it, in no particular order.
	ItemRanks(ctx context.Context, itemID uuid.UUID) ([]int, error)

	// UpsertStatistics stores the derived statistics row for an item,
	// replacing any previous row.
	UpsertStatistics(ctx context.Context, stats *model.ItemStatistics) error

	// GetStatistics returns the stored statistics row or
	// ErrStatisticsNotFound when the item was never aggregated.
	GetStatistics(ctx context.Context, itemID uuid.UUID) (model.ItemStatistics, error)
}

// TrendingSource reads the raw per-item aggregates the trending feed is
// built from.
type TrendingSource interface {
	// TrendingAggregates returns one row per item that currently
	// appears in a list or received a vote inside the window. Rows are
	// unordered.
	TrendingAggregates(ctx context.Context, window time.Duration) ([]model.TrendingItem, error)
}

// Counts holds row totals across the engine's tables.
type Counts struct {
	Items       int `db:"items"`
	Lists       int `db:"lists"`
	Memberships int `db:"memberships"`
	Votes       int `db:"votes"`
	Versions    int `db:"versions"`
}

// Store provides read/write access to the full ranked list state.
type Store interface {
	ItemStore
	ListStore
	RankingStore
	VersionStore
	VoteStore
	StatisticsStore
	TrendingSource

	// Counts reports row totals for monitoring.
	Counts(ctx context.Context) (Counts, error)

	// Close releases the underlying database.
	Close() error
}
