// Package rank holds the pure rank-maintenance rules: placement bounds,
// density checks, and compaction ordering. Persistence executes these rules
// inside its per-list atomic scope.
package rank

import (
	"bytes"
	"sort"
	"time"

	"github.com/google/uuid"
)

// Rank bounds.
const (
	// MinRank is the top position of every list.
	MinRank = 1
)

// AddInBounds reports whether desired is a legal insertion rank for a list
// that currently holds size members. Legal insertions are [1, size+1]:
// size+1 appends to the tail.
func AddInBounds(desired, size int) bool {
	return desired >= MinRank && desired <= size+1
}

// MoveInBounds reports whether newRank is a legal target for moving an
// existing member within a list of size members. Legal targets are
// [1, size]: moving cannot extend the list.
func MoveInBounds(newRank, size int) bool {
	return newRank >= MinRank && newRank <= size
}

// IsDense reports whether ranks form exactly the set {1..len(ranks)}.
// Order of the input is irrelevant.
func IsDense(ranks []int) bool {
	seen := make([]bool, len(ranks))
	for _, r := range ranks {
		idx := r - MinRank
		if idx < 0 || idx >= len(ranks) || seen[idx] {
			return false
		}
		seen[idx] = true
	}
	return true
}

// Entry is one membership as seen by the compaction planner.
type Entry struct {
	ItemID    uuid.UUID
	Rank      int
	CreatedAt time.Time
}

// Compact reassigns dense ranks 1..n preserving the current order.
// Equal ranks are broken by membership age, then item id, so the
// outcome is deterministic.
func Compact(entries []Entry) []Entry {
	out := make([]Entry, len(entries))
	copy(out, entries)

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Rank != out[j].Rank {
			return out[i].Rank < out[j].Rank
		}
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return bytes.Compare(out[i].ItemID[:], out[j].ItemID[:]) < 0
	})

	for i := range out {
		out[i].Rank = MinRank + i
	}
	return out
}
