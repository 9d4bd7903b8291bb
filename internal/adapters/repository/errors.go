package repository

import "errors"

// Sentinel kinds for ranked list engine errors.
var (
	// Not-found kinds.
	ErrItemNotFound       = errors.New("item not found")
	ErrListNotFound       = errors.New("list not found")
	ErrMembershipNotFound = errors.New("membership not found")
	ErrVersionNotFound    = errors.New("version not found")
	ErrVoteNotFound       = errors.New("vote not found")
	ErrStatisticsNotFound = errors.New("statistics not found")

	// Validation kinds.
	ErrRankOutOfRange      = errors.New("rank out of range")
	ErrDuplicateMembership = errors.New("item already ranked in list")
	ErrCapacityExceeded    = errors.New("list at capacity")

	// ErrConflict marks a mutation rejected by write contention. The
	// operation had no effect and may be retried as-is.
	ErrConflict = errors.New("write conflict, retry")
)
