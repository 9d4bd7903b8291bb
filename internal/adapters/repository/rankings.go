package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/xkazm04/nenet/internal/domain/model"
	"github.com/xkazm04/nenet/internal/domain/rank"
	"github.com/xkazm04/nenet/pkg/metrics"
)

type membershipRow struct {
	ListID    uuid.UUID `db:"list_id"`
	ItemID    uuid.UUID `db:"item_id"`
	Rank      int       `db:"ranking"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r membershipRow) toModel() model.Membership {
	return model.Membership{
		ListID:    r.ListID,
		ItemID:    r.ItemID,
		Rank:      r.Rank,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

type memberRow struct {
	Rank            int       `db:"ranking"`
	MemberCreatedAt time.Time `db:"member_created_at"`
	MemberUpdatedAt time.Time `db:"member_updated_at"`
	itemRow
}

func (r memberRow) toModel() model.Member {
	return model.Member{
		Rank:      r.Rank,
		Item:      r.itemRow.toModel(),
		CreatedAt: r.MemberCreatedAt,
		UpdatedAt: r.MemberUpdatedAt,
	}
}

const memberSelect = `
SELECT m.ranking, m.created_at AS member_created_at, m.updated_at AS member_updated_at,
       i.id, i.name, i.category, i.subcategory, i.description, i.reference_url, i.image_url,
       i.year_from, i.year_to, i.view_count, i.selection_count, i.created_at, i.updated_at
FROM list_members m
JOIN items i ON i.id = m.item_id
WHERE m.list_id = ?
ORDER BY m.ranking ASC, i.id ASC`

// AddMember inserts the item at the desired rank. Members at or below
// the desired rank shift down one position, so ranks stay dense.
func (s *SQLiteStore) AddMember(ctx context.Context, listID, itemID uuid.UUID, desired int) (model.Membership, error) {
	start := time.Now()
	defer func() {
		metrics.RecordRankMutationLatency(float64(time.Since(start).Milliseconds()))
	}()

	var membership model.Membership
	err := s.withListTx(ctx, listID, func(tx *sqlx.Tx) error {
		var maxSize int
		err := tx.GetContext(ctx, &maxSize, `SELECT max_size FROM lists WHERE id = ?`, listID)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrListNotFound
		}
		if err != nil {
			return fmt.Errorf("select list: %w", err)
		}

		exists, err := itemExists(ctx, tx, itemID)
		if err != nil {
			return err
		}
		if !exists {
			return ErrItemNotFound
		}

		var one int
		err = tx.GetContext(ctx, &one,
			`SELECT 1 FROM list_members WHERE list_id = ? AND item_id = ?`, listID, itemID)
		if err == nil {
			return ErrDuplicateMembership
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("check membership: %w", err)
		}

		size, err := memberCount(ctx, tx, listID)
		if err != nil {
			return err
		}
		if size >= maxSize {
			return fmt.Errorf("%w: list holds %d of %d", ErrCapacityExceeded, size, maxSize)
		}
		if !rank.AddInBounds(desired, size) {
			return fmt.Errorf("%w: rank %d outside [1, %d]", ErrRankOutOfRange, desired, size+1)
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE list_members SET ranking = ranking + 1 WHERE list_id = ? AND ranking >= ?`,
			listID, desired); err != nil {
			return fmt.Errorf("shift ranks: %w", err)
		}

		ts := now()
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO list_members (list_id, item_id, ranking, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?)`,
			listID, itemID, desired, ts, ts); err != nil {
			return fmt.Errorf("insert membership: %w", err)
		}

		membership = model.Membership{
			ListID: listID, ItemID: itemID, Rank: desired, CreatedAt: ts, UpdatedAt: ts,
		}
		return nil
	})
	if err != nil {
		return model.Membership{}, err
	}

	metrics.RecordRankMutation("add")
	return membership, nil
}

// UpdateRank moves an existing member to newRank. Every other member at
// or below newRank shifts down one position first, unconditionally:
// moving toward rank one closes the vacated slot, while moving away
// from it leaves a gap at the old position. The gap is intentional and
// persists until CompactRanks repairs the list.
func (s *SQLiteStore) UpdateRank(ctx context.Context, listID, itemID uuid.UUID, newRank int) (model.Membership, error) {
	start := time.Now()
	defer func() {
		metrics.RecordRankMutationLatency(float64(time.Since(start).Milliseconds()))
	}()

	var membership model.Membership
	err := s.withListTx(ctx, listID, func(tx *sqlx.Tx) error {
		exists, err := listExists(ctx, tx, listID)
		if err != nil {
			return err
		}
		if !exists {
			return ErrListNotFound
		}

		var current membershipRow
		err = tx.GetContext(ctx, &current,
			`SELECT * FROM list_members WHERE list_id = ? AND item_id = ?`, listID, itemID)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrMembershipNotFound
		}
		if err != nil {
			return fmt.Errorf("select membership: %w", err)
		}

		size, err := memberCount(ctx, tx, listID)
		if err != nil {
			return err
		}
		if !rank.MoveInBounds(newRank, size) {
			return fmt.Errorf("%w: rank %d outside [1, %d]", ErrRankOutOfRange, newRank, size)
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE list_members SET ranking = ranking + 1 WHERE list_id = ? AND ranking >= ? AND item_id != ?`,
			listID, newRank, itemID); err != nil {
			return fmt.Errorf("shift ranks: %w", err)
		}

		ts := now()
		if _, err := tx.ExecContext(ctx,
			`UPDATE list_members SET ranking = ?, updated_at = ? WHERE list_id = ? AND item_id = ?`,
			newRank, ts, listID, itemID); err != nil {
			return fmt.Errorf("move member: %w", err)
		}

		membership = model.Membership{
			ListID: listID, ItemID: itemID, Rank: newRank,
			CreatedAt: current.CreatedAt, UpdatedAt: ts,
		}
		return nil
	})
	if err != nil {
		return model.Membership{}, err
	}

	metrics.RecordRankMutation("move")
	return membership, nil
}

// RemoveMember deletes the membership. Remaining members keep their
// ranks, so a gap opens at the removed position.
func (s *SQLiteStore) RemoveMember(ctx context.Context, listID, itemID uuid.UUID) error {
	start := time.Now()
	defer func() {
		metrics.RecordRankMutationLatency(float64(time.Since(start).Milliseconds()))
	}()

	err := s.withListTx(ctx, listID, func(tx *sqlx.Tx) error {
		exists, err := listExists(ctx, tx, listID)
		if err != nil {
			return err
		}
		if !exists {
			return ErrListNotFound
		}

		res, err := tx.ExecContext(ctx,
			`DELETE FROM list_members WHERE list_id = ? AND item_id = ?`, listID, itemID)
		if err != nil {
			return fmt.Errorf("delete membership: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("delete membership: %w", err)
		}
		if affected == 0 {
			return ErrMembershipNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}

	metrics.RecordRankMutation("remove")
	return nil
}

// ListMembers returns the list's members with their items, rank ascending.
func (s *SQLiteStore) ListMembers(ctx context.Context, listID uuid.UUID) ([]model.Member, error) {
	defer observeQuery(time.Now())

	exists, err := listExists(ctx, s.db, listID)
	if err != nil {
		return nil, err
	}
	if !exists {
		metrics.RecordErrorByComponent("repository", "not_found")
		return nil, ErrListNotFound
	}

	var rows []memberRow
	if err := s.db.SelectContext(ctx, &rows, memberSelect, listID); err != nil {
		return nil, fmt.Errorf("select members: %w", err)
	}

	members := make([]model.Member, 0, len(rows))
	for _, row := range rows {
		members = append(members, row.toModel())
	}
	return members, nil
}

// CompactRanks renumbers the members to the dense sequence 1..N,
// keeping the current order and breaking equal ranks by membership age.
// It returns the number of members whose rank changed.
func (s *SQLiteStore) CompactRanks(ctx context.Context, listID uuid.UUID) (int, error) {
	start := time.Now()
	defer func() {
		metrics.RecordRankMutationLatency(float64(time.Since(start).Milliseconds()))
	}()

	var changed int
	err := s.withListTx(ctx, listID, func(tx *sqlx.Tx) error {
		exists, err := listExists(ctx, tx, listID)
		if err != nil {
			return err
		}
		if !exists {
			return ErrListNotFound
		}

		var rows []membershipRow
		err = tx.SelectContext(ctx, &rows,
			`SELECT * FROM list_members WHERE list_id = ?`, listID)
		if err != nil {
			return fmt.Errorf("select memberships: %w", err)
		}

		entries := make([]rank.Entry, 0, len(rows))
		oldRanks := make(map[uuid.UUID]int, len(rows))
		for _, row := range rows {
			entries = append(entries, rank.Entry{
				ItemID: row.ItemID, Rank: row.Rank, CreatedAt: row.CreatedAt,
			})
			oldRanks[row.ItemID] = row.Rank
		}

		ts := now()
		for _, entry := range rank.Compact(entries) {
			if oldRanks[entry.ItemID] == entry.Rank {
				continue
			}
			if _, err := tx.ExecContext(ctx,
				`UPDATE list_members SET ranking = ?, updated_at = ? WHERE list_id = ? AND item_id = ?`,
				entry.Rank, ts, listID, entry.ItemID); err != nil {
				return fmt.Errorf("compact rank: %w", err)
			}
			changed++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	metrics.RecordRankMutation("compact")
	return changed, nil
}

func memberCount(ctx context.Context, q sqlx.QueryerContext, listID uuid.UUID) (int, error) {
	var size int
	err := sqlx.GetContext(ctx, q, &size,
		`SELECT COUNT(*) FROM list_members WHERE list_id = ?`, listID)
	if err != nil {
		return 0, fmt.Errorf("count members: %w", err)
	}
	return size, nil
}
