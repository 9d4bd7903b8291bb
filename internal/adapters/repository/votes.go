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

// CastVote records the user's vote on a list member, replacing the
// value if the user voted before. Re-casting keeps the original cast
// time, so the trending window counts each voter once.
func (s *SQLiteStore) CastVote(ctx context.Context, vote *model.Vote) error {
	defer observeQuery(time.Now())

	exists, err := listExists(ctx, s.db, vote.ListID)
	if err != nil {
		return err
	}
	if !exists {
		metrics.RecordErrorByComponent("repository", "not_found")
		return ErrListNotFound
	}

	var one int
	err = s.db.GetContext(ctx, &one,
		`SELECT 1 FROM list_members WHERE list_id = ? AND item_id = ?`, vote.ListID, vote.ItemID)
	if errors.Is(err, sql.ErrNoRows) {
		metrics.RecordErrorByComponent("repository", "not_found")
		return ErrMembershipNotFound
	}
	if err != nil {
		return fmt.Errorf("check membership: %w", err)
	}

	ts := now()
	vote.CreatedAt = ts
	vote.UpdatedAt = ts

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO votes (user_id, list_id, item_id, value, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, list_id, item_id) DO UPDATE SET
		    value = excluded.value,
		    updated_at = excluded.updated_at`,
		vote.UserID, vote.ListID, vote.ItemID, vote.Value, vote.CreatedAt, vote.UpdatedAt)
	if err != nil {
		return mapSQLiteErr(fmt.Errorf("upsert vote: %w", err))
	}

	metrics.RecordVoteCast()
	return nil
}

// RemoveVote deletes the user's vote on a list member.
func (s *SQLiteStore) RemoveVote(ctx context.Context, userID, listID, itemID uuid.UUID) error {
	defer observeQuery(time.Now())

	res, err := s.db.ExecContext(ctx,
		`DELETE FROM votes WHERE user_id = ? AND list_id = ? AND item_id = ?`,
		userID, listID, itemID)
	if err != nil {
		return mapSQLiteErr(fmt.Errorf("delete vote: %w", err))
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete vote: %w", err)
	}
	if affected == 0 {
		metrics.RecordErrorByComponent("repository", "not_found")
		return ErrVoteNotFound
	}
	return nil
}
