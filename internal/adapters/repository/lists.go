package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/xkazm04/nenet/internal/domain/model"
	"github.com/xkazm04/nenet/pkg/metrics"
)

type listRow struct {
	ID          uuid.UUID     `db:"id"`
	Title       string        `db:"title"`
	Category    string        `db:"category"`
	Subcategory string        `db:"subcategory"`
	OwnerID     uuid.NullUUID `db:"owner_id"`
	MaxSize     int           `db:"max_size"`
	ParentID    uuid.NullUUID `db:"parent_id"`
	CreatedAt   time.Time     `db:"created_at"`
	UpdatedAt   time.Time     `db:"updated_at"`
}

func (r listRow) toModel() model.List {
	return model.List{
		ID:          r.ID,
		Title:       r.Title,
		Category:    model.Category(r.Category),
		Subcategory: r.Subcategory,
		OwnerID:     uuidPtr(r.OwnerID),
		MaxSize:     r.MaxSize,
		ParentID:    uuidPtr(r.ParentID),
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

// CreateList inserts a new list. When ParentID is set it must reference
// an existing list.
func (s *SQLiteStore) CreateList(ctx context.Context, list *model.List) error {
	defer observeQuery(time.Now())

	if list.ID == uuid.Nil {
		list.ID = uuid.New()
	}
	ts := now()
	list.CreatedAt = ts
	list.UpdatedAt = ts

	if list.ParentID != nil {
		exists, err := listExists(ctx, s.db, *list.ParentID)
		if err != nil {
			return err
		}
		if !exists {
			metrics.RecordErrorByComponent("repository", "not_found")
			return fmt.Errorf("%w: parent %s", ErrListNotFound, *list.ParentID)
		}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO lists (id, title, category, subcategory, owner_id, max_size, parent_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		list.ID, list.Title, list.Category, list.Subcategory,
		nullUUID(list.OwnerID), list.MaxSize, nullUUID(list.ParentID),
		list.CreatedAt, list.UpdatedAt,
	)
	if err != nil {
		return mapSQLiteErr(fmt.Errorf("insert list: %w", err))
	}
	return nil
}

// GetList returns the list with the given id or ErrListNotFound.
func (s *SQLiteStore) GetList(ctx context.Context, id uuid.UUID) (model.List, error) {
	defer observeQuery(time.Now())

	var row listRow
	err := s.db.GetContext(ctx, &row, `SELECT * FROM lists WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		metrics.RecordErrorByComponent("repository", "not_found")
		return model.List{}, ErrListNotFound
	}
	if err != nil {
		return model.List{}, fmt.Errorf("select list: %w", err)
	}
	return row.toModel(), nil
}

// ListLists returns lists newest first, optionally narrowed by category
// and owner.
func (s *SQLiteStore) ListLists(ctx context.Context, category string, ownerID *uuid.UUID, limit int) ([]model.List, error) {
	defer observeQuery(time.Now())

	query := `SELECT * FROM lists`
	var conds []string
	var args []any
	if category != "" {
		conds = append(conds, "category = ?")
		args = append(args, category)
	}
	if ownerID != nil {
		conds = append(conds, "owner_id = ?")
		args = append(args, *ownerID)
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at DESC, id ASC"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	var rows []listRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select lists: %w", err)
	}

	lists := make([]model.List, 0, len(rows))
	for _, row := range rows {
		lists = append(lists, row.toModel())
	}
	return lists, nil
}

// DeleteList removes the list; memberships, votes and versions cascade.
// Child lists survive with their parent reference cleared.
func (s *SQLiteStore) DeleteList(ctx context.Context, id uuid.UUID) error {
	defer observeQuery(time.Now())

	lock := s.listLock(id)
	lock.Lock()
	defer lock.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM lists WHERE id = ?`, id)
	if err != nil {
		return mapSQLiteErr(fmt.Errorf("delete list: %w", err))
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete list: %w", err)
	}
	if affected == 0 {
		metrics.RecordErrorByComponent("repository", "not_found")
		return ErrListNotFound
	}
	return nil
}

func listExists(ctx context.Context, q sqlx.QueryerContext, id uuid.UUID) (bool, error) {
	var one int
	err := sqlx.GetContext(ctx, q, &one, `SELECT 1 FROM lists WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check list: %w", err)
	}
	return true, nil
}
