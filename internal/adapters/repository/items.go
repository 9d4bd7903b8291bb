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

type itemRow struct {
	ID             uuid.UUID     `db:"id"`
	Name           string        `db:"name"`
	Category       string        `db:"category"`
	Subcategory    string        `db:"subcategory"`
	Description    string        `db:"description"`
	ReferenceURL   string        `db:"reference_url"`
	ImageURL       string        `db:"image_url"`
	YearFrom       sql.NullInt64 `db:"year_from"`
	YearTo         sql.NullInt64 `db:"year_to"`
	ViewCount      int64         `db:"view_count"`
	SelectionCount int64         `db:"selection_count"`
	CreatedAt      time.Time     `db:"created_at"`
	UpdatedAt      time.Time     `db:"updated_at"`
}

func (r itemRow) toModel() model.Item {
	return model.Item{
		ID:             r.ID,
		Name:           r.Name,
		Category:       model.Category(r.Category),
		Subcategory:    r.Subcategory,
		Description:    r.Description,
		ReferenceURL:   r.ReferenceURL,
		ImageURL:       r.ImageURL,
		YearFrom:       intPtr(r.YearFrom),
		YearTo:         intPtr(r.YearTo),
		ViewCount:      r.ViewCount,
		SelectionCount: r.SelectionCount,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

type accoladeRow struct {
	ID        uuid.UUID `db:"id"`
	ItemID    uuid.UUID `db:"item_id"`
	Type      string    `db:"type"`
	Name      string    `db:"name"`
	Value     string    `db:"value"`
	CreatedAt time.Time `db:"created_at"`
}

func (r accoladeRow) toModel() model.Accolade {
	return model.Accolade{
		ID:        r.ID,
		ItemID:    r.ItemID,
		Type:      model.AccoladeType(r.Type),
		Name:      r.Name,
		Value:     r.Value,
		CreatedAt: r.CreatedAt,
	}
}

// CreateItem inserts a new item. A zero ID is replaced with a fresh one;
// timestamps are always assigned here.
func (s *SQLiteStore) CreateItem(ctx context.Context, item *model.Item) error {
	defer observeQuery(time.Now())

	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	ts := now()
	item.CreatedAt = ts
	item.UpdatedAt = ts

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO items (id, name, category, subcategory, description, reference_url, image_url,
		                   year_from, year_to, view_count, selection_count, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ID, item.Name, item.Category, item.Subcategory, item.Description,
		item.ReferenceURL, item.ImageURL, nullInt(item.YearFrom), nullInt(item.YearTo),
		item.ViewCount, item.SelectionCount, item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		return mapSQLiteErr(fmt.Errorf("insert item: %w", err))
	}
	return nil
}

// GetItem returns the item with the given id or ErrItemNotFound.
func (s *SQLiteStore) GetItem(ctx context.Context, id uuid.UUID) (model.Item, error) {
	defer observeQuery(time.Now())

	var row itemRow
	err := s.db.GetContext(ctx, &row, `SELECT * FROM items WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		metrics.RecordErrorByComponent("repository", "not_found")
		return model.Item{}, ErrItemNotFound
	}
	if err != nil {
		return model.Item{}, fmt.Errorf("select item: %w", err)
	}
	return row.toModel(), nil
}

// ListItems returns items ordered by name, optionally narrowed by
// category and subcategory.
func (s *SQLiteStore) ListItems(ctx context.Context, category, subcategory string, limit int) ([]model.Item, error) {
	defer observeQuery(time.Now())

	query := `SELECT * FROM items`
	var conds []string
	var args []any
	if category != "" {
		conds = append(conds, "category = ?")
		args = append(args, category)
	}
	if subcategory != "" {
		conds = append(conds, "subcategory = ?")
		args = append(args, subcategory)
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY name ASC, id ASC"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	var rows []itemRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select items: %w", err)
	}

	items := make([]model.Item, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toModel())
	}
	return items, nil
}

// DeleteItem removes the item. Accolades, memberships, votes and
// statistics go with it through the schema's cascades; list ranks are
// not renumbered.
func (s *SQLiteStore) DeleteItem(ctx context.Context, id uuid.UUID) error {
	defer observeQuery(time.Now())

	res, err := s.db.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id)
	if err != nil {
		return mapSQLiteErr(fmt.Errorf("delete item: %w", err))
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	if affected == 0 {
		metrics.RecordErrorByComponent("repository", "not_found")
		return ErrItemNotFound
	}
	return nil
}

// IncrementViewCount bumps the lifetime view counter. The counter is
// engagement telemetry, so updated_at stays untouched.
func (s *SQLiteStore) IncrementViewCount(ctx context.Context, id uuid.UUID) error {
	return s.incrementCounter(ctx, id, "view_count")
}

// IncrementSelectionCount bumps the lifetime selection counter.
func (s *SQLiteStore) IncrementSelectionCount(ctx context.Context, id uuid.UUID) error {
	return s.incrementCounter(ctx, id, "selection_count")
}

func (s *SQLiteStore) incrementCounter(ctx context.Context, id uuid.UUID, column string) error {
	defer observeQuery(time.Now())

	query := fmt.Sprintf(`UPDATE items SET %s = %s + 1 WHERE id = ?`, column, column)
	res, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return mapSQLiteErr(fmt.Errorf("increment %s: %w", column, err))
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("increment %s: %w", column, err)
	}
	if affected == 0 {
		metrics.RecordErrorByComponent("repository", "not_found")
		return ErrItemNotFound
	}
	return nil
}

// AddAccolade attaches an accolade to an existing item. The insert is
// conditional on the item row so a stale id reports ErrItemNotFound
// instead of a constraint failure.
func (s *SQLiteStore) AddAccolade(ctx context.Context, accolade *model.Accolade) error {
	defer observeQuery(time.Now())

	if accolade.ID == uuid.Nil {
		accolade.ID = uuid.New()
	}
	accolade.CreatedAt = now()

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO accolades (id, item_id, type, name, value, created_at)
		SELECT ?, id, ?, ?, ?, ? FROM items WHERE id = ?`,
		accolade.ID, accolade.Type, accolade.Name, accolade.Value, accolade.CreatedAt, accolade.ItemID,
	)
	if err != nil {
		return mapSQLiteErr(fmt.Errorf("insert accolade: %w", err))
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert accolade: %w", err)
	}
	if affected == 0 {
		metrics.RecordErrorByComponent("repository", "not_found")
		return ErrItemNotFound
	}
	return nil
}

// ListAccolades returns the item's accolades oldest first.
func (s *SQLiteStore) ListAccolades(ctx context.Context, itemID uuid.UUID) ([]model.Accolade, error) {
	defer observeQuery(time.Now())

	exists, err := itemExists(ctx, s.db, itemID)
	if err != nil {
		return nil, err
	}
	if !exists {
		metrics.RecordErrorByComponent("repository", "not_found")
		return nil, ErrItemNotFound
	}

	var rows []accoladeRow
	err = s.db.SelectContext(ctx, &rows,
		`SELECT * FROM accolades WHERE item_id = ? ORDER BY created_at ASC, id ASC`, itemID)
	if err != nil {
		return nil, fmt.Errorf("select accolades: %w", err)
	}

	accolades := make([]model.Accolade, 0, len(rows))
	for _, row := range rows {
		accolades = append(accolades, row.toModel())
	}
	return accolades, nil
}

func itemExists(ctx context.Context, q sqlx.QueryerContext, id uuid.UUID) (bool, error) {
	var one int
	err := sqlx.GetContext(ctx, q, &one, `SELECT 1 FROM items WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check item: %w", err)
	}
	return true, nil
}
