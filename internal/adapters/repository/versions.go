package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/xkazm04/nenet/internal/domain/model"
	"github.com/xkazm04/nenet/pkg/metrics"
)

type versionRow struct {
	ListID      uuid.UUID     `db:"list_id"`
	Version     int           `db:"version"`
	Snapshot    []byte        `db:"snapshot"`
	Description string        `db:"description"`
	AuthorID    uuid.NullUUID `db:"author_id"`
	CreatedAt   time.Time     `db:"created_at"`
}

func (r versionRow) toModel() model.ListVersion {
	return model.ListVersion{
		ListID:      r.ListID,
		Version:     r.Version,
		Snapshot:    r.Snapshot,
		Description: r.Description,
		AuthorID:    uuidPtr(r.AuthorID),
		CreatedAt:   r.CreatedAt,
	}
}

// CreateSnapshot captures the list's members in one consistent view and
// stores the encoded document under the next version number. Snapshots
// of a list are serialized with its rank mutations, so a snapshot never
// observes a half-applied shift.
func (s *SQLiteStore) CreateSnapshot(ctx context.Context, listID uuid.UUID, authorID *uuid.UUID, description string) (model.ListVersion, error) {
	start := time.Now()
	defer func() {
		metrics.RecordSnapshotBuildLatency(float64(time.Since(start).Milliseconds()))
	}()

	var created model.ListVersion
	err := s.withListTx(ctx, listID, func(tx *sqlx.Tx) error {
		var list listRow
		err := tx.GetContext(ctx, &list, `SELECT * FROM lists WHERE id = ?`, listID)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrListNotFound
		}
		if err != nil {
			return fmt.Errorf("select list: %w", err)
		}

		var members []memberRow
		if err := tx.SelectContext(ctx, &members, memberSelect, listID); err != nil {
			return fmt.Errorf("select members: %w", err)
		}

		accolades, err := accoladesByItem(ctx, tx, listID)
		if err != nil {
			return err
		}

		ts := now()
		doc := model.SnapshotDocument{
			ListMetadata: model.SnapshotListMetadata{
				ID:          list.ID,
				Title:       list.Title,
				Category:    model.Category(list.Category),
				Subcategory: list.Subcategory,
				OwnerID:     uuidPtr(list.OwnerID),
				MaxSize:     list.MaxSize,
				MemberCount: len(members),
				TakenAt:     ts,
			},
			Members: make([]model.SnapshotMember, 0, len(members)),
		}
		for _, member := range members {
			accs := accolades[member.itemRow.ID]
			if accs == nil {
				accs = []model.Accolade{}
			}
			doc.Members = append(doc.Members, model.SnapshotMember{
				Rank:      member.Rank,
				Item:      member.itemRow.toModel(),
				Accolades: accs,
			})
		}

		payload, err := json.Marshal(doc)
		if err != nil {
			return fmt.Errorf("encode snapshot: %w", err)
		}

		var version int
		err = tx.GetContext(ctx, &version,
			`SELECT COALESCE(MAX(version), 0) + 1 FROM list_versions WHERE list_id = ?`, listID)
		if err != nil {
			return fmt.Errorf("next version: %w", err)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO list_versions (list_id, version, snapshot, description, author_id, created_at)
			VALUES (?, ?, ?, ?, ?, ?)`,
			listID, version, string(payload), description, nullUUID(authorID), ts)
		if err != nil {
			return fmt.Errorf("insert version: %w", err)
		}

		created = model.ListVersion{
			ListID:      listID,
			Version:     version,
			Snapshot:    payload,
			Description: description,
			AuthorID:    authorID,
			CreatedAt:   ts,
		}
		return nil
	})
	if err != nil {
		return model.ListVersion{}, err
	}

	metrics.RecordSnapshotCreated()
	return created, nil
}

// GetVersion returns one stored snapshot including its payload.
func (s *SQLiteStore) GetVersion(ctx context.Context, listID uuid.UUID, version int) (model.ListVersion, error) {
	defer observeQuery(time.Now())

	exists, err := listExists(ctx, s.db, listID)
	if err != nil {
		return model.ListVersion{}, err
	}
	if !exists {
		metrics.RecordErrorByComponent("repository", "not_found")
		return model.ListVersion{}, ErrListNotFound
	}

	var row versionRow
	err = s.db.GetContext(ctx, &row,
		`SELECT * FROM list_versions WHERE list_id = ? AND version = ?`, listID, version)
	if errors.Is(err, sql.ErrNoRows) {
		metrics.RecordErrorByComponent("repository", "not_found")
		return model.ListVersion{}, ErrVersionNotFound
	}
	if err != nil {
		return model.ListVersion{}, fmt.Errorf("select version: %w", err)
	}
	return row.toModel(), nil
}

// ListVersions returns the list's snapshot metadata newest first. The
// payloads stay in the database; fetch one with GetVersion.
func (s *SQLiteStore) ListVersions(ctx context.Context, listID uuid.UUID) ([]model.ListVersion, error) {
	defer observeQuery(time.Now())

	exists, err := listExists(ctx, s.db, listID)
	if err != nil {
		return nil, err
	}
	if !exists {
		metrics.RecordErrorByComponent("repository", "not_found")
		return nil, ErrListNotFound
	}

	var rows []versionRow
	err = s.db.SelectContext(ctx, &rows, `
		SELECT list_id, version, description, author_id, created_at
		FROM list_versions WHERE list_id = ? ORDER BY version DESC`, listID)
	if err != nil {
		return nil, fmt.Errorf("select versions: %w", err)
	}

	versions := make([]model.ListVersion, 0, len(rows))
	for _, row := range rows {
		versions = append(versions, row.toModel())
	}
	return versions, nil
}

// accoladesByItem loads the accolades of every item in the list, keyed
// by item id.
func accoladesByItem(ctx context.Context, q sqlx.QueryerContext, listID uuid.UUID) (map[uuid.UUID][]model.Accolade, error) {
	var rows []accoladeRow
	err := sqlx.SelectContext(ctx, q, &rows, `
		SELECT a.id, a.item_id, a.type, a.name, a.value, a.created_at
		FROM accolades a
		JOIN list_members m ON m.item_id = a.item_id
		WHERE m.list_id = ?
		ORDER BY a.created_at ASC, a.id ASC`, listID)
	if err != nil {
		return nil, fmt.Errorf("select accolades: %w", err)
	}

	grouped := make(map[uuid.UUID][]model.Accolade, len(rows))
	for _, row := range rows {
		grouped[row.ItemID] = append(grouped[row.ItemID], row.toModel())
	}
	return grouped, nil
}
