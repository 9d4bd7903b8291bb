package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	sqlite "modernc.org/sqlite"

	"github.com/xkazm04/nenet/pkg/metrics"
)

// Primary SQLite result codes signalling write contention.
const (
	sqliteBusy   = 5
	sqliteLocked = 6
)

const defaultBusyTimeout = 5 * time.Second

// SQLiteStore persists the ranked list state in a single SQLite file.
// The database runs in WAL mode so reads proceed while a writer holds
// the file. Mutations touching one list's members additionally hold a
// per-list mutex so rank shifts never interleave.
type SQLiteStore struct {
	db           *sqlx.DB
	listLocks    sync.Map // uuid.UUID -> *sync.Mutex
	busyTimeout  time.Duration
	maxOpenConns int
}

// New opens (or creates) the database at path, applies the schema and
// returns a ready store.
func New(path string, opts ...Option) (*SQLiteStore, error) {
	s := &SQLiteStore{
		busyTimeout: defaultBusyTimeout,
	}

	for _, opt := range opts {
		opt(s)
	}

	dsn := fmt.Sprintf(
		"%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(%d)&_pragma=foreign_keys(1)&_txlock=immediate",
		path, s.busyTimeout.Milliseconds(),
	)

	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	if s.maxOpenConns > 0 {
		db.SetMaxOpenConns(s.maxOpenConns)
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	s.db = db
	return s, nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Counts reports row totals across the engine's tables.
func (s *SQLiteStore) Counts(ctx context.Context) (Counts, error) {
	defer observeQuery(time.Now())

	const query = `
SELECT
    (SELECT COUNT(*) FROM items)         AS items,
    (SELECT COUNT(*) FROM lists)         AS lists,
    (SELECT COUNT(*) FROM list_members)  AS memberships,
    (SELECT COUNT(*) FROM votes)         AS votes,
    (SELECT COUNT(*) FROM list_versions) AS versions`

	var counts Counts
	if err := s.db.GetContext(ctx, &counts, query); err != nil {
		return Counts{}, fmt.Errorf("count rows: %w", err)
	}
	return counts, nil
}

// listLock returns the mutation mutex for one list, creating it on
// first use. Locks are never removed; a list id costs a few words.
func (s *SQLiteStore) listLock(id uuid.UUID) *sync.Mutex {
	lock, _ := s.listLocks.LoadOrStore(id, &sync.Mutex{})
	return lock.(*sync.Mutex)
}

// withListTx runs fn inside an immediate transaction while holding the
// list's mutation lock.
func (s *SQLiteStore) withListTx(ctx context.Context, listID uuid.UUID, fn func(tx *sqlx.Tx) error) error {
	lock := s.listLock(listID)
	lock.Lock()
	defer lock.Unlock()

	return s.withTx(ctx, fn)
}

// withTx runs fn inside an immediate transaction, rolling back on error.
func (s *SQLiteStore) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return mapSQLiteErr(fmt.Errorf("begin tx: %w", err))
	}

	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return mapSQLiteErr(err)
	}

	if err := tx.Commit(); err != nil {
		return mapSQLiteErr(fmt.Errorf("commit tx: %w", err))
	}
	return nil
}

// mapSQLiteErr converts locked-database errors into ErrConflict so
// callers can treat them as retryable. Everything else passes through.
func mapSQLiteErr(err error) error {
	if err == nil {
		return nil
	}

	var se *sqlite.Error
	if errors.As(err, &se) {
		// Extended codes such as SQLITE_BUSY_SNAPSHOT carry the
		// primary code in the low byte.
		switch se.Code() & 0xff {
		case sqliteBusy, sqliteLocked:
			metrics.RecordRankConflict()
			metrics.RecordErrorByComponent("repository", "conflict")
			return fmt.Errorf("%w: %v", ErrConflict, err)
		}
	}
	return err
}

// observeQuery records the latency of one store operation.
func observeQuery(start time.Time) {
	metrics.RecordRepositoryQueryLatency(float64(time.Since(start).Milliseconds()))
}

// now returns the current wall clock. All persisted timestamps are UTC.
func now() time.Time {
	return time.Now().UTC()
}
