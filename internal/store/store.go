// Package store provides SQLite-backed persistence for notes and action items.
// Uses ncruces/go-sqlite3/driver which provides a database/sql interface.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// ErrNotFound is returned when an update targets an id that does not exist.
var ErrNotFound = errors.New("action item not found")

// Store is the SQLite-backed data store. Writes are serialized by a mutex so
// concurrent extraction requests cannot interleave within a batch insert.
type Store struct {
	mu sync.RWMutex
	db *sql.DB
}

// schema is applied on every open; all statements are create-if-absent.
const schema = `
CREATE TABLE IF NOT EXISTS notes (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    content TEXT NOT NULL,
    created_at TEXT NOT NULL
);

-- note_id is a weak reference: no foreign key, no deletion cascade.
-- Items referencing a removed note would be orphaned; note deletion is
-- out of scope so the reference is only guaranteed valid at insert time.
CREATE TABLE IF NOT EXISTS action_items (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    note_id INTEGER,
    text TEXT NOT NULL,
    done INTEGER NOT NULL DEFAULT 0,
    created_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_action_items_note ON action_items(note_id);
`

// Open creates a store backed by the given data source name and ensures the
// schema exists. Use ":memory:" for an in-memory store or a file path for
// persistent storage. Safe to call on every process start.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// InsertNote inserts a new note and returns its assigned id.
func (s *Store) InsertNote(ctx context.Context, content string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO notes (content, created_at) VALUES (?, ?)`,
		content, now())
	if err != nil {
		return 0, fmt.Errorf("failed to insert note: %w", err)
	}
	return res.LastInsertId()
}

// InsertActionItems inserts one record per item, all sharing the same note id
// (or none), each with done=false. The returned ids are in input order so
// callers can correlate items positionally. An empty input returns an empty
// id list without touching the database.
func (s *Store) InsertActionItems(ctx context.Context, texts []string, noteID *int64) ([]int64, error) {
	if len(texts) == 0 {
		return []int64{}, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO action_items (note_id, text, done, created_at) VALUES (?, ?, 0, ?)`)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	createdAt := now()
	ids := make([]int64, 0, len(texts))
	for _, text := range texts {
		res, err := stmt.ExecContext(ctx, nullableID(noteID), text, createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to insert action item: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return nil, fmt.Errorf("failed to read inserted id: %w", err)
		}
		ids = append(ids, id)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit action items: %w", err)
	}
	return ids, nil
}

// ListNotes returns all notes in creation order.
func (s *Store) ListNotes(ctx context.Context) ([]Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, content, created_at FROM notes ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	defer rows.Close()

	notes := []Note{}
	for rows.Next() {
		var n Note
		if err := rows.Scan(&n.ID, &n.Content, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan note: %w", err)
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

// ListActionItems returns all action items in creation order, or only those
// belonging to the given note when noteID is non-nil.
func (s *Store) ListActionItems(ctx context.Context, noteID *int64) ([]ActionItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `SELECT id, note_id, text, done, created_at FROM action_items`
	args := []any{}
	if noteID != nil {
		query += ` WHERE note_id = ?`
		args = append(args, *noteID)
	}
	query += ` ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list action items: %w", err)
	}
	defer rows.Close()

	return scanActionItems(rows)
}

// GetActionItems returns the items with the given ids, in the order the ids
// were passed. Ids with no matching row are skipped. This is the read-after-
// write path: ordering is enforced positionally rather than relying on
// auto-increment ordering.
func (s *Store) GetActionItems(ctx context.Context, ids []int64) ([]ActionItem, error) {
	if len(ids) == 0 {
		return []ActionItem{}, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, note_id, text, done, created_at FROM action_items WHERE id IN (`+placeholders+`)`,
		args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get action items: %w", err)
	}
	defer rows.Close()

	fetched, err := scanActionItems(rows)
	if err != nil {
		return nil, err
	}

	byID := make(map[int64]ActionItem, len(fetched))
	for _, item := range fetched {
		byID[item.ID] = item
	}

	items := make([]ActionItem, 0, len(ids))
	for _, id := range ids {
		if item, ok := byID[id]; ok {
			items = append(items, item)
		}
	}
	return items, nil
}

// SetActionItemDone updates the done flag of the item with the given id.
// Returns ErrNotFound when no such item exists.
func (s *Store) SetActionItemDone(ctx context.Context, id int64, done bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		`UPDATE action_items SET done = ? WHERE id = ?`, boolToInt(done), id)
	if err != nil {
		return fmt.Errorf("failed to update action item: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	return nil
}

func scanActionItems(rows *sql.Rows) ([]ActionItem, error) {
	items := []ActionItem{}
	for rows.Next() {
		var item ActionItem
		var noteID sql.NullInt64
		var done int
		if err := rows.Scan(&item.ID, &noteID, &item.Text, &done, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan action item: %w", err)
		}
		if noteID.Valid {
			item.NoteID = &noteID.Int64
		}
		item.Done = done != 0
		items = append(items, item)
	}
	return items, rows.Err()
}

// now returns the store-assigned timestamp string.
func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

func nullableID(id *int64) any {
	if id == nil {
		return nil
	}
	return *id
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
