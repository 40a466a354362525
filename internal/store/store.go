// Package store handles event persistence.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/evtrack/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Gateway is the event table the analytics pipeline reads from and writes to.
type Gateway interface {
	// FetchAllEvents returns every stored row in no particular order.
	FetchAllEvents(ctx context.Context) ([]model.RawEvent, error)
	// InsertEvent stores a single row.
	InsertEvent(ctx context.Context, ev model.RawEvent) error
}

// Store wraps SQLite access for event data.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

var _ Gateway = (*Store)(nil)

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db, now: time.Now}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS events (
			id TEXT PRIMARY KEY,
			event_name TEXT NOT NULL,
			event_date TEXT NOT NULL,
			notes TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_events_event_date ON events(event_date);`,
	}
	for i, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

// InsertEvent stores one event row. The store assigns the id.
func (s *Store) InsertEvent(ctx context.Context, ev model.RawEvent) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO events (id, event_name, event_date, notes, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		uuid.NewString(),
		ev.EventName,
		ev.EventDate,
		ev.Notes,
		s.now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

// InsertEvents stores several rows in one transaction.
func (s *Store) InsertEvents(ctx context.Context, events []model.RawEvent) (err error) {
	if len(events) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO events (id, event_name, event_date, notes, created_at)
		 VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := stmt.Close(); cerr != nil {
			// Best-effort statement close.
			_ = cerr
		}
	}()
	createdAt := s.now().UTC().Format(time.RFC3339Nano)
	for _, ev := range events {
		if _, err = stmt.ExecContext(ctx, uuid.NewString(), ev.EventName, ev.EventDate, ev.Notes, createdAt); err != nil {
			return fmt.Errorf("insert event %q: %w", ev.EventName, err)
		}
	}
	return tx.Commit()
}

// FetchAllEvents returns every event row in insertion order.
func (s *Store) FetchAllEvents(ctx context.Context) ([]model.RawEvent, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT event_name, event_date, notes FROM events ORDER BY rowid ASC`)
	if err != nil {
		return nil, fmt.Errorf("fetch events: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var events []model.RawEvent
	for rows.Next() {
		var ev model.RawEvent
		if err := rows.Scan(&ev.EventName, &ev.EventDate, &ev.Notes); err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

// CountEvents returns the number of stored rows with an optional name filter.
func (s *Store) CountEvents(ctx context.Context, names ...string) (int, error) {
	query := `SELECT COUNT(*) FROM events`
	args := make([]any, 0, len(names))
	if len(names) > 0 {
		placeholders := make([]string, len(names))
		for i, name := range names {
			placeholders[i] = "?"
			args = append(args, name)
		}
		query = fmt.Sprintf(`%s WHERE event_name IN (%s)`, query, strings.Join(placeholders, ","))
	}
	var n int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count events: %w", err)
	}
	return n, nil
}
