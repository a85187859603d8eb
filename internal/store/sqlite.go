// Package store persists the user's calendar, todo, journal, and insight
// state in SQLite. It is the only layer that mutates domain state; the
// pipeline reaches it exclusively through explicit execute calls.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"haru/internal/logging"
	"haru/internal/types"
)

// ErrNotFound reports that a referenced row does not exist.
var ErrNotFound = errors.New("not found")

// Store wraps the SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path and runs migrations.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS events (
		id         TEXT PRIMARY KEY,
		title      TEXT NOT NULL,
		date       TEXT NOT NULL,
		start_time TEXT NOT NULL DEFAULT '',
		end_time   TEXT NOT NULL DEFAULT '',
		tag        TEXT NOT NULL DEFAULT 'personal',
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_events_date ON events(date, start_time);

	CREATE TABLE IF NOT EXISTS todos (
		id         TEXT PRIMARY KEY,
		text       TEXT NOT NULL,
		category   TEXT NOT NULL DEFAULT 'personal',
		due_date   TEXT NOT NULL DEFAULT '',
		done       INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_todos_done ON todos(done, created_at);

	CREATE TABLE IF NOT EXISTS journal (
		id         TEXT PRIMARY KEY,
		title      TEXT NOT NULL,
		content    TEXT NOT NULL,
		mood       TEXT NOT NULL DEFAULT 'neutral',
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_journal_created ON journal(created_at DESC);

	CREATE TABLE IF NOT EXISTS insights (
		id         TEXT PRIMARY KEY,
		title      TEXT NOT NULL,
		content    TEXT NOT NULL,
		created_at TEXT NOT NULL
	);`
	_, err := s.db.Exec(schema)
	return err
}

func newID() string {
	return uuid.NewString()
}

// =============================================================================
// EVENTS
// =============================================================================

// AddEvent inserts a calendar event, assigning an ID when absent.
func (s *Store) AddEvent(ctx context.Context, ev types.CalendarEvent) (types.CalendarEvent, error) {
	if ev.ID == "" {
		ev.ID = newID()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO events (id, title, date, start_time, end_time, tag, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		ev.ID, ev.Title, ev.Date, ev.StartTime, ev.EndTime, ev.Tag, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		logging.StoreError("add event: %v", err)
		return types.CalendarEvent{}, fmt.Errorf("add event: %w", err)
	}
	logging.Store("event added id=%s date=%s", ev.ID, ev.Date)
	return ev, nil
}

// DeleteEvent removes the event with the given ID. Returns ErrNotFound when
// no row matches.
func (s *Store) DeleteEvent(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id)
	if err != nil {
		logging.StoreError("delete event %s: %v", id, err)
		return fmt.Errorf("delete event: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	logging.Store("event deleted id=%s", id)
	return nil
}

// ListEvents returns all events in chronological order.
func (s *Store) ListEvents(ctx context.Context) ([]types.CalendarEvent, error) {
	return s.queryEvents(ctx, `SELECT id, title, date, start_time, end_time, tag FROM events ORDER BY date, start_time`)
}

// ListUpcomingEvents returns at most limit events on or after from
// (YYYY-MM-DD), soonest first.
func (s *Store) ListUpcomingEvents(ctx context.Context, from string, limit int) ([]types.CalendarEvent, error) {
	return s.queryEvents(ctx,
		`SELECT id, title, date, start_time, end_time, tag FROM events WHERE date >= ? ORDER BY date, start_time LIMIT ?`,
		from, limit)
}

func (s *Store) queryEvents(ctx context.Context, query string, args ...any) ([]types.CalendarEvent, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var out []types.CalendarEvent
	for rows.Next() {
		var ev types.CalendarEvent
		if err := rows.Scan(&ev.ID, &ev.Title, &ev.Date, &ev.StartTime, &ev.EndTime, &ev.Tag); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}

// =============================================================================
// TODOS
// =============================================================================

// AddTodo inserts a todo item.
func (s *Store) AddTodo(ctx context.Context, t types.TodoItem) (types.TodoItem, error) {
	if t.ID == "" {
		t.ID = newID()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO todos (id, text, category, due_date, done, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		t.ID, t.Text, t.Category, t.DueDate, boolToInt(t.Done), t.CreatedAt.Format(time.RFC3339))
	if err != nil {
		logging.StoreError("add todo: %v", err)
		return types.TodoItem{}, fmt.Errorf("add todo: %w", err)
	}
	logging.Store("todo added id=%s", t.ID)
	return t, nil
}

// ListPendingTodos returns at most limit not-done todos, oldest first.
func (s *Store) ListPendingTodos(ctx context.Context, limit int) ([]types.TodoItem, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, text, category, due_date, done, created_at FROM todos WHERE done = 0 ORDER BY created_at LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query todos: %w", err)
	}
	defer rows.Close()

	var out []types.TodoItem
	for rows.Next() {
		var t types.TodoItem
		var done int
		var created string
		if err := rows.Scan(&t.ID, &t.Text, &t.Category, &t.DueDate, &done, &created); err != nil {
			return nil, fmt.Errorf("scan todo: %w", err)
		}
		t.Done = done != 0
		t.CreatedAt, _ = time.Parse(time.RFC3339, created)
		out = append(out, t)
	}
	return out, rows.Err()
}

// =============================================================================
// JOURNAL
// =============================================================================

// AddJournal inserts a journal entry.
func (s *Store) AddJournal(ctx context.Context, j types.JournalEntry) (types.JournalEntry, error) {
	if j.ID == "" {
		j.ID = newID()
	}
	if j.CreatedAt.IsZero() {
		j.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO journal (id, title, content, mood, created_at) VALUES (?, ?, ?, ?, ?)`,
		j.ID, j.Title, j.Content, j.Mood, j.CreatedAt.Format(time.RFC3339))
	if err != nil {
		logging.StoreError("add journal: %v", err)
		return types.JournalEntry{}, fmt.Errorf("add journal: %w", err)
	}
	logging.Store("journal added id=%s mood=%s", j.ID, j.Mood)
	return j, nil
}

// ListRecentJournal returns at most limit entries, newest first.
func (s *Store) ListRecentJournal(ctx context.Context, limit int) ([]types.JournalEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, content, mood, created_at FROM journal ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query journal: %w", err)
	}
	defer rows.Close()

	var out []types.JournalEntry
	for rows.Next() {
		var j types.JournalEntry
		var created string
		if err := rows.Scan(&j.ID, &j.Title, &j.Content, &j.Mood, &created); err != nil {
			return nil, fmt.Errorf("scan journal: %w", err)
		}
		j.CreatedAt, _ = time.Parse(time.RFC3339, created)
		out = append(out, j)
	}
	return out, rows.Err()
}

// =============================================================================
// INSIGHTS
// =============================================================================

// SaveInsight persists a generated insight post.
func (s *Store) SaveInsight(ctx context.Context, p types.InsightPost) (types.InsightPost, error) {
	if p.ID == "" {
		p.ID = newID()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO insights (id, title, content, created_at) VALUES (?, ?, ?, ?)`,
		p.ID, p.Title, p.Content, p.CreatedAt.Format(time.RFC3339))
	if err != nil {
		logging.StoreError("save insight: %v", err)
		return types.InsightPost{}, fmt.Errorf("save insight: %w", err)
	}
	logging.Store("insight saved id=%s", p.ID)
	return p, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
