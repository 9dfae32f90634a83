// Package archive keeps generated executive briefings in a local SQLite
// database so they survive the session.
package archive

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"aghi-dashboard/internal/types"

	"github.com/goccy/go-json"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS briefings (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	target TEXT NOT NULL,
	generated TEXT NOT NULL,
	sections TEXT NOT NULL,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_briefings_target ON briefings(target);
`

// Entry is one stored briefing.
type Entry struct {
	ID       int64
	Briefing types.Briefing
	SavedAt  time.Time
}

// Store is a briefing archive backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens (creating if needed) the archive at path and applies the schema.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("archive path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating archive directory: %w", err)
	}
	db, err := sql.Open("sqlite", fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", path))
	if err != nil {
		return nil, fmt.Errorf("cannot open archive: %w", err)
	}
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to archive: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating archive tables: %w", err)
	}
	return &Store{db: db, path: path}, nil
}

// Path is the database file backing the store.
func (s *Store) Path() string { return s.path }

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveBriefing appends b to the archive.
func (s *Store) SaveBriefing(ctx context.Context, b types.Briefing) error {
	sections, err := json.Marshal(b.Sections)
	if err != nil {
		return fmt.Errorf("encoding briefing sections: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO briefings (target, generated, sections) VALUES (?, ?, ?)`,
		b.Target, b.Timestamp, string(sections))
	if err != nil {
		return fmt.Errorf("saving briefing for %s: %w", b.Target, err)
	}
	return nil
}

// List returns stored briefings, newest first. An empty target lists every
// region; limit <= 0 means no limit.
func (s *Store) List(ctx context.Context, target string, limit int) ([]Entry, error) {
	query := `SELECT id, target, generated, sections, created_at FROM briefings`
	var args []any
	if target != "" {
		query += ` WHERE target = ?`
		args = append(args, target)
	}
	query += ` ORDER BY id DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing briefings: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			e        Entry
			sections string
			savedAt  sql.NullString
		)
		if err := rows.Scan(&e.ID, &e.Briefing.Target, &e.Briefing.Timestamp, &sections, &savedAt); err != nil {
			return nil, fmt.Errorf("scanning briefing: %w", err)
		}
		if err := json.Unmarshal([]byte(sections), &e.Briefing.Sections); err != nil {
			return nil, fmt.Errorf("decoding briefing %d: %w", e.ID, err)
		}
		if savedAt.Valid {
			e.SavedAt = parseSavedAt(savedAt.String)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// parseSavedAt accepts both the SQLite CURRENT_TIMESTAMP text form and the
// RFC 3339 form the driver produces for DATETIME columns.
func parseSavedAt(v string) time.Time {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, v); err == nil {
			return t
		}
	}
	return time.Time{}
}
