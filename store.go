package spacetraveling

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Page is a generated post page.
type Page struct {
	Key         string
	HTML        []byte
	GeneratedAt time.Time
}

// PageStore persists generated pages between requests and restarts.
type PageStore interface {
	Get(ctx context.Context, key string) (Page, bool, error)
	Put(ctx context.Context, p Page) error
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context) ([]string, error)
	Close() error
}

// Store wraps a SQLite database holding generated pages.
type Store struct {
	db *sql.DB
}

var _ PageStore = (*Store)(nil)

// NewStore opens (or creates) the SQLite database at path, ensures the data
// directory exists, and runs schema migrations.
func NewStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL lets readers proceed while a regeneration writes; busy_timeout makes
	// writers wait instead of failing with SQLITE_BUSY.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
		PRAGMA cache_size=-8000;
	`); err != nil {
		db.Close()
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS pages (
    key TEXT PRIMARY KEY,
    html BLOB NOT NULL,
    generated_at INTEGER NOT NULL
);
`)
	return err
}

// Get returns the page stored under key. The boolean is false when there is
// no such page.
func (s *Store) Get(ctx context.Context, key string) (Page, bool, error) {
	var html []byte
	var generated int64
	err := s.db.QueryRowContext(ctx, `SELECT html, generated_at FROM pages WHERE key = ?`, key).
		Scan(&html, &generated)
	if errors.Is(err, sql.ErrNoRows) {
		return Page{}, false, nil
	}
	if err != nil {
		return Page{}, false, err
	}
	return Page{Key: key, HTML: html, GeneratedAt: time.UnixMilli(generated)}, true, nil
}

// Put upserts a page.
func (s *Store) Put(ctx context.Context, p Page) error {
	_, err := s.db.ExecContext(ctx, `INSERT OR REPLACE INTO pages (key, html, generated_at) VALUES (?, ?, ?)`,
		p.Key, p.HTML, p.GeneratedAt.UnixMilli())
	return err
}

// Delete removes a page by key. Deleting a missing page is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM pages WHERE key = ?`, key)
	return err
}

// Keys returns the keys of all stored pages in ascending order.
func (s *Store) Keys(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key FROM pages ORDER BY key`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}
