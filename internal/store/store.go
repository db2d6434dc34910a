// Package store provides the SQLite-backed entry repository.
package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/visperhq/visper/internal/models"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS entries (
	id                 TEXT PRIMARY KEY,
	user_id            TEXT NOT NULL,
	type               TEXT NOT NULL,
	source             TEXT NOT NULL DEFAULT 'raw',
	raw_text           TEXT NOT NULL DEFAULT '',
	improved_text      TEXT NOT NULL DEFAULT '',
	tags               TEXT NOT NULL DEFAULT '[]',
	entities           TEXT NOT NULL DEFAULT '[]',
	sentiment          TEXT NOT NULL DEFAULT '',
	quality_score      REAL NOT NULL DEFAULT 0,
	topics             TEXT NOT NULL DEFAULT '[]',
	keywords           TEXT NOT NULL DEFAULT '[]',
	category           TEXT NOT NULL DEFAULT '',
	url                TEXT NOT NULL DEFAULT '',
	url_title          TEXT NOT NULL DEFAULT '',
	url_domain         TEXT NOT NULL DEFAULT '',
	url_author         TEXT NOT NULL DEFAULT '',
	url_checksum       TEXT NOT NULL DEFAULT '',
	summary            TEXT NOT NULL DEFAULT '',
	key_points         TEXT NOT NULL DEFAULT '[]',
	quotes             TEXT NOT NULL DEFAULT '[]',
	image_url          TEXT NOT NULL DEFAULT '',
	image_storage_path TEXT NOT NULL DEFAULT '',
	image_description  TEXT NOT NULL DEFAULT '',
	image_objects      TEXT NOT NULL DEFAULT '[]',
	image_scene        TEXT NOT NULL DEFAULT '',
	image_mood         TEXT NOT NULL DEFAULT '',
	image_colors       TEXT NOT NULL DEFAULT '[]',
	image_metadata     TEXT NOT NULL DEFAULT '',
	timezone           TEXT NOT NULL DEFAULT '',
	device             TEXT NOT NULL DEFAULT '',
	created_at         DATETIME NOT NULL,
	updated_at         DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_entries_user_created ON entries(user_id, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_entries_user_type ON entries(user_id, type);
`

// Filter narrows ListByOwner results. Zero values mean "no constraint".
//
// From/To are applied as a post-fetch step over the already limit-bounded
// result set: the store orders by creation time with an index and cannot
// combine that with an arbitrary range scan in one query. When the
// unfiltered set is truncated by Limit before filtering, fewer matches
// than truly exist within range may be returned.
type Filter struct {
	Type      models.EntryType
	Tag       string
	Sentiment models.Sentiment
	From      time.Time
	To        time.Time
	Limit     int
}

// EntryStore is the repository interface consumed by the journal service.
type EntryStore interface {
	Create(e *models.Entry) (*models.Entry, error)
	Get(id string) (*models.Entry, error)
	ListByOwner(ownerID string, f Filter) ([]models.Entry, error)
	Delete(id, requesterID string) error
	Close() error
}

// Verify *DB satisfies EntryStore at compile time.
var _ EntryStore = (*DB)(nil)

// DB wraps a sql.DB with entry repository operations.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database and applies the schema.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("store: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: apply schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
