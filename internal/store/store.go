// Package store persists the user-selected zone set in a local SQLite
// database, so the display set survives restarts. It sits entirely outside
// the grid engine: zones are validated by the engine before they ever reach
// the store, and a missing database simply yields the default zone set.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver.
)

// DefaultFile is the conventional database location inside the data dir.
const DefaultFile = "meridian.db"

// schema contains the DDL executed on first open. Using IF NOT EXISTS makes
// it safe to run on every startup.
const schema = `
CREATE TABLE IF NOT EXISTS zones (
    id         TEXT PRIMARY KEY,
    name       TEXT NOT NULL DEFAULT '',
    country    TEXT NOT NULL DEFAULT '',
    latitude   REAL NOT NULL DEFAULT 0,
    longitude  REAL NOT NULL DEFAULT 0,
    has_coords INTEGER NOT NULL DEFAULT 0,
    position   INTEGER NOT NULL,
    added_at   TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// Zone is one persisted display-set row. Mars zone details (longitude,
// rover) are not stored: they come from the catalog at registration.
type Zone struct {
	ID        string
	Name      string
	Country   string
	Latitude  float64
	Longitude float64
	HasCoords bool
	Position  int
}

// Store is the SQLite-backed zone set.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at dbPath, enables WAL mode and busy
// timeout, and creates the schema if needed.
func Open(ctx context.Context, dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("store: create data dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("store: open database: %w", err)
	}

	// One connection: SQLite has a single writer, and pooled connections
	// would each need their own PRAGMA setup.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: enable WAL mode: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: set busy timeout: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: create schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// List returns the zone set ordered by display position.
func (s *Store) List(ctx context.Context) ([]Zone, error) {
	const q = `
		SELECT id, name, country, latitude, longitude, has_coords, position
		FROM zones ORDER BY position, id`
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("store: list zones: %w", err)
	}
	defer rows.Close()

	var out []Zone
	for rows.Next() {
		var z Zone
		var hasCoords int
		if err := rows.Scan(&z.ID, &z.Name, &z.Country, &z.Latitude, &z.Longitude, &hasCoords, &z.Position); err != nil {
			return nil, fmt.Errorf("store: scan zone: %w", err)
		}
		z.HasCoords = hasCoords != 0
		out = append(out, z)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: iterate zones: %w", err)
	}
	return out, nil
}

// Add upserts a zone at the end of the display order (or at its existing
// position when re-added).
func (s *Store) Add(ctx context.Context, z Zone) error {
	const q = `
		INSERT INTO zones (id, name, country, latitude, longitude, has_coords, position)
		VALUES (?, ?, ?, ?, ?, ?,
			COALESCE((SELECT position FROM zones WHERE id = ?),
			         (SELECT COALESCE(MAX(position), -1) + 1 FROM zones)))
		ON CONFLICT(id) DO UPDATE SET
			name       = excluded.name,
			country    = excluded.country,
			latitude   = excluded.latitude,
			longitude  = excluded.longitude,
			has_coords = excluded.has_coords`
	hasCoords := 0
	if z.HasCoords {
		hasCoords = 1
	}
	if _, err := s.db.ExecContext(ctx, q, z.ID, z.Name, z.Country, z.Latitude, z.Longitude, hasCoords, z.ID); err != nil {
		return fmt.Errorf("store: add zone %q: %w", z.ID, err)
	}
	return nil
}

// Remove deletes a zone from the set. Removing an unknown zone is a no-op.
func (s *Store) Remove(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM zones WHERE id = ?", id); err != nil {
		return fmt.Errorf("store: remove zone %q: %w", id, err)
	}
	return nil
}

// Count returns the number of persisted zones.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM zones").Scan(&n); err != nil {
		return 0, fmt.Errorf("store: count zones: %w", err)
	}
	return n, nil
}
