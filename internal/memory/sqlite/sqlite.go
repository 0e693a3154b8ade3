package sqlite

import (
	"database/sql"
	"fmt"

	"repomanage/internal/memory"

	_ "modernc.org/sqlite"
)

// Backend implements memory.Backend on a single SQLite database
type Backend struct {
	db   *sql.DB
	path string
}

// New opens (or creates) the SQLite database at dbPath.
// Use ":memory:" for a volatile store in tests.
func New(dbPath string) (*Backend, error) {
	dsn := dbPath
	if dbPath != ":memory:" {
		dsn = "file:" + dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(FULL)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One connection keeps ":memory:" databases shared and serializes writers
	db.SetMaxOpenConns(1)

	b := &Backend{db: db, path: dbPath}
	if err := b.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return b, nil
}

func (b *Backend) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS region_cells (
		region INTEGER NOT NULL,
		key BLOB NOT NULL,
		value BLOB NOT NULL,
		PRIMARY KEY (region, key)
	) WITHOUT ROWID;
	`

	_, err := b.db.Exec(schema)
	return err
}

// Region returns the region handle for id
func (b *Backend) Region(id memory.MemoryID) memory.Region {
	return &region{db: b.db, id: id}
}

// Name returns the backend identifier
func (b *Backend) Name() string {
	return "sqlite"
}

// Path returns the database path the backend was opened with
func (b *Backend) Path() string {
	return b.path
}

// Close closes the database connection
func (b *Backend) Close() error {
	return b.db.Close()
}

// region is a view of region_cells filtered to one tag
type region struct {
	db *sql.DB
	id memory.MemoryID
}

func (r *region) ID() memory.MemoryID {
	return r.id
}

func (r *region) Get(key []byte) ([]byte, bool, error) {
	var value []byte
	err := r.db.QueryRow(`
		SELECT value FROM region_cells WHERE region = ? AND key = ?
	`, int(r.id), key).Scan(&value)

	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read %s cell: %w", r.id, err)
	}
	return value, true, nil
}

func (r *region) Put(key, value []byte) error {
	_, err := r.db.Exec(`
		INSERT INTO region_cells (region, key, value)
		VALUES (?, ?, ?)
		ON CONFLICT(region, key) DO UPDATE SET value = excluded.value
	`, int(r.id), key, value)

	if err != nil {
		return fmt.Errorf("failed to write %s cell: %w", r.id, err)
	}
	return nil
}

func (r *region) Delete(key []byte) ([]byte, bool, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var prior []byte
	err = tx.QueryRow(`
		SELECT value FROM region_cells WHERE region = ? AND key = ?
	`, int(r.id), key).Scan(&prior)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read %s cell: %w", r.id, err)
	}

	if _, err := tx.Exec(`
		DELETE FROM region_cells WHERE region = ? AND key = ?
	`, int(r.id), key); err != nil {
		return nil, false, fmt.Errorf("failed to delete %s cell: %w", r.id, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, false, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return prior, true, nil
}

func (r *region) Ascend(fn func(key, value []byte) bool) error {
	rows, err := r.db.Query(`
		SELECT key, value FROM region_cells WHERE region = ? ORDER BY key
	`, int(r.id))
	if err != nil {
		return fmt.Errorf("failed to query %s cells: %w", r.id, err)
	}

	// Cells are drained before calling fn so callbacks may read other regions
	// through the single pooled connection.
	cells, err := scanCells(rows)
	if err != nil {
		return fmt.Errorf("failed to scan %s cells: %w", r.id, err)
	}

	for _, c := range cells {
		if !fn(c.key, c.value) {
			break
		}
	}
	return nil
}

func (r *region) Stats() (memory.RegionStats, error) {
	var entries, size int64
	err := r.db.QueryRow(`
		SELECT COUNT(*), COALESCE(SUM(LENGTH(value)), 0)
		FROM region_cells WHERE region = ?
	`, int(r.id)).Scan(&entries, &size)
	if err != nil {
		return memory.RegionStats{}, fmt.Errorf("failed to stat %s: %w", r.id, err)
	}
	return memory.RegionStats{Entries: uint64(entries), Bytes: uint64(size)}, nil
}
