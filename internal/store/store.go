package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/roach88/sewershed/internal/gis"
)

// Driver is the driver name reported in DBInfo.
const Driver = "sqlite"

// DefaultKey is the key column of GRASS attribute tables.
const DefaultKey = "cat"

// Store provides access to attribute tables in one SQLite database.
type Store struct {
	db   *sql.DB
	path string
}

var (
	_ gis.AttributeReader = (*Store)(nil)
	_ gis.AttributeWriter = (*Store)(nil)
)

// Open opens the SQLite database at path.
//
// The database is configured with:
//   - 5-second busy timeout for lock contention
//   - a single connection (SQLite allows one writer)
//
// The journal mode of the database is left untouched.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, toolError(fmt.Errorf("failed to open database: %w", err))
	}

	// Verify connection works
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, toolError(fmt.Errorf("failed to connect to database: %w", err))
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, toolError(fmt.Errorf("failed to apply pragmas: %w", err))
	}

	return &Store{db: db, path: path}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// DB returns the underlying sql.DB for direct queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// applyPragmas sets required SQLite configuration.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA busy_timeout = 5000",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	return nil
}

// TableName returns the attribute table of a vector layer.
func TableName(v gis.VectorRef) string {
	layer := v.LayerOrDefault()
	if layer == gis.DefaultLayer {
		return v.Name
	}
	return v.Name + "_" + layer
}

// TableInfo implements gis.AttributeWriter.
// Fails when the layer's table does not exist.
func (s *Store) TableInfo(ctx context.Context, v gis.VectorRef) (gis.DBInfo, error) {
	table := TableName(v)

	var name string
	err := s.db.QueryRowContext(ctx,
		"SELECT name FROM sqlite_master WHERE type='table' AND name=?",
		table,
	).Scan(&name)
	if err == sql.ErrNoRows {
		return gis.DBInfo{}, toolError(fmt.Errorf("table %s not found", table))
	}
	if err != nil {
		return gis.DBInfo{}, toolError(fmt.Errorf("look up table %s: %w", table, err))
	}

	return gis.DBInfo{
		Layer:    v.LayerOrDefault(),
		Name:     v.Name,
		Table:    name,
		Key:      DefaultKey,
		Database: s.path,
		Driver:   Driver,
	}, nil
}

func toolError(err error) error {
	return gis.NewToolError(Driver, err)
}
