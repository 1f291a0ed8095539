package store

import (
	"path/filepath"
	"testing"
)

// createTestStore creates a new store in a temporary directory.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sqlite.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// seedBlocks creates a census blocks table with a few rows.
func seedBlocks(t *testing.T, s *Store) {
	t.Helper()
	stmts := []string{
		`CREATE TABLE blocks (cat INTEGER PRIMARY KEY, State_Name TEXT, P0010001 INTEGER, P0010003 INTEGER)`,
		`INSERT INTO blocks VALUES (1, 'CA', 60, 30)`,
		`INSERT INTO blocks VALUES (2, 'CA', 40, 10)`,
		`INSERT INTO blocks VALUES (3, 'TX', 10, 5)`,
		`INSERT INTO blocks VALUES (4, NULL, 0, 0)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			t.Fatalf("seed %q: %v", stmt, err)
		}
	}
}
