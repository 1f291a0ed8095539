package store

import (
	"context"
	"fmt"

	"github.com/roach88/sewershed/internal/attrsql"
	"github.com/roach88/sewershed/internal/gis"
)

// AddColumns implements gis.AttributeWriter.
// All definitions are added in one transaction; on failure none are added.
func (s *Store) AddColumns(ctx context.Context, v gis.VectorRef, defs []string) error {
	table := TableName(v)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return toolError(fmt.Errorf("add columns: begin tx: %w", err))
	}
	defer tx.Rollback() // No-op if committed

	for _, def := range defs {
		if _, err := tx.ExecContext(ctx, fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s", table, def)); err != nil {
			return toolError(fmt.Errorf("add column %q to %s: %w", def, table, err))
		}
	}

	if err := tx.Commit(); err != nil {
		return toolError(fmt.Errorf("add columns: commit: %w", err))
	}
	return nil
}

// ExecuteScript implements gis.AttributeWriter.
//
// The script's statements run inside one transaction: either every UPDATE is
// applied or none is. The transaction boundaries come from database/sql
// rather than the script's BEGIN/END lines.
func (s *Store) ExecuteScript(ctx context.Context, info gis.DBInfo, script attrsql.Script) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return toolError(fmt.Errorf("execute script on %s: begin tx: %w", info.Table, err))
	}
	defer tx.Rollback() // No-op if committed

	for i, stmt := range script.Statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return toolError(fmt.Errorf("execute script on %s: statement %d: %w", info.Table, i+1, err))
		}
	}

	if err := tx.Commit(); err != nil {
		return toolError(fmt.Errorf("execute script on %s: commit: %w", info.Table, err))
	}
	return nil
}
