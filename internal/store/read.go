package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/roach88/sewershed/internal/attr"
	"github.com/roach88/sewershed/internal/gis"
)

// SelectGrouped implements gis.AttributeReader.
//
// Executes SELECT group, exprs... FROM table GROUP BY group ORDER BY group.
// Values are read positionally, so identical expressions are allowed.
func (s *Store) SelectGrouped(ctx context.Context, v gis.VectorRef, groupColumn string, exprs []string) ([]attr.Record, error) {
	query := GroupedQuery(TableName(v), groupColumn, exprs)

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, toolError(fmt.Errorf("select grouped: %w", err))
	}
	defer rows.Close()

	var records []attr.Record
	for rows.Next() {
		raw := make([]any, len(exprs)+1)
		ptrs := make([]any, len(raw))
		for i := range raw {
			ptrs[i] = &raw[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, toolError(fmt.Errorf("select grouped: scan: %w", err))
		}

		rec, err := toRecord(raw)
		if err != nil {
			return nil, toolError(fmt.Errorf("select grouped: %w", err))
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, toolError(fmt.Errorf("select grouped: %w", err))
	}

	return records, nil
}

// GroupedQuery builds the grouped select statement for table.
func GroupedQuery(table, groupColumn string, exprs []string) string {
	columns := append([]string{groupColumn}, exprs...)
	return fmt.Sprintf("SELECT %s FROM %s GROUP BY %s ORDER BY %s",
		strings.Join(columns, ", "),
		table,
		groupColumn,
		groupColumn)
}

func toRecord(raw []any) (attr.Record, error) {
	group, err := attr.FromGo(raw[0])
	if err != nil {
		return attr.Record{}, err
	}
	values := make([]attr.Value, len(raw)-1)
	for i, r := range raw[1:] {
		v, err := attr.FromGo(r)
		if err != nil {
			return attr.Record{}, err
		}
		values[i] = v
	}
	return attr.Record{Group: group, Values: values}, nil
}
