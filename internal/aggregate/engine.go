package aggregate

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roach88/sewershed/internal/attrsql"
	"github.com/roach88/sewershed/internal/gis"
)

// Plan is the result of a grouped aggregation: the updates to apply and the
// columns the output table must gain first.
type Plan struct {
	Updates    []attrsql.ColumnUpdate `json:"updates"`
	AddColumns []string               `json:"add_columns"`
}

// Engine computes grouped aggregates through an attribute reader.
type Engine struct {
	reader gis.AttributeReader
}

// NewEngine creates an Engine reading from reader.
func NewEngine(reader gis.AttributeReader) *Engine {
	return &Engine{reader: reader}
}

// Aggregate groups the attribute table of input by groupColumn, evaluates the
// spec's select expressions per group, and returns one update per
// (group, result column) pair.
//
// Group values are quoted in the row predicates only when quoteGroupValues
// is true; a null group value selects rows with "column IS NULL". Null
// aggregate results are kept as nulls.
func (e *Engine) Aggregate(ctx context.Context, input gis.VectorRef, groupColumn string, quoteGroupValues bool, spec Spec) (Plan, error) {
	exprs := spec.SelectExpressions()

	slog.Debug("querying grouped attributes",
		"map", input.Name,
		"layer", input.LayerOrDefault(),
		"group", groupColumn,
		"expressions", len(exprs))

	records, err := e.reader.SelectGrouped(ctx, input, groupColumn, exprs)
	if err != nil {
		return Plan{}, fmt.Errorf("aggregate %s: %w", input.Name, err)
	}

	updates := make([]attrsql.ColumnUpdate, 0, len(records)*len(spec.Columns))
	for i, rec := range records {
		if len(rec.Values) != len(exprs) {
			return Plan{}, fmt.Errorf("aggregate %s: %w", input.Name, gis.NewToolError("attribute query",
				fmt.Errorf("row %d has %d values, expected %d", i, len(rec.Values), len(exprs))))
		}
		where := attrsql.WhereForValue(groupColumn, rec.Group, quoteGroupValues)
		for j, col := range spec.Columns {
			updates = append(updates, attrsql.ColumnUpdate{
				Column: col.Name,
				Type:   col.Type,
				Value:  rec.Values[j],
				Where:  where,
			})
		}
	}

	slog.Debug("aggregation planned", "groups", len(records), "updates", len(updates))

	return Plan{Updates: updates, AddColumns: spec.AddColumns()}, nil
}

// Aggregate validates the arguments and runs a grouped aggregation.
// Methods may be nil, in which case aggregateExprs are full SQL expressions
// and resultColumns carry their types.
func Aggregate(ctx context.Context, reader gis.AttributeReader, input gis.VectorRef, groupColumn string,
	quoteGroupValues bool, aggregateExprs, methods, resultColumns []string) (Plan, error) {
	spec, err := NewSpec(aggregateExprs, methods, resultColumns)
	if err != nil {
		return Plan{}, err
	}
	return NewEngine(reader).Aggregate(ctx, input, groupColumn, quoteGroupValues, spec)
}
