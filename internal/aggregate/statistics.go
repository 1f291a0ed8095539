package aggregate

import (
	"context"

	"github.com/roach88/sewershed/internal/gis"
)

// ReadWriter reads grouped attributes and writes results.
type ReadWriter interface {
	gis.AttributeReader
	gis.AttributeWriter
}

// StatisticsToOneVector aggregates full SQL expressions over layer 1 of
// input grouped by groupColumn and writes the results to layer 1 of output.
// Group values are quoted. resultColumns must be "name type" definitions.
func StatisticsToOneVector(ctx context.Context, rw ReadWriter, input, groupColumn string,
	aggregateExprs, resultColumns []string, output string) error {
	plan, err := Aggregate(ctx, rw,
		gis.VectorRef{Name: input, Layer: gis.DefaultLayer},
		groupColumn,
		true,
		aggregateExprs,
		nil,
		resultColumns)
	if err != nil {
		return err
	}
	return NewApplier(rw).Apply(ctx, gis.VectorRef{Name: output, Layer: gis.DefaultLayer}, plan)
}
