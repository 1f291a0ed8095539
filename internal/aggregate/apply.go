package aggregate

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roach88/sewershed/internal/attrsql"
	"github.com/roach88/sewershed/internal/gis"
)

// Applier writes a Plan to an output attribute table.
type Applier struct {
	writer gis.AttributeWriter
}

// NewApplier creates an Applier writing through writer.
func NewApplier(writer gis.AttributeWriter) *Applier {
	return &Applier{writer: writer}
}

// Apply adds the plan's columns to output in one request, resolves the
// output table and executes the compiled update script against it.
//
// Every failure is returned as (or wrapping) *gis.ExternalToolError. Columns
// added before a failing script are not removed.
func (a *Applier) Apply(ctx context.Context, output gis.VectorRef, plan Plan) error {
	if len(plan.AddColumns) > 0 {
		slog.Debug("adding columns", "map", output.Name, "columns", len(plan.AddColumns))
		if err := a.writer.AddColumns(ctx, output, plan.AddColumns); err != nil {
			return fmt.Errorf("add columns to %s: %w", output.Name, asToolError("add columns", err))
		}
	}

	info, err := a.writer.TableInfo(ctx, output)
	if err != nil {
		return fmt.Errorf("resolve table of %s: %w", output.Name, asToolError("table info", err))
	}

	script := attrsql.Compile(info.Table, plan.Updates)
	slog.Debug("executing update script",
		"table", info.Table,
		"driver", info.Driver,
		"statements", script.Len())

	if err := a.writer.ExecuteScript(ctx, info, script); err != nil {
		return fmt.Errorf("update %s: %w", info.Table, asToolError("execute", err))
	}
	return nil
}

// Script compiles the plan for output without applying it.
func (a *Applier) Script(ctx context.Context, output gis.VectorRef, plan Plan) (attrsql.Script, error) {
	info, err := a.writer.TableInfo(ctx, output)
	if err != nil {
		return attrsql.Script{}, fmt.Errorf("resolve table of %s: %w", output.Name, asToolError("table info", err))
	}
	return attrsql.Compile(info.Table, plan.Updates), nil
}

func asToolError(tool string, err error) error {
	if gis.IsExternalToolError(err) {
		return err
	}
	return gis.NewToolError(tool, err)
}
