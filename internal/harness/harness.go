package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/sewershed/internal/attr"
	"github.com/roach88/sewershed/internal/attrsql"
	"github.com/roach88/sewershed/internal/gis"
	"github.com/roach88/sewershed/internal/grass"
	"github.com/roach88/sewershed/internal/sewershed"
	"github.com/roach88/sewershed/internal/store"
	"github.com/roach88/sewershed/internal/testutil"
)

// scenarioCommandLine is recorded into the output history of every run.
const scenarioCommandLine = "sewershed delineate"

// sqliteEngine runs vector modules through a GRASS session and keeps
// attribute tables in a SQLite store.
type sqliteEngine struct {
	vectors gis.Vectors
	attrs   *store.Store
}

var _ gis.Engine = (*sqliteEngine)(nil)

func (e *sqliteEngine) Extract(ctx context.Context, req gis.ExtractRequest) error {
	return e.vectors.Extract(ctx, req)
}

func (e *sqliteEngine) Select(ctx context.Context, req gis.SelectRequest) error {
	return e.vectors.Select(ctx, req)
}

func (e *sqliteEngine) Dissolve(ctx context.Context, req gis.DissolveRequest) error {
	return e.vectors.Dissolve(ctx, req)
}

func (e *sqliteEngine) Remove(ctx context.Context, name string) error {
	return e.vectors.Remove(ctx, name)
}

func (e *sqliteEngine) History(ctx context.Context, name, cmdline string) error {
	return e.vectors.History(ctx, name, cmdline)
}

func (e *sqliteEngine) SelectGrouped(ctx context.Context, v gis.VectorRef, groupColumn string, exprs []string) ([]attr.Record, error) {
	return e.attrs.SelectGrouped(ctx, v, groupColumn, exprs)
}

func (e *sqliteEngine) AddColumns(ctx context.Context, v gis.VectorRef, defs []string) error {
	return e.attrs.AddColumns(ctx, v, defs)
}

func (e *sqliteEngine) TableInfo(ctx context.Context, v gis.VectorRef) (gis.DBInfo, error) {
	return e.attrs.TableInfo(ctx, v)
}

func (e *sqliteEngine) ExecuteScript(ctx context.Context, info gis.DBInfo, script attrsql.Script) error {
	return e.attrs.ExecuteScript(ctx, info, script)
}

// Run executes a scenario and returns the result.
//
// Execution flow:
//  1. Build a recorded GRASS session from the canned outputs and failures
//  2. Seed an in-memory attribute database if the scenario has attributes
//  3. Run the delineation with a fixed run id
//  4. Compare steps and error step with expect
//  5. Evaluate assertions
//
// A returned error means the scenario could not be executed; expectation
// failures are reported through Result.
func Run(scenario *Scenario) (*Result, error) {
	ctx := context.Background()

	rec := testutil.NewRecorder()
	for module, out := range scenario.Outputs {
		rec.Outputs[module] = out
	}
	for module, msg := range scenario.Failures {
		rec.Failures[module] = msg
	}
	session := grass.NewSession(rec)

	var (
		engine gis.Engine = session
		st     *store.Store
	)
	if scenario.Attributes != nil {
		var err error
		st, err = store.Open(":memory:")
		if err != nil {
			return nil, fmt.Errorf("failed to create in-memory store: %w", err)
		}
		defer st.Close()

		for i, stmt := range scenario.Attributes.SetupSQL {
			if _, err := st.DB().ExecContext(ctx, stmt); err != nil {
				return nil, fmt.Errorf("setup_sql[%d]: %w", i, err)
			}
		}
		engine = &sqliteEngine{vectors: session, attrs: st}
	}

	// Suppress run logs in tests
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
	defer slog.SetDefault(prev)

	orch := sewershed.New(engine,
		sewershed.WithRunIDGenerator(testutil.NewFixedRunID(scenario.RunID)),
		sewershed.WithTempNamer(func(prefix string) string { return prefix }))

	result := NewResult()
	res, runErr := orch.Run(ctx, scenario.Options.DelineateOptions(scenarioCommandLine))
	result.Trace = newTrace(rec.Commands())

	if runErr != nil {
		result.RunError = runErr.Error()
		var stepErr *sewershed.StepError
		if errors.As(runErr, &stepErr) {
			result.ErrorStep = string(stepErr.Step)
		}
	} else {
		for _, step := range res.Steps {
			result.Steps = append(result.Steps, string(step))
		}
	}

	checkExpect(scenario.Expect, result)

	actx := &AssertionContext{Store: st, Ctx: ctx}
	for _, errMsg := range EvaluateAssertions(result, scenario.Assertions, actx) {
		result.AddError(errMsg)
	}

	return result, nil
}

// checkExpect compares the run outcome with the scenario's expect clause.
func checkExpect(expect Expect, result *Result) {
	if expect.ErrorStep != result.ErrorStep {
		result.AddError(fmt.Sprintf("expected error step %q, got %q (%s)",
			expect.ErrorStep, result.ErrorStep, result.RunError))
	}
	if expect.ErrorStep != "" {
		return
	}

	if len(expect.Steps) != len(result.Steps) {
		result.AddError(fmt.Sprintf("expected steps %v, got %v", expect.Steps, result.Steps))
		return
	}
	for i := range expect.Steps {
		if expect.Steps[i] != result.Steps[i] {
			result.AddError(fmt.Sprintf("expected steps %v, got %v", expect.Steps, result.Steps))
			return
		}
	}
}
