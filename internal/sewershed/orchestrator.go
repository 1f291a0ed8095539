package sewershed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/roach88/sewershed/internal/aggregate"
	"github.com/roach88/sewershed/internal/attrsql"
	"github.com/roach88/sewershed/internal/gis"
	"github.com/roach88/sewershed/internal/grass"
)

// Step names a state of the delineation state machine.
type Step string

const (
	StepFilterNetwork           Step = "FILTER_NETWORK"
	StepSelectOverlappingBlocks Step = "SELECT_OVERLAPPING_BLOCKS"
	StepDissolveAndAggregate    Step = "DISSOLVE_AND_AGGREGATE"
	StepRecordProvenance        Step = "RECORD_PROVENANCE"
)

// Temporary vector name prefixes.
const (
	tmpBlocksPrefix    = "tmp_blocks"
	tmpSelectionPrefix = "tmp_selection"
)

// ErrInvalidOptions is returned for incomplete run options.
var ErrInvalidOptions = errors.New("invalid options")

// StepError reports the step in which a run failed.
type StepError struct {
	Step Step
	Err  error
}

// Error implements the error interface.
func (e *StepError) Error() string {
	return fmt.Sprintf("%s: %v", e.Step, e.Err)
}

// Unwrap returns the underlying error.
func (e *StepError) Unwrap() error {
	return e.Err
}

// Options are the inputs of one delineation run.
type Options struct {
	// Sewer is the network (lines) or sewershed (areas) vector.
	Sewer gis.VectorRef `json:"sewer"`

	// CensusBlocks is the US Census blocks vector.
	CensusBlocks gis.VectorRef `json:"census_blocks"`

	// Output is the name of the dissolved output vector.
	Output string `json:"output"`

	// SelectColumn and SelectValue restrict the sewer features used.
	// Ignored when SelectColumn is empty.
	SelectColumn string `json:"sewer_select_column,omitempty"`
	SelectValue  string `json:"sewer_select_value,omitempty"`

	// DissolveAggregates lets the dissolve compute the statistics itself
	// instead of the aggregation engine.
	DissolveAggregates bool `json:"dissolve_aggregates,omitempty"`

	// CommandLine is written to the output's history together with the
	// run id.
	CommandLine string `json:"command_line,omitempty"`
}

// Validate checks that all required options are set.
func (o Options) Validate() error {
	var missing []string
	if o.Sewer.Name == "" {
		missing = append(missing, "sewer")
	}
	if o.CensusBlocks.Name == "" {
		missing = append(missing, "census_blocks")
	}
	if o.Output == "" {
		missing = append(missing, "output")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrInvalidOptions, strings.Join(missing, ", "))
	}
	return nil
}

// Result summarizes a completed run.
type Result struct {
	RunID      string   `json:"run_id"`
	Output     string   `json:"output"`
	Steps      []Step   `json:"steps"`
	Temporary  []string `json:"temporary"`
	Groups     int      `json:"groups"`
	Updates    int      `json:"updates"`
	AddColumns []string `json:"add_columns"`
}

// Orchestrator runs sewershed delineations against a GIS engine.
type Orchestrator struct {
	engine   gis.Engine
	tempName func(prefix string) string
	runIDs   RunIDGenerator
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithTempNamer sets the function qualifying temporary vector names.
func WithTempNamer(fn func(prefix string) string) Option {
	return func(o *Orchestrator) {
		o.tempName = fn
	}
}

// WithRunIDGenerator sets the run id generator.
func WithRunIDGenerator(gen RunIDGenerator) Option {
	return func(o *Orchestrator) {
		o.runIDs = gen
	}
}

// New creates an Orchestrator. Temporary names default to grass.TempName,
// which qualifies them with the node name and process id.
func New(engine gis.Engine, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		engine:   engine,
		tempName: grass.TempName,
		runIDs:   UUIDv7Generator{},
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Run delineates the sewershed described by opts.
//
// Each step's failure aborts the run with a *StepError. Temporary vectors
// are removed before Run returns in every case.
func (o *Orchestrator) Run(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	res := &Result{RunID: o.runIDs.Generate(), Output: opts.Output}
	log := slog.With("run_id", res.RunID)

	guard := NewTempGuard(o.engine)
	defer func() {
		res.Temporary = guard.Names()
		guard.Release(ctx)
		log.Debug("temporary vectors released", "names", res.Temporary)
	}()

	blocks := guard.Register(o.tempName(tmpBlocksPrefix))

	network := opts.Sewer
	if opts.SelectColumn != "" {
		selection := guard.Register(o.tempName(tmpSelectionPrefix))
		where := FilterWhere(opts.SelectColumn, opts.SelectValue)

		log.Info("filtering network", "input", opts.Sewer.Name, "where", where)
		err := o.engine.Extract(ctx, gis.ExtractRequest{
			Input:  opts.Sewer,
			Output: selection,
			Where:  where,
		})
		if err != nil {
			return nil, &StepError{Step: StepFilterNetwork, Err: err}
		}
		res.Steps = append(res.Steps, StepFilterNetwork)
		network = gis.VectorRef{Name: selection, Layer: gis.DefaultLayer}
	}

	log.Info("selecting overlapping blocks", "blocks", opts.CensusBlocks.Name, "network", network.Name)
	err := o.engine.Select(ctx, gis.SelectRequest{
		A:        opts.CensusBlocks,
		AType:    "area",
		B:        network,
		Output:   blocks,
		Operator: "intersects",
	})
	if err != nil {
		return nil, &StepError{Step: StepSelectOverlappingBlocks, Err: err}
	}
	res.Steps = append(res.Steps, StepSelectOverlappingBlocks)

	log.Info("dissolving blocks", "column", DissolveColumn, "output", opts.Output)
	if err := o.dissolveAndAggregate(ctx, blocks, opts, res); err != nil {
		return nil, &StepError{Step: StepDissolveAndAggregate, Err: err}
	}
	res.Steps = append(res.Steps, StepDissolveAndAggregate)

	cmdline := opts.CommandLine
	if cmdline == "" {
		cmdline = "sewershed delineate"
	}
	history := fmt.Sprintf("%s (run_id=%s)", cmdline, res.RunID)
	if err := o.engine.History(ctx, opts.Output, history); err != nil {
		return nil, &StepError{Step: StepRecordProvenance, Err: err}
	}
	res.Steps = append(res.Steps, StepRecordProvenance)

	log.Info("sewershed delineated", "output", opts.Output, "groups", res.Groups, "updates", res.Updates)
	return res, nil
}

func (o *Orchestrator) dissolveAndAggregate(ctx context.Context, blocks string, opts Options, res *Result) error {
	exprs, results := Columns()

	if opts.DissolveAggregates {
		res.AddColumns = results
		return o.engine.Dissolve(ctx, gis.DissolveRequest{
			Input:            blocks,
			Column:           DissolveColumn,
			Output:           opts.Output,
			AggregateColumns: exprs,
			ResultColumns:    results,
		})
	}

	spec, err := aggregate.NewSpec(exprs, nil, results)
	if err != nil {
		return err
	}

	if err := o.engine.Dissolve(ctx, gis.DissolveRequest{
		Input:  blocks,
		Column: DissolveColumn,
		Output: opts.Output,
	}); err != nil {
		return err
	}

	input := gis.VectorRef{Name: blocks, Layer: gis.DefaultLayer}
	plan, err := aggregate.NewEngine(o.engine).Aggregate(ctx, input, DissolveColumn, true, spec)
	if err != nil {
		return err
	}

	output := gis.VectorRef{Name: opts.Output, Layer: gis.DefaultLayer}
	if err := aggregate.NewApplier(o.engine).Apply(ctx, output, plan); err != nil {
		return err
	}

	res.Groups = len(plan.Updates) / max(len(spec.Columns), 1)
	res.Updates = len(plan.Updates)
	res.AddColumns = plan.AddColumns
	return nil
}

// FilterWhere builds the sewer selection clause "column = value". The value
// is quoted unless it parses as a floating-point number.
func FilterWhere(column, value string) string {
	if _, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err != nil {
		value = attrsql.QuoteString(value)
	}
	return fmt.Sprintf("%s = %s", column, value)
}
