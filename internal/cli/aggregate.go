package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/sewershed/internal/aggregate"
	"github.com/roach88/sewershed/internal/gis"
	"github.com/roach88/sewershed/internal/grass"
	"github.com/roach88/sewershed/internal/store"
)

// Attribute backends for the aggregate command.
const (
	BackendGRASS  = "grass"
	BackendSQLite = "sqlite"
)

// AggregateOptions holds flags for the aggregate command.
type AggregateOptions struct {
	*RootOptions

	Input       string
	InputLayer  string
	Output      string
	OutputLayer string
	GroupColumn string
	Quote       bool

	AggregateColumns []string
	Methods          []string
	ResultColumns    []string

	Backend  string
	Database string
	GrassDir string
	PrintSQL bool

	// Runner allows overriding the GRASS module runner (for testing).
	Runner grass.Runner
}

// AggregateResult is the output of the aggregate command.
type AggregateResult struct {
	Input      string   `json:"input"`
	Output     string   `json:"output"`
	Updates    int      `json:"updates"`
	AddColumns []string `json:"add_columns"`
	SQL        string   `json:"sql,omitempty"`
}

// NewAggregateCommand creates the aggregate command.
func NewAggregateCommand(rootOpts *RootOptions) *cobra.Command {
	return newAggregateCommand(&AggregateOptions{RootOptions: rootOpts})
}

func newAggregateCommand(opts *AggregateOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "aggregate",
		Short: "Aggregate attributes by group and write them to another table",
		Long: `Group the attribute table of --input by --group-column, evaluate the
aggregate expressions per group and write one value per group and result
column into --output, adding the result columns first.

Without --method each --aggregate-column is a full SQL expression and each
--result-column is "name type". With --method the expression is wrapped as
method(column) and result columns are bare names typed by the method.

Example:
  sewershed aggregate --input tmp_blocks --output sewershed --group-column State_Name --quote \
    --aggregate-column P0010001 --method sum --result-column total_population
  sewershed aggregate --backend sqlite --database attrs.db --input blocks --output sheds \
    --group-column State_Name --quote --aggregate-column "sum(P0010001)" \
    --result-column "total_population integer" --print-sql`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAggregate(opts, cmd)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.Input, "input", "", "vector (or table) to aggregate (required)")
	f.StringVar(&opts.InputLayer, "input-layer", gis.DefaultLayer, "layer of the input vector")
	f.StringVar(&opts.Output, "output", "", "vector (or table) receiving the results (required)")
	f.StringVar(&opts.OutputLayer, "output-layer", gis.DefaultLayer, "layer of the output vector")
	f.StringVar(&opts.GroupColumn, "group-column", "", "column whose values define groups (required)")
	f.BoolVar(&opts.Quote, "quote", false, "quote group values in row predicates")
	f.StringArrayVar(&opts.AggregateColumns, "aggregate-column", nil, "column or SQL expression to aggregate (repeatable)")
	f.StringArrayVar(&opts.Methods, "method", nil, "aggregate method applied to the column at the same position (repeatable)")
	f.StringArrayVar(&opts.ResultColumns, "result-column", nil, "result column, \"name type\" without --method (repeatable)")
	f.StringVar(&opts.Backend, "backend", BackendGRASS, "attribute backend (grass|sqlite)")
	f.StringVar(&opts.Database, "database", "", "SQLite database for --backend sqlite")
	f.StringVar(&opts.GrassDir, "grass-bin", "", "directory containing GRASS module executables")
	f.BoolVar(&opts.PrintSQL, "print-sql", false, "print the update script without applying it")
	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("output")
	_ = cmd.MarkFlagRequired("group-column")

	return cmd
}

func runAggregate(opts *AggregateOptions, cmd *cobra.Command) error {
	formatter := newFormatter(cmd, opts.RootOptions)

	closeLog := setupLogging(formatter.diagnostics(), opts.Verbose, opts.LogFile)
	defer closeLog()

	spec, err := aggregate.NewSpec(opts.AggregateColumns, opts.Methods, opts.ResultColumns)
	if err != nil {
		return outputError(formatter, "invalid aggregate specification", err)
	}

	rw, closeRW, err := openBackend(opts)
	if err != nil {
		return outputError(formatter, "failed to open backend", err)
	}
	defer closeRW()

	ctx, cancel := signalContext(cmd)
	defer cancel()

	input := gis.VectorRef{Name: opts.Input, Layer: opts.InputLayer}
	output := gis.VectorRef{Name: opts.Output, Layer: opts.OutputLayer}

	plan, err := aggregate.NewEngine(rw).Aggregate(ctx, input, opts.GroupColumn, opts.Quote, spec)
	if err != nil {
		return outputError(formatter, "aggregation failed", err)
	}

	result := AggregateResult{
		Input:      opts.Input,
		Output:     opts.Output,
		Updates:    len(plan.Updates),
		AddColumns: plan.AddColumns,
	}

	formatter.Notef("%d update(s) planned for %s, columns to add: %v", len(plan.Updates), output.Name, plan.AddColumns)

	applier := aggregate.NewApplier(rw)
	if opts.PrintSQL {
		script, err := applier.Script(ctx, output, plan)
		if err != nil {
			return outputError(formatter, "compiling update script failed", err)
		}
		if formatter.Format == "json" {
			result.SQL = script.String()
			return formatter.Success(result)
		}
		return formatter.Success(script.String())
	}

	if err := applier.Apply(ctx, output, plan); err != nil {
		return outputError(formatter, "applying updates failed", err)
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}
	return formatter.Success(fmt.Sprintf("Updated %s: %d update(s), %d column(s) added",
		result.Output, result.Updates, len(result.AddColumns)))
}

// openBackend returns the attribute reader/writer selected by --backend.
func openBackend(opts *AggregateOptions) (aggregate.ReadWriter, func(), error) {
	switch opts.Backend {
	case BackendGRASS:
		runner := opts.Runner
		if runner == nil {
			runner = &grass.ExecRunner{Dir: opts.GrassDir}
		}
		return grass.NewSession(runner), func() {}, nil

	case BackendSQLite:
		if opts.Database == "" {
			return nil, nil, invalidInput("--database is required with --backend sqlite")
		}
		st, err := store.Open(opts.Database)
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() {
			if closeErr := st.Close(); closeErr != nil {
				slog.Error("error closing database", "error", closeErr)
			}
		}
		return st, closeFn, nil

	default:
		return nil, nil, invalidInput(fmt.Sprintf("unknown backend %q: must be %s or %s", opts.Backend, BackendGRASS, BackendSQLite))
	}
}
