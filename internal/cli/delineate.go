package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/roach88/sewershed/internal/config"
	"github.com/roach88/sewershed/internal/grass"
	"github.com/roach88/sewershed/internal/sewershed"
)

// DelineateOptions holds flags for the delineate command.
type DelineateOptions struct {
	*RootOptions
	ConfigPath string

	// Run collects the flag values; they override the config file.
	Run config.Run

	// Runner allows overriding the GRASS module runner (for testing).
	// If nil, modules run as child processes.
	Runner grass.Runner

	// RunIDs allows overriding the run id generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	RunIDs sewershed.RunIDGenerator

	// TempNamer allows overriding temporary vector naming (for testing).
	// If nil, defaults to grass.TempName.
	TempNamer func(prefix string) string
}

// NewDelineateCommand creates the delineate command.
func NewDelineateCommand(rootOpts *RootOptions) *cobra.Command {
	return newDelineateCommand(&DelineateOptions{RootOptions: rootOpts})
}

func newDelineateCommand(opts *DelineateOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delineate",
		Short: "Delineate a sewershed and attach census demographics",
		Long: `Delineate a sewershed from a sewer network and census blocks.

The network is optionally filtered to features where a column equals a value.
Census blocks intersecting the network are selected, dissolved by State_Name
and the output receives total_population and demographic share columns.
Must run inside a GRASS session.

Example:
  sewershed delineate --sewer sewers --census-blocks blocks --output hawaii_sewershed
  sewershed delineate --config run.yaml --sewer-select-column system --sewer-select-value Honolulu`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDelineate(opts, cmd)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.ConfigPath, "config", "", "YAML or TOML run configuration")
	f.StringVar(&opts.Run.Sewer, "sewer", "", "sewer network (lines) or sewersheds (areas)")
	f.StringVar(&opts.Run.SewerLayer, "sewer-layer", "", "layer of the sewer vector (default 1)")
	f.StringVar(&opts.Run.CensusBlocks, "census-blocks", "", "US Census blocks with demographic fields")
	f.StringVar(&opts.Run.CensusBlocksLayer, "census-blocks-layer", "", "layer of the census blocks vector (default 1)")
	f.StringVar(&opts.Run.Output, "output", "", "name of the output vector")
	f.StringVar(&opts.Run.SewerSelectColumn, "sewer-select-column", "", "column used to select sewer features")
	f.StringVar(&opts.Run.SewerSelectValue, "sewer-select-value", "", "value of the selection column")
	f.StringVar(&opts.Run.GrassExecutableDir, "grass-bin", "", "directory containing GRASS module executables")
	f.BoolVar(&opts.Run.DirectSQLite, "direct-sqlite", false, "apply updates in-process when the output uses SQLite (can enable, not disable, a config file setting)")
	f.BoolVar(&opts.Run.DissolveAggregates, "dissolve-aggregates", false, "let v.dissolve compute the statistics (can enable, not disable, a config file setting)")

	return cmd
}

func runDelineate(opts *DelineateOptions, cmd *cobra.Command) error {
	formatter := newFormatter(cmd, opts.RootOptions)

	run, err := resolveRun(opts)
	if err != nil {
		return outputError(formatter, "failed to load config", err)
	}

	closeLog := setupLogging(formatter.diagnostics(), opts.Verbose, run.LogFile)
	defer closeLog()

	if err := run.Validate(); err != nil {
		return outputError(formatter, "invalid options", fmt.Errorf("%w: %w", sewershed.ErrInvalidOptions, err))
	}

	runner := opts.Runner
	if runner == nil {
		runner = &grass.ExecRunner{Dir: run.GrassExecutableDir}
	}
	session := grass.NewSession(runner, grass.WithDirectSQLite(run.DirectSQLite))

	tempNamer := opts.TempNamer
	if tempNamer == nil {
		tempNamer = grass.TempName
	}
	orchOpts := []sewershed.Option{sewershed.WithTempNamer(tempNamer)}
	if opts.RunIDs != nil {
		orchOpts = append(orchOpts, sewershed.WithRunIDGenerator(opts.RunIDs))
	}

	ctx, cancel := signalContext(cmd)
	defer cancel()

	res, err := sewershed.New(session, orchOpts...).Run(ctx, run.DelineateOptions(commandLine(cmd)))
	if err != nil {
		if ctx.Err() != nil && !errors.Is(err, context.Canceled) {
			err = fmt.Errorf("%w: %w", context.Canceled, err)
		}
		return outputError(formatter, "delineation failed", err)
	}

	for _, name := range res.Temporary {
		formatter.Notef("removed temporary vector %s", name)
	}
	formatter.Notef("history of %s records run %s", res.Output, res.RunID)

	if formatter.Format == "json" {
		return formatter.Success(res)
	}
	return formatter.Success(fmt.Sprintf("Created %s: %d group(s), %d update(s) (run %s)",
		res.Output, res.Groups, res.Updates, res.RunID))
}

// resolveRun loads the config file, if any, and overlays explicit flags.
func resolveRun(opts *DelineateOptions) (config.Run, error) {
	run := config.Run{}
	if opts.ConfigPath != "" {
		loaded, err := config.Load(opts.ConfigPath)
		if err != nil {
			return config.Run{}, err
		}
		run = *loaded
	}
	run.Merge(opts.Run)
	if opts.LogFile != "" {
		run.LogFile = opts.LogFile
	}
	return run, nil
}

// commandLine renders the invocation from the explicitly set flags.
func commandLine(cmd *cobra.Command) string {
	parts := []string{cmd.CommandPath()}
	cmd.Flags().Visit(func(f *pflag.Flag) {
		parts = append(parts, fmt.Sprintf("--%s=%s", f.Name, f.Value.String()))
	})
	return strings.Join(parts, " ")
}
