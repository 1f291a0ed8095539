package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/roach88/sewershed/internal/gis"
	"github.com/roach88/sewershed/internal/sewershed"
)

//go:embed schema.cue
var schemaSource string

// ErrUnsupportedFormat is returned for config files that are neither YAML
// nor TOML.
var ErrUnsupportedFormat = errors.New("unsupported config format")

// Run holds the settings of one delineation run.
type Run struct {
	Sewer             string `yaml:"sewer" toml:"sewer" json:"sewer,omitempty"`
	SewerLayer        string `yaml:"sewer_layer" toml:"sewer_layer" json:"sewer_layer,omitempty"`
	CensusBlocks      string `yaml:"census_blocks" toml:"census_blocks" json:"census_blocks,omitempty"`
	CensusBlocksLayer string `yaml:"census_blocks_layer" toml:"census_blocks_layer" json:"census_blocks_layer,omitempty"`
	Output            string `yaml:"output" toml:"output" json:"output,omitempty"`

	SewerSelectColumn string `yaml:"sewer_select_column" toml:"sewer_select_column" json:"sewer_select_column,omitempty"`
	SewerSelectValue  string `yaml:"sewer_select_value" toml:"sewer_select_value" json:"sewer_select_value,omitempty"`

	// GrassExecutableDir is the directory holding the GRASS module binaries.
	// Module names are joined onto it; empty means they are looked up on PATH.
	GrassExecutableDir string `yaml:"grass_executable_dir" toml:"grass_executable_dir" json:"grass_executable_dir,omitempty"`

	DirectSQLite       bool   `yaml:"direct_sqlite" toml:"direct_sqlite" json:"direct_sqlite,omitempty"`
	DissolveAggregates bool   `yaml:"dissolve_aggregates" toml:"dissolve_aggregates" json:"dissolve_aggregates,omitempty"`
	LogFile            string `yaml:"log_file" toml:"log_file" json:"log_file,omitempty"`
}

// Error reports a config file that could not be loaded.
type Error struct {
	Path string
	Err  error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("config %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Load reads a run config from path. The format is chosen by extension:
// .yaml and .yml for YAML, .toml for TOML.
//
// The loaded config is not validated; call Validate after merging flags.
func Load(path string) (*Run, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &Error{Path: path, Err: err}
	}

	var run Run
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = decodeYAML(data, &run)
	case ".toml":
		err = decodeTOML(data, &run)
	default:
		err = fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
	if err != nil {
		return nil, &Error{Path: path, Err: err}
	}
	return &run, nil
}

func decodeYAML(data []byte, run *Run) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(run); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}
	return nil
}

func decodeTOML(data []byte, run *Run) error {
	md, err := toml.Decode(string(data), run)
	if err != nil {
		return fmt.Errorf("failed to parse TOML: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("failed to parse TOML: unknown keys %s", strings.Join(keys, ", "))
	}
	return nil
}

// Merge overlays the non-zero fields of other onto r. Booleans are ORed, so
// other can switch an option on but never off.
func (r *Run) Merge(other Run) {
	mergeString(&r.Sewer, other.Sewer)
	mergeString(&r.SewerLayer, other.SewerLayer)
	mergeString(&r.CensusBlocks, other.CensusBlocks)
	mergeString(&r.CensusBlocksLayer, other.CensusBlocksLayer)
	mergeString(&r.Output, other.Output)
	mergeString(&r.SewerSelectColumn, other.SewerSelectColumn)
	mergeString(&r.SewerSelectValue, other.SewerSelectValue)
	mergeString(&r.GrassExecutableDir, other.GrassExecutableDir)
	mergeString(&r.LogFile, other.LogFile)
	r.DirectSQLite = r.DirectSQLite || other.DirectSQLite
	r.DissolveAggregates = r.DissolveAggregates || other.DissolveAggregates
}

func mergeString(dst *string, src string) {
	if src != "" {
		*dst = src
	}
}

// Validate checks r against the run schema.
func (r *Run) Validate() error {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compiling config schema: %w", err)
	}

	value := schema.LookupPath(cue.ParsePath("#Run")).Unify(ctx.Encode(r))
	if err := value.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// DelineateOptions converts r into orchestrator options.
func (r *Run) DelineateOptions(commandLine string) sewershed.Options {
	return sewershed.Options{
		Sewer:              gis.VectorRef{Name: r.Sewer, Layer: r.SewerLayer},
		CensusBlocks:       gis.VectorRef{Name: r.CensusBlocks, Layer: r.CensusBlocksLayer},
		Output:             r.Output,
		SelectColumn:       r.SewerSelectColumn,
		SelectValue:        r.SewerSelectValue,
		DissolveAggregates: r.DissolveAggregates,
		CommandLine:        commandLine,
	}
}
