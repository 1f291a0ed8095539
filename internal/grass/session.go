package grass

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/roach88/sewershed/internal/attr"
	"github.com/roach88/sewershed/internal/attrsql"
	"github.com/roach88/sewershed/internal/gis"
	"github.com/roach88/sewershed/internal/store"
)

// Session implements gis.Engine with GRASS modules.
type Session struct {
	runner       Runner
	directSQLite bool
}

var _ gis.Engine = (*Session)(nil)

// Option configures a Session.
type Option func(*Session)

// WithDirectSQLite executes update scripts for sqlite-backed layers
// in-process instead of through db.execute.
func WithDirectSQLite(enabled bool) Option {
	return func(s *Session) {
		s.directSQLite = enabled
	}
}

// NewSession creates a Session running modules through runner.
func NewSession(runner Runner, opts ...Option) *Session {
	s := &Session{runner: runner}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Extract implements gis.Vectors with v.extract.
func (s *Session) Extract(ctx context.Context, req gis.ExtractRequest) error {
	_, err := s.runner.Run(ctx, Command{
		Module: "v.extract",
		Params: []Param{
			p("input", req.Input.Name),
			p("layer", req.Input.LayerOrDefault()),
			p("output", req.Output),
			p("where", req.Where),
		},
	})
	return err
}

// Select implements gis.Vectors with v.select.
func (s *Session) Select(ctx context.Context, req gis.SelectRequest) error {
	_, err := s.runner.Run(ctx, Command{
		Module: "v.select",
		Params: []Param{
			p("ainput", req.A.Name),
			p("alayer", req.A.LayerOrDefault()),
			p("atype", req.AType),
			p("binput", req.B.Name),
			p("blayer", req.B.LayerOrDefault()),
			p("output", req.Output),
			p("operator", req.Operator),
		},
	})
	return err
}

// Dissolve implements gis.Vectors with v.dissolve.
func (s *Session) Dissolve(ctx context.Context, req gis.DissolveRequest) error {
	params := []Param{
		p("input", req.Input),
		p("column", req.Column),
		p("output", req.Output),
	}
	if len(req.AggregateColumns) > 0 {
		params = append(params,
			p("aggregate_column", strings.Join(req.AggregateColumns, ",")),
			p("result_column", strings.Join(req.ResultColumns, ",")))
	}
	_, err := s.runner.Run(ctx, Command{Module: "v.dissolve", Params: params})
	return err
}

// Remove implements gis.Vectors with a forced, quiet g.remove.
func (s *Session) Remove(ctx context.Context, name string) error {
	_, err := s.runner.Run(ctx, Command{
		Module: "g.remove",
		Flags:  "f",
		Params: []Param{
			p("type", "vector"),
			p("name", name),
		},
		Quiet:         true,
		DiscardStderr: true,
	})
	return err
}

// History implements gis.Vectors by appending cmdline to the map history.
func (s *Session) History(ctx context.Context, name, cmdline string) error {
	_, err := s.runner.Run(ctx, Command{
		Module: "v.support",
		Params: []Param{
			p("map", name),
			p("cmdhist", cmdline),
		},
	})
	return err
}

// SelectGrouped implements gis.AttributeReader with v.db.select in JSON format.
func (s *Session) SelectGrouped(ctx context.Context, v gis.VectorRef, groupColumn string, exprs []string) ([]attr.Record, error) {
	cmd := Command{
		Module: "v.db.select",
		Params: []Param{
			p("map", v.Name),
			p("layer", v.LayerOrDefault()),
			p("columns", strings.Join(append([]string{groupColumn}, exprs...), ",")),
			p("group", groupColumn),
			p("format", "json"),
		},
	}
	out, err := s.runner.Run(ctx, cmd)
	if err != nil {
		return nil, err
	}

	records, err := attr.DecodeRecords(out, groupColumn, exprs)
	if err != nil {
		return nil, &gis.ExternalToolError{Tool: cmd.Module, Args: cmd.Args(), ExitCode: -1, Err: err}
	}
	return records, nil
}

// AddColumns implements gis.AttributeWriter with one v.db.addcolumn call.
func (s *Session) AddColumns(ctx context.Context, v gis.VectorRef, defs []string) error {
	_, err := s.runner.Run(ctx, Command{
		Module: "v.db.addcolumn",
		Params: []Param{
			p("map", v.Name),
			p("layer", v.LayerOrDefault()),
			p("columns", strings.Join(defs, ",")),
		},
	})
	return err
}

// TableInfo implements gis.AttributeWriter with v.db.connect -g.
func (s *Session) TableInfo(ctx context.Context, v gis.VectorRef) (gis.DBInfo, error) {
	cmd := Command{
		Module: "v.db.connect",
		Flags:  "g",
		Params: []Param{
			p("map", v.Name),
			p("separator", ";"),
		},
		Quiet: true,
	}
	out, err := s.runner.Run(ctx, cmd)
	if err != nil {
		return gis.DBInfo{}, err
	}

	connections, err := ParseConnections(string(out))
	if err != nil {
		return gis.DBInfo{}, &gis.ExternalToolError{Tool: cmd.Module, Args: cmd.Args(), ExitCode: -1, Err: err}
	}
	info, ok := connections[v.LayerOrDefault()]
	if !ok {
		return gis.DBInfo{}, &gis.ExternalToolError{
			Tool:     cmd.Module,
			Args:     cmd.Args(),
			ExitCode: -1,
			Err:      fmt.Errorf("map <%s> has no database connection for layer %s", v.Name, v.LayerOrDefault()),
		}
	}
	return info, nil
}

// ExecuteScript implements gis.AttributeWriter by feeding the script to
// db.execute on standard input.
func (s *Session) ExecuteScript(ctx context.Context, info gis.DBInfo, script attrsql.Script) error {
	if s.directSQLite && info.Driver == "sqlite" {
		slog.Debug("executing script in-process", "database", info.Database, "table", info.Table)
		return executeSQLite(ctx, info, script)
	}

	_, err := s.runner.Run(ctx, Command{
		Module: "db.execute",
		Params: []Param{
			p("input", "-"),
			p("database", info.Database),
			p("driver", info.Driver),
		},
		Stdin: script.String(),
	})
	return err
}

func executeSQLite(ctx context.Context, info gis.DBInfo, script attrsql.Script) error {
	st, err := store.Open(info.Database)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Debug("error closing attribute database", "error", closeErr)
		}
	}()
	return st.ExecuteScript(ctx, info, script)
}

// ParseConnections parses "v.db.connect -g separator=;" output into
// connections keyed by layer number.
//
// Lines look like "1/roads;roads;cat;/data/sqlite.db;sqlite" or, without a
// layer name, "1;roads;cat;/data/sqlite.db;sqlite".
func ParseConnections(out string) (map[string]gis.DBInfo, error) {
	connections := make(map[string]gis.DBInfo)
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fields := strings.Split(line, ";")
		if len(fields) < 5 {
			return nil, fmt.Errorf("unexpected connection line %q", line)
		}
		layer, name, _ := strings.Cut(fields[0], "/")
		connections[layer] = gis.DBInfo{
			Layer:    layer,
			Name:     name,
			Table:    fields[1],
			Key:      fields[2],
			Database: fields[3],
			Driver:   fields[4],
		}
	}
	return connections, nil
}
