package gis

import (
	"context"

	"github.com/roach88/sewershed/internal/attr"
	"github.com/roach88/sewershed/internal/attrsql"
)

// DefaultLayer is the attribute layer used when none is given.
const DefaultLayer = "1"

// VectorRef names a vector map and one of its attribute layers.
type VectorRef struct {
	Name  string `json:"name"`
	Layer string `json:"layer"`
}

// LayerOrDefault returns the layer, or DefaultLayer when unset.
func (v VectorRef) LayerOrDefault() string {
	if v.Layer == "" {
		return DefaultLayer
	}
	return v.Layer
}

// DBInfo identifies the attribute table behind a vector layer.
type DBInfo struct {
	Layer    string `json:"layer"`
	Name     string `json:"name,omitempty"`
	Table    string `json:"table"`
	Key      string `json:"key"`
	Database string `json:"database"`
	Driver   string `json:"driver"`
}

// ExtractRequest selects features of Input matching Where into Output.
type ExtractRequest struct {
	Input  VectorRef
	Output string
	Where  string
}

// SelectRequest selects features of A related to features of B by Operator.
type SelectRequest struct {
	A        VectorRef
	AType    string
	B        VectorRef
	Output   string
	Operator string
}

// DissolveRequest merges areas of Input sharing a Column value into Output.
// AggregateColumns and ResultColumns are optional and, when set, ask the
// engine to compute the statistics itself.
type DissolveRequest struct {
	Input            string
	Column           string
	Output           string
	AggregateColumns []string
	ResultColumns    []string
}

// Vectors performs vector map operations.
type Vectors interface {
	Extract(ctx context.Context, req ExtractRequest) error
	Select(ctx context.Context, req SelectRequest) error
	Dissolve(ctx context.Context, req DissolveRequest) error
	Remove(ctx context.Context, name string) error
	History(ctx context.Context, name, cmdline string) error
}

// AttributeReader queries attribute tables.
type AttributeReader interface {
	// SelectGrouped returns one record per distinct value of groupColumn
	// with the value of each select expression, in exprs order.
	SelectGrouped(ctx context.Context, v VectorRef, groupColumn string, exprs []string) ([]attr.Record, error)
}

// AttributeWriter changes attribute tables.
type AttributeWriter interface {
	// AddColumns adds all column definitions ("name type") in one request.
	AddColumns(ctx context.Context, v VectorRef, defs []string) error

	// TableInfo resolves the database table behind a vector layer.
	TableInfo(ctx context.Context, v VectorRef) (DBInfo, error)

	// ExecuteScript runs a compiled script against the resolved database.
	ExecuteScript(ctx context.Context, info DBInfo, script attrsql.Script) error
}

// Engine is the complete external GIS engine.
type Engine interface {
	Vectors
	AttributeReader
	AttributeWriter
}
