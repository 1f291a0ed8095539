package aggregate

import (
	"context"

	"github.com/roach88/sewershed/internal/attr"
	"github.com/roach88/sewershed/internal/attrsql"
	"github.com/roach88/sewershed/internal/gis"
)

// fakeTables is an in-memory attribute engine recording every call.
type fakeTables struct {
	records []attr.Record
	readErr error

	addErr     error
	infoErr    error
	executeErr error

	calls      []string
	queried    []string
	addedDefs  []string
	executedOn gis.DBInfo
	script     attrsql.Script
}

func (f *fakeTables) SelectGrouped(_ context.Context, v gis.VectorRef, group string, exprs []string) ([]attr.Record, error) {
	f.calls = append(f.calls, "select:"+v.Name)
	f.queried = append([]string{group}, exprs...)
	return f.records, f.readErr
}

func (f *fakeTables) AddColumns(_ context.Context, v gis.VectorRef, defs []string) error {
	f.calls = append(f.calls, "addcolumn:"+v.Name)
	f.addedDefs = append(f.addedDefs, defs...)
	return f.addErr
}

func (f *fakeTables) TableInfo(_ context.Context, v gis.VectorRef) (gis.DBInfo, error) {
	f.calls = append(f.calls, "info:"+v.Name)
	if f.infoErr != nil {
		return gis.DBInfo{}, f.infoErr
	}
	return gis.DBInfo{Layer: v.LayerOrDefault(), Table: v.Name, Key: "cat", Database: "/tmp/sqlite.db", Driver: "sqlite"}, nil
}

func (f *fakeTables) ExecuteScript(_ context.Context, info gis.DBInfo, script attrsql.Script) error {
	f.calls = append(f.calls, "execute:"+info.Table)
	f.executedOn = info
	f.script = script
	return f.executeErr
}
