package grass_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sewershed/internal/attr"
	"github.com/roach88/sewershed/internal/attrsql"
	"github.com/roach88/sewershed/internal/gis"
	"github.com/roach88/sewershed/internal/grass"
	"github.com/roach88/sewershed/internal/store"
	"github.com/roach88/sewershed/internal/testutil"
)

func TestSession_VectorCommands(t *testing.T) {
	rec := testutil.NewRecorder()
	s := grass.NewSession(rec)
	ctx := context.Background()

	require.NoError(t, s.Extract(ctx, gis.ExtractRequest{
		Input:  gis.VectorRef{Name: "sewers", Layer: "2"},
		Output: "tmp_selection",
		Where:  "district = 'North'",
	}))
	require.NoError(t, s.Select(ctx, gis.SelectRequest{
		A:        gis.VectorRef{Name: "blocks"},
		AType:    "area",
		B:        gis.VectorRef{Name: "tmp_selection", Layer: "1"},
		Output:   "tmp_blocks",
		Operator: "intersects",
	}))
	require.NoError(t, s.Dissolve(ctx, gis.DissolveRequest{Input: "tmp_blocks", Column: "State_Name", Output: "sewershed"}))
	require.NoError(t, s.Remove(ctx, "tmp_blocks"))
	require.NoError(t, s.History(ctx, "sewershed", "sewershed delineate --output sewershed"))

	assert.Equal(t, []string{
		"v.extract input=sewers layer=2 output=tmp_selection where=district = 'North'",
		"v.select ainput=blocks alayer=1 atype=area binput=tmp_selection blayer=1 output=tmp_blocks operator=intersects",
		"v.dissolve input=tmp_blocks column=State_Name output=sewershed",
		"g.remove -f type=vector name=tmp_blocks --quiet",
		"v.support map=sewershed cmdhist=sewershed delineate --output sewershed",
	}, rec.Lines())

	remove, ok := rec.Find("g.remove")
	require.True(t, ok)
	assert.True(t, remove.DiscardStderr)
}

func TestSession_DissolveWithAggregates(t *testing.T) {
	rec := testutil.NewRecorder()
	s := grass.NewSession(rec)

	require.NoError(t, s.Dissolve(context.Background(), gis.DissolveRequest{
		Input:            "tmp_blocks",
		Column:           "State_Name",
		Output:           "sewershed",
		AggregateColumns: []string{"sum(P0010001)", "cast(sum(P0010003) as real) / sum(P0010001)"},
		ResultColumns:    []string{"total_population integer", "race_white real"},
	}))

	cmd, ok := rec.Find("v.dissolve")
	require.True(t, ok)
	agg, _ := cmd.Param("aggregate_column")
	assert.Equal(t, "sum(P0010001),cast(sum(P0010003) as real) / sum(P0010001)", agg)
	res, _ := cmd.Param("result_column")
	assert.Equal(t, "total_population integer,race_white real", res)
}

func TestSession_SelectGrouped(t *testing.T) {
	rec := testutil.NewRecorder()
	rec.Outputs["v.db.select"] = `{"info": {}, "records": [
		{"State_Name": "CA", "sum(P0010001)": 100, "sum(P0010003)": 40}
	]}`
	s := grass.NewSession(rec)

	records, err := s.SelectGrouped(context.Background(), gis.VectorRef{Name: "tmp_blocks", Layer: "1"},
		"State_Name", []string{"sum(P0010001)", "sum(P0010003)"})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, attr.String("CA"), records[0].Group)
	assert.Equal(t, []attr.Value{attr.Int(100), attr.Int(40)}, records[0].Values)

	assert.Equal(t, []string{
		"v.db.select map=tmp_blocks layer=1 columns=State_Name,sum(P0010001),sum(P0010003) group=State_Name format=json",
	}, rec.Lines())
}

func TestSession_SelectGroupedUnparseable(t *testing.T) {
	rec := testutil.NewRecorder()
	rec.Outputs["v.db.select"] = "cat|State_Name\n1|CA\n"
	s := grass.NewSession(rec)

	_, err := s.SelectGrouped(context.Background(), gis.VectorRef{Name: "b"}, "State_Name", []string{"sum(x)"})
	require.Error(t, err)

	var toolErr *gis.ExternalToolError
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, "v.db.select", toolErr.Tool)
}

func TestSession_AddColumnsSingleRequest(t *testing.T) {
	rec := testutil.NewRecorder()
	s := grass.NewSession(rec)

	require.NoError(t, s.AddColumns(context.Background(), gis.VectorRef{Name: "sewershed"},
		[]string{"total_population integer", "race_white real"}))

	assert.Equal(t, []string{
		"v.db.addcolumn map=sewershed layer=1 columns=total_population integer,race_white real",
	}, rec.Lines())
}

func TestSession_TableInfo(t *testing.T) {
	rec := testutil.NewRecorder()
	rec.Outputs["v.db.connect"] = "1/sewershed;sewershed;cat;/grassdata/loc/PERMANENT/sqlite/sqlite.db;sqlite\n" +
		"2/extra;sewershed_2;cat;/grassdata/loc/PERMANENT/sqlite/sqlite.db;sqlite\n"
	s := grass.NewSession(rec)

	info, err := s.TableInfo(context.Background(), gis.VectorRef{Name: "sewershed", Layer: "2"})
	require.NoError(t, err)
	assert.Equal(t, gis.DBInfo{
		Layer:    "2",
		Name:     "extra",
		Table:    "sewershed_2",
		Key:      "cat",
		Database: "/grassdata/loc/PERMANENT/sqlite/sqlite.db",
		Driver:   "sqlite",
	}, info)

	_, err = s.TableInfo(context.Background(), gis.VectorRef{Name: "sewershed", Layer: "3"})
	require.Error(t, err)
	assert.True(t, gis.IsExternalToolError(err))
	assert.Contains(t, err.Error(), "no database connection for layer 3")
}

func TestParseConnections(t *testing.T) {
	conns, err := grass.ParseConnections("1;roads;cat;/db.sqlite;sqlite\n\n")
	require.NoError(t, err)
	assert.Equal(t, "roads", conns["1"].Table)
	assert.Equal(t, "", conns["1"].Name)

	_, err = grass.ParseConnections("1;roads\n")
	require.Error(t, err)
}

func TestSession_ExecuteScriptViaDBExecute(t *testing.T) {
	rec := testutil.NewRecorder()
	s := grass.NewSession(rec)

	script := attrsql.Compile("sewershed", []attrsql.ColumnUpdate{
		{Column: "total_population", Type: "integer", Value: attr.Int(100), Where: "State_Name='CA'"},
	})
	info := gis.DBInfo{Table: "sewershed", Database: "/db.sqlite", Driver: "sqlite"}
	require.NoError(t, s.ExecuteScript(context.Background(), info, script))

	cmd, ok := rec.Find("db.execute")
	require.True(t, ok)
	assert.Equal(t, "db.execute input=- database=/db.sqlite driver=sqlite", cmd.String())
	assert.Equal(t, "BEGIN TRANSACTION\n"+
		"UPDATE sewershed SET total_population = 100 WHERE State_Name='CA';\n"+
		"END TRANSACTION", cmd.Stdin)
}

func TestSession_ExecuteScriptDirectSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sqlite.db")
	st, err := store.Open(path)
	require.NoError(t, err)
	_, err = st.DB().Exec(`CREATE TABLE sewershed (cat INTEGER PRIMARY KEY, State_Name TEXT, total_population INTEGER)`)
	require.NoError(t, err)
	_, err = st.DB().Exec(`INSERT INTO sewershed (cat, State_Name) VALUES (1, 'CA')`)
	require.NoError(t, err)
	require.NoError(t, st.Close())

	rec := testutil.NewRecorder()
	s := grass.NewSession(rec, grass.WithDirectSQLite(true))

	script := attrsql.Compile("sewershed", []attrsql.ColumnUpdate{
		{Column: "total_population", Type: "integer", Value: attr.Int(100), Where: "State_Name='CA'"},
	})
	info := gis.DBInfo{Table: "sewershed", Database: path, Driver: "sqlite"}
	require.NoError(t, s.ExecuteScript(context.Background(), info, script))
	assert.Empty(t, rec.Modules(), "db.execute is bypassed")

	st, err = store.Open(path)
	require.NoError(t, err)
	defer st.Close()
	var total sql.NullInt64
	require.NoError(t, st.DB().QueryRow(`SELECT total_population FROM sewershed WHERE cat = 1`).Scan(&total))
	assert.Equal(t, int64(100), total.Int64)
}

func TestSession_DirectSQLiteOnlyForSQLiteDriver(t *testing.T) {
	rec := testutil.NewRecorder()
	s := grass.NewSession(rec, grass.WithDirectSQLite(true))

	info := gis.DBInfo{Table: "t", Database: "host=db dbname=gis", Driver: "pg"}
	require.NoError(t, s.ExecuteScript(context.Background(), info, attrsql.Compile("t", nil)))
	assert.Equal(t, []string{"db.execute"}, rec.Modules())
}

func TestSession_FailureIsExternalToolError(t *testing.T) {
	rec := testutil.NewRecorder()
	rec.Failures["v.db.addcolumn"] = "ERROR: Column <race_white> already exists"
	s := grass.NewSession(rec)

	err := s.AddColumns(context.Background(), gis.VectorRef{Name: "sewershed"}, []string{"race_white real"})
	require.Error(t, err)

	var toolErr *gis.ExternalToolError
	require.ErrorAs(t, err, &toolErr)
	assert.Contains(t, toolErr.Stderr, "already exists")
}
