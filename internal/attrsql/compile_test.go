package attrsql

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sewershed/internal/attr"
)

func TestCompile_Statements(t *testing.T) {
	updates := []ColumnUpdate{
		{Column: "total_population", Type: "integer", Value: attr.Int(100), Where: "State_Name='CA'"},
		{Column: "race_white", Type: "real", Value: attr.Float(0.4), Where: "State_Name='CA'"},
		{Column: "label", Type: "TEXT", Value: attr.String("west"), Where: "State_Name='CA'"},
		{Column: "untyped", Value: attr.Int(3), Where: "cat=1"},
	}

	script := Compile("blocks", updates)
	require.Equal(t, 4, script.Len())

	assert.Equal(t, "UPDATE blocks SET total_population = 100 WHERE State_Name='CA';", script.Statements[0])
	assert.Equal(t, "UPDATE blocks SET race_white = 0.4 WHERE State_Name='CA';", script.Statements[1])
	assert.Equal(t, "UPDATE blocks SET label = 'west' WHERE State_Name='CA';", script.Statements[2])
	assert.Equal(t, "UPDATE blocks SET untyped = 3 WHERE cat=1;", script.Statements[3])
}

func TestCompile_TransactionBoundaries(t *testing.T) {
	testCases := []struct {
		name    string
		updates []ColumnUpdate
	}{
		{name: "empty", updates: nil},
		{name: "single", updates: []ColumnUpdate{
			{Column: "a", Type: "integer", Value: attr.Int(1), Where: "g=1"},
		}},
		{name: "several", updates: []ColumnUpdate{
			{Column: "a", Type: "integer", Value: attr.Int(1), Where: "g=1"},
			{Column: "b", Type: "text", Value: attr.String("x"), Where: "g=1"},
			{Column: "a", Type: "integer", Value: attr.Null{}, Where: "g IS NULL"},
		}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			text := Compile("t", tc.updates).String()
			lines := strings.Split(text, "\n")

			assert.Equal(t, BeginTransaction, lines[0])
			assert.Equal(t, EndTransaction, lines[len(lines)-1])
			assert.Equal(t, len(tc.updates), strings.Count(text, "UPDATE "))
		})
	}
}

func TestCompile_EmptyIsNoOpTransaction(t *testing.T) {
	assert.Equal(t, "BEGIN TRANSACTION\nEND TRANSACTION", Compile("t", nil).String())
}

func TestCompile_NullValueIsNeverQuoted(t *testing.T) {
	for _, typ := range []string{"", "real", "integer", "TEXT", "varchar(10)"} {
		t.Run("type="+typ, func(t *testing.T) {
			script := Compile("t", []ColumnUpdate{
				{Column: "ratio", Type: typ, Value: attr.Null{}, Where: "g='x'"},
			})
			require.Equal(t, 1, script.Len())

			stmt := script.Statements[0]
			assert.Contains(t, stmt, "SET ratio = NULL WHERE")
			assert.NotContains(t, stmt, "'NULL'")
		})
	}
}

func TestCompile_NilValueIsNull(t *testing.T) {
	script := Compile("t", []ColumnUpdate{{Column: "c", Type: "text", Where: "g=1"}})
	assert.Equal(t, "UPDATE t SET c = NULL WHERE g=1;", script.Statements[0])
}

func TestCompile_NonFiniteFloatIsBareNull(t *testing.T) {
	updates := []ColumnUpdate{
		{Column: "ratio", Type: "TEXT", Value: attr.Float(math.NaN()), Where: "g=1"},
		{Column: "ratio", Type: "varchar", Value: attr.Float(math.Inf(1)), Where: "g=2"},
		{Column: "ratio", Type: "DOUBLE", Value: attr.Float(math.Inf(-1)), Where: "g=3"},
	}

	script := Compile("t", updates)
	assert.Equal(t, []string{
		"UPDATE t SET ratio = NULL WHERE g=1;",
		"UPDATE t SET ratio = NULL WHERE g=2;",
		"UPDATE t SET ratio = NULL WHERE g=3;",
	}, script.Statements)
}

func TestCompile_QuotingIsPerUpdate(t *testing.T) {
	script := Compile("t", []ColumnUpdate{
		{Column: "name", Type: "text", Value: attr.String("5"), Where: "g=1"},
		{Column: "num", Type: "double precision", Value: attr.String("5"), Where: "g=1"},
	})

	assert.Equal(t, "UPDATE t SET name = '5' WHERE g=1;", script.Statements[0])
	assert.Equal(t, "UPDATE t SET num = 5 WHERE g=1;", script.Statements[1])
}

func TestCompile_PreservesOrder(t *testing.T) {
	var updates []ColumnUpdate
	for _, col := range []string{"c", "a", "b"} {
		updates = append(updates, ColumnUpdate{Column: col, Type: "integer", Value: attr.Int(0), Where: "g=1"})
	}

	script := Compile("t", updates)
	require.Equal(t, 3, script.Len())
	assert.Contains(t, script.Statements[0], "SET c =")
	assert.Contains(t, script.Statements[1], "SET a =")
	assert.Contains(t, script.Statements[2], "SET b =")
}
