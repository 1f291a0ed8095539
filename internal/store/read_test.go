package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sewershed/internal/attr"
	"github.com/roach88/sewershed/internal/gis"
)

func TestGroupedQuery(t *testing.T) {
	q := GroupedQuery("blocks", "State_Name", []string{"sum(P0010001)", "count(cat)"})
	assert.Equal(t,
		"SELECT State_Name, sum(P0010001), count(cat) FROM blocks GROUP BY State_Name ORDER BY State_Name",
		q)
}

func TestSelectGrouped(t *testing.T) {
	s := createTestStore(t)
	seedBlocks(t, s)

	records, err := s.SelectGrouped(context.Background(), gis.VectorRef{Name: "blocks"}, "State_Name",
		[]string{"sum(P0010001)", "cast(sum(P0010003) as real) / sum(P0010001)"})
	require.NoError(t, err)
	require.Len(t, records, 3)

	// NULL sorts first in SQLite
	assert.True(t, attr.IsNull(records[0].Group))
	assert.Equal(t, attr.Int(0), records[0].Values[0])
	assert.True(t, attr.IsNull(records[0].Values[1]), "division by zero population stays null")

	assert.Equal(t, attr.String("CA"), records[1].Group)
	assert.Equal(t, []attr.Value{attr.Int(100), attr.Float(0.4)}, records[1].Values)

	assert.Equal(t, attr.String("TX"), records[2].Group)
	assert.Equal(t, []attr.Value{attr.Int(10), attr.Float(0.5)}, records[2].Values)
}

func TestSelectGrouped_RepeatedExpression(t *testing.T) {
	s := createTestStore(t)
	seedBlocks(t, s)

	records, err := s.SelectGrouped(context.Background(), gis.VectorRef{Name: "blocks"}, "State_Name",
		[]string{"sum(P0010001)", "sum(P0010001)"})
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, records[1].Values[0], records[1].Values[1])
}

func TestSelectGrouped_BadExpression(t *testing.T) {
	s := createTestStore(t)
	seedBlocks(t, s)

	_, err := s.SelectGrouped(context.Background(), gis.VectorRef{Name: "blocks"}, "State_Name",
		[]string{"sum(no_such_column)"})
	require.Error(t, err)
	assert.True(t, gis.IsExternalToolError(err))
}
