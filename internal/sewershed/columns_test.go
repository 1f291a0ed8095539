package sewershed

import (
	"fmt"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sewershed/internal/aggregate"
)

func TestColumns_Pairing(t *testing.T) {
	exprs, results := Columns()

	require.Len(t, exprs, len(Ratios)+1)
	require.Len(t, results, len(exprs))

	assert.Equal(t, "sum(P0010001)", exprs[0])
	assert.Equal(t, "total_population integer", results[0])
	assert.Equal(t, "cast(sum(P0010003) as real) / sum(P0010001)", exprs[1])
	assert.Equal(t, "race_white real", results[1])
}

func TestColumns_ResolveAsRawSpec(t *testing.T) {
	exprs, results := Columns()

	spec, err := aggregate.NewSpec(exprs, nil, results)
	require.NoError(t, err)

	assert.Equal(t, exprs, spec.SelectExpressions())
	assert.Equal(t, results, spec.AddColumns())
}

func TestColumns_Golden(t *testing.T) {
	exprs, results := Columns()

	var b strings.Builder
	for i := range exprs {
		fmt.Fprintf(&b, "%s\t%s\n", results[i], exprs[i])
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "columns", []byte(b.String()))
}
