package attr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeRecords(t *testing.T) {
	data := []byte(`{"info": {"columns": []}, "records": [
		{"State_Name": "CA", "sum(P0010001)": 100, "cast(sum(P0010003) as real) / sum(P0010001)": 0.4},
		{"State_Name": null, "sum(P0010001)": 0, "cast(sum(P0010003) as real) / sum(P0010001)": null}
	]}`)
	exprs := []string{"sum(P0010001)", "cast(sum(P0010003) as real) / sum(P0010001)"}

	records, err := DecodeRecords(data, "State_Name", exprs)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, String("CA"), records[0].Group)
	assert.Equal(t, []Value{Int(100), Float(0.4)}, records[0].Values)

	assert.True(t, IsNull(records[1].Group))
	assert.Equal(t, []Value{Int(0), Null{}}, records[1].Values)
}

func TestDecodeRecords_DuplicateExpressions(t *testing.T) {
	data := []byte(`{"records": [{"g": 1, "sum(pop)": 5}]}`)

	records, err := DecodeRecords(data, "g", []string{"sum(pop)", "sum(pop)"})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, []Value{Int(5), Int(5)}, records[0].Values)
}

func TestDecodeRecords_Errors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr string
	}{
		{"not json", `records`, "decode records"},
		{"no records key", `{"rows": []}`, "missing \"records\" list"},
		{"missing group column", `{"records": [{"sum(x)": 1}]}`, `missing column "g"`},
		{"missing expression", `{"records": [{"g": "a"}]}`, `missing column "sum(x)"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeRecords([]byte(tt.data), "g", []string{"sum(x)"})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDecodeRecords_Empty(t *testing.T) {
	records, err := DecodeRecords([]byte(`{"records": []}`), "g", []string{"sum(x)"})
	require.NoError(t, err)
	assert.Empty(t, records)
}
