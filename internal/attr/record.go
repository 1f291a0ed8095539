package attr

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Record is one row of a grouped attribute query: the grouping column's
// value and one scalar per requested select expression, in request order.
type Record struct {
	Group  Value
	Values []Value
}

// recordList is the envelope of a JSON attribute table export.
type recordList struct {
	Records []map[string]any `json:"records"`
}

// DecodeRecords parses a JSON row list of the form {"records": [{...}, ...]}
// as printed by the external attribute-table reader.
//
// Each row must carry groupColumn and every entry of exprs as keys; the
// column name of a computed expression is the expression text itself.
// Row order is preserved.
func DecodeRecords(data []byte, groupColumn string, exprs []string) ([]Record, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var list recordList
	if err := dec.Decode(&list); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}
	if list.Records == nil {
		return nil, fmt.Errorf("decode records: missing \"records\" list")
	}

	records := make([]Record, 0, len(list.Records))
	for i, row := range list.Records {
		rec, err := recordFromRow(row, groupColumn, exprs)
		if err != nil {
			return nil, fmt.Errorf("decode records: row %d: %w", i, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func recordFromRow(row map[string]any, groupColumn string, exprs []string) (Record, error) {
	raw, ok := row[groupColumn]
	if !ok {
		return Record{}, fmt.Errorf("missing column %q", groupColumn)
	}
	group, err := FromGo(raw)
	if err != nil {
		return Record{}, fmt.Errorf("column %q: %w", groupColumn, err)
	}

	values := make([]Value, len(exprs))
	for i, expr := range exprs {
		raw, ok := row[expr]
		if !ok {
			return Record{}, fmt.Errorf("missing column %q", expr)
		}
		v, err := FromGo(raw)
		if err != nil {
			return Record{}, fmt.Errorf("column %q: %w", expr, err)
		}
		values[i] = v
	}
	return Record{Group: group, Values: values}, nil
}
