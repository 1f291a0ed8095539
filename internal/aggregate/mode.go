package aggregate

import (
	"fmt"
	"strings"
)

// Result types assigned to method-applied aggregates.
const (
	TypeInteger = "INTEGER"
	TypeDouble  = "DOUBLE"
)

// Mode describes how select expressions and result types are derived.
// It is either Raw or MethodApplied.
type Mode interface {
	mode() // Sealed

	// selectExpressions returns the SQL select expressions, one per result column.
	selectExpressions() []string

	// columns resolves result column names and types.
	columns(resultColumns []string) ([]Column, error)
}

// Raw uses complete SQL aggregate expressions verbatim, for example
// "cast(sum(x) as real) / sum(y)". Each result column must be written as
// "name type".
type Raw struct {
	Expressions []string
}

func (Raw) mode() {}

func (r Raw) selectExpressions() []string {
	return append([]string(nil), r.Expressions...)
}

func (r Raw) columns(resultColumns []string) ([]Column, error) {
	cols := make([]Column, 0, len(resultColumns))
	for i, def := range resultColumns {
		name, typ, ok := strings.Cut(def, " ")
		if !ok {
			return nil, newValidationError("result_columns",
				"column %s from result_columns without type", def)
		}
		if name == "" || typ == "" {
			return nil, newValidationError("result_columns",
				"column definition %q must be \"name type\"", def)
		}
		cols = append(cols, Column{Name: name, Type: typ, Select: r.Expressions[i]})
	}
	return cols, nil
}

// MethodApplied wraps each column in an SQL aggregate method, for example
// sum(P0010003). Result columns are bare names; types come from the methods.
type MethodApplied struct {
	Columns []string
	Methods []string
}

func (MethodApplied) mode() {}

func (m MethodApplied) selectExpressions() []string {
	exprs := make([]string, len(m.Columns))
	for i, col := range m.Columns {
		exprs[i] = fmt.Sprintf("%s(%s)", m.Methods[i], col)
	}
	return exprs
}

// columns pairs result names with the method type list repeated once per
// aggregated column. Pairing stops at the shorter list, so with one method
// per column each result column receives the type of its own method.
func (m MethodApplied) columns(resultColumns []string) ([]Column, error) {
	types := make([]string, 0, len(m.Methods)*len(m.Columns))
	for range m.Columns {
		for _, method := range m.Methods {
			types = append(types, methodType(method))
		}
	}

	exprs := m.selectExpressions()
	n := min(len(resultColumns), len(types))
	cols := make([]Column, 0, n)
	for i := 0; i < n; i++ {
		cols = append(cols, Column{Name: resultColumns[i], Type: types[i], Select: exprs[i]})
	}
	return cols, nil
}

// methodType returns INTEGER for count and DOUBLE for every other method.
func methodType(method string) string {
	if strings.EqualFold(method, "count") {
		return TypeInteger
	}
	return TypeDouble
}
