package aggregate

// Column is one resolved result column.
type Column struct {
	// Name is the output column name.
	Name string `json:"name"`

	// Type is the output column SQL type.
	Type string `json:"type"`

	// Select is the SQL select expression computing the value.
	Select string `json:"select"`
}

// Definition returns the column as "name type".
func (c Column) Definition() string {
	return c.Name + " " + c.Type
}

// Spec is a validated aggregate specification.
type Spec struct {
	Mode    Mode
	Columns []Column
}

// NewSpec validates the aggregate arguments and resolves result columns.
//
// With no methods, aggregateExprs are used verbatim and every result column
// must be "name type". With methods, each expression is wrapped as
// method(expr) and types are derived from the methods.
func NewSpec(aggregateExprs, methods, resultColumns []string) (Spec, error) {
	if len(aggregateExprs) != len(resultColumns) {
		return Spec{}, newValidationError("result_columns",
			"number of aggregate columns (%d) and result columns (%d) must be the same",
			len(aggregateExprs), len(resultColumns))
	}
	if len(methods) > 0 && len(methods) != len(aggregateExprs) {
		return Spec{}, newValidationError("methods",
			"number of aggregate columns (%d) and methods (%d) must be the same",
			len(aggregateExprs), len(methods))
	}

	var mode Mode
	if len(methods) > 0 {
		mode = MethodApplied{Columns: aggregateExprs, Methods: methods}
	} else {
		mode = Raw{Expressions: aggregateExprs}
	}

	cols, err := mode.columns(resultColumns)
	if err != nil {
		return Spec{}, err
	}
	return Spec{Mode: mode, Columns: cols}, nil
}

// SelectExpressions returns the select expressions in result column order.
func (s Spec) SelectExpressions() []string {
	exprs := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		exprs[i] = c.Select
	}
	return exprs
}

// AddColumns returns the "name type" definitions of all result columns.
func (s Spec) AddColumns() []string {
	defs := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		defs[i] = c.Definition()
	}
	return defs
}
