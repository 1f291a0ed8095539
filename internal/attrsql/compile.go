package attrsql

import (
	"fmt"
	"strings"

	"github.com/roach88/sewershed/internal/attr"
)

// Transaction boundaries emitted around every script.
const (
	BeginTransaction = "BEGIN TRANSACTION"
	EndTransaction   = "END TRANSACTION"
)

// ColumnUpdate sets one column on the rows selected by Where.
type ColumnUpdate struct {
	// Column is the target column name.
	Column string `json:"column"`

	// Type is the declared SQL type of Column; it drives value quoting.
	Type string `json:"type"`

	// Value is the new value. Nil is treated as Null.
	Value attr.Value `json:"value"`

	// Where is a WHERE clause fragment without the keyword.
	Where string `json:"where"`
}

// Script is an ordered list of UPDATE statements executed as one transaction.
type Script struct {
	Table      string
	Statements []string
}

// Compile converts updates into a transactional UPDATE script for table.
// Statement order follows the input order. An empty update list compiles to
// a transaction with no statements.
func Compile(table string, updates []ColumnUpdate) Script {
	statements := make([]string, 0, len(updates))
	for _, u := range updates {
		statements = append(statements, fmt.Sprintf("UPDATE %s SET %s = %s WHERE %s;",
			table,
			u.Column,
			setValue(u),
			u.Where))
	}
	return Script{Table: table, Statements: statements}
}

// setValue renders the right-hand side of a SET assignment.
// Null is always the bare NULL token regardless of the declared type.
func setValue(u ColumnUpdate) string {
	if attr.IsNull(u.Value) {
		return "NULL"
	}
	if NeedsQuoting(u.Type) {
		return QuoteString(u.Value.Literal())
	}
	return u.Value.Literal()
}

// String renders the script as newline-separated SQL text wrapped in
// BEGIN TRANSACTION and END TRANSACTION.
func (s Script) String() string {
	lines := make([]string, 0, len(s.Statements)+2)
	lines = append(lines, BeginTransaction)
	lines = append(lines, s.Statements...)
	lines = append(lines, EndTransaction)
	return strings.Join(lines, "\n")
}

// Len returns the number of UPDATE statements.
func (s Script) Len() int {
	return len(s.Statements)
}
