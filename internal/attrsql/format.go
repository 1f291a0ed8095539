package attrsql

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// numericTypes are declared column types whose values are written unquoted.
var numericTypes = map[string]bool{
	"INT":              true,
	"INTEGER":          true,
	"SMALLINT":         true,
	"REAL":             true,
	"DOUBLE":           true,
	"DOUBLE PRECISION": true,
}

// NeedsQuoting reports whether values of the declared column type must be
// quoted in SQL text.
//
// A missing type is assumed to be numeric and is not quoted. An unrecognized
// non-empty type is assumed to be textual and is quoted.
func NeedsQuoting(declaredType string) bool {
	if declaredType == "" {
		return false
	}
	return !numericTypes[cases.Upper(language.Und).String(declaredType)]
}

// QuoteString wraps s in single quotes, doubling any embedded quote.
func QuoteString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
