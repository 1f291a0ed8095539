package attrsql

import (
	"fmt"

	"github.com/roach88/sewershed/internal/attr"
)

// WhereForValue builds a WHERE clause fragment (without the keyword) that
// selects rows whose column equals value.
//
// A null value always yields "column IS NULL". Otherwise the value is quoted
// only when quote is true; no type inference is done here.
func WhereForValue(column string, value attr.Value, quote bool) string {
	if attr.IsNull(value) {
		return fmt.Sprintf("%s IS NULL", column)
	}
	if quote {
		return fmt.Sprintf("%s=%s", column, QuoteString(value.Literal()))
	}
	return fmt.Sprintf("%s=%s", column, value.Literal())
}
