package attr

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Value is a sealed interface representing a scalar attribute value.
// Only Null, String, Int and Float implement it.
type Value interface {
	attrValue() // Sealed - only these types implement it

	// Literal returns the unquoted SQL text for the value.
	// Null renders as NULL.
	Literal() string
}

// Null represents a database NULL.
type Null struct{}

func (Null) attrValue() {}

// Literal implements Value.
func (Null) Literal() string { return "NULL" }

// MarshalJSON implements json.Marshaler for Null.
func (Null) MarshalJSON() ([]byte, error) {
	return []byte("null"), nil
}

// String represents a text value.
type String string

func (String) attrValue() {}

// Literal implements Value.
func (s String) Literal() string { return string(s) }

// Int represents an integer value.
type Int int64

func (Int) attrValue() {}

// Literal implements Value.
func (i Int) Literal() string { return strconv.FormatInt(int64(i), 10) }

// Float represents a floating-point value.
type Float float64

func (Float) attrValue() {}

// Literal implements Value.
// Uses the shortest representation that round-trips, e.g. 0.4 renders as "0.4".
func (f Float) Literal() string {
	v := float64(f)
	switch {
	case math.IsNaN(v):
		return "NULL"
	case math.IsInf(v, 0):
		return "NULL"
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// IsNull reports whether v is nil, Null, or a NaN or infinite Float.
func IsNull(v Value) bool {
	switch val := v.(type) {
	case nil, Null:
		return true
	case Float:
		f := float64(val)
		return math.IsNaN(f) || math.IsInf(f, 0)
	}
	return false
}

// FromGo converts a value scanned from database/sql (or decoded from JSON)
// into a Value.
func FromGo(v any) (Value, error) {
	switch val := v.(type) {
	case nil:
		return Null{}, nil
	case Value:
		return val, nil
	case string:
		return String(val), nil
	case []byte:
		return String(val), nil
	case int:
		return Int(val), nil
	case int32:
		return Int(val), nil
	case int64:
		return Int(val), nil
	case float32:
		return Float(val), nil
	case float64:
		return Float(val), nil
	case bool:
		if val {
			return Int(1), nil
		}
		return Int(0), nil
	case json.Number:
		return fromNumber(val)
	default:
		return nil, fmt.Errorf("unsupported attribute type: %T", v)
	}
}

// fromNumber keeps integers as Int and everything else as Float.
func fromNumber(n json.Number) (Value, error) {
	s := string(n)
	if !strings.ContainsAny(s, ".eE") {
		if i, err := n.Int64(); err == nil {
			return Int(i), nil
		}
	}
	f, err := n.Float64()
	if err != nil {
		return nil, fmt.Errorf("invalid number %q: %w", s, err)
	}
	return Float(f), nil
}
