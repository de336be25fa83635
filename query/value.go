package query

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Kind identifies the shape of a filter value.
type Kind int

const (
	KindScalar     Kind = iota // plain string, number or boolean
	KindComparison             // scalar decorated with a comparison operator
	KindRange                  // [start, end] date range
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindComparison:
		return "comparison"
	case KindRange:
		return "range"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Operator is a comparison operator carried by a decorated value.
type Operator string

const (
	OpNone Operator = ""
	OpGt   Operator = ">"
	OpGte  Operator = ">="
	OpLt   Operator = "<"
	OpLte  Operator = "<="
)

// Valid reports whether op is one of the supported comparison operators.
func (op Operator) Valid() bool {
	switch op {
	case OpGt, OpGte, OpLt, OpLte:
		return true
	}
	return false
}

var numericPattern = regexp.MustCompile(`^[+-]?[0-9]+(\.[0-9]+)?$`)

// IsNumeric reports whether s is emitted unquoted by the serializer.
func IsNumeric(s string) bool {
	return numericPattern.MatchString(s)
}

// Value is a single filter value. The zero value is the empty string scalar.
type Value struct {
	kind   Kind
	scalar any // string, float64 or bool
	op     Operator
	start  string
	end    string
	full   bool // range carries both bounds
}

// String returns a string scalar. Strings reaching FromRaw, including the
// JSON location form, become comparisons when they start with '>' or '<';
// use Compare for those.
func String(s string) Value { return Value{kind: KindScalar, scalar: s} }

// Number returns a numeric scalar.
func Number(f float64) Value { return Value{kind: KindScalar, scalar: f} }

// Bool returns a boolean scalar.
func Bool(b bool) Value { return Value{kind: KindScalar, scalar: b} }

// Compare returns a comparison-decorated value. An invalid operator yields a plain string scalar.
func Compare(op Operator, operand string) Value {
	if !op.Valid() {
		return String(operand)
	}
	return Value{kind: KindComparison, op: op, scalar: operand}
}

// Range returns a date range. An empty end yields OpenRange(start).
func Range(start, end string) Value {
	if end == "" {
		return OpenRange(start)
	}
	return Value{kind: KindRange, start: start, end: end, full: true}
}

// OpenRange returns a range missing its end bound; it never produces a clause.
func OpenRange(start string) Value {
	return Value{kind: KindRange, start: start}
}

// Kind returns the value kind.
func (v Value) Kind() Kind { return v.kind }

// Operator returns the comparison operator, or OpNone.
func (v Value) Operator() Operator { return v.op }

// Scalar returns the underlying scalar (string, float64 or bool) of a scalar or
// the operand of a comparison.
func (v Value) Scalar() any {
	if v.scalar == nil && v.kind != KindRange {
		return ""
	}
	return v.scalar
}

// Bounds returns the range bounds and whether both are present.
func (v Value) Bounds() (start, end string, ok bool) {
	return v.start, v.end, v.kind == KindRange && v.full
}

// Operand returns the scalar part rendered as text, without operator decoration.
func (v Value) Operand() string {
	switch s := v.Scalar().(type) {
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(s)
	}
	return ""
}

// Undecorated strips the comparison operator, returning what an input box displays.
func (v Value) Undecorated() Value {
	if v.kind != KindComparison {
		return v
	}
	return String(v.Operand())
}

// Label renders the value for active-filter chips.
func (v Value) Label() string {
	switch v.kind {
	case KindRange:
		return v.start + " ~ " + v.end
	case KindComparison:
		return string(v.op) + v.Operand()
	}
	return v.Operand()
}

// Equal reports strict equality: same kind, operator and underlying value.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindRange:
		return v.start == o.start && v.end == o.end && v.full == o.full
	case KindComparison:
		return v.op == o.op && v.Operand() == o.Operand()
	}
	return v.Scalar() == o.Scalar()
}

// IsEmpty reports whether the value is an empty string scalar.
func (v Value) IsEmpty() bool {
	if v.kind != KindScalar {
		return false
	}
	s, ok := v.Scalar().(string)
	return ok && s == ""
}

// SplitOperator splits a leading comparison operator off s.
func SplitOperator(s string) (Operator, string) {
	switch {
	case strings.HasPrefix(s, ">="):
		return OpGte, s[2:]
	case strings.HasPrefix(s, "<="):
		return OpLte, s[2:]
	case strings.HasPrefix(s, ">"):
		return OpGt, s[1:]
	case strings.HasPrefix(s, "<"):
		return OpLt, s[1:]
	}
	return OpNone, s
}

// FromRaw converts a raw widget or decoded JSON value into a Value. Strings
// starting with '>' or '<' become comparisons, 2-element arrays become ranges
// and shorter arrays become open ranges.
func FromRaw(raw any) (Value, error) {
	switch r := raw.(type) {
	case Value:
		return r, nil
	case string:
		if op, operand := SplitOperator(r); op != OpNone {
			return Compare(op, operand), nil
		}
		return String(r), nil
	case float64:
		return Number(r), nil
	case float32:
		return Number(float64(r)), nil
	case int:
		return Number(float64(r)), nil
	case int64:
		return Number(float64(r)), nil
	case json.Number:
		f, err := r.Float64()
		if err != nil {
			return Value{}, fmt.Errorf("invalid number %q: %w", r, err)
		}
		return Number(f), nil
	case bool:
		return Bool(r), nil
	case []string:
		return rangeFromStrings(r), nil
	case []any:
		parts := make([]string, 0, len(r))
		for _, p := range r {
			s, ok := p.(string)
			if !ok {
				return Value{}, fmt.Errorf("range bound must be a string, got %T", p)
			}
			parts = append(parts, s)
		}
		return rangeFromStrings(parts), nil
	}
	return Value{}, fmt.Errorf("unsupported filter value type %T", raw)
}

func rangeFromStrings(parts []string) Value {
	switch {
	case len(parts) >= 2 && parts[1] != "":
		return Range(parts[0], parts[1])
	case len(parts) >= 1:
		return OpenRange(parts[0])
	}
	return OpenRange("")
}

// MarshalJSON encodes scalars as themselves, comparisons as decorated strings
// and ranges as two-element arrays.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindRange:
		if !v.full {
			return marshalJSON([]string{v.start})
		}
		return marshalJSON([]string{v.start, v.end})
	case KindComparison:
		return marshalJSON(string(v.op) + v.Operand())
	}
	return marshalJSON(v.Scalar())
}

// UnmarshalJSON decodes the MarshalJSON form, re-deriving comparison operators
// from the leading character of string values.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	val, err := FromRaw(raw)
	if err != nil {
		return err
	}
	*v = val
	return nil
}
