package query

import (
	"fmt"
	"slices"
)

// --------------------------------------------------------------------------
// Operators
// --------------------------------------------------------------------------

// Op is a conditional operator of a Filter.
type Op string

const (
	OpLess         Op = "<"
	OpLessEqual    Op = "<="
	OpEqual        Op = "="
	OpNotEqual     Op = "!="
	OpGreaterEqual Op = ">="
	OpGreater      Op = ">"
)

// Operators lists all valid conditional operators.
var Operators = []Op{OpLess, OpLessEqual, OpEqual, OpNotEqual, OpGreaterEqual, OpGreater}

// Valid reports whether op is one of Operators.
func (op Op) Valid() bool {
	return slices.Contains(Operators, op)
}

// holds reports whether a comparison result satisfies the operator.
func (op Op) holds(cmp int) bool {
	switch op {
	case OpLess:
		return cmp < 0
	case OpLessEqual:
		return cmp <= 0
	case OpEqual:
		return cmp == 0
	case OpNotEqual:
		return cmp != 0
	case OpGreaterEqual:
		return cmp >= 0
	case OpGreater:
		return cmp > 0
	default:
		return false
	}
}

// --------------------------------------------------------------------------
// Filter
// --------------------------------------------------------------------------

// Filter is a predicate on a single field of a value, e.g.
//
//	NewFilter("name", "=", "John Cleese")
//	NewFilter("age", ">=", 18)
type Filter struct {
	Field    string
	Op       Op
	Value    any
	Accessor FieldAccessor // nil = DefaultAccessor
}

// NewFilter creates a filter. An unknown operator fails with ErrInvalidOperator.
func NewFilter(field string, op string, value any) (Filter, error) {
	if !Op(op).Valid() {
		return Filter{}, fmt.Errorf("%w: %q", ErrInvalidOperator, op)
	}
	return Filter{Field: field, Op: Op(op), Value: value}, nil
}

// Passes reports whether obj passes this filter.
func (f Filter) Passes(obj any) bool {
	value, ok := accessorOrDefault(f.Accessor).Field(obj, f.Field)
	if !ok {
		// absent only ever equals an explicit nil
		return f.Op == OpEqual && f.Value == nil
	}
	return f.ValuePasses(value)
}

// ValuePasses reports whether an extracted field value passes this filter.
func (f Filter) ValuePasses(value any) bool {
	if value == nil || f.Value == nil {
		same := value == nil && f.Value == nil
		switch f.Op {
		case OpEqual:
			return same
		case OpNotEqual:
			return !same
		default:
			return false
		}
	}

	cmp, ok := compareValues(value, f.Value)
	if !ok {
		return false
	}
	return f.Op.holds(cmp)
}

// String returns "field op value".
func (f Filter) String() string {
	return fmt.Sprintf("%s %s %v", f.Field, f.Op, f.Value)
}

// FilterItems returns the items passing all filters, in their original order.
func FilterItems(filters []Filter, items []any) []any {
	var result []any
	for _, item := range items {
		if passesAll(filters, item) {
			result = append(result, item)
		}
	}
	return result
}

func passesAll(filters []Filter, item any) bool {
	for _, f := range filters {
		if !f.Passes(item) {
			return false
		}
	}
	return true
}
