package query

import (
	"fmt"
	"sort"
)

const (
	ascendingSigil  = '+'
	descendingSigil = '-'
)

// Order sorts results by a single field.
type Order struct {
	Field      string
	descending bool
	Accessor   FieldAccessor // nil = DefaultAccessor
}

// ParseOrder parses an order of the form [+-]field:
//
//	ParseOrder("+name")  // ascending by name
//	ParseOrder("-age")   // descending by age
func ParseOrder(s string) (Order, error) {
	if len(s) < 2 {
		return Order{}, fmt.Errorf("%w: %q (expected [+-]field)", ErrInvalidOrder, s)
	}
	switch s[0] {
	case ascendingSigil:
		return Order{Field: s[1:]}, nil
	case descendingSigil:
		return Order{Field: s[1:], descending: true}, nil
	default:
		return Order{}, fmt.Errorf("%w: %q must start with '+' or '-'", ErrInvalidOrder, s)
	}
}

// Ascending returns an ascending order on field.
func Ascending(field string) Order {
	return Order{Field: field}
}

// Descending returns a descending order on field.
func Descending(field string) Order {
	return Order{Field: field, descending: true}
}

// Descending reports the direction of this order.
func (o Order) Descending() bool {
	return o.descending
}

// String returns the wire form, e.g. "-age".
func (o Order) String() string {
	if o.descending {
		return string(descendingSigil) + o.Field
	}
	return string(ascendingSigil) + o.Field
}

// compare orders two items by this order's field and direction.
// Absent values sort before present ones, incomparable values are equal.
func (o Order) compare(a, b any) int {
	accessor := accessorOrDefault(o.Accessor)
	va, okA := accessor.Field(a, o.Field)
	vb, okB := accessor.Field(b, o.Field)
	okA = okA && va != nil
	okB = okB && vb != nil

	var cmp int
	switch {
	case !okA && !okB:
		cmp = 0
	case !okA:
		cmp = -1
	case !okB:
		cmp = 1
	default:
		cmp, _ = compareValues(va, vb)
	}

	if o.descending {
		return -cmp
	}
	return cmp
}

// SortItems sorts items in place by a single combined comparator: the first
// order is the primary key, each further order breaks the remaining ties.
// The sort is stable, so fully tied items keep their relative order.
func SortItems(orders []Order, items []any) {
	if len(orders) == 0 {
		return
	}
	sort.SliceStable(items, func(i, j int) bool {
		for _, o := range orders {
			if cmp := o.compare(items[i], items[j]); cmp != 0 {
				return cmp < 0
			}
		}
		return false
	})
}
