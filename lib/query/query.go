package query

import (
	"fmt"

	"github.com/ValentinKolb/dDS/lib/key"
)

// NoLimit marks a query without a result limit.
const NoLimit = -1

// Query describes a set of values below a scope key. Queries are plain
// descriptions: the datastore decides how to evaluate them, falling back
// to Apply for a naive in-memory evaluation.
//
// A Query is owned by its creator. Datastores that need to rewrite it work
// on a Copy.
type Query struct {
	Key       key.Key  // scope
	Filters   []Filter // all must pass
	Orders    []Order  // primary first
	Limit     int      // NoLimit or >= 0
	Offset    int      // >= 0
	OffsetKey string   // resume marker, advisory only
	Accessor  FieldAccessor
}

// Option configures a Query in New.
type Option func(*Query)

// WithLimit limits the number of results. A negative limit means NoLimit.
func WithLimit(limit int) Option {
	return func(q *Query) {
		if limit < 0 {
			limit = NoLimit
		}
		q.Limit = limit
	}
}

// WithOffset skips the first offset results. Negative offsets are treated as zero.
func WithOffset(offset int) Option {
	return func(q *Query) {
		q.Offset = max(offset, 0)
	}
}

// WithOffsetKey sets the advisory resume marker.
func WithOffsetKey(offsetKey string) Option {
	return func(q *Query) {
		q.OffsetKey = offsetKey
	}
}

// WithAccessor overrides the field accessor used by all filters and orders of the query.
func WithAccessor(accessor FieldAccessor) Option {
	return func(q *Query) {
		q.Accessor = accessor
	}
}

// New creates an unbounded query for the given scope.
func New(scope key.Key, opts ...Option) *Query {
	q := &Query{Key: scope, Limit: NoLimit}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// HasLimit reports whether the query is bounded.
func (q *Query) HasLimit() bool {
	return q.Limit >= 0
}

// AddFilter appends a filter. The filter uses the query's accessor unless it
// brings its own. Returns q for chaining.
func (q *Query) AddFilter(f Filter) *Query {
	if f.Accessor == nil {
		f.Accessor = q.Accessor
	}
	q.Filters = append(q.Filters, f)
	return q
}

// Where creates and appends a filter, see NewFilter.
func (q *Query) Where(field, op string, value any) (*Query, error) {
	f, err := NewFilter(field, op, value)
	if err != nil {
		return q, err
	}
	return q.AddFilter(f), nil
}

// AddOrder appends an order. Returns q for chaining.
func (q *Query) AddOrder(o Order) *Query {
	if o.Accessor == nil {
		o.Accessor = q.Accessor
	}
	q.Orders = append(q.Orders, o)
	return q
}

// OrderBy parses and appends an order, see ParseOrder.
func (q *Query) OrderBy(spec string) (*Query, error) {
	o, err := ParseOrder(spec)
	if err != nil {
		return q, err
	}
	return q.AddOrder(o), nil
}

// Copy returns a copy that shares no slices with q.
func (q *Query) Copy() *Query {
	c := *q
	c.Filters = append([]Filter(nil), q.Filters...)
	c.Orders = append([]Order(nil), q.Orders...)
	return &c
}

// ScopeOnly returns a copy of q that keeps the scope key and accessor but
// drops filters, orders, offset and limit. Shims use it when the pipeline has
// to run above their own transformation of the values.
func (q *Query) ScopeOnly() *Query {
	return New(q.Key, WithOffsetKey(q.OffsetKey), WithAccessor(q.Accessor))
}

// Apply runs the query naively over src: filter, order, offset, limit.
//
// When orders are set the whole filtered result set is held in memory.
// Datastores with large result sets should evaluate orders themselves.
func (q *Query) Apply(src Source) *Cursor {
	c := NewCursor(q, src)
	// a fresh cursor cannot have started, so the errors are impossible
	_ = c.ApplyFilter()
	_ = c.ApplyOrder()
	_ = c.ApplyOffset()
	_ = c.ApplyLimit()
	return c
}

// ApplyTo is Apply over a slice of values.
func (q *Query) ApplyTo(values []any) *Cursor {
	return q.Apply(FromSlice(values))
}

// String returns a readable description of the query.
func (q *Query) String() string {
	return fmt.Sprintf("Query(%v)", q.ToMap())
}
