package query

import (
	"fmt"
	"iter"
)

// --------------------------------------------------------------------------
// Sources
// --------------------------------------------------------------------------

// Source yields candidate values one at a time. ok is false once the source
// is exhausted. Sources are pulled lazily and never rewound.
type Source func() (value any, ok bool, err error)

// FromSlice returns a source over the given values.
func FromSlice(values []any) Source {
	i := 0
	return func() (any, bool, error) {
		if i >= len(values) {
			return nil, false, nil
		}
		i++
		return values[i-1], true, nil
	}
}

// Empty returns a source without values.
func Empty() Source {
	return FromSlice(nil)
}

// Concat chains sources, draining each one before moving to the next.
func Concat(sources ...Source) Source {
	return func() (any, bool, error) {
		for len(sources) > 0 {
			v, ok, err := sources[0]()
			if err != nil || ok {
				return v, ok, err
			}
			sources = sources[1:]
		}
		return nil, false, nil
	}
}

// MapSource applies fn to every value pulled from src.
func MapSource(src Source, fn func(any) (any, error)) Source {
	return func() (any, bool, error) {
		v, ok, err := src()
		if err != nil || !ok {
			return nil, ok, err
		}
		v, err = fn(v)
		if err != nil {
			return nil, false, err
		}
		return v, true, nil
	}
}

// drain pulls all remaining values of src into a slice.
func drain(src Source) ([]any, error) {
	var values []any
	for {
		v, ok, err := src()
		if err != nil {
			return nil, err
		}
		if !ok {
			return values, nil
		}
		values = append(values, v)
	}
}

// --------------------------------------------------------------------------
// Cursor
// --------------------------------------------------------------------------

// Cursor is the single-use, pull-based result stream of a query.
//
// The pipeline is built with the Apply* methods before the first pull.
// Filter, offset and limit are lazy passes, order materializes the filtered
// results on the first pull. A cursor can be iterated at most once; building
// the pipeline after iteration started or iterating a second time fails with
// ErrInvariantViolation.
//
// Thread-safety: A cursor must not be used concurrently.
type Cursor struct {
	query    *Query
	src      Source
	started  bool
	done     bool
	skipped  int
	returned int
}

// NewCursor creates a cursor for q over src without any pipeline stage.
func NewCursor(q *Query, src Source) *Cursor {
	if src == nil {
		src = Empty()
	}
	return &Cursor{query: q, src: src}
}

// Query returns the query this cursor was created for.
func (c *Cursor) Query() *Query {
	return c.query
}

// Skipped returns the number of values dropped by the offset stage so far.
func (c *Cursor) Skipped() int {
	return c.skipped
}

// Returned returns the number of values handed to the caller so far.
func (c *Cursor) Returned() int {
	return c.returned
}

// Started reports whether iteration has begun.
func (c *Cursor) Started() bool {
	return c.started
}

func (c *Cursor) ensureModifiable() error {
	if c.started {
		return fmt.Errorf("%w: cursor must not be modified after iteration started", ErrInvariantViolation)
	}
	return nil
}

// Wrap replaces the current source by wrap(source). Shims use it to layer a
// pass over the results, e.g. decoding, before the caller starts iterating.
func (c *Cursor) Wrap(wrap func(Source) Source) error {
	if err := c.ensureModifiable(); err != nil {
		return err
	}
	c.src = wrap(c.src)
	return nil
}

// ApplyFilter adds a lazy pass yielding only values passing all query filters.
func (c *Cursor) ApplyFilter() error {
	if err := c.ensureModifiable(); err != nil {
		return err
	}
	filters := c.query.Filters
	if len(filters) == 0 {
		return nil
	}
	src := c.src
	c.src = func() (any, bool, error) {
		for {
			v, ok, err := src()
			if err != nil || !ok {
				return nil, ok, err
			}
			if passesAll(filters, v) {
				return v, true, nil
			}
		}
	}
	return nil
}

// ApplyOrder adds the ordering stage. The stage is eager: on the first pull
// it reads the whole upstream into memory and sorts it.
func (c *Cursor) ApplyOrder() error {
	if err := c.ensureModifiable(); err != nil {
		return err
	}
	orders := c.query.Orders
	if len(orders) == 0 {
		return nil
	}
	src := c.src
	var sorted Source
	c.src = func() (any, bool, error) {
		if sorted == nil {
			items, err := drain(src)
			if err != nil {
				return nil, false, err
			}
			SortItems(orders, items)
			sorted = FromSlice(items)
		}
		return sorted()
	}
	return nil
}

// ApplyOffset adds a lazy pass skipping the first Offset values.
func (c *Cursor) ApplyOffset() error {
	if err := c.ensureModifiable(); err != nil {
		return err
	}
	remaining := c.query.Offset
	if remaining <= 0 {
		return nil
	}
	src := c.src
	c.src = func() (any, bool, error) {
		for remaining > 0 {
			_, ok, err := src()
			if err != nil || !ok {
				return nil, ok, err
			}
			remaining--
			c.skipped++
		}
		return src()
	}
	return nil
}

// ApplyLimit adds a lazy pass ending the stream after Limit values.
func (c *Cursor) ApplyLimit() error {
	if err := c.ensureModifiable(); err != nil {
		return err
	}
	if !c.query.HasLimit() {
		return nil
	}
	remaining := c.query.Limit
	src := c.src
	c.src = func() (any, bool, error) {
		if remaining <= 0 {
			return nil, false, nil
		}
		v, ok, err := src()
		if ok {
			remaining--
		}
		return v, ok, err
	}
	return nil
}

// Next pulls the next value. ok is false once the cursor is exhausted.
func (c *Cursor) Next() (value any, ok bool, err error) {
	c.started = true
	if c.done {
		return nil, false, nil
	}
	value, ok, err = c.src()
	if err != nil || !ok {
		c.done = true
		return nil, false, err
	}
	c.returned++
	return value, true, nil
}

// begin marks the start of a full iteration. It fails if the cursor was already iterated.
func (c *Cursor) begin() error {
	if c.started {
		return fmt.Errorf("%w: attempt to iterate over cursor twice", ErrInvariantViolation)
	}
	c.started = true
	return nil
}

// All returns an iterator over the remaining values. Ranging over a cursor
// that was already iterated yields ErrInvariantViolation once.
//
//	for v, err := range cursor.All() { ... }
func (c *Cursor) All() iter.Seq2[any, error] {
	return func(yield func(any, error) bool) {
		if err := c.begin(); err != nil {
			yield(nil, err)
			return
		}
		for {
			v, ok, err := c.Next()
			if err != nil {
				yield(nil, err)
				return
			}
			if !ok || !yield(v, nil) {
				return
			}
		}
	}
}

// Collect iterates the cursor to completion and returns all values.
func (c *Cursor) Collect() ([]any, error) {
	if err := c.begin(); err != nil {
		return nil, err
	}
	values := []any{}
	for {
		v, ok, err := c.Next()
		if err != nil {
			return values, err
		}
		if !ok {
			return values, nil
		}
		values = append(values, v)
	}
}
