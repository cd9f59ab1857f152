package query

import "errors"

var (
	// ErrInvalidOperator is returned when a Filter is created with an unknown operator.
	ErrInvalidOperator = errors.New("query: invalid filter operator")
	// ErrInvalidOrder is returned when an order string cannot be parsed.
	ErrInvalidOrder = errors.New("query: invalid order")
	// ErrInvalidQuery is returned when a wire form query is malformed.
	ErrInvalidQuery = errors.New("query: invalid query")
	// ErrInvariantViolation is returned when a Cursor is iterated twice or
	// its pipeline is modified after iteration began.
	ErrInvariantViolation = errors.New("query: cursor invariant violation")
)
