package query

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/ValentinKolb/dDS/lib/key"
)

// Wire form field names.
const (
	wireKey       = "key"
	wireLimit     = "limit"
	wireOffset    = "offset"
	wireOffsetKey = "offset_key"
	wireFilter    = "filter"
	wireOrder     = "order"
)

// ToMap returns the wire form of the query:
//
//	{"key": "/a", "limit": 10, "offset": 5, "offset_key": "/a/x",
//	 "filter": [["age", ">=", 18]], "order": ["+name", "-age"]}
//
// limit is omitted for unbounded queries, offset when zero and offset_key
// when empty. The accessor is not part of the wire form.
func (q *Query) ToMap() map[string]any {
	m := map[string]any{wireKey: q.Key.String()}
	if q.HasLimit() {
		m[wireLimit] = q.Limit
	}
	if q.Offset > 0 {
		m[wireOffset] = q.Offset
	}
	if q.OffsetKey != "" {
		m[wireOffsetKey] = q.OffsetKey
	}
	if len(q.Filters) > 0 {
		filters := make([]any, len(q.Filters))
		for i, f := range q.Filters {
			filters[i] = []any{f.Field, string(f.Op), f.Value}
		}
		m[wireFilter] = filters
	}
	if len(q.Orders) > 0 {
		orders := make([]any, len(q.Orders))
		for i, o := range q.Orders {
			orders[i] = o.String()
		}
		m[wireOrder] = orders
	}
	return m
}

// FromMap builds a query from its wire form. Unknown fields are ignored.
func FromMap(m map[string]any) (*Query, error) {
	rawKey, ok := m[wireKey].(string)
	if !ok {
		return nil, fmt.Errorf("%w: %q must be a string key", ErrInvalidQuery, wireKey)
	}
	q := New(key.New(rawKey))

	if raw, ok := m[wireLimit]; ok && raw != nil {
		limit, err := wireInt(wireLimit, raw)
		if err != nil {
			return nil, err
		}
		q.Limit = limit
	}
	if raw, ok := m[wireOffset]; ok && raw != nil {
		offset, err := wireInt(wireOffset, raw)
		if err != nil {
			return nil, err
		}
		q.Offset = offset
	}
	if raw, ok := m[wireOffsetKey]; ok && raw != nil {
		s, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("%w: %q must be a string", ErrInvalidQuery, wireOffsetKey)
		}
		q.OffsetKey = s
	}

	filters, err := wireList(wireFilter, m[wireFilter])
	if err != nil {
		return nil, err
	}
	for _, raw := range filters {
		triple, err := wireList(wireFilter, raw)
		if err != nil {
			return nil, err
		}
		if len(triple) != 3 {
			return nil, fmt.Errorf("%w: filter %v must be [field, op, value]", ErrInvalidQuery, raw)
		}
		field, fok := triple[0].(string)
		op, ook := triple[1].(string)
		if !fok || !ook {
			return nil, fmt.Errorf("%w: filter %v must start with string field and operator", ErrInvalidQuery, raw)
		}
		if _, err := q.Where(field, op, triple[2]); err != nil {
			return nil, err
		}
	}

	orders, err := wireList(wireOrder, m[wireOrder])
	if err != nil {
		return nil, err
	}
	for _, raw := range orders {
		spec, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("%w: order %v must be a string", ErrInvalidQuery, raw)
		}
		if _, err := q.OrderBy(spec); err != nil {
			return nil, err
		}
	}
	return q, nil
}

// MarshalJSON encodes the wire form.
func (q *Query) MarshalJSON() ([]byte, error) {
	return json.Marshal(q.ToMap())
}

// UnmarshalJSON decodes the wire form.
func (q *Query) UnmarshalJSON(b []byte) error {
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return err
	}
	decoded, err := FromMap(m)
	if err != nil {
		return err
	}
	*q = *decoded
	return nil
}

// wireInt accepts any integral number (json decodes numbers as float64).
func wireInt(field string, raw any) (int, error) {
	f, ok := toFloat(raw)
	if !ok || f != math.Trunc(f) {
		return 0, fmt.Errorf("%w: %q must be an integer, got %v", ErrInvalidQuery, field, raw)
	}
	if f < 0 {
		return 0, fmt.Errorf("%w: %q must not be negative, got %v", ErrInvalidQuery, field, raw)
	}
	if f >= math.MaxInt {
		return 0, fmt.Errorf("%w: %q is too large, got %v", ErrInvalidQuery, field, raw)
	}
	return int(f), nil
}

// wireList accepts []any and []string sequences; nil is an empty list.
func wireList(field string, raw any) ([]any, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case []any:
		return v, nil
	case []string:
		list := make([]any, len(v))
		for i, s := range v {
			list[i] = s
		}
		return list, nil
	default:
		return nil, fmt.Errorf("%w: %q must be a list, got %T", ErrInvalidQuery, field, raw)
	}
}
