package query

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/ValentinKolb/dDS/lib/key"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type person struct {
	Name string
	Age  int
	City string `json:"city"`
}

func people() []any {
	return []any{
		map[string]any{"name": "john", "age": 73, "group": "b"},
		map[string]any{"name": "eric", "age": 70, "group": "a"},
		map[string]any{"name": "terry", "age": 70, "group": "b"},
		map[string]any{"name": "graham", "age": 48, "group": "a"},
		map[string]any{"name": "michael", "age": 70, "group": "a"},
	}
}

func names(t *testing.T, values []any) []string {
	t.Helper()
	result := make([]string, len(values))
	for i, v := range values {
		result[i] = v.(map[string]any)["name"].(string)
	}
	return result
}

func TestDefaultAccessor(t *testing.T) {
	p := person{Name: "john", Age: 73, City: "london"}

	v, ok := DefaultAccessor.Field(p, "Name")
	assert.True(t, ok)
	assert.Equal(t, "john", v)

	v, ok = DefaultAccessor.Field(&p, "age")
	assert.True(t, ok)
	assert.Equal(t, 73, v)

	v, ok = DefaultAccessor.Field(p, "city")
	assert.True(t, ok)
	assert.Equal(t, "london", v)

	v, ok = DefaultAccessor.Field(map[string]any{"a": 1}, "a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	_, ok = DefaultAccessor.Field(map[string]any{"a": 1}, "b")
	assert.False(t, ok)
	_, ok = DefaultAccessor.Field(p, "missing")
	assert.False(t, ok)
	_, ok = DefaultAccessor.Field(42, "x")
	assert.False(t, ok)
	_, ok = DefaultAccessor.Field(nil, "x")
	assert.False(t, ok)
	_, ok = DefaultAccessor.Field((*person)(nil), "Name")
	assert.False(t, ok)
	_, ok = DefaultAccessor.Field(map[int]any{1: 1}, "1")
	assert.False(t, ok)
}

func TestNewFilterRejectsUnknownOperator(t *testing.T) {
	for _, op := range []string{"", "==", "<>", "~", "in"} {
		_, err := NewFilter("a", op, 1)
		assert.ErrorIs(t, err, ErrInvalidOperator, "op %q", op)
	}
	for _, op := range Operators {
		_, err := NewFilter("a", string(op), 1)
		assert.NoError(t, err)
	}
}

func TestFilterValuePasses(t *testing.T) {
	gtA, err := NewFilter("key", ">", "/A")
	require.NoError(t, err)
	assert.True(t, gtA.ValuePasses("/BCDEG"))
	assert.True(t, gtA.ValuePasses("afsdafdsa"))
	assert.False(t, gtA.ValuePasses("/6353456346543"))
	assert.False(t, gtA.ValuePasses("."))

	ltB, err := NewFilter("key", "<", "/B")
	require.NoError(t, err)
	assert.True(t, ltB.ValuePasses("/A"))
	assert.True(t, ltB.ValuePasses("."))
	assert.False(t, ltB.ValuePasses("A"))

	eq, err := NewFilter("key", "=", "/ABCD")
	require.NoError(t, err)
	assert.True(t, eq.ValuePasses("/ABCD"))
	assert.False(t, eq.ValuePasses("/ABC"))
}

func TestFilterNumbersAndMismatches(t *testing.T) {
	ge, err := NewFilter("age", ">=", 70)
	require.NoError(t, err)

	// json numbers decode as float64
	assert.True(t, ge.Passes(map[string]any{"age": float64(70)}))
	assert.True(t, ge.Passes(map[string]any{"age": uint8(71)}))
	assert.False(t, ge.Passes(map[string]any{"age": 69.5}))

	// no string to number coercion
	assert.False(t, ge.Passes(map[string]any{"age": "80"}))
	ne, err := NewFilter("age", "!=", 70)
	require.NoError(t, err)
	assert.False(t, ne.Passes(map[string]any{"age": "70"}))
}

func TestFilterLargeIntegers(t *testing.T) {
	eq, err := NewFilter("n", "=", int64(1<<53))
	require.NoError(t, err)
	assert.True(t, eq.Passes(map[string]any{"n": int64(1 << 53)}))
	assert.False(t, eq.Passes(map[string]any{"n": int64(1<<53 + 1)}))

	lt, err := NewFilter("n", "<", uint64(math.MaxUint64))
	require.NoError(t, err)
	assert.True(t, lt.Passes(map[string]any{"n": uint64(math.MaxUint64 - 1)}))
	assert.False(t, lt.Passes(map[string]any{"n": uint64(math.MaxUint64)}))

	// signed against unsigned
	assert.True(t, lt.Passes(map[string]any{"n": int64(-1)}))
	assert.True(t, lt.Passes(map[string]any{"n": int64(math.MaxInt64)}))
	gt, err := NewFilter("n", ">", int64(math.MaxInt64))
	require.NoError(t, err)
	assert.True(t, gt.Passes(map[string]any{"n": uint64(math.MaxInt64) + 1}))
	assert.False(t, gt.Passes(map[string]any{"n": uint64(math.MaxInt64)}))

	items := []any{
		map[string]any{"id": int64(1<<53 + 1)},
		map[string]any{"id": int64(1 << 53)},
	}
	SortItems([]Order{Ascending("id")}, items)
	assert.Equal(t, int64(1<<53), items[0].(map[string]any)["id"])
}

func TestFilterAbsentValues(t *testing.T) {
	missing := map[string]any{"other": 1}
	for _, op := range Operators {
		f, err := NewFilter("age", string(op), 10)
		require.NoError(t, err)
		assert.False(t, f.Passes(missing), "op %s", op)
	}

	isNil, err := NewFilter("age", "=", nil)
	require.NoError(t, err)
	assert.True(t, isNil.Passes(missing))
	assert.False(t, isNil.Passes(map[string]any{"age": 3}))

	notNil, err := NewFilter("age", "!=", nil)
	require.NoError(t, err)
	assert.True(t, notNil.Passes(map[string]any{"age": 3}))
	assert.False(t, notNil.Passes(missing))
}

func TestFilterItemsKeepsOrder(t *testing.T) {
	f, err := NewFilter("age", "=", 70)
	require.NoError(t, err)
	assert.Equal(t, []string{"eric", "terry", "michael"}, names(t, FilterItems([]Filter{f}, people())))

	g, err := NewFilter("group", "=", "a")
	require.NoError(t, err)
	assert.Equal(t, []string{"eric", "michael"}, names(t, FilterItems([]Filter{f, g}, people())))
}

func TestFilterCustomAccessor(t *testing.T) {
	nested := AccessorFunc(func(obj any, name string) (any, bool) {
		attrs, ok := obj.(map[string]any)["attributes"].(map[string]any)
		if !ok {
			return nil, false
		}
		v, ok := attrs[name]
		return v, ok
	})

	q := New(key.Root, WithAccessor(nested))
	_, err := q.Where("str", "=", "herp")
	require.NoError(t, err)

	values := []any{
		map[string]any{"attributes": map[string]any{"str": "herp"}},
		map[string]any{"attributes": map[string]any{"str": "derp"}},
		map[string]any{"str": "herp"},
	}
	result, err := q.ApplyTo(values).Collect()
	require.NoError(t, err)
	assert.Equal(t, values[:1], result)
}

func TestParseOrder(t *testing.T) {
	o, err := ParseOrder("+name")
	require.NoError(t, err)
	assert.Equal(t, "name", o.Field)
	assert.False(t, o.Descending())
	assert.Equal(t, "+name", o.String())

	o, err = ParseOrder("-age")
	require.NoError(t, err)
	assert.True(t, o.Descending())
	assert.Equal(t, "-age", o.String())

	for _, bad := range []string{"", "+", "-", "name", "*name"} {
		_, err := ParseOrder(bad)
		assert.ErrorIs(t, err, ErrInvalidOrder, "order %q", bad)
	}
}

func TestSortItemsCombinedComparator(t *testing.T) {
	items := people()
	SortItems([]Order{Descending("age"), Ascending("name")}, items)
	assert.Equal(t, []string{"john", "eric", "michael", "terry", "graham"}, names(t, items))

	items = people()
	SortItems([]Order{Ascending("group"), Descending("age"), Ascending("name")}, items)
	assert.Equal(t, []string{"eric", "michael", "graham", "john", "terry"}, names(t, items))
}

func TestSortItemsAbsentFirstAndStable(t *testing.T) {
	items := []any{
		map[string]any{"name": "x", "n": 2},
		map[string]any{"name": "y"},
		map[string]any{"name": "z", "n": 1},
		map[string]any{"name": "w"},
	}
	SortItems([]Order{Ascending("n")}, items)
	assert.Equal(t, []string{"y", "w", "z", "x"}, names(t, items))
}

func TestQueryCopyIsIndependent(t *testing.T) {
	q := New(key.New("/a"), WithLimit(3))
	_, err := q.Where("a", "=", 1)
	require.NoError(t, err)

	c := q.Copy()
	_, err = c.Where("b", "=", 2)
	require.NoError(t, err)
	c.Key = key.New("/b")

	assert.Len(t, q.Filters, 1)
	assert.Len(t, c.Filters, 2)
	assert.Equal(t, key.New("/a"), q.Key)
}

func TestQueryOptions(t *testing.T) {
	q := New(key.New("/a"))
	assert.False(t, q.HasLimit())
	assert.Equal(t, 0, q.Offset)

	q = New(key.New("/a"), WithLimit(-5), WithOffset(-2))
	assert.False(t, q.HasLimit())
	assert.Equal(t, 0, q.Offset)

	q = New(key.New("/a"), WithLimit(0))
	assert.True(t, q.HasLimit())
	result, err := q.ApplyTo(people()).Collect()
	require.NoError(t, err)
	assert.Empty(t, result)
}

func TestWireRoundTrip(t *testing.T) {
	q := New(key.New("/Comedy/MontyPython"), WithLimit(10), WithOffset(5), WithOffsetKey("/Comedy/MontyPython/x"))
	_, err := q.Where("age", ">=", 18)
	require.NoError(t, err)
	_, err = q.Where("name", "!=", "Terry")
	require.NoError(t, err)
	_, err = q.OrderBy("-age")
	require.NoError(t, err)
	_, err = q.OrderBy("+name")
	require.NoError(t, err)

	m := q.ToMap()
	assert.Equal(t, "/Comedy/MontyPython", m["key"])
	assert.Equal(t, 10, m["limit"])
	assert.Equal(t, 5, m["offset"])
	assert.Equal(t, []any{"-age", "+name"}, m["order"])

	decoded, err := FromMap(m)
	require.NoError(t, err)
	assert.Equal(t, q, decoded)

	b, err := json.Marshal(q)
	require.NoError(t, err)
	var fromJSON Query
	require.NoError(t, json.Unmarshal(b, &fromJSON))
	assert.Equal(t, q.Key, fromJSON.Key)
	assert.Equal(t, q.Limit, fromJSON.Limit)
	assert.Equal(t, q.Offset, fromJSON.Offset)
	assert.Equal(t, q.OffsetKey, fromJSON.OffsetKey)
	assert.Equal(t, q.Orders, fromJSON.Orders)
	require.Len(t, fromJSON.Filters, 2)
	for i, f := range q.Filters {
		assert.Equal(t, f.String(), fromJSON.Filters[i].String())
	}
}

func TestWireOmitsDefaults(t *testing.T) {
	m := New(key.New("/a")).ToMap()
	assert.Equal(t, map[string]any{"key": "/a"}, m)

	decoded, err := FromMap(m)
	require.NoError(t, err)
	assert.False(t, decoded.HasLimit())
	assert.Equal(t, 0, decoded.Offset)
}

func TestWireRejectsMalformed(t *testing.T) {
	bad := []map[string]any{
		{},
		{"key": 3},
		{"key": "/a", "limit": -1},
		{"key": "/a", "limit": 1.5},
		{"key": "/a", "limit": 1e20},
		{"key": "/a", "offset": float64(math.MaxInt64)},
		{"key": "/a", "offset": "2"},
		{"key": "/a", "filter": []any{[]any{"a", "="}}},
		{"key": "/a", "filter": "a = b"},
		{"key": "/a", "order": []any{1}},
	}
	for _, m := range bad {
		_, err := FromMap(m)
		assert.ErrorIs(t, err, ErrInvalidQuery, "wire %v", m)
	}

	_, err := FromMap(map[string]any{"key": "/a", "filter": []any{[]any{"a", "~", 1}}})
	assert.ErrorIs(t, err, ErrInvalidOperator)
	_, err = FromMap(map[string]any{"key": "/a", "order": []string{"name"}})
	assert.ErrorIs(t, err, ErrInvalidOrder)
}
