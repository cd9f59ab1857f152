package query

import (
	"errors"
	"testing"

	"github.com/ValentinKolb/dDS/lib/key"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ints(n ...int) []any {
	values := make([]any, len(n))
	for i, v := range n {
		values[i] = v
	}
	return values
}

// identity lets plain ints be ordered and filtered via the "v" field.
var identity = AccessorFunc(func(obj any, name string) (any, bool) {
	return obj, name == "v"
})

func TestCursorOffsetLimit(t *testing.T) {
	q := New(key.Root, WithOffset(2), WithLimit(2))
	c := q.ApplyTo(ints(5, 4, 3, 2, 1))

	result, err := c.Collect()
	require.NoError(t, err)
	assert.Equal(t, ints(3, 2), result)
	assert.Equal(t, 2, c.Skipped())
	assert.Equal(t, 2, c.Returned())
}

func TestCursorLimitYieldsMinOfLimitAndLength(t *testing.T) {
	values := ints(1, 2, 3, 4, 5, 6, 7)
	for limit := 0; limit <= 10; limit++ {
		result, err := New(key.Root, WithLimit(limit)).ApplyTo(values).Collect()
		require.NoError(t, err)
		assert.Equal(t, values[:min(limit, len(values))], result, "limit %d", limit)
	}
}

func TestCursorOffsetLimitAfterOrder(t *testing.T) {
	values := ints(9, 3, 7, 1, 5, 8, 2)
	sorted := ints(1, 2, 3, 5, 7, 8, 9)

	for offset := 0; offset <= 8; offset++ {
		for limit := 0; limit <= 8; limit++ {
			q := New(key.Root, WithAccessor(identity), WithOffset(offset), WithLimit(limit))
			_, err := q.OrderBy("+v")
			require.NoError(t, err)

			result, err := q.ApplyTo(values).Collect()
			require.NoError(t, err)

			lo := min(offset, len(sorted))
			hi := min(offset+limit, len(sorted))
			assert.Equal(t, sorted[lo:hi], result, "offset %d limit %d", offset, limit)
		}
	}
}

func TestCursorFilterKeepsRelativeOrder(t *testing.T) {
	q := New(key.Root, WithAccessor(identity))
	_, err := q.Where("v", ">", 4)
	require.NoError(t, err)

	result, err := q.ApplyTo(ints(9, 3, 7, 1, 5, 8, 2)).Collect()
	require.NoError(t, err)
	assert.Equal(t, ints(9, 7, 5, 8), result)
}

func TestCursorFilterIsLazy(t *testing.T) {
	pulled := 0
	src := func() (any, bool, error) {
		pulled++
		return pulled, true, nil
	}

	q := New(key.Root, WithAccessor(identity), WithLimit(3))
	_, err := q.Where("v", ">", 2)
	require.NoError(t, err)

	result, err := q.Apply(src).Collect()
	require.NoError(t, err)
	assert.Equal(t, ints(3, 4, 5), result)
	assert.Equal(t, 5, pulled)
}

func TestCursorIterateTwice(t *testing.T) {
	c := New(key.Root).ApplyTo(ints(1, 2, 3))

	_, err := c.Collect()
	require.NoError(t, err)

	_, err = c.Collect()
	assert.ErrorIs(t, err, ErrInvariantViolation)

	for _, err := range c.All() {
		assert.ErrorIs(t, err, ErrInvariantViolation)
	}
}

func TestCursorModifyAfterFirstPull(t *testing.T) {
	c := NewCursor(New(key.Root, WithLimit(1)), FromSlice(ints(1, 2, 3)))

	_, ok, err := c.Next()
	require.NoError(t, err)
	require.True(t, ok)

	assert.ErrorIs(t, c.ApplyFilter(), ErrInvariantViolation)
	assert.ErrorIs(t, c.ApplyOrder(), ErrInvariantViolation)
	assert.ErrorIs(t, c.ApplyOffset(), ErrInvariantViolation)
	assert.ErrorIs(t, c.ApplyLimit(), ErrInvariantViolation)
	assert.ErrorIs(t, c.Wrap(func(s Source) Source { return s }), ErrInvariantViolation)
}

func TestCursorPartialConsumption(t *testing.T) {
	c := New(key.Root, WithOffset(1)).ApplyTo(ints(1, 2, 3, 4, 5))

	var seen []any
	for v, err := range c.All() {
		require.NoError(t, err)
		seen = append(seen, v)
		if len(seen) == 2 {
			break
		}
	}
	assert.Equal(t, ints(2, 3), seen)
	assert.Equal(t, 1, c.Skipped())
	assert.Equal(t, 2, c.Returned())
	assert.True(t, c.Started())
}

func TestCursorPropagatesSourceErrors(t *testing.T) {
	boom := errors.New("boom")
	src := Concat(FromSlice(ints(1)), func() (any, bool, error) { return nil, false, boom })

	c := New(key.Root).Apply(src)
	result, err := c.Collect()
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, ints(1), result)

	q := New(key.Root, WithAccessor(identity))
	_, err = q.OrderBy("-v")
	require.NoError(t, err)
	src = Concat(FromSlice(ints(1)), func() (any, bool, error) { return nil, false, boom })
	_, err = q.Apply(src).Collect()
	assert.ErrorIs(t, err, boom)
}

func TestCursorWrapAndMapSource(t *testing.T) {
	c := NewCursor(New(key.Root), FromSlice(ints(1, 2, 3)))
	require.NoError(t, c.Wrap(func(src Source) Source {
		return MapSource(src, func(v any) (any, error) { return v.(int) * 10, nil })
	}))

	result, err := c.Collect()
	require.NoError(t, err)
	assert.Equal(t, ints(10, 20, 30), result)
}

func TestConcat(t *testing.T) {
	result, err := New(key.Root).Apply(Concat(FromSlice(ints(1, 2)), Empty(), FromSlice(ints(3)))).Collect()
	require.NoError(t, err)
	assert.Equal(t, ints(1, 2, 3), result)
}
