package lrustore

import (
	"fmt"
	"testing"

	"github.com/ValentinKolb/dDS/lib/datastore"
	dstesting "github.com/ValentinKolb/dDS/lib/datastore/testing"
	"github.com/ValentinKolb/dDS/lib/key"
	"github.com/ValentinKolb/dDS/lib/query"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test(t *testing.T) {
	// large enough that the conformance suite never evicts
	dstesting.RunDatastoreTests(t, "lrustore", func() (datastore.IDatastore, error) {
		return New(10_000)
	})
}

func TestNewRejectsInvalidSize(t *testing.T) {
	_, err := New(0)
	assert.ErrorIs(t, err, datastore.ErrInvalidInput)
	_, err = New(-1)
	assert.ErrorIs(t, err, datastore.ErrInvalidInput)
}

func TestEviction(t *testing.T) {
	s, err := New(3)
	require.NoError(t, err)
	assert.Equal(t, 3, s.Size())

	for i := 0; i < 3; i++ {
		require.NoError(t, s.Put(key.New(fmt.Sprintf("/k%d", i)), i))
	}

	// touch k0 so k1 becomes the least recently used
	_, ok, err := s.Get(key.New("/k0"))
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, s.Put(key.New("/k3"), 3))
	assert.Equal(t, 3, s.Len())

	ok, _ = s.Contains(key.New("/k1"))
	assert.False(t, ok, "k1 should have been evicted")
	for _, name := range []string{"/k0", "/k2", "/k3"} {
		ok, _ = s.Contains(key.New(name))
		assert.True(t, ok, "%s should be resident", name)
	}

	cursor, err := s.Query(query.New(key.Root))
	require.NoError(t, err)
	values, err := cursor.Collect()
	require.NoError(t, err)
	assert.Equal(t, []any{0, 2, 3}, values)
}
