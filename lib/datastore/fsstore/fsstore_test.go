package fsstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ValentinKolb/dDS/lib/datastore"
	dstesting "github.com/ValentinKolb/dDS/lib/datastore/testing"
	"github.com/ValentinKolb/dDS/lib/key"
	"github.com/ValentinKolb/dDS/lib/query"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test(t *testing.T) {
	dstesting.RunDatastoreTests(t, "fsstore", func() (datastore.IDatastore, error) {
		return New(t.TempDir())
	})
}

func Benchmark(b *testing.B) {
	dstesting.RunDatastoreBenchmarks(b, "fsstore", func() (datastore.IDatastore, error) {
		return New(b.TempDir())
	})
}

func TestPutGetDelete(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)
	k := key.New("/a/b")

	require.NoError(t, s.Put(k, "x"))
	v, ok, err := s.Get(k)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("x"), v)

	require.NoError(t, s.Delete(k))
	ok, err = s.Contains(k)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLayout(t *testing.T) {
	root := t.TempDir()
	s, err := New(root)
	require.NoError(t, err)

	require.NoError(t, s.Put(key.New("/Comedy/MontyPython/Sketch:CheeseShop"), "shop"))
	require.NoError(t, s.Put(key.New("/Comedy/MontyPython/Sketch:CheeseShop/Character:Mousebender"), "mousebender"))

	data, err := os.ReadFile(filepath.Join(root, "Comedy", "MontyPython", "Sketch", "CheeseShop.obj"))
	require.NoError(t, err)
	assert.Equal(t, "shop", string(data))

	data, err = os.ReadFile(filepath.Join(root, "Comedy", "MontyPython", "Sketch", "CheeseShop", "Character", "Mousebender.obj"))
	require.NoError(t, err)
	assert.Equal(t, "mousebender", string(data))

	// no temporary files are left behind
	entries, err := os.ReadDir(filepath.Join(root, "Comedy", "MontyPython", "Sketch"))
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{"CheeseShop", "CheeseShop.obj"}, names)
}

func TestQueryListsOneLevel(t *testing.T) {
	root := t.TempDir()
	s, err := New(root, WithIgnore("Ignored.obj"))
	require.NoError(t, err)

	sketches := key.New("/Comedy/MontyPython/Sketch")
	require.NoError(t, s.Put(sketches.Child("ArgumentClinic"), "argument"))
	require.NoError(t, s.Put(key.New("/Comedy/MontyPython/Sketch:CheeseShop"), "shop"))
	require.NoError(t, s.Put(key.New("/Comedy/MontyPython/Sketch:CheeseShop/Character:Mousebender"), "mousebender"))
	require.NoError(t, s.Put(key.New("/Comedy/MontyPython/Sketch:Ignored"), "ignored"))
	require.NoError(t, os.WriteFile(filepath.Join(root, "Comedy", "MontyPython", "Sketch", "notes.txt"), []byte("no suffix"), 0o644))

	cursor, err := s.Query(query.New(sketches))
	require.NoError(t, err)
	values, err := cursor.Collect()
	require.NoError(t, err)
	assert.Equal(t, []any{[]byte("argument"), []byte("shop")}, values)
}

func TestQueryReadsLazily(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	scope := key.New("/lazy")
	require.NoError(t, s.Put(scope.Child("a"), "a"))
	require.NoError(t, s.Put(scope.Child("b"), "b"))
	require.NoError(t, s.Put(scope.Child("c"), "c"))

	cursor, err := s.Query(query.New(scope))
	require.NoError(t, err)

	// removed after listing but before the cursor reached it
	require.NoError(t, s.Delete(scope.Child("b")))

	values, err := cursor.Collect()
	require.NoError(t, err)
	assert.Equal(t, []any{[]byte("a"), []byte("c")}, values)
}

func TestQueryMissingScope(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	cursor, err := s.Query(query.New(key.New("/nothing/here")))
	require.NoError(t, err)
	values, err := cursor.Collect()
	require.NoError(t, err)
	assert.Empty(t, values)
}

func TestGetDirectoryIsTypeMismatch(t *testing.T) {
	root := t.TempDir()
	s, err := New(root)
	require.NoError(t, err)

	require.NoError(t, os.MkdirAll(filepath.Join(root, "a", "b.obj"), 0o755))

	_, _, err = s.Get(key.New("/a/b"))
	assert.True(t, datastore.IsTypeMismatch(err), "got %v", err)

	ok, err := s.Contains(key.New("/a/b"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPutRejectsNonBytes(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	err = s.Put(key.New("/a"), map[string]any{"a": 1})
	assert.True(t, datastore.IsTypeMismatch(err), "got %v", err)

	_, ok, err := s.Get(key.New("/a"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCaseInsensitive(t *testing.T) {
	root := t.TempDir()
	s, err := New(root, WithCaseInsensitive())
	require.NoError(t, err)

	require.NoError(t, s.Put(key.New("/Comedy/Actor:JohnCleese"), "john"))
	v, ok, err := s.Get(key.New("/comedy/actor:johncleese"))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("john"), v)

	_, err = os.Stat(filepath.Join(root, "comedy", "actor", "johncleese.obj"))
	assert.NoError(t, err)
}

func TestSuffix(t *testing.T) {
	root := t.TempDir()
	s, err := New(root, WithSuffix(".json"))
	require.NoError(t, err)

	require.NoError(t, s.Put(key.New("/doc"), `{"a":1}`))
	_, err = os.Stat(filepath.Join(root, "doc.json"))
	assert.NoError(t, err)

	_, err = New(root, WithSuffix(""))
	assert.ErrorIs(t, err, datastore.ErrInvalidInput)
}

func TestNewValidatesRoot(t *testing.T) {
	_, err := New("")
	assert.ErrorIs(t, err, datastore.ErrInvalidInput)

	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, nil, 0o644))
	_, err = New(file)
	assert.True(t, datastore.IsTypeMismatch(err), "got %v", err)

	nested := filepath.Join(t.TempDir(), "x", "y")
	s, err := New(nested)
	require.NoError(t, err)
	assert.Equal(t, nested, s.Root())
	assert.DirExists(t, nested)
}

func TestRejectsKeysOutsideRoot(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	for _, k := range []key.Key{key.New("/a/../b"), key.New("/.."), key.New("/a::b")} {
		assert.ErrorIs(t, s.Put(k, "x"), datastore.ErrInvalidInput, "key %s", k)
		_, _, err := s.Get(k)
		assert.ErrorIs(t, err, datastore.ErrInvalidInput, "key %s", k)
	}
}

func TestRejectsAmbiguousNamespaces(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	k := key.New("/a:b:c")
	assert.ErrorIs(t, s.Put(k, "x"), datastore.ErrInvalidInput)
	_, _, err = s.Get(k)
	assert.ErrorIs(t, err, datastore.ErrInvalidInput)

	// a single delimiter per namespace is fine at any depth
	require.NoError(t, s.Put(key.New("/a:b/c:d"), "x"))
	cursor, err := s.Query(query.New(key.New("/a:b/c")))
	require.NoError(t, err)
	values, err := cursor.Collect()
	require.NoError(t, err)
	assert.Equal(t, []any{[]byte("x")}, values)
}

func TestRootKey(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	assert.ErrorIs(t, s.Put(key.Root, "x"), datastore.ErrInvalidOp)
	_, ok, err := s.Get(key.Root)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, s.Delete(key.Root))
}
