package testing

import (
	"errors"
	"fmt"
	"slices"
	"sync"
	"testing"

	"github.com/ValentinKolb/dDS/lib/datastore"
	"github.com/ValentinKolb/dDS/lib/key"
	"github.com/ValentinKolb/dDS/lib/query"
)

// RunDatastoreTests runs the conformance suite for an IDatastore implementation.
// Every subtest gets a fresh store from factory.
func RunDatastoreTests(t *testing.T, name string, factory datastore.Factory) {
	t.Run(name, func(t *testing.T) {
		t.Run("Put&Get", func(t *testing.T) {
			testPutGet(t, newStore(t, factory))
		})

		t.Run("Delete", func(t *testing.T) {
			testDelete(t, newStore(t, factory))
		})

		t.Run("Contains", func(t *testing.T) {
			testContains(t, newStore(t, factory))
		})

		t.Run("Hierarchy", func(t *testing.T) {
			testHierarchy(t, newStore(t, factory))
		})

		t.Run("QueryScope", func(t *testing.T) {
			testQueryScope(t, newStore(t, factory))
		})

		t.Run("QueryLimitOffset", func(t *testing.T) {
			testQueryLimitOffset(t, newStore(t, factory))
		})

		t.Run("QueryEmpty", func(t *testing.T) {
			testQueryEmpty(t, newStore(t, factory))
		})

		t.Run("QueryNil", func(t *testing.T) {
			testQueryNil(t, newStore(t, factory))
		})

		t.Run("CollisionHandling", func(t *testing.T) {
			testCollisionHandling(t, newStore(t, factory))
		})

		t.Run("ConcurrentUsage", func(t *testing.T) {
			testConcurrentUsage(t, newStore(t, factory))
		})
	})
}

// --------------------------------------------------------------------------
// Helper functions
// --------------------------------------------------------------------------

// newStore creates a store and closes it when the test ends
func newStore(t testing.TB, factory datastore.Factory) datastore.IDatastore {
	t.Helper()
	ds, err := factory()
	if err != nil {
		t.Fatalf("Failed to create datastore: %v", err)
	}
	t.Cleanup(func() {
		if err := datastore.Close(ds); err != nil {
			t.Errorf("Failed to close datastore: %v", err)
		}
	})
	return ds
}

// asString accepts the representations stores hand back for string values
func asString(v any) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, true
	case []byte:
		return string(s), true
	default:
		return "", false
	}
}

// requireQuery skips the test if the store does not implement queries
func requireQuery(t testing.TB, ds datastore.IDatastore) {
	t.Helper()
	cursor, err := ds.Query(query.New(key.Root))
	if datastore.IsUnsupported(err) {
		t.Skip("datastore does not support queries")
	}
	if err != nil {
		t.Fatalf("Unexpected error for query: %v", err)
	}
	if _, err := cursor.Collect(); err != nil {
		t.Fatalf("Unexpected error iterating query: %v", err)
	}
}

func mustPut(t testing.TB, ds datastore.IDatastore, k key.Key, value string) {
	t.Helper()
	if err := ds.Put(k, value); err != nil {
		t.Fatalf("Unexpected error for put %s: %v", k, err)
	}
}

func expectValue(t testing.TB, ds datastore.IDatastore, k key.Key, expected string) {
	t.Helper()
	value, loaded, err := ds.Get(k)
	if err != nil {
		t.Errorf("Unexpected error for get %s: %v", k, err)
		return
	}
	if !loaded {
		t.Errorf("Expected key %s to exist", k)
		return
	}
	if s, ok := asString(value); !ok || s != expected {
		t.Errorf("Expected value %q for key %s, got %#v", expected, k, value)
	}
}

func expectAbsent(t testing.TB, ds datastore.IDatastore, k key.Key) {
	t.Helper()
	value, loaded, err := ds.Get(k)
	if err != nil {
		t.Errorf("Unexpected error for get %s: %v", k, err)
		return
	}
	if loaded {
		t.Errorf("Expected key %s to be absent, got %#v", k, value)
	}
}

func collectStrings(t testing.TB, ds datastore.IDatastore, q *query.Query) []string {
	t.Helper()
	cursor, err := ds.Query(q)
	if err != nil {
		t.Fatalf("Unexpected error for query %s: %v", q, err)
	}
	values, err := cursor.Collect()
	if err != nil {
		t.Fatalf("Unexpected error iterating query %s: %v", q, err)
	}
	result := make([]string, 0, len(values))
	for _, v := range values {
		s, ok := asString(v)
		if !ok {
			t.Fatalf("Unexpected value type %T in query result", v)
		}
		result = append(result, s)
	}
	return result
}

// --------------------------------------------------------------------------
// Test functions
// --------------------------------------------------------------------------

func testPutGet(t *testing.T, ds datastore.IDatastore) {
	k := key.New("/Comedy/MontyPython/Actor:JohnCleese")

	expectAbsent(t, ds, k)

	mustPut(t, ds, k, "value1")
	expectValue(t, ds, k, "value1")

	mustPut(t, ds, k, "value2")
	expectValue(t, ds, k, "value2")

	expectAbsent(t, ds, key.New("/Comedy/MontyPython/Actor:EricIdle"))

	empty := key.New("/Comedy/empty")
	mustPut(t, ds, empty, "")
	expectValue(t, ds, empty, "")
}

func testDelete(t *testing.T, ds datastore.IDatastore) {
	k := key.New("/a/b")

	// deleting a missing key is a no-op
	if err := ds.Delete(k); err != nil {
		t.Errorf("Unexpected error deleting a missing key: %v", err)
	}

	mustPut(t, ds, k, "x")
	expectValue(t, ds, k, "x")

	if err := ds.Delete(k); err != nil {
		t.Fatalf("Unexpected error for delete: %v", err)
	}
	expectAbsent(t, ds, k)

	if err := ds.Delete(k); err != nil {
		t.Errorf("Unexpected error deleting twice: %v", err)
	}
}

func testContains(t *testing.T, ds datastore.IDatastore) {
	k := key.New("/a/b")

	if ok, err := ds.Contains(k); err != nil || ok {
		t.Errorf("Expected contains=false for missing key, got %v (%v)", ok, err)
	}

	mustPut(t, ds, k, "x")
	if ok, err := ds.Contains(k); err != nil || !ok {
		t.Errorf("Expected contains=true after put, got %v (%v)", ok, err)
	}

	if err := ds.Delete(k); err != nil {
		t.Fatalf("Unexpected error for delete: %v", err)
	}
	if ok, err := ds.Contains(k); err != nil || ok {
		t.Errorf("Expected contains=false after delete, got %v (%v)", ok, err)
	}
}

func testHierarchy(t *testing.T, ds datastore.IDatastore) {
	parent := key.New("/Comedy/MontyPython")
	child := parent.Child("Actor:JohnCleese")
	grandchild := child.Child("Role:Lancelot")

	// a value and the values below it coexist
	mustPut(t, ds, parent, "parent")
	mustPut(t, ds, child, "child")
	mustPut(t, ds, grandchild, "grandchild")

	expectValue(t, ds, parent, "parent")
	expectValue(t, ds, child, "child")
	expectValue(t, ds, grandchild, "grandchild")

	if err := ds.Delete(child); err != nil {
		t.Fatalf("Unexpected error for delete: %v", err)
	}
	expectAbsent(t, ds, child)
	expectValue(t, ds, parent, "parent")
	expectValue(t, ds, grandchild, "grandchild")
}

func testQueryScope(t *testing.T, ds datastore.IDatastore) {
	requireQuery(t, ds)

	scope := key.New("/Comedy/MontyPython/Actor")
	inScope := map[string]string{
		"JohnCleese":    "John Cleese",
		"EricIdle":      "Eric Idle",
		"MichaelPalin":  "Michael Palin",
		"GrahamChapman": "Graham Chapman",
	}
	for name, value := range inScope {
		k, err := key.New("/Comedy/MontyPython/Actor").Instance(name)
		if err != nil {
			t.Fatal(err)
		}
		mustPut(t, ds, k, value)
	}

	// neither below nor above nor beside the scope
	mustPut(t, ds, key.New("/Comedy/MontyPython/Actor:JohnCleese/Role:Lancelot"), "nested")
	mustPut(t, ds, key.New("/Comedy/MontyPython"), "parent")
	mustPut(t, ds, key.New("/Comedy/MontyPython/Sketch:Parrot"), "sibling")

	result := collectStrings(t, ds, query.New(scope))
	slices.Sort(result)

	expected := make([]string, 0, len(inScope))
	for _, v := range inScope {
		expected = append(expected, v)
	}
	slices.Sort(expected)

	if !slices.Equal(result, expected) {
		t.Errorf("Unexpected query result:\nexpected: %v\ngot: %v", expected, result)
	}
}

func testQueryLimitOffset(t *testing.T, ds datastore.IDatastore) {
	requireQuery(t, ds)

	scope := key.New("/numbers")
	numValues := 10
	for i := 0; i < numValues; i++ {
		mustPut(t, ds, scope.Child(fmt.Sprintf("n%02d", i)), fmt.Sprintf("value-%02d", i))
	}

	all := collectStrings(t, ds, query.New(scope))
	if len(all) != numValues {
		t.Fatalf("Expected %d values, got %d", numValues, len(all))
	}

	for limit := 0; limit <= numValues+2; limit++ {
		got := collectStrings(t, ds, query.New(scope, query.WithLimit(limit)))
		if len(got) != min(limit, numValues) {
			t.Errorf("Expected %d values for limit %d, got %d", min(limit, numValues), limit, len(got))
		}
	}

	for offset := 0; offset <= numValues+2; offset++ {
		got := collectStrings(t, ds, query.New(scope, query.WithOffset(offset)))
		if len(got) != max(numValues-offset, 0) {
			t.Errorf("Expected %d values for offset %d, got %d", max(numValues-offset, 0), offset, len(got))
		}
	}

	got := collectStrings(t, ds, query.New(scope, query.WithOffset(3), query.WithLimit(4)))
	if len(got) != 4 {
		t.Errorf("Expected 4 values for offset 3 and limit 4, got %d", len(got))
	}
}

func testQueryEmpty(t *testing.T, ds datastore.IDatastore) {
	requireQuery(t, ds)

	got := collectStrings(t, ds, query.New(key.New("/does/not/exist")))
	if len(got) != 0 {
		t.Errorf("Expected no values for an empty scope, got %v", got)
	}
}

func testQueryNil(t *testing.T, ds datastore.IDatastore) {
	_, err := ds.Query(nil)
	if err == nil {
		t.Fatal("Expected an error for a nil query")
	}
	if !errors.Is(err, datastore.ErrInvalidInput) && !datastore.IsUnsupported(err) {
		t.Errorf("Expected RetCInvalidInput for a nil query, got %v", err)
	}
}

func testCollisionHandling(t *testing.T, ds datastore.IDatastore) {
	prefix := key.New("/collision")
	numKeys := 200

	for i := 0; i < numKeys; i++ {
		mustPut(t, ds, prefix.Child(fmt.Sprintf("key-%d", i)), fmt.Sprintf("value-%d", i))
	}

	for i := 0; i < numKeys; i++ {
		expectValue(t, ds, prefix.Child(fmt.Sprintf("key-%d", i)), fmt.Sprintf("value-%d", i))
	}

	for i := 0; i < numKeys; i += 2 {
		if err := ds.Delete(prefix.Child(fmt.Sprintf("key-%d", i))); err != nil {
			t.Fatalf("Unexpected error for delete: %v", err)
		}
	}

	for i := 0; i < numKeys; i++ {
		k := prefix.Child(fmt.Sprintf("key-%d", i))
		if i%2 == 0 {
			expectAbsent(t, ds, k)
		} else {
			expectValue(t, ds, k, fmt.Sprintf("value-%d", i))
		}
	}
}

func testConcurrentUsage(t *testing.T, ds datastore.IDatastore) {
	numWorkers := 8
	opsPerWorker := 50

	var wg sync.WaitGroup
	errs := make(chan error, numWorkers*opsPerWorker)

	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func(workerId int) {
			defer wg.Done()
			for i := 0; i < opsPerWorker; i++ {
				// every worker owns its keys, so the final state is deterministic
				k := key.New(fmt.Sprintf("/concurrent/w%d/k%d", workerId, i))
				if err := ds.Put(k, fmt.Sprintf("%d-%d", workerId, i)); err != nil {
					errs <- err
					continue
				}
				if _, _, err := ds.Get(k); err != nil {
					errs <- err
				}
				if i%3 == 0 {
					if err := ds.Delete(k); err != nil {
						errs <- err
					}
				}
			}
		}(w)
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("Unexpected error during parallel operations: %v", err)
	}

	for w := 0; w < numWorkers; w++ {
		for i := 0; i < opsPerWorker; i++ {
			k := key.New(fmt.Sprintf("/concurrent/w%d/k%d", w, i))
			if i%3 == 0 {
				expectAbsent(t, ds, k)
			} else {
				expectValue(t, ds, k, fmt.Sprintf("%d-%d", w, i))
			}
		}
	}
}
