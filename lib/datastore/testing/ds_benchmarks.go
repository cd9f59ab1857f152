package testing

import (
	"fmt"
	"testing"

	"github.com/ValentinKolb/dDS/lib/datastore"
	"github.com/ValentinKolb/dDS/lib/key"
	"github.com/ValentinKolb/dDS/lib/query"
)

// RunDatastoreBenchmarks runs all benchmarks for an IDatastore implementation
func RunDatastoreBenchmarks(b *testing.B, name string, factory datastore.Factory) {
	b.Run(name, func(b *testing.B) {
		b.Run("Put", func(b *testing.B) {
			benchmarkPut(b, newStore(b, factory))
		})

		b.Run("PutExisting", func(b *testing.B) {
			benchmarkPutExisting(b, newStore(b, factory))
		})

		b.Run("Get", func(b *testing.B) {
			benchmarkGet(b, newStore(b, factory))
		})

		b.Run("Contains(not)", func(b *testing.B) {
			benchmarkContainsNot(b, newStore(b, factory))
		})

		b.Run("Query", func(b *testing.B) {
			benchmarkQuery(b, newStore(b, factory))
		})
	})
}

// --------------------------------------------------------------------------
// Benchmark functions
// --------------------------------------------------------------------------

var benchScope = key.New("/bench")

func benchKey(i int) key.Key {
	return benchScope.Child(fmt.Sprintf("k%d", i))
}

// Benchmark for Put operation
func benchmarkPut(b *testing.B, ds datastore.IDatastore) {
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := ds.Put(benchKey(i), fmt.Sprintf("value-%d", i)); err != nil {
			b.Fatal(err)
		}
	}
}

// Benchmark for Put operation with existing keys
func benchmarkPutExisting(b *testing.B, ds datastore.IDatastore) {
	numKeys := 100
	for i := 0; i < numKeys; i++ {
		mustPut(b, ds, benchKey(i), "initial")
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := ds.Put(benchKey(i%numKeys), fmt.Sprintf("value-%d", i)); err != nil {
			b.Fatal(err)
		}
	}
}

// Benchmark for Get operation
func benchmarkGet(b *testing.B, ds datastore.IDatastore) {
	numKeys := 100
	for i := 0; i < numKeys; i++ {
		mustPut(b, ds, benchKey(i), fmt.Sprintf("value-%d", i))
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, _, err := ds.Get(benchKey(i % numKeys)); err != nil {
			b.Fatal(err)
		}
	}
}

// Benchmark for Contains operation with missing keys
func benchmarkContainsNot(b *testing.B, ds datastore.IDatastore) {
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := ds.Contains(benchKey(i)); err != nil {
			b.Fatal(err)
		}
	}
}

// Benchmark for a full scan of a scope with 100 values
func benchmarkQuery(b *testing.B, ds datastore.IDatastore) {
	requireQuery(b, ds)

	for i := 0; i < 100; i++ {
		mustPut(b, ds, benchKey(i), fmt.Sprintf("value-%d", i))
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		cursor, err := ds.Query(query.New(benchScope, query.WithLimit(50)))
		if err != nil {
			b.Fatal(err)
		}
		if _, err := cursor.Collect(); err != nil {
			b.Fatal(err)
		}
	}
}
