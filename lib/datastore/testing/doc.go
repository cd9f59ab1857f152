// Package testing provides standardised tests and benchmarks for
// implementations of the datastore.IDatastore contract, leaf adapters and
// shim chains alike.
//
// The package contains:
//   - testing: A conformance suite validating the IDatastore contract
//     (absence, idempotent deletes, hierarchy, query scope and pipeline)
//   - benchmark: Performance tests for measuring throughput of common operations
//
// The suite only stores string values and accepts them back as string or
// []byte, so byte oriented leaves and serializing shims can share it. Query
// tests are skipped for stores reporting RetCUnsupportedOperation.
//
// Example usage:
//
//	factory := func() (datastore.IDatastore, error) {
//		return fsstore.New(t.TempDir())
//	}
//
//	dstesting.RunDatastoreTests(t, "fsstore", factory)
//	dstesting.RunDatastoreBenchmarks(b, "fsstore", factory)
package testing
