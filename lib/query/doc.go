// Package query provides declarative queries over datastore values and the
// lazy Cursor pipeline that evaluates them.
//
// Key Components:
//
//   - Query: a description of the requested values: a scope key, filters
//     (all must pass), orders (primary first), limit and offset. Queries
//     have a wire form (ToMap/FromMap, JSON) for persistence and transport.
//
//   - Filter / Order: a predicate on a field ("age >= 18") and a sort
//     directive ("+name", "-age"). Multiple orders form one combined
//     comparator, the first order being the primary key.
//
//   - FieldAccessor: the pluggable lookup used by filters and orders to read
//     a field from a value. The default tries struct fields, then map entries.
//
//   - Cursor: the single-use result stream. Its pipeline always runs
//     filter -> order -> offset -> limit. Filter, offset and limit are lazy,
//     order has to read all filtered values before the first result.
//
// Datastores without a native query engine evaluate queries naively with
// Query.Apply over a Source of candidate values:
//
//	q := query.New(key.New("/Comedy/MontyPython/Actor"), query.WithLimit(10))
//	q.Where("age", ">=", 40)
//	q.OrderBy("-age")
//	cursor := q.ApplyTo(values)
//	for v, err := range cursor.All() {
//		...
//	}
package query
