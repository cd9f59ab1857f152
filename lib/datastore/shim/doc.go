/*
Package shim contains datastores that wrap other datastores.

A shim implements datastore.IDatastore itself and delegates to one or more
children, changing keys, values or behavior on the way:

  - KeyTransformDatastore rewrites keys (lowercase, namespace prefix)
  - NestedPathDatastore spreads keys over hash-derived directories
  - SerializerDatastore serializes values for byte-oriented children
  - CacheDatastore serves reads from a cache datastore
  - TieredDatastore stacks datastores from fast to slow
  - ShardedDatastore distributes keys over several datastores
  - LoggingDatastore and InstrumentedDatastore observe calls

Shims compose; Chain builds a stack from a leaf datastore and a list of
wrappers:

	fs, _ := fsstore.New("/var/data")
	ds, err := shim.Chain(fs,
		shim.WithSerializer(serializer.NewJSONSerializer()),
		shim.WithNamespace("/app"),
		shim.WithLogging(nil),
	)

Closing a shim closes its children.
*/
package shim
