// Package cmd implements the command-line interface for the dDS hierarchical
// datastore. It provides a hierarchical command structure with operations
// for reading, writing and querying a datastore chain.
//
// The package is organized into subpackages:
//
//   - ds: Commands for datastore operations (put, get, del, has, query, perf)
//   - util: Shared utilities for configuration and building the datastore chain (internal use)
//
// Every datastore flag can also be set through the environment with the
// DDS_ prefix, e.g. DDS_BACKEND=sqlite or DDS_CACHE_SIZE=1000, or in a .env file.
//
// See dds -help for a list of all commands.
package cmd
