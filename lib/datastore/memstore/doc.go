// Package memstore implements an in-memory datastore on top of xsync.MapOf,
// a concurrent map that shards keys internally. It supports the full query
// pipeline and can persist itself as a binary snapshot (Save / Load, or
// OpenFile to load on open and save on Close).
package memstore
