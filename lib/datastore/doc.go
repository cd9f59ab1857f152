// Package datastore provides the capability contract shared by every storage
// backend and every decorator of this module, plus unified error handling.
//
// The package focuses on:
//   - A unified interface (IDatastore) for get/put/delete/contains/query across
//     different backends
//   - Composition: shims wrap exactly one child IDatastore and add one concern
//
// Key Components:
//
//   - IDatastore Interface: The core abstraction. All leaves and shims share it,
//     allowing applications to switch storage backends (or stack behavior such
//     as caching or serialization) without changing call sites. Absence is
//     reported as loaded == false, never as an error.
//
//   - Error System: A structured error reporting mechanism using typed return
//     codes (RetCode). Errors match by code with errors.Is, so callers can tell
//     "query unsupported" (ErrUnsupported) apart from "no matches".
//
//   - Scope: InScope defines which stored keys a query addresses. A query on
//     /Comedy/MontyPython/Actor returns the values stored directly under that
//     path, e.g. /Comedy/MontyPython/Actor:JohnCleese, like a directory listing.
//
// Implementations:
//
//	Leaves:
//	- memstore: in-memory map, full query support
//	- lrustore: bounded in-memory LRU, used as the cache of a cache shim
//	- fsstore:  one file per value below a root directory
//	- sqlstore: SQLite database file
//	- NullDatastore: stores nothing
//
//	Shims (package shim): key transform, lowercase, namespace, nested path,
//	serializer, cache, sharded, tiered, logging and instrumented.
//
// Thread-safety: All leaves and shims of this module are safe for concurrent
// use. The contract itself provides no cross-call atomicity: concurrent writes
// to the same key are unordered.
package datastore
