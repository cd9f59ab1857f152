// Package key implements the hierarchical addressing model of the datastore.
//
// A Key is an immutable, slash delimited identifier inspired by file system
// paths and the App Engine key model:
//
//	/Comedy
//	/Comedy/MontyPython
//	/Comedy/MontyPython/Actor:JohnCleese
//
// Every segment of a key is a Namespace. A namespace may carry a type
// ("Actor" in "Actor:JohnCleese") in front of its value. Keys are ordered
// lexicographically by their normalized string and hashed with a hash that
// is stable across processes, so they can be compared with persisted data.
package key
