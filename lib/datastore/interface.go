package datastore

import (
	"github.com/ValentinKolb/dDS/lib/key"
	"github.com/ValentinKolb/dDS/lib/query"
)

// --------------------------------------------------------------------------
// Interface Definition
// --------------------------------------------------------------------------

// Factory is a function type that creates a new datastore.
// This is used to abstract the creation of a leaf from the code composing chains.
type Factory func() (IDatastore, error)

// IDatastore is the capability contract every leaf adapter and every shim implements.
//
// Absence is never an error: Get reports a missing key with loaded == false and
// Delete of a missing key is a no-op. Errors are *Error values (or wrap one) for
// conditions the contract defines and plain errors for backend failures.
type IDatastore interface {
	// Get returns the value for a key. The boolean return value indicates whether a value for the key was found.
	Get(k key.Key) (value any, loaded bool, err error)
	// Put inserts or updates the value for a key.
	Put(k key.Key, value any) (err error)
	// Delete removes the value for a key. Deleting a missing key is not an error.
	Delete(k key.Key) (err error)
	// Contains returns whether a value exists for a key.
	Contains(k key.Key) (loaded bool, err error)
	// Query returns a cursor over all values in the scope of q.Key that satisfy q.
	// A store without query support fails with RetCUnsupportedOperation, which is
	// different from a cursor without results.
	Query(q *query.Query) (cursor *query.Cursor, err error)
}

// --------------------------------------------------------------------------
// Scope
// --------------------------------------------------------------------------

// InScope reports whether a value stored under k belongs to the scope of a
// query, i.e. whether k lives directly in the directory named by scope:
//
//	InScope(key.New("/Comedy/MontyPython/Actor"), key.New("/Comedy/MontyPython/Actor:JohnCleese")) // true
//	InScope(key.New("/Comedy"), key.New("/Comedy/MontyPython/Actor:JohnCleese"))                   // false
//
// Every leaf uses these semantics so that queries behave the same on all backends.
func InScope(scope, k key.Key) bool {
	return !k.IsRoot() && k.Path().Equal(scope)
}

// CheckQuery validates a query before it reaches the backend.
func CheckQuery(q *query.Query) error {
	if q == nil {
		return NewError(RetCInvalidInput, "query must not be nil")
	}
	return nil
}
