// Package sqlstore implements a datastore on a single SQLite database file
// (github.com/mattn/go-sqlite3). Every value is a row of the entries table,
// indexed by the scope it is listed under, so queries are a single indexed
// range read. Like fsstore it holds bytes; wrap it in a serializer shim to
// store other values.
package sqlstore
