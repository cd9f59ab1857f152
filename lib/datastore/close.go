package datastore

import "io"

// Close releases the resources of ds if it holds any (i.e. implements io.Closer).
// Shims forward Close to their children through this function.
func Close(ds IDatastore) error {
	if c, ok := ds.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
