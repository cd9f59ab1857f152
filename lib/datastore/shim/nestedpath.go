package shim

import (
	"fmt"
	"strings"

	"github.com/ValentinKolb/dDS/lib/datastore"
	"github.com/ValentinKolb/dDS/lib/key"
	"github.com/ValentinKolb/dDS/lib/query"
)

const (
	DefaultNestDepth  = 3
	DefaultNestLength = 2

	hashDigits = 16 // hex digits of a 64 bit hash
)

// NestedPathDatastore spreads keys over nested directories derived from the
// key's hash, e.g. with depth 3 and length 2:
//
//	/Comedy/MontyPython -> /1f/a0/3c/Comedy/MontyPython
//
// This keeps the number of entries per directory low on filesystem leaves.
// Queries are not supported: the values of a scope are scattered over many
// nests.
type NestedPathDatastore struct {
	child  datastore.IDatastore
	depth  int
	length int
}

// NewNestedPath creates a NestedPathDatastore with depth nest levels of
// length hex digits each. depth * length must not exceed 16.
func NewNestedPath(child datastore.IDatastore, depth, length int) (*NestedPathDatastore, error) {
	if depth <= 0 || length <= 0 || depth*length > hashDigits {
		return nil, datastore.Errorf(datastore.RetCInvalidInput,
			"invalid nesting depth %d x length %d (both positive, product at most %d)", depth, length, hashDigits)
	}
	return &NestedPathDatastore{child: child, depth: depth, length: length}, nil
}

// NestKey returns the key the child sees for k.
func (d *NestedPathDatastore) NestKey(k key.Key) key.Key {
	digest := fmt.Sprintf("%016x", k.Hash())
	nests := make([]string, d.depth)
	for i := range nests {
		nests[i] = digest[i*d.length : (i+1)*d.length]
	}
	return key.New(strings.Join(nests, "/")).ChildKey(k)
}

// Close closes the child.
func (d *NestedPathDatastore) Close() error {
	return datastore.Close(d.child)
}

// --------------------------------------------------------------------------
// Interface Methods (docu see datastore.IDatastore)
// --------------------------------------------------------------------------

func (d *NestedPathDatastore) Get(k key.Key) (any, bool, error) {
	return d.child.Get(d.NestKey(k))
}

func (d *NestedPathDatastore) Put(k key.Key, value any) error {
	return d.child.Put(d.NestKey(k), value)
}

func (d *NestedPathDatastore) Delete(k key.Key) error {
	return d.child.Delete(d.NestKey(k))
}

func (d *NestedPathDatastore) Contains(k key.Key) (bool, error) {
	return d.child.Contains(d.NestKey(k))
}

func (d *NestedPathDatastore) Query(*query.Query) (*query.Cursor, error) {
	return nil, datastore.Unsupported("nested path datastore", "queries")
}
