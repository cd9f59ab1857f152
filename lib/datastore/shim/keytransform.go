package shim

import (
	"github.com/ValentinKolb/dDS/lib/datastore"
	"github.com/ValentinKolb/dDS/lib/key"
	"github.com/ValentinKolb/dDS/lib/query"
	"golang.org/x/text/cases"
)

// KeyTransform rewrites a key before it reaches the child datastore.
type KeyTransform func(key.Key) key.Key

// KeyTransformDatastore rewrites every key (and the scope of every query)
// with the same function before delegating to its child. There is no inverse
// transform: values are addressed by the rewritten key only on the way in.
type KeyTransformDatastore struct {
	child     datastore.IDatastore
	transform KeyTransform
}

// NewKeyTransform creates a KeyTransformDatastore. A nil fn leaves keys unchanged.
func NewKeyTransform(child datastore.IDatastore, fn KeyTransform) *KeyTransformDatastore {
	if fn == nil {
		fn = func(k key.Key) key.Key { return k }
	}
	return &KeyTransformDatastore{child: child, transform: fn}
}

// NewLowercase creates a key transform folding keys to lower case, making
// the datastore case-insensitive.
func NewLowercase(child datastore.IDatastore) *KeyTransformDatastore {
	return NewKeyTransform(child, func(k key.Key) key.Key {
		// a Caser keeps state, so every call gets its own
		return key.New(cases.Fold().String(k.String()))
	})
}

// NewNamespace creates a key transform mounting the child below prefix:
//
//	NewNamespace(child, "/app").Put(key.New("/a"), v) // child.Put(key.New("/app/a"), v)
func NewNamespace(child datastore.IDatastore, prefix string) *KeyTransformDatastore {
	ns := key.New(prefix)
	return NewKeyTransform(child, func(k key.Key) key.Key {
		return ns.ChildKey(k)
	})
}

// Child returns the wrapped datastore.
func (d *KeyTransformDatastore) Child() datastore.IDatastore {
	return d.child
}

// Transform returns the key the child sees for k.
func (d *KeyTransformDatastore) Transform(k key.Key) key.Key {
	return d.transform(k)
}

// Close closes the child.
func (d *KeyTransformDatastore) Close() error {
	return datastore.Close(d.child)
}

// --------------------------------------------------------------------------
// Interface Methods (docu see datastore.IDatastore)
// --------------------------------------------------------------------------

func (d *KeyTransformDatastore) Get(k key.Key) (any, bool, error) {
	return d.child.Get(d.transform(k))
}

func (d *KeyTransformDatastore) Put(k key.Key, value any) error {
	return d.child.Put(d.transform(k), value)
}

func (d *KeyTransformDatastore) Delete(k key.Key) error {
	return d.child.Delete(d.transform(k))
}

func (d *KeyTransformDatastore) Contains(k key.Key) (bool, error) {
	return d.child.Contains(d.transform(k))
}

func (d *KeyTransformDatastore) Query(q *query.Query) (*query.Cursor, error) {
	if err := datastore.CheckQuery(q); err != nil {
		return nil, err
	}
	transformed := q.Copy()
	transformed.Key = d.transform(q.Key)
	return d.child.Query(transformed)
}
