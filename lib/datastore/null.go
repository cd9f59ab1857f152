package datastore

import (
	"github.com/ValentinKolb/dDS/lib/key"
	"github.com/ValentinKolb/dDS/lib/query"
)

// NullDatastore stores nothing: puts are discarded, gets never find a value
// and every query yields an empty cursor. It is useful as the end of a chain
// in tests or for dry runs.
type NullDatastore struct{}

// NewNullDatastore creates a new NullDatastore.
func NewNullDatastore() *NullDatastore {
	return &NullDatastore{}
}

// --------------------------------------------------------------------------
// Interface Methods (docu see datastore.IDatastore)
// --------------------------------------------------------------------------

func (n *NullDatastore) Get(key.Key) (any, bool, error) {
	return nil, false, nil
}

func (n *NullDatastore) Put(key.Key, any) error {
	return nil
}

func (n *NullDatastore) Delete(key.Key) error {
	return nil
}

func (n *NullDatastore) Contains(key.Key) (bool, error) {
	return false, nil
}

func (n *NullDatastore) Query(q *query.Query) (*query.Cursor, error) {
	if err := CheckQuery(q); err != nil {
		return nil, err
	}
	return q.Apply(query.Empty()), nil
}
