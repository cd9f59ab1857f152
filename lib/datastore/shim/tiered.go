package shim

import (
	"errors"

	"github.com/ValentinKolb/dDS/lib/datastore"
	"github.com/ValentinKolb/dDS/lib/key"
	"github.com/ValentinKolb/dDS/lib/query"
)

// TieredDatastore stacks datastores from fastest to slowest. Gets return the
// first hit and copy the value into all faster tiers. Puts and deletes go to
// every tier. Queries are answered by the last tier, which is expected to be
// the complete one.
type TieredDatastore struct {
	tiers []datastore.IDatastore
}

// NewTiered creates a TieredDatastore. At least one tier is required.
func NewTiered(tiers ...datastore.IDatastore) (*TieredDatastore, error) {
	if len(tiers) == 0 {
		return nil, datastore.NewError(datastore.RetCInvalidInput, "tiered datastore needs at least one tier")
	}
	return &TieredDatastore{tiers: tiers}, nil
}

// Close closes all tiers.
func (d *TieredDatastore) Close() error {
	var errs []error
	for _, t := range d.tiers {
		errs = append(errs, datastore.Close(t))
	}
	return errors.Join(errs...)
}

// --------------------------------------------------------------------------
// Interface Methods (docu see datastore.IDatastore)
// --------------------------------------------------------------------------

func (d *TieredDatastore) Get(k key.Key) (any, bool, error) {
	for i, t := range d.tiers {
		value, loaded, err := t.Get(k)
		if err != nil {
			return nil, false, err
		}
		if !loaded {
			continue
		}
		for _, faster := range d.tiers[:i] {
			if err := faster.Put(k, value); err != nil {
				return nil, false, err
			}
		}
		return value, true, nil
	}
	return nil, false, nil
}

func (d *TieredDatastore) Put(k key.Key, value any) error {
	for _, t := range d.tiers {
		if err := t.Put(k, value); err != nil {
			return err
		}
	}
	return nil
}

func (d *TieredDatastore) Delete(k key.Key) error {
	for _, t := range d.tiers {
		if err := t.Delete(k); err != nil {
			return err
		}
	}
	return nil
}

func (d *TieredDatastore) Contains(k key.Key) (bool, error) {
	for _, t := range d.tiers {
		ok, err := t.Contains(k)
		if err != nil || ok {
			return ok, err
		}
	}
	return false, nil
}

func (d *TieredDatastore) Query(q *query.Query) (*query.Cursor, error) {
	return d.tiers[len(d.tiers)-1].Query(q)
}
