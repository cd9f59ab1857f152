package shim

import (
	"errors"

	"github.com/ValentinKolb/dDS/lib/datastore"
	"github.com/ValentinKolb/dDS/lib/key"
	"github.com/ValentinKolb/dDS/lib/query"
	"github.com/rcrowley/go-metrics"
)

// CacheDatastore puts a (usually fast and bounded) cache datastore in front
// of a child. Reads are served from the cache if possible and populate it on
// a miss, writes and deletes go to both. Queries always go to the child,
// caches may have evicted values.
//
// Hits and misses are counted in a go-metrics registry owned by the shim.
type CacheDatastore struct {
	child    datastore.IDatastore
	cache    datastore.IDatastore
	registry metrics.Registry
	hits     metrics.Counter
	misses   metrics.Counter
}

// CacheStats is a snapshot of the cache counters.
type CacheStats struct {
	Hits   int64
	Misses int64
}

// NewCache creates a CacheDatastore.
func NewCache(child, cache datastore.IDatastore) *CacheDatastore {
	registry := metrics.NewRegistry()
	return &CacheDatastore{
		child:    child,
		cache:    cache,
		registry: registry,
		hits:     metrics.GetOrRegisterCounter("cache.hits", registry),
		misses:   metrics.GetOrRegisterCounter("cache.misses", registry),
	}
}

// Stats returns the current hit and miss counts.
func (d *CacheDatastore) Stats() CacheStats {
	return CacheStats{Hits: d.hits.Count(), Misses: d.misses.Count()}
}

// Registry returns the registry holding the cache counters, e.g. for
// metrics.WriteOnce.
func (d *CacheDatastore) Registry() metrics.Registry {
	return d.registry
}

// Close closes the cache and the child.
func (d *CacheDatastore) Close() error {
	return errors.Join(datastore.Close(d.cache), datastore.Close(d.child))
}

// --------------------------------------------------------------------------
// Interface Methods (docu see datastore.IDatastore)
// --------------------------------------------------------------------------

func (d *CacheDatastore) Get(k key.Key) (any, bool, error) {
	value, loaded, err := d.cache.Get(k)
	if err != nil {
		return nil, false, err
	}
	if loaded {
		d.hits.Inc(1)
		return value, true, nil
	}
	d.misses.Inc(1)

	value, loaded, err = d.child.Get(k)
	if err != nil || !loaded {
		return nil, loaded, err
	}
	if err := d.cache.Put(k, value); err != nil {
		return nil, false, err
	}
	return value, true, nil
}

func (d *CacheDatastore) Put(k key.Key, value any) error {
	// drop the old value first, a failed cache write must not leave it behind
	if err := d.cache.Delete(k); err != nil {
		return err
	}
	if err := d.child.Put(k, value); err != nil {
		return err
	}
	return d.cache.Put(k, value)
}

func (d *CacheDatastore) Delete(k key.Key) error {
	if err := d.cache.Delete(k); err != nil {
		return err
	}
	return d.child.Delete(k)
}

func (d *CacheDatastore) Contains(k key.Key) (bool, error) {
	ok, err := d.cache.Contains(k)
	if err != nil || ok {
		return ok, err
	}
	return d.child.Contains(k)
}

func (d *CacheDatastore) Query(q *query.Query) (*query.Cursor, error) {
	return d.child.Query(q)
}
