package shim

import (
	"errors"

	"github.com/ValentinKolb/dDS/lib/datastore"
	"github.com/ValentinKolb/dDS/lib/key"
	"github.com/ValentinKolb/dDS/lib/query"
)

// ShardedDatastore spreads keys over a fixed set of datastores by key hash.
// A key always maps to the same shard as long as the number of shards does
// not change.
//
// Queries run on every shard: filters are pushed down, the shard results are
// concatenated and orders, offset and limit are applied over the merged
// stream.
type ShardedDatastore struct {
	shards []datastore.IDatastore
}

// NewSharded creates a ShardedDatastore. At least one shard is required.
func NewSharded(shards ...datastore.IDatastore) (*ShardedDatastore, error) {
	if len(shards) == 0 {
		return nil, datastore.NewError(datastore.RetCInvalidInput, "sharded datastore needs at least one shard")
	}
	return &ShardedDatastore{shards: shards}, nil
}

// ShardIndex returns the index of the shard holding k.
func (d *ShardedDatastore) ShardIndex(k key.Key) int {
	// the low bits of xxhash are fine, but the higher ones spread better over few shards
	return int((k.Hash() >> 7) % uint64(len(d.shards)))
}

func (d *ShardedDatastore) shard(k key.Key) datastore.IDatastore {
	return d.shards[d.ShardIndex(k)]
}

// Close closes all shards.
func (d *ShardedDatastore) Close() error {
	var errs []error
	for _, s := range d.shards {
		errs = append(errs, datastore.Close(s))
	}
	return errors.Join(errs...)
}

// --------------------------------------------------------------------------
// Interface Methods (docu see datastore.IDatastore)
// --------------------------------------------------------------------------

func (d *ShardedDatastore) Get(k key.Key) (any, bool, error) {
	return d.shard(k).Get(k)
}

func (d *ShardedDatastore) Put(k key.Key, value any) error {
	return d.shard(k).Put(k, value)
}

func (d *ShardedDatastore) Delete(k key.Key) error {
	return d.shard(k).Delete(k)
}

func (d *ShardedDatastore) Contains(k key.Key) (bool, error) {
	return d.shard(k).Contains(k)
}

func (d *ShardedDatastore) Query(q *query.Query) (*query.Cursor, error) {
	if err := datastore.CheckQuery(q); err != nil {
		return nil, err
	}

	pushed := q.ScopeOnly()
	for _, f := range q.Filters {
		pushed.AddFilter(f)
	}

	sources := make([]query.Source, len(d.shards))
	for i, s := range d.shards {
		c, err := s.Query(pushed)
		if err != nil {
			return nil, err
		}
		sources[i] = c.Next
	}

	cursor := query.NewCursor(q, query.Concat(sources...))
	// fresh cursor, the stages cannot fail
	_ = cursor.ApplyOrder()
	_ = cursor.ApplyOffset()
	_ = cursor.ApplyLimit()
	return cursor, nil
}
