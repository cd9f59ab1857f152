// Package lrustore implements a bounded in-memory datastore that evicts the
// least recently used value once its capacity is reached. It is the natural
// cache of a cache shim.
package lrustore

import (
	"slices"

	"github.com/ValentinKolb/dDS/lib/datastore"
	"github.com/ValentinKolb/dDS/lib/key"
	"github.com/ValentinKolb/dDS/lib/query"
	lru "github.com/hashicorp/golang-lru"
)

// entry is a stored value together with its parsed key
type entry struct {
	key   key.Key
	value any
}

// Store is a bounded datastore backed by a thread-safe LRU cache.
type Store struct {
	cache *lru.Cache // normalized key -> entry
	size  int
}

// New creates a store holding at most size values.
func New(size int) (*Store, error) {
	if size <= 0 {
		return nil, datastore.Errorf(datastore.RetCInvalidInput, "lru size must be positive, got %d", size)
	}
	cache, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return &Store{cache: cache, size: size}, nil
}

// Len returns the number of resident values.
func (s *Store) Len() int {
	return s.cache.Len()
}

// Size returns the capacity of the store.
func (s *Store) Size() int {
	return s.size
}

// --------------------------------------------------------------------------
// Interface Methods (docu see datastore.IDatastore)
// --------------------------------------------------------------------------

func (s *Store) Get(k key.Key) (any, bool, error) {
	raw, ok := s.cache.Get(k.String())
	if !ok {
		return nil, false, nil
	}
	return raw.(entry).value, true, nil
}

func (s *Store) Put(k key.Key, value any) error {
	s.cache.Add(k.String(), entry{key: k, value: value})
	return nil
}

func (s *Store) Delete(k key.Key) error {
	s.cache.Remove(k.String())
	return nil
}

// Contains does not update the recency of the key.
func (s *Store) Contains(k key.Key) (bool, error) {
	return s.cache.Contains(k.String()), nil
}

// Query runs over the resident values in key order. Evicted values are not
// part of the result, and the query does not update recency.
func (s *Store) Query(q *query.Query) (*query.Cursor, error) {
	if err := datastore.CheckQuery(q); err != nil {
		return nil, err
	}

	var matches []entry
	for _, raw := range s.cache.Keys() {
		v, ok := s.cache.Peek(raw)
		if !ok {
			continue // evicted in the meantime
		}
		if e := v.(entry); datastore.InScope(q.Key, e.key) {
			matches = append(matches, e)
		}
	}
	slices.SortFunc(matches, func(a, b entry) int {
		return a.key.Compare(b.key)
	})

	values := make([]any, len(matches))
	for i, e := range matches {
		values[i] = e.value
	}
	return q.ApplyTo(values), nil
}
