package memstore

import (
	"os"
	"slices"

	"github.com/ValentinKolb/dDS/lib/datastore"
	"github.com/ValentinKolb/dDS/lib/key"
	"github.com/ValentinKolb/dDS/lib/query"
	"github.com/ValentinKolb/dDS/lib/serializer"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/puzpuzpuz/xsync/v3"
)

var log = logger.GetLogger("memstore")

// --------------------------------------------------------------------------
// Core structure
// --------------------------------------------------------------------------

// entry is a stored value together with its parsed key
type entry struct {
	key   key.Key
	value any
}

// Store is an in-memory datastore backed by a concurrent map. Values are
// stored as given, without copying.
type Store struct {
	data *xsync.MapOf[string, entry] // normalized key -> entry

	// snapshots
	ser  serializer.ISerializer // encodes values in snapshots
	path string                 // snapshot file, "" = not persistent
}

// Option configures a Store.
type Option func(*Store)

// WithSnapshotSerializer sets the serializer used for the values in snapshots
// written by Save. It has to produce []byte. Default: gob.
func WithSnapshotSerializer(ser serializer.ISerializer) Option {
	return func(s *Store) {
		s.ser = ser
	}
}

// New creates an empty in-memory store.
func New(opts ...Option) *Store {
	s := &Store{
		data: xsync.NewMapOf[string, entry](),
		ser:  serializer.NewGOBSerializer(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// OpenFile creates a store that is loaded from the snapshot at path (if the
// file exists) and written back to it on Close.
func OpenFile(path string, opts ...Option) (*Store, error) {
	s := New(opts...)
	s.path = path

	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if err := s.Load(f); err != nil {
		return nil, datastore.Errorf(datastore.RetCInternalError, "loading snapshot %s: %v", path, err)
	}
	log.Infof("loaded %d values from %s", s.Len(), path)
	return s, nil
}

// Len returns the number of stored values.
func (s *Store) Len() int {
	return s.data.Size()
}

// Close writes the snapshot if the store was opened with OpenFile.
func (s *Store) Close() error {
	if s.path == "" {
		return nil
	}
	log.Debugf("writing %d values to %s", s.Len(), s.path)
	return s.SaveFile(s.path)
}

// --------------------------------------------------------------------------
// Interface Methods (docu see datastore.IDatastore)
// --------------------------------------------------------------------------

func (s *Store) Get(k key.Key) (any, bool, error) {
	e, ok := s.data.Load(k.String())
	if !ok {
		return nil, false, nil
	}
	return e.value, true, nil
}

func (s *Store) Put(k key.Key, value any) error {
	s.data.Store(k.String(), entry{key: k, value: value})
	return nil
}

func (s *Store) Delete(k key.Key) error {
	s.data.Delete(k.String())
	return nil
}

func (s *Store) Contains(k key.Key) (bool, error) {
	_, ok := s.data.Load(k.String())
	return ok, nil
}

// Query evaluates q over a snapshot of the values in scope. Values are
// visited in key order before the query's own orders are applied, so results
// are deterministic.
func (s *Store) Query(q *query.Query) (*query.Cursor, error) {
	if err := datastore.CheckQuery(q); err != nil {
		return nil, err
	}

	var matches []entry
	s.data.Range(func(_ string, e entry) bool {
		if datastore.InScope(q.Key, e.key) {
			matches = append(matches, e)
		}
		return true
	})
	slices.SortFunc(matches, func(a, b entry) int {
		return a.key.Compare(b.key)
	})

	values := make([]any, len(matches))
	for i, e := range matches {
		values[i] = e.value
	}
	return q.ApplyTo(values), nil
}
