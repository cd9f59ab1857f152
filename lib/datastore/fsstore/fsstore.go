package fsstore

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/ValentinKolb/dDS/lib/datastore"
	"github.com/ValentinKolb/dDS/lib/key"
	"github.com/ValentinKolb/dDS/lib/query"
	"github.com/lni/dragonboat/v4/logger"
)

var log = logger.GetLogger("fsstore")

// DefaultSuffix is appended to the last namespace of every stored value.
const DefaultSuffix = ".obj"

// --------------------------------------------------------------------------
// Core structure
// --------------------------------------------------------------------------

// Store keeps every value in its own file below a root directory:
//
//	Key("/Comedy/MontyPython/Actor:JohnCleese")  -> root/Comedy/MontyPython/Actor/JohnCleese.obj
//	Key("/Comedy/MontyPython/Sketch:CheeseShop") -> root/Comedy/MontyPython/Sketch/CheeseShop.obj
//
// Namespace delimiters (':') become directory levels, and the suffix keeps a
// value apart from a directory of the same name, so CheeseShop.obj and the
// values below CheeseShop/ coexist.
//
// Thread-safety: All methods are safe for concurrent use. Writes are atomic
// per key (temporary file + rename), concurrent writes to one key are unordered.
type Store struct {
	root          string
	suffix        string
	caseSensitive bool
	ignore        []string
}

// Option configures a Store.
type Option func(*Store)

// WithCaseInsensitive folds all paths to lower case.
func WithCaseInsensitive() Option {
	return func(s *Store) {
		s.caseSensitive = false
	}
}

// WithIgnore excludes directory entries with the given names from queries.
func WithIgnore(names ...string) Option {
	return func(s *Store) {
		s.ignore = append(s.ignore, names...)
	}
}

// WithSuffix sets the file suffix of stored values. Default: ".obj".
func WithSuffix(suffix string) Option {
	return func(s *Store) {
		s.suffix = suffix
	}
}

// New creates a store mounted at root. The directory is created if it does
// not exist; an existing regular file at root is an error.
func New(root string, opts ...Option) (*Store, error) {
	if root == "" {
		return nil, datastore.NewError(datastore.RetCInvalidInput, "root path must not be empty ('.' for current directory)")
	}

	s := &Store{
		root:          filepath.Clean(root),
		suffix:        DefaultSuffix,
		caseSensitive: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.suffix == "" {
		return nil, datastore.NewError(datastore.RetCInvalidInput, "suffix must not be empty")
	}

	if err := ensureDirectory(s.root); err != nil {
		return nil, err
	}
	return s, nil
}

// Root returns the directory the store is mounted at.
func (s *Store) Root() string {
	return s.root
}

// --------------------------------------------------------------------------
// Paths
// --------------------------------------------------------------------------

// relativePath maps a key to a slash separated path below root.
//
// A namespace may contain at most one ':'. With more, the value would be
// listed under a different scope than the key's Path.
func (s *Store) relativePath(k key.Key) (string, error) {
	for _, ns := range k.List() {
		if strings.Count(ns, ":") > 1 {
			return "", datastore.Errorf(datastore.RetCInvalidInput, "key %s has a namespace with more than one ':'", k)
		}
	}
	rel := strings.ReplaceAll(strings.TrimPrefix(k.String(), "/"), ":", "/")
	if !s.caseSensitive {
		rel = strings.ToLower(rel)
	}
	for _, segment := range strings.Split(rel, "/") {
		if segment == "." || segment == ".." || (rel != "" && segment == "") {
			return "", datastore.Errorf(datastore.RetCInvalidInput, "key %s does not map to a path below the root", k)
		}
	}
	return rel, nil
}

// dirPath returns the directory holding the values in the scope of k.
func (s *Store) dirPath(k key.Key) (string, error) {
	rel, err := s.relativePath(k)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.root, filepath.FromSlash(rel)), nil
}

// objectPath returns the file holding the value of k.
func (s *Store) objectPath(k key.Key) (string, error) {
	if k.IsRoot() {
		return "", datastore.NewError(datastore.RetCInvalidOperation, "the root key cannot hold a value")
	}
	dir, err := s.dirPath(k)
	if err != nil {
		return "", err
	}
	return dir + s.suffix, nil
}

// --------------------------------------------------------------------------
// Interface Methods (docu see datastore.IDatastore)
// --------------------------------------------------------------------------

// Get returns the content of the value's file as []byte.
func (s *Store) Get(k key.Key) (any, bool, error) {
	if k.IsRoot() {
		return nil, false, nil
	}
	path, err := s.objectPath(k)
	if err != nil {
		return nil, false, err
	}
	return readObject(path)
}

// Put stores a []byte or string value. The file is flushed to stable storage
// before Put returns.
func (s *Store) Put(k key.Key, value any) error {
	path, err := s.objectPath(k)
	if err != nil {
		return err
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return datastore.Errorf(datastore.RetCTypeMismatch, "fsstore stores []byte or string values, got %T (use a serializer shim)", value)
	}

	return writeObject(path, data)
}

func (s *Store) Delete(k key.Key) error {
	if k.IsRoot() {
		return nil
	}
	path, err := s.objectPath(k)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func (s *Store) Contains(k key.Key) (bool, error) {
	if k.IsRoot() {
		return false, nil
	}
	path, err := s.objectPath(k)
	if err != nil {
		return false, err
	}
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return info.Mode().IsRegular(), nil
}

// Query lists the directory of q.Key (one level) and yields the content of
// every value file in it, in file name order. Files are read lazily as the
// cursor is pulled. Directories, ignored names and files without the suffix
// are skipped.
func (s *Store) Query(q *query.Query) (*query.Cursor, error) {
	if err := datastore.CheckQuery(q); err != nil {
		return nil, err
	}
	dir, err := s.dirPath(q.Key)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return q.Apply(query.Empty()), nil
	}
	if err != nil {
		return nil, err
	}

	var paths []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || slices.Contains(s.ignore, name) || !strings.HasSuffix(name, s.suffix) {
			continue
		}
		paths = append(paths, filepath.Join(dir, name))
	}

	return q.Apply(s.readObjects(paths)), nil
}

// readObjects returns a source reading the given files on demand. Files
// deleted after the listing are skipped.
func (s *Store) readObjects(paths []string) query.Source {
	return func() (any, bool, error) {
		for len(paths) > 0 {
			path := paths[0]
			paths = paths[1:]

			value, ok, err := readObject(path)
			if err != nil {
				return nil, false, err
			}
			if ok {
				return value, true, nil
			}
			log.Debugf("skipping %s, removed during query", path)
		}
		return nil, false, nil
	}
}
