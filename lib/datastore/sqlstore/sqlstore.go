package sqlstore

import (
	"database/sql"
	_ "embed"
	"errors"
	"fmt"

	"github.com/ValentinKolb/dDS/lib/datastore"
	"github.com/ValentinKolb/dDS/lib/key"
	"github.com/ValentinKolb/dDS/lib/query"
	"github.com/lni/dragonboat/v4/logger"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

var log = logger.GetLogger("sqlstore")

// Store keeps values in a single SQLite table. Uses WAL mode for concurrent
// reads during writes.
type Store struct {
	db   *sql.DB
	path string
}

// Open creates or opens a SQLite database at the given path (":memory:" for
// a private in-memory database). Applies pragmas and schema automatically.
//
// The database is configured with:
//   - WAL mode for concurrent reads during writes
//   - NORMAL synchronous mode (balance durability/performance)
//   - 5-second busy timeout for lock contention
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite only supports one writer at a time, and every connection to
	// ":memory:" is a database of its own
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	log.Debugf("opened database %s", path)
	return &Store{db: db, path: path}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Len returns the number of stored values.
func (s *Store) Len() (int, error) {
	var n int
	err := s.db.QueryRow("SELECT COUNT(*) FROM entries").Scan(&n)
	return n, err
}

// applyPragmas sets required SQLite configuration.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	return nil
}

// --------------------------------------------------------------------------
// Interface Methods (docu see datastore.IDatastore)
// --------------------------------------------------------------------------

// Get returns the stored value as []byte.
func (s *Store) Get(k key.Key) (any, bool, error) {
	var value []byte
	err := s.db.QueryRow("SELECT value FROM entries WHERE key = ?", k.String()).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if value == nil {
		value = []byte{}
	}
	return value, true, nil
}

// Put stores a []byte or string value.
func (s *Store) Put(k key.Key, value any) error {
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return datastore.Errorf(datastore.RetCTypeMismatch, "sqlstore stores []byte or string values, got %T (use a serializer shim)", value)
	}
	if data == nil {
		data = []byte{}
	}

	_, err := s.db.Exec(`
		INSERT INTO entries (key, path, value) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, k.String(), k.Path().String(), data)
	return err
}

func (s *Store) Delete(k key.Key) error {
	_, err := s.db.Exec("DELETE FROM entries WHERE key = ?", k.String())
	return err
}

func (s *Store) Contains(k key.Key) (bool, error) {
	var exists bool
	err := s.db.QueryRow("SELECT EXISTS(SELECT 1 FROM entries WHERE key = ?)", k.String()).Scan(&exists)
	return exists, err
}

// Query selects the values in scope in key order and runs the query pipeline
// over them. The rows are read before the cursor is returned, so callers may
// write to the store while iterating.
func (s *Store) Query(q *query.Query) (*query.Cursor, error) {
	if err := datastore.CheckQuery(q); err != nil {
		return nil, err
	}

	// the root key is its own path but never in scope
	rows, err := s.db.Query("SELECT value FROM entries WHERE path = ? AND key <> '/' ORDER BY key", q.Key.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var values []any
	for rows.Next() {
		var value []byte
		if err := rows.Scan(&value); err != nil {
			return nil, err
		}
		if value == nil {
			value = []byte{}
		}
		values = append(values, value)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return q.ApplyTo(values), nil
}
