package key

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
)

// --------------------------------------------------------------------------
// Errors
// --------------------------------------------------------------------------

var (
	// ErrNoParent is returned when the parent of the root key is requested.
	ErrNoParent = errors.New("key: root key has no parent")
	// ErrInvalidInstance is returned when an instance name contains a slash.
	ErrInvalidInstance = errors.New("key: instance name must not contain '/'")
)

// --------------------------------------------------------------------------
// Key Type
// --------------------------------------------------------------------------

const (
	separator = "/"
	rootPath  = separator
)

// Key is an immutable hierarchical identifier, e.g. /Comedy/MontyPython/Actor:JohnCleese.
// The zero value is the root key. Keys are comparable with ==.
type Key struct {
	p string // normalized path without the leading slash
}

// Root is the top of every key hierarchy.
var Root = Key{}

// New creates a key from a slash delimited string.
// Duplicate, leading and trailing slashes are removed.
func New(s string) Key {
	return Key{p: Normalize(s)[1:]}
}

// FromNamespaces creates a key from a list of namespaces.
// Namespaces containing slashes are split into multiple namespaces.
func FromNamespaces(namespaces ...string) Key {
	return New(strings.Join(namespaces, separator))
}

// Random returns a new top-level key with a random (uuid v4) name.
func Random() Key {
	return New(strings.ReplaceAll(uuid.NewString(), "-", ""))
}

// Normalize returns the canonical form of a key string: a leading slash,
// no empty namespaces and no trailing slash. Normalize is idempotent.
func Normalize(s string) string {
	parts := strings.Split(s, separator)
	clean := parts[:0]
	for _, p := range parts {
		if p != "" {
			clean = append(clean, p)
		}
	}
	return rootPath + strings.Join(clean, separator)
}

// String returns the normalized string form of the key.
func (k Key) String() string {
	return rootPath + k.p
}

// GoString makes keys readable in test failures.
func (k Key) GoString() string {
	return fmt.Sprintf("Key(%q)", k.String())
}

// --------------------------------------------------------------------------
// Namespaces
// --------------------------------------------------------------------------

// List returns the namespaces of this key as plain strings. The root key has none.
func (k Key) List() []string {
	if k.IsRoot() {
		return nil
	}
	return strings.Split(k.p, separator)
}

// Namespaces returns the namespaces of this key.
func (k Key) Namespaces() []Namespace {
	list := k.List()
	namespaces := make([]Namespace, len(list))
	for i, ns := range list {
		namespaces[i] = Namespace(ns)
	}
	return namespaces
}

// last returns the most specific namespace (empty for the root key).
func (k Key) last() Namespace {
	s := k.String()
	return Namespace(s[strings.LastIndex(s, separator)+1:])
}

// Name returns the value of the last namespace.
//
//	New("/Comedy/MontyPython/Actor:JohnCleese").Name() == "JohnCleese"
func (k Key) Name() string {
	return k.last().Value()
}

// Type returns the field of the last namespace.
//
//	New("/Comedy/MontyPython/Actor:JohnCleese").Type() == "Actor"
func (k Key) Type() string {
	return k.last().Field()
}

// IsRoot returns whether this is the root key "/".
func (k Key) IsRoot() bool {
	return k.p == ""
}

// IsTopLevel returns whether this key has exactly one namespace.
func (k Key) IsTopLevel() bool {
	return !k.IsRoot() && !strings.Contains(k.p, separator)
}

// --------------------------------------------------------------------------
// Derived Keys
// --------------------------------------------------------------------------

// Parent returns the key without its last namespace.
// ErrNoParent is returned for the root key.
func (k Key) Parent() (Key, error) {
	if k.IsRoot() {
		return Key{}, fmt.Errorf("%w: %s", ErrNoParent, k)
	}
	s := k.String()
	return New(s[:strings.LastIndex(s, separator)]), nil
}

// Child returns the key extended by the given namespace.
func (k Key) Child(namespace string) Key {
	return New(k.String() + separator + namespace)
}

// ChildKey returns the key extended by all namespaces of other.
func (k Key) ChildKey(other Key) Key {
	return New(k.String() + other.String())
}

// Instance appends ":name" to the last namespace.
//
//	New("/Comedy/MontyPython/Actor").Instance("JohnCleese") == New("/Comedy/MontyPython/Actor:JohnCleese")
func (k Key) Instance(name string) (Key, error) {
	if strings.Contains(name, separator) {
		return Key{}, fmt.Errorf("%w: %q", ErrInvalidInstance, name)
	}
	return New(k.String() + namespaceDelimiter + name), nil
}

// Path returns the parent key extended by the type of this key, i.e. the
// key without its instance name. The path of the root key is the root key.
//
//	New("/Comedy/MontyPython/Actor:JohnCleese").Path() == New("/Comedy/MontyPython/Actor")
func (k Key) Path() Key {
	parent, err := k.Parent()
	if err != nil {
		return Root
	}
	return parent.Child(k.Type())
}

// Reverse returns the key with the order of its namespaces reversed.
func (k Key) Reverse() Key {
	list := k.List()
	for i, j := 0, len(list)-1; i < j; i, j = i+1, j-1 {
		list[i], list[j] = list[j], list[i]
	}
	return FromNamespaces(list...)
}

// --------------------------------------------------------------------------
// Relations
// --------------------------------------------------------------------------

// IsAncestorOf returns whether other lies below this key. No key is its own ancestor.
func (k Key) IsAncestorOf(other Key) bool {
	if k.IsRoot() {
		return !other.IsRoot()
	}
	return strings.HasPrefix(other.String(), k.String()+separator)
}

// IsDescendantOf returns whether this key lies below other.
func (k Key) IsDescendantOf(other Key) bool {
	return other.IsAncestorOf(k)
}

// Equal reports whether both keys have the same normalized form.
func (k Key) Equal(other Key) bool {
	return k.String() == other.String()
}

// Compare orders keys lexicographically by their normalized form.
func (k Key) Compare(other Key) int {
	return strings.Compare(k.String(), other.String())
}

// Less reports whether k sorts before other.
func (k Key) Less(other Key) bool {
	return k.Compare(other) < 0
}

// Hash returns a hash of the key that is stable across processes and machines.
func (k Key) Hash() uint64 {
	return xxhash.Sum64String(k.String())
}

// --------------------------------------------------------------------------
// Encoding
// --------------------------------------------------------------------------

// MarshalText implements encoding.TextMarshaler.
func (k Key) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Key) UnmarshalText(b []byte) error {
	*k = New(string(b))
	return nil
}
