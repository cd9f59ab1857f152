package key

import "strings"

const namespaceDelimiter = ":"

// Namespace is a single segment of a Key, optionally typed: [field ':'] value.
//
//	Namespace("Bruces")
//	Namespace("Song:PhilosopherSong")
type Namespace string

// Field returns the type part of the namespace, or "" if it has none.
func (ns Namespace) Field() string {
	s := string(ns)
	if i := strings.Index(s, namespaceDelimiter); i >= 0 {
		return s[:i]
	}
	return ""
}

// Value returns the part after the last delimiter.
func (ns Namespace) Value() string {
	s := string(ns)
	return s[strings.LastIndex(s, namespaceDelimiter)+1:]
}

// String implements fmt.Stringer.
func (ns Namespace) String() string {
	return string(ns)
}
