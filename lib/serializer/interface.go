package serializer

import (
	"errors"
	"fmt"
)

// ISerializer converts values to and from their stored representation.
//
// Dumps returns the serialized form of a value and Loads reverses it, so that
// Loads(Dumps(v)) equals v for every value the serializer can represent.
// Byte codecs return []byte from Dumps and accept []byte or string in Loads.
//
// Thread-safety: All implementations in this package are stateless and safe
// for concurrent use.
type ISerializer interface {
	// Dumps returns the serialized value
	Dumps(value any) (any, error)
	// Loads returns the deserialized value
	Loads(data any) (any, error)
}

var (
	// ErrUnexpectedInput is returned by Loads (or a byte codec's Dumps) when the
	// input has a representation the serializer cannot handle.
	ErrUnexpectedInput = errors.New("serializer: unexpected input")
	// ErrUnknownSerializer is returned by ByName for unknown names.
	ErrUnknownSerializer = errors.New("serializer: unknown serializer")
)

// toBytes accepts the representations byte codecs work on.
func toBytes(data any) ([]byte, error) {
	switch v := data.(type) {
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return nil, fmt.Errorf("%w: expected []byte or string, got %T", ErrUnexpectedInput, data)
	}
}
