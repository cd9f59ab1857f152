package serializer

import (
	"github.com/klauspost/compress/snappy"
)

// NewSnappySerializer creates a byte codec compressing with snappy. It only
// accepts []byte or string input and is meant to sit behind a serializer
// producing bytes in a Stack, e.g. NewStack(NewJSONSerializer(), NewSnappySerializer()).
func NewSnappySerializer() ISerializer {
	return &snappySerializerImpl{}
}

// snappySerializerImpl implements the ISerializer interface using snappy compression
type snappySerializerImpl struct {
}

// --------------------------------------------------------------------------
// Interface Methods (docu see serializer.ISerializer)
// --------------------------------------------------------------------------

func (s snappySerializerImpl) Dumps(value any) (any, error) {
	b, err := toBytes(value)
	if err != nil {
		return nil, err
	}
	return snappy.Encode(nil, b), nil
}

func (s snappySerializerImpl) Loads(data any) (any, error) {
	b, err := toBytes(data)
	if err != nil {
		return nil, err
	}
	return snappy.Decode(nil, b)
}
