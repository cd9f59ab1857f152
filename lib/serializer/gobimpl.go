package serializer

import (
	"bytes"
	"encoding/gob"
)

func init() {
	// dynamic documents travel inside the envelope's interface field
	gob.Register(map[string]any{})
	gob.Register([]any{})
}

// NewGOBSerializer creates a new serializer using Go's binary gob format.
// Concrete types other than the basic ones and map[string]any / []any have to
// be registered with gob.Register before they can be stored.
func NewGOBSerializer() ISerializer {
	return &gobSerializerImpl{}
}

// gobSerializerImpl implements the ISerializer interface using gob encoding
type gobSerializerImpl struct {
}

// gobEnvelope lets gob transmit values of arbitrary (registered) type.
type gobEnvelope struct {
	Value any
}

// --------------------------------------------------------------------------
// Interface Methods (docu see serializer.ISerializer)
// --------------------------------------------------------------------------

func (g gobSerializerImpl) Dumps(value any) (any, error) {
	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)
	if err := enc.Encode(gobEnvelope{Value: value}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (g gobSerializerImpl) Loads(data any) (any, error) {
	b, err := toBytes(data)
	if err != nil {
		return nil, err
	}
	var env gobEnvelope
	dec := gob.NewDecoder(bytes.NewReader(b))
	if err := dec.Decode(&env); err != nil {
		return nil, err
	}
	return env.Value, nil
}
