package serializer

import (
	"encoding/json"
)

// NewJSONSerializer creates a new serializer using json encoding.
// Numbers are decoded as float64, objects as map[string]any.
func NewJSONSerializer() ISerializer {
	return &jsonSerializerImpl{}
}

// NewPrettyJSONSerializer creates a json serializer producing human readable
// output (sorted keys, indented by one space), useful for values kept under
// version control.
func NewPrettyJSONSerializer() ISerializer {
	return &jsonSerializerImpl{indent: " "}
}

// jsonSerializerImpl implements the ISerializer interface using json encoding
type jsonSerializerImpl struct {
	indent string
}

// --------------------------------------------------------------------------
// Interface Methods (docu see serializer.ISerializer)
// --------------------------------------------------------------------------

func (j jsonSerializerImpl) Dumps(value any) (any, error) {
	// encoding/json always writes map keys sorted
	if j.indent != "" {
		return json.MarshalIndent(value, "", j.indent)
	}
	return json.Marshal(value)
}

func (j jsonSerializerImpl) Loads(data any) (any, error) {
	b, err := toBytes(data)
	if err != nil {
		return nil, err
	}
	var value any
	if err := json.Unmarshal(b, &value); err != nil {
		return nil, err
	}
	return value, nil
}
