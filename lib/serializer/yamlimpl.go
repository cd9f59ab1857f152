package serializer

import (
	"gopkg.in/yaml.v3"
)

// NewYAMLSerializer creates a new serializer using yaml encoding.
// Mappings with string keys are decoded as map[string]any.
func NewYAMLSerializer() ISerializer {
	return &yamlSerializerImpl{}
}

// yamlSerializerImpl implements the ISerializer interface using yaml encoding
type yamlSerializerImpl struct {
}

// --------------------------------------------------------------------------
// Interface Methods (docu see serializer.ISerializer)
// --------------------------------------------------------------------------

func (y yamlSerializerImpl) Dumps(value any) (any, error) {
	return yaml.Marshal(value)
}

func (y yamlSerializerImpl) Loads(data any) (any, error) {
	b, err := toBytes(data)
	if err != nil {
		return nil, err
	}
	var value any
	if err := yaml.Unmarshal(b, &value); err != nil {
		return nil, err
	}
	return value, nil
}
