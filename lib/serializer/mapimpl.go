package serializer

// MapWrapKey is the single key under which NewMapSerializer wraps values
// that are not mappings.
const MapWrapKey = "@wrapped"

// NewMapSerializer creates a serializer ensuring the serialized value is a
// map[string]any. Other values are wrapped as {"@wrapped": value}. Stores
// that only hold documents (and queries filtering on document fields) need it.
func NewMapSerializer() ISerializer {
	return mapSerializerImpl{}
}

type mapSerializerImpl struct{}

// --------------------------------------------------------------------------
// Interface Methods (docu see serializer.ISerializer)
// --------------------------------------------------------------------------

func (mapSerializerImpl) Dumps(value any) (any, error) {
	if m, ok := value.(map[string]any); ok {
		return m, nil
	}
	return map[string]any{MapWrapKey: value}, nil
}

func (mapSerializerImpl) Loads(data any) (any, error) {
	if m, ok := data.(map[string]any); ok && len(m) == 1 {
		if v, wrapped := m[MapWrapKey]; wrapped {
			return v, nil
		}
	}
	return data, nil
}
