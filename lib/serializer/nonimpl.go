package serializer

// NewNonSerializer creates a serializer that does not serialize at all. Use it
// for stores that only hold strings or already serialized values.
func NewNonSerializer() ISerializer {
	return nonSerializerImpl{}
}

type nonSerializerImpl struct{}

// --------------------------------------------------------------------------
// Interface Methods (docu see serializer.ISerializer)
// --------------------------------------------------------------------------

func (nonSerializerImpl) Dumps(value any) (any, error) {
	return value, nil
}

func (nonSerializerImpl) Loads(data any) (any, error) {
	return data, nil
}
