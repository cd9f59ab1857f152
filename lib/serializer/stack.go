package serializer

// Stack applies a sequence of serializers: Dumps runs them in order, Loads
// runs them in reverse order.
type Stack []ISerializer

// NewStack creates a stack of the given serializers.
func NewStack(serializers ...ISerializer) Stack {
	return Stack(serializers)
}

// --------------------------------------------------------------------------
// Interface Methods (docu see serializer.ISerializer)
// --------------------------------------------------------------------------

func (s Stack) Dumps(value any) (any, error) {
	var err error
	for _, ser := range s {
		if value, err = ser.Dumps(value); err != nil {
			return nil, err
		}
	}
	return value, nil
}

func (s Stack) Loads(data any) (any, error) {
	var err error
	for i := len(s) - 1; i >= 0; i-- {
		if data, err = s[i].Loads(data); err != nil {
			return nil, err
		}
	}
	return data, nil
}
