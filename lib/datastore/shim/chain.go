package shim

import (
	"github.com/ValentinKolb/dDS/lib/datastore"
	"github.com/ValentinKolb/dDS/lib/serializer"
	"github.com/lni/dragonboat/v4/logger"
)

// Wrapper wraps a datastore in a shim.
type Wrapper func(child datastore.IDatastore) (datastore.IDatastore, error)

// Chain builds a shim chain over leaf. The first wrapper is applied first,
// i.e. it ends up closest to the leaf:
//
//	ds, err := shim.Chain(fs,
//		shim.WithSerializer(serializer.NewJSONSerializer()), // innermost
//		shim.WithLowercase(),
//		shim.WithLogging(nil),                               // outermost
//	)
//
// If a wrapper fails, the error is returned and nothing is closed: the leaf
// stays open and remains the caller's to close.
func Chain(leaf datastore.IDatastore, wrappers ...Wrapper) (datastore.IDatastore, error) {
	ds := leaf
	for _, wrap := range wrappers {
		next, err := wrap(ds)
		if err != nil {
			return nil, err
		}
		ds = next
	}
	return ds, nil
}

// --------------------------------------------------------------------------
// Wrappers
// --------------------------------------------------------------------------

// WithKeyTransform wraps in a KeyTransformDatastore.
func WithKeyTransform(fn KeyTransform) Wrapper {
	return func(child datastore.IDatastore) (datastore.IDatastore, error) {
		return NewKeyTransform(child, fn), nil
	}
}

// WithLowercase wraps in a lowercase key transform.
func WithLowercase() Wrapper {
	return func(child datastore.IDatastore) (datastore.IDatastore, error) {
		return NewLowercase(child), nil
	}
}

// WithNamespace wraps in a namespace key transform.
func WithNamespace(prefix string) Wrapper {
	return func(child datastore.IDatastore) (datastore.IDatastore, error) {
		return NewNamespace(child, prefix), nil
	}
}

// WithNestedPath wraps in a NestedPathDatastore.
func WithNestedPath(depth, length int) Wrapper {
	return func(child datastore.IDatastore) (datastore.IDatastore, error) {
		return NewNestedPath(child, depth, length)
	}
}

// WithSerializer wraps in a SerializerDatastore.
func WithSerializer(ser serializer.ISerializer) Wrapper {
	return func(child datastore.IDatastore) (datastore.IDatastore, error) {
		return NewSerializer(child, ser)
	}
}

// WithCache wraps in a CacheDatastore using cache as the cache.
func WithCache(cache datastore.IDatastore) Wrapper {
	return func(child datastore.IDatastore) (datastore.IDatastore, error) {
		return NewCache(child, cache), nil
	}
}

// WithLogging wraps in a LoggingDatastore. A nil logger uses the "shim" logger.
func WithLogging(l logger.ILogger) Wrapper {
	return func(child datastore.IDatastore) (datastore.IDatastore, error) {
		return NewLogging(child, l), nil
	}
}

// WithInstrumentation wraps in an InstrumentedDatastore.
func WithInstrumentation(name string) Wrapper {
	return func(child datastore.IDatastore) (datastore.IDatastore, error) {
		return NewInstrumented(child, name), nil
	}
}
