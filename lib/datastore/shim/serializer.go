package shim

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/ValentinKolb/dDS/lib/datastore"
	"github.com/ValentinKolb/dDS/lib/key"
	"github.com/ValentinKolb/dDS/lib/query"
	"github.com/ValentinKolb/dDS/lib/serializer"
)

// ErrSerializerRoundTrip is returned by NewSerializer if the serializer does
// not reproduce a test value.
var ErrSerializerRoundTrip = errors.New("shim: serialized value does not match original")

// SerializerDatastore serializes values on the way into its child and
// deserializes them on the way out. nil values pass unchanged.
//
// Queries run over deserialized values: the child only evaluates the scope
// of a query, and filters, orders, offset and limit are applied above the
// decoding pass. Decoding is lazy: without orders, values past the limit are
// never decoded.
type SerializerDatastore struct {
	child datastore.IDatastore
	ser   serializer.ISerializer
}

// NewSerializer creates a SerializerDatastore. The serializer is checked by
// round-tripping a test document; construction fails with
// ErrSerializerRoundTrip if the result differs.
func NewSerializer(child datastore.IDatastore, ser serializer.ISerializer) (*SerializerDatastore, error) {
	if ser == nil {
		ser = serializer.NewJSONSerializer()
	}
	if err := checkRoundTrip(ser); err != nil {
		return nil, err
	}
	return &SerializerDatastore{child: child, ser: ser}, nil
}

func checkRoundTrip(ser serializer.ISerializer) error {
	sentinel := map[string]any{"value": "SerializerDatastore"}
	data, err := ser.Dumps(sentinel)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSerializerRoundTrip, err)
	}
	result, err := ser.Loads(data)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSerializerRoundTrip, err)
	}
	if !reflect.DeepEqual(sentinel, result) {
		return fmt.Errorf("%w: got %#v", ErrSerializerRoundTrip, result)
	}
	return nil
}

// Close closes the child.
func (d *SerializerDatastore) Close() error {
	return datastore.Close(d.child)
}

func (d *SerializerDatastore) dumps(value any) (any, error) {
	if value == nil {
		return nil, nil
	}
	return d.ser.Dumps(value)
}

func (d *SerializerDatastore) loads(data any) (any, error) {
	if data == nil {
		return nil, nil
	}
	return d.ser.Loads(data)
}

// --------------------------------------------------------------------------
// Interface Methods (docu see datastore.IDatastore)
// --------------------------------------------------------------------------

func (d *SerializerDatastore) Get(k key.Key) (any, bool, error) {
	data, loaded, err := d.child.Get(k)
	if err != nil || !loaded {
		return nil, loaded, err
	}
	value, err := d.loads(data)
	if err != nil {
		return nil, false, fmt.Errorf("deserializing %s: %w", k, err)
	}
	return value, true, nil
}

func (d *SerializerDatastore) Put(k key.Key, value any) error {
	data, err := d.dumps(value)
	if err != nil {
		return fmt.Errorf("serializing %s: %w", k, err)
	}
	return d.child.Put(k, data)
}

func (d *SerializerDatastore) Delete(k key.Key) error {
	return d.child.Delete(k)
}

func (d *SerializerDatastore) Contains(k key.Key) (bool, error) {
	return d.child.Contains(k)
}

func (d *SerializerDatastore) Query(q *query.Query) (*query.Cursor, error) {
	if err := datastore.CheckQuery(q); err != nil {
		return nil, err
	}
	inner, err := d.child.Query(q.ScopeOnly())
	if err != nil {
		return nil, err
	}
	return q.Apply(query.MapSource(inner.Next, d.loads)), nil
}
