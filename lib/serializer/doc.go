// Package serializer provides the value codecs used by the serializing
// datastore shim. It defines a common interface and multiple implementations
// for converting values to and from their stored representation.
//
// Key Components:
//
//   - ISerializer: Core interface (Dumps / Loads) that all serializers satisfy.
//
//   - NonSerializer: Pass-through for stores that only hold strings or bytes.
//
//   - JSON / PrettyJSON: encoding/json based codecs. PrettyJSON sorts keys
//     and indents, which keeps stored files diffable.
//
//   - YAML: gopkg.in/yaml.v3 based codec for human edited values.
//
//   - GOB: Go's binary gob format. Compact for Go types but not portable.
//
//   - Snappy: byte level compression, meant to be stacked behind a codec
//     producing bytes.
//
//   - Stack: applies serializers in sequence (dumps in order, loads in reverse).
//
//   - MapSerializer: guarantees mapping shaped values by wrapping others
//     under "@wrapped".
//
// Thread Safety:
//
//	All serializer implementations are stateless and safe for concurrent use
//	across multiple goroutines without additional synchronization.
//
// Usage:
//
//	ser, err := serializer.ByName("json+snappy")
//	data, err := ser.Dumps(map[string]any{"name": "John Cleese"})
//	// ... store data ...
//	value, err := ser.Loads(data)
package serializer
