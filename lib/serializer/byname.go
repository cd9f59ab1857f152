package serializer

import (
	"fmt"
	"strings"
)

// byName maps the names accepted by ByName to their constructors
var byName = map[string]func() ISerializer{
	"none":       NewNonSerializer,
	"json":       NewJSONSerializer,
	"prettyjson": NewPrettyJSONSerializer,
	"yaml":       NewYAMLSerializer,
	"gob":        NewGOBSerializer,
	"snappy":     NewSnappySerializer,
	"map":        NewMapSerializer,
}

// Names returns the serializer names understood by ByName.
func Names() []string {
	return []string{"none", "json", "prettyjson", "yaml", "gob", "snappy", "map"}
}

// ByName resolves a serializer by name. Names joined with '+' build a Stack
// applied from left to right, e.g. "json+snappy".
func ByName(name string) (ISerializer, error) {
	parts := strings.Split(strings.ToLower(strings.TrimSpace(name)), "+")
	stack := make(Stack, 0, len(parts))
	for _, part := range parts {
		factory, ok := byName[strings.TrimSpace(part)]
		if !ok {
			return nil, fmt.Errorf("%w: %q (supported: %s)", ErrUnknownSerializer, name, strings.Join(Names(), ", "))
		}
		stack = append(stack, factory())
	}
	if len(stack) == 1 {
		return stack[0], nil
	}
	return stack, nil
}
