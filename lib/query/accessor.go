package query

import (
	"reflect"
	"strings"
)

// --------------------------------------------------------------------------
// Field Accessor
// --------------------------------------------------------------------------

// FieldAccessor extracts a named field from an arbitrary value. The boolean
// result reports whether the field was present. Implementations must never
// panic for a missing field.
//
// The accessor can be overridden per Query, Filter or Order so the pipeline
// stays agnostic to the shape of the stored values.
type FieldAccessor interface {
	Field(obj any, name string) (value any, ok bool)
}

// AccessorFunc adapts a plain function to the FieldAccessor interface.
type AccessorFunc func(obj any, name string) (any, bool)

// Field calls f(obj, name).
func (f AccessorFunc) Field(obj any, name string) (any, bool) {
	return f(obj, name)
}

// DefaultAccessor tries structured (struct field) access first and then
// keyed (map entry) access. Struct fields are matched by exact name, then
// case-insensitively, then by their json tag.
var DefaultAccessor FieldAccessor = AccessorFunc(defaultField)

func defaultField(obj any, name string) (any, bool) {
	v := reflect.ValueOf(obj)
	for v.IsValid() && (v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface) {
		if v.IsNil() {
			return nil, false
		}
		v = v.Elem()
	}
	if !v.IsValid() {
		return nil, false
	}

	switch v.Kind() {
	case reflect.Struct:
		return structField(v, name)
	case reflect.Map:
		return mapEntry(v, name)
	default:
		return nil, false
	}
}

func structField(v reflect.Value, name string) (any, bool) {
	if f := v.FieldByName(name); f.IsValid() && f.CanInterface() {
		return f.Interface(), true
	}

	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		tag, _, _ := strings.Cut(sf.Tag.Get("json"), ",")
		if strings.EqualFold(sf.Name, name) || (tag != "" && tag == name) {
			return v.Field(i).Interface(), true
		}
	}
	return nil, false
}

func mapEntry(v reflect.Value, name string) (any, bool) {
	if v.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	e := v.MapIndex(reflect.ValueOf(name).Convert(v.Type().Key()))
	if !e.IsValid() {
		return nil, false
	}
	return e.Interface(), true
}

// accessorOrDefault returns a if set, DefaultAccessor otherwise.
func accessorOrDefault(a FieldAccessor) FieldAccessor {
	if a == nil {
		return DefaultAccessor
	}
	return a
}
