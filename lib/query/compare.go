package query

import (
	"bytes"
	"cmp"
	"fmt"
	"math"
	"reflect"
	"strings"
	"time"

	"github.com/ValentinKolb/dDS/lib/key"
)

// compareValues orders two present values. The boolean result is false if
// the values are not comparable with each other.
//
// Numbers of any kind compare as numbers, so a float64 decoded from JSON
// matches an int filter value. Apart from that no coercion takes place: a
// string never equals the number it spells.
func compareValues(a, b any) (int, bool) {
	if numberKindOf(a) != notNumber {
		return compareNumbers(a, b)
	}

	switch x := a.(type) {
	case string:
		if y, ok := b.(string); ok {
			return strings.Compare(x, y), true
		}
	case []byte:
		if y, ok := b.([]byte); ok {
			return bytes.Compare(x, y), true
		}
	case bool:
		if y, ok := b.(bool); ok {
			return compareBool(x, y), true
		}
	case time.Time:
		if y, ok := b.(time.Time); ok {
			return x.Compare(y), true
		}
	case key.Key:
		if y, ok := b.(key.Key); ok {
			return x.Compare(y), true
		}
	}

	// fall back to values of identical type that render themselves
	if reflect.TypeOf(a) == reflect.TypeOf(b) {
		if sa, ok := a.(fmt.Stringer); ok {
			return strings.Compare(sa.String(), b.(fmt.Stringer).String()), true
		}
		if reflect.TypeOf(a).Comparable() && a == b {
			return 0, true
		}
	}
	return 0, false
}

type numberKind int

const (
	notNumber numberKind = iota
	signedNumber
	unsignedNumber
	floatNumber
)

func numberKindOf(v any) numberKind {
	switch reflect.ValueOf(v).Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return signedNumber
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return unsignedNumber
	case reflect.Float32, reflect.Float64:
		return floatNumber
	default:
		return notNumber
	}
}

// compareNumbers compares two numbers exactly as long as neither is a float.
// Only a float on either side makes the comparison go through float64.
func compareNumbers(a, b any) (int, bool) {
	ka, kb := numberKindOf(a), numberKindOf(b)
	if ka == notNumber || kb == notNumber {
		return 0, false
	}
	ra, rb := reflect.ValueOf(a), reflect.ValueOf(b)

	switch {
	case ka == signedNumber && kb == signedNumber:
		return cmp.Compare(ra.Int(), rb.Int()), true
	case ka == unsignedNumber && kb == unsignedNumber:
		return cmp.Compare(ra.Uint(), rb.Uint()), true
	case ka == signedNumber && kb == unsignedNumber:
		return compareSignedUnsigned(ra.Int(), rb.Uint()), true
	case ka == unsignedNumber && kb == signedNumber:
		return -compareSignedUnsigned(rb.Int(), ra.Uint()), true
	default:
		fa, _ := toFloat(a)
		fb, _ := toFloat(b)
		return compareFloat(fa, fb), true
	}
}

func compareSignedUnsigned(i int64, u uint64) int {
	if i < 0 {
		return -1
	}
	return cmp.Compare(uint64(i), u)
}

// toFloat converts any Go numeric value to float64.
func toFloat(v any) (float64, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	default:
		return 0, false
	}
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	case a == b:
		return 0
	case math.IsNaN(a) && !math.IsNaN(b):
		return -1
	case !math.IsNaN(a) && math.IsNaN(b):
		return 1
	default:
		return 0
	}
}

func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	default:
		return 1
	}
}
