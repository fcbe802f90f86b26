package observer

import (
	"math"
	"reflect"
)

// StrictEqual compares like the identity operator of a dynamic language:
// comparable values by ==, maps, pointers and channels by address, slices by
// backing array and length. Funcs are never equal and NaN is not equal to
// itself.
func StrictEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Type() != vb.Type() {
		return false
	}
	if va.Comparable() && vb.Comparable() {
		return a == b
	}
	switch va.Kind() {
	case reflect.Map, reflect.Pointer, reflect.Chan, reflect.UnsafePointer:
		return va.Pointer() == vb.Pointer()
	case reflect.Slice:
		return va.Pointer() == vb.Pointer() && va.Len() == vb.Len()
	default:
		return false
	}
}

func isNaN(v any) bool {
	switch f := v.(type) {
	case float64:
		return math.IsNaN(f)
	case float32:
		return math.IsNaN(float64(f))
	default:
		return false
	}
}

func unchanged(newValue, oldValue any) bool {
	return StrictEqual(newValue, oldValue) || (isNaN(newValue) && isNaN(oldValue))
}

// IsObject reports whether v is a reference value rather than a primitive.
func IsObject(v any) bool {
	switch v.(type) {
	case nil:
		return false
	case *Object, *Array:
		return true
	}
	switch reflect.ValueOf(v).Kind() {
	case reflect.Map, reflect.Slice, reflect.Pointer, reflect.Struct:
		return true
	default:
		return false
	}
}
