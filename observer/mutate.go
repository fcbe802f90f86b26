package observer

import (
	"fmt"
	"math"
	"strconv"
)

// Set assigns target[key] = val and, when key is new on an observed object,
// makes it reactive and fires the structural dep. Integer keys on an Array
// replace the slot through the intercepted Splice. Root entities and root
// data refuse new keys with a diagnostic.
func (s *System) Set(target any, key any, val any) any {
	switch t := target.(type) {
	case *Array:
		if t == nil {
			break
		}
		i, ok := arrayIndex(key)
		if !ok {
			s.Warn("cannot set a non-index key on an array", "key", key)
			return val
		}
		if i-t.Len() > MaxIndexGap {
			s.Warn("array index is too far past the end", "key", key, "len", t.Len())
			return val
		}
		t.grow(i)
		t.Splice(i, 1, val)
		return val
	case *Object:
		if t == nil {
			break
		}
		k, ok := key.(string)
		if !ok {
			s.Warn("object keys must be strings", "key", key)
			return val
		}
		if t.Has(k) {
			t.Put(k, val)
			return val
		}
		ob := t.ob
		if t.root || (ob != nil && ob.rootCount > 0) {
			s.Warn("avoid adding reactive properties to a root entity or its root data at runtime, declare it upfront", "key", k)
			return val
		}
		if !t.IsExtensible() {
			s.Warn("cannot add a property to a non-extensible object", "key", k)
			return val
		}
		if ob == nil {
			t.Put(k, val)
			return val
		}
		s.DefineReactive(t, k, WithValue(val))
		ob.dep.Notify()
		return val
	case RootEntity:
		if t.IsRootEntity() {
			s.Warn("avoid adding reactive properties to a root entity or its root data at runtime, declare it upfront", "key", key)
			return val
		}
	}
	s.Warn(fmt.Sprintf("cannot set reactive property on nil or primitive value: %v", target), "key", key)
	return val
}

// Del removes target[key], firing the structural dep when target is
// observed. Integer keys on an Array remove the slot through Splice.
func (s *System) Del(target any, key any) {
	switch t := target.(type) {
	case *Array:
		if t == nil {
			break
		}
		i, ok := arrayIndex(key)
		if !ok {
			s.Warn("cannot delete a non-index key on an array", "key", key)
			return
		}
		t.Splice(i, 1)
		return
	case *Object:
		if t == nil {
			break
		}
		ob := t.ob
		if t.root || (ob != nil && ob.rootCount > 0) {
			s.Warn("avoid deleting properties on a root entity or its root data, just set it to nil", "key", key)
			return
		}
		k, ok := key.(string)
		if !ok || !t.HasOwn(k) {
			return
		}
		if !t.Delete(k) {
			return
		}
		if ob == nil {
			return
		}
		ob.dep.Notify()
		return
	case RootEntity:
		if t.IsRootEntity() {
			s.Warn("avoid deleting properties on a root entity or its root data, just set it to nil", "key", key)
			return
		}
	}
	s.Warn(fmt.Sprintf("cannot delete reactive property on nil or primitive value: %v", target), "key", key)
}

// arrayIndex accepts non-negative whole numbers and their decimal strings.
func arrayIndex(key any) (int, bool) {
	var n float64
	switch k := key.(type) {
	case int:
		n = float64(k)
	case int8:
		n = float64(k)
	case int16:
		n = float64(k)
	case int32:
		n = float64(k)
	case int64:
		n = float64(k)
	case uint:
		n = float64(k)
	case uint8:
		n = float64(k)
	case uint16:
		n = float64(k)
	case uint32:
		n = float64(k)
	case uint64:
		n = float64(k)
	case float32:
		n = float64(k)
	case float64:
		n = k
	case string:
		f, err := strconv.ParseFloat(k, 64)
		if err != nil {
			return 0, false
		}
		n = f
	default:
		return 0, false
	}
	if n < 0 || math.IsInf(n, 0) || math.IsNaN(n) || math.Floor(n) != n || n > math.MaxInt32 {
		return 0, false
	}
	return int(n), true
}
