package watcher

import (
	"github.com/delaneyj/reactivity/observer"
	mapset "github.com/deckarep/golang-set/v2"
)

// Traverse reads everything reachable from value so the active subscriber
// depends on all of it. Each container is visited once, so cycles end.
func Traverse(value any) {
	traverse(value, mapset.NewThreadUnsafeSet[any]())
}

func traverse(value any, seen mapset.Set[any]) {
	switch v := value.(type) {
	case *observer.Object:
		if v == nil || v.IsFrozen() || !seen.Add(v) {
			return
		}
		for _, key := range v.Keys() {
			traverse(v.Get(key), seen)
		}
	case *observer.Array:
		if v == nil || !seen.Add(v) {
			return
		}
		if ob := v.Observer(); ob != nil {
			ob.Dep().Depend()
		}
		for i := v.Len() - 1; i >= 0; i-- {
			traverse(v.At(i), seen)
		}
	}
}
