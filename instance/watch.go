package instance

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/delaneyj/reactivity/observer"
	"github.com/delaneyj/reactivity/watcher"
)

// Watch observes a dot-delimited path into the instance, such as "user.name",
// and returns a function that stops watching.
func (i *Instance) Watch(path string, def WatchDef) (unwatch func()) {
	segments, ok := parsePath(path)
	if !ok {
		i.warn("failed watching path, only simple dot-delimited paths are accepted", "path", path)
	}
	return i.watch(path, func(i *Instance) any {
		if !ok {
			return nil
		}
		return i.lookupPath(segments)
	}, def)
}

// WatchFunc is Watch for an arbitrary expression over the instance.
func (i *Instance) WatchFunc(expression string, fn func(i *Instance) any, def WatchDef) (unwatch func()) {
	return i.watch(expression, fn, def)
}

func (i *Instance) watch(expression string, fn func(i *Instance) any, def WatchDef) func() {
	var cb watcher.Callback
	if def.Handler != nil {
		cb = func(newValue, oldValue any) error {
			return def.Handler(i, newValue, oldValue)
		}
	}
	w := watcher.New(i.sys, func() (any, error) {
		return fn(i), nil
	}, cb, watcher.Options{
		User:       true,
		Deep:       def.Deep,
		Sync:       def.Sync,
		Scheduler:  i.opts.Scheduler,
		Expression: expression,
	})
	i.watchers = append(i.watchers, w)

	if def.Immediate && cb != nil {
		if err := cb(w.Value(), nil); err != nil {
			i.sys.HandleError(w, fmt.Errorf("callback for immediate watcher %q: %w", expression, err))
		}
	}
	return w.Teardown
}

func parsePath(path string) ([]string, bool) {
	if path == "" {
		return nil, false
	}
	segments := strings.Split(path, ".")
	for _, s := range segments {
		if s == "" || strings.ContainsAny(s, " \t\n[]()'\"+-*/!?:;,") {
			return nil, false
		}
	}
	return segments, true
}

func (i *Instance) lookupPath(segments []string) any {
	var cur any = i
	for _, s := range segments {
		switch v := cur.(type) {
		case *Instance:
			if !v.vm.Has(s) {
				return nil
			}
			cur = v.vm.Get(s)
		case *observer.Object:
			cur = v.Get(s)
		case *observer.Array:
			idx, err := strconv.Atoi(s)
			if err != nil {
				return nil
			}
			cur = v.At(idx)
		default:
			return nil
		}
	}
	return cur
}
