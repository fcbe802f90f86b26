package instance

import (
	"maps"
	"slices"
	"strings"

	"github.com/delaneyj/reactivity/observer"
	"github.com/delaneyj/reactivity/watcher"
)

func isReserved(key string) bool {
	return strings.HasPrefix(key, "$") || strings.HasPrefix(key, "_")
}

// proxy exposes src[key] on the property bag.
func (i *Instance) proxy(src *observer.Object, key string) {
	i.vm.DefineProperty(key, observer.Descriptor{
		Enumerable:   true,
		Configurable: true,
		Get: func() any {
			return src.Get(key)
		},
		Set: func(v any) {
			src.Put(key, v)
		},
	})
}

func (i *Instance) initProps() {
	i.props = observer.NewObject()
	if len(i.opts.Props) == 0 {
		return
	}
	if !i.IsRoot() {
		i.sys.ToggleObserving(false)
		defer i.sys.ToggleObserving(true)
	}
	for _, key := range slices.Sorted(maps.Keys(i.opts.Props)) {
		i.sys.DefineReactive(i.props, key,
			observer.WithValue(i.opts.Props[key]),
			observer.WithCustomSetter(func() {
				if !i.IsRoot() {
					i.warn("avoid mutating a prop directly since the value will be overwritten whenever the parent re-renders", "prop", key)
				}
			}),
		)
		if !i.vm.Has(key) {
			i.proxy(i.props, key)
		}
	}
}

func (i *Instance) initData() {
	var data *observer.Object
	if i.opts.Data != nil {
		i.sys.Untracked(func() {
			data = i.opts.Data(i)
		})
		if data == nil {
			i.warn("data functions should return an object")
		}
	}
	if data == nil {
		data = observer.NewObject()
	}
	i.data = data

	for _, key := range data.Keys() {
		switch {
		case i.props.HasOwn(key):
			i.warn("data property is already declared as a prop, use the prop default value instead", "key", key)
		case isReserved(key):
		default:
			i.proxy(data, key)
		}
	}
	i.sys.Observe(data, true)
}

func (i *Instance) initComputed() {
	for _, key := range slices.Sorted(maps.Keys(i.opts.Computed)) {
		def := i.opts.Computed[key]
		if def.Get == nil {
			i.warn("getter is missing for computed property", "key", key)
			continue
		}

		switch {
		case i.data.Has(key):
			i.warn("computed property is already defined in data", "key", key)
			continue
		case i.props.HasOwn(key):
			i.warn("computed property is already defined as a prop", "key", key)
			continue
		case i.vm.Has(key):
			continue
		}

		c := watcher.NewComputedWithError(i.sys, func() (any, error) {
			return def.Get(i), nil
		}, key)
		i.computed[key] = c
		i.vm.DefineProperty(key, observer.Descriptor{
			Enumerable:   true,
			Configurable: true,
			Get:          c.Value,
			Set: func(v any) {
				if def.Set == nil {
					i.warn("computed property was assigned to but it has no setter", "key", key)
					return
				}
				def.Set(i, v)
			},
		})
	}
}

func (i *Instance) initWatch() {
	for _, key := range slices.Sorted(maps.Keys(i.opts.Watch)) {
		i.Watch(key, i.opts.Watch[key])
	}
}

// Computed returns the cached derivation behind a computed key.
func (i *Instance) Computed(key string) (*watcher.Computed, bool) {
	c, ok := i.computed[key]
	return c, ok
}
