package instance

import (
	"maps"
	"slices"

	"github.com/delaneyj/reactivity/observer"
)

func (i *Instance) initProvide() {
	if i.opts.Provide == nil {
		return
	}
	i.sys.Untracked(func() {
		i.provided = i.opts.Provide(i)
	})
}

// Provided returns what the instance provides to its descendants.
func (i *Instance) Provided() map[string]any {
	return maps.Clone(i.provided)
}

// initInjections defines resolved injections on the property bag. Their
// values are taken as provided and never observed here; the provider owns
// their reactivity.
func (i *Instance) initInjections() {
	result := i.resolveInject()
	if len(result) == 0 {
		return
	}
	i.sys.ToggleObserving(false)
	defer i.sys.ToggleObserving(true)

	for _, key := range slices.Sorted(maps.Keys(result)) {
		i.sys.DefineReactive(i.vm, key,
			observer.WithValue(result[key]),
			observer.WithCustomSetter(func() {
				i.warn("avoid mutating an injected value directly since the changes will be overwritten whenever the provider re-renders", "injection", key)
			}),
		)
	}
}

func (i *Instance) resolveInject() map[string]any {
	if len(i.opts.Inject) == 0 {
		return nil
	}
	result := make(map[string]any, len(i.opts.Inject))
	for _, key := range slices.Sorted(maps.Keys(i.opts.Inject)) {
		def := i.opts.Inject[key]
		from := def.From
		if from == "" {
			from = key
		}

		found := false
		for src := i.parent; src != nil; src = src.parent {
			if v, ok := src.provided[from]; ok {
				result[key] = v
				found = true
				break
			}
		}
		if found {
			continue
		}
		if def.Default != nil {
			result[key] = def.Default(i)
			continue
		}
		i.warn("injection not found", "key", key)
	}
	return result
}
