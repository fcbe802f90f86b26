package observer

type PropertyOption func(*propertyOptions)

type propertyOptions struct {
	value        any
	hasValue     bool
	customSetter func()
	shallow      bool
}

// WithValue sets the initial value instead of reading the current slot.
func WithValue(v any) PropertyOption {
	return func(o *propertyOptions) {
		o.value = v
		o.hasValue = true
	}
}

// WithCustomSetter runs fn before each effective write, outside production.
func WithCustomSetter(fn func()) PropertyOption {
	return func(o *propertyOptions) {
		o.customSetter = fn
	}
}

// Shallow leaves the property's value itself unobserved.
func Shallow() PropertyOption {
	return func(o *propertyOptions) {
		o.shallow = true
	}
}

// DefineReactive replaces obj[key] with an accessor that records the active
// subscriber on read and notifies on write. Non-configurable slots are left
// alone. Accessors already present are kept and called through.
func (s *System) DefineReactive(obj *Object, key string, opts ...PropertyOption) {
	var o propertyOptions
	for _, opt := range opts {
		opt(&o)
	}

	dep := s.NewDep()

	property, exists := obj.OwnPropertyDescriptor(key)
	if exists && !property.Configurable {
		return
	}

	getter, setter := property.Get, property.Set
	val := o.value
	if (getter == nil || setter != nil) && !o.hasValue {
		val = obj.Get(key)
	}

	var childOb *Observer
	if !o.shallow {
		childOb = s.Observe(val, false)
	}

	obj.DefineProperty(key, Descriptor{
		Enumerable:   true,
		Configurable: true,
		Get: func() any {
			value := val
			if getter != nil {
				value = getter()
			}
			if s.target != nil {
				dep.Depend()
				if childOb != nil {
					childOb.dep.Depend()
					if arr, ok := value.(*Array); ok {
						dependArray(arr, nil)
					}
				}
			}
			return value
		},
		Set: func(newVal any) {
			value := val
			if getter != nil {
				value = getter()
			}
			if unchanged(newVal, value) {
				return
			}
			if o.customSetter != nil && !s.cfg.Production {
				o.customSetter()
			}
			if getter != nil && setter == nil {
				return
			}
			if setter != nil {
				setter(newVal)
			} else {
				val = newVal
			}
			childOb = nil
			if !o.shallow {
				childOb = s.Observe(newVal, false)
			}
			dep.Notify()
		},
	})
}

// dependArray records the active subscriber on every observed element,
// since element reads by index are not intercepted.
func dependArray(arr *Array, seen map[*Array]struct{}) {
	for _, e := range arr.items {
		switch v := e.(type) {
		case *Object:
			if v != nil && v.ob != nil {
				v.ob.dep.Depend()
			}
		case *Array:
			if v == nil {
				continue
			}
			if v.ob != nil {
				v.ob.dep.Depend()
			}
			if seen == nil {
				seen = map[*Array]struct{}{arr: {}}
			}
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
			dependArray(v, seen)
		}
	}
}
