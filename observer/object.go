package observer

// Descriptor describes one own property slot of an Object. A slot with a Get
// or Set func is an accessor; otherwise it holds Value directly.
type Descriptor struct {
	Value        any
	Get          func() any
	Set          func(value any)
	Enumerable   bool
	Configurable bool
	Writable     bool
}

func (d Descriptor) IsAccessor() bool {
	return d.Get != nil || d.Set != nil
}

func dataDescriptor(value any) Descriptor {
	return Descriptor{
		Value:        value,
		Enumerable:   true,
		Configurable: true,
		Writable:     true,
	}
}

// Object is a keyed structure whose reads and writes go through Get and Put,
// which is what lets an Observer intercept them. Keys keep insertion order.
type Object struct {
	keys  []string
	slots map[string]*Descriptor
	proto *Object

	nonExtensible bool
	root          bool
	treeNode      bool
	ob            *Observer
}

func NewObject() *Object {
	return &Object{
		slots: map[string]*Descriptor{},
	}
}

// Create returns an empty object that inherits keys from proto.
func Create(proto *Object) *Object {
	o := NewObject()
	o.proto = proto
	return o
}

// With adds or overwrites a plain data property and returns the object, for
// building literals.
func (o *Object) With(key string, value any) *Object {
	o.Put(key, value)
	return o
}

func (o *Object) Proto() *Object {
	return o.proto
}

// Observer returns the observer attached to this object, if any.
func (o *Object) Observer() *Observer {
	return o.ob
}

// MarkRoot flags the object as a root entity of the host framework. Root
// entities are never observed and refuse runtime reactive additions.
func (o *Object) MarkRoot() *Object {
	o.root = true
	return o
}

func (o *Object) IsRootEntity() bool {
	return o.root
}

// MarkTreeNode flags the object as a render-tree node, which keeps it and
// everything reachable only through it unobserved.
func (o *Object) MarkTreeNode() *Object {
	o.treeNode = true
	return o
}

func (o *Object) IsTreeNode() bool {
	return o != nil && o.treeNode
}

func (o *Object) PreventExtensions() {
	o.nonExtensible = true
}

// Freeze makes the object inextensible and every slot read-only.
func (o *Object) Freeze() {
	o.nonExtensible = true
	for _, d := range o.slots {
		d.Configurable = false
		if !d.IsAccessor() {
			d.Writable = false
		}
	}
}

func (o *Object) IsExtensible() bool {
	return !o.nonExtensible
}

func (o *Object) IsFrozen() bool {
	if o.IsExtensible() {
		return false
	}
	for _, d := range o.slots {
		if d.Configurable || (!d.IsAccessor() && d.Writable) {
			return false
		}
	}
	return true
}

// Len is the number of own keys.
func (o *Object) Len() int {
	return len(o.keys)
}

// Keys lists own enumerable keys in insertion order.
func (o *Object) Keys() []string {
	keys := make([]string, 0, len(o.keys))
	for _, k := range o.keys {
		if o.slots[k].Enumerable {
			keys = append(keys, k)
		}
	}
	return keys
}

func (o *Object) HasOwn(key string) bool {
	_, ok := o.slots[key]
	return ok
}

// Has reports whether key is an own or inherited property.
func (o *Object) Has(key string) bool {
	for cur := o; cur != nil; cur = cur.proto {
		if cur.HasOwn(key) {
			return true
		}
	}
	return false
}

func (o *Object) OwnPropertyDescriptor(key string) (Descriptor, bool) {
	d, ok := o.slots[key]
	if !ok {
		return Descriptor{}, false
	}
	return *d, true
}

// DefineProperty installs or replaces an own slot. It reports false when the
// existing slot is not configurable or the object cannot take new keys.
func (o *Object) DefineProperty(key string, d Descriptor) bool {
	existing, ok := o.slots[key]
	if ok {
		if !existing.Configurable {
			return false
		}
		*existing = d
		return true
	}
	if o.nonExtensible {
		return false
	}
	if o.slots == nil {
		o.slots = map[string]*Descriptor{}
	}
	o.slots[key] = &d
	o.keys = append(o.keys, key)
	return true
}

// Get reads key through its accessor or slot, falling back to the prototype
// chain. Missing keys read as nil.
func (o *Object) Get(key string) any {
	v, _ := o.Lookup(key)
	return v
}

func (o *Object) Lookup(key string) (any, bool) {
	for cur := o; cur != nil; cur = cur.proto {
		d, ok := cur.slots[key]
		if !ok {
			continue
		}
		if d.Get != nil {
			return d.Get(), true
		}
		if d.Set != nil {
			return nil, true
		}
		return d.Value, true
	}
	return nil, false
}

// Put assigns key. Accessors receive the value through their setter, a
// getter without a setter ignores it, read-only slots ignore it, and a
// missing key becomes a new plain data slot when the object is extensible.
func (o *Object) Put(key string, value any) {
	for cur := o; cur != nil; cur = cur.proto {
		d, ok := cur.slots[key]
		if !ok {
			continue
		}
		if d.IsAccessor() {
			if d.Set != nil {
				d.Set(value)
			}
			return
		}
		if !d.Writable {
			return
		}
		if cur == o {
			d.Value = value
			return
		}
		break
	}
	o.DefineProperty(key, dataDescriptor(value))
}

// Delete removes an own configurable key. Missing keys count as deleted.
func (o *Object) Delete(key string) bool {
	d, ok := o.slots[key]
	if !ok {
		return true
	}
	if !d.Configurable {
		return false
	}
	delete(o.slots, key)
	for i, k := range o.keys {
		if k == key {
			o.keys = append(o.keys[:i], o.keys[i+1:]...)
			break
		}
	}
	return true
}

func (o *Object) MarshalJSON() ([]byte, error) {
	return marshalValue(o)
}
