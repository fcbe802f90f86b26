package observer

// RootEntity is implemented by host instances that must never be observed
// and never receive reactive properties at runtime.
type RootEntity interface {
	IsRootEntity() bool
}

// TreeNode is implemented by render-tree nodes of the host. Values that
// report true are never observed.
type TreeNode interface {
	IsTreeNode() bool
}

// Observer is attached to each observed Object or Array. It converts object
// keys into reactive properties, intercepts array mutation and owns the
// structural Dep fired on key addition/removal and array mutation.
type Observer struct {
	sys       *System
	value     any
	dep       *Dep
	rootCount int
}

func (ob *Observer) Value() any {
	return ob.value
}

// Dep is the structural dependency of the observed value.
func (ob *Observer) Dep() *Dep {
	return ob.dep
}

func (ob *Observer) System() *System {
	return ob.sys
}

// RootCount is how many root entities use the value as their root data.
func (ob *Observer) RootCount() int {
	return ob.rootCount
}

func (ob *Observer) ReleaseRoot() {
	if ob.rootCount > 0 {
		ob.rootCount--
	}
}

// Walk converts every own enumerable key into a reactive property.
func (ob *Observer) Walk(obj *Object) {
	for _, key := range obj.Keys() {
		ob.sys.DefineReactive(obj, key)
	}
}

func (ob *Observer) ObserveArray(items []any) {
	for _, item := range items {
		ob.sys.Observe(item, false)
	}
}

func (s *System) newObserver(value any) *Observer {
	s.stats.observers.Add(1)
	ob := &Observer{
		sys:   s,
		value: value,
		dep:   s.NewDep(),
	}
	// the marker goes on before recursing so cyclic graphs stop here
	switch v := value.(type) {
	case *Array:
		v.ob = ob
		s.augment(v)
		ob.ObserveArray(v.items)
	case *Object:
		v.ob = ob
		ob.Walk(v)
	}
	return ob
}

func (s *System) augment(a *Array) {
	if s.cfg.NoProtoAugment {
		methods := *interceptedMethods
		a.own = &methods
		return
	}
	a.proto = interceptedMethods
}

// Observe returns the observer of value, creating it when value is an
// extensible Object or Array, observation is enabled and value is neither a
// root entity nor a tree node. Anything else yields nil. asRootData counts value as the root data
// of one more root entity.
func (s *System) Observe(value any, asRootData bool) *Observer {
	if n, ok := value.(TreeNode); ok && n.IsTreeNode() {
		return nil
	}
	var ob *Observer
	switch v := value.(type) {
	case *Object:
		if v == nil {
			return nil
		}
		if v.ob != nil {
			ob = v.ob
		} else if s.shouldObserve && v.IsExtensible() && !v.root {
			ob = s.newObserver(v)
		}
	case *Array:
		if v == nil {
			return nil
		}
		if v.ob != nil {
			ob = v.ob
		} else if s.shouldObserve && v.IsExtensible() {
			ob = s.newObserver(v)
		}
	default:
		return nil
	}
	if asRootData && ob != nil {
		ob.rootCount++
	}
	return ob
}
