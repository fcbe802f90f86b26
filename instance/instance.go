package instance

import (
	"github.com/delaneyj/reactivity/observer"
	"github.com/delaneyj/reactivity/scheduler"
	"github.com/delaneyj/reactivity/watcher"
)

type ComputedDef struct {
	Get func(i *Instance) any
	// Set is optional; assigning a computed without one is reported.
	Set func(i *Instance, value any)
}

type WatchDef struct {
	Handler   func(i *Instance, newValue, oldValue any) error
	Deep      bool
	Immediate bool
	Sync      bool
}

type InjectDef struct {
	// From is the provided key to look up, defaulting to the inject key.
	From string
	// Default produces the value when no ancestor provides From.
	Default func(i *Instance) any
}

type Hook func(i *Instance)

type Options struct {
	Name   string
	Parent *Instance

	Props    map[string]any
	Data     func(i *Instance) *observer.Object
	Computed map[string]ComputedDef
	Watch    map[string]WatchDef
	Provide  func(i *Instance) map[string]any
	Inject   map[string]InjectDef

	BeforeCreate  Hook
	Created       Hook
	BeforeDestroy Hook
	Destroyed     Hook

	// Scheduler batches watcher runs. Without one watchers run as soon as
	// their deps change.
	Scheduler *scheduler.Scheduler
}

// Instance is a root entity owning a property bag that proxies its props,
// data, computed values and injections. It can never be observed itself
// and refuses runtime reactive keys.
type Instance struct {
	sys  *observer.System
	uid  uint64
	opts Options

	parent   *Instance
	children []*Instance

	vm       *observer.Object
	props    *observer.Object
	data     *observer.Object
	provided map[string]any

	computed  map[string]*watcher.Computed
	watchers  []*watcher.Watcher
	destroyed bool
}

// New runs the init sequence: injections first, then props, data, computed
// and watchers, and provide last so it can read everything else.
func New(sys *observer.System, opts Options) *Instance {
	i := &Instance{
		sys:      sys,
		uid:      sys.NextID(),
		opts:     opts,
		parent:   opts.Parent,
		vm:       observer.NewObject().MarkRoot(),
		computed: map[string]*watcher.Computed{},
	}
	if i.parent != nil {
		i.parent.children = append(i.parent.children, i)
	}

	i.callHook(opts.BeforeCreate)
	i.initInjections()
	i.initProps()
	i.initData()
	i.initComputed()
	i.initWatch()
	i.initProvide()
	i.callHook(opts.Created)
	return i
}

func (i *Instance) IsRootEntity() bool {
	return true
}

func (i *Instance) UID() uint64 {
	return i.uid
}

func (i *Instance) Name() string {
	if i.opts.Name == "" {
		return "anonymous"
	}
	return i.opts.Name
}

func (i *Instance) System() *observer.System {
	return i.sys
}

func (i *Instance) Parent() *Instance {
	return i.parent
}

func (i *Instance) IsRoot() bool {
	return i.parent == nil
}

// Data is the instance's observed root data.
func (i *Instance) Data() *observer.Object {
	return i.data
}

func (i *Instance) Props() *observer.Object {
	return i.props
}

// Keys lists everything reachable through Get.
func (i *Instance) Keys() []string {
	return i.vm.Keys()
}

func (i *Instance) Has(key string) bool {
	return i.vm.Has(key)
}

// Get reads key through the property bag. Unknown keys read as nil and are
// reported, with a separate diagnostic for data keys hidden by their
// reserved prefix.
func (i *Instance) Get(key string) any {
	if v, ok := i.vm.Lookup(key); ok {
		return v
	}
	if i.data != nil && i.data.Has(key) {
		i.warn("property must be accessed through Data() because keys starting with \"$\" or \"_\" are not proxied", "key", key)
	} else {
		i.warn("property is not defined on the instance, declare it in data so it is reactive", "key", key)
	}
	return nil
}

// Set assigns a declared key. New keys are refused like on any root
// entity.
func (i *Instance) Set(key string, value any) {
	if !i.vm.Has(key) {
		i.sys.Set(i, key, value)
		return
	}
	i.vm.Put(key, value)
}

// Destroy tears down all watchers and releases the root data. It is safe
// to call more than once.
func (i *Instance) Destroy() {
	if i.destroyed {
		return
	}
	i.callHook(i.opts.BeforeDestroy)
	if p := i.parent; p != nil && !p.destroyed {
		for idx, c := range p.children {
			if c == i {
				p.children = append(p.children[:idx], p.children[idx+1:]...)
				break
			}
		}
	}
	for _, c := range i.computed {
		c.Teardown()
	}
	for _, w := range i.watchers {
		w.Teardown()
	}
	if i.data != nil {
		if ob := i.data.Observer(); ob != nil {
			ob.ReleaseRoot()
		}
	}
	i.destroyed = true
	i.callHook(i.opts.Destroyed)
}

func (i *Instance) Destroyed() bool {
	return i.destroyed
}

func (i *Instance) Children() []*Instance {
	children := make([]*Instance, len(i.children))
	copy(children, i.children)
	return children
}

func (i *Instance) callHook(h Hook) {
	if h == nil {
		return
	}
	i.sys.Untracked(func() {
		h(i)
	})
}

func (i *Instance) warn(msg string, args ...any) {
	i.sys.Warn(msg, append(args, "instance", i.Name())...)
}
