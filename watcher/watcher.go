package watcher

import (
	"fmt"

	"github.com/delaneyj/reactivity/observer"
	"github.com/delaneyj/reactivity/scheduler"
	mapset "github.com/deckarep/golang-set/v2"
)

type Getter func() (any, error)

type Callback func(newValue, oldValue any) error

type Options struct {
	// Deep also subscribes to everything reachable from the value.
	Deep bool
	// User marks watchers created by application code; their errors name
	// the expression.
	User bool
	// Lazy watchers only mark themselves dirty on update and evaluate on
	// demand.
	Lazy bool
	// Sync watchers run inside the notification instead of being queued.
	Sync bool
	// Before runs ahead of each scheduled Run.
	Before func()
	// Scheduler receives non-sync, non-lazy updates. Without one the
	// watcher runs immediately.
	Scheduler *scheduler.Scheduler
	// Expression names the watcher in diagnostics.
	Expression string
}

// Watcher evaluates a getter while collecting the deps it reads and calls
// its callback when a re-run yields a new value.
type Watcher struct {
	sys    *observer.System
	id     uint64
	getter Getter
	cb     Callback
	opts   Options

	active bool
	dirty  bool
	value  any

	deps      []*observer.Dep
	newDeps   []*observer.Dep
	depIDs    mapset.Set[uint64]
	newDepIDs mapset.Set[uint64]
}

func New(sys *observer.System, getter Getter, cb Callback, opts Options) *Watcher {
	w := &Watcher{
		sys:       sys,
		id:        sys.NextID(),
		getter:    getter,
		cb:        cb,
		opts:      opts,
		active:    true,
		dirty:     opts.Lazy,
		depIDs:    mapset.NewThreadUnsafeSet[uint64](),
		newDepIDs: mapset.NewThreadUnsafeSet[uint64](),
	}
	if !opts.Lazy {
		w.value = w.Get()
	}
	return w
}

func (w *Watcher) ID() uint64 {
	return w.id
}

func (w *Watcher) Value() any {
	return w.value
}

func (w *Watcher) Dirty() bool {
	return w.dirty
}

func (w *Watcher) Active() bool {
	return w.active
}

func (w *Watcher) Expression() string {
	return w.opts.Expression
}

// Get evaluates the getter with w as the active subscriber and swaps in the
// freshly collected deps.
func (w *Watcher) Get() (value any) {
	w.sys.PushTarget(w)
	defer func() {
		if w.opts.Deep {
			Traverse(value)
		}
		w.sys.PopTarget()
		w.cleanupDeps()
	}()

	value, err := w.getter()
	if err != nil {
		if w.opts.User {
			err = fmt.Errorf("getter for watcher %q: %w", w.opts.Expression, err)
		}
		w.sys.HandleError(w, err)
	}
	return value
}

// AddDep records dep for the current pass, subscribing only once overall.
func (w *Watcher) AddDep(dep *observer.Dep) {
	id := dep.ID()
	if !w.newDepIDs.Add(id) {
		return
	}
	w.newDeps = append(w.newDeps, dep)
	if !w.depIDs.Contains(id) {
		dep.AddSub(w)
	}
}

func (w *Watcher) cleanupDeps() {
	for _, dep := range w.deps {
		if !w.newDepIDs.Contains(dep.ID()) {
			dep.RemoveSub(w)
		}
	}
	w.depIDs, w.newDepIDs = w.newDepIDs, w.depIDs
	w.newDepIDs.Clear()

	prev := w.deps
	w.deps = w.newDeps
	clear(prev)
	w.newDeps = prev[:0]
}

// Deps returns the deps collected by the last evaluation.
func (w *Watcher) Deps() []*observer.Dep {
	deps := make([]*observer.Dep, len(w.deps))
	copy(deps, w.deps)
	return deps
}

func (w *Watcher) Update() {
	switch {
	case w.opts.Lazy:
		w.dirty = true
	case w.opts.Sync:
		w.Run()
	case w.opts.Scheduler != nil:
		w.opts.Scheduler.Queue(w)
	default:
		w.Run()
	}
}

func (w *Watcher) Before() {
	if w.opts.Before != nil {
		w.opts.Before()
	}
}

// Run re-evaluates and fires the callback when the value changed, is a
// reference value that may have been mutated in place, or the watcher is
// deep.
func (w *Watcher) Run() {
	if !w.active {
		return
	}
	value := w.Get()
	if observer.StrictEqual(value, w.value) && !observer.IsObject(value) && !w.opts.Deep {
		return
	}
	oldValue := w.value
	w.value = value
	if w.cb == nil {
		return
	}
	if err := w.cb(value, oldValue); err != nil {
		if w.opts.User {
			err = fmt.Errorf("callback for watcher %q: %w", w.opts.Expression, err)
		}
		w.sys.HandleError(w, err)
	}
}

// Evaluate refreshes a lazy watcher's value.
func (w *Watcher) Evaluate() {
	w.value = w.Get()
	w.dirty = false
}

// Depend makes the active subscriber depend on everything w depends on.
func (w *Watcher) Depend() {
	for _, dep := range w.deps {
		dep.Depend()
	}
}

// Teardown unsubscribes w from all its deps. It is safe to call twice.
func (w *Watcher) Teardown() {
	if !w.active {
		return
	}
	for _, dep := range w.deps {
		dep.RemoveSub(w)
	}
	w.active = false
}
