package watcher

import "github.com/delaneyj/reactivity/observer"

// Computed is a cached derivation backed by a lazy watcher. It only
// re-evaluates after one of its deps changed and someone reads it.
type Computed struct {
	w *Watcher
}

func NewComputed(sys *observer.System, fn func() any) *Computed {
	return NewComputedWithError(sys, func() (any, error) {
		return fn(), nil
	}, "")
}

// NewComputedWithError is NewComputed for getters that can fail. Errors go
// to the system's error handler and leave the value nil.
func NewComputedWithError(sys *observer.System, fn Getter, expression string) *Computed {
	return &Computed{
		w: New(sys, fn, nil, Options{Lazy: true, Expression: expression}),
	}
}

// Value returns the cached value, refreshing it when dirty. Inside another
// evaluation the reader also picks up the computed's own deps.
func (c *Computed) Value() any {
	if c.w.Dirty() {
		c.w.Evaluate()
	}
	if c.w.sys.Target() != nil {
		c.w.Depend()
	}
	return c.w.Value()
}

func (c *Computed) Watcher() *Watcher {
	return c.w
}

func (c *Computed) Dirty() bool {
	return c.w.Dirty()
}

func (c *Computed) Teardown() {
	c.w.Teardown()
}
