package watcher_test

import (
	"testing"

	"github.com/delaneyj/reactivity/observer"
	"github.com/delaneyj/reactivity/watcher"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputedIsLazyAndCached(t *testing.T) {
	sys := observer.NewSystem(observer.Config{})
	o := observer.NewObject().With("a", 1)
	sys.Observe(o, false)

	calls := 0
	double := watcher.NewComputed(sys, func() any {
		calls++
		return o.Get("a").(int) * 2
	})
	assert.Zero(t, calls)
	assert.True(t, double.Dirty())

	assert.Equal(t, 2, double.Value())
	assert.Equal(t, 2, double.Value())
	assert.Equal(t, 1, calls)

	o.Put("a", 3)
	assert.True(t, double.Dirty())
	assert.Equal(t, 1, calls)
	assert.Equal(t, 6, double.Value())
	assert.Equal(t, 2, calls)
}

func TestComputedPropagatesToReader(t *testing.T) {
	sys := observer.NewSystem(observer.Config{})
	o := observer.NewObject().With("a", 1)
	sys.Observe(o, false)

	double := watcher.NewComputed(sys, func() any {
		return o.Get("a").(int) * 2
	})
	quad := watcher.NewComputed(sys, func() any {
		return double.Value().(int) * 2
	})

	var changes []change
	w := watcher.New(sys, func() (any, error) {
		return quad.Value(), nil
	}, record(&changes), watcher.Options{})
	assert.Equal(t, 4, w.Value())

	o.Put("a", 2)
	require.Len(t, changes, 1)
	assert.Equal(t, change{8, 4}, changes[0])
}

func TestComputedTeardown(t *testing.T) {
	sys := observer.NewSystem(observer.Config{})
	o := observer.NewObject().With("a", 1)
	sys.Observe(o, false)

	c := watcher.NewComputed(sys, func() any {
		return o.Get("a")
	})
	assert.Equal(t, 1, c.Value())
	c.Teardown()
	assert.False(t, c.Watcher().Active())

	o.Put("a", 2)
	assert.False(t, c.Dirty())
	assert.Equal(t, 1, c.Value())
}
