package observer_test

import (
	"testing"

	"github.com/delaneyj/reactivity/observer"
	"github.com/stretchr/testify/assert"
)

func TestNestedEvaluationRestoresOuterTarget(t *testing.T) {
	sys, _ := newSystem(t, observer.Config{})
	state := observer.NewObject().With("a", 1).With("b", 2).With("c", 3)
	sys.Observe(state, false)

	outer, inner := newSpy(sys), newSpy(sys)
	outer.track(func() {
		state.Get("a")
		inner.track(func() {
			assert.Same(t, inner, sys.Target())
			state.Get("b")
		})
		assert.Same(t, outer, sys.Target())
		state.Get("c")
	})
	assert.Nil(t, sys.Target())

	state.Put("c", 30)
	assert.Equal(t, 1, outer.updates)
	assert.Equal(t, 0, inner.updates)

	state.Put("b", 20)
	assert.Equal(t, 1, outer.updates)
	assert.Equal(t, 1, inner.updates)
}

func TestPushNilSuspendsTracking(t *testing.T) {
	sys, _ := newSystem(t, observer.Config{})
	state := observer.NewObject().With("a", 1)
	sys.Observe(state, false)

	s := newSpy(sys)
	s.track(func() {
		sys.Untracked(func() {
			state.Get("a")
		})
	})

	state.Put("a", 2)
	assert.Equal(t, 0, s.updates)
}

func TestPopTargetOnEmptyStack(t *testing.T) {
	sys, _ := newSystem(t, observer.Config{})
	assert.NotPanics(t, sys.PopTarget)
	assert.Nil(t, sys.Target())
}
