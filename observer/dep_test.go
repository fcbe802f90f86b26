package observer_test

import (
	"testing"

	"github.com/delaneyj/reactivity/observer"
	"github.com/stretchr/testify/assert"
)

func TestDepEndToEnd(t *testing.T) {
	sys, _ := newSystem(t, observer.Config{})
	dep := sys.NewDep()
	s1 := newSpy(sys)

	sys.PushTarget(s1)
	dep.Depend()
	sys.PopTarget()

	dep.Notify()
	assert.Equal(t, 1, s1.updates)

	dep.RemoveSub(s1)
	dep.Notify()
	assert.Equal(t, 1, s1.updates)
}

func TestDepDependWithoutTarget(t *testing.T) {
	sys, _ := newSystem(t, observer.Config{})
	dep := sys.NewDep()
	dep.Depend()
	assert.Empty(t, dep.Subs())
}

func TestDepIDsAreMonotonic(t *testing.T) {
	sys, _ := newSystem(t, observer.Config{})
	a, b := sys.NewDep(), sys.NewDep()
	assert.Less(t, a.ID(), b.ID())
}

func TestDepRemoveSubRemovesFirstMatch(t *testing.T) {
	sys, _ := newSystem(t, observer.Config{})
	dep := sys.NewDep()
	s1, s2 := newSpy(sys), newSpy(sys)
	dep.AddSub(s1)
	dep.AddSub(s2)
	dep.AddSub(s1)

	dep.RemoveSub(s1)
	subs := dep.Subs()
	if assert.Len(t, subs, 2) {
		assert.Same(t, s2, subs[0])
		assert.Same(t, s1, subs[1])
	}
}

func TestDepNotifySortsByIDWhenSynchronous(t *testing.T) {
	sys, _ := newSystem(t, observer.Config{})
	dep := sys.NewDep()
	parent, child := newSpy(sys), newSpy(sys)

	var order []uint64
	parent.onUpdate = func() { order = append(order, parent.ID()) }
	child.onUpdate = func() { order = append(order, child.ID()) }

	dep.AddSub(child)
	dep.AddSub(parent)
	dep.Notify()
	assert.Equal(t, []uint64{parent.ID(), child.ID()}, order)
}

func TestDepNotifyKeepsRegistrationOrderWhenAsync(t *testing.T) {
	sys, _ := newSystem(t, observer.Config{Async: true})
	dep := sys.NewDep()
	parent, child := newSpy(sys), newSpy(sys)

	var order []uint64
	parent.onUpdate = func() { order = append(order, parent.ID()) }
	child.onUpdate = func() { order = append(order, child.ID()) }

	dep.AddSub(child)
	dep.AddSub(parent)
	dep.Notify()
	assert.Equal(t, []uint64{child.ID(), parent.ID()}, order)
}

func TestDepNotifySnapshotSurvivesRemoval(t *testing.T) {
	sys, _ := newSystem(t, observer.Config{})
	dep := sys.NewDep()
	first, second := newSpy(sys), newSpy(sys)
	first.onUpdate = func() { dep.RemoveSub(second) }

	dep.AddSub(first)
	dep.AddSub(second)
	dep.Notify()

	assert.Equal(t, 1, first.updates)
	assert.Equal(t, 1, second.updates)

	dep.Notify()
	assert.Equal(t, 2, first.updates)
	assert.Equal(t, 1, second.updates)
}

func TestDepNotifyIgnoresSubscribersAddedDuringPass(t *testing.T) {
	sys, _ := newSystem(t, observer.Config{})
	dep := sys.NewDep()
	first, late := newSpy(sys), newSpy(sys)
	first.onUpdate = func() { dep.AddSub(late) }

	dep.AddSub(first)
	dep.Notify()
	assert.Equal(t, 0, late.updates)

	first.onUpdate = nil
	dep.Notify()
	assert.Equal(t, 1, late.updates)
}

func TestStatsCountNotifications(t *testing.T) {
	sys, _ := newSystem(t, observer.Config{})
	dep := sys.NewDep()
	dep.AddSub(newSpy(sys))
	dep.AddSub(newSpy(sys))
	dep.Notify()

	stats := sys.Stats()
	assert.EqualValues(t, 1, stats.Deps)
	assert.EqualValues(t, 1, stats.Notifications)
	assert.EqualValues(t, 2, stats.Dispatches)
}
