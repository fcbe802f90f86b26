package observer

import (
	"cmp"
	"slices"
)

// Subscriber is anything that can be recorded as reading reactive state and
// re-invoked when that state changes.
type Subscriber interface {
	ID() uint64
	AddDep(dep *Dep)
	Update()
}

// Dep is a broadcast point with any number of subscribers.
type Dep struct {
	sys  *System
	id   uint64
	subs []Subscriber
}

func (s *System) NewDep() *Dep {
	s.stats.deps.Add(1)
	return &Dep{
		sys: s,
		id:  s.NextID(),
	}
}

func (d *Dep) ID() uint64 {
	return d.id
}

// AddSub appends without de-duplication; subscribers track their own
// dependency sets by id.
func (d *Dep) AddSub(sub Subscriber) {
	d.subs = append(d.subs, sub)
}

func (d *Dep) RemoveSub(sub Subscriber) {
	for i, s := range d.subs {
		if s == sub {
			d.subs = append(d.subs[:i], d.subs[i+1:]...)
			return
		}
	}
}

// Subs returns a copy of the current subscriber list.
func (d *Dep) Subs() []Subscriber {
	subs := make([]Subscriber, len(d.subs))
	copy(subs, d.subs)
	return subs
}

// Depend asks the active subscriber, if any, to register this dep.
func (d *Dep) Depend() {
	if d.sys.target != nil {
		d.sys.target.AddDep(d)
	}
}

// Notify calls Update on every subscriber present when the call started.
// Subscribers added or removed while dispatching do not change the pass.
func (d *Dep) Notify() {
	subs := d.Subs()
	if !d.sys.cfg.Async {
		// without a scheduler nobody else orders the updates
		slices.SortStableFunc(subs, func(a, b Subscriber) int {
			return cmp.Compare(a.ID(), b.ID())
		})
	}
	d.sys.stats.notifications.Add(1)
	for _, sub := range subs {
		d.sys.stats.dispatches.Add(1)
		sub.Update()
	}
}
