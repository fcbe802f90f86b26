package observer_test

import (
	"testing"

	"github.com/delaneyj/reactivity/observer"
)

type spy struct {
	sys      *observer.System
	id       uint64
	depIDs   map[uint64]struct{}
	updates  int
	onUpdate func()
}

func newSpy(sys *observer.System) *spy {
	return &spy{
		sys:    sys,
		id:     sys.NextID(),
		depIDs: map[uint64]struct{}{},
	}
}

func (s *spy) ID() uint64 {
	return s.id
}

func (s *spy) AddDep(dep *observer.Dep) {
	if _, ok := s.depIDs[dep.ID()]; ok {
		return
	}
	s.depIDs[dep.ID()] = struct{}{}
	dep.AddSub(s)
}

func (s *spy) Update() {
	s.updates++
	if s.onUpdate != nil {
		s.onUpdate()
	}
}

func (s *spy) track(fn func()) {
	s.sys.PushTarget(s)
	defer s.sys.PopTarget()
	fn()
}

type warnings []string

func newSystem(t *testing.T, cfg observer.Config) (*observer.System, *warnings) {
	t.Helper()
	w := &warnings{}
	cfg.WarnHandler = func(msg string, args ...any) {
		*w = append(*w, msg)
	}
	return observer.NewSystem(cfg), w
}
