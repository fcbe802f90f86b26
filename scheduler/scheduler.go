package scheduler

import (
	"cmp"
	"slices"

	"github.com/delaneyj/reactivity/observer"
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/eapache/queue"
)

// MaxUpdateCount bounds how often one job may re-queue itself within a
// single flush before it is reported as an infinite update loop.
const MaxUpdateCount = 100

type Job interface {
	ID() uint64
	Run()
}

// BeforeRunner jobs get Before called right before Run during a flush.
type BeforeRunner interface {
	Before()
}

// Scheduler batches job runs and flushes them in ascending id order, so a
// parent created before its children always runs first.
type Scheduler struct {
	sys *observer.System

	jobs     []Job
	has      mapset.Set[uint64]
	circular map[uint64]int
	index    int
	waiting  bool
	flushing bool

	ticks *queue.Queue
}

func New(sys *observer.System) *Scheduler {
	return &Scheduler{
		sys:      sys,
		has:      mapset.NewThreadUnsafeSet[uint64](),
		circular: map[uint64]int{},
		ticks:    queue.New(),
	}
}

// Queue adds j unless it is already pending. Jobs queued during a flush are
// spliced in by id so they still run in this flush. When the system is not
// async there is nobody to call Flush later, so it flushes right away.
func (s *Scheduler) Queue(j Job) {
	id := j.ID()
	if !s.has.Add(id) {
		return
	}
	if !s.flushing {
		s.jobs = append(s.jobs, j)
	} else {
		i := len(s.jobs) - 1
		for i > s.index && s.jobs[i].ID() > id {
			i--
		}
		s.jobs = slices.Insert(s.jobs, i+1, j)
	}

	if s.waiting {
		return
	}
	s.waiting = true
	if !s.sys.Async() {
		s.Flush()
	}
}

func (s *Scheduler) Pending() int {
	return len(s.jobs) - s.index
}

// NextTick runs fn after the next flush completes.
func (s *Scheduler) NextTick(fn func()) {
	s.ticks.Add(fn)
	if !s.sys.Async() && !s.flushing {
		s.drainTicks()
	}
}

func (s *Scheduler) Flush() {
	if s.flushing {
		return
	}
	s.flushing = true

	slices.SortStableFunc(s.jobs, func(a, b Job) int {
		return cmp.Compare(a.ID(), b.ID())
	})

	for s.index = 0; s.index < len(s.jobs); s.index++ {
		j := s.jobs[s.index]
		if b, ok := j.(BeforeRunner); ok {
			b.Before()
		}
		id := j.ID()
		s.has.Remove(id)
		j.Run()

		if s.has.Contains(id) {
			s.circular[id]++
			if s.circular[id] > MaxUpdateCount {
				s.sys.Warn("you may have an infinite update loop", "job", id)
				break
			}
		}
	}

	s.reset()
	s.drainTicks()
}

func (s *Scheduler) reset() {
	clear(s.jobs)
	s.jobs = s.jobs[:0]
	s.index = 0
	s.has.Clear()
	clear(s.circular)
	s.waiting = false
	s.flushing = false
}

func (s *Scheduler) drainTicks() {
	for s.ticks.Length() > 0 {
		fn := s.ticks.Remove().(func())
		fn()
	}
}
