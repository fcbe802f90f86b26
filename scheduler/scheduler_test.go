package scheduler_test

import (
	"testing"

	"github.com/delaneyj/reactivity/observer"
	"github.com/delaneyj/reactivity/scheduler"
	"github.com/stretchr/testify/assert"
)

type job struct {
	id     uint64
	runs   int
	before int
	run    func()
}

func (j *job) ID() uint64 {
	return j.id
}

func (j *job) Before() {
	j.before++
}

func (j *job) Run() {
	j.runs++
	if j.run != nil {
		j.run()
	}
}

func TestQueueDedupesAndSorts(t *testing.T) {
	sys := observer.NewSystem(observer.Config{Async: true})
	s := scheduler.New(sys)

	var order []uint64
	jobs := map[uint64]*job{}
	for _, id := range []uint64{3, 1, 2} {
		jobs[id] = &job{id: id, run: func() { order = append(order, id) }}
	}
	s.Queue(jobs[3])
	s.Queue(jobs[1])
	s.Queue(jobs[3])
	s.Queue(jobs[2])
	assert.Equal(t, 3, s.Pending())

	s.Flush()
	assert.Equal(t, []uint64{1, 2, 3}, order)
	for _, j := range jobs {
		assert.Equal(t, 1, j.runs)
		assert.Equal(t, 1, j.before)
	}
	assert.Zero(t, s.Pending())
}

func TestQueueDuringFlushInsertsByID(t *testing.T) {
	sys := observer.NewSystem(observer.Config{Async: true})
	s := scheduler.New(sys)

	var order []uint64
	late := &job{id: 2, run: func() { order = append(order, 2) }}
	last := &job{id: 5, run: func() { order = append(order, 5) }}
	first := &job{id: 1, run: func() {
		order = append(order, 1)
		s.Queue(late)
	}}
	s.Queue(last)
	s.Queue(first)
	s.Flush()
	assert.Equal(t, []uint64{1, 2, 5}, order)
}

func TestSyncSystemFlushesImmediately(t *testing.T) {
	sys := observer.NewSystem(observer.Config{})
	s := scheduler.New(sys)
	j := &job{id: 1}
	s.Queue(j)
	assert.Equal(t, 1, j.runs)
	assert.Zero(t, s.Pending())
}

func TestCircularUpdateIsCut(t *testing.T) {
	var warns []string
	sys := observer.NewSystem(observer.Config{
		Async: true,
		WarnHandler: func(msg string, args ...any) {
			warns = append(warns, msg)
		},
	})
	s := scheduler.New(sys)

	var j *job
	j = &job{id: 1, run: func() { s.Queue(j) }}
	s.Queue(j)
	s.Flush()

	assert.Len(t, warns, 1)
	assert.Equal(t, scheduler.MaxUpdateCount+1, j.runs)
	assert.Zero(t, s.Pending())

	s.Queue(&job{id: 2})
	assert.Equal(t, 1, s.Pending(), "state is reset after an aborted flush")
}

func TestNextTickRunsAfterFlush(t *testing.T) {
	sys := observer.NewSystem(observer.Config{Async: true})
	s := scheduler.New(sys)

	var events []string
	s.Queue(&job{id: 1, run: func() { events = append(events, "job") }})
	s.NextTick(func() { events = append(events, "tick") })
	assert.Empty(t, events)

	s.Flush()
	assert.Equal(t, []string{"job", "tick"}, events)

	sync := scheduler.New(observer.NewSystem(observer.Config{}))
	ran := false
	sync.NextTick(func() { ran = true })
	assert.True(t, ran)
}
