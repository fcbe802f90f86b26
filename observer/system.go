package observer

import (
	"log/slog"
	"sync/atomic"
)

type OnErrorFunc func(from Subscriber, err error)

type WarnFunc func(msg string, args ...any)

// Config controls how a System dispatches notifications and reports
// diagnostics.
type Config struct {
	// Async means an external scheduler orders subscriber updates, so
	// Dep.Notify dispatches in registration order instead of sorting by ID.
	Async bool
	// Production silences developer diagnostics and custom setters.
	Production bool
	// NoProtoAugment installs array interception per instance instead of
	// swapping the shared method table.
	NoProtoAugment bool

	Logger      *slog.Logger
	WarnHandler WarnFunc
	OnError     OnErrorFunc
}

type counters struct {
	deps          atomic.Uint64
	observers     atomic.Uint64
	notifications atomic.Uint64
	dispatches    atomic.Uint64
	warnings      atomic.Uint64
	errors        atomic.Uint64
}

type Stats struct {
	Deps          uint64
	Observers     uint64
	Notifications uint64
	Dispatches    uint64
	Warnings      uint64
	Errors        uint64
}

// System is one evaluation context: it owns the active subscriber stack,
// the observation switch and the id counters. It is not safe for
// concurrent use; all reads and writes of observed state belong to a
// single goroutine.
type System struct {
	cfg    Config
	logger *slog.Logger

	lastID        uint64
	target        Subscriber
	targetStack   []Subscriber
	shouldObserve bool

	stats counters
}

func NewSystem(cfg Config) *System {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &System{
		cfg:           cfg,
		logger:        logger.With("component", "observer"),
		shouldObserve: true,
	}
}

// Default is the process-wide system used by the package level helpers.
var Default = NewSystem(Config{})

// NextID hands out monotonic ids shared by deps and subscribers, so
// anything created earlier always sorts first.
func (s *System) NextID() uint64 {
	s.lastID++
	return s.lastID
}

func (s *System) Async() bool {
	return s.cfg.Async
}

func (s *System) SetAsync(async bool) {
	s.cfg.Async = async
}

func (s *System) Production() bool {
	return s.cfg.Production
}

// Stats snapshots the counters. It may be called from any goroutine.
func (s *System) Stats() Stats {
	return Stats{
		Deps:          s.stats.deps.Load(),
		Observers:     s.stats.observers.Load(),
		Notifications: s.stats.notifications.Load(),
		Dispatches:    s.stats.dispatches.Load(),
		Warnings:      s.stats.warnings.Load(),
		Errors:        s.stats.errors.Load(),
	}
}

// ToggleObserving enables or disables creation of new observers. Values
// that are already observed stay observed.
func (s *System) ToggleObserving(value bool) {
	s.shouldObserve = value
}

func (s *System) ShouldObserve() bool {
	return s.shouldObserve
}

// Warn reports a developer diagnostic. It never interrupts the caller.
func (s *System) Warn(msg string, args ...any) {
	s.stats.warnings.Add(1)
	if s.cfg.Production {
		return
	}
	if s.cfg.WarnHandler != nil {
		s.cfg.WarnHandler(msg, args...)
		return
	}
	s.logger.Warn(msg, args...)
}

// HandleError routes an error raised by a subscriber's computation.
func (s *System) HandleError(from Subscriber, err error) {
	if err == nil {
		return
	}
	s.stats.errors.Add(1)
	if s.cfg.OnError != nil {
		s.cfg.OnError(from, err)
		return
	}
	args := []any{"err", err}
	if from != nil {
		args = append(args, "subscriber", from.ID())
	}
	s.logger.Error("subscriber failed", args...)
}
