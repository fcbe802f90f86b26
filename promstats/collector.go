package promstats

import (
	"github.com/delaneyj/reactivity/observer"
	"github.com/prometheus/client_golang/prometheus"
)

type Option func(*options)

type options struct {
	namespace   string
	subsystem   string
	constLabels prometheus.Labels
}

// WithNamespace sets the metric namespace. Default: "reactivity".
func WithNamespace(ns string) Option {
	return func(o *options) {
		o.namespace = ns
	}
}

func WithSubsystem(sub string) Option {
	return func(o *options) {
		o.subsystem = sub
	}
}

func WithConstLabels(labels prometheus.Labels) Option {
	return func(o *options) {
		o.constLabels = labels
	}
}

// Collector exposes a System's counters. Values are read at scrape time,
// so registering it costs nothing on the hot path.
type Collector struct {
	sys *observer.System

	deps          *prometheus.Desc
	observers     *prometheus.Desc
	notifications *prometheus.Desc
	dispatches    *prometheus.Desc
	warnings      *prometheus.Desc
	errors        *prometheus.Desc
}

var _ prometheus.Collector = (*Collector)(nil)

func NewCollector(sys *observer.System, opts ...Option) *Collector {
	o := options{namespace: "reactivity"}
	for _, opt := range opts {
		opt(&o)
	}
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(
			prometheus.BuildFQName(o.namespace, o.subsystem, name),
			help, nil, o.constLabels,
		)
	}
	return &Collector{
		sys:           sys,
		deps:          desc("deps_created_total", "Dependency nodes created."),
		observers:     desc("observers_created_total", "Values converted into observed structures."),
		notifications: desc("notifications_total", "Dependency notifications fired."),
		dispatches:    desc("updates_dispatched_total", "Subscriber updates dispatched by notifications."),
		warnings:      desc("warnings_total", "Developer diagnostics raised, including silenced ones."),
		errors:        desc("errors_total", "Errors raised by subscriber computations."),
	}
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.deps
	ch <- c.observers
	ch <- c.notifications
	ch <- c.dispatches
	ch <- c.warnings
	ch <- c.errors
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	s := c.sys.Stats()
	for _, m := range []struct {
		desc  *prometheus.Desc
		value uint64
	}{
		{c.deps, s.Deps},
		{c.observers, s.Observers},
		{c.notifications, s.Notifications},
		{c.dispatches, s.Dispatches},
		{c.warnings, s.Warnings},
		{c.errors, s.Errors},
	} {
		ch <- prometheus.MustNewConstMetric(m.desc, prometheus.CounterValue, float64(m.value))
	}
}

// Register adds a collector for sys to reg, or to the default registerer
// when reg is nil.
func Register(sys *observer.System, reg prometheus.Registerer, opts ...Option) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	c := NewCollector(sys, opts...)
	if err := reg.Register(c); err != nil {
		return nil, err
	}
	return c, nil
}
