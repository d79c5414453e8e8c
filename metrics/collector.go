// Package metrics exposes pool accounting as Prometheus metrics.
//
// The collector pulls a stats snapshot on every scrape, so it carries no
// state of its own and needs no wiring beyond registration:
//
//	reg := prometheus.NewRegistry()
//	if err := metrics.Register(reg, "robowflex", pool); err != nil {
//	    // ...
//	}
package metrics

import (
	"fmt"

	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/SaroM0/robowflex"
)

// StatsSource provides pool accounting snapshots. *robowflex.Pool
// implements it.
type StatsSource interface {
	Stats() robowflex.Stats
}

// Collector adapts a StatsSource to prometheus.Collector.
type Collector struct {
	source StatsSource

	submitted *prom.Desc
	completed *prom.Desc
	failed    *prom.Desc
	canceled  *prom.Desc
	queued    *prom.Desc
	running   *prom.Desc
	workers   *prom.Desc
}

var _ prom.Collector = (*Collector)(nil)

// NewCollector creates a collector for the given source. namespace
// prefixes every metric name; empty defaults to "robowflex".
func NewCollector(namespace string, source StatsSource) (*Collector, error) {
	if source == nil {
		return nil, fmt.Errorf("metrics: nil stats source")
	}
	if namespace == "" {
		namespace = "robowflex"
	}
	name := func(s string) string { return prom.BuildFQName(namespace, "pool", s) }
	return &Collector{
		source:    source,
		submitted: prom.NewDesc(name("jobs_submitted_total"), "Jobs accepted by Submit.", nil, nil),
		completed: prom.NewDesc(name("jobs_completed_total"), "Jobs whose solver returned a result.", nil, nil),
		failed:    prom.NewDesc(name("jobs_failed_total"), "Jobs whose solver faulted.", nil, nil),
		canceled:  prom.NewDesc(name("jobs_canceled_total"), "Jobs canceled before starting.", nil, nil),
		queued:    prom.NewDesc(name("queue_depth"), "Current queue depth.", nil, nil),
		running:   prom.NewDesc(name("running_jobs"), "Workers executing right now.", nil, nil),
		workers:   prom.NewDesc(name("workers"), "Configured pool size.", nil, nil),
	}, nil
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prom.Desc) {
	ch <- c.submitted
	ch <- c.completed
	ch <- c.failed
	ch <- c.canceled
	ch <- c.queued
	ch <- c.running
	ch <- c.workers
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prom.Metric) {
	s := c.source.Stats()
	ch <- prom.MustNewConstMetric(c.submitted, prom.CounterValue, float64(s.Submitted))
	ch <- prom.MustNewConstMetric(c.completed, prom.CounterValue, float64(s.Completed))
	ch <- prom.MustNewConstMetric(c.failed, prom.CounterValue, float64(s.Failed))
	ch <- prom.MustNewConstMetric(c.canceled, prom.CounterValue, float64(s.Canceled))
	ch <- prom.MustNewConstMetric(c.queued, prom.GaugeValue, float64(s.Queued))
	ch <- prom.MustNewConstMetric(c.running, prom.GaugeValue, float64(s.Running))
	ch <- prom.MustNewConstMetric(c.workers, prom.GaugeValue, float64(s.Workers))
}

// Register creates a collector and registers it on reg.
func Register(reg prom.Registerer, namespace string, source StatsSource) (*Collector, error) {
	c, err := NewCollector(namespace, source)
	if err != nil {
		return nil, err
	}
	if reg == nil {
		reg = prom.DefaultRegisterer
	}
	if err := reg.Register(c); err != nil {
		return nil, fmt.Errorf("metrics: register: %w", err)
	}
	return c, nil
}
