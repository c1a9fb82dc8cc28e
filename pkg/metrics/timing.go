// Package metrics provides timing instrumentation for ccv.
//
// It records how long the slow paths take: backend requests, graph layout,
// offscreen snapshots and report export. Metrics are collected in-memory with
// atomic operations. Collection is enabled by default but can be disabled via
// CCV_METRICS=0.
//
// Usage:
//
//	func render() {
//	    defer metrics.Timer(metrics.Snapshot)()
//	    // ...
//	}
package metrics

import (
	"fmt"
	"os"
	"strings"
	"sync/atomic"
	"time"
)

// enabled controls whether metrics are collected.
// Defaults to true unless CCV_METRICS=0 is set.
var enabled = os.Getenv("CCV_METRICS") != "0"

// Enabled returns whether metrics collection is enabled.
func Enabled() bool {
	return enabled
}

// SetEnabled allows programmatic control of metrics collection.
func SetEnabled(e bool) {
	enabled = e
}

// TimingMetric accumulates durations for one named operation. It is safe for
// concurrent use.
type TimingMetric struct {
	name  string
	count atomic.Int64
	total atomic.Int64 // ns
	max   atomic.Int64 // ns
	min   atomic.Int64 // ns, 0 until the first sample
}

func newTimingMetric(name string) *TimingMetric {
	return &TimingMetric{name: name}
}

// Record adds one sample. It is a no-op while collection is disabled.
func (m *TimingMetric) Record(d time.Duration) {
	if !enabled {
		return
	}
	ns := int64(d)
	m.count.Add(1)
	m.total.Add(ns)
	for old := m.max.Load(); ns > old && !m.max.CompareAndSwap(old, ns); old = m.max.Load() {
	}
	for old := m.min.Load(); (old == 0 || ns < old) && !m.min.CompareAndSwap(old, ns); old = m.min.Load() {
	}
}

// Name returns the metric name.
func (m *TimingMetric) Name() string { return m.name }

// Count returns the number of samples.
func (m *TimingMetric) Count() int64 { return m.count.Load() }

// Stats returns a snapshot of the metric.
func (m *TimingMetric) Stats() TimingStats {
	s := TimingStats{
		Name:  m.name,
		Count: m.count.Load(),
		Total: time.Duration(m.total.Load()),
		Max:   time.Duration(m.max.Load()),
		Min:   time.Duration(m.min.Load()),
	}
	if s.Count > 0 {
		s.Avg = s.Total / time.Duration(s.Count)
	}
	return s
}

// Reset clears all samples.
func (m *TimingMetric) Reset() {
	m.count.Store(0)
	m.total.Store(0)
	m.max.Store(0)
	m.min.Store(0)
}

// TimingStats is a point-in-time view of a TimingMetric.
type TimingStats struct {
	Name  string
	Count int64
	Total time.Duration
	Avg   time.Duration
	Max   time.Duration
	Min   time.Duration
}

func ms(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

// Timer starts timing m and returns the function that stops it:
//
//	defer metrics.Timer(metrics.Request)()
func Timer(m *TimingMetric) func() {
	if !enabled || m == nil {
		return func() {}
	}
	start := time.Now()
	return func() { m.Record(time.Since(start)) }
}

// Metrics for the slow paths.
var (
	Request  = newTimingMetric("request")
	Layout   = newTimingMetric("layout")
	Snapshot = newTimingMetric("snapshot")
	Export   = newTimingMetric("export")
	UIRender = newTimingMetric("ui_render")
)

var all = []*TimingMetric{Request, Layout, Snapshot, Export, UIRender}

// ResetAll clears every metric.
func ResetAll() {
	for _, m := range all {
		m.Reset()
	}
}

// AllTimingStats returns stats for the metrics that have samples.
func AllTimingStats() []TimingStats {
	stats := make([]TimingStats, 0, len(all))
	for _, m := range all {
		if m.Count() > 0 {
			stats = append(stats, m.Stats())
		}
	}
	return stats
}

// Report formats the collected timings as one line per metric, e.g.
// "request: n=3 avg=12.40ms max=20.01ms".
func Report() string {
	var sb strings.Builder
	for _, s := range AllTimingStats() {
		fmt.Fprintf(&sb, "%s: n=%d avg=%.2fms max=%.2fms\n", s.Name, s.Count, ms(s.Avg), ms(s.Max))
	}
	return sb.String()
}
