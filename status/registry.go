// Package status holds lock-free server counters written by the match loop
// and printed in the shutdown summary.
package status

import (
	"fmt"
	"io"
	"sync/atomic"
)

// Registry groups metrics by value type
// Owners cache the returned pointers and update the atomics directly
type Registry struct {
	Flags  *MetricMap[atomic.Bool]
	Counts *MetricMap[atomic.Int64]
	Gauges *MetricMap[AtomicFloat]
	Labels *MetricMap[AtomicString]
}

func NewRegistry() *Registry {
	return &Registry{
		Flags:  NewMetricMap[atomic.Bool](),
		Counts: NewMetricMap[atomic.Int64](),
		Gauges: NewMetricMap[AtomicFloat](),
		Labels: NewMetricMap[AtomicString](),
	}
}

// Len returns the number of registered metrics across all types
func (r *Registry) Len() int {
	return r.Flags.Len() + r.Counts.Len() + r.Gauges.Len() + r.Labels.Len()
}

// WriteSummary prints every metric as "key=value", one per line, grouped by type
func (r *Registry) WriteSummary(w io.Writer) error {
	var err error
	line := func(key string, val any) {
		if err == nil {
			_, err = fmt.Fprintf(w, "%s=%v\n", key, val)
		}
	}
	r.Counts.Range(func(key string, v *atomic.Int64) { line(key, v.Load()) })
	r.Gauges.Range(func(key string, v *AtomicFloat) { line(key, fmt.Sprintf("%.3f", v.Get())) })
	r.Flags.Range(func(key string, v *atomic.Bool) { line(key, v.Load()) })
	r.Labels.Range(func(key string, v *AtomicString) { line(key, v.Load()) })
	return err
}
