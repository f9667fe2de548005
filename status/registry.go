// Package status holds lock-free simulation metrics
// The tick loop caches metric pointers at construction and writes atomics directly;
// viewers and reports read them without coordinating with the loop
package status

import (
	"fmt"
	"sync/atomic"
)

// Metric keys shared by the engine and its readers
const (
	KeyTicks     = "engine.ticks"
	KeyFaults    = "engine.faults"
	KeyTickMicro = "engine.tick_us"
	KeyOverruns  = "engine.overruns"
	KeyParticles = "engine.particles"
	KeyPaused    = "engine.paused"
	KeyState     = "engine.state"
	KeySimTime   = "sim.time"
	KeySpeed     = "sim.speed"
)

// Registry is the central metrics facade
type Registry struct {
	Bools   *MetricMap[atomic.Bool]
	Ints    *MetricMap[atomic.Int64]
	Floats  *MetricMap[AtomicFloat]
	Strings *MetricMap[AtomicString]
}

// NewRegistry creates an initialized Registry
func NewRegistry() *Registry {
	return &Registry{
		Bools:   NewMetricMap[atomic.Bool](),
		Ints:    NewMetricMap[atomic.Int64](),
		Floats:  NewMetricMap[AtomicFloat](),
		Strings: NewMetricMap[AtomicString](),
	}
}

// TotalCount returns total metrics across all types
func (r *Registry) TotalCount() int {
	return r.Bools.Count() + r.Ints.Count() + r.Floats.Count() + r.Strings.Count()
}

// Lines formats every metric as "key=value" in type then key order
func (r *Registry) Lines() []string {
	lines := make([]string, 0, r.TotalCount())
	r.Strings.Range(func(k string, v *AtomicString) {
		lines = append(lines, fmt.Sprintf("%s=%s", k, v.Load()))
	})
	r.Bools.Range(func(k string, v *atomic.Bool) {
		lines = append(lines, fmt.Sprintf("%s=%t", k, v.Load()))
	})
	r.Ints.Range(func(k string, v *atomic.Int64) {
		lines = append(lines, fmt.Sprintf("%s=%d", k, v.Load()))
	})
	r.Floats.Range(func(k string, v *AtomicFloat) {
		lines = append(lines, fmt.Sprintf("%s=%.3f", k, v.Get()))
	})
	return lines
}
