package main

import (
	"fmt"
	"io"

	"github.com/guptarohit/asciigraph"

	"github.com/lixenwraith/particles/engine"
	"github.com/lixenwraith/particles/physics"
	"github.com/lixenwraith/particles/vmath"
)

const (
	plotHeight = 10
	plotWidth  = 72
)

// report is the per-tick conservation trace of a headless run
type report struct {
	Drift  []float64 // |P(t) - P(0)|
	Energy []float64 // Total kinetic energy
	Faults uint64
}

// runHeadless ticks the scheduler synchronously and records diagnostics after each tick
func runHeadless(sched *engine.ClockScheduler, ticks int) report {
	store := sched.State().Store
	p0 := physics.Momentum(store)

	r := report{
		Drift:  make([]float64, 0, ticks),
		Energy: make([]float64, 0, ticks),
	}
	for i := 0; i < ticks; i++ {
		sched.Tick()
		r.Drift = append(r.Drift, vmath.V3FDist(physics.Momentum(store), p0))
		r.Energy = append(r.Energy, physics.KineticEnergy(store))
	}
	r.Faults = sched.State().Faults
	return r
}

// print writes the summary and both traces as terminal charts
func (r report) print(w io.Writer, state *engine.SimulationState) {
	fmt.Fprintf(w, "particles=%d ticks=%d steps=%d time=%.3f faults=%d\n",
		state.Store.Count(), state.Ticks, state.Steps, state.Time, r.Faults)
	if len(r.Drift) == 0 {
		return
	}

	fmt.Fprintf(w, "final momentum drift=%.3e kinetic energy=%.6g\n\n",
		r.Drift[len(r.Drift)-1], r.Energy[len(r.Energy)-1])
	fmt.Fprintln(w, asciigraph.Plot(r.Drift,
		asciigraph.Height(plotHeight), asciigraph.Width(plotWidth), asciigraph.Caption("Momentum drift")))
	fmt.Fprintln(w)
	fmt.Fprintln(w, asciigraph.Plot(r.Energy,
		asciigraph.Height(plotHeight), asciigraph.Width(plotWidth), asciigraph.Caption("Kinetic energy")))
}
