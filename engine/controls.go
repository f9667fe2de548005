package engine

import (
	"math"
	"sync/atomic"

	"github.com/lixenwraith/particles/physics"
	"github.com/lixenwraith/particles/status"
)

// Params is the simulation parameter snapshot taken once at the start of a tick
type Params struct {
	G        float64
	Dt       float64 // Base timestep in simulated seconds
	Speed    float64 // Multiplier on Dt, tick cadence unchanged
	MinSepSq float64
	MaxSepSq float64
	Paused   bool
}

// StepDt returns the timestep applied this tick
func (p Params) StepDt() float64 {
	return p.Dt * p.Speed
}

// Force returns the force model view of the parameters
func (p Params) Force() physics.ForceParams {
	return physics.ForceParams{G: p.G, MinSepSq: p.MinSepSq, MaxSepSq: p.MaxSepSq}
}

// Controls holds externally mutable simulation parameters
// Writers (UI, tests) store scalars atomically; the scheduler only reads via Snapshot
type Controls struct {
	g        status.AtomicFloat
	dt       status.AtomicFloat
	speed    status.AtomicFloat
	minSepSq status.AtomicFloat
	maxSepSq status.AtomicFloat
	paused   atomic.Bool
}

// NewControls creates controls initialized from p
func NewControls(p Params) *Controls {
	c := &Controls{}
	c.g.Set(p.G)
	c.dt.Set(p.Dt)
	c.SetSpeed(p.Speed)
	c.minSepSq.Set(p.MinSepSq)
	c.maxSepSq.Set(p.MaxSepSq)
	c.paused.Store(p.Paused)
	return c
}

// Snapshot reads all parameters for one tick
func (c *Controls) Snapshot() Params {
	return Params{
		G:        c.g.Get(),
		Dt:       c.dt.Get(),
		Speed:    c.speed.Get(),
		MinSepSq: c.minSepSq.Get(),
		MaxSepSq: c.maxSepSq.Get(),
		Paused:   c.paused.Load(),
	}
}

func (c *Controls) SetG(g float64)   { c.g.Set(g) }
func (c *Controls) SetDt(dt float64) { c.dt.Set(dt) }

// SetCutoffs replaces the squared-separation band
func (c *Controls) SetCutoffs(minSepSq, maxSepSq float64) {
	c.minSepSq.Set(minSepSq)
	c.maxSepSq.Set(maxSepSq)
}

// SetSpeed sets the Dt multiplier, negative or NaN clamps to 0
func (c *Controls) SetSpeed(speed float64) {
	if !(speed >= 0) || math.IsInf(speed, 1) {
		speed = 0
	}
	c.speed.Set(speed)
}

// ScaleSpeed multiplies the current speed by factor
func (c *Controls) ScaleSpeed(factor float64) float64 {
	c.SetSpeed(c.speed.Get() * factor)
	return c.speed.Get()
}

func (c *Controls) Speed() float64 {
	return c.speed.Get()
}

func (c *Controls) SetPaused(paused bool) {
	c.paused.Store(paused)
}

// TogglePause flips the pause flag and returns the new state
func (c *Controls) TogglePause() bool {
	for {
		old := c.paused.Load()
		if c.paused.CompareAndSwap(old, !old) {
			return !old
		}
	}
}

func (c *Controls) IsPaused() bool {
	return c.paused.Load()
}
