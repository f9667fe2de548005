package engine

import (
	"github.com/lixenwraith/particles/particle"
	"github.com/lixenwraith/particles/vmath"
)

// SimulationState is everything one simulation instance mutates across ticks
// Owned by a single Scheduler; independent instances share nothing
type SimulationState struct {
	Store  *particle.Store
	Time   float64 // Simulated seconds, advances by Dt·Speed per unpaused tick
	Ticks  uint64  // Scheduler ticks including paused ones
	Steps  uint64  // Ticks that ran force and integration
	Faults uint64  // Particle steps rejected as non-finite

	accel []vmath.Vec3F
}

// NewSimulationState wraps a seeded store
func NewSimulationState(store *particle.Store) *SimulationState {
	return &SimulationState{Store: store}
}
