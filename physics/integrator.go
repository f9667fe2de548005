package physics

import (
	"fmt"
	"strings"

	"github.com/lixenwraith/particles/particle"
	"github.com/lixenwraith/particles/vmath"
)

// NonFiniteStateError reports a particle whose step was rejected
// Velocity and Position hold the rejected values, the particle kept its pre-step state
type NonFiniteStateError struct {
	Index    int
	Velocity vmath.Vec3F
	Position vmath.Vec3F
}

func (e *NonFiniteStateError) Error() string {
	return fmt.Sprintf("particle %d: non-finite state (vel=%v pos=%v), step rejected", e.Index, e.Velocity, e.Position)
}

// FaultError collects all particles rejected within one step
type FaultError []*NonFiniteStateError

func (fe FaultError) Error() string {
	if len(fe) == 1 {
		return fe[0].Error()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d particles rejected:", len(fe))
	for _, e := range fe {
		fmt.Fprintf(&b, " %d", e.Index)
	}
	return b.String()
}

// Unwrap exposes each fault to errors.As / errors.Is
func (fe FaultError) Unwrap() []error {
	errs := make([]error, len(fe))
	for i, e := range fe {
		errs[i] = e
	}
	return errs
}

// Indices returns rejected particle indices in store order
func (fe FaultError) Indices() []int {
	idx := make([]int, len(fe))
	for i, e := range fe {
		idx[i] = e.Index
	}
	return idx
}

// Step advances every particle by dt using semi-implicit Euler
// Velocity is updated first, then position from the new velocity
// A particle whose result is non-finite keeps its previous state; the rest still advance
// Returns nil or a FaultError
func Step(store *particle.Store, acc []vmath.Vec3F, dt float64) error {
	if len(acc) != store.Count() {
		panic(fmt.Sprintf("physics.Step: %d accelerations for %d particles", len(acc), store.Count()))
	}

	var faults FaultError
	store.Each(func(i int, p *particle.Particle) {
		vel := vmath.V3FAddScaled(p.Velocity, acc[i], dt)
		pos := vmath.V3FAddScaled(p.Position, vel, dt)

		if !vmath.V3FIsFinite(vel) || !vmath.V3FIsFinite(pos) {
			faults = append(faults, &NonFiniteStateError{Index: i, Velocity: vel, Position: pos})
			return
		}

		p.Velocity = vel
		p.Position = pos
	})

	if len(faults) == 0 {
		return nil
	}
	return faults
}
