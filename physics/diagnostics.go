package physics

import (
	"github.com/lixenwraith/particles/particle"
	"github.com/lixenwraith/particles/vmath"
)

// Momentum returns total linear momentum, Σ m·v
func Momentum(store *particle.Store) vmath.Vec3F {
	var sum vmath.Vec3F
	store.Each(func(_ int, p *particle.Particle) {
		sum = vmath.V3FAddScaled(sum, p.Velocity, p.EffectiveMass())
	})
	return sum
}

// KineticEnergy returns Σ ½·m·|v|²
func KineticEnergy(store *particle.Store) float64 {
	var e float64
	store.Each(func(_ int, p *particle.Particle) {
		e += 0.5 * p.EffectiveMass() * vmath.V3FMagSq(p.Velocity)
	})
	return e
}

// CenterOfMass returns the mass-weighted mean position, zero for an empty store
func CenterOfMass(store *particle.Store) vmath.Vec3F {
	var sum vmath.Vec3F
	var mass float64
	store.Each(func(_ int, p *particle.Particle) {
		m := p.EffectiveMass()
		sum = vmath.V3FAddScaled(sum, p.Position, m)
		mass += m
	})
	if mass == 0 {
		return vmath.Vec3F{}
	}
	return vmath.V3FScale(sum, 1/mass)
}
