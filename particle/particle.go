package particle

import (
	"errors"
	"fmt"

	"github.com/lixenwraith/particles/vmath"
)

var (
	ErrInvalidSeed     = errors.New("invalid particle seed")
	ErrIndexOutOfRange = errors.New("particle index out of range")
)

// Particle is the physical state of one point mass
// Identity is its index in the owning Store, stable only within a tick
type Particle struct {
	Position vmath.Vec3F
	Velocity vmath.Vec3F
	Mass     float64 // 0 = absent, treated as unit mass

	color [3]float32
}

// Color returns the RGB color in [0,1], fixed at creation
func (p *Particle) Color() [3]float32 {
	return p.color
}

// EffectiveMass returns the attracting mass, unit when absent
func (p *Particle) EffectiveMass() float64 {
	if p.Mass == 0 {
		return 1
	}
	return p.Mass
}

// Seed is one initial particle record supplied by an external initializer
type Seed struct {
	Position vmath.Vec3F
	Velocity vmath.Vec3F // Zero when omitted
	Color    [3]float32
	Mass     float64
}

// SeedError reports the first invalid seed record
type SeedError struct {
	Index int
	Field string
	Value any
}

func (e *SeedError) Error() string {
	return fmt.Sprintf("%v: seed %d has bad %s %v", ErrInvalidSeed, e.Index, e.Field, e.Value)
}

func (e *SeedError) Unwrap() error {
	return ErrInvalidSeed
}

// validate checks a seed record against store invariants
func (s *Seed) validate(i int) error {
	if !vmath.V3FIsFinite(s.Position) {
		return &SeedError{Index: i, Field: "position", Value: s.Position}
	}
	if !vmath.V3FIsFinite(s.Velocity) {
		return &SeedError{Index: i, Field: "velocity", Value: s.Velocity}
	}
	if s.Mass < 0 || s.Mass-s.Mass != 0 {
		return &SeedError{Index: i, Field: "mass", Value: s.Mass}
	}
	for _, c := range s.Color {
		// Negated range check also rejects NaN
		if !(c >= 0 && c <= 1) {
			return &SeedError{Index: i, Field: "color", Value: s.Color}
		}
	}
	return nil
}
