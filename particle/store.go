package particle

import (
	"fmt"
)

// Store is the dense ordered particle sequence for one simulation run
// Length is fixed at creation; state is mutated in place by the tick pipeline
// Not safe for concurrent mutation, the scheduler owns it exclusively during a tick
type Store struct {
	particles []Particle
}

// New validates seeds and builds a store in seed order
// Returns ErrInvalidSeed (as *SeedError) on the first non-finite or out-of-range record
func New(seeds []Seed) (*Store, error) {
	particles := make([]Particle, len(seeds))
	for i := range seeds {
		s := &seeds[i]
		if err := s.validate(i); err != nil {
			return nil, err
		}
		particles[i] = Particle{
			Position: s.Position,
			Velocity: s.Velocity,
			Mass:     s.Mass,
			color:    s.Color,
		}
	}
	return &Store{particles: particles}, nil
}

// Count returns number of particles
func (s *Store) Count() int {
	return len(s.particles)
}

// At returns a mutable reference to particle i
func (s *Store) At(i int) (*Particle, error) {
	if i < 0 || i >= len(s.particles) {
		return nil, fmt.Errorf("%w: %d not in [0,%d)", ErrIndexOutOfRange, i, len(s.particles))
	}
	return &s.particles[i], nil
}

// MustAt returns particle i, panics on out-of-range index
func (s *Store) MustAt(i int) *Particle {
	p, err := s.At(i)
	if err != nil {
		panic(err)
	}
	return p
}

// Each visits every particle in store order
func (s *Store) Each(visit func(i int, p *Particle)) {
	for i := range s.particles {
		visit(i, &s.particles[i])
	}
}

// ForEachPair visits every unordered pair {i,j}, i<j, exactly once in row-major order
func (s *Store) ForEachPair(visit func(i, j int, a, b *Particle)) {
	for i := range s.particles {
		s.ForEachPairInRow(i, visit)
	}
}

// ForEachPairInRow visits pairs (i,j) for all j>i
// Rows partition the pair set, enabling disjoint parallel passes
func (s *Store) ForEachPairInRow(i int, visit func(i, j int, a, b *Particle)) {
	a := &s.particles[i]
	for j := i + 1; j < len(s.particles); j++ {
		visit(i, j, a, &s.particles[j])
	}
}
