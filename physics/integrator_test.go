package physics

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/particles/particle"
	"github.com/lixenwraith/particles/vmath"
)

func TestStepSemiImplicitOrder(t *testing.T) {
	s := newStore(t, vmath.Vec3F{X: 1, Y: 2, Z: 3})
	p := s.MustAt(0)
	p.Velocity = vmath.Vec3F{X: 0.5, Y: -1, Z: 0}

	acc := []vmath.Vec3F{{X: 2, Y: 4, Z: -6}}
	dt := 0.1

	require.NoError(t, Step(s, acc, dt))

	// Reference: v' = v + a·dt, x' = x + v'·dt
	wantVel := vmath.Vec3F{X: 0.5 + 2*dt, Y: -1 + 4*dt, Z: -6 * dt}
	wantPos := vmath.Vec3F{X: 1 + wantVel.X*dt, Y: 2 + wantVel.Y*dt, Z: 3 + wantVel.Z*dt}
	assertVecNear(t, wantVel, p.Velocity)
	assertVecNear(t, wantPos, p.Position)

	// Explicit Euler would have used the old velocity
	explicit := vmath.Vec3F{X: 1 + 0.5*dt, Y: 2 - 1*dt, Z: 3}
	assert.Greater(t, vmath.V3FDist(explicit, p.Position), 0.01)
}

func assertVecNear(t *testing.T, want, got vmath.Vec3F) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, 1e-14)
	assert.InDelta(t, want.Y, got.Y, 1e-14)
	assert.InDelta(t, want.Z, got.Z, 1e-14)
}

func TestStepZeroAccelerationDrifts(t *testing.T) {
	s := newStore(t, vmath.Vec3F{})
	s.MustAt(0).Velocity = vmath.Vec3F{X: 3}

	for i := 0; i < 4; i++ {
		require.NoError(t, Step(s, []vmath.Vec3F{{}}, 0.5))
	}
	assert.Equal(t, vmath.Vec3F{X: 6}, s.MustAt(0).Position)
	assert.Equal(t, vmath.Vec3F{X: 3}, s.MustAt(0).Velocity)
}

func TestStepRejectsNonFiniteParticleOnly(t *testing.T) {
	s := newStore(t, vmath.Vec3F{X: 1}, vmath.Vec3F{X: 2}, vmath.Vec3F{X: 3})
	acc := []vmath.Vec3F{{X: 1}, {X: math.Inf(1)}, {Y: math.NaN()}}

	err := Step(s, acc, 1)
	require.Error(t, err)

	var fe FaultError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, []int{1, 2}, fe.Indices())

	var nf *NonFiniteStateError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, 1, nf.Index)
	assert.True(t, math.IsInf(nf.Velocity.X, 1))

	// Healthy particle advanced
	assert.Equal(t, vmath.Vec3F{X: 1}, s.MustAt(0).Velocity)
	assert.Equal(t, vmath.Vec3F{X: 2}, s.MustAt(0).Position)

	// Faulted particles frozen at pre-step state
	assert.Equal(t, vmath.Vec3F{X: 2}, s.MustAt(1).Position)
	assert.Equal(t, vmath.Vec3F{}, s.MustAt(1).Velocity)
	assert.Equal(t, vmath.Vec3F{X: 3}, s.MustAt(2).Position)
	assert.Equal(t, vmath.Vec3F{}, s.MustAt(2).Velocity)
}

func TestStepPositionOverflowRejected(t *testing.T) {
	s := newStore(t, vmath.Vec3F{X: math.MaxFloat64})
	s.MustAt(0).Velocity = vmath.Vec3F{X: math.MaxFloat64}

	err := Step(s, []vmath.Vec3F{{}}, 1)

	var nf *NonFiniteStateError
	require.True(t, errors.As(err, &nf))
	assert.True(t, math.IsInf(nf.Position.X, 1))
	assert.Equal(t, math.MaxFloat64, s.MustAt(0).Position.X)
}

func TestFaultErrorMessage(t *testing.T) {
	one := FaultError{{Index: 4}}
	assert.Contains(t, one.Error(), "particle 4")

	many := FaultError{{Index: 1}, {Index: 7}}
	assert.Equal(t, "2 particles rejected: 1 7", many.Error())
}

func TestStepLengthMismatchPanics(t *testing.T) {
	s := newStore(t, vmath.Vec3F{}, vmath.Vec3F{X: 1})
	assert.Panics(t, func() { _ = Step(s, make([]vmath.Vec3F, 1), 0.1) })
}

func TestStepEmptyStore(t *testing.T) {
	assert.NoError(t, Step(newStore(t), nil, 1.0/30))
}

func TestTwoBodyMomentumConserved(t *testing.T) {
	s := newStore(t, vmath.Vec3F{X: -1, Y: 0.2}, vmath.Vec3F{X: 1.5, Y: -0.3, Z: 0.4})
	s.MustAt(0).Velocity = vmath.Vec3F{Y: 0.3}
	s.MustAt(1).Velocity = vmath.Vec3F{Y: -0.1, Z: 0.05}

	fm := NewForceModel(1)
	start := Momentum(s)

	var acc []vmath.Vec3F
	for tick := 0; tick < 500; tick++ {
		acc = fm.Accumulate(s, unbounded, acc)
		require.NoError(t, Step(s, acc, 1.0/60))
	}

	end := Momentum(s)
	assert.InDelta(t, start.X, end.X, 1e-10)
	assert.InDelta(t, start.Y, end.Y, 1e-10)
	assert.InDelta(t, start.Z, end.Z, 1e-10)
}

func TestRunsAreDeterministic(t *testing.T) {
	run := func(workers int) []particle.Particle {
		s := lattice(t, 40)
		fm := NewForceModel(workers)
		fp := ForceParams{G: 0.5, MinSepSq: 0.02, MaxSepSq: 16}
		var acc []vmath.Vec3F
		for tick := 0; tick < 50; tick++ {
			acc = fm.Accumulate(s, fp, acc)
			require.NoError(t, Step(s, acc, 1.0/30))
		}
		out := make([]particle.Particle, s.Count())
		s.Each(func(i int, p *particle.Particle) { out[i] = *p })
		return out
	}

	for _, w := range []int{1, 3} {
		assert.Equal(t, run(w), run(w), "workers=%d", w)
	}
}

func TestDiagnostics(t *testing.T) {
	seeds := []particle.Seed{
		{Position: vmath.Vec3F{X: 0}, Velocity: vmath.Vec3F{X: 2}},
		{Position: vmath.Vec3F{X: 4}, Velocity: vmath.Vec3F{Y: -1}, Mass: 3},
	}
	s, err := particle.New(seeds)
	require.NoError(t, err)

	assert.Equal(t, vmath.Vec3F{X: 2, Y: -3}, Momentum(s))
	assert.Equal(t, 0.5*4+0.5*3*1, KineticEnergy(s))
	assert.Equal(t, vmath.Vec3F{X: 3}, CenterOfMass(s))

	empty := newStore(t)
	assert.Equal(t, vmath.Vec3F{}, CenterOfMass(empty))
	assert.Zero(t, KineticEnergy(empty))
}

func TestOrbitalInsertTangent(t *testing.T) {
	pos := vmath.Vec3F{X: 4, Z: 1}
	v := OrbitalInsert(pos, vmath.Vec3F{}, vmath.Vec3F{Z: 1}, 16)

	// r=4 in the xy plane, v = sqrt(16/4) = 2, direction +y for counter-clockwise about +z
	assert.InDelta(t, 0, v.X, 1e-12)
	assert.InDelta(t, 2, v.Y, 1e-12)
	assert.InDelta(t, 0, v.Z, 1e-12)

	assert.Equal(t, vmath.Vec3F{}, OrbitalInsert(vmath.Vec3F{Z: 5}, vmath.Vec3F{}, vmath.Vec3F{Z: 1}, 16), "on axis")
	assert.Zero(t, OrbitalVelocity(-1, 2))
}
