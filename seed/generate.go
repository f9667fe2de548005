// Package seed produces initial particle records for a simulation run
// Records are validated by particle.New, not here
package seed

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/exp/rand"

	"github.com/lixenwraith/particles/particle"
	"github.com/lixenwraith/particles/physics"
	"github.com/lixenwraith/particles/vmath"
)

// Options controls procedural generation
type Options struct {
	Count    int
	Spread   float64 // Half-width of the cube particles are scattered in
	Orbital  float64 // Fraction of circular speed around +Z, 0 = at rest
	G        float64 // Used only to size orbital speed
	RandSeed int64
}

// orbitAxis is the rotation axis for initial tangential velocity
var orbitAxis = vmath.Vec3F{Z: 1}

// Generate scatters Count particles uniformly in [-Spread, Spread]³
// Identical Options produce identical output; a negative Count yields no seeds
func Generate(opts Options) []particle.Seed {
	if opts.Count < 0 {
		opts.Count = 0
	}
	rng := rand.New(rand.NewSource(uint64(opts.RandSeed)))
	seeds := make([]particle.Seed, opts.Count)

	for i := range seeds {
		pos := vmath.Vec3F{
			X: (rng.Float64()*2 - 1) * opts.Spread,
			Y: (rng.Float64()*2 - 1) * opts.Spread,
			Z: (rng.Float64()*2 - 1) * opts.Spread,
		}

		seeds[i] = particle.Seed{
			Position: pos,
			Velocity: orbitalVelocity(pos, &opts),
			Color:    azimuthColor(pos, rng.Float64()),
		}
	}
	return seeds
}

// orbitalVelocity approximates circular speed around the cloud center
// Enclosed mass assumes a uniform sphere of radius Spread holding all particles
func orbitalVelocity(pos vmath.Vec3F, opts *Options) vmath.Vec3F {
	if opts.Orbital == 0 || opts.Spread <= 0 {
		return vmath.Vec3F{}
	}

	r := math.Hypot(pos.X, pos.Y)
	frac := math.Min(1, math.Pow(r/opts.Spread, 3))
	enclosed := opts.G * float64(opts.Count) * frac

	v := physics.OrbitalInsert(pos, vmath.Vec3F{}, orbitAxis, enclosed)
	return vmath.V3FScale(v, opts.Orbital)
}

// azimuthColor hues particles by angle around the orbit axis, jitter varies brightness
func azimuthColor(pos vmath.Vec3F, jitter float64) [3]float32 {
	hue := math.Atan2(pos.Y, pos.X)*180/math.Pi + 180
	c := colorful.Hsv(hue, 0.65, 0.75+0.25*jitter).Clamped()
	return [3]float32{float32(c.R), float32(c.G), float32(c.B)}
}
