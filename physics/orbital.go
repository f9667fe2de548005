package physics

import (
	"math"

	"github.com/lixenwraith/particles/vmath"
)

// OrbitalVelocity returns tangential speed for a circular orbit
// attraction: centripetal acceleration times radius squared (G*M equivalent)
func OrbitalVelocity(attraction, radius float64) float64 {
	if radius <= 0 || attraction <= 0 {
		return 0
	}
	// v = sqrt(GM / r)
	return math.Sqrt(attraction / radius)
}

// OrbitalInsert returns a velocity tangent to the orbit around axis through center
// Position on the axis yields zero velocity
func OrbitalInsert(pos, center, axis vmath.Vec3F, attraction float64) vmath.Vec3F {
	rel := vmath.V3FSub(pos, center)

	// Project out the axis component, orbit lies in the perpendicular plane
	n := vmath.V3FNormalize(axis)
	radial := vmath.V3FAddScaled(rel, n, -vmath.V3FDot(rel, n))
	radius := vmath.V3FMag(radial)
	if radius == 0 {
		return vmath.Vec3F{}
	}

	tangent := vmath.V3FNormalize(cross(n, radial))
	return vmath.V3FScale(tangent, OrbitalVelocity(attraction, radius))
}

func cross(a, b vmath.Vec3F) vmath.Vec3F {
	return vmath.Vec3F{
		X: a.Y*b.Z - a.Z*b.Y,
		Y: a.Z*b.X - a.X*b.Z,
		Z: a.X*b.Y - a.Y*b.X,
	}
}
