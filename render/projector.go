package render

import (
	"errors"
	"fmt"
	"math"

	"github.com/lixenwraith/particles/particle"
)

const (
	// VertexStride is floats per vertex: x, y, z, r, g, b
	VertexStride = 6
	// VerticesPerParticle is corners of the tetrahedron each particle expands to
	VerticesPerParticle = 4
	// IndicesPerParticle is 4 triangular faces × 3
	IndicesPerParticle = 12
	// MaxParticles is the largest store addressable by uint16 indices
	MaxParticles = (math.MaxUint16 + 1) / VerticesPerParticle

	DefaultSize = 0.05
)

var ErrIndexOverflow = errors.New("particle count exceeds 16-bit index range")

// faceIndices is the per-particle connectivity, offset by 4·i
var faceIndices = [IndicesPerParticle]uint16{0, 1, 2, 0, 1, 3, 0, 2, 3, 1, 2, 3}

// tetraCorners are unit-circumradius regular tetrahedron offsets
var tetraCorners = [VerticesPerParticle][3]float32{
	{invSqrt3, invSqrt3, invSqrt3},
	{invSqrt3, -invSqrt3, -invSqrt3},
	{-invSqrt3, invSqrt3, -invSqrt3},
	{-invSqrt3, -invSqrt3, invSqrt3},
}

const invSqrt3 = 0.5773502691896258

// Frame is the flat render stream for one tick
// Slices alias projector buffers and are valid until the next Project call
type Frame struct {
	Vertices []float32
	Indices  []uint16
	Count    int // Particles in the frame
}

// Projector expands particles into tetrahedra packed for the rendering pipeline
// Holds no particle state between calls, only reusable output buffers
type Projector struct {
	Size float32 // Circumradius of each tetrahedron in world units

	vertices []float32
	indices  []uint16
}

// NewProjector creates a projector, non-positive size falls back to DefaultSize
func NewProjector(size float32) *Projector {
	if !(size > 0) {
		size = DefaultSize
	}
	return &Projector{Size: size}
}

// Project packs the current store into a vertex and index stream
func (pr *Projector) Project(store *particle.Store) (Frame, error) {
	n := store.Count()
	if n > MaxParticles {
		return Frame{}, fmt.Errorf("%w: %d > %d", ErrIndexOverflow, n, MaxParticles)
	}

	pr.ensure(n)
	verts := pr.vertices[:n*VerticesPerParticle*VertexStride]

	store.Each(func(i int, p *particle.Particle) {
		x, y, z := float32(p.Position.X), float32(p.Position.Y), float32(p.Position.Z)
		c := p.Color()

		base := i * VerticesPerParticle * VertexStride
		for k, off := range tetraCorners {
			v := verts[base+k*VertexStride : base+(k+1)*VertexStride : base+(k+1)*VertexStride]
			v[0] = x + off[0]*pr.Size
			v[1] = y + off[1]*pr.Size
			v[2] = z + off[2]*pr.Size
			v[3], v[4], v[5] = c[0], c[1], c[2]
		}
	})

	return Frame{
		Vertices: verts,
		Indices:  pr.indices[:n*IndicesPerParticle],
		Count:    n,
	}, nil
}

// ensure grows buffers to hold n particles
// Index connectivity depends only on position in the stream, so it is written once per growth
func (pr *Projector) ensure(n int) {
	if need := n * VerticesPerParticle * VertexStride; cap(pr.vertices) < need {
		pr.vertices = make([]float32, need)
	} else {
		pr.vertices = pr.vertices[:cap(pr.vertices)]
	}

	have := len(pr.indices) / IndicesPerParticle
	if have >= n {
		return
	}
	indices := make([]uint16, n*IndicesPerParticle)
	copy(indices, pr.indices)
	for i := have; i < n; i++ {
		base := uint16(i * VerticesPerParticle)
		for k, idx := range faceIndices {
			indices[i*IndicesPerParticle+k] = base + idx
		}
	}
	pr.indices = indices
}
