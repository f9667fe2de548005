// Package camera maps world-space vertices onto a character grid
// using a perspective projection in front of a translated scene
package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	DefaultFOV      = math.Pi / 3 // 60 degrees
	DefaultNear     = 1
	DefaultFar      = 100
	DefaultDistance = 40

	// CellAspect is terminal cell height over width
	CellAspect = 2
)

// Camera looks down -Z at a scene pushed Distance units away
type Camera struct {
	FOV      float32 // Vertical field of view in radians
	Near     float32
	Far      float32
	Distance float32

	width, height int
	viewProj      mgl32.Mat4
}

// New creates a camera for a width×height cell viewport
func New(fov, near, far, distance float32, width, height int) *Camera {
	c := &Camera{FOV: fov, Near: near, Far: far, Distance: distance}
	c.Resize(width, height)
	return c
}

// Resize rebuilds the projection for a new viewport
func (c *Camera) Resize(width, height int) {
	c.width, c.height = width, height
	c.rebuild()
}

// Zoom moves the camera by factor of current distance, clamped inside the clip range
func (c *Camera) Zoom(factor float32) {
	d := c.Distance * factor
	if d < c.Near {
		d = c.Near
	}
	if d > c.Far {
		d = c.Far
	}
	c.Distance = d
	c.rebuild()
}

// Size returns the viewport in cells
func (c *Camera) Size() (int, int) {
	return c.width, c.height
}

func (c *Camera) rebuild() {
	if c.width <= 0 || c.height <= 0 {
		// Degenerate viewport, keep the last projection; Project rejects every point
		return
	}
	// Cells are taller than wide, correct so spheres stay round
	aspect := float32(c.width) / float32(c.height*CellAspect)
	proj := mgl32.Perspective(c.FOV, aspect, c.Near, c.Far)
	view := mgl32.Translate3D(0, 0, -c.Distance)
	c.viewProj = proj.Mul4(view)
}

// Project maps a world point to a cell and its NDC depth in [-1,1]
// ok is false when the point falls outside the view frustum
func (c *Camera) Project(x, y, z float32) (col, row int, depth float32, ok bool) {
	if c.width <= 0 || c.height <= 0 {
		return 0, 0, 0, false
	}
	clip := c.viewProj.Mul4x1(mgl32.Vec4{x, y, z, 1})
	if clip[3] <= 0 {
		return 0, 0, 0, false
	}

	ndc := clip.Vec3().Mul(1 / clip[3])
	// Negated form so NaN also falls outside
	if !(inUnit(ndc[0]) && inUnit(ndc[1]) && inUnit(ndc[2])) {
		return 0, 0, 0, false
	}

	col = int((ndc[0] + 1) / 2 * float32(c.width))
	row = int((1 - ndc[1]) / 2 * float32(c.height))
	if col >= c.width {
		col = c.width - 1
	}
	if row >= c.height {
		row = c.height - 1
	}
	return col, row, ndc[2], true
}

// LinearDepth converts NDC depth back to eye-space distance from the camera
func (c *Camera) LinearDepth(ndcZ float32) float32 {
	n, f := c.Near, c.Far
	return 2 * n * f / (f + n - ndcZ*(f-n))
}

func inUnit(v float32) bool {
	return v >= -1 && v <= 1
}
