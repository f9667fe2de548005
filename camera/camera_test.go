package camera

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCamera() *Camera {
	return New(DefaultFOV, DefaultNear, DefaultFar, DefaultDistance, 80, 24)
}

func TestProjectOriginCentered(t *testing.T) {
	c := newTestCamera()

	col, row, depth, ok := c.Project(0, 0, 0)
	require.True(t, ok)
	assert.Equal(t, 40, col)
	assert.Equal(t, 12, row)
	assert.Greater(t, depth, float32(-1))
	assert.Less(t, depth, float32(1))
}

func TestProjectAxes(t *testing.T) {
	c := newTestCamera()

	right, _, _, ok := c.Project(5, 0, 0)
	require.True(t, ok)
	assert.Greater(t, right, 40, "+x goes right")

	_, up, _, ok := c.Project(0, 5, 0)
	require.True(t, ok)
	assert.Less(t, up, 12, "+y goes up the screen")
}

func TestProjectDepthOrder(t *testing.T) {
	c := newTestCamera()

	_, _, near, ok := c.Project(0, 0, 10)
	require.True(t, ok)
	_, _, far, ok := c.Project(0, 0, -10)
	require.True(t, ok)
	assert.Less(t, near, far, "closer to camera has smaller depth")
}

func TestProjectClipped(t *testing.T) {
	c := newTestCamera()

	tests := []struct {
		name    string
		x, y, z float32
	}{
		{"behind camera", 0, 0, 50},
		{"inside near plane", 0, 0, 39.5},
		{"beyond far plane", 0, 0, -100},
		{"far left", -1000, 0, 0},
		{"far above", 0, 1000, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, _, ok := c.Project(tt.x, tt.y, tt.z)
			assert.False(t, ok)
		})
	}
}

func TestResizeRecenters(t *testing.T) {
	c := newTestCamera()
	c.Resize(200, 50)

	col, row, _, ok := c.Project(0, 0, 0)
	require.True(t, ok)
	assert.Equal(t, 100, col)
	assert.Equal(t, 25, row)

	w, h := c.Size()
	assert.Equal(t, 200, w)
	assert.Equal(t, 50, h)
}

func TestZoomClamped(t *testing.T) {
	c := newTestCamera()

	c.Zoom(0.5)
	assert.Equal(t, float32(20), c.Distance)

	c.Zoom(0.001)
	assert.Equal(t, c.Near, c.Distance)

	c.Zoom(1e6)
	assert.Equal(t, c.Far, c.Distance)
}

func TestLinearDepthRecoversDistance(t *testing.T) {
	c := newTestCamera()

	for _, z := range []float32{-5, 0, 5} {
		_, _, ndc, ok := c.Project(0, 0, z)
		require.True(t, ok)
		assert.InDelta(t, c.Distance-z, c.LinearDepth(ndc), 1e-2)
	}
	assert.InDelta(t, c.Near, c.LinearDepth(-1), 1e-4)
	assert.InDelta(t, c.Far, c.LinearDepth(1), 1e-2)
}

func TestProjectDegenerateViewport(t *testing.T) {
	sizes := []struct {
		name string
		w, h int
	}{
		{"zero width", 0, 24},
		{"zero height", 80, 0},
		{"zero both", 0, 0},
	}

	for _, sz := range sizes {
		t.Run(sz.name, func(t *testing.T) {
			c := newTestCamera()
			c.Resize(sz.w, sz.h)

			_, _, _, ok := c.Project(0, 0, 0)
			assert.False(t, ok)

			c.Resize(80, 24)
			col, row, _, ok := c.Project(0, 0, 0)
			require.True(t, ok, "recovers after resize")
			assert.Equal(t, 40, col)
			assert.Equal(t, 12, row)
		})
	}
}

func TestProjectRejectsNaN(t *testing.T) {
	c := newTestCamera()
	nan := float32(math.NaN())

	_, _, _, ok := c.Project(nan, 0, 0)
	assert.False(t, ok)
}
