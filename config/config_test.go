package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	c := Default()
	require.NoError(t, c.CheckInit())
	assert.InDelta(t, 1.0/30, c.Simulation.Dt(), 1e-15)
	assert.InDelta(t, 1.0471975, float64(c.Camera.FOVRadians()), 1e-6)
}

func TestReadStringOverridesDefaults(t *testing.T) {
	c, err := ReadString(`
[simulation]
G = 0.5
FPS = 60
MinSepSq = 0.25
MaxSepSq = 0
Workers = 4

[seed]
Count = 64
RandSeed = 42

[audio]
Enabled = false
`)
	require.NoError(t, err)

	assert.Equal(t, 0.5, c.Simulation.G)
	assert.Equal(t, 60, c.Simulation.FPS)
	assert.Equal(t, 0.25, c.Simulation.MinSepSq)
	assert.Equal(t, 0.0, c.Simulation.MaxSepSq)
	assert.Equal(t, 4, c.Simulation.Workers)
	assert.Equal(t, 1.0, c.Simulation.Speed, "unset keeps default")

	assert.Equal(t, 64, c.Seed.Count)
	assert.Equal(t, int64(42), c.Seed.RandSeed)
	assert.Equal(t, 10.0, c.Seed.Spread)
	assert.False(t, c.Audio.Enabled)
}

func TestReadStringAcceptsNonPhysicalG(t *testing.T) {
	c, err := ReadString("[simulation]\nG = -2\n")
	require.NoError(t, err)
	assert.Equal(t, -2.0, c.Simulation.G)
}

func TestReadStringRejects(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"unknown section", "[gravity]\nG = 1\n"},
		{"unknown key", "[simulation]\nGravity = 1\n"},
		{"zero fps", "[simulation]\nFPS = 0\n"},
		{"negative speed", "[simulation]\nSpeed = -1\n"},
		{"negative min sep", "[simulation]\nMinSepSq = -0.1\n"},
		{"inverted band", "[simulation]\nMinSepSq = 4\nMaxSepSq = 1\n"},
		{"negative workers", "[simulation]\nWorkers = -1\n"},
		{"too many particles", "[seed]\nCount = 20000\n"},
		{"zero spread", "[seed]\nSpread = 0\n"},
		{"fov too wide", "[camera]\nFOV = 180\n"},
		{"camera past far", "[camera]\nDistance = 500\n"},
		{"zero render size", "[render]\nSize = 0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := ReadString(tt.text)
			assert.Error(t, err)
			assert.Nil(t, c)
		})
	}
}

func TestFixtureSkipsProceduralChecks(t *testing.T) {
	c, err := ReadString("[seed]\nFixture = testdata/disk.tbl\nSpread = 0\n")
	require.NoError(t, err)
	assert.Equal(t, "testdata/disk.tbl", c.Seed.Fixture)
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sim.ini")
	require.NoError(t, os.WriteFile(path, []byte("[simulation]\nSpeed = 2.5\n"), 0644))

	c, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2.5, c.Simulation.Speed)

	_, err = ReadFile(filepath.Join(dir, "missing.ini"))
	assert.Error(t, err)
}

func TestExampleConfigLoads(t *testing.T) {
	c, err := ReadFile(filepath.Join("..", "particles.ini"))
	require.NoError(t, err)
	assert.Equal(t, 4, c.Simulation.Workers)
	assert.Equal(t, 800, c.Seed.Count)
	assert.Equal(t, int64(7), c.Seed.RandSeed)
	assert.Empty(t, c.Seed.Fixture)
}
