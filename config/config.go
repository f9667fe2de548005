// Package config loads simulation settings from INI-style files
package config

import (
	"fmt"
	"math"

	"gopkg.in/gcfg.v1"

	"github.com/lixenwraith/particles/camera"
	"github.com/lixenwraith/particles/render"
)

// SimulationConfig holds the force and timestep parameters
type SimulationConfig struct {
	G        float64
	FPS      int
	Speed    float64
	MinSepSq float64
	MaxSepSq float64 // 0 disables the far cutoff
	Workers  int
}

// Dt returns the fixed timestep, one simulated frame interval
func (sc *SimulationConfig) Dt() float64 {
	return 1 / float64(sc.FPS)
}

func (sc *SimulationConfig) CheckInit() error {
	if sc.FPS <= 0 {
		return fmt.Errorf("Simulation.FPS must be positive, but is %d", sc.FPS)
	}
	if !finite(sc.G) {
		return fmt.Errorf("Simulation.G must be finite, but is %g", sc.G)
	}
	if !finite(sc.Speed) || sc.Speed < 0 {
		return fmt.Errorf("Simulation.Speed must be finite and non-negative, but is %g", sc.Speed)
	}
	if !finite(sc.MinSepSq) || sc.MinSepSq < 0 {
		return fmt.Errorf("Simulation.MinSepSq must be finite and non-negative, but is %g", sc.MinSepSq)
	}
	if math.IsNaN(sc.MaxSepSq) {
		return fmt.Errorf("Simulation.MaxSepSq is NaN")
	}
	if sc.MaxSepSq > 0 && sc.MaxSepSq < sc.MinSepSq {
		return fmt.Errorf(
			"Simulation.MaxSepSq (%g) is below MinSepSq (%g), no pair would interact",
			sc.MaxSepSq, sc.MinSepSq,
		)
	}
	if sc.Workers < 0 {
		return fmt.Errorf("Simulation.Workers must be non-negative, but is %d", sc.Workers)
	}
	return nil
}

// SeedConfig selects procedural generation or a fixture table
type SeedConfig struct {
	Count    int
	Spread   float64
	Orbital  float64 // Fraction of circular orbital speed, 0 = start at rest
	RandSeed int64
	Fixture  string // Table file path, overrides procedural generation
}

func (sc *SeedConfig) CheckInit() error {
	if sc.Fixture != "" {
		return nil
	}
	if sc.Count < 0 || sc.Count > render.MaxParticles {
		return fmt.Errorf("Seed.Count must be in range [0, %d], but is %d", render.MaxParticles, sc.Count)
	}
	if !finite(sc.Spread) || sc.Spread <= 0 {
		return fmt.Errorf("Seed.Spread must be positive, but is %g", sc.Spread)
	}
	if !finite(sc.Orbital) {
		return fmt.Errorf("Seed.Orbital must be finite, but is %g", sc.Orbital)
	}
	return nil
}

// CameraConfig places the viewer camera, FOV in degrees
type CameraConfig struct {
	FOV      float64
	Near     float64
	Far      float64
	Distance float64
}

// FOVRadians converts the configured field of view
func (cc *CameraConfig) FOVRadians() float32 {
	return float32(cc.FOV * math.Pi / 180)
}

func (cc *CameraConfig) CheckInit() error {
	if cc.FOV <= 0 || cc.FOV >= 180 {
		return fmt.Errorf("Camera.FOV must be in range (0, 180), but is %g", cc.FOV)
	}
	if cc.Near <= 0 || cc.Far <= cc.Near {
		return fmt.Errorf("Camera needs 0 < Near < Far, but Near=%g Far=%g", cc.Near, cc.Far)
	}
	if cc.Distance < cc.Near || cc.Distance > cc.Far {
		return fmt.Errorf(
			"Camera.Distance must be in range [%g, %g], but is %g",
			cc.Near, cc.Far, cc.Distance,
		)
	}
	return nil
}

type RenderConfig struct {
	Size float64 // Tetrahedron circumradius
}

type AudioConfig struct {
	Enabled bool
}

// Config is the full file layout, one struct per [section]
type Config struct {
	Simulation SimulationConfig
	Seed       SeedConfig
	Camera     CameraConfig
	Render     RenderConfig
	Audio      AudioConfig
}

// Default returns settings used when no file overrides them
func Default() *Config {
	return &Config{
		Simulation: SimulationConfig{
			G:        1,
			FPS:      30,
			Speed:    1,
			MinSepSq: 0.01,
			MaxSepSq: 400,
			Workers:  1,
		},
		Seed: SeedConfig{
			Count:    500,
			Spread:   10,
			Orbital:  0.5,
			RandSeed: 1,
		},
		Camera: CameraConfig{
			FOV:      60,
			Near:     camera.DefaultNear,
			Far:      camera.DefaultFar,
			Distance: camera.DefaultDistance,
		},
		Render: RenderConfig{
			Size: render.DefaultSize,
		},
		Audio: AudioConfig{
			Enabled: true,
		},
	}
}

// CheckInit validates every section
func (c *Config) CheckInit() error {
	if err := c.Simulation.CheckInit(); err != nil {
		return err
	}
	if err := c.Seed.CheckInit(); err != nil {
		return err
	}
	if err := c.Camera.CheckInit(); err != nil {
		return err
	}
	if c.Render.Size <= 0 {
		return fmt.Errorf("Render.Size must be positive, but is %g", c.Render.Size)
	}
	return nil
}

// ReadFile loads fname over the defaults and validates the result
func ReadFile(fname string) (*Config, error) {
	c := Default()
	if err := gcfg.ReadFileInto(c, fname); err != nil {
		return nil, fmt.Errorf("read config %s: %w", fname, err)
	}
	if err := c.CheckInit(); err != nil {
		return nil, fmt.Errorf("config %s: %w", fname, err)
	}
	return c, nil
}

// ReadString loads INI text over the defaults and validates the result
func ReadString(text string) (*Config, error) {
	c := Default()
	if err := gcfg.ReadStringInto(c, text); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := c.CheckInit(); err != nil {
		return nil, err
	}
	return c, nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
