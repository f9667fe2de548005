package main

import (
	"fmt"
	"log"

	"github.com/lixenwraith/particles/config"
	"github.com/lixenwraith/particles/engine"
	"github.com/lixenwraith/particles/particle"
	"github.com/lixenwraith/particles/physics"
	"github.com/lixenwraith/particles/render"
	"github.com/lixenwraith/particles/seed"
	"github.com/lixenwraith/particles/status"
)

// simulation holds the pieces shared by interactive and headless runs
type simulation struct {
	cfg       *config.Config
	state     *engine.SimulationState
	controls  *engine.Controls
	force     *physics.ForceModel
	projector *render.Projector
	registry  *status.Registry
}

// newSimulation seeds the store and builds controls from cfg
func newSimulation(cfg *config.Config) (*simulation, error) {
	seeds, err := loadSeeds(cfg)
	if err != nil {
		return nil, err
	}

	store, err := particle.New(seeds)
	if err != nil {
		return nil, err
	}
	log.Printf("seeded %d particles", store.Count())

	sc := cfg.Simulation
	return &simulation{
		cfg:   cfg,
		state: engine.NewSimulationState(store),
		controls: engine.NewControls(engine.Params{
			G:        sc.G,
			Dt:       sc.Dt(),
			Speed:    sc.Speed,
			MinSepSq: sc.MinSepSq,
			MaxSepSq: sc.MaxSepSq,
		}),
		force:     physics.NewForceModel(sc.Workers),
		projector: render.NewProjector(float32(cfg.Render.Size)),
		registry:  status.NewRegistry(),
	}, nil
}

func loadSeeds(cfg *config.Config) ([]particle.Seed, error) {
	if cfg.Seed.Fixture != "" {
		seeds, err := seed.LoadTable(cfg.Seed.Fixture)
		if err != nil {
			return nil, err
		}
		if len(seeds) > render.MaxParticles {
			return nil, fmt.Errorf("%w: fixture has %d rows", render.ErrIndexOverflow, len(seeds))
		}
		return seeds, nil
	}
	return seed.Generate(seed.Options{
		Count:    cfg.Seed.Count,
		Spread:   cfg.Seed.Spread,
		Orbital:  cfg.Seed.Orbital,
		G:        cfg.Simulation.G,
		RandSeed: cfg.Seed.RandSeed,
	}), nil
}

// scheduler wires a clock scheduler presenting to sink, either may be nil
func (s *simulation) scheduler(sink engine.FrameSink, onFault func(physics.FaultError)) (*engine.ClockScheduler, error) {
	return engine.NewClockScheduler(engine.SchedulerConfig{
		State:     s.state,
		Controls:  s.controls,
		Force:     s.force,
		Projector: s.projector,
		Sink:      sink,
		OnFault:   onFault,
		Registry:  s.registry,
	})
}
