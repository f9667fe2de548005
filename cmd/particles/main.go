package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/particles/audio"
	"github.com/lixenwraith/particles/camera"
	"github.com/lixenwraith/particles/config"
	"github.com/lixenwraith/particles/core"
	"github.com/lixenwraith/particles/particle"
	"github.com/lixenwraith/particles/physics"
	"github.com/lixenwraith/particles/viewer"
)

var (
	configFlag   = flag.String("config", "", "INI config file, defaults used when empty")
	debugFlag    = flag.Bool("debug", false, "Write logs to logs/particles.log")
	headlessFlag = flag.Int("headless", 0, "Run N ticks without a terminal and print a conservation report")
	muteFlag     = flag.Bool("mute", false, "Disable audio cues")
	fixtureFlag  = flag.String("fixture", "", "Seed table file, overrides procedural seeding")
)

func main() {
	// Panic Recovery: Ensure terminal is reset even if the main goroutine crashes
	defer func() {
		if r := recover(); r != nil {
			core.HandleCrash(r)
		}
	}()

	flag.Parse()

	if logFile := setupLogging(*debugFlag); logFile != nil {
		defer logFile.Close()
	}

	cfg, err := loadConfig(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	if *fixtureFlag != "" {
		cfg.Seed.Fixture = *fixtureFlag
	}
	if *muteFlag {
		cfg.Audio.Enabled = false
	}

	sim, err := newSimulation(cfg)
	if err != nil {
		var seedErr *particle.SeedError
		if errors.As(err, &seedErr) {
			fmt.Fprintf(os.Stderr, "Invalid seed data: %v\n", err)
		} else {
			fmt.Fprintf(os.Stderr, "Failed to seed simulation: %v\n", err)
		}
		os.Exit(1)
	}

	if *headlessFlag > 0 {
		sched, err := sim.scheduler(nil, nil)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
		runHeadless(sched, *headlessFlag).print(os.Stdout, sched.State())
		return
	}

	if err := runInteractive(sim); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func loadConfig(fname string) (*config.Config, error) {
	if fname == "" {
		cfg := config.Default()
		return cfg, cfg.CheckInit()
	}
	return config.ReadFile(fname)
}

// runInteractive owns the terminal until the user quits
func runInteractive(sim *simulation) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize terminal: %w", err)
	}
	// Normal exit terminal cleanup
	defer screen.Fini()
	core.SetCrashTerminal(screen)
	defer core.SetCrashTerminal(nil)

	sound := audio.NewSoundManager()
	if sim.cfg.Audio.Enabled {
		if err := sound.Initialize(); err != nil {
			// Non-fatal, simulation runs without sound
			log.Printf("Audio initialization failed: %v", err)
		}
		defer sound.Cleanup()
	}

	cc := sim.cfg.Camera
	cam := camera.New(cc.FOVRadians(), float32(cc.Near), float32(cc.Far), float32(cc.Distance), 1, 1)
	view := viewer.New(screen, cam, sim.controls, sim.registry, sound)

	sched, err := sim.scheduler(view, func(faults physics.FaultError) {
		sound.PlayFault(len(faults))
	})
	if err != nil {
		return err
	}
	sched.Start()
	defer sched.Stop()

	eventChan := make(chan tcell.Event, 64)
	core.Go(func() {
		for {
			ev := screen.PollEvent()
			// nil after Fini
			if ev == nil {
				close(eventChan)
				return
			}
			eventChan <- ev
		}
	})

	for ev := range eventChan {
		if !view.HandleEvent(ev) {
			return nil
		}
	}
	return nil
}
