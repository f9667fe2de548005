package engine

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/particles/core"
	"github.com/lixenwraith/particles/physics"
	"github.com/lixenwraith/particles/render"
	"github.com/lixenwraith/particles/status"
)

// FrameInfo describes the tick that produced a frame
type FrameInfo struct {
	Tick   uint64
	Time   float64
	Paused bool
}

// FrameSink receives each projected frame on the tick goroutine
// The frame aliases projector buffers; consume or copy before returning
type FrameSink interface {
	Present(frame render.Frame, info FrameInfo)
}

// FrameSinkFunc adapts a function to FrameSink
type FrameSinkFunc func(frame render.Frame, info FrameInfo)

func (f FrameSinkFunc) Present(frame render.Frame, info FrameInfo) { f(frame, info) }

// SchedulerConfig wires a scheduler, nil optional fields get defaults
type SchedulerConfig struct {
	State     *SimulationState // Required
	Controls  *Controls        // Required
	Force     *physics.ForceModel
	Projector *render.Projector
	Sink      FrameSink
	OnFault   func(physics.FaultError)
	Registry  *status.Registry
	Clock     TimeProvider
	Interval  time.Duration // Wall-clock tick cadence, defaults to initial Dt
}

// ClockScheduler drives the fixed-step pipeline
// Each tick: force model → integrator → projector → sink, strictly in order
// Simulated time advances by Dt·Speed per tick regardless of wall-clock time
type ClockScheduler struct {
	state     *SimulationState
	controls  *Controls
	force     *physics.ForceModel
	projector *render.Projector
	sink      FrameSink
	onFault   func(physics.FaultError)
	clock     TimeProvider

	// Tick configuration
	tickInterval time.Duration
	tickMu       sync.Mutex // One tick in flight, timer loop or direct Tick caller

	// Control channels
	lifeMu   sync.Mutex // Serializes Start and Stop
	stopChan chan struct{}
	wg       sync.WaitGroup
	running  bool

	// Cached metric pointers
	statusReg    *status.Registry
	statTicks    *atomic.Int64
	statFaults   *atomic.Int64
	statTickUs   *atomic.Int64
	statOverruns *atomic.Int64
	statPaused   *atomic.Bool
	statState    *status.AtomicString
	statSimTime  *status.AtomicFloat
	statSpeed    *status.AtomicFloat
}

// NewClockScheduler validates the config and creates a stopped scheduler
func NewClockScheduler(cfg SchedulerConfig) (*ClockScheduler, error) {
	if cfg.State == nil || cfg.State.Store == nil {
		return nil, errors.New("scheduler requires a seeded simulation state")
	}
	if cfg.Controls == nil {
		return nil, errors.New("scheduler requires controls")
	}
	if n := cfg.State.Store.Count(); n > render.MaxParticles {
		return nil, fmt.Errorf("%w: %d particles, limit %d", render.ErrIndexOverflow, n, render.MaxParticles)
	}

	if cfg.Force == nil {
		cfg.Force = physics.NewForceModel(1)
	}
	if cfg.Projector == nil {
		cfg.Projector = render.NewProjector(render.DefaultSize)
	}
	if cfg.Registry == nil {
		cfg.Registry = status.NewRegistry()
	}
	if cfg.Clock == nil {
		cfg.Clock = NewMonotonicTimeProvider()
	}
	if cfg.Interval <= 0 {
		dt := cfg.Controls.Snapshot().Dt
		if !(dt > 0) {
			return nil, fmt.Errorf("scheduler needs a positive interval or Dt, got Dt=%g", dt)
		}
		cfg.Interval = time.Duration(dt * float64(time.Second))
	}

	reg := cfg.Registry
	cs := &ClockScheduler{
		state:        cfg.State,
		controls:     cfg.Controls,
		force:        cfg.Force,
		projector:    cfg.Projector,
		sink:         cfg.Sink,
		onFault:      cfg.OnFault,
		clock:        cfg.Clock,
		tickInterval: cfg.Interval,
		statusReg:    reg,
		statTicks:    reg.Ints.Get(status.KeyTicks),
		statFaults:   reg.Ints.Get(status.KeyFaults),
		statTickUs:   reg.Ints.Get(status.KeyTickMicro),
		statOverruns: reg.Ints.Get(status.KeyOverruns),
		statPaused:   reg.Bools.Get(status.KeyPaused),
		statState:    reg.Strings.Get(status.KeyState),
		statSimTime:  reg.Floats.Get(status.KeySimTime),
		statSpeed:    reg.Floats.Get(status.KeySpeed),
	}
	reg.Ints.Get(status.KeyParticles).Store(int64(cfg.State.Store.Count()))
	cs.statState.Store("stopped")

	return cs, nil
}

// State returns the simulation state, only safe to read while no tick is running
func (cs *ClockScheduler) State() *SimulationState {
	return cs.state
}

// Registry returns the metrics registry the scheduler writes to
func (cs *ClockScheduler) Registry() *status.Registry {
	return cs.statusReg
}

// Interval returns the wall-clock tick cadence
func (cs *ClockScheduler) Interval() time.Duration {
	return cs.tickInterval
}

// Tick runs one complete pipeline pass synchronously and returns the projected frame
// Paused ticks skip force and integration but still project and present
func (cs *ClockScheduler) Tick() render.Frame {
	frame, _ := cs.tick()
	return frame
}

// tick returns the frame and the tick number it was produced for, read under tickMu
func (cs *ClockScheduler) tick() (render.Frame, uint64) {
	cs.tickMu.Lock()
	defer cs.tickMu.Unlock()

	start := cs.clock.Now()
	params := cs.controls.Snapshot()
	st := cs.state

	if !params.Paused {
		dt := params.StepDt()
		st.accel = cs.force.Accumulate(st.Store, params.Force(), st.accel)
		if err := physics.Step(st.Store, st.accel, dt); err != nil {
			cs.reportFaults(err)
		}
		st.Time += dt
		st.Steps++
	}
	st.Ticks++

	frame, err := cs.projector.Project(st.Store)
	if err != nil {
		// Store size is fixed and checked at construction
		panic(fmt.Sprintf("engine: projection failed: %v", err))
	}

	cs.statTicks.Store(int64(st.Ticks))
	cs.statSimTime.Set(st.Time)
	cs.statSpeed.Set(params.Speed)
	cs.statPaused.Store(params.Paused)

	if cs.sink != nil {
		cs.sink.Present(frame, FrameInfo{Tick: st.Ticks, Time: st.Time, Paused: params.Paused})
	}

	cs.statTickUs.Store(cs.clock.Now().Sub(start).Microseconds())
	return frame, st.Ticks
}

// reportFaults logs and counts rejected particles, the tick continues
func (cs *ClockScheduler) reportFaults(err error) {
	var faults physics.FaultError
	if !errors.As(err, &faults) {
		log.Printf("engine: tick %d: unexpected step error: %v", cs.state.Ticks, err)
		return
	}

	cs.state.Faults += uint64(len(faults))
	cs.statFaults.Add(int64(len(faults)))
	log.Printf("engine: tick %d: %v", cs.state.Ticks, faults)

	if cs.onFault != nil {
		cs.onFault(faults)
	}
}

// Start begins the timer-driven loop, a stopped scheduler may be started again
func (cs *ClockScheduler) Start() {
	cs.lifeMu.Lock()
	defer cs.lifeMu.Unlock()
	if cs.running {
		return
	}

	cs.running = true
	cs.stopChan = make(chan struct{})
	cs.wg.Add(1)
	cs.statState.Store("running")
	stop := cs.stopChan
	// Use core.Go for safe execution with centralized crash handling
	core.Go(func() { cs.schedulerLoop(stop) })
}

// Stop halts the loop and waits for the in-flight tick to finish
func (cs *ClockScheduler) Stop() {
	cs.lifeMu.Lock()
	defer cs.lifeMu.Unlock()
	if cs.running {
		close(cs.stopChan)
		cs.wg.Wait()
		cs.running = false
	}
	cs.statState.Store("stopped")
}

// schedulerLoop ticks at the fixed interval
// An overrunning tick delays the next one; missed ticks are never replayed
func (cs *ClockScheduler) schedulerLoop(stop <-chan struct{}) {
	defer cs.wg.Done()

	timer := time.NewTimer(0)
	if !timer.Stop() {
		select {
		case <-timer.C:
		default:
		}
	}
	defer timer.Stop()

	nextTickDeadline := cs.clock.Now()

	for {
		select {
		case <-stop:
			return
		default:
		}

		_, tick := cs.tick()

		now := cs.clock.Now()
		nextTickDeadline = nextTickDeadline.Add(cs.tickInterval)
		if now.After(nextTickDeadline) {
			cs.statOverruns.Add(1)
			log.Printf("engine: tick %d overran by %v", tick, now.Sub(nextTickDeadline))
			nextTickDeadline = now
		}

		sleepDuration := nextTickDeadline.Sub(now)
		if sleepDuration <= 0 {
			continue
		}

		timer.Reset(sleepDuration)
		select {
		case <-timer.C:
		case <-stop:
			return
		}
	}
}
