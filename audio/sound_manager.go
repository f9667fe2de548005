package audio

import (
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

const (
	sampleRate = beep.SampleRate(48000)

	faultBuzzHz       = 120
	faultBuzzDuration = 150 * time.Millisecond
	chirpDuration     = 60 * time.Millisecond

	// Faults can repeat every tick; one buzz per window is enough
	faultCooldown = 500 * time.Millisecond
)

// SoundManager plays short cues for simulation events
// All methods are no-ops until Initialize succeeds, so a machine without audio still runs
type SoundManager struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	initialized bool
	lastFault   time.Time
	now         func() time.Time
}

// NewSoundManager creates a new sound manager
func NewSoundManager() *SoundManager {
	return &SoundManager{
		mixer: &beep.Mixer{},
		now:   time.Now,
	}
}

// Initialize sets up the audio system
func (sm *SoundManager) Initialize() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	// Initialize speaker with sample rate and buffer size
	err := speaker.Init(sampleRate, sampleRate.N(time.Millisecond*100))
	if err != nil {
		return err
	}

	speaker.Play(sm.mixer)
	sm.initialized = true
	return nil
}

// Cleanup stops all sounds
func (sm *SoundManager) Cleanup() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}

	// Note: beep doesn't provide a Close() method for speaker,
	// but clearing all streamers ensures no audio artifacts
	sm.mutate(sm.mixer.Clear)
	sm.initialized = false
}

// PlayFault buzzes when particles freeze, rate limited by faultCooldown
func (sm *SoundManager) PlayFault(count int) {
	if count <= 0 {
		return
	}

	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}
	now := sm.now()
	if now.Sub(sm.lastFault) < faultCooldown {
		return
	}
	sm.lastFault = now

	// More frozen particles, lower and longer buzz
	freq := faultBuzzHz / (1 + math.Log10(float64(count)))
	streamer := beep.Take(sampleRate.N(faultBuzzDuration), NewBuzzGenerator(sampleRate, freq))
	sm.mutate(func() { sm.mixer.Add(streamer) })
}

// PlayPause chirps down when pausing and up when resuming
func (sm *SoundManager) PlayPause(paused bool) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}

	from, to := 440.0, 880.0
	if paused {
		from, to = to, from
	}
	streamer := beep.Take(sampleRate.N(chirpDuration), NewChirpGenerator(sampleRate, from, to, chirpDuration))
	sm.mutate(func() { sm.mixer.Add(streamer) })
}

// mutate changes the mixer under the speaker lock, the speaker goroutine streams it concurrently
func (sm *SoundManager) mutate(fn func()) {
	speaker.Lock()
	defer speaker.Unlock()
	fn()
}

// BuzzGenerator generates a low-pitch buzz sound
type BuzzGenerator struct {
	sr   beep.SampleRate
	freq float64
	pos  int
}

// NewBuzzGenerator creates a buzz sound generator
func NewBuzzGenerator(sr beep.SampleRate, freq float64) *BuzzGenerator {
	return &BuzzGenerator{
		sr:   sr,
		freq: freq,
	}
}

func (g *BuzzGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		t := float64(g.pos) / float64(g.sr)

		// Fundamental plus two harmonics for a harsh buzz
		sample := 0.3 * math.Sin(2*math.Pi*g.freq*t)
		sample += 0.15 * math.Sin(2*math.Pi*g.freq*2*t)
		sample += 0.075 * math.Sin(2*math.Pi*g.freq*3*t)

		// 20ms fade in avoids a click
		envelope := math.Min(t/0.02, 1.0)
		sample *= envelope * 0.2

		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *BuzzGenerator) Err() error {
	return nil
}

// ChirpGenerator sweeps linearly between two frequencies over a duration
type ChirpGenerator struct {
	sr       beep.SampleRate
	from, to float64
	length   int
	pos      int
	phase    float64
}

// NewChirpGenerator creates a sweep generator
func NewChirpGenerator(sr beep.SampleRate, from, to float64, d time.Duration) *ChirpGenerator {
	return &ChirpGenerator{sr: sr, from: from, to: to, length: sr.N(d)}
}

func (g *ChirpGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		progress := math.Min(float64(g.pos)/float64(g.length), 1)
		freq := g.from + (g.to-g.from)*progress

		// Triangular envelope peaking mid-sweep
		envelope := 1 - math.Abs(2*progress-1)
		sample := 0.15 * envelope * math.Sin(g.phase)

		g.phase += 2 * math.Pi * freq / float64(g.sr)
		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *ChirpGenerator) Err() error {
	return nil
}
