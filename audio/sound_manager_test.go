package audio

import (
	"math"
	"testing"
	"time"

	"github.com/gopxl/beep/speaker"
	"github.com/stretchr/testify/assert"
)

// TestSoundManagerGracefulDegradation verifies audio operations don't panic when not initialized
func TestSoundManagerGracefulDegradation(t *testing.T) {
	sm := NewSoundManager()

	assert.NotPanics(t, func() {
		sm.PlayFault(3)
		sm.PlayPause(true)
		sm.PlayPause(false)
		sm.Cleanup()
	})
	assert.Zero(t, sm.mixer.Len())
}

// TestSoundManagerInitialization verifies sound manager can be initialized and cleaned up
func TestSoundManagerInitialization(t *testing.T) {
	sm := NewSoundManager()

	// Speaker initialization may fail in CI/test environments without audio devices
	if err := sm.Initialize(); err != nil {
		t.Logf("Sound initialization failed (expected in test environment): %v", err)
		return
	}
	assert.NoError(t, sm.Initialize(), "second initialization is a no-op")
	sm.Cleanup()
}

// fakeInitialized marks the manager ready without opening a device
func fakeInitialized(sm *SoundManager, clock *time.Time) {
	sm.initialized = true
	sm.now = func() time.Time { return *clock }
}

func TestPlayFaultCooldown(t *testing.T) {
	sm := NewSoundManager()
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	fakeInitialized(sm, &clock)

	sm.PlayFault(1)
	assert.Equal(t, 1, sm.mixer.Len())

	clock = clock.Add(faultCooldown / 2)
	sm.PlayFault(1)
	assert.Equal(t, 1, sm.mixer.Len(), "suppressed inside cooldown")

	clock = clock.Add(faultCooldown)
	sm.PlayFault(10)
	assert.Equal(t, 2, sm.mixer.Len())

	sm.PlayFault(0)
	assert.Equal(t, 2, sm.mixer.Len(), "zero faults is silent")
}

func TestPlayPauseQueuesChirp(t *testing.T) {
	sm := NewSoundManager()
	clock := time.Now()
	fakeInitialized(sm, &clock)

	sm.PlayPause(true)
	sm.PlayPause(false)
	assert.Equal(t, 2, sm.mixer.Len())

	sm.Cleanup()
	assert.Zero(t, sm.mixer.Len())
	assert.False(t, sm.initialized)
}

// The speaker pulls from the mixer under speaker.Lock; cues added meanwhile must not race it
func TestCuesWhileMixerStreams(t *testing.T) {
	sm := NewSoundManager()
	clock := time.Now()
	fakeInitialized(sm, &clock)

	done := make(chan struct{})
	go func() {
		defer close(done)
		buf := make([][2]float64, 512)
		for i := 0; i < 200; i++ {
			speaker.Lock()
			sm.mixer.Stream(buf)
			speaker.Unlock()
		}
	}()

	for i := 0; i < 50; i++ {
		sm.PlayPause(i%2 == 0)
	}
	<-done
	sm.Cleanup()

	speaker.Lock()
	n := sm.mixer.Len()
	speaker.Unlock()
	assert.Zero(t, n)
}

func TestBuzzGeneratorEnvelope(t *testing.T) {
	g := NewBuzzGenerator(sampleRate, faultBuzzHz)
	buf := make([][2]float64, sampleRate.N(50*time.Millisecond))

	n, ok := g.Stream(buf)
	assert.True(t, ok)
	assert.Equal(t, len(buf), n)
	assert.NoError(t, g.Err())

	assert.Zero(t, buf[0][0], "starts silent")
	var peak float64
	for _, s := range buf {
		assert.Equal(t, s[0], s[1], "mono on both channels")
		peak = math.Max(peak, math.Abs(s[0]))
	}
	assert.Greater(t, peak, 0.0)
	assert.LessOrEqual(t, peak, 0.2*(0.3+0.15+0.075))
}

func TestChirpGeneratorBounded(t *testing.T) {
	g := NewChirpGenerator(sampleRate, 880, 440, chirpDuration)
	buf := make([][2]float64, sampleRate.N(chirpDuration))

	n, ok := g.Stream(buf)
	assert.True(t, ok)
	assert.Equal(t, len(buf), n)

	for _, s := range buf {
		assert.LessOrEqual(t, math.Abs(s[0]), 0.15)
	}
	assert.Zero(t, buf[0][0], "envelope starts at zero")
}
