package sound

import (
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/gonewx/weather-overlay/pkg/lightning"
	"github.com/gonewx/weather-overlay/pkg/utils"
)

const sampleRate = beep.SampleRate(44100)

const (
	// Sound arrives after the flash; the gap stands in for distance.
	minDelay = 300 * time.Millisecond
	maxDelay = 2500 * time.Millisecond

	minRumble = 1500 * time.Millisecond
	maxRumble = 3500 * time.Millisecond
)

// Thunder plays a rumble for each flash. Until Init succeeds it stays
// silent, so a machine without audio still runs the overlay.
type Thunder struct {
	mu          sync.Mutex
	initialized bool
	enabled     bool
	volume      float64
	rng         *rand.Rand
}

// NewThunder creates a silent player with the given defaults.
func NewThunder(enabled bool, volume float64) *Thunder {
	return &Thunder{
		enabled: enabled,
		volume:  volume,
		rng:     utils.NewRand(),
	}
}

// Init opens the audio device.
func (t *Thunder) Init() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		return fmt.Errorf("failed to initialize speaker: %w", err)
	}
	t.initialized = true
	log.Printf("[Thunder] Speaker initialized at %d Hz", sampleRate)
	return nil
}

// Close stops playback and releases the device.
func (t *Thunder) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.initialized {
		return
	}
	speaker.Clear()
	speaker.Close()
	t.initialized = false
}

func (t *Thunder) SetEnabled(enabled bool) {
	t.mu.Lock()
	t.enabled = enabled
	t.mu.Unlock()
}

func (t *Thunder) SetVolume(volume float64) {
	t.mu.Lock()
	t.volume = utils.Clamp(volume, 0, 1)
	t.mu.Unlock()
}

// OnFlash queues a rumble for the flash. It never blocks the caller.
func (t *Thunder) OnFlash(flash lightning.Flash) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.initialized || !t.enabled || t.volume <= 0 {
		return
	}
	speaker.Play(t.streamer(flash))
}

// Streamer builds the delayed rumble for a flash at the current volume.
func (t *Thunder) Streamer(flash lightning.Flash) beep.Streamer {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.streamer(flash)
}

func (t *Thunder) streamer(flash lightning.Flash) beep.Streamer {
	// Brighter flashes are closer: shorter delay, longer roll.
	b := utils.Clamp(flash.Brightness, 0, 1)
	delay := time.Duration(utils.Lerp(float64(maxDelay), float64(minDelay), b*t.rng.Float64()))
	length := time.Duration(utils.Lerp(float64(minRumble), float64(maxRumble), b))

	rumble := NewRumble(sampleRate, length, b, t.rng)
	return beep.Seq(
		beep.Silence(sampleRate.N(delay)),
		newVolume(rumble, t.volume*(0.5+0.5*b)),
	)
}
