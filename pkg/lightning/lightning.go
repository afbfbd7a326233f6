// Package lightning simulates lightning flashes layered over a weather effect.
//
// The sub-process has two states. DORMANT accumulates elapsed time until
// the next flash is due. FLASHING decays brightness linearly to zero over
// the flash duration. Each flash picks one of three profiles at random.
package lightning

import (
	"math/rand"

	"github.com/gonewx/weather-overlay/pkg/canvas"
	"github.com/gonewx/weather-overlay/pkg/utils"
)

// State is the sub-process state.
type State int

const (
	Dormant State = iota
	Flashing
)

func (s State) String() string {
	if s == Flashing {
		return "flashing"
	}
	return "dormant"
}

const (
	// IntervalMin and IntervalMax bound the wait between flashes, in ms.
	IntervalMin = 1500.0
	IntervalMax = 4000.0

	// frameMs is the 60fps frame length the fade rate is expressed in.
	frameMs = 16.0
)

// Band is one flash profile: how likely it is, how long it lasts and how
// bright it starts.
type Band struct {
	Probability   float64
	DurationMin   float64 // ms
	DurationMax   float64
	BrightnessMin float64
	BrightnessMax float64
}

// Bands are tried in order; their probabilities sum to 1.
var Bands = []Band{
	{Probability: 0.3, DurationMin: 150, DurationMax: 250, BrightnessMin: 0.7, BrightnessMax: 1.0},  // short, sharp
	{Probability: 0.3, DurationMin: 600, DurationMax: 1000, BrightnessMin: 0.5, BrightnessMax: 0.7}, // long, dim
	{Probability: 0.4, DurationMin: 300, DurationMax: 500, BrightnessMin: 0.6, BrightnessMax: 0.9},  // medium
}

// Flash describes a flash as it starts.
type Flash struct {
	DurationMs float64
	Brightness float64
}

// Lightning is the flash generator. The zero value is not usable; call New.
type Lightning struct {
	rng *rand.Rand

	timer      float64 // ms since last flash ended
	interval   float64 // ms until next flash
	state      State
	remaining  float64 // ms left in current flash
	brightness float64
	fadeRate   float64 // brightness lost per 16ms
}

// New creates a dormant generator with a freshly rolled interval.
func New(rng *rand.Rand) *Lightning {
	l := &Lightning{rng: rng}
	l.Reset()
	return l
}

// Reset returns to DORMANT with zero brightness and a new interval.
func (l *Lightning) Reset() {
	l.timer = 0
	l.state = Dormant
	l.remaining = 0
	l.brightness = 0
	l.fadeRate = 0
	l.interval = utils.RandRange(l.rng, IntervalMin, IntervalMax)
}

func (l *Lightning) State() State        { return l.state }
func (l *Lightning) Brightness() float64 { return l.brightness }
func (l *Lightning) Interval() float64   { return l.interval }
func (l *Lightning) Remaining() float64  { return l.remaining }

// Update advances the sub-process by elapsedMs. It returns the new flash
// when one starts during this step.
func (l *Lightning) Update(elapsedMs float64) (Flash, bool) {
	l.timer += elapsedMs

	switch l.state {
	case Flashing:
		l.remaining -= elapsedMs
		if l.remaining <= 0 {
			l.state = Dormant
			l.brightness = 0
			l.remaining = 0
			l.timer = 0
			l.interval = utils.RandRange(l.rng, IntervalMin, IntervalMax)
			return Flash{}, false
		}
		l.brightness -= l.fadeRate * (elapsedMs / frameMs)
		if l.brightness < 0 {
			l.brightness = 0
		}

	case Dormant:
		if l.timer >= l.interval {
			return l.trigger(), true
		}
	}
	return Flash{}, false
}

func (l *Lightning) trigger() Flash {
	band := l.pickBand()
	duration := utils.RandRange(l.rng, band.DurationMin, band.DurationMax)
	brightness := utils.RandRange(l.rng, band.BrightnessMin, band.BrightnessMax)

	l.state = Flashing
	l.remaining = duration
	l.brightness = brightness
	l.fadeRate = brightness / (duration / frameMs)

	return Flash{DurationMs: duration, Brightness: brightness}
}

func (l *Lightning) pickBand() Band {
	r := l.rng.Float64()
	acc := 0.0
	for _, b := range Bands {
		acc += b.Probability
		if r < acc {
			return b
		}
	}
	return Bands[len(Bands)-1]
}

// Draw paints the current flash. It does nothing while dormant.
//
// Two overlays cover the viewport: a bluish radial glow centered at a
// random point in the upper 30%, then a flat white wash. Both scale with
// brightness.
func (l *Lightning) Draw(c canvas.Canvas, width, height float64) {
	if l.state != Flashing || l.brightness <= 0 {
		return
	}

	x := l.rng.Float64() * width
	y := l.rng.Float64() * height * 0.3
	v := l.rng.Float64() * 30
	b := l.brightness

	g := canvas.NewRadialGradient(x, y, width*0.8).
		AddColorStop(0, canvas.RGB(255, channel(230+v), channel(220+v), b*0.4)).
		AddColorStop(0.3, canvas.RGB(240, channel(210+v), channel(200+v), b*0.25)).
		AddColorStop(0.7, canvas.RGB(200, channel(190+v), channel(180+v), b*0.1)).
		AddColorStop(1, canvas.RGB(180, 190, 210, 0))

	c.SetGlobalAlpha(1)
	c.FillRect(0, 0, width, height, canvas.Radial(g))
	c.FillRect(0, 0, width, height, canvas.Solid(canvas.RGB(255, 255, 255, b*0.15)))
}

func channel(v float64) uint8 {
	return uint8(utils.Clamp(v, 0, 255))
}
