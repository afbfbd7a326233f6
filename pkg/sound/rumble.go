// Package sound synthesizes and plays thunder after lightning flashes.
package sound

import (
	"math"
	"math/rand"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"

	"github.com/gonewx/weather-overlay/pkg/utils"
)

// Rumble is a finite thunder streamer: low-passed noise with a slow
// sub-bass wobble under an attack/decay envelope.
type Rumble struct {
	rate    beep.SampleRate
	rng     *rand.Rand
	pos     int
	total   int
	attack  int
	low     float64 // one-pole low-pass state
	lowGain float64
	crack   float64 // how much unfiltered noise leaks in at the start
}

// NewRumble creates a rumble lasting duration. Brightness in [0, 1] makes
// the start sharper; bright flashes crack, dim ones only roll.
func NewRumble(rate beep.SampleRate, duration time.Duration, brightness float64, rng *rand.Rand) *Rumble {
	return &Rumble{
		rate:    rate,
		rng:     rng,
		total:   rate.N(duration),
		attack:  rate.N(30 * time.Millisecond),
		lowGain: 0.02,
		crack:   utils.Clamp(brightness, 0, 1) * 0.4,
	}
}

// Len returns the total number of samples.
func (r *Rumble) Len() int { return r.total }

func (r *Rumble) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if r.pos >= r.total {
			return i, i > 0
		}

		white := r.rng.Float64()*2 - 1
		r.low += (white - r.low) * r.lowGain

		t := float64(r.pos) / float64(r.rate)
		progress := float64(r.pos) / float64(r.total)

		env := math.Exp(-progress * 4)
		if r.pos < r.attack {
			env *= utils.EaseOutQuad(float64(r.pos) / float64(r.attack))
		}

		wobble := 0.3 * math.Sin(2*math.Pi*38*t) * (1 - progress)
		crack := r.crack * white * math.Exp(-t*12)

		v := env * (8*r.low + wobble + crack)
		v = utils.Clamp(v, -1, 1)

		samples[i][0] = v
		samples[i][1] = v
		r.pos++
	}
	return len(samples), true
}

func (r *Rumble) Err() error { return nil }

// newVolume scales a streamer linearly; zero volume is silent.
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol), Silent: false}
}
