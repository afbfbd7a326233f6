package particle

import (
	"math"
	"math/rand"

	"github.com/gonewx/weather-overlay/pkg/canvas"
	"github.com/gonewx/weather-overlay/pkg/config"
	"github.com/gonewx/weather-overlay/pkg/utils"
)

const (
	// StarCycle is the length of one twinkle cycle in phase units.
	StarCycle = 6.0
	// StarPhaseStep is added to the phase on every update call. It does not
	// scale with dt, so twinkle speed follows the frame count.
	StarPhaseStep = 0.016

	starInitialBand = 0.5
	starCycleBand   = 0.3
	starDrawAlpha   = 0.7
	starRadius      = 0.8
)

var (
	starFill   = canvas.RGB(255, 255, 255, 0.9)
	starShadow = canvas.RGB(200, 220, 255, 0.6)
)

// Star fades in, shines, fades out and stays dark, then reappears elsewhere.
type Star struct {
	base
	Size  float64
	Phase float64
}

func newStar(b Bounds, rng *rand.Rand) *Star {
	s := &Star{base: base{kind: config.KindStars}}
	s.reset(b, rng)
	s.Y = rng.Float64() * b.Height * starInitialBand
	return s
}

func (s *Star) reset(b Bounds, rng *rand.Rand) {
	s.X = rng.Float64() * b.Width
	s.Y = rng.Float64() * b.Height * starCycleBand
	s.Size = utils.RandRange(rng, 1, 2.5)
	s.Phase = rng.Float64() * StarCycle
	s.Opacity = 0
}

func (s *Star) update(b Bounds, rng *rand.Rand) {
	s.Phase += StarPhaseStep
	if s.Phase >= StarCycle {
		s.Phase = 0
		s.X = rng.Float64() * b.Width
		s.Y = rng.Float64() * b.Height * starCycleBand
	}
	s.Opacity = StarOpacity(s.Phase)
}

// StarOpacity maps a cycle phase to opacity:
//
//	[0,1)  fade in 0→1
//	[1,3)  shine, 0.8..1.0 with a gentle sine
//	[3,4)  fade out 1→0
//	[4,6)  dark
func StarOpacity(phase float64) float64 {
	switch {
	case phase < 0:
		return 0
	case phase < 1:
		return phase
	case phase < 3:
		return utils.Clamp(0.8+math.Sin((phase-1)*math.Pi)*0.2, 0.8, 1)
	case phase < 4:
		return 1 - (phase - 3)
	default:
		return 0
	}
}

func (s *Star) draw(c canvas.Canvas) {
	if s.Opacity <= 0 {
		return
	}
	c.SetGlobalAlpha(s.Opacity * starDrawAlpha)
	c.SetShadow(4+s.Opacity*3, starShadow)
	c.FillArc(s.X, s.Y, s.Size*starRadius, canvas.Solid(starFill))
	c.SetShadow(0, canvas.RGBA{})
}
