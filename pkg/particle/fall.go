package particle

import (
	"math/rand"

	"github.com/gonewx/weather-overlay/pkg/canvas"
	"github.com/gonewx/weather-overlay/pkg/config"
	"github.com/gonewx/weather-overlay/pkg/utils"
)

const (
	// FallMargin is how far past the viewport edges a falling particle may
	// travel before it is recycled.
	FallMargin = 10.0
	// spawnY is where recycled drops re-enter, just above the viewport.
	spawnY = -10.0

	// mixedRainWidth thins the rain rendering of mixed precipitation.
	mixedRainWidth = 0.7
	// streakLength is the rain streak length per unit of size.
	streakLength = 4.0
)

// Fall is a rain drop, snow flake or mixed precipitation particle.
type Fall struct {
	base
	Speed float64
	Size  float64
	Sway  float64
}

func newFall(p config.EffectProfile, b Bounds, rng *rand.Rand) *Fall {
	f := &Fall{base: base{kind: p.Kind}}
	f.reset(p, b, rng)
	// The first generation is scattered over the whole viewport so the
	// effect does not start as a single band entering from the top.
	f.Y = rng.Float64() * b.Height
	return f
}

func (f *Fall) reset(p config.EffectProfile, b Bounds, rng *rand.Rand) {
	f.X = rng.Float64() * b.Width
	f.Y = spawnY
	f.Speed = utils.RandRange(rng, p.SpeedMin, p.SpeedMax)
	f.Size = utils.RandRange(rng, p.SizeMin, p.SizeMax)
	f.Sway = (rng.Float64() - 0.5) * p.SwayAmount
	f.Opacity = 0.5 + rng.Float64()*0.5
}

func (f *Fall) update(p config.EffectProfile, dt float64, b Bounds, rng *rand.Rand) {
	f.Y += f.Speed * dt
	f.X += f.Sway * dt

	if f.Y > b.Height+FallMargin {
		f.reset(p, b, rng)
	}
	if f.X < -FallMargin || f.X > b.Width+FallMargin {
		f.X = rng.Float64() * b.Width
	}
}

func (f *Fall) draw(c canvas.Canvas, p config.EffectProfile, rng *rand.Rand) {
	c.SetGlobalAlpha(f.Opacity)

	switch f.kind {
	case config.KindSnow:
		f.drawFlake(c, p)
	case config.KindRain:
		f.drawStreak(c, p, f.Size*streakLength*p.Length(), f.Size)
	case config.KindMixed:
		// Each draw call picks a rendering, so a particle may flip between
		// flake and streak from one frame to the next.
		if rng.Float64() > 0.5 {
			f.drawFlake(c, p)
		} else {
			f.drawStreak(c, p, f.Size*streakLength, f.Size*mixedRainWidth)
		}
	}
}

func (f *Fall) drawFlake(c canvas.Canvas, p config.EffectProfile) {
	c.FillArc(f.X, f.Y, f.Size, canvas.Solid(p.Color))
}

func (f *Fall) drawStreak(c canvas.Canvas, p config.EffectProfile, length, width float64) {
	c.StrokeLine(f.X, f.Y, f.X+f.Sway, f.Y+length, width, canvas.Solid(p.Color))
}
