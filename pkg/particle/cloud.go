package particle

import (
	"math"
	"math/rand"

	"github.com/gonewx/weather-overlay/pkg/canvas"
	"github.com/gonewx/weather-overlay/pkg/config"
	"github.com/gonewx/weather-overlay/pkg/utils"
)

const (
	// cloudBand is the fraction of the viewport height clouds stay in.
	cloudBand = 0.3

	minPuffs      = 5
	extraPuffs    = 3 // puff count is minPuffs + [0, extraPuffs)
	puffRatioMin  = 0.4
	puffRatioMax  = 0.7
	puffSpreadX   = 0.4
	puffSpreadY   = 0.25
	cloudAlpha    = 0.6
	puffFadeAlpha = 0.02
)

var cloudEdge = canvas.RGB(180, 180, 180, 0)

// Cloud is a cluster of soft puffs drifting left to right.
//
// Puff layout is chosen once at creation; re-rolling it per frame makes the
// cloud flicker.
type Cloud struct {
	base
	Speed     float64
	Size      float64
	Sway      float64
	PuffSizes []float64
}

func newCloud(p config.EffectProfile, b Bounds, rng *rand.Rand) *Cloud {
	c := &Cloud{base: base{kind: p.Kind}}
	c.reset(p, b, rng)
	return c
}

func (c *Cloud) reset(p config.EffectProfile, b Bounds, rng *rand.Rand) {
	c.X = rng.Float64() * b.Width
	c.Y = rng.Float64() * b.Height * cloudBand
	c.Speed = utils.RandRange(rng, p.SpeedMin, p.SpeedMax)
	c.Size = utils.RandRange(rng, p.SizeMin, p.SizeMax)
	c.Sway = (rng.Float64() - 0.5) * p.SwayAmount
	c.Opacity = 0.5 + rng.Float64()*0.5

	count := minPuffs + rng.Intn(extraPuffs)
	c.PuffSizes = make([]float64, count)
	for i := range c.PuffSizes {
		c.PuffSizes[i] = utils.RandRange(rng, puffRatioMin, puffRatioMax)
	}
}

// PuffCount returns the number of puffs drawn for this cloud.
func (c *Cloud) PuffCount() int {
	return len(c.PuffSizes)
}

func (c *Cloud) update(dt float64, b Bounds, rng *rand.Rand) {
	c.X += c.Speed * dt
	// Undulation follows horizontal position, not time.
	c.Y += math.Sin(c.X*0.01) * 0.2 * dt

	if c.X > b.Width+c.Size {
		c.X = -c.Size
		c.Y = rng.Float64() * b.Height * cloudBand
	}
}

func (c *Cloud) draw(cv canvas.Canvas, p config.EffectProfile) {
	cv.SetGlobalAlpha(c.Opacity * cloudAlpha)

	n := float64(len(c.PuffSizes))
	for i, ratio := range c.PuffSizes {
		angle := float64(i) / n * math.Pi * 2
		px := c.X + math.Cos(angle)*c.Size*puffSpreadX
		py := c.Y + math.Sin(angle)*c.Size*puffSpreadY
		radius := c.Size * ratio

		g := canvas.NewRadialGradient(px, py, radius).
			AddColorStop(0, p.Color).
			AddColorStop(0.6, p.Color.WithAlpha(puffFadeAlpha)).
			AddColorStop(1, cloudEdge)
		cv.FillArc(px, py, radius, canvas.Radial(g))
	}
}
