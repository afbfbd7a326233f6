// Package particle implements the animated units of a weather effect.
//
// Particles form a closed set of variants:
//
//	*Fall   rain, snow and mixed precipitation
//	*Cloud  drifting puff clusters (clouds, fog)
//	*Star   twinkling points on a fixed fade cycle
//
// Update and Draw dispatch over the variant with a type switch. A particle's
// kind is fixed at creation; Reset re-randomizes kinematics only.
//
// All update steps take dt in 60fps-equivalent frames (elapsedMs/16), so a
// particle covers the same distance per second at any frame rate.
package particle

import (
	"math/rand"

	"github.com/gonewx/weather-overlay/pkg/canvas"
	"github.com/gonewx/weather-overlay/pkg/config"
)

// Bounds is the logical viewport the particles live in.
type Bounds struct {
	Width, Height float64
}

// Particle is one animated unit. The interface is sealed.
type Particle interface {
	Kind() config.Kind
	Position() (x, y float64)
	Alpha() float64
	isParticle()
}

// base holds the attributes every variant shares.
type base struct {
	kind    config.Kind
	X, Y    float64
	Opacity float64
}

func (b *base) Kind() config.Kind        { return b.kind }
func (b *base) Position() (x, y float64) { return b.X, b.Y }
func (b *base) Alpha() float64           { return b.Opacity }
func (b *base) isParticle()              {}

// New creates a particle for the profile's kind. It returns nil for kinds
// that carry no particles (sunny, lightning).
func New(p config.EffectProfile, b Bounds, rng *rand.Rand) Particle {
	switch p.Kind {
	case config.KindRain, config.KindSnow, config.KindMixed:
		return newFall(p, b, rng)
	case config.KindClouds:
		return newCloud(p, b, rng)
	case config.KindStars:
		return newStar(b, rng)
	}
	return nil
}

// NewPool builds a pool of exactly p.MaxParticles particles. Kinds without
// particles yield an empty pool.
func NewPool(p config.EffectProfile, b Bounds, rng *rand.Rand) []Particle {
	if !p.Kind.HasParticles() || p.MaxParticles <= 0 {
		return nil
	}
	pool := make([]Particle, 0, p.MaxParticles)
	for i := 0; i < p.MaxParticles; i++ {
		pool = append(pool, New(p, b, rng))
	}
	return pool
}

// Reset re-randomizes a particle's kinematic state, keeping its kind.
func Reset(pt Particle, p config.EffectProfile, b Bounds, rng *rand.Rand) {
	switch v := pt.(type) {
	case *Fall:
		v.reset(p, b, rng)
	case *Cloud:
		v.reset(p, b, rng)
	case *Star:
		v.reset(b, rng)
	}
}

// Update advances a particle by dt frames.
func Update(pt Particle, p config.EffectProfile, dt float64, b Bounds, rng *rand.Rand) {
	switch v := pt.(type) {
	case *Fall:
		v.update(p, dt, b, rng)
	case *Cloud:
		v.update(dt, b, rng)
	case *Star:
		v.update(b, rng)
	}
}

// Draw paints a particle and leaves the canvas global alpha at 1.
func Draw(pt Particle, c canvas.Canvas, p config.EffectProfile, rng *rand.Rand) {
	switch v := pt.(type) {
	case *Fall:
		v.draw(c, p, rng)
	case *Cloud:
		v.draw(c, p)
	case *Star:
		v.draw(c)
	}
	c.SetGlobalAlpha(1)
}
