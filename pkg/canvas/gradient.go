package canvas

import (
	"math"
	"sort"
)

// ColorStop is one stop of a gradient. Offset is in [0, 1].
type ColorStop struct {
	Offset float64
	Color  RGBA
}

// gradientStops keeps stops ordered by offset and samples between them.
type gradientStops []ColorStop

func (s gradientStops) sample(t float64) RGBA {
	if len(s) == 0 {
		return RGBA{}
	}
	if t <= s[0].Offset {
		return s[0].Color
	}
	last := s[len(s)-1]
	if t >= last.Offset {
		return last.Color
	}
	for i := 1; i < len(s); i++ {
		if t <= s[i].Offset {
			prev := s[i-1]
			span := s[i].Offset - prev.Offset
			if span <= 0 {
				return s[i].Color
			}
			return prev.Color.Lerp(s[i].Color, (t-prev.Offset)/span)
		}
	}
	return last.Color
}

func (s *gradientStops) add(offset float64, c RGBA) {
	*s = append(*s, ColorStop{Offset: clamp01(offset), Color: c})
	sort.SliceStable(*s, func(i, j int) bool { return (*s)[i].Offset < (*s)[j].Offset })
}

// RadialGradient is a gradient between a center point (radius 0) and a
// circle of Radius, matching createRadialGradient(x, y, 0, x, y, r).
type RadialGradient struct {
	CX, CY, Radius float64
	Stops          []ColorStop
}

// NewRadialGradient creates a radial gradient with no stops.
func NewRadialGradient(cx, cy, radius float64) *RadialGradient {
	return &RadialGradient{CX: cx, CY: cy, Radius: radius}
}

// AddColorStop adds a stop, keeping stops ordered.
func (g *RadialGradient) AddColorStop(offset float64, c RGBA) *RadialGradient {
	stops := gradientStops(g.Stops)
	stops.add(offset, c)
	g.Stops = stops
	return g
}

// At returns the gradient color at a logical point.
func (g *RadialGradient) At(x, y float64) RGBA {
	if g.Radius <= 0 {
		return gradientStops(g.Stops).sample(1)
	}
	d := math.Hypot(x-g.CX, y-g.CY) / g.Radius
	return gradientStops(g.Stops).sample(d)
}

// SampleOffset returns the gradient color at a normalized distance.
func (g *RadialGradient) SampleOffset(t float64) RGBA {
	return gradientStops(g.Stops).sample(t)
}

// LinearGradient interpolates along the segment (X0,Y0)-(X1,Y1).
type LinearGradient struct {
	X0, Y0, X1, Y1 float64
	Stops          []ColorStop
}

// NewLinearGradient creates a linear gradient with no stops.
func NewLinearGradient(x0, y0, x1, y1 float64) *LinearGradient {
	return &LinearGradient{X0: x0, Y0: y0, X1: x1, Y1: y1}
}

// AddColorStop adds a stop, keeping stops ordered.
func (g *LinearGradient) AddColorStop(offset float64, c RGBA) *LinearGradient {
	stops := gradientStops(g.Stops)
	stops.add(offset, c)
	g.Stops = stops
	return g
}

// At projects the point onto the gradient axis and samples there.
func (g *LinearGradient) At(x, y float64) RGBA {
	dx, dy := g.X1-g.X0, g.Y1-g.Y0
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return gradientStops(g.Stops).sample(0)
	}
	t := ((x-g.X0)*dx + (y-g.Y0)*dy) / lenSq
	return gradientStops(g.Stops).sample(t)
}
