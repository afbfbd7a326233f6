// Package canvas defines the 2D drawing surface the overlay renders onto.
//
// Coordinates passed to a Canvas are logical viewport units. Each backend
// multiplies them by the current transform scale (the device pixel ratio)
// before touching physical pixels, the same way a browser 2D context behaves
// after ctx.setTransform(dpr, 0, 0, dpr, 0, 0).
//
// Backends:
//   - ebitencanvas: GPU rendering into an *ebiten.Image
//   - raster: software rendering into a coarse sample grid (terminal output)
//   - Recorder: records draw calls, used by tests and headless runs
package canvas

// Canvas is the subset of a 2D context the overlay needs.
//
// State (global alpha, shadow) persists across calls until changed, like a
// browser context. Callers reset it themselves.
type Canvas interface {
	// SetTransform replaces the current transform with a uniform scale.
	// It never multiplies onto the previous one.
	SetTransform(scale float64)
	// Scale returns the current transform scale.
	Scale() float64

	// ClearRect makes the rectangle fully transparent.
	ClearRect(x, y, w, h float64)

	// SetGlobalAlpha sets the alpha multiplier applied to every draw.
	SetGlobalAlpha(alpha float64)
	// SetShadow configures a soft glow drawn behind filled shapes.
	// blur <= 0 disables it.
	SetShadow(blur float64, c RGBA)

	FillArc(cx, cy, r float64, p Paint)
	StrokeArc(cx, cy, r, width float64, p Paint)
	StrokeLine(x0, y0, x1, y1, width float64, p Paint)
	FillRect(x, y, w, h float64, p Paint)
	FillText(s string, x, y float64, c RGBA)
}

// Paint is either a solid color or a gradient. A zero gradient pointer means
// solid.
type Paint struct {
	Color  RGBA
	Radial *RadialGradient
	Linear *LinearGradient
}

// Solid returns a solid-color paint.
func Solid(c RGBA) Paint {
	return Paint{Color: c}
}

// Radial returns a radial-gradient paint.
func Radial(g *RadialGradient) Paint {
	return Paint{Radial: g}
}

// Linear returns a linear-gradient paint.
func Linear(g *LinearGradient) Paint {
	return Paint{Linear: g}
}

// At resolves the paint color at a logical point.
func (p Paint) At(x, y float64) RGBA {
	switch {
	case p.Radial != nil:
		return p.Radial.At(x, y)
	case p.Linear != nil:
		return p.Linear.At(x, y)
	default:
		return p.Color
	}
}

// Representative returns a single color standing in for the paint, used by
// backends for primitives that cannot carry a gradient (strokes, text).
func (p Paint) Representative() RGBA {
	switch {
	case p.Radial != nil && len(p.Radial.Stops) > 0:
		return p.Radial.Stops[0].Color
	case p.Linear != nil && len(p.Linear.Stops) > 0:
		return p.Linear.Stops[0].Color
	default:
		return p.Color
	}
}
