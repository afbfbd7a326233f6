// Package raster is a software canvas.Canvas backed by a coarse grid of
// color samples. The terminal host renders it with half-block characters,
// one sample per half cell.
//
// Each sample covers Cell×Cell device pixels and takes the color at its
// center. Shapes smaller than a sample are drawn into the sample under
// their center with alpha scaled by their area, so sparse rain and stars
// stay visible instead of vanishing between sample points.
package raster

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/gonewx/weather-overlay/pkg/canvas"
)

// Sample is one grid cell: a color and its straight alpha.
type Sample struct {
	Color colorful.Color
	Alpha float64
}

// TextRun is text queued by FillText, positioned in grid coordinates.
type TextRun struct {
	Text     string
	Col, Row int
	Color    canvas.RGBA
}

// Canvas is a cols×rows sample grid.
type Canvas struct {
	cols, rows int
	cell       float64
	samples    []Sample
	texts      []TextRun

	scale       float64
	alpha       float64
	shadowBlur  float64
	shadowColor canvas.RGBA
}

// New creates a transparent grid. cell is the number of device pixels one
// sample spans.
func New(cols, rows int, cell float64) *Canvas {
	if cell <= 0 {
		cell = 1
	}
	c := &Canvas{cell: cell, scale: 1, alpha: 1}
	c.Resize(cols, rows)
	return c
}

// Resize reallocates the grid. Contents and transform are lost.
func (c *Canvas) Resize(cols, rows int) {
	c.cols, c.rows = max(cols, 0), max(rows, 0)
	c.samples = make([]Sample, c.cols*c.rows)
	c.texts = nil
	c.scale = 1
}

// Size returns the grid dimensions.
func (c *Canvas) Size() (cols, rows int) { return c.cols, c.rows }

// At returns the sample at (col, row). Out of range samples are transparent.
func (c *Canvas) At(col, row int) Sample {
	if col < 0 || row < 0 || col >= c.cols || row >= c.rows {
		return Sample{}
	}
	return c.samples[row*c.cols+col]
}

// Texts returns text queued since the area it sits on was last cleared.
func (c *Canvas) Texts() []TextRun { return c.texts }

func (c *Canvas) SetTransform(scale float64) {
	if scale <= 0 {
		scale = 1
	}
	c.scale = scale
}

func (c *Canvas) Scale() float64 { return c.scale }

func (c *Canvas) SetGlobalAlpha(alpha float64) {
	c.alpha = math.Max(0, math.Min(1, alpha))
}

func (c *Canvas) SetShadow(blur float64, col canvas.RGBA) {
	c.shadowBlur = math.Max(0, blur)
	c.shadowColor = col
}

// toGrid converts a logical coordinate to fractional grid units.
func (c *Canvas) toGrid(v float64) float64 { return v * c.scale / c.cell }

// center returns the logical coordinate of a sample center.
func (c *Canvas) center(i int) float64 { return (float64(i) + 0.5) * c.cell / c.scale }

func (c *Canvas) ClearRect(x, y, w, h float64) {
	c0, r0, c1, r1 := c.span(x, y, x+w, y+h)
	for row := r0; row < r1; row++ {
		for col := c0; col < c1; col++ {
			c.samples[row*c.cols+col] = Sample{}
		}
	}

	kept := c.texts[:0]
	for _, t := range c.texts {
		if t.Row < r0 || t.Row >= r1 {
			kept = append(kept, t)
		}
	}
	c.texts = kept
}

func (c *Canvas) FillArc(cx, cy, r float64, p canvas.Paint) {
	if r <= 0 {
		return
	}
	if c.shadowBlur > 0 && !c.shadowColor.Transparent() {
		c.fillDisc(cx, cy, r+c.shadowBlur, func(float64, float64) canvas.RGBA {
			return c.shadowColor.WithAlpha(c.shadowColor.A * 0.5)
		})
	}
	c.fillDisc(cx, cy, r, p.At)
}

func (c *Canvas) fillDisc(cx, cy, r float64, paint func(x, y float64) canvas.RGBA) {
	gr := c.toGrid(r)
	if gr < 0.5 {
		coverage := math.Pi * gr * gr
		c.plot(c.toGrid(cx), c.toGrid(cy), paint(cx, cy), math.Min(1, coverage))
		return
	}

	c0, r0, c1, r1 := c.span(cx-r, cy-r, cx+r, cy+r)
	for row := r0; row < r1; row++ {
		y := c.center(row)
		for col := c0; col < c1; col++ {
			x := c.center(col)
			if math.Hypot(x-cx, y-cy) <= r {
				c.blend(col, row, paint(x, y), 1)
			}
		}
	}
}

func (c *Canvas) StrokeArc(cx, cy, r, width float64, p canvas.Paint) {
	half := width / 2
	c0, r0, c1, r1 := c.span(cx-r-half, cy-r-half, cx+r+half, cy+r+half)
	for row := r0; row < r1; row++ {
		y := c.center(row)
		for col := c0; col < c1; col++ {
			x := c.center(col)
			if d := math.Hypot(x-cx, y-cy); math.Abs(d-r) <= math.Max(half, c.cell/c.scale/2) {
				c.blend(col, row, p.At(x, y), math.Min(1, c.toGrid(width)))
			}
		}
	}
}

// StrokeLine walks the segment in half-sample steps and touches each
// sample once.
func (c *Canvas) StrokeLine(x0, y0, x1, y1, width float64, p canvas.Paint) {
	gx0, gy0, gx1, gy1 := c.toGrid(x0), c.toGrid(y0), c.toGrid(x1), c.toGrid(y1)
	steps := int(math.Ceil(math.Hypot(gx1-gx0, gy1-gy0)*2)) + 1
	coverage := math.Min(1, c.toGrid(width))

	seen := make(map[int]struct{}, steps)
	for i := 0; i < steps; i++ {
		t := 0.0
		if steps > 1 {
			t = float64(i) / float64(steps-1)
		}
		gx := gx0 + (gx1-gx0)*t
		gy := gy0 + (gy1-gy0)*t
		col, row := int(math.Floor(gx)), int(math.Floor(gy))
		if !c.inside(col, row) {
			continue
		}
		idx := row*c.cols + col
		if _, ok := seen[idx]; ok {
			continue
		}
		seen[idx] = struct{}{}
		c.blend(col, row, p.At(x0+(x1-x0)*t, y0+(y1-y0)*t), coverage)
	}
}

func (c *Canvas) FillRect(x, y, w, h float64, p canvas.Paint) {
	c0, r0, c1, r1 := c.span(x, y, x+w, y+h)
	for row := r0; row < r1; row++ {
		cy := c.center(row)
		for col := c0; col < c1; col++ {
			c.blend(col, row, p.At(c.center(col), cy), 1)
		}
	}
}

// FillText queues s for the host to print at the cell holding (x, y).
func (c *Canvas) FillText(s string, x, y float64, col canvas.RGBA) {
	if s == "" {
		return
	}
	c.texts = append(c.texts, TextRun{
		Text:  s,
		Col:   int(math.Floor(c.toGrid(x))),
		Row:   min(int(math.Floor(c.toGrid(y))), c.rows-1),
		Color: col.WithAlpha(col.A * c.alpha),
	})
}

// span returns the sample index range whose centers may fall inside the
// logical rectangle, clipped to the grid.
func (c *Canvas) span(x0, y0, x1, y1 float64) (c0, r0, c1, r1 int) {
	c0 = clampIndex(int(math.Floor(c.toGrid(x0))), c.cols)
	r0 = clampIndex(int(math.Floor(c.toGrid(y0))), c.rows)
	c1 = clampIndex(int(math.Ceil(c.toGrid(x1))), c.cols)
	r1 = clampIndex(int(math.Ceil(c.toGrid(y1))), c.rows)
	return
}

func (c *Canvas) inside(col, row int) bool {
	return col >= 0 && row >= 0 && col < c.cols && row < c.rows
}

func (c *Canvas) plot(gx, gy float64, col canvas.RGBA, coverage float64) {
	ci, ri := int(math.Floor(gx)), int(math.Floor(gy))
	if c.inside(ci, ri) {
		c.blend(ci, ri, col, coverage)
	}
}

// blend composites src over the sample with straight-alpha "over".
func (c *Canvas) blend(col, row int, src canvas.RGBA, coverage float64) {
	sa := src.A * c.alpha * coverage
	if sa <= 0 {
		return
	}
	dst := &c.samples[row*c.cols+col]
	outA := sa + dst.Alpha*(1-sa)
	if dst.Alpha <= 0 {
		dst.Color = src.Colorful()
	} else {
		dst.Color = dst.Color.BlendRgb(src.Colorful(), sa/outA)
	}
	dst.Alpha = outA
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i > n {
		return n
	}
	return i
}

// Over composites a sample onto an opaque background.
func Over(s Sample, bg colorful.Color) colorful.Color {
	if s.Alpha <= 0 {
		return bg
	}
	return bg.BlendRgb(s.Color, math.Min(1, s.Alpha))
}
