// Package ebitencanvas renders the overlay canvas onto an *ebiten.Image.
//
// Solid shapes go through ebiten's vector package. Gradients are built as
// triangle meshes with per-vertex colors and drawn with DrawTriangles
// against a white source, so the GPU interpolates between stops.
package ebitencanvas

import (
	"image"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"github.com/gonewx/weather-overlay/pkg/canvas"
)

const (
	// ringSegments is the number of slices around a radial mesh.
	ringSegments = 64
	// ringSteps is the number of evenly spaced rings added between stops.
	ringSteps = 12
	// gridCells is the mesh resolution per side for linear gradients.
	gridCells = 16
)

var (
	whiteImage    = ebiten.NewImage(3, 3)
	whiteSubImage = whiteImage.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
)

func init() {
	whiteImage.Fill(color.White)
}

// Canvas implements canvas.Canvas on top of an offscreen ebiten image sized
// in device pixels.
type Canvas struct {
	img  *ebiten.Image
	face text.Face

	scale       float64
	alpha       float64
	shadowBlur  float64
	shadowColor canvas.RGBA

	vs []ebiten.Vertex
	is []uint16
}

// New creates a w×h device-pixel canvas with identity transform.
func New(w, h int) *Canvas {
	return &Canvas{
		img:   ebiten.NewImage(max(w, 1), max(h, 1)),
		face:  text.NewGoXFace(basicfont.Face7x13),
		scale: 1,
		alpha: 1,
	}
}

// Image returns the backing image.
func (c *Canvas) Image() *ebiten.Image { return c.img }

// Resize replaces the backing image. Like an HTML canvas, the contents and
// transform are lost.
func (c *Canvas) Resize(w, h int) {
	b := c.img.Bounds()
	if b.Dx() == w && b.Dy() == h {
		c.img.Clear()
	} else {
		c.img.Deallocate()
		c.img = ebiten.NewImage(max(w, 1), max(h, 1))
	}
	c.scale = 1
}

// Dispose frees the GPU image.
func (c *Canvas) Dispose() {
	c.img.Deallocate()
}

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

func (c *Canvas) ClearRect(x, y, w, h float64) {
	s := c.scale
	r := image.Rect(int(x*s), int(y*s), int(math.Ceil((x+w)*s)), int(math.Ceil((y+h)*s)))
	if r.Intersect(c.img.Bounds()) == c.img.Bounds() {
		c.img.Clear()
		return
	}
	c.vs, c.is = c.vs[:0], c.is[:0]
	c.appendQuad(float32(r.Min.X), float32(r.Min.Y), float32(r.Max.X), float32(r.Max.Y), canvas.RGB(0, 0, 0, 1))
	c.img.DrawTriangles(c.vs, c.is, whiteSubImage, &ebiten.DrawTrianglesOptions{Blend: ebiten.BlendClear})
}

func (c *Canvas) FillArc(cx, cy, r float64, p canvas.Paint) {
	if r <= 0 {
		return
	}
	if c.shadowBlur > 0 && !c.shadowColor.Transparent() {
		c.drawGlow(cx, cy, r)
	}

	if g := p.Radial; g != nil {
		if g.CX == cx && g.CY == cy {
			c.fillRadial(c.img, g, r)
			return
		}
		p = canvas.Solid(g.At(cx, cy))
	} else if p.Linear != nil {
		p = canvas.Solid(p.Linear.At(cx, cy))
	}

	s := float32(c.scale)
	vector.DrawFilledCircle(c.img, float32(cx)*s, float32(cy)*s, float32(r)*s, p.Color.NRGBA(c.alpha), true)
}

func (c *Canvas) StrokeArc(cx, cy, r, width float64, p canvas.Paint) {
	s := float32(c.scale)
	vector.StrokeCircle(c.img, float32(cx)*s, float32(cy)*s, float32(r)*s, float32(width)*s,
		p.Representative().NRGBA(c.alpha), true)
}

func (c *Canvas) StrokeLine(x0, y0, x1, y1, width float64, p canvas.Paint) {
	s := float32(c.scale)
	vector.StrokeLine(c.img, float32(x0)*s, float32(y0)*s, float32(x1)*s, float32(y1)*s, float32(width)*s,
		p.Representative().NRGBA(c.alpha), true)
}

func (c *Canvas) FillRect(x, y, w, h float64, p canvas.Paint) {
	s := c.scale
	switch {
	case p.Radial != nil:
		clip := image.Rect(int(x*s), int(y*s), int(math.Ceil((x+w)*s)), int(math.Ceil((y+h)*s)))
		dst, ok := c.img.SubImage(clip).(*ebiten.Image)
		if !ok || clip.Empty() {
			return
		}
		// Cover the rect with rings out to its farthest corner.
		g := p.Radial
		reach := math.Max(
			math.Max(math.Hypot(x-g.CX, y-g.CY), math.Hypot(x+w-g.CX, y-g.CY)),
			math.Max(math.Hypot(x-g.CX, y+h-g.CY), math.Hypot(x+w-g.CX, y+h-g.CY)),
		)
		c.fillRadial(dst, g, reach)
	case p.Linear != nil:
		c.fillLinear(x, y, w, h, p.Linear)
	default:
		fs := float32(s)
		vector.DrawFilledRect(c.img, float32(x)*fs, float32(y)*fs, float32(w)*fs, float32(h)*fs, p.Color.NRGBA(c.alpha), false)
	}
}

// FillText draws s with its baseline at y.
func (c *Canvas) FillText(s string, x, y float64, col canvas.RGBA) {
	ascent := c.face.Metrics().HAscent
	op := &text.DrawOptions{}
	op.GeoM.Scale(c.scale, c.scale)
	op.GeoM.Translate(x*c.scale, (y-ascent)*c.scale)
	op.ColorScale.ScaleWithColor(col.NRGBA(c.alpha))
	text.Draw(c.img, s, c.face, op)
}

// drawGlow paints a soft halo of shadowBlur around a disc of radius r.
func (c *Canvas) drawGlow(cx, cy, r float64) {
	outer := r + c.shadowBlur
	g := canvas.NewRadialGradient(cx, cy, outer).
		AddColorStop(0, c.shadowColor).
		AddColorStop(r/outer, c.shadowColor).
		AddColorStop(1, c.shadowColor.WithAlpha(0))
	c.fillRadial(c.img, g, outer)
}

// fillRadial draws the gradient as concentric rings out to reach (logical
// units). Beyond the gradient radius the last stop color continues.
func (c *Canvas) fillRadial(dst *ebiten.Image, g *canvas.RadialGradient, reach float64) {
	if reach <= 0 || g.Radius <= 0 {
		return
	}

	radii := ringRadii(g, reach)
	s := c.scale
	c.vs, c.is = c.vs[:0], c.is[:0]

	for _, rad := range radii {
		col := g.SampleOffset(rad / g.Radius)
		cr, cg, cb, ca := vertexColor(col, c.alpha)
		for j := 0; j < ringSegments; j++ {
			a := 2 * math.Pi * float64(j) / ringSegments
			c.vs = append(c.vs, ebiten.Vertex{
				DstX:   float32((g.CX + rad*math.Cos(a)) * s),
				DstY:   float32((g.CY + rad*math.Sin(a)) * s),
				SrcX:   1,
				SrcY:   1,
				ColorR: cr,
				ColorG: cg,
				ColorB: cb,
				ColorA: ca,
			})
		}
	}

	for k := 0; k+1 < len(radii); k++ {
		inner := uint16(k * ringSegments)
		outer := uint16((k + 1) * ringSegments)
		for j := uint16(0); j < ringSegments; j++ {
			next := (j + 1) % ringSegments
			c.is = append(c.is,
				inner+j, outer+j, outer+next,
				inner+j, outer+next, inner+next,
			)
		}
	}

	dst.DrawTriangles(c.vs, c.is, whiteSubImage, &ebiten.DrawTrianglesOptions{AntiAlias: true})
}

// ringRadii returns increasing radii from 0 to reach: every stop, evenly
// spaced steps in between, and reach itself.
func ringRadii(g *canvas.RadialGradient, reach float64) []float64 {
	limit := math.Min(reach, g.Radius)
	radii := make([]float64, 0, ringSteps+len(g.Stops)+2)
	radii = append(radii, 0)

	si := 0
	for i := 1; i <= ringSteps; i++ {
		step := limit * float64(i) / ringSteps
		for si < len(g.Stops) && g.Stops[si].Offset*g.Radius < step {
			if r := g.Stops[si].Offset * g.Radius; r > radii[len(radii)-1] {
				radii = append(radii, r)
			}
			si++
		}
		if step > radii[len(radii)-1] {
			radii = append(radii, step)
		}
	}
	if reach > radii[len(radii)-1] {
		radii = append(radii, reach)
	}
	return radii
}

func (c *Canvas) fillLinear(x, y, w, h float64, g *canvas.LinearGradient) {
	s := c.scale
	c.vs, c.is = c.vs[:0], c.is[:0]

	for row := 0; row <= gridCells; row++ {
		py := y + h*float64(row)/gridCells
		for col := 0; col <= gridCells; col++ {
			px := x + w*float64(col)/gridCells
			cr, cg, cb, ca := vertexColor(g.At(px, py), c.alpha)
			c.vs = append(c.vs, ebiten.Vertex{
				DstX: float32(px * s), DstY: float32(py * s),
				SrcX: 1, SrcY: 1,
				ColorR: cr, ColorG: cg, ColorB: cb, ColorA: ca,
			})
		}
	}
	const stride = gridCells + 1
	for row := 0; row < gridCells; row++ {
		for col := 0; col < gridCells; col++ {
			i := uint16(row*stride + col)
			c.is = append(c.is, i, i+1, i+stride, i+1, i+stride+1, i+stride)
		}
	}

	c.img.DrawTriangles(c.vs, c.is, whiteSubImage, nil)
}

func (c *Canvas) appendQuad(x0, y0, x1, y1 float32, col canvas.RGBA) {
	cr, cg, cb, ca := vertexColor(col, 1)
	base := uint16(len(c.vs))
	for _, p := range [4][2]float32{{x0, y0}, {x1, y0}, {x0, y1}, {x1, y1}} {
		c.vs = append(c.vs, ebiten.Vertex{
			DstX: p[0], DstY: p[1],
			SrcX: 1, SrcY: 1,
			ColorR: cr, ColorG: cg, ColorB: cb, ColorA: ca,
		})
	}
	c.is = append(c.is, base, base+1, base+2, base+1, base+3, base+2)
}

// vertexColor converts to straight-alpha vertex color components.
func vertexColor(col canvas.RGBA, alpha float64) (r, g, b, a float32) {
	return float32(col.R) / 255, float32(col.G) / 255, float32(col.B) / 255,
		float32(math.Max(0, math.Min(1, col.A*alpha)))
}
