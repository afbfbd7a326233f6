package canvas

// OpKind identifies a recorded draw call.
type OpKind string

const (
	OpClearRect  OpKind = "clearRect"
	OpFillArc    OpKind = "fillArc"
	OpStrokeArc  OpKind = "strokeArc"
	OpStrokeLine OpKind = "strokeLine"
	OpFillRect   OpKind = "fillRect"
	OpFillText   OpKind = "fillText"
)

// Op is one recorded draw call together with the context state in effect
// when it was issued.
type Op struct {
	Kind       OpKind
	X, Y       float64 // center for arcs, start for lines, origin for rects/text
	X1, Y1     float64 // end point for lines
	W, H       float64
	R          float64 // radius for arcs
	Width      float64 // stroke width
	Paint      Paint
	Text       string
	Alpha      float64 // global alpha
	ShadowBlur float64
	Scale      float64
}

// Recorder is a Canvas that keeps every draw call in memory. It also backs
// the headless host, so it honors the same state rules as a real context.
type Recorder struct {
	Ops []Op

	scale       float64
	alpha       float64
	shadowBlur  float64
	shadowColor RGBA
	transforms  int
}

// NewRecorder creates an empty Recorder with identity transform.
func NewRecorder() *Recorder {
	return &Recorder{scale: 1, alpha: 1}
}

func (r *Recorder) SetTransform(scale float64) {
	r.scale = scale
	r.transforms++
}

func (r *Recorder) Scale() float64 { return r.scale }

// TransformCalls returns how many times SetTransform was called.
func (r *Recorder) TransformCalls() int { return r.transforms }

func (r *Recorder) SetGlobalAlpha(alpha float64) { r.alpha = clamp01(alpha) }

// GlobalAlpha returns the current global alpha.
func (r *Recorder) GlobalAlpha() float64 { return r.alpha }

func (r *Recorder) SetShadow(blur float64, c RGBA) {
	if blur < 0 {
		blur = 0
	}
	r.shadowBlur = blur
	r.shadowColor = c
}

func (r *Recorder) ClearRect(x, y, w, h float64) {
	r.record(Op{Kind: OpClearRect, X: x, Y: y, W: w, H: h})
}

func (r *Recorder) FillArc(cx, cy, radius float64, p Paint) {
	r.record(Op{Kind: OpFillArc, X: cx, Y: cy, R: radius, Paint: p})
}

func (r *Recorder) StrokeArc(cx, cy, radius, width float64, p Paint) {
	r.record(Op{Kind: OpStrokeArc, X: cx, Y: cy, R: radius, Width: width, Paint: p})
}

func (r *Recorder) StrokeLine(x0, y0, x1, y1, width float64, p Paint) {
	r.record(Op{Kind: OpStrokeLine, X: x0, Y: y0, X1: x1, Y1: y1, Width: width, Paint: p})
}

func (r *Recorder) FillRect(x, y, w, h float64, p Paint) {
	r.record(Op{Kind: OpFillRect, X: x, Y: y, W: w, H: h, Paint: p})
}

func (r *Recorder) FillText(s string, x, y float64, c RGBA) {
	r.record(Op{Kind: OpFillText, X: x, Y: y, Text: s, Paint: Solid(c)})
}

// Reset drops recorded ops but keeps context state.
func (r *Recorder) Reset() {
	r.Ops = r.Ops[:0]
}

// Count returns how many ops of the given kind were recorded.
func (r *Recorder) Count(kind OpKind) int {
	n := 0
	for _, op := range r.Ops {
		if op.Kind == kind {
			n++
		}
	}
	return n
}

func (r *Recorder) record(op Op) {
	op.Alpha = r.alpha
	op.ShadowBlur = r.shadowBlur
	op.Scale = r.scale
	r.Ops = append(r.Ops, op)
}
