package raster

import (
	"math"
	"testing"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/gonewx/weather-overlay/pkg/canvas"
)

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-3 }

func TestFillRect_Solid(t *testing.T) {
	c := New(4, 4, 8)
	c.FillRect(0, 0, 32, 32, canvas.Solid(canvas.RGB(255, 0, 0, 1)))

	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			s := c.At(col, row)
			if !approx(s.Alpha, 1) || !s.Color.AlmostEqualRgb(colorful.Color{R: 1}) {
				t.Fatalf("sample (%d,%d) = %+v", col, row, s)
			}
		}
	}
	if s := c.At(4, 0); s.Alpha != 0 {
		t.Errorf("out of range sample = %+v", s)
	}
}

func TestBlend_Over(t *testing.T) {
	c := New(1, 1, 8)
	c.FillRect(0, 0, 8, 8, canvas.Solid(canvas.RGB(255, 0, 0, 0.5)))
	c.FillRect(0, 0, 8, 8, canvas.Solid(canvas.RGB(0, 0, 255, 0.5)))

	s := c.At(0, 0)
	if !approx(s.Alpha, 0.75) {
		t.Errorf("alpha = %v, want 0.75", s.Alpha)
	}
	want := colorful.Color{R: 1.0 / 3, B: 2.0 / 3}
	if !s.Color.AlmostEqualRgb(want) {
		t.Errorf("color = %+v, want %+v", s.Color, want)
	}
}

func TestGlobalAlpha(t *testing.T) {
	c := New(1, 1, 8)
	c.SetGlobalAlpha(0.5)
	c.FillRect(0, 0, 8, 8, canvas.Solid(canvas.RGB(255, 255, 255, 0.8)))

	if s := c.At(0, 0); !approx(s.Alpha, 0.4) {
		t.Errorf("alpha = %v, want 0.4", s.Alpha)
	}
}

func TestFillArc_SmallShapeUsesCoverage(t *testing.T) {
	c := New(4, 4, 8)
	c.FillArc(12, 12, 1, canvas.Solid(canvas.RGB(255, 255, 255, 1)))

	s := c.At(1, 1)
	want := math.Pi / 64
	if !approx(s.Alpha, want) {
		t.Errorf("alpha = %v, want %v", s.Alpha, want)
	}
	if c.At(0, 0).Alpha != 0 || c.At(2, 2).Alpha != 0 {
		t.Error("small arc spilled into neighbours")
	}
}

func TestFillArc_LargeDisc(t *testing.T) {
	c := New(10, 10, 8)
	c.FillArc(40, 40, 20, canvas.Solid(canvas.RGB(0, 255, 0, 1)))

	if c.At(5, 5).Alpha != 1 {
		t.Error("center not filled")
	}
	if c.At(0, 0).Alpha != 0 || c.At(9, 9).Alpha != 0 {
		t.Error("corners filled")
	}
}

func TestFillArc_RadialGradient(t *testing.T) {
	c := New(10, 1, 8)
	g := canvas.NewRadialGradient(4, 4, 80).
		AddColorStop(0, canvas.RGB(255, 255, 255, 1)).
		AddColorStop(1, canvas.RGB(255, 255, 255, 0))
	c.FillRect(0, 0, 80, 8, canvas.Radial(g))

	prev := 2.0
	for col := 0; col < 10; col++ {
		a := c.At(col, 0).Alpha
		if a >= prev {
			t.Fatalf("alpha not decreasing with distance at col %d: %v >= %v", col, a, prev)
		}
		prev = a
	}
}

func TestStrokeLine_TouchesEachSampleOnce(t *testing.T) {
	c := New(2, 8, 8)
	c.StrokeLine(4, 0, 4, 40, 8, canvas.Solid(canvas.RGB(255, 255, 255, 0.5)))

	for row := 0; row <= 5; row++ {
		if a := c.At(0, row).Alpha; !approx(a, 0.5) {
			t.Errorf("row %d alpha = %v, want 0.5", row, a)
		}
	}
	if a := c.At(0, 6).Alpha; a != 0 {
		t.Errorf("row 6 alpha = %v, want 0", a)
	}
	if a := c.At(1, 0).Alpha; a != 0 {
		t.Errorf("col 1 alpha = %v, want 0", a)
	}
}

func TestTransform(t *testing.T) {
	c := New(4, 4, 8)
	c.SetTransform(2)
	c.SetTransform(2)
	c.FillRect(0, 0, 4, 4, canvas.Solid(canvas.RGB(255, 255, 255, 1)))

	if c.At(0, 0).Alpha != 1 {
		t.Error("sample (0,0) not filled")
	}
	if c.At(1, 0).Alpha != 0 || c.At(0, 1).Alpha != 0 {
		t.Error("transform compounded")
	}
}

func TestClearRect_DropsSamplesAndText(t *testing.T) {
	c := New(4, 4, 8)
	c.FillRect(0, 0, 32, 32, canvas.Solid(canvas.RGB(255, 255, 255, 1)))
	c.FillText("rainy", 8, 28, canvas.RGB(255, 255, 255, 1))

	if runs := c.Texts(); len(runs) != 1 || runs[0].Col != 1 || runs[0].Row != 3 {
		t.Fatalf("Texts() = %+v", runs)
	}

	c.ClearRect(0, 0, 32, 32)

	if c.At(2, 2).Alpha != 0 {
		t.Error("sample not cleared")
	}
	if len(c.Texts()) != 0 {
		t.Error("text not cleared")
	}
}

func TestResize(t *testing.T) {
	c := New(2, 2, 8)
	c.SetTransform(3)
	c.Resize(5, 3)

	if cols, rows := c.Size(); cols != 5 || rows != 3 {
		t.Errorf("Size() = %d,%d", cols, rows)
	}
	if c.Scale() != 1 {
		t.Errorf("Scale() = %v after resize, want 1", c.Scale())
	}
}

func TestOver(t *testing.T) {
	bg := colorful.Color{}
	if got := Over(Sample{}, bg); got != bg {
		t.Errorf("empty sample = %+v", got)
	}
	got := Over(Sample{Color: colorful.Color{R: 1, G: 1, B: 1}, Alpha: 0.5}, bg)
	if !got.AlmostEqualRgb(colorful.Color{R: 0.5, G: 0.5, B: 0.5}) {
		t.Errorf("half white over black = %+v", got)
	}
}
