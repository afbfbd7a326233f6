package lightning

import (
	"math/rand"
	"testing"

	"github.com/gonewx/weather-overlay/pkg/canvas"
)

func TestNew_StartsDormant(t *testing.T) {
	l := New(rand.New(rand.NewSource(1)))

	if l.State() != Dormant {
		t.Errorf("State() = %v, want dormant", l.State())
	}
	if l.Interval() < IntervalMin || l.Interval() >= IntervalMax {
		t.Errorf("Interval() = %v, want in [%v, %v)", l.Interval(), IntervalMin, IntervalMax)
	}
	if l.Brightness() != 0 {
		t.Errorf("Brightness() = %v, want 0", l.Brightness())
	}
}

func TestBands_SumToOne(t *testing.T) {
	sum := 0.0
	for _, b := range Bands {
		sum += b.Probability
	}
	if sum < 0.999999 || sum > 1.000001 {
		t.Errorf("band probabilities sum to %v", sum)
	}
}

// runUntilFlash steps in 16ms frames until a flash starts.
func runUntilFlash(t *testing.T, l *Lightning) Flash {
	t.Helper()
	for i := 0; i < 1000; i++ {
		if f, ok := l.Update(16); ok {
			return f
		}
	}
	t.Fatal("no flash within 16 seconds")
	return Flash{}
}

func TestFlash_TriggersAfterInterval(t *testing.T) {
	l := New(rand.New(rand.NewSource(2)))
	interval := l.Interval()

	elapsed := 0.0
	for {
		f, ok := l.Update(16)
		elapsed += 16
		if ok {
			if elapsed < interval {
				t.Fatalf("flash after %vms, before interval %vms", elapsed, interval)
			}
			if elapsed >= interval+16 {
				t.Fatalf("flash after %vms, more than a frame past interval %vms", elapsed, interval)
			}
			if f.DurationMs < 150 || f.DurationMs >= 1000 {
				t.Errorf("duration %v outside any band", f.DurationMs)
			}
			break
		}
	}
	if l.State() != Flashing {
		t.Errorf("State() = %v, want flashing", l.State())
	}
}

func TestFlash_BrightnessDecaysToZeroThenDormant(t *testing.T) {
	for seed := int64(0); seed < 50; seed++ {
		l := New(rand.New(rand.NewSource(seed)))
		f := runUntilFlash(t, l)

		if l.Brightness() != f.Brightness {
			t.Fatalf("seed %d: brightness %v, want start %v", seed, l.Brightness(), f.Brightness)
		}

		prev := l.Brightness()
		elapsed := 0.0
		for l.State() == Flashing {
			l.Update(16)
			elapsed += 16
			if l.Brightness() >= prev && prev > 0 {
				t.Fatalf("seed %d: brightness did not decrease: %v -> %v", seed, prev, l.Brightness())
			}
			prev = l.Brightness()
			if elapsed > f.DurationMs+16 {
				t.Fatalf("seed %d: still flashing %vms into a %vms flash", seed, elapsed, f.DurationMs)
			}
		}

		if l.Brightness() != 0 {
			t.Errorf("seed %d: brightness after flash = %v, want 0", seed, l.Brightness())
		}
		if l.Interval() < IntervalMin || l.Interval() >= IntervalMax {
			t.Errorf("seed %d: new interval %v outside [%v, %v)", seed, l.Interval(), IntervalMin, IntervalMax)
		}
	}
}

func TestFlash_FadeUsesElapsedTime(t *testing.T) {
	// A 32ms step must fade as much as two 16ms steps.
	a := New(rand.New(rand.NewSource(5)))
	b := New(rand.New(rand.NewSource(5)))
	runUntilFlash(t, a)
	runUntilFlash(t, b)

	a.Update(32)
	b.Update(16)
	b.Update(16)

	if d := a.Brightness() - b.Brightness(); d > 1e-9 || d < -1e-9 {
		t.Errorf("brightness after 32ms = %v, after 2x16ms = %v", a.Brightness(), b.Brightness())
	}
}

func TestFlash_BandDistribution(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	counts := make([]int, len(Bands))

	for i := 0; i < 3000; i++ {
		l := New(rng)
		f := runUntilFlash(t, l)
		for j, b := range Bands {
			if f.DurationMs >= b.DurationMin && f.DurationMs < b.DurationMax &&
				f.Brightness >= b.BrightnessMin && f.Brightness < b.BrightnessMax {
				counts[j]++
				break
			}
		}
	}

	for j, b := range Bands {
		share := float64(counts[j]) / 3000
		if share < b.Probability-0.05 || share > b.Probability+0.05 {
			t.Errorf("band %d share = %.3f, want about %.2f", j, share, b.Probability)
		}
	}
}

func TestReset(t *testing.T) {
	l := New(rand.New(rand.NewSource(8)))
	runUntilFlash(t, l)

	l.Reset()

	if l.State() != Dormant || l.Brightness() != 0 || l.Remaining() != 0 {
		t.Errorf("after Reset: state=%v brightness=%v remaining=%v", l.State(), l.Brightness(), l.Remaining())
	}
}

func TestDraw(t *testing.T) {
	l := New(rand.New(rand.NewSource(4)))
	rec := canvas.NewRecorder()

	l.Draw(rec, 800, 600)
	if len(rec.Ops) != 0 {
		t.Fatalf("dormant lightning drew %d ops", len(rec.Ops))
	}

	runUntilFlash(t, l)
	l.Update(16)
	l.Draw(rec, 800, 600)

	if rec.Count(canvas.OpFillRect) != 2 {
		t.Fatalf("flash drew %+v, want two rects", rec.Ops)
	}
	glow := rec.Ops[0]
	if glow.Paint.Radial == nil {
		t.Fatal("first overlay must be a radial gradient")
	}
	if glow.Paint.Radial.CY > 600*0.3 {
		t.Errorf("glow center y = %v, want in upper 30%%", glow.Paint.Radial.CY)
	}
	if glow.Paint.Radial.Radius != 800*0.8 {
		t.Errorf("glow radius = %v, want 640", glow.Paint.Radial.Radius)
	}
	wash := rec.Ops[1].Paint.Color
	if wash.R != 255 || wash.A <= 0 || wash.A > 0.15 {
		t.Errorf("wash color = %v", wash)
	}
}
