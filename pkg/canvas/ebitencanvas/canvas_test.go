package ebitencanvas

import (
	"testing"

	"github.com/gonewx/weather-overlay/pkg/canvas"
)

func TestRingRadii(t *testing.T) {
	g := canvas.NewRadialGradient(0, 0, 100).
		AddColorStop(0, canvas.RGB(255, 255, 255, 1)).
		AddColorStop(0.05, canvas.RGB(255, 255, 255, 0.5)).
		AddColorStop(1, canvas.RGB(255, 255, 255, 0))

	tests := []struct {
		name      string
		reach     float64
		wantLast  float64
		wantStop  float64
		wantCount int
	}{
		{name: "inside gradient", reach: 60, wantLast: 60, wantStop: 5, wantCount: ringSteps + 1},
		{name: "exact radius", reach: 100, wantLast: 100, wantStop: 5, wantCount: ringSteps + 2},
		{name: "beyond radius", reach: 250, wantLast: 250, wantStop: 5, wantCount: ringSteps + 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			radii := ringRadii(g, tt.reach)

			if radii[0] != 0 {
				t.Errorf("first radius = %v, want 0", radii[0])
			}
			if last := radii[len(radii)-1]; last != tt.wantLast {
				t.Errorf("last radius = %v, want %v", last, tt.wantLast)
			}
			if len(radii) != tt.wantCount {
				t.Errorf("len = %d, want %d (%v)", len(radii), tt.wantCount, radii)
			}
			found := false
			for i, r := range radii {
				if i > 0 && r <= radii[i-1] {
					t.Fatalf("radii not increasing: %v", radii)
				}
				if r == tt.wantStop {
					found = true
				}
			}
			if !found {
				t.Errorf("stop radius %v missing from %v", tt.wantStop, radii)
			}
		})
	}
}

func TestVertexColor(t *testing.T) {
	r, g, b, a := vertexColor(canvas.RGB(255, 0, 51, 0.8), 0.5)
	if r != 1 || g != 0 || b != 0.2 {
		t.Errorf("rgb = %v %v %v", r, g, b)
	}
	if a < 0.399 || a > 0.401 {
		t.Errorf("a = %v, want 0.4", a)
	}
}
