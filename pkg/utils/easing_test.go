package utils

import (
	"math"
	"testing"
)

func TestEaseOutQuad(t *testing.T) {
	tests := []struct {
		name  string
		input float64
		want  float64
	}{
		{"start", 0, 0},
		{"middle", 0.5, 0.75},
		{"end", 1, 1},
		{"below range", -1, 0},
		{"above range", 2, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EaseOutQuad(tt.input); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("EaseOutQuad(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestLerp(t *testing.T) {
	tests := []struct {
		a, b, t, want float64
	}{
		{0, 10, 0, 0},
		{0, 10, 1, 10},
		{300, 2500, 0.5, 1400},
		{2500, 300, 0.25, 1950},
	}

	for _, tt := range tests {
		if got := Lerp(tt.a, tt.b, tt.t); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Lerp(%v, %v, %v) = %v, want %v", tt.a, tt.b, tt.t, got, tt.want)
		}
	}
}
