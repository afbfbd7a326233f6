package utils

import (
	"math/rand"
	"testing"
)

func TestRandRange(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	for i := 0; i < 1000; i++ {
		v := RandRange(rng, 1500, 4000)
		if v < 1500 || v >= 4000 {
			t.Fatalf("RandRange out of [1500, 4000): %v", v)
		}
	}

	if v := RandRange(rng, 3, 3); v != 3 {
		t.Errorf("RandRange(3, 3) = %v, want 3", v)
	}
	if v := RandRange(rng, 5, 1); v != 5 {
		t.Errorf("RandRange(5, 1) = %v, want 5", v)
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		v, lo, hi, want float64
	}{
		{5, 0, 10, 5},
		{-1, 0, 10, 0},
		{11, 0, 10, 10},
		{0.9, 0.8, 1, 0.9},
	}
	for _, tt := range tests {
		if got := Clamp(tt.v, tt.lo, tt.hi); got != tt.want {
			t.Errorf("Clamp(%v, %v, %v) = %v, want %v", tt.v, tt.lo, tt.hi, got, tt.want)
		}
	}
}
