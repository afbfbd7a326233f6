package utils

import (
	"math/rand"
	"time"
)

// NewRand returns a time-seeded generator. Tests pass their own seeded
// *rand.Rand instead.
func NewRand() *rand.Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// RandRange returns a uniform value in [min, max).
// If max <= min it returns min.
func RandRange(rng *rand.Rand, min, max float64) float64 {
	if max <= min {
		return min
	}
	return min + rng.Float64()*(max-min)
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
