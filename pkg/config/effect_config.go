package config

import (
	"fmt"
	"sort"

	"github.com/gonewx/weather-overlay/pkg/canvas"
)

// Kind selects how an effect is simulated and drawn.
type Kind string

const (
	KindRain      Kind = "rain"
	KindSnow      Kind = "snow"
	KindMixed     Kind = "mixed"
	KindClouds    Kind = "clouds"
	KindStars     Kind = "stars"
	KindLightning Kind = "lightning"
	KindSunny     Kind = "sunny"
)

// HasParticles reports whether effects of this kind own a particle pool.
func (k Kind) HasParticles() bool {
	switch k {
	case KindRain, KindSnow, KindMixed, KindClouds, KindStars:
		return true
	}
	return false
}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	return k.HasParticles() || k == KindLightning || k == KindSunny
}

// EffectProfile describes one weather effect. Profiles are built once at
// startup and never mutated afterwards.
type EffectProfile struct {
	Kind             Kind        `yaml:"type"`
	MaxParticles     int         `yaml:"maxParticles"`
	Color            canvas.RGBA `yaml:"color"`
	SpeedMin         float64     `yaml:"speedMin"`
	SpeedMax         float64     `yaml:"speedMax"`
	SizeMin          float64     `yaml:"sizeMin"`
	SizeMax          float64     `yaml:"sizeMax"`
	SwayAmount       float64     `yaml:"swayAmount"`
	LengthMultiplier float64     `yaml:"lengthMultiplier,omitempty"` // rain streak length, 0 means 1
	HasLightning     bool        `yaml:"hasLightning,omitempty"`
}

// Length returns the rain streak multiplier, defaulting to 1.
func (p EffectProfile) Length() float64 {
	if p.LengthMultiplier <= 0 {
		return 1
	}
	return p.LengthMultiplier
}

// Lightning reports whether the lightning sub-process runs for this effect.
func (p EffectProfile) Lightning() bool {
	return p.Kind == KindLightning || p.HasLightning
}

// Validate checks the profile invariants.
func (p EffectProfile) Validate() error {
	if !p.Kind.Valid() {
		return fmt.Errorf("unknown type %q", p.Kind)
	}
	if p.MaxParticles < 0 {
		return fmt.Errorf("maxParticles cannot be negative, got %d", p.MaxParticles)
	}
	if !p.Kind.HasParticles() && p.MaxParticles != 0 {
		return fmt.Errorf("type %q draws no particles, maxParticles must be 0, got %d", p.Kind, p.MaxParticles)
	}
	if p.SpeedMin > p.SpeedMax {
		return fmt.Errorf("speedMin (%v) must not exceed speedMax (%v)", p.SpeedMin, p.SpeedMax)
	}
	if p.SizeMin > p.SizeMax {
		return fmt.Errorf("sizeMin (%v) must not exceed sizeMax (%v)", p.SizeMin, p.SizeMax)
	}
	if p.LengthMultiplier < 0 {
		return fmt.Errorf("lengthMultiplier cannot be negative, got %v", p.LengthMultiplier)
	}
	return nil
}

// Catalog maps canonical effect keys to profiles.
type Catalog map[string]EffectProfile

var (
	rainColor = canvas.MustParseColor("rgba(174, 194, 224, 0.35)")
)

// DefaultCatalog returns the built-in effect catalog. Each call returns a
// fresh map so callers may merge overrides into it.
func DefaultCatalog() Catalog {
	return Catalog{
		"rainy": {
			Kind: KindRain, MaxParticles: 50, Color: rainColor,
			SpeedMin: 15, SpeedMax: 25, SizeMin: 1, SizeMax: 2, SwayAmount: 0.5,
		},
		// Slower, 4x longer streaks read as heavy drops.
		"pouring": {
			Kind: KindRain, MaxParticles: 50, Color: rainColor,
			SpeedMin: 10.5, SpeedMax: 17.5, SizeMin: 1, SizeMax: 2, SwayAmount: 0.5,
			LengthMultiplier: 4,
		},
		"cloudy": {
			Kind: KindClouds, MaxParticles: 10, Color: canvas.MustParseColor("rgba(180, 180, 180, 0.10)"),
			SpeedMin: 0.3, SpeedMax: 0.8, SizeMin: 80, SizeMax: 150, SwayAmount: 0.5,
		},
		"partlycloudy": {
			Kind: KindClouds, MaxParticles: 6, Color: canvas.MustParseColor("rgba(200, 200, 200, 0.08)"),
			SpeedMin: 0.4, SpeedMax: 1, SizeMin: 70, SizeMax: 130, SwayAmount: 0.6,
		},
		"fog": {
			Kind: KindClouds, MaxParticles: 16, Color: canvas.MustParseColor("rgba(220, 220, 220, 0.10)"),
			SpeedMin: 0.15, SpeedMax: 0.4, SizeMin: 100, SizeMax: 200, SwayAmount: 0.2,
		},
		"snowy": {
			Kind: KindSnow, MaxParticles: 40, Color: canvas.MustParseColor("rgba(255, 255, 255, 0.4)"),
			SpeedMin: 2, SpeedMax: 5, SizeMin: 2, SizeMax: 5, SwayAmount: 1.5,
		},
		"snowy-rainy": {
			Kind: KindMixed, MaxParticles: 50, Color: canvas.MustParseColor("rgba(200, 210, 230, 0.35)"),
			SpeedMin: 8, SpeedMax: 15, SizeMin: 1.5, SizeMax: 4, SwayAmount: 1,
		},
		"lightning": {
			Kind: KindLightning,
		},
		"lightning-rainy": {
			Kind: KindRain, MaxParticles: 50, Color: rainColor,
			SpeedMin: 15, SpeedMax: 25, SizeMin: 1, SizeMax: 2, SwayAmount: 0.5,
			HasLightning: true,
		},
		"clear-night": {
			Kind: KindStars, MaxParticles: 36,
		},
		"sunny": {
			Kind: KindSunny,
		},
	}
}

// Lookup returns the profile for key.
func (c Catalog) Lookup(key string) (EffectProfile, bool) {
	if key == "" {
		return EffectProfile{}, false
	}
	p, ok := c[key]
	return p, ok
}

// Keys returns the catalog keys in sorted order.
func (c Catalog) Keys() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Validate checks every profile in the catalog.
func (c Catalog) Validate() error {
	for _, key := range c.Keys() {
		if err := c[key].Validate(); err != nil {
			return fmt.Errorf("effect %q: %w", key, err)
		}
	}
	return nil
}

// BuildCatalog merges overrides over the default catalog and validates the
// result. An override replaces the whole profile for its key.
func BuildCatalog(overrides map[string]EffectProfile) (Catalog, error) {
	catalog := DefaultCatalog()
	for key, profile := range overrides {
		catalog[normalizeKey(key)] = profile
	}
	if err := catalog.Validate(); err != nil {
		return nil, err
	}
	return catalog, nil
}
