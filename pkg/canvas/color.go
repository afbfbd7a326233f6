package canvas

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"
)

// RGBA is a straight-alpha color in the CSS sense: 8-bit channels and a
// floating point alpha in [0, 1].
type RGBA struct {
	R, G, B uint8
	A       float64
}

// RGB returns an RGBA with the given channels.
func RGB(r, g, b uint8, a float64) RGBA {
	return RGBA{R: r, G: g, B: b, A: clamp01(a)}
}

// WithAlpha returns a copy of c with alpha replaced.
func (c RGBA) WithAlpha(a float64) RGBA {
	c.A = clamp01(a)
	return c
}

// Transparent reports whether the color contributes nothing when drawn.
func (c RGBA) Transparent() bool {
	return c.A <= 0
}

// NRGBA converts to the standard library's non-premultiplied color, scaling
// the result by an extra alpha multiplier (typically the canvas global alpha).
func (c RGBA) NRGBA(alpha float64) color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8(math.Round(clamp01(c.A*alpha) * 255))}
}

// Colorful converts the color channels to a go-colorful value, dropping alpha.
func (c RGBA) Colorful() colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

// Lerp interpolates between two colors, channels and alpha alike.
func (c RGBA) Lerp(o RGBA, t float64) RGBA {
	t = clamp01(t)
	return RGBA{
		R: uint8(math.Round(float64(c.R) + (float64(o.R)-float64(c.R))*t)),
		G: uint8(math.Round(float64(c.G) + (float64(o.G)-float64(c.G))*t)),
		B: uint8(math.Round(float64(c.B) + (float64(o.B)-float64(c.B))*t)),
		A: c.A + (o.A-c.A)*t,
	}
}

// String renders the color in CSS rgba() form.
func (c RGBA) String() string {
	return fmt.Sprintf("rgba(%d, %d, %d, %s)", c.R, c.G, c.B, strconv.FormatFloat(c.A, 'f', -1, 64))
}

// ParseColor parses the CSS color forms used by effect configurations:
//
//	rgba(174, 194, 224, 0.35)
//	rgb(255, 255, 255)
//	#aec2e0
//	#aec2e059
func ParseColor(s string) (RGBA, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return RGBA{}, fmt.Errorf("empty color")
	}

	if strings.HasPrefix(s, "#") {
		return parseHexColor(s)
	}

	var body string
	var wantAlpha bool
	switch {
	case strings.HasPrefix(s, "rgba(") && strings.HasSuffix(s, ")"):
		body, wantAlpha = s[5:len(s)-1], true
	case strings.HasPrefix(s, "rgb(") && strings.HasSuffix(s, ")"):
		body = s[4 : len(s)-1]
	default:
		return RGBA{}, fmt.Errorf("unsupported color %q", s)
	}

	parts := strings.Split(body, ",")
	if (wantAlpha && len(parts) != 4) || (!wantAlpha && len(parts) != 3) {
		return RGBA{}, fmt.Errorf("color %q: wrong number of components", s)
	}

	var channels [3]uint8
	for i := 0; i < 3; i++ {
		v, err := strconv.Atoi(strings.TrimSpace(parts[i]))
		if err != nil {
			return RGBA{}, fmt.Errorf("color %q: channel %d: %w", s, i, err)
		}
		if v < 0 || v > 255 {
			return RGBA{}, fmt.Errorf("color %q: channel %d out of range: %d", s, i, v)
		}
		channels[i] = uint8(v)
	}

	alpha := 1.0
	if wantAlpha {
		a, err := strconv.ParseFloat(strings.TrimSpace(parts[3]), 64)
		if err != nil {
			return RGBA{}, fmt.Errorf("color %q: alpha: %w", s, err)
		}
		if a < 0 || a > 1 {
			return RGBA{}, fmt.Errorf("color %q: alpha out of range: %v", s, a)
		}
		alpha = a
	}

	return RGBA{R: channels[0], G: channels[1], B: channels[2], A: alpha}, nil
}

// MustParseColor is ParseColor for compile-time constants.
func MustParseColor(s string) RGBA {
	c, err := ParseColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

func parseHexColor(s string) (RGBA, error) {
	alpha := 1.0
	if len(s) == 9 {
		a, err := strconv.ParseUint(s[7:], 16, 8)
		if err != nil {
			return RGBA{}, fmt.Errorf("color %q: alpha: %w", s, err)
		}
		alpha = float64(a) / 255
		s = s[:7]
	}

	c, err := colorful.Hex(s)
	if err != nil {
		return RGBA{}, fmt.Errorf("color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return RGBA{R: r, G: g, B: b, A: alpha}, nil
}

// UnmarshalYAML lets effect profiles spell colors as CSS strings.
func (c *RGBA) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return fmt.Errorf("line %d: color must be a string: %w", value.Line, err)
	}
	parsed, err := ParseColor(raw)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*c = parsed
	return nil
}

// MarshalYAML writes the color back in rgba() form.
func (c RGBA) MarshalYAML() (interface{}, error) {
	return c.String(), nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
