package renderer

import (
	"fmt"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/pthm-cable/molecule/config"
)

// HSL is a colour in HSL space. H in degrees, S and L in [0, 1].
type HSL struct {
	H, S, L float64
}

// NRGBA converts the colour to 8-bit RGB with the given alpha in [0, 1].
func (c HSL) NRGBA(alpha float64) color.NRGBA {
	r, g, b := colorful.Hsl(c.H, c.S, c.L).Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: alphaByte(alpha)}
}

// HSLA builds a non-premultiplied colour from HSL components and alpha.
func HSLA(h, s, l, alpha float64) color.NRGBA {
	return HSL{H: h, S: s, L: l}.NRGBA(alpha)
}

// ParseBackground parses a hex colour such as "#0a0f1a". Empty means transparent.
func ParseBackground(hex string) (color.NRGBA, error) {
	if hex == "" {
		return color.NRGBA{}, nil
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("parsing background %q: %w", hex, err)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}, nil
}

func alphaByte(a float64) uint8 {
	if a <= 0 {
		return 0
	}
	if a >= 1 {
		return 255
	}
	return uint8(a*255 + 0.5)
}

func withAlpha(c color.NRGBA, alpha float64) color.NRGBA {
	c.A = alphaByte(alpha)
	return c
}

// Style holds the colours and thresholds used by Render.
type Style struct {
	Background         color.NRGBA
	Particle           HSL
	Line               HSL
	LineMaxAlpha       float64 // alpha of a zero-length link
	LineWidth          float64
	ConnectionDistance float64 // links at or beyond this length are not drawn
}

// DefaultStyle returns the stock cyan-on-navy look.
func DefaultStyle() Style {
	return Style{
		Background:         color.NRGBA{R: 0x0a, G: 0x0f, B: 0x1a, A: 255},
		Particle:           HSL{H: 200, S: 0.8, L: 0.6},
		Line:               HSL{H: 195, S: 0.7, L: 0.55},
		LineMaxAlpha:       0.3,
		LineWidth:          1,
		ConnectionDistance: 150,
	}
}

// StyleFrom builds a Style from config.
func StyleFrom(cfg *config.Config) (Style, error) {
	bg, err := ParseBackground(cfg.Style.Background)
	if err != nil {
		return Style{}, err
	}
	s := cfg.Style
	return Style{
		Background:         bg,
		Particle:           HSL{H: s.Particle.Hue, S: s.Particle.Saturation, L: s.Particle.Lightness},
		Line:               HSL{H: s.Line.Hue, S: s.Line.Saturation, L: s.Line.Lightness},
		LineMaxAlpha:       s.LineMaxAlpha,
		LineWidth:          s.LineWidth,
		ConnectionDistance: cfg.Particles.ConnectionDistance,
	}, nil
}
