package value

import (
	"strconv"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/ardnew/scss/lang/diag"
)

// Color is an sRGB color with an alpha channel.
//
// A Color parsed from source text remembers that text and renders it
// unchanged; computed colors render as lowercase hexadecimal.
type Color struct {
	rgb   colorful.Color
	alpha float64
	repr  string
}

// RGBA returns an opaque-or-translucent color from 8-bit channels and an
// alpha in [0, 1].
func RGBA(r, g, b uint8, alpha float64) Color {
	return Color{
		rgb: colorful.Color{
			R: float64(r) / 255,
			G: float64(g) / 255,
			B: float64(b) / 255,
		},
		alpha: min(max(alpha, 0), 1),
	}
}

// ParseHex parses a "#rgb", "#rgba", "#rrggbb" or "#rrggbbaa" color.
func ParseHex(s string) (Color, error) {
	hex := strings.TrimPrefix(s, "#")
	alpha := 1.0

	switch len(hex) {
	case 4:
		a, err := strconv.ParseUint(strings.Repeat(hex[3:], 2), 16, 8)
		if err != nil {
			return Color{}, invalidColor(s)
		}

		alpha = float64(a) / 255
		hex = hex[:3]

	case 8:
		a, err := strconv.ParseUint(hex[6:], 16, 8)
		if err != nil {
			return Color{}, invalidColor(s)
		}

		alpha = float64(a) / 255
		hex = hex[:6]
	}

	rgb, err := colorful.Hex("#" + hex)
	if err != nil {
		return Color{}, invalidColor(s)
	}

	return Color{rgb: rgb, alpha: alpha, repr: s}, nil
}

func invalidColor(s string) error {
	return diag.ErrSyntax.Wrapf("Expected hex digit in %q.", s)
}

// Alpha returns the opacity of c in [0, 1].
func (c Color) Alpha() float64 { return c.alpha }

// RGB255 returns the 8-bit red, green and blue channels of c.
func (c Color) RGB255() (r, g, b uint8) { return c.rgb.Clamped().RGB255() }

// Hex returns c as "#rrggbb", or "#rrggbbaa" when c is translucent.
func (c Color) Hex() string {
	h := c.rgb.Clamped().Hex()
	if c.alpha < 1 {
		h += strconv.FormatUint(uint64(c.alpha*255+0.5)|0x100, 16)[1:]
	}

	return h
}

// Equal reports whether c and d have the same channels.
func (c Color) Equal(d Color) bool { return c.Hex() == d.Hex() }

func (c Color) String() string {
	if c.repr != "" {
		return c.repr
	}

	return c.Hex()
}
