// Package draw defines the backend-agnostic drawing vocabulary: colors,
// affine transforms, style records and the DrawCommand tree.
package draw

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	gkerrors "github.com/odvcencio/gridkit/pkg/errors"
)

// Color is an RGBA color with float components in [0, 1].
type Color struct {
	R, G, B, A float64
}

var (
	Black       = Color{0, 0, 0, 1}
	White       = Color{1, 1, 1, 1}
	Transparent = Color{0, 0, 0, 0}
)

// Default returns opaque black.
func Default() Color { return Black }

// RGBA creates a color, clamping every component into [0, 1].
func RGBA(r, g, b, a float64) Color {
	return Color{R: clamp01(r), G: clamp01(g), B: clamp01(b), A: clamp01(a)}
}

// RGB creates an opaque color.
func RGB(r, g, b float64) Color {
	return RGBA(r, g, b, 1)
}

// FromRGB8 creates an opaque color from 8-bit channels.
func FromRGB8(r, g, b uint8) Color {
	return Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255, A: 1}
}

// FromHex parses #rrggbb or #rrggbbaa. The leading # is optional.
func FromHex(s string) (Color, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 && len(hex) != 8 {
		return Color{}, gkerrors.New(gkerrors.ErrCodeColorParse, "hex color must have 6 or 8 digits").
			WithContext("input", s)
	}

	var ch [4]float64
	ch[3] = 1
	for i := 0; i < len(hex)/2; i++ {
		v, err := strconv.ParseUint(hex[i*2:i*2+2], 16, 8)
		if err != nil {
			return Color{}, gkerrors.Wrap(err, gkerrors.ErrCodeColorParse, "invalid hex digit").
				WithContext("input", s)
		}
		ch[i] = float64(v) / 255
	}
	return Color{R: ch[0], G: ch[1], B: ch[2], A: ch[3]}, nil
}

// MustHex is FromHex for constants; it panics on bad input.
func MustHex(s string) Color {
	c, err := FromHex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// RGB8 returns the color channels scaled to 0-255.
func (c Color) RGB8() (r, g, b uint8) {
	return to8(c.R), to8(c.G), to8(c.B)
}

// Hex formats the color as #rrggbb.
func (c Color) Hex() string {
	r, g, b := c.RGB8()
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

// HexWithAlpha formats the color as #rrggbbaa.
func (c Color) HexWithAlpha() string {
	return c.Hex() + fmt.Sprintf("%02x", to8(c.A))
}

func (c Color) String() string {
	if c.A >= 1 {
		return c.Hex()
	}
	return c.HexWithAlpha()
}

// Lerp interpolates toward other; t is clamped into [0, 1].
func (c Color) Lerp(other Color, t float64) Color {
	t = clamp01(t)
	return Color{
		R: c.R + (other.R-c.R)*t,
		G: c.G + (other.G-c.G)*t,
		B: c.B + (other.B-c.B)*t,
		A: c.A + (other.A-c.A)*t,
	}
}

// WithAlpha returns the color with its alpha replaced.
func (c Color) WithAlpha(a float64) Color {
	c.A = clamp01(a)
	return c
}

// MultiplyAlpha scales alpha by f.
func (c Color) MultiplyAlpha(f float64) Color {
	c.A = clamp01(c.A * f)
	return c
}

// IsTransparent reports whether alpha is zero.
func (c Color) IsTransparent() bool {
	return c.A <= 0
}

// RelativeLuminance returns the WCAG 2.1 relative luminance.
func (c Color) RelativeLuminance() float64 {
	return 0.2126*linearize(c.R) + 0.7152*linearize(c.G) + 0.0722*linearize(c.B)
}

// ContrastRatio returns the WCAG contrast ratio, between 1 and 21. It is symmetric.
func (c Color) ContrastRatio(other Color) float64 {
	l1, l2 := c.RelativeLuminance(), other.RelativeLuminance()
	if l1 < l2 {
		l1, l2 = l2, l1
	}
	return (l1 + 0.05) / (l2 + 0.05)
}

func linearize(v float64) float64 {
	if v <= 0.04045 {
		return v / 12.92
	}
	return math.Pow((v+0.055)/1.055, 2.4)
}

func to8(v float64) uint8 {
	return uint8(math.Round(clamp01(v) * 255))
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
