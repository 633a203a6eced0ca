package compositor

import (
	"fmt"
	"strings"

	"github.com/muesli/termenv"

	gkerrors "github.com/odvcencio/gridkit/pkg/errors"
)

// ColorMode is the color depth used when encoding cells for a terminal.
type ColorMode uint8

const (
	TrueColor ColorMode = iota
	Color256
	Color16
	Mono
)

func (m ColorMode) String() string {
	switch m {
	case TrueColor:
		return "truecolor"
	case Color256:
		return "256"
	case Color16:
		return "16"
	case Mono:
		return "mono"
	}
	return fmt.Sprintf("ColorMode(%d)", uint8(m))
}

// ParseColorMode accepts the names produced by String plus a few aliases.
// The empty string and "auto" are rejected; callers detect instead.
func ParseColorMode(s string) (ColorMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "truecolor", "24bit", "rgb":
		return TrueColor, nil
	case "256", "color256", "ansi256":
		return Color256, nil
	case "16", "color16", "ansi":
		return Color16, nil
	case "mono", "none", "ascii":
		return Mono, nil
	}
	return Mono, gkerrors.Newf(gkerrors.ErrCodeInvalidInput, "unknown color mode %q", s)
}

// DetectColorMode inspects COLORTERM and TERM through getenv.
func DetectColorMode(getenv func(string) string) ColorMode {
	switch getenv("COLORTERM") {
	case "truecolor", "24bit":
		return TrueColor
	}
	term := getenv("TERM")
	switch {
	case term == "" || term == "dumb":
		return Mono
	case strings.Contains(term, "256color"):
		return Color256
	case strings.Contains(term, "color"), strings.Contains(term, "xterm"):
		return Color16
	}
	return Color16
}

// DetectFromTermenv maps a termenv profile onto a ColorMode.
func DetectFromTermenv(p termenv.Profile) ColorMode {
	switch p {
	case termenv.TrueColor:
		return TrueColor
	case termenv.ANSI256:
		return Color256
	case termenv.ANSI:
		return Color16
	}
	return Mono
}

// RGBTo256 maps an 8-bit color onto the xterm 256-color palette. Grays use
// the 24-step ramp; everything else uses the 6x6x6 cube.
func RGBTo256(r, g, b uint8) uint8 {
	if r == g && g == b {
		switch {
		case r < 8:
			return 16
		case r > 248:
			return 231
		}
		return 232 + min((r-8)/10, 23)
	}
	ri := uint16(r) * 5 / 255
	gi := uint16(g) * 5 / 255
	bi := uint16(b) * 5 / 255
	return uint8(16 + 36*ri + 6*gi + bi)
}

// RGBTo16 maps an 8-bit color onto the 16 base ANSI colors (0-7 normal,
// 8-15 bright). Channels above half the strongest channel are considered
// present; perceived luminance picks the bright variant.
func RGBTo16(r, g, b uint8) uint8 {
	lum := (uint32(r)*299 + uint32(g)*587 + uint32(b)*114) / 1000
	threshold := max(r, g, b) / 2

	var idx uint8
	if r > threshold {
		idx |= 1
	}
	if g > threshold {
		idx |= 2
	}
	if b > threshold {
		idx |= 4
	}
	if lum > 127 {
		idx += 8
	}
	return idx
}
