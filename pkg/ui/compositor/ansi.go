package compositor

import (
	"strconv"

	"github.com/odvcencio/gridkit/pkg/ui/draw"
)

// ANSI escape sequences.
const (
	ANSIEscape      = "\x1b["
	ANSIClearScreen = "\x1b[2J"
	ANSICursorHome  = "\x1b[H"
	ANSICursorHide  = "\x1b[?25l"
	ANSICursorShow  = "\x1b[?25h"
	ANSIReset       = "\x1b[0m"
	ANSIAltScreen   = "\x1b[?1049h"
	ANSIMainScreen  = "\x1b[?1049l"
)

// CursorTo returns the sequence that moves the cursor to (x, y).
// Coordinates are 0-indexed; the terminal expects 1-indexed.
func CursorTo(x, y int) string {
	return string(appendCursorTo(nil, x, y))
}

func appendCursorTo(dst []byte, x, y int) []byte {
	dst = append(dst, ANSIEscape...)
	dst = strconv.AppendInt(dst, int64(y+1), 10)
	dst = append(dst, ';')
	dst = strconv.AppendInt(dst, int64(x+1), 10)
	return append(dst, 'H')
}

var modifierCodes = [...]struct {
	mod  Modifiers
	code string
}{
	{Bold, "1"},
	{Dim, "2"},
	{Italic, "3"},
	{Underline, "4"},
	{Blink, "5"},
	{Reverse, "7"},
	{Hidden, "8"},
	{Strikethrough, "9"},
}

// SGR returns a select-graphic-rendition sequence that resets attributes and
// then applies fg, bg and mods in the given mode.
func SGR(fg, bg draw.Color, mods Modifiers, mode ColorMode) string {
	return string(appendSGR(nil, fg, bg, mods, mode))
}

func appendSGR(dst []byte, fg, bg draw.Color, mods Modifiers, mode ColorMode) []byte {
	dst = append(dst, ANSIEscape...)
	dst = append(dst, '0')
	for _, m := range modifierCodes {
		if mods.Contains(m.mod) {
			dst = append(dst, ';')
			dst = append(dst, m.code...)
		}
	}
	if mode != Mono {
		dst = appendColor(dst, fg, true, mode)
		dst = appendColor(dst, bg, false, mode)
	}
	return append(dst, 'm')
}

// appendColor writes ";<params>" for one color. Transparent selects the
// terminal default.
func appendColor(dst []byte, c draw.Color, fg bool, mode ColorMode) []byte {
	dst = append(dst, ';')
	if c.IsTransparent() {
		if fg {
			return append(dst, "39"...)
		}
		return append(dst, "49"...)
	}

	r, g, b := c.RGB8()
	switch mode {
	case Color16:
		idx := int(RGBTo16(r, g, b))
		base := 30
		if !fg {
			base = 40
		}
		if idx >= 8 {
			base += 60
			idx -= 8
		}
		return strconv.AppendInt(dst, int64(base+idx), 10)
	case Color256:
		if fg {
			dst = append(dst, "38;5;"...)
		} else {
			dst = append(dst, "48;5;"...)
		}
		return strconv.AppendInt(dst, int64(RGBTo256(r, g, b)), 10)
	default:
		if fg {
			dst = append(dst, "38;2;"...)
		} else {
			dst = append(dst, "48;2;"...)
		}
		dst = strconv.AppendInt(dst, int64(r), 10)
		dst = append(dst, ';')
		dst = strconv.AppendInt(dst, int64(g), 10)
		dst = append(dst, ';')
		return strconv.AppendInt(dst, int64(b), 10)
	}
}
