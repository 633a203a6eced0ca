package tcell

import (
	"github.com/gdamore/tcell/v2"

	"github.com/odvcencio/gridkit/pkg/ui/compositor"
	"github.com/odvcencio/gridkit/pkg/ui/draw"
)

// ConvertColor maps a draw.Color onto a tcell color in the given mode.
// Transparent and Mono both use the terminal default.
func ConvertColor(c draw.Color, mode compositor.ColorMode) tcell.Color {
	if c.IsTransparent() {
		return tcell.ColorDefault
	}
	r, g, b := c.RGB8()
	switch mode {
	case compositor.TrueColor:
		return tcell.NewRGBColor(int32(r), int32(g), int32(b))
	case compositor.Color256:
		return tcell.PaletteColor(int(compositor.RGBTo256(r, g, b)))
	case compositor.Color16:
		return tcell.PaletteColor(int(compositor.RGBTo16(r, g, b)))
	}
	return tcell.ColorDefault
}

// ConvertStyle builds the tcell style for a cell.
func ConvertStyle(cell compositor.Cell, mode compositor.ColorMode) tcell.Style {
	fg := ConvertColor(cell.FG, mode)
	bg := ConvertColor(cell.BG, mode)
	if cell.Mods.Contains(compositor.Hidden) {
		fg = bg
	}
	style := tcell.StyleDefault.Foreground(fg).Background(bg)

	m := cell.Mods
	if m.Contains(compositor.Bold) {
		style = style.Bold(true)
	}
	if m.Contains(compositor.Italic) {
		style = style.Italic(true)
	}
	if m.Contains(compositor.Underline) {
		style = style.Underline(true)
	}
	if m.Contains(compositor.Dim) {
		style = style.Dim(true)
	}
	if m.Contains(compositor.Blink) {
		style = style.Blink(true)
	}
	if m.Contains(compositor.Reverse) {
		style = style.Reverse(true)
	}
	if m.Contains(compositor.Strikethrough) {
		style = style.StrikeThrough(true)
	}
	return style
}

// DecomposeStyle converts a tcell style back into compositor colors and
// modifiers. Palette colors come back as their RGB equivalents.
func DecomposeStyle(style tcell.Style) (fg, bg draw.Color, mods compositor.Modifiers) {
	tfg, tbg, attrs := style.Decompose()
	return colorFromTcell(tfg), colorFromTcell(tbg), modifiersFromAttrs(attrs)
}

// modifiersFromAttrs is the inverse of the attribute half of ConvertStyle.
func modifiersFromAttrs(attrs tcell.AttrMask) compositor.Modifiers {
	var m compositor.Modifiers
	pairs := []struct {
		attr tcell.AttrMask
		mod  compositor.Modifiers
	}{
		{tcell.AttrBold, compositor.Bold},
		{tcell.AttrItalic, compositor.Italic},
		{tcell.AttrUnderline, compositor.Underline},
		{tcell.AttrDim, compositor.Dim},
		{tcell.AttrBlink, compositor.Blink},
		{tcell.AttrReverse, compositor.Reverse},
		{tcell.AttrStrikeThrough, compositor.Strikethrough},
	}
	for _, p := range pairs {
		if attrs&p.attr != 0 {
			m = m.With(p.mod)
		}
	}
	return m
}

// colorFromTcell converts back to draw.Color; the default color is transparent.
func colorFromTcell(c tcell.Color) draw.Color {
	if c == tcell.ColorDefault {
		return draw.Transparent
	}
	r, g, b := c.RGB()
	if r < 0 {
		return draw.Transparent
	}
	return draw.FromRGB8(uint8(r), uint8(g), uint8(b))
}
