// Package compositor rasterizes drawing into a terminal cell grid and turns
// the grid's dirty cells into minimal terminal output.
package compositor

import (
	"github.com/mattn/go-runewidth"

	"github.com/odvcencio/gridkit/pkg/ui/draw"
)

// Modifiers are text attribute flags.
type Modifiers uint8

const (
	Bold Modifiers = 1 << iota
	Italic
	Underline
	Strikethrough
	Dim
	Blink
	Reverse
	Hidden
)

// ModNone is the empty modifier set.
const ModNone Modifiers = 0

func (m Modifiers) Contains(other Modifiers) bool { return m&other == other }
func (m Modifiers) With(other Modifiers) Modifiers { return m | other }
func (m Modifiers) Without(other Modifiers) Modifiers {
	return m &^ other
}

// Cell is one terminal grid position. Symbol holds a single grapheme; Go
// strings share their backing bytes, so cells cut from a larger string or
// set from literals do not allocate.
//
// Width is the display width: 1 or 2 for visible cells and 0 for the
// continuation cell that follows a 2-wide cell.
type Cell struct {
	Symbol string
	FG     draw.Color
	BG     draw.Color
	Mods   Modifiers
	Width  uint8
}

// DefaultCell is a space, white on transparent, no modifiers.
func DefaultCell() Cell {
	return Cell{Symbol: " ", FG: draw.White, BG: draw.Transparent, Width: 1}
}

// NewCell creates a cell and computes its display width.
func NewCell(symbol string, fg, bg draw.Color, mods Modifiers) Cell {
	c := Cell{}
	c.Update(symbol, fg, bg, mods)
	return c
}

// Update replaces every field and recomputes the width.
func (c *Cell) Update(symbol string, fg, bg draw.Color, mods Modifiers) {
	c.Symbol = symbol
	c.FG = fg
	c.BG = bg
	c.Mods = mods
	c.Width = symbolWidth(symbol)
}

// SetSymbol replaces only the symbol.
func (c *Cell) SetSymbol(symbol string) {
	c.Symbol = symbol
	c.Width = symbolWidth(symbol)
}

// MakeContinuation turns the cell into the placeholder behind a wide cell.
func (c *Cell) MakeContinuation() {
	c.Symbol = ""
	c.Width = 0
}

func (c Cell) IsContinuation() bool { return c.Width == 0 }

// Reset restores the default cell.
func (c *Cell) Reset() {
	*c = DefaultCell()
}

// Equal compares every field.
func (c Cell) Equal(other Cell) bool {
	return c.Symbol == other.Symbol && c.Width == other.Width && c.StyleEqual(other)
}

// StyleEqual compares colors and modifiers only.
func (c Cell) StyleEqual(other Cell) bool {
	return c.FG == other.FG && c.BG == other.BG && c.Mods == other.Mods
}

// symbolWidth is the grapheme's display width clamped to [1, 2]. Zero-width
// input still occupies one cell.
func symbolWidth(symbol string) uint8 {
	w := runewidth.StringWidth(symbol)
	switch {
	case w < 1:
		return 1
	case w > 2:
		return 2
	}
	return uint8(w)
}
