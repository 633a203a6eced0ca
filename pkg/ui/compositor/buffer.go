package compositor

import (
	"math/bits"
	"strings"

	"github.com/rivo/uniseg"

	"github.com/odvcencio/gridkit/pkg/ui/draw"
)

// Region is an integer cell rectangle.
type Region struct {
	X, Y, Width, Height int
}

// IsEmpty reports whether the region covers no cells.
func (r Region) IsEmpty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Intersect returns the overlap of two regions, empty when disjoint.
func (r Region) Intersect(other Region) Region {
	x := max(r.X, other.X)
	y := max(r.Y, other.Y)
	x2 := min(r.X+r.Width, other.X+other.Width)
	y2 := min(r.Y+r.Height, other.Y+other.Height)
	if x2 <= x || y2 <= y {
		return Region{X: x, Y: y}
	}
	return Region{X: x, Y: y, Width: x2 - x, Height: y2 - y}
}

// Contains reports whether (x, y) is inside the region.
func (r Region) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// CellBuffer is a row-major grid of cells with one dirty bit per cell.
// len(cells) == width*height and the bitset covers exactly that many bits.
// Every write through Set, Update and the helpers built on them marks the
// written cell dirty; out-of-range writes are ignored.
type CellBuffer struct {
	width, height int
	cells         []Cell
	dirty         []uint64
	dirtyRect     Region
}

// NewCellBuffer allocates w*h default cells with no dirty bits set.
func NewCellBuffer(w, h int) *CellBuffer {
	b := &CellBuffer{}
	b.alloc(w, h)
	return b
}

func (b *CellBuffer) alloc(w, h int) {
	w, h = max(w, 0), max(h, 0)
	n := w * h
	b.width, b.height = w, h
	b.cells = make([]Cell, n)
	for i := range b.cells {
		b.cells[i] = DefaultCell()
	}
	b.dirty = make([]uint64, (n+63)/64)
	b.dirtyRect = Region{}
}

func (b *CellBuffer) Width() int  { return b.width }
func (b *CellBuffer) Height() int { return b.height }

// Size returns the buffer dimensions.
func (b *CellBuffer) Size() (w, h int) {
	return b.width, b.height
}

// Len returns width*height.
func (b *CellBuffer) Len() int {
	return len(b.cells)
}

// Index converts (x, y) to a linear index. The boolean is false out of range.
func (b *CellBuffer) Index(x, y int) (int, bool) {
	if x < 0 || y < 0 || x >= b.width || y >= b.height {
		return 0, false
	}
	return y*b.width + x, true
}

// Coords converts a linear index back to (x, y).
func (b *CellBuffer) Coords(idx int) (x, y int) {
	if b.width == 0 {
		return 0, 0
	}
	return idx % b.width, idx / b.width
}

// Cells returns the backing slice. Callers must not modify it.
func (b *CellBuffer) Cells() []Cell {
	return b.cells
}

// Get returns the cell at (x, y) or nil when out of range.
func (b *CellBuffer) Get(x, y int) *Cell {
	idx, ok := b.Index(x, y)
	if !ok {
		return nil
	}
	c := b.cells[idx]
	return &c
}

// GetMut returns a pointer into the buffer, or nil when out of range.
// Writes through it are not tracked; call MarkDirty afterward.
func (b *CellBuffer) GetMut(x, y int) *Cell {
	idx, ok := b.Index(x, y)
	if !ok {
		return nil
	}
	return &b.cells[idx]
}

// Set stores a cell and marks it dirty. A 2-wide cell in the last column
// is stored as a space.
func (b *CellBuffer) Set(x, y int, cell Cell) {
	idx, ok := b.Index(x, y)
	if !ok {
		return
	}
	if cell.Width == 2 && x+1 >= b.width {
		cell.SetSymbol(" ")
	}
	b.cells[idx] = cell
	b.markIndex(idx)
}

// Update rewrites a cell in place and marks it dirty. Like Put, a 2-wide
// symbol in the last column becomes a space.
func (b *CellBuffer) Update(x, y int, symbol string, fg, bg draw.Color, mods Modifiers) {
	idx, ok := b.Index(x, y)
	if !ok {
		return
	}
	if x+1 >= b.width && symbolWidth(symbol) == 2 {
		symbol = " "
	}
	b.cells[idx].Update(symbol, fg, bg, mods)
	b.markIndex(idx)
}

// Put writes one grapheme and keeps the wide-cell invariant: a 2-wide
// symbol also turns x+1 into its continuation, a 2-wide symbol in the last
// column is replaced by a space, and any wide cell partly overwritten is
// blanked. It returns the number of columns consumed (0 when out of range).
func (b *CellBuffer) Put(x, y int, symbol string, fg, bg draw.Color, mods Modifiers) int {
	idx, ok := b.Index(x, y)
	if !ok {
		return 0
	}
	w := symbolWidth(symbol)
	if w == 2 && x+1 >= b.width {
		symbol, w = " ", 1
	}

	b.breakWide(x, y, idx)
	if w == 2 {
		b.breakWide(x+1, y, idx+1)
	}

	b.cells[idx].Update(symbol, fg, bg, mods)
	b.markIndex(idx)
	if w == 2 {
		next := &b.cells[idx+1]
		next.FG, next.BG, next.Mods = fg, bg, mods
		next.MakeContinuation()
		b.markIndex(idx + 1)
	}
	return int(w)
}

// breakWide blanks the other half of a wide pair that (x, y) belongs to.
func (b *CellBuffer) breakWide(x, y, idx int) {
	c := &b.cells[idx]
	switch {
	case c.IsContinuation() && x > 0:
		prev := &b.cells[idx-1]
		if prev.Width == 2 {
			prev.SetSymbol(" ")
			b.markIndex(idx - 1)
		}
	case c.Width == 2 && x+1 < b.width:
		next := &b.cells[idx+1]
		if next.IsContinuation() {
			next.SetSymbol(" ")
			b.markIndex(idx + 1)
		}
	}
}

// SetChar replaces only the symbol at (x, y) and marks it dirty.
func (b *CellBuffer) SetChar(x, y int, symbol string) {
	c := b.GetMut(x, y)
	if c == nil {
		return
	}
	c.SetSymbol(symbol)
	b.MarkDirty(x, y)
}

// FillRect writes spaces with the given colors, clipped to the buffer.
func (b *CellBuffer) FillRect(x, y, w, h int, fg, bg draw.Color) {
	r := Region{X: x, Y: y, Width: w, Height: h}.Intersect(b.Bounds())
	for yy := r.Y; yy < r.Y+r.Height; yy++ {
		for xx := r.X; xx < r.X+r.Width; xx++ {
			b.Update(xx, yy, " ", fg, bg, ModNone)
		}
	}
}

// WriteStr writes s starting at (x, y), one grapheme per cell (two for wide
// graphemes). Output stops at the right edge; a wide grapheme that would
// straddle it becomes a single space. It returns the number of columns written.
func (b *CellBuffer) WriteStr(x, y int, s string, fg, bg draw.Color, mods Modifiers) int {
	if y < 0 || y >= b.height {
		return 0
	}
	col := x
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		cluster := g.Str()
		w := int(symbolWidth(cluster))
		if col+w > b.width {
			if col >= 0 && col < b.width {
				b.Put(col, y, " ", fg, bg, mods)
				col++
			}
			break
		}
		if col >= 0 {
			b.Put(col, y, cluster, fg, bg, mods)
		}
		col += w
	}
	return max(col-max(x, 0), 0)
}

// Bounds returns the full-buffer region.
func (b *CellBuffer) Bounds() Region {
	return Region{Width: b.width, Height: b.height}
}

// Resize reallocates the grid. Content is discarded, not reflowed, and every
// cell is marked dirty.
func (b *CellBuffer) Resize(w, h int) {
	b.alloc(w, h)
	b.MarkAllDirty()
}

// Clear resets every cell to the default and marks all dirty.
func (b *CellBuffer) Clear() {
	for i := range b.cells {
		b.cells[i] = DefaultCell()
	}
	b.MarkAllDirty()
}

// MarkDirty flags (x, y) for the next flush.
func (b *CellBuffer) MarkDirty(x, y int) {
	if idx, ok := b.Index(x, y); ok {
		b.markIndex(idx)
	}
}

func (b *CellBuffer) markIndex(idx int) {
	word, bit := idx>>6, uint64(1)<<(idx&63)
	if b.dirty[word]&bit != 0 {
		return
	}
	b.dirty[word] |= bit

	x, y := b.Coords(idx)
	r := &b.dirtyRect
	if r.IsEmpty() {
		*r = Region{X: x, Y: y, Width: 1, Height: 1}
		return
	}
	if x < r.X {
		r.Width += r.X - x
		r.X = x
	} else if x >= r.X+r.Width {
		r.Width = x - r.X + 1
	}
	if y < r.Y {
		r.Height += r.Y - y
		r.Y = y
	} else if y >= r.Y+r.Height {
		r.Height = y - r.Y + 1
	}
}

// MarkAllDirty flags every cell.
func (b *CellBuffer) MarkAllDirty() {
	n := len(b.cells)
	for i := range b.dirty {
		b.dirty[i] = ^uint64(0)
	}
	if rem := n & 63; rem != 0 {
		b.dirty[len(b.dirty)-1] = (uint64(1) << rem) - 1
	}
	b.dirtyRect = b.Bounds()
}

// ClearDirty resets every dirty bit.
func (b *CellBuffer) ClearDirty() {
	clear(b.dirty)
	b.dirtyRect = Region{}
}

// IsDirty reports whether (x, y) is flagged. Out of range is never dirty.
func (b *CellBuffer) IsDirty(x, y int) bool {
	idx, ok := b.Index(x, y)
	if !ok {
		return false
	}
	return b.dirty[idx>>6]&(uint64(1)<<(idx&63)) != 0
}

// DirtyCount returns the number of flagged cells.
func (b *CellBuffer) DirtyCount() int {
	n := 0
	for _, w := range b.dirty {
		n += bits.OnesCount64(w)
	}
	return n
}

// DirtyRect returns the bounding box of flagged cells.
func (b *CellBuffer) DirtyRect() Region {
	return b.dirtyRect
}

// IterDirty calls fn with the index of every dirty cell in ascending order.
// Returning false stops the walk.
func (b *CellBuffer) IterDirty(fn func(idx int) bool) {
	for wi, w := range b.dirty {
		for w != 0 {
			tz := bits.TrailingZeros64(w)
			if !fn(wi<<6 + tz) {
				return
			}
			w &= w - 1
		}
	}
}

// DirtyIndices collects IterDirty into a slice.
func (b *CellBuffer) DirtyIndices() []int {
	out := make([]int, 0, b.DirtyCount())
	b.IterDirty(func(idx int) bool {
		out = append(out, idx)
		return true
	})
	return out
}

// Text returns row y as a string, skipping continuation cells.
func (b *CellBuffer) Text(y int) string {
	if y < 0 || y >= b.height {
		return ""
	}
	var sb strings.Builder
	for _, c := range b.cells[y*b.width : (y+1)*b.width] {
		if c.IsContinuation() {
			continue
		}
		sb.WriteString(c.Symbol)
	}
	return sb.String()
}

// String returns every row joined by newlines.
func (b *CellBuffer) String() string {
	rows := make([]string, b.height)
	for y := range rows {
		rows[y] = b.Text(y)
	}
	return strings.Join(rows, "\n")
}
