package runtime

import (
	"math"

	"github.com/odvcencio/gridkit/pkg/ui/geometry"
)

// HitGrid maps screen cells to widgets for mouse hit testing. Later
// additions win, so adding in paint order makes the topmost widget the hit.
type HitGrid struct {
	width   int
	height  int
	cells   []int
	widgets []Widget
}

// NewHitGrid creates a new hit grid with the given dimensions.
func NewHitGrid(width, height int) *HitGrid {
	grid := &HitGrid{}
	grid.Resize(width, height)
	return grid
}

// Resize updates the hit grid dimensions and clears it.
func (g *HitGrid) Resize(width, height int) {
	if width == g.width && height == g.height {
		g.Clear()
		return
	}
	g.width = max(width, 0)
	g.height = max(height, 0)
	g.cells = make([]int, g.width*g.height)
	g.Clear()
}

// Clear resets the grid contents.
func (g *HitGrid) Clear() {
	for i := range g.cells {
		g.cells[i] = -1
	}
	g.widgets = g.widgets[:0]
}

// Add records a widget occupying bounds. Fractional bounds are rounded to
// the cells they cover the same way the DirectCanvas rounds them.
func (g *HitGrid) Add(widget Widget, bounds geometry.Rect) {
	if widget == nil || len(g.cells) == 0 {
		return
	}
	x0 := max(int(math.Round(bounds.X)), 0)
	y0 := max(int(math.Round(bounds.Y)), 0)
	x1 := min(int(math.Round(bounds.Right())), g.width)
	y1 := min(int(math.Round(bounds.Bottom())), g.height)
	if x1 <= x0 || y1 <= y0 {
		return
	}

	id := len(g.widgets)
	g.widgets = append(g.widgets, widget)

	for y := y0; y < y1; y++ {
		row := y * g.width
		for x := x0; x < x1; x++ {
			g.cells[row+x] = id
		}
	}
}

// AddTree records every Bounded widget under root in paint order.
func (g *HitGrid) AddTree(root Widget) {
	Walk(root, func(w Widget) bool {
		if b, ok := w.(Bounded); ok {
			g.Add(w, b.Bounds())
		}
		return true
	})
}

// WidgetAt returns the widget at the given cell.
func (g *HitGrid) WidgetAt(x, y int) Widget {
	if x < 0 || y < 0 || x >= g.width || y >= g.height {
		return nil
	}
	idx := g.cells[y*g.width+x]
	if idx < 0 || idx >= len(g.widgets) {
		return nil
	}
	return g.widgets[idx]
}
