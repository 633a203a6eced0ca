// Package widgets provides reusable widgets for terminal UIs. Every widget
// here is a runtime.Brick and takes its default colors from the screen
// theme.
package widgets

import (
	"math"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/odvcencio/gridkit/pkg/ui/draw"
	"github.com/odvcencio/gridkit/pkg/ui/geometry"
	"github.com/odvcencio/gridkit/pkg/ui/runtime"
)

// Base provides common functionality for widgets.
// Embed this in widget structs to get default implementations.
type Base struct {
	bounds      geometry.Rect
	focused     bool
	needsRender bool
}

// Layout stores the assigned bounds.
func (b *Base) Layout(bounds geometry.Rect) runtime.LayoutResult {
	if b.bounds != bounds {
		b.bounds = bounds
		b.needsRender = true
	}
	return runtime.LayoutResult{Size: bounds.Size()}
}

// Bounds returns the widget's assigned bounds.
func (b *Base) Bounds() geometry.Rect {
	return b.bounds
}

// Event ignores everything by default.
func (b *Base) Event(runtime.Event) any {
	return nil
}

// Children returns nil by default.
func (b *Base) Children() []runtime.Widget {
	return nil
}

// CanFocus returns false by default.
func (b *Base) CanFocus() bool {
	return false
}

// Focus marks the widget as focused.
func (b *Base) Focus() {
	b.focused = true
}

// Blur marks the widget as unfocused.
func (b *Base) Blur() {
	b.focused = false
}

// IsFocused returns whether the widget is focused.
func (b *Base) IsFocused() bool {
	return b.focused
}

// Invalidate marks the widget as needing a render pass.
func (b *Base) Invalidate() {
	b.needsRender = true
}

// NeedsRender reports whether the widget needs to re-render.
func (b *Base) NeedsRender() bool {
	return b.needsRender
}

// ClearInvalidation clears the render-needed flag.
func (b *Base) ClearInvalidation() {
	b.needsRender = false
}

// cells returns the bounds as whole cell counts.
func (b *Base) cells() (w, h int) {
	return cellCount(b.bounds.Width), cellCount(b.bounds.Height)
}

func cellCount(v float64) int {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if math.IsInf(v, 1) {
		return math.MaxInt32
	}
	return int(v)
}

// pick returns c unless it is the zero color, in which case fallback.
func pick(c, fallback draw.Color) draw.Color {
	if c == (draw.Color{}) {
		return fallback
	}
	return c
}

// truncateString cuts s to maxWidth display columns, ending in "..." when
// there is room for more than the dots.
func truncateString(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	if maxWidth <= 3 {
		return runewidth.Truncate(s, maxWidth, "")
	}
	return runewidth.Truncate(s, maxWidth, "...")
}

// truncateTitle shortens a title to maxWidth columns with a trailing "…",
// preferring to cut at a "│" section separator, then at a space in the last
// third.
func truncateTitle(title string, maxWidth int) string {
	if runewidth.StringWidth(title) <= maxWidth {
		return title
	}
	if maxWidth <= 1 {
		return runewidth.Truncate(title, maxWidth, "")
	}
	cut := runewidth.Truncate(title, maxWidth-1, "")
	if i := strings.LastIndex(cut, "│"); i > 0 {
		cut = cut[:i]
	} else if i := strings.LastIndexByte(cut, ' '); i > len(cut)*2/3 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ") + "…"
}
