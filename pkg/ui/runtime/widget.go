// Package runtime provides the widget runtime: the widget protocol, input
// events, the flex layout container, focus handling and the Screen and App
// that drive measure, layout, paint and flush for each frame.
package runtime

import (
	"github.com/odvcencio/gridkit/pkg/ui/canvas"
	"github.com/odvcencio/gridkit/pkg/ui/geometry"
)

// Widget is the core interface all UI components implement.
type Widget interface {
	// Measure returns the desired size. The result must satisfy constraints.
	Measure(constraints geometry.Constraints) geometry.Size

	// Layout assigns final bounds. The widget stores them for Paint and lays
	// out its children.
	Layout(bounds geometry.Rect) LayoutResult

	// Paint draws the widget using the bounds from the last Layout. Pushes
	// onto the canvas must be popped before Paint returns.
	Paint(c canvas.Canvas)

	// Event handles an input event. A nil result means not handled; any other
	// value is a payload for the caller (see commands.go).
	Event(ev Event) any

	// Children lists direct children, in paint order.
	Children() []Widget
}

// LayoutResult is returned from Layout.
type LayoutResult struct {
	Size geometry.Size
}

// Focusable extends Widget for widgets that can receive keyboard focus.
type Focusable interface {
	Widget

	// CanFocus returns true if this widget can currently receive focus.
	CanFocus() bool

	// Focus is called when the widget gains focus.
	Focus()

	// Blur is called when the widget loses focus.
	Blur()

	// IsFocused returns true if this widget currently has focus.
	IsFocused() bool
}

// Bounded is implemented by widgets that expose their laid-out bounds.
// The Screen uses it for mouse hit testing.
type Bounded interface {
	Bounds() geometry.Rect
}

// Walk visits w and its descendants depth-first in paint order. Returning
// false from fn skips the node's children.
func Walk(w Widget, fn func(Widget) bool) {
	if w == nil {
		return
	}
	if !fn(w) {
		return
	}
	for _, child := range w.Children() {
		Walk(child, fn)
	}
}

// Dispatch sends ev to each widget in order and returns the first non-nil
// result.
func Dispatch(ev Event, widgets ...Widget) any {
	for _, w := range widgets {
		if w == nil {
			continue
		}
		if res := w.Event(ev); res != nil {
			return res
		}
	}
	return nil
}

// Leaf provides bounds bookkeeping and no-op defaults for widgets without
// children. Embed it and override what the widget needs.
type Leaf struct {
	bounds geometry.Rect
}

// Layout stores bounds.
func (l *Leaf) Layout(bounds geometry.Rect) LayoutResult {
	l.bounds = bounds
	return LayoutResult{Size: bounds.Size()}
}

// Bounds returns the bounds from the last Layout.
func (l *Leaf) Bounds() geometry.Rect { return l.bounds }

func (l *Leaf) Event(Event) any { return nil }

func (l *Leaf) Children() []Widget { return nil }
